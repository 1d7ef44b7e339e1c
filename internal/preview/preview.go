package preview

import (
	"bytes"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/photostudio/photostudio/internal/models"
	"github.com/photostudio/photostudio/internal/pool"
)

// DefaultSize is the thumbnail edge in pixels
const DefaultSize = 200

// Item describes one pool entry in a preview list
type Item struct {
	Index     int    `json:"index" yaml:"index"`
	Name      string `json:"name" yaml:"name"`
	Size      string `json:"size" yaml:"size"`
	Width     int    `json:"width,omitempty" yaml:"width,omitempty"`
	Height    int    `json:"height,omitempty" yaml:"height,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty" yaml:"thumbnail,omitempty"`
}

// Dimensions reads the image size without decoding the pixels
func Dimensions(entry models.FileEntry) (int, int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(entry.Contents))
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read dimensions of %s: %w", entry.Name, err)
	}
	return cfg.Width, cfg.Height, nil
}

// Thumbnail returns a square thumbnail of the entry
func Thumbnail(entry models.FileEntry, size int) (image.Image, error) {
	if size <= 0 {
		size = DefaultSize
	}
	img, err := imaging.Decode(bytes.NewReader(entry.Contents), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", entry.Name, err)
	}
	return imaging.Thumbnail(img, size, size, imaging.Lanczos), nil
}

// Build lists the entries in pool order. When outDir is set, a JPEG thumbnail
// is written there for every entry that decodes.
func Build(entries []models.FileEntry, outDir string, size int) ([]Item, error) {
	if outDir != "" {
		if err := os.MkdirAll(outDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create preview directory: %w", err)
		}
	}

	items := make([]Item, 0, len(entries))
	for i, entry := range entries {
		item := Item{
			Index: i,
			Name:  entry.Name,
			Size:  pool.FormatFileSize(entry.SizeBytes),
		}

		width, height, err := Dimensions(entry)
		if err != nil {
			slog.Warn("Could not read image dimensions", "file", entry.Name, "error", err)
			items = append(items, item)
			continue
		}
		item.Width, item.Height = width, height

		if outDir != "" {
			thumb, err := Thumbnail(entry, size)
			if err != nil {
				slog.Warn("Could not create thumbnail", "file", entry.Name, "error", err)
				items = append(items, item)
				continue
			}
			path := filepath.Join(outDir, thumbnailName(i, entry.Name))
			if err := imaging.Save(thumb, path, imaging.JPEGQuality(85)); err != nil {
				return nil, fmt.Errorf("failed to save thumbnail: %w", err)
			}
			item.Thumbnail = path
		}

		items = append(items, item)
	}
	return items, nil
}

func thumbnailName(index int, name string) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	return fmt.Sprintf("%02d_%s.jpg", index+1, base)
}
