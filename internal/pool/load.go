package pool

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/photostudio/photostudio/internal/models"
)

// LoadPaths reads files from disk into entries ready for AddFiles.
// Directories contribute their regular files in name order. Files over the
// size limit are returned without contents so validation can reject them.
func LoadPaths(paths []string) ([]models.FileEntry, error) {
	var entries []models.FileEntry
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", p, err)
		}

		if !info.IsDir() {
			entry, err := loadFile(p, info.Size())
			if err != nil {
				return nil, err
			}
			entries = append(entries, entry)
			continue
		}

		dirEntries, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read directory %s: %w", p, err)
		}
		sort.Slice(dirEntries, func(i, j int) bool { return dirEntries[i].Name() < dirEntries[j].Name() })
		for _, de := range dirEntries {
			if !de.Type().IsRegular() {
				continue
			}
			fi, err := de.Info()
			if err != nil {
				return nil, fmt.Errorf("failed to stat %s: %w", de.Name(), err)
			}
			entry, err := loadFile(filepath.Join(p, de.Name()), fi.Size())
			if err != nil {
				return nil, err
			}
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func loadFile(path string, size int64) (models.FileEntry, error) {
	entry := models.FileEntry{
		Name:      filepath.Base(path),
		SizeBytes: size,
	}

	f, err := os.Open(path)
	if err != nil {
		return entry, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	if size > models.MaxFileSize {
		head := make([]byte, 512)
		n, _ := io.ReadFull(f, head)
		entry.MimeType = detectMimeType(path, head[:n])
		slog.Debug("Skipping contents of oversized file", "file", path, "size", size)
		return entry, nil
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return entry, fmt.Errorf("failed to read %s: %w", path, err)
	}
	entry.Contents = data
	entry.SizeBytes = int64(len(data))
	entry.MimeType = detectMimeType(path, data)
	return entry, nil
}

// detectMimeType prefers the extension, like a browser's declared type,
// and falls back to content sniffing.
func detectMimeType(path string, data []byte) string {
	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if mimeType == "" && len(data) > 0 {
		mimeType = http.DetectContentType(data)
	}
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	return mimeType
}

// FormatFileSize renders a byte count as "0 Bytes", "512 Bytes", "1.5 KB", ...
func FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}

	const k = 1024
	sizes := []string{"Bytes", "KB", "MB", "GB"}
	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(k)))
	if i >= len(sizes) {
		i = len(sizes) - 1
	}

	value := float64(bytes) / math.Pow(k, float64(i))
	return strconv.FormatFloat(math.Round(value*100)/100, 'f', -1, 64) + " " + sizes[i]
}
