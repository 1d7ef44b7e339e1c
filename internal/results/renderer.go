package results

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/photostudio/photostudio/internal/i18n"
	"github.com/photostudio/photostudio/internal/models"
)

// Renderer turns payloads into artifacts and keeps the last rendered list
// until the form is reset
type Renderer struct {
	printer   *i18n.Printer
	artifacts []models.Artifact
	summary   string
	mu        sync.Mutex
}

func NewRenderer(printer *i18n.Printer) *Renderer {
	return &Renderer{printer: printer}
}

// Render normalizes the payload. Entries without an output path are skipped.
func (r *Renderer) Render(p Payload) ([]models.Artifact, string) {
	var artifacts []models.Artifact
	var summary string

	switch p.Kind {
	case KindSingle:
		if path := p.Single.Path(); path != "" {
			artifacts = append(artifacts, models.Artifact{
				OutputPath: path,
				Label:      r.printer.Sprintf(i18n.MsgResult),
			})
		}
	case KindList:
		for i, res := range p.List {
			path := res.Path()
			if path == "" {
				slog.Debug("Skipping result without output path", "index", i)
				continue
			}
			label := r.printer.Sprintf(i18n.MsgResult)
			if len(p.List) > 1 {
				label = r.printer.Sprintf(i18n.MsgPhotoN, i+1)
			}
			artifacts = append(artifacts, models.Artifact{OutputPath: path, Label: label})
		}
	case KindSocial:
		if p.Social == nil {
			break
		}
		artifacts = renderSocial(p.Social)
		total := p.Social.TotalCreated
		if total == 0 {
			total = len(artifacts)
		}
		summary = r.printer.Sprintf(i18n.MsgSocialSummary, total, p.Social.OriginalDimensions.String())
	}

	r.mu.Lock()
	r.artifacts = artifacts
	r.summary = summary
	r.mu.Unlock()

	return artifacts, summary
}

func renderSocial(bundle *SocialBundle) []models.Artifact {
	platforms := make([]string, 0, len(bundle.OptimizedVersions))
	for platform := range bundle.OptimizedVersions {
		platforms = append(platforms, platform)
	}
	sort.Strings(platforms)

	artifacts := make([]models.Artifact, 0, len(platforms))
	for _, platform := range platforms {
		version := bundle.OptimizedVersions[platform]
		if version.Path == "" {
			continue
		}

		label := version.Name
		if label == "" {
			label = platform
		}
		dimensions := version.Dimensions.String()
		if dimensions == "" {
			dimensions = version.Size.String()
		}

		artifacts = append(artifacts, models.Artifact{
			OutputPath: version.Path,
			Label:      label,
			Metadata: &models.ArtifactMetadata{
				Dimensions: dimensions,
				FileSize:   version.FileSize.String(),
			},
		})
	}
	return artifacts
}

// Artifacts returns the last rendered artifacts
func (r *Renderer) Artifacts() ([]models.Artifact, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Artifact, len(r.artifacts))
	copy(out, r.artifacts)
	return out, r.summary
}

// Reset discards the rendered artifacts
func (r *Renderer) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.artifacts = nil
	r.summary = ""
}
