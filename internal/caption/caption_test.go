package caption

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/photostudio/photostudio/internal/models"
)

type fakeGenerator struct {
	reply  string
	err    error
	prompt string
	images []models.FileEntry
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string, images []models.FileEntry) (string, error) {
	f.prompt = prompt
	f.images = images
	return f.reply, f.err
}

func TestClean(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Summer by the sea", "Summer by the sea"},
		{"  \"Summer by the sea\"  ", "Summer by the sea"},
		{"«Лето»", "Лето"},
		{"First line\nSecond line", "First line"},
		{"**Bold caption**", "Bold caption"},
		{strings.Repeat("a", 60), strings.Repeat("a", MaxLength)},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Clean(tt.input); got != tt.expected {
			t.Errorf("Clean(%q): expected %q, got %q", tt.input, tt.expected, got)
		}
	}
}

func TestSuggestUsesFirstImage(t *testing.T) {
	gen := &fakeGenerator{reply: "\"Golden hour\"\n"}
	s := NewSuggester(gen, "en")

	images := []models.FileEntry{{Name: "a.jpg"}, {Name: "b.jpg"}}
	got, err := s.Suggest(context.Background(), images)
	if err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}
	if got != "Golden hour" {
		t.Errorf("Expected Golden hour, got %q", got)
	}
	if len(gen.images) != 1 || gen.images[0].Name != "a.jpg" {
		t.Errorf("Expected only a.jpg to be sent, got %v", gen.images)
	}
	if !strings.Contains(gen.prompt, `"en"`) {
		t.Errorf("Expected prompt to name the language, got %q", gen.prompt)
	}
}

func TestSuggestErrors(t *testing.T) {
	if _, err := NewSuggester(&fakeGenerator{reply: "x"}, "").Suggest(context.Background(), nil); err == nil {
		t.Error("Expected error without images")
	}

	boom := errors.New("quota exceeded")
	_, err := NewSuggester(&fakeGenerator{err: boom}, "ru").Suggest(context.Background(), []models.FileEntry{{Name: "a.jpg"}})
	if !errors.Is(err, boom) {
		t.Errorf("Expected wrapped generator error, got %v", err)
	}

	if _, err := NewSuggester(&fakeGenerator{reply: "  \"\" "}, "ru").Suggest(context.Background(), []models.FileEntry{{Name: "a.jpg"}}); err == nil {
		t.Error("Expected error for empty suggestion")
	}
}

func TestImageFormat(t *testing.T) {
	tests := map[string]string{
		"image/png":  "png",
		"image/jpeg": "jpeg",
		"image/webp": "webp",
		"":           "jpeg",
		"text/plain": "jpeg",
	}
	for input, expected := range tests {
		if got := imageFormat(input); got != expected {
			t.Errorf("imageFormat(%q): expected %s, got %s", input, expected, got)
		}
	}
}

func TestGeminiRequiresKey(t *testing.T) {
	g := NewGemini("", "")
	if g.Model != DefaultModel {
		t.Errorf("Expected default model %s, got %s", DefaultModel, g.Model)
	}
	if _, err := g.Generate(context.Background(), "hi", nil); err == nil {
		t.Error("Expected error without API key")
	}
}
