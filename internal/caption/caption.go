package caption

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/photostudio/photostudio/internal/models"
)

// MaxLength is the longest caption that fits under a polaroid print
const MaxLength = 40

const prompt = `Write a short caption for a polaroid photo print of this image.
Reply with the caption only, at most %d characters, no quotes, in language %q.`

// Generator produces text from a prompt and images
type Generator interface {
	Generate(ctx context.Context, prompt string, images []models.FileEntry) (string, error)
}

// Settings selects and configures the caption backend
type Settings struct {
	Provider    string
	GeminiKey   string
	GeminiModel string
	OllamaURL   string
	OllamaModel string
	OpenAIKey   string
	OpenAIModel string
}

// NewGenerator picks the caption backend by provider name
func NewGenerator(s Settings) (Generator, error) {
	switch strings.ToLower(s.Provider) {
	case "", "gemini":
		return NewGemini(s.GeminiKey, s.GeminiModel), nil
	case "ollama":
		return NewOllama(s.OllamaURL, s.OllamaModel), nil
	case "openai":
		return NewOpenAI(s.OpenAIKey, s.OpenAIModel), nil
	default:
		return nil, fmt.Errorf("unknown caption provider %q", s.Provider)
	}
}

// Suggester proposes captions for polaroid collages
type Suggester struct {
	generator Generator
	lang      string
}

func NewSuggester(generator Generator, lang string) *Suggester {
	if lang == "" {
		lang = "ru"
	}
	return &Suggester{generator: generator, lang: lang}
}

// Suggest returns a caption for the first image
func (s *Suggester) Suggest(ctx context.Context, images []models.FileEntry) (string, error) {
	if len(images) == 0 {
		return "", fmt.Errorf("no image to caption")
	}

	slog.Info("Requesting caption suggestion", "file", images[0].Name)
	text, err := s.generator.Generate(ctx, fmt.Sprintf(prompt, MaxLength, s.lang), images[:1])
	if err != nil {
		return "", fmt.Errorf("failed to suggest caption: %w", err)
	}

	caption := Clean(text)
	if caption == "" {
		return "", fmt.Errorf("empty caption suggestion")
	}
	return caption, nil
}

// Clean keeps the first line of a model reply, strips wrapping quotes and
// truncates it to MaxLength runes
func Clean(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	text = strings.Trim(strings.TrimSpace(text), "\"'«»“”`*")
	text = strings.TrimSpace(text)

	runes := []rune(text)
	if len(runes) > MaxLength {
		text = strings.TrimSpace(string(runes[:MaxLength]))
	}
	return text
}
