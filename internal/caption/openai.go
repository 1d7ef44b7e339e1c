package caption

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/photostudio/photostudio/internal/models"
)

// DefaultOpenAIURL is the chat completions endpoint
const DefaultOpenAIURL = "https://api.openai.com/v1/chat/completions"

// OpenAI generates text with an OpenAI vision chat model
type OpenAI struct {
	APIKey      string
	Model       string
	URL         string
	Temperature float64
	HTTPClient  *http.Client
}

// NewOpenAI returns an OpenAI generator
func NewOpenAI(apiKey, model string) *OpenAI {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAI{
		APIKey:      apiKey,
		Model:       model,
		URL:         DefaultOpenAIURL,
		Temperature: 0.7,
		HTTPClient:  &http.Client{},
	}
}

type openAIPart struct {
	Type     string          `json:"type"`
	Text     string          `json:"text,omitempty"`
	ImageURL *openAIImageURL `json:"image_url,omitempty"`
}

type openAIImageURL struct {
	URL string `json:"url"`
}

// Generate sends the prompt and the images as data URLs in one user message
func (o *OpenAI) Generate(ctx context.Context, prompt string, images []models.FileEntry) (string, error) {
	if o.APIKey == "" {
		return "", fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}

	content := []openAIPart{{Type: "text", Text: prompt}}
	for _, img := range images {
		content = append(content, openAIPart{
			Type:     "image_url",
			ImageURL: &openAIImageURL{URL: dataURL(img)},
		})
	}

	requestBody, err := json.Marshal(map[string]interface{}{
		"model": o.Model,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": content,
			},
		},
		"temperature": o.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.URL, bytes.NewBuffer(requestBody))
	if err != nil {
		return "", fmt.Errorf("failed to create new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.APIKey)

	resp, err := o.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("received non-200 status code: %d - %s", resp.StatusCode, string(body))
	}

	var response struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response body: %w", err)
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no choices returned from OpenAI")
	}

	return response.Choices[0].Message.Content, nil
}

func dataURL(img models.FileEntry) string {
	mime := img.MimeType
	if !strings.HasPrefix(mime, "image/") {
		mime = "image/jpeg"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(img.Contents)
}
