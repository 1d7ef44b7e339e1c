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

// DefaultOllamaURL is the local Ollama endpoint
const DefaultOllamaURL = "http://localhost:11434"

// Ollama generates text with a local vision model served by Ollama
type Ollama struct {
	URL         string
	Model       string
	Temperature float64
	HTTPClient  *http.Client
}

// NewOllama returns an Ollama generator
func NewOllama(url, model string) *Ollama {
	if url == "" {
		url = DefaultOllamaURL
	}
	if model == "" {
		model = "llava"
	}
	return &Ollama{
		URL:         strings.TrimRight(url, "/"),
		Model:       model,
		Temperature: 0.7,
		HTTPClient:  &http.Client{},
	}
}

// Generate sends the prompt with base64 images to /api/generate
func (o *Ollama) Generate(ctx context.Context, prompt string, images []models.FileEntry) (string, error) {
	encoded := make([]string, len(images))
	for i, img := range images {
		encoded[i] = base64.StdEncoding.EncodeToString(img.Contents)
	}

	requestBody, err := json.Marshal(map[string]interface{}{
		"model":  o.Model,
		"prompt": prompt,
		"images": encoded,
		"stream": false,
		"options": map[string]interface{}{
			"temperature": o.Temperature,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.URL+"/api/generate", bytes.NewBuffer(requestBody))
	if err != nil {
		return "", fmt.Errorf("failed to create new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

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
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response body: %w", err)
	}

	return response.Response, nil
}
