package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/photostudio/photostudio/internal/auth"
	"github.com/photostudio/photostudio/internal/models"
)

// Client talks to the remote image-processing API
type Client struct {
	BaseURL    string
	tokens     auth.TokenProvider
	httpClient *http.Client
}

// APIError is a non-2xx response. Detail carries the server's "detail"
// field and is empty when the body held no parseable JSON detail.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("server error (HTTP %d)", e.StatusCode)
}

// NewClient creates a new API client. The token provider may be nil.
// No client-side timeout is set; callers bound requests through their context.
func NewClient(baseURL string, tokens auth.TokenProvider) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		httpClient: &http.Client{},
	}
}

func (c *Client) authorize(req *http.Request) {
	if c.tokens == nil {
		return
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", req.URL.Path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Detail: parseDetail(body)}
		slog.Debug("API returned error status", "path", req.URL.Path, "status", resp.StatusCode, "body", string(body))
		return nil, apiErr
	}

	return body, nil
}

// parseDetail extracts a string "detail" field, or "" when the body is not
// JSON or detail is not a string
func parseDetail(body []byte) string {
	var errBody struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &errBody); err != nil || len(errBody.Detail) == 0 {
		return ""
	}
	var detail string
	if err := json.Unmarshal(errBody.Detail, &detail); err != nil {
		return ""
	}
	return detail
}

// PostMultipart sends form to endpoint and returns the raw success body
func (c *Client) PostMultipart(ctx context.Context, endpoint string, form *Form) ([]byte, error) {
	body, contentType, err := form.Encode()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	return c.do(req)
}

func (c *Client) postJSON(ctx context.Context, endpoint string, payload any, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+endpoint, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.do(req)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login exchanges credentials for an access token
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var resp tokenResponse
	err := c.postJSON(ctx, "/api/login", map[string]string{
		"username": username,
		"password": password,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.AccessToken, nil
}

// Register creates an account and returns its access token
func (c *Client) Register(ctx context.Context, username, email, password string) (string, error) {
	var resp tokenResponse
	err := c.postJSON(ctx, "/api/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.AccessToken, nil
}

// MyImages lists the images processed by the signed-in user
func (c *Client) MyImages(ctx context.Context) ([]models.RemoteImage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api/my-images", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Images []models.RemoteImage `json:"images"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode my-images response: %w", err)
	}
	return resp.Images, nil
}

// Download fetches an artifact by its server path (e.g. /processed/x.png)
// into dir and returns the local file path. index prefixes the local name so
// artifacts sharing a base name do not overwrite each other.
func (c *Client) Download(ctx context.Context, outputPath, dir string, index int) (string, error) {
	target := outputPath
	if !strings.HasPrefix(outputPath, "http://") && !strings.HasPrefix(outputPath, "https://") {
		target = c.BaseURL + "/" + strings.TrimLeft(outputPath, "/")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	data, err := c.do(req)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	localPath := filepath.Join(dir, localName(index, outputPath))
	if err := os.WriteFile(localPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", localPath, err)
	}

	return localPath, nil
}

// localName derives the file name for the index-th download. The server path
// only contributes its base name; anything that could leave dir becomes
// "result".
func localName(index int, outputPath string) string {
	name := path.Base(outputPath)
	if u, err := url.Parse(outputPath); err == nil {
		name = path.Base(u.Path)
	}
	switch name {
	case "", ".", "..", "/":
		name = "result"
	}
	if strings.ContainsAny(name, `/\`) {
		name = "result"
	}
	return fmt.Sprintf("%02d_%s", index+1, name)
}
