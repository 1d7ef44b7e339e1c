package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultAPIURL is the processing server the CLI talks to
const DefaultAPIURL = "http://localhost:8000"

// Config holds the CLI settings
type Config struct {
	APIURL      string `yaml:"api_url"`
	TokenFile   string `yaml:"token_file"`
	Lang        string `yaml:"lang"`
	HistoryFile string `yaml:"history_file"`
	DatabaseURL string `yaml:"database_url"`
	GeminiKey   string `yaml:"gemini_api_key"`
	GeminiModel string `yaml:"gemini_model"`

	CaptionProvider string `yaml:"caption_provider"`
	OllamaURL       string `yaml:"ollama_url"`
	OllamaModel     string `yaml:"ollama_model"`
	OpenAIKey       string `yaml:"openai_api_key"`
	OpenAIModel     string `yaml:"openai_model"`
}

// Load reads the optional YAML file at path and overlays environment
// variables. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	dir := configDir()
	cfg.APIURL = getEnv("PHOTOSTUDIO_API_URL", cfg.APIURL, DefaultAPIURL)
	cfg.TokenFile = getEnv("PHOTOSTUDIO_TOKEN_FILE", cfg.TokenFile, filepath.Join(dir, "token.yaml"))
	cfg.Lang = getEnv("PHOTOSTUDIO_LANG", cfg.Lang, "ru")
	cfg.HistoryFile = getEnv("PHOTOSTUDIO_HISTORY", cfg.HistoryFile, filepath.Join(dir, "history.yaml"))
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL, "")
	cfg.GeminiKey = getEnv("GEMINI_API_KEY", cfg.GeminiKey, "")
	cfg.GeminiModel = getEnv("GEMINI_MODEL", cfg.GeminiModel, "gemini-1.5-flash")
	cfg.CaptionProvider = getEnv("PHOTOSTUDIO_CAPTION_PROVIDER", cfg.CaptionProvider, "gemini")
	cfg.OllamaURL = getEnv("OLLAMA_URL", cfg.OllamaURL, "http://localhost:11434")
	cfg.OllamaModel = getEnv("OLLAMA_MODEL", cfg.OllamaModel, "llava")
	cfg.OpenAIKey = getEnv("OPENAI_API_KEY", cfg.OpenAIKey, "")
	cfg.OpenAIModel = getEnv("OPENAI_MODEL", cfg.OpenAIModel, "gpt-4o-mini")

	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	return cfg, nil
}

// DefaultPath is the config file location under the user config directory
func DefaultPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// getEnv prefers the environment, then the file value, then the default
func getEnv(key, fileValue, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	if fileValue != "" {
		return fileValue
	}
	return fallback
}

func configDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "photostudio")
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "photostudio")
	}
	return ".photostudio"
}
