package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	GeminiAPIKey string `env:"GEMINI_API_KEY,required,notEmpty"`
	Model        string `env:"ADVENTURE_MODEL" envDefault:"gemini-2.5-flash"`

	// SystemPromptPath is the gameplay system instruction sent with every turn.
	SystemPromptPath string `env:"ADVENTURE_SYSTEM_PROMPT" envDefault:"prompts/gameplay.txt"`
	TranscriptPath   string `env:"ADVENTURE_TRANSCRIPT" envDefault:"transcript.yaml"`

	LogPath  string     `env:"ADVENTURE_LOG_PATH" envDefault:"adventure.log"`
	LogLevel slog.Level `env:"ADVENTURE_LOG_LEVEL" envDefault:"INFO"`

	// RequestTimeout bounds a single backend call. Zero disables the deadline.
	RequestTimeout time.Duration `env:"ADVENTURE_REQUEST_TIMEOUT" envDefault:"2m"`

	Telemetry bool `env:"ADVENTURE_TELEMETRY" envDefault:"false"`
}

// LoadConfig loads the configuration from environment variables. A .env file
// in the working directory is read first when present; variables already set
// in the environment take precedence.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse reads the configuration from the process environment only.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.RequestTimeout < 0 {
		return nil, fmt.Errorf("ADVENTURE_REQUEST_TIMEOUT must not be negative, got %s", cfg.RequestTimeout)
	}
	return &cfg, nil
}

// LoadSystemPrompt reads the gameplay system instruction. A missing or blank
// file is an error; there is no built-in fallback.
func (c *Config) LoadSystemPrompt() (string, error) {
	data, err := os.ReadFile(c.SystemPromptPath)
	if err != nil {
		return "", fmt.Errorf("read system prompt: %w", err)
	}
	prompt := strings.TrimSpace(string(data))
	if prompt == "" {
		return "", fmt.Errorf("system prompt %s is empty", c.SystemPromptPath)
	}
	return prompt, nil
}
