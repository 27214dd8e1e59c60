package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ErrMissingConfig marks a fatal configuration problem: a required credential
// or address is absent. Callers surface it immediately and never retry.
var ErrMissingConfig = errors.New("missing required configuration")

// Config holds everything the publisher reads from the environment. A .env
// file in the working directory is honored when present (loaded in main
// before parsing).
type Config struct {
	// AI text service (OpenAI-compatible chat completions).
	AIProvider string `env:"AI_PROVIDER" envDefault:"openai"`
	AIModel    string `env:"AI_MODEL" envDefault:"gpt-4o-mini"`
	AIAPIKey   string `env:"AI_API_KEY"`
	AIBaseURL  string `env:"AI_BASE_URL"`

	// Outbound mail relay.
	SMTPHost     string `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"465"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASSWORD"`

	// FromAddress defaults to SMTPUser when empty. PostAddress is the
	// blog platform's post-by-email address, the fixed destination of
	// every run.
	FromAddress string `env:"FROM_ADDRESS"`
	PostAddress string `env:"POST_EMAIL_ADDRESS"`

	// Persisted files.
	StatePath  string `env:"STATE_PATH" envDefault:"topic_state.json"`
	RunLogPath string `env:"RUN_LOG_PATH" envDefault:"publish_log.jsonl"`

	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
	ServerAddr string `env:"SERVER_ADDR" envDefault:":8080"`
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FromAddress == "" {
		cfg.FromAddress = cfg.SMTPUser
	}
	return cfg, nil
}

// ValidateGeneration checks the settings needed to talk to the AI service.
func (c *Config) ValidateGeneration() error {
	if c.AIAPIKey == "" {
		return fmt.Errorf("%w: AI_API_KEY", ErrMissingConfig)
	}
	if c.AIModel == "" {
		return fmt.Errorf("%w: AI_MODEL", ErrMissingConfig)
	}
	return nil
}

// ValidateDelivery checks the settings needed to send mail. Dry runs and the
// preview server skip this so content can be generated without SMTP
// credentials.
func (c *Config) ValidateDelivery() error {
	var missing []string
	if c.SMTPUser == "" {
		missing = append(missing, "SMTP_USER")
	}
	if c.SMTPPassword == "" {
		missing = append(missing, "SMTP_PASSWORD")
	}
	if c.PostAddress == "" {
		missing = append(missing, "POST_EMAIL_ADDRESS")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %v", ErrMissingConfig, missing)
	}
	return nil
}
