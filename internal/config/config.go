package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/mlorentedev/promptune/internal/adapter"
	"github.com/mlorentedev/promptune/internal/tone"
)

// Config holds all application configuration.
type Config struct {
	Port           int           `yaml:"port"`
	OllamaURL      string        `yaml:"ollama_url"`
	Model          string        `yaml:"model"`
	Backend        adapter.Kind  `yaml:"backend"`
	ToneMode       tone.Mode     `yaml:"tone_mode"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	RateLimit      int           `yaml:"rate_limit"`
	LogLevel       string        `yaml:"log_level"`
	LogFormat      string        `yaml:"log_format"`
}

func defaults() Config {
	return Config{
		Port:           5000,
		OllamaURL:      adapter.DefaultBaseURL,
		Model:          "deepseek-r1:1.5b",
		Backend:        adapter.KindGenerate,
		ToneMode:       tone.ModeClosed,
		RequestTimeout: 120 * time.Second,
		RateLimit:      10,
		LogLevel:       "info",
		LogFormat:      "text",
	}
}

// Load reads configuration in layers: defaults, then the YAML file (if path
// is non-empty), then a .env file in the working directory, then PROMPTUNE_*
// environment variables. Values already in the environment win over .env.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse yaml: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("config: read .env: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("PROMPTUNE_PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: invalid PROMPTUNE_PORT %q: %w", v, err)
		}
		cfg.Port = p
	}
	if v := os.Getenv("PROMPTUNE_OLLAMA_URL"); v != "" {
		cfg.OllamaURL = v
	}
	if v := os.Getenv("PROMPTUNE_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("PROMPTUNE_BACKEND"); v != "" {
		cfg.Backend = adapter.Kind(v)
	}
	if v := os.Getenv("PROMPTUNE_TONE_MODE"); v != "" {
		cfg.ToneMode = tone.Mode(v)
	}
	if v := os.Getenv("PROMPTUNE_REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: invalid PROMPTUNE_REQUEST_TIMEOUT %q: %w", v, err)
		}
		cfg.RequestTimeout = d
	}
	if v := os.Getenv("PROMPTUNE_RATE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: invalid PROMPTUNE_RATE_LIMIT %q: %w", v, err)
		}
		cfg.RateLimit = n
	}
	if v := os.Getenv("PROMPTUNE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("PROMPTUNE_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	return nil
}

// Validate rejects values the rest of the program cannot start with.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: port %d out of range", c.Port)
	}
	if c.Model == "" {
		return errors.New("config: model is required")
	}
	switch c.Backend {
	case adapter.KindGenerate, adapter.KindChat, adapter.KindMock:
	default:
		return fmt.Errorf("config: unsupported backend %q (generate, chat, mock)", c.Backend)
	}
	switch c.ToneMode {
	case tone.ModeClosed, tone.ModeFree:
	default:
		return fmt.Errorf("config: unsupported tone_mode %q (closed, free)", c.ToneMode)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("config: request_timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.RateLimit <= 0 {
		return fmt.Errorf("config: rate_limit must be positive, got %d", c.RateLimit)
	}
	return nil
}
