// Package config loads the server configuration from defaults, an optional
// yaml file, and environment overrides, in that order.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full server configuration.
type Config struct {
	HTTP struct {
		Addr string `yaml:"addr"`
	} `yaml:"http"`
	Upstream struct {
		BaseURL       string        `yaml:"base_url"`
		Timeout       time.Duration `yaml:"timeout"`
		RetryAttempts int           `yaml:"retry_attempts"`
	} `yaml:"upstream"`
	Resources struct {
		ListLimit int `yaml:"list_limit"`
	} `yaml:"resources"`
	SSE struct {
		SuccessCloseDelay time.Duration `yaml:"success_close_delay"`
		ErrorCloseDelay   time.Duration `yaml:"error_close_delay"`
	} `yaml:"sse"`
	Server struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"server"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Default returns the configuration used when no file or overrides apply.
func Default() Config {
	var cfg Config
	cfg.HTTP.Addr = ":8080"
	cfg.Upstream.BaseURL = "https://jsonplaceholder.typicode.com"
	cfg.Upstream.Timeout = 10 * time.Second
	cfg.Upstream.RetryAttempts = 2
	cfg.Resources.ListLimit = 10
	cfg.SSE.SuccessCloseDelay = time.Second
	cfg.SSE.ErrorCloseDelay = 500 * time.Millisecond
	cfg.Server.Name = "Simple Posts MCP Server"
	cfg.Server.Version = "1.0.0"
	cfg.Log.Level = "info"
	return cfg
}

// Load reads the configuration. An empty path skips the file and uses
// defaults plus environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnv(&cfg)

	if cfg.Resources.ListLimit <= 0 {
		cfg.Resources.ListLimit = 10
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("MCPUI_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv("MCPUI_UPSTREAM_URL"); v != "" {
		cfg.Upstream.BaseURL = v
	}
	if v := os.Getenv("MCPUI_UPSTREAM_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Upstream.RetryAttempts = n
		}
	}
	if v := os.Getenv("MCPUI_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

// LogLevel maps the configured level string to a slog level.
func (c Config) LogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
