package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Transport TransportConfig `yaml:"transport"`
	Auth      AuthConfig      `yaml:"auth"`
	AI        AIConfig        `yaml:"ai"`
	Forecast  ForecastConfig  `yaml:"forecast"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

// SlogLevel maps Level to a slog level. Unknown values mean info.
func (c LogConfig) SlogLevel() slog.Level {
	switch c.Level {
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

// TransportConfig selects how the MCP server is exposed: "http" or "stdio".
type TransportConfig struct {
	Mode string `yaml:"mode"`
}

type AuthConfig struct {
	Enabled bool `yaml:"enabled"`
}

// AIConfig configures the optional narrative collaborator. An empty API key
// disables it.
type AIConfig struct {
	GeminiAPIKey string        `yaml:"gemini_api_key"`
	Model        string        `yaml:"model"`
	BaseURL      string        `yaml:"base_url"`
	Timeout      time.Duration `yaml:"timeout"`
}

type ForecastConfig struct {
	SnapshotListLimit int `yaml:"snapshot_list_limit"`
	AuditListLimit    int `yaml:"audit_list_limit"`
}

const (
	TransportHTTP  = "http"
	TransportStdio = "stdio"
)

// Default returns the configuration used when no file or environment overrides apply.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "budgetline.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Transport: TransportConfig{
			Mode: TransportHTTP,
		},
		Auth: AuthConfig{
			Enabled: true,
		},
		AI: AIConfig{
			Model:   "gemini-1.5-flash",
			Timeout: 30 * time.Second,
		},
		Forecast: ForecastConfig{
			SnapshotListLimit: 10,
			AuditListLimit:    50,
		},
	}
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("BUDGETLINE_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("BUDGETLINE_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("BUDGETLINE_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid BUDGETLINE_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv("BUDGETLINE_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("BUDGETLINE_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("BUDGETLINE_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}
	if mode := os.Getenv("BUDGETLINE_TRANSPORT_MODE"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if enabled := os.Getenv("BUDGETLINE_AUTH_ENABLED"); enabled != "" {
		v, err := strconv.ParseBool(enabled)
		if err != nil {
			return Config{}, fmt.Errorf("invalid BUDGETLINE_AUTH_ENABLED: %w", err)
		}
		cfg.Auth.Enabled = v
	}
	if key := os.Getenv("BUDGETLINE_GEMINI_API_KEY"); key != "" {
		cfg.AI.GeminiAPIKey = key
	}
	if model := os.Getenv("BUDGETLINE_GEMINI_MODEL"); model != "" {
		cfg.AI.Model = model
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	switch c.Transport.Mode {
	case TransportHTTP, TransportStdio:
	default:
		return fmt.Errorf("invalid transport mode %q", c.Transport.Mode)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Forecast.SnapshotListLimit <= 0 || c.Forecast.AuditListLimit <= 0 {
		return fmt.Errorf("forecast list limits must be positive")
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
