package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application's configuration.
type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`
	Auth struct {
		JWTSecret  string `yaml:"jwt_secret"`
		TokenTTLMs int64  `yaml:"token_ttl_ms"`
	} `yaml:"auth"`
	Throttle struct {
		MaxAttempts int   `yaml:"max_attempts"`
		WindowMs    int64 `yaml:"window_ms"`
	} `yaml:"throttle"`
	Alerts struct {
		Enabled          bool   `yaml:"enabled"`
		TelegramBotToken string `yaml:"telegram_bot_token"`
		TelegramChatID   int64  `yaml:"telegram_chat_id"`
	} `yaml:"alerts"`
	Logger struct {
		Level string `yaml:"level"` // debug, info, warn, error
	} `yaml:"logger"`
}

// LoadConfig reads configuration from the specified YAML file. Secrets
// and the database URL may be overridden through the environment so
// they never have to live in the file.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	if v := os.Getenv("STUDYLOG_JWT_SECRET"); v != "" {
		config.Auth.JWTSecret = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		config.Database.URL = v
	}
	if v := os.Getenv("STUDYLOG_TELEGRAM_BOT_TOKEN"); v != "" {
		config.Alerts.TelegramBotToken = v
	}

	config.applyDefaults()
	return config, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = ":8080"
	}
	if c.Auth.TokenTTLMs == 0 {
		c.Auth.TokenTTLMs = int64(time.Hour / time.Millisecond)
	}
	if c.Throttle.MaxAttempts == 0 {
		c.Throttle.MaxAttempts = 5
	}
	if c.Throttle.WindowMs == 0 {
		c.Throttle.WindowMs = int64(15 * time.Minute / time.Millisecond)
	}
	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}
}

// TokenTTL returns the configured token lifetime.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTLMs) * time.Millisecond
}

// ThrottleWindow returns the configured login-throttle window.
func (c *Config) ThrottleWindow() time.Duration {
	return time.Duration(c.Throttle.WindowMs) * time.Millisecond
}
