package config

// AppConfig holds application-level settings.
type AppConfig struct {
	LogLevel string `mapstructure:"log_level"`
}

// APIConfig points the client at a Hack-or-Snooze deployment.
type APIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Timeout string `mapstructure:"timeout"` // duration string, e.g., "10s"
}

// SessionConfig controls where login credentials are remembered.
type SessionConfig struct {
	Backend    string `mapstructure:"backend"` // sqlite, redis or memory
	Profile    string `mapstructure:"profile"` // separates several stored logins
	SQLitePath string `mapstructure:"sqlite_path"`
	TTL        string `mapstructure:"ttl"` // redis only, e.g., "720h"
}

// RedisConfig holds redis connection settings.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// WatchConfig controls the story watcher.
type WatchConfig struct {
	Interval string `mapstructure:"interval"`
	SeenTTL  string `mapstructure:"seen_ttl"`
}

// OpenAIConfig enables article summaries.
type OpenAIConfig struct {
	APIKey   string `mapstructure:"api_key"`
	Model    string `mapstructure:"model"`
	BaseURL  string `mapstructure:"base_url"`
	Language string `mapstructure:"language"`
}

// Config is the top-level configuration structure.
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	API     APIConfig     `mapstructure:"api"`
	Session SessionConfig `mapstructure:"session"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Watch   WatchConfig   `mapstructure:"watch"`
	OpenAI  OpenAIConfig  `mapstructure:"openai"`
}

// FillDefaults applies default values if not provided.
func (c *Config) FillDefaults() {
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = "https://hack-or-snooze-v3.herokuapp.com"
	}
	if c.API.Timeout == "" {
		c.API.Timeout = "10s"
	}
	if c.Session.Backend == "" {
		c.Session.Backend = "sqlite"
	}
	if c.Session.Profile == "" {
		c.Session.Profile = "default"
	}
	if c.Session.SQLitePath == "" {
		c.Session.SQLitePath = "$HOME/.config/hack-or-snooze/session.db"
	}
	if c.Session.TTL == "" {
		c.Session.TTL = "720h"
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "127.0.0.1:6379"
	}
	if c.Watch.Interval == "" {
		c.Watch.Interval = "5m"
	}
	if c.Watch.SeenTTL == "" {
		c.Watch.SeenTTL = "168h"
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-4o-mini"
	}
	if c.OpenAI.Language == "" {
		c.OpenAI.Language = "English"
	}
}
