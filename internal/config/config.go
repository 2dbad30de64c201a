package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Printers PrintersConfig `yaml:"printers"`
	Webhooks WebhooksConfig `yaml:"webhooks"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	// WriteTimeout of zero, the default, lets /print wait for lp.
	WriteTimeout time.Duration `yaml:"write_timeout"`
	StaticDir    string        `yaml:"static_dir"`
	CORSOrigins  []string      `yaml:"cors_origins"`
}

// DatabaseConfig controls the print history store. An empty Path disables it.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	HistoryDays int    `yaml:"history_days"`
}

type PrintersConfig struct {
	LPCommand      string        `yaml:"lp_command"`
	LPStatCommand  string        `yaml:"lpstat_command"`
	DiscoveryMatch string        `yaml:"discovery_match"`
	DefaultMedia   string        `yaml:"default_media"`
	Orientation    string        `yaml:"orientation"`
	// WorkerCount caps concurrent lp/lpstat processes; 0 means unbounded.
	WorkerCount    int           `yaml:"worker_count"`
	CommandTimeout time.Duration `yaml:"command_timeout"`
}

type WebhooksConfig struct {
	URLs        []string      `yaml:"urls"`
	Secret      string        `yaml:"secret"`
	RetryCount  int           `yaml:"retry_count"`
	RetryDelay  time.Duration `yaml:"retry_delay"`
	Timeout     time.Duration `yaml:"timeout"`
	WorkerCount int           `yaml:"worker_count"`
	QueueSize   int           `yaml:"queue_size"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        3000,
			ReadTimeout: 30 * time.Second,
			StaticDir:   "static",
			CORSOrigins: []string{"*"},
		},
		Database: DatabaseConfig{
			Path:        "./data/labels.db",
			HistoryDays: 30,
		},
		Printers: PrintersConfig{
			LPCommand:      "lp",
			LPStatCommand:  "lpstat",
			DiscoveryMatch: "dymo",
			DefaultMedia:   "30252",
			Orientation:    "4",
			WorkerCount:    512,
		},
		Webhooks: WebhooksConfig{
			RetryCount:  3,
			RetryDelay:  5 * time.Second,
			Timeout:     10 * time.Second,
			WorkerCount: 2,
			QueueSize:   100,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Default returns the built-in configuration.
func Default() *Config {
	return defaults()
}

func Load(configPath string) (*Config, error) {
	cfg := defaults()
	if configPath == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

func LoadFromEnv() *Config {
	cfg := defaults()
	cfg.ApplyEnv()
	return cfg
}

// ApplyEnv overlays LABELD_* environment variables onto c.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("LABELD_HOST"); v != "" {
		c.Server.Host = v
	}

	if v := os.Getenv("LABELD_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}

	if v, ok := os.LookupEnv("LABELD_DB_PATH"); ok {
		c.Database.Path = v
	}

	if v := os.Getenv("LABELD_STATIC_DIR"); v != "" {
		c.Server.StaticDir = v
	}

	if v := os.Getenv("LABELD_DISCOVERY_MATCH"); v != "" {
		c.Printers.DiscoveryMatch = v
	}

	if v := os.Getenv("LABELD_WEBHOOK_URLS"); v != "" {
		c.Webhooks.URLs = splitList(v)
	}

	if v := os.Getenv("LABELD_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv("LABELD_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Addr returns the listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Server.ReadTimeout < 0 {
		return fmt.Errorf("server read timeout must be non-negative")
	}

	if c.Server.WriteTimeout < 0 {
		return fmt.Errorf("server write timeout must be non-negative")
	}

	if c.Database.HistoryDays < 0 {
		return fmt.Errorf("history days must be non-negative")
	}

	if c.Printers.LPCommand == "" {
		return fmt.Errorf("lp command is required")
	}

	if c.Printers.LPStatCommand == "" {
		return fmt.Errorf("lpstat command is required")
	}

	if strings.TrimSpace(c.Printers.DiscoveryMatch) == "" {
		return fmt.Errorf("discovery match is required")
	}

	if c.Printers.DefaultMedia == "" {
		return fmt.Errorf("default media is required")
	}

	if c.Printers.WorkerCount < 0 {
		return fmt.Errorf("printer worker count must be non-negative")
	}

	if c.Printers.CommandTimeout < 0 {
		return fmt.Errorf("command timeout must be non-negative")
	}

	if c.Webhooks.RetryCount < 0 {
		return fmt.Errorf("webhook retry count must be non-negative")
	}

	if c.Webhooks.RetryDelay < 0 {
		return fmt.Errorf("webhook retry delay must be non-negative")
	}

	if c.Webhooks.Timeout < 0 {
		return fmt.Errorf("webhook timeout must be non-negative")
	}

	for _, u := range c.Webhooks.URLs {
		if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
			return fmt.Errorf("invalid webhook url: %s", u)
		}
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":    true,
		"warning": true,
		"error":   true,
	}

	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s (valid: debug, info, warn, warning, error)", c.Logging.Level)
	}

	validFormats := map[string]bool{
		"json":    true,
		"console": true,
	}

	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("invalid log format: %s (valid: json, console)", c.Logging.Format)
	}

	return nil
}
