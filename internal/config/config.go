package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// Config holds the CLI configuration loaded from flags, environment variables and .env.
type Config struct {
	AppName        string `mapstructure:"app_name"`
	LogLevel       string `mapstructure:"log_level"`
	BaseURL        string `mapstructure:"base_url"`
	Token          string `mapstructure:"token"`
	Output         string `mapstructure:"output"`
	PublishersFile string `mapstructure:"publishers_file"`

	ConnectTimeoutSeconds int64         `mapstructure:"connect_timeout_seconds"`
	RequestTimeoutSeconds int64         `mapstructure:"request_timeout_seconds"`
	ConnectTimeout        time.Duration `mapstructure:"-"`
	RequestTimeout        time.Duration `mapstructure:"-"`

	JournalType            string        `mapstructure:"journal_type"`
	JournalPath            string        `mapstructure:"journal_path"`
	JournalTTLSeconds      int64         `mapstructure:"journal_ttl_seconds"`
	JournalCleanupSeconds  int64         `mapstructure:"journal_cleanup_interval_seconds"`
	JournalTTL             time.Duration `mapstructure:"-"`
	JournalCleanupInterval time.Duration `mapstructure:"-"`
}

// flagKeys maps global flag names to config keys.
var flagKeys = map[string]string{
	"base-url":        "base_url",
	"token":           "token",
	"output":          "output",
	"log-level":       "log_level",
	"publishers-file": "publishers_file",
	"journal-path":    "journal_path",
}

// Load reads configuration from defaults, .env, ATONIX_* environment variables
// and, when flags is non-nil, any flags the user explicitly set.
func Load(flags *pflag.FlagSet) (*Config, error) {
	_ = godotenv.Load(".env")

	v := viper.New()

	v.SetDefault("app_name", "atonixctl")
	v.SetDefault("log_level", "warn")
	v.SetDefault("base_url", "http://localhost:8000")
	v.SetDefault("token", "")
	v.SetDefault("output", OutputJSON)
	v.SetDefault("publishers_file", "")
	v.SetDefault("connect_timeout_seconds", 10)
	v.SetDefault("request_timeout_seconds", 30)
	v.SetDefault("journal_type", "bbolt")
	v.SetDefault("journal_path", "./data/journal.db")
	v.SetDefault("journal_ttl_seconds", int64((30*24*time.Hour)/time.Second))
	v.SetDefault("journal_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))

	v.SetEnvPrefix("atonix")
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	cfg.Token = strings.TrimSpace(cfg.Token)
	cfg.Output = strings.ToLower(strings.TrimSpace(cfg.Output))
	cfg.PublishersFile = strings.TrimSpace(cfg.PublishersFile)

	if cfg.Output != OutputJSON && cfg.Output != OutputYAML {
		return nil, fmt.Errorf("invalid output %q (expected json or yaml)", cfg.Output)
	}

	if cfg.ConnectTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid connect_timeout_seconds (must be positive seconds)")
	}
	if cfg.RequestTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid request_timeout_seconds (must be positive seconds)")
	}
	cfg.ConnectTimeout = time.Duration(cfg.ConnectTimeoutSeconds) * time.Second
	cfg.RequestTimeout = time.Duration(cfg.RequestTimeoutSeconds) * time.Second

	if cfg.JournalTTLSeconds <= 0 {
		return nil, fmt.Errorf("invalid journal_ttl_seconds (must be positive seconds)")
	}
	if cfg.JournalCleanupSeconds <= 0 {
		return nil, fmt.Errorf("invalid journal_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.JournalTTL = time.Duration(cfg.JournalTTLSeconds) * time.Second
	cfg.JournalCleanupInterval = time.Duration(cfg.JournalCleanupSeconds) * time.Second

	return &cfg, nil
}

// Redacted returns a copy safe to log: the token is masked.
func (c Config) Redacted() Config {
	if c.Token != "" {
		c.Token = "***"
	}
	return c
}
