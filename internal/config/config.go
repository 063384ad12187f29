package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
// It is read-only after Load() returns and thread-safe for concurrent reads.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Log      LogConfig      `yaml:"log"`
	Tracker  TrackerConfig  `yaml:"tracker"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int      `yaml:"port"`
	ReadTimeout     Duration `yaml:"read_timeout"`
	WriteTimeout    Duration `yaml:"write_timeout"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig contains database settings.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// AuthConfig contains authentication settings.
type AuthConfig struct {
	// AdminEmails receive the ADMIN role when registered.
	AdminEmails []string `yaml:"admin_emails"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// TrackerConfig contains settings for the tracking engine.
type TrackerConfig struct {
	// Timezone names the IANA location that defines "today".
	Timezone           string `yaml:"timezone"`
	DefaultHistoryDays int    `yaml:"default_history_days"`
	DefaultPageSize    int    `yaml:"default_page_size"`
	MaxPageSize        int    `yaml:"max_page_size"`
}

// Location loads the configured timezone.
func (t TrackerConfig) Location() (*time.Location, error) {
	return time.LoadLocation(t.Timezone)
}

// Duration is a wrapper around time.Duration that supports YAML string parsing.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler for Duration.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Load loads configuration with precedence: defaults → YAML file → env vars.
// Variables from a .env file (SELFHELP_ENV_FILE, default ".env") are merged
// into the environment first without replacing variables already set.
func Load() (*Config, error) {
	if err := loadDotEnv(getEnv("SELFHELP_ENV_FILE", ".env")); err != nil {
		return nil, err
	}

	cfg := newDefaults()

	configPath := getEnv("SELFHELP_CONFIG_PATH", "config/selfhelp.yaml")

	// Missing file is not an error
	if err := loadYAMLFile(cfg, configPath); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromFile loads configuration from a specific path, which must exist.
func LoadFromFile(path string) (*Config, error) {
	cfg := newDefaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func newDefaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     Duration(30 * time.Second),
			WriteTimeout:    Duration(30 * time.Second),
			ShutdownTimeout: Duration(15 * time.Second),
		},
		Database: DatabaseConfig{
			Path: "data/selfhelp.db",
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "json",
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Tracker: TrackerConfig{
			Timezone:           "UTC",
			DefaultHistoryDays: 7,
			DefaultPageSize:    20,
			MaxPageSize:        100,
		},
	}
}

func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading env file: %w", err)
	}
	return nil
}

// loadYAMLFile loads configuration from a YAML file if it exists.
func loadYAMLFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies SELFHELP_* environment variables. Only
// non-empty variables override; malformed numbers and durations are errors.
func applyEnvOverrides(cfg *Config) error {
	var errs []error
	setInt := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: invalid integer %q", key, v))
				return
			}
			*dst = n
		}
	}
	setDuration := func(key string, dst *Duration) {
		if v := os.Getenv(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: invalid duration %q", key, v))
				return
			}
			*dst = Duration(d)
		}
	}
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	// Server
	setInt("SELFHELP_PORT", &cfg.Server.Port)
	setDuration("SELFHELP_READ_TIMEOUT", &cfg.Server.ReadTimeout)
	setDuration("SELFHELP_WRITE_TIMEOUT", &cfg.Server.WriteTimeout)
	setDuration("SELFHELP_SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout)

	// Database
	setString("SELFHELP_DB_PATH", &cfg.Database.Path)

	// Auth
	if v := os.Getenv("SELFHELP_ADMIN_EMAILS"); v != "" {
		cfg.Auth.AdminEmails = splitList(v)
	}

	// Log
	setString("SELFHELP_LOG_LEVEL", &cfg.Log.Level)
	setString("SELFHELP_LOG_FORMAT", &cfg.Log.Format)
	setString("SELFHELP_LOG_FILE", &cfg.Log.File)
	setInt("SELFHELP_LOG_MAX_SIZE_MB", &cfg.Log.MaxSizeMB)
	setInt("SELFHELP_LOG_MAX_BACKUPS", &cfg.Log.MaxBackups)
	setInt("SELFHELP_LOG_MAX_AGE_DAYS", &cfg.Log.MaxAgeDays)

	// Tracker
	setString("SELFHELP_TIMEZONE", &cfg.Tracker.Timezone)
	setInt("SELFHELP_HISTORY_DAYS", &cfg.Tracker.DefaultHistoryDays)
	setInt("SELFHELP_PAGE_SIZE", &cfg.Tracker.DefaultPageSize)
	setInt("SELFHELP_MAX_PAGE_SIZE", &cfg.Tracker.MaxPageSize)

	return errors.Join(errs...)
}

// validate checks that configuration values are usable.
func (c *Config) validate() error {
	var errs []error

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range 1-65535", c.Server.Port))
	}
	if c.Database.Path == "" {
		errs = append(errs, errors.New("database.path is required"))
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q must be one of debug, info, warn, error", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("log.format %q must be json or text", c.Log.Format))
	}

	if _, err := c.Tracker.Location(); err != nil {
		errs = append(errs, fmt.Errorf("tracker.timezone: %w", err))
	}
	if c.Tracker.DefaultHistoryDays < 1 {
		errs = append(errs, errors.New("tracker.default_history_days must be at least 1"))
	}
	if c.Tracker.DefaultPageSize < 1 || c.Tracker.MaxPageSize < 1 {
		errs = append(errs, errors.New("tracker page sizes must be positive"))
	} else if c.Tracker.DefaultPageSize > c.Tracker.MaxPageSize {
		errs = append(errs, errors.New("tracker.default_page_size must not exceed tracker.max_page_size"))
	}

	return errors.Join(errs...)
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
