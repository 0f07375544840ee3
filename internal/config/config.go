package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jask/staffdesk/internal/session"
)

// Config holds application configuration.
type Config struct {
	Database  DatabaseConfig
	Session   SessionConfig
	UI        UIConfig
	Log       LogConfig
	Documents DocumentsConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// SessionConfig controls idle expiry.
type SessionConfig struct {
	Timeout        time.Duration
	ActivityEvents []string `mapstructure:"activity_events"`
	// TTL is how long a stored session survives without use.
	TTL time.Duration
}

// UIConfig holds presentation settings.
type UIConfig struct {
	DateFormat string `mapstructure:"date_format"`
	Timezone   string
	PageSize   int `mapstructure:"page_size"`
}

// LogConfig holds log settings. The TUI owns stdout, so logs go to a file.
type LogConfig struct {
	Level string
	Path  string
}

// DocumentsConfig bounds uploads.
type DocumentsConfig struct {
	MaxBytes int64 `mapstructure:"max_bytes"`
}

func defaultActivities() []string {
	var out []string
	for _, a := range session.AllActivities() {
		out = append(out, string(a))
	}
	return out
}

// DefaultPath is where Load looks when neither a path nor STAFFDESK_CONFIG
// is given.
func DefaultPath() string {
	return filepath.Join(os.Getenv("HOME"), ".config", "staffdesk", "config.toml")
}

// Load reads configuration from path (or STAFFDESK_CONFIG, or DefaultPath)
// and env. Env var overrides use prefix STAFFDESK_. A missing file is fine.
func Load(path string) (Config, error) {
	v := viper.New()

	home := os.Getenv("HOME")
	v.SetDefault("database.path", filepath.Join(home, ".local", "share", "staffdesk", "staffdesk.db"))
	v.SetDefault("session.timeout", session.DefaultTimeout)
	v.SetDefault("session.activity_events", defaultActivities())
	v.SetDefault("session.ttl", 12*time.Hour)
	v.SetDefault("ui.date_format", "2006-01-02")
	v.SetDefault("ui.timezone", "Local")
	v.SetDefault("ui.page_size", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.path", filepath.Join(home, ".local", "state", "staffdesk", "staffdesk.log"))
	v.SetDefault("documents.max_bytes", 5<<20)

	v.SetConfigType("toml")
	if path == "" {
		path = os.Getenv("STAFFDESK_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Dir(DefaultPath()))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("STAFFDESK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	// AutomaticEnv hands lists over as one string.
	if len(c.Session.ActivityEvents) == 1 && strings.ContainsAny(c.Session.ActivityEvents[0], ", ") {
		c.Session.ActivityEvents = strings.FieldsFunc(c.Session.ActivityEvents[0], func(r rune) bool {
			return r == ',' || r == ' '
		})
	}
	if err := c.Normalize(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Normalize applies fallbacks and rejects values the app cannot use.
func (c *Config) Normalize() error {
	if c.Session.Timeout <= 0 {
		c.Session.Timeout = session.DefaultTimeout
	}
	if len(c.Session.ActivityEvents) == 0 {
		c.Session.ActivityEvents = defaultActivities()
	}
	if _, err := session.ParseActivities(c.Session.ActivityEvents); err != nil {
		return fmt.Errorf("session.activity_events: %w", err)
	}
	if c.UI.PageSize <= 0 {
		c.UI.PageSize = 10
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("ui.timezone: %w", err)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level: unknown level %q", c.Log.Level)
	}
	return nil
}

// Activities returns the parsed session.activity_events.
func (c Config) Activities() []session.Activity {
	acts, err := session.ParseActivities(c.Session.ActivityEvents)
	if err != nil || len(acts) == 0 {
		return session.AllActivities()
	}
	return acts
}

// Location resolves ui.timezone.
func (c Config) Location() (*time.Location, error) {
	if c.UI.Timezone == "" || strings.EqualFold(c.UI.Timezone, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(c.UI.Timezone)
}

// Save writes the provided config to path (DefaultPath when empty),
// creating the directory if needed. The settings screen uses it.
func Save(path string, cfg Config) error {
	if err := cfg.Normalize(); err != nil {
		return err
	}
	if path == "" {
		path = os.Getenv("STAFFDESK_CONFIG")
	}
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("session.timeout", cfg.Session.Timeout.String())
	v.Set("session.activity_events", cfg.Session.ActivityEvents)
	v.Set("session.ttl", cfg.Session.TTL.String())
	v.Set("ui.date_format", cfg.UI.DateFormat)
	v.Set("ui.timezone", cfg.UI.Timezone)
	v.Set("ui.page_size", cfg.UI.PageSize)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.path", cfg.Log.Path)
	v.Set("documents.max_bytes", cfg.Documents.MaxBytes)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
