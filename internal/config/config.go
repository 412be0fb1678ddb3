package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	appLog "holical/internal/log"
)

// ICSConfig describes one iCalendar subscription. URL may be a local path.
type ICSConfig struct {
	ID       string `yaml:"id" json:"id"`
	URL      string `yaml:"url" json:"url"`
	Name     string `yaml:"name,omitempty" json:"name,omitempty"`
	Category string `yaml:"category,omitempty" json:"category,omitempty"`
}

// BasicAuthConfig holds HTTP Basic Auth credentials for the API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// HolidaysConfig controls the holiday sources.
type HolidaysConfig struct {
	// RulesFile is an optional YAML rule file merged over the built-in
	// rules.
	RulesFile string `yaml:"rules_file,omitempty" json:"rules_file,omitempty"`

	// CountryFromLocale replaces a requested country with the home
	// country of the viewer locale.
	CountryFromLocale bool `yaml:"country_from_locale" json:"country_from_locale"`

	// Refresh is a cron spec; holiday and translation caches are purged
	// on every tick. Empty disables the purge.
	Refresh string `yaml:"refresh" json:"refresh"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen" json:"listen"`

	// Timezone is the IANA zone that decides which day is today.
	Timezone string `yaml:"timezone" json:"timezone"`

	// Locale is the viewer locale, e.g. "de_DE".
	Locale string `yaml:"locale" json:"locale"`

	// Country is the ISO-3166-1 alpha-2 code whose holidays are shown.
	Country string `yaml:"country" json:"country"`

	// FirstWeekday is 0 for Monday through 6 for Sunday.
	FirstWeekday int `yaml:"first_weekday" json:"first_weekday"`

	// Database is the SQLite file holding events, or "memory" for a
	// store that lives as long as the process.
	Database string `yaml:"database" json:"database"`

	// TranslationsDir optionally overrides the built-in translation files.
	TranslationsDir string `yaml:"translations_dir,omitempty" json:"translations_dir,omitempty"`

	Holidays HolidaysConfig `yaml:"holidays" json:"holidays"`
	Log      appLog.Config  `yaml:"log" json:"log"`

	ICS []ICSConfig `yaml:"ics" json:"ics"`

	// BasicAuth, if non-nil, protects every endpoint except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// DefaultPath is $HOME/.config/holical/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".config", "holical", "config.yaml")
}

func defaultDatabase() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "holical.db"
	}
	return filepath.Join(home, ".local", "share", "holical", "events.db")
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:       "127.0.0.1:8080",
		Timezone:     "UTC",
		Locale:       "en_US",
		Country:      "US",
		FirstWeekday: 0,
		Database:     defaultDatabase(),
		Holidays: HolidaysConfig{
			Refresh: "0 3 * * *",
		},
		Log: appLog.Config{
			Level:  "info",
			Format: "console",
			Output: "stderr",
		},
		ICS: []ICSConfig{},
	}
}

// Normalize fills in zero values so partially-filled files still work.
func (c *Config) Normalize() {
	d := DefaultConfig()
	if c.Listen == "" {
		c.Listen = d.Listen
	}
	if c.Timezone == "" {
		c.Timezone = d.Timezone
	}
	if c.Locale == "" {
		c.Locale = d.Locale
	}
	c.Country = strings.ToUpper(strings.TrimSpace(c.Country))
	if c.Country == "" {
		c.Country = d.Country
	}
	if c.FirstWeekday < 0 || c.FirstWeekday > 6 {
		appLog.Warn("first_weekday out of range; using monday", "value", c.FirstWeekday)
		c.FirstWeekday = 0
	}
	if c.Database == "" {
		c.Database = d.Database
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
	if c.Log.Output == "" {
		c.Log.Output = d.Log.Output
	}
	if c.ICS == nil {
		c.ICS = []ICSConfig{}
	}
	for i := range c.ICS {
		if c.ICS[i].ID == "" {
			c.ICS[i].ID = fmt.Sprintf("ics-%d", i+1)
		}
	}
}

// Validate reports settings that cannot be repaired silently.
func (c *Config) Validate() error {
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	if len(c.Country) != 2 {
		return fmt.Errorf("country %q is not an ISO-3166-1 alpha-2 code", c.Country)
	}
	if c.BasicAuth != nil && (c.BasicAuth.Username == "" || c.BasicAuth.Password == "") {
		return errors.New("basic_auth needs both username and password")
	}
	seen := make(map[string]bool)
	for _, s := range c.ICS {
		if s.URL == "" {
			return fmt.Errorf("ics source %s has no url", s.ID)
		}
		if seen[s.ID] {
			return fmt.Errorf("duplicate ics source id %s", s.ID)
		}
		seen[s.ID] = true
	}
	return nil
}

// Location returns the configured zone, or UTC if it cannot be loaded.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Environment variables that override file values.
const (
	EnvLocale   = "HOLICAL_LOCALE"
	EnvCountry  = "HOLICAL_COUNTRY"
	EnvListen   = "HOLICAL_LISTEN"
	EnvDatabase = "HOLICAL_DATABASE"
	EnvLogLevel = "HOLICAL_LOG_LEVEL"
	EnvTimezone = "HOLICAL_TIMEZONE"
	EnvWeekday  = "HOLICAL_FIRST_WEEKDAY"
)

// ApplyEnv overrides fields from the environment; lookup is normally
// os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	set(EnvLocale, &c.Locale)
	set(EnvCountry, &c.Country)
	set(EnvListen, &c.Listen)
	set(EnvDatabase, &c.Database)
	set(EnvLogLevel, &c.Log.Level)
	set(EnvTimezone, &c.Timezone)
	if v, ok := lookup(EnvWeekday); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			c.FirstWeekday = n
		} else {
			appLog.Warn("ignoring invalid first weekday override", "value", v)
		}
	}
	c.Normalize()
}

// Load reads the YAML file at path. A missing file is created with the
// defaults (0600) and the defaults are returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			appLog.Info("created default config", "path", path)
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.Normalize()
	return &cfg, nil
}

// Save writes cfg atomically (temp file and rename) with 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}
	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".holical-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

func (c *Config) Save(path string) error {
	return Save(path, c)
}
