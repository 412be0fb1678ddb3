package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Locale != "en_US" || cfg.Country != "US" || cfg.Holidays.Refresh == "" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected config file to be written: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("expected 0600 permissions, got %o", perm)
	}
}

func TestLoadNormalizesPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := []byte(`locale: de_DE
country: de
first_weekday: 9
holidays:
  country_from_locale: true
ics:
  - url: https://example.com/a.ics
  - url: /tmp/b.ics
    id: local
`)
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Country != "DE" || cfg.FirstWeekday != 0 || !cfg.Holidays.CountryFromLocale {
		t.Errorf("unexpected normalized config %+v", cfg)
	}
	if cfg.Listen == "" || cfg.Timezone == "" || cfg.Log.Level != "info" {
		t.Errorf("defaults not filled: %+v", cfg)
	}
	if cfg.ICS[0].ID != "ics-1" || cfg.ICS[1].ID != "local" {
		t.Errorf("unexpected ics ids %+v", cfg.ICS)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := DefaultConfig()
	cfg.Locale = "ja_JP"
	cfg.Country = "JP"
	cfg.FirstWeekday = 6
	cfg.BasicAuth = &BasicAuthConfig{Username: "admin", Password: "secret"}
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Locale != "ja_JP" || got.FirstWeekday != 6 || got.BasicAuth == nil || got.BasicAuth.Password != "secret" {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvLocale:   "fr_FR",
		EnvCountry:  "fr",
		EnvListen:   ":9090",
		EnvLogLevel: "debug",
		EnvWeekday:  "6",
		EnvDatabase: "  ",
	}
	cfg := DefaultConfig()
	db := cfg.Database
	cfg.ApplyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	if cfg.Locale != "fr_FR" || cfg.Country != "FR" || cfg.Listen != ":9090" || cfg.Log.Level != "debug" || cfg.FirstWeekday != 6 {
		t.Errorf("env not applied: %+v", cfg)
	}
	if cfg.Database != db {
		t.Errorf("blank override must be ignored, got %q", cfg.Database)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "bad timezone", mutate: func(c *Config) { c.Timezone = "Mars/Olympus" }},
		{name: "bad country", mutate: func(c *Config) { c.Country = "USA" }},
		{name: "half basic auth", mutate: func(c *Config) { c.BasicAuth = &BasicAuthConfig{Username: "a"} }},
		{name: "ics without url", mutate: func(c *Config) { c.ICS = []ICSConfig{{ID: "x"}} }},
		{name: "duplicate ics id", mutate: func(c *Config) {
			c.ICS = []ICSConfig{{ID: "x", URL: "a"}, {ID: "x", URL: "b"}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}
