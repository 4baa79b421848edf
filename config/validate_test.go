package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Database:   DatabaseConfig{Host: "localhost", DBName: "klinik"},
		Server:     ServerConfig{Port: 8080},
		Logging:    LoggingConfig{Level: "info", Format: "json"},
		Scheduling: SchedulingConfig{DefaultTimezone: "Europe/Istanbul"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{"valid", func(c *Config) {}, nil},
		{"missing host", func(c *Config) { c.Database.Host = "" }, ErrMissingDatabase},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, ErrInvalidPort},
		{"bad level", func(c *Config) { c.Logging.Level = "verbose" }, ErrInvalidLogLevel},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, ErrInvalidLogFormat},
		{"bad timezone", func(c *Config) { c.Scheduling.DefaultTimezone = "Mars/Olympus" }, ErrInvalidTimezone},
		{"short key", func(c *Config) { c.Authentication.EncryptionKey = "abcd" }, ErrInvalidEncKey},
		{"good key", func(c *Config) { c.Authentication.EncryptionKey = strings.Repeat("ab", 32) }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSchedulingDefaults(t *testing.T) {
	var sc SchedulingConfig
	if sc.Location() != time.UTC {
		t.Errorf("Location() = %v, want UTC", sc.Location())
	}
	if sc.CacheTTL() != time.Minute {
		t.Errorf("CacheTTL() = %v, want 1m", sc.CacheTTL())
	}

	sc = SchedulingConfig{DefaultTimezone: "Europe/Istanbul", CacheTTLSeconds: 5}
	if sc.Location().String() != "Europe/Istanbul" {
		t.Errorf("Location() = %v, want Europe/Istanbul", sc.Location())
	}
	if sc.CacheTTL() != 5*time.Second {
		t.Errorf("CacheTTL() = %v, want 5s", sc.CacheTTL())
	}
}

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	content := `
database:
  host: db.internal
  dbname: klinik
server:
  port: 9090
logging:
  level: debug
  format: text
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("KLINIK_SERVER_PORT", "9191")

	cfg, err := ReadConfig(dir)
	if err != nil {
		t.Fatalf("ReadConfig() error: %v", err)
	}
	if cfg.Database.Host != "db.internal" {
		t.Errorf("Database.Host = %q, want db.internal", cfg.Database.Host)
	}
	if cfg.Server.Port != 9191 {
		t.Errorf("Server.Port = %d, want env override 9191", cfg.Server.Port)
	}
	if cfg.Scheduling.DefaultTimezone != "Europe/Istanbul" {
		t.Errorf("Scheduling.DefaultTimezone = %q, want default", cfg.Scheduling.DefaultTimezone)
	}
}
