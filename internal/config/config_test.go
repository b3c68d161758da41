package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/datedmemo/datedmemo/internal/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// unsetEnv clears key for the test and restores it afterwards.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func TestNewDefaults(t *testing.T) {
	cfg := New()

	if cfg.Server.Port != DefaultPort {
		t.Errorf("Port = %d", cfg.Server.Port)
	}
	if cfg.Store.Driver != "memory" {
		t.Errorf("Driver = %q", cfg.Store.Driver)
	}
	if cfg.Metrics.Path != DefaultMetricsPath {
		t.Errorf("Metrics.Path = %q", cfg.Metrics.Path)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Path() != "" {
		t.Errorf("Path = %q", cfg.Path())
	}
	if cfg.Server.Port != DefaultPort {
		t.Errorf("Port = %d", cfg.Server.Port)
	}
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "datedmemo.json", `{
		"server": {"port": 8080, "debug": true},
		"store": {"driver": "sqlite", "dsn": "memos.db", "migrate": true}
	}`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Path() != path {
		t.Errorf("Path = %q", cfg.Path())
	}
	if cfg.Server.Port != 8080 || !cfg.Server.Debug {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.Store.Driver != "sqlite" || cfg.Store.DSN != "memos.db" || !cfg.Store.Migrate {
		t.Errorf("Store = %+v", cfg.Store)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("debug config should default to debug logs, got %q", cfg.Log.Level)
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "datedmemo.yaml", `
server:
  port: 9000
backup:
  bucket: memos-backup
  region: eu-west-1
log:
  format: json
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Port = %d", cfg.Server.Port)
	}
	if cfg.Backup.Bucket != "memos-backup" || cfg.Backup.Region != "eu-west-1" || cfg.Backup.Prefix != "datedmemo" {
		t.Errorf("Backup = %+v", cfg.Backup)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q", cfg.Log.Format)
	}
}

func TestLoadInvalidFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "datedmemo.json", `{"server": `)

	_, err := Load(dir)
	if !errors.HasCode(err, "E101") {
		t.Errorf("err = %v, want E101", err)
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.HasCode(err, "E100") {
		t.Errorf("err = %v, want E100", err)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "datedmemo.json", `{"server": {"port": 8080}, "store": {"driver": "sqlite", "dsn": "a.db"}}`)
	t.Setenv("DATEDMEMO_SERVER_PORT", "7070")
	t.Setenv("DATEDMEMO_STORE_DSN", "b.db")
	t.Setenv("DATEDMEMO_METRICS_ENABLED", "true")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("Port = %d, want env value", cfg.Server.Port)
	}
	if cfg.Store.Driver != "sqlite" || cfg.Store.DSN != "b.db" {
		t.Errorf("Store = %+v", cfg.Store)
	}
	if !cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled not read from env")
	}
}

func TestDotEnvFile(t *testing.T) {
	unsetEnv(t, "DATEDMEMO_LOG_LEVEL")
	unsetEnv(t, "DATEDMEMO_SERVER_PORT")
	t.Setenv("DATEDMEMO_SERVER_PORT", "6060")

	dir := t.TempDir()
	writeFile(t, dir, ".env", "DATEDMEMO_LOG_LEVEL=warn\nDATEDMEMO_SERVER_PORT=1111\n")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want .env value", cfg.Log.Level)
	}
	if cfg.Server.Port != 6060 {
		t.Errorf("Port = %d, process env should win over .env", cfg.Server.Port)
	}
}

func TestBadEnvValue(t *testing.T) {
	t.Setenv("DATEDMEMO_SERVER_PORT", "eighty")
	_, err := Load(t.TempDir())
	if !errors.HasCode(err, "E103") {
		t.Errorf("err = %v, want E103", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		detail string
	}{
		{"port", func(c *Config) { c.Server.Port = 70000 }, "Server.Port"},
		{"driver", func(c *Config) { c.Store.Driver = "mongo" }, "Store.Driver must be one of"},
		{"sqlite dsn", func(c *Config) { c.Store.Driver = "sqlite" }, "Store.DSN is required"},
		{"postgres dsn", func(c *Config) { c.Store.Driver = "postgres" }, "Store.DSN is required"},
		{"redis addr", func(c *Config) { c.Store.Driver = "redis" }, "Store.RedisAddr is required"},
		{"log level", func(c *Config) { c.Log.Level = "verbose" }, "Log.Level"},
		{"metrics path", func(c *Config) { c.Metrics.Path = "metrics" }, "Metrics.Path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.HasCode(err, "E102") {
				t.Fatalf("err = %v, want E102", err)
			}
			appErr := err.(*errors.AppError)
			if !strings.Contains(appErr.Detail, tt.detail) {
				t.Errorf("detail = %q, want it to mention %q", appErr.Detail, tt.detail)
			}
		})
	}
}

func TestAddress(t *testing.T) {
	cfg := New()
	if got := cfg.Address(); got != "0.0.0.0:5000" {
		t.Errorf("Address = %q", got)
	}
	cfg.Server.Debug = true
	if got := cfg.Address(); got != "localhost:5000" {
		t.Errorf("debug Address = %q", got)
	}
	cfg.Server.Host = "10.0.0.2"
	if got := cfg.Address(); got != "10.0.0.2:5000" {
		t.Errorf("explicit host Address = %q", got)
	}
}

func TestSlogLevel(t *testing.T) {
	cfg := New()
	cfg.Log.Level = "warn"
	if cfg.SlogLevel() != slog.LevelWarn {
		t.Errorf("SlogLevel = %v", cfg.SlogLevel())
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := New()
	cfg.Store.Driver = "redis"
	cfg.Store.RedisAddr = "localhost:6379"

	for _, name := range []string{"out.json", "out.yaml"} {
		path := filepath.Join(dir, name)
		if err := cfg.SaveTo(path); err != nil {
			t.Fatal(err)
		}
		got, err := LoadFile(path)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if got.Store != cfg.Store {
			t.Errorf("%s: Store = %+v, want %+v", name, got.Store, cfg.Store)
		}
	}
}
