package config

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/datedmemo/datedmemo/internal/errors"
)

const (
	// ConfigBaseName is the configuration file name without extension.
	ConfigBaseName = "datedmemo"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "DATEDMEMO_"

	// DefaultPort is the default HTTP port.
	DefaultPort = 5000

	// DefaultMetricsPath is where Prometheus metrics are served.
	DefaultMetricsPath = "/metrics"
)

// configFiles are searched in order by Load.
var configFiles = []string{ConfigBaseName + ".json", ConfigBaseName + ".yaml", ConfigBaseName + ".yml"}

// envFiles are loaded by Load when present. Variables already set in the
// process environment win over both.
var envFiles = []string{".env", ".env.local"}

// Config is the complete datedmemo configuration.
type Config struct {
	Server  ServerConfig  `json:"server" yaml:"server" envPrefix:"SERVER_"`
	Store   StoreConfig   `json:"store" yaml:"store" envPrefix:"STORE_"`
	Backup  BackupConfig  `json:"backup" yaml:"backup" envPrefix:"BACKUP_"`
	Metrics MetricsConfig `json:"metrics" yaml:"metrics" envPrefix:"METRICS_"`
	Tracing TracingConfig `json:"tracing" yaml:"tracing" envPrefix:"TRACING_"`
	Log     LogConfig     `json:"log" yaml:"log" envPrefix:"LOG_"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Host is the address to bind. Empty means localhost in debug mode,
	// otherwise every interface.
	Host string `json:"host,omitempty" yaml:"host,omitempty" env:"HOST" validate:"omitempty,hostname|ip"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty" yaml:"port,omitempty" env:"PORT" validate:"min=1,max=65535"`

	// Debug enables debug logging and request logs.
	Debug bool `json:"debug,omitempty" yaml:"debug,omitempty" env:"DEBUG"`

	// ShutdownTimeout bounds graceful shutdown, in seconds.
	ShutdownTimeout int `json:"shutdownTimeout,omitempty" yaml:"shutdownTimeout,omitempty" env:"SHUTDOWN_TIMEOUT" validate:"min=0"`
}

// StoreConfig selects the memo store backend.
type StoreConfig struct {
	// Driver is one of memory, sqlite, postgres, redis.
	Driver string `json:"driver,omitempty" yaml:"driver,omitempty" env:"DRIVER" validate:"oneof=memory sqlite postgres redis"`

	// DSN is the database source name for sqlite and postgres.
	DSN string `json:"dsn,omitempty" yaml:"dsn,omitempty" env:"DSN" validate:"required_if=Driver sqlite,required_if=Driver postgres"`

	// RedisAddr is host:port of the Redis server.
	RedisAddr string `json:"redisAddr,omitempty" yaml:"redisAddr,omitempty" env:"REDIS_ADDR" validate:"required_if=Driver redis"`

	// Migrate runs pending migrations when the store opens.
	Migrate bool `json:"migrate,omitempty" yaml:"migrate,omitempty" env:"MIGRATE"`
}

// BackupConfig locates S3 snapshots.
type BackupConfig struct {
	Bucket string `json:"bucket,omitempty" yaml:"bucket,omitempty" env:"BUCKET"`
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty" env:"PREFIX"`
	Region string `json:"region,omitempty" yaml:"region,omitempty" env:"REGION"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `json:"enabled,omitempty" yaml:"enabled,omitempty" env:"ENABLED"`
	Path    string `json:"path,omitempty" yaml:"path,omitempty" env:"PATH" validate:"startswith=/"`
}

// TracingConfig controls OpenTelemetry request spans.
type TracingConfig struct {
	Enabled    bool   `json:"enabled,omitempty" yaml:"enabled,omitempty" env:"ENABLED"`
	TracerName string `json:"tracerName,omitempty" yaml:"tracerName,omitempty" env:"TRACER_NAME"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level  string `json:"level,omitempty" yaml:"level,omitempty" env:"LEVEL" validate:"oneof=debug info warn error"`
	Format string `json:"format,omitempty" yaml:"format,omitempty" env:"FORMAT" validate:"oneof=text json"`
}

// New returns a configuration with all defaults applied.
func New() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load finds datedmemo.json or datedmemo.yaml in dir, falling back to
// defaults when neither exists, then applies .env files and DATEDMEMO_*
// environment overrides, and validates the result.
func Load(dir string) (*Config, error) {
	var (
		cfg *Config
		err error
	)
	for _, name := range configFiles {
		path := filepath.Join(dir, name)
		if _, statErr := os.Stat(path); statErr != nil {
			continue
		}
		if cfg, err = readFile(path); err != nil {
			return nil, err
		}
		break
	}
	if cfg == nil {
		cfg = &Config{}
	}

	if err := LoadEnvFiles(dir); err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads the configuration at path, then applies the environment.
func LoadFile(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.New("E100").
			WithDetail("No configuration file at " + path).
			WithSuggestion("Create datedmemo.json, or run without --config to use defaults")
	}
	cfg, err := readFile(path)
	if err != nil {
		return nil, err
	}
	if err := LoadEnvFiles(filepath.Dir(path)); err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// readFile decodes a JSON or YAML file by extension.
func readFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("E101").Wrap(err)
	}

	cfg := &Config{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, errors.New("E101").
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			WithSuggestion("Check that the file is valid JSON or YAML")
	}

	cfg.configPath = path
	return cfg, nil
}

// LoadEnvFiles loads .env and .env.local from dir when they exist.
func LoadEnvFiles(dir string) error {
	var existing []string
	for _, name := range envFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			existing = append(existing, path)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return errors.New("E103").Wrap(err)
	}
	return nil
}

// ApplyEnv overrides fields from DATEDMEMO_* variables, e.g.
// DATEDMEMO_SERVER_PORT or DATEDMEMO_STORE_DRIVER.
func (c *Config) ApplyEnv() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return errors.New("E103").WithDetail(err.Error())
	}
	return nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration as JSON or YAML, by extension.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New("E101").Wrap(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E101").Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10
	}

	if c.Store.Driver == "" {
		c.Store.Driver = "memory"
	}

	if c.Backup.Prefix == "" {
		c.Backup.Prefix = "datedmemo"
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}

	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = ConfigBaseName
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
		if c.Server.Debug {
			c.Log.Level = "debug"
		}
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every field against its constraints.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return errors.New("E102").Wrap(err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return errors.New("E102").WithDetail(strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", field, fe.Param(), fe.Value())
	case "required_if":
		return fmt.Sprintf("%s is required when %s", field, strings.Replace(fe.Param(), " ", " is ", 1))
	case "min", "max":
		return fmt.Sprintf("%s must be %s %s, got %v", field, map[string]string{"min": "at least", "max": "at most"}[fe.Tag()], fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s fails %s, got %v", field, fe.Tag(), fe.Value())
	}
}

// Address returns host:port for the HTTP listener. Debug servers are only
// reachable from this machine unless a host is set.
func (c *Config) Address() string {
	host := c.Server.Host
	if host == "" {
		host = "0.0.0.0"
		if c.Server.Debug {
			host = "localhost"
		}
	}
	return net.JoinHostPort(host, strconv.Itoa(c.Server.Port))
}

// SlogLevel returns the configured log level.
func (c *Config) SlogLevel() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return l
}
