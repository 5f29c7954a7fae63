package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// DefaultPath is the config file read when none is given.
const DefaultPath = "intake.yaml"

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr        string        `mapstructure:"addr" yaml:"addr"`
	ReadTimeout time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
}

// DatabaseConfig selects the storage backend.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver" yaml:"driver"` // "sqlite" or "postgres"
	DSN    string `mapstructure:"dsn" yaml:"dsn"`       // Secret when it carries credentials
}

// AuthConfig protects the staff API.
//
// WARNING: contains secrets and should not be logged.
type AuthConfig struct {
	StaffToken string `mapstructure:"staff_token" yaml:"staff_token"`
}

// FollowupsConfig controls followup selection and delivery.
type FollowupsConfig struct {
	AfterDays     int    `mapstructure:"after_days" yaml:"after_days"`
	WebhookURL    string `mapstructure:"webhook_url" yaml:"webhook_url"` // empty logs followups instead
	RetryAttempts uint   `mapstructure:"retry_attempts" yaml:"retry_attempts"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

type FormsConfig struct {
	CacheTTL time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl"`
}

// Config is the whole service configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" yaml:"server"`
	Database  DatabaseConfig  `mapstructure:"database" yaml:"database"`
	Auth      AuthConfig      `mapstructure:"auth" yaml:"auth"`
	Followups FollowupsConfig `mapstructure:"followups" yaml:"followups"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
	Forms     FormsConfig     `mapstructure:"forms" yaml:"forms"`
}

var defaults = map[string]any{
	"server.addr":              ":8080",
	"server.read_timeout":      "15s",
	"database.driver":          "sqlite",
	"database.dsn":             "intake.db",
	"followups.after_days":     30,
	"followups.retry_attempts": 3,
	"log.level":                "info",
	"forms.cache_ttl":          "10m",
}

// envBindings maps config keys to the environment variables that can set
// them, preferred name first.
var envBindings = map[string][]string{
	"server.addr":              {"INTAKE_SERVER_ADDR"},
	"server.read_timeout":      {"INTAKE_SERVER_READ_TIMEOUT"},
	"database.driver":          {"INTAKE_DATABASE_DRIVER"},
	"database.dsn":             {"INTAKE_DATABASE_DSN", "DATABASE_URL"},
	"auth.staff_token":         {"INTAKE_AUTH_STAFF_TOKEN"},
	"followups.after_days":     {"INTAKE_FOLLOWUPS_AFTER_DAYS"},
	"followups.webhook_url":    {"INTAKE_FOLLOWUPS_WEBHOOK_URL"},
	"followups.retry_attempts": {"INTAKE_FOLLOWUPS_RETRY_ATTEMPTS"},
	"log.level":                {"INTAKE_LOG_LEVEL"},
	"forms.cache_ttl":          {"INTAKE_FORMS_CACHE_TTL"},
}

// Load loads the config from the file path, falling back to env vars and
// defaults if the file does not exist. Env vars that are set override the
// file.
func Load(filePath string) (*Config, error) {
	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	if err := bindEnvs(v); err != nil {
		return nil, err
	}

	if filePath != "" {
		v.SetConfigFile(filePath)
		if _, err := os.Stat(filePath); !errors.Is(err, fs.ErrNotExist) {
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", filePath, err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

func bindEnvs(v *viper.Viper) error {
	for key, envs := range envBindings {
		inputs := slices.Insert(slices.Clone(envs), 0, key)
		if err := v.BindEnv(inputs...); err != nil {
			return err
		}
	}
	return nil
}

// Validate reports every problem with the config.
func (c *Config) Validate() error {
	var errs *multierror.Error
	if c.Server.Addr == "" {
		errs = multierror.Append(errs, errors.New("server.addr is required"))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = multierror.Append(errs, errors.New("server.read_timeout must be positive"))
	}
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		errs = multierror.Append(errs, fmt.Errorf("database.driver %q must be sqlite or postgres", c.Database.Driver))
	}
	if c.Database.DSN == "" {
		errs = multierror.Append(errs, errors.New("database.dsn is required"))
	}
	if c.Followups.AfterDays <= 0 {
		errs = multierror.Append(errs, errors.New("followups.after_days must be positive"))
	}
	if c.Forms.CacheTTL <= 0 {
		errs = multierror.Append(errs, errors.New("forms.cache_ttl must be positive"))
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("log.level: %w", err))
	}
	return errs.ErrorOrNil()
}
