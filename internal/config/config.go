package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	domainagg "github.com/Goutham-Eda/Carlo/internal/domain/aggregates"
)

// Config holds all configuration for the CARLO backend.
// Values come from an optional YAML file; environment variables always win.
// Secrets only come from the environment.
type Config struct {
	Env string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`

	Log        LogConfig        `yaml:"log"`
	Database   DatabaseConfig   `yaml:"database"`
	Policy     PolicyConfig     `yaml:"policy"`
	Benchmarks BenchmarksConfig `yaml:"benchmarks"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Tracing    TracingConfig    `yaml:"tracing"`
}

type LogConfig struct {
	Mode string `yaml:"mode" env:"LOG_MODE" env-default:"development"`
}

// DatabaseConfig selects postgres (production) or sqlite (local runs).
type DatabaseConfig struct {
	Driver        string        `yaml:"driver" env:"DB_DRIVER" env-default:"postgres"`
	Host          string        `yaml:"host" env:"POSTGRES_HOST" env-default:"localhost"`
	Port          int           `yaml:"port" env:"POSTGRES_PORT" env-default:"5432"`
	User          string        `yaml:"user" env:"POSTGRES_USER" env-default:"postgres"`
	Password      string        `yaml:"-" env:"POSTGRES_PASSWORD"`
	Name          string        `yaml:"name" env:"POSTGRES_NAME" env-default:"carlo"`
	SSLMode       string        `yaml:"ssl_mode" env:"POSTGRES_SSLMODE" env-default:"disable"`
	SQLitePath    string        `yaml:"sqlite_path" env:"SQLITE_PATH" env-default:"carlo.db"`
	MaxOpenConns  int           `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	SlowThreshold time.Duration `yaml:"slow_threshold" env:"DB_SLOW_THRESHOLD" env-default:"1s"`
	AutoMigrate   bool          `yaml:"auto_migrate" env:"DB_AUTO_MIGRATE" env-default:"true"`
}

// PolicyConfig holds the write-time decisions the schema leaves open.
// AuditOnUserDelete=restrict blocks deleting any registered user, since
// registration itself leaves an audit row.
type PolicyConfig struct {
	AuditOnUserDelete    string `yaml:"audit_on_user_delete" env:"POLICY_AUDIT_ON_USER_DELETE" env-default:"nullify"`
	EnforceRanges        bool   `yaml:"enforce_ranges" env:"POLICY_ENFORCE_RANGES" env-default:"true"`
	ChargeCreditOnUpload bool   `yaml:"charge_credit_on_upload" env:"POLICY_CHARGE_CREDIT_ON_UPLOAD" env-default:"false"`
}

type BenchmarksConfig struct {
	SeedFile string        `yaml:"seed_file" env:"BENCHMARKS_SEED_FILE" env-default:""`
	CacheTTL time.Duration `yaml:"cache_ttl" env:"BENCHMARKS_CACHE_TTL" env-default:"10m"`
}

type MetricsConfig struct {
	// Addr serves /metrics when non-empty, e.g. ":9090".
	Addr string `yaml:"addr" env:"METRICS_ADDR" env-default:""`
}

type TracingConfig struct {
	Enabled     bool    `yaml:"enabled" env:"OTEL_ENABLED" env-default:"false"`
	Endpoint    string  `yaml:"endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT" env-default:""`
	Insecure    bool    `yaml:"insecure" env:"OTEL_EXPORTER_OTLP_INSECURE" env-default:"false"`
	SampleRatio float64 `yaml:"sample_ratio" env:"OTEL_SAMPLER_RATIO" env-default:"0.1"`
	ServiceName string  `yaml:"service_name" env:"OTEL_SERVICE_NAME" env-default:"carlo"`
}

// Load reads path when it exists and applies environment overrides.
// An empty or missing path reads the environment only.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	path = strings.TrimSpace(path)

	useFile := false
	if path != "" {
		_, err := os.Stat(path)
		switch {
		case err == nil:
			useFile = true
		case !errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
	}

	if useFile {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Database.Driver)) {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("database.driver %q must be postgres or sqlite", c.Database.Driver)
	}
	if _, ok := domainagg.ParseAuditUserDeletePolicy(c.Policy.AuditOnUserDelete); !ok {
		return fmt.Errorf("policy.audit_on_user_delete %q must be one of nullify, retain, cascade, restrict", c.Policy.AuditOnUserDelete)
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return fmt.Errorf("tracing.sample_ratio %v must be within [0,1]", c.Tracing.SampleRatio)
	}
	if c.Benchmarks.CacheTTL < 0 {
		return fmt.Errorf("benchmarks.cache_ttl must not be negative")
	}
	return nil
}

// AggregatePolicy converts the policy section into the domain type.
func (c *Config) AggregatePolicy() domainagg.Policy {
	p, _ := domainagg.ParseAuditUserDeletePolicy(c.Policy.AuditOnUserDelete)
	return domainagg.Policy{
		AuditOnUserDelete:    p,
		EnforceRanges:        c.Policy.EnforceRanges,
		ChargeCreditOnUpload: c.Policy.ChargeCreditOnUpload,
	}
}

// PostgresDSN builds the connection URL. The password is never logged.
func (d DatabaseConfig) PostgresDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}
