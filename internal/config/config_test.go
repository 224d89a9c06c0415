package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	domainagg "github.com/Goutham-Eda/Carlo/internal/domain/aggregates"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	path := writeConfig(t, `
env: "staging"
database:
  driver: "sqlite"
  sqlite_path: "/tmp/from-yaml.db"
  slow_threshold: "250ms"
policy:
  audit_on_user_delete: "retain"
  enforce_ranges: true
benchmarks:
  cache_ttl: "2m"
`)
	t.Setenv("SQLITE_PATH", "/tmp/from-env.db")
	t.Setenv("POLICY_AUDIT_ON_USER_DELETE", "cascade")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Env != "staging" {
		t.Errorf("expected env=staging from yaml, got %q", cfg.Env)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("expected sqlite driver, got %q", cfg.Database.Driver)
	}
	if cfg.Database.SQLitePath != "/tmp/from-env.db" {
		t.Errorf("expected env to override sqlite_path, got %q", cfg.Database.SQLitePath)
	}
	if cfg.Database.SlowThreshold != 250*time.Millisecond {
		t.Errorf("expected 250ms slow threshold, got %v", cfg.Database.SlowThreshold)
	}
	if cfg.Benchmarks.CacheTTL != 2*time.Minute {
		t.Errorf("expected 2m cache ttl, got %v", cfg.Benchmarks.CacheTTL)
	}
	if got := cfg.AggregatePolicy().AuditOnUserDelete; got != domainagg.AuditCascade {
		t.Errorf("expected cascade policy from env, got %q", got)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Database.Driver != "postgres" || cfg.Database.Port != 5432 || cfg.Database.Name != "carlo" {
		t.Errorf("unexpected database defaults: %+v", cfg.Database)
	}
	p := cfg.AggregatePolicy()
	if p.AuditOnUserDelete != domainagg.AuditNullify || !p.EnforceRanges || p.ChargeCreditOnUpload {
		t.Errorf("unexpected policy defaults: %+v", p)
	}
	if cfg.Benchmarks.CacheTTL != 10*time.Minute {
		t.Errorf("expected 10m default cache ttl, got %v", cfg.Benchmarks.CacheTTL)
	}
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	path := writeConfig(t, "database:\n  driver: \"mysql\"\n")
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "database.driver") {
		t.Fatalf("expected driver validation error, got %v", err)
	}
}

func TestLoad_RejectsUnknownAuditPolicy(t *testing.T) {
	t.Setenv("POLICY_AUDIT_ON_USER_DELETE", "archive")
	_, err := Load("")
	if err == nil || !strings.Contains(err.Error(), "audit_on_user_delete") {
		t.Fatalf("expected policy validation error, got %v", err)
	}
}

func TestPostgresDSN(t *testing.T) {
	d := DatabaseConfig{User: "carlo", Password: "pw", Host: "db", Port: 5433, Name: "carlo", SSLMode: "require"}
	if got := d.PostgresDSN(); got != "postgres://carlo:pw@db:5433/carlo?sslmode=require" {
		t.Fatalf("unexpected dsn: %s", got)
	}
}
