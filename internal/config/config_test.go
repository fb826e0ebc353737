package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	cfg := Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{DSN: "postgres://localhost/market"},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate_OK(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"port zero", func(c *Config) { c.HTTP.Port = 0 }, "http.port"},
		{"port too large", func(c *Config) { c.HTTP.Port = 70000 }, "http.port"},
		{"postgres without dsn", func(c *Config) { c.Database.DSN = "" }, "database.dsn"},
		{"memory without seed", func(c *Config) { c.Database.Driver = DriverMemory }, "database.seed_file"},
		{"unknown driver", func(c *Config) { c.Database.Driver = "valkey" }, "database.driver"},
		{"min above max", func(c *Config) { c.Database.MinConns = 20 }, "min_conns"},
		{"negative rate limit", func(c *Config) { c.Redis.RateLimit.RequestsPerWindow = -1 }, "requests_per_window"},
		{"negative retries", func(c *Config) { c.Embedding.MaxRetries = -2 }, "max_retries"},
		{"negative dimensions", func(c *Config) { c.Embedding.Dimensions = -1 }, "dimensions"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_MemoryDriver(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Driver: DriverMemory, SeedFile: "catalog.yaml"},
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.HTTP.MaxBodyBytes != 64<<10 {
		t.Errorf("expected MaxBodyBytes=65536, got %d", cfg.HTTP.MaxBodyBytes)
	}
	if cfg.Database.Driver != DriverPostgres {
		t.Errorf("expected driver %q, got %q", DriverPostgres, cfg.Database.Driver)
	}
	if cfg.Database.MaxConns != 10 {
		t.Errorf("expected MaxConns=10, got %d", cfg.Database.MaxConns)
	}
	if cfg.Redis.RateLimit.Window() != time.Minute {
		t.Errorf("expected 1m window, got %v", cfg.Redis.RateLimit.Window())
	}
	if cfg.Embedding.Timeout() != 3*time.Second {
		t.Errorf("expected 3s embedding timeout, got %v", cfg.Embedding.Timeout())
	}
	if cfg.Embedding.RetryBackoff() != 100*time.Millisecond {
		t.Errorf("expected 100ms backoff, got %v", cfg.Embedding.RetryBackoff())
	}
	if cfg.Search.OverfetchFactor != 5 {
		t.Errorf("expected OverfetchFactor=5, got %d", cfg.Search.OverfetchFactor)
	}
	if cfg.Embedding.Enabled() {
		t.Error("embedding should be disabled without api key")
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:      HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Database:  DatabaseConfig{Driver: DriverMemory, ReadinessTimeout: 15},
		Embedding: EmbeddingConfig{TimeoutMs: 800},
		Search:    SearchConfig{OverfetchFactor: 3},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("expected WriteTimeoutSec=60, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Database.Driver != DriverMemory {
		t.Errorf("expected driver memory, got %q", cfg.Database.Driver)
	}
	if cfg.Embedding.Timeout() != 800*time.Millisecond {
		t.Errorf("expected 800ms, got %v", cfg.Embedding.Timeout())
	}
	if cfg.Search.OverfetchFactor != 3 {
		t.Errorf("expected OverfetchFactor=3, got %d", cfg.Search.OverfetchFactor)
	}
}

func TestParse_ExpandsEnv(t *testing.T) {
	t.Setenv("MARKETSEARCH_TEST_DSN", "postgres://db/market")
	t.Setenv("MARKETSEARCH_TEST_KEY", "")

	data := []byte(`
http:
  port: 8080
database:
  dsn: ${MARKETSEARCH_TEST_DSN}
embedding:
  api_key: ${MARKETSEARCH_TEST_KEY:-}
  model: ${MARKETSEARCH_TEST_MODEL:-text-embedding-3-small}
redis:
  addrs: ["localhost:6379"]
  rate_limit:
    requests_per_window: 30
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Database.DSN != "postgres://db/market" {
		t.Errorf("dsn: got %q", cfg.Database.DSN)
	}
	if cfg.Embedding.Model != "text-embedding-3-small" {
		t.Errorf("model default: got %q", cfg.Embedding.Model)
	}
	if cfg.Embedding.Enabled() {
		t.Error("embedding should be disabled with empty key")
	}
	if cfg.Redis.RateLimit.RequestsPerWindow != 30 || len(cfg.Redis.Addrs) != 1 {
		t.Errorf("redis: got %+v", cfg.Redis)
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse([]byte("http: [")); err == nil {
		t.Error("expected YAML error")
	}
	if _, err := Parse([]byte("http:\n  port: 8080\n")); err == nil {
		t.Error("expected validation error for missing dsn")
	}
}

func TestLoad_RepositoryConfigs(t *testing.T) {
	t.Setenv("DATABASE_DSN", "postgres://localhost/market")
	for _, env := range []string{"local", "prod"} {
		t.Run(env, func(t *testing.T) {
			if _, err := Load(env); err != nil {
				t.Fatalf("Load(%s): %v", env, err)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("does-not-exist"); err == nil {
		t.Error("expected error for missing config")
	}
}
