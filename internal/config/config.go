package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Database drivers.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds the marketsearch API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Search    SearchConfig    `yaml:"search"`
	Auth      AuthConfig      `yaml:"auth"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds service API key settings. Empty disables auth.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int   `yaml:"port"`
	ReadTimeoutSec  int   `yaml:"read_timeout_sec"`
	WriteTimeoutSec int   `yaml:"write_timeout_sec"`
	ShutdownSec     int   `yaml:"shutdown_timeout_sec"`
	MaxBodyBytes    int64 `yaml:"max_body_bytes"`
	TrustProxy      bool  `yaml:"trust_proxy"`
}

// DatabaseConfig holds catalog storage settings.
type DatabaseConfig struct {
	Driver             string `yaml:"driver"` // postgres, memory (default: postgres)
	DSN                string `yaml:"dsn"`
	MaxConns           int32  `yaml:"max_conns"`
	MinConns           int32  `yaml:"min_conns"`
	MaxConnLifetimeSec int    `yaml:"max_conn_lifetime_sec"`
	ReadinessTimeout   int    `yaml:"readiness_timeout_sec"`
	SeedFile           string `yaml:"seed_file"` // memory driver only
}

// RedisConfig holds the rate limiter store. No addrs disables rate limiting.
type RedisConfig struct {
	Addrs     []string        `yaml:"addrs"`
	Password  string          `yaml:"password"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig holds fixed-window limits per client and endpoint.
type RateLimitConfig struct {
	RequestsPerWindow int `yaml:"requests_per_window"` // 0 disables
	WindowSec         int `yaml:"window_sec"`
}

// EmbeddingConfig holds query embedding provider settings. No api_key disables embeddings.
type EmbeddingConfig struct {
	BaseURL          string `yaml:"base_url"`
	APIKey           string `yaml:"api_key"`
	Model            string `yaml:"model"`
	Dimensions       int    `yaml:"dimensions"`
	TimeoutMs        int    `yaml:"timeout_ms"`
	MaxRetries       int    `yaml:"max_retries"`
	RetryBackoffMs   int    `yaml:"retry_backoff_ms"`
	QueryInstruction string `yaml:"query_instruction"`
}

// SearchConfig holds search pipeline tuning.
type SearchConfig struct {
	OverfetchFactor int `yaml:"overfetch_factor"`
}

// Enabled reports whether a provider key is configured.
func (e EmbeddingConfig) Enabled() bool { return e.APIKey != "" }

// Timeout returns the per-attempt embedding timeout.
func (e EmbeddingConfig) Timeout() time.Duration { return time.Duration(e.TimeoutMs) * time.Millisecond }

// RetryBackoff returns the pause between embedding attempts.
func (e EmbeddingConfig) RetryBackoff() time.Duration {
	return time.Duration(e.RetryBackoffMs) * time.Millisecond
}

// Window returns the rate limit window.
func (r RateLimitConfig) Window() time.Duration { return time.Duration(r.WindowSec) * time.Second }

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes YAML with ${VAR} expansion, applies defaults and validates.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.HTTP.MaxBodyBytes <= 0 {
		c.HTTP.MaxBodyBytes = 64 << 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverPostgres
	}
	if c.Database.MaxConns <= 0 {
		c.Database.MaxConns = 10
	}
	if c.Database.MaxConnLifetimeSec <= 0 {
		c.Database.MaxConnLifetimeSec = 1800
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Redis.RateLimit.WindowSec <= 0 {
		c.Redis.RateLimit.WindowSec = 60
	}
	if c.Embedding.TimeoutMs <= 0 {
		c.Embedding.TimeoutMs = 3000
	}
	if c.Embedding.RetryBackoffMs <= 0 {
		c.Embedding.RetryBackoffMs = 100
	}
	if c.Search.OverfetchFactor <= 0 {
		c.Search.OverfetchFactor = 5
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required for driver %q", DriverPostgres)
		}
	case DriverMemory:
		if c.Database.SeedFile == "" {
			return fmt.Errorf("database.seed_file is required for driver %q", DriverMemory)
		}
	default:
		return fmt.Errorf("database.driver must be %q or %q, got %q", DriverPostgres, DriverMemory, c.Database.Driver)
	}
	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("database.min_conns (%d) exceeds max_conns (%d)", c.Database.MinConns, c.Database.MaxConns)
	}
	if c.Redis.RateLimit.RequestsPerWindow < 0 {
		return fmt.Errorf("redis.rate_limit.requests_per_window must be >= 0, got %d", c.Redis.RateLimit.RequestsPerWindow)
	}
	if c.Embedding.MaxRetries < 0 {
		return fmt.Errorf("embedding.max_retries must be >= 0, got %d", c.Embedding.MaxRetries)
	}
	if c.Embedding.Dimensions < 0 {
		return fmt.Errorf("embedding.dimensions must be >= 0, got %d", c.Embedding.Dimensions)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
