package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	defaultPort                 = 9000
	defaultMetricsPort          = 2112
	defaultSessionTTL           = 7 * 24 * time.Hour
	defaultDocumentCacheTTL     = 10 * time.Minute
	defaultLoginRateLimitPerMin = 10
	defaultWriteRateLimitPerMin = 600
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	MetricsPort int    `toml:"metrics_port"`
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// postgres
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	PostgresUser   string `toml:"postgres_user"`
	MigrateOnStart bool   `toml:"migrate_on_start"`
	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`
	// sessions, cache and limits
	SessionTTL           time.Duration `toml:"session_ttl"`
	DocumentCacheTTL     time.Duration `toml:"document_cache_ttl"`
	LoginRateLimitPerMin int           `toml:"login_rate_limit_per_min"`
	WriteRateLimitPerMin int           `toml:"write_rate_limit_per_min"`
	AllowedOrigins       []string      `toml:"allowed_origins"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Load reads the TOML file and returns the config of the given environment,
// with defaults filled in for the omitted values.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}
	return t.resolve(env)
}

// Parse is Load for an in-memory TOML document.
func Parse(env, data string) (*Config, error) {
	var t Toml
	if _, err := toml.Decode(data, &t); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return t.resolve(env)
}

func (t *Toml) resolve(env string) (*Config, error) {
	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config section for env: %s", env)
	}

	cfg.setDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid %s config: %w", env, err)
	}
	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.Port == 0 {
		c.Port = defaultPort
	}
	if c.MetricsPort == 0 {
		c.MetricsPort = defaultMetricsPort
	}
	if c.PostgresUser == "" {
		c.PostgresUser = "postgres"
	}
	if c.SessionTTL == 0 {
		c.SessionTTL = defaultSessionTTL
	}
	if c.DocumentCacheTTL == 0 {
		c.DocumentCacheTTL = defaultDocumentCacheTTL
	}
	if c.LoginRateLimitPerMin == 0 {
		c.LoginRateLimitPerMin = defaultLoginRateLimitPerMin
	}
	if c.WriteRateLimitPerMin == 0 {
		c.WriteRateLimitPerMin = defaultWriteRateLimitPerMin
	}
}

func (c *Config) validate() error {
	if c.Port == c.MetricsPort {
		return errors.New("port and metrics port must differ")
	}
	if c.PostgresHost == "" || c.PostgresDBName == "" {
		return errors.New("postgres host and db name are required")
	}
	if c.RedisHost == "" {
		return errors.New("redis host is required")
	}
	return nil
}
