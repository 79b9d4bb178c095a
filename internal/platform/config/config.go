// Package config maps environment variables into a typed configuration struct.
// Configuration is loaded once at bootstrap and passed to components through
// constructors; nothing in this repository reads the environment after startup.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all runtime configuration for the trust core service.
type Config struct {
	Addr string `env:"TRUSTCORE_ADDR" envDefault:":8080"`

	// Signing key for access tokens. The default exists only so local
	// development works out of the box.
	JWTSigningKey string `env:"JWT_SIGNING_KEY" envDefault:"dev-secret-key-change-in-production"`
	JWTIssuer     string `env:"JWT_ISSUER" envDefault:"trustcore"`
	JWTAudience   string `env:"JWT_AUDIENCE" envDefault:"trustcore-api"`

	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"15m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"168h"`

	// DecisionCacheTTL bounds how long a stale authorization decision can
	// survive after the tuples behind it changed.
	DecisionCacheTTL time.Duration `env:"DECISION_CACHE_TTL" envDefault:"5m"`
	RoleCacheTTL     time.Duration `env:"ROLE_CACHE_TTL" envDefault:"5m"`

	// CacheTimeout caps every hot-path cache round trip; verification and
	// authorization fail closed when it elapses.
	CacheTimeout time.Duration `env:"CACHE_TIMEOUT" envDefault:"250ms"`

	Redis    RedisConfig
	Postgres PostgresConfig
	Kafka    KafkaConfig

	AuditQueueSize int `env:"AUDIT_QUEUE_SIZE" envDefault:"4096"`
}

// RedisConfig captures connection settings for the shared cache.
type RedisConfig struct {
	URL          string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"500ms"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"500ms"`
}

// PostgresConfig holds the policy and audit store connection strings. They
// default to the same database; deployments may split them.
type PostgresConfig struct {
	PolicyURL string `env:"POLICY_DATABASE_URL"`
	AuditURL  string `env:"AUDIT_DATABASE_URL"`
}

// KafkaConfig enables the Kafka audit sink when brokers are set.
type KafkaConfig struct {
	Brokers    []string `env:"KAFKA_BROKERS" envSeparator:","`
	AuditTopic string   `env:"KAFKA_AUDIT_TOPIC" envDefault:"trustcore.audit"`
}

// Load parses environment variables into a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse environment: %w", err)
	}
	return cfg, nil
}
