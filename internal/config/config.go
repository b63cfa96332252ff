// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address the REST API listens on (e.g. :5000).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// GRPCAddr is the address of the gRPC health endpoint; empty disables it.
	GRPCAddr string `mapstructure:"GRPC_ADDR"`
	// DatabaseURL is the Postgres DSN. Empty selects the in-memory store.
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// JWTSecret signs user and admin tokens with HS256 when no key pair is configured.
	JWTSecret string `mapstructure:"JWT_SECRET"`
	// JWTPrivateKey is the PEM-encoded private key (RSA or ECDSA) or path to file; used with JWT_PUBLIC_KEY for RS256/ES256.
	JWTPrivateKey string `mapstructure:"JWT_PRIVATE_KEY"`
	// JWTPublicKey is the PEM-encoded public key or path to file; used with JWT_PRIVATE_KEY.
	JWTPublicKey string `mapstructure:"JWT_PUBLIC_KEY"`
	JWTIssuer    string `mapstructure:"JWT_ISSUER"`
	JWTAudience  string `mapstructure:"JWT_AUDIENCE"`
	// JWTUserTTL is the user token lifetime (e.g. "1h").
	JWTUserTTL string `mapstructure:"JWT_USER_TTL"`
	// JWTAdminTTL is the admin token lifetime (e.g. "24h").
	JWTAdminTTL string `mapstructure:"JWT_ADMIN_TTL"`
	// CookieName is the name of the session cookie carrying the token.
	CookieName   string `mapstructure:"COOKIE_NAME"`
	CookieSecure bool   `mapstructure:"COOKIE_SECURE"`

	// AdminUsername and AdminPassword are the single set of admin credentials.
	AdminUsername string `mapstructure:"ADMIN_USERNAME"`
	AdminPassword string `mapstructure:"ADMIN_PASSWORD"`
	// BcryptCost is the bcrypt cost factor (4–31); default 12.
	BcryptCost int `mapstructure:"BCRYPT_COST"`

	// DeviceAPIKey, when set, must be sent as X-Device-Key by phones on device-facing endpoints.
	DeviceAPIKey string `mapstructure:"DEVICE_API_KEY"`

	// MessageRetentionLimit is the number of newest messages kept per user and per device.
	MessageRetentionLimit int `mapstructure:"MESSAGE_RETENTION_LIMIT"`
	// DeviceSweepInterval is how often the liveness sweeper runs (e.g. "1m").
	DeviceSweepInterval string `mapstructure:"DEVICE_SWEEP_INTERVAL"`
	// DeviceInactiveAfter is the silence after which a device is marked inactive (e.g. "2m").
	DeviceInactiveAfter string `mapstructure:"DEVICE_INACTIVE_AFTER"`

	// CORSOrigins is a comma-separated list of allowed dashboard origins.
	CORSOrigins string `mapstructure:"CORS_ORIGINS"`

	// Dashboard cache (optional). When RedisAddr is empty counters are always computed.
	RedisAddr         string `mapstructure:"REDIS_ADDR"`
	RedisPassword     string `mapstructure:"REDIS_PASSWORD"`
	RedisDB           int    `mapstructure:"REDIS_DB"`
	DashboardCacheTTL string `mapstructure:"DASHBOARD_CACHE_TTL"`

	// Telemetry (optional). When Kafka brokers are set, the server emits request events to Kafka.
	TelemetryKafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	TelemetryKafkaTopic   string `mapstructure:"TELEMETRY_KAFKA_TOPIC"`
	// Worker-only: Loki URL for the telemetry worker to push logs (e.g. http://localhost:3100).
	LokiURL      string `mapstructure:"LOKI_URL"`
	KafkaGroupID string `mapstructure:"KAFKA_GROUP_ID"`

	OTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTLPInsecure bool   `mapstructure:"OTEL_EXPORTER_OTLP_INSECURE"`

	// AccessPolicyFile optionally replaces the built-in Rego access policy.
	AccessPolicyFile string `mapstructure:"ACCESS_POLICY_FILE"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":5000")
	v.SetDefault("GRPC_ADDR", ":9090")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_PRIVATE_KEY", "")
	v.SetDefault("JWT_PUBLIC_KEY", "")
	v.SetDefault("JWT_ISSUER", "smsgw-auth")
	v.SetDefault("JWT_AUDIENCE", "smsgw-api")
	v.SetDefault("JWT_USER_TTL", "1h")
	v.SetDefault("JWT_ADMIN_TTL", "24h")
	v.SetDefault("COOKIE_NAME", "token")
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("ADMIN_USERNAME", "")
	v.SetDefault("ADMIN_PASSWORD", "")
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("DEVICE_API_KEY", "")
	v.SetDefault("MESSAGE_RETENTION_LIMIT", 2000)
	v.SetDefault("DEVICE_SWEEP_INTERVAL", "1m")
	v.SetDefault("DEVICE_INACTIVE_AFTER", "2m")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("DASHBOARD_CACHE_TTL", "30s")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("TELEMETRY_KAFKA_TOPIC", "smsgw-telemetry")
	v.SetDefault("LOKI_URL", "")
	v.SetDefault("KAFKA_GROUP_ID", "smsgw-telemetry-worker")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", false)
	v.SetDefault("ACCESS_POLICY_FILE", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("APP_ENV", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("config: HTTP_ADDR must be set")
	}

	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = 12
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, errors.New("config: BCRYPT_COST must be between 4 and 31")
	}

	if cfg.MessageRetentionLimit <= 0 {
		return nil, errors.New("config: MESSAGE_RETENTION_LIMIT must be positive")
	}

	if cfg.Env == "production" && cfg.JWTPrivateKey == "" && len(cfg.JWTSecret) < 32 {
		return nil, errors.New("config: JWT_SECRET must be at least 32 characters when APP_ENV=production")
	}

	return &cfg, nil
}

// UserTTL parses JWTUserTTL as a time.Duration. Returns 1h if unset or invalid.
func (c *Config) UserTTL() time.Duration {
	return parseDuration(c.JWTUserTTL, time.Hour)
}

// AdminTTL parses JWTAdminTTL as a time.Duration. Returns 24h if unset or invalid.
func (c *Config) AdminTTL() time.Duration {
	return parseDuration(c.JWTAdminTTL, 24*time.Hour)
}

// SweepInterval returns the liveness sweep period. Returns 1m if unset or invalid.
func (c *Config) SweepInterval() time.Duration {
	return parseDuration(c.DeviceSweepInterval, time.Minute)
}

// InactiveAfter returns the device inactivity cutoff. Returns 2m if unset or invalid.
func (c *Config) InactiveAfter() time.Duration {
	return parseDuration(c.DeviceInactiveAfter, 2*time.Minute)
}

// CacheTTL returns the dashboard cache TTL. Returns 30s if unset or invalid.
func (c *Config) CacheTTL() time.Duration {
	return parseDuration(c.DashboardCacheTTL, 30*time.Second)
}

// TelemetryKafkaBrokersList returns Kafka broker addresses from the comma-separated config.
// Used to decide if telemetry is enabled (non-empty list) and to create the producer.
func (c *Config) TelemetryKafkaBrokersList() []string {
	if c == nil {
		return nil
	}
	return splitList(c.TelemetryKafkaBrokers)
}

// CORSOriginList returns the allowed dashboard origins.
func (c *Config) CORSOriginList() []string {
	if c == nil {
		return nil
	}
	return splitList(c.CORSOrigins)
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
