package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Events   EventsConfig   `mapstructure:"events"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// TrustProxyHeaders takes the client address from X-Forwarded-For or
	// X-Real-IP. Enable only behind a proxy that overwrites those headers;
	// otherwise clients can pick their own rate limit key.
	TrustProxyHeaders bool `mapstructure:"trust_proxy_headers"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required,min=32"`
	Issuer               string `mapstructure:"issuer" validate:"required"`
	Audience             string `mapstructure:"audience" validate:"required"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,min=1,max=44640"` // max 31 days
	BCryptCost           int    `mapstructure:"bcrypt_cost" validate:"required,min=4,max=31"`
}

// RedisConfig configures the optional Redis instance backing the auth
// rate limiter. An empty URL disables rate limiting.
type RedisConfig struct {
	URL                   string `mapstructure:"url" validate:"omitempty,url"`
	AuthRateLimit         int    `mapstructure:"auth_rate_limit" validate:"gte=0"`
	AuthRateWindowSeconds int    `mapstructure:"auth_rate_window_seconds" validate:"gte=1"`
}

// EventsConfig sizes the background delivery of task lifecycle events.
type EventsConfig struct {
	QueueSize   int `mapstructure:"queue_size" validate:"gte=1"`
	WorkerCount int `mapstructure:"worker_count" validate:"gte=1"`
}
