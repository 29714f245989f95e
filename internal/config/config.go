package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth" validate:"required"`
	Analytics AnalyticsConfig `mapstructure:"analytics" validate:"required"`
	Events    EventsConfig    `mapstructure:"events"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// Timezone is the IANA name used to compute the default analytics month.
	Timezone           string   `mapstructure:"timezone" validate:"required,timezone"`
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins" validate:"required,min=1"`
	ShutdownTimeoutSec int      `mapstructure:"shutdown_timeout_seconds" validate:"gt=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL               string `mapstructure:"url" validate:"required,url"`
	MaxOpenConns      int    `mapstructure:"max_open_conns" validate:"gt=0"`
	MaxIdleConns      int    `mapstructure:"max_idle_conns" validate:"gte=0"`
	ConnectTimeoutSec int    `mapstructure:"connect_timeout_seconds" validate:"gt=0"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"gt=0"`
	BCryptCost           int    `mapstructure:"bcrypt_cost" validate:"gte=4,lte=31"`
}

// AnalyticsConfig controls how analytics are computed and cached.
type AnalyticsConfig struct {
	Currency             string `mapstructure:"currency" validate:"required,len=3,uppercase"`
	CacheSize            int    `mapstructure:"cache_size" validate:"gte=0"`
	CacheTTLSeconds      int    `mapstructure:"cache_ttl_seconds" validate:"gte=0"`
	CacheCleanupSchedule string `mapstructure:"cache_cleanup_schedule" validate:"required"`
}

// EventsConfig configures the optional message broker. Events stay in
// process when AMQPURL is empty.
type EventsConfig struct {
	AMQPURL  string `mapstructure:"amqp_url" validate:"omitempty,url"`
	Exchange string `mapstructure:"exchange" validate:"required_with=AMQPURL"`
}
