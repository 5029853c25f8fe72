package config

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Orders   OrdersConfig   `mapstructure:"orders"`
	Events   EventsConfig   `mapstructure:"events"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
}

// ServerConfig contains the HTTP server settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains the database connection settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains token and password hashing settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0,lte=44640"`
	BCryptCost           int    `mapstructure:"bcrypt_cost" validate:"gte=4,lte=31"`
}

// OrdersConfig controls order placement behavior.
type OrdersConfig struct {
	// ReserveStock decrements item counts inside the order-creation transaction.
	ReserveStock bool `mapstructure:"reserve_stock"`
}

// EventsConfig configures publication of order events. With no brokers,
// events are only delivered to in-process handlers.
type EventsConfig struct {
	KafkaBrokers []string `mapstructure:"kafka_brokers" validate:"dive,hostname_port"`
	KafkaTopic   string   `mapstructure:"kafka_topic" validate:"required_with=KafkaBrokers"`
}

// TracingConfig configures OpenTelemetry trace export. An empty endpoint
// disables export.
type TracingConfig struct {
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	// Insecure sends spans over plain HTTP.
	Insecure    bool   `mapstructure:"insecure"`
	ServiceName string `mapstructure:"service_name" validate:"required"`
}
