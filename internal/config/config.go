package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Cache    CacheConfig    `mapstructure:"cache" validate:"required"`
	Task     TaskConfig     `mapstructure:"task" validate:"required"`
	Log      LogConfig      `mapstructure:"log" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
// The application has a single admin principal; its credentials live in
// configuration rather than a user table.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required,min=32"`
	AdminUsername        string `mapstructure:"admin_username" validate:"required"`
	AdminPasswordHash    string `mapstructure:"admin_password_hash" validate:"required"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
}

// CacheConfig contains settings for the in-memory cache store.
type CacheConfig struct {
	MaxEntries int `mapstructure:"max_entries" validate:"required,gt=0"`
}

// TaskConfig contains settings for the background job runner.
type TaskConfig struct {
	WorkerCount int `mapstructure:"worker_count" validate:"required,gt=0"`
	QueueSize   int `mapstructure:"queue_size" validate:"required,gt=0"`
}

// LogConfig contains settings for generated build-log files.
type LogConfig struct {
	Dir string `mapstructure:"dir" validate:"required"`
}
