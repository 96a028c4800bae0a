// Package config loads the server configuration from environment variables.
// Every field has a default, so an empty environment yields a working
// in-memory setup; Validate reports every bad setting at once.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	SQLite   SQLiteConfig
	Table    TableConfig
	Export   ExportConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout bounds a single request, dataset loading included
	// (default: 30s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"30s"`
}

// DatabaseConfig holds the optional Postgres connection. Postgres-backed
// datasets report themselves unavailable when URL is empty.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string. DB_URL is accepted too.
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	MaxConns        int           `env:"DB_MAX_CONNS" default:"10"`
	MinConns        int           `env:"DB_MIN_CONNS" default:"0"`
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// SQLiteConfig holds the local SQLite database.
type SQLiteConfig struct {
	// Path is the database file, or ":memory:" (default)
	Path string `env:"SQLITE_PATH" default:":memory:"`

	// Seed fills the demo tables when they are empty (default: true)
	Seed bool `env:"SQLITE_SEED" default:"true"`
}

// TableConfig holds table engine defaults.
type TableConfig struct {
	// PageSize is used when a request does not ask for one (default: 25)
	PageSize int `env:"TABLE_PAGE_SIZE" default:"25"`

	// MaxPageSize caps the page size a request may ask for (default: 500)
	MaxPageSize int `env:"TABLE_MAX_PAGE_SIZE" default:"500"`

	// MaxLeafRowFilterDepth is how deep sub rows are filtered (default: 100)
	MaxLeafRowFilterDepth int `env:"TABLE_MAX_LEAF_ROW_FILTER_DEPTH" default:"100"`

	// Debug logs every row model recomputation (default: false)
	Debug bool `env:"TABLE_DEBUG" default:"false"`

	// MaxAge reloads a dataset from its source once it is this old.
	// Zero keeps datasets until an explicit reload (default: 0).
	MaxAge time.Duration `env:"TABLE_MAX_AGE" default:"0s"`
}

// ExportConfig holds export settings.
type ExportConfig struct {
	// DefaultFormat is used when a request names none: csv, json or parquet
	DefaultFormat string `env:"EXPORT_DEFAULT_FORMAT" default:"csv"`

	// MaxConcurrent caps exports being encoded at once (default: 4)
	MaxConcurrent int `env:"EXPORT_MAX_CONCURRENT" default:"4"`

	// MaxWait is how long an export waits for a slot (default: 10s)
	MaxWait time.Duration `env:"EXPORT_MAX_WAIT" default:"10s"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies lists proxy CIDRs whose X-Real-IP and X-Forwarded-For
	// headers are believed.
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// RequireAPIKey gates the JSON API behind X-API-Key (default: false)
	RequireAPIKey bool     `env:"REQUIRE_API_KEY" default:"false"`
	APIKeys       []string `env:"API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
