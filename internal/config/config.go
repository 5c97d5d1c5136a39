// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Upload   UploadConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Store    StoreConfig
	Session  SessionConfig
	Matrix   MatrixConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" envAlt:"PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 30s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"30s"`

	// WriteTimeout is the maximum duration for writing response (default: 60s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 15s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"15s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// UploadConfig holds ALS/SSD upload settings.
type UploadConfig struct {
	// MaxFileSize is the maximum size of one uploaded file; accepts 20MB, 512KB (default: 50MB)
	MaxFileSize ByteSize `env:"UPLOAD_MAX_FILE_SIZE" default:"50MB"`

	// MaxMemory is the multipart form memory buffer before spilling to disk (default: 32MB)
	MaxMemory ByteSize `env:"UPLOAD_MAX_MEMORY" default:"32MB"`

	// MaxConcurrent is the number of uploads decoded at once (default: 4)
	MaxConcurrent int `env:"UPLOAD_MAX_CONCURRENT" default:"4"`

	// MaxWait is how long an upload waits for a free slot (default: 30s)
	MaxWait time.Duration `env:"UPLOAD_MAX_WAIT" default:"30s"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 120)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"120"`

	// UploadLimit is requests per minute for upload endpoints (default: 20)
	UploadLimit int `env:"RATE_LIMIT_UPLOAD" default:"20"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// AllowedOrigins is a comma-separated list of origins allowed to call the API
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS"`
}

// StoreConfig selects where the folder selection is remembered.
type StoreConfig struct {
	// Driver is memory, sqlite or postgres (default: sqlite)
	Driver string `env:"STORE_DRIVER" default:"sqlite"`

	// DSN is the sqlite file path or postgres URL (default: data/matrixdiff.db)
	DSN string `env:"STORE_DSN" envAlt:"DATABASE_URL" default:"data/matrixdiff.db"`

	// SelectionKey is the key holding the saved selection
	SelectionKey string `env:"STORE_SELECTION_KEY" default:"als-matrix-folder-selection"`

	// Timeout bounds each store operation (default: 5s)
	Timeout time.Duration `env:"STORE_TIMEOUT" default:"5s"`

	// MaxConns is the postgres pool size (default: 4)
	MaxConns int `env:"STORE_MAX_CONNS" default:"4"`
}

// SessionConfig holds reconciliation session settings.
type SessionConfig struct {
	// MaxSessions is the number of live sessions kept before evicting the least recently used (default: 256)
	MaxSessions int `env:"SESSION_MAX" default:"256"`

	// IdleTimeout closes sessions unused for this long; 0 disables the sweeper (default: 2h)
	IdleTimeout time.Duration `env:"SESSION_IDLE_TIMEOUT" default:"2h"`

	// SweepInterval is how often idle sessions are checked (default: 5m)
	SweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" default:"5m"`
}

// MatrixConfig holds matrix selection settings.
type MatrixConfig struct {
	// PreferredOID is the matrix used when a request names none (default: MASTERDASHBOARD)
	PreferredOID string `env:"MATRIX_PREFERRED_OID" default:"MASTERDASHBOARD"`
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
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
