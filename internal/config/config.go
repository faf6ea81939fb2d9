// Package config provides centralized configuration management for the leads
// dashboard. It loads configuration from environment variables with sensible
// defaults and validates all settings on startup to fail fast on
// misconfiguration.
package config

import (
	"strconv"
	"time"

	"github.com/JonMunkholm/leadboard/internal/leads"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Upstream UpstreamConfig
	Leads    LeadsConfig
	Upload   UploadConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
	Refresh  RefreshConfig

	// Rules is the display configuration. It is read from
	// Leads.RulesFile when set, otherwise leads.DefaultRules.
	Rules leads.Rules `env:"-"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" envAlt:"PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 60s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// UpstreamConfig points at the backend that produces the leads CSV and
// owns authentication.
type UpstreamConfig struct {
	// URL is the backend base URL (required)
	URL string `env:"UPSTREAM_URL" envAlt:"API_BASE_URL" required:"true"`

	// CSVPath is the path of the most recent leads export.
	CSVPath string `env:"UPSTREAM_CSV_PATH" default:"/most_recent_leads_with_hyperlinks.csv"`

	// Timeout bounds every upstream call (default: 30s). Generation can be slow.
	Timeout time.Duration `env:"UPSTREAM_TIMEOUT" default:"30s"`
}

// LeadsConfig controls how raw CSV becomes the stored table.
type LeadsConfig struct {
	// RedactColumns lists zero-based column positions removed after parsing.
	RedactColumns []int `env:"REDACT_COLUMNS" default:"15"`

	// File is an optional local CSV watched and loaded on change.
	File string `env:"LEADS_FILE"`

	// RulesFile is an optional YAML file with display rules.
	RulesFile string `env:"DISPLAY_RULES_FILE"`

	// LoadOnStart fetches from upstream once at startup (default: true)
	LoadOnStart bool `env:"LEADS_LOAD_ON_START" default:"true"`
}

// UploadConfig holds CSV upload processing settings.
type UploadConfig struct {
	// MaxFileSize is the maximum allowed file size; accepts KB/MB/GB (default: 20MB)
	MaxFileSize int64 `env:"UPLOAD_MAX_FILE_SIZE" default:"20MB" unit:"bytes"`

	// MaxConcurrent is the maximum number of parallel loads (default: 3)
	MaxConcurrent int `env:"UPLOAD_MAX_CONCURRENT" default:"3"`

	// MaxWaitTime is how long to wait for a load slot (default: 10s)
	MaxWaitTime time.Duration `env:"UPLOAD_MAX_WAIT_TIME" default:"10s"`

	// Timeout is the maximum duration for a single load operation (default: 2m)
	Timeout time.Duration `env:"UPLOAD_TIMEOUT" default:"2m"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 120)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"120"`

	// LoadLimit is requests per minute for refresh, upload and generate (default: 10)
	LoadLimit int `env:"RATE_LIMIT_LOAD" default:"10"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// AuthRequired gates lead routes behind the upstream session (default: false)
	AuthRequired bool `env:"AUTH_REQUIRED" default:"false"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// RefreshConfig holds the periodic upstream refresh settings.
type RefreshConfig struct {
	// Interval between automatic refreshes; 0 disables (default: 0s)
	Interval time.Duration `env:"REFRESH_INTERVAL" default:"0s"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
