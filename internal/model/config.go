package model

// Config holds application configuration
type Config struct {
	Server     ServerConfig
	Extraction ExtractionConfig
	Logging    LoggingConfig
	RateLimit  RateLimitConfig
	Frontend   FrontendConfig
	Metrics    MetricsConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port    int
	Host    string
	Timeout int // seconds
}

// ExtractionConfig selects and tunes the extraction provider
type ExtractionConfig struct {
	Provider      string // kkdai, ytdlp or worker
	Timeout       int    // seconds, bounds a single provider call
	SafetyTimeout int    // seconds, bounds the whole request
	YtDlpPath     string
	Worker        WorkerConfig
	HTTPTimeout   int // seconds, HTTP client timeout used by the kkdai provider
}

// WorkerConfig holds extraction worker configuration
type WorkerConfig struct {
	Port    int
	Host    string
	Timeout int // seconds
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level    string
	FilePath string // empty logs to stdout only
}

// RateLimitConfig holds per-IP rate limiting configuration
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerMinute int
	BurstSize         int
	CleanupInterval   int // seconds
}

// FrontendConfig points at the built display client
type FrontendConfig struct {
	Dir string
}

// MetricsConfig holds Prometheus exposition settings
type MetricsConfig struct {
	Enabled bool
	Path    string
}
