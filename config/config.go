package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"ytinfo/internal/model"

	"github.com/joho/godotenv"
)

// Supported extraction providers
const (
	ProviderKkdai  = "kkdai"
	ProviderYtDlp  = "ytdlp"
	ProviderWorker = "worker"
)

// Load loads configuration from environment variables
func Load() *model.Config {
	godotenv.Load()

	return &model.Config{
		Server: model.ServerConfig{
			Port:    getEnvInt("SERVER_PORT", 5000),
			Host:    getEnvStr("SERVER_HOST", "0.0.0.0"),
			Timeout: getEnvInt("SERVER_TIMEOUT", 60),
		},
		Extraction: model.ExtractionConfig{
			Provider:      strings.ToLower(strings.TrimSpace(getEnvStr("EXTRACTION_PROVIDER", ProviderKkdai))),
			Timeout:       getEnvInt("EXTRACTION_TIMEOUT", 30),
			SafetyTimeout: getEnvInt("SAFETY_TIMEOUT", 35),
			YtDlpPath:     getEnvStr("YTDLP_PATH", "yt-dlp"),
			HTTPTimeout:   getEnvInt("YOUTUBE_HTTP_TIMEOUT", 30),
			Worker: model.WorkerConfig{
				Port:    getEnvInt("WORKER_PORT", 5001),
				Host:    getEnvStr("WORKER_HOST", "localhost"),
				Timeout: getEnvInt("WORKER_TIMEOUT", 60),
			},
		},
		Logging: model.LoggingConfig{
			Level:    getEnvStr("LOG_LEVEL", "info"),
			FilePath: getEnvStr("LOG_FILE", "./log/app.log"),
		},
		RateLimit: model.RateLimitConfig{
			Enabled:           getEnvBool("RATELIMIT_ENABLED", true),
			RequestsPerMinute: getEnvInt("RATELIMIT_REQUESTS_PER_MINUTE", 60),
			BurstSize:         getEnvInt("RATELIMIT_BURST_SIZE", 10),
			CleanupInterval:   getEnvInt("RATELIMIT_CLEANUP_INTERVAL", 1800),
		},
		Frontend: model.FrontendConfig{
			Dir: resolveFrontendDir(getEnvStr("FRONTEND_DIR", "")),
		},
		Metrics: model.MetricsConfig{
			Enabled: getEnvBool("METRICS_ENABLED", true),
			Path:    getEnvStr("METRICS_PATH", "/metrics"),
		},
	}
}

// Validate reports configuration values the server cannot start with
func Validate(cfg *model.Config) error {
	var errs []error

	switch cfg.Extraction.Provider {
	case ProviderKkdai, ProviderYtDlp, ProviderWorker:
	default:
		errs = append(errs, fmt.Errorf("unknown extraction provider %q", cfg.Extraction.Provider))
	}
	if cfg.Extraction.Timeout <= 0 {
		errs = append(errs, errors.New("EXTRACTION_TIMEOUT must be positive"))
	}
	if cfg.Extraction.SafetyTimeout <= 0 {
		errs = append(errs, errors.New("SAFETY_TIMEOUT must be positive"))
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid SERVER_PORT %d", cfg.Server.Port))
	}
	if cfg.RateLimit.Enabled && cfg.RateLimit.RequestsPerMinute <= 0 {
		errs = append(errs, errors.New("RATELIMIT_REQUESTS_PER_MINUTE must be positive when rate limiting is enabled"))
	}

	return errors.Join(errs...)
}

// resolveFrontendDir picks the display client bundle directory
func resolveFrontendDir(configured string) string {
	if configured != "" {
		return configured
	}
	if _, err := os.Stat("../frontend"); err == nil {
		return "../frontend"
	}
	return "./frontend"
}

func getEnvStr(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	valStr := getEnvStr(key, "")
	if val, err := strconv.Atoi(valStr); err == nil {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	valStr := strings.ToLower(getEnvStr(key, ""))
	if valStr == "true" || valStr == "1" || valStr == "yes" {
		return true
	}
	if valStr == "false" || valStr == "0" || valStr == "no" {
		return false
	}
	return defaultVal
}
