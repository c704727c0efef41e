package handler

import (
	"path/filepath"

	"ytinfo/internal/model"
	"ytinfo/internal/service"
	"ytinfo/pkg/logger"
	"ytinfo/pkg/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// NewRouter wires middleware and routes for the HTTP API and the display client
func NewRouter(cfg *model.Config, videoService *service.VideoService, rateLimitService *service.RateLimitService) *gin.Engine {
	router := gin.New()

	router.Use(logger.GinLogger())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())
	if cfg.Metrics.Enabled {
		router.Use(middleware.Metrics())
		router.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	videoHandler := NewVideoHandler(videoService, cfg)
	staticHandler := NewStaticHandler(cfg.Frontend.Dir)

	// Routes
	api := router.Group("/api")
	{
		// Health check
		api.GET("/health", videoHandler.HealthCheck)

		info := api.Group("")
		if cfg.RateLimit.Enabled {
			info.Use(middleware.RateLimitMiddleware(rateLimitService))
			logger.Logger.Info("Rate limiting enabled", zap.Int("requests_per_minute", cfg.RateLimit.RequestsPerMinute))
		}
		// Any method reaches the handler so non-POST gets a JSON 405
		info.Any("/video-info", videoHandler.GetVideoInfo)
	}

	// Public frontend
	staticPath := filepath.Join(cfg.Frontend.Dir, "static")
	logger.Logger.Info("Frontend paths",
		zap.String("static", staticPath),
		zap.String("root", cfg.Frontend.Dir))

	router.Static("/static", staticPath)
	router.GET("/", staticHandler.Index)
	router.HEAD("/", staticHandler.Index)
	router.NoRoute(staticHandler.NoRoute)

	return router
}
