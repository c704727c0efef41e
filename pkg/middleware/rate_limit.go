package middleware

import (
	"net/http"
	"strconv"

	"ytinfo/internal/model"
	"ytinfo/internal/service"
	"ytinfo/pkg/logger"
	"ytinfo/pkg/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const msgTooManyRequests = "Muitas requisições. Tente novamente mais tarde."

// RateLimitMiddleware creates a middleware for rate limiting
func RateLimitMiddleware(rateLimitService *service.RateLimitService) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Preflight requests never count against the bucket
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		ip := c.ClientIP()

		if !rateLimitService.IsAllowed(ip) {
			logger.FromContext(c).Warn("Rate limit exceeded", zap.String("ip", ip), zap.String("path", c.Request.URL.Path))
			metrics.IncRateLimited()
			c.Header("X-RateLimit-Remaining", "0")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, model.ErrorResponse{Error: msgTooManyRequests})
			return
		}

		// Set remaining requests header
		if remaining := rateLimitService.GetRemaining(ip); remaining >= 0 {
			c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		}

		c.Next()
	}
}
