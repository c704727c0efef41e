package middleware

import (
	"net/http"

	"ytinfo/internal/model"
	"ytinfo/pkg/logger"
	"ytinfo/pkg/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const msgInternalError = "Erro interno do servidor"

// Recovery turns a panic in any later handler into a 500 JSON response,
// unless a response has already been written.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		logger.FromContext(c).Error("Unhandled panic",
			zap.Any("panic", recovered),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Stack("stack"),
		)

		if c.Writer.Written() {
			c.Abort()
			return
		}
		metrics.IncResponse("internal_error")
		c.AbortWithStatusJSON(http.StatusInternalServerError, model.ErrorResponse{Error: msgInternalError})
	})
}
