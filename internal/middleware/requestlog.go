package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/voxloop/messaging-service/internal/logger"
)

type RequestLogMiddleware struct {
	log *logger.Logger
}

func NewRequestLogMiddleware(log *logger.Logger) *RequestLogMiddleware {
	middlewareLog := log.With("middleware", "RequestLogMiddleware")
	return &RequestLogMiddleware{log: middlewareLog}
}

// LogRequests tags every request with an id (honoring an inbound
// X-Request-ID) and writes one structured line per request on completion.
func (rl *RequestLogMiddleware) LogRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Writer.Header().Set("X-Request-ID", requestID)

		start := time.Now()
		c.Next()

		rl.log.Info("request",
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
