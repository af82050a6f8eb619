package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fintrack/internal/logger"
	"fintrack/internal/uuid"
)

const (
	requestIDKey = "requestID"
	errorCodeKey = "errorCode"

	requestIDHeader = "X-Request-ID"
)

// RequestLogging returns a Gin middleware that writes one line per request.
// The line carries the request ID, the authenticated subject when the route
// is protected, and the error code when the response is an error body.
// Server errors log at error level, client errors at warn.
func RequestLogging() gin.HandlerFunc {
	return requestLogging(logger.Named("http"))
}

func requestLogging(log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID, err := uuid.Parse(c.GetHeader(requestIDHeader))
		if err != nil {
			requestID = uuid.New()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)

		c.Next()

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		fields := []interface{}{
			"request_id", requestID,
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if userID := c.GetString(UserIDKey); userID != "" {
			fields = append(fields, "user_id", userID)
		}
		if code := c.GetString(errorCodeKey); code != "" {
			fields = append(fields, "error_code", code)
		}

		switch {
		case status >= http.StatusInternalServerError:
			log.Errorw("request", fields...)
		case status >= http.StatusBadRequest:
			log.Warnw("request", fields...)
		default:
			log.Infow("request", fields...)
		}
	}
}
