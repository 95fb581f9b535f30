package api

import (
	"fuel-route-service/internal/platform/obs"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const requestIDHeader = "X-Request-ID"

// requestIDMiddleware tags each request with an id, reusing a client-supplied
// X-Request-ID when present. The id is echoed in the response and stored in
// the request context for obs.Time.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}

		c.Request = c.Request.WithContext(obs.WithRequestID(c.Request.Context(), id))
		c.Set(string(obs.RequestIDKey), id)
		c.Header(requestIDHeader, id)

		c.Next()
	}
}

// loggingMiddleware logs end-to-end request duration and response size.
// gin's ResponseWriter already records the final status and byte count.
func loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		entry := logrus.WithFields(logrus.Fields{
			"req_id": obs.RequestID(c.Request.Context()),
			"method": c.Request.Method,
			"path":   c.Request.URL.RequestURI(),
			"status": status,
			"bytes":  c.Writer.Size(),
			"dur_ms": time.Since(start).Milliseconds(),
		})

		switch {
		case status >= 500:
			entry.Error("request")
		case status >= 400:
			entry.Warn("request")
		default:
			entry.Info("request")
		}
	}
}
