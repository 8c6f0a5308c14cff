package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RequestLogger writes one record per request once the handler chain has run.
// Proxy routes are logged by their gin route template, so /api/productos/7 and
// /api/productos/8 share a route field.
func RequestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := logrus.Fields{
			"request_id":  c.GetString(RequestIDKey),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       c.FullPath(),
			"status_code": status,
			"latency_ms":  time.Since(start).Milliseconds(),
			"bytes_out":   c.Writer.Size(),
			"remote_ip":   c.ClientIP(),
		}
		if q := c.Request.URL.RawQuery; q != "" {
			fields["query"] = q
		}

		msg := "Request completed"
		if errs := c.Errors.ByType(gin.ErrorTypeAny); len(errs) > 0 {
			fields["errors"] = errs.Errors()
			msg = "Request completed with handler errors"
		}
		logger.WithFields(fields).Log(levelForStatus(status, len(c.Errors) > 0), msg)
	}
}

func levelForStatus(status int, handlerErrors bool) logrus.Level {
	switch {
	case handlerErrors, status >= 500:
		return logrus.ErrorLevel
	case status >= 400:
		return logrus.WarnLevel
	default:
		return logrus.InfoLevel
	}
}
