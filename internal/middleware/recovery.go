package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/elgranjm3000/previewInventario/internal/domain"
)

// Recovery turns a panic into the JSON error envelope with status 500.
func Recovery(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.WithFields(logrus.Fields{
					"request_id": c.GetString(RequestIDKey),
					"method":     c.Request.Method,
					"path":       c.Request.URL.Path,
					"panic":      r,
				}).Error("Panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, domain.ErrorResponse{Error: "Error interno del servidor"})
			}
		}()
		c.Next()
	}
}
