package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/elgranjm3000/previewInventario/internal/clients"
)

const healthCheckTimeout = 3 * time.Second

type HealthResponse struct {
	OK       bool   `json:"ok"`
	Upstream string `json:"upstream"`
}

type HealthHandler struct {
	upstream clients.UpstreamClient
	log      *logrus.Logger
}

func NewHealthHandler(upstream clients.UpstreamClient, logger *logrus.Logger) *HealthHandler {
	return &HealthHandler{upstream: upstream, log: logger}
}

func (h *HealthHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/health", h.Health)
}

func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	if err := h.upstream.Ping(ctx); err != nil {
		h.log.WithField("handler", "Health").Warnf("Upstream check failed: %v", err)
		c.JSON(http.StatusServiceUnavailable, HealthResponse{OK: false, Upstream: "unreachable"})
		return
	}
	c.JSON(http.StatusOK, HealthResponse{OK: true, Upstream: "reachable"})
}
