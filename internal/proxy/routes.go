package proxy

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/elgranjm3000/previewInventario/internal/clients"
)

// RegisterRoutes mounts the categorias and productos proxy groups on router.
func RegisterRoutes(router gin.IRouter, upstream clients.UpstreamClient, logger *logrus.Logger) {
	NewResourceHandler(Categorias, upstream, logger).RegisterRoutes(router)
	NewResourceHandler(Productos, upstream, logger).RegisterRoutes(router)
	NewFilterHandler(upstream, logger).RegisterRoutes(router)
}
