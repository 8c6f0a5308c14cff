package main

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/elgranjm3000/previewInventario/api"
	"github.com/elgranjm3000/previewInventario/config"
	"github.com/elgranjm3000/previewInventario/internal/clients"
	"github.com/elgranjm3000/previewInventario/internal/handlers"
	"github.com/elgranjm3000/previewInventario/internal/inventory"
	"github.com/elgranjm3000/previewInventario/internal/middleware"
	"github.com/elgranjm3000/previewInventario/internal/proxy"
)

func newRouter(cfg *config.Config, upstream clients.UpstreamClient, dashboard *inventory.Dashboard, logger *logrus.Logger) *gin.Engine {
	router := gin.New()
	router.RedirectTrailingSlash = false
	router.Use(middleware.RequestID(), middleware.RequestLogger(logger), middleware.Recovery(logger))

	proxy.RegisterRoutes(router.Group(cfg.APIPrefix), upstream, logger)
	handlers.NewPanelHandler(dashboard, logger).RegisterRoutes(router)
	handlers.NewHealthHandler(upstream, logger).RegisterRoutes(router)
	api.RegisterRoutes(router, "Inventario")

	logger.Infof("Routes registered under %s", cfg.APIPrefix)
	return router
}
