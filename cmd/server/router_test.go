package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elgranjm3000/previewInventario/config"
	"github.com/elgranjm3000/previewInventario/internal/clients"
	"github.com/elgranjm3000/previewInventario/internal/domain"
	"github.com/elgranjm3000/previewInventario/internal/facade"
	"github.com/elgranjm3000/previewInventario/internal/inventory"
	"github.com/elgranjm3000/previewInventario/internal/middleware"
	"github.com/elgranjm3000/previewInventario/internal/upstreamtest"
)

func TestRouterWiring(t *testing.T) {
	// Arrange
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	upstream := upstreamtest.New(t)
	upstream.Seed("categorias", domain.Categoria{Nombre: "Muebles"})

	cfg := &config.Config{APIPrefix: "/api"}
	client := clients.NewUpstreamHTTPClient(upstream.URL, "", 0, logger)

	var router *gin.Engine
	local := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		router.ServeHTTP(w, r)
	}))
	t.Cleanup(local.Close)
	dashboard := inventory.NewDashboard(facade.NewClient(local.URL+"/api", local.Client(), logger), logger)
	router = newRouter(cfg, client, dashboard, logger)

	testCases := []struct {
		name         string
		method       string
		path         string
		expectedCode int
	}{
		{name: "proxy list", method: http.MethodGet, path: "/api/categorias", expectedCode: http.StatusOK},
		{name: "proxy filter without name", method: http.MethodGet, path: "/api/productos/filtrar", expectedCode: http.StatusBadRequest},
		{name: "panel page", method: http.MethodGet, path: "/", expectedCode: http.StatusOK},
		{name: "panel summary", method: http.MethodGet, path: "/panel/resumen", expectedCode: http.StatusOK},
		{name: "health", method: http.MethodGet, path: "/health", expectedCode: http.StatusOK},
		{name: "openapi document", method: http.MethodGet, path: "/openapi.yaml", expectedCode: http.StatusOK},
		{name: "docs ui", method: http.MethodGet, path: "/docs/", expectedCode: http.StatusOK},
		{name: "unknown route", method: http.MethodGet, path: "/nope", expectedCode: http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))

			// Assert
			require.Equal(t, tc.expectedCode, w.Code)
			assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
		})
	}
}
