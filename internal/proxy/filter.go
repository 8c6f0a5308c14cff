package proxy

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/elgranjm3000/previewInventario/internal/clients"
	"github.com/elgranjm3000/previewInventario/internal/domain"
)

const (
	msgNameRequired = `El parámetro "name" es requerido`
	msgFilterFailed = "Error al filtrar productos"
)

// FilterHandler serves name search over productos. The upstream has no
// server-side filter, so the whole collection is fetched and filtered here.
type FilterHandler struct {
	upstream clients.UpstreamClient
	log      *logrus.Logger
}

func NewFilterHandler(upstream clients.UpstreamClient, logger *logrus.Logger) *FilterHandler {
	return &FilterHandler{
		upstream: upstream,
		log:      logger,
	}
}

func (h *FilterHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/"+Productos.Name+"/filtrar", h.FiltrarPorNombre)
}

func (h *FilterHandler) FiltrarPorNombre(c *gin.Context) {
	handlerLogger := h.log.WithField("handler", "FiltrarPorNombre")

	name := c.Query("name")
	if name == "" {
		handlerLogger.Warn("Missing name query parameter")
		c.JSON(http.StatusBadRequest, domain.ErrorResponse{Error: msgNameRequired})
		return
	}

	path := "/" + Productos.Name
	data, err := h.upstream.Do(c.Request.Context(), http.MethodGet, path, nil, false)
	if err != nil {
		logUpstreamFailure(handlerLogger, path, err)
		c.JSON(http.StatusInternalServerError, domain.ErrorResponse{Error: msgFilterFailed})
		return
	}

	filtered, err := filterByNombre(data, name)
	if err != nil {
		handlerLogger.Errorf("Upstream productos payload cannot be filtered: %v", err)
		c.JSON(http.StatusInternalServerError, domain.ErrorResponse{Error: msgFilterFailed})
		return
	}

	handlerLogger.Infof("Filter %q matched %d productos", name, len(filtered))
	c.JSON(http.StatusOK, filtered)
}

var errNombreInvalido = errors.New("producto without a string nombre")

// filterByNombre keeps the elements whose nombre contains name, ignoring case.
// Elements are relayed untouched. An element without a string nombre fails the
// whole filter.
func filterByNombre(data json.RawMessage, name string) ([]json.RawMessage, error) {
	var productos []json.RawMessage
	if err := json.Unmarshal(data, &productos); err != nil {
		return nil, err
	}

	filtered := make([]json.RawMessage, 0, len(productos))
	for i, raw := range productos {
		var p struct {
			Nombre *string `json:"nombre"`
		}
		if err := json.Unmarshal(raw, &p); err != nil || p.Nombre == nil {
			return nil, fmt.Errorf("element %d: %w", i, errNombreInvalido)
		}
		if domain.ContainsFold(*p.Nombre, name) {
			filtered = append(filtered, raw)
		}
	}
	return filtered, nil
}
