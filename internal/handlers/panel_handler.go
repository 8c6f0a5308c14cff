package handlers

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/elgranjm3000/previewInventario/internal/domain"
	"github.com/elgranjm3000/previewInventario/internal/inventory"
)

//go:embed templates/panel.html
var templatesFS embed.FS

var panelTemplate = template.Must(template.ParseFS(templatesFS, "templates/panel.html"))

type PanelHandler struct {
	dashboard *inventory.Dashboard
	log       *logrus.Logger
}

func NewPanelHandler(dashboard *inventory.Dashboard, logger *logrus.Logger) *PanelHandler {
	return &PanelHandler{dashboard: dashboard, log: logger}
}

func (h *PanelHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/", h.Index)
	panel := router.Group("/panel")
	{
		panel.GET("/resumen", h.Resumen)
		panel.GET("/productos/:id", h.Producto)
		panel.DELETE("/categorias/:id", h.DeleteCategoria)
	}
}

type categoriaRow struct {
	domain.Categoria
	Productos int
}

type panelView struct {
	Query      string
	LoadFailed bool
	Summary    inventory.Summary
	Productos  []domain.ProductoDetalle
	Categorias []categoriaRow
}

// Index renders the dashboard page from a single snapshot. ?q= filters both tables.
func (h *PanelHandler) Index(c *gin.Context) {
	logCtx := h.log.WithField("handler", "Index")
	snap, loadErr := h.dashboard.LoadSnapshot(c.Request.Context())
	if loadErr != nil {
		logCtx.Warnf("Dashboard loaded with failures: %v", loadErr)
	}

	q := c.Query("q")
	view := panelView{
		Query:      q,
		LoadFailed: loadErr != nil,
		Summary:    snap.Summary(),
	}
	for _, p := range snap.Search(q) {
		det, ok := snap.Detalle(p.ID)
		if !ok {
			det = domain.ProductoDetalle{Producto: p}
		}
		view.Productos = append(view.Productos, det)
	}
	for _, cat := range snap.SearchCategorias(q) {
		view.Categorias = append(view.Categorias, categoriaRow{
			Categoria: cat,
			Productos: snap.ProductCountByCategory(cat.ID),
		})
	}

	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := panelTemplate.Execute(c.Writer, view); err != nil {
		logCtx.Errorf("Failed to render dashboard: %v", err)
	}
}

func (h *PanelHandler) Resumen(c *gin.Context) {
	snap, err := h.dashboard.LoadSnapshot(c.Request.Context())
	if err != nil {
		h.log.WithField("handler", "Resumen").Warnf("Dashboard loaded with failures: %v", err)
	}
	c.JSON(http.StatusOK, snap.Summary())
}

func (h *PanelHandler) Producto(c *gin.Context) {
	logCtx := h.log.WithField("handler", "Producto")
	id, ok := parseID(c)
	if !ok {
		return
	}
	snap, err := h.dashboard.LoadSnapshot(c.Request.Context())
	if err != nil {
		logCtx.Warnf("Dashboard loaded with failures: %v", err)
	}
	det, found := snap.Detalle(id)
	if !found {
		logCtx.Infof("Producto %d not found", id)
		c.JSON(http.StatusNotFound, domain.ErrorResponse{Error: "Producto no encontrado"})
		return
	}
	c.JSON(http.StatusOK, det)
}

// DeleteCategoria answers 409 while productos reference the categoria and 500
// when the references could not be counted. Neither case reaches the upstream.
func (h *PanelHandler) DeleteCategoria(c *gin.Context) {
	logCtx := h.log.WithField("handler", "DeleteCategoria")
	id, ok := parseID(c)
	if !ok {
		return
	}

	err := h.dashboard.DeleteCategoria(c.Request.Context(), id)
	switch {
	case errors.Is(err, inventory.ErrCategoriaEnUso):
		c.JSON(http.StatusConflict, domain.ErrorResponse{Error: err.Error()})
	case err != nil:
		logCtx.Errorf("Failed to delete categoria %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, domain.ErrorResponse{Error: "Error al eliminar categoría"})
	default:
		c.JSON(http.StatusOK, domain.DeleteResponse{Success: true})
	}
}

func parseID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, domain.ErrorResponse{Error: "ID inválido"})
		return 0, false
	}
	return id, true
}
