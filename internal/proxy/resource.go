package proxy

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/elgranjm3000/previewInventario/internal/clients"
	"github.com/elgranjm3000/previewInventario/internal/domain"
)

// Messages are the fixed client-facing error strings of one resource.
type Messages struct {
	List   string
	Get    string
	Create string
	Update string
	Delete string
}

type Resource struct {
	Name     string
	Messages Messages
}

var Categorias = Resource{
	Name: "categorias",
	Messages: Messages{
		List:   "Error al obtener categorías",
		Get:    "Error al obtener categoría",
		Create: "Error al crear categoría",
		Update: "Error al actualizar categoría",
		Delete: "Error al eliminar categoría",
	},
}

var Productos = Resource{
	Name: "productos",
	Messages: Messages{
		List:   "Error al obtener productos",
		Get:    "Error al obtener producto",
		Create: "Error al crear producto",
		Update: "Error al actualizar producto",
		Delete: "Error al eliminar producto",
	},
}

// ResourceHandler forwards the CRUD routes of one resource to the upstream API.
type ResourceHandler struct {
	res      Resource
	upstream clients.UpstreamClient
	log      *logrus.Logger
}

func NewResourceHandler(res Resource, upstream clients.UpstreamClient, logger *logrus.Logger) *ResourceHandler {
	return &ResourceHandler{
		res:      res,
		upstream: upstream,
		log:      logger,
	}
}

func (h *ResourceHandler) RegisterRoutes(router gin.IRouter) {
	group := router.Group("/" + h.res.Name)
	{
		group.GET("", h.List)
		group.POST("", h.Create)
		group.GET("/:id", h.Get)
		group.PUT("/:id", h.Update)
		group.DELETE("/:id", h.Delete)
	}
}

func (h *ResourceHandler) List(c *gin.Context) {
	h.relay(c, "List", http.MethodGet, h.collectionPath(), false, false, h.res.Messages.List)
}

func (h *ResourceHandler) Get(c *gin.Context) {
	h.relay(c, "Get", http.MethodGet, h.itemPath(c), false, false, h.res.Messages.Get)
}

func (h *ResourceHandler) Create(c *gin.Context) {
	h.relay(c, "Create", http.MethodPost, h.collectionPath(), true, true, h.res.Messages.Create)
}

func (h *ResourceHandler) Update(c *gin.Context) {
	h.relay(c, "Update", http.MethodPut, h.itemPath(c), true, true, h.res.Messages.Update)
}

func (h *ResourceHandler) Delete(c *gin.Context) {
	handlerLogger := h.handlerLogger("Delete")
	path := h.itemPath(c)

	if _, err := h.upstream.Do(c.Request.Context(), http.MethodDelete, path, nil, true); err != nil {
		logUpstreamFailure(handlerLogger, path, err)
		c.JSON(http.StatusInternalServerError, domain.ErrorResponse{Error: h.res.Messages.Delete})
		return
	}

	handlerLogger.Infof("Deleted %s", path)
	c.JSON(http.StatusOK, domain.DeleteResponse{Success: true})
}

// relay forwards the request and writes the upstream JSON back with status 200.
// Every failure collapses into a single 500 carrying failMsg.
func (h *ResourceHandler) relay(c *gin.Context, op, method, path string, withBody, authorize bool, failMsg string) {
	handlerLogger := h.handlerLogger(op)

	var body []byte
	if withBody {
		raw, err := c.GetRawData()
		if err != nil || !json.Valid(raw) {
			handlerLogger.Warnf("Request body for %s %s is not valid JSON", method, path)
			c.JSON(http.StatusInternalServerError, domain.ErrorResponse{Error: failMsg})
			return
		}
		body = raw
	}

	data, err := h.upstream.Do(c.Request.Context(), method, path, body, authorize)
	if err == nil && data == nil {
		err = errEmptyBody
	}
	if err != nil {
		logUpstreamFailure(handlerLogger, path, err)
		c.JSON(http.StatusInternalServerError, domain.ErrorResponse{Error: failMsg})
		return
	}

	handlerLogger.Debugf("Relayed %s %s (%d bytes)", method, path, len(data))
	c.Data(http.StatusOK, gin.MIMEJSON+"; charset=utf-8", data)
}

func (h *ResourceHandler) handlerLogger(op string) *logrus.Entry {
	return h.log.WithFields(logrus.Fields{
		"handler":  op,
		"resource": h.res.Name,
	})
}

func (h *ResourceHandler) collectionPath() string {
	return "/" + h.res.Name
}

// itemPath forwards the id as given; the upstream decides whether it is valid.
func (h *ResourceHandler) itemPath(c *gin.Context) string {
	return "/" + h.res.Name + "/" + url.PathEscape(c.Param("id"))
}

var errEmptyBody = errors.New("upstream answered without a JSON document")

func logUpstreamFailure(logger logrus.FieldLogger, path string, err error) {
	var upErr *clients.UpstreamError
	if errors.As(err, &upErr) {
		logger.WithField("upstream_status", upErr.StatusCode).Errorf("Upstream rejected %s: %s", path, upErr.Body)
		return
	}
	logger.Errorf("Upstream call to %s failed: %v", path, err)
}
