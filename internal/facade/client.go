// Package facade is the single access point the UI layer uses to reach the
// local proxy routes. It never talks to the upstream API directly.
//
// Reads never fail from the caller's point of view: they return a ReadResult
// whose Data is empty on failure and whose Err records why. Writes log and
// return their error so the caller can report it.
package facade

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/elgranjm3000/previewInventario/internal/domain"
)

// ReadResult distinguishes an empty answer from a failed one.
type ReadResult[T any] struct {
	Data T
	Err  error
}

func (r ReadResult[T]) Failed() bool {
	return r.Err != nil
}

// RequestError is a non-2xx answer from the local proxy.
type RequestError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

type Client struct {
	baseURL string
	http    *http.Client
	log     *logrus.Logger
}

// NewClient targets the proxy mounted at baseURL (for example http://localhost:3000/api).
// A nil httpClient uses http.DefaultClient.
func NewClient(baseURL string, httpClient *http.Client, logger *logrus.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		log:     logger,
	}
}

func (c *Client) ListCategorias(ctx context.Context) ReadResult[[]domain.Categoria] {
	return readList[domain.Categoria](ctx, c, "/categorias", "categorías")
}

func (c *Client) ListProductos(ctx context.Context) ReadResult[[]domain.Producto] {
	return readList[domain.Producto](ctx, c, "/productos", "productos")
}

// FiltrarProductos asks the proxy for productos whose nombre contains nombre.
func (c *Client) FiltrarProductos(ctx context.Context, nombre string) ReadResult[[]domain.Producto] {
	return readList[domain.Producto](ctx, c, "/productos/filtrar?name="+url.QueryEscape(nombre), "productos filtrados")
}

func (c *Client) GetProducto(ctx context.Context, id int) ReadResult[*domain.Producto] {
	var p domain.Producto
	if err := c.call(ctx, http.MethodGet, itemPath("/productos", id), nil, &p); err != nil {
		c.log.Errorf("Facade: Error fetching producto %d: %v", id, err)
		return ReadResult[*domain.Producto]{Err: err}
	}
	return ReadResult[*domain.Producto]{Data: &p}
}

func (c *Client) CreateCategoria(ctx context.Context, cat domain.Categoria) (*domain.Categoria, error) {
	cat.ID = 0
	var created domain.Categoria
	if err := c.call(ctx, http.MethodPost, "/categorias", cat, &created); err != nil {
		c.log.Errorf("Facade: Error creating categoría '%s': %v", cat.Nombre, err)
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateCategoria(ctx context.Context, id int, cat domain.Categoria) (*domain.Categoria, error) {
	cat.ID = 0
	var updated domain.Categoria
	if err := c.call(ctx, http.MethodPut, itemPath("/categorias", id), cat, &updated); err != nil {
		c.log.Errorf("Facade: Error updating categoría %d: %v", id, err)
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteCategoria(ctx context.Context, id int) error {
	if err := c.call(ctx, http.MethodDelete, itemPath("/categorias", id), nil, nil); err != nil {
		c.log.Errorf("Facade: Error deleting categoría %d: %v", id, err)
		return err
	}
	return nil
}

func (c *Client) CreateProducto(ctx context.Context, p domain.Producto) (*domain.Producto, error) {
	p.ID = 0
	var created domain.Producto
	if err := c.call(ctx, http.MethodPost, "/productos", p, &created); err != nil {
		c.log.Errorf("Facade: Error creating producto '%s': %v", p.Nombre, err)
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateProducto(ctx context.Context, id int, p domain.Producto) (*domain.Producto, error) {
	p.ID = 0
	var updated domain.Producto
	if err := c.call(ctx, http.MethodPut, itemPath("/productos", id), p, &updated); err != nil {
		c.log.Errorf("Facade: Error updating producto %d: %v", id, err)
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteProducto(ctx context.Context, id int) error {
	if err := c.call(ctx, http.MethodDelete, itemPath("/productos", id), nil, nil); err != nil {
		c.log.Errorf("Facade: Error deleting producto %d: %v", id, err)
		return err
	}
	return nil
}

func readList[T any](ctx context.Context, c *Client, path, what string) ReadResult[[]T] {
	var items []T
	if err := c.call(ctx, http.MethodGet, path, nil, &items); err != nil {
		c.log.Errorf("Facade: Error fetching %s: %v", what, err)
		return ReadResult[[]T]{Data: []T{}, Err: err}
	}
	if items == nil {
		items = []T{}
	}
	return ReadResult[[]T]{Data: items}
}

// call sends in as JSON (when non-nil) and decodes the answer into out (when non-nil).
func (c *Client) call(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach proxy: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var envelope domain.ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&envelope)
		return &RequestError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Message:    envelope.Error,
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

func itemPath(collection string, id int) string {
	return collection + "/" + strconv.Itoa(id)
}
