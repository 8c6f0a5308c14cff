// Package api embeds the OpenAPI description of the local HTTP surface and
// serves it together with a Swagger UI.
package api

import (
	"context"
	"embed"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/gin-gonic/gin"
	"github.com/swaggest/swgui/v5emb"
)

const (
	SpecPath = "/openapi.yaml"
	DocsPath = "/docs/"
)

//go:embed openapi.yaml
var content embed.FS

// LoadSpec parses and validates the embedded document.
func LoadSpec(ctx context.Context) (*openapi3.T, error) {
	raw, err := content.ReadFile("openapi.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded openapi document: %w", err)
	}
	doc, err := openapi3.NewLoader().LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse openapi document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}
	return doc, nil
}

// RegisterRoutes serves the raw document at SpecPath and the UI under DocsPath.
func RegisterRoutes(router gin.IRouter, title string) {
	swUI := v5emb.New(title, SpecPath, DocsPath)
	router.StaticFileFS(SpecPath, "openapi.yaml", http.FS(content))
	router.GET(DocsPath+"*any", gin.WrapH(swUI))
}
