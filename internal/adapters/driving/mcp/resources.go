package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/quickfind/internal/core/domain"
)

const uriScheme = "quickfind://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "categories",
		Name:        "categories",
		Description: "Searchable categories and their item counts",
		MIMEType:    "application/json",
	}, s.handleCategoriesResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "items/{category}/{id}",
		Name:        "item",
		Description: "A single catalog item",
		MIMEType:    "application/json",
	}, s.handleItemResource)
}

type categoryInfo struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Count *int   `json:"count,omitempty"`
}

// handleCategoriesResource lists categories in display order. Counts are
// included when a catalog is wired.
func (s *Server) handleCategoriesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	categories := domain.Categories()
	infos := make([]categoryInfo, len(categories))
	for i, c := range categories {
		infos[i] = categoryInfo{ID: c.String(), Label: c.Label()}
		if s.ports.Catalog == nil {
			continue
		}
		n, err := s.ports.Catalog.Count(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("counting %s: %w", c, err)
		}
		infos[i].Count = &n
	}
	return jsonResult(req.Params.URI, infos)
}

func (s *Server) handleItemResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Catalog == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	category, id := parseItemURI(req.Params.URI)
	if !category.IsValid() || id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	item, err := s.ports.Catalog.Get(ctx, category, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return jsonResult(req.Params.URI, item)
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// parseItemURI splits quickfind://items/{category}/{id}.
func parseItemURI(uri string) (domain.Category, string) {
	const prefix = uriScheme + "items/"
	if !strings.HasPrefix(uri, prefix) {
		return "", ""
	}
	category, id, ok := strings.Cut(strings.TrimPrefix(uri, prefix), "/")
	if !ok {
		return "", ""
	}
	return domain.Category(category), id
}
