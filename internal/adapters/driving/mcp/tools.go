package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/quickfind/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query    string `json:"query" jsonschema:"the text to search for"`
	Category string `json:"category,omitempty" jsonschema:"people, posts, events, comments, locations or all (default all)"`
	Limit    int    `json:"limit,omitempty" jsonschema:"maximum results per category (default is the configured page size)"`
	Offset   int    `json:"offset,omitempty" jsonschema:"number of results to skip in each category"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Query      string           `json:"query"`
	Categories []CategoryOutput `json:"categories"`
	Count      int              `json:"count"`
}

// CategoryOutput is one category section of a search.
type CategoryOutput struct {
	Category string       `json:"category"`
	Status   string       `json:"status"`
	Items    []ItemOutput `json:"items"`
	HasMore  bool         `json:"has_more"`
	Error    string       `json:"error,omitempty"`
}

// ItemOutput represents a single result.
type ItemOutput struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	Snippet  string `json:"snippet,omitempty"`
	URL      string `json:"url,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search people, posts, events, comments and locations. Each category is searched independently; a failing category does not hide the others.",
	}, s.handleSearch)
}

func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	category, err := domain.ParseCategory(input.Category)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	query := domain.NewSearchQuery(input.Query, category, input.Offset)
	state := s.ports.Lookup.Lookup(ctx, query, input.Limit)

	output := SearchOutput{
		Query:      query.Normalized(),
		Categories: make([]CategoryOutput, 0, len(state)),
	}
	for _, st := range state.Ordered(domain.ViewCategories(category)) {
		section := CategoryOutput{
			Category: st.Category.String(),
			Status:   st.Status.String(),
			Items:    make([]ItemOutput, len(st.Items)),
			HasMore:  st.HasMore,
		}
		if st.Err != nil {
			section.Error = st.Err.Error()
		}
		for i, item := range st.Items {
			section.Items[i] = ItemOutput{
				ID:       item.ID,
				Title:    item.Title,
				Subtitle: item.Subtitle,
				Snippet:  item.Snippet,
				URL:      item.URL,
			}
		}
		output.Count += len(st.Items)
		output.Categories = append(output.Categories, section)
	}

	return nil, output, nil
}
