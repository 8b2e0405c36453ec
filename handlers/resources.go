// ABOUTME: MCP resource handlers for exposing dashboard data
// ABOUTME: Read-only views of goals, pipeline, contracts and exports via bizdash:// URIs
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/bizdash/export"
	"github.com/harperreed/bizdash/store"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const resourceScheme = "bizdash://"

type ResourceHandlers struct {
	repo *store.Repository
	now  Clock
}

func NewResourceHandlers(repo *store.Repository) *ResourceHandlers {
	return &ResourceHandlers{repo: repo, now: time.Now}
}

// Resources lists every URI ReadResource understands.
func (h *ResourceHandlers) Resources() []*mcp.Resource {
	return []*mcp.Resource{
		{URI: resourceScheme + "goals", Name: "goals", Description: "All goals", MIMEType: "application/json"},
		{URI: resourceScheme + "pipeline", Name: "pipeline", Description: "Leads and deals by stage", MIMEType: "application/json"},
		{URI: resourceScheme + "contracts", Name: "contracts", Description: "Government contract opportunities", MIMEType: "application/json"},
		{URI: resourceScheme + "export.json", Name: "export.json", Description: "Full JSON export", MIMEType: "application/json"},
		{URI: resourceScheme + "export.md", Name: "export.md", Description: "Markdown dashboard report", MIMEType: "text/markdown"},
	}
}

// ReadResource handles resource read requests.
func (h *ResourceHandlers) ReadResource(ctx context.Context, request *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := request.Params.URI
	name, ok := strings.CutPrefix(uri, resourceScheme)
	if !ok {
		return nil, fmt.Errorf("invalid URI scheme: expected %s", resourceScheme)
	}

	switch name {
	case "goals":
		goals, err := h.repo.Goals(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch goals: %w", err)
		}
		return jsonResource(uri, goals)

	case "pipeline":
		board, err := h.repo.Board(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch pipeline: %w", err)
		}
		return jsonResource(uri, map[string]any{
			"leads":  board.Leads,
			"sales":  board.Sales,
			"active": board.Active,
			"lost":   board.Lost,
			"former": board.Former,
		})

	case "contracts":
		contracts, err := h.repo.Contracts(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch contracts: %w", err)
		}
		return jsonResource(uri, contracts)

	case "export.json":
		snap, err := h.repo.LoadAll(ctx)
		if err != nil {
			return nil, err
		}
		data, err := export.JSON(snap, h.now())
		if err != nil {
			return nil, err
		}
		return textResource(uri, "application/json", string(data)), nil

	case "export.md":
		snap, err := h.repo.LoadAll(ctx)
		if err != nil {
			return nil, err
		}
		return textResource(uri, "text/markdown", export.Markdown(snap, h.now())), nil

	default:
		return nil, fmt.Errorf("unknown resource: %s", name)
	}
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", uri, err)
	}
	return textResource(uri, "application/json", string(data)), nil
}

func textResource(uri, mimeType, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{URI: uri, MIMEType: mimeType, Text: text},
	}}
}
