// ABOUTME: Contract import and export MCP tool handlers
// ABOUTME: Implements import_contracts and export_markdown
package handlers

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/harperreed/bizdash/export"
	"github.com/harperreed/bizdash/importer"
	"github.com/harperreed/bizdash/store"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type ContractHandlers struct {
	repo *store.Repository
	now  Clock
}

func NewContractHandlers(repo *store.Repository) *ContractHandlers {
	return &ContractHandlers{repo: repo, now: time.Now}
}

type ImportContractsInput struct {
	JSON     string `json:"json,omitempty" jsonschema:"Contracts as a JSON array, a {\"contracts\": [...]} object or a full export"`
	FilePath string `json:"file_path,omitempty" jsonschema:"Path to a JSON file, used when json is empty"`
}

type ImportContractsOutput struct {
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
	Total   int `json:"total"`
}

func (h *ContractHandlers) ImportContracts(ctx context.Context, _ *mcp.CallToolRequest, input ImportContractsInput) (*mcp.CallToolResult, ImportContractsOutput, error) {
	data := []byte(input.JSON)
	if len(data) == 0 {
		if input.FilePath == "" {
			return nil, ImportContractsOutput{}, fmt.Errorf("json or file_path is required")
		}
		var err error
		if data, err = os.ReadFile(input.FilePath); err != nil {
			return nil, ImportContractsOutput{}, fmt.Errorf("failed to read %s: %w", input.FilePath, err)
		}
	}

	incoming, err := importer.ParseContracts(data, h.now())
	if err != nil {
		return nil, ImportContractsOutput{}, err
	}

	existing, err := h.repo.Contracts(ctx)
	if err != nil {
		return nil, ImportContractsOutput{}, fmt.Errorf("failed to load contracts: %w", err)
	}
	merged, res := importer.MergeContracts(existing, incoming)
	if res.Added > 0 {
		if err := h.repo.SaveContracts(ctx, merged); err != nil {
			return nil, ImportContractsOutput{}, err
		}
	}
	return nil, ImportContractsOutput{Added: res.Added, Skipped: res.Skipped, Total: len(merged)}, nil
}

type ExportMarkdownInput struct{}

type ExportMarkdownOutput struct {
	Markdown   string   `json:"markdown"`
	LoadErrors []string `json:"load_errors,omitempty"`
}

func (h *ContractHandlers) ExportMarkdown(ctx context.Context, _ *mcp.CallToolRequest, _ ExportMarkdownInput) (*mcp.CallToolResult, ExportMarkdownOutput, error) {
	snap, err := h.repo.LoadAll(ctx)
	if err != nil {
		return nil, ExportMarkdownOutput{}, err
	}
	out := ExportMarkdownOutput{Markdown: export.Markdown(snap, h.now())}
	for key := range snap.LoadErrors {
		out.LoadErrors = append(out.LoadErrors, key)
	}
	sort.Strings(out.LoadErrors)
	return nil, out, nil
}
