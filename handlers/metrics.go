// ABOUTME: Metrics MCP tool handlers
// ABOUTME: Implements sales_metrics, developer_metrics and metric_status
package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/harperreed/bizdash/metrics"
	"github.com/harperreed/bizdash/store"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type MetricsHandlers struct {
	repo *store.Repository
	now  Clock
}

func NewMetricsHandlers(repo *store.Repository) *MetricsHandlers {
	return &MetricsHandlers{repo: repo, now: time.Now}
}

type SalesMetricsInput struct{}

type SalesMetricsOutput struct {
	Leads   metrics.LeadMetrics   `json:"leads"`
	Sales   metrics.SalesMetrics  `json:"sales"`
	Clients metrics.ClientMetrics `json:"clients"`
	Status  []metrics.NamedStatus `json:"status"`
}

func (h *MetricsHandlers) SalesMetrics(ctx context.Context, _ *mcp.CallToolRequest, _ SalesMetricsInput) (*mcp.CallToolResult, SalesMetricsOutput, error) {
	board, err := h.repo.Board(ctx)
	if err != nil {
		return nil, SalesMetricsOutput{}, fmt.Errorf("failed to load pipeline: %w", err)
	}
	targets, err := h.repo.SalesTargets(ctx)
	if err != nil {
		return nil, SalesMetricsOutput{}, fmt.Errorf("failed to load sales targets: %w", err)
	}

	now := h.now()
	out := SalesMetricsOutput{
		Leads:   metrics.CalculateLeadMetrics(board.Leads, now),
		Sales:   metrics.CalculateSalesMetrics(board, now),
		Clients: metrics.CalculateClientMetrics(board),
	}
	out.Status = metrics.SalesStatusPanel(out.Leads, out.Sales, out.Clients, targets)
	return nil, out, nil
}

type DeveloperMetricsInput struct{}

type DeveloperMetricsOutput struct {
	Summary metrics.DeveloperSummary `json:"summary"`
	Status  []metrics.NamedStatus    `json:"status"`
}

func (h *MetricsHandlers) DeveloperMetrics(ctx context.Context, _ *mcp.CallToolRequest, _ DeveloperMetricsInput) (*mcp.CallToolResult, DeveloperMetricsOutput, error) {
	dm, err := h.repo.DeveloperMetrics(ctx)
	if err != nil {
		return nil, DeveloperMetricsOutput{}, fmt.Errorf("failed to load developer metrics: %w", err)
	}
	summary := metrics.AggregateDevelopers(dm)
	return nil, DeveloperMetricsOutput{
		Summary: summary,
		Status:  metrics.DeveloperStatusPanel(summary, dm.Targets),
	}, nil
}

type MetricStatusInput struct {
	Current           float64 `json:"current" jsonschema:"Current value of the metric"`
	Target            float64 `json:"target" jsonschema:"Target value of the metric"`
	LowerIsBetter     bool    `json:"lower_is_better,omitempty" jsonschema:"Set for metrics like sales cycle days where lower is better"`
	WarningThreshold  float64 `json:"warning_threshold,omitempty" jsonschema:"Fraction of target below which status is warning (default 0.8)"`
	CriticalThreshold float64 `json:"critical_threshold,omitempty" jsonschema:"Fraction of target below which status is critical (default 0.6)"`
}

func (h *MetricsHandlers) MetricStatus(_ context.Context, _ *mcp.CallToolRequest, input MetricStatusInput) (*mcp.CallToolResult, metrics.MetricStatus, error) {
	return nil, metrics.CalculateMetricStatus(input.Current, input.Target, !input.LowerIsBetter,
		metrics.WithThresholds(input.WarningThreshold, input.CriticalThreshold)), nil
}
