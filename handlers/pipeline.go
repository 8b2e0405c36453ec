// ABOUTME: Pipeline MCP tool handler
// ABOUTME: Implements move_pipeline_item over the stage state machine
package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/harperreed/bizdash/models"
	"github.com/harperreed/bizdash/pipeline"
	"github.com/harperreed/bizdash/store"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type PipelineHandlers struct {
	repo *store.Repository
	now  Clock
}

func NewPipelineHandlers(repo *store.Repository) *PipelineHandlers {
	return &PipelineHandlers{repo: repo, now: time.Now}
}

type MovePipelineItemInput struct {
	ID   int64  `json:"id" jsonschema:"Pipeline item or lead ID (required)"`
	From string `json:"from" jsonschema:"Current stage: lead, sales, active, lost, former"`
	To   string `json:"to" jsonschema:"Target stage: lead, sales, active, lost, former"`
}

type PipelineItemOutput struct {
	ID          int64   `json:"id"`
	Prospect    string  `json:"prospect"`
	ProjectName string  `json:"project_name,omitempty"`
	Amount      float64 `json:"amount"`
	Stage       string  `json:"stage"`
	SalesStage  string  `json:"sales_stage,omitempty"`
	PaymentType string  `json:"payment_type,omitempty"`
	StartDate   string  `json:"start_date,omitempty"`
	LostDate    string  `json:"lost_date,omitempty"`
	EndDate     string  `json:"end_date,omitempty"`
}

func pipelineItemOutput(item models.PipelineItem, stage pipeline.Stage) PipelineItemOutput {
	return PipelineItemOutput{
		ID:          item.ID,
		Prospect:    item.Prospect,
		ProjectName: item.ProjectName,
		Amount:      item.Amount,
		Stage:       string(stage),
		SalesStage:  item.SalesStage,
		PaymentType: string(item.PaymentType),
		StartDate:   formatTime(item.StartDate),
		LostDate:    formatTime(item.LostDate),
		EndDate:     formatTime(item.EndDate),
	}
}

func (h *PipelineHandlers) MovePipelineItem(ctx context.Context, _ *mcp.CallToolRequest, input MovePipelineItemInput) (*mcp.CallToolResult, PipelineItemOutput, error) {
	from, err := pipeline.ParseStage(input.From)
	if err != nil {
		return nil, PipelineItemOutput{}, err
	}
	to, err := pipeline.ParseStage(input.To)
	if err != nil {
		return nil, PipelineItemOutput{}, err
	}

	board, err := h.repo.Board(ctx)
	if err != nil {
		return nil, PipelineItemOutput{}, fmt.Errorf("failed to load pipeline: %w", err)
	}

	// lead -> sales converts the lead; Move dispatches that case itself.
	next, item, err := board.Move(input.ID, from, to, h.now())
	if err != nil {
		return nil, PipelineItemOutput{}, err
	}

	if err := h.repo.SaveBoard(ctx, next); err != nil {
		return nil, PipelineItemOutput{}, err
	}
	return nil, pipelineItemOutput(item, to), nil
}
