// ABOUTME: MCP prompt handlers for recurring dashboard reviews
// ABOUTME: Builds prompts from live goals, pipeline and financial data
package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/bizdash/export"
	"github.com/harperreed/bizdash/metrics"
	"github.com/harperreed/bizdash/store"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type PromptHandlers struct {
	repo *store.Repository
	now  Clock
}

func NewPromptHandlers(repo *store.Repository) *PromptHandlers {
	return &PromptHandlers{repo: repo, now: time.Now}
}

// Prompts lists the prompts GetPrompt serves.
func (h *PromptHandlers) Prompts() []*mcp.Prompt {
	return []*mcp.Prompt{
		{Name: "weekly-review", Description: "Review goals, pipeline and finances for the week"},
		{Name: "goal-check", Description: "Identify goals that are behind their required run rate"},
	}
}

// GetPrompt generates the prompt message for the named template.
func (h *PromptHandlers) GetPrompt(ctx context.Context, request *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	switch request.Params.Name {
	case "weekly-review":
		return h.weeklyReview(ctx)
	case "goal-check":
		return h.goalCheck(ctx)
	default:
		return nil, fmt.Errorf("unknown prompt: %s", request.Params.Name)
	}
}

func (h *PromptHandlers) weeklyReview(ctx context.Context) (*mcp.GetPromptResult, error) {
	snap, err := h.repo.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	var text strings.Builder
	text.WriteString("Here is the current state of the business dashboard.\n\n")
	text.WriteString(export.Markdown(snap, h.now()))
	text.WriteString("\nSummarize what changed, call out risks in the pipeline and contracts, ")
	text.WriteString("and suggest the three most valuable actions for this week.")
	return userPrompt("Weekly business review", text.String()), nil
}

func (h *PromptHandlers) goalCheck(ctx context.Context) (*mcp.GetPromptResult, error) {
	goals, err := h.repo.Goals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch goals: %w", err)
	}

	now := h.now()
	var text strings.Builder
	behind := 0
	for _, g := range goals {
		m := metrics.CalculateGoalMetrics(g, now)
		if m.OnTrack {
			continue
		}
		behind++
		fmt.Fprintf(&text, "- %s: %s%% complete, %d days left, needs %.2f/day but averaging %.2f/day\n",
			g.Name, m.Progress, m.DaysRemaining, m.RequiredRunRate, m.CurrentRunRate)
	}
	if behind == 0 {
		text.WriteString("All goals are on track.\n")
	}
	text.WriteString("\nFor each goal that is behind, suggest what would close the gap.")
	return userPrompt(fmt.Sprintf("%d goals behind", behind), text.String()), nil
}

func userPrompt(description, text string) *mcp.GetPromptResult {
	return &mcp.GetPromptResult{
		Description: description,
		Messages: []*mcp.PromptMessage{
			{Role: "user", Content: &mcp.TextContent{Text: text}},
		},
	}
}
