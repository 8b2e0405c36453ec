// ABOUTME: Goal MCP tool handlers
// ABOUTME: Implements list_goals, add_goal and update_goal_progress
package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/harperreed/bizdash/metrics"
	"github.com/harperreed/bizdash/models"
	"github.com/harperreed/bizdash/store"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type GoalHandlers struct {
	repo *store.Repository
	now  Clock
}

func NewGoalHandlers(repo *store.Repository) *GoalHandlers {
	return &GoalHandlers{repo: repo, now: time.Now}
}

type GoalOutput struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Category        string  `json:"category"`
	StartingValue   float64 `json:"starting_value"`
	CurrentValue    float64 `json:"current_value"`
	TargetValue     float64 `json:"target_value"`
	TargetDate      string  `json:"target_date"`
	Unit            string  `json:"unit,omitempty"`
	Progress        string  `json:"progress"`
	Remaining       float64 `json:"remaining"`
	DaysRemaining   int     `json:"days_remaining"`
	CurrentRunRate  float64 `json:"current_run_rate"`
	RequiredRunRate float64 `json:"required_run_rate"`
	OnTrack         bool    `json:"on_track"`
}

func goalOutput(g models.Goal, now time.Time) GoalOutput {
	m := metrics.CalculateGoalMetrics(g, now)
	return GoalOutput{
		ID:              g.ID,
		Name:            g.Name,
		Category:        string(g.Category),
		StartingValue:   g.StartingValue,
		CurrentValue:    g.CurrentValue,
		TargetValue:     g.TargetValue,
		TargetDate:      g.TargetDate.String(),
		Unit:            g.Unit,
		Progress:        m.Progress,
		Remaining:       m.Remaining,
		DaysRemaining:   m.DaysRemaining,
		CurrentRunRate:  m.CurrentRunRate,
		RequiredRunRate: m.RequiredRunRate,
		OnTrack:         m.OnTrack,
	}
}

type ListGoalsInput struct {
	Category string `json:"category,omitempty" jsonschema:"Filter by category: Revenue, MRR, CashFlow, Custom"`
}

type ListGoalsOutput struct {
	Goals []GoalOutput `json:"goals"`
	Count int          `json:"count"`
}

func (h *GoalHandlers) ListGoals(ctx context.Context, _ *mcp.CallToolRequest, input ListGoalsInput) (*mcp.CallToolResult, ListGoalsOutput, error) {
	goals, err := h.repo.Goals(ctx)
	if err != nil {
		return nil, ListGoalsOutput{}, fmt.Errorf("failed to load goals: %w", err)
	}

	now := h.now()
	out := ListGoalsOutput{Goals: []GoalOutput{}}
	for _, g := range goals {
		if input.Category != "" && string(g.Category) != input.Category {
			continue
		}
		out.Goals = append(out.Goals, goalOutput(g, now))
	}
	out.Count = len(out.Goals)
	return nil, out, nil
}

type AddGoalInput struct {
	Name          string   `json:"name" jsonschema:"Goal name (required)"`
	Category      string   `json:"category,omitempty" jsonschema:"Revenue, MRR, CashFlow or Custom (default Custom)"`
	StartingValue *float64 `json:"starting_value,omitempty" jsonschema:"Value when the goal was set (default 0)"`
	CurrentValue  *float64 `json:"current_value,omitempty" jsonschema:"Current value (default 0)"`
	TargetValue   *float64 `json:"target_value" jsonschema:"Target value (required)"`
	TargetDate    string   `json:"target_date" jsonschema:"Target date YYYY-MM-DD (required)"`
	Unit          string   `json:"unit,omitempty" jsonschema:"Unit label such as $ or clients"`
}

func (h *GoalHandlers) AddGoal(ctx context.Context, _ *mcp.CallToolRequest, input AddGoalInput) (*mcp.CallToolResult, GoalOutput, error) {
	category := models.GoalCategory(input.Category)
	if category != "" && !models.IsValidGoalCategory(category) {
		return nil, GoalOutput{}, fmt.Errorf("invalid category: %s (valid: Revenue, MRR, CashFlow, Custom)", input.Category)
	}

	now := h.now()
	goal, err := models.GoalInput{
		Name:          input.Name,
		Category:      category,
		StartingValue: input.StartingValue,
		CurrentValue:  input.CurrentValue,
		TargetValue:   input.TargetValue,
		TargetDate:    input.TargetDate,
		Unit:          input.Unit,
	}.ToGoal(now)
	if err != nil {
		return nil, GoalOutput{}, err
	}

	goals, err := h.repo.Goals(ctx)
	if err != nil {
		return nil, GoalOutput{}, fmt.Errorf("failed to load goals: %w", err)
	}
	if err := h.repo.SaveGoals(ctx, append(goals, goal)); err != nil {
		return nil, GoalOutput{}, err
	}
	return nil, goalOutput(goal, now), nil
}

type UpdateGoalProgressInput struct {
	ID           int64   `json:"id" jsonschema:"Goal ID (required)"`
	CurrentValue float64 `json:"current_value" jsonschema:"New current value"`
}

func (h *GoalHandlers) UpdateGoalProgress(ctx context.Context, _ *mcp.CallToolRequest, input UpdateGoalProgressInput) (*mcp.CallToolResult, GoalOutput, error) {
	goals, err := h.repo.Goals(ctx)
	if err != nil {
		return nil, GoalOutput{}, fmt.Errorf("failed to load goals: %w", err)
	}

	updated := make([]models.Goal, len(goals))
	copy(updated, goals)
	for i := range updated {
		if updated[i].ID != input.ID {
			continue
		}
		updated[i].CurrentValue = input.CurrentValue
		if err := h.repo.SaveGoals(ctx, updated); err != nil {
			return nil, GoalOutput{}, err
		}
		return nil, goalOutput(updated[i], h.now()), nil
	}
	return nil, GoalOutput{}, fmt.Errorf("goal not found: %d", input.ID)
}
