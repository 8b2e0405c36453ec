// ABOUTME: Goal CLI commands
// ABOUTME: Handles add-goal, list-goals, update-goal and delete-goal
package cli

import (
	"context"
	"flag"
	"fmt"
	"slices"

	"github.com/harperreed/bizdash/metrics"
	"github.com/harperreed/bizdash/models"
	"github.com/harperreed/bizdash/store"
)

// AddGoalCommand adds a new goal.
func AddGoalCommand(repo *store.Repository, args []string) error {
	fs := flag.NewFlagSet("add-goal", flag.ExitOnError)
	name := fs.String("name", "", "Goal name (required)")
	category := fs.String("category", "", "Revenue, MRR, CashFlow or Custom (default Custom)")
	start := fs.Float64("start", 0, "Value when the goal was set")
	current := fs.Float64("current", 0, "Current value")
	target := fs.Float64("target", 0, "Target value (required)")
	targetDate := fs.String("target-date", "", "Target date YYYY-MM-DD (required)")
	unit := fs.String("unit", "", "Unit label such as $ or clients")
	_ = fs.Parse(args)

	cat := models.GoalCategory(*category)
	if cat != "" && !models.IsValidGoalCategory(cat) {
		return fmt.Errorf("invalid category: %s (valid: Revenue, MRR, CashFlow, Custom)", *category)
	}

	input := models.GoalInput{
		Name:          *name,
		Category:      cat,
		StartingValue: start,
		CurrentValue:  current,
		TargetDate:    *targetDate,
		Unit:          *unit,
	}
	if wasSet(fs, "target") {
		input.TargetValue = target
	}

	goal, err := input.ToGoal(now())
	if err != nil {
		return err
	}

	ctx := context.Background()
	goals, err := repo.Goals(ctx)
	if err != nil {
		return fmt.Errorf("failed to load goals: %w", err)
	}
	if err := repo.SaveGoals(ctx, append(goals, goal)); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "✓ Created goal: %s (ID: %d)\n", goal.Name, goal.ID)
	fmt.Fprintf(stdout, "  Target: %.2f by %s\n", goal.TargetValue, goal.TargetDate)
	return nil
}

// ListGoalsCommand lists goals with their progress.
func ListGoalsCommand(repo *store.Repository, args []string) error {
	fs := flag.NewFlagSet("list-goals", flag.ExitOnError)
	category := fs.String("category", "", "Filter by category")
	_ = fs.Parse(args)

	goals, err := repo.Goals(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load goals: %w", err)
	}

	var shown []models.Goal
	for _, g := range goals {
		if *category == "" || string(g.Category) == *category {
			shown = append(shown, g)
		}
	}
	if len(shown) == 0 {
		fmt.Fprintln(stdout, "No goals found")
		return nil
	}

	at := now()
	w := newTable()
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tCURRENT\tTARGET\tPROGRESS\tDUE\tSTATUS")
	fmt.Fprintln(w, "--\t----\t--------\t-------\t------\t--------\t---\t------")
	for _, g := range shown {
		m := metrics.CalculateGoalMetrics(g, at)
		status := "behind"
		if m.OnTrack {
			status = "on track"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%.2f\t%.2f\t%s%%\t%s\t%s\n",
			g.ID, g.Name, g.Category, g.CurrentValue, g.TargetValue, m.Progress, g.TargetDate, status)
	}
	return w.Flush()
}

// UpdateGoalCommand records new progress on a goal.
func UpdateGoalCommand(repo *store.Repository, args []string) error {
	fs := flag.NewFlagSet("update-goal", flag.ExitOnError)
	current := fs.Float64("current", 0, "New current value (required)")
	_ = fs.Parse(args)

	id, err := parseID(fs, "goal")
	if err != nil {
		return err
	}
	if !wasSet(fs, "current") {
		return fmt.Errorf("--current is required")
	}

	ctx := context.Background()
	goals, err := repo.Goals(ctx)
	if err != nil {
		return fmt.Errorf("failed to load goals: %w", err)
	}

	i := slices.IndexFunc(goals, func(g models.Goal) bool { return g.ID == id })
	if i < 0 {
		return fmt.Errorf("goal not found: %d", id)
	}
	updated := slices.Clone(goals)
	updated[i].CurrentValue = *current
	if err := repo.SaveGoals(ctx, updated); err != nil {
		return err
	}

	m := metrics.CalculateGoalMetrics(updated[i], now())
	fmt.Fprintf(stdout, "✓ Updated goal: %s (%s%% complete)\n", updated[i].Name, m.Progress)
	return nil
}

// DeleteGoalCommand removes a goal.
func DeleteGoalCommand(repo *store.Repository, args []string) error {
	fs := flag.NewFlagSet("delete-goal", flag.ExitOnError)
	_ = fs.Parse(args)

	id, err := parseID(fs, "goal")
	if err != nil {
		return err
	}

	ctx := context.Background()
	goals, err := repo.Goals(ctx)
	if err != nil {
		return fmt.Errorf("failed to load goals: %w", err)
	}

	i := slices.IndexFunc(goals, func(g models.Goal) bool { return g.ID == id })
	if i < 0 {
		return fmt.Errorf("goal not found: %d", id)
	}
	name := goals[i].Name
	if err := repo.SaveGoals(ctx, slices.Delete(slices.Clone(goals), i, i+1)); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "✓ Deleted goal: %s\n", name)
	return nil
}
