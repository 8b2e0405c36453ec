// ABOUTME: Data-entry boundary for goals with required-field validation
// ABOUTME: Coalesces missing numerics to zero once so calculators see clean values
package models

import (
	"fmt"
	"strings"
	"time"
)

// ValidationError names every required field that was missing.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}

// GoalInput is a goal as entered by a user or an agent, before normalization.
type GoalInput struct {
	Name          string
	Category      GoalCategory
	StartingValue *float64
	CurrentValue  *float64
	TargetValue   *float64
	TargetDate    string
	Unit          string
}

// Validate reports missing required fields: name, target value and target date.
func (in GoalInput) Validate() error {
	var missing []string
	if strings.TrimSpace(in.Name) == "" {
		missing = append(missing, "name")
	}
	if in.TargetValue == nil {
		missing = append(missing, "targetValue")
	}
	if strings.TrimSpace(in.TargetDate) == "" {
		missing = append(missing, "targetDate")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	if _, err := ParseDate(in.TargetDate); err != nil {
		return err
	}
	return nil
}

// ToGoal validates the input and builds a goal stamped with createdAt.
func (in GoalInput) ToGoal(createdAt time.Time) (Goal, error) {
	if err := in.Validate(); err != nil {
		return Goal{}, err
	}
	targetDate, _ := ParseDate(in.TargetDate)

	category := in.Category
	if category == "" {
		category = GoalCustom
	}

	return Goal{
		ID:            NewID(),
		Name:          strings.TrimSpace(in.Name),
		Category:      category,
		StartingValue: ValueOrZero(in.StartingValue),
		CurrentValue:  ValueOrZero(in.CurrentValue),
		TargetValue:   ValueOrZero(in.TargetValue),
		TargetDate:    targetDate,
		Unit:          in.Unit,
		CreatedAt:     createdAt,
	}, nil
}

// ValueOrZero dereferences v, treating nil as 0.
func ValueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// IsValidGoalCategory reports whether c is one of the known categories.
func IsValidGoalCategory(c GoalCategory) bool {
	switch c {
	case GoalRevenue, GoalMRR, GoalCashFlow, GoalCustom:
		return true
	}
	return false
}
