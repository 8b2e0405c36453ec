// ABOUTME: Goal progress and run-rate calculations
// ABOUTME: Pure function over a goal and the current time
package metrics

import (
	"math"
	"strconv"
	"time"

	"github.com/harperreed/bizdash/models"
)

const day = 24 * time.Hour

// GoalMetrics is the derived view of a single goal.
type GoalMetrics struct {
	Progress        string  `json:"progress"`
	Remaining       float64 `json:"remaining"`
	DaysRemaining   int     `json:"daysRemaining"`
	DaysElapsed     int     `json:"daysElapsed"`
	CurrentRunRate  float64 `json:"currentRunRate"`
	RequiredRunRate float64 `json:"requiredRunRate"`
	OnTrack         bool    `json:"onTrack"`
}

// CalculateGoalMetrics computes progress toward a goal as of now.
func CalculateGoalMetrics(goal models.Goal, now time.Time) GoalMetrics {
	total := goal.TargetValue - goal.StartingValue
	progress := 0.0
	if total != 0 {
		progress = (goal.CurrentValue - goal.StartingValue) / total * 100
	}
	// One decimal, halves away from zero; -0 from a shrinking goal prints as 0.
	progress = math.Round(progress*10) / 10
	if progress == 0 {
		progress = 0
	}

	remaining := goal.TargetValue - goal.CurrentValue
	daysRemaining := ceilDays(goal.TargetDate.Sub(now))
	daysElapsed := max(1, ceilDays(now.Sub(goal.CreatedAt)))

	currentRunRate := (goal.CurrentValue - goal.StartingValue) / float64(daysElapsed)
	requiredRunRate := 0.0
	if daysRemaining > 0 {
		requiredRunRate = remaining / float64(daysRemaining)
	}

	return GoalMetrics{
		Progress:        strconv.FormatFloat(progress, 'f', 1, 64),
		Remaining:       remaining,
		DaysRemaining:   daysRemaining,
		DaysElapsed:     daysElapsed,
		CurrentRunRate:  currentRunRate,
		RequiredRunRate: requiredRunRate,
		OnTrack:         currentRunRate >= requiredRunRate,
	}
}

func ceilDays(d time.Duration) int {
	return int(math.Ceil(float64(d) / float64(day)))
}
