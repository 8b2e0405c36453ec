// ABOUTME: Shared helpers for the dashboard MCP tool handlers
// ABOUTME: Period/date parsing and flattening of times into strings for tool output
package handlers

import (
	"fmt"
	"time"

	"github.com/harperreed/bizdash/models"
)

// Clock returns the current time; tests substitute a fixed one.
type Clock func() time.Time

// parsePeriod resolves tool input into a period and a date inside it.
// An empty period means month and an empty date means today.
func parsePeriod(period, date string, now time.Time) (models.Period, models.Date, error) {
	p := models.PeriodMonth
	if period != "" {
		var ok bool
		if p, ok = models.ParsePeriod(period); !ok {
			return "", models.Date{}, fmt.Errorf("invalid period: %s (valid: month, quarter, year)", period)
		}
	}

	d := models.DateOf(now)
	if date != "" {
		parsed, err := models.ParseDate(date)
		if err != nil {
			return "", models.Date{}, fmt.Errorf("invalid period_date format (use YYYY-MM-DD): %w", err)
		}
		d = parsed
	}
	return p, p.Start(d), nil
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
