// ABOUTME: Terminal dashboard statistics and rendering
// ABOUTME: Summarizes goals, pipeline, contracts and the latest report as ASCII
package viz

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/harperreed/bizdash/metrics"
	"github.com/harperreed/bizdash/models"
	"github.com/harperreed/bizdash/pipeline"
	"github.com/harperreed/bizdash/store"
)

// DeadlineWindowDays is how close a response deadline must be to need attention.
const DeadlineWindowDays = 14

type DashboardStats struct {
	Pipeline []StageStats

	GoalsOnTrack int
	GoalsBehind  int
	MRR          float64

	// Latest financial report, nil when none is stored.
	LatestReport *models.FinancialData

	// Needs attention
	BehindGoals       []string
	UpcomingDeadlines []Deadline
	OverdueNextSteps  []OverdueStep
}

type StageStats struct {
	Stage  pipeline.Stage
	Count  int
	Amount float64
}

type Deadline struct {
	OpportunityNumber string
	Title             string
	DaysLeft          int
}

type OverdueStep struct {
	Prospect    string
	NextStep    string
	DaysOverdue int
}

// GenerateDashboardStats derives dashboard figures from a snapshot as of now.
func GenerateDashboardStats(snap *store.Snapshot, now time.Time) *DashboardStats {
	stats := &DashboardStats{}

	for _, stage := range pipeline.Stages {
		s := StageStats{Stage: stage, Count: snap.Board.Count(stage)}
		if stage == pipeline.StageLead {
			for _, l := range snap.Board.Leads {
				s.Amount += l.ProjectedOpportunity
			}
		} else {
			for _, p := range snap.Board.Items(stage) {
				s.Amount += p.Amount
			}
		}
		stats.Pipeline = append(stats.Pipeline, s)
	}

	for _, g := range snap.Goals {
		if metrics.CalculateGoalMetrics(g, now).OnTrack {
			stats.GoalsOnTrack++
		} else {
			stats.GoalsBehind++
			stats.BehindGoals = append(stats.BehindGoals, g.Name)
		}
	}
	sort.Strings(stats.BehindGoals)

	stats.MRR = metrics.CalculateClientMetrics(snap.Board).MonthlyRecurringRevenue

	for _, c := range snap.Contracts {
		if c.Status == models.ContractStatusAwarded || c.Status == models.ContractStatusLost || c.Status == models.ContractStatusNoBid {
			continue
		}
		days, ok := c.DaysUntilDeadline(now)
		if ok && days >= 0 && days <= DeadlineWindowDays {
			stats.UpcomingDeadlines = append(stats.UpcomingDeadlines, Deadline{
				OpportunityNumber: c.OpportunityNumber,
				Title:             c.Title,
				DaysLeft:          days,
			})
		}
	}
	sort.Slice(stats.UpcomingDeadlines, func(i, j int) bool {
		return stats.UpcomingDeadlines[i].DaysLeft < stats.UpcomingDeadlines[j].DaysLeft
	})

	today := models.DateOf(now)
	for _, p := range snap.Board.Sales {
		if p.NextStepDate == nil || p.NextStepDate.IsZero() {
			continue
		}
		overdue := int(today.Sub(p.NextStepDate.Time).Hours() / 24)
		if overdue > 0 {
			stats.OverdueNextSteps = append(stats.OverdueNextSteps, OverdueStep{
				Prospect:    p.Prospect,
				NextStep:    p.NextStep,
				DaysOverdue: overdue,
			})
		}
	}

	stats.LatestReport = latestReport(snap.Financials)
	return stats
}

// latestReport picks the newest month report, falling back to any period.
func latestReport(financials map[string]models.FinancialData) *models.FinancialData {
	var best *models.FinancialData
	for _, d := range financials {
		switch {
		case best == nil:
			best = &d
		case d.Period == models.PeriodMonth && best.Period != models.PeriodMonth:
			best = &d
		case d.Period == best.Period && d.PeriodDate.After(best.PeriodDate.Time):
			best = &d
		}
	}
	return best
}

func RenderDashboard(stats *DashboardStats) string {
	var out strings.Builder

	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	out.WriteString("  BUSINESS DASHBOARD\n")
	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	out.WriteString("PIPELINE OVERVIEW\n")
	renderPipeline(&out, stats.Pipeline)
	out.WriteString("\n")

	out.WriteString("STATS\n")
	fmt.Fprintf(&out, "  🎯 %d goals on track  ⏳ %d behind  💵 $%.0f MRR\n\n",
		stats.GoalsOnTrack, stats.GoalsBehind, stats.MRR)

	if r := stats.LatestReport; r != nil {
		fmt.Fprintf(&out, "LATEST REPORT (%s %s)\n", r.Period, r.PeriodDate)
		fmt.Fprintf(&out, "  Income $%.0f  Expenses $%.0f  Margin %.1f%%  Run rate $%.0f/day\n\n",
			r.Income.Total, r.Expenses.Total, r.GrossProfit.Margin, r.RunRate.Effective())
	}

	if len(stats.BehindGoals) > 0 || len(stats.UpcomingDeadlines) > 0 || len(stats.OverdueNextSteps) > 0 {
		out.WriteString("NEEDS ATTENTION\n")
		for _, name := range stats.BehindGoals {
			fmt.Fprintf(&out, "  ⚠️  goal behind pace: %s\n", name)
		}
		for _, d := range stats.UpcomingDeadlines {
			fmt.Fprintf(&out, "  ⚠️  %s %s - response due in %d days\n", d.OpportunityNumber, d.Title, d.DaysLeft)
		}
		for _, s := range stats.OverdueNextSteps {
			fmt.Fprintf(&out, "  ⚠️  %s - next step overdue %d days (%s)\n", s.Prospect, s.DaysOverdue, s.NextStep)
		}
	}

	return out.String()
}

func renderPipeline(out *strings.Builder, stages []StageStats) {
	maxCount := 0
	for _, s := range stages {
		maxCount = max(maxCount, s.Count)
	}
	if maxCount == 0 {
		maxCount = 1
	}

	for _, s := range stages {
		barLength := (s.Count * 10) / maxCount
		bar := strings.Repeat("█", barLength) + strings.Repeat("░", 10-barLength)
		fmt.Fprintf(out, "  %-18s %s  %2d ($%.0fK)\n", s.Stage.Label(), bar, s.Count, s.Amount/1000)
	}
}
