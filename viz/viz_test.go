package viz

import (
	"context"
	"testing"
	"time"

	"github.com/harperreed/bizdash/models"
	"github.com/harperreed/bizdash/pipeline"
	"github.com/harperreed/bizdash/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, time.April, 15, 10, 0, 0, 0, time.UTC)

func datePtr(y int, m time.Month, d int) *models.Date {
	date := models.NewDate(y, m, d)
	return &date
}

func sampleSnapshot() *store.Snapshot {
	started := fixedNow.AddDate(0, -2, 0)
	return &store.Snapshot{
		Goals: []models.Goal{
			{ID: 1, Name: "Grow MRR", StartingValue: 0, CurrentValue: 9000, TargetValue: 10000,
				TargetDate: models.NewDate(2024, time.May, 1), CreatedAt: fixedNow.AddDate(0, -1, 0)},
			{ID: 2, Name: "Hit $1M", StartingValue: 0, CurrentValue: 10, TargetValue: 1e6,
				TargetDate: models.NewDate(2024, time.May, 1), CreatedAt: fixedNow.AddDate(0, -1, 0)},
		},
		Board: pipeline.Board{
			Leads: []models.LeadItem{{ID: 10, Prospect: "Initech", ProjectedOpportunity: 20000, Status: models.LeadStatusNew}},
			Sales: []models.PipelineItem{{ID: 20, Prospect: "Acme", Amount: 50000, NextStep: "Send proposal",
				NextStepDate: datePtr(2024, time.April, 10)}},
			Active: []models.PipelineItem{{ID: 30, Prospect: "Globex", Amount: 12000, PaymentType: models.PaymentMRR,
				MRRAmount: 3000, StartDate: &started}},
		},
		Contracts: []models.GovContractItem{
			{ID: 40, OpportunityNumber: "W91-1", Title: "Cloud", Agency: "Army", Status: models.ContractStatusPreparing,
				Priority: models.PriorityHigh, ResponseDeadline: datePtr(2024, time.April, 20)},
			{ID: 41, OpportunityNumber: "GSA-2", Title: "Data", Agency: "GSA", Status: models.ContractStatusAwarded,
				ResponseDeadline: datePtr(2024, time.April, 18)},
		},
		Financials: map[string]models.FinancialData{
			"financial_month_2024-02-01": {Period: models.PeriodMonth, PeriodDate: models.NewDate(2024, time.February, 1)},
			"financial_month_2024-03-01": {Period: models.PeriodMonth, PeriodDate: models.NewDate(2024, time.March, 1),
				Income: models.Section{Total: 90000}},
			"financial_year_2024-01-01": {Period: models.PeriodYear, PeriodDate: models.NewDate(2024, time.January, 1)},
		},
	}
}

func TestGenerateDashboardStats(t *testing.T) {
	stats := GenerateDashboardStats(sampleSnapshot(), fixedNow)

	require.Len(t, stats.Pipeline, len(pipeline.Stages))
	assert.Equal(t, 1, stats.Pipeline[0].Count)
	assert.Equal(t, 20000.0, stats.Pipeline[0].Amount)
	assert.Equal(t, 50000.0, stats.Pipeline[1].Amount)

	assert.Equal(t, 1, stats.GoalsOnTrack)
	assert.Equal(t, []string{"Hit $1M"}, stats.BehindGoals)
	assert.Equal(t, 3000.0, stats.MRR)

	require.Len(t, stats.UpcomingDeadlines, 1)
	assert.Equal(t, "W91-1", stats.UpcomingDeadlines[0].OpportunityNumber)
	assert.Equal(t, 5, stats.UpcomingDeadlines[0].DaysLeft)

	require.Len(t, stats.OverdueNextSteps, 1)
	assert.Equal(t, 5, stats.OverdueNextSteps[0].DaysOverdue)

	require.NotNil(t, stats.LatestReport)
	assert.Equal(t, "2024-03-01", stats.LatestReport.PeriodDate.String())
}

func TestRenderDashboard(t *testing.T) {
	out := RenderDashboard(GenerateDashboardStats(sampleSnapshot(), fixedNow))

	assert.Contains(t, out, "BUSINESS DASHBOARD")
	assert.Contains(t, out, "Sales Pipeline")
	assert.Contains(t, out, "LATEST REPORT (month 2024-03-01)")
	assert.Contains(t, out, "goal behind pace: Hit $1M")
	assert.Contains(t, out, "W91-1 Cloud - response due in 5 days")
}

func TestRenderDashboard_Empty(t *testing.T) {
	out := RenderDashboard(GenerateDashboardStats(&store.Snapshot{}, fixedNow))
	assert.Contains(t, out, "PIPELINE OVERVIEW")
	assert.NotContains(t, out, "NEEDS ATTENTION")
	assert.NotContains(t, out, "LATEST REPORT")
}

func TestGeneratePipelineGraph(t *testing.T) {
	dot, err := GeneratePipelineGraph(context.Background(), sampleSnapshot().Board, FormatDOT)
	require.NoError(t, err)
	assert.Contains(t, dot, "stage_lead")
	assert.Contains(t, dot, "deal_20")
	assert.Contains(t, dot, "Acme")
}

func TestGenerateContractGraph(t *testing.T) {
	dot, err := GenerateContractGraph(context.Background(), sampleSnapshot().Contracts, FormatDOT)
	require.NoError(t, err)
	assert.Contains(t, dot, "contract_40")
	assert.Contains(t, dot, "Army")
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatDOT, f)

	f, err = ParseFormat("svg")
	require.NoError(t, err)
	assert.Equal(t, FormatSVG, f)

	_, err = ParseFormat("png")
	assert.Error(t, err)
}
