package metrics

import (
	"math"
	"testing"
	"time"

	"github.com/harperreed/bizdash/models"
	"github.com/harperreed/bizdash/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day0(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr(t time.Time) *time.Time { return &t }

func sampleBoard() pipeline.Board {
	return pipeline.Board{
		Sales: []models.PipelineItem{
			{ID: 1, Prospect: "A", Amount: 1000, SalesStage: models.SalesStageProspecting, CreatedAt: day0(2024, time.May, 1)},
			{ID: 2, Prospect: "B", Amount: 2000, SalesStage: models.SalesStageProposal, CreatedAt: day0(2024, time.April, 3)},
		},
		Active: []models.PipelineItem{
			{ID: 3, Prospect: "C", Amount: 5000, CreatedAt: day0(2024, time.January, 1), StartDate: ptr(day0(2024, time.January, 31)),
				PaymentType: models.PaymentHybrid, MRRAmount: 1000},
		},
		Former: []models.PipelineItem{
			{ID: 4, Prospect: "D", Amount: 3000, CreatedAt: day0(2024, time.February, 1), StartDate: ptr(day0(2024, time.March, 2)),
				EndDate: ptr(day0(2024, time.September, 28)), PaymentType: models.PaymentProject},
		},
		Lost: []models.PipelineItem{
			{ID: 5, Prospect: "E", Amount: 9000, CreatedAt: day0(2024, time.March, 1)},
		},
	}
}

func TestCalculateSalesMetrics(t *testing.T) {
	m := CalculateSalesMetrics(sampleBoard(), now)

	assert.Equal(t, 2, m.OpenDeals)
	assert.InDelta(t, 3000.0, m.PipelineValue, 1e-9)
	assert.Equal(t, 1, m.StageCounts[models.SalesStageProspecting])
	assert.Equal(t, 1, m.StageCounts[models.SalesStageProposal])
	assert.Equal(t, 0, m.StageCounts[models.SalesStageClosing])
	assert.InDelta(t, 2000.0, m.StageValues[models.SalesStageProposal], 1e-9)
	assert.Equal(t, 2, m.WonDeals)
	assert.Equal(t, 1, m.LostDeals)
	assert.InDelta(t, 200.0/3, m.WinRate, 1e-9)
	assert.InDelta(t, 4000.0, m.AverageDealSize, 1e-9)
	assert.InDelta(t, 30.0, m.AverageSalesCycleDays, 1e-9)
	assert.Equal(t, 1, m.NewDealsThisMonth)
}

func TestCalculateClientMetrics(t *testing.T) {
	m := CalculateClientMetrics(sampleBoard())

	assert.Equal(t, 1, m.ActiveClients)
	assert.Equal(t, 1, m.FormerClients)
	assert.InDelta(t, 1000.0, m.MonthlyRecurringRevenue, 1e-9)
	assert.InDelta(t, 5000.0, m.ProjectRevenue, 1e-9)
	assert.InDelta(t, 50.0, m.RetentionRate, 1e-9)
	assert.InDelta(t, 210.0, m.AverageClientLifetimeDays, 1e-9)
}

func TestCalculateLeadMetrics(t *testing.T) {
	leads := []models.LeadItem{
		{Status: models.LeadStatusNew, Source: "referral", ProjectedOpportunity: 1000, CreatedAt: now,
			Interactions: []models.Interaction{{Type: models.InteractionCall}, {Type: models.InteractionEmail}}},
		{Status: models.LeadStatusConverted, Source: "referral", ProjectedOpportunity: 2000, CreatedAt: now.AddDate(0, -1, 0)},
		{Status: models.LeadStatusConverted, ProjectedOpportunity: 3000, CreatedAt: now,
			Interactions: []models.Interaction{{Type: models.InteractionMeeting}}},
		{Status: models.LeadStatusLost, Source: "web", CreatedAt: now.AddDate(-1, 0, 0),
			Interactions: []models.Interaction{{Type: models.InteractionEvent}}},
	}

	m := CalculateLeadMetrics(leads, now)

	assert.Equal(t, 4, m.Total)
	assert.Equal(t, 2, m.NewThisMonth)
	assert.Equal(t, 2, m.ByStatus[models.LeadStatusConverted])
	assert.Equal(t, 2, m.BySource["referral"])
	assert.Equal(t, 1, m.BySource["unknown"])
	assert.InDelta(t, 50.0, m.ConversionRate, 1e-9)
	assert.InDelta(t, 6000.0, m.TotalProjectedOpportunity, 1e-9)
	assert.InDelta(t, 1.0, m.AverageInteractions, 1e-9)
}

func TestEmptyCollectionsYieldZero(t *testing.T) {
	sales := CalculateSalesMetrics(pipeline.Board{}, now)
	clients := CalculateClientMetrics(pipeline.Board{})
	leads := CalculateLeadMetrics(nil, now)

	for _, v := range []float64{
		sales.WinRate, sales.AverageDealSize, sales.AverageSalesCycleDays, sales.PipelineValue,
		clients.RetentionRate, clients.AverageClientLifetimeDays,
		leads.ConversionRate, leads.AverageInteractions,
	} {
		assert.False(t, math.IsNaN(v))
		assert.Zero(t, v)
	}
}

func TestSalesStatusPanel(t *testing.T) {
	board := sampleBoard()
	panel := SalesStatusPanel(
		CalculateLeadMetrics(nil, now),
		CalculateSalesMetrics(board, now),
		CalculateClientMetrics(board),
		models.DefaultSalesTargets(),
	)

	require.Len(t, panel, 9)
	byName := make(map[string]NamedStatus)
	for _, row := range panel {
		byName[row.Name] = row
	}

	cycle := byName["Sales Cycle (days)"]
	assert.False(t, cycle.HigherIsBetter)
	assert.Equal(t, StatusOnTrack, cycle.Status.Status)

	assert.Equal(t, StatusCritical, byName["Pipeline Value"].Status.Status)
	assert.Equal(t, StatusOnTrack, byName["Win Rate %"].Status.Status)
}
