// ABOUTME: Lead, sales pipeline, and client aggregates
// ABOUTME: Every average is guarded so empty collections yield zero
package metrics

import (
	"time"

	"github.com/harperreed/bizdash/models"
	"github.com/harperreed/bizdash/pipeline"
)

type LeadMetrics struct {
	Total                     int            `json:"total"`
	NewThisMonth              int            `json:"newThisMonth"`
	ByStatus                  map[string]int `json:"byStatus"`
	BySource                  map[string]int `json:"bySource"`
	ConversionRate            float64        `json:"conversionRate"`
	TotalProjectedOpportunity float64        `json:"totalProjectedOpportunity"`
	AverageInteractions       float64        `json:"averageInteractions"`
}

type SalesMetrics struct {
	OpenDeals             int                `json:"openDeals"`
	PipelineValue         float64            `json:"pipelineValue"`
	StageCounts           map[string]int     `json:"stageCounts"`
	StageValues           map[string]float64 `json:"stageValues"`
	WonDeals              int                `json:"wonDeals"`
	LostDeals             int                `json:"lostDeals"`
	WinRate               float64            `json:"winRate"`
	AverageDealSize       float64            `json:"averageDealSize"`
	AverageSalesCycleDays float64            `json:"averageSalesCycleDays"`
	NewDealsThisMonth     int                `json:"newDealsThisMonth"`
}

type ClientMetrics struct {
	ActiveClients             int     `json:"activeClients"`
	FormerClients             int     `json:"formerClients"`
	MonthlyRecurringRevenue   float64 `json:"monthlyRecurringRevenue"`
	ProjectRevenue            float64 `json:"projectRevenue"`
	RetentionRate             float64 `json:"retentionRate"`
	AverageClientLifetimeDays float64 `json:"averageClientLifetimeDays"`
}

func ratio(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return part / whole
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// CalculateLeadMetrics summarizes the lead list as of now.
func CalculateLeadMetrics(leads []models.LeadItem, now time.Time) LeadMetrics {
	m := LeadMetrics{
		Total:    len(leads),
		ByStatus: make(map[string]int),
		BySource: make(map[string]int),
	}

	interactions := 0
	for _, lead := range leads {
		m.ByStatus[lead.Status]++
		source := lead.Source
		if source == "" {
			source = "unknown"
		}
		m.BySource[source]++
		m.TotalProjectedOpportunity += lead.ProjectedOpportunity
		interactions += len(lead.Interactions)
		if sameMonth(lead.CreatedAt, now) {
			m.NewThisMonth++
		}
	}

	m.ConversionRate = ratio(float64(m.ByStatus[models.LeadStatusConverted]), float64(m.Total)) * 100
	m.AverageInteractions = ratio(float64(interactions), float64(m.Total))
	return m
}

// CalculateSalesMetrics summarizes open and closed deals on the board.
func CalculateSalesMetrics(board pipeline.Board, now time.Time) SalesMetrics {
	m := SalesMetrics{
		OpenDeals:   len(board.Sales),
		StageCounts: make(map[string]int, len(models.SalesStages)),
		StageValues: make(map[string]float64, len(models.SalesStages)),
		LostDeals:   len(board.Lost),
	}
	for _, stage := range models.SalesStages {
		m.StageCounts[stage] = 0
		m.StageValues[stage] = 0
	}

	for _, item := range board.Sales {
		m.PipelineValue += item.Amount
		stage := item.SalesStage
		if stage == "" {
			stage = models.SalesStageProspecting
		}
		m.StageCounts[stage]++
		m.StageValues[stage] += item.Amount
		if sameMonth(item.CreatedAt, now) {
			m.NewDealsThisMonth++
		}
	}

	won := make([]models.PipelineItem, 0, len(board.Active)+len(board.Former))
	won = append(won, board.Active...)
	won = append(won, board.Former...)
	m.WonDeals = len(won)

	var wonValue, cycleDays float64
	cycles := 0
	for _, item := range won {
		wonValue += item.Amount
		if item.StartDate != nil && !item.CreatedAt.IsZero() {
			cycleDays += item.StartDate.Sub(item.CreatedAt).Hours() / 24
			cycles++
		}
	}

	m.WinRate = ratio(float64(m.WonDeals), float64(m.WonDeals+m.LostDeals)) * 100
	m.AverageDealSize = ratio(wonValue, float64(m.WonDeals))
	m.AverageSalesCycleDays = ratio(cycleDays, float64(cycles))
	return m
}

// CalculateClientMetrics summarizes recurring and project revenue from clients.
func CalculateClientMetrics(board pipeline.Board) ClientMetrics {
	m := ClientMetrics{
		ActiveClients: len(board.Active),
		FormerClients: len(board.Former),
	}

	for _, item := range board.Active {
		switch item.PaymentType {
		case models.PaymentMRR:
			m.MonthlyRecurringRevenue += item.MRRAmount
		case models.PaymentProject:
			m.ProjectRevenue += item.Amount
		case models.PaymentHybrid:
			m.MonthlyRecurringRevenue += item.MRRAmount
			m.ProjectRevenue += item.Amount
		}
	}

	var lifetime float64
	lifetimes := 0
	for _, item := range board.Former {
		if item.StartDate != nil && item.EndDate != nil {
			lifetime += item.EndDate.Sub(*item.StartDate).Hours() / 24
			lifetimes++
		}
	}

	m.RetentionRate = ratio(float64(m.ActiveClients), float64(m.ActiveClients+m.FormerClients)) * 100
	m.AverageClientLifetimeDays = ratio(lifetime, float64(lifetimes))
	return m
}

// SalesStatusPanel classifies each headline sales figure against its target.
func SalesStatusPanel(lead LeadMetrics, sales SalesMetrics, client ClientMetrics, targets models.SalesTargets) []NamedStatus {
	th := WithThresholds(targets.WarningThreshold, targets.CriticalThreshold)
	return []NamedStatus{
		named("New Leads (month)", float64(lead.NewThisMonth), targets.NewLeadsPerMonth, true, th),
		named("Lead Conversion %", lead.ConversionRate, targets.LeadConversionRate, true, th),
		named("Pipeline Value", sales.PipelineValue, targets.PipelineValue, true, th),
		named("Win Rate %", sales.WinRate, targets.WinRate, true, th),
		named("Average Deal Size", sales.AverageDealSize, targets.AverageDealSize, true, th),
		named("Sales Cycle (days)", sales.AverageSalesCycleDays, targets.SalesCycleDays, false, th),
		named("MRR", client.MonthlyRecurringRevenue, targets.MonthlyRecurringRevenue, true, th),
		named("Active Clients", float64(client.ActiveClients), targets.ActiveClients, true, th),
		named("Client Retention %", client.RetentionRate, targets.ClientRetentionRate, true, th),
	}
}
