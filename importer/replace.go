// ABOUTME: Decodes a full export for a wholesale replace of every collection
// ABOUTME: Goal numerics that are null or missing are coalesced to zero here
package importer

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/harperreed/bizdash/export"
	"github.com/harperreed/bizdash/models"
	"github.com/harperreed/bizdash/store"
)

var replaceKeys = []string{
	"goals", "leadsPipeline", "salesPipeline", "activeClients", "lostDeals",
	"formerClients", "govContracts", "salesTargets", "developerMetrics", "financials",
}

// rawGoal mirrors models.Goal with nullable numerics so absent values are
// distinguishable before sanitizing.
type rawGoal struct {
	ID            int64               `json:"id"`
	Name          string              `json:"name"`
	Category      models.GoalCategory `json:"category"`
	StartingValue *float64            `json:"startingValue"`
	CurrentValue  *float64            `json:"currentValue"`
	TargetValue   *float64            `json:"targetValue"`
	TargetDate    models.Date         `json:"targetDate"`
	Unit          string              `json:"unit"`
	CreatedAt     time.Time           `json:"createdAt"`
}

func (g rawGoal) sanitize(now time.Time) models.Goal {
	goal := models.Goal{
		ID:            g.ID,
		Name:          g.Name,
		Category:      g.Category,
		StartingValue: models.ValueOrZero(g.StartingValue),
		CurrentValue:  models.ValueOrZero(g.CurrentValue),
		TargetValue:   models.ValueOrZero(g.TargetValue),
		TargetDate:    g.TargetDate,
		Unit:          g.Unit,
		CreatedAt:     g.CreatedAt,
	}
	if goal.ID == 0 {
		goal.ID = models.NewID()
	}
	if goal.Category == "" {
		goal.Category = models.GoalCustom
	}
	if goal.CreatedAt.IsZero() {
		goal.CreatedAt = now
	}
	return goal
}

// ParseReplace decodes an export document into a snapshot ready for
// store.Repository.ReplaceAll. Collections absent from the document come back
// empty, and targets fall back to their defaults.
func ParseReplace(data []byte, now time.Time) (*store.Snapshot, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, malformed("expected an export object", nil)
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &keys); err != nil {
		return nil, malformed("invalid JSON object", err)
	}
	known := false
	for _, k := range replaceKeys {
		if _, ok := keys[k]; ok {
			known = true
			break
		}
	}
	if !known {
		return nil, malformed("no dashboard collections found", nil)
	}

	var env export.Envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, malformed("invalid export document", err)
	}
	var goals struct {
		Goals []rawGoal `json:"goals"`
	}
	if err := json.Unmarshal(trimmed, &goals); err != nil {
		return nil, malformed("invalid goals", err)
	}

	snap := &store.Snapshot{
		Goals:            make([]models.Goal, 0, len(goals.Goals)),
		Board:            env.Board(),
		Contracts:        env.GovContracts,
		SalesTargets:     models.DefaultSalesTargets(),
		DeveloperMetrics: models.DeveloperMetrics{Targets: models.DefaultDeveloperTargets()},
		Financials:       env.Financials,
	}
	for _, g := range goals.Goals {
		snap.Goals = append(snap.Goals, g.sanitize(now))
	}
	if snap.Contracts == nil {
		snap.Contracts = []models.GovContractItem{}
	}
	for i := range snap.Contracts {
		normalizeContract(&snap.Contracts[i], now)
	}
	if env.SalesTargets != nil {
		snap.SalesTargets = *env.SalesTargets
	}
	if env.DeveloperMetrics != nil {
		snap.DeveloperMetrics = *env.DeveloperMetrics
	}
	if snap.DeveloperMetrics.Developers == nil {
		snap.DeveloperMetrics.Developers = []models.Developer{}
	}
	if snap.DeveloperMetrics.Projects == nil {
		snap.DeveloperMetrics.Projects = []models.ProjectRecord{}
	}
	if snap.Financials == nil {
		snap.Financials = map[string]models.FinancialData{}
	}
	return snap, nil
}
