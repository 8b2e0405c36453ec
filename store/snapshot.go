// ABOUTME: All-settled parallel load of every collection into one snapshot
// ABOUTME: A failing collection falls back to its empty default and is recorded
package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/harperreed/bizdash/models"
	"github.com/harperreed/bizdash/pipeline"
	"golang.org/x/sync/errgroup"
)

// Snapshot is every stored collection at one point in time.
type Snapshot struct {
	Goals            []models.Goal
	Board            pipeline.Board
	Contracts        []models.GovContractItem
	SalesTargets     models.SalesTargets
	DeveloperMetrics models.DeveloperMetrics
	Financials       map[string]models.FinancialData

	// LoadErrors maps a collection key to the error that replaced it with its default.
	LoadErrors map[string]error
}

// LoadAll reads every collection concurrently. One collection failing never
// stops the others; the returned error is non-nil only when ctx is done.
func (r *Repository) LoadAll(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{
		Goals:            []models.Goal{},
		Board:            emptyBoard(),
		Contracts:        []models.GovContractItem{},
		SalesTargets:     models.DefaultSalesTargets(),
		DeveloperMetrics: emptyDeveloperMetrics(),
		Financials:       map[string]models.FinancialData{},
		LoadErrors:       map[string]error{},
	}

	var mu sync.Mutex
	record := func(key string, err error) {
		log.Warn("using empty default for collection", "key", key, "err", err)
		mu.Lock()
		snap.LoadErrors[key] = err
		mu.Unlock()
	}

	var g errgroup.Group
	settle := func(key string, fn func() error) {
		g.Go(func() error {
			if err := fn(); err != nil {
				record(key, err)
			}
			return nil
		})
	}

	stageItems := make([][]models.PipelineItem, len(pipeline.Stages))

	settle(KeyGoals, func() (err error) {
		snap.Goals, err = r.Goals(ctx)
		return err
	})
	settle(KeyLeadsPipeline, func() (err error) {
		snap.Board.Leads, err = r.Leads(ctx)
		return err
	})
	for i, stage := range pipeline.Stages[1:] {
		key, _ := stageKey(stage)
		settle(key, func() (err error) {
			stageItems[i+1], err = r.Deals(ctx, stage)
			return err
		})
	}
	settle(KeyGovContracts, func() (err error) {
		snap.Contracts, err = r.Contracts(ctx)
		return err
	})
	settle(KeySalesTargets, func() (err error) {
		snap.SalesTargets, err = r.SalesTargets(ctx)
		return err
	})
	settle(KeyDeveloperMetrics, func() (err error) {
		snap.DeveloperMetrics, err = r.DeveloperMetrics(ctx)
		return err
	})
	settle(financialPrefix+"*", func() (err error) {
		snap.Financials, err = r.loadFinancials(ctx)
		return err
	})

	_ = g.Wait()
	for i, stage := range pipeline.Stages[1:] {
		snap.Board = setStage(snap.Board, stage, stageItems[i+1])
	}
	if err := ctx.Err(); err != nil {
		return snap, err
	}
	return snap, nil
}

// loadFinancials reads every snapshot it can, returning the last error seen.
func (r *Repository) loadFinancials(ctx context.Context) (map[string]models.FinancialData, error) {
	out := map[string]models.FinancialData{}
	keys, err := r.FinancialKeys(ctx)
	if err != nil {
		return out, err
	}
	var lastErr error
	for _, key := range keys {
		data, err := r.FinancialByKey(ctx, key)
		if err != nil {
			lastErr = err
			continue
		}
		if data != nil {
			out[key] = *data
		}
	}
	return out, lastErr
}

// ReplaceAll overwrites every collection with the snapshot's contents.
// Writes stop at the first failure; collections already written stay written.
func (r *Repository) ReplaceAll(ctx context.Context, snap *Snapshot) error {
	if snap == nil {
		return fmt.Errorf("nothing to import")
	}
	if err := r.SaveGoals(ctx, snap.Goals); err != nil {
		return err
	}
	if err := r.SaveBoard(ctx, snap.Board); err != nil {
		return err
	}
	if err := r.SaveContracts(ctx, snap.Contracts); err != nil {
		return err
	}
	if err := r.SaveSalesTargets(ctx, snap.SalesTargets); err != nil {
		return err
	}
	if err := r.SaveDeveloperMetrics(ctx, snap.DeveloperMetrics); err != nil {
		return err
	}
	keep := make(map[string]bool, len(snap.Financials))
	for _, data := range snap.Financials {
		if err := r.SaveFinancial(ctx, data); err != nil {
			return err
		}
		keep[FinancialKey(data.Period, data.PeriodDate)] = true
	}

	// Periods absent from the import are dropped.
	stored, err := r.FinancialKeys(ctx)
	if err != nil {
		return err
	}
	for _, key := range stored {
		if keep[key] {
			continue
		}
		if err := r.DeleteFinancial(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

func emptyBoard() pipeline.Board {
	return pipeline.Board{
		Leads:  []models.LeadItem{},
		Sales:  []models.PipelineItem{},
		Active: []models.PipelineItem{},
		Lost:   []models.PipelineItem{},
		Former: []models.PipelineItem{},
	}
}

func setStage(b pipeline.Board, stage pipeline.Stage, items []models.PipelineItem) pipeline.Board {
	switch stage {
	case pipeline.StageSalesOpportunity:
		b.Sales = items
	case pipeline.StageActiveClient:
		b.Active = items
	case pipeline.StageLostDeal:
		b.Lost = items
	case pipeline.StageFormerClient:
		b.Former = items
	}
	return b
}
