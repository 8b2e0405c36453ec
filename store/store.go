// ABOUTME: Typed repository over a byte-oriented key-value store
// ABOUTME: Named collections are JSON values; missing keys read as empty defaults
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dgraph-io/badger/v3"
	"github.com/harperreed/bizdash/models"
	"github.com/harperreed/bizdash/pipeline"
)

// KV is the get/set-by-name collaborator every backend implements.
type KV interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
	Delete(key []byte) error
	Keys() ([][]byte, error)
}

// ErrNotFound is returned by backends for a key that was never written.
var ErrNotFound = errors.New("key not found")

// Collection keys.
const (
	KeyGoals            = "goals"
	KeyLeadsPipeline    = "leadsPipeline"
	KeySalesPipeline    = "salesPipeline"
	KeyActiveClients    = "activeClients"
	KeyLostDeals        = "lostDeals"
	KeyFormerClients    = "formerClients"
	KeyGovContracts     = "govContracts"
	KeySalesTargets     = "salesTargets"
	KeyDeveloperMetrics = "developerMetrics"

	financialPrefix = "financial_"
)

// FinancialKey names the snapshot for a period. The date is normalized to the
// period's first day so any date inside the period maps to the same key.
func FinancialKey(period models.Period, date models.Date) string {
	return fmt.Sprintf("%s%s_%s", financialPrefix, period, period.Start(date).String())
}

// ParseFinancialKey splits a financial key back into its period and date.
func ParseFinancialKey(key string) (models.Period, models.Date, bool) {
	rest, ok := strings.CutPrefix(key, financialPrefix)
	if !ok {
		return "", models.Date{}, false
	}
	name, dateStr, ok := strings.Cut(rest, "_")
	if !ok {
		return "", models.Date{}, false
	}
	period, ok := models.ParsePeriod(name)
	if !ok {
		return "", models.Date{}, false
	}
	date, err := models.ParseDate(dateStr)
	if err != nil || date.IsZero() {
		return "", models.Date{}, false
	}
	return period, date, true
}

// IsNotFound reports whether err means the key does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, badger.ErrKeyNotFound)
}

// Repository reads and writes the dashboard's named collections.
type Repository struct {
	kv KV
}

func NewRepository(kv KV) *Repository {
	return &Repository{kv: kv}
}

// KV exposes the underlying store.
func (r *Repository) KV() KV {
	return r.kv
}

// load decodes key into dst. A missing key leaves dst untouched and reports false.
func (r *Repository) load(ctx context.Context, key string, dst any) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	data, err := r.kv.Get([]byte(key))
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load %s: %w", key, err)
	}
	if len(data) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

func (r *Repository) save(ctx context.Context, key string, value any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := r.kv.Set([]byte(key), data); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

func (r *Repository) Goals(ctx context.Context) ([]models.Goal, error) {
	goals := []models.Goal{}
	if _, err := r.load(ctx, KeyGoals, &goals); err != nil {
		return []models.Goal{}, err
	}
	return nonNil(goals), nil
}

func (r *Repository) SaveGoals(ctx context.Context, goals []models.Goal) error {
	return r.save(ctx, KeyGoals, nonNil(goals))
}

func (r *Repository) Leads(ctx context.Context) ([]models.LeadItem, error) {
	leads := []models.LeadItem{}
	if _, err := r.load(ctx, KeyLeadsPipeline, &leads); err != nil {
		return []models.LeadItem{}, err
	}
	return nonNil(leads), nil
}

func (r *Repository) SaveLeads(ctx context.Context, leads []models.LeadItem) error {
	return r.save(ctx, KeyLeadsPipeline, nonNil(leads))
}

// Deals returns the items in one deal stage.
func (r *Repository) Deals(ctx context.Context, stage pipeline.Stage) ([]models.PipelineItem, error) {
	key, err := stageKey(stage)
	if err != nil {
		return []models.PipelineItem{}, err
	}
	items := []models.PipelineItem{}
	if _, err := r.load(ctx, key, &items); err != nil {
		return []models.PipelineItem{}, err
	}
	return nonNil(items), nil
}

func (r *Repository) SaveDeals(ctx context.Context, stage pipeline.Stage, items []models.PipelineItem) error {
	key, err := stageKey(stage)
	if err != nil {
		return err
	}
	return r.save(ctx, key, nonNil(items))
}

func stageKey(stage pipeline.Stage) (string, error) {
	switch stage {
	case pipeline.StageLead:
		return KeyLeadsPipeline, nil
	case pipeline.StageSalesOpportunity:
		return KeySalesPipeline, nil
	case pipeline.StageActiveClient:
		return KeyActiveClients, nil
	case pipeline.StageLostDeal:
		return KeyLostDeals, nil
	case pipeline.StageFormerClient:
		return KeyFormerClients, nil
	}
	return "", fmt.Errorf("unknown stage %q", stage)
}

// Board loads every pipeline collection.
func (r *Repository) Board(ctx context.Context) (pipeline.Board, error) {
	var b pipeline.Board
	var err error
	if b.Leads, err = r.Leads(ctx); err != nil {
		return b, err
	}
	if b.Sales, err = r.Deals(ctx, pipeline.StageSalesOpportunity); err != nil {
		return b, err
	}
	if b.Active, err = r.Deals(ctx, pipeline.StageActiveClient); err != nil {
		return b, err
	}
	if b.Lost, err = r.Deals(ctx, pipeline.StageLostDeal); err != nil {
		return b, err
	}
	if b.Former, err = r.Deals(ctx, pipeline.StageFormerClient); err != nil {
		return b, err
	}
	return b, nil
}

// SaveBoard writes every pipeline collection, stopping at the first failure.
func (r *Repository) SaveBoard(ctx context.Context, b pipeline.Board) error {
	if err := r.SaveLeads(ctx, b.Leads); err != nil {
		return err
	}
	for _, stage := range pipeline.Stages[1:] {
		if err := r.SaveDeals(ctx, stage, b.Items(stage)); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) Contracts(ctx context.Context) ([]models.GovContractItem, error) {
	contracts := []models.GovContractItem{}
	if _, err := r.load(ctx, KeyGovContracts, &contracts); err != nil {
		return []models.GovContractItem{}, err
	}
	return nonNil(contracts), nil
}

func (r *Repository) SaveContracts(ctx context.Context, contracts []models.GovContractItem) error {
	return r.save(ctx, KeyGovContracts, nonNil(contracts))
}

// SalesTargets returns the stored targets, or the defaults when none are saved.
func (r *Repository) SalesTargets(ctx context.Context) (models.SalesTargets, error) {
	targets := models.DefaultSalesTargets()
	if _, err := r.load(ctx, KeySalesTargets, &targets); err != nil {
		return models.DefaultSalesTargets(), err
	}
	return targets, nil
}

func (r *Repository) SaveSalesTargets(ctx context.Context, targets models.SalesTargets) error {
	return r.save(ctx, KeySalesTargets, targets)
}

// DeveloperMetrics returns the stored records with default targets when absent.
func (r *Repository) DeveloperMetrics(ctx context.Context) (models.DeveloperMetrics, error) {
	dm := emptyDeveloperMetrics()
	if _, err := r.load(ctx, KeyDeveloperMetrics, &dm); err != nil {
		return emptyDeveloperMetrics(), err
	}
	dm.Developers = nonNil(dm.Developers)
	dm.Projects = nonNil(dm.Projects)
	return dm, nil
}

func (r *Repository) SaveDeveloperMetrics(ctx context.Context, dm models.DeveloperMetrics) error {
	return r.save(ctx, KeyDeveloperMetrics, dm)
}

func emptyDeveloperMetrics() models.DeveloperMetrics {
	return models.DeveloperMetrics{
		Developers: []models.Developer{},
		Projects:   []models.ProjectRecord{},
		Targets:    models.DefaultDeveloperTargets(),
	}
}

// Financial returns the snapshot for the period containing date, or nil.
func (r *Repository) Financial(ctx context.Context, period models.Period, date models.Date) (*models.FinancialData, error) {
	var data models.FinancialData
	found, err := r.load(ctx, FinancialKey(period, date), &data)
	if err != nil || !found {
		return nil, err
	}
	return &data, nil
}

// SaveFinancial stores a snapshot under its normalized period key.
func (r *Repository) SaveFinancial(ctx context.Context, data models.FinancialData) error {
	data.PeriodDate = data.Period.Start(data.PeriodDate)
	return r.save(ctx, FinancialKey(data.Period, data.PeriodDate), data)
}

// FinancialKeys lists stored snapshot keys, newest period first.
func (r *Repository) FinancialKeys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	keys, err := r.kv.Keys()
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}

	var out []string
	for _, k := range keys {
		if _, _, ok := ParseFinancialKey(string(k)); ok {
			out = append(out, string(k))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		_, di, _ := ParseFinancialKey(out[i])
		_, dj, _ := ParseFinancialKey(out[j])
		if !di.Equal(dj.Time) {
			return di.After(dj.Time)
		}
		return out[i] < out[j]
	})
	return out, nil
}

// DeleteFinancial removes a stored snapshot by its raw key.
func (r *Repository) DeleteFinancial(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := r.kv.Delete([]byte(key)); err != nil && !IsNotFound(err) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// FinancialByKey loads a snapshot by its raw key.
func (r *Repository) FinancialByKey(ctx context.Context, key string) (*models.FinancialData, error) {
	var data models.FinancialData
	found, err := r.load(ctx, key, &data)
	if err != nil || !found {
		return nil, err
	}
	return &data, nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
