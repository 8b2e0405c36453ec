// ABOUTME: JSON export envelope holding every stored collection verbatim
// ABOUTME: Each export carries a ULID and timestamp so files sort and dedupe
package export

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/harperreed/bizdash/models"
	"github.com/harperreed/bizdash/pipeline"
	"github.com/harperreed/bizdash/store"
	"github.com/oklog/ulid/v2"
)

// FormatVersion is bumped when the envelope layout changes.
const FormatVersion = 1

// Envelope is the on-disk shape of a full export. Field names match the
// store's collection keys so an export reads like a dump of the store.
type Envelope struct {
	ExportID         string                          `json:"exportId"`
	ExportedAt       time.Time                       `json:"exportedAt"`
	Version          int                             `json:"version"`
	Goals            []models.Goal                   `json:"goals"`
	LeadsPipeline    []models.LeadItem               `json:"leadsPipeline"`
	SalesPipeline    []models.PipelineItem           `json:"salesPipeline"`
	ActiveClients    []models.PipelineItem           `json:"activeClients"`
	LostDeals        []models.PipelineItem           `json:"lostDeals"`
	FormerClients    []models.PipelineItem           `json:"formerClients"`
	GovContracts     []models.GovContractItem        `json:"govContracts"`
	SalesTargets     *models.SalesTargets            `json:"salesTargets,omitempty"`
	DeveloperMetrics *models.DeveloperMetrics        `json:"developerMetrics,omitempty"`
	Financials       map[string]models.FinancialData `json:"financials"`
}

// NewExportID returns a ULID stamped with now.
func NewExportID(now time.Time) string {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(now.UnixNano())), 0)
	return ulid.MustNew(ulid.Timestamp(now), entropy).String()
}

// NewEnvelope copies a snapshot into an export envelope.
func NewEnvelope(snap *store.Snapshot, now time.Time) Envelope {
	targets := snap.SalesTargets
	dm := snap.DeveloperMetrics
	env := Envelope{
		ExportID:         NewExportID(now),
		ExportedAt:       now.UTC(),
		Version:          FormatVersion,
		Goals:            orEmpty(snap.Goals),
		LeadsPipeline:    orEmpty(snap.Board.Leads),
		SalesPipeline:    orEmpty(snap.Board.Sales),
		ActiveClients:    orEmpty(snap.Board.Active),
		LostDeals:        orEmpty(snap.Board.Lost),
		FormerClients:    orEmpty(snap.Board.Former),
		GovContracts:     orEmpty(snap.Contracts),
		SalesTargets:     &targets,
		DeveloperMetrics: &dm,
		Financials:       snap.Financials,
	}
	if env.Financials == nil {
		env.Financials = map[string]models.FinancialData{}
	}
	return env
}

// Board reassembles the pipeline collections.
func (e Envelope) Board() pipeline.Board {
	return pipeline.Board{
		Leads:  orEmpty(e.LeadsPipeline),
		Sales:  orEmpty(e.SalesPipeline),
		Active: orEmpty(e.ActiveClients),
		Lost:   orEmpty(e.LostDeals),
		Former: orEmpty(e.FormerClients),
	}
}

// JSON renders the snapshot as an indented export document.
func JSON(snap *store.Snapshot, now time.Time) ([]byte, error) {
	if snap == nil {
		return nil, fmt.Errorf("nothing to export")
	}
	data, err := json.MarshalIndent(NewEnvelope(snap, now), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}
	return data, nil
}

// FileName is the suggested name for an export written at now.
func FileName(now time.Time, ext string) string {
	return fmt.Sprintf("bizdash-export-%s.%s", now.Format("2006-01-02"), ext)
}

func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
