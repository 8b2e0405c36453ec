// ABOUTME: Pipeline board aggregate with an explicit stage state machine
// ABOUTME: Every mutation returns a new Board; the receiver is never modified
package pipeline

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/harperreed/bizdash/models"
)

// Stage is the list a pipeline record currently belongs to.
type Stage string

const (
	StageLead             Stage = "lead"
	StageSalesOpportunity Stage = "sales"
	StageActiveClient     Stage = "active"
	StageLostDeal         Stage = "lost"
	StageFormerClient     Stage = "former"
)

// Stages lists every stage in display order.
var Stages = []Stage{StageLead, StageSalesOpportunity, StageActiveClient, StageLostDeal, StageFormerClient}

// ParseStage accepts a stage name, case-insensitively.
func ParseStage(s string) (Stage, error) {
	stage := Stage(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(Stages, stage) {
		return stage, nil
	}
	return "", fmt.Errorf("unknown stage %q (use lead, sales, active, lost, former)", s)
}

func (s Stage) Label() string {
	switch s {
	case StageLead:
		return "Leads"
	case StageSalesOpportunity:
		return "Sales Pipeline"
	case StageActiveClient:
		return "Active Clients"
	case StageLostDeal:
		return "Lost Deals"
	case StageFormerClient:
		return "Former Clients"
	}
	return string(s)
}

var transitions = map[Stage][]Stage{
	StageLead:             {StageSalesOpportunity},
	StageSalesOpportunity: {StageActiveClient, StageLostDeal},
	StageActiveClient:     {StageFormerClient},
	StageLostDeal:         {StageSalesOpportunity},
	StageFormerClient:     {StageActiveClient},
}

// CanTransition reports whether the state machine allows from -> to.
func CanTransition(from, to Stage) bool {
	return slices.Contains(transitions[from], to)
}

// ErrItemNotFound is returned when no record with the given ID is in the source stage.
var ErrItemNotFound = errors.New("pipeline item not found")

// TransitionError is returned for a move the state machine does not allow.
type TransitionError struct {
	From   Stage
	To     Stage
	Reason string
}

func (e *TransitionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("cannot move from %s to %s: %s", e.From, e.To, e.Reason)
	}
	return fmt.Sprintf("cannot move from %s to %s", e.From, e.To)
}

// Board holds every pipeline collection. A deal appears in exactly one of
// Sales, Active, Lost or Former.
type Board struct {
	Leads  []models.LeadItem
	Sales  []models.PipelineItem
	Active []models.PipelineItem
	Lost   []models.PipelineItem
	Former []models.PipelineItem
}

// Items returns the deals in a stage. Leads are not deals and return nil.
func (b Board) Items(stage Stage) []models.PipelineItem {
	switch stage {
	case StageSalesOpportunity:
		return b.Sales
	case StageActiveClient:
		return b.Active
	case StageLostDeal:
		return b.Lost
	case StageFormerClient:
		return b.Former
	}
	return nil
}

func (b Board) withItems(stage Stage, items []models.PipelineItem) Board {
	switch stage {
	case StageSalesOpportunity:
		b.Sales = items
	case StageActiveClient:
		b.Active = items
	case StageLostDeal:
		b.Lost = items
	case StageFormerClient:
		b.Former = items
	}
	return b
}

// Find locates a deal by ID across every deal stage.
func (b Board) Find(id int64) (Stage, models.PipelineItem, bool) {
	for _, stage := range Stages[1:] {
		for _, item := range b.Items(stage) {
			if item.ID == id {
				return stage, item, true
			}
		}
	}
	return "", models.PipelineItem{}, false
}

// FindLead locates a lead by ID.
func (b Board) FindLead(id int64) (models.LeadItem, bool) {
	for _, lead := range b.Leads {
		if lead.ID == id {
			return lead, true
		}
	}
	return models.LeadItem{}, false
}

// AddLead appends a lead, assigning an ID and creation time when missing.
func (b Board) AddLead(lead models.LeadItem, now time.Time) (Board, models.LeadItem) {
	if lead.ID == 0 {
		lead.ID = models.NewID()
	}
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = now
	}
	if lead.Status == "" {
		lead.Status = models.LeadStatusNew
	}
	if lead.Interactions == nil {
		lead.Interactions = []models.Interaction{}
	}
	b.Leads = append(slices.Clone(b.Leads), lead)
	return b, lead
}

// UpdateLead replaces the lead with the same ID.
func (b Board) UpdateLead(lead models.LeadItem) (Board, error) {
	i := slices.IndexFunc(b.Leads, func(l models.LeadItem) bool { return l.ID == lead.ID })
	if i < 0 {
		return b, ErrItemNotFound
	}
	leads := slices.Clone(b.Leads)
	leads[i] = lead
	b.Leads = leads
	return b, nil
}

// AddDeal appends a new sales opportunity.
func (b Board) AddDeal(item models.PipelineItem, now time.Time) (Board, models.PipelineItem) {
	if item.ID == 0 {
		item.ID = models.NewID()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	if item.SalesStage == "" {
		item.SalesStage = models.SalesStageProspecting
	}
	b.Sales = append(slices.Clone(b.Sales), item)
	return b, item
}

// UpdateDeal replaces a deal in place, keeping its stage.
func (b Board) UpdateDeal(item models.PipelineItem) (Board, error) {
	stage, _, ok := b.Find(item.ID)
	if !ok {
		return b, ErrItemNotFound
	}
	items := slices.Clone(b.Items(stage))
	i := slices.IndexFunc(items, func(p models.PipelineItem) bool { return p.ID == item.ID })
	items[i] = item
	return b.withItems(stage, items), nil
}

// Remove deletes a lead or deal from the given stage.
func (b Board) Remove(stage Stage, id int64) (Board, error) {
	if stage == StageLead {
		i := slices.IndexFunc(b.Leads, func(l models.LeadItem) bool { return l.ID == id })
		if i < 0 {
			return b, ErrItemNotFound
		}
		b.Leads = slices.Delete(slices.Clone(b.Leads), i, i+1)
		return b, nil
	}

	items := b.Items(stage)
	i := slices.IndexFunc(items, func(p models.PipelineItem) bool { return p.ID == id })
	if i < 0 {
		return b, ErrItemNotFound
	}
	return b.withItems(stage, slices.Delete(slices.Clone(items), i, i+1)), nil
}

// ConvertLead turns a lead into a sales opportunity. The lead stays on the
// board marked converted so conversion rates can be computed.
func (b Board) ConvertLead(id int64, now time.Time) (Board, models.PipelineItem, error) {
	lead, ok := b.FindLead(id)
	if !ok {
		return b, models.PipelineItem{}, ErrItemNotFound
	}
	if lead.Status == models.LeadStatusConverted {
		return b, models.PipelineItem{}, &TransitionError{From: StageLead, To: StageSalesOpportunity, Reason: "lead already converted"}
	}

	prospect := lead.Prospect
	if lead.Company != "" {
		prospect = lead.Company
	}
	item := models.PipelineItem{
		Prospect:   prospect,
		Amount:     lead.ProjectedOpportunity,
		SalesStage: models.SalesStageProspecting,
		Notes:      lead.Notes.General,
	}

	lead.Status = models.LeadStatusConverted
	next, err := b.UpdateLead(lead)
	if err != nil {
		return b, models.PipelineItem{}, err
	}
	next, item = next.AddDeal(item, now)
	return next, item, nil
}

// Move transfers a deal between stages, stamping the transition date.
func (b Board) Move(id int64, from, to Stage, now time.Time) (Board, models.PipelineItem, error) {
	if from == StageLead && to == StageSalesOpportunity {
		return b.ConvertLead(id, now)
	}
	if !CanTransition(from, to) {
		return b, models.PipelineItem{}, &TransitionError{From: from, To: to}
	}

	source := b.Items(from)
	i := slices.IndexFunc(source, func(p models.PipelineItem) bool { return p.ID == id })
	if i < 0 {
		return b, models.PipelineItem{}, ErrItemNotFound
	}

	item := source[i]
	stamp := now
	switch {
	case from == StageSalesOpportunity && to == StageActiveClient:
		item.StartDate = &stamp
	case from == StageSalesOpportunity && to == StageLostDeal:
		item.LostDate = &stamp
	case from == StageActiveClient && to == StageFormerClient:
		item.EndDate = &stamp
	case from == StageLostDeal && to == StageSalesOpportunity:
		item.LostDate = nil
	case from == StageFormerClient && to == StageActiveClient:
		item.StartDate = &stamp
		item.EndDate = nil
	}

	next := b.withItems(from, slices.Delete(slices.Clone(source), i, i+1))
	next = next.withItems(to, append(slices.Clone(next.Items(to)), item))
	return next, item, nil
}

// Count returns the number of records in a stage.
func (b Board) Count(stage Stage) int {
	if stage == StageLead {
		return len(b.Leads)
	}
	return len(b.Items(stage))
}
