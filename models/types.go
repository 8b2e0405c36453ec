// ABOUTME: Data models for dashboard entities
// ABOUTME: Defines Goal, PipelineItem, LeadItem, GovContractItem and their enums
package models

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

type GoalCategory string

const (
	GoalRevenue  GoalCategory = "Revenue"
	GoalMRR      GoalCategory = "MRR"
	GoalCashFlow GoalCategory = "CashFlow"
	GoalCustom   GoalCategory = "Custom"
)

type Goal struct {
	ID            int64        `json:"id"`
	Name          string       `json:"name"`
	Category      GoalCategory `json:"category"`
	StartingValue float64      `json:"startingValue"`
	CurrentValue  float64      `json:"currentValue"`
	TargetValue   float64      `json:"targetValue"`
	TargetDate    Date         `json:"targetDate"`
	Unit          string       `json:"unit,omitempty"`
	CreatedAt     time.Time    `json:"createdAt"`
}

// Sales stages for items in the sales pipeline.
const (
	SalesStageProspecting   = "prospecting"
	SalesStageQualification = "qualification"
	SalesStageProposal      = "proposal"
	SalesStageNegotiation   = "negotiation"
	SalesStageClosing       = "closing"
)

// SalesStages lists the stages in funnel order.
var SalesStages = []string{
	SalesStageProspecting,
	SalesStageQualification,
	SalesStageProposal,
	SalesStageNegotiation,
	SalesStageClosing,
}

type PaymentType string

const (
	PaymentMRR     PaymentType = "MRR"
	PaymentProject PaymentType = "Project"
	PaymentHybrid  PaymentType = "Hybrid"
)

type PipelineItem struct {
	ID           int64       `json:"id"`
	Prospect     string      `json:"prospect"`
	ProjectName  string      `json:"projectName,omitempty"`
	Amount       float64     `json:"amount"`
	SalesStage   string      `json:"salesStage,omitempty"`
	NextStep     string      `json:"nextStep,omitempty"`
	NextStepDate *Date       `json:"nextStepDate,omitempty"`
	Notes        string      `json:"notes,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
	LostDate     *time.Time  `json:"lostDate,omitempty"`
	EndDate      *time.Time  `json:"endDate,omitempty"`
	StartDate    *time.Time  `json:"startDate,omitempty"`
	PaymentType  PaymentType `json:"paymentType,omitempty"`
	MRRAmount    float64     `json:"mrrAmount,omitempty"`
}

// Lead statuses.
const (
	LeadStatusNew       = "new"
	LeadStatusContacted = "contacted"
	LeadStatusQualified = "qualified"
	LeadStatusConverted = "converted"
	LeadStatusLost      = "lost"
)

// InteractionType constants.
const (
	InteractionMeeting = "meeting"
	InteractionCall    = "call"
	InteractionEmail   = "email"
	InteractionMessage = "message"
	InteractionEvent   = "event"
)

type Interaction struct {
	Type  string `json:"type"`
	Date  Date   `json:"date"`
	Notes string `json:"notes,omitempty"`
}

type LeadNotes struct {
	Solution string `json:"solution,omitempty"`
	Budget   string `json:"budget,omitempty"`
	People   string `json:"people,omitempty"`
	Timing   string `json:"timing,omitempty"`
	General  string `json:"general,omitempty"`
}

type LeadItem struct {
	ID                   int64         `json:"id"`
	Prospect             string        `json:"prospect"`
	Company              string        `json:"company,omitempty"`
	Source               string        `json:"source,omitempty"`
	ProjectedOpportunity float64       `json:"projectedOpportunity"`
	Interactions         []Interaction `json:"interactions"`
	Notes                LeadNotes     `json:"notes"`
	Status               string        `json:"status"`
	CreatedAt            time.Time     `json:"createdAt"`
}

// Contract types.
const (
	ContractFederal   = "Federal"
	ContractState     = "State"
	ContractLocal     = "Local"
	ContractEmergency = "Emergency"
)

// Contract statuses, in the order the markdown export groups them.
const (
	ContractStatusIdentified = "identified"
	ContractStatusReviewing  = "reviewing"
	ContractStatusPreparing  = "preparing"
	ContractStatusSubmitted  = "submitted"
	ContractStatusAwarded    = "awarded"
	ContractStatusLost       = "lost"
	ContractStatusNoBid      = "no_bid"
)

var ContractStatuses = []string{
	ContractStatusIdentified,
	ContractStatusReviewing,
	ContractStatusPreparing,
	ContractStatusSubmitted,
	ContractStatusAwarded,
	ContractStatusLost,
	ContractStatusNoBid,
}

// Contract priorities.
const (
	PriorityCritical = "CRITICAL"
	PriorityHigh     = "HIGH"
	PriorityMedium   = "MEDIUM"
	PriorityLow      = "LOW"
)

type ActionItem struct {
	Description string `json:"description"`
	DueDate     *Date  `json:"dueDate,omitempty"`
	Completed   bool   `json:"completed"`
}

type Document struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	URL     string    `json:"url,omitempty"`
	AddedAt time.Time `json:"addedAt"`
}

type GovContractItem struct {
	ID                int64         `json:"id"`
	OpportunityNumber string        `json:"opportunityNumber"`
	Title             string        `json:"title"`
	Agency            string        `json:"agency,omitempty"`
	Type              string        `json:"type,omitempty"`
	Status            string        `json:"status"`
	Priority          string        `json:"priority,omitempty"`
	CapabilityMatch   float64       `json:"capabilityMatch"`
	EstimatedValue    float64       `json:"estimatedValue"`
	EstimatedValueMax float64       `json:"estimatedValueMax,omitempty"`
	PostedDate        *Date         `json:"postedDate,omitempty"`
	QuestionsDeadline *Date         `json:"questionsDeadline,omitempty"`
	ResponseDeadline  *Date         `json:"responseDeadline,omitempty"`
	AwardDate         *Date         `json:"awardDate,omitempty"`
	ActionItems       []ActionItem  `json:"actionItems"`
	Documents         []Document    `json:"documents"`
	Interactions      []Interaction `json:"interactions"`
	Notes             string        `json:"notes,omitempty"`
	CreatedAt         time.Time     `json:"createdAt"`
}

// NewDocument attaches a freshly identified document reference.
func NewDocument(name, url string) Document {
	return Document{
		ID:      uuid.New(),
		Name:    name,
		URL:     url,
		AddedAt: time.Now(),
	}
}

// OpenActionItems returns the action items that are not completed yet.
func (c *GovContractItem) OpenActionItems() []ActionItem {
	var open []ActionItem
	for _, item := range c.ActionItems {
		if !item.Completed {
			open = append(open, item)
		}
	}
	return open
}

// DaysUntilDeadline reports whole days until the response deadline.
// The second return is false when no deadline is set.
func (c *GovContractItem) DaysUntilDeadline(now time.Time) (int, bool) {
	if c.ResponseDeadline == nil || c.ResponseDeadline.IsZero() {
		return 0, false
	}
	today := DateOf(now)
	return int(c.ResponseDeadline.Sub(today.Time).Hours() / 24), true
}

// DedupKey is the identity used when merging imported contracts.
func (c *GovContractItem) DedupKey() string {
	return c.OpportunityNumber + "\x00" + c.Title
}

var lastID atomic.Int64

// NewID returns a millisecond timestamp identifier, bumped when two calls land
// in the same millisecond.
func NewID() int64 {
	for {
		now := time.Now().UnixMilli()
		last := lastID.Load()
		if now <= last {
			now = last + 1
		}
		if lastID.CompareAndSwap(last, now) {
			return now
		}
	}
}
