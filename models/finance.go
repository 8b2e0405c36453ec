// ABOUTME: Financial report snapshot persisted per period
// ABOUTME: Defines FinancialData, run rate, receivables, and aging buckets
package models

import "time"

type Period string

const (
	PeriodMonth   Period = "month"
	PeriodQuarter Period = "quarter"
	PeriodYear    Period = "year"
)

// ParsePeriod validates a period name.
func ParsePeriod(s string) (Period, bool) {
	switch Period(s) {
	case PeriodMonth, PeriodQuarter, PeriodYear:
		return Period(s), true
	}
	return "", false
}

// Category names that carry the authoritative aggregate for a report section.
const (
	TotalIncomeCategory   = "Total Income"
	TotalExpensesCategory = "Total Expenses"
)

// Aging buckets for outstanding receivables.
const (
	AgingCurrent = "current"
	Aging30to60  = "30-60"
	Aging60to90  = "60-90"
	Aging90Plus  = "90+"
)

var AgingStatuses = []string{AgingCurrent, Aging30to60, Aging60to90, Aging90Plus}

type Category struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

type Section struct {
	Total      float64    `json:"total"`
	Categories []Category `json:"categories"`
}

type GrossProfit struct {
	Total  float64 `json:"total"`
	Margin float64 `json:"margin"`
}

type RunRate struct {
	Calculated   float64  `json:"calculated"`
	Manual       *float64 `json:"manual,omitempty"`
	DaysInPeriod int      `json:"daysInPeriod"`
}

// Effective returns the manual override when present.
func (r *RunRate) Effective() float64 {
	if r == nil {
		return 0
	}
	if r.Manual != nil {
		return *r.Manual
	}
	return r.Calculated
}

type Receivable struct {
	Client          string  `json:"client"`
	InvoiceNumber   string  `json:"invoiceNumber,omitempty"`
	Amount          float64 `json:"amount"`
	InvoiceDate     Date    `json:"invoiceDate"`
	DueDate         Date    `json:"dueDate"`
	DaysOutstanding int     `json:"daysOutstanding"`
	Status          string  `json:"status"`
}

type FinancialData struct {
	Period      Period       `json:"period"`
	PeriodDate  Date         `json:"periodDate"`
	Income      Section      `json:"income"`
	GrossProfit GrossProfit  `json:"grossProfit"`
	Expenses    Section      `json:"expenses"`
	RunRate     *RunRate     `json:"runRate,omitempty"`
	Receivables []Receivable `json:"receivables"`
	ImportedAt  time.Time    `json:"importedAt"`
}

// ReceivablesTotal sums the outstanding balance of every receivable.
func (f *FinancialData) ReceivablesTotal() float64 {
	var total float64
	for _, r := range f.Receivables {
		total += r.Amount
	}
	return total
}

// AgingBuckets sums receivable balances per aging status.
func (f *FinancialData) AgingBuckets() map[string]float64 {
	buckets := make(map[string]float64, len(AgingStatuses))
	for _, status := range AgingStatuses {
		buckets[status] = 0
	}
	for _, r := range f.Receivables {
		buckets[r.Status] += r.Amount
	}
	return buckets
}

// Start returns the first day of the period containing d.
func (p Period) Start(d Date) Date {
	switch p {
	case PeriodQuarter:
		first := time.Month((int(d.Month())-1)/3*3 + 1)
		return NewDate(d.Year(), first, 1)
	case PeriodYear:
		return NewDate(d.Year(), time.January, 1)
	default:
		return NewDate(d.Year(), d.Month(), 1)
	}
}

// End returns the last calendar day of the period containing d.
func (p Period) End(d Date) Date {
	start := p.Start(d)
	switch p {
	case PeriodQuarter:
		return DateOf(start.AddDate(0, 3, -1))
	case PeriodYear:
		return NewDate(d.Year(), time.December, 31)
	default:
		return DateOf(start.AddDate(0, 1, -1))
	}
}
