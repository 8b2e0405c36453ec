// ABOUTME: Builds a FinancialData snapshot from extracted report sections
// ABOUTME: Computes totals, gross profit and margin, and the expense run rate
package finance

import (
	"fmt"
	"time"

	"github.com/harperreed/bizdash/models"
)

// Fixed period lengths used by the run rate. Months use their real length.
const (
	quarterDays = 90
	yearDays    = 365
)

// DaysInPeriod returns the run-rate divisor for a period.
func DaysInPeriod(period models.Period, periodDate models.Date) int {
	switch period {
	case models.PeriodQuarter:
		return quarterDays
	case models.PeriodYear:
		return yearDays
	default:
		return models.PeriodMonth.End(periodDate).Day()
	}
}

// BuildReport extracts and summarizes report text in one step.
func BuildReport(text string, period models.Period, periodDate models.Date, prior *models.FinancialData) models.FinancialData {
	return Summarize(Extract(text, period, periodDate), period, periodDate, prior)
}

// Summarize combines an extraction into a snapshot. A manual run rate on the
// prior snapshot for the same period is carried forward.
func Summarize(ex Extraction, period models.Period, periodDate models.Date, prior *models.FinancialData) models.FinancialData {
	incomeTotal := sectionTotal(ex.Income.Categories, models.TotalIncomeCategory, false)
	expensesTotal := sectionTotal(ex.Expenses.Categories, models.TotalExpensesCategory, true)
	grossProfit := incomeTotal - expensesTotal

	days := DaysInPeriod(period, periodDate)
	runRate := &models.RunRate{
		Calculated:   expensesTotal / float64(days),
		DaysInPeriod: days,
	}
	if prior != nil && prior.RunRate != nil && prior.RunRate.Manual != nil {
		manual := *prior.RunRate.Manual
		runRate.Manual = &manual
	}

	receivables := ex.Receivables.Receivables
	if receivables == nil {
		receivables = []models.Receivable{}
	}

	return models.FinancialData{
		Period:      period,
		PeriodDate:  period.Start(periodDate),
		Income:      models.Section{Total: incomeTotal, Categories: nonNil(ex.Income.Categories)},
		GrossProfit: models.GrossProfit{Total: grossProfit, Margin: grossMargin(incomeTotal, expensesTotal, grossProfit)},
		Expenses:    models.Section{Total: expensesTotal, Categories: nonNil(ex.Expenses.Categories)},
		RunRate:     runRate,
		Receivables: receivables,
		ImportedAt:  time.Now(),
	}
}

// sectionTotal prefers the named total entry over the sum of the others.
// With preferLarger, both are computed and the larger one wins.
func sectionTotal(categories []models.Category, totalName string, preferLarger bool) float64 {
	var explicit, sum float64
	hasExplicit, hasItems := false, false
	for _, c := range categories {
		if c.Name == totalName {
			explicit = c.Amount
			hasExplicit = true
			continue
		}
		sum += c.Amount
		hasItems = true
	}

	switch {
	case hasExplicit && hasItems && preferLarger:
		return max(explicit, sum)
	case hasExplicit:
		return explicit
	default:
		return sum
	}
}

func grossMargin(income, expenses, grossProfit float64) float64 {
	switch {
	case income > 0:
		return grossProfit * 100 / income
	case income < 0 && grossProfit < 0 && expenses > 0:
		return grossProfit * 100 / expenses
	default:
		return 0
	}
}

func nonNil(categories []models.Category) []models.Category {
	if categories == nil {
		return []models.Category{}
	}
	return categories
}

// SetManualRunRate sets or, with a nil value, clears the run-rate override.
// The calculated rate is left alone.
func SetManualRunRate(data *models.FinancialData, value *float64) error {
	if data == nil {
		return fmt.Errorf("no financial data to update")
	}
	if data.RunRate == nil {
		days := DaysInPeriod(data.Period, data.PeriodDate)
		data.RunRate = &models.RunRate{
			Calculated:   data.Expenses.Total / float64(days),
			DaysInPeriod: days,
		}
	}
	if value == nil {
		data.RunRate.Manual = nil
		return nil
	}
	manual := *value
	data.RunRate.Manual = &manual
	return nil
}
