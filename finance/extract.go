// ABOUTME: Combined report extraction and the strategy tags each tier reports
// ABOUTME: Extraction never fails; unmatched text yields empty sections
package finance

import "github.com/harperreed/bizdash/models"

// Strategy names the tier that produced an extraction result.
type Strategy string

const (
	StrategyPrimaryTotalLine Strategy = "PrimaryTotalLine"
	StrategyCategorySum      Strategy = "CategorySum"
	StrategyLineScan         Strategy = "LineScan"
	StrategyFallbackLine     Strategy = "FallbackLine"
	StrategyEmpty            Strategy = "Empty"
)

// Extraction holds the three independent record sets parsed from one report.
type Extraction struct {
	Income      IncomeExtraction
	Expenses    ExpenseExtraction
	Receivables ReceivablesExtraction
}

// Extract runs every extractor over the same text.
func Extract(text string, period models.Period, periodDate models.Date) Extraction {
	return Extraction{
		Income:      ExtractIncome(text),
		Expenses:    ExtractExpenses(text),
		Receivables: ExtractReceivables(text, period, periodDate),
	}
}
