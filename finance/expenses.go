// ABOUTME: Expense extraction from financial report text
// ABOUTME: Uses the Total Expenses line when present, else scans expense lines
package finance

import (
	"regexp"
	"strings"

	"github.com/harperreed/bizdash/models"
)

const maxExpenseLabel = 50

var (
	totalExpensesRe  = regexp.MustCompile(`(?i)total\s+expenses?`)
	expenseKeywordRe = regexp.MustCompile(`(?i)expense|cost|operating`)
	aggregateWordRe  = regexp.MustCompile(`(?i)\b(?:total|gross|net)\b`)
)

// ExpenseExtraction is the expense side of a parsed report.
type ExpenseExtraction struct {
	Categories []models.Category
	Total      float64
	Strategy   Strategy
}

// ExtractExpenses pulls expense categories out of report text. When an
// explicit Total Expenses line is found it is the only category returned.
func ExtractExpenses(text string) ExpenseExtraction {
	if total, ok := findTotalLine(text, totalExpensesRe); ok {
		return ExpenseExtraction{
			Categories: []models.Category{{Name: models.TotalExpensesCategory, Amount: total}},
			Total:      total,
			Strategy:   StrategyPrimaryTotalLine,
		}
	}

	categories := scanExpenseLines(text)
	if len(categories) == 0 {
		return ExpenseExtraction{Categories: []models.Category{}, Strategy: StrategyEmpty}
	}
	return ExpenseExtraction{
		Categories: categories,
		Total:      sumCategories(categories),
		Strategy:   StrategyLineScan,
	}
}

func scanExpenseLines(text string) []models.Category {
	var categories []models.Category
	for _, line := range strings.Split(text, "\n") {
		if !expenseKeywordRe.MatchString(line) || aggregateWordRe.MatchString(line) {
			continue
		}

		locs := amountRe.FindAllStringIndex(line, -1)
		if len(locs) == 0 {
			continue
		}
		last := locs[len(locs)-1]
		token := line[last[0]:last[1]]
		amount := ParseAmount(token)
		// A lone account code is a section header, not an amount.
		if len(locs) == 1 && looksLikeAccountNumber(token, amount) && !strings.Contains(token, ".") {
			continue
		}

		label := strings.Trim(line[:last[0]]+line[last[1]:], " \t\r:-·.$")
		if label == "" || len(label) > maxExpenseLabel {
			continue
		}
		categories = append(categories, models.Category{Name: label, Amount: amount})
	}
	return categories
}
