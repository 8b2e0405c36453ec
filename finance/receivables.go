// ABOUTME: Receivables extraction and aging classification
// ABOUTME: Matches invoice lines and ages them against the report's as-of date
package finance

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/harperreed/bizdash/models"
)

const maxCustomerLength = 200

const dateToken = `\d{1,2}/\d{1,2}/\d{2,4}`

var (
	asOfRe = regexp.MustCompile(`(?i)\bas\s+of\s+([a-z]{3,9})\.?\s+(\d{1,2}),?\s+(\d{4})`)

	invoiceRe = regexp.MustCompile(`(?im)(` + dateToken + `)[ \t]+invoice[ \t]+#?[ \t]*(\S+)[ \t]+([^\n]+?)[ \t]+(` +
		dateToken + `)[ \t]+(` + amountToken + `)[ \t]+(` + amountToken + `)[ \t\r]*$`)

	looseInvoiceRe = regexp.MustCompile(`(?i)(` + dateToken + `)[ \t]+invoice[ \t]+#?[ \t]*(\S+)[ \t]+([^\n]+?)[ \t]+(` +
		dateToken + `)[ \t]+(` + amountToken + `)`)

	months = map[string]time.Month{
		"january": time.January, "february": time.February, "march": time.March,
		"april": time.April, "may": time.May, "june": time.June,
		"july": time.July, "august": time.August, "september": time.September,
		"october": time.October, "november": time.November, "december": time.December,
	}
)

// ReceivablesExtraction is the receivables side of a parsed report.
type ReceivablesExtraction struct {
	Receivables   []models.Receivable
	ReferenceDate models.Date
	Strategy      Strategy
}

// ExtractReceivables finds invoice lines and ages them. The reference date
// comes from an "As of <Month> <Day>, <Year>" phrase, else the period end.
func ExtractReceivables(text string, period models.Period, periodDate models.Date) ReceivablesExtraction {
	ref, ok := findAsOfDate(text)
	if !ok {
		ref = period.End(periodDate)
	}

	result := ReceivablesExtraction{
		Receivables:   []models.Receivable{},
		ReferenceDate: ref,
		Strategy:      StrategyEmpty,
	}

	for _, m := range invoiceRe.FindAllStringSubmatch(text, -1) {
		if r, ok := buildReceivable(m[1], m[2], m[3], m[4], m[6], ref); ok {
			result.Receivables = append(result.Receivables, r)
		}
	}
	if len(result.Receivables) > 0 {
		result.Strategy = StrategyLineScan
		return result
	}

	for _, m := range looseInvoiceRe.FindAllStringSubmatch(text, -1) {
		if len(strings.TrimSpace(m[3])) >= maxCustomerLength {
			continue
		}
		if r, ok := buildReceivable(m[1], m[2], m[3], m[4], m[5], ref); ok {
			result.Receivables = append(result.Receivables, r)
		}
	}
	if len(result.Receivables) > 0 {
		result.Strategy = StrategyFallbackLine
	}
	return result
}

func buildReceivable(invoiceDate, number, customer, dueDate, amount string, ref models.Date) (models.Receivable, bool) {
	invoiced, ok := parseSlashDate(invoiceDate)
	if !ok {
		return models.Receivable{}, false
	}
	due, ok := parseSlashDate(dueDate)
	if !ok {
		return models.Receivable{}, false
	}

	days := DaysOutstanding(ref, due)
	return models.Receivable{
		Client:          strings.TrimSpace(customer),
		InvoiceNumber:   number,
		Amount:          ParseAmount(amount),
		InvoiceDate:     invoiced,
		DueDate:         due,
		DaysOutstanding: days,
		Status:          AgingStatus(days),
	}, true
}

// DaysOutstanding returns whole days past due as of ref, never below zero.
func DaysOutstanding(ref, due models.Date) int {
	days := int(math.Floor(ref.Sub(due.Time).Hours() / 24))
	if days < 0 {
		return 0
	}
	return days
}

// AgingStatus buckets a days-outstanding count.
func AgingStatus(days int) string {
	switch {
	case days <= 30:
		return models.AgingCurrent
	case days <= 60:
		return models.Aging30to60
	case days <= 90:
		return models.Aging60to90
	default:
		return models.Aging90Plus
	}
}

func findAsOfDate(text string) (models.Date, bool) {
	m := asOfRe.FindStringSubmatch(text)
	if m == nil {
		return models.Date{}, false
	}
	month, ok := parseMonth(m[1])
	if !ok {
		return models.Date{}, false
	}
	day, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	return validDate(year, month, day)
}

// parseMonth accepts a full month name or its three-letter abbreviation.
func parseMonth(word string) (time.Month, bool) {
	word = strings.ToLower(word)
	if month, ok := months[word]; ok {
		return month, true
	}
	if len(word) != 3 {
		return 0, false
	}
	for name, month := range months {
		if strings.HasPrefix(name, word) {
			return month, true
		}
	}
	return 0, false
}

// parseSlashDate reads M/D/Y. Two-digit years are taken as 20yy.
func parseSlashDate(s string) (models.Date, bool) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return models.Date{}, false
	}
	month, err1 := strconv.Atoi(parts[0])
	day, err2 := strconv.Atoi(parts[1])
	year, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return models.Date{}, false
	}
	if len(parts[2]) <= 2 {
		year += 2000
	}
	return validDate(year, time.Month(month), day)
}

func validDate(year int, month time.Month, day int) (models.Date, bool) {
	d := models.NewDate(year, month, day)
	if d.Year() != year || d.Month() != month || d.Day() != day {
		return models.Date{}, false
	}
	return d, true
}
