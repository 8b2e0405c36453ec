// ABOUTME: Income extraction from financial report text
// ABOUTME: Tries the Total Income line first, then coded and loose category lines
package finance

import (
	"regexp"
	"strings"

	"github.com/harperreed/bizdash/models"
)

const (
	minTotalAmount    = 1000
	minCategoryAmount = 100
	maxLooseFiller    = 40
)

var (
	totalIncomeRe = regexp.MustCompile(`(?i)total\s+income`)

	incomeCategories = `consulting|software|education|training|services|products|other`

	codedCategoryRe = regexp.MustCompile(`(?im)^[ \t]*(?:\d{4}[ \t]*[·:.\-]?[ \t]*)?(` + incomeCategories +
		`)\b(?:[ \t]+(?:revenue|income|sales|fees))?[ \t]*[:\-]?[ \t]*(` + amountToken + `)`)

	looseCategoryRe = regexp.MustCompile(`(?i)\b(` + incomeCategories + `)\b([^\d\n$()\-]{0,40}?)(` + amountToken + `)`)

	expenseWordRe = regexp.MustCompile(`(?i)expense|cost`)

	leadingCodeRe = regexp.MustCompile(`^[ \t]*\d{4}\b`)
)

// IncomeExtraction is the income side of a parsed report.
type IncomeExtraction struct {
	Categories []models.Category
	Total      float64
	Strategy   Strategy
}

// ExtractIncome pulls income categories and a total out of report text.
// An explicit Total Income line is authoritative; otherwise the total is the
// sum of the categories found.
func ExtractIncome(text string) IncomeExtraction {
	total, hasTotal := findTotalLine(text, totalIncomeRe)
	categories := scanIncomeCategories(text)

	switch {
	case hasTotal:
		categories = append(categories, models.Category{Name: models.TotalIncomeCategory, Amount: total})
		return IncomeExtraction{Categories: categories, Total: total, Strategy: StrategyPrimaryTotalLine}
	case len(categories) > 0:
		sum := sumCategories(categories)
		categories = append(categories, models.Category{Name: models.TotalIncomeCategory, Amount: sum})
		return IncomeExtraction{Categories: categories, Total: sum, Strategy: StrategyCategorySum}
	default:
		return IncomeExtraction{Categories: []models.Category{}, Strategy: StrategyEmpty}
	}
}

// findTotalLine returns the first acceptable amount following a total label.
// Candidates come from the rest of the label's line, or from the next line
// when the label stands alone.
func findTotalLine(text string, label *regexp.Regexp) (float64, bool) {
	for _, loc := range label.FindAllStringIndex(text, -1) {
		rest := text[loc[1]:]
		line, next := splitLine(rest)
		tokens := amountRe.FindAllString(line, -1)
		if len(tokens) == 0 {
			nextLine, _ := splitLine(next)
			tokens = amountRe.FindAllString(nextLine, -1)
		}
		for _, token := range tokens {
			value := ParseAmount(token)
			if looksLikeAccountNumber(token, value) {
				continue
			}
			if value >= minTotalAmount {
				return value, true
			}
		}
	}
	return 0, false
}

func splitLine(s string) (line, rest string) {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i], s[i+1:]
	}
	return s, ""
}

func scanIncomeCategories(text string) []models.Category {
	var found []models.Category
	seenNames := make(map[string]bool)
	seenAmounts := make(map[float64]bool)

	add := func(raw string, amount float64) {
		name := normalizeCategoryName(raw)
		key := strings.ToLower(name)
		if seenNames[key] {
			return
		}
		seenNames[key] = true
		seenAmounts[amount] = true
		found = append(found, models.Category{Name: name, Amount: amount})
	}

	for _, m := range codedCategoryRe.FindAllStringSubmatch(text, -1) {
		amount := ParseAmount(m[2])
		if amount < minCategoryAmount {
			continue
		}
		add(m[1], amount)
	}

	// Coded lines belong to the tier above; a code followed by some other
	// label is an account outside the income categories.
	for _, line := range strings.Split(text, "\n") {
		if leadingCodeRe.MatchString(line) {
			continue
		}
		for _, m := range looseCategoryRe.FindAllStringSubmatch(line, -1) {
			if expenseWordRe.MatchString(m[2]) || len(m[2]) > maxLooseFiller {
				continue
			}
			amount := ParseAmount(m[3])
			if amount < minCategoryAmount || seenAmounts[amount] {
				continue
			}
			if seenNames[strings.ToLower(normalizeCategoryName(m[1]))] {
				continue
			}
			add(m[1], amount)
		}
	}

	return found
}

// normalizeCategoryName capitalizes a category word and folds the
// Education and Training synonyms together.
func normalizeCategoryName(raw string) string {
	lower := strings.ToLower(strings.TrimSpace(raw))
	if lower == "education" || lower == "training" {
		return "Education/Training"
	}
	if lower == "" {
		return ""
	}
	return strings.ToUpper(lower[:1]) + lower[1:]
}

func sumCategories(categories []models.Category) float64 {
	var sum float64
	for _, c := range categories {
		sum += c.Amount
	}
	return sum
}
