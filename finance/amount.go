// ABOUTME: Currency token normalization for report text
// ABOUTME: Handles $, thousands separators, parenthesized negatives, and K/M/B suffixes
package finance

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// amountToken matches a currency amount as it appears in report text. A
// K/M/B suffix counts only when it ends the word, so "100Balance" stays 100.
const amountToken = `\(?-?\$?\s?-?\d[\d,]*(?:\.\d+)?(?:[KkMmBb]\b)?\)?`

var (
	amountRe = regexp.MustCompile(amountToken)

	stripper = strings.NewReplacer("$", "", ",", "", " ", "", "\t", "", "\u00a0", "")

	multipliers = map[byte]decimal.Decimal{
		'K': decimal.NewFromInt(1_000),
		'M': decimal.NewFromInt(1_000_000),
		'B': decimal.NewFromInt(1_000_000_000),
	}
)

// ParseAmount converts a currency token into a number. Input that does not
// parse yields 0.
func ParseAmount(token string) float64 {
	s := stripper.Replace(strings.TrimSpace(token))
	if s == "" {
		return 0
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
	}
	s = strings.Trim(s, "()")
	if strings.HasPrefix(s, "-") {
		negative = true
		s = s[1:]
	}

	scale := decimal.NewFromInt(1)
	upper := strings.ToUpper(s)
	if i := strings.IndexAny(upper, "KMB"); i >= 0 {
		scale = multipliers[upper[i]]
		s = s[:i] + s[i+1:]
	}

	// decimal accepts exponents; report amounts never carry one.
	if strings.ContainsAny(s, "eE") {
		return 0
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	if negative {
		d = d.Neg()
	}
	return d.Mul(scale).InexactFloat64()
}

// digitsOnly strips everything but 0-9.
func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// looksLikeAccountNumber reports whether a matched token is more likely a
// chart-of-accounts code such as "5120" than a dollar figure.
func looksLikeAccountNumber(token string, value float64) bool {
	return len(digitsOnly(token)) == 4 && value >= 1000 && value < 10000
}
