package finance

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		token string
		want  float64
	}{
		{"(1,234.56)", -1234.56},
		{"$10K", 10000},
		{"2.5M", 2500000},
		{"1.2b", 1200000000},
		{"", 0},
		{"abc", 0},
		{"-500", -500},
		{"$1,000,000", 1000000},
		{"  $ 42.10 ", 42.10},
		{"(2K)", -2000},
		{"-$75.25", -75.25},
		{"12.5.3", 0},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParseAmount(tt.token), 1e-9)
		})
	}
}

func TestLooksLikeAccountNumber(t *testing.T) {
	assert.True(t, looksLikeAccountNumber("5120", 5120))
	assert.False(t, looksLikeAccountNumber("5,120.00", 5120))
	assert.False(t, looksLikeAccountNumber("512", 512))
	assert.False(t, looksLikeAccountNumber("12000", 12000))
}

func TestAmountTokenSuffix(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Consulting 10K", "10K"},
		{"Revenue (2.5m) net", "(2.5m)"},
		{"Opening 100Balance", "100"},
		{"Units 12 boxes", "12"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, strings.TrimSpace(amountRe.FindString(tt.text)))
		})
	}
}
