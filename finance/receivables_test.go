package finance

import (
	"strconv"
	"testing"
	"time"

	"github.com/harperreed/bizdash/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgingStatus(t *testing.T) {
	tests := []struct {
		days int
		want string
	}{
		{0, models.AgingCurrent},
		{30, models.AgingCurrent},
		{31, models.Aging30to60},
		{45, models.Aging30to60},
		{60, models.Aging30to60},
		{61, models.Aging60to90},
		{90, models.Aging60to90},
		{91, models.Aging90Plus},
		{400, models.Aging90Plus},
	}

	for _, tt := range tests {
		t.Run(strconv.Itoa(tt.days), func(t *testing.T) {
			assert.Equal(t, tt.want, AgingStatus(tt.days))
		})
	}
}

func TestExtractReceivables_PrimaryPattern(t *testing.T) {
	text := `A/R Aging Summary
As of March 31, 2024
01/15/2024 Invoice 1001 Acme Corp 02/14/2024 5,000.00 5,000.00
02/01/2024 Invoice 1002 Globex Inc 03/02/2024 2,500.00 1,200.00
12/01/23 Invoice 1003 Initech 12/31/23 900.00 900.00
03/20/2024 Invoice 1004 Umbrella 04/19/2024 700.00 700.00
`
	result := ExtractReceivables(text, models.PeriodMonth, models.NewDate(2024, time.January, 1))

	assert.Equal(t, StrategyLineScan, result.Strategy)
	assert.Equal(t, "2024-03-31", result.ReferenceDate.String())
	require.Len(t, result.Receivables, 4)

	acme := result.Receivables[0]
	assert.Equal(t, "Acme Corp", acme.Client)
	assert.Equal(t, "1001", acme.InvoiceNumber)
	assert.Equal(t, "2024-01-15", acme.InvoiceDate.String())
	assert.Equal(t, 46, acme.DaysOutstanding)
	assert.Equal(t, models.Aging30to60, acme.Status)

	globex := result.Receivables[1]
	assert.InDelta(t, 1200.00, globex.Amount, 1e-9, "balance is the trailing amount")
	assert.Equal(t, 29, globex.DaysOutstanding)
	assert.Equal(t, models.AgingCurrent, globex.Status)

	initech := result.Receivables[2]
	assert.Equal(t, "2023-12-31", initech.DueDate.String())
	assert.Equal(t, 91, initech.DaysOutstanding)
	assert.Equal(t, models.Aging90Plus, initech.Status)

	umbrella := result.Receivables[3]
	assert.Equal(t, 0, umbrella.DaysOutstanding, "not yet due floors at zero")
	assert.Equal(t, models.AgingCurrent, umbrella.Status)
}

func TestExtractReceivables_FallbackPattern(t *testing.T) {
	text := "01/10/2024 Invoice 2001 Hooli 02/09/2024 3,000.00\n"

	result := ExtractReceivables(text, models.PeriodMonth, models.NewDate(2024, time.February, 15))

	assert.Equal(t, StrategyFallbackLine, result.Strategy)
	assert.Equal(t, "2024-02-29", result.ReferenceDate.String())
	require.Len(t, result.Receivables, 1)
	assert.Equal(t, "Hooli", result.Receivables[0].Client)
	assert.InDelta(t, 3000.00, result.Receivables[0].Amount, 1e-9)
	assert.Equal(t, 20, result.Receivables[0].DaysOutstanding)
}

func TestExtractReceivables_AbbreviatedAsOfMonth(t *testing.T) {
	result := ExtractReceivables("Balance as of Jun 5, 2024", models.PeriodYear, models.NewDate(2024, time.January, 1))

	assert.Equal(t, "2024-06-05", result.ReferenceDate.String())
	assert.Equal(t, StrategyEmpty, result.Strategy)
	assert.NotNil(t, result.Receivables)
}

func TestExtractReceivables_PeriodEndReference(t *testing.T) {
	tests := []struct {
		period models.Period
		date   models.Date
		want   string
	}{
		{models.PeriodMonth, models.NewDate(2023, time.February, 10), "2023-02-28"},
		{models.PeriodQuarter, models.NewDate(2024, time.May, 10), "2024-06-30"},
		{models.PeriodQuarter, models.NewDate(2024, time.November, 1), "2024-12-31"},
		{models.PeriodYear, models.NewDate(2024, time.March, 3), "2024-12-31"},
	}

	for _, tt := range tests {
		t.Run(string(tt.period)+"_"+tt.date.String(), func(t *testing.T) {
			result := ExtractReceivables("", tt.period, tt.date)
			assert.Equal(t, tt.want, result.ReferenceDate.String())
		})
	}
}

func TestParseSlashDate(t *testing.T) {
	d, ok := parseSlashDate("3/7/24")
	require.True(t, ok)
	assert.Equal(t, "2024-03-07", d.String())

	_, ok = parseSlashDate("13/45/2024")
	assert.False(t, ok)

	_, ok = parseSlashDate("2/30/2024")
	assert.False(t, ok)
}
