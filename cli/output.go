// ABOUTME: Streams, clock and small formatting helpers shared by CLI commands
// ABOUTME: Tests swap the streams and clock to capture output deterministically
package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/harperreed/bizdash/models"
)

var (
	stdout io.Writer = os.Stdout
	stdin  io.Reader = os.Stdin
	now              = time.Now
)

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
}

func money(v float64) string {
	if v < 0 {
		return fmt.Sprintf("-$%.2f", -v)
	}
	return fmt.Sprintf("$%.2f", v)
}

func parseID(fs *flag.FlagSet, what string) (int64, error) {
	raw := fs.Arg(0)
	if raw == "" {
		return 0, fmt.Errorf("%s ID required", what)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s ID: %s", what, raw)
	}
	return id, nil
}

// resolvePeriod maps --period/--date onto a period and its start date.
func resolvePeriod(period, date string) (models.Period, models.Date, error) {
	p, ok := models.ParsePeriod(period)
	if !ok {
		return "", models.Date{}, fmt.Errorf("invalid period: %s (valid: month, quarter, year)", period)
	}
	d := models.DateOf(now())
	if date != "" {
		parsed, err := models.ParseDate(date)
		if err != nil {
			return "", models.Date{}, fmt.Errorf("invalid date format (use YYYY-MM-DD): %w", err)
		}
		d = parsed
	}
	return p, p.Start(d), nil
}

func formatDate(d *models.Date) string {
	if d == nil || d.IsZero() {
		return "-"
	}
	return d.String()
}

func wasSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
