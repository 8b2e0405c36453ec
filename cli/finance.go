// ABOUTME: Financial report CLI commands
// ABOUTME: Imports report text from a file or stdin, shows reports, overrides run rate
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/harperreed/bizdash/finance"
	"github.com/harperreed/bizdash/models"
	"github.com/harperreed/bizdash/pdftext"
	"github.com/harperreed/bizdash/store"
	"golang.org/x/term"
)

// ImportReportCommand extracts a financial report from --file or piped stdin.
func ImportReportCommand(repo *store.Repository, args []string) error {
	fs := flag.NewFlagSet("import-report", flag.ExitOnError)
	file := fs.String("file", "", "PDF or text report (default: read stdin)")
	period := fs.String("period", string(models.PeriodMonth), "Report period: month, quarter, year")
	date := fs.String("date", "", "Any date inside the period, YYYY-MM-DD (default today)")
	_ = fs.Parse(args)

	text, err := readReportText(*file)
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("report is empty")
	}

	p, d, err := resolvePeriod(*period, *date)
	if err != nil {
		return err
	}

	ctx := context.Background()
	prior, err := repo.Financial(ctx, p, d)
	if err != nil {
		return fmt.Errorf("failed to load existing report: %w", err)
	}

	ex := finance.Extract(text, p, d)
	data := finance.Summarize(ex, p, d, prior)
	if err := repo.SaveFinancial(ctx, data); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "✓ Imported %s report for %s\n", p, d)
	fmt.Fprintf(stdout, "  Income: %s (%s)\n", money(data.Income.Total), ex.Income.Strategy)
	fmt.Fprintf(stdout, "  Expenses: %s (%s)\n", money(data.Expenses.Total), ex.Expenses.Strategy)
	fmt.Fprintf(stdout, "  Receivables: %d (%s)\n", len(data.Receivables), ex.Receivables.Strategy)
	return nil
}

func readReportText(path string) (string, error) {
	if path != "" {
		return pdftext.ExtractFile(path)
	}
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "", fmt.Errorf("--file is required when stdin is a terminal")
	}
	return pdftext.ReadAll(stdin)
}

// ShowReportCommand prints a stored financial report.
func ShowReportCommand(repo *store.Repository, args []string) error {
	fs := flag.NewFlagSet("show-report", flag.ExitOnError)
	period := fs.String("period", string(models.PeriodMonth), "Report period: month, quarter, year")
	date := fs.String("date", "", "Any date inside the period, YYYY-MM-DD (default today)")
	_ = fs.Parse(args)

	data, err := loadReport(repo, *period, *date)
	if err != nil {
		return err
	}
	printReport(*data)
	return nil
}

// SetRunRateCommand sets or clears the manual daily run rate of a report.
func SetRunRateCommand(repo *store.Repository, args []string) error {
	fs := flag.NewFlagSet("set-run-rate", flag.ExitOnError)
	period := fs.String("period", string(models.PeriodMonth), "Report period: month, quarter, year")
	date := fs.String("date", "", "Any date inside the period, YYYY-MM-DD (default today)")
	value := fs.Float64("value", 0, "Daily run rate override")
	clearOverride := fs.Bool("clear", false, "Remove the override")
	_ = fs.Parse(args)

	if *clearOverride == wasSet(fs, "value") {
		return fmt.Errorf("exactly one of --value or --clear is required")
	}

	data, err := loadReport(repo, *period, *date)
	if err != nil {
		return err
	}

	var override *float64
	if !*clearOverride {
		override = value
	}
	if err := finance.SetManualRunRate(data, override); err != nil {
		return err
	}
	if err := repo.SaveFinancial(context.Background(), *data); err != nil {
		return err
	}

	if *clearOverride {
		fmt.Fprintf(stdout, "✓ Cleared run rate override (calculated: %s/day)\n", money(data.RunRate.Calculated))
	} else {
		fmt.Fprintf(stdout, "✓ Run rate set to %s/day\n", money(*override))
	}
	return nil
}

func loadReport(repo *store.Repository, period, date string) (*models.FinancialData, error) {
	p, d, err := resolvePeriod(period, date)
	if err != nil {
		return nil, err
	}
	data, err := repo.Financial(context.Background(), p, d)
	if err != nil {
		return nil, fmt.Errorf("failed to load report: %w", err)
	}
	if data == nil {
		return nil, fmt.Errorf("no financial report for %s %s", p, d)
	}
	return data, nil
}

func printReport(d models.FinancialData) {
	fmt.Fprintf(stdout, "Financial Report: %s %s\n", d.Period, d.PeriodDate)
	fmt.Fprintln(stdout, strings.Repeat("─", 40))

	w := newTable()
	fmt.Fprintf(w, "Income\t%s\n", money(d.Income.Total))
	for _, c := range d.Income.Categories {
		fmt.Fprintf(w, "  %s\t%s\n", c.Name, money(c.Amount))
	}
	fmt.Fprintf(w, "Expenses\t%s\n", money(d.Expenses.Total))
	for _, c := range d.Expenses.Categories {
		fmt.Fprintf(w, "  %s\t%s\n", c.Name, money(c.Amount))
	}
	fmt.Fprintf(w, "Gross Profit\t%s\n", money(d.GrossProfit.Total))
	fmt.Fprintf(w, "Gross Margin\t%.1f%%\n", d.GrossProfit.Margin)

	runRate := money(d.RunRate.Effective()) + "/day"
	if d.RunRate != nil && d.RunRate.Manual != nil {
		runRate += " (manual)"
	}
	fmt.Fprintf(w, "Daily Run Rate\t%s\n", runRate)
	fmt.Fprintf(w, "Receivables\t%s\n", money(d.ReceivablesTotal()))
	buckets := d.AgingBuckets()
	for _, status := range models.AgingStatuses {
		fmt.Fprintf(w, "  %s\t%s\n", status, money(buckets[status]))
	}
	_ = w.Flush()
}
