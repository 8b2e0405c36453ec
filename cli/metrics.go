// ABOUTME: Metrics CLI commands
// ABOUTME: Prints the sales and developer status panels against stored targets
package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/harperreed/bizdash/metrics"
	"github.com/harperreed/bizdash/store"
)

// SalesMetricsCommand prints lead, pipeline and client metrics with their status.
func SalesMetricsCommand(repo *store.Repository, args []string) error {
	fs := flag.NewFlagSet("sales-metrics", flag.ExitOnError)
	_ = fs.Parse(args)

	ctx := context.Background()
	board, err := repo.Board(ctx)
	if err != nil {
		return fmt.Errorf("failed to load pipeline: %w", err)
	}
	targets, err := repo.SalesTargets(ctx)
	if err != nil {
		return fmt.Errorf("failed to load sales targets: %w", err)
	}

	at := now()
	lead := metrics.CalculateLeadMetrics(board.Leads, at)
	sales := metrics.CalculateSalesMetrics(board, at)
	client := metrics.CalculateClientMetrics(board)

	fmt.Fprintf(stdout, "Open deals: %d (%s)\n", sales.OpenDeals, money(sales.PipelineValue))
	fmt.Fprintf(stdout, "Won/Lost: %d/%d\n\n", sales.WonDeals, sales.LostDeals)
	return printPanel(metrics.SalesStatusPanel(lead, sales, client, targets))
}

// DevMetricsCommand prints developer productivity figures with their status.
func DevMetricsCommand(repo *store.Repository, args []string) error {
	fs := flag.NewFlagSet("dev-metrics", flag.ExitOnError)
	_ = fs.Parse(args)

	dm, err := repo.DeveloperMetrics(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load developer metrics: %w", err)
	}

	summary := metrics.AggregateDevelopers(dm)
	fmt.Fprintf(stdout, "Developers: %d  Projects: %d\n\n", summary.Developers, summary.Projects)
	return printPanel(metrics.DeveloperStatusPanel(summary, dm.Targets))
}

func printPanel(rows []metrics.NamedStatus) error {
	w := newTable()
	fmt.Fprintln(w, "METRIC\tCURRENT\tTARGET\tSTATUS\t% OF TARGET")
	fmt.Fprintln(w, "------\t-------\t------\t------\t-----------")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%s\t%.0f%%\n",
			r.Name, r.Current, r.Target, r.Status.Status, r.Status.Percentage)
	}
	return w.Flush()
}
