// ABOUTME: Visualization CLI commands
// ABOUTME: Handles viz dashboard and graph generation commands
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/harperreed/bizdash/store"
	"github.com/harperreed/bizdash/viz"
)

// VizGraphPipelineCommand renders the pipeline stages and their items as a graph.
func VizGraphPipelineCommand(repo *store.Repository, args []string) error {
	fs := flag.NewFlagSet("viz graph pipeline", flag.ExitOnError)
	output := fs.String("output", "", "Output file (default: stdout)")
	format := fs.String("format", "dot", "Output format: dot, svg")
	_ = fs.Parse(args)

	f, err := viz.ParseFormat(*format)
	if err != nil {
		return err
	}

	ctx := context.Background()
	board, err := repo.Board(ctx)
	if err != nil {
		return err
	}

	out, err := viz.GeneratePipelineGraph(ctx, board, f)
	if err != nil {
		return err
	}
	return writeGraph(*output, out)
}

// VizGraphContractsCommand renders contracts grouped by agency as a graph.
func VizGraphContractsCommand(repo *store.Repository, args []string) error {
	fs := flag.NewFlagSet("viz graph contracts", flag.ExitOnError)
	output := fs.String("output", "", "Output file (default: stdout)")
	format := fs.String("format", "dot", "Output format: dot, svg")
	_ = fs.Parse(args)

	f, err := viz.ParseFormat(*format)
	if err != nil {
		return err
	}

	ctx := context.Background()
	contracts, err := repo.Contracts(ctx)
	if err != nil {
		return err
	}

	out, err := viz.GenerateContractGraph(ctx, contracts, f)
	if err != nil {
		return err
	}
	return writeGraph(*output, out)
}

func writeGraph(path, out string) error {
	if path != "" {
		if err := os.WriteFile(path, []byte(out), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		fmt.Fprintf(stdout, "✓ Wrote graph to %s\n", path)
		return nil
	}
	fmt.Fprintln(stdout, out)
	return nil
}

// VizDashboardCommand prints the ASCII business dashboard.
func VizDashboardCommand(repo *store.Repository, args []string) error {
	fs := flag.NewFlagSet("viz dashboard", flag.ExitOnError)
	_ = fs.Parse(args)

	snap, err := repo.LoadAll(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load dashboard data: %w", err)
	}

	fmt.Fprint(stdout, viz.RenderDashboard(viz.GenerateDashboardStats(snap, now())))
	return nil
}
