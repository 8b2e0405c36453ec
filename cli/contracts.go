// ABOUTME: Government contract CLI commands
// ABOUTME: Additive JSON import with duplicate suppression and a deadline listing
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/harperreed/bizdash/importer"
	"github.com/harperreed/bizdash/models"
	"github.com/harperreed/bizdash/store"
	"golang.org/x/term"
)

// ImportContractsCommand merges contracts from --file or stdin into the store.
func ImportContractsCommand(repo *store.Repository, args []string) error {
	fs := flag.NewFlagSet("import-contracts", flag.ExitOnError)
	file := fs.String("file", "", "JSON file (default: read stdin)")
	_ = fs.Parse(args)

	data, err := readJSONInput(*file)
	if err != nil {
		return err
	}

	incoming, err := importer.ParseContracts(data, now())
	if err != nil {
		return err
	}

	ctx := context.Background()
	existing, err := repo.Contracts(ctx)
	if err != nil {
		return fmt.Errorf("failed to load contracts: %w", err)
	}
	merged, res := importer.MergeContracts(existing, incoming)
	if res.Added > 0 {
		if err := repo.SaveContracts(ctx, merged); err != nil {
			return err
		}
	}

	fmt.Fprintf(stdout, "✓ Imported %d contracts (%d duplicates skipped, %d total)\n", res.Added, res.Skipped, len(merged))
	return nil
}

func readJSONInput(path string) ([]byte, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		return data, nil
	}
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return nil, fmt.Errorf("--file is required when stdin is a terminal")
	}
	return io.ReadAll(stdin)
}

// ListContractsCommand lists contracts ordered by response deadline.
func ListContractsCommand(repo *store.Repository, args []string) error {
	fs := flag.NewFlagSet("list-contracts", flag.ExitOnError)
	status := fs.String("status", "", "Filter by status")
	_ = fs.Parse(args)

	contracts, err := repo.Contracts(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load contracts: %w", err)
	}

	var shown []models.GovContractItem
	for _, c := range contracts {
		if *status == "" || c.Status == *status {
			shown = append(shown, c)
		}
	}
	if len(shown) == 0 {
		fmt.Fprintln(stdout, "No contracts found")
		return nil
	}

	at := now()
	sort.SliceStable(shown, func(i, j int) bool {
		di, oki := shown[i].DaysUntilDeadline(at)
		dj, okj := shown[j].DaysUntilDeadline(at)
		if oki != okj {
			return oki
		}
		return di < dj
	})

	w := newTable()
	fmt.Fprintln(w, "OPPORTUNITY\tTITLE\tAGENCY\tSTATUS\tPRIORITY\tVALUE\tDUE\tDAYS\tOPEN ACTIONS")
	fmt.Fprintln(w, "-----------\t-----\t------\t------\t--------\t-----\t---\t----\t------------")
	for _, c := range shown {
		days := "-"
		if n, ok := c.DaysUntilDeadline(at); ok {
			days = strconv.Itoa(n)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%d\n",
			c.OpportunityNumber, c.Title, c.Agency, c.Status, c.Priority,
			money(c.EstimatedValue), formatDate(c.ResponseDeadline), days, len(c.OpenActionItems()))
	}
	return w.Flush()
}
