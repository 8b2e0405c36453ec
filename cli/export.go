// ABOUTME: Export and replace-import CLI commands
// ABOUTME: Writes JSON, Markdown or HTML snapshots and restores a JSON export wholesale
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/harperreed/bizdash/export"
	"github.com/harperreed/bizdash/importer"
	"github.com/harperreed/bizdash/store"
)

// ExportCommand writes every collection as JSON, Markdown or HTML.
func ExportCommand(repo *store.Repository, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	format := fs.String("format", "json", "Output format: json, md, html")
	output := fs.String("output", "", "Output file (default: stdout)")
	dir := fs.String("dir", "", "Write a timestamped file into this directory")
	_ = fs.Parse(args)

	snap, err := repo.LoadAll(context.Background())
	if err != nil {
		return err
	}
	if len(snap.LoadErrors) > 0 {
		keys := make([]string, 0, len(snap.LoadErrors))
		for k := range snap.LoadErrors {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		log.Warn("exporting with empty defaults", "collections", keys)
	}

	at := now()
	var data []byte
	switch *format {
	case "json":
		if data, err = export.JSON(snap, at); err != nil {
			return err
		}
	case "md":
		data = []byte(export.Markdown(snap, at))
	case "html":
		html, err := export.MarkdownHTML(export.Markdown(snap, at))
		if err != nil {
			return err
		}
		data = []byte(html)
	default:
		return fmt.Errorf("invalid format: %s (valid: json, md, html)", *format)
	}

	path := *output
	if *dir != "" {
		path = filepath.Join(*dir, export.FileName(at, *format))
	}
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Fprintf(stdout, "✓ Exported to %s\n", path)
	return nil
}

// ReplaceImportCommand overwrites every collection with a JSON export. Requires --confirm.
func ReplaceImportCommand(repo *store.Repository, args []string) error {
	fs := flag.NewFlagSet("replace-import", flag.ExitOnError)
	file := fs.String("file", "", "JSON export file (required)")
	confirm := fs.Bool("confirm", false, "Confirm replacing all data")
	_ = fs.Parse(args)

	if *file == "" {
		return fmt.Errorf("--file is required")
	}
	data, err := os.ReadFile(*file)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", *file, err)
	}

	snap, err := importer.ParseReplace(data, now())
	if err != nil {
		return err
	}

	if !*confirm {
		fmt.Fprintln(stdout, "WARNING: This replaces every goal, pipeline item, contract and report!")
		fmt.Fprintf(stdout, "Import would load %d goals, %d contracts, %d financial reports.\n",
			len(snap.Goals), len(snap.Contracts), len(snap.Financials))
		fmt.Fprintln(stdout, "To confirm, run:")
		fmt.Fprintf(stdout, "  bizdash dash replace-import --confirm --file %s\n", *file)
		return nil
	}

	if err := repo.ReplaceAll(context.Background(), snap); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "✓ Replaced all data from %s\n", *file)
	return nil
}
