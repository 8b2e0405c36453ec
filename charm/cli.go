// ABOUTME: CLI commands for Charm KV sync operations
// ABOUTME: SSH-key auth through charm; link, status, now, auto, unlink and wipe

package charm

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// SyncLinkCommand links this device to a Charm account by performing a first sync.
func SyncLinkCommand(args []string) error {
	fs := flag.NewFlagSet("sync link", flag.ExitOnError)
	_ = fs.Parse(args)

	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	fmt.Printf("Linking bizdash to Charm Cloud (%s) using your SSH key...\n", cfg.Host)

	c, err := GetClient()
	if err != nil {
		return fmt.Errorf("failed to initialize client: %w", err)
	}
	if err := c.Sync(); err != nil {
		return fmt.Errorf("link failed: %w", err)
	}

	if id, err := c.ID(); err != nil {
		fmt.Println("✓ Device linked (ID unavailable)")
	} else {
		fmt.Printf("✓ Linked to account: %s\n", id)
	}
	fmt.Printf("✓ Auto-sync: %v\n", cfg.AutoSync)
	return nil
}

// SyncStatusCommand shows sync configuration and how many records each collection holds.
func SyncStatusCommand(args []string) error {
	fs := flag.NewFlagSet("sync status", flag.ExitOnError)
	_ = fs.Parse(args)

	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	fmt.Println("Charm Sync Status")
	fmt.Println("─────────────────")
	fmt.Printf("Server:    %s\n", cfg.Host)
	fmt.Printf("Auto-sync: %v\n", cfg.AutoSync)

	c, err := GetClient()
	if err != nil {
		fmt.Println("\nStatus: Not connected")
		return nil //nolint:nilerr // not being connected is a valid state
	}

	if id, err := c.ID(); err != nil {
		fmt.Println("\nStatus: Local only (ID unavailable)")
	} else {
		fmt.Println("\nStatus: Connected to Charm Cloud")
		fmt.Printf("ID:        %s\n", id)
	}

	keys, err := c.Keys()
	if err != nil {
		return fmt.Errorf("failed to list keys: %w", err)
	}
	printKeySummary(os.Stdout, keys)
	return nil
}

// printKeySummary lists stored collections, folding financial snapshots into one line.
func printKeySummary(w io.Writer, keys [][]byte) {
	var names []string
	snapshots := 0
	for _, k := range keys {
		name := string(k)
		if strings.HasPrefix(name, "financial_") {
			snapshots++
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintf(w, "\nCollections: %d\n", len(names))
	for _, name := range names {
		fmt.Fprintf(w, "  %s\n", name)
	}
	fmt.Fprintf(w, "Financial snapshots: %d\n", snapshots)
}

// SyncUnlinkCommand explains how to detach this device; charm has no unlink API.
func SyncUnlinkCommand(args []string) error {
	fs := flag.NewFlagSet("sync unlink", flag.ExitOnError)
	_ = fs.Parse(args)

	fmt.Println("To unlink this device from Charm Cloud:")
	fmt.Println("  1. Remove this device's SSH key from your Charm account")
	fmt.Println("  2. Delete local charm data: rm -rf ~/.local/share/charm")
	fmt.Println()
	fmt.Println("Local bizdash data stays in ~/.local/share/bizdash")
	return nil
}

// SyncWipeCommand resets the local KV store. Requires --confirm.
func SyncWipeCommand(args []string) error {
	fs := flag.NewFlagSet("sync wipe", flag.ExitOnError)
	confirm := fs.Bool("confirm", false, "Confirm data wipe")
	_ = fs.Parse(args)

	if !*confirm {
		fmt.Println("WARNING: This deletes every goal, pipeline item, contract and financial report!")
		fmt.Println("To confirm, run:")
		fmt.Println("  bizdash sync wipe --confirm")
		return nil
	}

	c, err := GetClient()
	if err != nil {
		return fmt.Errorf("failed to get client: %w", err)
	}
	if err := c.Reset(); err != nil {
		return fmt.Errorf("failed to reset KV store: %w", err)
	}

	fmt.Println("✓ All dashboard data wiped")
	return nil
}

// SyncNowCommand performs an immediate sync.
func SyncNowCommand(args []string) error {
	fs := flag.NewFlagSet("sync now", flag.ExitOnError)
	verbose := fs.Bool("verbose", false, "Show verbose output")
	_ = fs.Parse(args)

	c, err := GetClient()
	if err != nil {
		return fmt.Errorf("failed to get client: %w", err)
	}
	if *verbose {
		fmt.Println("Syncing with server...")
	}
	if err := c.Sync(); err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}
	fmt.Println("✓ Synced")
	return nil
}

// SetAutoSyncCommand enables or disables auto-sync.
func SetAutoSyncCommand(args []string) error {
	fs := flag.NewFlagSet("sync auto", flag.ExitOnError)
	enable := fs.Bool("enable", false, "Enable auto-sync")
	disable := fs.Bool("disable", false, "Disable auto-sync")
	_ = fs.Parse(args)

	if *enable == *disable {
		fmt.Println("Usage: bizdash sync auto --enable|--disable")
		return nil
	}

	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.SetAutoSync(*enable); err != nil {
		return fmt.Errorf("failed to update auto-sync: %w", err)
	}
	if *enable {
		fmt.Println("✓ Auto-sync enabled")
	} else {
		fmt.Println("✓ Auto-sync disabled")
	}
	return nil
}
