// ABOUTME: Migration utility for moving dashboard data between storage backends
// ABOUTME: Copies every key from charm to sqlite or back, with dry-run and backup

package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/bizdash/charm"
	"github.com/harperreed/bizdash/config"
	"github.com/harperreed/bizdash/db"
	"github.com/harperreed/bizdash/store"
)

func main() {
	from := flag.String("from", config.BackendCharm, "Source backend: charm or sqlite")
	to := flag.String("to", config.BackendSQLite, "Destination backend: charm or sqlite")
	dbPath := flag.String("db", "", "SQLite database path (default from config)")
	dryRun := flag.Bool("dry-run", false, "Show what would happen without making changes")
	backup := flag.Bool("backup", true, "Back up the sqlite file before writing to it")
	overwrite := flag.Bool("overwrite", false, "Replace keys that already exist in the destination")
	flag.Parse()

	if *from == *to {
		log.Fatal("Error: -from and -to must differ")
	}

	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	path := *dbPath
	if path == "" {
		path = cfg.DBPath
	}

	if *backup && !*dryRun && *to == config.BackendSQLite {
		if err := backupFile(path, time.Now()); err != nil {
			log.Fatalf("Backup failed: %v", err)
		}
	}

	src, err := openBackend(*from, path)
	if err != nil {
		log.Fatalf("Failed to open %s: %v", *from, err)
	}
	dst, err := openBackend(*to, path)
	if err != nil {
		log.Fatalf("Failed to open %s: %v", *to, err)
	}

	res, err := migrate(src, dst, *dryRun, *overwrite)
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	verb := "Copied"
	if *dryRun {
		verb = "Would copy"
	}
	fmt.Printf("✓ %s %d keys from %s to %s (%d already present, skipped)\n", verb, res.Copied, *from, *to, res.Skipped)
}

func openBackend(name, path string) (store.KV, error) {
	switch name {
	case config.BackendCharm:
		return charm.GetClient()
	case config.BackendSQLite:
		return db.OpenKVStore(path)
	}
	return nil, fmt.Errorf("unknown backend %q (use %s or %s)", name, config.BackendCharm, config.BackendSQLite)
}

type result struct {
	Copied  int
	Skipped int
}

// migrate copies every key in src to dst. Existing destination keys are kept
// unless overwrite is set.
func migrate(src, dst store.KV, dryRun, overwrite bool) (result, error) {
	var res result

	keys, err := src.Keys()
	if err != nil {
		return res, fmt.Errorf("failed to list source keys: %w", err)
	}

	existing := map[string]bool{}
	if !overwrite {
		dstKeys, err := dst.Keys()
		if err != nil {
			return res, fmt.Errorf("failed to list destination keys: %w", err)
		}
		for _, k := range dstKeys {
			existing[string(k)] = true
		}
	}

	for _, key := range keys {
		if existing[string(key)] {
			log.Info("skipping existing key", "key", string(key))
			res.Skipped++
			continue
		}
		if dryRun {
			log.Info("would copy", "key", string(key))
			res.Copied++
			continue
		}

		value, err := src.Get(key)
		if err != nil {
			return res, fmt.Errorf("failed to read %s: %w", key, err)
		}
		if err := dst.Set(key, value); err != nil {
			return res, fmt.Errorf("failed to write %s: %w", key, err)
		}
		log.Debug("copied", "key", string(key), "bytes", len(value))
		res.Copied++
	}
	return res, nil
}

// backupFile copies path next to itself with a timestamp suffix. A missing
// file needs no backup.
func backupFile(path string, now time.Time) error {
	input, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read database: %w", err)
	}

	backupPath := fmt.Sprintf("%s.backup.%s", path, now.Format("20060102-150405"))
	if err := os.WriteFile(backupPath, input, 0644); err != nil {
		return fmt.Errorf("failed to create backup: %w", err)
	}
	log.Info("backup created", "path", backupPath)
	return nil
}
