// ABOUTME: Entry point for the bizdash CLI, TUI, web dashboard and MCP server
// ABOUTME: Loads config, opens the storage backend and routes to a command
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/harperreed/bizdash/charm"
	"github.com/harperreed/bizdash/cli"
	"github.com/harperreed/bizdash/config"
	"github.com/harperreed/bizdash/db"
	"github.com/harperreed/bizdash/logging"
	"github.com/harperreed/bizdash/store"
	"github.com/harperreed/bizdash/tui"
	"github.com/harperreed/bizdash/web"
)

const version = "0.1.0"

func main() {
	// Global flags
	showVersion := flag.Bool("version", false, "Show version and exit")
	configPath := flag.String("config", "", "Config file (default: ~/.config/bizdash/config.yaml)")
	dbPath := flag.String("db-path", "", "SQLite database path (sqlite backend only)")
	backend := flag.String("backend", "", "Storage backend: charm or sqlite")

	_ = flag.CommandLine.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("bizdash version %s\n", version)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	if *backend != "" {
		cfg.Backend = *backend
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Error: %v", err)
	}
	if err := logging.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		log.Fatalf("Error: %v", err)
	}

	command := args[0]
	commandArgs := args[1:]

	// Sync commands manage charm itself and never open the repository.
	if command == "sync" {
		runSync(commandArgs)
		return
	}

	repo, syncer, closeFn, err := openRepository(cfg)
	if err != nil {
		log.Fatalf("Failed to open %s backend: %v", cfg.Backend, err)
	}
	defer closeFn()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch command {
	case "mcp":
		if err := cli.MCPCommand(ctx, repo, version); err != nil {
			log.Fatalf("MCP server failed: %v", err)
		}

	case "dash":
		if err := cli.DashCommand(repo, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}

	case "tui":
		if err := tui.Run(repo, syncer); err != nil {
			log.Fatalf("Error: %v", err)
		}

	case "web":
		fs := flag.NewFlagSet("web", flag.ExitOnError)
		port := fs.Int("port", cfg.Web.Port, "Port to listen on")
		schedule := fs.String("sync-schedule", cfg.Web.SyncSchedule, `Cron schedule for background sync, e.g. "@every 15m"`)
		_ = fs.Parse(commandArgs)

		srv, err := web.NewServer(repo, syncer)
		if err != nil {
			log.Fatalf("Error: %v", err)
		}
		if err := srv.Start(ctx, *port, *schedule); err != nil {
			log.Fatalf("Web server failed: %v", err)
		}

	case "viz":
		runViz(repo, commandArgs)

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

// openRepository opens the configured backend. The syncer is nil unless the
// backend can sync with a remote.
func openRepository(cfg *config.Config) (*store.Repository, tui.Syncer, func(), error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		kv, err := db.OpenKVStore(cfg.DBPath)
		if err != nil {
			return nil, nil, nil, err
		}
		log.Debug("using sqlite backend", "path", cfg.DBPath)
		return store.NewRepository(kv), nil, func() { _ = kv.Close() }, nil
	default:
		client, err := charm.GetClient()
		if err != nil {
			return nil, nil, nil, err
		}
		log.Debug("using charm backend", "host", client.Config().Host)
		return store.NewRepository(client), client, func() {}, nil
	}
}

func runViz(repo *store.Repository, args []string) {
	if len(args) == 0 {
		fmt.Println("Error: viz requires a subcommand")
		printUsage()
		os.Exit(1)
	}

	switch args[0] {
	case "dashboard":
		if err := cli.VizDashboardCommand(repo, args[1:]); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case "graph":
		if len(args) < 2 {
			fmt.Println("Error: viz graph requires a type (pipeline or contracts)")
			printUsage()
			os.Exit(1)
		}
		var err error
		switch args[1] {
		case "pipeline":
			err = cli.VizGraphPipelineCommand(repo, args[2:])
		case "contracts":
			err = cli.VizGraphContractsCommand(repo, args[2:])
		default:
			fmt.Printf("Unknown graph type: %s\n\n", args[1])
			printUsage()
			os.Exit(1)
		}
		if err != nil {
			log.Fatalf("Error: %v", err)
		}
	default:
		fmt.Printf("Unknown viz command: %s\n\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func runSync(args []string) {
	if len(args) == 0 {
		fmt.Println("Error: sync requires a subcommand")
		printUsage()
		os.Exit(1)
	}

	var err error
	switch args[0] {
	case "link":
		err = charm.SyncLinkCommand(args[1:])
	case "status":
		err = charm.SyncStatusCommand(args[1:])
	case "now":
		err = charm.SyncNowCommand(args[1:])
	case "auto":
		err = charm.SetAutoSyncCommand(args[1:])
	case "unlink":
		err = charm.SyncUnlinkCommand(args[1:])
	case "wipe":
		err = charm.SyncWipeCommand(args[1:])
	default:
		fmt.Printf("Unknown sync command: %s\n\n", args[0])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func printUsage() {
	fmt.Printf(`bizdash v%s - Business dashboard for goals, pipeline, contracts and financials

USAGE:
  bizdash [global flags] <command> [subcommand] [flags]

GLOBAL FLAGS:
  --version              Show version and exit
  --config <path>        Config file (default: ~/.config/bizdash/config.yaml)
  --backend <name>       Storage backend: charm (default) or sqlite
  --db-path <path>       SQLite database path (default: ~/.local/share/bizdash/bizdash.db)

COMMANDS:
  dash                   Manage goals, pipeline, reports and contracts
  tui                    Interactive terminal dashboard
  web                    Serve the web dashboard
    --port <n>             Port (default: 8080)
    --sync-schedule <s>    Cron schedule for background sync
  viz                    Visualization commands
  mcp                    Start MCP server for Claude Desktop
  sync                   Charm Cloud sync (link, status, now, auto, unlink, wipe)

VIZ COMMANDS:
  bizdash viz dashboard            Print the ASCII dashboard
  bizdash viz graph pipeline       Pipeline stages and deals
  bizdash viz graph contracts      Contracts grouped by agency
    --format <dot|svg>               Output format (default: dot)
    --output <file>                  Output file (default: stdout)

EXAMPLES:
  # Add a revenue goal
  bizdash dash add-goal --name "ARR" --category Revenue --target 1000000 --target-date 2025-12-31

  # Import this month's profit and loss PDF
  bizdash dash import-report --file march-pnl.pdf --period month --date 2025-03-01

  # Move a deal to active clients
  bizdash dash move-deal --from sales --to active 1718900000000

  # Export everything as Markdown
  bizdash dash export --format md --dir ~/backups

`, version)
	cli.PrintDashUsage()
}
