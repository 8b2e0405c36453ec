// ABOUTME: Dispatcher for the dash subcommands
// ABOUTME: Maps a subcommand name to its command function
package cli

import (
	"fmt"

	"github.com/harperreed/bizdash/store"
)

type command func(repo *store.Repository, args []string) error

var dashCommands = map[string]command{
	"add-goal":         AddGoalCommand,
	"list-goals":       ListGoalsCommand,
	"update-goal":      UpdateGoalCommand,
	"delete-goal":      DeleteGoalCommand,
	"add-lead":         AddLeadCommand,
	"convert-lead":     ConvertLeadCommand,
	"add-deal":         AddDealCommand,
	"move-deal":        MoveDealCommand,
	"list-pipeline":    ListPipelineCommand,
	"import-report":    ImportReportCommand,
	"show-report":      ShowReportCommand,
	"set-run-rate":     SetRunRateCommand,
	"import-contracts": ImportContractsCommand,
	"list-contracts":   ListContractsCommand,
	"sales-metrics":    SalesMetricsCommand,
	"dev-metrics":      DevMetricsCommand,
	"export":           ExportCommand,
	"replace-import":   ReplaceImportCommand,
}

// DashCommand runs one dash subcommand.
func DashCommand(repo *store.Repository, args []string) error {
	if len(args) == 0 {
		PrintDashUsage()
		return fmt.Errorf("dash requires a subcommand")
	}
	run, ok := dashCommands[args[0]]
	if !ok {
		PrintDashUsage()
		return fmt.Errorf("unknown dash subcommand: %s", args[0])
	}
	return run(repo, args[1:])
}

// PrintDashUsage lists the dash subcommands.
func PrintDashUsage() {
	fmt.Fprint(stdout, `Dash commands:
  add-goal          --name --target --target-date [--category --start --current --unit]
  list-goals        [--category]
  update-goal       --current <value> <id>
  delete-goal       <id>
  add-lead          --prospect [--company --source --projected --notes]
  convert-lead      <id>
  add-deal          --prospect [--project --amount --stage --payment --mrr --next-step --next-step-date]
  move-deal         --from <stage> --to <stage> <id>   (stages: lead, sales, active, lost, former)
  list-pipeline     [--stage]
  import-report     [--file report.pdf] [--period month|quarter|year] [--date YYYY-MM-DD]
  show-report       [--period] [--date]
  set-run-rate      --value <daily> | --clear [--period] [--date]
  import-contracts  [--file contracts.json]
  list-contracts    [--status]
  sales-metrics
  dev-metrics
  export            [--format json|md|html] [--output file | --dir path]
  replace-import    --file export.json --confirm
`)
}
