// ABOUTME: Tests for the dash CLI commands against a badger-backed repository
// ABOUTME: Swaps stdout, stdin and the clock to assert on printed output
package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/bizdash/charm"
	"github.com/harperreed/bizdash/models"
	"github.com/harperreed/bizdash/pipeline"
	"github.com/harperreed/bizdash/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, time.April, 15, 10, 0, 0, 0, time.UTC)

// setupTest returns a fresh repository and a buffer capturing stdout.
func setupTest(t *testing.T) (*store.Repository, *bytes.Buffer) {
	t.Helper()
	client, cleanup := charm.NewTestClient(t)
	t.Cleanup(cleanup)

	out := &bytes.Buffer{}
	oldOut, oldIn, oldNow := stdout, stdin, now
	stdout = out
	now = func() time.Time { return fixedNow }
	t.Cleanup(func() {
		stdout, stdin, now = oldOut, oldIn, oldNow
	})
	return store.NewRepository(client), out
}

func pipe(s string) {
	stdin = strings.NewReader(s)
}

func id(v int64) string {
	return strconv.FormatInt(v, 10)
}

func TestGoalCommands(t *testing.T) {
	repo, out := setupTest(t)
	ctx := context.Background()

	err := AddGoalCommand(repo, []string{"--name", "ARR", "--category", "Revenue",
		"--current", "250", "--target", "1000", "--target-date", "2024-12-31"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "✓ Created goal: ARR")

	goals, err := repo.Goals(ctx)
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, models.GoalRevenue, goals[0].Category)
	assert.Equal(t, fixedNow, goals[0].CreatedAt)
	goalID := id(goals[0].ID)

	out.Reset()
	require.NoError(t, ListGoalsCommand(repo, nil))
	assert.Contains(t, out.String(), "ARR")
	assert.Contains(t, out.String(), "25.0%")

	out.Reset()
	require.NoError(t, UpdateGoalCommand(repo, []string{"--current", "500", goalID}))
	assert.Contains(t, out.String(), "✓ Updated goal: ARR (50.0% complete)")

	out.Reset()
	require.NoError(t, ListGoalsCommand(repo, []string{"--category", "MRR"}))
	assert.Contains(t, out.String(), "No goals found")

	out.Reset()
	require.NoError(t, DeleteGoalCommand(repo, []string{goalID}))
	assert.Contains(t, out.String(), "✓ Deleted goal: ARR")

	goals, err = repo.Goals(ctx)
	require.NoError(t, err)
	assert.Empty(t, goals)
}

func TestAddGoalCommand_Validation(t *testing.T) {
	repo, _ := setupTest(t)

	err := AddGoalCommand(repo, []string{"--name", "ARR"})
	require.Error(t, err)
	assert.Equal(t, "missing required fields: targetValue, targetDate", err.Error())

	err = AddGoalCommand(repo, []string{"--name", "ARR", "--target", "0", "--target-date", "2024-12-31"})
	assert.NoError(t, err, "an explicit zero target is still a target")

	err = AddGoalCommand(repo, []string{"--name", "ARR", "--category", "Vibes", "--target", "1", "--target-date", "2024-12-31"})
	assert.ErrorContains(t, err, "invalid category: Vibes")
}

func TestUpdateGoalCommand_Errors(t *testing.T) {
	repo, _ := setupTest(t)

	assert.EqualError(t, UpdateGoalCommand(repo, []string{"--current", "5"}), "goal ID required")
	assert.EqualError(t, UpdateGoalCommand(repo, []string{"--current", "5", "abc"}), "invalid goal ID: abc")
	assert.EqualError(t, UpdateGoalCommand(repo, []string{"42"}), "--current is required")
	assert.EqualError(t, UpdateGoalCommand(repo, []string{"--current", "5", "42"}), "goal not found: 42")
}

func TestPipelineCommands(t *testing.T) {
	repo, out := setupTest(t)
	ctx := context.Background()

	require.NoError(t, AddLeadCommand(repo, []string{"--prospect", "Dana", "--company", "Initech", "--projected", "8000"}))
	assert.Contains(t, out.String(), "✓ Created lead: Dana")

	board, err := repo.Board(ctx)
	require.NoError(t, err)
	require.Len(t, board.Leads, 1)

	out.Reset()
	require.NoError(t, ConvertLeadCommand(repo, []string{id(board.Leads[0].ID)}))
	assert.Contains(t, out.String(), "✓ Converted lead to opportunity: Initech")

	board, err = repo.Board(ctx)
	require.NoError(t, err)
	require.Len(t, board.Sales, 1)
	assert.Equal(t, models.LeadStatusConverted, board.Leads[0].Status)
	assert.Equal(t, 8000.0, board.Sales[0].Amount)

	out.Reset()
	require.NoError(t, MoveDealCommand(repo, []string{"--from", "sales", "--to", "active", id(board.Sales[0].ID)}))
	assert.Contains(t, out.String(), "✓ Moved Initech: Sales Pipeline → Active Clients")

	out.Reset()
	require.NoError(t, ListPipelineCommand(repo, []string{"--stage", "active"}))
	assert.Contains(t, out.String(), "Active Clients (1)")
	assert.Contains(t, out.String(), "$8000.00")
	assert.NotContains(t, out.String(), "Leads (")
}

func TestMoveDealCommand_RejectsInvalidTransition(t *testing.T) {
	repo, _ := setupTest(t)

	require.NoError(t, AddDealCommand(repo, []string{"--prospect", "Globex", "--amount", "5000"}))
	board, err := repo.Board(context.Background())
	require.NoError(t, err)
	require.Len(t, board.Sales, 1)

	err = MoveDealCommand(repo, []string{"--from", "sales", "--to", "former", id(board.Sales[0].ID)})
	var tErr *pipeline.TransitionError
	assert.ErrorAs(t, err, &tErr)

	err = MoveDealCommand(repo, []string{"--from", "sideways", "--to", "active", id(board.Sales[0].ID)})
	assert.Error(t, err)
}

func TestAddDealCommand(t *testing.T) {
	repo, out := setupTest(t)

	require.NoError(t, AddDealCommand(repo, []string{"--prospect", "Globex", "--project", "Portal",
		"--amount", "25000", "--stage", "proposal", "--next-step", "Send SOW", "--next-step-date", "2024-04-20"}))
	assert.Contains(t, out.String(), "✓ Created deal: Globex")
	assert.Contains(t, out.String(), "Amount: $25000.00")
	assert.Contains(t, out.String(), "Stage: proposal")

	board, err := repo.Board(context.Background())
	require.NoError(t, err)
	require.Len(t, board.Sales, 1)
	require.NotNil(t, board.Sales[0].NextStepDate)
	assert.Equal(t, "2024-04-20", board.Sales[0].NextStepDate.String())

	assert.EqualError(t, AddDealCommand(repo, []string{"--prospect", "X", "--stage", "dreaming"}), "invalid stage: dreaming")
	assert.EqualError(t, AddDealCommand(repo, nil), "--prospect is required")
}

const sampleReport = `Profit and Loss
March 2024
Total Income 34,040.00
Total Expenses 20,000.00
`

func TestReportCommands(t *testing.T) {
	repo, out := setupTest(t)

	pipe(sampleReport)
	require.NoError(t, ImportReportCommand(repo, []string{"--period", "month", "--date", "2024-03-18"}))
	assert.Contains(t, out.String(), "✓ Imported month report for 2024-03-01")
	assert.Contains(t, out.String(), "Income: $34040.00")

	out.Reset()
	require.NoError(t, ShowReportCommand(repo, []string{"--date", "2024-03-05"}))
	assert.Contains(t, out.String(), "Financial Report: month 2024-03-01")
	assert.Contains(t, out.String(), "Gross Margin")

	out.Reset()
	require.NoError(t, SetRunRateCommand(repo, []string{"--date", "2024-03-05", "--value", "500"}))
	assert.Contains(t, out.String(), "✓ Run rate set to $500.00/day")

	out.Reset()
	require.NoError(t, ShowReportCommand(repo, []string{"--date", "2024-03-05"}))
	assert.Contains(t, out.String(), "$500.00/day (manual)")

	// Re-importing keeps the manual override.
	pipe(sampleReport)
	require.NoError(t, ImportReportCommand(repo, []string{"--date", "2024-03-31"}))
	data, err := repo.Financial(context.Background(), models.PeriodMonth, models.NewDate(2024, time.March, 1))
	require.NoError(t, err)
	require.NotNil(t, data)
	require.NotNil(t, data.RunRate.Manual)
	assert.Equal(t, 500.0, *data.RunRate.Manual)

	out.Reset()
	require.NoError(t, SetRunRateCommand(repo, []string{"--date", "2024-03-05", "--clear"}))
	assert.Contains(t, out.String(), "✓ Cleared run rate override")
}

func TestReportCommands_Errors(t *testing.T) {
	repo, _ := setupTest(t)

	pipe("   \n")
	assert.EqualError(t, ImportReportCommand(repo, nil), "report is empty")

	pipe(sampleReport)
	assert.ErrorContains(t, ImportReportCommand(repo, []string{"--period", "week"}), "invalid period: week")

	assert.EqualError(t, ShowReportCommand(repo, []string{"--date", "2024-02-10"}), "no financial report for month 2024-02-01")
	assert.EqualError(t, SetRunRateCommand(repo, nil), "exactly one of --value or --clear is required")
	assert.EqualError(t, SetRunRateCommand(repo, []string{"--value", "1", "--clear"}), "exactly one of --value or --clear is required")
}

func TestImportReportCommand_FromFile(t *testing.T) {
	repo, out := setupTest(t)

	path := filepath.Join(t.TempDir(), "march.txt")
	require.NoError(t, os.WriteFile(path, []byte(sampleReport), 0644))

	require.NoError(t, ImportReportCommand(repo, []string{"--file", path, "--date", "2024-03-01"}))
	assert.Contains(t, out.String(), "✓ Imported month report for 2024-03-01")
}

const contractsJSON = `[
  {"opportunityNumber": "W91-1", "title": "Cloud", "agency": "Army", "status": "preparing",
   "responseDeadline": "2024-04-25", "actionItems": [{"description": "Draft volume 1"}]},
  {"opportunityNumber": "GS-9", "title": "Help desk", "agency": "GSA"}
]`

func TestContractCommands(t *testing.T) {
	repo, out := setupTest(t)

	pipe(contractsJSON)
	require.NoError(t, ImportContractsCommand(repo, nil))
	assert.Contains(t, out.String(), "✓ Imported 2 contracts (0 duplicates skipped, 2 total)")

	out.Reset()
	pipe(contractsJSON)
	require.NoError(t, ImportContractsCommand(repo, nil))
	assert.Contains(t, out.String(), "✓ Imported 0 contracts (2 duplicates skipped, 2 total)")

	out.Reset()
	require.NoError(t, ListContractsCommand(repo, nil))
	listing := out.String()
	assert.Contains(t, listing, "2024-04-25")
	assert.Less(t, strings.Index(listing, "W91-1"), strings.Index(listing, "GS-9"), "deadlines sort first")

	out.Reset()
	require.NoError(t, ListContractsCommand(repo, []string{"--status", "submitted"}))
	assert.Contains(t, out.String(), "No contracts found")

	pipe(`{"items": []}`)
	assert.Error(t, ImportContractsCommand(repo, nil))
}

func TestMetricsCommands(t *testing.T) {
	repo, out := setupTest(t)

	require.NoError(t, SalesMetricsCommand(repo, nil))
	assert.Contains(t, out.String(), "Open deals: 0 ($0.00)")
	assert.Contains(t, out.String(), "METRIC")

	out.Reset()
	require.NoError(t, DevMetricsCommand(repo, nil))
	assert.Contains(t, out.String(), "Developers: 0  Projects: 0")
}

func TestExportAndReplaceImport(t *testing.T) {
	repo, out := setupTest(t)
	ctx := context.Background()

	require.NoError(t, repo.SaveGoals(ctx, []models.Goal{{ID: 1, Name: "ARR", Category: models.GoalRevenue,
		TargetValue: 1000, TargetDate: models.NewDate(2024, time.December, 31)}}))

	require.NoError(t, ExportCommand(repo, []string{"--format", "json"}))
	var env struct {
		Version int           `json:"version"`
		Goals   []models.Goal `json:"goals"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &env))
	assert.Equal(t, 1, env.Version)
	require.Len(t, env.Goals, 1)

	dir := t.TempDir()
	exportPath := filepath.Join(dir, "backup.json")
	require.NoError(t, os.WriteFile(exportPath, out.Bytes(), 0644))

	out.Reset()
	require.NoError(t, ExportCommand(repo, []string{"--format", "md", "--dir", dir}))
	mdPath := filepath.Join(dir, "bizdash-export-2024-04-15.md")
	assert.Contains(t, out.String(), "✓ Exported to "+mdPath)
	md, err := os.ReadFile(mdPath)
	require.NoError(t, err)
	assert.Contains(t, string(md), "# Business Dashboard")

	require.NoError(t, repo.SaveGoals(ctx, nil))

	out.Reset()
	require.NoError(t, ReplaceImportCommand(repo, []string{"--file", exportPath}))
	assert.Contains(t, out.String(), "WARNING")
	goals, err := repo.Goals(ctx)
	require.NoError(t, err)
	assert.Empty(t, goals, "nothing is written without --confirm")

	out.Reset()
	require.NoError(t, ReplaceImportCommand(repo, []string{"--confirm", "--file", exportPath}))
	assert.Contains(t, out.String(), "✓ Replaced all data from "+exportPath)
	goals, err = repo.Goals(ctx)
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, "ARR", goals[0].Name)

	assert.EqualError(t, ExportCommand(repo, []string{"--format", "pdf"}), "invalid format: pdf (valid: json, md, html)")
	assert.EqualError(t, ReplaceImportCommand(repo, nil), "--file is required")
}

func TestDashCommand(t *testing.T) {
	repo, out := setupTest(t)

	assert.EqualError(t, DashCommand(repo, nil), "dash requires a subcommand")
	assert.Contains(t, out.String(), "Dash commands:")

	assert.EqualError(t, DashCommand(repo, []string{"frobnicate"}), "unknown dash subcommand: frobnicate")

	out.Reset()
	require.NoError(t, DashCommand(repo, []string{"list-goals"}))
	assert.Contains(t, out.String(), "No goals found")
}

func TestVizCommands(t *testing.T) {
	repo, out := setupTest(t)

	require.NoError(t, AddDealCommand(repo, []string{"--prospect", "Globex", "--amount", "5000"}))

	out.Reset()
	require.NoError(t, VizDashboardCommand(repo, nil))
	assert.Contains(t, out.String(), "BUSINESS DASHBOARD")
	assert.Contains(t, out.String(), "Sales Pipeline")

	out.Reset()
	require.NoError(t, VizGraphPipelineCommand(repo, nil))
	assert.Contains(t, out.String(), "stage_sales")
	assert.Contains(t, out.String(), "Globex")

	path := filepath.Join(t.TempDir(), "contracts.dot")
	out.Reset()
	require.NoError(t, VizGraphContractsCommand(repo, []string{"--output", path}))
	assert.Contains(t, out.String(), "✓ Wrote graph to "+path)
	_, err := os.Stat(path)
	assert.NoError(t, err)

	assert.Error(t, VizGraphPipelineCommand(repo, []string{"--format", "png"}))
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "$0.00", money(0))
	assert.Equal(t, "$1234.56", money(1234.56))
	assert.Equal(t, "-$12.50", money(-12.5))
}

func TestResolvePeriod(t *testing.T) {
	_, _ = setupTest(t)

	p, d, err := resolvePeriod("quarter", "2024-05-20")
	require.NoError(t, err)
	assert.Equal(t, models.PeriodQuarter, p)
	assert.Equal(t, "2024-04-01", d.String())

	_, d, err = resolvePeriod("year", "")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", d.String())

	_, _, err = resolvePeriod("month", "04/15/2024")
	assert.ErrorContains(t, err, "invalid date format")
}
