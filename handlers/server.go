// ABOUTME: Builds the MCP server with every dashboard tool, resource and prompt
// ABOUTME: Shared by the mcp command and the handler tests
package handlers

import (
	"github.com/harperreed/bizdash/store"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer registers all tools against repo.
func NewServer(repo *store.Repository, version string) *mcp.Server {
	financeHandlers := NewFinanceHandlers(repo)
	goalHandlers := NewGoalHandlers(repo)
	pipelineHandlers := NewPipelineHandlers(repo)
	metricsHandlers := NewMetricsHandlers(repo)
	contractHandlers := NewContractHandlers(repo)
	resourceHandlers := NewResourceHandlers(repo)
	promptHandlers := NewPromptHandlers(repo)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "bizdash",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "import_financial_report",
		Description: "Extract income, expenses and receivables from report text (or a PDF path) and store them for a period",
	}, financeHandlers.ImportFinancialReport)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_financial_report",
		Description: "Get the stored financial report for a month, quarter or year",
	}, financeHandlers.GetFinancialReport)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "set_manual_run_rate",
		Description: "Override (or clear) the daily run rate of a stored financial report",
	}, financeHandlers.SetManualRunRate)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_goals",
		Description: "List goals with progress, remaining days and run rates",
	}, goalHandlers.ListGoals)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_goal",
		Description: "Add a goal with a target value and target date",
	}, goalHandlers.AddGoal)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_goal_progress",
		Description: "Set the current value of a goal",
	}, goalHandlers.UpdateGoalProgress)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "move_pipeline_item",
		Description: "Move a lead or deal between pipeline stages (lead, sales, active, lost, former)",
	}, pipelineHandlers.MovePipelineItem)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "sales_metrics",
		Description: "Lead, pipeline and client metrics with status against sales targets",
	}, metricsHandlers.SalesMetrics)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "developer_metrics",
		Description: "Team utilization, velocity, satisfaction, delivery and kickback metrics",
	}, metricsHandlers.DeveloperMetrics)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "metric_status",
		Description: "Classify a value against its target as onTrack, warning or critical",
	}, metricsHandlers.MetricStatus)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "import_contracts",
		Description: "Import government contract opportunities, skipping ones already tracked",
	}, contractHandlers.ImportContracts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "export_markdown",
		Description: "Export the whole dashboard as a Markdown report",
	}, contractHandlers.ExportMarkdown)

	for _, r := range resourceHandlers.Resources() {
		server.AddResource(r, resourceHandlers.ReadResource)
	}
	for _, p := range promptHandlers.Prompts() {
		server.AddPrompt(p, promptHandlers.GetPrompt)
	}

	return server
}
