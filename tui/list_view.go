// ABOUTME: Tabbed list view with one table per dashboard section
// ABOUTME: Handles tab switching, row selection and list key bindings
package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/bizdash/metrics"
	"github.com/harperreed/bizdash/models"
	"github.com/harperreed/bizdash/pipeline"
)

// pipelineRow is one lead or deal flattened out of the board.
type pipelineRow struct {
	stage    pipeline.Stage
	id       int64
	prospect string
	amount   float64
	detail   string
}

func (m Model) pipelineRows() []pipelineRow {
	var rows []pipelineRow
	for _, l := range m.snap.Board.Leads {
		rows = append(rows, pipelineRow{pipeline.StageLead, l.ID, l.Prospect, l.ProjectedOpportunity, l.Status})
	}
	for _, stage := range pipeline.Stages[1:] {
		for _, p := range m.snap.Board.Items(stage) {
			rows = append(rows, pipelineRow{stage, p.ID, p.Prospect, p.Amount, p.SalesStage})
		}
	}
	return rows
}

// financialKeys returns stored report keys, newest period first.
func (m Model) financialKeys() []string {
	keys := make([]string, 0, len(m.snap.Financials))
	for k := range m.snap.Financials {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := m.snap.Financials[keys[i]], m.snap.Financials[keys[j]]
		if !a.PeriodDate.Equal(b.PeriodDate.Time) {
			return a.PeriodDate.After(b.PeriodDate.Time)
		}
		return keys[i] < keys[j]
	})
	return keys
}

func (m Model) rowCount() int {
	switch m.tab {
	case TabGoals:
		return len(m.snap.Goals)
	case TabPipeline:
		return len(m.pipelineRows())
	case TabContracts:
		return len(m.snap.Contracts)
	case TabFinance:
		return len(m.snap.Financials)
	}
	return 0
}

func (m *Model) clampSelection() {
	if m.snap == nil {
		return
	}
	if n := m.rowCount(); m.selectedRow >= n {
		m.selectedRow = max(0, n-1)
	}
}

func (m Model) renderListView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("BUSINESS DASHBOARD"))
	s.WriteString("\n\n")

	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	if m.tab == TabOverview {
		s.WriteString(m.renderOverview())
	} else {
		s.WriteString(m.renderTable())
	}
	s.WriteString("\n")

	s.WriteString(m.renderStatusLine())
	s.WriteString(m.renderListHelp())

	return s.String()
}

func (m Model) renderTabs() string {
	var rendered []string
	for i, name := range tabNames {
		if Tab(i) == m.tab {
			rendered = append(rendered, tabActiveStyle.Render(name))
		} else {
			rendered = append(rendered, tabInactiveStyle.Render(name))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) renderTable() string {
	var columns []table.Column
	var rows []table.Row

	switch m.tab {
	case TabGoals:
		columns = []table.Column{
			{Title: "Name", Width: 28},
			{Title: "Category", Width: 10},
			{Title: "Progress", Width: 10},
			{Title: "Due", Width: 12},
			{Title: "Status", Width: 10},
		}
		now := m.now()
		for _, g := range m.snap.Goals {
			gm := metrics.CalculateGoalMetrics(g, now)
			status := "behind"
			if gm.OnTrack {
				status = "on track"
			}
			rows = append(rows, table.Row{g.Name, string(g.Category), gm.Progress + "%", g.TargetDate.String(), status})
		}
	case TabPipeline:
		columns = []table.Column{
			{Title: "Stage", Width: 16},
			{Title: "Prospect", Width: 28},
			{Title: "Amount", Width: 12},
			{Title: "Status", Width: 14},
		}
		for _, r := range m.pipelineRows() {
			rows = append(rows, table.Row{r.stage.Label(), r.prospect, fmt.Sprintf("$%.0f", r.amount), r.detail})
		}
	case TabContracts:
		columns = []table.Column{
			{Title: "Opportunity", Width: 16},
			{Title: "Title", Width: 28},
			{Title: "Agency", Width: 16},
			{Title: "Due", Width: 12},
			{Title: "Priority", Width: 10},
		}
		for _, c := range m.snap.Contracts {
			due := ""
			if c.ResponseDeadline != nil {
				due = c.ResponseDeadline.String()
			}
			rows = append(rows, table.Row{c.OpportunityNumber, c.Title, c.Agency, due, c.Priority})
		}
	case TabFinance:
		columns = []table.Column{
			{Title: "Period", Width: 10},
			{Title: "Start", Width: 12},
			{Title: "Income", Width: 12},
			{Title: "Expenses", Width: 12},
			{Title: "Margin", Width: 8},
			{Title: "Run Rate", Width: 10},
		}
		for _, k := range m.financialKeys() {
			d := m.snap.Financials[k]
			rows = append(rows, table.Row{
				string(d.Period), d.PeriodDate.String(),
				fmt.Sprintf("$%.0f", d.Income.Total), fmt.Sprintf("$%.0f", d.Expenses.Total),
				fmt.Sprintf("%.1f%%", d.GrossProfit.Margin), fmt.Sprintf("$%.0f", d.RunRate.Effective()),
			})
		}
	}

	if len(rows) == 0 {
		return helpStyle.Render("Nothing here yet.")
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(max(3, m.height-12)),
	)
	t.SetCursor(m.selectedRow)
	return t.View()
}

func (m Model) renderStatusLine() string {
	switch {
	case m.err != nil:
		return errorStyle.Render("Error: "+m.err.Error()) + "\n"
	case len(m.snap.LoadErrors) > 0:
		keys := make([]string, 0, len(m.snap.LoadErrors))
		for k := range m.snap.LoadErrors {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return errorStyle.Render("Could not load: "+strings.Join(keys, ", ")) + "\n"
	case m.status != "":
		return statusStyle.Render(m.status) + "\n"
	}
	return ""
}

func (m Model) renderListHelp() string {
	help := []string{"←/→: Tabs", "↑/↓: Select", "Enter: Details"}
	if m.tab == TabGoals {
		help = append(help, "e: Update progress", "d: Delete")
	}
	help = append(help, "r: Reload")
	if m.syncer != nil {
		help = append(help, "s: Sync")
	}
	help = append(help, "q: Quit")
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "right", "l":
		m.tab = Tab((int(m.tab) + 1) % len(tabNames))
		m.selectedRow = 0
	case "shift+tab", "left", "h":
		m.tab = Tab((int(m.tab) + len(tabNames) - 1) % len(tabNames))
		m.selectedRow = 0
	case "up", "k":
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case "down", "j":
		if m.selectedRow < m.rowCount()-1 {
			m.selectedRow++
		}
	case "enter":
		if m.rowCount() > 0 {
			m.viewMode = ViewDetail
		}
	case "e":
		if m.tab == TabGoals && m.rowCount() > 0 {
			m.initProgressInput()
			m.viewMode = ViewEdit
		}
	case "d":
		if m.tab == TabGoals && m.rowCount() > 0 {
			m.viewMode = ViewConfirmDelete
		}
	case "r":
		m.status = "Reloaded"
		return m, m.loadCmd()
	case "s":
		return m.startSync()
	}
	return m, nil
}

// selectedGoal returns the goal under the cursor on the goals tab.
func (m Model) selectedGoal() (models.Goal, bool) {
	if m.tab != TabGoals || m.selectedRow >= len(m.snap.Goals) {
		return models.Goal{}, false
	}
	return m.snap.Goals[m.selectedRow], true
}
