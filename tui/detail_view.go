// ABOUTME: Detail view for the selected goal, pipeline item, contract or report
// ABOUTME: Renders labeled fields with derived metrics
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/bizdash/metrics"
	"github.com/harperreed/bizdash/models"
	"github.com/harperreed/bizdash/pipeline"
)

var (
	fieldLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Width(20)

	fieldValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))
)

func (m Model) renderDetailView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("DETAIL VIEW"))
	s.WriteString("\n\n")

	switch m.tab {
	case TabGoals:
		s.WriteString(m.renderGoalDetail())
	case TabPipeline:
		s.WriteString(m.renderPipelineDetail())
	case TabContracts:
		s.WriteString(m.renderContractDetail())
	case TabFinance:
		s.WriteString(m.renderReportDetail())
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("Esc: Back • q: Quit"))
	return s.String()
}

func field(s *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	s.WriteString(fieldLabelStyle.Render(label))
	s.WriteString(fieldValueStyle.Render(value))
	s.WriteString("\n")
}

func (m Model) renderGoalDetail() string {
	g, ok := m.selectedGoal()
	if !ok {
		return "No goal selected"
	}
	gm := metrics.CalculateGoalMetrics(g, m.now())

	var s strings.Builder
	field(&s, "Name:", g.Name)
	field(&s, "Category:", string(g.Category))
	field(&s, "Current:", fmt.Sprintf("%.2f %s", g.CurrentValue, g.Unit))
	field(&s, "Target:", fmt.Sprintf("%.2f by %s", g.TargetValue, g.TargetDate))
	field(&s, "Progress:", gm.Progress+"%")
	field(&s, "Remaining:", fmt.Sprintf("%.2f in %d days", gm.Remaining, gm.DaysRemaining))
	field(&s, "Run rate:", fmt.Sprintf("%.2f/day (need %.2f/day)", gm.CurrentRunRate, gm.RequiredRunRate))
	if gm.OnTrack {
		field(&s, "Status:", "on track")
	} else {
		field(&s, "Status:", "behind")
	}
	return s.String()
}

func (m Model) renderPipelineDetail() string {
	rows := m.pipelineRows()
	if m.selectedRow >= len(rows) {
		return "No item selected"
	}
	row := rows[m.selectedRow]

	var s strings.Builder
	field(&s, "Stage:", row.stage.Label())
	if row.stage == pipeline.StageLead {
		lead, _ := m.snap.Board.FindLead(row.id)
		field(&s, "Prospect:", lead.Prospect)
		field(&s, "Company:", lead.Company)
		field(&s, "Source:", lead.Source)
		field(&s, "Projected:", fmt.Sprintf("$%.2f", lead.ProjectedOpportunity))
		field(&s, "Status:", lead.Status)
		field(&s, "Interactions:", fmt.Sprintf("%d", len(lead.Interactions)))
		field(&s, "Notes:", lead.Notes.General)
		return s.String()
	}

	_, item, _ := m.snap.Board.Find(row.id)
	field(&s, "Prospect:", item.Prospect)
	field(&s, "Project:", item.ProjectName)
	field(&s, "Amount:", fmt.Sprintf("$%.2f", item.Amount))
	field(&s, "Sales stage:", item.SalesStage)
	field(&s, "Payment:", string(item.PaymentType))
	if item.MRRAmount > 0 {
		field(&s, "MRR:", fmt.Sprintf("$%.2f", item.MRRAmount))
	}
	field(&s, "Next step:", item.NextStep)
	if item.NextStepDate != nil {
		field(&s, "Next step date:", item.NextStepDate.String())
	}
	field(&s, "Notes:", item.Notes)
	return s.String()
}

func (m Model) renderContractDetail() string {
	if m.selectedRow >= len(m.snap.Contracts) {
		return "No contract selected"
	}
	c := m.snap.Contracts[m.selectedRow]

	var s strings.Builder
	field(&s, "Opportunity:", c.OpportunityNumber)
	field(&s, "Title:", c.Title)
	field(&s, "Agency:", c.Agency)
	field(&s, "Type:", c.Type)
	field(&s, "Status:", c.Status)
	field(&s, "Priority:", c.Priority)
	field(&s, "Estimated value:", fmt.Sprintf("$%.2f", c.EstimatedValue))
	if days, ok := c.DaysUntilDeadline(m.now()); ok {
		field(&s, "Response due:", fmt.Sprintf("%s (%d days)", c.ResponseDeadline, days))
	}
	for _, item := range c.OpenActionItems() {
		field(&s, "Action:", item.Description)
	}
	field(&s, "Notes:", c.Notes)
	return s.String()
}

func (m Model) renderReportDetail() string {
	keys := m.financialKeys()
	if m.selectedRow >= len(keys) {
		return "No report selected"
	}
	d := m.snap.Financials[keys[m.selectedRow]]

	var s strings.Builder
	field(&s, "Period:", fmt.Sprintf("%s %s", d.Period, d.PeriodDate))
	field(&s, "Income:", fmt.Sprintf("$%.2f", d.Income.Total))
	for _, c := range d.Income.Categories {
		field(&s, "  "+c.Name, fmt.Sprintf("$%.2f", c.Amount))
	}
	field(&s, "Expenses:", fmt.Sprintf("$%.2f", d.Expenses.Total))
	field(&s, "Gross profit:", fmt.Sprintf("$%.2f (%.1f%%)", d.GrossProfit.Total, d.GrossProfit.Margin))
	field(&s, "Run rate:", fmt.Sprintf("$%.2f/day", d.RunRate.Effective()))
	field(&s, "Receivables:", fmt.Sprintf("$%.2f", d.ReceivablesTotal()))
	buckets := d.AgingBuckets()
	for _, status := range models.AgingStatuses {
		field(&s, "  "+status, fmt.Sprintf("$%.2f", buckets[status]))
	}
	return s.String()
}

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace":
		m.viewMode = ViewList
	case "e":
		if m.tab == TabGoals {
			m.initProgressInput()
			m.viewMode = ViewEdit
		}
	}
	return m, nil
}
