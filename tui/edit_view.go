// ABOUTME: Goal progress editor
// ABOUTME: Single numeric input saved back through the repository
package tui

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/harperreed/bizdash/models"
)

func (m *Model) initProgressInput() {
	input := textinput.New()
	input.Placeholder = "Current value"
	input.CharLimit = 20
	if g, ok := m.selectedGoal(); ok {
		input.SetValue(strconv.FormatFloat(g.CurrentValue, 'f', -1, 64))
	}
	input.Focus()
	m.progressInput = input
}

func (m Model) renderEditView() string {
	var s strings.Builder

	g, _ := m.selectedGoal()
	s.WriteString(titleStyle.Render("UPDATE PROGRESS: " + g.Name))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("Target: %.2f by %s\n\n", g.TargetValue, g.TargetDate))
	s.WriteString("> ")
	s.WriteString(m.progressInput.View())
	s.WriteString("\n")

	if m.err != nil {
		s.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		s.WriteString("\n")
	}
	s.WriteString(helpStyle.Render("Enter: Save • Esc: Cancel"))
	return s.String()
}

func (m Model) handleEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.viewMode = ViewList
		m.err = nil
		return m, nil
	case "enter":
		value, err := strconv.ParseFloat(strings.TrimSpace(m.progressInput.Value()), 64)
		if err != nil {
			m.err = fmt.Errorf("not a number: %q", m.progressInput.Value())
			return m, nil
		}
		g, ok := m.selectedGoal()
		if !ok {
			m.viewMode = ViewList
			return m, nil
		}
		return m, m.saveProgressCmd(g.ID, value)
	}

	var cmd tea.Cmd
	m.progressInput, cmd = m.progressInput.Update(msg)
	return m, cmd
}

func (m Model) saveProgressCmd(id int64, value float64) tea.Cmd {
	repo := m.repo
	return func() tea.Msg {
		ctx := context.Background()
		goals, err := repo.Goals(ctx)
		if err != nil {
			return savedMsg{err: fmt.Errorf("failed to load goals: %w", err)}
		}
		i := slices.IndexFunc(goals, func(g models.Goal) bool { return g.ID == id })
		if i < 0 {
			return savedMsg{err: fmt.Errorf("goal not found: %d", id)}
		}
		updated := slices.Clone(goals)
		updated[i].CurrentValue = value
		if err := repo.SaveGoals(ctx, updated); err != nil {
			return savedMsg{err: err}
		}
		return savedMsg{message: fmt.Sprintf("Updated %s", updated[i].Name)}
	}
}
