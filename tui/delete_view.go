// ABOUTME: Delete confirmation view for TUI
// ABOUTME: Confirms and removes the selected goal
package tui

import (
	"context"
	"fmt"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/bizdash/models"
)

var (
	confirmBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("9")).
			Padding(1, 2).
			Width(60).
			Align(lipgloss.Center)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	confirmButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("9")).
				Padding(0, 2).
				MarginRight(2)

	cancelButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("8")).
				Padding(0, 2)
)

func (m Model) renderConfirmDeleteView() string {
	g, ok := m.selectedGoal()
	if !ok {
		return "No goal selected"
	}

	buttons := lipgloss.JoinHorizontal(
		lipgloss.Left,
		confirmButtonStyle.Render("Yes, Delete (y)"),
		cancelButtonStyle.Render("Cancel (n/esc)"),
	)

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		warningStyle.Render("⚠  DELETE CONFIRMATION  ⚠"),
		"",
		"Are you sure you want to delete this goal?",
		fmt.Sprintf("\nGOAL: %s\n", g.Name),
		"\nThis action cannot be undone!",
		"",
		buttons,
	)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, confirmBoxStyle.Render(content))
}

func (m Model) handleConfirmDeleteKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		g, ok := m.selectedGoal()
		if !ok {
			m.viewMode = ViewList
			return m, nil
		}
		return m, m.deleteGoalCmd(g.ID)
	case "n", "N", "esc":
		m.viewMode = ViewList
	}
	return m, nil
}

func (m Model) deleteGoalCmd(id int64) tea.Cmd {
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
		name := goals[i].Name
		if err := repo.SaveGoals(ctx, slices.Delete(slices.Clone(goals), i, i+1)); err != nil {
			return savedMsg{err: err}
		}
		return savedMsg{message: "Deleted " + name}
	}
}
