// ABOUTME: Tests for the dashboard model driven through Update with key messages
// ABOUTME: Uses the badger-backed charm test client behind a real repository
package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/harperreed/bizdash/charm"
	"github.com/harperreed/bizdash/models"
	"github.com/harperreed/bizdash/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, time.April, 15, 10, 0, 0, 0, time.UTC)

type fakeSyncer struct {
	calls int
	err   error
}

func (f *fakeSyncer) Sync() error {
	f.calls++
	return f.err
}

func newTestModel(t *testing.T, syncer Syncer) (Model, *store.Repository) {
	t.Helper()
	client, cleanup := charm.NewTestClient(t)
	t.Cleanup(cleanup)
	repo := store.NewRepository(client)

	require.NoError(t, repo.SaveGoals(context.Background(), []models.Goal{{
		ID: 1, Name: "Grow MRR", Category: models.GoalMRR, CurrentValue: 500, TargetValue: 1000,
		TargetDate: models.NewDate(2024, time.June, 30), CreatedAt: fixedNow.AddDate(0, -1, 0),
	}}))

	m := NewModel(repo, syncer)
	m.now = func() time.Time { return fixedNow }
	return m, repo
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// drain runs cmd and feeds its messages back until no command remains.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for cmd != nil {
		m, cmd = update(t, m, cmd())
	}
	return m
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loaded(t *testing.T, m Model) Model {
	t.Helper()
	return drain(t, m, m.Init())
}

func TestView_LoadingThenOverview(t *testing.T) {
	m, _ := newTestModel(t, nil)
	assert.Contains(t, m.View(), "Loading...")

	m = loaded(t, m)
	view := m.View()
	assert.Contains(t, view, "BUSINESS DASHBOARD")
	assert.Contains(t, view, "PIPELINE OVERVIEW")
}

func TestTabs_Cycle(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m = loaded(t, m)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, TabGoals, m.tab)
	assert.Contains(t, m.View(), "Grow MRR")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, TabFinance, m.tab)
	assert.Contains(t, m.View(), "Nothing here yet.")
}

func TestEditGoalProgress(t *testing.T) {
	m, repo := newTestModel(t, nil)
	m = loaded(t, m)
	m.tab = TabGoals

	m, _ = update(t, m, keyRunes("e"))
	require.Equal(t, ViewEdit, m.viewMode)
	assert.Equal(t, "500", m.progressInput.Value())

	m.progressInput.SetValue("750")
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	m = drain(t, m, cmd)

	assert.Equal(t, ViewList, m.viewMode)
	assert.NoError(t, m.err)
	assert.Equal(t, 750.0, m.snap.Goals[0].CurrentValue)

	goals, err := repo.Goals(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 750.0, goals[0].CurrentValue)
}

func TestEditGoalProgress_RejectsNonNumber(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m = loaded(t, m)
	m.tab = TabGoals

	m, _ = update(t, m, keyRunes("e"))
	m.progressInput.SetValue("lots")
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Equal(t, ViewEdit, m.viewMode)
	assert.Error(t, m.err)
}

func TestDeleteGoal(t *testing.T) {
	m, repo := newTestModel(t, nil)
	m = loaded(t, m)
	m.tab = TabGoals

	m, _ = update(t, m, keyRunes("d"))
	require.Equal(t, ViewConfirmDelete, m.viewMode)
	assert.Contains(t, m.View(), "GOAL: Grow MRR")

	m, cmd := update(t, m, keyRunes("y"))
	m = drain(t, m, cmd)

	assert.Equal(t, "Deleted Grow MRR", m.status)
	assert.Empty(t, m.snap.Goals)
	goals, err := repo.Goals(context.Background())
	require.NoError(t, err)
	assert.Empty(t, goals)
}

func TestDeleteGoal_Cancel(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m = loaded(t, m)
	m.tab = TabGoals

	m, _ = update(t, m, keyRunes("d"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ViewList, m.viewMode)
	assert.Len(t, m.snap.Goals, 1)
}

func TestDetailView(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m = loaded(t, m)
	m.tab = TabGoals

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, ViewDetail, m.viewMode)
	assert.Contains(t, m.View(), "50.0%")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ViewList, m.viewMode)
}

func TestSync(t *testing.T) {
	syncer := &fakeSyncer{}
	m, _ := newTestModel(t, syncer)
	m = loaded(t, m)

	m, cmd := update(t, m, keyRunes("s"))
	assert.True(t, m.syncing)
	m = drain(t, m, cmd)

	assert.Equal(t, 1, syncer.calls)
	assert.False(t, m.syncing)
	assert.Equal(t, "✓ Synced just now", m.status)
}

func TestSync_Failure(t *testing.T) {
	m, _ := newTestModel(t, &fakeSyncer{err: errors.New("offline")})
	m = loaded(t, m)

	m, cmd := update(t, m, keyRunes("s"))
	m = drain(t, m, cmd)
	require.Error(t, m.err)
	assert.Contains(t, m.err.Error(), "offline")
}

func TestSync_Unavailable(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m = loaded(t, m)

	m, cmd := update(t, m, keyRunes("s"))
	assert.Nil(t, cmd)
	assert.Contains(t, m.status, "not available")
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t, nil)
	_, cmd := update(t, m, keyRunes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestFormatTimeSince(t *testing.T) {
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{time.Minute, "1 minute ago"},
		{5 * time.Minute, "5 minutes ago"},
		{time.Hour, "1 hour ago"},
		{3 * time.Hour, "3 hours ago"},
		{24 * time.Hour, "1 day ago"},
		{72 * time.Hour, "3 days ago"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatTimeSince(fixedNow.Add(-tt.ago), fixedNow))
	}
}
