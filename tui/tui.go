// ABOUTME: Terminal User Interface using bubbletea framework
// ABOUTME: Tabbed dashboard over a store snapshot with goal editing and sync
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/harperreed/bizdash/store"
)

// ViewMode represents the current TUI view
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewDetail
	ViewEdit
	ViewConfirmDelete
)

// Tab is one dashboard section.
type Tab int

const (
	TabOverview Tab = iota
	TabGoals
	TabPipeline
	TabContracts
	TabFinance
)

var tabNames = []string{"Overview", "Goals", "Pipeline", "Contracts", "Finance"}

// Syncer pushes and pulls local data with a remote, such as charm.Client.
type Syncer interface {
	Sync() error
}

// Model is the main bubbletea model
type Model struct {
	repo   *store.Repository
	syncer Syncer
	now    func() time.Time

	snap *store.Snapshot

	viewMode    ViewMode
	tab         Tab
	selectedRow int

	progressInput textinput.Model

	syncing  bool
	lastSync time.Time
	status   string
	err      error

	width  int
	height int
}

// NewModel creates a new TUI model. syncer may be nil for backends without sync.
func NewModel(repo *store.Repository, syncer Syncer) Model {
	return Model{
		repo:     repo,
		syncer:   syncer,
		now:      time.Now,
		viewMode: ViewList,
		tab:      TabOverview,
		width:    100,
		height:   30,
	}
}

// Run starts the full-screen dashboard and blocks until the user quits.
func Run(repo *store.Repository, syncer Syncer) error {
	_, err := tea.NewProgram(NewModel(repo, syncer), tea.WithAltScreen()).Run()
	return err
}

type snapshotMsg struct {
	snap *store.Snapshot
	err  error
}

// savedMsg reports the outcome of a write and triggers a reload.
type savedMsg struct {
	message string
	err     error
}

func (m Model) loadCmd() tea.Cmd {
	repo := m.repo
	return func() tea.Msg {
		snap, err := repo.LoadAll(context.Background())
		return snapshotMsg{snap: snap, err: err}
	}
}

func (m Model) Init() tea.Cmd {
	return m.loadCmd()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case snapshotMsg:
		m.snap, m.err = msg.snap, msg.err
		m.clampSelection()
		return m, nil
	case savedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.status, m.err = msg.message, nil
		m.viewMode = ViewList
		return m, m.loadCmd()
	case SyncCompleteMsg:
		return m.handleSyncComplete(msg)
	}
	return m, nil
}

func (m Model) View() string {
	if m.snap == nil {
		return titleStyle.Render("BUSINESS DASHBOARD") + "\n\nLoading..."
	}
	switch m.viewMode {
	case ViewList:
		return m.renderListView()
	case ViewDetail:
		return m.renderDetailView()
	case ViewEdit:
		return m.renderEditView()
	case ViewConfirmDelete:
		return m.renderConfirmDeleteView()
	}
	return ""
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if msg.String() == "q" && m.viewMode != ViewEdit {
		return m, tea.Quit
	}
	if m.snap == nil {
		return m, nil
	}

	switch m.viewMode {
	case ViewList:
		return m.handleListKeys(msg)
	case ViewDetail:
		return m.handleDetailKeys(msg)
	case ViewEdit:
		return m.handleEditKeys(msg)
	case ViewConfirmDelete:
		return m.handleConfirmDeleteKeys(msg)
	}
	return m, nil
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginBottom(1)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Background(lipgloss.Color("235")).
			Padding(0, 2)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))
)
