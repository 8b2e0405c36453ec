// ABOUTME: Sync trigger and status reporting for the TUI
// ABOUTME: Runs Syncer.Sync off the update loop and reloads on success
package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// SyncCompleteMsg is sent when a sync operation completes.
type SyncCompleteMsg struct {
	Error error
	At    time.Time
}

func (m Model) startSync() (tea.Model, tea.Cmd) {
	if m.syncer == nil {
		m.status = "Sync is not available for this backend"
		return m, nil
	}
	if m.syncing {
		return m, nil
	}
	m.syncing = true
	m.status = "Syncing..."
	return m, m.syncCmd()
}

func (m Model) syncCmd() tea.Cmd {
	syncer, now := m.syncer, m.now
	return func() tea.Msg {
		return SyncCompleteMsg{Error: syncer.Sync(), At: now()}
	}
}

func (m Model) handleSyncComplete(msg SyncCompleteMsg) (tea.Model, tea.Cmd) {
	m.syncing = false
	if msg.Error != nil {
		m.err = fmt.Errorf("sync failed: %w", msg.Error)
		return m, nil
	}
	m.lastSync = msg.At
	m.err = nil
	m.status = "✓ Synced " + formatTimeSince(m.lastSync, m.now())
	return m, m.loadCmd()
}

// formatTimeSince formats a time duration in a human-readable way.
func formatTimeSince(t, now time.Time) string {
	duration := now.Sub(t)

	switch {
	case duration < time.Minute:
		return "just now"
	case duration < time.Hour:
		minutes := int(duration.Minutes())
		if minutes == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", minutes)
	case duration < 24*time.Hour:
		hours := int(duration.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	default:
		days := int(duration.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	}
}
