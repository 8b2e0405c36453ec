// ABOUTME: Overview tab rendering the ASCII dashboard
// ABOUTME: Reuses the viz dashboard so terminal and TUI summaries agree
package tui

import "github.com/harperreed/bizdash/viz"

func (m Model) renderOverview() string {
	return viz.RenderDashboard(viz.GenerateDashboardStats(m.snap, m.now()))
}
