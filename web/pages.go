// ABOUTME: HTML page handlers rendered through the embedded layout
// ABOUTME: Each page loads one snapshot and hands view data to a content template
package web

import (
	"html/template"
	"net/http"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/harperreed/bizdash/export"
	"github.com/harperreed/bizdash/models"
	"github.com/harperreed/bizdash/pipeline"
	"github.com/harperreed/bizdash/store"
	"github.com/harperreed/bizdash/viz"
)

func (s *Server) render(c *gin.Context, title, content string, data gin.H) {
	data["Title"] = title
	data["ContentTemplate"] = content
	c.HTML(http.StatusOK, "layout.html", data)
}

func (s *Server) snapshot(c *gin.Context) (*store.Snapshot, bool) {
	snap, err := s.repo.LoadAll(c.Request.Context())
	if err != nil {
		log.Error("failed to load snapshot", "err", err)
		c.String(http.StatusInternalServerError, err.Error())
		return nil, false
	}
	return snap, true
}

func loadErrorKeys(snap *store.Snapshot) []string {
	keys := make([]string, 0, len(snap.LoadErrors))
	for k := range snap.LoadErrors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s *Server) handleDashboard(c *gin.Context) {
	snap, ok := s.snapshot(c)
	if !ok {
		return
	}
	s.render(c, "Dashboard", "dashboard-content", gin.H{
		"Stats":      viz.GenerateDashboardStats(snap, s.now()),
		"LoadErrors": loadErrorKeys(snap),
	})
}

func (s *Server) handleGoals(c *gin.Context) {
	snap, ok := s.snapshot(c)
	if !ok {
		return
	}
	s.render(c, "Goals", "goals-content", gin.H{
		"Goals": s.goalViews(snap.Goals),
	})
}

type stageView struct {
	Label string
	Leads []models.LeadItem
	Items []models.PipelineItem
}

func (s *Server) handlePipeline(c *gin.Context) {
	snap, ok := s.snapshot(c)
	if !ok {
		return
	}
	stages := []stageView{{Label: pipeline.StageLead.Label(), Leads: snap.Board.Leads}}
	for _, stage := range pipeline.Stages[1:] {
		stages = append(stages, stageView{Label: stage.Label(), Items: snap.Board.Items(stage)})
	}
	s.render(c, "Pipeline", "pipeline-content", gin.H{"Stages": stages})
}

func (s *Server) handleFinance(c *gin.Context) {
	snap, ok := s.snapshot(c)
	if !ok {
		return
	}
	reports := make([]models.FinancialData, 0, len(snap.Financials))
	for _, d := range snap.Financials {
		reports = append(reports, d)
	}
	sort.Slice(reports, func(i, j int) bool {
		if !reports[i].PeriodDate.Equal(reports[j].PeriodDate.Time) {
			return reports[i].PeriodDate.After(reports[j].PeriodDate.Time)
		}
		return reports[i].Period < reports[j].Period
	})
	s.render(c, "Finance", "finance-content", gin.H{"Reports": reports})
}

type contractView struct {
	models.GovContractItem
	Deadline    string
	DaysLeft    int
	HasDeadline bool
	OpenActions []models.ActionItem
}

func (s *Server) handleContracts(c *gin.Context) {
	snap, ok := s.snapshot(c)
	if !ok {
		return
	}
	now := s.now()
	views := make([]contractView, 0, len(snap.Contracts))
	for _, ct := range snap.Contracts {
		v := contractView{GovContractItem: ct, OpenActions: ct.OpenActionItems()}
		v.DaysLeft, v.HasDeadline = ct.DaysUntilDeadline(now)
		if v.HasDeadline {
			v.Deadline = ct.ResponseDeadline.String()
		}
		views = append(views, v)
	}
	s.render(c, "Contracts", "contracts-content", gin.H{"Contracts": views})
}

func (s *Server) handleExportPage(c *gin.Context) {
	snap, ok := s.snapshot(c)
	if !ok {
		return
	}
	html, err := export.MarkdownHTML(export.Markdown(snap, s.now()))
	if err != nil {
		c.String(http.StatusInternalServerError, err.Error())
		return
	}
	// goldmark escapes raw HTML in the source by default.
	s.render(c, "Export", "export-content", gin.H{"Body": template.HTML(html)}) //nolint:gosec
}
