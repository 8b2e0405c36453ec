// ABOUTME: JSON API handlers for goals, metrics, financial reports and exports
// ABOUTME: Reads go through the store; only /api/sync has side effects
package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harperreed/bizdash/export"
	"github.com/harperreed/bizdash/metrics"
	"github.com/harperreed/bizdash/models"
)

type goalView struct {
	models.Goal
	Metrics metrics.GoalMetrics `json:"metrics"`
}

func (s *Server) goalViews(goals []models.Goal) []goalView {
	now := s.now()
	views := make([]goalView, 0, len(goals))
	for _, g := range goals {
		views = append(views, goalView{Goal: g, Metrics: metrics.CalculateGoalMetrics(g, now)})
	}
	return views
}

func (s *Server) apiGoals(c *gin.Context) {
	goals, err := s.repo.Goals(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	success(c, s.goalViews(goals))
}

type salesMetricsView struct {
	Leads   metrics.LeadMetrics   `json:"leads"`
	Sales   metrics.SalesMetrics  `json:"sales"`
	Clients metrics.ClientMetrics `json:"clients"`
	Panel   []metrics.NamedStatus `json:"panel"`
}

func (s *Server) apiSalesMetrics(c *gin.Context) {
	ctx := c.Request.Context()
	board, err := s.repo.Board(ctx)
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	targets, err := s.repo.SalesTargets(ctx)
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	now := s.now()
	v := salesMetricsView{
		Leads:   metrics.CalculateLeadMetrics(board.Leads, now),
		Sales:   metrics.CalculateSalesMetrics(board, now),
		Clients: metrics.CalculateClientMetrics(board),
	}
	v.Panel = metrics.SalesStatusPanel(v.Leads, v.Sales, v.Clients, targets)
	success(c, v)
}

type developerMetricsView struct {
	Summary metrics.DeveloperSummary `json:"summary"`
	Panel   []metrics.NamedStatus    `json:"panel"`
}

func (s *Server) apiDeveloperMetrics(c *gin.Context) {
	dm, err := s.repo.DeveloperMetrics(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	summary := metrics.AggregateDevelopers(dm)
	success(c, developerMetricsView{Summary: summary, Panel: metrics.DeveloperStatusPanel(summary, dm.Targets)})
}

func (s *Server) apiFinance(c *gin.Context) {
	period, ok := models.ParsePeriod(c.Param("period"))
	if !ok {
		fail(c, http.StatusBadRequest, "invalid period: "+c.Param("period"))
		return
	}
	date, err := models.ParseDate(c.Param("date"))
	if err != nil || date.IsZero() {
		fail(c, http.StatusBadRequest, "invalid date (use YYYY-MM-DD): "+c.Param("date"))
		return
	}

	data, err := s.repo.Financial(c.Request.Context(), period, date)
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	if data == nil {
		fail(c, http.StatusNotFound, "no financial report for "+string(period)+" "+period.Start(date).String())
		return
	}
	success(c, data)
}

func (s *Server) apiExportJSON(c *gin.Context) {
	snap, err := s.repo.LoadAll(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	now := s.now()
	data, err := export.JSON(snap, now)
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+export.FileName(now, "json")+`"`)
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

func (s *Server) apiExportMarkdown(c *gin.Context) {
	snap, err := s.repo.LoadAll(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	now := s.now()
	c.Header("Content-Disposition", `attachment; filename="`+export.FileName(now, "md")+`"`)
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(export.Markdown(snap, now)))
}

func (s *Server) apiSync(c *gin.Context) {
	if s.syncer == nil {
		fail(c, http.StatusNotImplemented, "sync is not available for this backend")
		return
	}
	if err := s.syncer.Sync(); err != nil {
		fail(c, http.StatusBadGateway, "sync failed: "+err.Error())
		return
	}
	success(c, gin.H{"synced_at": s.now()})
}
