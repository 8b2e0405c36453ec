// ABOUTME: Web dashboard server built on gin with embedded templates
// ABOUTME: Serves read-only HTML pages, a JSON API and optional scheduled sync
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/harperreed/bizdash/store"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Syncer pushes and pulls local data with a remote, such as charm.Client.
type Syncer interface {
	Sync() error
}

type Server struct {
	repo      *store.Repository
	syncer    Syncer
	templates *template.Template
	now       func() time.Time
}

// NewServer parses the embedded templates. syncer may be nil.
func NewServer(repo *store.Repository, syncer Syncer) (*Server, error) {
	funcMap := template.FuncMap{
		"money": formatMoney,
		"pct": func(v float64) string {
			return fmt.Sprintf("%.1f%%", v)
		},
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &Server{
		repo:      repo,
		syncer:    syncer,
		templates: tmpl,
		now:       time.Now,
	}, nil
}

// Router builds the gin engine with every page and API route.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	r.SetHTMLTemplate(s.templates)

	r.GET("/", s.handleDashboard)
	r.GET("/goals", s.handleGoals)
	r.GET("/pipeline", s.handlePipeline)
	r.GET("/finance", s.handleFinance)
	r.GET("/contracts", s.handleContracts)
	r.GET("/export", s.handleExportPage)

	api := r.Group("/api")
	{
		api.GET("/goals", s.apiGoals)
		api.GET("/metrics/sales", s.apiSalesMetrics)
		api.GET("/metrics/developers", s.apiDeveloperMetrics)
		api.GET("/finance/:period/:date", s.apiFinance)
		api.GET("/export.json", s.apiExportJSON)
		api.GET("/export.md", s.apiExportMarkdown)
		api.POST("/sync", s.apiSync)
	}
	return r
}

// Start serves on port until ctx is cancelled. A non-empty schedule runs
// Syncer.Sync on that cron schedule while the server is up.
func (s *Server) Start(ctx context.Context, port int, schedule string) error {
	if schedule != "" && s.syncer != nil {
		c, err := newSyncScheduler(schedule, s.syncer)
		if err != nil {
			return err
		}
		c.Start()
		defer c.Stop()
		log.Info("scheduled sync enabled", "schedule", schedule)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("web server shutdown failed", "err", err)
		}
	}()

	log.Info("starting web server", "url", fmt.Sprintf("http://localhost:%d", port))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}

func formatMoney(v float64) string {
	if v < 0 {
		return fmt.Sprintf("-$%.2f", -v)
	}
	return fmt.Sprintf("$%.2f", v)
}
