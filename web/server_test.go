// ABOUTME: Tests for the gin router, JSON API envelope and HTML pages
// ABOUTME: Runs against a badger-backed repository through httptest
package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harperreed/bizdash/charm"
	"github.com/harperreed/bizdash/models"
	"github.com/harperreed/bizdash/pipeline"
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

func newTestServer(t *testing.T, syncer Syncer) (*Server, *store.Repository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	client, cleanup := charm.NewTestClient(t)
	t.Cleanup(cleanup)
	repo := store.NewRepository(client)

	srv, err := NewServer(repo, syncer)
	require.NoError(t, err)
	srv.now = func() time.Time { return fixedNow }
	return srv, repo
}

func seed(t *testing.T, repo *store.Repository) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, repo.SaveGoals(ctx, []models.Goal{{
		ID: 1, Name: "Reach 100 customers", Category: models.GoalCustom,
		CurrentValue: 40, TargetValue: 100,
		TargetDate: models.NewDate(2024, time.December, 31),
		CreatedAt:  fixedNow.AddDate(0, -3, 0),
	}}))

	board, _ := pipeline.Board{}.AddLead(models.LeadItem{Prospect: "Dana", Company: "Initech", ProjectedOpportunity: 8000}, fixedNow)
	board, _ = board.AddDeal(models.PipelineItem{Prospect: "Globex", ProjectName: "Portal", Amount: 25000,
		SalesStage: models.SalesStageProposal}, fixedNow)
	require.NoError(t, repo.SaveBoard(ctx, board))

	due := models.NewDate(2024, time.April, 25)
	require.NoError(t, repo.SaveContracts(ctx, []models.GovContractItem{{
		ID: 1, OpportunityNumber: "W91-7", Title: "Records modernization", Agency: "Army",
		Status: models.ContractStatusPreparing, Priority: models.PriorityHigh,
		EstimatedValue: 500000, ResponseDeadline: &due,
		ActionItems: []models.ActionItem{{Description: "Draft past performance"}},
	}}))

	require.NoError(t, repo.SaveFinancial(ctx, models.FinancialData{
		Period:      models.PeriodMonth,
		PeriodDate:  models.NewDate(2024, time.March, 1),
		Income:      models.Section{Total: 120000, Categories: []models.Category{}},
		Expenses:    models.Section{Total: 80000, Categories: []models.Category{}},
		GrossProfit: models.GrossProfit{Total: 40000, Margin: 33.3},
		RunRate:     &models.RunRate{Calculated: 1290.32, DaysInPeriod: 31},
		Receivables: []models.Receivable{{Client: "Globex", Amount: 15000, Status: models.AgingCurrent}},
	}))
}

func get(t *testing.T, srv *Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) (Response, json.RawMessage) {
	t.Helper()
	var raw struct {
		Code int             `json:"code"`
		Msg  string          `json:"msg"`
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	return Response{Code: raw.Code, Msg: raw.Msg}, raw.Data
}

func TestAPIGoals(t *testing.T) {
	srv, repo := newTestServer(t, nil)
	seed(t, repo)

	w := get(t, srv, http.MethodGet, "/api/goals")
	require.Equal(t, http.StatusOK, w.Code)

	resp, data := decode(t, w)
	assert.Equal(t, 0, resp.Code)
	assert.Equal(t, "success", resp.Msg)

	var goals []struct {
		Name    string `json:"name"`
		Metrics struct {
			Progress string `json:"progress"`
		} `json:"metrics"`
	}
	require.NoError(t, json.Unmarshal(data, &goals))
	require.Len(t, goals, 1)
	assert.Equal(t, "Reach 100 customers", goals[0].Name)
	assert.Equal(t, "40.0", goals[0].Metrics.Progress)
}

func TestAPIGoals_EmptyStore(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	w := get(t, srv, http.MethodGet, "/api/goals")
	require.Equal(t, http.StatusOK, w.Code)
	_, data := decode(t, w)
	assert.JSONEq(t, `[]`, string(data))
}

func TestAPIFinance(t *testing.T) {
	srv, repo := newTestServer(t, nil)
	seed(t, repo)

	tests := []struct {
		name   string
		path   string
		status int
		msg    string
	}{
		{"any date in the month", "/api/finance/month/2024-03-15", http.StatusOK, "success"},
		{"missing report", "/api/finance/month/2024-02-01", http.StatusNotFound, "no financial report for month 2024-02-01"},
		{"bad period", "/api/finance/week/2024-03-01", http.StatusBadRequest, "invalid period: week"},
		{"bad date", "/api/finance/month/march", http.StatusBadRequest, "invalid date (use YYYY-MM-DD): march"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(t, srv, http.MethodGet, tt.path)
			assert.Equal(t, tt.status, w.Code)
			resp, _ := decode(t, w)
			assert.Equal(t, tt.msg, resp.Msg)
		})
	}
}

func TestAPISalesMetrics(t *testing.T) {
	srv, repo := newTestServer(t, nil)
	seed(t, repo)

	w := get(t, srv, http.MethodGet, "/api/metrics/sales")
	require.Equal(t, http.StatusOK, w.Code)

	_, data := decode(t, w)
	var v struct {
		Panel []struct {
			Name string `json:"name"`
		} `json:"panel"`
	}
	require.NoError(t, json.Unmarshal(data, &v))
	assert.NotEmpty(t, v.Panel)
}

func TestAPIDeveloperMetrics(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	w := get(t, srv, http.MethodGet, "/api/metrics/developers")
	require.Equal(t, http.StatusOK, w.Code)
	resp, _ := decode(t, w)
	assert.Equal(t, 0, resp.Code)
}

func TestAPIExport(t *testing.T) {
	srv, repo := newTestServer(t, nil)
	seed(t, repo)

	w := get(t, srv, http.MethodGet, "/api/export.json")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "bizdash-export-2024-04-15.json")

	var env struct {
		Version      int               `json:"version"`
		Goals        []json.RawMessage `json:"goals"`
		GovContracts []json.RawMessage `json:"govContracts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, 1, env.Version)
	assert.Len(t, env.Goals, 1)
	assert.Len(t, env.GovContracts, 1)

	w = get(t, srv, http.MethodGet, "/api/export.md")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "bizdash-export-2024-04-15.md")
	assert.Contains(t, w.Body.String(), "# Business Dashboard")
	assert.Contains(t, w.Body.String(), "W91-7")
}

func TestAPISync(t *testing.T) {
	t.Run("no syncer", func(t *testing.T) {
		srv, _ := newTestServer(t, nil)
		w := get(t, srv, http.MethodPost, "/api/sync")
		assert.Equal(t, http.StatusNotImplemented, w.Code)
	})

	t.Run("success", func(t *testing.T) {
		syncer := &fakeSyncer{}
		srv, _ := newTestServer(t, syncer)
		w := get(t, srv, http.MethodPost, "/api/sync")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, syncer.calls)
	})

	t.Run("failure", func(t *testing.T) {
		srv, _ := newTestServer(t, &fakeSyncer{err: errors.New("connection refused")})
		w := get(t, srv, http.MethodPost, "/api/sync")
		assert.Equal(t, http.StatusBadGateway, w.Code)
		resp, _ := decode(t, w)
		assert.Equal(t, "sync failed: connection refused", resp.Msg)
	})

	t.Run("GET not routed", func(t *testing.T) {
		srv, _ := newTestServer(t, &fakeSyncer{})
		w := get(t, srv, http.MethodGet, "/api/sync")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestPages(t *testing.T) {
	srv, repo := newTestServer(t, nil)
	seed(t, repo)

	tests := []struct {
		path string
		want []string
	}{
		{"/", []string{"<h1>Dashboard</h1>", "Sales Pipeline", "W91-7 Records modernization: response due in 10 days", "$120000.00"}},
		{"/goals", []string{"Reach 100 customers", "40.0%"}},
		{"/pipeline", []string{"Leads", "Dana", "Initech", "Globex", "$25000.00", "Active Clients"}},
		{"/finance", []string{"2024-03-01", "$120000.00", "33.3%", "$15000.00"}},
		{"/contracts", []string{"W91-7", "Army", "2024-04-25 (10 days)", "Draft past performance"}},
		{"/export", []string{"<h1>Business Dashboard</h1>", "Download JSON"}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := get(t, srv, http.MethodGet, tt.path)
			require.Equal(t, http.StatusOK, w.Code)
			body := w.Body.String()
			for _, s := range tt.want {
				assert.Contains(t, body, s)
			}
		})
	}
}

func TestPages_EmptyStore(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	for path, want := range map[string]string{
		"/goals":     "No goals yet.",
		"/finance":   "No financial reports imported.",
		"/contracts": "No contracts tracked.",
	} {
		w := get(t, srv, http.MethodGet, path)
		require.Equal(t, http.StatusOK, w.Code, path)
		assert.Contains(t, w.Body.String(), want, path)
	}
}

func TestNewSyncScheduler(t *testing.T) {
	syncer := &fakeSyncer{}

	c, err := newSyncScheduler("@every 15m", syncer)
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)

	c, err = newSyncScheduler("*/5 * * * *", syncer)
	require.NoError(t, err)
	assert.NotNil(t, c)

	_, err = newSyncScheduler("whenever", syncer)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid sync schedule "whenever"`)
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$1234.50", formatMoney(1234.5))
	assert.Equal(t, "-$20.00", formatMoney(-20))
}
