// ABOUTME: Financial report MCP tool handlers
// ABOUTME: Implements import_financial_report, get_financial_report and set_manual_run_rate
package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/bizdash/finance"
	"github.com/harperreed/bizdash/models"
	"github.com/harperreed/bizdash/pdftext"
	"github.com/harperreed/bizdash/store"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type FinanceHandlers struct {
	repo *store.Repository
	now  Clock
}

func NewFinanceHandlers(repo *store.Repository) *FinanceHandlers {
	return &FinanceHandlers{repo: repo, now: time.Now}
}

type ImportFinancialReportInput struct {
	Text       string `json:"text,omitempty" jsonschema:"Plain text of a profit and loss or receivables report"`
	FilePath   string `json:"file_path,omitempty" jsonschema:"Path to a PDF or text report, used when text is empty"`
	Period     string `json:"period,omitempty" jsonschema:"Report period: month (default), quarter, year"`
	PeriodDate string `json:"period_date,omitempty" jsonschema:"Any date inside the period, YYYY-MM-DD (default today)"`
}

type CategoryOutput struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

type ReceivableOutput struct {
	Client          string  `json:"client"`
	InvoiceNumber   string  `json:"invoice_number"`
	Amount          float64 `json:"amount"`
	InvoiceDate     string  `json:"invoice_date"`
	DueDate         string  `json:"due_date"`
	DaysOutstanding int     `json:"days_outstanding"`
	Status          string  `json:"status"`
}

type FinancialReportOutput struct {
	Period             string             `json:"period"`
	PeriodDate         string             `json:"period_date"`
	IncomeTotal        float64            `json:"income_total"`
	IncomeCategories   []CategoryOutput   `json:"income_categories"`
	ExpensesTotal      float64            `json:"expenses_total"`
	ExpenseCategories  []CategoryOutput   `json:"expense_categories"`
	GrossProfit        float64            `json:"gross_profit"`
	GrossMargin        float64            `json:"gross_margin"`
	RunRate            float64            `json:"run_rate"`
	RunRateManual      bool               `json:"run_rate_manual"`
	DaysInPeriod       int                `json:"days_in_period"`
	ReceivablesTotal   float64            `json:"receivables_total"`
	Receivables        []ReceivableOutput `json:"receivables"`
	IncomeStrategy     string             `json:"income_strategy,omitempty"`
	ExpenseStrategy    string             `json:"expense_strategy,omitempty"`
	ReceivableStrategy string             `json:"receivable_strategy,omitempty"`
	ImportedAt         string             `json:"imported_at"`
}

func (h *FinanceHandlers) ImportFinancialReport(ctx context.Context, _ *mcp.CallToolRequest, input ImportFinancialReportInput) (*mcp.CallToolResult, FinancialReportOutput, error) {
	text := input.Text
	if strings.TrimSpace(text) == "" {
		if input.FilePath == "" {
			return nil, FinancialReportOutput{}, fmt.Errorf("text or file_path is required")
		}
		var err error
		if text, err = pdftext.ExtractFile(input.FilePath); err != nil {
			return nil, FinancialReportOutput{}, err
		}
	}

	period, date, err := parsePeriod(input.Period, input.PeriodDate, h.now())
	if err != nil {
		return nil, FinancialReportOutput{}, err
	}

	prior, err := h.repo.Financial(ctx, period, date)
	if err != nil {
		return nil, FinancialReportOutput{}, fmt.Errorf("failed to load existing report: %w", err)
	}

	ex := finance.Extract(text, period, date)
	data := finance.Summarize(ex, period, date, prior)
	if err := h.repo.SaveFinancial(ctx, data); err != nil {
		return nil, FinancialReportOutput{}, err
	}

	out := financialOutput(data)
	out.IncomeStrategy = string(ex.Income.Strategy)
	out.ExpenseStrategy = string(ex.Expenses.Strategy)
	out.ReceivableStrategy = string(ex.Receivables.Strategy)
	return nil, out, nil
}

type GetFinancialReportInput struct {
	Period     string `json:"period,omitempty" jsonschema:"Report period: month (default), quarter, year"`
	PeriodDate string `json:"period_date,omitempty" jsonschema:"Any date inside the period, YYYY-MM-DD (default today)"`
}

func (h *FinanceHandlers) GetFinancialReport(ctx context.Context, _ *mcp.CallToolRequest, input GetFinancialReportInput) (*mcp.CallToolResult, FinancialReportOutput, error) {
	data, err := h.load(ctx, input.Period, input.PeriodDate)
	if err != nil {
		return nil, FinancialReportOutput{}, err
	}
	return nil, financialOutput(*data), nil
}

type SetManualRunRateInput struct {
	Period     string   `json:"period,omitempty" jsonschema:"Report period: month (default), quarter, year"`
	PeriodDate string   `json:"period_date,omitempty" jsonschema:"Any date inside the period, YYYY-MM-DD (default today)"`
	Value      *float64 `json:"value,omitempty" jsonschema:"Daily run rate override; omit to clear the override"`
}

func (h *FinanceHandlers) SetManualRunRate(ctx context.Context, _ *mcp.CallToolRequest, input SetManualRunRateInput) (*mcp.CallToolResult, FinancialReportOutput, error) {
	data, err := h.load(ctx, input.Period, input.PeriodDate)
	if err != nil {
		return nil, FinancialReportOutput{}, err
	}
	if err := finance.SetManualRunRate(data, input.Value); err != nil {
		return nil, FinancialReportOutput{}, err
	}
	if err := h.repo.SaveFinancial(ctx, *data); err != nil {
		return nil, FinancialReportOutput{}, err
	}
	return nil, financialOutput(*data), nil
}

func (h *FinanceHandlers) load(ctx context.Context, periodStr, dateStr string) (*models.FinancialData, error) {
	period, date, err := parsePeriod(periodStr, dateStr, h.now())
	if err != nil {
		return nil, err
	}
	data, err := h.repo.Financial(ctx, period, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load report: %w", err)
	}
	if data == nil {
		return nil, fmt.Errorf("no financial report for %s %s", period, date)
	}
	return data, nil
}

func financialOutput(d models.FinancialData) FinancialReportOutput {
	out := FinancialReportOutput{
		Period:            string(d.Period),
		PeriodDate:        d.PeriodDate.String(),
		IncomeTotal:       d.Income.Total,
		IncomeCategories:  categoryOutputs(d.Income.Categories),
		ExpensesTotal:     d.Expenses.Total,
		ExpenseCategories: categoryOutputs(d.Expenses.Categories),
		GrossProfit:       d.GrossProfit.Total,
		GrossMargin:       d.GrossProfit.Margin,
		RunRate:           d.RunRate.Effective(),
		ReceivablesTotal:  d.ReceivablesTotal(),
		Receivables:       make([]ReceivableOutput, 0, len(d.Receivables)),
		ImportedAt:        d.ImportedAt.Format(time.RFC3339),
	}
	if d.RunRate != nil {
		out.RunRateManual = d.RunRate.Manual != nil
		out.DaysInPeriod = d.RunRate.DaysInPeriod
	}
	for _, r := range d.Receivables {
		out.Receivables = append(out.Receivables, ReceivableOutput{
			Client:          r.Client,
			InvoiceNumber:   r.InvoiceNumber,
			Amount:          r.Amount,
			InvoiceDate:     r.InvoiceDate.String(),
			DueDate:         r.DueDate.String(),
			DaysOutstanding: r.DaysOutstanding,
			Status:          r.Status,
		})
	}
	return out
}

func categoryOutputs(categories []models.Category) []CategoryOutput {
	out := make([]CategoryOutput, 0, len(categories))
	for _, c := range categories {
		out = append(out, CategoryOutput{Name: c.Name, Amount: c.Amount})
	}
	return out
}
