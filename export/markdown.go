// ABOUTME: Deterministic Markdown report of goals, pipeline, contracts and financials
// ABOUTME: Also converts that Markdown to HTML for the web dashboard
package export

import (
	"bytes"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/harperreed/bizdash/metrics"
	"github.com/harperreed/bizdash/models"
	"github.com/harperreed/bizdash/pipeline"
	"github.com/harperreed/bizdash/store"
	"github.com/shopspring/decimal"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var goalCategoryOrder = []models.GoalCategory{
	models.GoalRevenue, models.GoalMRR, models.GoalCashFlow, models.GoalCustom,
}

// Markdown renders the snapshot as a Markdown report. Output depends only on
// the snapshot and now, so two calls with the same inputs are byte-identical.
func Markdown(snap *store.Snapshot, now time.Time) string {
	if snap == nil {
		snap = &store.Snapshot{}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# Business Dashboard\n\n")
	fmt.Fprintf(&b, "_Exported %s_\n\n", models.DateOf(now).String())

	writeGoals(&b, snap.Goals, now)
	writePipeline(&b, snap.Board)
	writeContracts(&b, snap.Contracts, now)
	writeFinancials(&b, snap.Financials)
	return b.String()
}

func writeGoals(b *strings.Builder, goals []models.Goal, now time.Time) {
	b.WriteString("## Goals\n\n")
	if len(goals) == 0 {
		b.WriteString("_No goals._\n\n")
		return
	}

	groups := map[models.GoalCategory][]models.Goal{}
	var extra []models.GoalCategory
	for _, g := range goals {
		cat := g.Category
		if cat == "" {
			cat = models.GoalCustom
		}
		if _, seen := groups[cat]; !seen && !models.IsValidGoalCategory(cat) {
			extra = append(extra, cat)
		}
		groups[cat] = append(groups[cat], g)
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })

	for _, cat := range append(append([]models.GoalCategory{}, goalCategoryOrder...), extra...) {
		list := groups[cat]
		if len(list) == 0 {
			continue
		}
		sort.SliceStable(list, func(i, j int) bool {
			if !list[i].TargetDate.Equal(list[j].TargetDate.Time) {
				return list[i].TargetDate.Before(list[j].TargetDate.Time)
			}
			if list[i].Name != list[j].Name {
				return list[i].Name < list[j].Name
			}
			return list[i].ID < list[j].ID
		})

		fmt.Fprintf(b, "### %s\n\n", cat)
		for _, g := range list {
			m := metrics.CalculateGoalMetrics(g, now)
			track := "behind"
			if m.OnTrack {
				track = "on track"
			}
			fmt.Fprintf(b, "- **%s**: %s of %s%s (%s%%, %s), due %s\n",
				g.Name, formatValue(g.CurrentValue, g.Unit), formatValue(g.TargetValue, g.Unit),
				unitSuffix(g.Unit), m.Progress, track, g.TargetDate.String())
		}
		b.WriteString("\n")
	}
}

func writePipeline(b *strings.Builder, board pipeline.Board) {
	b.WriteString("## Pipeline\n\n")

	fmt.Fprintf(b, "### %s (%d)\n\n", pipeline.StageLead.Label(), len(board.Leads))
	leads := append([]models.LeadItem(nil), board.Leads...)
	sort.SliceStable(leads, func(i, j int) bool { return leads[i].ID < leads[j].ID })
	for _, l := range leads {
		who := l.Prospect
		if l.Company != "" {
			who = fmt.Sprintf("%s (%s)", l.Prospect, l.Company)
		}
		fmt.Fprintf(b, "- %s: %s, projected %s\n", who, l.Status, formatMoney(l.ProjectedOpportunity))
	}
	if len(leads) > 0 {
		b.WriteString("\n")
	}

	for _, stage := range pipeline.Stages[1:] {
		items := append([]models.PipelineItem(nil), board.Items(stage)...)
		fmt.Fprintf(b, "### %s (%d)\n\n", stage.Label(), len(items))
		if len(items) == 0 {
			continue
		}
		sort.SliceStable(items, func(i, j int) bool { return items[i].ID < items[j].ID })

		total := 0.0
		for _, it := range items {
			total += it.Amount
			line := fmt.Sprintf("- %s", it.Prospect)
			if it.ProjectName != "" {
				line += ": " + it.ProjectName
			}
			line += ", " + formatMoney(it.Amount)
			if stage == pipeline.StageSalesOpportunity && it.SalesStage != "" {
				line += " [" + it.SalesStage + "]"
			}
			if it.PaymentType == models.PaymentMRR || it.PaymentType == models.PaymentHybrid {
				line += fmt.Sprintf(" (MRR %s)", formatMoney(it.MRRAmount))
			}
			b.WriteString(line + "\n")
		}
		fmt.Fprintf(b, "\nTotal: %s\n\n", formatMoney(total))
	}
}

func writeContracts(b *strings.Builder, contracts []models.GovContractItem, now time.Time) {
	b.WriteString("## Government Contracts\n\n")
	if len(contracts) == 0 {
		b.WriteString("_No contracts._\n\n")
		return
	}

	byStatus := map[string][]models.GovContractItem{}
	for _, c := range contracts {
		byStatus[c.Status] = append(byStatus[c.Status], c)
	}
	statuses := append([]string{}, models.ContractStatuses...)
	var other []string
	for s := range byStatus {
		if !slices.Contains(models.ContractStatuses, s) {
			other = append(other, s)
		}
	}
	sort.Strings(other)
	statuses = append(statuses, other...)

	for _, status := range statuses {
		list := byStatus[status]
		if len(list) == 0 {
			continue
		}
		sort.SliceStable(list, func(i, j int) bool {
			if list[i].OpportunityNumber != list[j].OpportunityNumber {
				return list[i].OpportunityNumber < list[j].OpportunityNumber
			}
			return list[i].Title < list[j].Title
		})

		heading := status
		if heading == "" {
			heading = "unspecified"
		}
		fmt.Fprintf(b, "### %s (%d)\n\n", heading, len(list))
		for _, c := range list {
			fmt.Fprintf(b, "- **%s** %s", c.OpportunityNumber, c.Title)
			if c.Agency != "" {
				fmt.Fprintf(b, ", %s", c.Agency)
			}
			if c.Priority != "" {
				fmt.Fprintf(b, " [%s]", c.Priority)
			}
			fmt.Fprintf(b, ", est. %s", formatMoney(c.EstimatedValue))
			if days, ok := c.DaysUntilDeadline(now); ok {
				fmt.Fprintf(b, ", response due %s (%d days)", c.ResponseDeadline.String(), days)
			}
			b.WriteString("\n")
			for _, item := range c.OpenActionItems() {
				fmt.Fprintf(b, "  - [ ] %s", item.Description)
				if item.DueDate != nil && !item.DueDate.IsZero() {
					fmt.Fprintf(b, " (due %s)", item.DueDate.String())
				}
				b.WriteString("\n")
			}
		}
		b.WriteString("\n")
	}
}

func writeFinancials(b *strings.Builder, financials map[string]models.FinancialData) {
	b.WriteString("## Financial Reports\n\n")
	if len(financials) == 0 {
		b.WriteString("_No financial reports._\n")
		return
	}

	keys := make([]string, 0, len(financials))
	for k := range financials {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		di, dj := financials[keys[i]].PeriodDate, financials[keys[j]].PeriodDate
		if !di.Equal(dj.Time) {
			return di.After(dj.Time)
		}
		return keys[i] < keys[j]
	})

	for _, k := range keys {
		d := financials[k]
		fmt.Fprintf(b, "### %s %s\n\n", d.Period, d.PeriodDate.String())
		b.WriteString("| Metric | Amount |\n|---|---:|\n")
		fmt.Fprintf(b, "| Income | %s |\n", formatMoney(d.Income.Total))
		fmt.Fprintf(b, "| Gross Profit | %s |\n", formatMoney(d.GrossProfit.Total))
		fmt.Fprintf(b, "| Gross Margin | %.1f%% |\n", d.GrossProfit.Margin)
		fmt.Fprintf(b, "| Expenses | %s |\n", formatMoney(d.Expenses.Total))
		if rr := d.RunRate.Effective(); rr != 0 {
			fmt.Fprintf(b, "| Daily Run Rate | %s |\n", formatMoney(rr))
		}
		if total := d.ReceivablesTotal(); total != 0 {
			fmt.Fprintf(b, "| Receivables | %s |\n", formatMoney(total))
		}
		b.WriteString("\n")
	}
}

// MarkdownHTML converts an exported Markdown report to HTML.
func MarkdownHTML(md string) (string, error) {
	var buf bytes.Buffer
	conv := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := conv.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return buf.String(), nil
}

// formatMoney renders v as dollars with thousands separators, e.g. -$1,234.50.
func formatMoney(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	whole, frac, _ := strings.Cut(d.StringFixed(2), ".")
	return sign + "$" + groupThousands(whole) + "." + frac
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var out strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		out.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if out.Len() > 0 {
			out.WriteByte(',')
		}
		out.WriteString(digits[i : i+3])
	}
	return out.String()
}

func formatValue(v float64, unit string) string {
	if unit == "" || unit == "$" || unit == "USD" {
		return formatMoney(v)
	}
	return decimal.NewFromFloat(v).Round(2).String()
}

func unitSuffix(unit string) string {
	if unit == "" || unit == "$" || unit == "USD" {
		return ""
	}
	return " " + unit
}
