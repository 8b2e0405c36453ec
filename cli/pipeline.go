// ABOUTME: Pipeline CLI commands
// ABOUTME: Handles leads, deals, stage moves and the per-stage board listing
package cli

import (
	"context"
	"flag"
	"fmt"
	"slices"

	"github.com/harperreed/bizdash/models"
	"github.com/harperreed/bizdash/pipeline"
	"github.com/harperreed/bizdash/store"
)

// AddLeadCommand adds a lead to the top of the pipeline.
func AddLeadCommand(repo *store.Repository, args []string) error {
	fs := flag.NewFlagSet("add-lead", flag.ExitOnError)
	prospect := fs.String("prospect", "", "Prospect name (required)")
	company := fs.String("company", "", "Company name")
	source := fs.String("source", "", "Where the lead came from")
	projected := fs.Float64("projected", 0, "Projected opportunity value")
	notes := fs.String("notes", "", "General notes")
	_ = fs.Parse(args)

	if *prospect == "" {
		return fmt.Errorf("--prospect is required")
	}

	ctx := context.Background()
	board, err := repo.Board(ctx)
	if err != nil {
		return fmt.Errorf("failed to load pipeline: %w", err)
	}

	next, lead := board.AddLead(models.LeadItem{
		Prospect:             *prospect,
		Company:              *company,
		Source:               *source,
		ProjectedOpportunity: *projected,
		Notes:                models.LeadNotes{General: *notes},
	}, now())
	if err := repo.SaveBoard(ctx, next); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "✓ Created lead: %s (ID: %d)\n", lead.Prospect, lead.ID)
	return nil
}

// ConvertLeadCommand turns a lead into a sales opportunity.
func ConvertLeadCommand(repo *store.Repository, args []string) error {
	fs := flag.NewFlagSet("convert-lead", flag.ExitOnError)
	_ = fs.Parse(args)

	id, err := parseID(fs, "lead")
	if err != nil {
		return err
	}

	ctx := context.Background()
	board, err := repo.Board(ctx)
	if err != nil {
		return fmt.Errorf("failed to load pipeline: %w", err)
	}
	next, deal, err := board.ConvertLead(id, now())
	if err != nil {
		return err
	}
	if err := repo.SaveBoard(ctx, next); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "✓ Converted lead to opportunity: %s (ID: %d)\n", deal.Prospect, deal.ID)
	return nil
}

// AddDealCommand adds a sales opportunity.
func AddDealCommand(repo *store.Repository, args []string) error {
	fs := flag.NewFlagSet("add-deal", flag.ExitOnError)
	prospect := fs.String("prospect", "", "Prospect name (required)")
	project := fs.String("project", "", "Project name")
	amount := fs.Float64("amount", 0, "Deal amount")
	salesStage := fs.String("stage", models.SalesStageProspecting, "Sales stage (prospecting, qualification, proposal, negotiation, closing)")
	payment := fs.String("payment", "", "Payment type: MRR, Project or Hybrid")
	mrr := fs.Float64("mrr", 0, "Monthly recurring amount")
	nextStep := fs.String("next-step", "", "Next step")
	nextStepDate := fs.String("next-step-date", "", "Next step date YYYY-MM-DD")
	_ = fs.Parse(args)

	if *prospect == "" {
		return fmt.Errorf("--prospect is required")
	}
	if !slices.Contains(models.SalesStages, *salesStage) {
		return fmt.Errorf("invalid stage: %s", *salesStage)
	}

	item := models.PipelineItem{
		Prospect:    *prospect,
		ProjectName: *project,
		Amount:      *amount,
		SalesStage:  *salesStage,
		PaymentType: models.PaymentType(*payment),
		MRRAmount:   *mrr,
		NextStep:    *nextStep,
	}
	if *nextStepDate != "" {
		d, err := models.ParseDate(*nextStepDate)
		if err != nil {
			return fmt.Errorf("invalid next-step-date format (use YYYY-MM-DD): %w", err)
		}
		item.NextStepDate = &d
	}

	ctx := context.Background()
	board, err := repo.Board(ctx)
	if err != nil {
		return fmt.Errorf("failed to load pipeline: %w", err)
	}
	next, deal := board.AddDeal(item, now())
	if err := repo.SaveBoard(ctx, next); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "✓ Created deal: %s (ID: %d)\n", deal.Prospect, deal.ID)
	fmt.Fprintf(stdout, "  Amount: %s\n", money(deal.Amount))
	fmt.Fprintf(stdout, "  Stage: %s\n", deal.SalesStage)
	return nil
}

// MoveDealCommand moves an item between pipeline stages.
func MoveDealCommand(repo *store.Repository, args []string) error {
	fs := flag.NewFlagSet("move-deal", flag.ExitOnError)
	fromFlag := fs.String("from", "", "Current stage: lead, sales, active, lost, former (required)")
	toFlag := fs.String("to", "", "Target stage: lead, sales, active, lost, former (required)")
	_ = fs.Parse(args)

	id, err := parseID(fs, "deal")
	if err != nil {
		return err
	}
	from, err := pipeline.ParseStage(*fromFlag)
	if err != nil {
		return err
	}
	to, err := pipeline.ParseStage(*toFlag)
	if err != nil {
		return err
	}

	ctx := context.Background()
	board, err := repo.Board(ctx)
	if err != nil {
		return fmt.Errorf("failed to load pipeline: %w", err)
	}
	next, item, err := board.Move(id, from, to, now())
	if err != nil {
		return err
	}
	if err := repo.SaveBoard(ctx, next); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "✓ Moved %s: %s → %s\n", item.Prospect, from.Label(), to.Label())
	return nil
}

// ListPipelineCommand prints every stage, or one with --stage.
func ListPipelineCommand(repo *store.Repository, args []string) error {
	fs := flag.NewFlagSet("list-pipeline", flag.ExitOnError)
	stageFlag := fs.String("stage", "", "Only show one stage: lead, sales, active, lost, former")
	_ = fs.Parse(args)

	stages := pipeline.Stages
	if *stageFlag != "" {
		stage, err := pipeline.ParseStage(*stageFlag)
		if err != nil {
			return err
		}
		stages = []pipeline.Stage{stage}
	}

	board, err := repo.Board(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load pipeline: %w", err)
	}

	for i, stage := range stages {
		if i > 0 {
			fmt.Fprintln(stdout)
		}
		fmt.Fprintf(stdout, "%s (%d)\n", stage.Label(), board.Count(stage))
		if board.Count(stage) == 0 {
			continue
		}
		if err := printStage(board, stage); err != nil {
			return err
		}
	}
	return nil
}

func printStage(board pipeline.Board, stage pipeline.Stage) error {
	w := newTable()
	if stage == pipeline.StageLead {
		fmt.Fprintln(w, "ID\tPROSPECT\tCOMPANY\tSOURCE\tPROJECTED\tSTATUS")
		fmt.Fprintln(w, "--\t--------\t-------\t------\t---------\t------")
		for _, l := range board.Leads {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
				l.ID, l.Prospect, l.Company, l.Source, money(l.ProjectedOpportunity), l.Status)
		}
		return w.Flush()
	}

	fmt.Fprintln(w, "ID\tPROSPECT\tPROJECT\tAMOUNT\tSTAGE\tNEXT STEP")
	fmt.Fprintln(w, "--\t--------\t-------\t------\t-----\t---------")
	for _, p := range board.Items(stage) {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			p.ID, p.Prospect, p.ProjectName, money(p.Amount), p.SalesStage, p.NextStep)
	}
	return w.Flush()
}
