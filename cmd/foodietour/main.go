package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"foodietour/internal/audit"
	"foodietour/internal/budget"
	"foodietour/internal/config"
	"foodietour/internal/llm"
	"foodietour/internal/plan"
	"foodietour/internal/report"
	"foodietour/internal/tour"
)

const appName = "foodietour"

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s: multi-agent food tour planning\n\n", appName)
		fmt.Fprintf(os.Stderr, "Usage:\n  %s [command] [flags]\n\n", appName)
		fmt.Fprintln(os.Stderr, "Commands:")
		fmt.Fprintln(os.Stderr, "  tour     Plan a food tour end to end")
		fmt.Fprintln(os.Stderr, "  plan     Normalize a proposed step order")
		fmt.Fprintln(os.Stderr, "  budgetd  Run the budget split service")
		fmt.Fprintln(os.Stderr, "  audit    Show recent audit events")
		fmt.Fprintln(os.Stderr, "  help     Show this help")
	}

	args := os.Args[1:]
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		flag.Usage()
		return
	}

	switch args[0] {
	case "tour":
		if err := runTour(args[1:]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	case "plan":
		if err := runPlan(args[1:]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	case "budgetd":
		if err := runBudgetd(args[1:]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	case "audit":
		if err := runAudit(args[1:]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", args[0])
		flag.Usage()
		os.Exit(1)
	}
}

func runTour(args []string) error {
	fs := flag.NewFlagSet("tour", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	city := fs.String("city", "Chicago", "City for the tour")
	vibe := fs.String("vibe", "cozy", "Tour vibe preference (cozy|lively)")
	date := fs.String("date", time.Now().UTC().Format("2006-01-02"), "Tour date (YYYY-MM-DD)")
	budgetPP := fs.Float64("budget", 100, "Budget per person")
	venuesPath := fs.String("venues", "", "Path to venue catalog YAML (default: builtin catalog)")
	auditDB := fs.String("audit-db", "", "Path to audit SQLite DB (default: from environment)")
	analyze := fs.Bool("analyze", false, "Show reasoning analysis after the run")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if _, err := time.Parse("2006-01-02", *date); err != nil {
		return fmt.Errorf("parse --date: %w", err)
	}
	if *budgetPP <= 0 {
		return fmt.Errorf("budget must be positive")
	}

	cfg := config.FromEnv()
	if *venuesPath != "" {
		cfg.VenuesPath = *venuesPath
	}
	if *auditDB != "" {
		cfg.AuditDB = *auditDB
	}

	state := tour.NewState(*city, *vibe, *date, *budgetPP)
	pipeline := tour.NewPipeline(cfg)

	fmt.Fprintf(os.Stdout, "Planning a %s food tour in %s on %s ($%g per person)\n\n", *vibe, *city, *date, *budgetPP)

	outcome, err := pipeline.Run(context.Background(), state)
	if err != nil {
		return err
	}

	printOutcome(outcome)
	if *analyze {
		fmt.Fprintln(os.Stdout)
		report.Render(os.Stdout, report.Analyze(state.Reasoning))
	}
	return nil
}

func printOutcome(outcome *tour.Outcome) {
	state := outcome.State

	if outcome.Plan.UsedFallback {
		fmt.Fprintf(os.Stdout, "Planner: fell back to the default order (%s)\n", outcome.Plan.FallbackReason)
	} else {
		fmt.Fprintf(os.Stdout, "Planner: %s\n", strings.Join(plan.StepNames(outcome.Plan.Steps), " -> "))
	}
	for _, c := range outcome.Plan.Corrections {
		fmt.Fprintf(os.Stdout, "  correction: %s\n", c)
	}

	fmt.Fprintln(os.Stdout)
	fmt.Fprintln(os.Stdout, strings.Repeat("=", 60))
	fmt.Fprintln(os.Stdout, "FOODIE TOUR PLAN COMPLETE")
	fmt.Fprintln(os.Stdout, strings.Repeat("=", 60))
	fmt.Fprintf(os.Stdout, "Date: %s\n", state.Date)
	fmt.Fprintf(os.Stdout, "Budget: $%g per person\n", state.Budget)
	fmt.Fprintf(os.Stdout, "Vibe: %s\n", state.Vibe)
	fmt.Fprintf(os.Stdout, "Weather: %s (indoor required: %t)\n", state.Weather.Condition, state.Weather.IndoorRequired)
	fmt.Fprintf(os.Stdout, "Review score: %.1f/1.0\n", state.ReviewScore)

	fmt.Fprintln(os.Stdout, "\nRESTAURANT STOPS:")
	for i, v := range state.Shortlist {
		perStop := 0.0
		if i < len(state.BudgetSplit.PerStop) {
			perStop = state.BudgetSplit.PerStop[i]
		}
		fmt.Fprintf(os.Stdout, "  %d. %s (%s)\n", i+1, v.Name, v.Neighborhood)
		fmt.Fprintf(os.Stdout, "     Budget: $%.2f\n", perStop)
		fmt.Fprintf(os.Stdout, "     Tags: %s\n", strings.Join(v.Tags, ", "))
	}

	fmt.Fprintln(os.Stdout, "\nITINERARY:")
	fmt.Fprintf(os.Stdout, "%q\n", state.Itinerary)

	if state.ReviewerNotes != "" {
		fmt.Fprintln(os.Stdout, "\nREVIEWER NOTES:")
		fmt.Fprintln(os.Stdout, state.ReviewerNotes)
	}
}

func runPlan(args []string) error {
	fs := flag.NewFlagSet("plan", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	steps := fs.String("steps", "", "Comma-separated proposed step names (empty = no proposal)")
	useLLM := fs.Bool("llm", false, "Ask the language model for the proposal instead of --steps")
	showDiff := fs.Bool("diff", false, "Show a unified diff of proposed vs normalized order")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *useLLM && *steps != "" {
		return fmt.Errorf("--llm and --steps are mutually exclusive")
	}

	var (
		proposal plan.Proposal
		srcErr   error
	)
	switch {
	case *useLLM:
		cfg := config.FromEnv()
		state := tour.NewState("Chicago", "cozy", time.Now().UTC().Format("2006-01-02"), 100)
		proposal, srcErr = tour.LLMSource(llm.NewClient(cfg.LLM))(context.Background(), state)
	case *steps != "":
		for _, name := range strings.Split(*steps, ",") {
			proposal.Steps = append(proposal.Steps, plan.ProposedStep{Name: strings.TrimSpace(name)})
		}
	}

	result := plan.Normalize(proposal, srcErr)
	if result.UsedFallback {
		fmt.Fprintf(os.Stdout, "Proposal unavailable: %s\n", result.FallbackReason)
	}
	fmt.Fprintf(os.Stdout, "Normalized order: %s\n", strings.Join(plan.StepNames(result.Steps), " -> "))
	for _, c := range result.Corrections {
		fmt.Fprintf(os.Stdout, "  correction: %s\n", c)
	}

	if *showDiff {
		diff, err := plan.DiffProposal(proposal, result)
		if err != nil {
			return fmt.Errorf("render diff: %w", err)
		}
		if diff == "" {
			fmt.Fprintln(os.Stdout, "No changes.")
		} else {
			fmt.Fprint(os.Stdout, diff)
		}
	}
	return nil
}

func runBudgetd(args []string) error {
	fs := flag.NewFlagSet("budgetd", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	addr := fs.String("addr", ":8001", "Listen address")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Budget service listening on %s\n", *addr)
	return http.ListenAndServe(*addr, budget.Handler())
}

func runAudit(args []string) error {
	fs := flag.NewFlagSet("audit", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	auditDB := fs.String("audit-db", "", "Path to audit SQLite DB (default: from environment)")
	limit := fs.Int("limit", 20, "Maximum number of events to show")

	if err := fs.Parse(args); err != nil {
		return err
	}

	dbPath := *auditDB
	if dbPath == "" {
		dbPath = config.FromEnv().AuditDB
	}

	events, err := audit.NewLogger(dbPath).Recent(*limit)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Fprintln(os.Stdout, "No audit events.")
		return nil
	}
	for _, e := range events {
		fmt.Fprintf(os.Stdout, "%s  %-12s %-18s %s\n", e.TS.Format(time.RFC3339), e.Actor, e.Type, e.Payload)
	}
	return nil
}
