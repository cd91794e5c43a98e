package tour

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"foodietour/internal/audit"
	"foodietour/internal/budget"
	"foodietour/internal/config"
	"foodietour/internal/plan"
	"foodietour/internal/weather"
)

// offlinePipeline wires every collaborator so that no network endpoint is
// reachable. Each agent must take its deterministic fallback path.
func offlinePipeline(t *testing.T, source Source) *Pipeline {
	t.Helper()
	unreachable := config.Weather{BaseURL: "http://127.0.0.1:1", Timeout: time.Second}
	return &Pipeline{
		Source: source,
		Agents: map[plan.Step]Agent{
			plan.StepCheckWeather:   &Researcher{Weather: weather.NewClient(unreachable)},
			plan.StepScoutVenues:    &Scout{},
			plan.StepSplitBudget:    &Budgeter{Service: budget.NewClient(config.BudgetService{})},
			plan.StepWriteItinerary: &Writer{},
			plan.StepReview:         &Reviewer{},
		},
		Audit: audit.NewLogger(filepath.Join(t.TempDir(), "events.db")),
	}
}

func proposalSource(names ...string) Source {
	return func(ctx context.Context, state *State) (plan.Proposal, error) {
		var p plan.Proposal
		for _, n := range names {
			p.Steps = append(p.Steps, plan.ProposedStep{Name: n, Rationale: "because " + n})
		}
		return p, nil
	}
}

func failingSource(msg string) Source {
	return func(ctx context.Context, state *State) (plan.Proposal, error) {
		return plan.Proposal{}, fmt.Errorf("%s", msg)
	}
}

func TestRunFallsBackToDefaultOrder(t *testing.T) {
	p := offlinePipeline(t, failingSource("llm unreachable"))
	state := NewState("Chicago", "lively", "2026-08-25", 100)

	outcome, err := p.Run(context.Background(), state)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !outcome.Plan.UsedFallback {
		t.Fatal("UsedFallback = false, want true")
	}
	if got, want := outcome.Plan.FallbackReason, "llm unreachable"; got != want {
		t.Fatalf("FallbackReason = %q, want %q", got, want)
	}
	for i, step := range plan.DefaultOrder() {
		if outcome.Plan.Steps[i] != step {
			t.Fatalf("Steps[%d] = %s, want %s", i, outcome.Plan.Steps[i], step)
		}
	}
}

func TestRunOfflineEndToEnd(t *testing.T) {
	p := offlinePipeline(t, proposalSource("scout_venues", "check_weather", "review"))
	state := NewState("Chicago", "lively", "2026-08-25", 100)

	outcome, err := p.Run(context.Background(), state)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got, want := len(outcome.Plan.Corrections), 3; got != want {
		t.Fatalf("len(Corrections) = %d, want %d: %v", got, want, outcome.Plan.Corrections)
	}

	// Weather endpoint is unreachable, so the clear fallback applies and
	// the indoor rule stays off.
	if state.Weather.Source != "fallback" || state.Weather.IndoorRequired {
		t.Fatalf("unexpected weather: %+v", state.Weather)
	}

	// Builtin catalog, vibe "lively": Au Cheval and The Publican, cheapest
	// first.
	if len(state.Shortlist) != 2 {
		t.Fatalf("len(Shortlist) = %d, want 2: %+v", len(state.Shortlist), state.Shortlist)
	}
	if state.Shortlist[0].Name != "Au Cheval" || state.Shortlist[1].Name != "The Publican" {
		t.Fatalf("unexpected shortlist: %+v", state.Shortlist)
	}

	// Two stops of a $100 budget with the 10% buffer.
	if want := []float64{56.25, 33.75}; len(state.BudgetSplit.PerStop) != 2 ||
		state.BudgetSplit.PerStop[0] != want[0] || state.BudgetSplit.PerStop[1] != want[1] {
		t.Fatalf("PerStop = %v, want %v", state.BudgetSplit.PerStop, want)
	}

	// No LLM: the writer must use its template.
	wantItinerary := "Join us for a lively food tour in Chicago featuring Au Cheval, The Publican. " +
		"With outdoor seating available, we'll enjoy 2 stops within your $100 budget."
	if state.Itinerary != wantItinerary {
		t.Fatalf("Itinerary = %q, want %q", state.Itinerary, wantItinerary)
	}

	// Rubric: no indoor points (rule off), 0.3 variety, 0.3 budget.
	if got, want := state.ReviewScore, 0.6; got != want {
		t.Fatalf("ReviewScore = %v, want %v", got, want)
	}
	if state.ReviewerNotes != fallbackNotes {
		t.Fatalf("ReviewerNotes = %q, want fallback notes", state.ReviewerNotes)
	}
}

func TestRunRecordsReasoningSequence(t *testing.T) {
	p := offlinePipeline(t, proposalSource("check_weather", "scout_venues", "split_budget", "write_itinerary", "review"))
	state := NewState("Chicago", "cozy", "2026-08-25", 100)

	if _, err := p.Run(context.Background(), state); err != nil {
		t.Fatalf("Run: %v", err)
	}

	var decisions []string
	for _, r := range state.Reasoning {
		if r.Agent == "planner" {
			decisions = append(decisions, r.Decision)
		}
	}
	want := []string{
		"llm_plan_received", "llm_plan_normalized", "execute_workflow",
		"execute_step", "execute_step", "execute_step", "execute_step", "execute_step",
	}
	if strings.Join(decisions, ",") != strings.Join(want, ",") {
		t.Fatalf("planner decisions = %v, want %v", decisions, want)
	}

	// Each executed step contributes the agent's own entry as well.
	if got, want := len(state.Reasoning), len(want)+5; got != want {
		t.Fatalf("len(Reasoning) = %d, want %d", got, want)
	}
	for _, r := range state.Reasoning {
		if r.Timestamp.IsZero() {
			t.Fatalf("reasoning %s/%s missing timestamp", r.Agent, r.Decision)
		}
	}
}

func TestRunWritesAuditTrail(t *testing.T) {
	p := offlinePipeline(t, failingSource("llm unreachable"))
	state := NewState("Chicago", "cozy", "2026-08-25", 100)

	if _, err := p.Run(context.Background(), state); err != nil {
		t.Fatalf("Run: %v", err)
	}

	events, err := p.Audit.Recent(50)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	// tour_started, plan_normalized, 5x(step_started+step_finished),
	// tour_finished.
	if got, want := len(events), 13; got != want {
		t.Fatalf("len(events) = %d, want %d", got, want)
	}
	if events[0].Type != "tour_finished" || events[len(events)-1].Type != "tour_started" {
		t.Fatalf("unexpected event bracket: first=%s last=%s", events[0].Type, events[len(events)-1].Type)
	}
}

func TestRunFailsWithoutRegisteredAgent(t *testing.T) {
	p := offlinePipeline(t, failingSource("llm unreachable"))
	delete(p.Agents, plan.StepReview)

	if _, err := p.Run(context.Background(), NewState("Chicago", "cozy", "2026-08-25", 100)); err == nil {
		t.Fatal("expected error for missing agent")
	}
}
