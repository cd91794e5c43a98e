package tour

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"foodietour/internal/audit"
	"foodietour/internal/budget"
	"foodietour/internal/config"
	"foodietour/internal/llm"
	"foodietour/internal/plan"
	"foodietour/internal/weather"
)

// Pipeline coordinates a tour run: it obtains a step proposal from the
// source, normalizes it into a valid order, and executes the agents in that
// order while recording reasoning and audit events.
type Pipeline struct {
	Source Source
	Agents map[plan.Step]Agent
	Audit  *audit.Logger
}

// NewPipeline wires the standard agent set from configuration.
func NewPipeline(cfg config.App) *Pipeline {
	llmClient := llm.NewClient(cfg.LLM)
	return &Pipeline{
		Source: LLMSource(llmClient),
		Agents: map[plan.Step]Agent{
			plan.StepCheckWeather:   &Researcher{Weather: weather.NewClient(cfg.Weather)},
			plan.StepScoutVenues:    &Scout{CatalogPath: cfg.VenuesPath},
			plan.StepSplitBudget:    &Budgeter{Service: budget.NewClient(cfg.BudgetService)},
			plan.StepWriteItinerary: &Writer{LLM: llmClient},
			plan.StepReview:         &Reviewer{LLM: llmClient},
		},
		Audit: audit.NewLogger(cfg.AuditDB),
	}
}

// Outcome is the full record of one pipeline run.
type Outcome struct {
	CorrelationID string
	Proposal      plan.Proposal
	Plan          plan.Result
	State         *State
}

// Run executes the tour for state. Audit failures never fail the run; a
// missing agent for a normalized step does.
func (p *Pipeline) Run(ctx context.Context, state *State) (*Outcome, error) {
	correlationID := uuid.NewString()
	_ = p.Audit.LogEvent("coordinator", "tour_started", map[string]any{
		"correlation_id": correlationID,
		"city":           state.City,
		"vibe":           state.Vibe,
		"date":           state.Date,
		"budget":         state.Budget,
	})

	proposal, srcErr := p.Source(ctx, state)
	if srcErr == nil {
		evidence := make([]string, 0, len(proposal.Steps))
		for _, ps := range proposal.Steps {
			if _, ok := plan.ParseStep(ps.Name); ok {
				evidence = append(evidence, fmt.Sprintf("%s: %s", ps.Name, ps.Rationale))
			}
		}
		state.AddReasoning(Reasoning{
			Agent:      "planner",
			Decision:   "llm_plan_received",
			Criteria:   []string{"llm_rationales", "step_validation"},
			Evidence:   evidence,
			Confidence: 0.9,
			NextAction: "validate_and_normalize",
		})
	}

	result := plan.Normalize(proposal, srcErr)
	if result.UsedFallback {
		state.AddReasoning(Reasoning{
			Agent:      "planner",
			Decision:   "llm_plan_fallback",
			Criteria:   []string{"validation_error"},
			Evidence:   []string{result.FallbackReason},
			Confidence: 0.3,
			NextAction: "deterministic_flow",
		})
	} else {
		state.AddReasoning(Reasoning{
			Agent:      "planner",
			Decision:   "llm_plan_normalized",
			Criteria:   []string{"step_validation", "ordering_rules"},
			Evidence:   []string{"final_order: " + strings.Join(plan.StepNames(result.Steps), ", ")},
			Confidence: 0.85,
			NextAction: "begin_execution",
		})
	}
	state.AddReasoning(Reasoning{
		Agent:      "planner",
		Decision:   "execute_workflow",
		Criteria:   []string{"ordered_steps"},
		Evidence:   []string{strings.Join(plan.StepNames(result.Steps), ", ")},
		Confidence: 0.9,
		NextAction: "begin_execution",
	})

	diff, _ := plan.DiffProposal(proposal, result)
	_ = p.Audit.LogEvent("planner", "plan_normalized", map[string]any{
		"correlation_id":  correlationID,
		"steps":           plan.StepNames(result.Steps),
		"corrections":     result.Corrections,
		"used_fallback":   result.UsedFallback,
		"fallback_reason": result.FallbackReason,
		"diff":            diff,
	})

	for _, step := range result.Steps {
		agent, ok := p.Agents[step]
		if !ok {
			return nil, fmt.Errorf("no agent registered for step %s", step)
		}

		state.AddReasoning(Reasoning{
			Agent:      "planner",
			Decision:   "execute_step",
			Criteria:   []string{step.String()},
			Evidence:   []string{"from_plan"},
			Confidence: 0.9,
			NextAction: "do:" + step.String(),
		})
		_ = p.Audit.LogEvent(agent.Name(), "step_started", map[string]any{
			"correlation_id": correlationID,
			"step":           step.String(),
		})

		if err := agent.Run(ctx, state); err != nil {
			_ = p.Audit.LogEvent(agent.Name(), "step_failed", map[string]any{
				"correlation_id": correlationID,
				"step":           step.String(),
				"error":          err.Error(),
			})
			return nil, fmt.Errorf("step %s: %w", step, err)
		}

		_ = p.Audit.LogEvent(agent.Name(), "step_finished", map[string]any{
			"correlation_id": correlationID,
			"step":           step.String(),
		})
	}

	_ = p.Audit.LogEvent("coordinator", "tour_finished", map[string]any{
		"correlation_id": correlationID,
		"review_score":   state.ReviewScore,
		"stops":          len(state.Shortlist),
	})

	return &Outcome{
		CorrelationID: correlationID,
		Proposal:      proposal,
		Plan:          result,
		State:         state,
	}, nil
}
