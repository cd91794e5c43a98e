package tour

import (
	"context"
	"fmt"

	"foodietour/internal/llm"
	"foodietour/internal/plan"
)

// Agent executes one pipeline step against the shared state.
type Agent interface {
	Name() string
	Run(ctx context.Context, state *State) error
}

// Source produces the untrusted step proposal the coordinator normalizes.
// Implementations return an error when they have no usable proposal at all;
// the coordinator then falls back to the default order.
type Source func(ctx context.Context, state *State) (plan.Proposal, error)

const plannerSystem = "You are an expert food tour workflow planner for an AI agent system. Your job is to create a complete, logical workflow.\n\n" +
	"Return ONLY valid JSON with exactly 5 steps and clear rationales for each."

// LLMSource asks the language model for an ordered plan with rationales.
func LLMSource(client *llm.Client) Source {
	return func(ctx context.Context, state *State) (plan.Proposal, error) {
		user := fmt.Sprintf(
			"Inputs: city=%s, vibe=%s, date=%s, budget=%g.\n"+
				`Return JSON: {"steps":[{"name":"check_weather|scout_venues|split_budget|write_itinerary|review","rationale":"why this step now"}]}`+"\n"+
				"Keep the plan concise (3-5 steps).",
			state.City, state.Vibe, state.Date, state.Budget,
		)
		var p plan.Proposal
		if err := client.StructuredJSON(ctx, plannerSystem, user, &p); err != nil {
			return plan.Proposal{}, err
		}
		return p, nil
	}
}
