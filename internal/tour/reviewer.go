package tour

import (
	"context"
	"fmt"
	"strings"

	"foodietour/internal/llm"
)

const reviewerSystem = "You are a strict but helpful reviewer of a food tour plan. " +
	"Explain in terse bullets: strengths, indoor-rule issues, variety gaps, and budget risks. " +
	"Be specific and actionable."

const fallbackNotes = "Score calculated based on indoor compliance, variety, and budget efficiency."

// Reviewer scores the plan against a fixed rubric. The score is always
// deterministic; only the notes may come from the language model.
type Reviewer struct {
	LLM *llm.Client
}

func (r *Reviewer) Name() string { return "reviewer" }

func (r *Reviewer) Run(ctx context.Context, state *State) error {
	score := 0.0

	// Indoor rule compliance, worth 0.4 when it applies and every stop
	// honors it.
	if state.Weather.IndoorRequired {
		compliant := true
		for _, v := range state.Shortlist {
			if v.Outdoor {
				compliant = false
				break
			}
		}
		if compliant {
			score += 0.4
		}
	}

	// Variety across tags, ignoring the seating tags themselves.
	distinct := make(map[string]bool)
	for _, v := range state.Shortlist {
		for _, t := range v.Tags {
			if t == "indoor" || t == "outdoor" {
				continue
			}
			distinct[t] = true
		}
	}
	switch {
	case len(distinct) >= 3:
		score += 0.3
	case len(distinct) >= 2:
		score += 0.2
	}

	// Budget efficiency: the split must not exceed the stated budget.
	if len(state.BudgetSplit.PerStop) > 0 {
		sum := 0.0
		for _, v := range state.BudgetSplit.PerStop {
			sum += v
		}
		if sum <= state.Budget {
			score += 0.3
		}
	}

	if score > 1.0 {
		score = 1.0
	}
	state.ReviewScore = score
	state.ReviewerNotes = r.notes(ctx, state)

	state.AddReasoning(Reasoning{
		Agent:    r.Name(),
		Decision: "rubric_score",
		Criteria: []string{"indoor_compliance", "variety_assessment", "budget_efficiency"},
		Evidence: []string{
			fmt.Sprintf("final_score=%g", state.ReviewScore),
			"rationale_generated=true",
		},
		Confidence: 0.9,
	})
	return nil
}

func (r *Reviewer) notes(ctx context.Context, state *State) string {
	if r.LLM == nil {
		return fallbackNotes
	}

	names := make([]string, 0, len(state.Shortlist))
	for _, v := range state.Shortlist {
		names = append(names, v.Name)
	}
	user := fmt.Sprintf(
		"Shortlist=%s\nBudget split=%v\nScore=%g\nExplain why this score in 2-3 bullet points.",
		strings.Join(names, ", "), state.BudgetSplit.PerStop, state.ReviewScore,
	)

	rationale, err := r.LLM.GenerateText(ctx, reviewerSystem, user, 0)
	if err != nil {
		return fallbackNotes
	}
	return rationale
}
