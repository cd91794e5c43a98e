package tour

import (
	"context"
	"fmt"

	"foodietour/internal/budget"
	"foodietour/internal/plan"
)

// Budgeter splits the per-person budget across the shortlisted stops via
// the budget service, local fallback included.
type Budgeter struct {
	Service *budget.Client
}

func (b *Budgeter) Name() string { return "budget" }

func (b *Budgeter) Run(ctx context.Context, state *State) error {
	stops := len(state.Shortlist)
	if stops < 1 {
		stops = 1
	}

	split, remote := b.Service.SplitBudget(ctx, state.Budget, stops)
	state.BudgetSplit = split

	state.AddReasoning(Reasoning{
		Agent:    b.Name(),
		Decision: "split_computed",
		Criteria: []string{"buffer=10%", fmt.Sprintf("stops=%d", stops)},
		Evidence: []string{
			fmt.Sprintf("per_stop=%v", split.PerStop),
			fmt.Sprintf("remote=%t", remote),
		},
		Confidence: 0.9,
		NextAction: plan.StepWriteItinerary.String(),
	})
	return nil
}
