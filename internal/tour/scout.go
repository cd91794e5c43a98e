package tour

import (
	"context"
	"fmt"

	"foodietour/internal/plan"
	"foodietour/internal/venues"
)

// Scout filters the venue catalog down to a shortlist that honors the vibe
// and the indoor rule. A missing or invalid catalog falls back to the
// builtin set.
type Scout struct {
	CatalogPath string
}

func (s *Scout) Name() string { return "scout" }

func (s *Scout) Run(ctx context.Context, state *State) error {
	catalog, err := venues.Load(s.CatalogPath)
	source := s.CatalogPath
	if err != nil {
		catalog = venues.Builtin()
		source = "builtin"
	}

	state.Shortlist = venues.Filter(catalog, state.Vibe, state.Weather.IndoorRequired)

	state.AddReasoning(Reasoning{
		Agent:    s.Name(),
		Decision: "venue_filter_pass",
		Criteria: []string{
			fmt.Sprintf("indoor_required=%t", state.Weather.IndoorRequired),
			fmt.Sprintf("vibe=%s", state.Vibe),
		},
		Evidence: []string{
			fmt.Sprintf("count=%d", len(state.Shortlist)),
			fmt.Sprintf("catalog=%s", source),
		},
		Confidence: 0.9,
		NextAction: plan.StepSplitBudget.String(),
	})
	return nil
}
