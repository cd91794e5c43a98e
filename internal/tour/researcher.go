package tour

import (
	"context"
	"fmt"

	"foodietour/internal/plan"
	"foodietour/internal/weather"
)

// Researcher fetches the forecast and sets the indoor rule for the rest of
// the run.
type Researcher struct {
	Weather *weather.Client
}

func (r *Researcher) Name() string { return "researcher" }

func (r *Researcher) Run(ctx context.Context, state *State) error {
	state.Weather = r.Weather.Lookup(ctx, state.Date)

	state.AddReasoning(Reasoning{
		Agent:    r.Name(),
		Decision: "weather_indoor",
		Criteria: []string{"precip_prob>=50"},
		Evidence: []string{
			fmt.Sprintf("precip_prob=%g", state.Weather.PrecipProb),
			fmt.Sprintf("source=%s", state.Weather.Source),
		},
		Confidence: 0.9,
		NextAction: plan.StepScoutVenues.String(),
	})
	return nil
}
