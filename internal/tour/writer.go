package tour

import (
	"context"
	"fmt"
	"strings"

	"foodietour/internal/llm"
	"foodietour/internal/plan"
)

const writerSystem = "You are a concise foodie itinerary writer. " +
	"Honor indoor/outdoor constraints and the total budget. " +
	"The user will provide city, vibe, weather, shortlist, and per-stop budget split. " +
	"Please include price per each restaurant and details about what makes each venue special. " +
	"Create engaging descriptions that highlight the unique atmosphere, cuisine, and experience. " +
	"IMPORTANT: Return ONLY valid JSON with this exact structure:\n" +
	"{\n" +
	`  "title": "Tour Title",` + "\n" +
	`  "stops": ["Venue Name 1", "Venue Name 2", "Venue Name 3"],` + "\n" +
	`  "summary": "Brief description of the tour experience"` + "\n" +
	"}\n" +
	"Do not include any extra text, code fences, or explanations outside the JSON."

// Writer turns the run state into itinerary prose via the language model,
// with a deterministic template when the model is unavailable or returns an
// unusable document.
type Writer struct {
	LLM *llm.Client
}

func (w *Writer) Name() string { return "writer" }

type itineraryJSON struct {
	Title   string   `json:"title"`
	Stops   []string `json:"stops"`
	Summary string   `json:"summary"`
}

func (w *Writer) Run(ctx context.Context, state *State) error {
	doc, err := w.generate(ctx, state)
	if err != nil {
		state.Itinerary = w.template(state)
		state.AddReasoning(Reasoning{
			Agent:    w.Name(),
			Decision: "template_fallback",
			Criteria: []string{"llm_unavailable", "basic_coverage"},
			Evidence: []string{
				fmt.Sprintf("fallback_reason=%v", err),
				"template_generated=true",
			},
			Confidence: 0.7,
			NextAction: plan.StepReview.String(),
		})
		return nil
	}

	state.Itinerary = fmt.Sprintf("%s: %s — %s", doc.Title, strings.Join(doc.Stops, ", "), doc.Summary)
	state.AddReasoning(Reasoning{
		Agent:    w.Name(),
		Decision: "llm_itinerary_v1",
		Criteria: []string{"mention_all_venues_if_possible", "respect_indoor_rule"},
		Evidence: []string{
			"llm_success=true",
			fmt.Sprintf("title=%s", doc.Title),
		},
		Confidence: 0.85,
		NextAction: plan.StepReview.String(),
	})
	return nil
}

func (w *Writer) generate(ctx context.Context, state *State) (itineraryJSON, error) {
	if w.LLM == nil {
		return itineraryJSON{}, fmt.Errorf("no llm client configured")
	}

	names := make([]string, 0, len(state.Shortlist))
	for _, v := range state.Shortlist {
		names = append(names, v.Name)
	}
	user := fmt.Sprintf(
		"City: %s\nVibe: %s\nBudget (total): %g\nIndoor required: %t\nWeather: %s\nShortlist: %s\nBudget split: %v\n\n"+
			"Create a food tour itinerary. Return ONLY valid JSON matching this schema:\n"+
			`{"title": "string", "stops": ["venue1", "venue2"], "summary": "string"}`,
		state.City, state.Vibe, state.Budget, state.Weather.IndoorRequired,
		state.Weather.Condition, strings.Join(names, ", "), state.BudgetSplit.PerStop,
	)

	var doc itineraryJSON
	if err := w.LLM.StructuredJSON(ctx, writerSystem, user, &doc); err != nil {
		return itineraryJSON{}, err
	}
	if strings.TrimSpace(doc.Title) == "" || len(doc.Stops) == 0 {
		return itineraryJSON{}, fmt.Errorf("llm itinerary missing title or stops")
	}
	return doc, nil
}

func (w *Writer) template(state *State) string {
	names := make([]string, 0, 2)
	for _, v := range state.Shortlist {
		names = append(names, v.Name)
		if len(names) == 2 {
			break
		}
	}
	seating := "outdoor"
	if state.Weather.IndoorRequired {
		seating = "indoor"
	}
	return fmt.Sprintf(
		"Join us for a %s food tour in %s featuring %s. With %s seating available, we'll enjoy %d stops within your $%g budget.",
		state.Vibe, state.City, strings.Join(names, ", "), seating, len(state.Shortlist), state.Budget,
	)
}
