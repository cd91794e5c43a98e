package plan

// Step is one of the five fixed stages of the tour pipeline.
type Step string

const (
	StepCheckWeather   Step = "check_weather"
	StepScoutVenues    Step = "scout_venues"
	StepSplitBudget    Step = "split_budget"
	StepWriteItinerary Step = "write_itinerary"
	StepReview         Step = "review"
)

// DefaultOrder returns the canonical execution order. Callers own the
// returned slice.
func DefaultOrder() []Step {
	return []Step{StepCheckWeather, StepScoutVenues, StepSplitBudget, StepWriteItinerary, StepReview}
}

// ParseStep maps a raw step name onto the vocabulary. Unknown names report
// ok=false and are discarded at the boundary.
func ParseStep(name string) (Step, bool) {
	switch Step(name) {
	case StepCheckWeather, StepScoutVenues, StepSplitBudget, StepWriteItinerary, StepReview:
		return Step(name), true
	}
	return "", false
}

func (s Step) String() string {
	return string(s)
}

// defaultIndex returns the position of s in the canonical order, or -1.
func defaultIndex(s Step) int {
	for i, d := range DefaultOrder() {
		if d == s {
			return i
		}
	}
	return -1
}

// StepNames renders a step sequence as plain strings for logs and payloads.
func StepNames(steps []Step) []string {
	names := make([]string, 0, len(steps))
	for _, s := range steps {
		names = append(names, string(s))
	}
	return names
}
