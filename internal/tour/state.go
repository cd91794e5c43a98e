package tour

import (
	"time"

	"foodietour/internal/budget"
	"foodietour/internal/venues"
	"foodietour/internal/weather"
)

// State is the shared working memory of a single tour run. Agents read the
// fields earlier steps filled in and write their own.
type State struct {
	City   string  `json:"city"`
	Vibe   string  `json:"vibe"`
	Date   string  `json:"date"`
	Budget float64 `json:"budget"`

	Weather       weather.Report `json:"weather"`
	Shortlist     []venues.Venue `json:"shortlist"`
	BudgetSplit   budget.Split   `json:"budget_split"`
	Itinerary     string         `json:"itinerary"`
	ReviewScore   float64        `json:"review_score"`
	ReviewerNotes string         `json:"reviewer_notes"`

	Reasoning []Reasoning `json:"reasoning"`
}

// Reasoning records why an agent made a decision, in a uniform shape the
// analyzer can score.
type Reasoning struct {
	Agent      string    `json:"agent"`
	Decision   string    `json:"decision"`
	Criteria   []string  `json:"criteria"`
	Evidence   []string  `json:"evidence"`
	Confidence float64   `json:"confidence"`
	NextAction string    `json:"next_action,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewState returns a run state for the given tour request.
func NewState(city, vibe, date string, budget float64) *State {
	return &State{
		City:   city,
		Vibe:   vibe,
		Date:   date,
		Budget: budget,
	}
}

// AddReasoning appends a reasoning entry, stamping the time if unset.
func (s *State) AddReasoning(r Reasoning) {
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now().UTC()
	}
	s.Reasoning = append(s.Reasoning, r)
}
