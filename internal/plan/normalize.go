package plan

import "fmt"

// ProposedStep is a single unvalidated entry from the plan source.
type ProposedStep struct {
	Name      string `json:"name"`
	Rationale string `json:"rationale"`
}

// Proposal is the ordered, untrusted plan as returned by the source. Names
// may be unknown, duplicated, missing members, or arbitrarily ordered.
type Proposal struct {
	Steps []ProposedStep `json:"steps"`
}

// Result is a validated total ordering of all five steps plus the repair
// record that produced it.
type Result struct {
	Steps          []Step
	Rationales     map[Step]string
	Corrections    []string
	UsedFallback   bool
	FallbackReason string
}

// Normalize turns an untrusted proposal into a total, dependency-respecting
// order over the step vocabulary. The proposal's relative ordering is a
// ranking hint, not ground truth: weather always runs first, review always
// runs last, and the itinerary is never written before the budget is split.
//
// A source error yields the default order wholesale. A failed proposal
// carries no signal worth repairing.
func Normalize(p Proposal, srcErr error) Result {
	if srcErr != nil {
		return Result{
			Steps:          DefaultOrder(),
			Corrections:    []string{fmt.Sprintf("fallback_rule: using default order due to source error: %v", srcErr)},
			UsedFallback:   true,
			FallbackReason: srcErr.Error(),
		}
	}

	var steps []Step
	rationales := make(map[Step]string)
	seen := make(map[Step]bool)
	for _, ps := range p.Steps {
		step, ok := ParseStep(ps.Name)
		if !ok {
			// Unknown names are dropped, not errors.
			continue
		}
		if seen[step] {
			continue
		}
		seen[step] = true
		steps = append(steps, step)
		if ps.Rationale != "" {
			rationales[step] = ps.Rationale
		}
	}

	var corrections []string
	note := func(format string, args ...any) {
		corrections = append(corrections, fmt.Sprintf(format, args...))
	}

	// Weather runs first: every later step may depend on the indoor rule.
	switch wi := indexOf(steps, StepCheckWeather); {
	case wi < 0:
		steps = insertAt(steps, 0, StepCheckWeather)
		note("weather_first_rule: added %s as first step", StepCheckWeather)
	case wi > 0:
		steps = insertAt(removeAt(steps, wi), 0, StepCheckWeather)
		note("weather_first_rule: moved %s to front", StepCheckWeather)
	}

	// Review is the terminal quality gate.
	if ri := indexOf(steps, StepReview); ri < 0 {
		steps = append(steps, StepReview)
		note("review_last_rule: added %s as final step", StepReview)
	} else if ri != len(steps)-1 {
		steps = append(removeAt(steps, ri), StepReview)
		note("review_last_rule: moved %s to end", StepReview)
	}

	// Fill gaps at their canonical positions, clamped to the current length.
	// Enumerating in default order keeps every insertion behind weather and
	// ahead of review.
	for di, step := range DefaultOrder() {
		if indexOf(steps, step) >= 0 {
			continue
		}
		at := di
		if at > len(steps) {
			at = len(steps)
		}
		if step == StepWriteItinerary {
			if si := indexOf(steps, StepSplitBudget); si >= 0 && si+1 > at {
				at = si + 1
				note("dependency_rule: %s after %s", StepWriteItinerary, StepSplitBudget)
			}
		}
		steps = insertAt(steps, at, step)
		note("default_step_rule: added missing step %s", step)
	}

	// The source may have proposed both budget steps in the wrong order. The
	// itinerary cannot describe a split that does not exist yet, so reseat
	// both at their canonical positions.
	if si, wi := indexOf(steps, StepSplitBudget), indexOf(steps, StepWriteItinerary); wi < si {
		steps = removeAt(steps, si)
		steps = removeAt(steps, indexOf(steps, StepWriteItinerary))

		at := defaultIndex(StepSplitBudget)
		if at > len(steps) {
			at = len(steps)
		}
		steps = insertAt(steps, at, StepSplitBudget)

		at = defaultIndex(StepWriteItinerary)
		if at > len(steps) {
			at = len(steps)
		}
		if si := indexOf(steps, StepSplitBudget); si+1 > at {
			at = si + 1
		}
		steps = insertAt(steps, at, StepWriteItinerary)
		note("dependency_rule: reordered %s after %s", StepWriteItinerary, StepSplitBudget)
	}

	return Result{
		Steps:       steps,
		Rationales:  rationales,
		Corrections: corrections,
	}
}

func indexOf(steps []Step, s Step) int {
	for i, st := range steps {
		if st == s {
			return i
		}
	}
	return -1
}

func insertAt(steps []Step, i int, s Step) []Step {
	steps = append(steps, "")
	copy(steps[i+1:], steps[i:])
	steps[i] = s
	return steps
}

func removeAt(steps []Step, i int) []Step {
	return append(steps[:i], steps[i+1:]...)
}
