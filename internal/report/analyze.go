package report

import (
	"fmt"
	"io"
	"strings"

	"foodietour/internal/tour"
)

// Summary aggregates a run's reasoning trail: who decided, how often, how
// confidently, and how well supported each decision was.
type Summary struct {
	TotalDecisions int
	Agents         []string
	Confidence     map[string]int
	Decisions      []DecisionCount
	Quality        map[string]string
	Insights       []string
}

// DecisionCount is a decision kind and how often it occurred, in first-seen
// order so renders are stable.
type DecisionCount struct {
	Decision string
	Count    int
}

// Analyze builds a Summary from the reasoning trail.
func Analyze(reasoning []tour.Reasoning) Summary {
	if len(reasoning) == 0 {
		return Summary{
			Confidence: map[string]int{},
			Quality:    map[string]string{},
			Insights:   []string{"No reasoning data found"},
		}
	}

	s := Summary{
		TotalDecisions: len(reasoning),
		Confidence:     map[string]int{},
		Quality:        map[string]string{},
	}

	seenAgent := make(map[string]bool)
	decisionIdx := make(map[string]int)
	for _, r := range reasoning {
		if !seenAgent[r.Agent] {
			seenAgent[r.Agent] = true
			s.Agents = append(s.Agents, r.Agent)
		}

		switch {
		case r.Confidence >= 0.8:
			s.Confidence["high"]++
		case r.Confidence >= 0.5:
			s.Confidence["medium"]++
		default:
			s.Confidence["low"]++
		}

		if i, ok := decisionIdx[r.Decision]; ok {
			s.Decisions[i].Count++
		} else {
			decisionIdx[r.Decision] = len(s.Decisions)
			s.Decisions = append(s.Decisions, DecisionCount{Decision: r.Decision, Count: 1})
		}

		// The latest entry for an agent determines its quality grade.
		s.Quality[r.Agent] = grade(r)
	}

	s.Insights = insights(s)
	return s
}

func grade(r tour.Reasoning) string {
	score := 0
	if len(r.Criteria) >= 2 {
		score++
	}
	if len(r.Evidence) >= 1 {
		score++
	}
	if r.Confidence >= 0.7 {
		score++
	}
	switch {
	case score >= 2:
		return "excellent"
	case score >= 1:
		return "good"
	default:
		return "needs_improvement"
	}
}

func insights(s Summary) []string {
	var out []string
	if n := s.Confidence["high"]; n > 0 {
		out = append(out, fmt.Sprintf("%d high-confidence decisions made", n))
	}
	if len(s.Agents) > 1 {
		out = append(out, fmt.Sprintf("Multi-agent coordination: %s working together", strings.Join(s.Agents, ", ")))
	}
	out = append(out, fmt.Sprintf("Total decision points: %d", s.TotalDecisions))
	for _, dc := range s.Decisions {
		if dc.Count > 1 {
			out = append(out, fmt.Sprintf("Decision pattern %q used %d times", dc.Decision, dc.Count))
		}
	}

	var excellent, weak []string
	for _, agent := range s.Agents {
		switch s.Quality[agent] {
		case "excellent":
			excellent = append(excellent, agent)
		case "needs_improvement":
			weak = append(weak, agent)
		}
	}
	if len(excellent) > 0 {
		out = append(out, fmt.Sprintf("%s made well-supported decisions", strings.Join(excellent, ", ")))
	}
	if len(weak) > 0 {
		out = append(out, fmt.Sprintf("%s could improve decision reasoning", strings.Join(weak, ", ")))
	}
	return out
}

// Render writes a human-readable summary.
func Render(w io.Writer, s Summary) {
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintln(w, "REASONING ANALYSIS")
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "Total decisions: %d\n", s.TotalDecisions)
	fmt.Fprintf(w, "Agents active:   %s\n", strings.Join(s.Agents, ", "))

	fmt.Fprintln(w, "\nDecision patterns:")
	for _, dc := range s.Decisions {
		fmt.Fprintf(w, "  %-24s %d\n", dc.Decision, dc.Count)
	}

	fmt.Fprintln(w, "\nConfidence distribution:")
	for _, level := range []string{"high", "medium", "low"} {
		if n := s.Confidence[level]; n > 0 {
			fmt.Fprintf(w, "  %-8s %d\n", level, n)
		}
	}

	fmt.Fprintln(w, "\nDecision quality:")
	for _, agent := range s.Agents {
		fmt.Fprintf(w, "  %-12s %s\n", agent, s.Quality[agent])
	}

	fmt.Fprintln(w, "\nInsights:")
	for _, line := range s.Insights {
		fmt.Fprintf(w, "  - %s\n", line)
	}
	fmt.Fprintln(w, strings.Repeat("=", 60))
}
