package plan

import (
	"github.com/pmezard/go-difflib/difflib"
)

// DiffProposal renders a unified diff between the step order the source
// proposed and the normalized order, for audit payloads and CLI output.
// Returns an empty string when nothing changed.
func DiffProposal(p Proposal, r Result) (string, error) {
	proposed := make([]string, 0, len(p.Steps))
	for _, ps := range p.Steps {
		proposed = append(proposed, ps.Name+"\n")
	}
	normalized := make([]string, 0, len(r.Steps))
	for _, s := range r.Steps {
		normalized = append(normalized, string(s)+"\n")
	}

	diff := difflib.UnifiedDiff{
		A:        proposed,
		B:        normalized,
		FromFile: "proposed",
		ToFile:   "normalized",
		Context:  len(DefaultOrder()),
	}
	return difflib.GetUnifiedDiffString(diff)
}
