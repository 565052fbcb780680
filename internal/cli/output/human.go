package output

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/ratchet/pkg/ratchet"
)

// RenderHuman writes the violations grouped by rule, then a per-region
// summary and the overall verdict.
func RenderHuman(r *Renderer, result *ratchet.AggregationResult) {
	s := r.Styles()
	if len(result.Statuses) == 0 {
		r.Println(s.Success.Render("No violations found"))
		return
	}

	totals := make(map[ratchet.RuleID]uint64)
	for _, st := range result.Statuses {
		totals[st.RuleID] += st.ActualCount
	}

	var current ratchet.RuleID
	for i, st := range result.Statuses {
		if i == 0 || st.RuleID != current {
			if i > 0 {
				r.Println()
			}
			current = st.RuleID
			r.Printf("%s %s\n\n", s.Bold.Render(string(st.RuleID)), s.Bold.Render("["+pluralize(totals[st.RuleID], "violation")+"]"))
		}
		for _, v := range st.Violations {
			r.Printf("  %s\n", s.Path.Render(fmt.Sprintf("%s:%d:%d", v.File, v.Line, v.Column)))
			r.Printf("      %s\n\n", strings.TrimSpace(v.Snippet))
		}
	}

	r.Println(s.Bold.Render("Summary:"))
	r.Println()
	for _, st := range result.Statuses {
		name := string(st.RuleID)
		if !st.Region.IsRoot() {
			name += " (" + string(st.Region) + ")"
		}
		if st.Passed {
			r.Printf("  %s %s: %d violations (budget: %d)\n", s.Success.Render("✓"), name, st.ActualCount, st.Budget)
			continue
		}
		r.Printf("  %s %s: %d violations (budget: %d) %s\n", s.Error.Render("✗"), name, st.ActualCount, st.Budget,
			s.Error.Render(fmt.Sprintf("exceeded by %d", st.ActualCount-uint64(st.Budget))))
	}
	r.Println()

	if result.Passed {
		r.Println(s.Success.Render("Check PASSED"))
		return
	}
	exceeded := result.RulesExceeded()
	suffix := "s"
	if exceeded == 1 {
		suffix = ""
	}
	r.Println(s.Error.Render(fmt.Sprintf("Check FAILED: %d rule%s exceeded budget", exceeded, suffix)))
}

// RenderChanges lists budget changes made by tighten or bump.
func RenderChanges(r *Renderer, changes []ratchet.Change) {
	s := r.Styles()
	if len(changes) == 0 {
		r.Println(s.Muted.Render("No budgets changed"))
		return
	}
	for _, c := range changes {
		r.Printf("  %s %s: %d -> %d\n", s.Bold.Render(string(c.Rule)), s.Path.Render(string(c.Region)), c.From, c.To)
	}
}

func pluralize(n uint64, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
