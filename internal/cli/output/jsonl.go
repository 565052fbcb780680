package output

import (
	"encoding/json"
	"io"
	"sort"

	"github.com/leapstack-labs/ratchet/pkg/ratchet"
)

type violationRecord struct {
	Type string `json:"type"`
	ratchet.Violation
}

type summaryRecord struct {
	Type       string `json:"type"`
	Rule       string `json:"rule"`
	Region     string `json:"region"`
	Violations uint64 `json:"violations"`
	Budget     uint64 `json:"budget"`
	Status     string `json:"status"`
}

type statusRecord struct {
	Type            string `json:"type"`
	Passed          bool   `json:"passed"`
	RulesChecked    int    `json:"rules_checked"`
	RulesExceeded   int    `json:"rules_exceeded"`
	TotalViolations uint64 `json:"total_violations"`
}

// RenderJSONL writes one JSON object per line: violation records (when
// withViolations is set), a summary record per status, then a status record.
func RenderJSONL(w io.Writer, result *ratchet.AggregationResult, withViolations bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if withViolations {
		var records []violationRecord
		for _, st := range result.Statuses {
			for _, v := range st.Violations {
				records = append(records, violationRecord{Type: "violation", Violation: v})
			}
		}
		sort.SliceStable(records, func(i, j int) bool {
			a, b := records[i], records[j]
			if a.RuleID != b.RuleID {
				return a.RuleID < b.RuleID
			}
			if a.File != b.File {
				return a.File < b.File
			}
			return a.Line < b.Line
		})
		for _, rec := range records {
			if err := enc.Encode(rec); err != nil {
				return err
			}
		}
	}

	summaries := make([]summaryRecord, 0, len(result.Statuses))
	for _, st := range result.Statuses {
		status := "pass"
		if !st.Passed {
			status = "fail"
		}
		summaries = append(summaries, summaryRecord{
			Type:       "summary",
			Rule:       string(st.RuleID),
			Region:     string(st.Region),
			Violations: st.ActualCount,
			Budget:     uint64(st.Budget),
			Status:     status,
		})
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		if summaries[i].Rule != summaries[j].Rule {
			return summaries[i].Rule < summaries[j].Rule
		}
		return summaries[i].Region < summaries[j].Region
	})
	for _, rec := range summaries {
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}

	return enc.Encode(statusRecord{
		Type:            "status",
		Passed:          result.Passed,
		RulesChecked:    len(result.Statuses),
		RulesExceeded:   result.RulesExceeded(),
		TotalViolations: result.TotalViolations,
	})
}
