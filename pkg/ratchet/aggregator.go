package ratchet

import (
	"log/slog"
	"sort"
)

// Violation is a single rule finding produced by the rule engine.
// Region is classified by the producer and is not re-derived here.
type Violation struct {
	RuleID    RuleID     `json:"rule"`
	File      string     `json:"file"`
	Line      int        `json:"line"`
	Column    int        `json:"column"`
	EndLine   int        `json:"end_line"`
	EndColumn int        `json:"end_column"`
	Snippet   string     `json:"snippet"`
	Message   string     `json:"message"`
	Region    RegionPath `json:"region"`
}

// RuleRegionStatus is the verdict for one (rule, region) group.
type RuleRegionStatus struct {
	RuleID      RuleID
	Region      RegionPath
	ActualCount uint64
	Budget      Budget
	Passed      bool
	Violations  []Violation

	// Divergent is set when members of the group resolved to different
	// budgets. The group is then judged against the smallest of them.
	Divergent bool
}

// Exceeded returns how far the group is over budget, or 0 when it passed.
func (s *RuleRegionStatus) Exceeded() uint64 {
	if s.ActualCount <= uint64(s.Budget) {
		return 0
	}
	return s.ActualCount - uint64(s.Budget)
}

// AggregationResult is the outcome of comparing violations with budgets.
type AggregationResult struct {
	Statuses             []RuleRegionStatus
	Passed               bool
	TotalViolations      uint64
	ViolationsOverBudget uint64
}

// RulesExceeded returns the number of failing groups.
func (r *AggregationResult) RulesExceeded() int {
	n := 0
	for i := range r.Statuses {
		if !r.Statuses[i].Passed {
			n++
		}
	}
	return n
}

// Aggregator compares violations against a budget store.
type Aggregator struct {
	budgets *Budgets
	logger  *slog.Logger
}

// NewAggregator creates an Aggregator over budgets. A nil logger discards output.
func NewAggregator(budgets *Budgets, logger *slog.Logger) *Aggregator {
	if budgets == nil {
		budgets = NewBudgets()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Aggregator{budgets: budgets, logger: logger}
}

type groupKey struct {
	rule   RuleID
	region RegionPath
}

// Aggregate groups violations by (rule, region) and judges every group
// against its budget.
//
// Only groups with at least one violation appear in the result. Statuses are
// sorted by rule, then region, and violations inside a group keep their input
// order, so equal inputs always produce equal results. An empty input passes.
func (a *Aggregator) Aggregate(violations []Violation) *AggregationResult {
	groups := make(map[groupKey][]Violation)
	var order []groupKey
	for _, v := range violations {
		k := groupKey{rule: v.RuleID, region: v.Region}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], v)
	}

	result := &AggregationResult{
		Statuses: make([]RuleRegionStatus, 0, len(order)),
		Passed:   true,
	}
	for _, k := range order {
		members := groups[k]
		budget, divergent := a.groupBudget(k.rule, members)
		if divergent {
			a.logger.Warn("violations in one region resolve to different budgets; using the smallest",
				slog.String("rule", string(k.rule)),
				slog.String("region", string(k.region)),
				slog.Uint64("budget", uint64(budget)))
		}

		status := RuleRegionStatus{
			RuleID:      k.rule,
			Region:      k.region,
			ActualCount: uint64(len(members)),
			Budget:      budget,
			Violations:  members,
			Divergent:   divergent,
		}
		status.Passed = status.ActualCount <= uint64(budget)

		result.TotalViolations += status.ActualCount
		if !status.Passed {
			result.Passed = false
			result.ViolationsOverBudget += status.Exceeded()
		}
		result.Statuses = append(result.Statuses, status)
	}

	sort.Slice(result.Statuses, func(i, j int) bool {
		si, sj := result.Statuses[i], result.Statuses[j]
		if si.RuleID != sj.RuleID {
			return si.RuleID < sj.RuleID
		}
		return si.Region < sj.Region
	})
	return result
}

// groupBudget resolves the budget of every member rather than trusting a
// single representative. When members disagree the minimum wins.
func (a *Aggregator) groupBudget(rule RuleID, members []Violation) (Budget, bool) {
	budget := a.budgets.GetBudget(rule, members[0].File)
	divergent := false
	for _, v := range members[1:] {
		n := a.budgets.GetBudget(rule, v.File)
		if n != budget {
			divergent = true
			if n < budget {
				budget = n
			}
		}
	}
	return budget, divergent
}
