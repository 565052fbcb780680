package ratchet

// Change records a budget lowered by Tighten.
type Change struct {
	Rule   RuleID
	Region RegionPath
	From   Budget
	To     Budget
}

// Scope is what a scan observed: the rules that ran and the files it read.
type Scope struct {
	Rules []RuleID
	Files []string // slash paths relative to the root
}

// NewScope builds a Scope from the rules run and the files scanned.
func NewScope(rules []RuleID, files []string) *Scope {
	return &Scope{Rules: rules, Files: files}
}

// coverage returns the set of rules that ran and the set of regions holding
// at least one scanned file.
func (s *Scope) coverage() (map[RuleID]bool, map[RegionPath]bool) {
	rules := make(map[RuleID]bool, len(s.Rules))
	for _, r := range s.Rules {
		rules[r] = true
	}
	regions := make(map[RegionPath]bool)
	for _, f := range s.Files {
		ancestors(f, func(region RegionPath) bool {
			if regions[region] {
				return false
			}
			regions[region] = true
			return true
		})
	}
	return rules, regions
}

// Tighten lowers every configured budget to the count observed in result when
// that count is smaller. Only entries inside scope are considered: the rule
// must have run and the region must contain a scanned file. Such an entry
// with no status in result was observed zero times; entries outside scope
// are left alone since nothing was observed for them. Budgets are never
// raised, and groups in result without an exact entry in b are ignored.
// Changes are returned sorted by rule, then region.
func (b *Budgets) Tighten(result *AggregationResult, scope *Scope) []Change {
	if scope == nil {
		return nil
	}
	ran, covered := scope.coverage()

	observed := make(map[groupKey]uint64)
	if result != nil {
		for i := range result.Statuses {
			s := &result.Statuses[i]
			observed[groupKey{rule: s.RuleID, region: s.Region}] = s.ActualCount
		}
	}

	var changes []Change
	for _, e := range b.Entries() {
		if !ran[e.Rule] || !covered[e.Region] {
			continue
		}
		actual := observed[groupKey{rule: e.Rule, region: e.Region}]
		if actual >= uint64(e.Budget) {
			continue
		}
		b.SetCount(e.Rule, e.Region, Budget(actual))
		changes = append(changes, Change{Rule: e.Rule, Region: e.Region, From: e.Budget, To: Budget(actual)})
	}
	return changes
}

// FromResult builds a store whose budgets equal the counts observed in
// result, one entry per (rule, region) group. Used to seed a counts file.
func FromResult(result *AggregationResult) *Budgets {
	b := NewBudgets()
	if result == nil {
		return b
	}
	for i := range result.Statuses {
		s := &result.Statuses[i]
		b.SetCount(s.RuleID, s.Region, Budget(s.ActualCount))
	}
	return b
}
