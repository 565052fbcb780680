package ratchet

import (
	"math"
	"sort"
)

// Budget is the maximum number of violations tolerated for a rule in a region.
// Stored budgets never exceed MaxBudget.
type Budget uint64

// MaxBudget is the largest budget a store holds. It is the largest TOML
// integer, so every store survives a Text/Parse round trip.
const MaxBudget Budget = math.MaxInt64

// Entry is a single configured (rule, region, budget) triple.
type Entry struct {
	Rule   RuleID
	Region RegionPath
	Budget Budget
}

// Budgets is the region budget store: for every rule, a map from region to
// budget. A Budgets value is owned by one invocation and is not safe for
// concurrent mutation.
type Budgets struct {
	rules map[RuleID]map[RegionPath]Budget
}

// NewBudgets returns an empty store.
func NewBudgets() *Budgets {
	return &Budgets{rules: make(map[RuleID]map[RegionPath]Budget)}
}

// SetCount inserts or overwrites the budget for rule in region. Counts above
// MaxBudget are stored as MaxBudget.
func (b *Budgets) SetCount(rule RuleID, region RegionPath, count Budget) {
	count = min(count, MaxBudget)
	regions, ok := b.rules[rule]
	if !ok {
		regions = make(map[RegionPath]Budget)
		b.rules[rule] = regions
	}
	regions[region] = count
}

// Count returns the budget configured exactly at region, without inheritance.
func (b *Budgets) Count(rule RuleID, region RegionPath) (Budget, bool) {
	n, ok := b.rules[rule][region]
	return n, ok
}

// GetBudget returns the effective budget of rule for filePath: the budget of
// the most specific configured ancestor region, or 0 when there is none.
// An unconfigured rule is zero-tolerance, never unlimited.
func (b *Budgets) GetBudget(rule RuleID, filePath string) Budget {
	_, n, _ := b.Resolve(rule, filePath)
	return n
}

// Resolve finds the region whose budget applies to filePath for rule.
// It walks the ancestors of filePath from the most specific directory up to
// the root, so a lookup costs O(path depth) map probes regardless of how many
// entries the store holds. When nothing matches it returns (RootRegion, 0, false).
func (b *Budgets) Resolve(rule RuleID, filePath string) (RegionPath, Budget, bool) {
	regions := b.rules[rule]
	if len(regions) == 0 {
		return RootRegion, 0, false
	}
	var (
		matched RegionPath = RootRegion
		budget  Budget
		found   bool
	)
	ancestors(filePath, func(region RegionPath) bool {
		if n, ok := regions[region]; ok {
			matched, budget, found = region, n, true
			return false
		}
		return true
	})
	return matched, budget, found
}

// Rules returns the configured rules in lexicographic order.
func (b *Budgets) Rules() []RuleID {
	rules := make([]RuleID, 0, len(b.rules))
	for r := range b.rules {
		rules = append(rules, r)
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i] < rules[j] })
	return rules
}

// Regions returns the regions configured for rule in lexicographic order.
func (b *Budgets) Regions(rule RuleID) []RegionPath {
	regions := make([]RegionPath, 0, len(b.rules[rule]))
	for r := range b.rules[rule] {
		regions = append(regions, r)
	}
	sort.Slice(regions, func(i, j int) bool { return regions[i] < regions[j] })
	return regions
}

// Entries returns every configured triple sorted by rule, then region.
func (b *Budgets) Entries() []Entry {
	var entries []Entry
	for _, rule := range b.Rules() {
		for _, region := range b.Regions(rule) {
			entries = append(entries, Entry{Rule: rule, Region: region, Budget: b.rules[rule][region]})
		}
	}
	return entries
}

// Len returns the number of (rule, region) entries.
func (b *Budgets) Len() int {
	n := 0
	for _, regions := range b.rules {
		n += len(regions)
	}
	return n
}

// Clone returns a deep copy of b.
func (b *Budgets) Clone() *Budgets {
	c := NewBudgets()
	for rule, regions := range b.rules {
		for region, n := range regions {
			c.SetCount(rule, region, n)
		}
	}
	return c
}
