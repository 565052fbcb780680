// Package ratchet implements the budget model behind progressive lint
// enforcement: a codebase may keep the violations it already has but may not
// add new ones.
//
// # Budgets
//
// A Budgets store maps a rule to a set of regions (directory scopes) and each
// region to the number of violations tolerated inside it. Regions form an
// implicit prefix tree rooted at ".". A file inherits the budget of its most
// specific configured ancestor; when a rule has no applicable entry the
// budget is zero.
//
//	b := ratchet.NewBudgets()
//	b.SetCount(rule, ratchet.RootRegion, 20)
//	b.SetCount(rule, src, 5)
//	b.GetBudget(rule, "src/legacy/old.go") // 5
//	b.GetBudget(rule, "docs/readme.md")    // 20
//
// # Aggregation
//
// Aggregator groups violations by (rule, region), compares each group with
// its budget and produces an AggregationResult whose statuses are sorted by
// rule then region.
//
// # Merging
//
// Merge combines two independently edited stores by taking the minimum of
// every budget present on both sides, so concurrent tightenings never undo
// each other. MergeFiles is the file-level entry point used by the git merge
// driver.
//
// # Persisted format
//
// Budgets serialize to TOML with rules and regions sorted:
//
//	[no-todo]
//	"." = 0
//
//	[no-unwrap]
//	"." = 20
//	"src" = 5
package ratchet
