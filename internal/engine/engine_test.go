package engine

import (
	"context"
	"testing"

	"github.com/leapstack-labs/ratchet/internal/testutil"
	"github.com/leapstack-labs/ratchet/internal/walker"
	"github.com/leapstack-labs/ratchet/pkg/lint"
	"github.com/leapstack-labs/ratchet/pkg/ratchet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildRules(t *testing.T, defs ...lint.Definition) []lint.Rule {
	t.Helper()
	cache := lint.NewParserCache()
	rules := make([]lint.Rule, 0, len(defs))
	for _, d := range defs {
		r, err := d.Build(cache)
		require.NoError(t, err)
		rules = append(rules, r)
	}
	return rules
}

var (
	todoDef   = lint.Definition{ID: "no-todo", Description: "TODO", Regex: `\bTODO\b`}
	unwrapDef = lint.Definition{
		ID:        "no-unwrap",
		Languages: []string{"rust"},
		Query: `((call_expression
  function: (field_expression field: (field_identifier) @m)) @violation
  (#eq? @m "unwrap"))`,
	}
)

func TestNew_RequiresRoot(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"src/lib.rs":        "fn f() {\n    a.unwrap();\n}\n// TODO later\n",
		"src/legacy/old.rs": "fn g() { b.unwrap(); c.unwrap(); }\n",
		"notes.txt":         "TODO one\nTODO two\n",
		"vendor/dep/dep.rs": "fn h() { d.unwrap(); }\n",
		"srcx/other.rs":     "fn i() { e.unwrap(); }\n",
		"assets/blob.bin":   "TODO\x00",
	})

	budgets := ratchet.NewBudgets()
	budgets.SetCount(ratchet.MustRuleID("no-unwrap"), ratchet.MustRegionPath("src"), 1)
	budgets.SetCount(ratchet.MustRuleID("no-unwrap"), ratchet.MustRegionPath("src/legacy"), 5)

	eng, err := New(Config{
		Root:    root,
		Budgets: budgets,
		Rules:   buildRules(t, unwrapDef, todoDef),
		Walk:    walker.Options{Exclude: walker.DefaultExclude},
		Jobs:    2,
		Logger:  testutil.NewTestLogger(t),
	})
	require.NoError(t, err)

	result, err := eng.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, result.FilesScanned)
	assert.Equal(t, []string{"notes.txt", "src/legacy/old.rs", "src/lib.rs", "srcx/other.rs"}, result.Files)
	assert.Equal(t, []ratchet.RuleID{"no-todo", "no-unwrap"}, result.RulesRun)

	type key struct {
		rule   string
		file   string
		line   int
		region string
	}
	got := make([]key, 0, len(result.Violations))
	for _, v := range result.Violations {
		got = append(got, key{string(v.RuleID), v.File, v.Line, string(v.Region)})
	}
	assert.Equal(t, []key{
		{"no-todo", "notes.txt", 1, "."},
		{"no-todo", "notes.txt", 2, "."},
		{"no-todo", "src/lib.rs", 4, "."},
		{"no-unwrap", "src/legacy/old.rs", 1, "src/legacy"},
		{"no-unwrap", "src/legacy/old.rs", 1, "src/legacy"},
		{"no-unwrap", "src/lib.rs", 2, "src"},
		{"no-unwrap", "srcx/other.rs", 1, "."},
	}, got)

	legacy := result.Violations[3:5]
	assert.Less(t, legacy[0].Column, legacy[1].Column)
}

func TestRun_FeedsAggregator(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"a.txt": "TODO\nTODO\n",
	})
	budgets := ratchet.NewBudgets()
	budgets.SetCount(ratchet.MustRuleID("no-todo"), ratchet.RootRegion, 1)

	eng, err := New(Config{Root: root, Budgets: budgets, Rules: buildRules(t, todoDef)})
	require.NoError(t, err)
	result, err := eng.Run(context.Background())
	require.NoError(t, err)

	agg := ratchet.NewAggregator(budgets, nil).Aggregate(result.Violations)
	assert.False(t, agg.Passed)
	assert.Equal(t, uint64(1), agg.ViolationsOverBudget)
}

func TestRun_NoRules(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{"a.txt": "TODO"})
	eng, err := New(Config{Root: root})
	require.NoError(t, err)

	result, err := eng.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result.Violations)
	assert.Equal(t, 1, result.FilesScanned)
}

func TestRun_Canceled(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{"a.txt": "TODO"})
	eng, err := New(Config{Root: root, Rules: buildRules(t, todoDef)})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = eng.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSortViolations(t *testing.T) {
	vs := []ratchet.Violation{
		{RuleID: "b", File: "a", Line: 1, Column: 1},
		{RuleID: "a", File: "b", Line: 1, Column: 1},
		{RuleID: "a", File: "a", Line: 2, Column: 1},
		{RuleID: "a", File: "a", Line: 1, Column: 5},
		{RuleID: "a", File: "a", Line: 1, Column: 2},
	}
	sortViolations(vs)

	assert.Equal(t, []ratchet.Violation{
		{RuleID: "a", File: "a", Line: 1, Column: 2},
		{RuleID: "a", File: "a", Line: 1, Column: 5},
		{RuleID: "a", File: "a", Line: 2, Column: 1},
		{RuleID: "a", File: "b", Line: 1, Column: 1},
		{RuleID: "b", File: "a", Line: 1, Column: 1},
	}, vs)
}
