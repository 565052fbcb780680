package ratchet

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge_MinimumWins(t *testing.T) {
	base := budgetsOf(Entry{noUnwrap, RootRegion, 20})
	ours := budgetsOf(Entry{noUnwrap, RootRegion, 15})
	theirs := budgetsOf(Entry{noUnwrap, RootRegion, 18})

	merged := Merge(base, ours, theirs)

	assert.Equal(t, Budget(15), merged.GetBudget(noUnwrap, "."))
}

func TestMerge_OneSidedKeys(t *testing.T) {
	ours := NewBudgets()
	theirs := budgetsOf(Entry{noTodo, RootRegion, 5})

	merged := Merge(NewBudgets(), ours, theirs)
	n, ok := merged.Count(noTodo, RootRegion)
	require.True(t, ok)
	assert.Equal(t, Budget(5), n)

	merged = Merge(NewBudgets(), theirs, ours)
	n, ok = merged.Count(noTodo, RootRegion)
	require.True(t, ok)
	assert.Equal(t, Budget(5), n)
}

func TestMerge_IgnoresBase(t *testing.T) {
	base := budgetsOf(
		Entry{noUnwrap, RootRegion, 1},
		Entry{MustRuleID("removed"), RootRegion, 3},
	)
	ours := budgetsOf(Entry{noUnwrap, RootRegion, 15})
	theirs := budgetsOf(Entry{noUnwrap, RootRegion, 18})

	merged := Merge(base, ours, theirs)

	assert.Equal(t, Budget(15), merged.GetBudget(noUnwrap, "."), "base values never participate")
	_, ok := merged.Count(MustRuleID("removed"), RootRegion)
	assert.False(t, ok, "keys present only in base do not survive")
}

func TestMerge_Invariants(t *testing.T) {
	src := MustRegionPath("src")
	legacy := MustRegionPath("src/legacy")
	ours := budgetsOf(
		Entry{noUnwrap, RootRegion, 18},
		Entry{noUnwrap, src, 10},
		Entry{noTodo, RootRegion, 30},
		Entry{MustRuleID("only-ours"), legacy, 4},
	)
	theirs := budgetsOf(
		Entry{noUnwrap, RootRegion, 19},
		Entry{noUnwrap, src, 12},
		Entry{noTodo, RootRegion, 25},
		Entry{MustRuleID("only-theirs"), src, 7},
	)

	merged := Merge(NewBudgets(), ours, theirs)

	keys := make(map[groupKey]bool)
	for _, side := range []*Budgets{ours, theirs} {
		for _, e := range side.Entries() {
			keys[groupKey{e.Rule, e.Region}] = true
		}
	}
	assert.Len(t, merged.Entries(), len(keys), "merged key set is exactly ours ∪ theirs")

	for _, e := range merged.Entries() {
		o, inOurs := ours.Count(e.Rule, e.Region)
		th, inTheirs := theirs.Count(e.Rule, e.Region)
		switch {
		case inOurs && inTheirs:
			assert.LessOrEqual(t, uint64(e.Budget), uint64(o))
			assert.LessOrEqual(t, uint64(e.Budget), uint64(th))
			assert.Equal(t, min(o, th), e.Budget)
		case inOurs:
			assert.Equal(t, o, e.Budget)
		case inTheirs:
			assert.Equal(t, th, e.Budget)
		default:
			t.Fatalf("unexpected key %s/%s", e.Rule, e.Region)
		}
	}
}

func TestMerge_Commutative(t *testing.T) {
	a := budgetsOf(Entry{noUnwrap, RootRegion, 3}, Entry{noTodo, "lib", 9})
	b := budgetsOf(Entry{noUnwrap, RootRegion, 5}, Entry{noTodo, "src", 1})

	assert.Equal(t, Merge(nil, a, b).Text(), Merge(nil, b, a).Text())
}

func writeCounts(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestMergeFiles(t *testing.T) {
	dir := t.TempDir()
	base := writeCounts(t, dir, "base.toml", "[no-unwrap]\n\".\" = 20\n\"src\" = 15\n")
	ours := writeCounts(t, dir, "ours.toml", "[no-unwrap]\n\".\" = 18\n\"src\" = 10\n")
	theirs := writeCounts(t, dir, "theirs.toml", "[no-unwrap]\n\".\" = 19\n\"src\" = 12\n\n[no-todo]\n\".\" = 5\n")

	require.NoError(t, MergeFiles(base, ours, theirs))

	data, err := os.ReadFile(ours)
	require.NoError(t, err)
	assert.Equal(t, "[no-todo]\n\".\" = 5\n\n[no-unwrap]\n\".\" = 18\n\"src\" = 10\n", string(data))
}

func TestMergeFiles_MissingInputsAreEmpty(t *testing.T) {
	dir := t.TempDir()
	ours := writeCounts(t, dir, "ours.toml", "[no-unwrap]\n\".\" = 10\n")

	err := MergeFiles(filepath.Join(dir, "missing-base.toml"), ours, filepath.Join(dir, "missing-theirs.toml"))
	require.NoError(t, err)

	merged, err := LoadFile(ours)
	require.NoError(t, err)
	assert.Equal(t, Budget(10), merged.GetBudget(noUnwrap, "."))
}

func TestMergeFiles_MissingOursTakesTheirs(t *testing.T) {
	dir := t.TempDir()
	ours := filepath.Join(dir, "ours.toml")
	theirs := writeCounts(t, dir, "theirs.toml", "[no-todo]\n\".\" = 5\n")

	require.NoError(t, MergeFiles(filepath.Join(dir, "base.toml"), ours, theirs))

	merged, err := LoadFile(ours)
	require.NoError(t, err)
	assert.Equal(t, Budget(5), merged.GetBudget(noTodo, "a/b.go"))
}

func TestMergeFiles_ParseErrorLeavesOursUntouched(t *testing.T) {
	for _, bad := range []string{"base", "ours", "theirs"} {
		t.Run(bad, func(t *testing.T) {
			dir := t.TempDir()
			content := map[string]string{
				"base":   "[no-unwrap]\n\".\" = 20\n",
				"ours":   "[no-unwrap]\n\".\" = 15\n",
				"theirs": "[no-unwrap]\n\".\" = 18\n",
			}
			content[bad] = "invalid [[ toml"
			base := writeCounts(t, dir, "base.toml", content["base"])
			ours := writeCounts(t, dir, "ours.toml", content["ours"])
			theirs := writeCounts(t, dir, "theirs.toml", content["theirs"])

			err := MergeFiles(base, ours, theirs)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrParse))
			assert.Contains(t, err.Error(), bad)

			data, readErr := os.ReadFile(ours)
			require.NoError(t, readErr)
			assert.Equal(t, content["ours"], string(data))

			entries, _ := os.ReadDir(dir)
			assert.Len(t, entries, 3, "no temporary files left behind")
		})
	}
}

func TestMergeFiles_WriteFailure(t *testing.T) {
	dir := t.TempDir()
	theirs := writeCounts(t, dir, "theirs.toml", "[no-todo]\n\".\" = 5\n")
	ours := filepath.Join(dir, "no-such-dir", "ours.toml")

	err := MergeFiles(filepath.Join(dir, "base.toml"), ours, theirs)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIO))
	assert.Contains(t, err.Error(), ours)
}
