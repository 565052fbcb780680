package commands

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/ratchet/internal/testutil"
	"github.com/leapstack-labs/ratchet/pkg/ratchet"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const projectConfig = `color: never
rules:
  enabled: [no-todo]
`

// setupProject writes a project with two TODO markers under src/ and makes
// it the working directory.
func setupProject(t *testing.T, counts string) string {
	t.Helper()
	files := map[string]string{
		"ratchet.yaml":  projectConfig,
		"src/a.go":      "package src\n\n// TODO first\n// TODO second\nfunc A() {}\n",
		"docs/notes.md": "nothing to see\n",
	}
	if counts != "" {
		files[ratchet.DefaultCountsFile] = counts
	}
	root := testutil.WriteTree(t, files)
	t.Chdir(root)
	return root
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func readCounts(t *testing.T, root string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, ratchet.DefaultCountsFile))
	require.NoError(t, err)
	return string(data)
}

func TestCheck_WithinBudget(t *testing.T) {
	setupProject(t, "[no-todo]\n\".\" = 2\n")

	out, _, err := execute(t, NewCheckCommand())
	require.NoError(t, err)
	assert.Contains(t, out, "src/a.go:3:4")
	assert.Contains(t, out, "no-todo: 2 violations (budget: 2)")
	assert.Contains(t, out, "Check PASSED")
}

func TestCheck_ExceededBudget(t *testing.T) {
	setupProject(t, "[no-todo]\n\".\" = 1\n")

	out, _, err := execute(t, NewCheckCommand())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBudgetExceeded)
	assert.True(t, IsReported(err))
	assert.Contains(t, out, "exceeded by 1")
	assert.Contains(t, out, "Check FAILED: 1 rule exceeded budget")
}

func TestCheck_MissingCountsFileMeansZeroBudget(t *testing.T) {
	setupProject(t, "")

	_, _, err := execute(t, NewCheckCommand())
	assert.ErrorIs(t, err, ErrBudgetExceeded)
}

func TestCheck_RegionBudgetApplies(t *testing.T) {
	setupProject(t, "[no-todo]\n\".\" = 0\n\"src\" = 2\n")

	out, _, err := execute(t, NewCheckCommand())
	require.NoError(t, err)
	assert.Contains(t, out, "no-todo (src): 2 violations (budget: 2)")
}

func TestCheck_JSONL(t *testing.T) {
	setupProject(t, "[no-todo]\n\".\" = 2\n")

	out, _, err := execute(t, NewCheckCommand(), "--format", "jsonl", "--verbose-violations")
	require.NoError(t, err)

	var types []string
	var last map[string]any
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		var rec map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &rec), sc.Text())
		types = append(types, rec["type"].(string))
		last = rec
	}
	assert.Equal(t, []string{"violation", "violation", "summary", "status"}, types)
	assert.Equal(t, true, last["passed"])
	assert.InDelta(t, 2, last["total_violations"], 0)
}

func TestCheck_RejectsArgs(t *testing.T) {
	setupProject(t, "")

	_, _, err := execute(t, NewCheckCommand(), "extra")
	assert.Error(t, err)
}

func TestInit_WritesCounts(t *testing.T) {
	root := setupProject(t, "")

	out, _, err := execute(t, NewInitCommand())
	require.NoError(t, err)
	assert.Contains(t, out, ratchet.DefaultCountsFile)
	assert.Equal(t, "[no-todo]\n\".\" = 2\n", readCounts(t, root))

	// The fresh counts file passes check.
	_, _, err = execute(t, NewCheckCommand())
	assert.NoError(t, err)
}

func TestInit_RefusesOverwriteWithoutForce(t *testing.T) {
	root := setupProject(t, "[no-todo]\n\".\" = 9\n")

	_, _, err := execute(t, NewInitCommand())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")
	assert.Equal(t, "[no-todo]\n\".\" = 9\n", readCounts(t, root))

	_, _, err = execute(t, NewInitCommand(), "--force")
	require.NoError(t, err)
	assert.Equal(t, "[no-todo]\n\".\" = 2\n", readCounts(t, root))
}

func TestInit_WritesConfigTemplateWhenMissing(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{"main.py": "x = 1\n"})
	t.Chdir(root)

	_, _, err := execute(t, NewInitCommand())
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(root, "ratchet.yaml"))
	assert.FileExists(t, filepath.Join(root, ratchet.DefaultCountsFile))
}

func TestTighten_LowersBudgets(t *testing.T) {
	root := setupProject(t, "[no-todo]\n\".\" = 5\n")

	out, _, err := execute(t, NewTightenCommand())
	require.NoError(t, err)
	assert.Contains(t, out, "no-todo .: 5 -> 2")
	assert.Equal(t, "[no-todo]\n\".\" = 2\n", readCounts(t, root))
}

func TestTighten_DryRunLeavesFile(t *testing.T) {
	root := setupProject(t, "[no-todo]\n\".\" = 5\n")

	out, _, err := execute(t, NewTightenCommand(), "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "5 -> 2")
	assert.Equal(t, "[no-todo]\n\".\" = 5\n", readCounts(t, root))
}

func TestTighten_KeepsBudgetsOfRulesThatDidNotRun(t *testing.T) {
	root := setupProject(t, "[no-todo]\n\".\" = 5\n\n[no-unwrap]\n\".\" = 30\n")

	out, _, err := execute(t, NewTightenCommand())
	require.NoError(t, err)
	assert.NotContains(t, out, "no-unwrap")
	assert.Equal(t, "[no-todo]\n\".\" = 2\n\n[no-unwrap]\n\".\" = 30\n", readCounts(t, root))
}

func TestTighten_KeepsBudgetsOfUnscannedRegions(t *testing.T) {
	root := setupProject(t, "[no-todo]\n\".\" = 2\n\"vendor/lib\" = 4\n")

	out, _, err := execute(t, NewTightenCommand())
	require.NoError(t, err)
	assert.Contains(t, out, "No budgets changed")
	assert.Equal(t, "[no-todo]\n\".\" = 2\n\"vendor/lib\" = 4\n", readCounts(t, root))
}

func TestTighten_NothingToDo(t *testing.T) {
	setupProject(t, "[no-todo]\n\".\" = 2\n")

	out, _, err := execute(t, NewTightenCommand())
	require.NoError(t, err)
	assert.Contains(t, out, "No budgets changed")
}

func TestBump_SetsBudget(t *testing.T) {
	root := setupProject(t, "[no-todo]\n\".\" = 2\n")

	out, _, err := execute(t, NewBumpCommand(), "no-todo", "--region", "src/legacy/", "--count", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "no-todo src/legacy: 0 -> 7")
	assert.Equal(t, "[no-todo]\n\".\" = 2\n\"src/legacy\" = 7\n", readCounts(t, root))
}

func TestBump_Errors(t *testing.T) {
	setupProject(t, "")

	tests := []struct {
		name string
		args []string
	}{
		{"missing count", []string{"no-todo"}},
		{"invalid rule", []string{"No Todo", "--count", "1"}},
		{"invalid region", []string{"no-todo", "--region", "/abs", "--count", "1"}},
		{"negative count", []string{"no-todo", "--count", "-1"}},
		{"count above maximum budget", []string{"no-todo", "--count", "18446744073709551615"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, NewBumpCommand(), tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestBump_MaximumBudgetStaysReadable(t *testing.T) {
	root := setupProject(t, "")

	_, _, err := execute(t, NewBumpCommand(), "no-todo", "--count", "9223372036854775807")
	require.NoError(t, err)
	assert.Equal(t, "[no-todo]\n\".\" = 9223372036854775807\n", readCounts(t, root))

	_, _, err = execute(t, NewCheckCommand())
	assert.NoError(t, err)
}

func TestMergeDriver_KeepsMinimum(t *testing.T) {
	dir := testutil.WriteTree(t, map[string]string{
		"base":   "[a]\n\".\" = 9\n",
		"ours":   "[a]\n\".\" = 5\n\"src\" = 3\n",
		"theirs": "[a]\n\".\" = 4\n\"src\" = 6\n[b]\n\".\" = 1\n",
	})
	base, ours, theirs := filepath.Join(dir, "base"), filepath.Join(dir, "ours"), filepath.Join(dir, "theirs")

	_, stderr, err := execute(t, NewMergeDriverCommand(), base, ours, theirs)
	require.NoError(t, err)
	assert.Empty(t, stderr)

	merged, err := os.ReadFile(ours)
	require.NoError(t, err)
	assert.Equal(t, "[a]\n\".\" = 4\n\"src\" = 3\n\n[b]\n\".\" = 1\n", string(merged))
}

func TestMergeDriver_FailureLeavesOurs(t *testing.T) {
	dir := testutil.WriteTree(t, map[string]string{
		"base":   "",
		"ours":   "[a]\n\".\" = 5\n",
		"theirs": "[a]\n\".\" = \"many\"\n",
	})
	ours := filepath.Join(dir, "ours")

	_, stderr, err := execute(t, NewMergeDriverCommand(), filepath.Join(dir, "base"), ours, filepath.Join(dir, "theirs"))
	require.Error(t, err)
	assert.True(t, IsReported(err))
	assert.Contains(t, stderr, "merge driver:")

	data, err := os.ReadFile(ours)
	require.NoError(t, err)
	assert.Equal(t, "[a]\n\".\" = 5\n", string(data))
}

func TestMergeDriver_Args(t *testing.T) {
	_, _, err := execute(t, NewMergeDriverCommand(), "only-one")
	assert.Error(t, err)

	out, _, err := execute(t, NewMergeDriverCommand(), "--install-help")
	require.NoError(t, err)
	assert.Contains(t, out, "ratchet-counts.toml merge=ratchet")
	assert.Contains(t, out, `ratchet merge-driver %O %A %B`)
}

func TestRules_Table(t *testing.T) {
	setupProject(t, "")

	out, _, err := execute(t, NewRulesCommand())
	require.NoError(t, err)
	assert.Contains(t, out, "no-todo")
	assert.Contains(t, out, "no-unwrap")
	assert.Contains(t, out, "builtin")
}

func TestRules_JSONL(t *testing.T) {
	setupProject(t, "")

	out, _, err := execute(t, NewRulesCommand(), "--format", "jsonl")
	require.NoError(t, err)

	enabled := map[string]bool{}
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		var rec struct {
			ID      string `json:"id"`
			Enabled bool   `json:"enabled"`
		}
		require.NoError(t, json.Unmarshal(sc.Bytes(), &rec))
		enabled[rec.ID] = rec.Enabled
	}
	assert.True(t, enabled["no-todo"])
	assert.False(t, enabled["no-unwrap"])
}

func TestRules_IncludesUserDefinitions(t *testing.T) {
	setupProject(t, "")
	require.NoError(t, os.MkdirAll("ratchets", 0o750))
	require.NoError(t, os.WriteFile(filepath.Join("ratchets", "no-print.yaml"), []byte(`id: no-print
description: print calls
regex: 'print\('
languages: [python]
`), 0o600))

	out, _, err := execute(t, NewRulesCommand())
	require.NoError(t, err)
	assert.Contains(t, out, "no-print")
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, NewVersionCommand("1.2.3"))
	require.NoError(t, err)
	assert.Contains(t, out, "ratchet v1.2.3")
}

func TestCommandMetadata(t *testing.T) {
	tests := []struct {
		cmd *cobra.Command
		use string
	}{
		{NewCheckCommand(), "check"},
		{NewInitCommand(), "init"},
		{NewTightenCommand(), "tighten"},
		{NewBumpCommand(), "bump <rule>"},
		{NewMergeDriverCommand(), "merge-driver <base> <ours> <theirs>"},
		{NewRulesCommand(), "rules"},
		{NewVersionCommand("0"), "version"},
	}
	for _, tt := range tests {
		t.Run(tt.use, func(t *testing.T) {
			assert.Equal(t, tt.use, tt.cmd.Use)
			assert.NotEmpty(t, tt.cmd.Short)
			assert.NotEmpty(t, tt.cmd.Long)
		})
	}
}
