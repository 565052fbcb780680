package commands

import (
	"encoding/json"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/ratchet/internal/cli/output"
	"github.com/leapstack-labs/ratchet/pkg/lint"
	"github.com/spf13/cobra"
)

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List available rules",
		Long: `List the built-in rules and the rules defined in the rules directory,
and whether the configuration enables them.

With output set to jsonl, one JSON object is printed per rule.`,
		Example: `  # List all rules
  ratchet rules

  # Machine-readable listing
  ratchet rules --format jsonl`,
		Args: cobra.NoArgs,
		RunE: runRules,
	}

	cmd.Flags().StringP("format", "f", "", "Output format: human, jsonl")

	return cmd
}

type ruleRecord struct {
	lint.RuleInfo
	Enabled bool `json:"enabled"`
}

func runRules(cmd *cobra.Command, _ []string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	reg, _, err := cmdCtx.Rules()
	if err != nil {
		return err
	}

	lc := cmdCtx.Cfg.LintConfig()
	records := make([]ruleRecord, 0, reg.Count())
	for _, info := range reg.Info() {
		records = append(records, ruleRecord{RuleInfo: info, Enabled: !lc.IsDisabled(info.ID)})
	}

	r := cmdCtx.Renderer
	if r.Mode() == output.ModeJSONL {
		enc := json.NewEncoder(r.Writer())
		for _, rec := range records {
			if err := enc.Encode(rec); err != nil {
				return err
			}
		}
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Kind", "Languages", "Enabled", "Source", "Description"})
	for _, rec := range records {
		langs := strings.Join(rec.Languages, ", ")
		if langs == "" {
			langs = "all"
		}
		enabled := "yes"
		if !rec.Enabled {
			enabled = "no"
		}
		t.AppendRow(table.Row{rec.ID, rec.Kind, langs, enabled, rec.Source, rec.Description})
	}
	t.Render()
	return nil
}
