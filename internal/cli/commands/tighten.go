package commands

import (
	"github.com/leapstack-labs/ratchet/internal/cli/output"
	"github.com/leapstack-labs/ratchet/pkg/ratchet"
	"github.com/spf13/cobra"
)

// NewTightenCommand creates the tighten command.
func NewTightenCommand() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "tighten",
		Short: "Lower budgets to the current violation counts",
		Long: `Lower every budget in the counts file to the number of violations
currently found in its region. Budgets are never raised; use bump to
raise one explicitly.

Entries for rules that did not run (disabled, or not in rules.enabled)
and for regions with no scanned files are left unchanged.`,
		Example: `  # Lock in progress after fixing violations
  ratchet tighten

  # Show what would change without writing
  ratchet tighten --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTighten(cmd, dryRun)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print changes without writing the counts file")

	return cmd
}

func runTighten(cmd *cobra.Command, dryRun bool) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	budgets, err := cmdCtx.LoadBudgets()
	if err != nil {
		return err
	}
	res, agg, err := cmdCtx.Scan(cmd.Context(), budgets)
	if err != nil {
		return err
	}

	changes := budgets.Tighten(agg, ratchet.NewScope(res.RulesRun, res.Files))
	output.RenderChanges(cmdCtx.Renderer, changes)
	if len(changes) == 0 || dryRun {
		return nil
	}

	cmdCtx.Logger.Info("tightened budgets", "changes", len(changes), "path", cmdCtx.Cfg.CountsFile)
	return budgets.WriteFile(cmdCtx.Cfg.CountsFile)
}
