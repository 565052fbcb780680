package commands

import (
	"fmt"

	"github.com/leapstack-labs/ratchet/internal/cli/output"
	"github.com/leapstack-labs/ratchet/pkg/ratchet"
	"github.com/spf13/cobra"
)

// BumpOptions holds options for the bump command.
type BumpOptions struct {
	Region string
	Count  uint64
}

// NewBumpCommand creates the bump command.
func NewBumpCommand() *cobra.Command {
	opts := &BumpOptions{}
	cmd := &cobra.Command{
		Use:   "bump <rule>",
		Short: "Set a budget explicitly",
		Long: `Set the budget of a rule in one region to an explicit value.

This is the only way a budget goes up. The change is written to the
counts file and should be reviewed like any other change.`,
		Example: `  # Allow 12 unwrap calls under src/legacy
  ratchet bump no-unwrap --region src/legacy --count 12`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBump(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.Region, "region", string(ratchet.RootRegion), "Region (directory relative to the project root)")
	cmd.Flags().Uint64Var(&opts.Count, "count", 0, "New budget (at most 9223372036854775807)")
	_ = cmd.MarkFlagRequired("count")

	return cmd
}

func runBump(cmd *cobra.Command, ruleArg string, opts *BumpOptions) error {
	rule, ok := ratchet.NewRuleID(ruleArg)
	if !ok {
		return fmt.Errorf("invalid rule id %q", ruleArg)
	}
	region, ok := ratchet.NewRegionPath(opts.Region)
	if !ok {
		return fmt.Errorf("invalid region %q", opts.Region)
	}
	if opts.Count > uint64(ratchet.MaxBudget) {
		return fmt.Errorf("count %d exceeds the maximum budget %d", opts.Count, ratchet.MaxBudget)
	}

	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	budgets, err := cmdCtx.LoadBudgets()
	if err != nil {
		return err
	}

	from, _ := budgets.Count(rule, region)
	to := ratchet.Budget(opts.Count)
	budgets.SetCount(rule, region, to)
	if err := budgets.WriteFile(cmdCtx.Cfg.CountsFile); err != nil {
		return err
	}

	cmdCtx.Logger.Info("budget set", "rule", rule, "region", region, "from", from, "to", to)
	output.RenderChanges(cmdCtx.Renderer, []ratchet.Change{{Rule: rule, Region: region, From: from, To: to}})
	return nil
}
