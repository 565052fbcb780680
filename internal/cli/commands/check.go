package commands

import (
	"github.com/leapstack-labs/ratchet/internal/cli/output"
	"github.com/spf13/cobra"
)

// CheckOptions holds options for the check command.
type CheckOptions struct {
	Format            string // Output format: human, jsonl (bound to the output config key)
	VerboseViolations bool   // Emit individual violation records in JSONL output
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check violation counts against budgets",
		Long: `Run every enabled rule over the project and compare the number of
violations in each region with the budget in the counts file.

A region without a configured budget inherits the budget of its closest
configured ancestor directory, and defaults to 0 when none is configured.
The command exits with status 1 when any budget is exceeded.`,
		Example: `  # Check the project in the current directory
  ratchet check

  # Machine-readable output including every violation
  ratchet check --format jsonl --verbose-violations`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: human, jsonl")
	cmd.Flags().BoolVar(&opts.VerboseViolations, "verbose-violations", false, "Include individual violations in JSONL output")

	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"human", "jsonl"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runCheck(cmd *cobra.Command, opts *CheckOptions) error {
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
	cmdCtx.Logger.Info("check complete",
		"files", res.FilesScanned,
		"violations", agg.TotalViolations,
		"passed", agg.Passed)

	r := cmdCtx.Renderer
	if r.Mode() == output.ModeJSONL {
		if err := output.RenderJSONL(r.Writer(), agg, opts.VerboseViolations); err != nil {
			return err
		}
	} else {
		output.RenderHuman(r, agg)
	}

	if !agg.Passed {
		return reportedError{ErrBudgetExceeded}
	}
	return nil
}
