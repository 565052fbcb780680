package commands

import (
	"fmt"

	"github.com/leapstack-labs/ratchet/internal/cli/config"
	"github.com/leapstack-labs/ratchet/pkg/ratchet"
	"github.com/spf13/cobra"
)

// MergeDriverName is the driver name used in .gitattributes and git config.
const MergeDriverName = "ratchet"

// NewMergeDriverCommand creates the merge-driver command.
func NewMergeDriverCommand() *cobra.Command {
	var installHelp bool

	cmd := &cobra.Command{
		Use:   "merge-driver <base> <ours> <theirs>",
		Short: "Git merge driver for the counts file",
		Long: `Merge two versions of the counts file by keeping, for every rule and
region, the smaller budget. Keys present on one side only keep that side's
value. The base version is read but not used.

The merged result overwrites <ours>. On failure <ours> is left untouched
and the command exits with status 1.`,
		Example: `  # Print the git configuration needed to use the driver
  ratchet merge-driver --install-help`,
		Args: func(cmd *cobra.Command, args []string) error {
			if installHelp {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(3)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if installHelp {
				printInstallHelp(cmd)
				return nil
			}
			return runMergeDriver(cmd, args[0], args[1], args[2])
		},
	}

	cmd.Flags().BoolVar(&installHelp, "install-help", false, "Print the git configuration for this driver")

	return cmd
}

func runMergeDriver(cmd *cobra.Command, base, ours, theirs string) error {
	logger := config.GetLogger(cmd.Context())
	logger.Debug("merging counts", "base", base, "ours", ours, "theirs", theirs)

	if err := ratchet.MergeFiles(base, ours, theirs); err != nil {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "merge driver: %v\n", err)
		return reportedError{err}
	}
	return nil
}

func printInstallHelp(cmd *cobra.Command) {
	w := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(w, `Add to .gitattributes:

  %s merge=%s

Then register the driver:

  git config merge.%s.name "ratchet budget merge"
  git config merge.%s.driver "ratchet merge-driver %%O %%A %%B"
`, ratchet.DefaultCountsFile, MergeDriverName, MergeDriverName, MergeDriverName)
}
