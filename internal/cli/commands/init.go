package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/ratchet/internal/cli/config"
	"github.com/leapstack-labs/ratchet/pkg/ratchet"
	"github.com/spf13/cobra"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize ratchet in a project",
		Long: `Initialize ratchet in the project root.

This creates:
  - ratchet.yaml with the default configuration (unless one exists)
  - the counts file, with one budget per rule set to the number of
    violations found now, so the first check passes`,
		Example: `  # Initialize in the current project
  ratchet init

  # Recount and overwrite an existing counts file
  ratchet init --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing counts file")

	return cmd
}

func runInit(cmd *cobra.Command, force bool) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	cfg := cmdCtx.Cfg
	r := cmdCtx.Renderer
	s := r.Styles()

	if _, err := os.Stat(cfg.CountsFile); err == nil && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", filepath.Base(cfg.CountsFile))
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to stat %s: %w", cfg.CountsFile, err)
	}

	if cfg.ConfigFile == "" {
		path := filepath.Join(cfg.ProjectRoot, config.DefaultConfigFile)
		if err := os.WriteFile(path, []byte(config.Template), 0o644); err != nil { //nolint:gosec // config file is meant to be committed
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		r.Printf("%s %s\n", s.Success.Render("Created"), config.DefaultConfigFile)
	}

	res, agg, err := cmdCtx.Scan(cmd.Context(), ratchet.NewBudgets())
	if err != nil {
		return err
	}

	// Every enabled rule gets an explicit root entry, zero when clean.
	budgets := ratchet.FromResult(agg)
	for _, id := range res.RulesRun {
		if _, ok := budgets.Count(id, ratchet.RootRegion); !ok {
			budgets.SetCount(id, ratchet.RootRegion, 0)
		}
	}
	if err := budgets.WriteFile(cfg.CountsFile); err != nil {
		return err
	}
	r.Printf("%s %s (%d budgets, %d violations)\n",
		s.Success.Render("Created"), filepath.Base(cfg.CountsFile), budgets.Len(), agg.TotalViolations)
	return nil
}
