// Package cli provides the command-line interface for ratchet.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/leapstack-labs/ratchet/internal/cli/commands"
	"github.com/leapstack-labs/ratchet/internal/cli/config"
	"github.com/spf13/cobra"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// skipConfig lists commands that run without loading ratchet.yaml.
var skipConfig = map[string]bool{
	"help":         true,
	"completion":   true,
	"__complete":   true,
	"version":      true,
	"merge-driver": true,
}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "ratchet",
		Short: "ratchet - progressive lint enforcement",
		Long: `ratchet counts rule violations per directory and fails when a count
exceeds its budget. Existing violations are tolerated; new ones are not.

Budgets live in a counts file committed with the code. They are lowered
with 'ratchet tighten' as violations are fixed, and merged with
'ratchet merge-driver' so that concurrent branches can only shrink them.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			logger := newLogger(cmd.ErrOrStderr(), verbose)
			ctx := context.WithValue(cmd.Context(), config.LoggerKey(), logger)

			if !skipConfig[cmd.Name()] {
				cfg, err := config.LoadConfig(cfgFile, cmd.Flags())
				if err != nil {
					return err
				}
				ctx = context.WithValue(ctx, config.ConfigKey(), cfg)

				if cfg.ConfigFile != "" {
					logger.Debug("using config file", "path", cfg.ConfigFile)
				}
				logger.Debug("project root", "path", cfg.ProjectRoot)
			}

			cmd.SetContext(ctx)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./ratchet.yaml)")
	rootCmd.PersistentFlags().StringP("project-dir", "C", "", "Project root directory")
	rootCmd.PersistentFlags().String("counts-file", "", "Path to the counts file")
	rootCmd.PersistentFlags().String("rules-dir", "", "Directory of custom rule definitions")
	rootCmd.PersistentFlags().String("color", "", "Color output (auto|always|never)")
	rootCmd.PersistentFlags().IntP("jobs", "j", 0, "Files scanned in parallel (0 uses all CPUs)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")

	_ = rootCmd.RegisterFlagCompletionFunc("color", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "always", "never"}, cobra.ShellCompDirectiveNoFileComp
	})

	// Add subcommands
	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(commands.NewCheckCommand())
	rootCmd.AddCommand(commands.NewInitCommand())
	rootCmd.AddCommand(commands.NewTightenCommand())
	rootCmd.AddCommand(commands.NewBumpCommand())
	rootCmd.AddCommand(commands.NewMergeDriverCommand())
	rootCmd.AddCommand(commands.NewRulesCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		if !commands.IsReported(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return err
	}
	return nil
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for ratchet.

To load completions:

Bash:
  $ source <(ratchet completion bash)

Zsh:
  $ ratchet completion zsh > "${fpath[1]}/_ratchet"

Fish:
  $ ratchet completion fish | source

PowerShell:
  PS> ratchet completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	return cmd
}
