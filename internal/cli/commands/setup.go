package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/ratchet/internal/cli/config"
	"github.com/leapstack-labs/ratchet/internal/cli/output"
	"github.com/leapstack-labs/ratchet/internal/engine"
	"github.com/leapstack-labs/ratchet/pkg/lint"
	_ "github.com/leapstack-labs/ratchet/pkg/lint/builtin" // register built-in rules
	"github.com/leapstack-labs/ratchet/pkg/ratchet"
	"github.com/spf13/cobra"
)

// ErrBudgetExceeded is returned by check when at least one rule exceeds its
// budget. The report has already been written when it is returned.
var ErrBudgetExceeded = errors.New("budget exceeded")

// reportedError marks an error whose diagnostic was already written, so the
// root command only sets the exit code.
type reportedError struct{ error }

func (e reportedError) Unwrap() error { return e.error }

// IsReported reports whether err was already shown to the user.
func IsReported(err error) bool {
	var re reportedError
	return errors.As(err, &re)
}

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the config stored by the
// root command, loading it from the working directory when absent.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg := config.GetConfig(cmd.Context())
	if cfg == nil {
		var err error
		cfg, err = config.LoadConfig("", cmd.Flags())
		if err != nil {
			return nil, err
		}
	}

	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.Output), output.ColorMode(cfg.Color))
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: r,
	}, nil
}

// LoadBudgets reads the counts file.
func (c *CommandContext) LoadBudgets() (*ratchet.Budgets, error) {
	budgets, err := ratchet.LoadFile(c.Cfg.CountsFile)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("loaded budgets", "path", c.Cfg.CountsFile, "entries", budgets.Len())
	return budgets, nil
}

// Rules compiles the built-in and user-defined rules and applies the rule
// selection from the configuration.
func (c *CommandContext) Rules() (*lint.Registry, []lint.Rule, error) {
	defs, err := lint.LoadDefinitions(c.Cfg.RulesDir)
	if err != nil {
		return nil, nil, err
	}
	reg, err := lint.NewDefaultRegistry(lint.NewParserCache(), defs)
	if err != nil {
		return nil, nil, err
	}

	for _, id := range append(append([]string{}, c.Cfg.Rules.Disabled...), c.Cfg.Rules.Enabled...) {
		if _, ok := reg.Get(ratchet.RuleID(id)); !ok {
			c.Renderer.Warnf("unknown rule %q in configuration", id)
		}
	}

	rules := c.Cfg.LintConfig().Filter(reg.All())
	c.Logger.Debug("rules selected", "registered", reg.Count(), "enabled", len(rules), "user_definitions", len(defs))
	return reg, rules, nil
}

// Scan runs the enabled rules over the project and aggregates the result
// against budgets.
func (c *CommandContext) Scan(ctx context.Context, budgets *ratchet.Budgets) (*engine.Result, *ratchet.AggregationResult, error) {
	_, rules, err := c.Rules()
	if err != nil {
		return nil, nil, err
	}

	eng, err := engine.New(engine.Config{
		Root:    c.Cfg.ProjectRoot,
		Budgets: budgets,
		Rules:   rules,
		Walk:    c.Cfg.WalkOptions(),
		Jobs:    c.Cfg.Jobs,
		Logger:  c.Logger,
	})
	if err != nil {
		return nil, nil, err
	}

	res, err := eng.Run(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("scan failed: %w", err)
	}
	agg := ratchet.NewAggregator(budgets, c.Logger).Aggregate(res.Violations)
	return res, agg, nil
}
