// Package engine runs lint rules over a project tree and produces the
// violations the ratchet aggregator counts.
package engine

import (
	"errors"
	"log/slog"
	"runtime"

	"github.com/leapstack-labs/ratchet/internal/walker"
	"github.com/leapstack-labs/ratchet/pkg/lint"
	"github.com/leapstack-labs/ratchet/pkg/ratchet"
)

// Engine scans files with a fixed set of rules.
type Engine struct {
	root    string
	budgets *ratchet.Budgets
	rules   []lint.Rule
	walk    walker.Options
	jobs    int
	logger  *slog.Logger
}

// Config holds engine configuration.
type Config struct {
	// Root is the project directory to scan
	Root string
	// Budgets classifies violations into regions (optional, everything maps to "." if nil)
	Budgets *ratchet.Budgets
	// Rules are the enabled rules
	Rules []lint.Rule
	// Walk controls file discovery
	Walk walker.Options
	// Jobs bounds the number of files scanned concurrently (0 uses GOMAXPROCS)
	Jobs int
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// Result is the outcome of a scan.
type Result struct {
	// Violations sorted by rule, file, line and column
	Violations []ratchet.Violation
	// FilesScanned is the number of files read
	FilesScanned int
	// Files lists the scanned paths, slash-separated and relative to Root
	Files []string
	// RulesRun lists the IDs of the rules that were applied
	RulesRun []ratchet.RuleID
}

// New creates an engine.
func New(cfg Config) (*Engine, error) {
	if cfg.Root == "" {
		return nil, errors.New("engine: root directory is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	budgets := cfg.Budgets
	if budgets == nil {
		budgets = ratchet.NewBudgets()
	}

	jobs := cfg.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	logger.Debug("initializing engine", "root", cfg.Root, "rules", len(cfg.Rules), "jobs", jobs)

	return &Engine{
		root:    cfg.Root,
		budgets: budgets,
		rules:   cfg.Rules,
		walk:    cfg.Walk,
		jobs:    jobs,
		logger:  logger,
	}, nil
}
