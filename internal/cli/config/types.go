// Package config provides configuration management for the ratchet CLI.
//
// Values are layered with koanf: built-in defaults, then ratchet.yaml,
// then RATCHET_* environment variables, then explicitly set flags.
package config

import (
	"github.com/leapstack-labs/ratchet/internal/walker"
	"github.com/leapstack-labs/ratchet/pkg/lint"
	"github.com/leapstack-labs/ratchet/pkg/ratchet"
)

// Default configuration values.
const (
	DefaultConfigFile = "ratchet.yaml"
	DefaultCountsFile = ratchet.DefaultCountsFile
	DefaultRulesDir   = "ratchets"
	DefaultOutput     = OutputHuman
	DefaultColor      = ColorAuto
)

// Output formats.
const (
	OutputHuman = "human"
	OutputJSONL = "jsonl"
)

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// configFileNames are searched, in order, in the project root.
var configFileNames = []string{DefaultConfigFile, ".ratchet.yaml", "ratchet.yml"}

// Config holds all CLI configuration options.
type Config struct {
	CountsFile string      `koanf:"counts_file"`
	RulesDir   string      `koanf:"rules_dir"`
	Output     string      `koanf:"output"`
	Color      string      `koanf:"color"`
	Verbose    bool        `koanf:"verbose"`
	Jobs       int         `koanf:"jobs"`
	Include    []string    `koanf:"include"`
	Exclude    []string    `koanf:"exclude"`
	Rules      RulesConfig `koanf:"rules"`

	// ProjectRoot is the directory scanned and the base for relative paths.
	ProjectRoot string `koanf:"-"`
	// ConfigFile is the file that was loaded, empty when none was found.
	ConfigFile string `koanf:"-"`
}

// RulesConfig selects which rules run.
type RulesConfig struct {
	Disabled []string `koanf:"disabled"`
	Enabled  []string `koanf:"enabled"` // when non-empty only these run
}

// LintConfig converts the rule selection into a lint.Config.
func (c *Config) LintConfig() *lint.Config {
	lc := lint.NewConfig()
	for _, id := range c.Rules.Disabled {
		lc.Disable(id)
	}
	for _, id := range c.Rules.Enabled {
		lc.Enable(id)
	}
	return lc
}

// WalkOptions returns the file discovery options.
func (c *Config) WalkOptions() walker.Options {
	return walker.Options{Include: c.Include, Exclude: c.Exclude}
}

// Template is written by `ratchet init`.
const Template = `# ratchet configuration
counts_file: ratchet-counts.toml
rules_dir: ratchets
output: human            # human | jsonl
color: auto              # auto | always | never
jobs: 0                  # 0 uses all CPUs
include: []
exclude:
  - ".git/**"
  - "vendor/**"
  - "node_modules/**"
  - "target/**"
rules:
  disabled: []
  enabled: []
`
