package config

import (
	"fmt"

	"github.com/leapstack-labs/ratchet/pkg/ratchet"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.CountsFile == "" {
		return fmt.Errorf("counts_file is required")
	}
	switch c.Output {
	case OutputHuman, OutputJSONL:
	default:
		return fmt.Errorf("invalid output %q (want %s or %s)", c.Output, OutputHuman, OutputJSONL)
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("invalid color %q (want %s, %s or %s)", c.Color, ColorAuto, ColorAlways, ColorNever)
	}
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must not be negative, got %d", c.Jobs)
	}
	for _, id := range append(append([]string{}, c.Rules.Disabled...), c.Rules.Enabled...) {
		if _, ok := ratchet.NewRuleID(id); !ok {
			return fmt.Errorf("invalid rule id %q in rules configuration", id)
		}
	}
	if err := c.WalkOptions().Validate(); err != nil {
		return fmt.Errorf("invalid include/exclude: %w", err)
	}
	return nil
}
