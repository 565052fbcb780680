package lint

// Config controls which rules run.
type Config struct {
	// DisabledRules contains rule IDs to skip
	DisabledRules map[string]bool

	// EnabledRules, when non-empty, restricts the run to these rule IDs
	EnabledRules map[string]bool
}

// NewConfig creates a default configuration with all rules enabled.
func NewConfig() *Config {
	return &Config{
		DisabledRules: make(map[string]bool),
		EnabledRules:  make(map[string]bool),
	}
}

// IsDisabled returns true if the rule should be skipped.
func (c *Config) IsDisabled(ruleID string) bool {
	if c == nil {
		return false
	}
	if len(c.EnabledRules) > 0 && !c.EnabledRules[ruleID] {
		return true
	}
	return c.DisabledRules[ruleID]
}

// Disable disables a rule by ID.
func (c *Config) Disable(ruleID string) *Config {
	c.DisabledRules[ruleID] = true
	return c
}

// Enable restricts the run to the given rule, in addition to any previously
// given to Enable.
func (c *Config) Enable(ruleID string) *Config {
	c.EnabledRules[ruleID] = true
	return c
}

// Filter returns the rules that are not disabled, preserving order.
func (c *Config) Filter(rules []Rule) []Rule {
	out := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if !c.IsDisabled(string(r.ID())) {
			out = append(out, r)
		}
	}
	return out
}
