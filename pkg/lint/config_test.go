package lint

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_IsDisabled(t *testing.T) {
	var nilCfg *Config
	assert.False(t, nilCfg.IsDisabled("anything"))

	cfg := NewConfig().Disable("no-todo")
	assert.True(t, cfg.IsDisabled("no-todo"))
	assert.False(t, cfg.IsDisabled("no-unwrap"))

	cfg.Enable("no-unwrap").Enable("no-todo")
	assert.False(t, cfg.IsDisabled("no-unwrap"))
	assert.True(t, cfg.IsDisabled("no-todo"), "disable wins over enable")
	assert.True(t, cfg.IsDisabled("no-eval"), "not in the enabled set")
}

func TestConfig_Filter(t *testing.T) {
	rules := []Rule{
		mustRegexRule(t, "a"),
		mustRegexRule(t, "b"),
		mustRegexRule(t, "c"),
	}

	got := NewConfig().Disable("b").Filter(rules)
	assert.Len(t, got, 2)
	assert.Equal(t, "a", string(got[0].ID()))
	assert.Equal(t, "c", string(got[1].ID()))

	assert.Len(t, (*Config)(nil).Filter(rules), 3)
}
