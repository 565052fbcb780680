package ratchet

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	text := `
[no-unwrap]
"." = 20
"src" = 5

[no-todo]
"." = 0
`
	b, err := Parse([]byte(text))
	require.NoError(t, err)

	assert.Equal(t, 3, b.Len())
	assert.Equal(t, Budget(5), b.GetBudget(noUnwrap, "src/main.rs"))
	assert.Equal(t, Budget(20), b.GetBudget(noUnwrap, "tests/a.rs"))
	assert.Equal(t, Budget(0), b.GetBudget(noTodo, "src/main.rs"))
}

func TestParse_NormalizesRegions(t *testing.T) {
	b, err := Parse([]byte("[no-todo]\n\"./src/\" = 2\n"))
	require.NoError(t, err)

	n, ok := b.Count(noTodo, MustRegionPath("src"))
	require.True(t, ok)
	assert.Equal(t, Budget(2), n)
}

func TestParse_Empty(t *testing.T) {
	for _, text := range []string{"", "\n", "# only a comment\n"} {
		b, err := Parse([]byte(text))
		require.NoError(t, err)
		assert.Equal(t, 0, b.Len())
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		errSubstr string
		invalid   bool
	}{
		{name: "syntax", text: "invalid [[ toml", errSubstr: "invalid TOML"},
		{name: "negative", text: "[r]\n\".\" = -1\n", errSubstr: "non-negative"},
		{name: "float", text: "[r]\n\".\" = 1.5\n", errSubstr: "must be an integer"},
		{name: "string value", text: "[r]\n\".\" = \"5\"\n", errSubstr: "must be an integer"},
		{name: "bool value", text: "[r]\n\".\" = true\n", errSubstr: "must be an integer"},
		{name: "top-level scalar", text: "r = 5\n", errSubstr: "expected a table"},
		{name: "nested table", text: "[r.src]\nx = 1\n", errSubstr: "must be an integer"},
		{name: "invalid rule id", text: "[\"bad rule\"]\n\".\" = 1\n", errSubstr: "invalid rule id", invalid: true},
		{name: "absolute region", text: "[r]\n\"/abs\" = 1\n", errSubstr: "invalid region path", invalid: true},
		{name: "escaping region", text: "[r]\n\"../x\" = 1\n", errSubstr: "invalid region path", invalid: true},
		{name: "duplicate after normalization", text: "[r]\n\"src\" = 1\n\"src/\" = 2\n", errSubstr: "both normalize"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Parse([]byte(tt.text))
			require.Error(t, err)
			assert.Nil(t, b, "no partially populated store")
			assert.Contains(t, err.Error(), tt.errSubstr)
			assert.True(t, errors.Is(err, ErrParse))
			assert.Equal(t, tt.invalid, errors.Is(err, ErrInvalidKey))
		})
	}
}

func TestParse_SyntaxErrorPosition(t *testing.T) {
	_, err := Parse([]byte("[r]\n\".\" = 1\n\"src\" = = 2\n"))
	require.Error(t, err)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 3, perr.Line)
	assert.Positive(t, perr.Column)
}

func TestText_Deterministic(t *testing.T) {
	b := NewBudgets()
	b.SetCount(noUnwrap, MustRegionPath("src"), 5)
	b.SetCount(noUnwrap, RootRegion, 20)
	b.SetCount(noTodo, RootRegion, 0)

	want := "[no-todo]\n\".\" = 0\n\n[no-unwrap]\n\".\" = 20\n\"src\" = 5\n"
	assert.Equal(t, want, string(b.Text()))

	// Same logical content inserted in a different order.
	c := NewBudgets()
	c.SetCount(noTodo, RootRegion, 0)
	c.SetCount(noUnwrap, RootRegion, 20)
	c.SetCount(noUnwrap, MustRegionPath("src"), 5)
	assert.Equal(t, b.Text(), c.Text())
}

func TestText_Empty(t *testing.T) {
	assert.Empty(t, NewBudgets().Text())
}

func TestText_QuotesRegionKeys(t *testing.T) {
	b := NewBudgets()
	b.SetCount(noTodo, MustRegionPath(`we"ird`), 1)
	assert.Equal(t, "[no-todo]\n\"we\\\"ird\" = 1\n", string(b.Text()))
}

func TestRoundTrip(t *testing.T) {
	stores := map[string]*Budgets{
		"empty": NewBudgets(),
	}

	full := NewBudgets()
	full.SetCount(noUnwrap, RootRegion, 20)
	full.SetCount(noUnwrap, MustRegionPath("src"), 5)
	full.SetCount(noUnwrap, MustRegionPath("src/legacy"), 15)
	full.SetCount(noTodo, RootRegion, 0)
	full.SetCount(MustRuleID("Mixed_Case-1"), MustRegionPath("a b/c"), 1<<40)
	full.SetCount(MustRuleID("quoted"), MustRegionPath(`x"y`), 7)
	stores["full"] = full

	limit := NewBudgets()
	limit.SetCount(noTodo, RootRegion, MaxBudget)
	limit.SetCount(noTodo, MustRegionPath("src"), math.MaxUint64)
	stores["limit"] = limit

	for name, b := range stores {
		t.Run(name, func(t *testing.T) {
			parsed, err := Parse(b.Text())
			require.NoError(t, err)
			assert.Equal(t, b.Entries(), parsed.Entries())
			assert.Equal(t, b.Text(), parsed.Text())
		})
	}
}

func TestParse_RejectsBudgetAboveMaximum(t *testing.T) {
	_, err := Parse([]byte("[no-todo]\n\".\" = 9223372036854775808\n"))
	assert.ErrorIs(t, err, ErrParse)

	b, err := Parse([]byte("[no-todo]\n\".\" = 9223372036854775807\n"))
	require.NoError(t, err)
	n, _ := b.Count(noTodo, RootRegion)
	assert.Equal(t, MaxBudget, n)
}
