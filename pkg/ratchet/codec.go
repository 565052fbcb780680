package ratchet

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Parse decodes counts text into a store.
//
// The text must be a TOML document whose top-level keys are rule ids, each
// mapping to a table of region paths to non-negative integers. Any violation
// of that shape yields a *ParseError and no store; a partially populated
// store is never returned. Empty text is an empty store.
func Parse(text []byte) (*Budgets, error) {
	var doc map[string]any
	if err := toml.Unmarshal(text, &doc); err != nil {
		perr := &ParseError{Msg: "invalid TOML", Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
			perr.Msg = "invalid TOML: " + derr.Error()
		}
		return nil, perr
	}

	budgets := NewBudgets()
	// Iterate in sorted order so the first reported error is stable.
	for _, ruleKey := range sortedKeys(doc) {
		rule, ok := NewRuleID(ruleKey)
		if !ok {
			return nil, &ParseError{Msg: fmt.Sprintf("invalid rule id %q", ruleKey), Err: ErrInvalidKey}
		}
		table, ok := doc[ruleKey].(map[string]any)
		if !ok {
			return nil, &ParseError{Msg: fmt.Sprintf("rule %q: expected a table of region budgets, got %s", ruleKey, tomlKind(doc[ruleKey]))}
		}

		seen := make(map[RegionPath]string, len(table))
		for _, regionKey := range sortedKeys(table) {
			region, ok := NewRegionPath(regionKey)
			if !ok {
				return nil, &ParseError{Msg: fmt.Sprintf("rule %q: invalid region path %q", ruleKey, regionKey), Err: ErrInvalidKey}
			}
			if prev, dup := seen[region]; dup {
				return nil, &ParseError{Msg: fmt.Sprintf("rule %q: region keys %q and %q both normalize to %q", ruleKey, prev, regionKey, region)}
			}
			seen[region] = regionKey

			n, err := budgetValue(table[regionKey])
			if err != nil {
				return nil, &ParseError{Msg: fmt.Sprintf("rule %q, region %q: %v", ruleKey, regionKey, err)}
			}
			budgets.SetCount(rule, region, n)
		}
		if len(table) == 0 {
			// Keep the rule known even without regions; it still resolves to 0.
			budgets.rules[rule] = make(map[RegionPath]Budget)
		}
	}
	return budgets, nil
}

// Text serializes the store deterministically: rules in lexicographic order,
// regions sorted within each rule, region keys always quoted. Logically equal
// stores produce byte-identical output. Rules without regions are omitted.
func (b *Budgets) Text() []byte {
	var sb strings.Builder
	first := true
	for _, rule := range b.Rules() {
		regions := b.Regions(rule)
		if len(regions) == 0 {
			continue
		}
		if !first {
			sb.WriteByte('\n')
		}
		first = false
		fmt.Fprintf(&sb, "[%s]\n", rule)
		for _, region := range regions {
			fmt.Fprintf(&sb, "%s = %d\n", quoteKey(string(region)), b.rules[rule][region])
		}
	}
	return []byte(sb.String())
}

// budgetValue accepts TOML integers in [0, 2^63).
func budgetValue(v any) (Budget, error) {
	switch n := v.(type) {
	case int64:
		if n < 0 {
			return 0, fmt.Errorf("budget must be non-negative, got %d", n)
		}
		return Budget(n), nil
	case float64:
		return 0, fmt.Errorf("budget must be an integer, got %s", strconv.FormatFloat(n, 'g', -1, 64))
	default:
		return 0, fmt.Errorf("budget must be an integer, got %s", tomlKind(v))
	}
}

func tomlKind(v any) string {
	switch v.(type) {
	case map[string]any:
		return "table"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case int64:
		return "integer"
	case float64:
		return "float"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// quoteKey renders a TOML basic-string key. Region paths never contain
// control characters, so only quotes and backslashes need escaping.
func quoteKey(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for _, r := range s {
		if r == '"' || r == '\\' {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	sb.WriteByte('"')
	return sb.String()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
