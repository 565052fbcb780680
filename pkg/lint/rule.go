package lint

import (
	"context"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/leapstack-labs/ratchet/pkg/ratchet"
)

// File is a source file handed to rules. Path is relative to the project
// root and uses forward slashes.
type File struct {
	Path     string
	Language Language // empty when the extension is not recognized
	Content  []byte
}

// Finding is one rule match inside a file. Positions are 1-indexed; columns
// count bytes. EndLine/EndColumn point just past the match.
type Finding struct {
	Line      int
	Column    int
	EndLine   int
	EndColumn int
	Snippet   string
	Message   string
}

// Rule is the interface every lint rule implements.
type Rule interface {
	// ID returns the unique identifier, e.g., "no-unwrap"
	ID() ratchet.RuleID

	// Description returns a human-readable description
	Description() string

	// Kind returns "regex" or "ast"
	Kind() string

	// Languages returns the languages the rule applies to; empty means all files
	Languages() []Language

	// AppliesTo reports whether the rule should run on the file at path
	AppliesTo(path string, lang Language) bool

	// Check analyzes a file and returns its findings
	Check(ctx context.Context, f *File) ([]Finding, error)
}

// RuleInfo provides metadata about a rule for documentation/tooling.
type RuleInfo struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	Kind        string   `json:"kind"`
	Languages   []string `json:"languages,omitempty"`
	Source      string   `json:"source"` // "builtin" or the definition file path
}

// GetRuleInfo extracts metadata from a Rule.
func GetRuleInfo(r Rule, source string) RuleInfo {
	info := RuleInfo{
		ID:          string(r.ID()),
		Description: r.Description(),
		Kind:        r.Kind(),
		Source:      source,
	}
	for _, l := range r.Languages() {
		info.Languages = append(info.Languages, string(l))
	}
	return info
}

// ruleBase carries the fields shared by regex and AST rules.
type ruleBase struct {
	id          ratchet.RuleID
	description string
	message     string
	languages   []Language
	include     []string
	exclude     []string
}

func (b *ruleBase) ID() ratchet.RuleID     { return b.id }
func (b *ruleBase) Description() string    { return b.description }
func (b *ruleBase) Languages() []Language  { return b.languages }
func (b *ruleBase) findingMessage() string { return b.message }

func (b *ruleBase) matchesLanguage(l Language) bool {
	if len(b.languages) == 0 {
		return true
	}
	for _, want := range b.languages {
		if want == l {
			return true
		}
	}
	return false
}

func (b *ruleBase) AppliesTo(path string, lang Language) bool {
	if !b.matchesLanguage(lang) {
		return false
	}
	if len(b.include) > 0 && !matchAny(b.include, path) {
		return false
	}
	return !matchAny(b.exclude, path)
}

// matchAny reports whether path matches one of the patterns. Patterns are
// validated when the definition is loaded, so match errors cannot occur.
func matchAny(patterns []string, path string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, path); ok {
			return true
		}
	}
	return false
}
