package ratchet

import (
	"path"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxRuleIDLength bounds rule identifiers so they stay usable as TOML table names.
const maxRuleIDLength = 128

var ruleIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// RuleID identifies a lint rule, e.g. "no-unwrap".
// The zero value is not a valid RuleID; obtain one through NewRuleID.
type RuleID string

// NewRuleID validates s and returns it as a RuleID.
// The second result is false when s is empty, too long, or contains
// characters outside [A-Za-z0-9_-] (a leading '-' or '_' is also rejected).
func NewRuleID(s string) (RuleID, bool) {
	if s == "" || len(s) > maxRuleIDLength || !ruleIDPattern.MatchString(s) {
		return "", false
	}
	return RuleID(s), true
}

// MustRuleID is like NewRuleID but panics on invalid input.
// Intended for package-level rule declarations and tests.
func MustRuleID(s string) RuleID {
	id, ok := NewRuleID(s)
	if !ok {
		panic("ratchet: invalid rule id " + `"` + s + `"`)
	}
	return id
}

// String returns the identifier text.
func (r RuleID) String() string { return string(r) }

// RootRegion is the region covering the whole repository.
const RootRegion RegionPath = "."

// RegionPath is a normalized, slash-separated directory scope relative to the
// repository root. "." is the root; there is never a trailing separator.
type RegionPath string

// NewRegionPath normalizes s into a RegionPath.
//
// Backslashes are treated as separators and "." segments and trailing
// separators are removed, so "./src/legacy/" becomes "src/legacy". The second
// result is false for empty input, absolute paths, paths escaping the root via
// "..", invalid UTF-8 and control characters.
func NewRegionPath(s string) (RegionPath, bool) {
	if s == "" || !utf8.ValidString(s) {
		return "", false
	}
	for _, r := range s {
		if unicode.IsControl(r) {
			return "", false
		}
	}
	s = strings.ReplaceAll(s, `\`, "/")
	if strings.HasPrefix(s, "/") || hasDrivePrefix(s) {
		return "", false
	}
	cleaned := path.Clean(s)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", false
	}
	return RegionPath(cleaned), true
}

// MustRegionPath is like NewRegionPath but panics on invalid input.
func MustRegionPath(s string) RegionPath {
	p, ok := NewRegionPath(s)
	if !ok {
		panic("ratchet: invalid region path " + `"` + s + `"`)
	}
	return p
}

// String returns the path text.
func (p RegionPath) String() string { return string(p) }

// IsRoot reports whether p is the repository root.
func (p RegionPath) IsRoot() bool { return p == RootRegion }

// Contains reports whether filePath lies inside p. Matching is by whole path
// segment: "src" contains "src/x.go" but not "srcx/y.go".
func (p RegionPath) Contains(filePath string) bool {
	if p.IsRoot() {
		return true
	}
	f := cleanFilePath(filePath)
	return f == string(p) || strings.HasPrefix(f, string(p)+"/")
}

func hasDrivePrefix(s string) bool {
	return len(s) >= 2 && s[1] == ':' &&
		((s[0] >= 'a' && s[0] <= 'z') || (s[0] >= 'A' && s[0] <= 'Z'))
}

func cleanFilePath(filePath string) string {
	return path.Clean(strings.ReplaceAll(filePath, `\`, "/"))
}

// ancestors calls fn with every directory containing filePath, from the most
// specific to the root, stopping early when fn returns false. The root region
// is always visited last.
func ancestors(filePath string, fn func(RegionPath) bool) {
	dir := path.Dir(cleanFilePath(filePath))
	for dir != "." && dir != "/" && dir != "" {
		if !fn(RegionPath(dir)) {
			return
		}
		parent := path.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	fn(RootRegion)
}
