package lint

import (
	"bytes"
	"context"
	"regexp"
	"sort"
)

// RegexRule reports every match of a regular expression.
type RegexRule struct {
	ruleBase
	re *regexp.Regexp
}

// NewRegexRule compiles a regex definition.
func NewRegexRule(def Definition) (*RegexRule, error) {
	base, err := def.base()
	if err != nil {
		return nil, err
	}
	return &RegexRule{ruleBase: base, re: regexp.MustCompile(def.Regex)}, nil
}

// Kind implements Rule.
func (r *RegexRule) Kind() string { return "regex" }

// Check implements Rule. Empty matches are ignored.
func (r *RegexRule) Check(ctx context.Context, f *File) ([]Finding, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	idx := newLineIndex(f.Content)
	var findings []Finding
	for _, loc := range r.re.FindAllIndex(f.Content, -1) {
		if loc[0] == loc[1] {
			continue
		}
		line, col := idx.position(loc[0])
		endLine, endCol := idx.position(loc[1])
		findings = append(findings, Finding{
			Line:      line,
			Column:    col,
			EndLine:   endLine,
			EndColumn: endCol,
			Snippet:   idx.lineText(line),
			Message:   r.findingMessage(),
		})
	}
	return findings, nil
}

// lineIndex maps byte offsets to 1-indexed line/column positions.
type lineIndex struct {
	content []byte
	starts  []int // byte offset of the first byte of every line
}

func newLineIndex(content []byte) *lineIndex {
	starts := []int{0}
	for i, c := range content {
		if c == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{content: content, starts: starts}
}

func (l *lineIndex) position(offset int) (line, col int) {
	i := sort.Search(len(l.starts), func(i int) bool { return l.starts[i] > offset }) - 1
	return i + 1, offset - l.starts[i] + 1
}

// lineText returns the trimmed text of a 1-indexed line.
func (l *lineIndex) lineText(line int) string {
	if line < 1 || line > len(l.starts) {
		return ""
	}
	start := l.starts[line-1]
	end := len(l.content)
	if line < len(l.starts) {
		end = l.starts[line] - 1
	}
	return string(bytes.TrimSpace(l.content[start:end]))
}
