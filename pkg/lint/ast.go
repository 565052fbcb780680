package lint

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
)

// violationCapture is the capture name that marks the reported node.
const violationCapture = "violation"

// ASTRule reports nodes matched by a tree-sitter query.
//
// The node captured as @violation is reported for each match; when a query
// has no @violation capture the first capture of the match is used. Nodes
// matched more than once are reported once.
type ASTRule struct {
	ruleBase
	parsers ParserProvider
	queries map[Language]*sitter.Query
}

// NewASTRule compiles the query of def for each of its languages.
func NewASTRule(def Definition, parsers ParserProvider) (*ASTRule, error) {
	base, err := def.base()
	if err != nil {
		return nil, err
	}
	if parsers == nil {
		return nil, fmt.Errorf("%w: rule %s: query rules need a parser provider", ErrInvalidDefinition, def.ID)
	}

	rule := &ASTRule{ruleBase: base, parsers: parsers, queries: make(map[Language]*sitter.Query)}
	for _, lang := range base.languages {
		grammar, err := parsers.Grammar(lang)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", def.ID, err)
		}
		q, err := sitter.NewQuery([]byte(def.Query), grammar)
		if err != nil {
			return nil, fmt.Errorf("%w: rule %s: query for %s: %v", ErrInvalidDefinition, def.ID, lang, err)
		}
		rule.queries[lang] = q
	}
	return rule, nil
}

// Kind implements Rule.
func (r *ASTRule) Kind() string { return "ast" }

// Check implements Rule. Files in languages the rule does not target yield
// no findings.
func (r *ASTRule) Check(ctx context.Context, f *File) ([]Finding, error) {
	q, ok := r.queries[f.Language]
	if !ok {
		return nil, nil
	}

	parser, err := r.parsers.Parser(f.Language)
	if err != nil {
		return nil, err
	}
	defer parser.Close()

	tree, err := parser.ParseCtx(ctx, nil, f.Content)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", f.Path, err)
	}
	defer tree.Close()

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(q, tree.RootNode())

	idx := newLineIndex(f.Content)
	seen := make(map[[2]uint32]bool)
	var findings []Finding
	for {
		m, ok := qc.NextMatch()
		if !ok {
			break
		}
		m = qc.FilterPredicates(m, f.Content)
		node := reportedNode(q, m)
		if node == nil {
			continue
		}
		span := [2]uint32{node.StartByte(), node.EndByte()}
		if seen[span] {
			continue
		}
		seen[span] = true

		start, end := node.StartPoint(), node.EndPoint()
		findings = append(findings, Finding{
			Line:      int(start.Row) + 1,
			Column:    int(start.Column) + 1,
			EndLine:   int(end.Row) + 1,
			EndColumn: int(end.Column) + 1,
			Snippet:   idx.lineText(int(start.Row) + 1),
			Message:   r.findingMessage(),
		})
	}
	return findings, nil
}

func reportedNode(q *sitter.Query, m *sitter.QueryMatch) *sitter.Node {
	if m == nil || len(m.Captures) == 0 {
		return nil
	}
	for _, c := range m.Captures {
		if q.CaptureNameForId(c.Index) == violationCapture {
			return c.Node
		}
	}
	return m.Captures[0].Node
}
