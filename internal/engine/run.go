package engine

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/leapstack-labs/ratchet/internal/walker"
	"github.com/leapstack-labs/ratchet/pkg/lint"
	"github.com/leapstack-labs/ratchet/pkg/ratchet"
	"golang.org/x/sync/errgroup"
)

// Run discovers files and applies every rule to each file it targets.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	files, err := walker.Walk(ctx, e.root, e.walk)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("discovered files", "count", len(files))

	var (
		mu         sync.Mutex
		violations []ratchet.Violation
	)

	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(e.jobs)
	for _, f := range files {
		eg.Go(func() error {
			found, err := e.scanFile(egctx, f)
			if err != nil {
				return err
			}
			if len(found) == 0 {
				return nil
			}
			mu.Lock()
			violations = append(violations, found...)
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	sortViolations(violations)

	ids := make([]ratchet.RuleID, 0, len(e.rules))
	for _, r := range e.rules {
		ids = append(ids, r.ID())
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}

	e.logger.Debug("scan complete", "files", len(files), "violations", len(violations))
	return &Result{Violations: violations, FilesScanned: len(files), Files: paths, RulesRun: ids}, nil
}

func (e *Engine) scanFile(ctx context.Context, wf walker.File) ([]ratchet.Violation, error) {
	var applicable []lint.Rule
	for _, r := range e.rules {
		if r.AppliesTo(wf.Path, wf.Language) {
			applicable = append(applicable, r)
		}
	}
	if len(applicable) == 0 {
		return nil, nil
	}

	content, err := os.ReadFile(wf.AbsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", wf.Path, err)
	}
	file := &lint.File{Path: wf.Path, Language: wf.Language, Content: content}

	var out []ratchet.Violation
	for _, r := range applicable {
		findings, err := r.Check(ctx, file)
		if err != nil {
			return nil, fmt.Errorf("rule %s on %s: %w", r.ID(), wf.Path, err)
		}
		if len(findings) == 0 {
			continue
		}
		region, _, _ := e.budgets.Resolve(r.ID(), wf.Path)
		for _, f := range findings {
			out = append(out, ratchet.Violation{
				RuleID:    r.ID(),
				File:      wf.Path,
				Line:      f.Line,
				Column:    f.Column,
				EndLine:   f.EndLine,
				EndColumn: f.EndColumn,
				Snippet:   f.Snippet,
				Message:   f.Message,
				Region:    region,
			})
		}
	}
	return out, nil
}

func sortViolations(vs []ratchet.Violation) {
	sort.SliceStable(vs, func(i, j int) bool {
		a, b := vs[i], vs[j]
		if a.RuleID != b.RuleID {
			return a.RuleID < b.RuleID
		}
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		if a.EndLine != b.EndLine {
			return a.EndLine < b.EndLine
		}
		return a.EndColumn < b.EndColumn
	})
}
