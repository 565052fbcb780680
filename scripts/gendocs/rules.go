package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/ratchet/pkg/lint"
	_ "github.com/leapstack-labs/ratchet/pkg/lint/builtin"
)

// generateRuleDocs writes the built-in rule reference.
func generateRuleDocs(outDir string) error {
	log.Printf("Generating rule docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	w := renderRuleDocs(lint.BuiltinDefinitions())
	if err := os.WriteFile(filepath.Join(outDir, "index.md"), w.Bytes(), 0600); err != nil {
		return err
	}
	log.Printf("  Generated index.md")
	return nil
}

func renderRuleDocs(defs []lint.Definition) *MarkdownWriter {
	w := NewMarkdownWriter()

	w.Frontmatter("Rules", "Built-in ratchet rules")
	w.GeneratedMarker()

	w.Header(1, "Rules")
	w.Paragraph(fmt.Sprintf("ratchet ships with %d built-in rules. Each counts matches per directory; the counts file sets how many are allowed.", len(defs)))

	rows := make([][]string, 0, len(defs))
	for _, d := range defs {
		rows = append(rows, []string{
			fmt.Sprintf("[%s](#%s)", InlineCode(d.ID), d.ID),
			definitionKind(d),
			languageList(d),
			cleanDescription(d.Description),
		})
	}
	w.Table([]string{"Rule", "Kind", "Languages", "Description"}, rows)

	w.Header(2, "Custom Rules")
	w.Paragraph("Rules are added by placing YAML files in the rules directory (`ratchets/` by default). A file with the id of a built-in rule replaces it.")
	w.CodeBlock("yaml", `id: no-print
description: print calls
languages: [python]
regex: 'print\('
exclude:
  - "scripts/**"`)

	for _, d := range defs {
		writeRuleDoc(w, d)
	}
	return w
}

func writeRuleDoc(w *MarkdownWriter, d lint.Definition) {
	w.Line(fmt.Sprintf("## %s {#%s}", d.ID, d.ID))
	w.Newline()

	w.Paragraph(cleanDescription(d.Description))
	w.Line(fmt.Sprintf("%s %s", Bold("Languages:"), languageList(d)))
	w.Newline()

	if d.Regex != "" {
		w.Header(4, "Pattern")
		w.CodeBlock("regex", d.Regex)
	} else {
		w.Header(4, "Query")
		w.CodeBlock("scheme", strings.TrimSpace(d.Query))
	}

	if len(d.Include) > 0 || len(d.Exclude) > 0 {
		var items []string
		for _, p := range d.Include {
			items = append(items, "include "+InlineCode(p))
		}
		for _, p := range d.Exclude {
			items = append(items, "exclude "+InlineCode(p))
		}
		w.Header(4, "Paths")
		w.BulletList(items)
	}

	w.Line("---")
	w.Newline()
}

func definitionKind(d lint.Definition) string {
	if d.Regex != "" {
		return "regex"
	}
	return "ast"
}

func languageList(d lint.Definition) string {
	if len(d.Languages) == 0 {
		return "all"
	}
	return strings.Join(d.Languages, ", ")
}
