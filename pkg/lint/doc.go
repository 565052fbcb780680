// Package lint provides the rule model that feeds the ratchet budget checks.
//
// # Rule Kinds
//
// Two kinds of rules are supported, both declared with a Definition:
//
//  1. Regex rules: a Go regular expression matched against file content
//  2. AST rules: a tree-sitter query matched against the parsed syntax tree
//
// AST rules obtain parsers from a ParserProvider. ParserCache is the default
// provider; it loads each grammar once and is safe for concurrent use.
//
// # Rule Registration
//
// Built-in rules are registered via init() functions when their package is
// imported:
//
//	import _ "github.com/leapstack-labs/ratchet/pkg/lint/builtin"
//
// User rules live in YAML files (one rule per file) loaded with
// LoadDefinitions:
//
//	id: no-fmt-println
//	description: Use the structured logger instead of fmt.Println
//	languages: [go]
//	regex: 'fmt\.Println\('
//	exclude: ["**/*_test.go"]
//
// # Building a Registry
//
//	defs, err := lint.LoadDefinitions("ratchets")
//	reg, err := lint.NewDefaultRegistry(lint.NewParserCache(), defs)
//	for _, rule := range reg.All() { ... }
//
// User definitions override built-ins with the same ID.
//
// # Configuration
//
// Use Config to control which rules run:
//
//	config := lint.NewConfig()
//	config.Disable("no-fixme")
//	rules := config.Filter(reg.All())
package lint
