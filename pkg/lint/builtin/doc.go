// Package builtin contains the rules compiled into ratchet.
// Import this package to register them with the lint package:
//
//	import _ "github.com/leapstack-labs/ratchet/pkg/lint/builtin"
//
// Rules are registered via init() functions, one file per language group:
//   - comments.go: language-independent regex rules (no-todo, no-fixme)
//   - rust.go: no-unwrap, no-expect, no-panic
//   - golang.go: go-no-panic
//   - python.go: bare-except, no-eval
//   - javascript.go: no-console-log, no-debugger
//
// A definition file in the rules directory with the same id replaces the
// built-in rule.
package builtin
