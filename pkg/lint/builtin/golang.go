package builtin

import "github.com/leapstack-labs/ratchet/pkg/lint"

func init() {
	lint.Register(GoNoPanic)
}

// GoNoPanic counts calls to the panic builtin outside tests.
var GoNoPanic = lint.Definition{
	ID:          "go-no-panic",
	Description: "Go panic() calls",
	Message:     "return an error instead of panicking",
	Languages:   []string{"go"},
	Query: `((call_expression function: (identifier) @fn) @violation
  (#eq? @fn "panic"))`,
	Exclude: []string{"**/*_test.go"},
}
