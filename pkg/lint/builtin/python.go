package builtin

import "github.com/leapstack-labs/ratchet/pkg/lint"

func init() {
	lint.Register(BareExcept)
	lint.Register(NoEval)
}

// BareExcept counts except clauses without an exception type.
var BareExcept = lint.Definition{
	ID:          "bare-except",
	Description: "Python bare except clauses",
	Message:     "catch a specific exception type",
	Languages:   []string{"python"},
	Regex:       `(?m)^\s*except\s*:`,
}

// NoEval counts eval() and exec() calls.
var NoEval = lint.Definition{
	ID:          "no-eval",
	Description: "Python eval() and exec() calls",
	Message:     "avoid eval/exec",
	Languages:   []string{"python"},
	Query: `((call function: (identifier) @fn) @violation
  (#match? @fn "^(eval|exec)$"))`,
}
