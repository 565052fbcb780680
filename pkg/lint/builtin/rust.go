package builtin

import "github.com/leapstack-labs/ratchet/pkg/lint"

func init() {
	lint.Register(NoUnwrap)
	lint.Register(NoExpect)
	lint.Register(NoPanic)
}

// NoUnwrap counts .unwrap() calls.
var NoUnwrap = lint.Definition{
	ID:          "no-unwrap",
	Description: "Rust .unwrap() calls",
	Message:     "avoid .unwrap(); propagate the error instead",
	Languages:   []string{"rust"},
	Query:       methodCallQuery("unwrap"),
	Exclude:     []string{"**/tests/**", "**/benches/**"},
}

// NoExpect counts .expect(..) calls.
var NoExpect = lint.Definition{
	ID:          "no-expect",
	Description: "Rust .expect() calls",
	Message:     "avoid .expect(); propagate the error instead",
	Languages:   []string{"rust"},
	Query:       methodCallQuery("expect"),
	Exclude:     []string{"**/tests/**", "**/benches/**"},
}

// NoPanic counts panic!, todo! and unimplemented! invocations.
var NoPanic = lint.Definition{
	ID:          "no-panic",
	Description: "Rust panic!, todo! and unimplemented! macros",
	Message:     "avoid panicking macros",
	Languages:   []string{"rust"},
	Query: `((macro_invocation macro: (identifier) @name) @violation
  (#match? @name "^(panic|todo|unimplemented)$"))`,
}

func methodCallQuery(method string) string {
	return `((call_expression
  function: (field_expression field: (field_identifier) @method)) @violation
  (#eq? @method "` + method + `"))`
}
