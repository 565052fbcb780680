package builtin

import "github.com/leapstack-labs/ratchet/pkg/lint"

func init() {
	lint.Register(NoConsoleLog)
	lint.Register(NoDebugger)
}

// NoConsoleLog counts console.log calls.
var NoConsoleLog = lint.Definition{
	ID:          "no-console-log",
	Description: "console.log calls",
	Message:     "remove console.log",
	Languages:   []string{"javascript", "typescript"},
	Query: `((call_expression
  function: (member_expression
    object: (identifier) @obj
    property: (property_identifier) @prop)) @violation
  (#eq? @obj "console")
  (#eq? @prop "log"))`,
}

// NoDebugger counts debugger statements.
var NoDebugger = lint.Definition{
	ID:          "no-debugger",
	Description: "debugger statements",
	Languages:   []string{"javascript", "typescript"},
	Query:       `(debugger_statement) @violation`,
}
