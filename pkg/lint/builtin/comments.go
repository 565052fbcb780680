package builtin

import "github.com/leapstack-labs/ratchet/pkg/lint"

func init() {
	lint.Register(NoTodo)
	lint.Register(NoFixme)
}

// NoTodo counts TODO markers in any text file.
var NoTodo = lint.Definition{
	ID:          "no-todo",
	Description: "TODO comments",
	Message:     "TODO comment",
	Regex:       `\bTODO\b`,
}

// NoFixme counts FIXME and XXX markers in any text file.
var NoFixme = lint.Definition{
	ID:          "no-fixme",
	Description: "FIXME and XXX comments",
	Message:     "FIXME comment",
	Regex:       `\b(FIXME|XXX)\b`,
}
