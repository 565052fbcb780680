package ratchet

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks.
var (
	// ErrParse matches every *ParseError.
	ErrParse = errors.New("invalid counts file")
	// ErrIO matches every *IOError.
	ErrIO = errors.New("counts file i/o failed")
	// ErrInvalidKey marks a rule id or region path that failed validation.
	ErrInvalidKey = errors.New("invalid key")
)

// ParseError reports counts text that is syntactically invalid or holds a
// value outside the accepted domain. Line and Column are 1-indexed and zero
// when the position is unknown.
type ParseError struct {
	Path   string // empty when parsing in-memory text
	Line   int
	Column int
	Msg    string
	Err    error
}

func (e *ParseError) Error() string {
	loc := e.Path
	if loc == "" {
		loc = "<input>"
	}
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d:%d", loc, e.Line, e.Column)
	}
	return fmt.Sprintf("%s: %s", loc, e.Msg)
}

// Unwrap returns the underlying cause, if any.
func (e *ParseError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrParse) succeed for any ParseError.
func (e *ParseError) Is(target error) bool { return target == ErrParse }

// IOError reports a read or write failure on a counts file.
type IOError struct {
	Op   string // "read" or "write"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying filesystem error.
func (e *IOError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrIO) succeed for any IOError.
func (e *IOError) Is(target error) bool { return target == ErrIO }
