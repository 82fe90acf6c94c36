package parser

import (
	"errors"
	"fmt"

	"github.com/sergev/mini/peg"
)

// SyntaxError reports source text that does not match the grammar.
type SyntaxError struct {
	Err        error
	Pos        Position
	Incomplete bool
}

func (e *SyntaxError) Error() string {
	if e == nil || e.Err == nil {
		return ""
	}
	msg := e.Err.Error()
	var perr *peg.SyntaxError
	if errors.As(e.Err, &perr) {
		msg = "syntax error: " + perr.Detail()
	}
	return fmt.Sprintf("%s:%d:%d: %s", "input", e.Pos.Line, e.Pos.Column, msg)
}

func (e *SyntaxError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newSyntaxError(src string, offset int, err error) error {
	if err == nil {
		return nil
	}
	return &SyntaxError{
		Err: err,
		Pos: PositionAt(src, offset),
	}
}

// wrapError converts matcher failures into *SyntaxError. Input that ran out
// before the grammar was satisfied is marked incomplete.
func wrapError(src string, err error) error {
	if err == nil {
		return nil
	}
	var serr *SyntaxError
	if errors.As(err, &serr) {
		return err
	}
	var perr *peg.SyntaxError
	if errors.As(err, &perr) {
		return &SyntaxError{
			Err:        err,
			Pos:        PositionAt(src, perr.Offset),
			Incomplete: perr.Offset >= len(src),
		}
	}
	return err
}

// IsIncomplete reports whether the supplied error represents incomplete input.
func IsIncomplete(err error) bool {
	var serr *SyntaxError
	if errors.As(err, &serr) {
		return serr.Incomplete
	}
	return false
}

// ShapeError reports a parse tree whose shape does not fit the transform for
// its rule. It means the grammar and the tree builder disagree, and is raised
// with panic rather than returned.
type ShapeError struct {
	Rule string
	Msg  string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("parser: rule %s: %s", e.Rule, e.Msg)
}
