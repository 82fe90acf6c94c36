package lang

import (
	"fmt"

	"github.com/sergev/mini/parser"
)

func located(pos parser.Position, msg string) string {
	return fmt.Sprintf("%s:%d:%d: %s", "input", pos.Line, pos.Column, msg)
}

// UndefinedNameError reports a reference to an unbound identifier.
type UndefinedNameError struct {
	Name string
	Pos  parser.Position
}

func (e *UndefinedNameError) Error() string {
	return located(e.Pos, "undefined name: "+e.Name)
}

// DivisionByZeroError reports integer division by zero.
type DivisionByZeroError struct {
	Pos parser.Position
}

func (e *DivisionByZeroError) Error() string {
	return located(e.Pos, "division by zero")
}

// ArityError reports a call whose argument count does not match the
// function's parameter count.
type ArityError struct {
	Name string
	Want int
	Got  int
	Pos  parser.Position
}

func (e *ArityError) Error() string {
	return located(e.Pos, fmt.Sprintf("%s expects %d argument%s, got %d", e.Name, e.Want, plural(e.Want), e.Got))
}

// TypeError reports a value of the wrong kind, such as arithmetic on a
// function or a call through an integer.
type TypeError struct {
	Op   string
	Want ValueType
	Got  Value
	Pos  parser.Position
}

func (e *TypeError) Error() string {
	return located(e.Pos, fmt.Sprintf("%s expects %s, got %s %s", e.Op, e.Want, e.Got.Type, e.Got))
}

// OverflowError reports integer arithmetic outside the 64-bit range.
type OverflowError struct {
	Op  parser.Operator
	Pos parser.Position
}

func (e *OverflowError) Error() string {
	return located(e.Pos, fmt.Sprintf("integer overflow in %s", e.Op))
}

// RecursionError reports calls nested deeper than Evaluator.MaxDepth.
type RecursionError struct {
	Name  string
	Depth int
	Pos   parser.Position
}

func (e *RecursionError) Error() string {
	return located(e.Pos, fmt.Sprintf("maximum call depth %d exceeded calling %s", e.Depth, e.Name))
}

// locatable errors raised by primitives get the call position filled in.
type locatable interface {
	locate(pos parser.Position)
}

func (e *TypeError) locate(pos parser.Position) {
	if e.Pos == (parser.Position{}) {
		e.Pos = pos
	}
}

func (e *OverflowError) locate(pos parser.Position) {
	if e.Pos == (parser.Position{}) {
		e.Pos = pos
	}
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
