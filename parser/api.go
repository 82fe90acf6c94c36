package parser

import (
	"fmt"
	"io"

	"github.com/sergev/mini/peg"
)

// ParseTree matches src against the named grammar rule and returns the raw
// parse tree.
func ParseTree(src, rule string) (*peg.Node, error) {
	tree, err := Grammar().Parse(src, rule)
	if err != nil {
		return nil, wrapError(src, err)
	}
	return tree, nil
}

// ParseProgram parses a sequence of statements.
func ParseProgram(src string) (*Module, error) {
	return parseAs[*Module](src, RuleProgram)
}

// ParseExpressions parses a whitespace-separated list of expressions.
func ParseExpressions(src string) (*ExprList, error) {
	return parseAs[*ExprList](src, RuleExpressions)
}

// ParseReader consumes mini source from an io.Reader and parses it as a
// statement program.
func ParseReader(r io.Reader) (*Module, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ParseProgram(string(data))
}

func parseAs[T Node](src, rule string) (T, error) {
	var zero T
	tree, err := ParseTree(src, rule)
	if err != nil {
		return zero, err
	}
	val, err := newBuilder(src).build(tree)
	if err != nil {
		return zero, err
	}
	node, ok := val.(T)
	if !ok {
		panic(&ShapeError{Rule: rule, Msg: fmt.Sprintf("built %T", val)})
	}
	return node, nil
}
