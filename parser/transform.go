package parser

import (
	"fmt"
	"strconv"

	"github.com/sergev/mini/peg"
)

type transformFunc func(b *builder, n *peg.Node, children []any) (any, error)

// transforms maps rule names to the function building their AST value.
// parameters and arguments are absent: their children already form the list
// the parent needs. ws is absent because it carries no meaning.
var transforms = map[string]transformFunc{
	RuleProgram:     buildProgram,
	RuleStatement:   buildStatement,
	RuleExpressions: buildExpressions,
	RuleFunc:        buildFunc,
	RuleParameter:   buildIdent,
	RuleExpr:        buildExpr,
	RuleIfElse:      buildIfElse,
	RuleCall:        buildCall,
	RuleArgument:    buildArgument,
	RuleInfix:       buildInfix,
	RuleOperator:    buildOperator,
	RuleNumber:      buildNumber,
	RuleName:        buildName,
	RuleAssignment:  buildAssignment,
	RuleLvalue:      buildIdent,
}

// program = statement+
func buildProgram(b *builder, n *peg.Node, children []any) (any, error) {
	return &Module{
		Stmts: listOf[Stmt](n, children),
		Posn:  b.pos(n),
	}, nil
}

// statement = ws (func / assignment) ws
func buildStatement(b *builder, n *peg.Node, children []any) (any, error) {
	expectChildren(n, children, 3)
	return unwrapChoice[Stmt](n, children, 1), nil
}

// expressions = expr*
func buildExpressions(b *builder, n *peg.Node, children []any) (any, error) {
	return &ExprList{
		Exprs: listOf[Expr](n, children),
		Posn:  b.pos(n),
	}, nil
}

// func = name ws "=" ws "(" parameters ")" ws "->" ws expr
func buildFunc(b *builder, n *peg.Node, children []any) (any, error) {
	expectChildren(n, children, 11)
	name := childAs[*NameRef](n, children, 0)
	params := childAs[[]any](n, children, 5)
	return &FuncDef{
		Name:   &Ident{Name: name.Name, Posn: name.Posn},
		Params: listOf[*Ident](n, params),
		Body:   childAs[Expr](n, children, 10),
		Posn:   b.pos(n),
	}, nil
}

// parameter = ~"[a-z]+" ws
// lvalue = ~"[a-z]+" ws
func buildIdent(b *builder, n *peg.Node, children []any) (any, error) {
	return &Ident{Name: b.text(n), Posn: b.pos(n)}, nil
}

// expr = ws (ifelse / call / infix / number / name) ws
func buildExpr(b *builder, n *peg.Node, children []any) (any, error) {
	expectChildren(n, children, 3)
	return unwrapChoice[Expr](n, children, 1), nil
}

// ifelse = "if" ws expr ws "then" ws expr ws "else" ws expr
func buildIfElse(b *builder, n *peg.Node, children []any) (any, error) {
	expectChildren(n, children, 11)
	return &IfExpr{
		Cond: childAs[Expr](n, children, 2),
		Then: childAs[Expr](n, children, 6),
		Else: childAs[Expr](n, children, 10),
		Posn: b.pos(n),
	}, nil
}

// call = name "(" arguments ")"
func buildCall(b *builder, n *peg.Node, children []any) (any, error) {
	expectChildren(n, children, 4)
	name := childAs[*NameRef](n, children, 0)
	args := childAs[[]any](n, children, 2)
	return &CallExpr{
		Callee: &Ident{Name: name.Name, Posn: name.Posn},
		Args:   listOf[Expr](n, args),
		Posn:   b.pos(n),
	}, nil
}

// argument = expr ws
func buildArgument(b *builder, n *peg.Node, children []any) (any, error) {
	expectChildren(n, children, 2)
	return childAs[Expr](n, children, 0), nil
}

// infix = "(" ws expr ws operator ws expr ws ")"
func buildInfix(b *builder, n *peg.Node, children []any) (any, error) {
	expectChildren(n, children, 9)
	return &BinaryExpr{
		Op:    childAs[Operator](n, children, 4),
		Left:  childAs[Expr](n, children, 2),
		Right: childAs[Expr](n, children, 6),
		Posn:  b.pos(n),
	}, nil
}

var operators = map[string]Operator{
	"+": OpAdd,
	"-": OpSub,
	"*": OpMul,
	"/": OpDiv,
}

// operator = "+" / "-" / "*" / "/"
func buildOperator(b *builder, n *peg.Node, children []any) (any, error) {
	op, ok := operators[b.text(n)]
	if !ok {
		panic(&ShapeError{Rule: n.Rule, Msg: fmt.Sprintf("unknown operator %q", b.text(n))})
	}
	return op, nil
}

// number = ~"[0-9]+"
func buildNumber(b *builder, n *peg.Node, children []any) (any, error) {
	text := b.text(n)
	val, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, newSyntaxError(b.src, n.Start, fmt.Errorf("integer literal %s out of range", text))
	}
	return &NumberLit{Value: val, Posn: b.pos(n)}, nil
}

// name = ~"[a-z]+" ws
func buildName(b *builder, n *peg.Node, children []any) (any, error) {
	return &NameRef{Name: b.text(n), Posn: b.pos(n)}, nil
}

// assignment = lvalue ws "=" ws expr
func buildAssignment(b *builder, n *peg.Node, children []any) (any, error) {
	expectChildren(n, children, 5)
	return &Assign{
		Target: childAs[*Ident](n, children, 0),
		Value:  childAs[Expr](n, children, 4),
		Posn:   b.pos(n),
	}, nil
}
