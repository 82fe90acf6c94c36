package parser

import (
	"strings"
	"sync"

	"github.com/sergev/mini/peg"
)

// Rule names the tree builder dispatches on.
const (
	RuleProgram     = "program"
	RuleStatement   = "statement"
	RuleExpressions = "expressions"
	RuleFunc        = "func"
	RuleParameters  = "parameters"
	RuleParameter   = "parameter"
	RuleExpr        = "expr"
	RuleIfElse      = "ifelse"
	RuleCall        = "call"
	RuleArguments   = "arguments"
	RuleArgument    = "argument"
	RuleInfix       = "infix"
	RuleOperator    = "operator"
	RuleNumber      = "number"
	RuleName        = "name"
	RuleAssignment  = "assignment"
	RuleLvalue      = "lvalue"
	RuleWhitespace  = "ws"
)

type ruleDef struct {
	name string
	def  string
}

// One rule per construct. Arithmetic is fully parenthesised, so no precedence
// rules are needed. The order of alternatives in expr matters: a name only
// starts a call when "(" follows it.
var ruleDefs = []ruleDef{
	{RuleProgram, `statement+`},
	{RuleStatement, `ws (func / assignment) ws`},
	{RuleExpressions, `expr*`},
	{RuleFunc, `name ws "=" ws "(" parameters ")" ws "->" ws expr`},
	{RuleParameters, `parameter*`},
	{RuleParameter, `~"[a-z]+" ws`},
	{RuleExpr, `ws (ifelse / call / infix / number / name) ws`},
	{RuleIfElse, `"if" ws expr ws "then" ws expr ws "else" ws expr`},
	{RuleCall, `name "(" arguments ")"`},
	{RuleArguments, `argument*`},
	{RuleArgument, `expr ws`},
	{RuleInfix, `"(" ws expr ws operator ws expr ws ")"`},
	{RuleOperator, `"+" / "-" / "*" / "/"`},
	{RuleNumber, `~"[0-9]+"`},
	{RuleName, `~"[a-z]+" ws`},
	{RuleAssignment, `lvalue ws "=" ws expr`},
	{RuleLvalue, `~"[a-z]+" ws`},
	{RuleWhitespace, `~"\s*"`},
}

// GrammarDocument returns the language grammar, one rule per line.
func GrammarDocument() string {
	var b strings.Builder
	for _, r := range ruleDefs {
		b.WriteString(r.name)
		b.WriteString(" = ")
		b.WriteString(r.def)
		b.WriteByte('\n')
	}
	return b.String()
}

var languageGrammar = sync.OnceValue(func() *peg.Grammar {
	return peg.MustCompile(GrammarDocument())
})

// Grammar returns the compiled language grammar.
func Grammar() *peg.Grammar {
	return languageGrammar()
}
