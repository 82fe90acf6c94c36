package parser

// Position tracks a source location within mini source text.
type Position struct {
	Offset int // zero-based byte offset
	Line   int // one-based line number
	Column int // one-based column number
}

// Node represents any AST node with a source position.
type Node interface {
	Pos() Position
}

// Stmt represents a top-level statement.
type Stmt interface {
	Node
	stmtNode()
}

// Expr represents an expression.
type Expr interface {
	Node
	exprNode()
}

// Operator is a binary arithmetic operator.
type Operator int

const (
	OpAdd Operator = iota
	OpSub
	OpMul
	OpDiv
)

func (op Operator) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	default:
		return "?"
	}
}

// Ident is an identifier that names a binding rather than reading one:
// function names, parameters and assignment targets.
type Ident struct {
	Name string
	Posn Position
}

func (i *Ident) Pos() Position { return i.Posn }

// Module is the root of a parsed statement program.
type Module struct {
	Stmts []Stmt
	Posn  Position
}

func (m *Module) Pos() Position { return m.Posn }

// ExprList is the root of a parsed expression list.
type ExprList struct {
	Exprs []Expr
	Posn  Position
}

func (l *ExprList) Pos() Position { return l.Posn }

// FuncDef binds a function whose result is the value of Body.
type FuncDef struct {
	Name   *Ident
	Params []*Ident
	Body   Expr
	Posn   Position
}

func (d *FuncDef) Pos() Position { return d.Posn }
func (*FuncDef) stmtNode()       {}

// Assign binds Target to the value of Value.
type Assign struct {
	Target *Ident
	Value  Expr
	Posn   Position
}

func (s *Assign) Pos() Position { return s.Posn }
func (*Assign) stmtNode()       {}

// IfExpr selects Then or Else depending on Cond.
type IfExpr struct {
	Cond Expr
	Then Expr
	Else Expr
	Posn Position
}

func (e *IfExpr) Pos() Position { return e.Posn }
func (*IfExpr) exprNode()       {}

// CallExpr invokes a named function with arguments.
type CallExpr struct {
	Callee *Ident
	Args   []Expr
	Posn   Position
}

func (e *CallExpr) Pos() Position { return e.Posn }
func (*CallExpr) exprNode()       {}

// BinaryExpr represents parenthesised infix arithmetic.
type BinaryExpr struct {
	Op          Operator
	Left, Right Expr
	Posn        Position
}

func (e *BinaryExpr) Pos() Position { return e.Posn }
func (*BinaryExpr) exprNode()       {}

// NumberLit is a decimal integer literal.
type NumberLit struct {
	Value int64
	Posn  Position
}

func (e *NumberLit) Pos() Position { return e.Posn }
func (*NumberLit) exprNode()       {}

// NameRef reads a binding.
type NameRef struct {
	Name string
	Posn Position
}

func (e *NameRef) Pos() Position { return e.Posn }
func (*NameRef) exprNode()       {}
