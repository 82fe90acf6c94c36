package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/sergev/mini/parser"
)

// DefaultMaxDepth bounds nested function calls for new evaluators.
const DefaultMaxDepth = 10000

// Evaluator executes mini programs against one session environment.
type Evaluator struct {
	Global *Env

	// MaxDepth limits nested calls; zero or less disables the limit.
	MaxDepth int

	// Logger receives debug records for function calls. A nil Logger uses
	// slog.Default().
	Logger *slog.Logger

	depth int
}

// NewEvaluator constructs an evaluator rooted at a new global environment.
func NewEvaluator() *Evaluator {
	return &Evaluator{
		Global:   NewEnv(nil),
		MaxDepth: DefaultMaxDepth,
	}
}

func (ev *Evaluator) logger() *slog.Logger {
	if ev.Logger != nil {
		return ev.Logger
	}
	return slog.Default()
}

// Binding returns the session binding for name.
func (ev *Evaluator) Binding(name string) (Value, bool) {
	return ev.Global.Lookup(name)
}

// SetBinding binds name in the session environment.
func (ev *Evaluator) SetBinding(name string, val Value) {
	ev.Global.Define(name, val)
}

// DefineBuiltin installs a primitive in the session environment.
func (ev *Evaluator) DefineBuiltin(b *Builtin) {
	ev.Global.Define(b.Name, PrimitiveValue(b))
}

// Exec runs the statements of mod in order. It stops at the first failing
// statement; bindings made by earlier statements remain.
func (ev *Evaluator) Exec(mod *parser.Module) error {
	for _, stmt := range mod.Stmts {
		if err := ev.execStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (ev *Evaluator) execStmt(stmt parser.Stmt) error {
	switch s := stmt.(type) {
	case *parser.Assign:
		val, err := ev.Eval(s.Value, ev.Global)
		if err != nil {
			return err
		}
		ev.Global.Define(s.Target.Name, val)
		return nil
	case *parser.FuncDef:
		params := make([]string, len(s.Params))
		seen := make(map[string]bool, len(s.Params))
		for i, p := range s.Params {
			if seen[p.Name] {
				return errors.New(located(p.Posn, fmt.Sprintf("duplicate parameter %s in %s", p.Name, s.Name.Name)))
			}
			seen[p.Name] = true
			params[i] = p.Name
		}
		ev.Global.Define(s.Name.Name, ClosureValue(s.Name.Name, params, s.Body, ev.Global))
		return nil
	default:
		return fmt.Errorf("unsupported statement %T", stmt)
	}
}

// EvalList evaluates each expression of list in order and returns their
// values.
func (ev *Evaluator) EvalList(list *parser.ExprList) ([]Value, error) {
	out := make([]Value, 0, len(list.Exprs))
	for _, expr := range list.Exprs {
		val, err := ev.Eval(expr, ev.Global)
		if err != nil {
			return nil, err
		}
		out = append(out, val)
	}
	return out, nil
}

// Eval evaluates a single expression within the provided environment.
func (ev *Evaluator) Eval(expr parser.Expr, env *Env) (Value, error) {
	if env == nil {
		env = ev.Global
	}
	switch e := expr.(type) {
	case *parser.NumberLit:
		return IntValue(e.Value), nil
	case *parser.NameRef:
		val, ok := env.Lookup(e.Name)
		if !ok {
			return Value{}, &UndefinedNameError{Name: e.Name, Pos: e.Posn}
		}
		return val, nil
	case *parser.BinaryExpr:
		return ev.evalBinary(e, env)
	case *parser.IfExpr:
		cond, err := ev.Eval(e.Cond, env)
		if err != nil {
			return Value{}, err
		}
		if IsTruthy(cond) {
			return ev.Eval(e.Then, env)
		}
		return ev.Eval(e.Else, env)
	case *parser.CallExpr:
		return ev.evalCall(e, env)
	default:
		return Value{}, fmt.Errorf("unsupported expression %T", expr)
	}
}

func (ev *Evaluator) evalOperand(op parser.Operator, expr parser.Expr, env *Env) (int64, error) {
	val, err := ev.Eval(expr, env)
	if err != nil {
		return 0, err
	}
	if val.Type != TypeInt {
		return 0, &TypeError{Op: op.String(), Want: TypeInt, Got: val, Pos: expr.Pos()}
	}
	return val.Int(), nil
}

func (ev *Evaluator) evalBinary(e *parser.BinaryExpr, env *Env) (Value, error) {
	a, err := ev.evalOperand(e.Op, e.Left, env)
	if err != nil {
		return Value{}, err
	}
	b, err := ev.evalOperand(e.Op, e.Right, env)
	if err != nil {
		return Value{}, err
	}
	r, err := Arith(e.Op, a, b, e.Posn)
	if err != nil {
		return Value{}, err
	}
	return IntValue(r), nil
}

// Arith applies op with overflow detection. Division truncates toward zero.
func Arith(op parser.Operator, a, b int64, pos parser.Position) (int64, error) {
	var r int64
	overflow := false
	switch op {
	case parser.OpAdd:
		r = a + b
		overflow = (a^r)&(b^r) < 0
	case parser.OpSub:
		r = a - b
		overflow = (a^b)&(a^r) < 0
	case parser.OpMul:
		if a == 0 || b == 0 {
			return 0, nil
		}
		r = a * b
		overflow = r/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64)
	case parser.OpDiv:
		if b == 0 {
			return 0, &DivisionByZeroError{Pos: pos}
		}
		if a == math.MinInt64 && b == -1 {
			overflow = true
			break
		}
		r = a / b
	default:
		return 0, fmt.Errorf("unsupported operator %s", op)
	}
	if overflow {
		return 0, &OverflowError{Op: op, Pos: pos}
	}
	return r, nil
}

func (ev *Evaluator) evalCall(e *parser.CallExpr, env *Env) (Value, error) {
	callee, ok := env.Lookup(e.Callee.Name)
	if !ok {
		return Value{}, &UndefinedNameError{Name: e.Callee.Name, Pos: e.Callee.Posn}
	}
	if !callee.IsCallable() {
		return Value{}, &TypeError{Op: "call of " + e.Callee.Name, Want: TypeClosure, Got: callee, Pos: e.Posn}
	}
	args := make([]Value, len(e.Args))
	for i, arg := range e.Args {
		val, err := ev.Eval(arg, env)
		if err != nil {
			return Value{}, err
		}
		args[i] = val
	}
	return ev.apply(callee, args, e.Posn)
}

// Apply invokes a function value with arguments.
func (ev *Evaluator) Apply(fn Value, args []Value) (Value, error) {
	return ev.apply(fn, args, parser.Position{})
}

func (ev *Evaluator) apply(fn Value, args []Value, pos parser.Position) (Value, error) {
	switch fn.Type {
	case TypePrimitive:
		b := fn.Primitive()
		if !b.Variadic && len(args) != b.Arity {
			return Value{}, &ArityError{Name: b.Name, Want: b.Arity, Got: len(args), Pos: pos}
		}
		val, err := b.Fn(ev, args)
		if err != nil {
			var lerr locatable
			if errors.As(err, &lerr) {
				lerr.locate(pos)
			}
			return Value{}, err
		}
		return val, nil
	case TypeClosure:
		c := fn.Closure()
		if len(args) != len(c.Params) {
			return Value{}, &ArityError{Name: c.Name, Want: len(c.Params), Got: len(args), Pos: pos}
		}
		if ev.MaxDepth > 0 && ev.depth >= ev.MaxDepth {
			return Value{}, &RecursionError{Name: c.Name, Depth: ev.MaxDepth, Pos: pos}
		}
		scope := NewEnv(c.Env)
		for i, name := range c.Params {
			scope.Define(name, args[i])
		}
		ev.depth++
		defer func() { ev.depth-- }()
		ev.logger().Debug("function call",
			slog.String("function", c.Name),
			slog.Int("argument-count", len(args)),
			slog.Int("depth", ev.depth))
		return ev.Eval(c.Body, scope)
	default:
		return Value{}, &TypeError{Op: "call", Want: TypeClosure, Got: fn, Pos: pos}
	}
}
