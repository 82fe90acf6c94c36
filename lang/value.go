package lang

import (
	"fmt"
	"strings"

	"github.com/sergev/mini/parser"
)

// ValueType enumerates the different runtime value categories.
type ValueType int

const (
	TypeNone ValueType = iota
	TypeInt
	TypeClosure
	TypePrimitive
)

func (t ValueType) String() string {
	switch t {
	case TypeNone:
		return "none"
	case TypeInt:
		return "integer"
	case TypeClosure:
		return "function"
	case TypePrimitive:
		return "builtin"
	default:
		return "unknown"
	}
}

// Value represents any runtime object in the interpreter.
type Value struct {
	Type    ValueType
	payload interface{}
}

// Primitive represents a built-in Go function exposed to the interpreter.
type Primitive func(*Evaluator, []Value) (Value, error)

// Builtin is a named primitive. Arity is ignored when Variadic is set.
type Builtin struct {
	Name     string
	Arity    int
	Variadic bool
	Fn       Primitive
}

// Closure represents a user-defined function. Env is the environment the
// function was defined in; calls look up free names there at call time.
type Closure struct {
	Name   string
	Params []string
	Body   parser.Expr
	Env    *Env
}

// IntValue constructs an integer Value.
func IntValue(i int64) Value {
	return Value{Type: TypeInt, payload: i}
}

// PrimitiveValue wraps a built-in function.
func PrimitiveValue(b *Builtin) Value {
	return Value{
		Type:    TypePrimitive,
		payload: b,
	}
}

// ClosureValue wraps a closure.
func ClosureValue(name string, params []string, body parser.Expr, env *Env) Value {
	return Value{
		Type:    TypeClosure,
		payload: &Closure{Name: name, Params: params, Body: body, Env: env},
	}
}

func (v Value) Int() int64 {
	if i, ok := v.payload.(int64); ok {
		return i
	}
	return 0
}

func (v Value) Primitive() *Builtin {
	if b, ok := v.payload.(*Builtin); ok {
		return b
	}
	return nil
}

func (v Value) Closure() *Closure {
	if c, ok := v.payload.(*Closure); ok {
		return c
	}
	return nil
}

// IsCallable reports whether v can appear as a callee.
func (v Value) IsCallable() bool {
	return v.Type == TypeClosure || v.Type == TypePrimitive
}

// IsTruthy reports whether v selects the then-branch of a conditional.
// Zero is the only false value.
func IsTruthy(v Value) bool {
	switch v.Type {
	case TypeInt:
		return v.Int() != 0
	case TypeNone:
		return false
	default:
		return true
	}
}

func (v Value) String() string {
	switch v.Type {
	case TypeNone:
		return "<none>"
	case TypeInt:
		return fmt.Sprintf("%d", v.Int())
	case TypeClosure:
		c := v.Closure()
		return fmt.Sprintf("<function %s(%s)>", c.Name, strings.Join(c.Params, " "))
	case TypePrimitive:
		return fmt.Sprintf("<builtin %s>", v.Primitive().Name)
	default:
		return "<unknown>"
	}
}
