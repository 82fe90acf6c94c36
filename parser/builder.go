package parser

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/edwingeng/deque"
	"github.com/sergev/mini/peg"
)

// builder turns a parse tree into AST nodes bottom-up.
type builder struct {
	src        string
	transforms map[string]transformFunc
}

func newBuilder(src string) *builder {
	return &builder{
		src:        src,
		transforms: transforms,
	}
}

type walkFrame struct {
	node     *peg.Node
	expanded bool
}

// build evaluates every child before its parent and hands the parent's
// transform the already-built children in parse order. Rules without a
// transform evaluate to the []any of their children.
func (b *builder) build(root *peg.Node) (any, error) {
	work := deque.NewDeque()
	work.PushBack(&walkFrame{node: root})
	var results []any

	for !work.Empty() {
		f := work.Back().(*walkFrame)
		if !f.expanded {
			f.expanded = true
			for i := len(f.node.Children) - 1; i >= 0; i-- {
				work.PushBack(&walkFrame{node: f.node.Children[i]})
			}
			continue
		}
		work.PopBack()

		n := len(f.node.Children)
		children := make([]any, n)
		copy(children, results[len(results)-n:])
		results = results[:len(results)-n]

		val, err := b.apply(f.node, children)
		if err != nil {
			return nil, err
		}
		results = append(results, val)
	}

	if len(results) != 1 {
		panic(&ShapeError{Rule: root.Rule, Msg: fmt.Sprintf("walk left %d results", len(results))})
	}
	return results[0], nil
}

func (b *builder) apply(n *peg.Node, children []any) (any, error) {
	if fn, ok := b.transforms[n.Rule]; ok && n.Rule != "" {
		return fn(b, n, children)
	}
	return children, nil
}

func (b *builder) pos(n *peg.Node) Position {
	return PositionAt(b.src, n.Start)
}

func (b *builder) text(n *peg.Node) string {
	return strings.TrimSpace(n.Text(b.src))
}

func expectChildren(n *peg.Node, children []any, want int) {
	if len(children) != want {
		panic(&ShapeError{
			Rule: n.Rule,
			Msg:  fmt.Sprintf("expected %d children, got %d", want, len(children)),
		})
	}
}

func childAs[T any](n *peg.Node, children []any, i int) T {
	if i >= len(children) {
		panic(&ShapeError{Rule: n.Rule, Msg: fmt.Sprintf("missing child %d", i)})
	}
	v, ok := children[i].(T)
	if !ok {
		panic(&ShapeError{
			Rule: n.Rule,
			Msg:  fmt.Sprintf("child %d is %T, want %v", i, children[i], reflect.TypeOf((*T)(nil)).Elem()),
		})
	}
	return v
}

// unwrapChoice returns the single alternative an ordered choice matched.
// Choice nodes carry no rule name, so they reach here as a one-element list.
func unwrapChoice[T any](n *peg.Node, children []any, i int) T {
	list := childAs[[]any](n, children, i)
	if len(list) != 1 {
		panic(&ShapeError{
			Rule: n.Rule,
			Msg:  fmt.Sprintf("choice at child %d has %d results, want 1", i, len(list)),
		})
	}
	return childAs[T](n, list, 0)
}

func listOf[T any](n *peg.Node, items []any) []T {
	out := make([]T, len(items))
	for i := range items {
		out[i] = childAs[T](n, items, i)
	}
	return out
}
