package peg

import (
	"regexp"
	"strconv"
	"strings"
)

type expr interface {
	match(m *matcher, pos int) (*Node, bool)
	String() string
}

type memoKey struct {
	rule int
	pos  int
}

type memoEntry struct {
	node *Node
	ok   bool
}

type matcher struct {
	text string
	memo map[memoKey]memoEntry
	fail failure
}

func newMatcher(text string) *matcher {
	return &matcher{
		text: text,
		memo: make(map[memoKey]memoEntry),
	}
}

// matchRule applies a rule at pos, memoising the outcome. The entry is seeded
// with a failure before the body runs, so a left-recursive rule fails instead
// of looping.
func (m *matcher) matchRule(r *rule, pos int) (*Node, bool) {
	key := memoKey{rule: r.index, pos: pos}
	if e, ok := m.memo[key]; ok {
		return e.node, e.ok
	}
	m.memo[key] = memoEntry{}

	node, ok := r.body.match(m, pos)
	if ok {
		if _, alias := r.body.(*ruleRef); alias {
			node = &Node{Start: node.Start, End: node.End, Children: []*Node{node}}
		}
		node.Rule = r.name
	}
	m.memo[key] = memoEntry{node: node, ok: ok}
	return node, ok
}

type literal struct {
	text string
}

func (e *literal) match(m *matcher, pos int) (*Node, bool) {
	if strings.HasPrefix(m.text[pos:], e.text) {
		return &Node{Start: pos, End: pos + len(e.text)}, true
	}
	m.fail.record(pos, e.String())
	return nil, false
}

func (e *literal) String() string { return strconv.Quote(e.text) }

type pattern struct {
	re  *regexp.Regexp
	src string
}

func (e *pattern) match(m *matcher, pos int) (*Node, bool) {
	loc := e.re.FindStringIndex(m.text[pos:])
	if loc == nil {
		m.fail.record(pos, e.String())
		return nil, false
	}
	return &Node{Start: pos, End: pos + loc[1]}, true
}

func (e *pattern) String() string { return `~"` + e.src + `"` }

type ruleRef struct {
	rule *rule
}

func (e *ruleRef) match(m *matcher, pos int) (*Node, bool) {
	return m.matchRule(e.rule, pos)
}

func (e *ruleRef) String() string { return e.rule.name }

type sequence struct {
	items []expr
}

func (e *sequence) match(m *matcher, pos int) (*Node, bool) {
	children := make([]*Node, 0, len(e.items))
	cur := pos
	for _, item := range e.items {
		n, ok := item.match(m, cur)
		if !ok {
			return nil, false
		}
		children = append(children, n)
		cur = n.End
	}
	return &Node{Start: pos, End: cur, Children: children}, true
}

func (e *sequence) String() string { return joinExprs(e.items, " ") }

// choice wraps the winning alternative, so a choice node always has exactly
// one child.
type choice struct {
	alts []expr
}

func (e *choice) match(m *matcher, pos int) (*Node, bool) {
	for _, alt := range e.alts {
		if n, ok := alt.match(m, pos); ok {
			return &Node{Start: pos, End: n.End, Children: []*Node{n}}, true
		}
	}
	return nil, false
}

func (e *choice) String() string { return joinExprs(e.alts, " / ") }

type repeat struct {
	item expr
	min  int
	max  int // -1 is unbounded
}

func (e *repeat) match(m *matcher, pos int) (*Node, bool) {
	var children []*Node
	cur := pos
	for e.max < 0 || len(children) < e.max {
		n, ok := e.item.match(m, cur)
		if !ok {
			break
		}
		children = append(children, n)
		if n.End == cur {
			// An empty match would repeat forever.
			break
		}
		cur = n.End
	}
	if len(children) < e.min {
		return nil, false
	}
	return &Node{Start: pos, End: cur, Children: children}, true
}

func (e *repeat) String() string {
	suffix := "?"
	switch {
	case e.max < 0 && e.min == 0:
		suffix = "*"
	case e.max < 0:
		suffix = "+"
	}
	return "(" + e.item.String() + ")" + suffix
}

type lookahead struct {
	item   expr
	negate bool
}

func (e *lookahead) match(m *matcher, pos int) (*Node, bool) {
	_, ok := e.item.match(m, pos)
	if e.negate {
		ok = !ok
	}
	if !ok {
		return nil, false
	}
	return &Node{Start: pos, End: pos}, true
}

func (e *lookahead) String() string {
	if e.negate {
		return "!" + e.item.String()
	}
	return "&" + e.item.String()
}

func joinExprs(items []expr, sep string) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = item.String()
	}
	return "(" + strings.Join(parts, sep) + ")"
}
