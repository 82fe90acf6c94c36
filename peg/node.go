package peg

// Node is one match in a parse tree.
//
// Rule is the grammar rule name for nodes produced by a rule, and empty for
// anonymous sub-expressions (literals, regexes, groups, choices and
// repetitions). Start and End form the half-open byte span [Start, End) of the
// matched text.
type Node struct {
	Rule     string
	Start    int
	End      int
	Children []*Node
}

// Text returns the source text matched by the node.
func (n *Node) Text(src string) string {
	if n == nil || n.Start < 0 || n.End > len(src) || n.Start > n.End {
		return ""
	}
	return src[n.Start:n.End]
}

// Len returns the number of matched bytes.
func (n *Node) Len() int {
	return n.End - n.Start
}

// Walk calls fn for every node in pre-order. Returning false from fn skips the
// node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(fn)
	}
}
