package forklr

import (
	"fmt"
	"strings"
)

// Node is a node of a parse tree. Tag is the name of the non-terminal which
// produced the node, Rank is the declaration index of the grammar alternative
// used. Children are either *Node or string (leaves, i.e. matched text).
//
// Leaves carry no rank and no span of their own; the span of a node covers
// all of its children.
type Node struct {
	Tag      string
	Rank     int
	Span     Span
	Children []interface{}
}

// NewNode creates a parse tree node.
func NewNode(tag string, rank int, children ...interface{}) *Node {
	return &Node{Tag: tag, Rank: rank, Children: children}
}

// Child returns child number i or nil.
func (n *Node) Child(i int) interface{} {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// ChildNode returns child number i if it is a node, otherwise nil.
func (n *Node) ChildNode(i int) *Node {
	if c, ok := n.Child(i).(*Node); ok {
		return c
	}
	return nil
}

// Leaves returns the leaves of the tree rooted at n, from left to right.
func (n *Node) Leaves() []string {
	var leaves []string
	n.walk(func(c interface{}) {
		if s, ok := c.(string); ok {
			leaves = append(leaves, s)
		}
	})
	return leaves
}

func (n *Node) walk(f func(interface{})) {
	if n == nil {
		return
	}
	for _, c := range n.Children {
		f(c)
		if cn, ok := c.(*Node); ok {
			cn.walk(f)
		}
	}
}

// String returns an s-expression for the tree, e.g.
//
//     (Expr (Expr "1") "+" "2")
//
func (n *Node) String() string {
	var b strings.Builder
	n.sexpr(&b)
	return b.String()
}

func (n *Node) sexpr(b *strings.Builder) {
	if n == nil {
		b.WriteString("()")
		return
	}
	b.WriteByte('(')
	b.WriteString(n.Tag)
	for _, c := range n.Children {
		b.WriteByte(' ')
		switch x := c.(type) {
		case *Node:
			x.sexpr(b)
		case string:
			fmt.Fprintf(b, "%q", x)
		default:
			fmt.Fprintf(b, "%v", x)
		}
	}
	b.WriteByte(')')
}

// Indented returns the tree as a list of (level, text) pairs, suitable for
// rendering as an indented list or a terminal tree.
func (n *Node) Indented() []IndentedLine {
	return n.indented(0, nil)
}

// IndentedLine is one line of an indented tree rendering.
type IndentedLine struct {
	Level int
	Text  string
}

func (n *Node) indented(level int, lines []IndentedLine) []IndentedLine {
	lines = append(lines, IndentedLine{Level: level, Text: fmt.Sprintf("%s #%d", n.Tag, n.Rank)})
	for _, c := range n.Children {
		switch x := c.(type) {
		case *Node:
			lines = x.indented(level+1, lines)
		default:
			lines = append(lines, IndentedLine{Level: level + 1, Text: fmt.Sprintf("%q", x)})
		}
	}
	return lines
}
