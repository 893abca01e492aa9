package glr

import (
	"github.com/npillmayer/forklr"
)

// Ordering is the result of comparing two parse trees by rank.
type Ordering int8

// Results of comparing parse trees.
const (
	Less         Ordering = -1
	Equal        Ordering = 0
	Greater      Ordering = 1
	Incomparable Ordering = 2
)

func (o Ordering) String() string {
	switch o {
	case Less:
		return "less"
	case Equal:
		return "equal"
	case Greater:
		return "greater"
	}
	return "incomparable"
}

// Compare compares two parse trees by rank. Nodes are compared top-down and
// left to right; the first pair of nodes with differing ranks decides.
// Leaves always compare equal. Trees with nodes of different tags at the same
// position, or a leaf opposite to a node, are incomparable.
func Compare(t1, t2 *forklr.Node) Ordering {
	if t1 == nil || t2 == nil {
		if t1 == t2 {
			return Equal
		}
		return Incomparable
	}
	if t1.Tag != t2.Tag {
		return Incomparable
	}
	if t1.Rank != t2.Rank {
		if t1.Rank < t2.Rank {
			return Less
		}
		return Greater
	}
	if len(t1.Children) != len(t2.Children) {
		return Incomparable
	}
	for i := range t1.Children {
		if o := compareChildren(t1.Children[i], t2.Children[i]); o != Equal {
			return o
		}
	}
	return Equal
}

func compareChildren(c1, c2 interface{}) Ordering {
	n1, ok1 := c1.(*forklr.Node)
	n2, ok2 := c2.(*forklr.Node)
	switch {
	case ok1 && ok2:
		return Compare(n1, n2)
	case ok1 || ok2:
		return Incomparable
	}
	return Equal
}

// compareStacks compares the node stacks of two contexts, bottom to top.
func compareStacks(s1, s2 []entry) Ordering {
	if len(s1) != len(s2) {
		return Incomparable
	}
	for i := range s1 {
		var o Ordering
		switch {
		case s1[i].node != nil && s2[i].node != nil:
			o = Compare(s1[i].node, s2[i].node)
		case s1[i].node != nil || s2[i].node != nil:
			o = Incomparable
		default:
			o = Equal
		}
		if o != Equal {
			return o
		}
	}
	return Equal
}
