package forklr

import (
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func sampleTree() *Node {
	// (Sum (Sum (Num "1") "+" (Num "2")) "+" (Num "3")) with Group nodes in between
	one := NewNode("Num", 0, "1")
	two := NewNode("Num", 0, "2")
	three := NewNode("Num", 0, "3")
	inner := NewNode("Sum", 1, NewNode("Group", 0, one, "+", two))
	return NewNode("Sum", 1, inner, "+", three)
}

func TestNodeString(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "forklr")
	defer teardown()
	//
	n := NewNode("A", 0, "x", NewNode("B", 1), "y")
	if s := n.String(); s != `(A "x" (B) "y")` {
		t.Errorf("unexpected s-expression %s", s)
	}
	if leaves := sampleTree().Leaves(); len(leaves) != 5 {
		t.Errorf("expected 5 leaves, have %v", leaves)
	}
}

func TestTransformSplice(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "forklr")
	defer teardown()
	//
	tree := sampleTree()
	r := TransformTree(tree, Rules{"Group": Splice}.Rewriter())
	want := NewNode("Sum", 1,
		NewNode("Sum", 1, NewNode("Num", 0, "1"), "+", NewNode("Num", 0, "2")),
		"+", NewNode("Num", 0, "3"))
	if diff := cmp.Diff(want, r); diff != "" {
		t.Errorf("splice mismatch (-want +got):\n%s", diff)
	}
	if tree.ChildNode(0).ChildNode(0).Tag != "Group" {
		t.Errorf("input tree has been modified")
	}
}

func TestTransformEvaluate(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "forklr")
	defer teardown()
	//
	var sum func(n *Node) []interface{}
	sum = func(n *Node) []interface{} {
		total := 0
		for _, c := range n.Children {
			if i, ok := c.(int); ok {
				total += i
			}
		}
		return []interface{}{total}
	}
	rules := Rules{
		"Num": func(n *Node) []interface{} {
			i, _ := strconv.Atoi(n.Children[0].(string))
			return []interface{}{i}
		},
		"Group": Splice,
		"Sum":   sum,
	}
	r := Transform(sampleTree(), rules.Rewriter())
	if len(r) != 1 || r[0] != 6 {
		t.Errorf("expected evaluation to result in [6], is %v", r)
	}
}

func TestSpanExtend(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "forklr")
	defer teardown()
	//
	s := Span{3, 5}.Extend(Span{1, 2}).Extend(Span{7, 7})
	if s != (Span{1, 5}) {
		t.Errorf("expected (1…5), have %v", s)
	}
	if txt := (Span{2, 5}).Of("a bcd e"); txt != "bcd" {
		t.Errorf("expected text 'bcd', have %q", txt)
	}
}
