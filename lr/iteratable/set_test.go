package iteratable

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

type pair struct {
	a, b int
}

type sliceItem []int

func (s sliceItem) Key() interface{} {
	return len(s)*1000 + s[0]
}

func TestSetDeduplicatesByContent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "forklr.lr")
	defer teardown()
	//
	S := NewSet(0)
	if !S.Add(pair{1, 2}, pair{1, 2}, pair{2, 1}) {
		t.Errorf("expected Add to report a change")
	}
	if S.Size() != 2 {
		t.Errorf("expected 2 elements, have %d", S.Size())
	}
	if S.Add(pair{2, 1}) {
		t.Errorf("re-adding an element should not change the set")
	}
	K := NewSet(0)
	K.Add(sliceItem{1, 2}, sliceItem{1, 3}, sliceItem{2})
	if K.Size() != 2 {
		t.Errorf("expected Keyer to deduplicate, have %v", K)
	}
}

func TestSetWorklist(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "forklr.lr")
	defer teardown()
	//
	S := NewSet(0)
	S.Add(1)
	S.IterateOnce()
	visited := 0
	for S.Next() {
		visited++
		n := S.Item().(int)
		if n < 10 {
			S.Add(n+1, n+2)
		}
	}
	if S.Size() != 11 || visited != 11 {
		t.Errorf("expected 11 elements to be visited, have %d/%d", visited, S.Size())
	}
}

func TestSetOperations(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "forklr.lr")
	defer teardown()
	//
	A := NewSet(0)
	A.Add(1, 2, 3)
	B := NewSet(0)
	B.Add(3, 2, 1)
	if !A.Equals(B) {
		t.Errorf("sets should be equal regardless of order")
	}
	D := A.Difference(NewSet(0).Union(B.Subset(func(x interface{}) bool { return x.(int) > 1 })))
	if D.Size() != 1 || !D.Contains(1) {
		t.Errorf("expected difference to be {1}, is %v", D)
	}
	C := A.Copy()
	C.Add(4)
	if A.Contains(4) {
		t.Errorf("copy is not independent")
	}
}
