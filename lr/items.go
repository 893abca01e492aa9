package lr

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cnf/structhash"
	"github.com/npillmayer/forklr/lr/iteratable"
)

// Item is an LR(1) item: a rule, a position within the rule's body (the
// dot), and a lookahead terminal. Items are comparable values.
//
//     A ::= a B • c d , x
//
// has the prefix [a B], the suffix [c d] and lookahead x.
type Item struct {
	rule *Rule
	dot  int
	la   *Symbol
}

// StartItems returns the items for START's alternatives, with the dot at the
// start and the end marker as lookahead.
func StartItems(g *Grammar) []Item {
	items := make([]Item, 0, len(g.RulesFor(g.Start)))
	for _, r := range g.RulesFor(g.Start) {
		items = append(items, Item{rule: r, dot: 0, la: g.terminals[0]})
	}
	return items
}

// Rule returns the rule of an item.
func (i Item) Rule() *Rule {
	return i.rule
}

// Lookahead returns the lookahead terminal of an item.
func (i Item) Lookahead() *Symbol {
	return i.la
}

// PeekSymbol returns the symbol after the dot, or nil for completed items.
func (i Item) PeekSymbol() *Symbol {
	if i.dot >= len(i.rule.rhs) {
		return nil
	}
	return i.rule.rhs[i.dot]
}

// Advance moves the dot one symbol to the right.
func (i Item) Advance() Item {
	if i.dot < len(i.rule.rhs) {
		i.dot++
	}
	return i
}

// Prefix returns the part of the body before the dot.
func (i Item) Prefix() []*Symbol {
	return i.rule.rhs[:i.dot]
}

// Suffix returns the part of the body after the dot.
func (i Item) Suffix() []*Symbol {
	return i.rule.rhs[i.dot:]
}

// IsComplete is true if the dot is behind the body.
func (i Item) IsComplete() bool {
	return i.dot >= len(i.rule.rhs)
}

func (i Item) String() string {
	var b strings.Builder
	b.WriteString(i.rule.LHS.Name)
	b.WriteString(" ::=")
	for k, A := range i.rule.rhs {
		if k == i.dot {
			b.WriteString(" •")
		}
		b.WriteByte(' ')
		b.WriteString(A.Name)
	}
	if i.IsComplete() {
		b.WriteString(" •")
	}
	fmt.Fprintf(&b, " , %s", i.la)
	return b.String()
}

func newItemSet() *iteratable.Set {
	return iteratable.NewSet(0)
}

func asItem(x interface{}) Item {
	return x.(Item)
}

// itemSetKey returns a structural key for an item set: equal item sets have
// equal keys, regardless of the order in which their items have been
// discovered.
func itemSetKey(S *iteratable.Set) string {
	type itemKey struct {
		Rule, Dot, LA int
	}
	keys := make([]itemKey, 0, S.Size())
	for _, x := range S.Values() {
		i := asItem(x)
		keys = append(keys, itemKey{Rule: i.rule.Serial, Dot: i.dot, LA: i.la.Value})
	}
	sort.Slice(keys, func(a, b int) bool {
		if keys[a].Rule != keys[b].Rule {
			return keys[a].Rule < keys[b].Rule
		}
		if keys[a].Dot != keys[b].Dot {
			return keys[a].Dot < keys[b].Dot
		}
		return keys[a].LA < keys[b].LA
	})
	return string(structhash.Dump(struct{ Items []itemKey }{keys}, 1))
}

// Dump is a debugging helper, tracing the items of an item set.
func Dump(S *iteratable.Set) {
	for _, x := range S.Values() {
		tracer().Debugf("    %v", asItem(x))
	}
}

func itemSetString(S *iteratable.Set) string {
	var b strings.Builder
	b.WriteString("{")
	for k, x := range S.Values() {
		if k == 0 {
			b.WriteString(" ")
		} else {
			b.WriteString(", ")
		}
		b.WriteString(asItem(x).String())
	}
	b.WriteString(" }")
	return b.String()
}

// forGraphviz returns the items of a set as a Graphviz record label.
func forGraphviz(S *iteratable.Set) string {
	var b strings.Builder
	for k, x := range S.Values() {
		if k > 0 {
			b.WriteString("\\l")
		}
		s := asItem(x).String()
		s = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "{", "\\{", "}", "\\}",
			"|", "\\|", "<", "\\<", ">", "\\>").Replace(s)
		b.WriteString(s)
	}
	b.WriteString("\\l")
	return b.String()
}
