package lr

import (
	"bytes"
	"strings"
	"testing"

	"github.com/npillmayer/forklr/lr/grammar"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

// START ::= Expr
// Expr  ::= Expr "+" Num | Expr "-" Num | Num
// Num   ::= /([0-9]+)/
func exprGrammar(t *testing.T) *Grammar {
	ast := grammar.Def(
		grammar.Rule("START", grammar.N("Expr")),
		grammar.Rule("Expr", grammar.Or(
			grammar.And(grammar.N("Expr"), grammar.Or(grammar.Lit("+"), grammar.Lit("-")), grammar.N("Num")),
			grammar.N("Num"),
		)),
		grammar.Rule("Num", grammar.Re("([0-9]+)", "")),
	)
	g, err := Compile("Expr", ast)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

// START ::= E
// E     ::= E "+" E | "n"
func ambiguousGrammar(t *testing.T) *Grammar {
	ast := grammar.Def(
		grammar.Rule("START", grammar.N("E")),
		grammar.Rule("E", grammar.Or(
			grammar.And(grammar.N("E"), grammar.Lit("+"), grammar.N("E")),
			grammar.Lit("n"),
		)),
	)
	g, err := Compile("Amb", ast)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestClosureIdempotent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "forklr.lr")
	defer teardown()
	//
	g := exprGrammar(t)
	ga := Analysis(g)
	lrgen := NewTableGenerator(ga)
	for _, s := range lrgen.CFSM().States() {
		C := ga.closureSet(s.items)
		if itemSetKey(C) != s.key {
			t.Errorf("closure of state %d is not idempotent", s.ID)
		}
	}
	S0 := ga.closure(StartItems(g)...)
	if itemSetKey(S0) != lrgen.CFSM().S0.key || lrgen.CFSM().S0.ID != 0 {
		t.Errorf("state 0 should be the closure of the start items")
	}
}

func TestGotoOfEmptySet(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "forklr.lr")
	defer teardown()
	//
	g := exprGrammar(t)
	ga := Analysis(g)
	g.EachSymbol(func(A *Symbol) interface{} {
		if !ga.gotoSetClosure(newItemSet(), A).Empty() {
			t.Errorf("GOTO(∅, %v) should be empty", A)
		}
		return nil
	})
}

func TestStatesAreUnique(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "forklr.lr")
	defer teardown()
	//
	g := exprGrammar(t)
	lrgen := NewTableGenerator(Analysis(g))
	keys := make(map[string]int)
	for i, s := range lrgen.CFSM().States() {
		if s.ID != i {
			t.Errorf("state IDs should be dense, have %d at %d", s.ID, i)
		}
		if other, ok := keys[s.key]; ok {
			t.Errorf("states %d and %d have identical item sets", other, s.ID)
		}
		keys[s.key] = s.ID
	}
}

func TestTablesForDeterministicGrammar(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "forklr.lr")
	defer teardown()
	//
	g := exprGrammar(t)
	lrgen := NewTableGenerator(Analysis(g))
	if err := lrgen.CreateTables(); err != nil {
		t.Fatal(err)
	}
	if lrgen.HasConflicts {
		t.Errorf("expression grammar should not have conflicts: %v", lrgen.Tables().Conflicts())
	}
	tables := lrgen.Tables()
	if tables.StateCount() != lrgen.CFSM().StateCount() {
		t.Errorf("tables should have a row per CFSM state")
	}
	if _, ok := tables.Goto(0, "Expr"); !ok {
		t.Errorf("expected GOTO(0, Expr)")
	}
	accepts := 0
	for i := 0; i < tables.StateCount(); i++ {
		for _, j := range tables.Tokens(i) {
			for _, a := range tables.Actions(i, j) {
				if a.Kind == AcceptAction {
					accepts++
					if !tables.Terminal(j).IsEnd() || a.Head != grammar.StartSymbol {
						t.Errorf("unexpected accept action %v", a)
					}
				}
			}
		}
	}
	if accepts != 1 {
		t.Errorf("expected exactly one accept action, have %d", accepts)
	}
}

func TestConflictsArePreserved(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "forklr.lr")
	defer teardown()
	//
	tables, err := BuildTables(ambiguousGrammar(t))
	if err != nil {
		t.Fatal(err)
	}
	if !tables.HasConflicts() {
		t.Fatalf("E ::= E + E should have a shift/reduce conflict")
	}
	found := false
	for _, c := range tables.Conflicts() {
		t.Logf("conflict: %v", c)
		var shift, reduce bool
		for _, a := range c.Actions {
			shift = shift || a.Kind == ShiftAction
			reduce = reduce || a.Kind == ReduceAction
		}
		found = found || (shift && reduce && c.Terminal == LiteralTerminal("+"))
	}
	if !found {
		t.Errorf("expected a shift/reduce conflict on \"+\"")
	}
}

func TestExports(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "forklr.lr")
	defer teardown()
	//
	lrgen := NewTableGenerator(Analysis(ambiguousGrammar(t)))
	if err := lrgen.CreateTables(); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := lrgen.CFSM().CFSM2GraphViz(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "digraph {") || !strings.Contains(buf.String(), "s000") {
		t.Errorf("unexpected Graphviz output:\n%s", buf.String())
	}
	buf.Reset()
	if err := ActionTableAsHTML(lrgen.Tables(), &buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "acc") || !strings.Contains(buf.String(), "<table") {
		t.Errorf("unexpected HTML ACTION table:\n%s", buf.String())
	}
	buf.Reset()
	if err := GotoTableAsHTML(lrgen.Tables(), &buf); err != nil {
		t.Fatal(err)
	}
	buf.Reset()
	DumpTables(lrgen.Tables(), &buf)
	if !strings.Contains(buf.String(), "ACTION") || !strings.Contains(buf.String(), "GOTO") {
		t.Errorf("unexpected table dump:\n%s", buf.String())
	}
	t.Logf("\n%s", buf.String())
}
