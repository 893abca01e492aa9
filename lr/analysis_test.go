package lr

import (
	"testing"
	"time"

	"github.com/npillmayer/forklr/lr/grammar"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

// START ::= A "a"
// A     ::= B D
// B     ::= "b" | ε
// D     ::= "d" | ε
func nullableGrammar(t *testing.T) *Grammar {
	ast := grammar.Def(
		grammar.Rule("START", grammar.And(grammar.N("A"), grammar.Lit("a"))),
		grammar.Rule("A", grammar.And(grammar.N("B"), grammar.N("D"))),
		grammar.Rule("B", grammar.Opt(grammar.Lit("b"))),
		grammar.Rule("D", grammar.Opt(grammar.Lit("d"))),
	)
	g, err := Compile("G", ast)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func termValue(t *testing.T, g *Grammar, lit string) int {
	A := g.TerminalSymbol(LiteralTerminal(lit))
	if A == nil {
		t.Fatalf("no terminal %q", lit)
	}
	return A.Value
}

func TestFirstSets(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "forklr.lr")
	defer teardown()
	//
	g := nullableGrammar(t)
	ga := Analysis(g)
	a, b, d := termValue(t, g, "a"), termValue(t, g, "b"), termValue(t, g, "d")
	for name, want := range map[string][]int{
		"START": {a, b, d},
		"A":     {epsilon, b, d},
		"B":     {epsilon, b},
		"D":     {epsilon, d},
	} {
		first := ga.First(g.SymbolByName(name))
		if first.Len() != len(want) {
			t.Errorf("FIRST(%s) = %v, expected %v", name, first, want)
			continue
		}
		for _, x := range want {
			if !first.Has(x) {
				t.Errorf("FIRST(%s) = %v, missing %d", name, first, x)
			}
		}
	}
	if ga.IsNullable(g.Start) {
		t.Errorf("START should not be nullable")
	}
	seq := []*Symbol{g.SymbolByName("B"), g.SymbolByName("D")}
	if f := ga.FirstOfSequence(seq); !f.Has(epsilon) || f.Len() != 3 {
		t.Errorf("FIRST(B D) = %v", f)
	}
}

func TestFirstSetsIdempotent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "forklr.lr")
	defer teardown()
	//
	g := nullableGrammar(t)
	ga1, ga2 := Analysis(g), Analysis(g)
	for _, A := range g.NonTerminals() {
		if !ga1.First(A).Equals(ga2.First(A)) {
			t.Errorf("FIRST(%s) differs between runs: %v vs %v", A, ga1.First(A), ga2.First(A))
		}
	}
	before := ga1.First(g.Start)
	ga1.computeFirstSets()
	if !before.Equals(ga1.First(g.Start)) {
		t.Errorf("recomputing FIRST(START) changed it")
	}
}

func TestNullableHasNullableAlternative(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "forklr.lr")
	defer teardown()
	//
	g := nullableGrammar(t)
	ga := Analysis(g)
	for _, A := range g.NonTerminals() {
		if !ga.IsNullable(A) {
			continue
		}
		found := false
		for _, r := range g.RulesFor(A) {
			all := true
			for _, X := range r.RHS() {
				all = all && ga.IsNullable(X)
			}
			found = found || all
		}
		if !found {
			t.Errorf("%s is nullable, but has no nullable alternative", A)
		}
	}
}

func TestHiddenTerminalsInFirst(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "forklr.lr")
	defer teardown()
	//
	ast := grammar.Def(
		grammar.Rule("START", grammar.N("A")),
		grammar.Rule("A", grammar.And(grammar.Hidden("("), grammar.Lit("x"), grammar.Hidden(")"))),
	)
	g, err := Compile("G", ast)
	if err != nil {
		t.Fatal(err)
	}
	ga := Analysis(g)
	open := g.TerminalSymbol(PatternTerminal(`\(`, ""))
	if open == nil {
		t.Fatalf("hidden terminal not interned")
	}
	if !ga.First(g.Start).Has(open.Value) {
		t.Errorf("hidden terminal should be in FIRST(START) = %v", ga.First(g.Start))
	}
	if ga.First(g.Start).Has(termValue(t, g, "x")) {
		t.Errorf("\"x\" should not be in FIRST(START)")
	}
}

func TestFirstSetOfAlternatives(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "forklr.lr")
	defer teardown()
	//
	g, err := Compile("G", grammar.Def(
		grammar.Rule("START", grammar.Or(grammar.Lit("a"), grammar.Lit("b"))),
	))
	if err != nil {
		t.Fatal(err)
	}
	done := make(chan *LRAnalysis)
	go func() {
		done <- Analysis(g)
	}()
	select {
	case ga := <-done:
		first := ga.First(g.Start)
		if first.Len() != 2 || !first.Has(termValue(t, g, "a")) || !first.Has(termValue(t, g, "b")) {
			t.Errorf("FIRST(START) = %v, expected {a, b}", first)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("FIRST computation did not terminate")
	}
}
