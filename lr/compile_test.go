package lr

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/forklr/lr/grammar"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func bodies(g *Grammar, head string) [][]string {
	var r [][]string
	for _, rule := range g.RulesFor(g.SymbolByName(head)) {
		names := []string{}
		for _, A := range rule.RHS() {
			names = append(names, A.Name)
		}
		r = append(r, names)
	}
	return r
}

func ranks(g *Grammar, head string) []int {
	var r []int
	for _, rule := range g.RulesFor(g.SymbolByName(head)) {
		r = append(r, rule.Rank)
	}
	return r
}

func TestCompileCartesian(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "forklr.lr")
	defer teardown()
	//
	ast := grammar.Def(
		grammar.Rule("START", grammar.And(
			grammar.Or(grammar.Lit("a"), grammar.Lit("b")),
			grammar.Or(grammar.Lit("c"), grammar.Lit("d")),
		)),
	)
	g, err := Compile("G", ast)
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{
		{`"a"`, `"c"`},
		{`"b"`, `"c"`},
		{`"a"`, `"d"`},
		{`"b"`, `"d"`},
	}
	if diff := cmp.Diff(want, bodies(g, "START")); diff != "" {
		t.Errorf("expansion mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{0, 1, 2, 3}, ranks(g, "START")); diff != "" {
		t.Errorf("rank mismatch (-want +got):\n%s", diff)
	}
}

func TestCompileOptional(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "forklr.lr")
	defer teardown()
	//
	ast := grammar.Def(
		grammar.Rule("START", grammar.And(grammar.Lit("if"), grammar.N("X"),
			grammar.Opt(grammar.And(grammar.Lit("else"), grammar.N("X"))))),
		grammar.Rule("X", grammar.Re("([a-z]+)", "")),
	)
	g, err := Compile("G", ast)
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{
		{`"if"`, "X", `"else"`, "X"},
		{`"if"`, "X"},
	}
	if diff := cmp.Diff(want, bodies(g, "START")); diff != "" {
		t.Errorf("expansion mismatch (-want +got):\n%s", diff)
	}
}

func TestCompileRanksAcrossDeclarations(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "forklr.lr")
	defer teardown()
	//
	ast := grammar.Def(
		grammar.Rule("START", grammar.N("A")),
		grammar.Rule("A", grammar.Or(grammar.Lit("a"), grammar.Lit("a"))),
		grammar.Rule("A", grammar.Lit("b")),
	)
	g, err := Compile("G", ast)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([][]string{{`"a"`}, {`"b"`}}, bodies(g, "A")); diff != "" {
		t.Errorf("duplicate alternatives should be merged (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{0, 1}, ranks(g, "A")); diff != "" {
		t.Errorf("rank mismatch (-want +got):\n%s", diff)
	}
	A := g.SymbolByName("A")
	if rank, ok := g.Rank(A, g.RulesFor(A)[1].RHS()); !ok || rank != 1 {
		t.Errorf("expected rank 1 for A ::= \"b\", have %d", rank)
	}
}

func TestCompileRepetition(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "forklr.lr")
	defer teardown()
	//
	ast := grammar.Def(
		grammar.Rule("START", grammar.And(grammar.Star(grammar.Lit("x")), grammar.Plus(grammar.Lit("y")))),
	)
	g, err := Compile("G", ast)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([][]string{{"$rep1", "$rep2"}}, bodies(g, "START")); diff != "" {
		t.Errorf("START mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([][]string{{}, {`"x"`, "$rep1"}}, bodies(g, "$rep1")); diff != "" {
		t.Errorf("zero-or-more mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([][]string{{`"y"`}, {`"y"`, "$rep2"}}, bodies(g, "$rep2")); diff != "" {
		t.Errorf("one-or-more mismatch (-want +got):\n%s", diff)
	}
	if !g.SymbolByName("$rep1").Inline {
		t.Errorf("repetitions should be inline")
	}
}

func TestCompileErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "forklr.lr")
	defer teardown()
	//
	for name, ast := range map[string]*grammar.Node{
		"no START":     grammar.Def(grammar.Rule("S", grammar.Lit("a"))),
		"bad terminal": grammar.Def(grammar.Rule("START", grammar.T(`/a`))),
		"bad flag":     grammar.Def(grammar.Rule("START", grammar.Re("a", "x"))),
		"bad regex":    grammar.Def(grammar.Rule("START", grammar.Re("(a", ""))),
		"undefined":    grammar.Def(grammar.Rule("START", grammar.N("Missing"))),
		"not grammar":  grammar.Rule("START", grammar.Lit("a")),
	} {
		_, err := Compile("G", ast)
		var gerr *GrammarError
		if !errors.As(err, &gerr) {
			t.Errorf("%s: expected grammar error, have %v", name, err)
			continue
		}
		t.Logf("%s: %v", name, err)
	}
}

func TestParseTerminal(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "forklr.lr")
	defer teardown()
	//
	for raw, want := range map[string]Terminal{
		`"+"`:        LiteralTerminal("+"),
		`'+'`:        PatternTerminal(`\+`, ""),
		`/([0-9])/i`: PatternTerminal(`([0-9])`, "i"),
		`/a\/b/`:     PatternTerminal(`a\/b`, ""),
	} {
		term, err := ParseTerminal(raw)
		if err != nil {
			t.Errorf("%s: %v", raw, err)
			continue
		}
		if term != want {
			t.Errorf("%s: expected %v, have %v", raw, want, term)
		}
	}
	for _, raw := range []string{`""`, `x`, `"x`, `//`} {
		if _, err := ParseTerminal(raw); err == nil {
			t.Errorf("expected %s to be rejected", raw)
		}
	}
}

func TestTerminalMatch(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "forklr.lr")
	defer teardown()
	//
	skip, n, leaf, ok := LiteralTerminal("if").Match("  if x")
	if !ok || skip != 2 || n != 4 || len(leaf) != 1 || leaf[0] != "if" {
		t.Errorf("literal: skip=%d n=%d leaf=%v ok=%v", skip, n, leaf, ok)
	}
	_, n, leaf, ok = PatternTerminal(`([a-z]+)=([0-9]+)`, "").Match("\tab=12;")
	if !ok || n != 6 || len(leaf) != 2 || leaf[0] != "ab" || leaf[1] != "12" {
		t.Errorf("pattern: n=%d leaf=%v ok=%v", n, leaf, ok)
	}
	_, _, leaf, ok = PatternTerminal(`else`, "i").Match("ELSE")
	if !ok || len(leaf) != 0 {
		t.Errorf("hidden pattern: leaf=%v ok=%v", leaf, ok)
	}
	if _, _, _, ok = PatternTerminal(`[0-9]`, "").Match("x1"); ok {
		t.Errorf("patterns have to be anchored")
	}
	if _, _, _, ok = End.Match(" \n\t"); !ok {
		t.Errorf("end marker should match trailing whitespace")
	}
	if _, _, _, ok = End.Match(" x"); ok {
		t.Errorf("end marker should not match remaining input")
	}
}
