package grammar

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

const sumYAML = `
- grammar
- [rule, START, [nonTerminal, Sum]]
- [rule, Sum, [or,
     [and, [nonTerminal, Sum], [terminal, '"+"'], [terminal, '/(\d+)/']],
     [terminal, '/(\d+)/']]]
- [rule, Opt, inline, [or, [terminal, "'x'"], ~]]
`

func TestLoadYAML(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "forklr.lr")
	defer teardown()
	//
	g, err := ParseYAML([]byte(sumYAML))
	if err != nil {
		t.Fatal(err)
	}
	want := Def(
		Rule("START", N("Sum")),
		Rule("Sum", Or(
			And(N("Sum"), Lit("+"), Re(`(\d+)`, "")),
			Re(`(\d+)`, ""),
		)),
		Alias("Opt", "inline", Or(Hidden("x"), Eps())),
	)
	if diff := cmp.Diff(want, g); diff != "" {
		t.Errorf("YAML grammar mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadYAMLErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "forklr.lr")
	defer teardown()
	//
	for _, src := range []string{
		`[rule, START]`,
		`- [rule, START, [frobnicate, X]]`,
		`- [nonTerminal, X]`,
		`- [rule, START, [optional]]`,
	} {
		if _, err := ParseYAML([]byte(src)); err == nil {
			t.Errorf("expected error for YAML %q", src)
		} else {
			t.Logf("error = %v", err)
		}
	}
}

const sumEBNF = `
START  = Sum .
Sum    = Sum "+" Digit | Digit .
Digit  = "0" … "9" .
List   = "(" [ Items ] ")" .
Items  = Digit { "," Digit } .
`

func TestLoadEBNF(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "forklr.lr")
	defer teardown()
	//
	_, err := LoadEBNF("sum.ebnf", strings.NewReader(sumEBNF))
	if err == nil {
		t.Errorf("expected unreachable production List to be reported")
	}
	src := strings.Replace(sumEBNF, `| Digit .`, `| Digit | List .`, 1)
	g, err := LoadEBNF("sum.ebnf", strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Children) != 5 || g.Children[0].Value != "START" || g.Children[4].Value != "Items" {
		t.Fatalf("expected 5 rules in source order, have %s", g)
	}
	digit := g.Children[2].Body()
	if digit.Kind != TerminalNode || digit.Value != `/([0-9])/` {
		t.Errorf("expected range to become a regex terminal, is %s", digit)
	}
	items := g.Children[4].Body()
	if items.Kind != AndNode || items.Children[1].Kind != ZeroRepeatNode {
		t.Errorf("expected repetition in Items, is %s", items)
	}
	list := g.Children[3].Body()
	if list.Children[1].Kind != OptionalNode || list.Children[0].Value != `"("` {
		t.Errorf("unexpected AST for List: %s", list)
	}
}

func TestValidate(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "forklr.lr")
	defer teardown()
	//
	if err := Validate(Def(Rule("START", Or()))); err == nil {
		t.Errorf("expected empty alternative list to be rejected")
	}
	if err := Validate(Def(N("START"))); err == nil {
		t.Errorf("expected non-rule in grammar to be rejected")
	}
	if err := Validate(Def(Rule("START", Star(Lit("a"))))); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
