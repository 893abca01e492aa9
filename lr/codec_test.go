package lr

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "forklr.lr")
	defer teardown()
	//
	for _, g := range []*Grammar{exprGrammar(t), ambiguousGrammar(t)} {
		tables, err := BuildTables(g)
		if err != nil {
			t.Fatal(err)
		}
		var buf bytes.Buffer
		if err := tables.Save(&buf); err != nil {
			t.Fatal(err)
		}
		t.Logf("%s: %s", g.Name, buf.String())
		loaded, err := LoadTables(&buf)
		if err != nil {
			t.Fatal(err)
		}
		if loaded.StateCount() != tables.StateCount() {
			t.Fatalf("%s: %d states saved, %d loaded", g.Name, tables.StateCount(), loaded.StateCount())
		}
		if diff := cmp.Diff(tables.Terminals(), loaded.Terminals()); diff != "" {
			t.Errorf("%s: terminals differ (-saved +loaded):\n%s", g.Name, diff)
		}
		for i := 0; i < tables.StateCount(); i++ {
			if diff := cmp.Diff(tables.Tokens(i), loaded.Tokens(i)); diff != "" {
				t.Errorf("%s: tokens of state %d differ (-saved +loaded):\n%s", g.Name, i, diff)
			}
			for _, j := range tables.Tokens(i) {
				if diff := cmp.Diff(tables.Actions(i, j), loaded.Actions(i, j)); diff != "" {
					t.Errorf("%s: actions of state %d differ (-saved +loaded):\n%s", g.Name, i, diff)
				}
			}
			for _, nt := range tables.NonTerminals() {
				s1, ok1 := tables.Goto(i, nt)
				s2, ok2 := loaded.Goto(i, nt)
				if s1 != s2 || ok1 != ok2 {
					t.Errorf("%s: GOTO(%d, %s) differs", g.Name, i, nt)
				}
			}
		}
		if tables.HasConflicts() != loaded.HasConflicts() {
			t.Errorf("%s: conflicts not preserved", g.Name)
		}
	}
}

func TestLoadHandwrittenTables(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "forklr.lr")
	defer teardown()
	//
	// START ::= /([a-z]+)/
	src := `{
	  "actions": [ [[["([a-z]+)", ""], [1]]], [[null, ["START", 1, 0]]] ],
	  "gotos": [ 0, 0 ],
	  "terminals": [ null, ["([a-z]+)", ""] ],
	  "inlines": []
	}`
	tables, err := LoadTables(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if tables.StateCount() != 2 {
		t.Errorf("expected 2 states, have %d", tables.StateCount())
	}
	actions := tables.Actions(1, 0)
	if len(actions) != 1 || actions[0].Kind != AcceptAction {
		t.Errorf("expected accept action in state 1, have %v", actions)
	}
	actions = tables.Actions(0, 1)
	if len(actions) != 1 || actions[0].Kind != ShiftAction || actions[0].State != 1 {
		t.Errorf("expected shift action in state 0, have %v", actions)
	}
}

func TestLoadMalformedTables(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "forklr.lr")
	defer teardown()
	//
	for _, src := range []string{
		`{"actions": [`,
		`{"actions": [1], "gotos": [], "terminals": [], "inlines": []}`,
		`{"actions": [[[null, [1, 2]]]], "gotos": [], "terminals": [], "inlines": []}`,
		`{"actions": [], "gotos": [], "terminals": [["(", ""]], "inlines": []}`,
		`{"actions": [], "gotos": [[["A", -1]]], "terminals": [], "inlines": []}`,
		`{"actions": [[[null, ["START", -1, 0]]]], "gotos": [], "terminals": [], "inlines": []}`,
		`{"actions": [[[null, ["START", 1, -2]]]], "gotos": [], "terminals": [], "inlines": []}`,
	} {
		_, err := LoadTables(strings.NewReader(src))
		var cerr *CodecError
		if !errors.As(err, &cerr) {
			t.Errorf("expected codec error for %s, have %v", src, err)
		}
	}
}
