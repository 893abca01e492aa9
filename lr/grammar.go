package lr

import (
	"fmt"
	"strings"

	"github.com/cnf/structhash"
)

// Symbol is a symbol of a grammar, either a terminal or a non-terminal.
// Symbols are interned per grammar and may be compared by identity.
//
// Value is a dense index: terminals are numbered from 0 (the end marker),
// non-terminals are numbered from 0 independently.
type Symbol struct {
	Name     string
	Value    int
	Inline   bool // non-terminal nodes for this symbol are spliced into their parent
	terminal bool
	term     Terminal
}

// IsTerminal is a predicate.
func (A *Symbol) IsTerminal() bool {
	return A.terminal
}

// Terminal returns the terminal for a terminal symbol.
func (A *Symbol) Terminal() Terminal {
	return A.term
}

func (A *Symbol) String() string {
	if A == nil {
		return "<nil>"
	}
	return A.Name
}

// Rule is a production rule of a grammar.
type Rule struct {
	Serial int     // ordinal number of this rule
	LHS    *Symbol // head of the rule
	rhs    []*Symbol
	Rank   int // declaration order among the alternatives for LHS
}

// RHS returns the body of the rule.
func (r *Rule) RHS() []*Symbol {
	return r.rhs
}

// Len returns the number of symbols in the body of r.
func (r *Rule) Len() int {
	return len(r.rhs)
}

func (r *Rule) String() string {
	return fmt.Sprintf("%s ::= %v", r.LHS.Name, r.rhs)
}

// Grammar is a compiled grammar, consisting of a list of production rules
// over interned symbols. Grammars are immutable after compilation.
// Create one with Compile.
type Grammar struct {
	Name         string
	Start        *Symbol
	rules        []*Rule
	terminals    []*Symbol
	nonterminals []*Symbol
	ntByName     map[string]*Symbol
	tByTerm      map[Terminal]*Symbol
	byHead       map[*Symbol][]*Rule
	ranks        map[string]int
}

// endValue is the symbol value of the end marker.
const endValue = 0

func newGrammar(name string) *Grammar {
	g := &Grammar{
		Name:     name,
		ntByName: make(map[string]*Symbol),
		tByTerm:  make(map[Terminal]*Symbol),
		byHead:   make(map[*Symbol][]*Rule),
		ranks:    make(map[string]int),
	}
	g.terminal(End) // end marker is always terminal #0
	return g
}

// terminal interns a terminal.
func (g *Grammar) terminal(t Terminal) *Symbol {
	if A, ok := g.tByTerm[t]; ok {
		return A
	}
	A := &Symbol{Name: t.String(), Value: len(g.terminals), terminal: true, term: t}
	g.terminals = append(g.terminals, A)
	g.tByTerm[t] = A
	return A
}

// nonterminal interns a non-terminal.
func (g *Grammar) nonterminal(name string) *Symbol {
	if A, ok := g.ntByName[name]; ok {
		return A
	}
	A := &Symbol{Name: name, Value: len(g.nonterminals)}
	g.nonterminals = append(g.nonterminals, A)
	g.ntByName[name] = A
	return A
}

// rankKey is the structural key of a (head, body) pair.
type rankKey struct {
	Head int
	Body []symKey
}

type symKey struct {
	Terminal bool
	Value    int
}

func makeRankKey(head *Symbol, body []*Symbol) string {
	k := rankKey{Head: head.Value, Body: make([]symKey, len(body))}
	for i, A := range body {
		k.Body[i] = symKey{Terminal: A.terminal, Value: A.Value}
	}
	return string(structhash.Dump(k, 1))
}

// addRule adds head ::= body, if not already present. The rank is assigned by
// the caller.
func (g *Grammar) addRule(head *Symbol, body []*Symbol, rank int) (*Rule, bool) {
	key := makeRankKey(head, body)
	if _, exists := g.ranks[key]; exists {
		return nil, false
	}
	g.ranks[key] = rank
	r := &Rule{Serial: len(g.rules), LHS: head, rhs: body, Rank: rank}
	g.rules = append(g.rules, r)
	g.byHead[head] = append(g.byHead[head], r)
	return r, true
}

// Rank returns the rank of the alternative body for head.
func (g *Grammar) Rank(head *Symbol, body []*Symbol) (int, bool) {
	rank, ok := g.ranks[makeRankKey(head, body)]
	return rank, ok
}

// Rule returns production rule no. i.
func (g *Grammar) Rule(i int) *Rule {
	if i < 0 || i >= len(g.rules) {
		return nil
	}
	return g.rules[i]
}

// Size returns the number of rules.
func (g *Grammar) Size() int {
	return len(g.rules)
}

// RulesFor returns the alternatives for non-terminal A, in rank order.
func (g *Grammar) RulesFor(A *Symbol) []*Rule {
	return g.byHead[A]
}

// Terminals returns all terminal symbols, starting with the end marker.
func (g *Grammar) Terminals() []*Symbol {
	return g.terminals
}

// NonTerminals returns all non-terminal symbols.
func (g *Grammar) NonTerminals() []*Symbol {
	return g.nonterminals
}

// SymbolByName returns the non-terminal with a given name, or nil.
func (g *Grammar) SymbolByName(name string) *Symbol {
	return g.ntByName[name]
}

// TerminalSymbol returns the symbol for a terminal, or nil.
func (g *Grammar) TerminalSymbol(t Terminal) *Symbol {
	return g.tByTerm[t]
}

// EachSymbol calls f for every symbol, terminals first.
func (g *Grammar) EachSymbol(f func(A *Symbol) interface{}) {
	for _, A := range g.terminals {
		f(A)
	}
	for _, A := range g.nonterminals {
		f(A)
	}
}

// EachNonTerminal calls f for every non-terminal.
func (g *Grammar) EachNonTerminal(f func(A *Symbol) interface{}) {
	for _, A := range g.nonterminals {
		f(A)
	}
}

// Dump is a debugging helper, tracing the rules of g.
func (g *Grammar) Dump() {
	tracer().Debugf("--- %s --------------------------------------------", g.Name)
	for _, r := range g.rules {
		tracer().Debugf("%3d: %s  #%d", r.Serial, r, r.Rank)
	}
	tracer().Debugf("-------------------------------------------------------")
}

func (g *Grammar) String() string {
	var b strings.Builder
	for _, r := range g.rules {
		fmt.Fprintf(&b, "%3d: %s\n", r.Serial, r)
	}
	return b.String()
}
