package lr

import (
	"fmt"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
	"github.com/npillmayer/forklr/lr/iteratable"
)

// https://www.cs.bgu.ac.il/~comp151/wiki.files/ps6.html#sec-2-7-3
// Dragon book, section 4.7.2: Constructing LR(1) Sets of Items

// === Closure and Goto-Set Operations =======================================

// Compute the closure of a single item.
func (ga *LRAnalysis) closure(items ...Item) *iteratable.Set {
	S := newItemSet()
	for _, i := range items {
		S.Add(i)
	}
	return ga.closureSet(S)
}

// Compute the LR(1) closure of an item set.
//
// For every item  A ::= α • B β , a  and every rule  B ::= γ  add
// B ::= • γ , b  for every b in FIRST(β a). The item set is iterated as a
// worklist, i.e. items added are visited within the same loop.
func (ga *LRAnalysis) closureSet(S *iteratable.Set) *iteratable.Set {
	C := S.Copy() // add start items to closure
	C.IterateOnce()
	for C.Next() {
		item := asItem(C.Item())
		B := item.PeekSymbol()           // get symbol B after dot
		if B == nil || B.IsTerminal() { // B has to be a non-terminal
			continue
		}
		las := ga.lookaheads(item.Suffix()[1:], item.la)
		for _, r := range ga.g.RulesFor(B) {
			for _, la := range las {
				C.Add(Item{rule: r, dot: 0, la: la})
			}
		}
	}
	return C
}

func (ga *LRAnalysis) gotoSet(closure *iteratable.Set, A *Symbol) *iteratable.Set {
	// for every item in closure C
	// if item in C:  N -> ... *A ...
	//     advance N -> ... A * ...
	gotoset := newItemSet()
	for _, x := range closure.Values() {
		i := asItem(x)
		if i.PeekSymbol() == A {
			gotoset.Add(i.Advance())
		}
	}
	return gotoset
}

// gotoSetClosure is GOTO(I, A): the closure of all items of I advanced over A.
// It is empty if no item of I expects A.
func (ga *LRAnalysis) gotoSetClosure(i *iteratable.Set, A *Symbol) *iteratable.Set {
	gotoset := ga.gotoSet(i, A)
	if gotoset.Empty() {
		return gotoset
	}
	gclosure := ga.closureSet(gotoset)
	tracer().Debugf("goto(%s) --%s--> %s", itemSetString(i), A, itemSetString(gclosure))
	return gclosure
}

// === CFSM Construction =====================================================

// CFSMState is a state within the CFSM for a grammar.
type CFSMState struct {
	ID     int             // serial ID of this state
	items  *iteratable.Set // configuration items within this state
	key    string          // structural key of items
	Accept bool            // is this an accepting state?
}

// CFSM edge between 2 states, directed and with a symbol
type cfsmEdge struct {
	from  *CFSMState
	to    *CFSMState
	label *Symbol
}

// Dump is a debugging helper
func (s *CFSMState) Dump() {
	tracer().Debugf("--- state %03d -----------", s.ID)
	Dump(s.items)
	tracer().Debugf("-------------------------")
}

// Items returns the items of a state, in discovery order.
func (s *CFSMState) Items() []Item {
	items := make([]Item, 0, s.items.Size())
	for _, x := range s.items.Values() {
		items = append(items, asItem(x))
	}
	return items
}

// Create a state from an item set
func state(id int, iset *iteratable.Set) *CFSMState {
	s := &CFSMState{ID: id}
	if iset == nil {
		s.items = newItemSet()
	} else {
		s.items = iset
	}
	s.key = itemSetKey(s.items)
	return s
}

func (s *CFSMState) String() string {
	return fmt.Sprintf("(state %d | [%d])", s.ID, s.items.Size())
}

func (s *CFSMState) containsCompletedStartRule(g *Grammar) bool {
	for _, x := range s.items.Values() {
		i := asItem(x)
		if i.rule.LHS == g.Start && i.IsComplete() && i.la.Value == endValue {
			return true
		}
	}
	return false
}

// Create an edge
func edge(from, to *CFSMState, label *Symbol) *cfsmEdge {
	return &cfsmEdge{
		from:  from,
		to:    to,
		label: label,
	}
}

// We need this for the set of states. It sorts states by serial ID.
func stateComparator(s1, s2 interface{}) int {
	c1 := s1.(*CFSMState)
	c2 := s2.(*CFSMState)
	return utils.IntComparator(c1.ID, c2.ID)
}

// CFSM is the characteristic finite state machine for a LR grammar, i.e. the
// canonical collection of LR(1) item sets together with the GOTO transitions.
// Will be constructed by a TableGenerator.
// Clients normally do not use it directly. Nevertheless, there are some methods
// defined on it, e.g, for debugging purposes.
type CFSM struct {
	g       *Grammar
	states  *treeset.Set          // all the states
	edges   *arraylist.List       // all the edges between states
	index   map[string]*CFSMState // states by structural key
	trans   map[transition]*CFSMState
	S0      *CFSMState // start state
	cfsmIds int        // serial IDs for CFSM states
}

type transition struct {
	from int
	sym  *Symbol
}

// create an empty (initial) CFSM automata.
func emptyCFSM(g *Grammar) *CFSM {
	c := &CFSM{g: g}
	c.states = treeset.NewWith(stateComparator)
	c.edges = arraylist.New()
	c.index = make(map[string]*CFSMState)
	c.trans = make(map[transition]*CFSMState)
	return c
}

// Add a state to the CFSM. Checks first if state is present.
func (c *CFSM) addState(iset *iteratable.Set) (*CFSMState, bool) {
	if s := c.findStateByItems(iset); s != nil {
		return s, false
	}
	s := state(c.cfsmIds, iset)
	c.cfsmIds++
	c.states.Add(s)
	c.index[s.key] = s
	s.Accept = s.containsCompletedStartRule(c.g)
	return s, true
}

// Find a CFSM state by the contained item set.
func (c *CFSM) findStateByItems(iset *iteratable.Set) *CFSMState {
	return c.index[itemSetKey(iset)]
}

func (c *CFSM) addEdge(s0, s1 *CFSMState, sym *Symbol) *cfsmEdge {
	e := edge(s0, s1, sym)
	c.edges.Add(e)
	c.trans[transition{from: s0.ID, sym: sym}] = s1
	return e
}

// Transition returns the target state of the transition from s over A, or nil.
func (c *CFSM) Transition(s *CFSMState, A *Symbol) *CFSMState {
	return c.trans[transition{from: s.ID, sym: A}]
}

func (c *CFSM) allEdges(s *CFSMState) []*cfsmEdge {
	it := c.edges.Iterator()
	r := make([]*cfsmEdge, 0, 2)
	for it.Next() {
		e := it.Value().(*cfsmEdge)
		if e.from == s {
			r = append(r, e)
		}
	}
	return r
}

// States returns all states, ordered by ID.
func (c *CFSM) States() []*CFSMState {
	states := make([]*CFSMState, 0, c.states.Size())
	it := c.states.Iterator()
	for it.Next() {
		states = append(states, it.Value().(*CFSMState))
	}
	return states
}

// StateCount returns the number of states.
func (c *CFSM) StateCount() int {
	return c.states.Size()
}

// TableGenerator is a generator object to construct LR(1) parser tables.
// Clients usually compile a Grammar g, then create an LRAnalysis-object for g,
// and then a table generator. TableGenerator.CreateTables() constructs
// the CFSM and parser tables for g.
type TableGenerator struct {
	g            *Grammar
	ga           *LRAnalysis
	dfa          *CFSM
	tables       *Tables
	HasConflicts bool
}

// NewTableGenerator creates a new TableGenerator for a (previously analysed) grammar.
func NewTableGenerator(ga *LRAnalysis) *TableGenerator {
	lrgen := &TableGenerator{}
	lrgen.g = ga.Grammar()
	lrgen.ga = ga
	return lrgen
}

// CFSM returns the characteristic finite state machine (CFSM) for a grammar.
// Usually clients call lrgen.CreateTables() beforehand, but it is possible
// to call lrgen.CFSM() directly. The CFSM will be created, if it has not
// been constructed previously.
func (lrgen *TableGenerator) CFSM() *CFSM {
	if lrgen.dfa == nil {
		lrgen.dfa = lrgen.buildCFSM()
	}
	return lrgen.dfa
}

// Tables returns the parser tables. The tables have to be built by calling
// CreateTables() previously.
func (lrgen *TableGenerator) Tables() *Tables {
	if lrgen.tables == nil {
		tracer().Errorf("tables not yet initialized")
	}
	return lrgen.tables
}

// CreateTables creates the CFSM and the ACTION, GOTO and TOKEN tables.
func (lrgen *TableGenerator) CreateTables() error {
	dfa := lrgen.CFSM()
	tables, err := lrgen.buildTables(dfa)
	if err != nil {
		return err
	}
	lrgen.tables = tables
	lrgen.HasConflicts = tables.HasConflicts()
	return nil
}

// BuildTables is a shortcut to analyse a grammar and build its tables.
func BuildTables(g *Grammar) (*Tables, error) {
	lrgen := NewTableGenerator(Analysis(g))
	if err := lrgen.CreateTables(); err != nil {
		return nil, err
	}
	return lrgen.Tables(), nil
}

// Construct the characteristic finite state machine CFSM for a grammar.
// States are discovered from a worklist, in order of their IDs; for every
// state and every grammar symbol (terminals first) GOTO is computed.
func (lrgen *TableGenerator) buildCFSM() *CFSM {
	tracer().Debugf("=== build CFSM ==================================================")
	G := lrgen.g
	cfsm := emptyCFSM(G)
	closure0 := lrgen.ga.closure(StartItems(G)...)
	cfsm.S0, _ = cfsm.addState(closure0)
	cfsm.S0.Dump()
	S := treeset.NewWith(stateComparator)
	S.Add(cfsm.S0)
	for S.Size() > 0 {
		s := S.Values()[0].(*CFSMState)
		S.Remove(s)
		G.EachSymbol(func(A *Symbol) interface{} {
			gotoset := lrgen.ga.gotoSetClosure(s.items, A)
			if gotoset.Empty() {
				return nil
			}
			snew, isNew := cfsm.addState(gotoset)
			if isNew {
				tracer().Debugf("new state %d from %d over %v", snew.ID, s.ID, A)
				S.Add(snew)
				snew.Dump()
			}
			cfsm.addEdge(s, snew, A)
			return nil
		})
	}
	tracer().Infof("CFSM for %s has %d states", G.Name, cfsm.StateCount())
	return cfsm
}

// ===========================================================================

// For building the tables we iterate over all the states of the CFSM.
// An inner loop iterates over all the items within a CFSM-state.
// If an item has a terminal immediately after the dot, we produce a shift
// entry. If an item is completed, we produce a reduce entry for the item's
// lookahead, or an accept entry if the item completes START with the end
// marker as lookahead.
//
// The ACTION table is a sparse matrix, where every entry may hold any number
// of actions, thus preserving shift/reduce- and reduce/reduce-conflicts.
func (lrgen *TableGenerator) buildTables(dfa *CFSM) (*Tables, error) {
	g := lrgen.g
	terms := make([]Terminal, len(g.terminals))
	for i, A := range g.terminals {
		terms[i] = A.term
	}
	nts := make([]string, len(g.nonterminals))
	var inlines []string
	for i, A := range g.nonterminals {
		nts[i] = A.Name
		if A.Inline {
			inlines = append(inlines, A.Name)
		}
	}
	t := newTables(dfa.StateCount(), terms, nts, inlines)
	for _, state := range dfa.States() {
		tracer().Debugf("--- state %d --------------------------------", state.ID)
		for _, v := range state.items.Values() {
			i := asItem(v)
			A := i.PeekSymbol()
			if A != nil {
				target := dfa.Transition(state, A)
				if A.IsTerminal() {
					if target != nil {
						t.addShift(state.ID, A.Value, target.ID)
					}
				} else if target == nil {
					return nil, &TableError{State: state.ID, Msg: fmt.Sprintf("missing goto over %s for %v", A, i)}
				}
				continue
			}
			rank, ok := g.Rank(i.rule.LHS, i.rule.rhs)
			if !ok {
				return nil, &TableError{State: state.ID, Msg: fmt.Sprintf("no rank for %v", i.rule)}
			}
			red := reduction{Head: i.rule.LHS.Value, Length: i.rule.Len(), Rank: rank}
			if i.rule.LHS == g.Start && i.la.Value == endValue {
				red.Accept = true
			}
			tracer().Debugf("    %s on %v for %v", red.kind(), i.la, i.rule)
			t.addReduction(state.ID, i.la.Value, red)
		}
		for _, e := range dfa.allEdges(state) {
			if !e.label.IsTerminal() {
				t.setGoto(state.ID, e.label.Value, e.to.ID)
			}
		}
	}
	t.finish()
	tracer().Infof("ACTION table with %d entries, GOTO table with %d entries",
		t.actions.ValueCount(), t.gotos.ValueCount())
	if t.HasConflicts() {
		tracer().Infof("grammar %s has %d conflicts", g.Name, len(t.Conflicts()))
	}
	return t, nil
}
