package lr

import (
	"fmt"

	"github.com/npillmayer/forklr/lr/grammar"
	"github.com/npillmayer/forklr/lr/sparse"
)

// ActionKind is the kind of a parser action.
type ActionKind uint8

// Kinds of parser actions.
const (
	ShiftAction ActionKind = iota
	ReduceAction
	AcceptAction
)

func (k ActionKind) String() string {
	switch k {
	case ShiftAction:
		return "shift"
	case ReduceAction:
		return "reduce"
	}
	return "accept"
}

// Action is an entry of the ACTION table. For shift actions, State is the
// state to push. For reduce and accept actions, Head names the non-terminal
// to reduce to, Length is the length of the rule's body and Rank the rank
// of the alternative.
type Action struct {
	Kind   ActionKind
	State  int
	Head   string
	Length int
	Rank   int
}

func (a Action) String() string {
	if a.Kind == ShiftAction {
		return fmt.Sprintf("<shift %d>", a.State)
	}
	return fmt.Sprintf("<%s %s/%d #%d>", a.Kind, a.Head, a.Length, a.Rank)
}

// reduction is the payload of reduce and accept actions.
type reduction struct {
	Head   int // non-terminal column
	Length int
	Rank   int
	Accept bool
}

func (r reduction) kind() ActionKind {
	if r.Accept {
		return AcceptAction
	}
	return ReduceAction
}

// Within the ACTION matrix, shift actions are stored as the target state
// (>= 0) and reductions as -(k+1), k being an index into the list of
// reductions.
const noValue = sparse.DefaultNullValue

// Tables holds the ACTION, GOTO and TOKEN tables for a grammar. Tables are
// either built from a grammar (see TableGenerator) or loaded from their
// persisted form (see LoadTables). They are read-only after construction and
// may be shared between parsers and goroutines.
//
// Columns of the ACTION table are terminals, columns of the GOTO table are
// non-terminals. The TOKEN table lists, for every state, the terminals with
// an entry in the ACTION table.
type Tables struct {
	terminals    []Terminal
	nonterminals []string
	termIndex    map[Terminal]int
	ntIndex      map[string]int
	inline       map[string]bool
	actions      *sparse.IntMatrix
	gotos        *sparse.IntMatrix
	reductions   []reduction
	redIndex     map[reduction]int
	tokens       [][]int
	states       int
}

func newTables(states int, terms []Terminal, nts []string, inlines []string) *Tables {
	t := &Tables{
		termIndex: make(map[Terminal]int),
		ntIndex:   make(map[string]int),
		inline:    make(map[string]bool),
		redIndex:  make(map[reduction]int),
		states:    states,
	}
	for _, term := range terms {
		t.terminal(term)
	}
	for _, nt := range nts {
		t.nonterminal(nt)
	}
	for _, nt := range inlines {
		t.nonterminal(nt)
		t.inline[nt] = true
	}
	t.actions = sparse.NewIntMatrix(states, len(t.terminals), noValue)
	t.gotos = sparse.NewIntMatrix(states, len(t.nonterminals), noValue)
	return t
}

// terminal returns the column of a terminal, adding it if necessary.
func (t *Tables) terminal(term Terminal) int {
	if j, ok := t.termIndex[term]; ok {
		return j
	}
	t.termIndex[term] = len(t.terminals)
	t.terminals = append(t.terminals, term)
	if t.actions != nil {
		t.actions.Grow(t.states, len(t.terminals))
	}
	return len(t.terminals) - 1
}

// nonterminal returns the column of a non-terminal, adding it if necessary.
func (t *Tables) nonterminal(name string) int {
	if j, ok := t.ntIndex[name]; ok {
		return j
	}
	t.ntIndex[name] = len(t.nonterminals)
	t.nonterminals = append(t.nonterminals, name)
	if t.gotos != nil {
		t.gotos.Grow(t.states, len(t.nonterminals))
	}
	return len(t.nonterminals) - 1
}

func (t *Tables) growStates(n int) {
	if n > t.states {
		t.states = n
		t.actions.Grow(n, len(t.terminals))
		t.gotos.Grow(n, len(t.nonterminals))
	}
}

func (t *Tables) addShift(state, term, to int) {
	t.actions.Add(state, term, int32(to))
}

func (t *Tables) addReduction(state, term int, r reduction) {
	k, ok := t.redIndex[r]
	if !ok {
		k = len(t.reductions)
		t.reductions = append(t.reductions, r)
		t.redIndex[r] = k
	}
	t.actions.Add(state, term, int32(-(k + 1)))
}

func (t *Tables) setGoto(state, nt, to int) {
	t.gotos.Set(state, nt, int32(to))
}

// finish derives the TOKEN table from the ACTION table.
func (t *Tables) finish() {
	t.tokens = make([][]int, t.states)
	t.actions.Each(func(i, j int, _ []int32) {
		t.tokens[i] = append(t.tokens[i], j)
	})
}

func (t *Tables) decode(v int32) Action {
	if v >= 0 {
		return Action{Kind: ShiftAction, State: int(v)}
	}
	r := t.reductions[-v-1]
	return Action{
		Kind:   r.kind(),
		Head:   t.nonterminals[r.Head],
		Length: r.Length,
		Rank:   r.Rank,
	}
}

// StateCount returns the number of parser states.
func (t *Tables) StateCount() int {
	return t.states
}

// Terminals returns all terminals, in column order.
func (t *Tables) Terminals() []Terminal {
	return t.terminals
}

// NonTerminals returns all non-terminal names, in column order.
func (t *Tables) NonTerminals() []string {
	return t.nonterminals
}

// Terminal returns the terminal for column j.
func (t *Tables) Terminal(j int) Terminal {
	return t.terminals[j]
}

// Tokens returns the columns of the terminals which have an ACTION entry in
// a state.
func (t *Tables) Tokens(state int) []int {
	if state < 0 || state >= len(t.tokens) {
		return nil
	}
	return t.tokens[state]
}

// Actions returns the actions for a state and a terminal column.
func (t *Tables) Actions(state, term int) []Action {
	vals := t.actions.Values(state, term)
	if len(vals) == 0 {
		return nil
	}
	actions := make([]Action, len(vals))
	for k, v := range vals {
		actions[k] = t.decode(v)
	}
	return actions
}

// Goto returns the GOTO entry for a state and a non-terminal.
func (t *Tables) Goto(state int, head string) (int, bool) {
	j, ok := t.ntIndex[head]
	if !ok {
		return 0, false
	}
	v := t.gotos.Value(state, j)
	if v == noValue {
		return 0, false
	}
	return int(v), true
}

// IsInline is a predicate: are parse tree nodes for head spliced into their
// parent?
func (t *Tables) IsInline(head string) bool {
	return t.inline[head]
}

// Inlines returns the names of all inline non-terminals.
func (t *Tables) Inlines() []string {
	var r []string
	for _, nt := range t.nonterminals {
		if t.inline[nt] {
			r = append(r, nt)
		}
	}
	return r
}

// Start returns the name of the start symbol.
func (t *Tables) Start() string {
	return grammar.StartSymbol
}

// Conflict is an ACTION table entry with more than one action.
type Conflict struct {
	State    int
	Terminal Terminal
	Actions  []Action
}

func (c Conflict) String() string {
	return fmt.Sprintf("state %d on %v: %v", c.State, c.Terminal, c.Actions)
}

// Conflicts returns all entries of the ACTION table holding more than one
// action.
func (t *Tables) Conflicts() []Conflict {
	var conflicts []Conflict
	t.actions.Each(func(i, j int, vals []int32) {
		if len(vals) > 1 {
			conflicts = append(conflicts, Conflict{
				State:    i,
				Terminal: t.terminals[j],
				Actions:  t.Actions(i, j),
			})
		}
	})
	return conflicts
}

// HasConflicts is a predicate: has any ACTION table entry more than one
// action?
func (t *Tables) HasConflicts() bool {
	found := false
	t.actions.Each(func(i, j int, vals []int32) {
		found = found || len(vals) > 1
	})
	return found
}
