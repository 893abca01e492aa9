package glr

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/npillmayer/forklr"
	"github.com/npillmayer/forklr/lr"
	"github.com/npillmayer/forklr/lr/iteratable"
)

// entry is an element of a context's node stack: either a parse tree node
// or the leaves produced by a shifted terminal.
type entry struct {
	node *forklr.Node
	leaf []string
	span forklr.Span
}

// context is one branch of a parse.
type context struct {
	states []int
	stack  []entry
	pos    int // byte position of the remaining input
	done   bool
	serial int // order of creation, for stable ordering of forks
	// state stacks passed through by reductions since the last shift
	reduced [][]int
}

func (c *context) top() int {
	return c.states[len(c.states)-1]
}

func (c *context) clone(serial int) *context {
	n := &context{
		states: make([]int, len(c.states), cap(c.states)),
		stack:  make([]entry, len(c.stack), cap(c.stack)),
		pos:    c.pos,
		done:   c.done,
		serial: serial,
	}
	if len(c.reduced) > 0 {
		n.reduced = make([][]int, len(c.reduced))
		copy(n.reduced, c.reduced)
	}
	copy(n.states, c.states)
	copy(n.stack, c.stack)
	return n
}

func (c *context) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "ctx#%d @%d %v [", c.serial, c.pos, c.states)
	for i, e := range c.stack {
		if i > 0 {
			b.WriteByte(' ')
		}
		if e.node != nil {
			b.WriteString(e.node.String())
		} else {
			fmt.Fprintf(&b, "%q", e.leaf)
		}
	}
	b.WriteByte(']')
	if c.done {
		b.WriteString(" done")
	}
	return b.String()
}

// fingerprint hashes the configuration of a context, i.e. everything which
// determines its future: position, state stack and whether it is finished.
func (c *context) fingerprint() uint64 {
	buf := make([]byte, 0, 8*(len(c.states)+2))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(c.pos))
	if c.done {
		buf = append(buf, 1)
	}
	for _, s := range c.states {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(s))
	}
	return xxhash.Sum64(buf)
}

func (c *context) sameConfiguration(other *context) bool {
	if c.pos != other.pos || c.done != other.done {
		return false
	}
	return equalStates(c.states, other.states)
}

func equalStates(s1, s2 []int) bool {
	if len(s1) != len(s2) {
		return false
	}
	for i := range s1 {
		if s1[i] != s2[i] {
			return false
		}
	}
	return true
}

// inCycle is true if reductions have led c back to a state stack it has
// already been in at the current input position. Everything reachable from
// there is explored by the branch which passed through it first.
func (c *context) inCycle() bool {
	for _, states := range c.reduced {
		if equalStates(states, c.states) {
			return true
		}
	}
	return false
}

// --- Single-context step ---------------------------------------------------

// candidate is an action applicable to a context, together with the match of
// its terminal for shift actions.
type candidate struct {
	action lr.Action
	term   int      // terminal column, for shifts
	skip   int      // whitespace skipped before the terminal
	length int      // bytes consumed, including skipped whitespace
	leaf   []string // leaves produced by the terminal
}

type candidateKey struct {
	kind          lr.ActionKind
	state, length int
	term          int
	head          string
	bodyLen, rank int
}

// Key makes candidates deduplicate by action and, for shifts, by match.
func (c candidate) Key() interface{} {
	k := candidateKey{kind: c.action.Kind}
	if c.action.Kind == lr.ShiftAction {
		k.state, k.length, k.term = c.action.State, c.length, c.term
	} else {
		k.head, k.bodyLen, k.rank = c.action.Head, c.action.Length, c.action.Rank
	}
	return k
}

// candidates matches all terminals expected in the top state of c and
// collects the applicable actions. It returns the expected terminals as well.
func (p *Parser) candidates(c *context, input string) ([]candidate, []lr.Terminal) {
	state := c.top()
	tokens := p.tables.Tokens(state)
	expected := make([]lr.Terminal, 0, len(tokens))
	set := iteratable.NewSet(len(tokens))
	rest := input[c.pos:]
	for _, j := range tokens {
		term := p.tables.Terminal(j)
		expected = append(expected, term)
		skip, length, leaf, ok := term.Match(rest)
		if !ok {
			continue
		}
		for _, a := range p.tables.Actions(state, j) {
			if a.Kind == lr.ShiftAction {
				set.Add(candidate{action: a, term: j, skip: skip, length: length, leaf: leaf})
			} else {
				set.Add(candidate{action: a})
			}
		}
	}
	cands := make([]candidate, 0, set.Size())
	for _, x := range set.Values() {
		cands = append(cands, x.(candidate))
	}
	return cands, expected
}

// step advances a context by one action. If more than one action applies,
// the context is forked. Returns the resulting contexts, or a syntax error
// if no action applies.
func (p *Parser) step(run *parseRun, c *context) ([]*context, error) {
	if err := run.tick(); err != nil {
		return nil, err
	}
	cands, expected := p.candidates(c, run.input)
	if run.trace {
		tracer().Debugf("step %s, %d candidate(s)", c, len(cands))
	}
	if len(cands) == 0 {
		return nil, newSyntaxError(run.input, c.pos, expected)
	}
	from := make([]int, len(c.states))
	copy(from, c.states)
	result := make([]*context, 0, len(cands))
	for i, cand := range cands {
		next := c
		if i < len(cands)-1 { // last candidate re-uses c
			next = c.clone(run.nextSerial())
		}
		if err := p.apply(next, cand); err != nil {
			return nil, err
		}
		if cand.action.Kind == lr.ShiftAction {
			next.reduced = nil
		} else if !next.done {
			next.reduced = append(next.reduced, from)
			if next.inCycle() {
				tracer().Debugf("dropping cyclic reduction %v at position %d", cand.action, next.pos)
				continue
			}
		}
		result = append(result, next)
	}
	if len(result) == 0 {
		return nil, newSyntaxError(run.input, c.pos, expected)
	}
	if len(result) > 1 {
		tracer().Debugf("fork at state %d, position %d: %d branches", c.top(), c.pos, len(result))
	}
	return result, nil
}

// apply performs an action on a context.
func (p *Parser) apply(c *context, cand candidate) error {
	a := cand.action
	switch a.Kind {
	case lr.ShiftAction:
		span := forklr.Span{uint64(c.pos + cand.skip), uint64(c.pos + cand.length)}
		c.stack = append(c.stack, entry{leaf: cand.leaf, span: span})
		c.states = append(c.states, a.State)
		c.pos += cand.length
		return nil
	case lr.ReduceAction, lr.AcceptAction:
		if a.Length < 0 || a.Length > len(c.stack) || a.Length >= len(c.states) {
			return &lr.TableError{State: c.top(), Msg: fmt.Sprintf("cannot pop %d entries for %v", a.Length, a)}
		}
		node := reduce(c, a)
		c.states = c.states[:len(c.states)-a.Length]
		// accept only for START at the bottom of the stack, nested START
		// is reduced like any other non-terminal
		if a.Kind == lr.AcceptAction && len(c.states) == 1 {
			c.stack = append(c.stack, entry{node: node, span: node.Span})
			c.done = true
			return nil
		}
		to, ok := p.tables.Goto(c.top(), a.Head)
		if !ok {
			return &lr.TableError{State: c.top(), Msg: "missing goto for " + a.Head}
		}
		c.states = append(c.states, to)
		c.stack = append(c.stack, entry{node: node, span: node.Span})
		return nil
	}
	return fmt.Errorf("unknown action %v", a)
}

// reduce pops the body of a rule off the node stack and returns the node for
// the rule's head. Leaves of shifted terminals are spliced into the node.
func reduce(c *context, a lr.Action) *forklr.Node {
	body := c.stack[len(c.stack)-a.Length:]
	c.stack = c.stack[:len(c.stack)-a.Length]
	node := &forklr.Node{Tag: a.Head, Rank: a.Rank}
	node.Span = forklr.Span{uint64(c.pos), uint64(c.pos)}
	for _, e := range body {
		node.Span = node.Span.Extend(e.span)
		if e.node != nil {
			node.Children = append(node.Children, e.node)
			continue
		}
		for _, l := range e.leaf {
			node.Children = append(node.Children, l)
		}
	}
	return node
}
