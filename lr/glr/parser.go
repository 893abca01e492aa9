package glr

import (
	"fmt"
	"io"
	"sync"

	"github.com/npillmayer/forklr"
	"github.com/npillmayer/forklr/lr"
	"github.com/npillmayer/forklr/lr/grammar"
	"github.com/npillmayer/schuko/gconf"
)

// DefaultMaxSteps is the step budget of a parse if neither the MaxSteps
// option nor configuration key 'glr-max-steps' is set.
const DefaultMaxSteps = 100000

// Parser is a parser for a (possibly ambiguous) grammar. Parsers are created
// from a grammar AST (Create), from pre-built tables (FromTables) or from
// persisted tables (Load).
//
// Parser tables are built lazily on first use and cached. A Parser may be
// used by more than one goroutine concurrently.
type Parser struct {
	name     string
	g        *lr.Grammar
	once     sync.Once
	tables   *lr.Tables
	err      error
	maxSteps int
}

// Option configures a parser.
type Option func(*Parser)

// MaxSteps sets the step budget of every parse. A parse taking more steps
// fails with ErrStepLimit.
func MaxSteps(n int) Option {
	return func(p *Parser) {
		p.maxSteps = n
	}
}

// Named sets the name of the grammar, used for tracing.
func Named(name string) Option {
	return func(p *Parser) {
		p.name = name
	}
}

func newParser(opts []Option) *Parser {
	p := &Parser{name: "G"}
	for _, opt := range opts {
		opt(p)
	}
	if p.maxSteps <= 0 {
		p.maxSteps = gconf.GetInt("glr-max-steps")
	}
	if p.maxSteps <= 0 {
		p.maxSteps = DefaultMaxSteps
	}
	return p
}

// Create compiles a grammar and returns a parser for it. Grammar errors are
// reported immediately, parser tables are built on first use.
func Create(ast *grammar.Node, opts ...Option) (*Parser, error) {
	p := newParser(opts)
	g, err := lr.Compile(p.name, ast)
	if err != nil {
		return nil, err
	}
	p.g = g
	return p, nil
}

// FromTables creates a parser from parser tables.
func FromTables(tables *lr.Tables, opts ...Option) *Parser {
	p := newParser(opts)
	p.once.Do(func() {
		p.tables = tables
	})
	return p
}

// Load creates a parser from tables persisted with Save.
func Load(r io.Reader, opts ...Option) (*Parser, error) {
	tables, err := lr.LoadTables(r)
	if err != nil {
		return nil, err
	}
	return FromTables(tables, opts...), nil
}

// Save persists the parser's tables.
func (p *Parser) Save(w io.Writer) error {
	tables, err := p.Tables()
	if err != nil {
		return err
	}
	return tables.Save(w)
}

// Grammar returns the compiled grammar, or nil for parsers created from
// tables.
func (p *Parser) Grammar() *lr.Grammar {
	return p.g
}

// Tables returns the parser tables, building them if necessary.
func (p *Parser) Tables() (*lr.Tables, error) {
	p.once.Do(func() {
		p.tables, p.err = lr.BuildTables(p.g)
		if p.err == nil && p.tables.HasConflicts() {
			tracer().Infof("grammar %s has %d conflicts", p.name, len(p.tables.Conflicts()))
		}
	})
	return p.tables, p.err
}

// --- Parsing ---------------------------------------------------------------

// parseRun holds the state of a single call to Parse.
type parseRun struct {
	input    string
	steps    int
	maxSteps int
	serial   int
	trace    bool
}

func (run *parseRun) tick() error {
	run.steps++
	if run.steps > run.maxSteps {
		return fmt.Errorf("%w: %d steps", ErrStepLimit, run.maxSteps)
	}
	return nil
}

func (run *parseRun) nextSerial() int {
	run.serial++
	return run.serial
}

// Parse parses an input string and returns its parse tree. The root of the
// tree is tagged START.
//
// Parse returns a *SyntaxError if the input is not in the language of the
// grammar, an *AmbiguityError if it has parse trees which cannot be ordered by
// rank, and ErrStepLimit (wrapped) if the step budget is exhausted.
func (p *Parser) Parse(input string) (*forklr.Node, error) {
	if _, err := p.Tables(); err != nil {
		return nil, err
	}
	run := &parseRun{
		input:    input,
		maxSteps: p.maxSteps,
		trace:    gconf.GetBool("trace-parse-steps"),
	}
	c := &context{states: []int{0}}
	for !c.done {
		next, err := p.step(run, c)
		if err != nil {
			return nil, err
		}
		if len(next) == 1 {
			c = next[0]
			continue
		}
		if c, err = p.reconcile(run, next); err != nil {
			return nil, err
		}
	}
	tracer().Debugf("input accepted after %d steps", run.steps)
	if len(c.stack) != 1 || c.stack[0].node == nil {
		return nil, &lr.TableError{State: c.top(), Msg: fmt.Sprintf("accepted with %d entries on the stack", len(c.stack))}
	}
	root := c.stack[0].node
	return p.spliceInlines(root), nil
}

// reconcile advances a group of contexts until it collapses into a single
// context, either because all branches are in the same configuration or
// because all but one of them failed or have been discarded, or because all
// have accepted the input.
//
// Contexts are advanced in lock-step: only the laggards, i.e. unfinished
// contexts with the most remaining input (and of those, the ones with the
// deepest state stack) are stepped. All other contexts wait.
func (p *Parser) reconcile(run *parseRun, group []*context) (*context, error) {
	var failure *SyntaxError
	for {
		group = p.pack(group)
		if len(group) == 1 {
			return group[0], nil
		}
		laggards, waiting := partition(group)
		if len(laggards) == 0 { // all finished
			return p.choose(group)
		}
		if len(waiting) == 0 && sameStates(laggards) {
			tracer().Debugf("merging %d branches at position %d", len(laggards), laggards[0].pos)
			return p.choose(laggards)
		}
		group = waiting
		for _, c := range laggards {
			next, err := p.step(run, c)
			if err != nil {
				if serr, ok := err.(*SyntaxError); ok {
					failure = failure.merge(serr)
					continue
				}
				return nil, err
			}
			group = append(group, next...)
		}
		if len(group) == 0 {
			return nil, failure
		}
	}
}

// partition splits a group into the laggards to step next and the others.
func partition(group []*context) (laggards, waiting []*context) {
	var best *context
	for _, c := range group {
		if c.done {
			continue
		}
		if best == nil || c.pos < best.pos || (c.pos == best.pos && len(c.states) > len(best.states)) {
			best = c
		}
	}
	if best == nil {
		return nil, group
	}
	for _, c := range group {
		if !c.done && c.pos == best.pos && len(c.states) == len(best.states) {
			laggards = append(laggards, c)
		} else {
			waiting = append(waiting, c)
		}
	}
	return laggards, waiting
}

func sameStates(group []*context) bool {
	for _, c := range group[1:] {
		if !c.sameConfiguration(group[0]) {
			return false
		}
	}
	return true
}

// pack discards contexts whose configuration equals that of another context
// with a better parse so far. Contexts which cannot be ordered by rank are
// kept.
func (p *Parser) pack(group []*context) []*context {
	if len(group) < 2 {
		return group
	}
	byPrint := make(map[uint64][]int, len(group))
	packed := make([]*context, 0, len(group))
	for _, c := range group {
		fp := c.fingerprint()
		replaced := false
		for _, k := range byPrint[fp] {
			other := packed[k]
			if other == nil || !other.sameConfiguration(c) {
				continue
			}
			switch compareStacks(c.stack, other.stack) {
			case Less:
				packed[k] = c
				replaced = true
			case Equal, Greater:
				replaced = true
			}
			if replaced {
				break
			}
		}
		if !replaced {
			byPrint[fp] = append(byPrint[fp], len(packed))
			packed = append(packed, c)
		}
	}
	if len(packed) < len(group) {
		tracer().Debugf("packed %d branches into %d", len(group), len(packed))
	}
	return packed
}

// choose selects the context with the best parse by rank. Of equal parses,
// the first one wins.
func (p *Parser) choose(group []*context) (*context, error) {
	best := group[0]
	for _, c := range group[1:] {
		switch compareStacks(c.stack, best.stack) {
		case Less:
			best = c
		case Incomparable:
			err := &AmbiguityError{}
			for _, x := range group {
				for _, e := range x.stack {
					if e.node != nil {
						err.Trees = append(err.Trees, e.node)
					}
				}
			}
			return nil, err
		}
	}
	return best, nil
}

// spliceInlines replaces nodes of inline non-terminals by their children.
func (p *Parser) spliceInlines(root *forklr.Node) *forklr.Node {
	inlines := p.tables.Inlines()
	if len(inlines) == 0 {
		return root
	}
	rules := make(forklr.Rules, len(inlines))
	for _, nt := range inlines {
		rules[nt] = forklr.Splice
	}
	return forklr.TransformTree(root, rules.Rewriter())
}
