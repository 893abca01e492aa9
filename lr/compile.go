package lr

import (
	"fmt"
	"regexp"

	"github.com/npillmayer/forklr/lr/grammar"
)

// Compile compiles a grammar AST into production rules.
//
// EBNF-style operators are desugared: optionals become alternatives with an
// empty body, repetitions become new inline non-terminals with right
// recursive rules, and sequences of alternatives are expanded into the
// cartesian product of their operands. Every alternative of a non-terminal
// gets a rank, its position in declaration order.
//
// Compile returns a *GrammarError if the AST does not declare START, contains
// a malformed terminal, or references a non-terminal without rules.
func Compile(name string, ast *grammar.Node) (*Grammar, error) {
	if err := grammar.Validate(ast); err != nil {
		return nil, grammarErr("", err, "malformed grammar AST")
	}
	if ast.Kind != grammar.GrammarNode {
		return nil, grammarErr("", nil, "expected a grammar, found %s", ast.Kind)
	}
	c := &compiler{
		g:          newGrammar(name),
		references: make(map[*Symbol]string),
	}
	return c.compile(ast)
}

type compiler struct {
	g          *Grammar
	decls      []declaration      // declared rules, in order
	generated  []declaration      // rules generated for repetitions
	repeats    int                // counter for synthetic names
	references map[*Symbol]string // non-terminal -> first rule referencing it
}

type declaration struct {
	head   *Symbol
	bodies [][]*Symbol
}

func (c *compiler) compile(ast *grammar.Node) (*Grammar, error) {
	// declare heads first, so non-terminals are numbered in declaration order
	hasStart := false
	for _, rule := range ast.Children {
		A := c.g.nonterminal(rule.Value)
		if rule.Alias != "" {
			A.Inline = true
		}
		if rule.Value == grammar.StartSymbol {
			hasStart = true
		}
	}
	if !hasStart {
		return nil, grammarErr("", nil, "grammar is missing a %s non-terminal", grammar.StartSymbol)
	}
	c.g.Start = c.g.nonterminal(grammar.StartSymbol)
	for _, rule := range ast.Children {
		bodies, err := c.expand(rule.Body(), rule.Value)
		if err != nil {
			return nil, err
		}
		c.decls = append(c.decls, declaration{head: c.g.nonterminal(rule.Value), bodies: bodies})
	}
	ranks := make(map[*Symbol]int)
	for _, d := range append(c.decls, c.generated...) {
		for _, body := range d.bodies {
			if _, ok := c.g.addRule(d.head, body, ranks[d.head]); ok {
				ranks[d.head]++
			} else {
				tracer().Infof("duplicate alternative for %s ignored: %v", d.head, body)
			}
		}
	}
	for _, A := range c.g.nonterminals {
		if len(c.g.byHead[A]) == 0 {
			return nil, grammarErr(c.references[A], nil, "non-terminal %s has no rules", A)
		}
	}
	tracer().Infof("grammar %s compiled: %d rules, %d terminals, %d non-terminals",
		c.g.Name, len(c.g.rules), len(c.g.terminals), len(c.g.nonterminals))
	c.g.Dump()
	return c.g, nil
}

// expand desugars an AST node into a list of alternative bodies.
func (c *compiler) expand(n *grammar.Node, rule string) ([][]*Symbol, error) {
	switch n.Kind {
	case grammar.EmptyNode:
		return [][]*Symbol{{}}, nil
	case grammar.NonTerminalNode:
		A := c.g.nonterminal(n.Value)
		if _, ok := c.references[A]; !ok {
			c.references[A] = rule
		}
		return [][]*Symbol{{A}}, nil
	case grammar.TerminalNode:
		t, err := ParseTerminal(n.Value)
		if err != nil {
			return nil, grammarErr(rule, err, "malformed terminal %s", n.Value)
		}
		return [][]*Symbol{{c.g.terminal(t)}}, nil
	case grammar.OrNode:
		var alts [][]*Symbol
		for _, x := range n.Children {
			a, err := c.expand(x, rule)
			if err != nil {
				return nil, err
			}
			alts = append(alts, a...)
		}
		return alts, nil
	case grammar.AndNode:
		factors := make([][][]*Symbol, len(n.Children))
		for i, x := range n.Children {
			f, err := c.expand(x, rule)
			if err != nil {
				return nil, err
			}
			factors[i] = f
		}
		return cartesian(factors), nil
	case grammar.OptionalNode:
		alts, err := c.expand(n.Children[0], rule)
		if err != nil {
			return nil, err
		}
		return append(alts, []*Symbol{}), nil
	case grammar.ZeroRepeatNode, grammar.OneRepeatNode:
		alts, err := c.expand(n.Children[0], rule)
		if err != nil {
			return nil, err
		}
		R := c.repetition()
		var bodies [][]*Symbol
		if n.Kind == grammar.ZeroRepeatNode {
			bodies = append(bodies, []*Symbol{})
		} else {
			bodies = append(bodies, alts...)
		}
		for _, a := range alts {
			bodies = append(bodies, concat(a, []*Symbol{R}))
		}
		c.generated = append(c.generated, declaration{head: R, bodies: bodies})
		return [][]*Symbol{{R}}, nil
	}
	return nil, grammarErr(rule, nil, "unexpected %s in rule body", n.Kind)
}

// repetition creates a synthetic inline non-terminal.
func (c *compiler) repetition() *Symbol {
	for {
		c.repeats++
		name := fmt.Sprintf("$rep%d", c.repeats)
		if c.g.ntByName[name] == nil {
			A := c.g.nonterminal(name)
			A.Inline = true
			return A
		}
	}
}

// cartesian expands a sequence of factors, each being a list of
// alternatives, into all combinations. The first factor varies fastest:
//
//     (a|b) (c|d)  =>  a c, b c, a d, b d
//
func cartesian(factors [][][]*Symbol) [][]*Symbol {
	if len(factors) == 0 {
		return [][]*Symbol{{}}
	}
	combos := factors[len(factors)-1]
	for i := len(factors) - 2; i >= 0; i-- {
		next := make([][]*Symbol, 0, len(combos)*len(factors[i]))
		for _, combo := range combos {
			for _, part := range factors[i] {
				next = append(next, concat(part, combo))
			}
		}
		combos = next
	}
	return combos
}

func concat(a, b []*Symbol) []*Symbol {
	r := make([]*Symbol, 0, len(a)+len(b))
	r = append(r, a...)
	return append(r, b...)
}

var regexTerminal = regexp.MustCompile(`^/((?:[^\\/]|\\[\s\S])*)/([A-Za-z]*)$`)

// ParseTerminal parses the raw form of a terminal:
//
//     "x"         literal, kept as a leaf
//     'x'         literal, dropped from parse trees
//     /x/flags    regular expression
//
// Literals are taken verbatim, without escape processing.
func ParseTerminal(raw string) (Terminal, error) {
	if len(raw) >= 2 {
		switch first, last := raw[0], raw[len(raw)-1]; {
		case first == '"' && last == '"':
			if len(raw) == 2 {
				return Terminal{}, fmt.Errorf("empty literal")
			}
			return LiteralTerminal(raw[1 : len(raw)-1]), nil
		case first == '\'' && last == '\'':
			if len(raw) == 2 {
				return Terminal{}, fmt.Errorf("empty literal")
			}
			return PatternTerminal(regexp.QuoteMeta(raw[1:len(raw)-1]), ""), nil
		case first == '/':
			m := regexTerminal.FindStringSubmatch(raw)
			if m == nil || m[1] == "" {
				break
			}
			t := PatternTerminal(m[1], m[2])
			if err := t.Validate(); err != nil {
				return Terminal{}, err
			}
			return t, nil
		}
	}
	return Terminal{}, fmt.Errorf("terminal has to be \"literal\", 'literal' or /regex/flags")
}
