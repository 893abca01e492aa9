package grammar

import (
	"fmt"
	"strings"
)

// Kind is the type of a grammar AST node.
type Kind int8

// Kinds of grammar AST nodes.
const (
	EmptyNode       Kind = iota // ε
	NonTerminalNode             // reference to a non-terminal, Value = name
	TerminalNode                // terminal, Value = raw literal, i.e. "x", 'x' or /x/flags
	OrNode                      // alternatives
	AndNode                     // sequence
	OptionalNode                // [ X ]
	ZeroRepeatNode              // { X }
	OneRepeatNode               // X { X }
	RuleNode                    // Value = head, Alias optional, one child = body
	GrammarNode                 // children are rules
)

var kindNames = [...]string{"empty", "nonTerminal", "terminal", "or", "and",
	"optional", "zeroRepeat", "oneRepeat", "rule", "grammar"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// KindFromString returns the kind for a name as produced by Kind.String.
func KindFromString(s string) (Kind, bool) {
	for i, n := range kindNames {
		if n == s {
			return Kind(i), true
		}
	}
	return EmptyNode, false
}

// StartSymbol is the name of the non-terminal every grammar has to declare.
const StartSymbol = "START"

// Node is a node of a grammar AST.
type Node struct {
	Kind     Kind
	Value    string  // name of a non-terminal or rule head, raw terminal
	Alias    string  // for rules: if set, the rule's head is spliced away in parse trees
	Children []*Node // operands
}

// N is a reference to a non-terminal.
func N(name string) *Node {
	return &Node{Kind: NonTerminalNode, Value: name}
}

// T is a terminal, given in its raw form: "x" for a literal which will be kept
// as a leaf in parse trees, 'x' for a literal which will be dropped, and
// /pattern/flags for a regular expression.
func T(raw string) *Node {
	return &Node{Kind: TerminalNode, Value: raw}
}

// Lit is a terminal for a literal which is kept as a leaf.
func Lit(s string) *Node {
	return T(`"` + s + `"`)
}

// Hidden is a terminal for a literal which is matched, but dropped from
// parse trees.
func Hidden(s string) *Node {
	return T(`'` + s + `'`)
}

// Re is a terminal for a regular expression. Capture groups of the
// expression become leaves in parse trees.
func Re(pattern string, flags string) *Node {
	return T("/" + pattern + "/" + flags)
}

// Eps is the empty sequence.
func Eps() *Node {
	return &Node{Kind: EmptyNode}
}

// Or creates alternatives.
func Or(alternatives ...*Node) *Node {
	return &Node{Kind: OrNode, Children: alternatives}
}

// And creates a sequence.
func And(seq ...*Node) *Node {
	return &Node{Kind: AndNode, Children: seq}
}

// Opt makes x optional.
func Opt(x *Node) *Node {
	return &Node{Kind: OptionalNode, Children: []*Node{x}}
}

// Star repeats x zero or more times.
func Star(x *Node) *Node {
	return &Node{Kind: ZeroRepeatNode, Children: []*Node{x}}
}

// Plus repeats x one or more times.
func Plus(x *Node) *Node {
	return &Node{Kind: OneRepeatNode, Children: []*Node{x}}
}

// Rule declares head ::= body.
func Rule(head string, body *Node) *Node {
	return &Node{Kind: RuleNode, Value: head, Children: []*Node{body}}
}

// Alias declares head ::= body, with head being inline: nodes for head will
// be spliced into their parent nodes.
func Alias(head string, alias string, body *Node) *Node {
	return &Node{Kind: RuleNode, Value: head, Alias: alias, Children: []*Node{body}}
}

// Def creates a grammar from a list of rules.
func Def(rules ...*Node) *Node {
	return &Node{Kind: GrammarNode, Children: rules}
}

// Body returns the body of a rule node, or nil.
func (n *Node) Body() *Node {
	if n == nil || n.Kind != RuleNode || len(n.Children) == 0 {
		return nil
	}
	return n.Children[0]
}

// String returns the AST as a nested list, e.g. [and [nonTerminal A] [terminal "x"]].
func (n *Node) String() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n *Node) write(b *strings.Builder) {
	if n == nil {
		b.WriteString("~")
		return
	}
	b.WriteByte('[')
	b.WriteString(n.Kind.String())
	if n.Value != "" {
		b.WriteByte(' ')
		b.WriteString(n.Value)
	}
	if n.Alias != "" {
		b.WriteByte(' ')
		b.WriteString(n.Alias)
	}
	for _, c := range n.Children {
		b.WriteByte(' ')
		c.write(b)
	}
	b.WriteByte(']')
}

// Validate checks the structural well-formedness of an AST, i.e. the number
// of children and values of nodes. It does not check references between
// rules.
func Validate(n *Node) error {
	if n == nil {
		return fmt.Errorf("grammar AST is nil")
	}
	switch n.Kind {
	case EmptyNode:
		return nil
	case NonTerminalNode, TerminalNode:
		if n.Value == "" {
			return fmt.Errorf("%s without value", n.Kind)
		}
		return nil
	case OrNode, AndNode:
		if len(n.Children) == 0 {
			return fmt.Errorf("%s without operands", n.Kind)
		}
	case OptionalNode, ZeroRepeatNode, OneRepeatNode:
		if len(n.Children) != 1 {
			return fmt.Errorf("%s expects exactly one operand, has %d", n.Kind, len(n.Children))
		}
	case RuleNode:
		if n.Value == "" || len(n.Children) != 1 {
			return fmt.Errorf("rule must have a head and a body: %s", n)
		}
	case GrammarNode:
		for _, r := range n.Children {
			if r == nil || r.Kind != RuleNode {
				return fmt.Errorf("grammar may contain only rules, found %s", r)
			}
		}
	default:
		return fmt.Errorf("unknown grammar AST node kind %d", n.Kind)
	}
	for _, c := range n.Children {
		if err := Validate(c); err != nil {
			return err
		}
	}
	return nil
}
