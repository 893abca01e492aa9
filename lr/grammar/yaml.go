package grammar

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// LoadYAML reads a grammar AST from YAML. The document is a list of rules
// (optionally preceded by the tag 'grammar'). Every AST node is a list whose
// first element names its kind:
//
//     - [rule, START, [nonTerminal, Sum]]
//     - [rule, Sum, [or,
//           [and, [nonTerminal, Sum], [terminal, '"+"'], [terminal, '/(\d+)/']],
//           [terminal, '/(\d+)/']]]
//     - [rule, Digits, inline, [oneRepeat, [terminal, '/(\d)/']]]
//
// A rule with four elements declares an inline alias. A null value (~) or
// [empty] denotes the empty sequence.
func LoadYAML(r io.Reader) (*Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading YAML grammar: %w", err)
	}
	return ParseYAML(data)
}

// ParseYAML parses a grammar AST from YAML source. See LoadYAML.
func ParseYAML(data []byte) (*Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("YAML grammar: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 {
		return nil, fmt.Errorf("YAML grammar: expected a single document")
	}
	root := doc.Content[0]
	if root.Kind != yaml.SequenceNode {
		return nil, yamlErr(root, "grammar has to be a list of rules")
	}
	rules := root.Content
	if len(rules) > 0 && isTag(rules[0], "grammar") {
		rules = rules[1:]
	}
	g := Def()
	for _, r := range rules {
		rule, err := fromYAML(r)
		if err != nil {
			return nil, err
		}
		if rule.Kind != RuleNode {
			return nil, yamlErr(r, "expected a rule, found %s", rule.Kind)
		}
		g.Children = append(g.Children, rule)
	}
	if err := Validate(g); err != nil {
		return nil, err
	}
	tracer().Debugf("loaded grammar with %d rules from YAML", len(g.Children))
	return g, nil
}

func isTag(n *yaml.Node, tag string) bool {
	return n.Kind == yaml.ScalarNode && n.Value == tag
}

func yamlErr(n *yaml.Node, format string, args ...interface{}) error {
	return fmt.Errorf("YAML grammar line %d: %s", n.Line, fmt.Sprintf(format, args...))
}

func fromYAML(n *yaml.Node) (*Node, error) {
	if n.Kind == yaml.ScalarNode && n.Tag == "!!null" {
		return Eps(), nil
	}
	if n.Kind != yaml.SequenceNode || len(n.Content) == 0 {
		return nil, yamlErr(n, "expected a non-empty list")
	}
	head := n.Content[0]
	if head.Kind != yaml.ScalarNode {
		return nil, yamlErr(head, "first element of a list has to name its kind")
	}
	kind, ok := KindFromString(head.Value)
	if !ok {
		return nil, yamlErr(head, "unknown kind %q", head.Value)
	}
	args := n.Content[1:]
	switch kind {
	case EmptyNode:
		return Eps(), nil
	case NonTerminalNode, TerminalNode:
		if len(args) != 1 || args[0].Kind != yaml.ScalarNode {
			return nil, yamlErr(n, "%s expects a single value", kind)
		}
		return &Node{Kind: kind, Value: args[0].Value}, nil
	case RuleNode:
		if len(args) != 2 && len(args) != 3 {
			return nil, yamlErr(n, "rule expects a head, an optional alias and a body")
		}
		if args[0].Kind != yaml.ScalarNode {
			return nil, yamlErr(args[0], "rule head has to be a name")
		}
		rule := &Node{Kind: RuleNode, Value: args[0].Value}
		if len(args) == 3 {
			rule.Alias = args[1].Value
			if rule.Alias == "" {
				rule.Alias = rule.Value
			}
		}
		body, err := fromYAML(args[len(args)-1])
		if err != nil {
			return nil, err
		}
		rule.Children = []*Node{body}
		return rule, nil
	case GrammarNode:
		return nil, yamlErr(n, "nested grammar")
	}
	node := &Node{Kind: kind}
	for _, a := range args {
		c, err := fromYAML(a)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, c)
	}
	return node, nil
}
