package grammar

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/exp/ebnf"
)

// LoadEBNF reads a grammar in the EBNF dialect of golang.org/x/exp/ebnf:
//
//     START  = Sum .
//     Sum    = Sum "+" Digit | Digit .
//     Digit  = "0" … "9" .
//
// The grammar is verified with START as its root production, i.e. every
// production has to be reachable from START.
//
// Tokens are kept literals. A token of the form "/pattern/flags" is taken as
// a regular expression terminal, a token of the form "'x'" as a dropped
// literal. Character ranges a … b become regular expressions with one
// capture group. Productions are ordered as they appear in the source.
func LoadEBNF(filename string, r io.Reader) (*Node, error) {
	eg, err := ebnf.Parse(filename, r)
	if err != nil {
		return nil, fmt.Errorf("EBNF grammar: %w", err)
	}
	if err := ebnf.Verify(eg, StartSymbol); err != nil {
		return nil, fmt.Errorf("EBNF grammar: %w", err)
	}
	prods := make([]*ebnf.Production, 0, len(eg))
	for _, p := range eg {
		prods = append(prods, p)
	}
	sort.Slice(prods, func(i, j int) bool {
		return prods[i].Pos().Offset < prods[j].Pos().Offset
	})
	g := Def()
	for _, p := range prods {
		body, err := fromEBNF(p.Expr)
		if err != nil {
			return nil, fmt.Errorf("EBNF grammar: production %s: %w", p.Name.String, err)
		}
		g.Children = append(g.Children, Rule(p.Name.String, body))
	}
	tracer().Debugf("loaded grammar with %d rules from EBNF", len(g.Children))
	return g, Validate(g)
}

var ebnfRegex = regexp.MustCompile(`^/.+/[A-Za-z]*$`)

func fromEBNF(x ebnf.Expression) (*Node, error) {
	switch e := x.(type) {
	case nil:
		return Eps(), nil
	case ebnf.Alternative:
		n := Or()
		for _, a := range e {
			c, err := fromEBNF(a)
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, c)
		}
		return n, nil
	case ebnf.Sequence:
		n := And()
		for _, a := range e {
			c, err := fromEBNF(a)
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, c)
		}
		return n, nil
	case *ebnf.Group:
		return fromEBNF(e.Body)
	case *ebnf.Option:
		c, err := fromEBNF(e.Body)
		if err != nil {
			return nil, err
		}
		return Opt(c), nil
	case *ebnf.Repetition:
		c, err := fromEBNF(e.Body)
		if err != nil {
			return nil, err
		}
		return Star(c), nil
	case *ebnf.Name:
		return N(e.String), nil
	case *ebnf.Token:
		return ebnfToken(e.String), nil
	case *ebnf.Range:
		class := regexp.QuoteMeta(e.Begin.String) + "-" + regexp.QuoteMeta(e.End.String)
		return Re("(["+class+"])", ""), nil
	case *ebnf.Bad:
		return nil, fmt.Errorf("%s: %s", e.TokPos, e.Error)
	}
	return nil, fmt.Errorf("unsupported EBNF expression %T", x)
}

func ebnfToken(s string) *Node {
	if ebnfRegex.MatchString(s) {
		return T(s)
	}
	if len(s) > 2 && strings.HasPrefix(s, "'") && strings.HasSuffix(s, "'") {
		return T(s)
	}
	return Lit(s)
}
