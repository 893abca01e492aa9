/*
Package grammar defines the AST vocabulary for grammars.

Grammars are trees of tagged nodes: non-terminal references, terminals,
alternatives (or), sequences (and), optionals, zero-or-more and one-or-more
repetitions, rules, and the grammar itself. Package lr compiles such an AST
into production rules.

Terminals come in three flavours:

    "x"          a literal, kept as a leaf in parse trees
    'x'          a literal, matched but dropped from parse trees
    /x/flags     a regular expression; its capture groups become leaves

Every grammar has to declare the non-terminal START.

ASTs may be built in code

    g := grammar.Def(
        grammar.Rule("START", grammar.N("Sum")),
        grammar.Rule("Sum", grammar.Or(
            grammar.And(grammar.N("Sum"), grammar.Lit("+"), grammar.Re(`(\d+)`, "")),
            grammar.Re(`(\d+)`, ""),
        )),
    )

or loaded from YAML (nested lists, first element naming the kind) or from
EBNF in the dialect of golang.org/x/exp/ebnf.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package grammar

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'forklr.lr'.
func tracer() tracing.Trace {
	return tracing.Select("forklr.lr")
}
