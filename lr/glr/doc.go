/*
Package glr implements a parser for ambiguous grammars, driven by LR(1)
tables which may contain conflicts.

The parser is scannerless: at every state, the terminals which have an
entry in the ACTION table are matched against the remaining input, after
skipping whitespace. Whenever more than one action applies, the parse
context is forked and the resulting group of contexts is advanced in
lock-step: the least advanced contexts (most remaining input, then the
deepest state stack) are stepped while the others wait. A group collapses
as soon as all of its contexts are in the same configuration, or when all
of them have accepted the input.

Competing parse trees are resolved by rank, i.e. by the declaration order of
grammar alternatives: trees are compared top-down and left to right, and the
first node where the ranks of the alternatives differ decides; the lower rank
wins. Trees which cannot be ordered that way are reported as an
*AmbiguityError, never resolved silently.

Example:

    p, err := glr.Create(ast)
    …
    tree, err := p.Parse("1 + 2 - 3")
    fmt.Println(tree)   // (START (Expr (Expr (Expr "1") "+" "2") "-" "3"))

Parsers may be persisted (Save) and restored without the grammar (Load).

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package glr

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'forklr.glr'.
func tracer() tracing.Trace {
	return tracing.Select("forklr.glr")
}
