/*
Package glrepl/main provides an interactive command line tool (GLREPL)
for experiments with ambiguous grammars. Users load a grammar (YAML or
EBNF) or pre-built parser tables (JSON), then enter lines of input which
are parsed and displayed as trees.

Commands start with a colon:

    :dump             print the ACTION and GOTO tables
    :conflicts        list the conflicts of the parser tables
    :save <file>      persist the parser tables as JSON
    :dot <file>       write the CFSM in Graphviz Dot format
    :quit             leave GLREPL

Every other line is parsed.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/

package main

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'forklr.glr'
func tracer() tracing.Trace {
	return tracing.Select("forklr.glr")
}
