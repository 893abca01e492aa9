/*
Package lr implements the construction of LR(1) parser tables for
grammars which may be ambiguous.

Compiling a Grammar

Grammars are given as an AST (see package grammar), either built in Go
or loaded from YAML or EBNF. Compilation desugars optionals and
repetitions, expands alternatives within sequences and numbers the
alternatives of every non-terminal by declaration order (their rank).
A grammar has to define the non-terminal START.

Example:

    ast := grammar.Def(
        grammar.Rule("START", grammar.N("Expr")),
        grammar.Rule("Expr", grammar.Or(
            grammar.And(grammar.N("Expr"), grammar.T(`"+"`), grammar.N("Num")),
            grammar.N("Num"),
        )),
        grammar.Rule("Num", grammar.T(`/([0-9]+)/`)),
    )
    g, err := lr.Compile("Sum", ast)

This results in the following rules:

    g.Dump()

    0: START ::= [Expr]
    1: Expr ::= [Expr "+" Num]
    2: Expr ::= [Num]
    3: Num ::= [/([0-9]+)/]

Terminals are either literal strings, or regular expressions. Leading
whitespace in the input is skipped before every terminal.

Static Grammar Analysis

After compilation, the grammar is subjected to an LRAnalysis object,
which computes FIRST sets for all symbols. FIRST sets are exposed as sets
of terminal values, with -1 denoting epsilon.

    ga := lr.Analysis(g)
    ga.Grammar().EachNonTerminal(func(A *lr.Symbol) interface{} {
        fmt.Printf("FIRST(%s) = %v\n", A, ga.First(A))
        return nil
    })

Parser Construction

Using grammar analysis as input, the canonical collection of LR(1) item
sets is built, i.e. the characteristic finite state machine (CFSM). It is
then transformed into the ACTION, GOTO and TOKEN tables. Conflicts are not
an error: a cell of the ACTION table may hold any number of actions and
the parser is expected to explore all of them.

    lrgen := lr.NewTableGenerator(ga)
    if err := lrgen.CreateTables(); err != nil { … }
    tables := lrgen.Tables()

The CFSM is kept for debugging purposes and can be exported to Graphviz's
Dot format. Tables can be exported to HTML, dumped as text tables and
persisted as JSON (see Tables.Save and LoadTables).

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lr

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'forklr.lr'.
func tracer() tracing.Trace {
	return tracing.Select("forklr.lr")
}
