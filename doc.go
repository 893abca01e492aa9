/*
Package forklr is a toolbox for parsing small, possibly ambiguous languages
with canonical LR(1) tables and a forking parse engine.

Clients describe a language as a grammar AST, have it compiled into LR(1)
tables, and run a parser which follows every viable action of the tables in
parallel. Ambiguities are resolved by the declaration order of grammar
alternatives. Package structure is as follows:

■ lr: Package lr compiles grammar ASTs into production rules, computes FIRST
sets, builds the canonical collection of LR(1) item sets and derives
ACTION, GOTO and TOKEN tables from it. Tables may be saved and loaded.

■ lr/grammar: Package grammar holds the AST vocabulary for grammars, together
with loaders for YAML and EBNF grammar files.

■ lr/glr: Package glr is the forking parse engine.

The base package contains the parse tree type and a generic bottom-up
tree transformation, which is the hook for downstream interpreters.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package forklr

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'forklr'.
func tracer() tracing.Trace {
	return tracing.Select("forklr")
}
