/*
Package iteratable implements iteratable container data structures.

Set is a special purpose set type, suitable mainly for implementing algorithms
around parsers and parser generators. These kinds of algorithms are often more
straightforward to describe as set constructions and fixpoint iterations:
items of LR automata, candidate actions of a parser, and so on.

Elements are deduplicated by content, not by identity. A set may be iterated
as a worklist, with elements being added during the iteration.

Union is destructive, all other set operations create new sets.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package iteratable
