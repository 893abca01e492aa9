package lr

import (
	"golang.org/x/tools/container/intsets"
)

// epsilon is the nullable marker within FIRST sets. Terminals are
// represented by their symbol value (>= 0).
const epsilon = -1

// LRAnalysis is an object for grammar analysis (computing FIRST sets).
// Create it with Analysis(g). FIRST sets are computed once and immutable
// afterwards.
type LRAnalysis struct {
	g         *Grammar
	firstSets []*intsets.Sparse // FIRST sets for non-terminals, by symbol value
	termFirst []*intsets.Sparse // {t} for every terminal t
}

// Analysis creates an analyser for a grammar and computes FIRST sets.
func Analysis(g *Grammar) *LRAnalysis {
	ga := &LRAnalysis{g: g}
	ga.termFirst = make([]*intsets.Sparse, len(g.terminals))
	for _, t := range g.terminals {
		s := &intsets.Sparse{}
		s.Insert(t.Value)
		ga.termFirst[t.Value] = s
	}
	ga.firstSets = make([]*intsets.Sparse, len(g.nonterminals))
	for _, A := range g.nonterminals {
		ga.firstSets[A.Value] = &intsets.Sparse{}
	}
	ga.computeFirstSets()
	return ga
}

// Grammar returns the grammar of this analysis.
func (ga *LRAnalysis) Grammar() *Grammar {
	return ga.g
}

func (ga *LRAnalysis) firstOf(A *Symbol) *intsets.Sparse {
	if A.terminal {
		return ga.termFirst[A.Value]
	}
	return ga.firstSets[A.Value]
}

// FIRST is the least fixpoint of
//
//     FIRST(A) ⊇ FIRST(X1) \ {ε}                      for A → X1 X2 … Xn
//     FIRST(A) ⊇ FIRST(Xi+1) \ {ε}                    if X1 … Xi are nullable
//     ε ∈ FIRST(A)                                    if X1 … Xn are nullable
//
func (ga *LRAnalysis) computeFirstSets() {
	var tmp intsets.Sparse
	changed, rounds := true, 0
	for changed {
		changed = false
		rounds++
		for _, r := range ga.g.rules {
			set := ga.firstSets[r.LHS.Value]
			nullable := true
			for _, X := range r.rhs {
				fx := ga.firstOf(X)
				tmp.Copy(fx)
				tmp.Remove(epsilon)
				// UnionWith may report a change without set having grown
				before := set.Len()
				set.UnionWith(&tmp)
				if set.Len() != before {
					changed = true
				}
				if !fx.Has(epsilon) {
					nullable = false
					break
				}
			}
			if nullable && set.Insert(epsilon) {
				changed = true
			}
		}
	}
	tracer().Debugf("FIRST sets computed in %d rounds", rounds)
}

// First returns FIRST(A) for a symbol A. The set contains terminal values,
// and -1 if A is nullable. The result is a copy.
func (ga *LRAnalysis) First(A *Symbol) *intsets.Sparse {
	s := &intsets.Sparse{}
	s.Copy(ga.firstOf(A))
	return s
}

// IsNullable is a predicate: may A derive the empty string?
func (ga *LRAnalysis) IsNullable(A *Symbol) bool {
	return ga.firstOf(A).Has(epsilon)
}

// FirstOfSequence returns FIRST(X1 X2 … Xn). It contains -1 if the whole
// sequence is nullable (including the empty sequence).
func (ga *LRAnalysis) FirstOfSequence(seq []*Symbol) *intsets.Sparse {
	s := &intsets.Sparse{}
	var tmp intsets.Sparse
	for _, X := range seq {
		fx := ga.firstOf(X)
		tmp.Copy(fx)
		tmp.Remove(epsilon)
		s.UnionWith(&tmp)
		if !fx.Has(epsilon) {
			return s
		}
	}
	s.Insert(epsilon)
	return s
}

// lookaheads returns FIRST(seq · la) for a terminal la, as terminal symbols.
func (ga *LRAnalysis) lookaheads(seq []*Symbol, la *Symbol) []*Symbol {
	f := ga.FirstOfSequence(seq)
	if f.Has(epsilon) {
		f.Remove(epsilon)
		f.Insert(la.Value)
	}
	vals := f.AppendTo(nil)
	las := make([]*Symbol, len(vals))
	for i, v := range vals {
		las[i] = ga.g.terminals[v]
	}
	return las
}
