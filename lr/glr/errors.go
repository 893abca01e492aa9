package glr

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/npillmayer/forklr"
	"github.com/npillmayer/forklr/lr"
)

// ErrStepLimit is returned if a parse exceeds its step budget.
var ErrStepLimit = errors.New("parse step limit exceeded")

// SyntaxError is returned if no branch of a parse is able to continue.
// If branches fail at different positions, the error reports the failure
// furthest into the input. Expected is the union of the terminals of all
// branches failing at that position; branches which failed earlier do not
// contribute.
type SyntaxError struct {
	Fragment string // unmatched input, up to the end of the line
	Offset   int    // byte offset of Fragment in the input
	Line     int    // 1-based
	Col      int    // 1-based, in runes
	Expected []lr.Terminal
}

func (e *SyntaxError) Error() string {
	exp := make([]string, len(e.Expected))
	for i, t := range e.Expected {
		exp[i] = t.String()
	}
	frag := e.Fragment
	if frag == "" {
		frag = "end of input"
	} else {
		frag = fmt.Sprintf("%q", frag)
	}
	return fmt.Sprintf("syntax error at %d:%d: expected one of [%s], have %s",
		e.Line, e.Col, strings.Join(exp, " "), frag)
}

func newSyntaxError(input string, pos int, expected []lr.Terminal) *SyntaxError {
	rest := strings.TrimLeftFunc(input[pos:], unicode.IsSpace)
	offset := len(input) - len(rest)
	if i := strings.IndexByte(rest, '\n'); i >= 0 {
		rest = rest[:i]
	}
	line := strings.Count(input[:offset], "\n") + 1
	start := strings.LastIndexByte(input[:offset], '\n') + 1
	col := len([]rune(input[start:offset])) + 1
	return &SyntaxError{
		Fragment: rest,
		Offset:   offset,
		Line:     line,
		Col:      col,
		Expected: expected,
	}
}

// merge adds the expected terminals of other, if other failed at the same
// position. A failure further to the right replaces e.
func (e *SyntaxError) merge(other *SyntaxError) *SyntaxError {
	if e == nil || other.Offset > e.Offset {
		return other
	}
	if other.Offset < e.Offset {
		return e
	}
	for _, t := range other.Expected {
		found := false
		for _, x := range e.Expected {
			found = found || x == t
		}
		if !found {
			e.Expected = append(e.Expected, t)
		}
	}
	return e
}

// AmbiguityError is returned if the parse trees of competing branches cannot
// be ordered by rank.
type AmbiguityError struct {
	Trees []*forklr.Node
}

func (e *AmbiguityError) Error() string {
	var b strings.Builder
	b.WriteString("cannot resolve ambiguity between parse trees:")
	for _, t := range e.Trees {
		b.WriteString("\n    ")
		b.WriteString(t.String())
	}
	return b.String()
}
