package forklr

import "fmt"

// --- Spans ------------------------------------------------------------

// Span is a small type for capturing a run of input text. Every parse
// node tracks the byte positions of the input it covers. A span denotes a
// start position and the position just behind the end.
type Span [2]uint64 // (x…y)

// From returns the start value of a span.
func (s Span) From() uint64 {
	return s[0]
}

// To returns the end value of a span.
func (s Span) To() uint64 {
	return s[1]
}

// Len returns the length of (x…y)
func (s Span) Len() uint64 {
	return s[1] - s[0]
}

// IsNull is true for a span which covers no input.
func (s Span) IsNull() bool {
	return s[0] == s[1]
}

// Extend returns the smallest span covering s and other. Null spans do not
// extend anything.
func (s Span) Extend(other Span) Span {
	if other.IsNull() {
		return s
	}
	if s.IsNull() {
		return other
	}
	if other[0] < s[0] {
		s[0] = other[0]
	}
	if other[1] > s[1] {
		s[1] = other[1]
	}
	return s
}

// Of returns the text of input covered by s.
func (s Span) Of(input string) string {
	if int(s[1]) > len(input) || s[0] > s[1] {
		return ""
	}
	return input[s[0]:s[1]]
}

func (s Span) String() string {
	return fmt.Sprintf("(%d…%d)", s[0], s[1])
}
