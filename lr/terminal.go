package lr

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"unicode"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/npillmayer/schuko/gconf"
)

// TerminalKind categorizes terminals.
type TerminalKind uint8

// Kinds of terminals.
const (
	EndMarker TerminalKind = iota // end of input
	Literal                       // literal string, kept as leaf
	Pattern                       // regular expression, capture groups are leaves
)

// Terminal is a terminal symbol of a grammar. Terminals are comparable values;
// two terminals are equal if they have the same kind, text and flags.
//
// Every terminal skips leading whitespace of the input before matching.
type Terminal struct {
	Kind  TerminalKind
	Text  string // literal text or regular expression source
	Flags string // flags for regular expressions
}

// End is the end-of-input marker.
var End = Terminal{Kind: EndMarker}

// LiteralTerminal creates a terminal matching s.
func LiteralTerminal(s string) Terminal {
	return Terminal{Kind: Literal, Text: s}
}

// PatternTerminal creates a terminal for a regular expression.
func PatternTerminal(src, flags string) Terminal {
	return Terminal{Kind: Pattern, Text: src, Flags: flags}
}

// IsEnd is true for the end-of-input marker.
func (t Terminal) IsEnd() bool {
	return t.Kind == EndMarker
}

func (t Terminal) String() string {
	switch t.Kind {
	case EndMarker:
		return "#eof"
	case Literal:
		return fmt.Sprintf("%q", t.Text)
	}
	return "/" + t.Text + "/" + t.Flags
}

// Match matches t against the start of input. It returns the number of bytes
// of leading whitespace skipped, the number of bytes consumed in total, and
// the leaf values produced. ok is false if t does not match.
//
// The end marker matches if input consists of whitespace only. It consumes
// nothing and produces no leaf.
func (t Terminal) Match(input string) (skip int, length int, leaf []string, ok bool) {
	rest := strings.TrimLeftFunc(input, unicode.IsSpace)
	skip = len(input) - len(rest)
	switch t.Kind {
	case EndMarker:
		return 0, 0, nil, rest == ""
	case Literal:
		if t.Text != "" && strings.HasPrefix(rest, t.Text) {
			return skip, skip + len(t.Text), []string{t.Text}, true
		}
		return skip, 0, nil, false
	}
	re, err := t.regex()
	if err != nil {
		tracer().Errorf("cannot match terminal %v: %v", t, err)
		return skip, 0, nil, false
	}
	m := re.FindStringSubmatchIndex(rest)
	if m == nil {
		return skip, 0, nil, false
	}
	groups := len(m)/2 - 1
	if groups > 0 {
		leaf = make([]string, groups)
		for g := 1; g <= groups; g++ {
			if m[2*g] >= 0 {
				leaf[g-1] = rest[m[2*g]:m[2*g+1]]
			}
		}
	}
	return skip, skip + m[1], leaf, true
}

// --- Regular expressions ---------------------------------------------------

// Flags are given in JavaScript style. i, m and s map to Go's flags of the
// same name, g, u and y have no meaning for anchored single matches and are
// ignored.
func goFlags(flags string) (string, error) {
	var b strings.Builder
	for _, f := range flags {
		switch f {
		case 'i', 'm', 's':
			if !strings.ContainsRune(b.String(), f) {
				b.WriteRune(f)
			}
		case 'g', 'u', 'y':
		default:
			return "", fmt.Errorf("unsupported regular expression flag %q", f)
		}
	}
	return b.String(), nil
}

func anchored(src, flags string) (string, error) {
	f, err := goFlags(flags)
	if err != nil {
		return "", err
	}
	if f == "" {
		return `\A(?:` + src + `)`, nil
	}
	return `\A(?` + f + `:` + src + `)`, nil
}

var regexCache struct {
	sync.Once
	cache *lru.Cache[string, *regexp.Regexp]
}

// defaultRegexCacheSize is used if configuration key 'regex-cache-size' is unset.
const defaultRegexCacheSize = 512

func compiledRegexes() *lru.Cache[string, *regexp.Regexp] {
	regexCache.Do(func() {
		size := gconf.GetInt("regex-cache-size")
		if size <= 0 {
			size = defaultRegexCacheSize
		}
		c, err := lru.New[string, *regexp.Regexp](size)
		if err != nil {
			panic(fmt.Sprintf("cannot create regex cache: %v", err))
		}
		regexCache.cache = c
	})
	return regexCache.cache
}

// regex returns the compiled, anchored regular expression for a pattern
// terminal.
func (t Terminal) regex() (*regexp.Regexp, error) {
	key := t.Flags + "/" + t.Text
	cache := compiledRegexes()
	if re, ok := cache.Get(key); ok {
		return re, nil
	}
	src, err := anchored(t.Text, t.Flags)
	if err != nil {
		return nil, err
	}
	re, err := regexp.Compile(src)
	if err != nil {
		return nil, err
	}
	cache.Add(key, re)
	return re, nil
}

// Validate checks if t is a usable terminal, i.e. for patterns, if the
// expression compiles and all flags are supported.
func (t Terminal) Validate() error {
	switch t.Kind {
	case EndMarker:
		return nil
	case Literal:
		if t.Text == "" {
			return fmt.Errorf("empty literal terminal")
		}
		return nil
	case Pattern:
		_, err := t.regex()
		return err
	}
	return fmt.Errorf("unknown terminal kind %d", t.Kind)
}
