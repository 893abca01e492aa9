package lr

import "fmt"

// GrammarError is returned for grammars which cannot be compiled, e.g.
// because START is missing or a terminal is malformed.
type GrammarError struct {
	Rule string // head of the rule where the error occured, if known
	Msg  string
	Err  error // underlying error, if any
}

func (e *GrammarError) Error() string {
	msg := e.Msg
	if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	if e.Rule != "" {
		return fmt.Sprintf("grammar error in rule %s: %s", e.Rule, msg)
	}
	return "grammar error: " + msg
}

func (e *GrammarError) Unwrap() error {
	return e.Err
}

func grammarErr(rule string, err error, format string, args ...interface{}) *GrammarError {
	return &GrammarError{Rule: rule, Msg: fmt.Sprintf(format, args...), Err: err}
}

// TableError signals an inconsistency found while constructing parser tables.
// It always points to an internal error, never to a problem with the grammar.
type TableError struct {
	State int
	Msg   string
}

func (e *TableError) Error() string {
	return fmt.Sprintf("inconsistent parser table at state %d: %s", e.State, e.Msg)
}

// CodecError is returned for persisted parser tables which cannot be decoded.
type CodecError struct {
	Msg string
	Err error
}

func (e *CodecError) Error() string {
	if e.Err != nil {
		return "cannot decode parser tables: " + e.Msg + ": " + e.Err.Error()
	}
	return "cannot decode parser tables: " + e.Msg
}

func (e *CodecError) Unwrap() error {
	return e.Err
}
