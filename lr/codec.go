package lr

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/npillmayer/forklr/lr/grammar"
)

// Persisted form of parser tables:
//
//     {
//       "actions":   [ state: 0 | [ [token, action, ...], ... ] ],
//       "gotos":     [ state: 0 | [ [nonterminal, state], ... ] ],
//       "terminals": [ token, ... ],
//       "inlines":   [ nonterminal, ... ]
//     }
//
// A token is a JSON string for literals, [source, flags] for regular
// expressions and null for the end marker. A shift action is encoded as
// [state], reduce and accept actions as [head, length, rank]. Accept actions
// are the reductions to START on the end marker.
type persistedTables struct {
	Actions   []interface{} `json:"actions"`
	Gotos     []interface{} `json:"gotos"`
	Terminals []interface{} `json:"terminals"`
	Inlines   []string      `json:"inlines"`
}

func encodeTerminal(t Terminal) interface{} {
	switch t.Kind {
	case EndMarker:
		return nil
	case Literal:
		return t.Text
	}
	return []string{t.Text, t.Flags}
}

// Save writes the tables in their persisted JSON form.
func (t *Tables) Save(w io.Writer) error {
	p := persistedTables{
		Actions:   make([]interface{}, t.states),
		Gotos:     make([]interface{}, t.states),
		Terminals: make([]interface{}, len(t.terminals)),
		Inlines:   make([]string, 0, len(t.inline)),
	}
	for i := range p.Actions {
		p.Actions[i], p.Gotos[i] = 0, 0
	}
	t.actions.Each(func(i, j int, vals []int32) {
		entry := []interface{}{encodeTerminal(t.terminals[j])}
		for _, v := range vals {
			if v >= 0 {
				entry = append(entry, []interface{}{v})
				continue
			}
			r := t.reductions[-v-1]
			entry = append(entry, []interface{}{t.nonterminals[r.Head], r.Length, r.Rank})
		}
		if row, ok := p.Actions[i].([]interface{}); ok {
			p.Actions[i] = append(row, entry)
		} else {
			p.Actions[i] = []interface{}{entry}
		}
	})
	t.gotos.Each(func(i, j int, vals []int32) {
		entry := []interface{}{t.nonterminals[j], vals[0]}
		if row, ok := p.Gotos[i].([]interface{}); ok {
			p.Gotos[i] = append(row, entry)
		} else {
			p.Gotos[i] = []interface{}{entry}
		}
	})
	for j, term := range t.terminals {
		p.Terminals[j] = encodeTerminal(term)
	}
	p.Inlines = append(p.Inlines, t.Inlines()...)
	enc := json.NewEncoder(w)
	if err := enc.Encode(p); err != nil {
		return &CodecError{Msg: "cannot encode tables", Err: err}
	}
	return nil
}

// LoadTables reads parser tables in the form written by Save. Compilation of
// the grammar is skipped entirely.
func LoadTables(r io.Reader) (*Tables, error) {
	var p struct {
		Actions   []json.RawMessage `json:"actions"`
		Gotos     []json.RawMessage `json:"gotos"`
		Terminals []json.RawMessage `json:"terminals"`
		Inlines   []string          `json:"inlines"`
	}
	dec := json.NewDecoder(r)
	if err := dec.Decode(&p); err != nil {
		return nil, &CodecError{Msg: "malformed JSON", Err: err}
	}
	states := len(p.Actions)
	if len(p.Gotos) > states {
		states = len(p.Gotos)
	}
	terms := make([]Terminal, 0, len(p.Terminals)+1)
	terms = append(terms, End)
	for k, raw := range p.Terminals {
		term, err := decodeTerminal(raw)
		if err != nil {
			return nil, &CodecError{Msg: fmt.Sprintf("terminal #%d", k), Err: err}
		}
		terms = append(terms, term)
	}
	t := newTables(states, terms, nil, p.Inlines)
	for i, raw := range p.Actions {
		var entries [][]json.RawMessage
		if ok, err := decodeRow(raw, &entries); err != nil {
			return nil, &CodecError{Msg: fmt.Sprintf("actions of state %d", i), Err: err}
		} else if !ok {
			continue
		}
		for _, entry := range entries {
			if err := t.decodeActions(i, entry); err != nil {
				return nil, &CodecError{Msg: fmt.Sprintf("actions of state %d", i), Err: err}
			}
		}
	}
	for i, raw := range p.Gotos {
		var entries [][]json.RawMessage
		if ok, err := decodeRow(raw, &entries); err != nil {
			return nil, &CodecError{Msg: fmt.Sprintf("gotos of state %d", i), Err: err}
		} else if !ok {
			continue
		}
		for _, entry := range entries {
			if err := t.decodeGoto(i, entry); err != nil {
				return nil, &CodecError{Msg: fmt.Sprintf("gotos of state %d", i), Err: err}
			}
		}
	}
	t.finish()
	tracer().Infof("loaded parser tables with %d states", t.states)
	return t, nil
}

// decodeRow decodes the entries of a state. It returns false for empty
// states, encoded as 0 (or null).
func decodeRow(raw json.RawMessage, entries interface{}) (bool, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		var zero int
		if err := json.Unmarshal(raw, &zero); err == nil && zero == 0 {
			return false, nil
		}
		if string(raw) == "null" {
			return false, nil
		}
		return false, fmt.Errorf("expected list of entries or 0, have %s", raw)
	}
	return true, json.Unmarshal(raw, entries)
}

func decodeTerminal(raw json.RawMessage) (Terminal, error) {
	raw = bytes.TrimSpace(raw)
	if string(raw) == "null" {
		return End, nil
	}
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Terminal{}, err
		}
		if s == "" {
			return Terminal{}, fmt.Errorf("empty literal terminal")
		}
		return LiteralTerminal(s), nil
	}
	var pattern []string
	if err := json.Unmarshal(raw, &pattern); err != nil {
		return Terminal{}, err
	}
	if len(pattern) != 2 {
		return Terminal{}, fmt.Errorf("regular expression has to be [source, flags], have %s", raw)
	}
	t := PatternTerminal(pattern[0], pattern[1])
	return t, t.Validate()
}

// decodeActions decodes an entry [token, action, ...] for state i.
func (t *Tables) decodeActions(i int, entry []json.RawMessage) error {
	if len(entry) < 2 {
		return fmt.Errorf("entry without actions")
	}
	term, err := decodeTerminal(entry[0])
	if err != nil {
		return err
	}
	j := t.terminal(term)
	for _, raw := range entry[1:] {
		var action []json.RawMessage
		if err := json.Unmarshal(raw, &action); err != nil {
			return err
		}
		switch len(action) {
		case 1:
			var to int
			if err := json.Unmarshal(action[0], &to); err != nil {
				return err
			}
			if to < 0 {
				return fmt.Errorf("negative shift target %d", to)
			}
			t.growStates(to + 1)
			t.addShift(i, j, to)
		case 3:
			var head string
			var length, rank int
			if err := json.Unmarshal(action[0], &head); err != nil {
				return err
			}
			if err := json.Unmarshal(action[1], &length); err != nil {
				return err
			}
			if err := json.Unmarshal(action[2], &rank); err != nil {
				return err
			}
			if length < 0 || rank < 0 {
				return fmt.Errorf("negative length or rank in %s", raw)
			}
			red := reduction{Head: t.nonterminal(head), Length: length, Rank: rank}
			red.Accept = head == grammar.StartSymbol && term.IsEnd()
			t.addReduction(i, j, red)
		default:
			return fmt.Errorf("malformed action %s", raw)
		}
	}
	return nil
}

// decodeGoto decodes an entry [nonterminal, state] for state i.
func (t *Tables) decodeGoto(i int, entry []json.RawMessage) error {
	if len(entry) != 2 {
		return fmt.Errorf("malformed goto entry")
	}
	var nt string
	var to int
	if err := json.Unmarshal(entry[0], &nt); err != nil {
		return err
	}
	if err := json.Unmarshal(entry[1], &to); err != nil {
		return err
	}
	if to < 0 {
		return fmt.Errorf("negative goto target %d", to)
	}
	t.growStates(to + 1)
	t.setGoto(i, t.nonterminal(nt), to)
	return nil
}
