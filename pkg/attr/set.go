package attr

import (
	"strconv"
	"strings"
)

// Token is a single parsed attribute.
type Token struct {
	Kind     Kind
	Value    float64 // parsed literal, or the kind default
	HasValue bool
}

func (t Token) String() string {
	if !t.HasValue {
		return t.Kind.String()
	}
	return t.Kind.String() + "=" + strconv.FormatFloat(t.Value, 'g', -1, 64)
}

// Set is the result of parsing one node name. The zero value is empty.
type Set struct {
	tokens map[Kind]Token
}

// Has reports whether k was present.
func (s Set) Has(k Kind) bool {
	_, ok := s.tokens[k]
	return ok
}

// Any reports whether at least one of kinds was present.
func (s Set) Any(kinds ...Kind) bool {
	for _, k := range kinds {
		if s.Has(k) {
			return true
		}
	}
	return false
}

// Uint returns the value of an integer kind.
func (s Set) Uint(k Kind) (uint32, bool) {
	t, ok := s.tokens[k]
	if !ok || !t.HasValue {
		return 0, false
	}
	return uint32(t.Value), true
}

// Float returns the value of a value kind.
func (s Set) Float(k Kind) (float64, bool) {
	t, ok := s.tokens[k]
	if !ok || !t.HasValue {
		return 0, false
	}
	return t.Value, true
}

// Len returns the number of attributes present.
func (s Set) Len() int {
	return len(s.tokens)
}

// Tokens returns the present attributes in Kind order.
func (s Set) Tokens() []Token {
	out := make([]Token, 0, len(s.tokens))
	for _, k := range Kinds() {
		if t, ok := s.tokens[k]; ok {
			out = append(out, t)
		}
	}
	return out
}

func (s Set) String() string {
	toks := s.Tokens()
	parts := make([]string, len(toks))
	for i, t := range toks {
		parts[i] = t.String()
	}
	return strings.Join(parts, " ")
}
