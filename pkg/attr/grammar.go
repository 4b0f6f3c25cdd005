// Package attr implements the attribute micro-language embedded in node
// names. A name such as "Crate=NoShadow=Col{4}" carries two attributes: the
// no-shadow flag and a collision layer of 4. Markers may appear anywhere in
// the name, in any order, and are matched as plain case-sensitive
// substrings.
package attr

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrGrammar is wrapped by every Grammar validation failure.
var ErrGrammar = errors.New("attr: invalid grammar")

// Grammar is the configurable surface syntax of the attribute language.
type Grammar struct {
	Indicator string          // precedes every keyword, e.g. "="
	Start     string          // opens a numeric literal, e.g. "{"
	End       string          // closes a numeric literal, e.g. "}"
	Keywords  map[Kind]string // keyword text per kind
}

// DefaultGrammar returns the naming convention used by the stock config.
func DefaultGrammar() Grammar {
	return Grammar{
		Indicator: "=",
		Start:     "{",
		End:       "}",
		Keywords: map[Kind]string{
			NoCollision:     "NoCol",
			ConvexCollision: "ConvexCol",
			CollisionLayer:  "Col",
			CollisionMask:   "ColMask",
			NoRender:        "NoRender",
			CollisionOnly:   "ColOnly",
			NoBake:          "NoBake",
			TexelScale:      "Texel",
			NoShadow:        "NoShadow",
			RenderLayer:     "Layer",
		},
	}
}

// Validate checks that every kind has a keyword and that no two kinds share
// one. Keywords that are prefixes of each other ("Col", "ColMask") are
// allowed; see Parse.
func (g Grammar) Validate() error {
	if g.Indicator == "" {
		return fmt.Errorf("%w: empty indicator", ErrGrammar)
	}
	if g.Start == "" || g.End == "" {
		return fmt.Errorf("%w: empty literal brackets", ErrGrammar)
	}
	seen := make(map[string]Kind, len(g.Keywords))
	for _, k := range Kinds() {
		kw := g.Keywords[k]
		if kw == "" {
			return fmt.Errorf("%w: no keyword for %s", ErrGrammar, k)
		}
		if other, dup := seen[kw]; dup {
			return fmt.Errorf("%w: keyword %q used by both %s and %s", ErrGrammar, kw, other, k)
		}
		seen[kw] = k
	}
	return nil
}

// marker returns indicator+keyword, or "" when the kind has no keyword.
func (g Grammar) marker(k Kind) string {
	kw := g.Keywords[k]
	if kw == "" {
		return ""
	}
	return g.Indicator + kw
}

// Has reports whether name carries the attribute. Value kinds are only
// present in their bracketed form; a literal that fails to parse still
// counts as present.
func (g Grammar) Has(name string, k Kind) bool {
	if k.HasValue() {
		_, ok := g.literal(name, k)
		return ok
	}
	m := g.marker(k)
	return m != "" && strings.Contains(name, m)
}

// Value returns the numeric value of a value kind. ok is false when the
// attribute is absent. A literal that does not parse yields k.Default().
func (g Grammar) Value(name string, k Kind) (v float64, ok bool) {
	if !k.HasValue() {
		return 0, false
	}
	lit, ok := g.literal(name, k)
	if !ok {
		return 0, false
	}
	return k.parse(lit), true
}

// literal returns the text between the brackets following the first
// occurrence of marker+Start.
func (g Grammar) literal(name string, k Kind) (string, bool) {
	m := g.marker(k)
	if m == "" || g.Start == "" || g.End == "" {
		return "", false
	}
	open := m + g.Start
	i := strings.Index(name, open)
	if i < 0 {
		return "", false
	}
	rest := name[i+len(open):]
	j := strings.Index(rest, g.End)
	if j < 0 {
		return "", false
	}
	return rest[:j], true
}

func (k Kind) parse(lit string) float64 {
	switch k.valueType() {
	case valueUint:
		n, err := strconv.ParseUint(lit, 10, 32)
		if err != nil {
			return k.Default()
		}
		return float64(n)
	case valueFloat:
		f, err := strconv.ParseFloat(lit, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
			return k.Default()
		}
		return f
	default:
		return 0
	}
}

// Parse tokenizes every recognized attribute in name. Each kind is tested
// independently against the unmodified string, so a keyword that prefixes
// another is not shadowed by it, and a kind that appears more than once
// keeps its first occurrence.
func (g Grammar) Parse(name string) Set {
	s := Set{}
	for _, k := range Kinds() {
		if !g.Has(name, k) {
			continue
		}
		tok := Token{Kind: k}
		if v, ok := g.Value(name, k); ok {
			tok.Value = v
			tok.HasValue = true
		}
		if s.tokens == nil {
			s.tokens = make(map[Kind]Token)
		}
		s.tokens[k] = tok
	}
	return s
}
