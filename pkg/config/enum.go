package config

import "strings"

// EnumValue is a string slot restricted to a declared token set. The first
// declared token is the kind's default. Token matching is case-insensitive;
// the canonical casing of the declared token is what gets stored and
// rendered. Unrecognized text falls back to the default token.
type EnumValue struct {
	tokens []string
	index  int
	parsed bool
	frozen bool
}

// NewEnum creates an enum slot over the given tokens. At least one token
// must be declared; the first is the default.
func NewEnum(tokens ...string) *EnumValue {
	if len(tokens) == 0 {
		panic("config: enum requires at least one token")
	}
	return &EnumValue{tokens: tokens}
}

// Kind implements Value.
func (e *EnumValue) Kind() Kind { return KindEnum }

// IsParsed implements Value.
func (e *EnumValue) IsParsed() bool { return e.parsed }

// Token returns the current token in its declared casing.
func (e *EnumValue) Token() string { return e.tokens[e.index] }

// Tokens returns the declared token set.
func (e *EnumValue) Tokens() []string {
	out := make([]string, len(e.tokens))
	copy(out, e.tokens)
	return out
}

// Is reports whether the current token equals the given one,
// case-insensitively.
func (e *EnumValue) Is(token string) bool {
	return strings.EqualFold(e.Token(), token)
}

// Reset implements Value.
func (e *EnumValue) Reset() {
	assertMutable(e.frozen)
	e.index = 0
	e.parsed = false
}

// ParseFromValue implements Value. Two enums only share a kind when their
// declared token sets are identical; copying between enums over different
// sets is a kind mismatch.
func (e *EnumValue) ParseFromValue(other Value) error {
	assertMutable(e.frozen)
	from, ok := other.(*EnumValue)
	if !ok || !sameTokens(e.tokens, from.tokens) {
		return ErrKindMismatch
	}
	e.index = from.index
	e.parsed = true
	return nil
}

// ParseFromAttribute implements Value.
func (e *EnumValue) ParseFromAttribute(text string) {
	assertMutable(e.frozen)
	e.index = e.match(text)
	e.parsed = true
}

// ParseFromNode implements Value.
func (e *EnumValue) ParseFromNode(el *Element) {
	assertMutable(e.frozen)
	e.index = e.match(el.Text)
	e.parsed = true
}

// Format implements Value.
func (e *EnumValue) Format(indent int, newline bool) string {
	return terminate(e.Token(), newline)
}

// CloneEmpty implements Value.
func (e *EnumValue) CloneEmpty() Value { return NewEnum(e.tokens...) }

func (e *EnumValue) freeze() { e.frozen = true }

func (e *EnumValue) match(text string) int {
	text = strings.TrimSpace(text)
	for i, token := range e.tokens {
		if strings.EqualFold(token, text) {
			return i
		}
	}
	return 0
}

func sameTokens(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
