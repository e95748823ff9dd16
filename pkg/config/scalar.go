package config

import (
	"strconv"
	"strings"
)

// BoolValue is a boolean configuration slot. Its default is false.
type BoolValue struct {
	value  bool
	parsed bool
	frozen bool
}

// NewBool creates a boolean slot at its default.
func NewBool() *BoolValue { return &BoolValue{} }

// Kind implements Value.
func (b *BoolValue) Kind() Kind { return KindBool }

// IsParsed implements Value.
func (b *BoolValue) IsParsed() bool { return b.parsed }

// Bool returns the current value.
func (b *BoolValue) Bool() bool { return b.value }

// Reset implements Value.
func (b *BoolValue) Reset() {
	assertMutable(b.frozen)
	b.value = false
	b.parsed = false
}

// ParseFromValue implements Value.
func (b *BoolValue) ParseFromValue(other Value) error {
	assertMutable(b.frozen)
	from, ok := other.(*BoolValue)
	if !ok {
		return ErrKindMismatch
	}
	b.value = from.value
	b.parsed = true
	return nil
}

// ParseFromAttribute implements Value. Truthy tokens are matched
// case-insensitively; anything unrecognized falls back to false.
func (b *BoolValue) ParseFromAttribute(text string) {
	assertMutable(b.frozen)
	b.value = toBool(text)
	b.parsed = true
}

// ParseFromNode implements Value.
func (b *BoolValue) ParseFromNode(el *Element) {
	assertMutable(b.frozen)
	b.value = toBool(el.Text)
	b.parsed = true
}

// Format implements Value.
func (b *BoolValue) Format(indent int, newline bool) string {
	if b.value {
		return terminate("true", newline)
	}
	return terminate("false", newline)
}

// CloneEmpty implements Value.
func (b *BoolValue) CloneEmpty() Value { return NewBool() }

func (b *BoolValue) freeze() { b.frozen = true }

func toBool(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "true", "yes", "on", "1":
		return true
	default:
		return false
	}
}

// IntValue is an integer configuration slot. Its default is 0.
type IntValue struct {
	value  int
	parsed bool
	frozen bool
}

// NewInt creates an integer slot at its default.
func NewInt() *IntValue { return &IntValue{} }

// Kind implements Value.
func (i *IntValue) Kind() Kind { return KindInt }

// IsParsed implements Value.
func (i *IntValue) IsParsed() bool { return i.parsed }

// Int returns the current value.
func (i *IntValue) Int() int { return i.value }

// Reset implements Value.
func (i *IntValue) Reset() {
	assertMutable(i.frozen)
	i.value = 0
	i.parsed = false
}

// ParseFromValue implements Value.
func (i *IntValue) ParseFromValue(other Value) error {
	assertMutable(i.frozen)
	from, ok := other.(*IntValue)
	if !ok {
		return ErrKindMismatch
	}
	i.value = from.value
	i.parsed = true
	return nil
}

// ParseFromAttribute implements Value. Text is parsed base-10; unparseable
// text falls back to 0.
func (i *IntValue) ParseFromAttribute(text string) {
	assertMutable(i.frozen)
	i.value = toInt(text)
	i.parsed = true
}

// ParseFromNode implements Value.
func (i *IntValue) ParseFromNode(el *Element) {
	assertMutable(i.frozen)
	i.value = toInt(el.Text)
	i.parsed = true
}

// Format implements Value.
func (i *IntValue) Format(indent int, newline bool) string {
	return terminate(strconv.Itoa(i.value), newline)
}

// CloneEmpty implements Value.
func (i *IntValue) CloneEmpty() Value { return NewInt() }

func (i *IntValue) freeze() { i.frozen = true }

func toInt(text string) int {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0
	}
	return n
}

// FloatValue is a floating point configuration slot. Its default is 0.
type FloatValue struct {
	value  float64
	parsed bool
	frozen bool
}

// NewFloat creates a float slot at its default.
func NewFloat() *FloatValue { return &FloatValue{} }

// Kind implements Value.
func (f *FloatValue) Kind() Kind { return KindFloat }

// IsParsed implements Value.
func (f *FloatValue) IsParsed() bool { return f.parsed }

// Float returns the current value.
func (f *FloatValue) Float() float64 { return f.value }

// Reset implements Value.
func (f *FloatValue) Reset() {
	assertMutable(f.frozen)
	f.value = 0
	f.parsed = false
}

// ParseFromValue implements Value.
func (f *FloatValue) ParseFromValue(other Value) error {
	assertMutable(f.frozen)
	from, ok := other.(*FloatValue)
	if !ok {
		return ErrKindMismatch
	}
	f.value = from.value
	f.parsed = true
	return nil
}

// ParseFromAttribute implements Value. Unparseable text falls back to 0.
func (f *FloatValue) ParseFromAttribute(text string) {
	assertMutable(f.frozen)
	f.value = toFloat(text)
	f.parsed = true
}

// ParseFromNode implements Value.
func (f *FloatValue) ParseFromNode(el *Element) {
	assertMutable(f.frozen)
	f.value = toFloat(el.Text)
	f.parsed = true
}

// Format implements Value.
func (f *FloatValue) Format(indent int, newline bool) string {
	return terminate(strconv.FormatFloat(f.value, 'f', -1, 64), newline)
}

// CloneEmpty implements Value.
func (f *FloatValue) CloneEmpty() Value { return NewFloat() }

func (f *FloatValue) freeze() { f.frozen = true }

func toFloat(text string) float64 {
	n, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0
	}
	return n
}

// StringValue is a string configuration slot. Its default is the empty
// string.
type StringValue struct {
	value  string
	parsed bool
	frozen bool
}

// NewString creates a string slot at its default.
func NewString() *StringValue { return &StringValue{} }

// Kind implements Value.
func (s *StringValue) Kind() Kind { return KindString }

// IsParsed implements Value.
func (s *StringValue) IsParsed() bool { return s.parsed }

// Str returns the current value.
func (s *StringValue) Str() string { return s.value }

// Reset implements Value.
func (s *StringValue) Reset() {
	assertMutable(s.frozen)
	s.value = ""
	s.parsed = false
}

// ParseFromValue implements Value.
func (s *StringValue) ParseFromValue(other Value) error {
	assertMutable(s.frozen)
	from, ok := other.(*StringValue)
	if !ok {
		return ErrKindMismatch
	}
	s.value = from.value
	s.parsed = true
	return nil
}

// ParseFromAttribute implements Value. Surrounding whitespace is trimmed so
// attribute-supplied and element-supplied text store identically.
func (s *StringValue) ParseFromAttribute(text string) {
	assertMutable(s.frozen)
	s.value = strings.TrimSpace(text)
	s.parsed = true
}

// ParseFromNode implements Value.
func (s *StringValue) ParseFromNode(el *Element) {
	assertMutable(s.frozen)
	s.value = strings.TrimSpace(el.Text)
	s.parsed = true
}

// Format implements Value.
func (s *StringValue) Format(indent int, newline bool) string {
	return terminate(s.value, newline)
}

// CloneEmpty implements Value.
func (s *StringValue) CloneEmpty() Value { return NewString() }

func (s *StringValue) freeze() { s.frozen = true }
