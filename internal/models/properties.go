package models

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// PropertyKind discriminates the payload of a PropertyValue.
type PropertyKind int

const (
	PropertyNumber PropertyKind = iota
	PropertyString
	PropertyBool
)

// PropertyValue is one typed value in a property bag. The zero value is the
// number 0.
type PropertyValue struct {
	kind PropertyKind
	num  float64
	str  string
	flag bool
}

// NumberValue wraps a float64. NaN is legal; quotes and greeks use NaN for
// unknown.
func NumberValue(v float64) PropertyValue {
	return PropertyValue{kind: PropertyNumber, num: v}
}

// StringValue wraps a string.
func StringValue(s string) PropertyValue {
	return PropertyValue{kind: PropertyString, str: s}
}

// BoolValue wraps a bool.
func BoolValue(b bool) PropertyValue {
	return PropertyValue{kind: PropertyBool, flag: b}
}

// Kind returns which of the three kinds this value holds.
func (v PropertyValue) Kind() PropertyKind {
	return v.kind
}

// Number returns the numeric payload; ok is false for other kinds.
func (v PropertyValue) Number() (float64, bool) {
	return v.num, v.kind == PropertyNumber
}

// Str returns the string payload; ok is false for other kinds.
func (v PropertyValue) Str() (string, bool) {
	return v.str, v.kind == PropertyString
}

// Bool returns the bool payload; ok is false for other kinds.
func (v PropertyValue) Bool() (bool, bool) {
	return v.flag, v.kind == PropertyBool
}

// String renders the payload. Numbers use 5 significant digits.
func (v PropertyValue) String() string {
	switch v.kind {
	case PropertyString:
		return v.str
	case PropertyBool:
		return strconv.FormatBool(v.flag)
	default:
		return fmt.Sprintf("%.5g", v.num)
	}
}

// Properties is a bag of named values attached to contracts, prices, orders
// and trades, e.g. the quote captured at execution time.
type Properties map[string]PropertyValue

// String renders "name: value" clauses in name order, space separated, so
// summaries are stable across runs.
func (p Properties) String() string {
	if len(p) == 0 {
		return ""
	}
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(p[name].String())
	}
	return b.String()
}

// Clone returns an independent copy. Cloning nil returns nil.
func (p Properties) Clone() Properties {
	if p == nil {
		return nil
	}
	out := make(Properties, len(p))
	for name, v := range p {
		out[name] = v
	}
	return out
}
