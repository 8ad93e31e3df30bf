// Package schema validates JSON request bodies field by field and reports
// every problem as an Issue, so clients get the complete list at once.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Issue codes.
const (
	CodeInvalidType = "invalid_type"
	CodeTooSmall    = "too_small"
	CodeTooBig      = "too_big"
	CodeInvalid     = "invalid"
)

// Amounts are stored as NUMERIC(20, 7).
const (
	AmountScale         = 7
	AmountIntegerDigits = 13
)

// Issue describes one validation failure. Path addresses the offending
// value from the body root; elements are field names.
type Issue struct {
	Code    string   `json:"code"`
	Path    []string `json:"path"`
	Message string   `json:"message"`
}

// Result is either a validated Value or a non-empty list of Issues.
type Result[T any] struct {
	Value  T
	Issues []Issue
}

// OK reports whether validation passed.
func (r Result[T]) OK() bool { return len(r.Issues) == 0 }

func result[T any](v T, o *Object) Result[T] {
	if len(*o.issues) > 0 {
		return Result[T]{Issues: *o.issues}
	}
	return Result[T]{Value: v}
}

// Object reads typed fields out of a JSON object, collecting issues.
type Object struct {
	fields map[string]json.RawMessage
	path   []string
	issues *[]Issue
}

// Parse decodes body as a JSON object. A body that is not an object yields
// an Object whose field reads all fail with an issue at the root.
func Parse(body []byte) *Object {
	o := &Object{fields: map[string]json.RawMessage{}, issues: &[]Issue{}}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' || json.Unmarshal(trimmed, &o.fields) != nil {
		o.add(nil, CodeInvalidType, fmt.Sprintf("Expected object, received %s", kind(trimmed)))
		o.fields = nil
	}
	return o
}

// Issues returns everything collected so far, including nested objects.
func (o *Object) Issues() []Issue { return *o.issues }

func (o *Object) add(path []string, code, msg string) {
	p := make([]string, 0, len(o.path)+len(path))
	p = append(p, o.path...)
	p = append(p, path...)
	*o.issues = append(*o.issues, Issue{Code: code, Path: p, Message: msg})
}

// raw returns the field's bytes; present is false for missing or null.
func (o *Object) raw(name string) (json.RawMessage, bool) {
	if o.fields == nil {
		return nil, false
	}
	v, ok := o.fields[name]
	if !ok || string(v) == "null" {
		return nil, false
	}
	return v, true
}

func (o *Object) required(name string) (json.RawMessage, bool) {
	if o.fields == nil {
		return nil, false
	}
	v, ok := o.raw(name)
	if !ok {
		o.add([]string{name}, CodeInvalidType, "Required")
	}
	return v, ok
}

func (o *Object) wrongType(name, want string, v json.RawMessage) {
	o.add([]string{name}, CodeInvalidType, fmt.Sprintf("Expected %s, received %s", want, kind(v)))
}

// kind names the JSON type of v the way error messages spell it.
func kind(v []byte) string {
	if len(v) == 0 {
		return "undefined"
	}
	switch c := v[0]; {
	case c == '"':
		return "string"
	case c == '{':
		return "object"
	case c == '[':
		return "array"
	case c == 't' || c == 'f':
		return "boolean"
	case c == 'n':
		return "null"
	case c == '-' || (c >= '0' && c <= '9'):
		return "number"
	}
	return "unknown"
}

func (o *Object) decodeString(name string, v json.RawMessage, minLen int) string {
	var s string
	if json.Unmarshal(v, &s) != nil {
		o.wrongType(name, "string", v)
		return ""
	}
	if len([]rune(s)) < minLen {
		o.add([]string{name}, CodeTooSmall, fmt.Sprintf("String must contain at least %d character(s)", minLen))
	}
	return s
}

// String reads a required string of at least minLen characters.
func (o *Object) String(name string, minLen int) string {
	v, ok := o.required(name)
	if !ok {
		return ""
	}
	return o.decodeString(name, v, minLen)
}

// OptionalString reads a string that may be missing or null.
func (o *Object) OptionalString(name string) *string {
	v, ok := o.raw(name)
	if !ok {
		return nil
	}
	s := o.decodeString(name, v, 0)
	return &s
}

func (o *Object) decodeNumber(name string, v json.RawMessage) (float64, bool) {
	var f float64
	if kind(v) != "number" || json.Unmarshal(v, &f) != nil {
		o.wrongType(name, "number", v)
		return 0, false
	}
	return f, true
}

// Number reads a required finite number.
func (o *Object) Number(name string) float64 {
	v, ok := o.required(name)
	if !ok {
		return 0
	}
	f, _ := o.decodeNumber(name, v)
	return f
}

// OptionalNumber reads a number that may be missing or null.
func (o *Object) OptionalNumber(name string) *float64 {
	v, ok := o.raw(name)
	if !ok {
		return nil
	}
	f, ok := o.decodeNumber(name, v)
	if !ok {
		return nil
	}
	return &f
}

func (o *Object) decodeInt(name string, v json.RawMessage) int64 {
	f, ok := o.decodeNumber(name, v)
	if !ok {
		return 0
	}
	if f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		o.add([]string{name}, CodeInvalidType, "Expected integer, received float")
		return 0
	}
	return int64(f)
}

// Int reads a required integral number.
func (o *Object) Int(name string) int64 {
	v, ok := o.required(name)
	if !ok {
		return 0
	}
	return o.decodeInt(name, v)
}

// OptionalInt reads an integer that may be missing or null.
func (o *Object) OptionalInt(name string) *int64 {
	v, ok := o.raw(name)
	if !ok {
		return nil
	}
	n := o.decodeInt(name, v)
	return &n
}

// PositiveDecimal reads a required number greater than zero. It must fit
// NUMERIC(20, 7): at most AmountIntegerDigits digits before the point and
// AmountScale after it, trailing zeros aside.
func (o *Object) PositiveDecimal(name string) decimal.Decimal {
	v, ok := o.required(name)
	if !ok {
		return decimal.Zero
	}
	if kind(v) != "number" {
		o.wrongType(name, "number", v)
		return decimal.Zero
	}
	d, err := decimal.NewFromString(strings.TrimSpace(string(v)))
	if err != nil {
		o.wrongType(name, "number", v)
		return decimal.Zero
	}
	if !d.IsPositive() {
		o.add([]string{name}, CodeTooSmall, "Number must be greater than 0")
		return d
	}
	digits, exp := significand(d)
	switch {
	case int64(digits)+exp > AmountIntegerDigits:
		o.add([]string{name}, CodeTooBig, fmt.Sprintf("Number must have at most %d integer digits", AmountIntegerDigits))
		return decimal.Zero
	case exp < -AmountScale:
		o.add([]string{name}, CodeInvalid, fmt.Sprintf("Number must have at most %d decimal places", AmountScale))
		return decimal.Zero
	}
	return d
}

// significand returns the digit count of d's coefficient without trailing
// zeros and the exponent that goes with it. It never rescales d, so a huge
// exponent costs nothing.
func significand(d decimal.Decimal) (int, int64) {
	coef := d.Coefficient().String()
	coef = strings.TrimPrefix(coef, "-")
	trimmed := strings.TrimRight(coef, "0")
	return len(trimmed), int64(d.Exponent()) + int64(len(coef)-len(trimmed))
}

// Bool reads a required boolean.
func (o *Object) Bool(name string) bool {
	v, ok := o.required(name)
	if !ok {
		return false
	}
	var b bool
	if json.Unmarshal(v, &b) != nil {
		o.wrongType(name, "boolean", v)
	}
	return b
}

// Object reads a required nested object. Issues found inside it carry the
// nested path.
func (o *Object) Object(name string) *Object {
	child := &Object{path: append(append([]string{}, o.path...), name), issues: o.issues}
	v, ok := o.required(name)
	if !ok {
		return child
	}
	if kind(v) != "object" || json.Unmarshal(v, &child.fields) != nil {
		o.wrongType(name, "object", v)
		child.fields = nil
	}
	return child
}
