package models

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

type ValueKind int

const (
	Scalar     ValueKind = iota // string, number, bool, null
	Structured                  // object or array
)

// Value is a JSON value classified once when it is decoded.
type Value struct {
	Kind    ValueKind
	Text    string // display form: the string itself for scalars, indented JSON otherwise
	Raw     string
	IsArray bool
	Len     int // element count of a structured value
}

// Field is one entry of an object or array, in document order.
type Field struct {
	Key   string
	Value Value
}

var prettyOpts = &pretty.Options{Indent: "  "}

// ValueOf classifies a decoded JSON result.
func ValueOf(r gjson.Result) Value {
	switch {
	case r.IsObject() || r.IsArray():
		n := 0
		r.ForEach(func(_, _ gjson.Result) bool {
			n++
			return true
		})
		return Value{
			Kind:    Structured,
			Text:    indent(r.Raw),
			Raw:     r.Raw,
			IsArray: r.IsArray(),
			Len:     n,
		}
	case r.Type == gjson.String:
		return Value{Kind: Scalar, Text: r.Str, Raw: r.Raw}
	case r.Type == gjson.Null:
		return Value{Kind: Scalar, Text: "null", Raw: "null"}
	default:
		return Value{Kind: Scalar, Text: r.Raw, Raw: r.Raw}
	}
}

// TextValue wraps a plain string.
func TextValue(s string) Value {
	return Value{Kind: Scalar, Text: s, Raw: strconv.Quote(s)}
}

// ParseStructured parses s as JSON and reports whether it holds an object or
// an array. Anything else, including valid JSON scalars, is left to the
// caller as plain text.
func ParseStructured(s string) (Value, bool) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || !gjson.Valid(trimmed) {
		return Value{}, false
	}
	r := gjson.Parse(trimmed)
	if !r.IsObject() && !r.IsArray() {
		return Value{}, false
	}
	return ValueOf(r), true
}

// Fields lists the entries of a structured value. Array entries are keyed
// by their index.
func (v Value) Fields() []Field {
	if v.Kind != Structured {
		return nil
	}
	fields := make([]Field, 0, v.Len)
	i := 0
	gjson.Parse(v.Raw).ForEach(func(key, val gjson.Result) bool {
		k := key.String()
		if v.IsArray {
			k = strconv.Itoa(i)
		}
		fields = append(fields, Field{Key: k, Value: ValueOf(val)})
		i++
		return true
	})
	return fields
}

func indent(raw string) string {
	return strings.TrimRight(string(pretty.PrettyOptions([]byte(raw), prettyOpts)), "\n")
}
