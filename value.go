package ohscrap

import (
	"bytes"
	"encoding/json"
)

// Kind identifies the shape of a Value.
type Kind int

const (
	KindAbsent Kind = iota
	KindString
	KindList
	KindObject
)

// Entry is a keyed member of an object Value.
type Entry struct {
	Key   string
	Value Value
}

// Value is the result of evaluating a selector: absent, a string, an
// ordered list or an object whose keys keep the selector's order.
// The zero Value is absent.
type Value struct {
	kind    Kind
	str     string
	items   []Value
	entries []Entry
}

// Absent returns the absent value.
func Absent() Value { return Value{} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// List returns a list value holding items in order.
func List(items ...Value) Value { return Value{kind: KindList, items: items} }

// Strings returns a list of string values.
func Strings(ss ...string) Value {
	items := make([]Value, len(ss))
	for i, s := range ss {
		items[i] = String(s)
	}
	return List(items...)
}

// Object returns an object value with entries in the given order.
func Object(entries ...Entry) Value { return Value{kind: KindObject, entries: entries} }

// Kind returns the shape of the value.
func (v Value) Kind() Kind { return v.kind }

// IsAbsent reports whether the value is absent.
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// Str returns the string of a string value and "" otherwise.
func (v Value) Str() string { return v.str }

// Items returns the members of a list value.
func (v Value) Items() []Value { return v.items }

// Entries returns the entries of an object value in order.
func (v Value) Entries() []Entry { return v.entries }

// Get returns the value stored under key in an object value.
func (v Value) Get(key string) (Value, bool) {
	for _, e := range v.entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return Absent(), false
}

// Keys returns the keys of an object value in order.
func (v Value) Keys() []string {
	keys := make([]string, len(v.entries))
	for i, e := range v.entries {
		keys[i] = e.Key
	}
	return keys
}

// Strings returns the members of a list value when every member is a
// string.
func (v Value) Strings() ([]string, bool) {
	if v.kind != KindList {
		return nil, false
	}
	ss := make([]string, len(v.items))
	for i, item := range v.items {
		if item.kind != KindString {
			return nil, false
		}
		ss[i] = item.str
	}
	return ss, true
}

// Interface converts the value to plain Go values: nil, string, []any or
// map[string]any. Object key order is lost.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindList:
		out := make([]any, len(v.items))
		for i, item := range v.items {
			out[i] = item.Interface()
		}
		return out
	case KindObject:
		out := make(map[string]any, len(v.entries))
		for _, e := range v.entries {
			out[e.Key] = e.Value.Interface()
		}
		return out
	default:
		return nil
	}
}

// MarshalJSON encodes the value keeping object key order. Absent encodes
// as null.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) encode(buf *bytes.Buffer) error {
	switch v.kind {
	case KindString:
		b, err := json.Marshal(v.str)
		if err != nil {
			return err
		}
		buf.Write(b)
	case KindList:
		buf.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		for i, e := range v.entries {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(e.Key)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := e.Value.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		buf.WriteString("null")
	}
	return nil
}
