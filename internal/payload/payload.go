// Package payload provides tolerant access to the loosely-typed JSON trees
// returned by the weather API. Every accessor walks a dotted path and reports
// absence instead of panicking when an intermediate key is missing, null, or
// the wrong shape.
package payload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Object is a parsed JSON object.
type Object map[string]interface{}

// Parse decodes raw JSON bytes into an Object. Numbers are kept as
// json.Number so integer fields survive round-trips without float drift.
func Parse(raw []byte) (Object, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var obj Object
	if err := dec.Decode(&obj); err != nil {
		return nil, fmt.Errorf("parse payload: %w", err)
	}
	return obj, nil
}

// Get returns the value at the dotted path ("wind.speed.value") or nil if any
// step is missing, null, or not an object.
func (o Object) Get(path string) interface{} {
	var cur interface{} = map[string]interface{}(o)
	for _, key := range strings.Split(path, ".") {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil
		}
		cur, ok = m[key]
		if !ok || cur == nil {
			return nil
		}
	}
	return cur
}

// Has reports whether the path resolves to a non-null value.
func (o Object) Has(path string) bool {
	return o.Get(path) != nil
}

// String returns the string at path.
func (o Object) String(path string) (string, bool) {
	s, ok := o.Get(path).(string)
	return s, ok
}

// Float returns the number at path. Accepts json.Number and float64 so
// objects built in tests work the same as decoded ones.
func (o Object) Float(path string) (float64, bool) {
	switch v := o.Get(path).(type) {
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

// Int returns the number at path truncated to an int.
func (o Object) Int(path string) (int, bool) {
	f, ok := o.Float(path)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// Bool returns the boolean at path.
func (o Object) Bool(path string) (bool, bool) {
	b, ok := o.Get(path).(bool)
	return b, ok
}

// Object returns the nested object at path.
func (o Object) Object(path string) (Object, bool) {
	m, ok := o.Get(path).(map[string]interface{})
	if !ok {
		return nil, false
	}
	return Object(m), true
}

// List returns the array at path with object elements converted to Object.
// Non-object elements are skipped.
func (o Object) List(path string) ([]Object, bool) {
	raw, ok := o.Get(path).([]interface{})
	if !ok {
		return nil, false
	}
	out := make([]Object, 0, len(raw))
	for _, el := range raw {
		if m, ok := el.(map[string]interface{}); ok {
			out = append(out, Object(m))
		}
	}
	return out, true
}
