package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// SourceRecord is one JSON object from the upstream array. Keys are never
// assumed to be present; every accessor returns a zero value plus ok=false
// when the key is missing or holds an unusable type.
type SourceRecord map[string]any

// Value returns the raw decoded value stored under key.
func (r SourceRecord) Value(key string) (any, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// String returns the value under key in string form. Strings are returned
// as-is; numbers and booleans are formatted; objects and arrays are
// rendered as compact JSON.
func (r SourceRecord) String(key string) (string, bool) {
	v, ok := r.Value(key)
	if !ok {
		return "", false
	}
	return Stringify(v), true
}

// Text returns the value under key only if it is a JSON string.
func (r SourceRecord) Text(key string) (string, bool) {
	v, ok := r.Value(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// List returns the value under key if it is a JSON array.
func (r SourceRecord) List(key string) ([]any, bool) {
	v, ok := r.Value(key)
	if !ok {
		return nil, false
	}
	l, ok := v.([]any)
	return l, ok
}

// Stringify renders a decoded JSON value as text.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case map[string]any, []any:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	default:
		return fmt.Sprint(t)
	}
}

// RecordsFromArray converts a decoded JSON array into records. Elements
// that are not objects become empty records so that every element still
// yields exactly one feed item.
func RecordsFromArray(raw []any) []SourceRecord {
	records := make([]SourceRecord, 0, len(raw))
	for _, v := range raw {
		obj, ok := v.(map[string]any)
		if !ok {
			obj = map[string]any{}
		}
		records = append(records, SourceRecord(obj))
	}
	return records
}
