package stringql

import (
	"fmt"
	"reflect"
	"sort"
)

// Field is one named value of a Record.
type Field struct {
	Name  string
	Value any
}

// Record is an ordered mapping payload. Unlike plain maps, which expand in
// sorted key order, a Record expands its fields in the order they were
// written. Duplicate names keep the first occurrence.
type Record []Field

// Get returns the value of the named field.
func (r Record) Get(name string) (any, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

type payloadKind int

const (
	payloadNone payloadKind = iota
	payloadScalar
	payloadSequence
	payloadMapping
)

// payload is the normalized form of a data argument. Sequences carry their
// members in seq; mappings carry expansion order in keys and lookup in vals.
type payload struct {
	kind payloadKind
	seq  []any
	keys []string
	vals map[string]any
}

// normalizePayload classifies a data argument.
//
// nil (including nil maps and slices) is absent. Slices and arrays are
// sequences, except []byte which counts as a scalar. Records and maps with
// string keys are mappings; map keys are sorted so that expansion is
// deterministic. Anything else is a scalar, which the caller may reject or
// ignore. Maps with non-string keys cannot name fields and are an error.
func normalizePayload(data any) (payload, error) {
	if data == nil {
		return payload{kind: payloadNone}, nil
	}
	switch d := data.(type) {
	case Record:
		if d == nil {
			return payload{kind: payloadNone}, nil
		}
		return recordPayload(d), nil
	case map[string]any:
		if d == nil {
			return payload{kind: payloadNone}, nil
		}
		return mapPayload(reflect.ValueOf(d)), nil
	case []byte:
		return payload{kind: payloadScalar}, nil
	}
	rv := reflect.ValueOf(data)
	switch rv.Kind() {
	case reflect.Slice:
		if rv.IsNil() {
			return payload{kind: payloadNone}, nil
		}
		return sequencePayload(rv), nil
	case reflect.Array:
		return sequencePayload(rv), nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return payload{}, fmt.Errorf("map payload needs string keys, got %s: %w", rv.Type().Key(), ErrWrongDataArgumentType)
		}
		if rv.IsNil() {
			return payload{kind: payloadNone}, nil
		}
		return mapPayload(rv), nil
	}
	return payload{kind: payloadScalar}, nil
}

func sequencePayload(rv reflect.Value) payload {
	seq := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		seq[i] = rv.Index(i).Interface()
	}
	return payload{kind: payloadSequence, seq: seq}
}

func mapPayload(rv reflect.Value) payload {
	keys := make([]string, 0, rv.Len())
	vals := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		name := iter.Key().String()
		keys = append(keys, name)
		vals[name] = iter.Value().Interface()
	}
	sort.Strings(keys)
	return payload{kind: payloadMapping, keys: keys, vals: vals}
}

func recordPayload(r Record) payload {
	keys := make([]string, 0, len(r))
	vals := make(map[string]any, len(r))
	for _, f := range r {
		if _, seen := vals[f.Name]; seen {
			continue
		}
		keys = append(keys, f.Name)
		vals[f.Name] = f.Value
	}
	return payload{kind: payloadMapping, keys: keys, vals: vals}
}

// names returns the mapping keys in expansion order, minus the dropped ones.
func (p payload) names(drop []string) []string {
	if len(drop) == 0 {
		return p.keys
	}
	dropped := make(map[string]struct{}, len(drop))
	for _, d := range drop {
		dropped[d] = struct{}{}
	}
	names := make([]string, 0, len(p.keys))
	for _, k := range p.keys {
		if _, skip := dropped[k]; skip {
			continue
		}
		names = append(names, k)
	}
	return names
}
