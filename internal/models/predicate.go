package models

import (
	"fmt"
	"strings"
)

// DefaultResultSize bounds engine responses when callers do not ask for less.
const DefaultResultSize = 2500

// Direction selects which endpoint role a vertex plays on an edge.
type Direction string

// Traversal directions.
const (
	DirectionOut  Direction = "out"
	DirectionIn   Direction = "in"
	DirectionBoth Direction = "both"
)

// ParseDirection accepts out, in or both (case-insensitive). Empty means both.
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case DirectionOut:
		return DirectionOut, nil
	case DirectionIn:
		return DirectionIn, nil
	case DirectionBoth, "":
		return DirectionBoth, nil
	default:
		return "", fmt.Errorf("invalid direction %q (want out, in or both)", s)
	}
}

// KeyValue is a required property key with a required value.
type KeyValue struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// PredicateSet describes a graph-style filter. Empty fields are inactive.
// Active fields combine conjunctively; Labels is a membership set.
type PredicateSet struct {
	Label     string     `json:"label,omitempty"`
	Labels    []string   `json:"labels,omitempty"`
	Key       string     `json:"key,omitempty"`
	KeyNot    string     `json:"key_not,omitempty"`
	Keys      []string   `json:"keys,omitempty"`
	Values    []string   `json:"values,omitempty"`
	KeyValues []KeyValue `json:"key_values,omitempty"`

	// PartialValue is a substring match on any property value. It is never reconciled.
	PartialValue string `json:"partial_value,omitempty"`
}

// IsEmpty reports whether no predicate is active.
func (p PredicateSet) IsEmpty() bool {
	return p.Label == "" && len(p.Labels) == 0 && p.Key == "" && p.KeyNot == "" &&
		len(p.Keys) == 0 && len(p.Values) == 0 && len(p.KeyValues) == 0 && p.PartialValue == ""
}

// NeedsReconcile reports whether an exact-match post-filter must run.
func (p PredicateSet) NeedsReconcile() bool {
	return len(p.Values) > 0 || len(p.KeyValues) > 0
}

// WithKeyValue returns a copy of p requiring key=value.
func (p PredicateSet) WithKeyValue(key, value string) PredicateSet {
	kvs := make([]KeyValue, len(p.KeyValues), len(p.KeyValues)+1)
	copy(kvs, p.KeyValues)
	p.KeyValues = append(kvs, KeyValue{Key: key, Value: value})

	return p
}
