package predicate

import (
	"strings"

	"github.com/docgraph/docgraph/internal/models"
)

// Reconcile keeps the hits whose properties satisfy the exact parts of p:
// every key/value pair by exact key and case-insensitive value, and every
// bare value by some property regardless of key. Order is preserved and no
// hit is ever added. PartialValue is not reconciled.
func Reconcile[T any](hits []T, props func(T) models.Properties, p models.PredicateSet) []T {
	if !p.NeedsReconcile() {
		return hits
	}

	out := make([]T, 0, len(hits))
	for _, h := range hits {
		if Matches(props(h), p) {
			out = append(out, h)
		}
	}

	return out
}

// Matches reports whether props satisfy the key/value pairs and values of p.
func Matches(props models.Properties, p models.PredicateSet) bool {
	for _, kv := range p.KeyValues {
		if !hasKeyValue(props, kv.Key, kv.Value) {
			return false
		}
	}

	for _, v := range p.Values {
		if !hasAnyValue(props, v) {
			return false
		}
	}

	return true
}

func hasKeyValue(props models.Properties, key, value string) bool {
	for _, prop := range props {
		if prop.Key == key && strings.EqualFold(prop.Value, value) {
			return true
		}
	}

	return false
}

func hasAnyValue(props models.Properties, value string) bool {
	for _, prop := range props {
		if strings.EqualFold(prop.Value, value) {
			return true
		}
	}

	return false
}
