package service

import (
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// DefaultMaxEntries is how many daily entries the relay returns.
const DefaultMaxEntries = 30

// TrimSeries returns a new map holding the first n entries of days, in
// the order days yields them. No sorting is applied: the provider lists
// the most recent day first, and that order is what callers see.
//
// A nil input yields an empty map. n <= 0 keeps nothing.
func TrimSeries(days *orderedmap.OrderedMap[string, json.RawMessage], n int) *orderedmap.OrderedMap[string, json.RawMessage] {
	capacity := n
	if days != nil && days.Len() < capacity {
		capacity = days.Len()
	}
	if capacity < 0 {
		capacity = 0
	}

	out := orderedmap.New[string, json.RawMessage](capacity)
	if days == nil {
		return out
	}
	for p := days.Oldest(); p != nil && out.Len() < n; p = p.Next() {
		out.Set(p.Key, p.Value)
	}
	return out
}
