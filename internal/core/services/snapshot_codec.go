package services

import (
	"encoding/json"
	"fmt"
	"sort"
)

// pair encodes as a two-element JSON array [key, value], the persisted map shape.
type pair[T any] struct {
	Key   string
	Value T
}

func (p pair[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{p.Key, p.Value})
}

func (p *pair[T]) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 2 {
		return fmt.Errorf("snapshot entry has %d elements, want 2", len(raw))
	}
	if err := json.Unmarshal(raw[0], &p.Key); err != nil {
		return fmt.Errorf("snapshot entry key: %w", err)
	}
	if err := json.Unmarshal(raw[1], &p.Value); err != nil {
		return fmt.Errorf("snapshot entry %q: %w", p.Key, err)
	}
	return nil
}

// toPairs flattens a map into key-sorted pairs so encoded snapshots are stable.
func toPairs[T any](m map[string]T) []pair[T] {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]pair[T], 0, len(keys))
	for _, k := range keys {
		out = append(out, pair[T]{Key: k, Value: m[k]})
	}
	return out
}

func fromPairs[T any](ps []pair[T]) map[string]T {
	m := make(map[string]T, len(ps))
	for _, p := range ps {
		m[p.Key] = p.Value
	}
	return m
}
