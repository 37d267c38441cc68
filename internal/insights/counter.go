package insights

import (
	"bytes"
	"encoding/json"
	"sort"
)

// Counter tallies string-like keys and remembers the order in which each
// key was first seen. The zero value is ready to use.
type Counter[K ~string] struct {
	keys   []K
	counts map[K]int
}

// Entry is one key of a Counter with its count.
type Entry[K ~string] struct {
	Key   K
	Count int
}

// NewCounter returns an empty counter.
func NewCounter[K ~string]() *Counter[K] {
	return &Counter[K]{counts: make(map[K]int)}
}

// Add increments k by one.
func (c *Counter[K]) Add(k K) {
	c.AddN(k, 1)
}

// AddN increments k by n.
func (c *Counter[K]) AddN(k K, n int) {
	if c.counts == nil {
		c.counts = make(map[K]int)
	}
	if _, seen := c.counts[k]; !seen {
		c.keys = append(c.keys, k)
	}
	c.counts[k] += n
}

// Get returns the count for k, or 0.
func (c *Counter[K]) Get(k K) int {
	if c == nil {
		return 0
	}
	return c.counts[k]
}

// Len returns the number of distinct keys.
func (c *Counter[K]) Len() int {
	if c == nil {
		return 0
	}
	return len(c.keys)
}

// Total returns the sum of all counts.
func (c *Counter[K]) Total() int {
	if c == nil {
		return 0
	}
	total := 0
	for _, k := range c.keys {
		total += c.counts[k]
	}
	return total
}

// Entries returns every key with its count in insertion order.
func (c *Counter[K]) Entries() []Entry[K] {
	if c == nil {
		return nil
	}
	out := make([]Entry[K], 0, len(c.keys))
	for _, k := range c.keys {
		out = append(out, Entry[K]{Key: k, Count: c.counts[k]})
	}
	return out
}

// Max returns the key with the highest count. On ties the key inserted
// first wins. ok is false when the counter is empty.
func (c *Counter[K]) Max() (key K, count int, ok bool) {
	for i, e := range c.Entries() {
		if i == 0 || e.Count > count {
			key, count = e.Key, e.Count
		}
		ok = true
	}
	return key, count, ok
}

// Top returns up to n entries ordered by count descending. Equal counts keep
// insertion order.
func (c *Counter[K]) Top(n int) []Entry[K] {
	entries := c.Entries()
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	if n >= 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// MarshalJSON encodes the counter as an object whose keys appear in
// insertion order.
func (c *Counter[K]) MarshalJSON() ([]byte, error) {
	var obj orderedObject
	for _, e := range c.Entries() {
		obj.set(string(e.Key), e.Count)
	}
	return obj.MarshalJSON()
}

// orderedObject is a JSON object that keeps the order fields were set in.
type orderedObject struct {
	keys   []string
	values []any
}

func (o *orderedObject) set(key string, value any) {
	o.keys = append(o.keys, key)
	o.values = append(o.values, value)
}

func (o orderedObject) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(o.values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
