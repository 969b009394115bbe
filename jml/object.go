// Copyright © 2018 The ELPS authors

package jml

// Object is a string keyed map that remembers the order in which keys were
// first inserted.  Setting an existing key replaces its value in place.
type Object struct {
	keys  []string
	vals  []*Value
	index map[string]int
}

// ObjectEntry is a key/value pair returned by Object.Entries.
type ObjectEntry struct {
	Key   string
	Value *Value
}

// NewObject returns an empty Object.
func NewObject() *Object {
	return &Object{index: make(map[string]int)}
}

// Len returns the number of entries in obj.
func (obj *Object) Len() int {
	return len(obj.keys)
}

// Set associates key with v.  A new key is appended; an existing key keeps
// its position.
func (obj *Object) Set(key string, v *Value) {
	if i, ok := obj.index[key]; ok {
		obj.vals[i] = v
		return
	}
	obj.index[key] = len(obj.keys)
	obj.keys = append(obj.keys, key)
	obj.vals = append(obj.vals, v)
}

// Get returns the value associated with key.
func (obj *Object) Get(key string) (*Value, bool) {
	i, ok := obj.index[key]
	if !ok {
		return nil, false
	}
	return obj.vals[i], true
}

// Keys returns the object keys in insertion order.
func (obj *Object) Keys() []string {
	keys := make([]string, len(obj.keys))
	copy(keys, obj.keys)
	return keys
}

// Entries returns the object entries in insertion order.
func (obj *Object) Entries() []ObjectEntry {
	entries := make([]ObjectEntry, len(obj.keys))
	for i := range obj.keys {
		entries[i] = ObjectEntry{Key: obj.keys[i], Value: obj.vals[i]}
	}
	return entries
}

// Equal returns true if obj and other contain equal values for the same set
// of keys.  Key order is not significant.
func (obj *Object) Equal(other *Object) bool {
	if obj.Len() != other.Len() {
		return false
	}
	for i, k := range obj.keys {
		v, ok := other.Get(k)
		if !ok || !obj.vals[i].Equal(v) {
			return false
		}
	}
	return true
}
