// Package triemap provides a binary trie keyed by IP prefixes, with
// longest-prefix-match lookup.
package triemap

import "net/netip"

type node[T any] struct {
	children [2]*node[T]
	value    *T
}

// TrieMap maps netip.Prefix keys to values of type T. The zero value is not
// usable; use New.
type TrieMap[T any] struct {
	v4 node[T]
	v6 node[T]
}

// New creates an empty TrieMap.
func New[T any]() *TrieMap[T] {
	return &TrieMap[T]{}
}

// Insert associates value with all addresses covered by prefix. A later
// insert of a more specific prefix shadows a less specific one for the
// addresses it covers.
func (t *TrieMap[T]) Insert(prefix netip.Prefix, value T) {
	prefix = prefix.Masked()

	n := t.root(prefix.Addr())
	bytes := prefix.Addr().AsSlice()
	for i := 0; i < prefix.Bits(); i++ {
		bit := (bytes[i/8] >> (7 - i%8)) & 1
		if n.children[bit] == nil {
			n.children[bit] = &node[T]{}
		}
		n = n.children[bit]
	}

	n.value = &value
}

// Get returns the value of the longest prefix covering addr, if any.
func (t *TrieMap[T]) Get(addr netip.Addr) (T, bool) {
	n := t.root(addr)

	var match *T
	bytes := addr.AsSlice()
	for i := 0; i < len(bytes)*8; i++ {
		if n.value != nil {
			match = n.value
		}

		bit := (bytes[i/8] >> (7 - i%8)) & 1
		n = n.children[bit]
		if n == nil {
			break
		}
	}
	if n != nil && n.value != nil {
		match = n.value
	}

	if match == nil {
		var zero T
		return zero, false
	}

	return *match, true
}

func (t *TrieMap[T]) root(addr netip.Addr) *node[T] {
	if addr.Is4() {
		return &t.v4
	}

	return &t.v6
}
