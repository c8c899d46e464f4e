package sgraph

import (
	"slices"

	"github.com/essepuntato/dimm/internal/triplestore/impl"
)

// Namespaces holds prefix bindings for namespace IRIs.
// The zero value is empty and ready to use.
type Namespaces struct {
	prefixes map[string]impl.Label
}

// Bind binds prefix to the given namespace IRI.
// A previous binding of the same prefix is replaced.
func (ns *Namespaces) Bind(prefix string, namespace impl.Label) {
	if ns.prefixes == nil {
		ns.prefixes = make(map[string]impl.Label)
	}
	ns.prefixes[prefix] = namespace
}

// Get returns the namespace IRI bound to prefix, if any.
func (ns *Namespaces) Get(prefix string) (impl.Label, bool) {
	namespace, ok := ns.prefixes[prefix]
	return namespace, ok
}

// Merge copies every binding of other into this set of namespaces.
// Bindings being merged in win over existing ones.
func (ns *Namespaces) Merge(other *Namespaces) {
	for prefix, namespace := range other.prefixes {
		ns.Bind(prefix, namespace)
	}
}

// Prefixes returns all bound prefixes in sorted order.
func (ns *Namespaces) Prefixes() []string {
	prefixes := make([]string, 0, len(ns.prefixes))
	for prefix := range ns.prefixes {
		prefixes = append(prefixes, prefix)
	}
	slices.Sort(prefixes)
	return prefixes
}

// Len returns the number of bound prefixes.
func (ns *Namespaces) Len() int {
	return len(ns.prefixes)
}
