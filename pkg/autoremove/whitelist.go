package autoremove

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/matzehuels/autoremove/pkg/catalog"
)

// Whitelist is a set of package names that must never be removed.
type Whitelist struct {
	names mapset.Set[string]
}

// NewWhitelist creates a whitelist of the given names, normalized.
func NewWhitelist(names ...string) Whitelist {
	s := mapset.NewThreadUnsafeSet[string]()
	for _, n := range names {
		if n = catalog.NormalizeName(n); n != "" {
			s.Add(n)
		}
	}
	return Whitelist{names: s}
}

// Contains reports whether name is whitelisted.
func (w Whitelist) Contains(name string) bool {
	return w.names != nil && w.names.Contains(catalog.NormalizeName(name))
}

// Names returns the whitelisted names.
func (w Whitelist) Names() []string {
	if w.names == nil {
		return nil
	}
	return sortedIDs(w.names)
}

// Exclude returns a copy of dead without whitelisted names. It is applied
// after the fixed point, never inside it, so whitelisted packages still count
// as dead while their own requirements are being decided.
func (w Whitelist) Exclude(dead mapset.Set[string]) mapset.Set[string] {
	out := mapset.NewThreadUnsafeSet[string]()
	for _, id := range dead.ToSlice() {
		if !w.Contains(id) {
			out.Add(id)
		}
	}
	return out
}
