package catalog

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

// Package is one installed distribution.
//
// Name is always normalized (see [NormalizeName]) and is the identity used
// by every graph algorithm. DisplayName keeps the project name as declared in
// the package metadata for output.
//
// Package values are safe for concurrent reads after construction.
type Package struct {
	Name         string        // Normalized name (e.g., "markupsafe")
	DisplayName  string        // Declared name (e.g., "MarkupSafe")
	Version      string        // Installed version (may be empty)
	Location     string        // Directory the distribution was found in
	Extras       []string      // Extras the package declares (Provides-Extra)
	Requirements []Requirement // Declared requirements, conditional ones included
}

// Label returns the declared name, falling back to the normalized one.
func (p Package) Label() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.Name
}

// String formats the package as "name version (location)".
func (p Package) String() string {
	return fmt.Sprintf("%s %s (%s)", p.Label(), p.Version, p.Location)
}

// Freeze formats the package the way "pip freeze" does: "name==version".
func (p Package) Freeze() string {
	return p.Label() + "==" + p.Version
}

// Requires returns the requirements that are active when the given extras are
// enabled. Unconditional requirements are always active; requirements guarded
// by an extra are active only if that extra is in enabled. With no extras
// enabled, only the base requirements are returned.
func (p Package) Requires(enabled ...string) []Requirement {
	var out []Requirement
	for _, r := range p.Requirements {
		if r.ConditionExtra == "" || slices.Contains(enabled, r.ConditionExtra) {
			out = append(out, r)
		}
	}
	return out
}

// HasExtra reports whether the package declares the given extra.
func (p Package) HasExtra(extra string) bool {
	return slices.Contains(p.Extras, extra)
}

// Source lists the packages installed in one environment. Implementations
// live in the backends under this package; they only need to produce raw
// records, normalization of the result is done by [Session].
type Source interface {
	// Scan returns every installed package. Order does not matter.
	Scan(ctx context.Context) ([]Package, error)
}

// Catalog is the read-only view of the installed environment that the graph
// engine consumes.
type Catalog interface {
	// ListInstalled returns every installed package sorted by normalized name.
	ListInstalled(ctx context.Context) ([]Package, error)

	// Resolve looks up the installed package a name or requirement string
	// refers to. It fails with a NOT_INSTALLED error if there is none and
	// with a MALFORMED_REQUIREMENT error if the string cannot be parsed.
	Resolve(ctx context.Context, ref string) (Package, error)
}

// Static is a [Source] backed by a fixed list of packages. It is useful in
// tests and for catalogs assembled in memory.
type Static []Package

// Scan returns a copy of the list.
func (s Static) Scan(context.Context) ([]Package, error) {
	return slices.Clone(s), nil
}

// isVendored reports whether the package was found inside a vendored tree,
// such as the copies pip ships of its own dependencies. Those are never
// independently installed and must stay out of the graph.
func isVendored(p Package) bool {
	return strings.Contains(p.Location, "vendor")
}
