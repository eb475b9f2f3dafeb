package autoremove

import (
	"context"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/matzehuels/autoremove/pkg/catalog"
	"github.com/matzehuels/autoremove/pkg/graph"
)

// ExpandExtras grows a base dead set with packages that were installed only
// to satisfy the optional extras of dead packages.
//
// g must be the graph built with extras edges. Each round computes the dead
// set of the current seed (whitelist excluded), removes it from the graph and
// looks at what is left with no dependents. A package that a dead package
// requires only through one of its non-restricted extras, and that is such a
// leaf, is orphaned; it joins the seed of the next round. The loop stops
// when a round finds no new orphan. Orphans are never part of the dead set
// they were found against, so each round strictly grows the seed and the
// loop runs at most once per installed package.
//
// g may be modified: cycles are broken at the start of every round.
func ExpandExtras(ctx context.Context, cat catalog.Catalog, g *graph.Graph, base mapset.Set[string], opts Options) (mapset.Set[string], error) {
	opts = opts.WithDefaults()
	wl := opts.whitelist()

	seed := base.Clone()
	for round := 1; ; round++ {
		breakCycles(g, opts.Logger)

		deadByBase := wl.Exclude(FindAllDead(g, seed))
		leaves := mapset.NewThreadUnsafeSet(g.Without(deadByBase).Leaves()...)

		orphaned := mapset.NewThreadUnsafeSet[string]()
		for _, name := range sortedIDs(deadByBase) {
			p, err := cat.Resolve(ctx, name)
			if err != nil {
				opts.Logger("extras of %s: %v", name, err)
				continue
			}
			allowed := catalog.AllowedExtras(p.Extras, opts.RestrictedExtras)
			optional, err := OptionalRequired(ctx, cat, p, allowed, opts.Logger)
			if err != nil {
				return nil, err
			}
			for _, o := range optional {
				if leaves.Contains(o.Name) && !wl.Contains(o.Name) {
					orphaned.Add(o.Name)
				}
			}
		}

		if orphaned.Cardinality() == 0 {
			return deadByBase, nil
		}
		opts.Logger("round %d: %d packages orphaned by extras: %v", round, orphaned.Cardinality(), sortedIDs(orphaned))
		seed = deadByBase.Union(orphaned)
	}
}
