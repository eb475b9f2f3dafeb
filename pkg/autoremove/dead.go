package autoremove

import (
	"slices"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/matzehuels/autoremove/pkg/graph"
)

// FindAllDead returns seed plus every package that ends up with no living
// dependent once seed is removed. A package is added when it has at least one
// dependent and all of its dependents are dead; passes repeat until one adds
// nothing.
//
// The rule is monotone, so the result does not depend on scan order, grows
// with the seed, and FindAllDead(g, FindAllDead(g, s)) equals
// FindAllDead(g, s). Packages nothing depends on are only dead if seeded.
// The seed is not modified.
func FindAllDead(g *graph.Graph, seed mapset.Set[string]) mapset.Set[string] {
	dead := mapset.NewThreadUnsafeSet[string]()
	for _, id := range seed.ToSlice() {
		dead.Add(id)
	}

	ids := g.NodeIDs()
	for {
		added := false
		for _, id := range ids {
			if dead.Contains(id) {
				continue
			}
			if g.DependentsWithin(id, dead) {
				dead.Add(id)
				added = true
			}
		}
		if !added {
			return dead
		}
	}
}

// RemovalOrder sorts dead so that every package comes after the packages
// that depend on it: dependents are removed before their dependencies.
// Ties, and any cycle that prevents a strict order, fall back to name order.
func RemovalOrder(g *graph.Graph, dead mapset.Set[string]) []string {
	remaining := sortedIDs(dead)
	done := mapset.NewThreadUnsafeSet[string]()
	order := make([]string, 0, len(remaining))

	for len(remaining) > 0 {
		next := -1
		for i, id := range remaining {
			if dependentsRemoved(g, id, dead, done) {
				next = i
				break
			}
		}
		if next < 0 {
			next = 0
		}
		id := remaining[next]
		order = append(order, id)
		done.Add(id)
		remaining = slices.Delete(remaining, next, next+1)
	}
	return order
}

// dependentsRemoved reports whether every dependent of id that is itself
// being removed has already been emitted.
func dependentsRemoved(g *graph.Graph, id string, dead, done mapset.Set[string]) bool {
	for _, dep := range g.Dependents(id) {
		if dead.Contains(dep) && !done.Contains(dep) {
			return false
		}
	}
	return true
}

func sortedIDs(s mapset.Set[string]) []string {
	out := s.ToSlice()
	slices.Sort(out)
	return out
}
