package autoremove

import (
	"context"

	"github.com/matzehuels/autoremove/pkg/catalog"
	"github.com/matzehuels/autoremove/pkg/graph"
)

// Node metadata keys set by [BuildGraph].
const (
	MetaVersion  = "version"
	MetaLocation = "location"
	MetaLabel    = "label"
)

// BuildGraph returns a fresh reverse-dependency graph over every installed
// package in cat. Each package's unconditional requirements become edges from
// the required package to it.
//
// With opts.IncludeExtras, requirements that are active only under one of a
// package's non-restricted extras are added too, but only toward packages
// that nothing else requires yet. Such edges can close cycles; the graph is
// then broken back into a DAG with [graph.BreakCycles].
//
// Unresolvable requirements are logged and skipped.
func BuildGraph(ctx context.Context, cat catalog.Catalog, opts Options) (*graph.Graph, error) {
	opts = opts.WithDefaults()

	pkgs, err := cat.ListInstalled(ctx)
	if err != nil {
		return nil, err
	}

	g := graph.New()
	for _, p := range pkgs {
		meta := graph.Metadata{
			MetaVersion:  p.Version,
			MetaLocation: p.Location,
			MetaLabel:    p.Label(),
		}
		if err := g.AddNode(graph.Node{ID: p.Name, Meta: meta}); err != nil {
			opts.Logger("skipping %s: %v", p.Name, err)
		}
	}

	for _, p := range pkgs {
		deps, err := Required(ctx, cat, p, nil, opts.Logger)
		if err != nil {
			return nil, err
		}
		for _, d := range deps {
			_ = g.AddEdge(d.Name, p.Name)
		}
	}

	if opts.IncludeExtras {
		if err := addExtraEdges(ctx, cat, g, pkgs, opts); err != nil {
			return nil, err
		}
		breakCycles(g, opts.Logger)
	}
	return g, nil
}

// addExtraEdges links packages reachable only through extras to the package
// offering the extra. Targets that already have a dependent keep their
// existing edges alone: they are alive or dead on their own account.
func addExtraEdges(ctx context.Context, cat catalog.Catalog, g *graph.Graph, pkgs []catalog.Package, opts Options) error {
	for _, p := range pkgs {
		allowed := catalog.AllowedExtras(p.Extras, opts.RestrictedExtras)
		optional, err := OptionalRequired(ctx, cat, p, allowed, opts.Logger)
		if err != nil {
			return err
		}
		for _, o := range optional {
			if g.DependentCount(o.Name) > 0 {
				continue
			}
			_ = g.AddEdge(o.Name, p.Name)
		}
	}
	return nil
}

func breakCycles(g *graph.Graph, logf func(string, ...any)) {
	for {
		cycle := graph.EliminateCycle(g)
		if cycle == nil {
			return
		}
		logf("broke dependency cycle %v", cycle)
	}
}
