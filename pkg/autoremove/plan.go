package autoremove

import (
	"context"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/matzehuels/autoremove/pkg/catalog"
	"github.com/matzehuels/autoremove/pkg/errors"
	"github.com/matzehuels/autoremove/pkg/graph"
)

// Plan is the outcome of planning the removal of a set of packages.
type Plan struct {
	Seeds   []catalog.Package // Requested packages that are installed, in request order
	Skipped []string          // Requested names that are not installed or unparseable
	Dead    []catalog.Package // Packages to remove, sorted by normalized name
	Order   []string          // Dead package names, dependents before dependencies
	Trees   []*Tree           // One dead tree per seed
	Graph   *graph.Graph      // Graph the plan was computed on
}

// Empty reports whether there is nothing to remove.
func (p *Plan) Empty() bool { return len(p.Dead) == 0 }

// Names returns the declared names of the dead packages in removal order,
// ready to be handed to the package manager.
func (p *Plan) Names() []string {
	byName := make(map[string]catalog.Package, len(p.Dead))
	for _, d := range p.Dead {
		byName[d.Name] = d
	}
	out := make([]string, 0, len(p.Order))
	for _, n := range p.Order {
		out = append(out, byName[n].Label())
	}
	return out
}

// Planner computes removal plans against a catalog.
type Planner struct {
	cat  catalog.Catalog
	opts Options
}

// NewPlanner creates a Planner reading from cat.
func NewPlanner(cat catalog.Catalog, opts Options) *Planner {
	return &Planner{cat: cat, opts: opts.WithDefaults()}
}

// Graph builds the reverse-dependency graph with the planner's options.
func (pl *Planner) Graph(ctx context.Context) (*graph.Graph, error) {
	return BuildGraph(ctx, pl.cat, pl.opts)
}

// Plan computes what removing names would leave unreferenced.
//
// Names that are not installed are recorded in Skipped and otherwise ignored.
// The dead set is first computed on the graph of unconditional requirements;
// with IncludeExtras it is then expanded over the extras graph. Whitelisted
// packages are never part of the result.
func (pl *Planner) Plan(ctx context.Context, names []string) (*Plan, error) {
	plan := &Plan{}
	seed := mapset.NewThreadUnsafeSet[string]()
	for _, name := range names {
		p, err := pl.cat.Resolve(ctx, name)
		if err != nil {
			if errors.IsSkippable(err) {
				pl.opts.Logger("%s is not an installed package, skipping", name)
				plan.Skipped = append(plan.Skipped, name)
				continue
			}
			return nil, err
		}
		if seed.Add(p.Name) {
			plan.Seeds = append(plan.Seeds, p)
		}
	}
	if seed.Cardinality() == 0 {
		return plan, nil
	}

	baseOpts := pl.opts
	baseOpts.IncludeExtras = false
	g, err := BuildGraph(ctx, pl.cat, baseOpts)
	if err != nil {
		return nil, err
	}
	dead := pl.opts.whitelist().Exclude(FindAllDead(g, seed))

	if pl.opts.IncludeExtras {
		g, err = BuildGraph(ctx, pl.cat, pl.opts)
		if err != nil {
			return nil, err
		}
		dead, err = ExpandExtras(ctx, pl.cat, g, dead, pl.opts)
		if err != nil {
			return nil, err
		}
	}

	for _, name := range sortedIDs(dead) {
		p, err := pl.cat.Resolve(ctx, name)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "dead package %s vanished from catalog", name)
		}
		plan.Dead = append(plan.Dead, p)
	}
	plan.Order = RemovalOrder(g, dead)
	plan.Graph = g

	for _, s := range plan.Seeds {
		plan.Trees = append(plan.Trees, deadTree(ctx, pl.cat, g, s, dead))
	}
	return plan, nil
}

// Leaves returns the installed packages nothing requires, sorted by name.
// With IncludeExtras, a package required only through another package's
// extra is not a leaf.
func (pl *Planner) Leaves(ctx context.Context) ([]catalog.Package, error) {
	g, err := pl.Graph(ctx)
	if err != nil {
		return nil, err
	}
	var out []catalog.Package
	for _, id := range g.Leaves() {
		p, err := pl.cat.Resolve(ctx, id)
		if err != nil {
			pl.opts.Logger("leaf %s: %v", id, err)
			continue
		}
		out = append(out, p)
	}
	return out, nil
}
