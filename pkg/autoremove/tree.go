package autoremove

import (
	"context"
	"fmt"
	"io"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/matzehuels/autoremove/pkg/catalog"
	"github.com/matzehuels/autoremove/pkg/graph"
)

// Tree shows why a package is dead: its children are the dead packages it
// requires. Every package appears at most once per tree.
type Tree struct {
	Package  catalog.Package
	Children []*Tree
}

// Walk calls fn for every node of the tree in depth-first order with its
// depth, starting at 0 for the root.
func (t *Tree) Walk(fn func(p catalog.Package, depth int)) {
	var walk func(n *Tree, depth int)
	walk = func(n *Tree, depth int) {
		fn(n.Package, depth)
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	walk(t, 0)
}

// Len returns the number of packages in the tree.
func (t *Tree) Len() int {
	n := 0
	t.Walk(func(catalog.Package, int) { n++ })
	return n
}

// Fprint writes the tree as "name version (location)" lines, indented four
// spaces per level.
func (t *Tree) Fprint(w io.Writer) error {
	var err error
	t.Walk(func(p catalog.Package, depth int) {
		if err == nil {
			_, err = fmt.Fprintf(w, "%s%s\n", strings.Repeat("    ", depth), p)
		}
	})
	return err
}

func deadTree(ctx context.Context, cat catalog.Catalog, g *graph.Graph, root catalog.Package, dead mapset.Set[string]) *Tree {
	visited := mapset.NewThreadUnsafeSet[string]()
	var build func(p catalog.Package) *Tree
	build = func(p catalog.Package) *Tree {
		visited.Add(p.Name)
		node := &Tree{Package: p}
		for _, req := range g.Requirements(p.Name) {
			if !dead.Contains(req) || visited.Contains(req) {
				continue
			}
			child, err := cat.Resolve(ctx, req)
			if err != nil {
				continue
			}
			node.Children = append(node.Children, build(child))
		}
		return node
	}
	return build(root)
}
