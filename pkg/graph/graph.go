package graph

import (
	"errors"
	"maps"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is
	// empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists. Node IDs are normalized package names and must
	// be unique.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownDependency is returned by [Graph.AddEdge] when the dependency
	// (the node being required) does not exist.
	ErrUnknownDependency = errors.New("unknown dependency node")

	// ErrUnknownDependent is returned by [Graph.AddEdge] when the dependent
	// (the node doing the requiring) does not exist.
	ErrUnknownDependent = errors.New("unknown dependent node")

	// ErrSelfLoop is returned by [Graph.AddEdge] when a node would depend on
	// itself. Self-requirements carry no reachability information.
	ErrSelfLoop = errors.New("node cannot depend on itself")
)

// Metadata stores arbitrary key-value pairs attached to nodes, typically the
// package version and install location. Metadata maps are never nil after
// [Graph.AddNode].
type Metadata map[string]any

// Node is a vertex of the reverse-dependency graph: one installed package.
type Node struct {
	ID   string   // Normalized package name
	Meta Metadata // Version, location, ...
}

// Graph is a reverse-dependency graph. For every node it records the set of
// nodes that directly depend on it (its dependents). Edges therefore point
// from a dependency toward its dependents.
//
// Unlike a DAG, a Graph may temporarily contain cycles; use [BreakCycles] to
// restore acyclicity. Iteration helpers return IDs in sorted order so that
// every algorithm built on top of a Graph is deterministic.
//
// The zero value is not usable - use New to create a Graph.
// Graph is not safe for concurrent use without external synchronization.
type Graph struct {
	nodes      map[string]*Node
	dependents map[string]mapset.Set[string] // dependency -> dependents
	requires   map[string]mapset.Set[string] // dependent -> dependencies
	edges      int
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		nodes:      make(map[string]*Node),
		dependents: make(map[string]mapset.Set[string]),
		requires:   make(map[string]mapset.Set[string]),
	}
}

// FromDependents builds a Graph from a dependency -> dependents mapping.
// Every key and every listed dependent becomes a node. Self-loops are
// dropped. This is mostly useful for fixtures:
//
//	g := graph.FromDependents(map[string][]string{
//	    "flask":  nil,
//	    "jinja2": {"flask"},
//	})
func FromDependents(m map[string][]string) *Graph {
	g := New()
	for _, id := range slices.Sorted(maps.Keys(m)) {
		if !g.HasNode(id) {
			_ = g.AddNode(Node{ID: id})
		}
		for _, dep := range m[id] {
			if !g.HasNode(dep) {
				_ = g.AddNode(Node{ID: dep})
			}
		}
	}
	for id, deps := range m {
		for _, dep := range deps {
			_ = g.AddEdge(id, dep)
		}
	}
	return g
}

// AddNode adds a node with an empty dependent set.
// Returns ErrInvalidNodeID if the ID is empty, or ErrDuplicateNodeID if a
// node with the same ID already exists.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.Meta == nil {
		n.Meta = Metadata{}
	}
	node := &n
	g.nodes[n.ID] = node
	g.dependents[n.ID] = mapset.NewThreadUnsafeSet[string]()
	g.requires[n.ID] = mapset.NewThreadUnsafeSet[string]()
	return nil
}

// AddEdge records that dependent requires dependency, i.e. dependent is added
// to the dependent set of dependency. Adding an existing edge is a no-op.
func (g *Graph) AddEdge(dependency, dependent string) error {
	if _, ok := g.nodes[dependency]; !ok {
		return ErrUnknownDependency
	}
	if _, ok := g.nodes[dependent]; !ok {
		return ErrUnknownDependent
	}
	if dependency == dependent {
		return ErrSelfLoop
	}
	if g.dependents[dependency].Add(dependent) {
		g.requires[dependent].Add(dependency)
		g.edges++
	}
	return nil
}

// RemoveEdge removes the dependency -> dependent edge if it exists.
// It reports whether an edge was removed.
func (g *Graph) RemoveEdge(dependency, dependent string) bool {
	deps, ok := g.dependents[dependency]
	if !ok || !deps.Contains(dependent) {
		return false
	}
	deps.Remove(dependent)
	g.requires[dependent].Remove(dependency)
	g.edges--
	return true
}

// RemoveNode deletes the node and every edge touching it.
// No error is returned if the node does not exist.
func (g *Graph) RemoveNode(id string) {
	if _, ok := g.nodes[id]; !ok {
		return
	}
	for _, dep := range g.Dependents(id) {
		g.RemoveEdge(id, dep)
	}
	for _, req := range g.Requirements(id) {
		g.RemoveEdge(req, id)
	}
	delete(g.nodes, id)
	delete(g.dependents, id)
	delete(g.requires, id)
}

// HasNode reports whether a node with the given ID exists.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// HasEdge reports whether dependent directly depends on dependency.
func (g *Graph) HasEdge(dependency, dependent string) bool {
	deps, ok := g.dependents[dependency]
	return ok && deps.Contains(dependent)
}

// Node returns the node with the given ID and true, or nil and false.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// NodeIDs returns all node IDs in sorted order.
func (g *Graph) NodeIDs() []string {
	return slices.Sorted(maps.Keys(g.nodes))
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of dependency -> dependent edges.
func (g *Graph) EdgeCount() int { return g.edges }

// Dependents returns the sorted IDs of nodes that directly depend on id.
// Returns nil if the node has no dependents or does not exist.
func (g *Graph) Dependents(id string) []string {
	return sortedSet(g.dependents[id])
}

// DependentCount returns the number of direct dependents of id.
func (g *Graph) DependentCount(id string) int {
	deps, ok := g.dependents[id]
	if !ok {
		return 0
	}
	return deps.Cardinality()
}

// DependentsWithin reports whether id has at least one dependent and every
// dependent is a member of set. This is the "killed by us" rule of the
// dead-set computation.
func (g *Graph) DependentsWithin(id string, set mapset.Set[string]) bool {
	deps, ok := g.dependents[id]
	if !ok || deps.Cardinality() == 0 {
		return false
	}
	within := true
	deps.Each(func(dep string) bool {
		if !set.Contains(dep) {
			within = false
			return true
		}
		return false
	})
	return within
}

// Requirements returns the sorted IDs of nodes that id directly depends on.
func (g *Graph) Requirements(id string) []string {
	return sortedSet(g.requires[id])
}

// Leaves returns the sorted IDs of nodes with no dependents: nothing in the
// graph requires them.
func (g *Graph) Leaves() []string {
	var leaves []string
	for _, id := range g.NodeIDs() {
		if g.dependents[id].Cardinality() == 0 {
			leaves = append(leaves, id)
		}
	}
	return leaves
}

// TransitiveDependents returns the number of distinct nodes reachable from id
// by repeatedly following dependent edges, not counting id itself.
func (g *Graph) TransitiveDependents(id string) int {
	if _, ok := g.nodes[id]; !ok {
		return 0
	}
	seen := map[string]bool{id: true}
	stack := []string{id}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, dep := range g.dependents[n].ToSlice() {
			if !seen[dep] {
				seen[dep] = true
				stack = append(stack, dep)
			}
		}
	}
	return len(seen) - 1
}

// Clone returns a deep copy of the graph structure. Node metadata maps are
// shared with the original.
func (g *Graph) Clone() *Graph {
	c := New()
	for id, n := range g.nodes {
		c.nodes[id] = &Node{ID: n.ID, Meta: n.Meta}
		c.dependents[id] = g.dependents[id].Clone()
		c.requires[id] = g.requires[id].Clone()
	}
	c.edges = g.edges
	return c
}

// Without returns a copy of the graph with the given nodes and every edge
// touching them removed. The receiver is not modified.
func (g *Graph) Without(ids mapset.Set[string]) *Graph {
	c := g.Clone()
	for _, id := range ids.ToSlice() {
		c.RemoveNode(id)
	}
	return c
}

// ToDependents returns the graph as a dependency -> sorted dependents mapping.
// Nodes without dependents map to an empty (non-nil) slice.
func (g *Graph) ToDependents() map[string][]string {
	m := make(map[string][]string, len(g.nodes))
	for id := range g.nodes {
		deps := g.Dependents(id)
		if deps == nil {
			deps = []string{}
		}
		m[id] = deps
	}
	return m
}

func sortedSet(s mapset.Set[string]) []string {
	if s == nil || s.Cardinality() == 0 {
		return nil
	}
	out := s.ToSlice()
	slices.Sort(out)
	return out
}
