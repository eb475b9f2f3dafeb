// Package graph provides the reverse-dependency graph used to decide which
// installed packages become unreferenced when others are removed.
//
// # Overview
//
// A [Graph] maps every installed package (by normalized name) to the set of
// packages that directly depend on it. Edges point from a dependency toward
// its dependents, so "nothing needs X" is simply "X has no dependents", and
// the leaves of the graph are the packages a user installed on purpose (or
// forgot about).
//
//	g := graph.New()
//	g.AddNode(graph.Node{ID: "flask"})
//	g.AddNode(graph.Node{ID: "jinja2"})
//	g.AddEdge("jinja2", "flask") // flask requires jinja2
//
// Every key has a dependent set, possibly empty, and IDs are unique. Helpers
// such as [Graph.NodeIDs], [Graph.Dependents] and [Graph.Leaves] return sorted
// IDs so that algorithms built on the graph are deterministic.
//
// # Cycles
//
// Installed-package graphs are normally acyclic, but requirements that are
// only active under optional extras can point at each other (A requires B
// under one extra, B requires A under another). [FindCycle] locates a cycle
// with a depth-first search that keeps an explicit on-stack set.
// [EliminateCycle] removes the one edge of that cycle whose removal disturbs
// reachability the least, measured as the sum of transitive dependent counts
// over the cycle's nodes. [BreakCycles] repeats this until no cycle remains.
//
// # Concurrency
//
// Graph instances are not safe for concurrent use. The graph engine is
// single-threaded: a graph is built, consumed, and discarded per invocation.
package graph
