package graph

// FindCycle returns the first cycle found by a depth-first search over
// dependent edges, as P0, P1, ..., Pk, P0 where each P(i+1) is a dependent of
// P(i). It returns nil when the graph is acyclic.
//
// Nodes are visited in sorted order and dependents are followed in sorted
// order, so the result is deterministic for a given graph.
func FindCycle(g *Graph) []string {
	visited := make(map[string]bool, g.NodeCount())
	onStack := make(map[string]bool)
	var stack []string
	var cycle []string

	var dfs func(id string) bool
	dfs = func(id string) bool {
		visited[id] = true
		onStack[id] = true
		stack = append(stack, id)
		for _, dep := range g.Dependents(id) {
			if onStack[dep] {
				cycle = closeCycle(stack, dep)
				return true
			}
			if !visited[dep] && dfs(dep) {
				return true
			}
		}
		stack = stack[:len(stack)-1]
		onStack[id] = false
		return false
	}

	for _, id := range g.NodeIDs() {
		if !visited[id] && dfs(id) {
			return cycle
		}
	}
	return nil
}

// closeCycle returns the stack slice starting at start, closed by repeating
// start at the end.
func closeCycle(stack []string, start string) []string {
	for i, id := range stack {
		if id == start {
			cycle := make([]string, 0, len(stack)-i+1)
			cycle = append(cycle, stack[i:]...)
			return append(cycle, start)
		}
	}
	return nil
}

// HasCycle reports whether the graph contains a cycle.
func HasCycle(g *Graph) bool { return FindCycle(g) != nil }

// EliminateCycle finds one cycle and permanently removes the single edge of
// that cycle whose removal leaves the smallest total number of transitive
// dependents across the cycle's nodes. It returns the cycle it broke, or nil
// if the graph is acyclic. The graph is modified in place.
//
// Each candidate edge is removed, scored, and restored before the next one is
// tried. When several edges share the minimal score the first one in cycle
// order wins; the choice is deterministic but carries no further meaning.
func EliminateCycle(g *Graph) []string {
	cycle := FindCycle(g)
	if cycle == nil {
		return nil
	}
	from, to := cheapestEdge(g, cycle)
	g.RemoveEdge(from, to)
	return cycle
}

// BreakCycles calls [EliminateCycle] until the graph is acyclic and returns
// the number of edges removed. Every call removes exactly one edge, so the
// loop ends after at most EdgeCount iterations.
func BreakCycles(g *Graph) int {
	removed := 0
	for EliminateCycle(g) != nil {
		removed++
	}
	return removed
}

// cheapestEdge scores every edge of the closed cycle and returns the one to
// delete.
func cheapestEdge(g *Graph, cycle []string) (from, to string) {
	nodes := cycle[:len(cycle)-1]
	best := -1
	for i := 0; i < len(cycle)-1; i++ {
		a, b := cycle[i], cycle[i+1]
		g.RemoveEdge(a, b)
		score := 0
		for _, n := range nodes {
			score += g.TransitiveDependents(n)
		}
		_ = g.AddEdge(a, b)
		if best < 0 || score < best {
			best = score
			from, to = a, b
		}
	}
	return from, to
}
