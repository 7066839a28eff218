package dag

// BackEdges returns every edge that closes a cycle, found by a depth-first
// search with white/gray/black colouring from each node in graph order.
//
// Unlike [Walk], which reports only the node where a cycle is first
// noticed, BackEdges lists each back edge, so removing all of them leaves
// the graph acyclic. An empty result means the graph is a DAG.
func BackEdges(g *Graph) []Edge {
	const (
		white = iota
		gray
		black
	)

	color := make([]int, g.Len())
	var back []Edge

	var dfs func(i int)
	dfs = func(i int) {
		color[i] = gray
		for _, d := range g.deps[i] {
			switch color[d] {
			case white:
				dfs(d)
			case gray:
				back = append(back, Edge{From: g.ids[i], To: g.ids[d]})
			}
		}
		color[i] = black
	}

	for i := range g.ids {
		if color[i] == white {
			dfs(i)
		}
	}
	return back
}

// IsAcyclic reports whether g has no cycles.
func IsAcyclic(g *Graph) bool {
	return len(BackEdges(g)) == 0
}
