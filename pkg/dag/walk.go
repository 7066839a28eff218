package dag

// State is the visitation state of a node during a traversal.
// A node only moves forward: Unvisited, then InProgress, then Done.
type State uint8

const (
	// Unvisited nodes have not been reached yet.
	Unvisited State = iota
	// InProgress nodes are on the current recursion path. Reaching one
	// again means the graph has a cycle through it.
	InProgress
	// Done nodes have been visited, along with all of their dependencies.
	Done
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Unvisited:
		return "unvisited"
	case InProgress:
		return "in-progress"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}

// VisitFunc is called once per node, after all of its dependencies.
// A non-nil error stops the traversal.
type VisitFunc func(i int) error

// CycleFunc is called when the traversal reaches a node that is still in
// progress. i is that node.
type CycleFunc func(i int)

// Walk visits every node of g exactly once, dependencies before dependents.
//
// Roots are taken in graph order and dependencies in declared order, so the
// result is deterministic for a fixed input. When Walk reaches a node that
// is still in progress it calls onCycle (if non-nil) and abandons that
// branch; the rest of the traversal continues and every node is still
// visited once. Only the first in-progress node reached on a path is
// reported, not every edge of the cycle.
//
// The first error returned by visit is returned unchanged.
func Walk(g *Graph, visit VisitFunc, onCycle CycleFunc) error {
	states := make([]State, g.Len())
	for i := range states {
		if err := walk(g, states, i, visit, onCycle); err != nil {
			return err
		}
	}
	return nil
}

func walk(g *Graph, states []State, i int, visit VisitFunc, onCycle CycleFunc) error {
	switch states[i] {
	case InProgress:
		if onCycle != nil {
			onCycle(i)
		}
		return nil
	case Done:
		return nil
	}

	states[i] = InProgress
	for _, d := range g.deps[i] {
		if err := walk(g, states, d, visit, onCycle); err != nil {
			return err
		}
	}
	states[i] = Done

	return visit(i)
}

// Order returns the node IDs in dependency order together with the IDs of
// the in-progress nodes at which cycles were detected.
func Order(g *Graph) (order []string, cycles []string) {
	order = make([]string, 0, g.Len())
	_ = Walk(g,
		func(i int) error {
			order = append(order, g.ids[i])
			return nil
		},
		func(i int) {
			cycles = append(cycles, g.ids[i])
		},
	)
	return order, cycles
}
