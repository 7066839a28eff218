// Package dag provides the dependency graph over cesium-native libraries and
// the dependency-order traversal used by every command that must process
// libraries after the libraries they depend on.
//
// # Overview
//
// A [Graph] is built from an ordered list of node IDs; nodes are addressed
// by index, and edges point from a library to the libraries it depends on:
//
//	g, _ := dag.New([]string{"CesiumGltf", "CesiumUtility"})
//	g.AddEdge("CesiumGltf", "CesiumUtility")
//
// # Traversal
//
// [Walk] performs a depth-first traversal with a per-run []State indexed by
// node position. Each node is visited once, after its dependencies. Roots
// are taken in graph order and dependencies in declared order, so the output
// is deterministic. A node reached while still [InProgress] signals a cycle:
// the cycle callback runs and that branch is abandoned, but the traversal
// goes on.
//
// [BackEdges] is the exhaustive counterpart used for diagnostics: it lists
// every edge that closes a cycle.
package dag
