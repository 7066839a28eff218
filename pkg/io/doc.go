// Package io exports the library dependency graph as JSON.
//
// # JSON Format
//
//	{
//	  "nodes": [
//	    {"id": "CesiumGltf", "order": 1},
//	    {"id": "CesiumUtility", "order": 0}
//	  ],
//	  "edges": [
//	    {"from": "CesiumGltf", "to": "CesiumUtility"}
//	  ]
//	}
//
// Nodes appear in registry order. order is the node's position in the
// dependency-first traversal used for builds. Edges point from a library to
// a dependency. When the graph has cycles, a "cycles" array lists the edges
// that close them.
//
// # Export
//
// Use [ExportJSON] to write a graph to a file, or [WriteJSON] to write to any
// io.Writer:
//
//	err := io.ExportJSON(reg.Graph(), "graph.json")
package io
