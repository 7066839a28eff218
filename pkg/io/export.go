package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/CesiumGS/cesium-native/pkg/dag"
)

type graph struct {
	Nodes  []node `json:"nodes"`
	Edges  []edge `json:"edges"`
	Cycles []edge `json:"cycles,omitempty"`
}

type node struct {
	ID    string `json:"id"`
	Order int    `json:"order"`
}

type edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// WriteJSON encodes a graph as JSON and writes it to w.
func WriteJSON(g *dag.Graph, w io.Writer) error {
	position := make(map[string]int, g.Len())
	order, _ := dag.Order(g)
	for i, id := range order {
		position[id] = i
	}

	out := graph{
		Nodes: make([]node, g.Len()),
		Edges: make([]edge, 0, g.EdgeCount()),
	}
	for i, id := range g.Nodes() {
		out.Nodes[i] = node{ID: id, Order: position[id]}
	}
	for _, e := range g.Edges() {
		out.Edges = append(out.Edges, edge{From: e.From, To: e.To})
	}
	for _, e := range dag.BackEdges(g) {
		out.Cycles = append(out.Cycles, edge{From: e.From, To: e.To})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a graph to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(g *dag.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(g, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
