package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/autoremove/pkg/graph"
)

type document struct {
	Nodes []node `json:"nodes"`
	Edges []edge `json:"edges"`
}

type node struct {
	ID   string         `json:"id"`
	Meta graph.Metadata `json:"meta,omitempty"`
}

// edge points from the requiring package to the package it requires.
type edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// WriteJSON encodes a graph as JSON and writes it to w.
// Nodes and edges are sorted, so equal graphs produce identical output.
// This format can be re-imported with [ReadJSON].
func WriteJSON(g *graph.Graph, w io.Writer) error {
	out := document{
		Nodes: make([]node, 0, g.NodeCount()),
		Edges: make([]edge, 0, g.EdgeCount()),
	}

	for _, id := range g.NodeIDs() {
		n, _ := g.Node(id)
		nd := node{ID: id}
		if len(n.Meta) > 0 {
			nd.Meta = n.Meta
		}
		out.Nodes = append(out.Nodes, nd)
		for _, req := range g.Requirements(id) {
			out.Edges = append(out.Edges, edge{From: id, To: req})
		}
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
func ExportJSON(g *graph.Graph, path string) error {
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
