package io

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/autoremove/pkg/graph"
)

func sample() *graph.Graph {
	g := graph.New()
	_ = g.AddNode(graph.Node{ID: "flask", Meta: graph.Metadata{"version": "3.0.0"}})
	_ = g.AddNode(graph.Node{ID: "jinja2"})
	_ = g.AddNode(graph.Node{ID: "markupsafe"})
	_ = g.AddEdge("jinja2", "flask")
	_ = g.AddEdge("markupsafe", "jinja2")
	return g
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(sample(), &buf); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}
	want := `{
  "nodes": [
    {
      "id": "flask",
      "meta": {
        "version": "3.0.0"
      }
    },
    {
      "id": "jinja2"
    },
    {
      "id": "markupsafe"
    }
  ],
  "edges": [
    {
      "from": "flask",
      "to": "jinja2"
    },
    {
      "from": "jinja2",
      "to": "markupsafe"
    }
  ]
}
`
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("WriteJSON() mismatch (-want +got):\n%s", diff)
	}
}

func TestExportImport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.json")
	if err := ExportJSON(sample(), path); err != nil {
		t.Fatalf("ExportJSON() error: %v", err)
	}
	g, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON() error: %v", err)
	}
	if diff := cmp.Diff(sample().ToDependents(), g.ToDependents()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	n, _ := g.Node("flask")
	if n.Meta["version"] != "3.0.0" {
		t.Errorf("flask meta = %v", n.Meta)
	}
}

func TestReadJSON_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"duplicate node", `{"nodes":[{"id":"a"},{"id":"a"}],"edges":[]}`, graph.ErrDuplicateNodeID},
		{"unknown node", `{"nodes":[{"id":"a"}],"edges":[{"from":"a","to":"b"}]}`, graph.ErrUnknownDependency},
		{"self loop", `{"nodes":[{"id":"a"}],"edges":[{"from":"a","to":"a"}]}`, graph.ErrSelfLoop},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.input))
			if !errors.Is(err, tt.want) {
				t.Errorf("ReadJSON() error = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := ReadJSON(strings.NewReader("{")); err == nil {
		t.Error("ReadJSON(malformed) expected error")
	}
}
