package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/multigraph/pkg/graph"
)

// Option configures export.
type Option func(*options)

type options struct {
	incidence bool
}

// WithIncidence records the incidence order of every node so that import
// restores it.
func WithIncidence() Option {
	return func(o *options) { o.incidence = true }
}

// WriteJSON encodes g and its subgraph tree as JSON and writes it to w.
//
// When g is a view it is exported as a standalone root: its members, the
// properties visible from it and its descendants. The output can be
// re-imported with [ReadJSON].
func WriteJSON(g *graph.Graph, w io.Writer, opts ...Option) error {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	doc := document{
		Version: FormatVersion,
		Nodes:   make([]uint32, 0, g.NumberOfNodes()),
		Edges:   make([]edgeDoc, 0, g.NumberOfEdges()),
		Graph:   encodeGraph(g, g.Properties(), false),
	}
	for _, n := range g.Nodes() {
		doc.Nodes = append(doc.Nodes, n.ID)
	}
	for _, e := range g.Edges() {
		end := g.Ends(e)
		doc.Edges = append(doc.Edges, edgeDoc{ID: e.ID, Source: end.Source.ID, Target: end.Target.ID})
	}
	if o.incidence {
		doc.Incidence = make(map[uint32][]uint32, g.NumberOfNodes())
		for _, n := range g.Nodes() {
			for _, e := range g.Incident(n) {
				doc.Incidence[n.ID] = append(doc.Incidence[n.ID], e.ID)
			}
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Marshal returns the JSON encoding of g.
func Marshal(g *graph.Graph, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSON(g, &buf, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportJSON writes g to a JSON file at path.
func ExportJSON(g *graph.Graph, path string, opts ...Option) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(g, f, opts...)
}

func encodeGraph(g *graph.Graph, props []graph.PropertyInterface, members bool) graphDoc {
	gd := graphDoc{ID: g.ID()}
	if members {
		for _, n := range g.Nodes() {
			gd.Nodes = append(gd.Nodes, n.ID)
		}
		for _, e := range g.Edges() {
			gd.Edges = append(gd.Edges, e.ID)
		}
	}
	if names := g.AttributeNames(); len(names) > 0 {
		gd.Attributes = make(map[string]any, len(names))
		for _, name := range names {
			gd.Attributes[name], _ = g.Attribute(name)
		}
	}
	for _, p := range props {
		gd.Properties = append(gd.Properties, encodeProperty(g, p))
	}
	for _, sg := range g.Subgraphs() {
		gd.Subgraphs = append(gd.Subgraphs, encodeGraph(sg, sg.LocalProperties(), true))
	}
	return gd
}

// encodeProperty keeps only the values of members of g.
func encodeProperty(g *graph.Graph, p graph.PropertyInterface) propDoc {
	pd := propDoc{
		Name:        p.Name(),
		Kind:        p.Kind(),
		NodeDefault: p.NodeDefaultString(),
		EdgeDefault: p.EdgeDefaultString(),
	}
	for _, n := range p.NonDefaultNodes() {
		if g.HasNode(n) {
			if pd.Nodes == nil {
				pd.Nodes = make(map[uint32]string)
			}
			pd.Nodes[n.ID] = p.NodeString(n)
		}
	}
	for _, e := range p.NonDefaultEdges() {
		if g.HasEdge(e) {
			if pd.Edges == nil {
				pd.Edges = make(map[uint32]string)
			}
			pd.Edges[e.ID] = p.EdgeString(e)
		}
	}
	return pd
}
