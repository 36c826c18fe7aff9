package io

import (
	"bytes"
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"

	errs "github.com/matzehuels/multigraph/pkg/errors"
	"github.com/matzehuels/multigraph/pkg/graph"
)

// ReadJSON decodes a JSON document from r into a new root graph created
// with opts.
//
// Nodes and edges are created in ascending id order, so ids are preserved
// when the exported ids are dense; otherwise they are renumbered and every
// reference (edge ends, memberships, values, incidence) follows.
// Subgraph ids are always reassigned and graph-valued properties are
// remapped. Numeric attributes come back as float64.
//
// ReadJSON returns an error if the JSON is malformed, has an unknown
// version, or references unknown nodes, edges or property kinds.
// ReadJSON does not close r.
func ReadJSON(r io.Reader, opts ...graph.Option) (*graph.Graph, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if doc.Version != FormatVersion {
		return nil, errs.New(errs.ErrCodeInvalidFormat, "unsupported format version %d", doc.Version)
	}

	d := &decoder{
		g:      graph.New(opts...),
		nodes:  make(map[uint32]graph.Node, len(doc.Nodes)),
		edges:  make(map[uint32]graph.Edge, len(doc.Edges)),
		graphs: make(map[uint32]uint32),
	}
	if err := d.structure(doc); err != nil {
		return nil, err
	}
	if err := d.tree(d.g, doc.Graph, true); err != nil {
		return nil, err
	}
	if err := d.values(d.g, doc.Graph); err != nil {
		return nil, err
	}
	return d.g, nil
}

// Unmarshal decodes data into a new root graph.
func Unmarshal(data []byte, opts ...graph.Option) (*graph.Graph, error) {
	return ReadJSON(bytes.NewReader(data), opts...)
}

// ImportJSON reads a JSON file at path and returns the decoded graph.
func ImportJSON(path string, opts ...graph.Option) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f, opts...)
}

type decoder struct {
	g      *graph.Graph
	nodes  map[uint32]graph.Node
	edges  map[uint32]graph.Edge
	graphs map[uint32]uint32
}

func (d *decoder) structure(doc document) error {
	ids := slices.Clone(doc.Nodes)
	slices.Sort(ids)
	created := d.g.AddNodes(len(ids))
	for i, id := range ids {
		if _, dup := d.nodes[id]; dup {
			return errs.New(errs.ErrCodeInvalidFormat, "duplicate node %d", id)
		}
		d.nodes[id] = created[i]
	}

	edges := slices.Clone(doc.Edges)
	slices.SortFunc(edges, func(a, b edgeDoc) int { return cmp.Compare(a.ID, b.ID) })
	for _, ed := range edges {
		if _, dup := d.edges[ed.ID]; dup {
			return errs.New(errs.ErrCodeInvalidFormat, "duplicate edge %d", ed.ID)
		}
		src, ok := d.nodes[ed.Source]
		if !ok {
			return errs.New(errs.ErrCodeInvalidFormat, "edge %d: unknown source %d", ed.ID, ed.Source)
		}
		tgt, ok := d.nodes[ed.Target]
		if !ok {
			return errs.New(errs.ErrCodeInvalidFormat, "edge %d: unknown target %d", ed.ID, ed.Target)
		}
		e, err := d.g.AddEdge(src, tgt)
		if err != nil {
			return fmt.Errorf("edge %d: %w", ed.ID, err)
		}
		d.edges[ed.ID] = e
	}

	for id, order := range doc.Incidence {
		n, ok := d.nodes[id]
		if !ok {
			return errs.New(errs.ErrCodeInvalidFormat, "incidence of unknown node %d", id)
		}
		list := make([]graph.Edge, len(order))
		for i, eid := range order {
			if list[i], ok = d.edges[eid]; !ok {
				return errs.New(errs.ErrCodeInvalidFormat, "incidence of node %d: unknown edge %d", id, eid)
			}
		}
		if err := d.g.SetEdgeOrder(n, list); err != nil {
			return fmt.Errorf("incidence of node %d: %w", id, err)
		}
	}
	return nil
}

// tree creates the subgraphs below g and fills their membership.
func (d *decoder) tree(g *graph.Graph, gd graphDoc, root bool) error {
	d.graphs[gd.ID] = g.ID()
	if !root {
		for _, id := range gd.Nodes {
			n, ok := d.nodes[id]
			if !ok {
				return errs.New(errs.ErrCodeInvalidFormat, "subgraph %d: unknown node %d", gd.ID, id)
			}
			if err := g.AddExistingNode(n); err != nil {
				return err
			}
		}
		for _, id := range gd.Edges {
			e, ok := d.edges[id]
			if !ok {
				return errs.New(errs.ErrCodeInvalidFormat, "subgraph %d: unknown edge %d", gd.ID, id)
			}
			if err := g.AddExistingEdge(e); err != nil {
				return err
			}
		}
	}
	for _, sd := range gd.Subgraphs {
		name, _ := sd.Attributes[graph.NameAttribute].(string)
		if err := d.tree(g.AddSubgraph(name), sd, false); err != nil {
			return err
		}
	}
	return nil
}

// values sets attributes and properties once every graph id is known.
func (d *decoder) values(g *graph.Graph, gd graphDoc) error {
	for name, v := range gd.Attributes {
		g.SetAttribute(name, v)
	}
	for _, pd := range gd.Properties {
		if err := d.property(g, pd); err != nil {
			return fmt.Errorf("property %q: %w", pd.Name, err)
		}
	}
	subs := g.Subgraphs()
	for i, sd := range gd.Subgraphs {
		if err := d.values(subs[i], sd); err != nil {
			return err
		}
	}
	return nil
}

func (d *decoder) property(g *graph.Graph, pd propDoc) error {
	p, err := graph.LocalPropertyOfKind(g, pd.Name, pd.Kind)
	if err != nil {
		return err
	}
	value := func(s string) string { return s }
	if pd.Kind == graph.KindGraphRef {
		value = d.graphRef
	}
	if err := p.SetAllNodeString(value(pd.NodeDefault)); err != nil {
		return err
	}
	if err := p.SetAllEdgeString(value(pd.EdgeDefault)); err != nil {
		return err
	}
	for id, s := range pd.Nodes {
		n, ok := d.nodes[id]
		if !ok {
			return errs.New(errs.ErrCodeInvalidFormat, "value for unknown node %d", id)
		}
		if err := p.SetNodeString(n, value(s)); err != nil {
			return err
		}
	}
	for id, s := range pd.Edges {
		e, ok := d.edges[id]
		if !ok {
			return errs.New(errs.ErrCodeInvalidFormat, "value for unknown edge %d", id)
		}
		if err := p.SetEdgeString(e, value(s)); err != nil {
			return err
		}
	}
	return nil
}

// graphRef maps an exported graph id to the id of the imported graph.
// Unknown ids become the empty reference.
func (d *decoder) graphRef(s string) string {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return s
	}
	if mapped, ok := d.graphs[uint32(id)]; ok {
		return strconv.FormatUint(uint64(mapped), 10)
	}
	return ""
}
