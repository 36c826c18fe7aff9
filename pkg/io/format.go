package io

import "github.com/matzehuels/multigraph/pkg/graph"

// FormatVersion is written to every document and checked on import.
const FormatVersion = 1

type document struct {
	Version   int                 `json:"version"`
	Nodes     []uint32            `json:"nodes"`
	Edges     []edgeDoc           `json:"edges"`
	Incidence map[uint32][]uint32 `json:"incidence,omitempty"`
	Graph     graphDoc            `json:"graph"`
}

type edgeDoc struct {
	ID     uint32 `json:"id"`
	Source uint32 `json:"source"`
	Target uint32 `json:"target"`
}

type graphDoc struct {
	ID         uint32         `json:"id"`
	Nodes      []uint32       `json:"nodes,omitempty"`
	Edges      []uint32       `json:"edges,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty"`
	Properties []propDoc      `json:"properties,omitempty"`
	Subgraphs  []graphDoc     `json:"subgraphs,omitempty"`
}

type propDoc struct {
	Name        string            `json:"name"`
	Kind        graph.Kind        `json:"kind"`
	NodeDefault string            `json:"node_default"`
	EdgeDefault string            `json:"edge_default"`
	Nodes       map[uint32]string `json:"nodes,omitempty"`
	Edges       map[uint32]string `json:"edges,omitempty"`
}
