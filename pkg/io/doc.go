// Package io provides JSON import and export for multigraph trees.
//
// # Overview
//
// A document captures a root graph (or a view exported as one) with its
// whole subgraph tree: element ids, edge ends, memberships, attributes and
// every property value. It is the payload stored by the snapshot package
// and served by the HTTP API.
//
// # JSON Format
//
//	{
//	  "version": 1,
//	  "nodes": [0, 1, 2],
//	  "edges": [{"id": 0, "source": 0, "target": 1}],
//	  "graph": {
//	    "id": 0,
//	    "attributes": {"name": "root"},
//	    "properties": [
//	      {"name": "weight", "kind": "double",
//	       "node_default": "0", "edge_default": "1",
//	       "edges": {"0": "2.5"}}
//	    ],
//	    "subgraphs": [
//	      {"id": 1, "nodes": [0, 1], "edges": [0],
//	       "attributes": {"name": "cluster"}}
//	    ]
//	  }
//	}
//
// Property values use the string form of their kind, the same form
// accepted by SetNodeString. Only non-default values are written. The
// optional "incidence" object maps a node id to its ordered incident
// edge ids; it is written with [WithIncidence].
//
// # Import
//
// Use [ImportJSON] to read a file, [ReadJSON] to read any io.Reader or
// [Unmarshal] for a byte slice:
//
//	g, err := io.ImportJSON("graph.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Structural problems (unknown ids, duplicates, bad values) are reported
// as INVALID_FORMAT errors naming the element that caused them.
//
// # Export
//
// Use [ExportJSON], [WriteJSON] or [Marshal]. Export does not modify the
// graph and does not open a checkpoint.
package io
