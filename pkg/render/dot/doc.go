// Package dot renders graphs as Graphviz node-link diagrams.
//
// # Usage
//
// Convert a graph (or any view) to DOT source, then render to SVG:
//
//	src, err := dot.ToDOT(g, dot.Options{Label: "name", Clusters: true})
//	svg, err := dot.RenderSVG(ctx, src)
//
// # Options
//
//   - Label: property whose values label nodes and edges
//   - Color: color property used for node fill and edge stroke
//   - Clusters: draw subgraphs as nested dashed clusters
//
// Nodes are identified by their numeric id, so the DOT source can be
// matched back to the graph. Self-loops and parallel edges are emitted
// as they are stored.
//
// # Dependencies
//
// SVG rendering uses [github.com/goccy/go-graphviz] in process; no
// external Graphviz installation is needed.
package dot
