package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/multigraph/pkg/graph"
)

// Options configures DOT generation.
type Options struct {
	// Label names a property whose string form labels nodes and edges.
	// Elements holding the default value fall back to their id.
	Label string
	// Color names a color property used as node fill and edge color.
	Color string
	// Clusters draws every subgraph as a nested cluster.
	Clusters bool
}

// ToDOT converts g to Graphviz DOT source. The resulting string can be
// rendered using [RenderSVG].
//
// A missing Label or Color property is ignored; a Color property of
// another kind is a PROPERTY_TYPE error.
func ToDOT(g *graph.Graph, opts Options) (string, error) {
	var label graph.PropertyInterface
	if opts.Label != "" {
		label = g.Property(opts.Label)
	}
	var color *graph.Property[graph.Color]
	if opts.Color != "" && g.ExistProperty(opts.Color) {
		p, err := graph.GetProperty(g, opts.Color, graph.ColorType)
		if err != nil {
			return "", err
		}
		color = p
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	if name := g.Name(); name != "" {
		fmt.Fprintf(&buf, "  label=%q;\n", name)
	}
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		attrs := []string{fmt.Sprintf("label=%q", nodeLabel(label, n))}
		if color != nil {
			attrs = append(attrs, fmt.Sprintf("fillcolor=%q", hex(color.NodeValue(n))))
		}
		fmt.Fprintf(&buf, "  %d [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	if opts.Clusters {
		for _, sg := range g.Subgraphs() {
			writeCluster(&buf, sg, 1)
		}
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		end := g.Ends(e)
		var attrs []string
		if label != nil && label.HasEdgeValue(e) {
			attrs = append(attrs, fmt.Sprintf("label=%q", label.EdgeString(e)))
		}
		if color != nil {
			attrs = append(attrs, fmt.Sprintf("color=%q", hex(color.EdgeValue(e))))
		}
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %d -> %d;\n", end.Source.ID, end.Target.ID)
			continue
		}
		fmt.Fprintf(&buf, "  %d -> %d [%s];\n", end.Source.ID, end.Target.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

func writeCluster(buf *bytes.Buffer, sg *graph.Graph, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(buf, "%ssubgraph cluster_%d {\n", indent, sg.ID())
	name := sg.Name()
	if name == "" {
		name = fmt.Sprintf("graph %d", sg.ID())
	}
	fmt.Fprintf(buf, "%s  label=%q;\n", indent, name)
	fmt.Fprintf(buf, "%s  style=dashed;\n", indent)
	for _, n := range sg.Nodes() {
		fmt.Fprintf(buf, "%s  %d;\n", indent, n.ID)
	}
	for _, c := range sg.Subgraphs() {
		writeCluster(buf, c, depth+1)
	}
	fmt.Fprintf(buf, "%s}\n", indent)
}

func nodeLabel(p graph.PropertyInterface, n graph.Node) string {
	if p != nil && p.HasNodeValue(n) {
		return p.NodeString(n)
	}
	return strconv.FormatUint(uint64(n.ID), 10)
}

func hex(c graph.Color) string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c[0], c[1], c[2], c[3])
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element to a zero-origin viewBox
// with matching pixel size.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
