package cli

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/multigraph/pkg/graph"
	"github.com/matzehuels/multigraph/pkg/graph/algo"
)

// degreeProperty is the scratch property inspect writes degrees into. It
// is removed before the command returns.
const degreeProperty = "inspect.degree"

type inspectOptions struct {
	layout string
	size   string
	bends  string
}

func (c *CLI) inspectCommand() *cobra.Command {
	var opts inspectOptions

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Print statistics, degrees and acyclicity of a graph",
		Long: `Inspect loads a graph document and prints its element counts, the
subgraph tree, per-node degrees, connectivity and acyclicity. When the
graph has a coord property named by --layout its bounding box is printed
too.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := c.loadGraph(args[0])
			if err != nil {
				return err
			}
			defer g.Destroy()
			return c.inspect(cmd, g, opts)
		},
	}

	cmd.Flags().StringVar(&opts.layout, "layout", "layout", "coord property holding node positions")
	cmd.Flags().StringVar(&opts.size, "size", "size", "size property holding node extents")
	cmd.Flags().StringVar(&opts.bends, "bends", "bends", "coordlist property holding edge bends")
	return cmd
}

func (c *CLI) inspect(cmd *cobra.Command, g *graph.Graph, opts inspectOptions) error {
	ctx := cmd.Context()
	w := cmd.OutOrStdout()
	pool := c.newPool()

	name := g.Name()
	if name == "" {
		name = "(unnamed)"
	}
	fmt.Fprintln(w, StyleTitle.Render(name))
	printStats(w, g.NumberOfNodes(), g.NumberOfEdges(), g.HistoryDepth())
	fmt.Fprintln(w)

	acyclic, obstructions := algo.AcyclicTest(g)
	printKeyValue(w, "Subgraphs", strconv.Itoa(g.NumberOfDescendantGraphs()))
	printKeyValue(w, "Components", strconv.Itoa(len(algo.ConnectedComponents(g))))
	printKeyValue(w, "Acyclic", strconv.FormatBool(acyclic))
	if !acyclic {
		printKeyValue(w, "Back edges", edgeList(obstructions))
	}
	simple, loops, multi := algo.SimpleTest(g)
	printKeyValue(w, "Simple", strconv.FormatBool(simple))
	if len(loops) > 0 {
		printKeyValue(w, "Loops", edgeList(loops))
	}
	if len(multi) > 0 {
		printKeyValue(w, "Multi-edges", edgeList(multi))
	}
	for _, p := range g.Properties() {
		printKeyValue(w, "Property", fmt.Sprintf("%s (%s)", p.Name(), p.Kind()))
	}
	fmt.Fprintln(w)

	if g.NumberOfNodes() > 0 {
		if err := c.degreeTable(ctx, w, g); err != nil {
			return err
		}
	}

	layout, err := lookup(g, opts.layout, graph.CoordType)
	if err != nil || layout == nil {
		return err
	}
	size, err := lookup(g, opts.size, graph.SizeType)
	if err != nil {
		return err
	}
	bends, err := lookup(g, opts.bends, graph.CoordList)
	if err != nil {
		return err
	}
	box, err := algo.BoundingBox(ctx, pool, g, layout, size, bends)
	if err != nil {
		return err
	}
	if box.IsEmpty() {
		printKeyValue(w, "Bounding box", "empty")
		return nil
	}
	printKeyValue(w, "Bounding box", fmt.Sprintf("(%g, %g, %g) to (%g, %g, %g)",
		box.Min[0], box.Min[1], box.Min[2], box.Max[0], box.Max[1], box.Max[2]))
	return nil
}

// degreeTable prints in, out and total degree per node, highest first.
func (c *CLI) degreeTable(ctx context.Context, w io.Writer, g *graph.Graph) error {
	pool := c.newPool()

	deg, err := graph.LocalProperty(g, degreeProperty, graph.Double)
	if err != nil {
		return err
	}
	defer g.DelLocalProperty(degreeProperty)

	if err := algo.DegreeMetric(ctx, pool, g, algo.InOut, true, deg); err != nil {
		return err
	}

	nodes := g.Nodes()
	slices.SortStableFunc(nodes, func(a, b graph.Node) int { return deg.CompareNodes(b, a) })
	if len(nodes) > 10 {
		nodes = nodes[:10]
	}
	rows := make([][]string, 0, len(nodes))
	for _, n := range nodes {
		rows = append(rows, []string{
			n.String(),
			strconv.Itoa(g.Indeg(n)),
			strconv.Itoa(g.Outdeg(n)),
			strconv.Itoa(g.Deg(n)),
			strconv.FormatFloat(deg.NodeValue(n), 'f', 3, 64),
		})
	}
	printTable(w, []string{"Node", "In", "Out", "Deg", "Norm"}, rows)
	return nil
}

// lookup returns the property called name when g defines one, or nil.
func lookup[T any](g *graph.Graph, name string, vt graph.ValueType[T]) (*graph.Property[T], error) {
	if name == "" || !g.ExistProperty(name) {
		return nil, nil
	}
	return graph.GetProperty(g, name, vt)
}
