package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/multigraph/pkg/errors"
	"github.com/matzehuels/multigraph/pkg/graph"
	mio "github.com/matzehuels/multigraph/pkg/io"
)

// demoCommand walks through editing, checkpoints and incidence order on a
// small graph, printing the state after each step.
func (c *CLI) demoCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the undo/redo walkthrough",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g := c.newGraph()
			defer g.Destroy()

			if err := runDemo(cmd.OutOrStdout(), g); err != nil {
				return err
			}
			if output == "" {
				return nil
			}
			if err := mio.ExportJSON(g, output); err != nil {
				return err
			}
			printFile(cmd.OutOrStdout(), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the final graph as JSON")
	return cmd
}

// runDemo drives g through the walkthrough. g must be empty.
func runDemo(w io.Writer, g *graph.Graph) error {
	fmt.Fprintln(w, StyleTitle.Render("Checkpoints"))

	n := g.AddNodes(3)
	if _, err := g.AddEdges([]graph.Ends{{Source: n[0], Target: n[1]}, {Source: n[1], Target: n[2]}}); err != nil {
		return err
	}
	weight, err := graph.LocalProperty(g, "weight", graph.Double)
	if err != nil {
		return err
	}
	state := func(step string) {
		printInfo(w, "%s", step)
		printStats(w, g.NumberOfNodes(), g.NumberOfEdges(), g.HistoryDepth())
		printDetail(w, "weight(%s) = %s", n[0], weight.NodeString(n[0]))
	}
	state("built path n0 → n1 → n2")

	g.Push()
	if err := g.DelNode(n[1], true); err != nil {
		return err
	}
	weight.SetNodeValue(n[0], 1)
	state("push, delete n1, set weight")

	if _, err := g.Pop(); err != nil {
		return err
	}
	state("pop")

	if err := g.Unpop(); err != nil {
		return err
	}
	state("unpop")

	if _, err := g.Pop(); err != nil {
		return err
	}
	state("pop again")

	fmt.Fprintln(w)
	fmt.Fprintln(w, StyleTitle.Render("Incidence order"))

	hub := g.AddNode()
	e := make([]graph.Edge, 3)
	for i := range e {
		if e[i], err = g.AddEdge(hub, n[i]); err != nil {
			return err
		}
	}
	printInfo(w, "hub %s: %s", hub, edgeList(g.Incident(hub)))

	if err := g.SwapEdgeOrder(hub, e[0], e[2]); err != nil {
		return err
	}
	printInfo(w, "swap first and last: %s", edgeList(g.Incident(hub)))

	if err := g.SetEdgeOrder(hub, []graph.Edge{e[1], e[0], e[2]}); err != nil {
		return err
	}
	printInfo(w, "set order: %s", edgeList(g.Incident(hub)))

	err = g.SetEdgeOrder(hub, []graph.Edge{e[0], e[2]})
	if !errs.Is(err, errs.ErrCodeInvalidOrder) {
		return fmt.Errorf("incomplete order accepted: %v", err)
	}
	printWarning(w, "incomplete order rejected")

	fmt.Fprintln(w)
	fmt.Fprintln(w, StyleTitle.Render("Empty checkpoint"))

	g.Push()
	printInfo(w, "push without changes, depth %d", g.HistoryDepth())
	printSuccess(w, "pop if no updates: %t, depth %d", g.PopIfNoUpdates(), g.HistoryDepth())
	return nil
}

func edgeList(edges []graph.Edge) string {
	parts := make([]string, len(edges))
	for i, e := range edges {
		parts[i] = fmt.Sprintf("e%d", e.ID)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
