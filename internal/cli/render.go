package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/multigraph/pkg/errors"
	"github.com/matzehuels/multigraph/pkg/render/dot"
)

func (c *CLI) renderCommand() *cobra.Command {
	var (
		output string
		opts   dot.Options
	)

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a graph document to DOT or SVG",
		Long: `Render writes a graph document as Graphviz DOT, or as SVG when the
output path ends in .svg. Without --output DOT is written to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := c.loadGraph(args[0])
			if err != nil {
				return err
			}
			defer g.Destroy()

			src, err := dot.ToDOT(g, opts)
			if err != nil {
				return err
			}
			if output == "" {
				fmt.Fprint(cmd.OutOrStdout(), src)
				return nil
			}

			data := []byte(src)
			switch ext := strings.ToLower(filepath.Ext(output)); ext {
			case ".dot", ".gv":
			case ".svg":
				prog := newProgress(c.Logger)
				if data, err = dot.RenderSVG(cmd.Context(), src); err != nil {
					return err
				}
				prog.done("Rendered SVG")
			default:
				return errs.New(errs.ErrCodeInvalidInput, "unsupported output format %q", ext)
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			printSuccess(cmd.OutOrStdout(), "Rendered %d nodes and %d edges", g.NumberOfNodes(), g.NumberOfEdges())
			printFile(cmd.OutOrStdout(), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.dot, .gv or .svg)")
	cmd.Flags().StringVar(&opts.Label, "label", "", "property used as node and edge label")
	cmd.Flags().StringVar(&opts.Color, "color", "", "color property used for fills and strokes")
	cmd.Flags().BoolVar(&opts.Clusters, "clusters", false, "draw subgraphs as clusters")
	return cmd
}
