package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/multigraph/pkg/errors"
)

func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the effective configuration",
	}
	cmd.AddCommand(c.configShowCommand())
	return cmd
}

// configShowCommand prints the configuration after file and environment
// overrides were applied.
func (c *CLI) configShowCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				out string
				err error
			)
			switch format {
			case "toml":
				out, err = c.cfg.TOML()
			case "yaml":
				out, err = c.cfg.YAML()
			default:
				return errs.New(errs.ErrCodeInvalidInput, "unknown format %q (want toml or yaml)", format)
			}
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "toml", "output format: toml or yaml")
	return cmd
}
