package cli

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/multigraph/pkg/errors"
	mio "github.com/matzehuels/multigraph/pkg/io"
	"github.com/matzehuels/multigraph/pkg/snapshot"
)

// snapshotCommand creates the snapshot management command.
func (c *CLI) snapshotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Manage stored graph snapshots",
		Long: `Snapshots are named copies of a graph kept in the configured store
(file, redis, mongo, badger or null).`,
	}

	cmd.AddCommand(c.snapshotSaveCommand())
	cmd.AddCommand(c.snapshotListCommand())
	cmd.AddCommand(c.snapshotLoadCommand())
	cmd.AddCommand(c.snapshotDeleteCommand())
	cmd.AddCommand(c.snapshotPathCommand())

	return cmd
}

// withStore opens the configured store for the duration of fn.
func (c *CLI) withStore(cmd *cobra.Command, fn func(snapshot.Store) error) error {
	st, err := c.openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer st.Close()
	loggerFromContext(cmd.Context()).Debug("store opened", "backend", c.cfg.Store.Backend)
	return fn(st)
}

func (c *CLI) snapshotSaveCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "save [file]",
		Short: "Store a graph document as a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := c.loadGraph(args[0])
			if err != nil {
				return err
			}
			defer g.Destroy()

			snap, err := snapshot.New(g, name)
			if err != nil {
				return err
			}
			return c.withStore(cmd, func(st snapshot.Store) error {
				sp := newSpinner(cmd.Context(), cmd.ErrOrStderr(), "Saving snapshot...")
				if err := sp.run(func() error { return st.Save(cmd.Context(), snap) }); err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "Saved snapshot %s", snap.Name)
				printDetail(cmd.OutOrStdout(), "ID: %s", snap.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "snapshot", "snapshot name")
	return cmd
}

func (c *CLI) snapshotListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored snapshots, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd, func(st snapshot.Store) error {
				list, err := st.List(cmd.Context())
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				if len(list) == 0 {
					printInfo(w, "No snapshots stored")
					return nil
				}
				rows := make([][]string, 0, len(list))
				for _, s := range list {
					rows = append(rows, []string{
						s.ID.String(),
						s.Name,
						strconv.Itoa(s.Nodes),
						strconv.Itoa(s.Edges),
						s.CreatedAt.Local().Format("2006-01-02 15:04"),
					})
				}
				printTable(w, []string{"ID", "Name", "Nodes", "Edges", "Created"}, rows)
				return nil
			})
		},
	}
}

func (c *CLI) snapshotLoadCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "load [id]",
		Short: "Restore a snapshot as a graph document",
		Long:  `Load fetches a snapshot and writes it as JSON to --output, or to stdout.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseSnapshotID(args[0])
			if err != nil {
				return err
			}
			return c.withStore(cmd, func(st snapshot.Store) error {
				snap, err := st.Load(cmd.Context(), id)
				if err != nil {
					return err
				}
				g, err := snap.Graph(c.graphOptions()...)
				if err != nil {
					return err
				}
				defer g.Destroy()

				if output == "" {
					return mio.WriteJSON(g, cmd.OutOrStdout())
				}
				if err := mio.ExportJSON(g, output); err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "Loaded snapshot %s", snap.Name)
				printStats(cmd.OutOrStdout(), g.NumberOfNodes(), g.NumberOfEdges(), g.HistoryDepth())
				printFile(cmd.OutOrStdout(), output)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output JSON file")
	return cmd
}

func (c *CLI) snapshotDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a stored snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseSnapshotID(args[0])
			if err != nil {
				return err
			}
			return c.withStore(cmd, func(st snapshot.Store) error {
				if err := st.Delete(cmd.Context(), id); err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "Deleted snapshot %s", id)
				return nil
			})
		},
	}
}

// snapshotPathCommand prints where the file backend keeps its snapshots.
func (c *CLI) snapshotPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the snapshot directory of the file backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd, func(st snapshot.Store) error {
				fs, ok := snapshot.Unwrap(st).(*snapshot.FileStore)
				if !ok {
					return errs.New(errs.ErrCodeUnsupported, "store backend %q has no directory", c.cfg.Store.Backend)
				}
				fmt.Fprintln(cmd.OutOrStdout(), fs.Dir())
				return nil
			})
		},
	}
}

func parseSnapshotID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, errs.Wrap(errs.ErrCodeInvalidID, err, "snapshot id %q", s)
	}
	return id, nil
}
