package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/multigraph/internal/config"
	"github.com/matzehuels/multigraph/pkg/buildinfo"
	"github.com/matzehuels/multigraph/pkg/graph"
	mio "github.com/matzehuels/multigraph/pkg/io"
	"github.com/matzehuels/multigraph/pkg/observability"
	"github.com/matzehuels/multigraph/pkg/parallel"
	"github.com/matzehuels/multigraph/pkg/snapshot"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "mgraph"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        config.Config
	hooks      observability.Hooks
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
		hooks:  observability.Hooks{}.WithDefaults(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "mgraph edits and inspects attributed multigraphs",
		Long:         `mgraph is a CLI for attributed multigraphs with subgraph views, typed properties and multi-level undo.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			c.Logger.Debug("config loaded", "path", c.configPath, "store", cfg.Store.Backend, "workers", cfg.Pool())
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (.toml, .yaml or .yml)")

	root.AddCommand(c.demoCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.snapshotCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Shared Helpers
// =============================================================================

// graphOptions returns the options for every root the CLI creates.
func (c *CLI) graphOptions() []graph.Option {
	return append(c.cfg.GraphOptions(),
		graph.WithLogger(c.Logger),
		graph.WithHistoryHooks(c.hooks.History))
}

func (c *CLI) newGraph() *graph.Graph {
	return graph.New(c.graphOptions()...)
}

// loadGraph imports a JSON document, or returns an empty graph for an
// empty path.
func (c *CLI) loadGraph(path string) (*graph.Graph, error) {
	if path == "" {
		return c.newGraph(), nil
	}
	prog := newProgress(c.Logger)
	g, err := mio.ImportJSON(path, c.graphOptions()...)
	if err != nil {
		return nil, err
	}
	prog.done("Loaded " + path)
	return g, nil
}

func (c *CLI) newPool() *parallel.Pool {
	return parallel.New(c.cfg.Pool())
}

func (c *CLI) openStore(ctx context.Context) (snapshot.Store, error) {
	return snapshot.Open(ctx, c.cfg.Store,
		snapshot.WithLogger(c.Logger),
		snapshot.WithHooks(c.hooks.Store))
}
