// Package config loads mgraph configuration from TOML or YAML files and
// the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	errs "github.com/matzehuels/multigraph/pkg/errors"
	"github.com/matzehuels/multigraph/pkg/graph"
	"github.com/matzehuels/multigraph/pkg/snapshot"
)

// Environment variables that override file settings.
const (
	EnvWorkers   = "MGRAPH_WORKERS"
	EnvStore     = "MGRAPH_STORE"
	EnvRedisAddr = "MGRAPH_REDIS_ADDR"
	EnvMongoURI  = "MGRAPH_MONGO_URI"
)

// Config is the complete mgraph configuration.
type Config struct {
	// Workers bounds parallel analytic passes. Zero means one per CPU.
	Workers    int                        `toml:"workers" yaml:"workers"`
	History    HistoryConfig              `toml:"history" yaml:"history"`
	Store      snapshot.Config            `toml:"store" yaml:"store"`
	Server     ServerConfig               `toml:"server" yaml:"server"`
	Properties map[string]PropertyDefault `toml:"properties" yaml:"properties"`
}

// HistoryConfig configures undo history.
type HistoryConfig struct {
	MaxCheckpoints int `toml:"max_checkpoints" yaml:"max_checkpoints"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `toml:"addr" yaml:"addr"`
}

// PropertyDefault gives the kind and default values of properties created
// under one name. Values use the string form of the kind.
type PropertyDefault struct {
	Kind graph.Kind `toml:"kind" yaml:"kind"`
	Node string     `toml:"node" yaml:"node"`
	Edge string     `toml:"edge" yaml:"edge"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		History: HistoryConfig{MaxCheckpoints: graph.DefaultMaxCheckpoints},
		Store: snapshot.Config{
			Backend:       snapshot.BackendFile,
			Dir:           defaultStoreDir(),
			RedisAddr:     "localhost:6379",
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: "mgraph",
			TTL:           0,
		},
		Server: ServerConfig{Addr: "127.0.0.1:8080"},
	}
}

func defaultStoreDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "mgraph", "snapshots")
	}
	return filepath.Join(os.TempDir(), "mgraph", "snapshots")
}

// Load reads the file at path over the defaults, applies environment
// overrides and validates the result. An empty path skips the file. The
// format follows the extension: .toml, .yaml or .yml.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(data, c); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidFormat, err, "parse %s", path)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidFormat, err, "parse %s", path)
		}
	default:
		return errs.New(errs.ErrCodeInvalidFormat, "unsupported config format %q", ext)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvWorkers); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errs.Wrap(errs.ErrCodeInvalidInput, err, "%s", EnvWorkers)
		}
		c.Workers = n
	}
	if v, ok := lookup(EnvStore); ok {
		c.Store.Backend = v
	}
	if v, ok := lookup(EnvRedisAddr); ok {
		c.Store.RedisAddr = v
	}
	if v, ok := lookup(EnvMongoURI); ok {
		c.Store.MongoURI = v
	}
	return nil
}

// Validate checks ranges, the store backend and every property default.
func (c Config) Validate() error {
	if c.Workers < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "workers must not be negative, got %d", c.Workers)
	}
	if c.History.MaxCheckpoints < 1 {
		return errs.New(errs.ErrCodeInvalidInput, "history.max_checkpoints must be at least 1, got %d", c.History.MaxCheckpoints)
	}
	if c.Store.TTL < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "store.ttl must not be negative, got %s", c.Store.TTL)
	}
	switch c.Store.Backend {
	case snapshot.BackendFile:
		if c.Store.Dir == "" {
			return errs.New(errs.ErrCodeInvalidInput, "store.dir is required for the file backend")
		}
	case snapshot.BackendRedis:
		if c.Store.RedisAddr == "" {
			return errs.New(errs.ErrCodeInvalidInput, "store.redis_addr is required for the redis backend")
		}
	case snapshot.BackendMongo:
		if c.Store.MongoURI == "" || c.Store.MongoDatabase == "" {
			return errs.New(errs.ErrCodeInvalidInput, "store.mongo_uri and store.mongo_database are required for the mongo backend")
		}
	case snapshot.BackendBadger, snapshot.BackendNull:
	default:
		return errs.New(errs.ErrCodeInvalidInput, "unknown store backend %q", c.Store.Backend)
	}
	for name, p := range c.Properties {
		if err := p.validate(name); err != nil {
			return err
		}
	}
	return nil
}

// validate parses the non-empty defaults with a scratch property of the
// kind.
func (p PropertyDefault) validate(name string) error {
	if err := errs.ValidateName(name); err != nil {
		return fmt.Errorf("properties.%s: %w", name, err)
	}
	prop, err := graph.LocalPropertyOfKind(graph.New(), name, p.Kind)
	if err != nil {
		return fmt.Errorf("properties.%s: %w", name, err)
	}
	if p.Node != "" {
		if err := prop.SetAllNodeString(p.Node); err != nil {
			return fmt.Errorf("properties.%s.node: %w", name, err)
		}
	}
	if p.Edge != "" {
		if err := prop.SetAllEdgeString(p.Edge); err != nil {
			return fmt.Errorf("properties.%s.edge: %w", name, err)
		}
	}
	return nil
}

// Pool returns the number of workers to use.
func (c Config) Pool() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}

// GraphDefaults converts the property table for graph.WithDefaults.
func (c Config) GraphDefaults() graph.Defaults {
	if len(c.Properties) == 0 {
		return nil
	}
	d := make(graph.Defaults, len(c.Properties))
	for name, p := range c.Properties {
		d[name] = graph.DefaultValues{Node: p.Node, Edge: p.Edge}
	}
	return d
}

// GraphOptions returns the graph options implied by c.
func (c Config) GraphOptions() []graph.Option {
	opts := []graph.Option{graph.WithMaxCheckpoints(c.History.MaxCheckpoints)}
	if d := c.GraphDefaults(); d != nil {
		opts = append(opts, graph.WithDefaults(d))
	}
	return opts
}

// TOML renders c as a TOML document.
func (c Config) TOML() (string, error) {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(c); err != nil {
		return "", fmt.Errorf("encode: %w", err)
	}
	return b.String(), nil
}

// YAML renders c as a YAML document.
func (c Config) YAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encode: %w", err)
	}
	return string(data), nil
}
