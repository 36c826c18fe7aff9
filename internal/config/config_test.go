package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/matzehuels/multigraph/pkg/errors"
	"github.com/matzehuels/multigraph/pkg/graph"
	"github.com/matzehuels/multigraph/pkg/snapshot"
)

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func clearEnv(t *testing.T) {
	for _, k := range []string{EnvWorkers, EnvStore, EnvRedisAddr, EnvMongoURI} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, graph.DefaultMaxCheckpoints, cfg.History.MaxCheckpoints)
	assert.Equal(t, snapshot.BackendFile, cfg.Store.Backend)
	assert.NotEmpty(t, cfg.Store.Dir)
	assert.Positive(t, cfg.Pool())
}

func TestLoadTOML(t *testing.T) {
	clearEnv(t)
	path := write(t, "mgraph.toml", `
workers = 4

[history]
max_checkpoints = 3

[store]
backend = "badger"
ttl = "2h"

[server]
addr = ":9000"

[properties.weight]
kind = "double"
node = "1.5"
edge = "2"

[properties.color]
kind = "color"
node = "(255,0,0,255)"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 4, cfg.Pool())
	assert.Equal(t, 3, cfg.History.MaxCheckpoints)
	assert.Equal(t, snapshot.BackendBadger, cfg.Store.Backend)
	assert.Equal(t, 2*time.Hour, cfg.Store.TTL)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "mgraph", cfg.Store.MongoDatabase, "unset keys keep defaults")
	require.Len(t, cfg.Properties, 2)
	assert.Equal(t, graph.KindDouble, cfg.Properties["weight"].Kind)
}

func TestLoadYAML(t *testing.T) {
	clearEnv(t)
	path := write(t, "mgraph.yaml", `
workers: 2
history:
  max_checkpoints: 7
store:
  backend: redis
  redis_addr: cache:6379
  ttl: 30m
properties:
  label:
    kind: string
    node: unnamed
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, 7, cfg.History.MaxCheckpoints)
	assert.Equal(t, "cache:6379", cfg.Store.RedisAddr)
	assert.Equal(t, 30*time.Minute, cfg.Store.TTL)
	assert.Equal(t, "unnamed", cfg.Properties["label"].Node)
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvWorkers, "6")
	t.Setenv(EnvStore, "mongo")
	t.Setenv(EnvMongoURI, "mongodb://db:27017")
	t.Setenv(EnvRedisAddr, "r:1")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Workers)
	assert.Equal(t, snapshot.BackendMongo, cfg.Store.Backend)
	assert.Equal(t, "mongodb://db:27017", cfg.Store.MongoURI)
	assert.Equal(t, "r:1", cfg.Store.RedisAddr)

	t.Setenv(EnvWorkers, "many")
	_, err = Load("")
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidInput))
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name    string
		file    string
		content string
		code    errs.Code
	}{
		{"bad extension", "mgraph.ini", "workers=1", errs.ErrCodeInvalidFormat},
		{"bad toml", "mgraph.toml", "workers = [", errs.ErrCodeInvalidFormat},
		{"bad yaml", "mgraph.yaml", "workers: [", errs.ErrCodeInvalidFormat},
		{"negative workers", "mgraph.toml", "workers = -1", errs.ErrCodeInvalidInput},
		{"zero checkpoints", "mgraph.toml", "[history]\nmax_checkpoints = 0", errs.ErrCodeInvalidInput},
		{"unknown backend", "mgraph.toml", "[store]\nbackend = \"etcd\"", errs.ErrCodeInvalidInput},
		{"unknown kind", "mgraph.toml", "[properties.x]\nkind = \"matrix\"", errs.ErrCodeInvalidInput},
		{"bad default", "mgraph.toml", "[properties.x]\nkind = \"int\"\nnode = \"ten\"", errs.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(write(t, tt.file, tt.content))
			require.Error(t, err)
			assert.True(t, errs.Is(err, tt.code), "err = %v, want %s", err, tt.code)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestGraphOptions(t *testing.T) {
	cfg := Default()
	cfg.History.MaxCheckpoints = 2
	cfg.Properties = map[string]PropertyDefault{
		"weight": {Kind: graph.KindDouble, Node: "1.5", Edge: "3"},
	}
	require.NoError(t, cfg.Validate())

	g := graph.New(cfg.GraphOptions()...)
	w, err := graph.LocalProperty(g, "weight", graph.Double)
	require.NoError(t, err)
	assert.Equal(t, 1.5, w.NodeDefault())
	assert.Equal(t, 3.0, w.EdgeDefault())

	for range 5 {
		g.Push()
		g.AddNode()
	}
	assert.Equal(t, 2, g.HistoryDepth())
}

func TestRender(t *testing.T) {
	cfg := Default()
	out, err := cfg.TOML()
	require.NoError(t, err)
	assert.Contains(t, out, "[store]")
	out, err = cfg.YAML()
	require.NoError(t, err)
	assert.Contains(t, out, "max_checkpoints:")
}
