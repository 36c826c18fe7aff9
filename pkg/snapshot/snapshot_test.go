package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/matzehuels/multigraph/pkg/errors"
	"github.com/matzehuels/multigraph/pkg/graph"
)

func sampleGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	n := g.AddNodes(3)
	_, err := g.AddEdge(n[0], n[1])
	require.NoError(t, err)
	_, err = g.AddEdge(n[1], n[2])
	require.NoError(t, err)
	sg := g.AddSubgraph("pair")
	require.NoError(t, sg.AddExistingNodes(n[:2]))
	return g
}

func sampleSnapshot(t *testing.T, name string) *Snapshot {
	t.Helper()
	s, err := New(sampleGraph(t), name)
	require.NoError(t, err)
	return s
}

// exerciseStore runs the behaviour every backend shares.
func exerciseStore(t *testing.T, st Store) {
	t.Helper()
	ctx := context.Background()

	a := sampleSnapshot(t, "first")
	b := sampleSnapshot(t, "second")
	b.CreatedAt = a.CreatedAt.Add(time.Second)

	require.NoError(t, st.Save(ctx, b))
	require.NoError(t, st.Save(ctx, a))

	got, err := st.Load(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.Name, got.Name)
	assert.Equal(t, a.Nodes, got.Nodes)
	assert.JSONEq(t, string(a.Data), string(got.Data))

	g, err := got.Graph()
	require.NoError(t, err)
	assert.Equal(t, 3, g.NumberOfNodes())
	assert.Equal(t, 2, g.NumberOfEdges())
	require.NotNil(t, g.SubgraphByName("pair"))

	list, err := st.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, a.ID, list[0].ID)
	assert.Equal(t, b.ID, list[1].ID)
	assert.Empty(t, list[0].Data)

	require.NoError(t, st.Delete(ctx, a.ID))
	_, err = st.Load(ctx, a.ID)
	assert.True(t, errs.Is(err, errs.ErrCodeNotFound), "err = %v", err)
	require.NoError(t, st.Delete(ctx, a.ID))

	_, err = st.Load(ctx, uuid.New())
	assert.True(t, errs.Is(err, errs.ErrCodeNotFound))
}

func TestFileStore(t *testing.T) {
	st, err := NewFileStore(t.TempDir(), 0)
	require.NoError(t, err)
	defer st.Close()
	exerciseStore(t, st)
}

func TestFileStoreLayout(t *testing.T) {
	dir := t.TempDir()
	st, err := NewFileStore(dir, 0)
	require.NoError(t, err)

	snap := sampleSnapshot(t, "layout")
	require.NoError(t, st.Save(context.Background(), snap))

	hash := Hash([]byte(snap.ID.String()))
	want := filepath.Join(dir, hash[:2], hash[2:]+".json")
	assert.Equal(t, want, st.Path(snap.ID))
	_, err = os.Stat(want)
	assert.NoError(t, err)
}

func TestFileStoreCorruptEntry(t *testing.T) {
	st, err := NewFileStore(t.TempDir(), 0)
	require.NoError(t, err)
	id := uuid.New()
	path := st.Path(id)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err = st.Load(context.Background(), id)
	assert.True(t, errs.Is(err, errs.ErrCodeNotFound))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "corrupt entry should be removed")
}

func TestFileStoreTTL(t *testing.T) {
	st, err := NewFileStore(t.TempDir(), time.Millisecond)
	require.NoError(t, err)
	ctx := context.Background()
	snap := sampleSnapshot(t, "short")
	require.NoError(t, st.Save(ctx, snap))

	time.Sleep(20 * time.Millisecond)
	_, err = st.Load(ctx, snap.ID)
	assert.True(t, errs.Is(err, errs.ErrCodeNotFound))
	list, err := st.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestBadgerStore(t *testing.T) {
	st, err := NewBadgerStore("", 0)
	require.NoError(t, err)
	defer st.Close()
	exerciseStore(t, st)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("MGRAPH_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("MGRAPH_TEST_REDIS_ADDR not set")
	}
	st, err := NewRedisStore(context.Background(), addr, 0)
	require.NoError(t, err)
	defer st.Close()
	exerciseStore(t, st)
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("MGRAPH_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("MGRAPH_TEST_MONGO_URI not set")
	}
	st, err := NewMongoStore(context.Background(), uri, "mgraph_test_"+uuid.NewString()[:8], 0)
	require.NoError(t, err)
	defer st.Close()
	exerciseStore(t, st)
}

func TestNullStore(t *testing.T) {
	ctx := context.Background()
	var st NullStore
	snap := sampleSnapshot(t, "null")
	require.NoError(t, st.Save(ctx, snap))
	_, err := st.Load(ctx, snap.ID)
	assert.True(t, errs.Is(err, errs.ErrCodeNotFound))
	list, err := st.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NoError(t, st.Delete(ctx, snap.ID))
}

func TestNewValidatesName(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"release-1.2", true},
		{"", false},
		{"../etc", false},
		{"a/b", false},
		{"-leading", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(graph.New(), tt.name)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.True(t, errs.Is(err, errs.ErrCodeInvalidInput), "err = %v", err)
			}
		})
	}
}

func TestSnapshotWithoutData(t *testing.T) {
	snap := sampleSnapshot(t, "x").Summary()
	_, err := snap.Graph()
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidFormat))
}

type recordingHooks struct {
	mu      sync.Mutex
	saves   int
	loads   []bool
	deletes int
	errs    []error
}

func (h *recordingHooks) OnSave(_ context.Context, backend string, size int, _ time.Duration, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.saves++
	h.errs = append(h.errs, err)
}

func (h *recordingHooks) OnLoad(_ context.Context, _ string, hit bool, _ time.Duration, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.loads = append(h.loads, hit)
	h.errs = append(h.errs, err)
}

func (h *recordingHooks) OnDelete(_ context.Context, _ string, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.deletes++
	h.errs = append(h.errs, err)
}

func TestOpenHooks(t *testing.T) {
	ctx := context.Background()
	hooks := &recordingHooks{}
	st, err := Open(ctx, Config{Backend: BackendFile, Dir: t.TempDir()},
		WithHooks(hooks), WithLogger(log.New(os.Stderr)))
	require.NoError(t, err)
	defer st.Close()

	_, ok := Unwrap(st).(*FileStore)
	assert.True(t, ok, "Unwrap should reach the file store")

	snap := sampleSnapshot(t, "hooked")
	require.NoError(t, st.Save(ctx, snap))
	_, err = st.Load(ctx, snap.ID)
	require.NoError(t, err)
	_, err = st.Load(ctx, uuid.New())
	require.Error(t, err)
	require.NoError(t, st.Delete(ctx, snap.ID))

	assert.Equal(t, 1, hooks.saves)
	assert.Equal(t, []bool{true, false}, hooks.loads)
	assert.Equal(t, 1, hooks.deletes)
	for _, e := range hooks.errs {
		assert.NoError(t, e, "a miss is not reported as an error")
	}
}

func TestOpenBackends(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		cfg     Config
		want    any
		wantErr bool
	}{
		{Config{Backend: BackendNull}, NullStore{}, false},
		{Config{Backend: BackendBadger}, &BadgerStore{}, false},
		{Config{Dir: t.TempDir()}, &FileStore{}, false},
		{Config{Backend: "etcd"}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.cfg.Backend, func(t *testing.T) {
			st, err := Open(ctx, tt.cfg)
			if tt.wantErr {
				assert.True(t, errs.Is(err, errs.ErrCodeInvalidInput))
				return
			}
			require.NoError(t, err)
			defer st.Close()
			assert.IsType(t, tt.want, Unwrap(st))
		})
	}
}
