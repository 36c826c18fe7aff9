package snapshot

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	errs "github.com/matzehuels/multigraph/pkg/errors"
	"github.com/matzehuels/multigraph/pkg/observability"
)

// Backend names.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendBadger = "badger"
	BackendNull   = "null"
)

// Config selects and configures a backend.
type Config struct {
	Backend       string        `toml:"backend" yaml:"backend"`
	Dir           string        `toml:"dir" yaml:"dir"`
	RedisAddr     string        `toml:"redis_addr" yaml:"redis_addr"`
	MongoURI      string        `toml:"mongo_uri" yaml:"mongo_uri"`
	MongoDatabase string        `toml:"mongo_database" yaml:"mongo_database"`
	BadgerDir     string        `toml:"badger_dir" yaml:"badger_dir"`
	TTL           time.Duration `toml:"ttl" yaml:"ttl"`
}

// Option configures [Open].
type Option func(*openOptions)

type openOptions struct {
	hooks  observability.StoreHooks
	logger *log.Logger
}

// WithHooks reports every store operation to h.
func WithHooks(h observability.StoreHooks) Option {
	return func(o *openOptions) { o.hooks = h }
}

// WithLogger logs store operations at debug level.
func WithLogger(l *log.Logger) Option {
	return func(o *openOptions) { o.logger = l }
}

// Open creates the backend named by cfg.Backend, wrapped so that hooks
// and logging see every operation.
func Open(ctx context.Context, cfg Config, opts ...Option) (Store, error) {
	o := openOptions{hooks: observability.NoopStoreHooks{}, logger: log.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	var (
		st  Store
		err error
	)
	switch cfg.Backend {
	case BackendFile, "":
		cfg.Backend = BackendFile
		st, err = NewFileStore(cfg.Dir, cfg.TTL)
	case BackendRedis:
		st, err = NewRedisStore(ctx, cfg.RedisAddr, cfg.TTL)
	case BackendMongo:
		st, err = NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.TTL)
	case BackendBadger:
		st, err = NewBadgerStore(cfg.BadgerDir, cfg.TTL)
	case BackendNull:
		st = NullStore{}
	default:
		return nil, errs.New(errs.ErrCodeInvalidInput, "unknown snapshot backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	o.logger.Debug("snapshot store opened", "backend", cfg.Backend)
	return Instrument(st, cfg.Backend, o.hooks, o.logger), nil
}

// Instrument wraps st so that every operation is reported to hooks and
// logged under the backend name.
func Instrument(st Store, backend string, hooks observability.StoreHooks, logger *log.Logger) Store {
	if hooks == nil {
		hooks = observability.NoopStoreHooks{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &instrumented{Store: st, backend: backend, hooks: hooks, logger: logger}
}

type instrumented struct {
	Store
	backend string
	hooks   observability.StoreHooks
	logger  *log.Logger
}

func (s *instrumented) Save(ctx context.Context, snap *Snapshot) error {
	start := time.Now()
	err := s.Store.Save(ctx, snap)
	s.hooks.OnSave(ctx, s.backend, len(snap.Data), time.Since(start), err)
	s.logger.Debug("snapshot saved", "backend", s.backend, "id", snap.ID, "name", snap.Name, "bytes", len(snap.Data), "err", err)
	return err
}

func (s *instrumented) Load(ctx context.Context, id uuid.UUID) (*Snapshot, error) {
	start := time.Now()
	snap, err := s.Store.Load(ctx, id)
	hit, hookErr := err == nil, err
	if errs.Is(err, errs.ErrCodeNotFound) {
		hookErr = nil
	}
	s.hooks.OnLoad(ctx, s.backend, hit, time.Since(start), hookErr)
	s.logger.Debug("snapshot loaded", "backend", s.backend, "id", id, "hit", hit, "err", err)
	return snap, err
}

func (s *instrumented) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.Store.Delete(ctx, id)
	s.hooks.OnDelete(ctx, s.backend, err)
	s.logger.Debug("snapshot deleted", "backend", s.backend, "id", id, "err", err)
	return err
}

// Unwrap returns the wrapped backend.
func (s *instrumented) Unwrap() Store { return s.Store }

// Unwrap returns the backend below any instrumentation.
func Unwrap(st Store) Store {
	for {
		u, ok := st.(interface{ Unwrap() Store })
		if !ok {
			return st
		}
		st = u.Unwrap()
	}
}
