package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// FileStore keeps one JSON file per snapshot under a directory, sharded
// by the first two hex characters of the hashed id.
type FileStore struct {
	mu  sync.RWMutex
	dir string
	ttl time.Duration
}

// NewFileStore creates a file store in dir, creating the directory if
// needed. A positive ttl expires snapshots that long after they are saved.
func NewFileStore(dir string, ttl time.Duration) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}
	return &FileStore{dir: dir, ttl: ttl}, nil
}

// fileEntry wraps a snapshot with its expiration.
type fileEntry struct {
	Snapshot  *Snapshot `json:"snapshot"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (e fileEntry) expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

// Dir returns the store directory.
func (s *FileStore) Dir() string { return s.dir }

// Save writes s, replacing a snapshot with the same id.
func (s *FileStore) Save(ctx context.Context, snap *Snapshot) error {
	entry := fileEntry{Snapshot: snap}
	if s.ttl > 0 {
		entry.ExpiresAt = time.Now().Add(s.ttl)
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	path := s.path(snap.ID)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	return os.Rename(tmp, path)
}

// Load reads the snapshot with the given id.
func (s *FileStore) Load(ctx context.Context, id uuid.UUID) (*Snapshot, error) {
	s.mu.RLock()
	entry, ok, err := s.read(s.path(id))
	s.mu.RUnlock()
	if err != nil {
		return nil, err
	}
	if !ok || entry.Snapshot.ID != id {
		return nil, notFound(id)
	}
	return entry.Snapshot, nil
}

// read returns the entry at path. Unreadable and expired entries are
// removed and reported as misses.
func (s *FileStore) read(path string) (fileEntry, bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return fileEntry{}, false, nil
	}
	if err != nil {
		return fileEntry{}, false, fmt.Errorf("read %s: %w", path, err)
	}
	var entry fileEntry
	if err := json.Unmarshal(data, &entry); err != nil || entry.Snapshot == nil {
		_ = os.Remove(path)
		return fileEntry{}, false, nil
	}
	if entry.expired(time.Now()) {
		_ = os.Remove(path)
		return fileEntry{}, false, nil
	}
	return entry, true, nil
}

// List returns summaries of every live snapshot.
func (s *FileStore) List(ctx context.Context) ([]*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Snapshot
	err := filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		entry, ok, err := s.read(path)
		if err != nil {
			return err
		}
		if ok {
			out = append(out, entry.Snapshot.Summary())
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.dir, err)
	}
	sortSummaries(out)
	return out, nil
}

// Delete removes the snapshot with the given id.
func (s *FileStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.path(id))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove snapshot %s: %w", id, err)
	}
	return nil
}

// Close does nothing for a file store.
func (s *FileStore) Close() error { return nil }

// Path returns the file that holds the snapshot with the given id.
func (s *FileStore) Path(id uuid.UUID) string { return s.path(id) }

func (s *FileStore) path(id uuid.UUID) string {
	hash := Hash([]byte(id.String()))
	return filepath.Join(s.dir, hash[:2], hash[2:]+".json")
}

var _ Store = (*FileStore)(nil)
