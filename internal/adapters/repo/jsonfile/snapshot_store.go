package jsonfile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/bnema/steamrec/internal/adapters/repo/atomicfile"
	"github.com/bnema/steamrec/internal/domain"
	"github.com/bnema/steamrec/internal/ports"
	"github.com/goccy/go-json"
)

const (
	SnapshotFileName = "friend_data_cache.json"
	tempFilePattern  = ".friend_data_cache-*.json.tmp"
)

type SnapshotStore struct {
	path string
	mu   *sync.RWMutex
}

var _ ports.SnapshotStore = (*SnapshotStore)(nil)

func NewSnapshotStore(path string) (*SnapshotStore, error) {
	if path == "" {
		return nil, errors.New("snapshot path is empty")
	}

	normalized, err := atomicfile.NormalizePath(path)
	if err != nil {
		return nil, err
	}

	return &SnapshotStore{path: normalized, mu: atomicfile.LockForPath(normalized)}, nil
}

func (s *SnapshotStore) Path() string {
	return s.path
}

func (s *SnapshotStore) Load(ctx context.Context) (domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return domain.Snapshot{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.Snapshot{}, domain.ErrSnapshotNotFound
		}
		return domain.Snapshot{}, fmt.Errorf("read snapshot file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return domain.Snapshot{}, fmt.Errorf("snapshot file %s is empty: %w", s.path, domain.ErrSnapshotCorrupt)
	}

	var file snapshotSchema
	if err := json.Unmarshal(data, &file); err != nil {
		return domain.Snapshot{}, fmt.Errorf("decode snapshot file %s: %w: %v", s.path, domain.ErrSnapshotCorrupt, err)
	}

	return fromSchema(file), nil
}

func (s *SnapshotStore) Save(ctx context.Context, snapshot domain.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(toSchema(snapshot), "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := atomicfile.Write(s.path, data, tempFilePattern); err != nil {
		return fmt.Errorf("write snapshot file: %w", err)
	}

	return nil
}

// Clear removes the snapshot file and reports whether one existed.
func (s *SnapshotStore) Clear(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("remove snapshot file: %w", err)
	}

	return true, nil
}
