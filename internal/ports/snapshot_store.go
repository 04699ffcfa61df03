package ports

import (
	"context"

	"github.com/bnema/steamrec/internal/domain"
)

// SnapshotStore persists the single resumable snapshot. Load returns
// domain.ErrSnapshotNotFound when nothing was saved yet.
type SnapshotStore interface {
	Load(ctx context.Context) (domain.Snapshot, error)
	Save(ctx context.Context, snapshot domain.Snapshot) error
	Clear(ctx context.Context) (bool, error)
}
