package ports

import (
	"context"

	"github.com/bnema/steamrec/internal/domain"
)

type ReferenceDataset interface {
	LoadAll(ctx context.Context) (map[int]domain.ReferenceEntry, error)
}
