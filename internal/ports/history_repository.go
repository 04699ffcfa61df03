package ports

import (
	"context"

	"github.com/bnema/steamrec/internal/domain"
)

type HistoryRepository interface {
	GetBySteamID(ctx context.Context, steamID domain.SteamID) (domain.RecommendationHistory, error)
	Save(ctx context.Context, history domain.RecommendationHistory) error
}
