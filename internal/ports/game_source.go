package ports

import (
	"context"

	"github.com/bnema/steamrec/internal/domain"
)

type GameSource interface {
	ListFriends(ctx context.Context, steamID domain.SteamID) ([]domain.Peer, error)
	OwnedGames(ctx context.Context, steamID domain.SteamID) ([]domain.Game, error)
	RecentGames(ctx context.Context, steamID domain.SteamID) ([]domain.Game, error)
}
