package application

import (
	"time"

	"github.com/bnema/steamrec/internal/domain"
)

type RecommendResult struct {
	SteamID         domain.SteamID
	Peers           []domain.Peer
	Collect         CollectReport
	Recommendations []domain.ExportedRecommendation
	ReferenceItems  int
	GeneratedAt     time.Time
}

// EmptyReason explains an empty result, or returns "" when there are recommendations.
func (r RecommendResult) EmptyReason() string {
	switch {
	case len(r.Recommendations) > 0:
		return ""
	case len(r.Peers) == 0:
		return "no friends found; the friend list may be empty or private"
	case r.Collect.Snapshot == nil || r.Collect.Snapshot.PeerCount() == 0:
		return "no friend libraries could be fetched; their profiles may be private or the API is rate limiting"
	default:
		return "you already own every game your friends own"
	}
}

type CacheStatus struct {
	Present  bool
	SteamID  domain.SteamID
	SavedAt  time.Time
	OwnGames int
	Peers    int
}
