package application

import (
	"math"
	"sort"
	"time"

	"github.com/bnema/steamrec/internal/domain"
	"github.com/bnema/steamrec/internal/logging"
	"github.com/samber/lo"
)

const MaxRecommendations = 20

const (
	ownerWeight      = 10
	recentWeight     = 20
	maxPlaytimeBonus = 50
	minutesPerHour   = 60
)

type PeerEntry struct {
	SteamID domain.SteamID
	Record  domain.PeerRecord
}

type ReferenceLookup map[int]domain.ReferenceEntry

type candidate struct {
	appID        int
	name         string
	owners       []domain.SteamID
	ownerSet     map[domain.SteamID]struct{}
	recent       []domain.SteamID
	totalMinutes int
}

// Aggregate ranks items owned by peers but not by the requester. Ties keep the
// order in which items were first seen while walking peers.
func Aggregate(own []domain.Game, peers []PeerEntry, ref ReferenceLookup) []domain.Recommendation {
	owned := domain.GameIDs(own)
	candidates := map[int]*candidate{}
	discovered := make([]int, 0)

	for _, peer := range peers {
		recentByID := lo.KeyBy(peer.Record.Recent, func(game domain.Game) int { return game.AppID })

		for _, game := range peer.Record.Owned {
			if _, ok := owned[game.AppID]; ok {
				continue
			}

			item, ok := candidates[game.AppID]
			if !ok {
				item = &candidate{appID: game.AppID, name: game.Name, ownerSet: map[domain.SteamID]struct{}{}}
				candidates[game.AppID] = item
				discovered = append(discovered, game.AppID)
			}
			if item.name == "" {
				item.name = game.Name
			}
			if _, seen := item.ownerSet[peer.SteamID]; seen {
				continue
			}

			item.ownerSet[peer.SteamID] = struct{}{}
			item.owners = append(item.owners, peer.SteamID)
			item.totalMinutes += game.PlaytimeForever
			if _, recent := recentByID[game.AppID]; recent {
				item.recent = append(item.recent, peer.SteamID)
			}
		}
	}

	recommendations := lo.Map(discovered, func(appID int, _ int) domain.Recommendation {
		return candidates[appID].recommendation(ref)
	})
	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].Score > recommendations[j].Score
	})

	if len(recommendations) > MaxRecommendations {
		recommendations = recommendations[:MaxRecommendations]
	}

	return recommendations
}

func (c *candidate) recommendation(ref ReferenceLookup) domain.Recommendation {
	avgMinutes := float64(c.totalMinutes) / float64(len(c.owners))

	var entry *domain.ReferenceEntry
	if found, ok := ref[c.appID]; ok {
		entry = &found
	}

	score, err := Score(len(c.owners), len(c.recent), avgMinutes, entry)
	if err != nil {
		logging.Debug().Err(err).Int("app_id", c.appID).Msg("ignoring ownership bonus")
	}

	return domain.Recommendation{
		AppID:                c.appID,
		Name:                 domain.Game{AppID: c.appID, Name: c.name}.DisplayName(),
		Score:                score,
		OwnedBy:              c.owners,
		RecentlyPlayedBy:     c.recent,
		AveragePlaytimeHours: int(math.Round(avgMinutes / minutesPerHour)),
	}
}

// Score combines peer signals with optional reference bonuses. A malformed
// owner range drops only the ownership bonus and is reported as the error.
func Score(owners, recent int, avgMinutes float64, entry *domain.ReferenceEntry) (float64, error) {
	score := float64(owners*ownerWeight) +
		float64(recent*recentWeight) +
		math.Min(avgMinutes/minutesPerHour, maxPlaytimeBonus)
	if entry == nil {
		return score, nil
	}

	score += entry.RatingBonus()
	bonus, err := entry.OwnershipBonus()
	if err != nil {
		return score, err
	}

	return score + bonus, nil
}

// Enrich attaches reference metadata used by rendering and the history export.
func Enrich(recommendations []domain.Recommendation, ref ReferenceLookup, exportedAt time.Time) []domain.ExportedRecommendation {
	return lo.Map(recommendations, func(rec domain.Recommendation, _ int) domain.ExportedRecommendation {
		exported := domain.ExportedRecommendation{
			Recommendation: rec,
			StoreURL:       domain.StoreURL(rec.AppID),
			ExportedAt:     exportedAt,
		}
		if entry, ok := ref[rec.AppID]; ok {
			exported.GlobalOwners = entry.Owners
			exported.PositiveReviews = entry.Positive
			exported.Developer = entry.Developer
			if exported.Name == "" || exported.Name == (domain.Game{AppID: rec.AppID}).DisplayName() {
				if entry.Name != "" {
					exported.Name = entry.Name
				}
			}
		}
		return exported
	})
}

// PeerEntries orders recorded peers by the current listing, then the rest by id.
func PeerEntries(snapshot *domain.Snapshot, listed []domain.Peer) []PeerEntry {
	return lo.Map(snapshot.PeerIDs(listed), func(id domain.SteamID, _ int) PeerEntry {
		return PeerEntry{SteamID: id, Record: snapshot.Peers[id]}
	})
}
