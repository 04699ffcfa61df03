package cmd

import (
	"io"
	"time"

	"github.com/bnema/steamrec/internal/application"
	"github.com/bnema/steamrec/internal/domain"
	json "github.com/goccy/go-json"
)

type recommendationJSON struct {
	Rank                 int              `json:"rank"`
	AppID                int              `json:"appid"`
	Name                 string           `json:"name"`
	Score                float64          `json:"score"`
	OwnedBy              []domain.SteamID `json:"ownedBy"`
	RecentlyPlayedBy     []domain.SteamID `json:"recentlyPlayedBy"`
	AveragePlaytimeHours int              `json:"averagePlaytimeHours"`
	Owners               string           `json:"owners,omitempty"`
	PositiveReviews      int              `json:"positiveReviews,omitempty"`
	Developer            string           `json:"developer,omitempty"`
	StoreURL             string           `json:"storeUrl"`
}

type recommendOutputJSON struct {
	SteamID         domain.SteamID       `json:"steamId"`
	GeneratedAt     time.Time            `json:"generatedAt"`
	Friends         int                  `json:"friends"`
	FriendsWithData int                  `json:"friendsWithData"`
	Batches         int                  `json:"batches"`
	TotalBatches    int                  `json:"totalBatches"`
	BatchRuns       []batchJSON          `json:"batchRuns"`
	StopReason      string               `json:"stopReason,omitempty"`
	EmptyReason     string               `json:"emptyReason,omitempty"`
	Recommendations []recommendationJSON `json:"recommendations"`
}

// batchJSON reports the 1-based friend range a batch covered.
type batchJSON struct {
	Batch       int     `json:"batch"`
	FirstFriend int     `json:"firstFriend"`
	LastFriend  int     `json:"lastFriend"`
	Successes   int     `json:"successes"`
	Reused      int     `json:"reused"`
	Failures    int     `json:"failures"`
	SuccessRate float64 `json:"successRate"`
	RateLimited bool    `json:"rateLimited,omitempty"`
}

type historyOutputJSON struct {
	SteamID         domain.SteamID       `json:"steamId"`
	ExportedAt      time.Time            `json:"exportedAt"`
	Recommendations []recommendationJSON `json:"recommendations"`
}

type cacheStatusJSON struct {
	Path     string         `json:"path"`
	Present  bool           `json:"present"`
	SteamID  domain.SteamID `json:"steamId,omitempty"`
	SavedAt  *time.Time     `json:"savedAt,omitempty"`
	OwnGames int            `json:"ownGames"`
	Friends  int            `json:"friends"`
}

func toRecommendationsJSON(recs []domain.ExportedRecommendation) []recommendationJSON {
	out := make([]recommendationJSON, 0, len(recs))
	for i, rec := range recs {
		out = append(out, recommendationJSON{
			Rank:                 i + 1,
			AppID:                rec.AppID,
			Name:                 rec.Name,
			Score:                rec.Score,
			OwnedBy:              nonNil(rec.OwnedBy),
			RecentlyPlayedBy:     nonNil(rec.RecentlyPlayedBy),
			AveragePlaytimeHours: rec.AveragePlaytimeHours,
			Owners:               rec.GlobalOwners,
			PositiveReviews:      rec.PositiveReviews,
			Developer:            rec.Developer,
			StoreURL:             rec.StoreURL,
		})
	}
	return out
}

func toRecommendOutputJSON(result application.RecommendResult) recommendOutputJSON {
	withData := 0
	if result.Collect.Snapshot != nil {
		withData = result.Collect.Snapshot.PeerCount()
	}

	return recommendOutputJSON{
		SteamID:         result.SteamID,
		GeneratedAt:     result.GeneratedAt,
		Friends:         len(result.Peers),
		FriendsWithData: withData,
		Batches:         len(result.Collect.Batches),
		TotalBatches:    result.Collect.TotalBatches,
		BatchRuns:       toBatchesJSON(result.Collect.Batches),
		StopReason:      string(result.Collect.StopReason),
		EmptyReason:     result.EmptyReason(),
		Recommendations: toRecommendationsJSON(result.Recommendations),
	}
}

func toBatchesJSON(batches []application.BatchOutcome) []batchJSON {
	out := make([]batchJSON, 0, len(batches))
	for _, b := range batches {
		out = append(out, batchJSON{
			Batch:       b.Index + 1,
			FirstFriend: b.Start + 1,
			LastFriend:  b.End,
			Successes:   b.Successes,
			Reused:      b.Reused,
			Failures:    b.Failures,
			SuccessRate: b.SuccessRate(),
			RateLimited: b.RateLimitHit,
		})
	}
	return out
}

func nonNil(ids []domain.SteamID) []domain.SteamID {
	if ids == nil {
		return []domain.SteamID{}
	}
	return ids
}

func writeJSON(w io.Writer, v any) error {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	_, err = w.Write(append(payload, '\n'))
	return err
}
