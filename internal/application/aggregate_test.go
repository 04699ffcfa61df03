package application

import (
	"fmt"
	"testing"
	"time"

	"github.com/bnema/steamrec/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int {
	return &v
}

func TestAggregateTwoPeerScenario(t *testing.T) {
	t.Parallel()

	peers := []PeerEntry{
		{SteamID: "a", Record: domain.PeerRecord{
			Owned: []domain.Game{{AppID: 100, Name: "Portal", PlaytimeForever: 120}},
		}},
		{SteamID: "b", Record: domain.PeerRecord{
			Owned:  []domain.Game{{AppID: 100, Name: "Portal", PlaytimeForever: 180}},
			Recent: []domain.Game{{AppID: 100, Playtime2Weeks: intPtr(30)}},
		}},
	}

	got := Aggregate(nil, peers, nil)

	require.Len(t, got, 1)
	assert.Equal(t, domain.Recommendation{
		AppID:                100,
		Name:                 "Portal",
		Score:                42.5,
		OwnedBy:              []domain.SteamID{"a", "b"},
		RecentlyPlayedBy:     []domain.SteamID{"b"},
		AveragePlaytimeHours: 3,
	}, got[0])
}

func TestAggregateNeverRecommendsOwnedItems(t *testing.T) {
	t.Parallel()

	own := []domain.Game{{AppID: 1}, {AppID: 3}}
	peers := []PeerEntry{
		{SteamID: "a", Record: domain.PeerRecord{Owned: []domain.Game{{AppID: 1}, {AppID: 2}, {AppID: 3}}, Recent: []domain.Game{{AppID: 1}}}},
		{SteamID: "b", Record: domain.PeerRecord{Owned: []domain.Game{{AppID: 3}, {AppID: 4}}}},
	}

	got := Aggregate(own, peers, nil)

	ids := make([]int, 0, len(got))
	for _, rec := range got {
		ids = append(ids, rec.AppID)
	}
	assert.ElementsMatch(t, []int{2, 4}, ids)
}

func TestAggregateTiesKeepDiscoveryOrderAndOutputIsDeterministic(t *testing.T) {
	t.Parallel()

	peers := []PeerEntry{
		{SteamID: "a", Record: domain.PeerRecord{Owned: []domain.Game{{AppID: 30}, {AppID: 10}}}},
		{SteamID: "b", Record: domain.PeerRecord{Owned: []domain.Game{{AppID: 20}, {AppID: 40}, {AppID: 40}}}},
		{SteamID: "c", Record: domain.PeerRecord{Owned: []domain.Game{{AppID: 40}}}},
	}

	first := Aggregate(nil, peers, nil)
	second := Aggregate(nil, peers, nil)

	assert.Equal(t, first, second)
	order := make([]int, 0, len(first))
	for _, rec := range first {
		order = append(order, rec.AppID)
	}
	assert.Equal(t, []int{40, 30, 10, 20}, order)
	assert.Equal(t, []domain.SteamID{"b", "c"}, first[0].OwnedBy, "duplicate entries count one owner once")
}

func TestAggregateKeepsTopTwenty(t *testing.T) {
	t.Parallel()

	owned := make([]domain.Game, 0, 30)
	for i := 1; i <= 30; i++ {
		owned = append(owned, domain.Game{AppID: i, PlaytimeForever: i * 60})
	}
	got := Aggregate(nil, []PeerEntry{{SteamID: "a", Record: domain.PeerRecord{Owned: owned}}}, nil)

	require.Len(t, got, MaxRecommendations)
	assert.Equal(t, 30, got[0].AppID)
	assert.Equal(t, 11, got[len(got)-1].AppID)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Score, got[i].Score)
	}
}

func TestAggregateUsesFallbackName(t *testing.T) {
	t.Parallel()

	got := Aggregate(nil, []PeerEntry{{SteamID: "a", Record: domain.PeerRecord{Owned: []domain.Game{{AppID: 570}}}}}, nil)

	require.Len(t, got, 1)
	assert.Equal(t, "Game 570", got[0].Name)
}

func TestScoreAppliesReferenceBonuses(t *testing.T) {
	t.Parallel()

	entry := &domain.ReferenceEntry{Owners: "1,000,000 .. 2,000,000", Positive: 90, Negative: 10}

	score, err := Score(1, 0, 60, entry)
	require.NoError(t, err)
	assert.InDelta(t, 10+1+25+9, score, 1e-9)
}

func TestScoreMalformedOwnerRangeKeepsRatingBonus(t *testing.T) {
	t.Parallel()

	entry := &domain.ReferenceEntry{Owners: "lots", Positive: 1, Negative: 1}

	score, err := Score(1, 1, 0, entry)
	require.Error(t, err)
	assert.InDelta(t, 10+20+5, score, 1e-9)
}

func TestScoreIsMonotone(t *testing.T) {
	t.Parallel()

	entry := &domain.ReferenceEntry{Owners: "20,000 .. 50,000", Positive: 3, Negative: 1}
	for _, ref := range []*domain.ReferenceEntry{nil, entry} {
		for owners := 1; owners < 10; owners++ {
			for recent := 0; recent <= owners; recent++ {
				base, _ := Score(owners, recent, 600, ref)
				moreOwners, _ := Score(owners+1, recent, 600, ref)
				moreRecent, _ := Score(owners, recent+1, 600, ref)
				assert.GreaterOrEqual(t, moreOwners, base)
				assert.GreaterOrEqual(t, moreRecent, base)
			}
		}
	}
}

func TestScoreCapsPlaytimeBonus(t *testing.T) {
	t.Parallel()

	score, err := Score(1, 0, 100*60, nil)
	require.NoError(t, err)
	assert.InDelta(t, 60, score, 1e-9)
}

func TestAggregateWithReferenceData(t *testing.T) {
	t.Parallel()

	peers := []PeerEntry{
		{SteamID: "a", Record: domain.PeerRecord{Owned: []domain.Game{{AppID: 1}, {AppID: 2}}}},
	}
	ref := ReferenceLookup{
		2: {AppID: 2, Owners: "1,000,000 .. 2,000,000", Positive: 1, Negative: 0},
	}

	got := Aggregate(nil, peers, ref)

	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0].AppID)
	assert.InDelta(t, 10+25+10, got[0].Score, 1e-9)
}

func TestEnrichAddsReferenceMetadata(t *testing.T) {
	t.Parallel()

	exportedAt := time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC)
	recs := []domain.Recommendation{
		{AppID: 620, Name: "Game 620", Score: 30},
		{AppID: 9999, Name: "Mystery", Score: 10},
	}
	ref := ReferenceLookup{
		620: {AppID: 620, Name: "Portal 2", Developer: "Valve", Owners: "10,000,000 .. 20,000,000", Positive: 1000},
	}

	got := Enrich(recs, ref, exportedAt)

	require.Len(t, got, 2)
	assert.Equal(t, "Portal 2", got[0].Name)
	assert.Equal(t, "Valve", got[0].Developer)
	assert.Equal(t, "10,000,000 .. 20,000,000", got[0].GlobalOwners)
	assert.Equal(t, 1000, got[0].PositiveReviews)
	assert.Equal(t, "https://store.steampowered.com/app/620", got[0].StoreURL)
	assert.Equal(t, exportedAt, got[0].ExportedAt)
	assert.Equal(t, "Mystery", got[1].Name)
	assert.Empty(t, got[1].Developer)
}

func TestPeerEntriesFollowListingOrder(t *testing.T) {
	t.Parallel()

	snapshot := domain.NewSnapshot(requester, nil, time.Time{})
	for _, id := range []domain.SteamID{"z-former", "b", "a", "c-former"} {
		snapshot.PutPeer(id, domain.PeerRecord{Owned: []domain.Game{{AppID: len(id)}}})
	}
	listed := []domain.Peer{{SteamID: "b"}, {SteamID: "missing"}, {SteamID: "a"}}

	entries := PeerEntries(snapshot, listed)

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, fmt.Sprint(entry.SteamID))
	}
	assert.Equal(t, []string{"b", "a", "c-former", "z-former"}, ids)
}
