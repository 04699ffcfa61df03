package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/bnema/steamrec/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SnapshotStore {
	t.Helper()

	store, err := NewSnapshotStore(filepath.Join(t.TempDir(), SnapshotFileName))
	require.NoError(t, err)
	return store
}

func TestSnapshotStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	recent := 45
	savedAt := time.Date(2026, time.October, 19, 9, 15, 0, 0, time.UTC)
	snapshot := domain.Snapshot{
		Timestamp: savedAt,
		SteamID:   "76561197960287930",
		OwnGames:  []domain.Game{{AppID: 10, Name: "Counter-Strike", PlaytimeForever: 5000}},
		Peers: map[domain.SteamID]domain.PeerRecord{
			"76561197960265731": {
				Owned:  []domain.Game{{AppID: 620, Name: "Portal 2", PlaytimeForever: 1200, Playtime2Weeks: &recent}},
				Recent: []domain.Game{{AppID: 620, Name: "Portal 2", PlaytimeForever: 1200, Playtime2Weeks: &recent}},
			},
			"76561197960265732": {},
		},
	}

	require.NoError(t, store.Save(context.Background(), snapshot))

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, snapshot, got)
}

func TestSnapshotStoreReadsLegacyCacheFile(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	legacy := `{
  "timestamp": 1760000000000,
  "myGames": [{"appid": 10, "name": "Counter-Strike", "playtime_forever": 12}],
  "friendsData": {
    "76561197960265731": {
      "ownedGames": [{"appid": 620, "name": "Portal 2", "playtime_forever": 300, "playtime_2weeks": 20}],
      "recentGames": []
    }
  }
}`
	require.NoError(t, os.WriteFile(store.Path(), []byte(legacy), 0o600))

	got, err := store.Load(context.Background())
	require.NoError(t, err)

	assert.Empty(t, got.SteamID)
	assert.True(t, got.BelongsTo("76561197960287930"))
	assert.Equal(t, time.UnixMilli(1760000000000).UTC(), got.Timestamp)
	assert.Equal(t, []domain.Game{{AppID: 10, Name: "Counter-Strike", PlaytimeForever: 12}}, got.OwnGames)
	require.True(t, got.HasPeer("76561197960265731"))
	owned := got.Peers["76561197960265731"].Owned
	require.Len(t, owned, 1)
	require.NotNil(t, owned[0].Playtime2Weeks)
	assert.Equal(t, 20, *owned[0].Playtime2Weeks)
}

func TestSnapshotStoreMissingAndCorruptFiles(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	_, err := store.Load(context.Background())
	require.ErrorIs(t, err, domain.ErrSnapshotNotFound)

	for _, content := range []string{"", "   \n", `{"timestamp": "yesterday"`} {
		require.NoError(t, os.WriteFile(store.Path(), []byte(content), 0o600))
		_, err = store.Load(context.Background())
		require.ErrorIs(t, err, domain.ErrSnapshotCorrupt, "content %q", content)
	}
}

func TestSnapshotStoreClear(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	removed, err := store.Clear(context.Background())
	require.NoError(t, err)
	assert.False(t, removed)

	require.NoError(t, store.Save(context.Background(), *domain.NewSnapshot("76561197960287930", nil, time.Now())))

	removed, err = store.Clear(context.Background())
	require.NoError(t, err)
	assert.True(t, removed)

	_, err = store.Load(context.Background())
	require.ErrorIs(t, err, domain.ErrSnapshotNotFound)
}

func TestSnapshotStoreConcurrentSavesStayReadable(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			snapshot := domain.NewSnapshot("76561197960287930", []domain.Game{{AppID: i}}, time.Now())
			assert.NoError(t, store.Save(context.Background(), *snapshot))
		}(i)
	}
	wg.Wait()

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, got.OwnGames, 1)
}

func TestSnapshotStoreHonorsCanceledContext(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, store.Save(ctx, domain.Snapshot{}), context.Canceled)
	_, err := store.Load(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
