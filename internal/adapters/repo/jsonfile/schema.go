package jsonfile

import (
	"time"

	"github.com/bnema/steamrec/internal/domain"
)

// snapshotSchema keeps the field names of friend_data_cache.json so existing
// cache files stay readable. steamId is absent from older files.
type snapshotSchema struct {
	Timestamp   int64                   `json:"timestamp"`
	SteamID     string                  `json:"steamId,omitempty"`
	MyGames     []gameSchema            `json:"myGames"`
	FriendsData map[string]friendSchema `json:"friendsData"`
}

type friendSchema struct {
	OwnedGames  []gameSchema `json:"ownedGames"`
	RecentGames []gameSchema `json:"recentGames"`
}

type gameSchema struct {
	AppID           int    `json:"appid"`
	Name            string `json:"name,omitempty"`
	PlaytimeForever int    `json:"playtime_forever"`
	Playtime2Weeks  *int   `json:"playtime_2weeks,omitempty"`
}

func toSchema(snapshot domain.Snapshot) snapshotSchema {
	friends := make(map[string]friendSchema, len(snapshot.Peers))
	for id, record := range snapshot.Peers {
		friends[string(id)] = friendSchema{
			OwnedGames:  toGameSchemas(record.Owned),
			RecentGames: toGameSchemas(record.Recent),
		}
	}

	var timestamp int64
	if !snapshot.Timestamp.IsZero() {
		timestamp = snapshot.Timestamp.UnixMilli()
	}

	return snapshotSchema{
		Timestamp:   timestamp,
		SteamID:     string(snapshot.SteamID),
		MyGames:     toGameSchemas(snapshot.OwnGames),
		FriendsData: friends,
	}
}

func fromSchema(file snapshotSchema) domain.Snapshot {
	peers := make(map[domain.SteamID]domain.PeerRecord, len(file.FriendsData))
	for id, friend := range file.FriendsData {
		peers[domain.SteamID(id)] = domain.PeerRecord{
			Owned:  fromGameSchemas(friend.OwnedGames),
			Recent: fromGameSchemas(friend.RecentGames),
		}
	}

	var timestamp time.Time
	if file.Timestamp > 0 {
		timestamp = time.UnixMilli(file.Timestamp).UTC()
	}

	return domain.Snapshot{
		Timestamp: timestamp,
		SteamID:   domain.SteamID(file.SteamID),
		OwnGames:  fromGameSchemas(file.MyGames),
		Peers:     peers,
	}
}

func toGameSchemas(games []domain.Game) []gameSchema {
	out := make([]gameSchema, 0, len(games))
	for _, game := range games {
		out = append(out, gameSchema{
			AppID:           game.AppID,
			Name:            game.Name,
			PlaytimeForever: game.PlaytimeForever,
			Playtime2Weeks:  game.Playtime2Weeks,
		})
	}
	return out
}

func fromGameSchemas(games []gameSchema) []domain.Game {
	if len(games) == 0 {
		return nil
	}

	out := make([]domain.Game, 0, len(games))
	for _, game := range games {
		out = append(out, domain.Game{
			AppID:           game.AppID,
			Name:            game.Name,
			PlaytimeForever: game.PlaytimeForever,
			Playtime2Weeks:  game.Playtime2Weeks,
		})
	}
	return out
}
