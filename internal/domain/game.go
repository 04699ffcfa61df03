package domain

import (
	"fmt"
	"strings"
	"time"
)

type SteamID string

type Peer struct {
	SteamID      SteamID
	Relationship string
	FriendSince  time.Time
}

type Game struct {
	AppID           int
	Name            string
	PlaytimeForever int
	// Playtime2Weeks is nil when the API did not report recent playtime.
	Playtime2Weeks *int
}

func (g Game) DisplayName() string {
	if name := strings.TrimSpace(g.Name); name != "" {
		return name
	}

	return fmt.Sprintf("Game %d", g.AppID)
}

type PeerRecord struct {
	Owned  []Game
	Recent []Game
}

func GameIDs(games []Game) map[int]struct{} {
	ids := make(map[int]struct{}, len(games))
	for _, game := range games {
		ids[game.AppID] = struct{}{}
	}
	return ids
}
