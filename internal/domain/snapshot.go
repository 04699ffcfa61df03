package domain

import (
	"sort"
	"time"
)

// Snapshot is the resumable state of a collection run. Peers only ever grows.
type Snapshot struct {
	Timestamp time.Time
	SteamID   SteamID
	OwnGames  []Game
	Peers     map[SteamID]PeerRecord
}

func NewSnapshot(steamID SteamID, ownGames []Game, now time.Time) *Snapshot {
	return &Snapshot{
		Timestamp: now,
		SteamID:   steamID,
		OwnGames:  ownGames,
		Peers:     map[SteamID]PeerRecord{},
	}
}

func (s *Snapshot) HasPeer(id SteamID) bool {
	if s == nil || s.Peers == nil {
		return false
	}

	_, ok := s.Peers[id]
	return ok
}

func (s *Snapshot) PutPeer(id SteamID, record PeerRecord) {
	if s.Peers == nil {
		s.Peers = map[SteamID]PeerRecord{}
	}
	s.Peers[id] = record
}

func (s *Snapshot) PeerCount() int {
	if s == nil {
		return 0
	}
	return len(s.Peers)
}

// BelongsTo reports whether the snapshot was taken for steamID. Snapshots written
// without an owner id are accepted for any requester.
func (s *Snapshot) BelongsTo(steamID SteamID) bool {
	return s.SteamID == "" || s.SteamID == steamID
}

// PeerIDs returns the recorded peer ids ordered by the given listing first, then
// any remaining recorded ids in lexical order.
func (s *Snapshot) PeerIDs(listed []Peer) []SteamID {
	ids := make([]SteamID, 0, len(s.Peers))
	seen := make(map[SteamID]struct{}, len(s.Peers))
	for _, peer := range listed {
		if _, ok := s.Peers[peer.SteamID]; !ok {
			continue
		}
		if _, ok := seen[peer.SteamID]; ok {
			continue
		}
		seen[peer.SteamID] = struct{}{}
		ids = append(ids, peer.SteamID)
	}

	rest := make([]SteamID, 0, len(s.Peers)-len(ids))
	for id := range s.Peers {
		if _, ok := seen[id]; !ok {
			rest = append(rest, id)
		}
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i] < rest[j] })

	return append(ids, rest...)
}
