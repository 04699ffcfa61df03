package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/steamrec/internal/domain"
	"github.com/bnema/steamrec/internal/logging"
	"github.com/bnema/steamrec/internal/ports"
)

type ServiceDeps struct {
	Source    ports.GameSource
	Snapshots ports.SnapshotStore
	Reference ports.ReferenceDataset
	History   ports.HistoryRepository
	Fetcher   *Fetcher
	Collector *Collector
	Clock     ports.Clock
}

type Service struct {
	source    ports.GameSource
	snapshots ports.SnapshotStore
	reference ports.ReferenceDataset
	history   ports.HistoryRepository
	fetcher   *Fetcher
	collector *Collector
	clock     ports.Clock
}

func NewService(deps ServiceDeps) *Service {
	clock := deps.Clock
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &Service{
		source:    deps.Source,
		snapshots: deps.Snapshots,
		reference: deps.Reference,
		history:   deps.History,
		fetcher:   deps.Fetcher,
		collector: deps.Collector,
		clock:     clock,
	}
}

// Recommend lists the requester's friends, collects their libraries and ranks
// the games the requester does not own. Only configuration, friend listing and
// own-library failures are returned as errors.
func (s *Service) Recommend(ctx context.Context, cmd RecommendCommand) (RecommendResult, error) {
	if err := cmd.Validate(); err != nil {
		return RecommendResult{}, err
	}

	ctx = logging.ContextWithRunID(ctx, logging.NewRunID())
	log := logging.Ctx(ctx).With().Str("steam_id", string(cmd.SteamID)).Logger()
	result := RecommendResult{SteamID: cmd.SteamID}

	peers, err := Fetch(ctx, s.fetcher, func(ctx context.Context) ([]domain.Peer, error) {
		return s.source.ListFriends(ctx, cmd.SteamID)
	})
	if err != nil {
		return result, fmt.Errorf("list friends: %w", err)
	}
	result.Peers = peers
	log.Info().Int("friends", len(peers)).Msg("friend list loaded")

	if len(peers) == 0 {
		result.GeneratedAt = s.clock.Now()
		return result, nil
	}

	report, err := s.collector.Collect(ctx, cmd.SteamID, peers)
	if err != nil {
		return result, err
	}
	result.Collect = report

	reference := s.loadReference(ctx)
	result.ReferenceItems = len(reference)

	ranked := Aggregate(report.Snapshot.OwnGames, PeerEntries(report.Snapshot, peers), reference)
	result.GeneratedAt = s.clock.Now()
	result.Recommendations = Enrich(ranked, reference, result.GeneratedAt)

	log.Info().
		Int("peers_with_data", report.Snapshot.PeerCount()).
		Int("recommendations", len(result.Recommendations)).
		Msg("recommendations ready")

	return result, nil
}

func (s *Service) loadReference(ctx context.Context) ReferenceLookup {
	if s.reference == nil {
		return ReferenceLookup{}
	}

	entries, err := s.reference.LoadAll(ctx)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("reference dataset unavailable, scoring without it")
		return ReferenceLookup{}
	}

	return entries
}

func (s *Service) SaveHistory(ctx context.Context, result RecommendResult) error {
	history := domain.RecommendationHistory{
		SteamID:         result.SteamID,
		ExportedAt:      result.GeneratedAt,
		Recommendations: result.Recommendations,
	}
	if history.ExportedAt.IsZero() {
		history.ExportedAt = s.clock.Now()
	}

	if err := s.history.Save(ctx, history); err != nil {
		return fmt.Errorf("save recommendation history: %w", err)
	}

	return nil
}

func (s *Service) GetHistory(ctx context.Context, steamID domain.SteamID) (domain.RecommendationHistory, error) {
	history, err := s.history.GetBySteamID(ctx, steamID)
	if err != nil {
		return domain.RecommendationHistory{}, fmt.Errorf("get recommendation history: %w", err)
	}

	return history, nil
}

func (s *Service) ClearCache(ctx context.Context) (bool, error) {
	removed, err := s.snapshots.Clear(ctx)
	if err != nil {
		return false, fmt.Errorf("clear snapshot: %w", err)
	}

	return removed, nil
}

func (s *Service) CacheStatus(ctx context.Context) (CacheStatus, error) {
	snapshot, err := s.snapshots.Load(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrSnapshotNotFound) {
			return CacheStatus{}, nil
		}
		return CacheStatus{}, fmt.Errorf("load snapshot: %w", err)
	}

	return CacheStatus{
		Present:  true,
		SteamID:  snapshot.SteamID,
		SavedAt:  snapshot.Timestamp,
		OwnGames: len(snapshot.OwnGames),
		Peers:    snapshot.PeerCount(),
	}, nil
}
