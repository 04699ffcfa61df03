package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bnema/steamrec/internal/domain"
	"github.com/bnema/steamrec/internal/logging"
	"github.com/bnema/steamrec/internal/ports"
	"github.com/samber/lo"
)

type CollectState string

const (
	StateInit            CollectState = "init"
	StateLoadingSnapshot CollectState = "loading_snapshot"
	StateCollecting      CollectState = "collecting"
	StateCheckpointing   CollectState = "checkpointing"
	StateDeciding        CollectState = "deciding"
	StateDone            CollectState = "done"
)

type StopReason string

const (
	StopCompleted           StopReason = "completed"
	StopRateLimited         StopReason = "rate_limited"
	StopLowSuccessRate      StopReason = "low_success_rate"
	StopConsecutiveFailures StopReason = "consecutive_failures"
	StopFirstBatchOnly      StopReason = "first_batch_only"
	StopCanceled            StopReason = "canceled"
)

type CollectorConfig struct {
	BatchSize              int
	MaxFailedRequests      int
	MaxConsecutiveFailures int
	ProcessAllPeers        bool
	BatchCooldown          time.Duration
}

// BatchOutcome summarises one batch. Peers already in the snapshot count as
// successes without a network call.
type BatchOutcome struct {
	Index        int
	Start        int
	End          int
	Successes    int
	Reused       int
	Failures     int
	RateLimitHit bool
	Canceled     bool
	Err          error
}

func (o BatchOutcome) Processed() int {
	return o.Successes + o.Failures
}

func (o BatchOutcome) SuccessRate() float64 {
	if o.Processed() == 0 {
		return 0
	}
	return float64(o.Successes) / float64(o.Processed())
}

func (o BatchOutcome) ShouldContinue(maxFailed int) bool {
	return !o.RateLimitHit && o.Failures <= maxFailed && o.SuccessRate() > 0.5
}

type Decision struct {
	Continue bool
	Reason   StopReason
}

type CollectReport struct {
	Snapshot      *domain.Snapshot
	TotalBatches  int
	ResumedPeers  int
	Batches       []BatchOutcome
	Successes     int
	Failures      int
	Checkpoints   int
	StopReason    StopReason
	FinalState    CollectState
	SnapshotFresh bool
}

type Collector struct {
	source  ports.GameSource
	store   ports.SnapshotStore
	fetcher *Fetcher
	clock   ports.Clock
	cfg     CollectorConfig
	observe func(state CollectState, batch int)
}

func NewCollector(source ports.GameSource, store ports.SnapshotStore, fetcher *Fetcher, clock ports.Clock, cfg CollectorConfig) *Collector {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if cfg.BatchSize < 1 {
		cfg.BatchSize = 1
	}

	return &Collector{
		source:  source,
		store:   store,
		fetcher: fetcher,
		clock:   clock,
		cfg:     cfg,
		observe: func(CollectState, int) {},
	}
}

// WithObserver registers a callback invoked on every state transition.
func (c *Collector) WithObserver(fn func(state CollectState, batch int)) *Collector {
	if fn != nil {
		c.observe = fn
	}
	return c
}

func BatchCount(peers, batchSize int) int {
	if peers <= 0 || batchSize <= 0 {
		return 0
	}
	return (peers + batchSize - 1) / batchSize
}

// Collect resumes from the stored snapshot when it belongs to requester, then
// walks peers in batches, checkpointing after each one. Only a failure to
// obtain the requester's own library is returned as an error; every other
// failure ends collection early and is described by the report.
func (c *Collector) Collect(ctx context.Context, requester domain.SteamID, peers []domain.Peer) (CollectReport, error) {
	c.transition(ctx, StateInit, 0)
	report := CollectReport{TotalBatches: BatchCount(len(peers), c.cfg.BatchSize)}

	c.transition(ctx, StateLoadingSnapshot, 0)
	snapshot, fresh, err := c.loadOrStart(ctx, requester)
	if err != nil {
		return report, err
	}
	report.Snapshot = snapshot
	report.SnapshotFresh = fresh
	report.ResumedPeers = snapshot.PeerCount()

	log := logging.Ctx(ctx)
	log.Info().
		Int("peers", len(peers)).
		Int("cached_peers", report.ResumedPeers).
		Int("batches", report.TotalBatches).
		Int("batch_size", c.cfg.BatchSize).
		Msg("collecting peer libraries")

	consecutiveFailed := 0
	for index, window := range lo.Chunk(peers, c.cfg.BatchSize) {
		c.transition(ctx, StateCollecting, index)
		outcome := c.runBatch(ctx, index, window, snapshot)
		outcome.Start = index * c.cfg.BatchSize
		outcome.End = outcome.Start + len(window)
		report.Batches = append(report.Batches, outcome)
		report.Successes += outcome.Successes
		report.Failures += outcome.Failures

		c.transition(ctx, StateCheckpointing, index)
		if c.checkpoint(ctx, snapshot) {
			report.Checkpoints++
		}

		c.transition(ctx, StateDeciding, index)
		if outcome.Err != nil || outcome.Successes == 0 {
			consecutiveFailed++
		} else {
			consecutiveFailed = 0
		}

		decision := decide(outcome, consecutiveFailed, c.cfg)
		log.Info().
			Int("batch", index+1).
			Int("of", report.TotalBatches).
			Int("first_peer", outcome.Start+1).
			Int("last_peer", outcome.End).
			Int("successes", outcome.Successes).
			Int("reused", outcome.Reused).
			Int("failures", outcome.Failures).
			Float64("success_rate", outcome.SuccessRate()).
			Bool("continue", decision.Continue).
			Msg("batch finished")
		if !decision.Continue {
			report.StopReason = decision.Reason
			break
		}

		if index < report.TotalBatches-1 && !c.fetcher.wait(ctx, c.cfg.BatchCooldown) {
			report.StopReason = StopCanceled
			break
		}
	}

	if report.StopReason == "" {
		report.StopReason = StopCompleted
	}
	if report.StopReason != StopCompleted {
		log.Warn().Str("reason", string(report.StopReason)).Msg("stopped collecting early; results use the data gathered so far")
	}

	c.transition(ctx, StateDone, len(report.Batches))
	if c.checkpoint(ctx, snapshot) {
		report.Checkpoints++
	}
	report.FinalState = StateDone

	return report, nil
}

func decide(outcome BatchOutcome, consecutiveFailed int, cfg CollectorConfig) Decision {
	if outcome.Canceled {
		return Decision{Reason: StopCanceled}
	}
	if outcome.Err != nil {
		if consecutiveFailed >= cfg.MaxConsecutiveFailures {
			return Decision{Reason: StopConsecutiveFailures}
		}
		return Decision{Continue: true}
	}
	if outcome.RateLimitHit {
		return Decision{Reason: StopRateLimited}
	}
	if !outcome.ShouldContinue(cfg.MaxFailedRequests) {
		return Decision{Reason: StopLowSuccessRate}
	}
	if consecutiveFailed >= cfg.MaxConsecutiveFailures {
		return Decision{Reason: StopConsecutiveFailures}
	}
	if !cfg.ProcessAllPeers {
		return Decision{Reason: StopFirstBatchOnly}
	}
	return Decision{Continue: true}
}

func (c *Collector) runBatch(ctx context.Context, index int, window []domain.Peer, snapshot *domain.Snapshot) (outcome BatchOutcome) {
	outcome.Index = index
	defer func() {
		if r := recover(); r != nil {
			outcome.Err = fmt.Errorf("batch %d aborted: %v", index+1, r)
			logging.Ctx(ctx).Error().Err(outcome.Err).Msg("unexpected batch failure")
		}
	}()

	for _, peer := range window {
		if snapshot.HasPeer(peer.SteamID) {
			outcome.Successes++
			outcome.Reused++
			continue
		}

		record, err := c.fetchPeer(ctx, peer.SteamID)
		if err == nil {
			snapshot.PutPeer(peer.SteamID, record)
			outcome.Successes++
			continue
		}

		log := logging.Ctx(ctx).With().Str("peer", string(peer.SteamID)).Logger()
		switch {
		case ctx.Err() != nil:
			outcome.Canceled = true
			return outcome
		case errors.Is(err, domain.ErrRateLimited):
			log.Warn().Err(err).Msg("rate limit reached, stopping batch")
			outcome.RateLimitHit = true
			return outcome
		default:
			log.Warn().Err(err).Msg("could not fetch peer library")
			outcome.Failures++
			if outcome.Failures > c.cfg.MaxFailedRequests {
				log.Warn().Int("failures", outcome.Failures).Msg("too many failures in batch")
				return outcome
			}
		}
	}

	return outcome
}

func (c *Collector) fetchPeer(ctx context.Context, steamID domain.SteamID) (domain.PeerRecord, error) {
	owned, err := Fetch(ctx, c.fetcher, func(ctx context.Context) ([]domain.Game, error) {
		return c.source.OwnedGames(ctx, steamID)
	})
	if err != nil {
		return domain.PeerRecord{}, fmt.Errorf("fetch owned games: %w", err)
	}

	recent, err := Fetch(ctx, c.fetcher, func(ctx context.Context) ([]domain.Game, error) {
		return c.source.RecentGames(ctx, steamID)
	})
	if err != nil {
		return domain.PeerRecord{}, fmt.Errorf("fetch recent games: %w", err)
	}

	return domain.PeerRecord{Owned: owned, Recent: recent}, nil
}

func (c *Collector) loadOrStart(ctx context.Context, requester domain.SteamID) (*domain.Snapshot, bool, error) {
	log := logging.Ctx(ctx)

	stored, err := c.store.Load(ctx)
	switch {
	case err == nil && stored.BelongsTo(requester):
		stored.SteamID = requester
		if stored.Peers == nil {
			stored.Peers = map[domain.SteamID]domain.PeerRecord{}
		}
		log.Info().Int("cached_peers", stored.PeerCount()).Time("saved_at", stored.Timestamp).Msg("resuming from snapshot")
		return &stored, false, nil
	case err == nil:
		log.Warn().Str("snapshot_owner", string(stored.SteamID)).Msg("snapshot belongs to another account, starting fresh")
	case errors.Is(err, domain.ErrSnapshotNotFound):
		log.Debug().Msg("no snapshot found, starting fresh")
	default:
		log.Warn().Err(err).Msg("ignoring unreadable snapshot, starting fresh")
	}

	own, err := Fetch(ctx, c.fetcher, func(ctx context.Context) ([]domain.Game, error) {
		return c.source.OwnedGames(ctx, requester)
	})
	if err != nil {
		return nil, false, fmt.Errorf("fetch own games: %w", err)
	}

	return domain.NewSnapshot(requester, own, c.clock.Now()), true, nil
}

func (c *Collector) checkpoint(ctx context.Context, snapshot *domain.Snapshot) bool {
	snapshot.Timestamp = c.clock.Now()
	if err := c.store.Save(context.WithoutCancel(ctx), *snapshot); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("could not save snapshot, keeping in-memory state")
		return false
	}
	return true
}

func (c *Collector) transition(ctx context.Context, state CollectState, batch int) {
	logging.Ctx(ctx).Debug().Str("state", string(state)).Int("batch", batch+1).Msg("collector state")
	c.observe(state, batch)
}
