package usecase

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sidetrade/shift-service/internal/domain"
	publisher "github.com/sidetrade/shift-service/internal/infrastructure/kafka"
	"github.com/sidetrade/shift-service/internal/infrastructure/metrics"
)

type MarketUsecase interface {
	RefreshOnce(ctx context.Context) (*domain.MarketSnapshot, error)
	Serve(ctx context.Context, forceFresh bool) (*domain.MarketSnapshot, bool, error)
	Snapshot() *domain.MarketSnapshot
}

type DefaultMarketUsecase struct {
	Provider           domain.QuoteProvider
	Pool               []domain.PairKey
	StalenessThreshold time.Duration
	Publisher          domain.PublisherPort
	Metrics            *metrics.ShiftMetrics

	// snapshot is the only state shared with request handlers; it is
	// replaced wholesale, never mutated. Timer and on-demand refreshes
	// race last-write-wins.
	snapshot atomic.Pointer[domain.MarketSnapshot]

	now func() time.Time
}

func NewDefaultMarketUsecase(
	provider domain.QuoteProvider,
	pool []domain.PairKey,
	stalenessThreshold time.Duration,
	pub domain.PublisherPort,
	shiftMetrics *metrics.ShiftMetrics) *DefaultMarketUsecase {

	return &DefaultMarketUsecase{
		Provider:           provider,
		Pool:               pool,
		StalenessThreshold: stalenessThreshold,
		Publisher:          pub,
		Metrics:            shiftMetrics,
		now:                time.Now,
	}
}

func (uc *DefaultMarketUsecase) Snapshot() *domain.MarketSnapshot {
	return uc.snapshot.Load()
}

// RefreshOnce fetches every pool pair concurrently and publishes a new
// snapshot containing only the pairs that succeeded this cycle. A fully
// failed cycle keeps the previous snapshot in place so readers degrade
// to stale data instead of nothing.
func (uc *DefaultMarketUsecase) RefreshOnce(ctx context.Context) (*domain.MarketSnapshot, error) {
	return uc.refresh(ctx, "scheduled")
}

func (uc *DefaultMarketUsecase) refresh(ctx context.Context, trigger string) (*domain.MarketSnapshot, error) {
	start := uc.now()
	cycleID := uuid.NewString()

	results := make([]*domain.Quote, len(uc.Pool))

	var wg sync.WaitGroup
	for i, pair := range uc.Pool {
		wg.Add(1)
		go func(i int, pair domain.PairKey) {
			defer wg.Done()
			quote, err := uc.Provider.GetPairRate(ctx, pair.DepositCoin, pair.SettleCoin)
			if err != nil {
				slog.Warn("pair fetch failed, excluding from snapshot",
					"cycle_id", cycleID, "pair", pair.String(), "error", err.Error())
				if uc.Metrics != nil {
					uc.Metrics.RecordPairFetch(pair.String(), false)
				}
				return
			}
			results[i] = quote
			if uc.Metrics != nil {
				uc.Metrics.RecordPairFetch(pair.String(), true)
			}
		}(i, pair)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		uc.recordRefresh(trigger, "error", start)
		return nil, err
	}

	// pool order is preserved; failed pairs are absent, never nil-filled
	pairs := make([]domain.PairQuote, 0, len(uc.Pool))
	for i, quote := range results {
		if quote == nil {
			continue
		}
		pairs = append(pairs, domain.PairQuote{Pair: uc.Pool[i], Quote: *quote})
	}

	snap := &domain.MarketSnapshot{
		Pairs:      pairs,
		CapturedAt: uc.now(),
	}

	if len(pairs) == 0 {
		uc.recordRefresh(trigger, "empty", start)
		slog.Error("refresh cycle produced no pairs, keeping previous snapshot", "cycle_id", cycleID)
		return snap, nil
	}

	uc.snapshot.Store(snap)
	uc.recordRefresh(trigger, "ok", start)
	if uc.Metrics != nil {
		uc.Metrics.SnapshotPairsGauge.Set(float64(len(pairs)))
	}

	slog.Info("market snapshot refreshed",
		"cycle_id", cycleID, "trigger", trigger,
		"pairs", len(pairs), "pool", len(uc.Pool))

	uc.publishRefreshEvent(cycleID, snap)

	return snap, nil
}

// Serve returns the cached snapshot while it is younger than the
// staleness threshold, otherwise refreshes synchronously and publishes
// the result so the foreground fetch is not wasted. An age exactly at
// the threshold counts as stale.
func (uc *DefaultMarketUsecase) Serve(ctx context.Context, forceFresh bool) (*domain.MarketSnapshot, bool, error) {
	if !forceFresh {
		if snap := uc.snapshot.Load(); snap != nil && snap.Age(uc.now()) < uc.StalenessThreshold {
			if uc.Metrics != nil {
				uc.Metrics.RecordServe(true)
			}
			return snap, true, nil
		}
	}

	snap, err := uc.refresh(ctx, "on-demand")
	if err != nil {
		return nil, false, err
	}
	if uc.Metrics != nil {
		uc.Metrics.RecordServe(false)
	}
	return snap, false, nil
}

func (uc *DefaultMarketUsecase) recordRefresh(trigger, outcome string, start time.Time) {
	if uc.Metrics != nil {
		uc.Metrics.RecordRefresh(trigger, outcome, uc.now().Sub(start).Seconds())
	}
}

func (uc *DefaultMarketUsecase) publishRefreshEvent(cycleID string, snap *domain.MarketSnapshot) {
	if uc.Publisher == nil {
		return
	}

	event := publisher.MarketRefreshEvent{
		CycleID:    cycleID,
		PairsTotal: len(snap.Pairs),
		CapturedAt: snap.CapturedAt,
	}
	for _, pq := range snap.Pairs {
		event.Pairs = append(event.Pairs, publisher.PairRateEvent{
			DepositCoin: pq.Pair.DepositCoin,
			SettleCoin:  pq.Pair.SettleCoin,
			Rate:        pq.Quote.Rate,
		})
	}

	if err := publisher.PublishMarketRefresh(uc.Publisher, event); err != nil {
		slog.Warn("failed to publish refresh event", "cycle_id", cycleID, "error", err.Error())
	}
}
