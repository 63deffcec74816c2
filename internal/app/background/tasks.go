package background

import (
	"context"
	"log"
	"time"

	"github.com/sidetrade/shift-service/internal/usecase"
)

type BackgroundTasks struct {
	MarketUsecase       usecase.MarketUsecase
	SubscriptionUsecase usecase.SubscriptionUsecase

	RefreshInterval time.Duration
	BroadcastTop    int
}

func NewBackgroundTasks(
	marketUC usecase.MarketUsecase,
	subscriptionUC usecase.SubscriptionUsecase,
	refreshInterval time.Duration,
	broadcastTop int) *BackgroundTasks {

	return &BackgroundTasks{
		MarketUsecase:       marketUC,
		SubscriptionUsecase: subscriptionUC,
		RefreshInterval:     refreshInterval,
		BroadcastTop:        broadcastTop,
	}
}

func (bt *BackgroundTasks) StartAll(ctx context.Context) {
	go bt.startMarketRefresh(ctx)
}

// startMarketRefresh drives the scheduled refresh cycle. An empty cycle
// produces no broadcast, and neither does an empty subscriber registry.
func (bt *BackgroundTasks) startMarketRefresh(ctx context.Context) {
	ticker := time.NewTicker(bt.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			snap, err := bt.MarketUsecase.RefreshOnce(ctx)
			if err != nil {
				log.Printf("Market refresh error: %v\n", err)
				continue
			}
			if snap == nil || len(snap.Pairs) == 0 {
				continue
			}
			if bt.SubscriptionUsecase.Count() == 0 {
				continue
			}
			bt.SubscriptionUsecase.Broadcast(ctx, usecase.FormatUpdate(snap, bt.BroadcastTop))
		}
	}
}
