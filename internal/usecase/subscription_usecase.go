package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/sidetrade/shift-service/internal/domain"
	"github.com/sidetrade/shift-service/internal/infrastructure/metrics"
)

type SubscriptionUsecase interface {
	Subscribe(chatID int64, label string) bool
	Unsubscribe(chatID int64) bool
	IsSubscribed(chatID int64) bool
	Get(chatID int64) (*domain.Subscriber, bool)
	Count() int
	Broadcast(ctx context.Context, message string)
}

// DefaultSubscriptionUsecase is the single owner of subscriber state.
// The map is the runtime source of truth; the store only makes it
// survive restarts and its failures never fail a registry call.
type DefaultSubscriptionUsecase struct {
	Deliverer       domain.MessageDeliverer
	Store           domain.SubscriberStore
	Metrics         *metrics.ShiftMetrics
	DeliveryTimeout time.Duration

	mu   sync.Mutex
	subs map[int64]*domain.Subscriber

	now func() time.Time
}

func NewDefaultSubscriptionUsecase(
	deliverer domain.MessageDeliverer,
	store domain.SubscriberStore,
	deliveryTimeout time.Duration,
	shiftMetrics *metrics.ShiftMetrics) *DefaultSubscriptionUsecase {

	uc := &DefaultSubscriptionUsecase{
		Deliverer:       deliverer,
		Store:           store,
		Metrics:         shiftMetrics,
		DeliveryTimeout: deliveryTimeout,
		subs:            make(map[int64]*domain.Subscriber),
		now:             time.Now,
	}

	if store != nil {
		saved, err := store.LoadAll()
		if err != nil {
			slog.Error("failed to load saved subscribers", "error", err.Error())
		} else {
			for _, sub := range saved {
				uc.subs[sub.ChatID] = sub
			}
			slog.Info("restored subscribers", "count", len(saved))
		}
	}

	uc.updateGauge()
	return uc
}

// Subscribe registers a chat. Returns true when the chat was already
// subscribed; the existing entry is kept untouched.
func (uc *DefaultSubscriptionUsecase) Subscribe(chatID int64, label string) bool {
	uc.mu.Lock()
	if _, ok := uc.subs[chatID]; ok {
		uc.mu.Unlock()
		return true
	}

	sub := &domain.Subscriber{
		ChatID:       chatID,
		Label:        label,
		SubscribedAt: uc.now(),
	}
	uc.subs[chatID] = sub
	uc.mu.Unlock()

	if uc.Store != nil {
		if err := uc.Store.Save(sub); err != nil {
			slog.Error("failed to persist subscriber", "chat_id", chatID, "error", err.Error())
		}
	}

	uc.updateGauge()
	return false
}

// Unsubscribe removes a chat. Returns true when it was subscribed.
func (uc *DefaultSubscriptionUsecase) Unsubscribe(chatID int64) bool {
	uc.mu.Lock()
	_, ok := uc.subs[chatID]
	delete(uc.subs, chatID)
	uc.mu.Unlock()

	if ok && uc.Store != nil {
		if err := uc.Store.Delete(chatID); err != nil {
			slog.Error("failed to delete persisted subscriber", "chat_id", chatID, "error", err.Error())
		}
	}

	uc.updateGauge()
	return ok
}

func (uc *DefaultSubscriptionUsecase) IsSubscribed(chatID int64) bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	_, ok := uc.subs[chatID]
	return ok
}

func (uc *DefaultSubscriptionUsecase) Get(chatID int64) (*domain.Subscriber, bool) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	sub, ok := uc.subs[chatID]
	return sub, ok
}

func (uc *DefaultSubscriptionUsecase) Count() int {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return len(uc.subs)
}

// Broadcast delivers the message to every current subscriber. The list
// is copied first so slow deliveries never block subscribe/unsubscribe.
// A permanently blocked channel is deregistered; any other failure is
// logged and the fanout moves on.
func (uc *DefaultSubscriptionUsecase) Broadcast(ctx context.Context, message string) {
	uc.mu.Lock()
	targets := make([]*domain.Subscriber, 0, len(uc.subs))
	for _, sub := range uc.subs {
		targets = append(targets, sub)
	}
	uc.mu.Unlock()

	if uc.Metrics != nil {
		uc.Metrics.BroadcastsTotal.Inc()
	}

	for _, sub := range targets {
		deliveryCtx, cancel := context.WithTimeout(ctx, uc.DeliveryTimeout)
		err := uc.Deliverer.Deliver(deliveryCtx, sub.ChatID, message)
		cancel()

		switch {
		case err == nil:
			if uc.Metrics != nil {
				uc.Metrics.RecordDelivery("ok")
			}
		case errors.Is(err, domain.ErrPermanentlyBlocked):
			slog.Info("subscriber blocked the channel, deregistering", "chat_id", sub.ChatID)
			uc.Unsubscribe(sub.ChatID)
			if uc.Metrics != nil {
				uc.Metrics.RecordDelivery("blocked")
			}
		default:
			slog.Warn("delivery failed, skipping subscriber",
				"chat_id", sub.ChatID, "error", err.Error())
			if uc.Metrics != nil {
				uc.Metrics.RecordDelivery("failed")
			}
		}
	}
}

func (uc *DefaultSubscriptionUsecase) updateGauge() {
	if uc.Metrics != nil {
		uc.Metrics.SubscribersGauge.Set(float64(uc.Count()))
	}
}

// FormatUpdate renders the broadcast body from the snapshot's leading
// entries. Pure so it can be tested without a delivery channel.
func FormatUpdate(snap *domain.MarketSnapshot, topK int) string {
	var b strings.Builder
	b.WriteString("📈 *Market Update*\n\n")

	for i, pq := range snap.Top(topK) {
		fmt.Fprintf(&b, "%d. %s→%s: `%s`\n",
			i+1,
			strings.ToUpper(pq.Pair.DepositCoin),
			strings.ToUpper(pq.Pair.SettleCoin),
			pq.Quote.Rate)
	}

	fmt.Fprintf(&b, "\n_Updated: %s_", snap.CapturedAt.Format("15:04:05"))
	return b.String()
}
