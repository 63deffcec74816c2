package publisher

import (
	"encoding/json"
	"time"

	"github.com/sidetrade/shift-service/internal/domain"
)

const (
	MarketRefreshTopic = "market-refresh-events"
	ShiftEventsTopic   = "shift-events"
)

type PairRateEvent struct {
	DepositCoin string `json:"deposit_coin"`
	SettleCoin  string `json:"settle_coin"`
	Rate        string `json:"rate"`
}

// MarketRefreshEvent is emitted once per successful scheduled refresh.
type MarketRefreshEvent struct {
	CycleID    string          `json:"cycle_id"`
	Pairs      []PairRateEvent `json:"pairs"`
	PairsTotal int             `json:"pairs_total"`
	CapturedAt time.Time       `json:"captured_at"`
}

type ShiftEvent struct {
	RequestID   string `json:"request_id"`
	ShiftID     string `json:"shift_id,omitempty"`
	DepositCoin string `json:"deposit_coin"`
	SettleCoin  string `json:"settle_coin"`
	Type        string `json:"type"`
	Status      string `json:"status"`
	Reason      string `json:"reason,omitempty"`
}

func PublishMarketRefresh(pub domain.PublisherPort, event MarketRefreshEvent) error {
	v, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return pub.Publish(MarketRefreshTopic, domain.Message{Key: []byte(event.CycleID), Value: v})
}

func PublishShiftEvent(pub domain.PublisherPort, event ShiftEvent) error {
	v, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return pub.Publish(ShiftEventsTopic, domain.Message{Key: []byte(event.RequestID), Value: v})
}
