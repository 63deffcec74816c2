package domain

import "context"

// QuoteRequest is the network/amount-aware quote lookup form. At most one
// of DepositAmount and SettleAmount may be set.
type QuoteRequest struct {
	DepositCoin    string
	SettleCoin     string
	DepositNetwork string
	SettleNetwork  string
	DepositAmount  string
	SettleAmount   string
}

type CreateShiftRequest struct {
	Type           ShiftType
	DepositCoin    string
	SettleCoin     string
	DepositNetwork string
	SettleNetwork  string
	SettleAddress  string
	DepositAmount  string
	AffiliateID    string
}

// QuoteProvider is the upstream pricing lookup surface.
type QuoteProvider interface {
	GetPairRate(ctx context.Context, depositCoin, settleCoin string) (*Quote, error)
	GetQuote(ctx context.Context, req QuoteRequest) (*Quote, error)
}

// ShiftProvider is the full provider surface including order execution.
type ShiftProvider interface {
	QuoteProvider
	GetCoins(ctx context.Context) ([]*Coin, error)
	GetCoinIcon(ctx context.Context, coin, network string) ([]byte, error)
	CreateShift(ctx context.Context, req CreateShiftRequest) (*ShiftOrder, error)
	GetShift(ctx context.Context, id string) (*ShiftOrder, error)
}
