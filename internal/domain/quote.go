package domain

import (
	"fmt"
	"strings"
	"time"
)

// PairKey identifies a directional deposit->settle exchange pair.
// Network fields are optional; the provider resolves the primary network
// when a coin has exactly one.
type PairKey struct {
	DepositCoin    string
	SettleCoin     string
	DepositNetwork string
	SettleNetwork  string
}

func NewPairKey(depositCoin, settleCoin string) PairKey {
	return PairKey{
		DepositCoin: strings.ToLower(depositCoin),
		SettleCoin:  strings.ToLower(settleCoin),
	}
}

func (p PairKey) String() string {
	return fmt.Sprintf("%s/%s", p.DepositCoin, p.SettleCoin)
}

// Quote is the normalized rate record for a pair. Rate and bounds are
// decimal strings exactly as the provider sent them, never reparsed as
// binary floats.
type Quote struct {
	Pair          PairKey
	Rate          string
	DepositMin    string
	DepositMax    string
	DepositAmount string
	SettleAmount  string
}

type PairQuote struct {
	Pair  PairKey
	Quote Quote
}

// MarketSnapshot is an immutable view of the popular-pairs pool captured
// in one refresh cycle. Pairs whose fetch failed are absent.
type MarketSnapshot struct {
	Pairs      []PairQuote
	CapturedAt time.Time
}

func (s *MarketSnapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.CapturedAt)
}

// Top returns up to k leading entries in pool order.
func (s *MarketSnapshot) Top(k int) []PairQuote {
	if k > len(s.Pairs) {
		k = len(s.Pairs)
	}
	return s.Pairs[:k]
}
