package sideshift

import "github.com/sidetrade/shift-service/internal/domain"

// pairResponse covers both upstream bound shapes: the legacy pair-rate
// endpoint labels bounds min/max, the quote endpoint depositMin/depositMax.
type pairResponse struct {
	DepositCoin    string `json:"depositCoin"`
	SettleCoin     string `json:"settleCoin"`
	DepositNetwork string `json:"depositNetwork"`
	SettleNetwork  string `json:"settleNetwork"`
	Rate           string `json:"rate"`
	Min            string `json:"min"`
	Max            string `json:"max"`
	DepositMin     string `json:"depositMin"`
	DepositMax     string `json:"depositMax"`
	DepositAmount  string `json:"depositAmount"`
	SettleAmount   string `json:"settleAmount"`
}

type quoteRequestBody struct {
	DepositCoin    string `json:"depositCoin"`
	SettleCoin     string `json:"settleCoin"`
	DepositNetwork string `json:"depositNetwork,omitempty"`
	SettleNetwork  string `json:"settleNetwork,omitempty"`
	DepositAmount  string `json:"depositAmount,omitempty"`
	SettleAmount   string `json:"settleAmount,omitempty"`
}

type createShiftBody struct {
	DepositCoin    string `json:"depositCoin"`
	SettleCoin     string `json:"settleCoin"`
	DepositNetwork string `json:"depositNetwork,omitempty"`
	SettleNetwork  string `json:"settleNetwork,omitempty"`
	SettleAddress  string `json:"settleAddress"`
	DepositAmount  string `json:"depositAmount,omitempty"`
	AffiliateID    string `json:"affiliateId,omitempty"`
	Type           string `json:"type"`
}

type shiftResponse struct {
	ID             string `json:"id"`
	DepositCoin    string `json:"depositCoin"`
	SettleCoin     string `json:"settleCoin"`
	DepositNetwork string `json:"depositNetwork"`
	SettleNetwork  string `json:"settleNetwork"`
	DepositAddress string `json:"depositAddress"`
	DepositMemo    string `json:"depositMemo"`
	SettleAddress  string `json:"settleAddress"`
	Rate           string `json:"rate"`
	DepositMin     string `json:"depositMin"`
	DepositMax     string `json:"depositMax"`
	ExpiresAt      string `json:"expiresAt"`
	Status         string `json:"status"`
	Type           string `json:"type"`
}

type coinResponse struct {
	Coin         string   `json:"coin"`
	Name         string   `json:"name"`
	Networks     []string `json:"networks"`
	HasMemo      bool     `json:"hasMemo"`
	FixedOnly    bool     `json:"fixedOnly"`
	VariableOnly bool     `json:"variableOnly"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// toQuote resolves the two bound namings to DepositMin/DepositMax,
// preferring the deposit-prefixed names when both are present.
func (r *pairResponse) toQuote(pair domain.PairKey) *domain.Quote {
	min, max := r.Min, r.Max
	if r.DepositMin != "" {
		min = r.DepositMin
	}
	if r.DepositMax != "" {
		max = r.DepositMax
	}
	if r.DepositNetwork != "" {
		pair.DepositNetwork = r.DepositNetwork
	}
	if r.SettleNetwork != "" {
		pair.SettleNetwork = r.SettleNetwork
	}
	return &domain.Quote{
		Pair:          pair,
		Rate:          r.Rate,
		DepositMin:    min,
		DepositMax:    max,
		DepositAmount: r.DepositAmount,
		SettleAmount:  r.SettleAmount,
	}
}
