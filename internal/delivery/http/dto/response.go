package dto

import (
	"time"

	"github.com/sidetrade/shift-service/internal/domain"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type PairView struct {
	Deposit        string `json:"deposit"`
	Settle         string `json:"settle"`
	DepositNetwork string `json:"depositNetwork,omitempty"`
	SettleNetwork  string `json:"settleNetwork,omitempty"`
	Rate           string `json:"rate"`
	DepositMin     string `json:"depositMin"`
	DepositMax     string `json:"depositMax"`
}

type PairsResponse struct {
	Data       []PairView `json:"data"`
	Cached     bool       `json:"cached"`
	LastUpdate time.Time  `json:"lastUpdate"`
}

type QuoteView struct {
	Pair          string `json:"pair"`
	Rate          string `json:"rate"`
	DepositMin    string `json:"depositMin"`
	DepositMax    string `json:"depositMax"`
	DepositAmount string `json:"depositAmount,omitempty"`
	SettleAmount  string `json:"settleAmount,omitempty"`
}

type QuoteResponse struct {
	Data QuoteView `json:"data"`
}

type CoinView struct {
	Coin         string   `json:"coin"`
	Name         string   `json:"name"`
	Networks     []string `json:"networks"`
	HasMemo      bool     `json:"hasMemo"`
	FixedOnly    bool     `json:"fixedOnly"`
	VariableOnly bool     `json:"variableOnly"`
}

type CoinsResponse struct {
	Data  []CoinView `json:"data"`
	Count int        `json:"count"`
}

type ShiftView struct {
	ID             string    `json:"id"`
	DepositCoin    string    `json:"depositCoin"`
	SettleCoin     string    `json:"settleCoin"`
	DepositNetwork string    `json:"depositNetwork,omitempty"`
	SettleNetwork  string    `json:"settleNetwork,omitempty"`
	DepositAddress string    `json:"depositAddress"`
	DepositMemo    string    `json:"depositMemo,omitempty"`
	SettleAddress  string    `json:"settleAddress"`
	Rate           string    `json:"rate,omitempty"`
	DepositMin     string    `json:"depositMin,omitempty"`
	DepositMax     string    `json:"depositMax,omitempty"`
	ExpiresAt      time.Time `json:"expiresAt"`
	Status         string    `json:"status"`
	Type           string    `json:"type"`
}

type ShiftResponse struct {
	RequestID string    `json:"requestId,omitempty"`
	Data      ShiftView `json:"data"`
}

type SubscribersResponse struct {
	Count int `json:"count"`
}

type SubscribeResponse struct {
	AlreadySubscribed bool `json:"alreadySubscribed"`
}

type UnsubscribeResponse struct {
	WasSubscribed bool `json:"wasSubscribed"`
}

type HealthResponse struct {
	Status      string     `json:"status"`
	Subscribers int        `json:"subscribers"`
	LastUpdate  *time.Time `json:"lastUpdate"`
}

func ToPairView(pq domain.PairQuote) PairView {
	return PairView{
		Deposit:        pq.Pair.DepositCoin,
		Settle:         pq.Pair.SettleCoin,
		DepositNetwork: pq.Pair.DepositNetwork,
		SettleNetwork:  pq.Pair.SettleNetwork,
		Rate:           pq.Quote.Rate,
		DepositMin:     pq.Quote.DepositMin,
		DepositMax:     pq.Quote.DepositMax,
	}
}

func ToQuoteView(q *domain.Quote) QuoteView {
	return QuoteView{
		Pair:          q.Pair.String(),
		Rate:          q.Rate,
		DepositMin:    q.DepositMin,
		DepositMax:    q.DepositMax,
		DepositAmount: q.DepositAmount,
		SettleAmount:  q.SettleAmount,
	}
}

func ToShiftView(order *domain.ShiftOrder) ShiftView {
	return ShiftView{
		ID:             order.ID,
		DepositCoin:    order.DepositCoin,
		SettleCoin:     order.SettleCoin,
		DepositNetwork: order.DepositNetwork,
		SettleNetwork:  order.SettleNetwork,
		DepositAddress: order.DepositAddress,
		DepositMemo:    order.DepositMemo,
		SettleAddress:  order.SettleAddress,
		Rate:           order.Rate,
		DepositMin:     order.DepositMin,
		DepositMax:     order.DepositMax,
		ExpiresAt:      order.ExpiresAt,
		Status:         order.Status,
		Type:           string(order.Type),
	}
}

func ToCoinView(coin *domain.Coin) CoinView {
	return CoinView{
		Coin:         coin.Coin,
		Name:         coin.Name,
		Networks:     coin.Networks,
		HasMemo:      coin.HasMemo,
		FixedOnly:    coin.FixedOnly,
		VariableOnly: coin.VariableOnly,
	}
}
