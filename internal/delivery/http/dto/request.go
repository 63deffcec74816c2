package dto

type QuoteRequest struct {
	DepositCoin    string `json:"depositCoin"`
	SettleCoin     string `json:"settleCoin"`
	DepositNetwork string `json:"depositNetwork,omitempty"`
	SettleNetwork  string `json:"settleNetwork,omitempty"`
	DepositAmount  string `json:"depositAmount,omitempty"`
	SettleAmount   string `json:"settleAmount,omitempty"`
}

type CreateShiftRequest struct {
	DepositCoin    string `json:"depositCoin"`
	SettleCoin     string `json:"settleCoin"`
	DepositNetwork string `json:"depositNetwork,omitempty"`
	SettleNetwork  string `json:"settleNetwork,omitempty"`
	SettleAddress  string `json:"settleAddress"`
	DepositAmount  string `json:"depositAmount,omitempty"`
	AffiliateID    string `json:"affiliateId,omitempty"`
}

type SubscribeRequest struct {
	ChatID int64  `json:"chatId"`
	Label  string `json:"label,omitempty"`
}
