package domain

import "time"

type ShiftType string

const (
	ShiftTypeFixed    ShiftType = "fixed"
	ShiftTypeVariable ShiftType = "variable"
)

// ShiftOrder is an exchange order as returned by the provider. Status is
// fetched on demand by id, never polled by this service.
type ShiftOrder struct {
	ID             string
	DepositCoin    string
	SettleCoin     string
	DepositNetwork string
	SettleNetwork  string
	DepositAddress string
	DepositMemo    string
	SettleAddress  string
	Rate           string
	DepositMin     string
	DepositMax     string
	ExpiresAt      time.Time
	Status         string
	Type           ShiftType
}
