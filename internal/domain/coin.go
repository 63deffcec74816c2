package domain

// Coin is a provider-supported currency. Refreshed wholesale on every
// coins request, never cached by this core.
type Coin struct {
	Coin         string
	Name         string
	Networks     []string
	HasMemo      bool
	FixedOnly    bool
	VariableOnly bool
}
