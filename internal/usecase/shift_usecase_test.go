package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/sidetrade/shift-service/internal/domain"
)

type fakeShiftProvider struct {
	quote       *domain.Quote
	quoteErr    error
	quoteCalls  int
	created     *domain.CreateShiftRequest
	createErr   error
	shifts      map[string]*domain.ShiftOrder
	coins       []*domain.Coin
}

func (f *fakeShiftProvider) GetPairRate(ctx context.Context, depositCoin, settleCoin string) (*domain.Quote, error) {
	return f.GetQuote(ctx, domain.QuoteRequest{DepositCoin: depositCoin, SettleCoin: settleCoin})
}

func (f *fakeShiftProvider) GetQuote(ctx context.Context, req domain.QuoteRequest) (*domain.Quote, error) {
	f.quoteCalls++
	if f.quoteErr != nil {
		return nil, f.quoteErr
	}
	return f.quote, nil
}

func (f *fakeShiftProvider) GetCoins(ctx context.Context) ([]*domain.Coin, error) {
	return f.coins, nil
}

func (f *fakeShiftProvider) GetCoinIcon(ctx context.Context, coin, network string) ([]byte, error) {
	return []byte("<svg/>"), nil
}

func (f *fakeShiftProvider) CreateShift(ctx context.Context, req domain.CreateShiftRequest) (*domain.ShiftOrder, error) {
	f.created = &req
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &domain.ShiftOrder{
		ID:             "shift-1",
		DepositCoin:    req.DepositCoin,
		SettleCoin:     req.SettleCoin,
		DepositAddress: "0xdeposit",
		Type:           req.Type,
		ExpiresAt:      time.Now().Add(15 * time.Minute),
	}, nil
}

func (f *fakeShiftProvider) GetShift(ctx context.Context, id string) (*domain.ShiftOrder, error) {
	order, ok := f.shifts[id]
	if !ok {
		return nil, fmt.Errorf("%w: shift %s", domain.ErrOrderNotFound, id)
	}
	return order, nil
}

func validInput() *CreateShiftInput {
	return &CreateShiftInput{
		DepositCoin:   "eth",
		SettleCoin:    "usdc",
		SettleAddress: "0xsettle",
	}
}

func TestCreateShift_RequiredFieldsCheckedBeforeAnyNetworkCall(t *testing.T) {
	provider := &fakeShiftProvider{}
	uc := NewDefaultShiftUsecase(provider, nil, nil)

	input := validInput()
	input.SettleAddress = ""

	_, err := uc.CreateShift(context.Background(), input)
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
	if provider.quoteCalls != 0 || provider.created != nil {
		t.Error("validation failure must precede any provider call")
	}
}

func TestCreateShift_NoAmountIsVariable(t *testing.T) {
	provider := &fakeShiftProvider{}
	uc := NewDefaultShiftUsecase(provider, nil, nil)

	out, err := uc.CreateShift(context.Background(), validInput())
	if err != nil {
		t.Fatalf("CreateShift failed: %v", err)
	}

	if out.Order.Type != domain.ShiftTypeVariable {
		t.Errorf("expected variable order, got %s", out.Order.Type)
	}
	if provider.quoteCalls != 0 {
		t.Error("variable orders need no bound check quote")
	}
	if out.RequestID == "" {
		t.Error("request id missing")
	}
}

func TestCreateShift_PositiveAmountIsFixed(t *testing.T) {
	provider := &fakeShiftProvider{
		quote: &domain.Quote{Rate: "2500", DepositMin: "0.01", DepositMax: "100"},
	}
	uc := NewDefaultShiftUsecase(provider, nil, nil)

	input := validInput()
	input.DepositAmount = "1.5"

	out, err := uc.CreateShift(context.Background(), input)
	if err != nil {
		t.Fatalf("CreateShift failed: %v", err)
	}
	if out.Order.Type != domain.ShiftTypeFixed {
		t.Errorf("expected fixed order, got %s", out.Order.Type)
	}
	if provider.created.Type != domain.ShiftTypeFixed {
		t.Error("resolved type not delegated to the provider")
	}
}

func TestCreateShift_FreshBoundsOverrideStaleQuotes(t *testing.T) {
	// the caller saw min=0.01 earlier; the fresh quote has moved to 2.0
	provider := &fakeShiftProvider{
		quote: &domain.Quote{Rate: "2500", DepositMin: "2.0", DepositMax: "100"},
	}
	uc := NewDefaultShiftUsecase(provider, nil, nil)

	input := validInput()
	input.DepositAmount = "1.5"

	_, err := uc.CreateShift(context.Background(), input)
	if !errors.Is(err, domain.ErrAmountOutOfRange) {
		t.Fatalf("expected ErrAmountOutOfRange, got %v", err)
	}
	if !strings.Contains(err.Error(), "[2.0, 100]") {
		t.Errorf("current bounds missing from error: %v", err)
	}
	if provider.created != nil {
		t.Error("rejected order must not reach the provider")
	}
}

func TestCreateShift_AmountAboveMaxRejected(t *testing.T) {
	provider := &fakeShiftProvider{
		quote: &domain.Quote{Rate: "2500", DepositMin: "0.01", DepositMax: "10"},
	}
	uc := NewDefaultShiftUsecase(provider, nil, nil)

	input := validInput()
	input.DepositAmount = "10.00001"

	_, err := uc.CreateShift(context.Background(), input)
	if !errors.Is(err, domain.ErrAmountOutOfRange) {
		t.Fatalf("expected ErrAmountOutOfRange, got %v", err)
	}
}

func TestCreateShift_AmountAtBoundsAccepted(t *testing.T) {
	provider := &fakeShiftProvider{
		quote: &domain.Quote{Rate: "2500", DepositMin: "0.5", DepositMax: "10"},
	}
	uc := NewDefaultShiftUsecase(provider, nil, nil)

	for _, amount := range []string{"0.5", "10"} {
		input := validInput()
		input.DepositAmount = amount
		if _, err := uc.CreateShift(context.Background(), input); err != nil {
			t.Errorf("amount %s exactly at a bound must pass: %v", amount, err)
		}
	}
}

func TestCreateShift_ZeroAmountIsVariable(t *testing.T) {
	provider := &fakeShiftProvider{}
	uc := NewDefaultShiftUsecase(provider, nil, nil)

	input := validInput()
	input.DepositAmount = "0"

	out, err := uc.CreateShift(context.Background(), input)
	if err != nil {
		t.Fatalf("CreateShift failed: %v", err)
	}
	if out.Order.Type != domain.ShiftTypeVariable {
		t.Errorf("zero amount must resolve to variable, got %s", out.Order.Type)
	}
}

func TestCreateShift_ProviderFailureSurfaced(t *testing.T) {
	provider := &fakeShiftProvider{
		createErr: fmt.Errorf("%w: insufficient liquidity", domain.ErrProviderFailed),
	}
	uc := NewDefaultShiftUsecase(provider, nil, nil)

	_, err := uc.CreateShift(context.Background(), validInput())
	if !errors.Is(err, domain.ErrProviderFailed) {
		t.Fatalf("expected ErrProviderFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "insufficient liquidity") {
		t.Errorf("upstream message lost: %v", err)
	}
}

func TestGetShiftStatus_PassThrough(t *testing.T) {
	provider := &fakeShiftProvider{
		shifts: map[string]*domain.ShiftOrder{
			"shift-1": {ID: "shift-1", Status: "settled"},
		},
	}
	uc := NewDefaultShiftUsecase(provider, nil, nil)

	order, err := uc.GetShiftStatus(context.Background(), "shift-1")
	if err != nil {
		t.Fatalf("GetShiftStatus failed: %v", err)
	}
	if order.Status != "settled" {
		t.Errorf("status mismatch: %s", order.Status)
	}

	if _, err := uc.GetShiftStatus(context.Background(), "nope"); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestGetQuote_RequiresPair(t *testing.T) {
	uc := NewDefaultShiftUsecase(&fakeShiftProvider{}, nil, nil)

	_, err := uc.GetQuote(context.Background(), domain.QuoteRequest{DepositCoin: "eth"})
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}
