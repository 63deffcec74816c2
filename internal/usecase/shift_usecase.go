package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"time"

	"github.com/jaevor/go-nanoid"
	"github.com/shopspring/decimal"
	"github.com/sidetrade/shift-service/internal/domain"
	publisher "github.com/sidetrade/shift-service/internal/infrastructure/kafka"
	"github.com/sidetrade/shift-service/internal/infrastructure/metrics"
)

type CreateShiftInput struct {
	DepositCoin    string
	SettleCoin     string
	DepositNetwork string
	SettleNetwork  string
	SettleAddress  string
	DepositAmount  string
	AffiliateID    string
}

type CreateShiftOutput struct {
	RequestID string
	Order     *domain.ShiftOrder
}

type ShiftUsecase interface {
	CreateShift(ctx context.Context, input *CreateShiftInput) (*CreateShiftOutput, error)
	GetShiftStatus(ctx context.Context, id string) (*domain.ShiftOrder, error)
	GetQuote(ctx context.Context, req domain.QuoteRequest) (*domain.Quote, error)
	GetCoins(ctx context.Context) ([]*domain.Coin, error)
	GetCoinIcon(ctx context.Context, coin, network string) ([]byte, error)
}

type DefaultShiftUsecase struct {
	Provider  domain.ShiftProvider
	Publisher domain.PublisherPort
	Metrics   *metrics.ShiftMetrics
}

func NewDefaultShiftUsecase(
	provider domain.ShiftProvider,
	pub domain.PublisherPort,
	shiftMetrics *metrics.ShiftMetrics) *DefaultShiftUsecase {

	return &DefaultShiftUsecase{
		Provider:  provider,
		Publisher: pub,
		Metrics:   shiftMetrics,
	}
}

// CreateShift validates the request, re-checks deposit bounds against a
// fresh quote and delegates order creation to the provider. Bounds held
// by the caller are never trusted; variable-rate markets make any cached
// quote stale by the time an order lands.
func (uc *DefaultShiftUsecase) CreateShift(ctx context.Context, input *CreateShiftInput) (*CreateShiftOutput, error) {
	start := time.Now()
	requestID := newRequestID()

	if input.DepositCoin == "" || input.SettleCoin == "" || input.SettleAddress == "" {
		uc.reject(requestID, input, "unknown", "invalid_request")
		return nil, fmt.Errorf("%w: depositCoin, settleCoin and settleAddress are required", domain.ErrInvalidRequest)
	}

	shiftType, amount, err := resolveShiftType(input.DepositAmount)
	if err != nil {
		uc.reject(requestID, input, "unknown", "invalid_request")
		return nil, err
	}

	if shiftType == domain.ShiftTypeFixed {
		if err := uc.checkBounds(ctx, input, amount); err != nil {
			uc.reject(requestID, input, string(shiftType), rejectReason(err))
			return nil, err
		}
	}

	order, err := uc.Provider.CreateShift(ctx, domain.CreateShiftRequest{
		Type:           shiftType,
		DepositCoin:    input.DepositCoin,
		SettleCoin:     input.SettleCoin,
		DepositNetwork: input.DepositNetwork,
		SettleNetwork:  input.SettleNetwork,
		SettleAddress:  input.SettleAddress,
		DepositAmount:  input.DepositAmount,
		AffiliateID:    input.AffiliateID,
	})
	if err != nil {
		uc.publishShiftEvent(publisher.ShiftEvent{
			RequestID:   requestID,
			DepositCoin: input.DepositCoin,
			SettleCoin:  input.SettleCoin,
			Type:        string(shiftType),
			Status:      "PROVIDER_FAILED",
			Reason:      err.Error(),
		})
		if uc.Metrics != nil {
			uc.Metrics.RecordShiftRejected(string(shiftType), "provider_failed")
		}
		return nil, err
	}

	slog.Info("shift order created",
		"request_id", requestID, "shift_id", order.ID,
		"type", string(order.Type),
		"pair", fmt.Sprintf("%s/%s", order.DepositCoin, order.SettleCoin))

	uc.publishShiftEvent(publisher.ShiftEvent{
		RequestID:   requestID,
		ShiftID:     order.ID,
		DepositCoin: order.DepositCoin,
		SettleCoin:  order.SettleCoin,
		Type:        string(order.Type),
		Status:      "CREATED",
	})
	if uc.Metrics != nil {
		uc.Metrics.RecordShiftCreated(string(order.Type), time.Since(start).Seconds())
	}

	return &CreateShiftOutput{RequestID: requestID, Order: order}, nil
}

// GetShiftStatus is a pass-through lookup by provider-assigned id.
func (uc *DefaultShiftUsecase) GetShiftStatus(ctx context.Context, id string) (*domain.ShiftOrder, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: shift id is required", domain.ErrInvalidRequest)
	}
	return uc.Provider.GetShift(ctx, id)
}

func (uc *DefaultShiftUsecase) GetQuote(ctx context.Context, req domain.QuoteRequest) (*domain.Quote, error) {
	if req.DepositCoin == "" || req.SettleCoin == "" {
		return nil, fmt.Errorf("%w: depositCoin and settleCoin are required", domain.ErrInvalidRequest)
	}
	return uc.Provider.GetQuote(ctx, req)
}

func (uc *DefaultShiftUsecase) GetCoins(ctx context.Context) ([]*domain.Coin, error) {
	return uc.Provider.GetCoins(ctx)
}

func (uc *DefaultShiftUsecase) GetCoinIcon(ctx context.Context, coin, network string) ([]byte, error) {
	if coin == "" {
		return nil, fmt.Errorf("%w: coin is required", domain.ErrInvalidRequest)
	}
	return uc.Provider.GetCoinIcon(ctx, coin, network)
}

// resolveShiftType: fixed iff a deposit amount is supplied and positive.
func resolveShiftType(depositAmount string) (domain.ShiftType, decimal.Decimal, error) {
	if depositAmount == "" {
		return domain.ShiftTypeVariable, decimal.Zero, nil
	}

	amount, err := decimal.NewFromString(depositAmount)
	if err != nil {
		return "", decimal.Zero, fmt.Errorf("%w: depositAmount %q is not a number", domain.ErrInvalidRequest, depositAmount)
	}
	if amount.Sign() <= 0 {
		return domain.ShiftTypeVariable, decimal.Zero, nil
	}
	return domain.ShiftTypeFixed, amount, nil
}

// checkBounds fetches a fresh quote for the pair and rejects the amount
// when it falls strictly outside the quote's deposit bounds.
func (uc *DefaultShiftUsecase) checkBounds(ctx context.Context, input *CreateShiftInput, amount decimal.Decimal) error {
	quote, err := uc.Provider.GetQuote(ctx, domain.QuoteRequest{
		DepositCoin:    input.DepositCoin,
		SettleCoin:     input.SettleCoin,
		DepositNetwork: input.DepositNetwork,
		SettleNetwork:  input.SettleNetwork,
		DepositAmount:  input.DepositAmount,
	})
	if err != nil {
		return err
	}

	min, err := decimal.NewFromString(quote.DepositMin)
	if err != nil {
		return fmt.Errorf("%w: unparseable depositMin %q", domain.ErrProviderFailed, quote.DepositMin)
	}
	max, err := decimal.NewFromString(quote.DepositMax)
	if err != nil {
		return fmt.Errorf("%w: unparseable depositMax %q", domain.ErrProviderFailed, quote.DepositMax)
	}

	if amount.LessThan(min) || amount.GreaterThan(max) {
		return fmt.Errorf("%w: %s is outside current bounds [%s, %s]",
			domain.ErrAmountOutOfRange, amount.String(), quote.DepositMin, quote.DepositMax)
	}

	return nil
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrAmountOutOfRange):
		return "amount_out_of_range"
	case errors.Is(err, domain.ErrUnknownPair):
		return "unknown_pair"
	case errors.Is(err, domain.ErrInvalidRequest):
		return "invalid_request"
	default:
		return "provider_failed"
	}
}

func (uc *DefaultShiftUsecase) reject(requestID string, input *CreateShiftInput, shiftType, reason string) {
	uc.publishShiftEvent(publisher.ShiftEvent{
		RequestID:   requestID,
		DepositCoin: input.DepositCoin,
		SettleCoin:  input.SettleCoin,
		Type:        shiftType,
		Status:      "REJECTED",
		Reason:      reason,
	})
	if uc.Metrics != nil {
		uc.Metrics.RecordShiftRejected(shiftType, reason)
	}
}

func (uc *DefaultShiftUsecase) publishShiftEvent(event publisher.ShiftEvent) {
	if uc.Publisher == nil {
		return
	}
	if err := publisher.PublishShiftEvent(uc.Publisher, event); err != nil {
		log.Printf("failed to publish shift event %s: %v", event.RequestID, err)
	}
}

func newRequestID() string {
	idGenerator, err := nanoid.Standard(15)
	if err != nil {
		return fmt.Sprintf("req-%d", time.Now().UnixNano())
	}
	return idGenerator()
}
