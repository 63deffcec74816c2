package handlers

import (
	"net/http"
	"time"

	"github.com/sidetrade/shift-service/internal/delivery/http/dto"
	"github.com/sidetrade/shift-service/internal/domain"
	"github.com/sidetrade/shift-service/internal/usecase"
)

type MarketHandler struct {
	MarketUsecase       usecase.MarketUsecase
	ShiftUsecase        usecase.ShiftUsecase
	SubscriptionUsecase usecase.SubscriptionUsecase
}

func NewMarketHandler(
	marketUC usecase.MarketUsecase,
	shiftUC usecase.ShiftUsecase,
	subscriptionUC usecase.SubscriptionUsecase) *MarketHandler {

	return &MarketHandler{
		MarketUsecase:       marketUC,
		ShiftUsecase:        shiftUC,
		SubscriptionUsecase: subscriptionUC,
	}
}

func (h *MarketHandler) Health(w http.ResponseWriter, r *http.Request) {
	var lastUpdate *time.Time
	if snap := h.MarketUsecase.Snapshot(); snap != nil {
		lastUpdate = &snap.CapturedAt
	}

	writeJSON(w, http.StatusOK, dto.HealthResponse{
		Status:      "healthy",
		Subscribers: h.SubscriptionUsecase.Count(),
		LastUpdate:  lastUpdate,
	})
}

func (h *MarketHandler) GetPairs(w http.ResponseWriter, r *http.Request) {
	forceFresh := r.URL.Query().Get("fresh") == "true"

	snap, cached, err := h.MarketUsecase.Serve(r.Context(), forceFresh)
	if err != nil {
		writeError(w, "Failed to fetch pairs", err)
		return
	}

	views := make([]dto.PairView, 0, len(snap.Pairs))
	for _, pq := range snap.Pairs {
		views = append(views, dto.ToPairView(pq))
	}

	writeJSON(w, http.StatusOK, dto.PairsResponse{
		Data:       views,
		Cached:     cached,
		LastUpdate: snap.CapturedAt,
	})
}

func (h *MarketHandler) GetCoins(w http.ResponseWriter, r *http.Request) {
	coins, err := h.ShiftUsecase.GetCoins(r.Context())
	if err != nil {
		writeError(w, "Failed to fetch coins", err)
		return
	}

	views := make([]dto.CoinView, 0, len(coins))
	for _, coin := range coins {
		views = append(views, dto.ToCoinView(coin))
	}

	writeJSON(w, http.StatusOK, dto.CoinsResponse{Data: views, Count: len(views)})
}

// GetCoinIcon streams the provider's SVG icon through unchanged.
func (h *MarketHandler) GetCoinIcon(w http.ResponseWriter, r *http.Request) {
	icon, err := h.ShiftUsecase.GetCoinIcon(r.Context(),
		r.PathValue("coin"), r.URL.Query().Get("network"))
	if err != nil {
		writeError(w, "Failed to fetch coin icon", err)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	w.Write(icon)
}

// PostQuote is the network/amount-aware quote form.
func (h *MarketHandler) PostQuote(w http.ResponseWriter, r *http.Request) {
	var req dto.QuoteRequest
	if !decodeBody(w, r, &req) {
		return
	}

	quote, err := h.ShiftUsecase.GetQuote(r.Context(), domain.QuoteRequest{
		DepositCoin:    req.DepositCoin,
		SettleCoin:     req.SettleCoin,
		DepositNetwork: req.DepositNetwork,
		SettleNetwork:  req.SettleNetwork,
		DepositAmount:  req.DepositAmount,
		SettleAmount:   req.SettleAmount,
	})
	if err != nil {
		writeError(w, "Failed to fetch quote", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.QuoteResponse{Data: dto.ToQuoteView(quote)})
}

// GetQuote is the symbol-only form kept for older clients.
func (h *MarketHandler) GetQuote(w http.ResponseWriter, r *http.Request) {
	quote, err := h.ShiftUsecase.GetQuote(r.Context(), domain.QuoteRequest{
		DepositCoin:    r.PathValue("from"),
		SettleCoin:     r.PathValue("to"),
		DepositNetwork: r.URL.Query().Get("depositNetwork"),
		SettleNetwork:  r.URL.Query().Get("settleNetwork"),
		DepositAmount:  r.URL.Query().Get("amount"),
	})
	if err != nil {
		writeError(w, "Failed to fetch quote", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.QuoteResponse{Data: dto.ToQuoteView(quote)})
}
