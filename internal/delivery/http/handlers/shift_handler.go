package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sidetrade/shift-service/internal/delivery/http/dto"
	"github.com/sidetrade/shift-service/internal/domain"
	"github.com/sidetrade/shift-service/internal/usecase"
)

type ShiftHandler struct {
	ShiftUsecase usecase.ShiftUsecase
}

func NewShiftHandler(shiftUC usecase.ShiftUsecase) *ShiftHandler {
	return &ShiftHandler{ShiftUsecase: shiftUC}
}

func decodeBody(w http.ResponseWriter, r *http.Request, out any) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		writeError(w, "Invalid request body",
			fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err))
		return false
	}
	return true
}

// CreateShift resolves the order type from the presence of a deposit
// amount, matching the combined endpoint older clients use.
func (h *ShiftHandler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateShiftRequest
	if !decodeBody(w, r, &req) {
		return
	}
	h.create(w, r, &req)
}

func (h *ShiftHandler) CreateFixedShift(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateShiftRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.DepositAmount == "" {
		writeError(w, "Failed to create shift order",
			fmt.Errorf("%w: depositAmount is required for fixed shifts", domain.ErrInvalidRequest))
		return
	}
	h.create(w, r, &req)
}

func (h *ShiftHandler) CreateVariableShift(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateShiftRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.DepositAmount = ""
	h.create(w, r, &req)
}

func (h *ShiftHandler) create(w http.ResponseWriter, r *http.Request, req *dto.CreateShiftRequest) {
	out, err := h.ShiftUsecase.CreateShift(r.Context(), &usecase.CreateShiftInput{
		DepositCoin:    req.DepositCoin,
		SettleCoin:     req.SettleCoin,
		DepositNetwork: req.DepositNetwork,
		SettleNetwork:  req.SettleNetwork,
		SettleAddress:  req.SettleAddress,
		DepositAmount:  req.DepositAmount,
		AffiliateID:    req.AffiliateID,
	})
	if err != nil {
		writeError(w, "Failed to create shift order", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ShiftResponse{
		RequestID: out.RequestID,
		Data:      dto.ToShiftView(out.Order),
	})
}

func (h *ShiftHandler) GetShiftStatus(w http.ResponseWriter, r *http.Request) {
	order, err := h.ShiftUsecase.GetShiftStatus(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, "Failed to fetch shift status", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ShiftResponse{Data: dto.ToShiftView(order)})
}
