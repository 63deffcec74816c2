package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/sidetrade/shift-service/internal/delivery/http/dto"
	"github.com/sidetrade/shift-service/internal/domain"
	"github.com/sidetrade/shift-service/internal/usecase"
)

type SubscriptionHandler struct {
	SubscriptionUsecase usecase.SubscriptionUsecase
}

func NewSubscriptionHandler(subscriptionUC usecase.SubscriptionUsecase) *SubscriptionHandler {
	return &SubscriptionHandler{SubscriptionUsecase: subscriptionUC}
}

func (h *SubscriptionHandler) GetSubscribers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.SubscribersResponse{
		Count: h.SubscriptionUsecase.Count(),
	})
}

func (h *SubscriptionHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req dto.SubscribeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ChatID == 0 {
		writeError(w, "Failed to subscribe",
			fmt.Errorf("%w: chatId is required", domain.ErrInvalidRequest))
		return
	}

	already := h.SubscriptionUsecase.Subscribe(req.ChatID, req.Label)
	status := http.StatusCreated
	if already {
		status = http.StatusOK
	}

	writeJSON(w, status, dto.SubscribeResponse{AlreadySubscribed: already})
}

func (h *SubscriptionHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	chatID, err := strconv.ParseInt(r.PathValue("chatId"), 10, 64)
	if err != nil {
		writeError(w, "Failed to unsubscribe",
			fmt.Errorf("%w: chatId must be an integer", domain.ErrInvalidRequest))
		return
	}

	was := h.SubscriptionUsecase.Unsubscribe(chatID)
	writeJSON(w, http.StatusOK, dto.UnsubscribeResponse{WasSubscribed: was})
}
