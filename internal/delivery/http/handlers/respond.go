package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sidetrade/shift-service/internal/delivery/http/dto"
	"github.com/sidetrade/shift-service/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err.Error())
	}
}

// writeError maps the domain error taxonomy onto HTTP statuses. Provider
// failures are 502: the upstream broke, not this service.
func writeError(w http.ResponseWriter, summary string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrUnknownPair), errors.Is(err, domain.ErrOrderNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrAmountOutOfRange):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrProviderUnavailable), errors.Is(err, domain.ErrProviderFailed):
		status = http.StatusBadGateway
	}

	writeJSON(w, status, dto.ErrorResponse{
		Error:   summary,
		Message: err.Error(),
	})
}
