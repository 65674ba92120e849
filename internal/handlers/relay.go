package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"carechat-backend/internal/models"
	"carechat-backend/internal/services"
)

type relayer interface {
	Relay(ctx context.Context, req models.RelayRequest) ([]byte, error)
}

type RelayHandler struct {
	relay relayer
	log   *slog.Logger
}

func NewRelayHandler(relay relayer, log *slog.Logger) *RelayHandler {
	if log == nil {
		log = slog.Default()
	}
	return &RelayHandler{relay: relay, log: log}
}

// Relay handles POST {model, prompt}. On success the upstream body is written
// back unchanged.
func (h *RelayHandler) Relay(w http.ResponseWriter, r *http.Request) {
	var req models.RelayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// An unreadable body carries neither field.
		handleRelayError(w, r, h.log, &services.InvalidRequestError{Message: "Model and prompt are required."})
		return
	}

	h.log.Info("relay_request", slog.String("model", req.Model), slog.String("request_id", r.Header.Get("X-Request-ID")))

	payload, err := h.relay.Relay(r.Context(), req)
	if err != nil {
		handleRelayError(w, r, h.log, err)
		return
	}

	writeRawJSON(w, http.StatusOK, payload)
}
