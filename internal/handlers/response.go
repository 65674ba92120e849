package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"carechat-backend/internal/models"
	"carechat-backend/internal/services"
)

// Shared helpers

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeRawJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

func errorResp(message string) models.RelayError {
	return models.RelayError{Error: message}
}

// handleRelayError maps the relay error taxonomy onto status codes and bodies.
func handleRelayError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	requestID := r.Header.Get("X-Request-ID")

	switch e := err.(type) {
	case *services.InvalidRequestError:
		log.Warn("relay_invalid_request", slog.String("request_id", requestID), slog.String("error", e.Message))
		writeJSON(w, http.StatusBadRequest, errorResp(e.Message))
	case *services.ConfigurationError:
		log.Error("relay_configuration_error", slog.String("request_id", requestID), slog.String("error", e.Message))
		writeJSON(w, http.StatusInternalServerError, errorResp(e.Message))
	case *services.UpstreamHTTPError:
		writeJSON(w, e.Status, models.RelayError{
			Error:   e.Error(),
			Status:  e.Status,
			Details: e.Body,
		})
	case *services.UpstreamAPIError:
		writeJSON(w, http.StatusInternalServerError, errorResp(e.Message))
	case *services.UpstreamShapeError:
		writeJSON(w, http.StatusInternalServerError, errorResp(e.Error()))
	case *services.NetworkError:
		log.Error("relay_network_error", slog.String("request_id", requestID), slog.String("details", e.Details()))
		writeJSON(w, http.StatusInternalServerError, models.RelayError{
			Error:   e.Error(),
			Details: e.Details(),
		})
	default:
		log.Error("relay_unexpected_error", slog.String("request_id", requestID), slog.Any("error", err))
		writeJSON(w, http.StatusInternalServerError, errorResp("An unexpected error occurred"))
	}
}
