package services

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"carechat-backend/internal/models"
)

type upstreamClient interface {
	HasAPIKey() bool
	GenerateContent(ctx context.Context, model, prompt string) (UpstreamResult, error)
}

// RelayService validates relay requests and forwards them upstream. It holds
// only configuration, so concurrent calls share nothing mutable.
type RelayService struct {
	upstream      upstreamClient
	allowedModels []string
	log           *slog.Logger
}

func NewRelayService(upstream upstreamClient, allowedModels []string, log *slog.Logger) *RelayService {
	if log == nil {
		log = slog.Default()
	}
	return &RelayService{
		upstream:      upstream,
		allowedModels: slices.Clone(allowedModels),
		log:           log,
	}
}

// AllowedModels returns a copy of the model allow-list.
func (s *RelayService) AllowedModels() []string {
	return slices.Clone(s.allowedModels)
}

// Relay returns the upstream body verbatim on success. Failures are one of
// the typed errors in errors.go.
func (s *RelayService) Relay(ctx context.Context, req models.RelayRequest) ([]byte, error) {
	if err := s.Validate(req); err != nil {
		return nil, err
	}

	result, err := s.upstream.GenerateContent(ctx, req.Model, req.Prompt)
	if err != nil {
		return nil, err
	}

	switch result.Kind {
	case UpstreamSuccess:
		return result.Payload, nil
	case UpstreamAPIFailure:
		s.log.Error("gemini_api_error", slog.String("message", result.Message))
		return nil, &UpstreamAPIError{Message: result.Message}
	default:
		s.log.Error("gemini_unexpected_format", slog.String("model", req.Model))
		return nil, &UpstreamShapeError{}
	}
}

// Validate applies the checks in order: required fields, configured key,
// allow-listed model.
func (s *RelayService) Validate(req models.RelayRequest) error {
	if req.Model == "" || req.Prompt == "" {
		return &InvalidRequestError{Message: "Model and prompt are required."}
	}
	if !s.upstream.HasAPIKey() {
		return &ConfigurationError{Message: "API key not set."}
	}
	if !slices.Contains(s.allowedModels, req.Model) {
		return &InvalidRequestError{Message: "Invalid model name. Use: " + strings.Join(s.allowedModels, ", ")}
	}
	return nil
}
