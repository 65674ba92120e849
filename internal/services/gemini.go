package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/a-h/jsonapi"
	"google.golang.org/genai"
)

const (
	relayTemperature     float32 = 0.7
	relayMaxOutputTokens int32   = 1024
)

// UpstreamKind tags the outcome of parsing a 2xx generateContent body.
type UpstreamKind int

const (
	UpstreamSuccess UpstreamKind = iota
	UpstreamAPIFailure
	UpstreamMalformed
)

// UpstreamResult is the single validated view of a 2xx upstream body.
// Payload is set only for UpstreamSuccess, Message only for UpstreamAPIFailure.
type UpstreamResult struct {
	Kind    UpstreamKind
	Payload []byte
	Message string
}

type GeminiService struct {
	httpClient *http.Client
	baseURL    string
	apiVersion string
	apiKey     string
	log        *slog.Logger
}

// NewGeminiService creates the upstream client. A nil httpClient gets a client
// without a timeout; the inbound request context is the only bound on a call.
func NewGeminiService(httpClient *http.Client, baseURL, apiVersion, apiKey string, log *slog.Logger) *GeminiService {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &GeminiService{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiVersion: apiVersion,
		apiKey:     apiKey,
		log:        log,
	}
}

func (s *GeminiService) HasAPIKey() bool {
	return s.apiKey != ""
}

// GenerateContent makes exactly one generateContent call. Transport failures
// return *NetworkError and non-2xx statuses return *UpstreamHTTPError; every
// 2xx body is classified by ParseGenerateContentResponse.
func (s *GeminiService) GenerateContent(ctx context.Context, model, prompt string) (UpstreamResult, error) {
	endpoint, err := s.endpoint(model)
	if err != nil {
		return UpstreamResult{}, &NetworkError{Err: fmt.Errorf("build endpoint: %w", err)}
	}

	body, err := json.Marshal(buildGenerateContentRequest(prompt))
	if err != nil {
		return UpstreamResult{}, fmt.Errorf("marshal generateContent request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return UpstreamResult{}, &NetworkError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	s.log.Debug("gemini_request", slog.String("model", model), slog.Int("prompt_len", len(prompt)))

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return UpstreamResult{}, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return UpstreamResult{}, &NetworkError{Err: fmt.Errorf("read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		s.log.Warn("gemini_http_error",
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(respBody)))
		return UpstreamResult{}, &UpstreamHTTPError{Status: resp.StatusCode, Body: string(respBody)}
	}

	return ParseGenerateContentResponse(respBody), nil
}

func (s *GeminiService) endpoint(model string) (string, error) {
	return jsonapi.URL(s.baseURL).
		Path(s.apiVersion, "models", model+":generateContent").
		Query(map[string]string{"key": s.apiKey}).
		String()
}

type generateContentRequest struct {
	Contents         []*genai.Content        `json:"contents"`
	GenerationConfig *genai.GenerationConfig `json:"generationConfig"`
}

// buildGenerateContentRequest wraps the prompt as a single-turn, single-part
// content with the fixed generation settings.
func buildGenerateContentRequest(prompt string) generateContentRequest {
	return generateContentRequest{
		Contents: []*genai.Content{
			{Parts: []*genai.Part{{Text: prompt}}},
		},
		GenerationConfig: &genai.GenerationConfig{
			Temperature:     genai.Ptr(relayTemperature),
			MaxOutputTokens: relayMaxOutputTokens,
		},
	}
}

// generateContentEnvelope reads only the fields the relay inspects. The rest of
// the body is forwarded untouched, so unknown or odd-typed fields never fail
// the decode.
type generateContentEnvelope struct {
	Error      json.RawMessage `json:"error"`
	Candidates []struct {
		Content json.RawMessage `json:"content"`
	} `json:"candidates"`
}

// ParseGenerateContentResponse classifies a 2xx upstream body. An error field
// wins over candidates; anything without candidates[0].content is malformed.
func ParseGenerateContentResponse(body []byte) UpstreamResult {
	var env generateContentEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return UpstreamResult{Kind: UpstreamMalformed}
	}

	if hasValue(env.Error) {
		return UpstreamResult{Kind: UpstreamAPIFailure, Message: apiErrorMessage(env.Error)}
	}

	if len(env.Candidates) == 0 || !hasValue(env.Candidates[0].Content) {
		return UpstreamResult{Kind: UpstreamMalformed}
	}

	return UpstreamResult{Kind: UpstreamSuccess, Payload: body}
}

func hasValue(raw json.RawMessage) bool {
	switch string(bytes.TrimSpace(raw)) {
	case "", "null", "false", `""`, "0":
		return false
	}
	return true
}

// apiErrorMessage returns error.message when the error is an object carrying
// one. Bare strings and other shapes get the generic message.
func apiErrorMessage(raw json.RawMessage) string {
	var apiErr genai.APIError
	if err := json.Unmarshal(raw, &apiErr); err == nil && apiErr.Message != "" {
		return apiErr.Message
	}
	return "Gemini API error."
}
