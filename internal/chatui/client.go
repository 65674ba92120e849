package chatui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/a-h/jsonapi"

	"carechat-backend/internal/models"
)

const (
	DefaultModel    = "gemini-1.5-pro"
	DefaultPreamble = "You are a helpful healthcare assistant. Answer the following question with general advice only, and remind users to consult a doctor for serious issues.\n\nUser: "

	noReplyMessage    = "Sorry, I couldn't get a response from the AI. Please try again later."
	connectionMessage = "Error connecting to Gemini API. Please check your connection and try again."
)

// Client asks the relay for one reply per call and always yields display text.
type Client struct {
	httpClient *http.Client
	baseURL    string
	model      string
	preamble   string
	log        *slog.Logger
}

type ClientOption func(*Client)

func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) { cl.httpClient = c }
}

func WithModel(model string) ClientOption {
	return func(cl *Client) { cl.model = model }
}

// WithPreamble replaces the text prepended to every prompt. An empty preamble
// sends the user's text unchanged.
func WithPreamble(preamble string) ClientOption {
	return func(cl *Client) { cl.preamble = preamble }
}

func WithLogger(log *slog.Logger) ClientOption {
	return func(cl *Client) { cl.log = log }
}

func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{},
		baseURL:    baseURL,
		model:      DefaultModel,
		preamble:   DefaultPreamble,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Ask sends one prompt and returns the reply, or a readable error line.
// It never returns an error.
func (c *Client) Ask(ctx context.Context, text string) string {
	endpoint, err := jsonapi.URL(c.baseURL).Path("api", "gemini").String()
	if err != nil {
		c.log.Error("relay_url_invalid", slog.String("url", c.baseURL), slog.Any("error", err))
		return connectionMessage
	}

	body, err := json.Marshal(models.RelayRequest{Model: c.model, Prompt: c.preamble + text})
	if err != nil {
		return connectionMessage
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return connectionMessage
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("relay_request_failed", slog.Any("error", err))
		return connectionMessage
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return connectionMessage
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusErrorText(resp.StatusCode, respBody)
	}
	return ReplyText(respBody)
}

// ReplyText extracts candidates[0].content.parts[0].text from a 2xx relay body.
func ReplyText(body []byte) string {
	var payload struct {
		Error      json.RawMessage `json:"error"`
		Candidates []struct {
			Content *struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return connectionMessage
	}

	if msg := messageFrom(payload.Error); msg != "" {
		return "Error: " + msg
	}

	if len(payload.Candidates) == 0 {
		return noReplyMessage
	}
	content := payload.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 || content.Parts[0].Text == "" {
		return noReplyMessage
	}
	return content.Parts[0].Text
}

func statusErrorText(status int, body []byte) string {
	prefix := fmt.Sprintf("Error (%d): ", status)

	var parsed struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
		Details string          `json:"details"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		if len(body) == 0 {
			return prefix + "Unknown error"
		}
		return prefix + string(body)
	}

	for _, candidate := range []string{messageFrom(parsed.Error), parsed.Message, parsed.Details} {
		if candidate != "" {
			return prefix + candidate
		}
	}
	return prefix + "Unknown error"
}

// messageFrom reads an error field that is either a string or an object with
// a message.
func messageFrom(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Message
	}
	return ""
}
