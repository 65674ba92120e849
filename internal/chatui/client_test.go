package chatui

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"carechat-backend/internal/models"
)

func TestClient_Ask(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		expected string
	}{
		{
			name:     "extracts first part text",
			status:   200,
			body:     `{"candidates":[{"content":{"parts":[{"text":"Hello"}]}}]}`,
			expected: "Hello",
		},
		{
			name:     "missing candidates",
			status:   200,
			body:     `{}`,
			expected: "Sorry, I couldn't get a response from the AI. Please try again later.",
		},
		{
			name:     "empty text",
			status:   200,
			body:     `{"candidates":[{"content":{"parts":[{"text":""}]}}]}`,
			expected: "Sorry, I couldn't get a response from the AI. Please try again later.",
		},
		{
			name:     "success body with error object",
			status:   200,
			body:     `{"error":{"message":"quota exceeded"}}`,
			expected: "Error: quota exceeded",
		},
		{
			name:     "success body with error string",
			status:   200,
			body:     `{"error":"bad things"}`,
			expected: "Error: bad things",
		},
		{
			name:     "relay validation error",
			status:   400,
			body:     `{"error":"Model and prompt are required."}`,
			expected: "Error (400): Model and prompt are required.",
		},
		{
			name:     "upstream passthrough prefers error over details",
			status:   503,
			body:     `{"error":"Error from Gemini API","status":503,"details":"overloaded"}`,
			expected: "Error (503): Error from Gemini API",
		},
		{
			name:     "falls back to details",
			status:   500,
			body:     `{"details":"stack"}`,
			expected: "Error (500): stack",
		},
		{
			name:     "non json error body",
			status:   502,
			body:     `Bad Gateway`,
			expected: "Error (502): Bad Gateway",
		},
		{
			name:     "empty error body",
			status:   500,
			body:     ``,
			expected: "Error (500): Unknown error",
		},
		{
			name:     "malformed success body",
			status:   200,
			body:     `<html>`,
			expected: "Error connecting to Gemini API. Please check your connection and try again.",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				io.WriteString(w, tc.body)
			}))
			defer relay.Close()

			got := NewClient(relay.URL, WithHTTPClient(relay.Client())).Ask(context.Background(), "hi")
			if got != tc.expected {
				t.Errorf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestClient_Ask_SendsFramedPrompt(t *testing.T) {
	var gotPath string
	var gotReq models.RelayRequest

	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotReq)
		io.WriteString(w, `{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`)
	}))
	defer relay.Close()

	NewClient(relay.URL).Ask(context.Background(), "I have a headache")

	if gotPath != "/api/gemini" {
		t.Errorf("expected path /api/gemini, got %q", gotPath)
	}
	if gotReq.Model != DefaultModel {
		t.Errorf("expected model %q, got %q", DefaultModel, gotReq.Model)
	}
	if gotReq.Prompt != DefaultPreamble+"I have a headache" {
		t.Errorf("unexpected prompt %q", gotReq.Prompt)
	}

	NewClient(relay.URL, WithPreamble(""), WithModel("gemini-1.5-flash")).Ask(context.Background(), "raw")
	if gotReq.Prompt != "raw" || gotReq.Model != "gemini-1.5-flash" {
		t.Errorf("expected raw prompt with custom model, got %+v", gotReq)
	}
}

func TestClient_Ask_ConnectionFailure(t *testing.T) {
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	relayURL := relay.URL
	relay.Close()

	got := NewClient(relayURL).Ask(context.Background(), "hi")
	if got != connectionMessage {
		t.Errorf("expected connection message, got %q", got)
	}

	if got := NewClient("not a url").Ask(context.Background(), "hi"); got != connectionMessage {
		t.Errorf("expected connection message for invalid base url, got %q", got)
	}
}
