package models

import "time"

// Speaker identifies who produced a chat turn.
type Speaker string

const (
	SpeakerUser Speaker = "user"
	SpeakerBot  Speaker = "bot"
)

// ChatTurn is one rendered line of the conversation. The timestamp is display only.
type ChatTurn struct {
	Speaker   Speaker   `json:"speaker"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// RelayRequest is the payload accepted by the relay endpoint.
type RelayRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

// RelayError is the body of every failed relay response.
type RelayError struct {
	Error   string `json:"error"`
	Status  int    `json:"status,omitempty"`
	Details string `json:"details,omitempty"`
}
