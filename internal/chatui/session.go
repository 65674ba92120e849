// Package chatui implements the chat widget's turn loop: append the user's
// line, ask the relay, append the reply.
package chatui

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"carechat-backend/internal/models"
)

// Asker returns display text for a user line. Implementations must not fail;
// errors are reported as text.
type Asker interface {
	Ask(ctx context.Context, text string) string
}

// Session owns the rendered turns of one conversation.
//
// Overlapping submissions are allowed and never cancelled. The typing
// indicator stays on while any call is in flight, and bot turns are appended
// in completion order.
type Session struct {
	asker    Asker
	now      func() time.Time
	onChange func(turns []models.ChatTurn, typing bool)

	mu      sync.Mutex
	turns   []models.ChatTurn
	pending int
}

type SessionOption func(*Session)

// WithOnChange registers a callback invoked after every state change with a
// snapshot of the turns. It runs outside the session lock.
func WithOnChange(f func(turns []models.ChatTurn, typing bool)) SessionOption {
	return func(s *Session) { s.onChange = f }
}

func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

func NewSession(asker Asker, opts ...SessionOption) *Session {
	s := &Session{asker: asker, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit runs one request/reply cycle. Blank input is ignored and reported as
// false.
func (s *Session) Submit(ctx context.Context, userText string) bool {
	text := strings.TrimSpace(userText)
	if text == "" {
		return false
	}

	s.update(func() {
		s.turns = append(s.turns, models.ChatTurn{Speaker: models.SpeakerUser, Text: text, Timestamp: s.now()})
		s.pending++
	})

	reply := s.asker.Ask(ctx, text)

	s.update(func() {
		s.pending--
		s.turns = append(s.turns, models.ChatTurn{Speaker: models.SpeakerBot, Text: reply, Timestamp: s.now()})
	})
	return true
}

// Turns returns a copy of the conversation so far.
func (s *Session) Turns() []models.ChatTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.turns)
}

// Typing reports whether any reply is still pending.
func (s *Session) Typing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending > 0
}

func (s *Session) update(mutate func()) {
	s.mu.Lock()
	mutate()
	turns := slices.Clone(s.turns)
	typing := s.pending > 0
	s.mu.Unlock()

	if s.onChange != nil {
		s.onChange(turns, typing)
	}
}
