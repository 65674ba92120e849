package chatui

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"carechat-backend/internal/models"
)

type fixedAsker struct{ reply string }

func (a fixedAsker) Ask(ctx context.Context, text string) string { return a.reply }

// gatedAsker blocks each call until its text is released.
type gatedAsker struct {
	mu      sync.Mutex
	gates   map[string]chan struct{}
	started chan string
}

func newGatedAsker(texts ...string) *gatedAsker {
	a := &gatedAsker{gates: make(map[string]chan struct{}), started: make(chan string, len(texts))}
	for _, text := range texts {
		a.gates[text] = make(chan struct{})
	}
	return a
}

func (a *gatedAsker) Ask(ctx context.Context, text string) string {
	a.mu.Lock()
	gate := a.gates[text]
	a.mu.Unlock()
	a.started <- text
	<-gate
	return "reply to " + text
}

func (a *gatedAsker) release(text string) { close(a.gates[text]) }

var fixedTime = time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

func TestSession_Submit(t *testing.T) {
	var snapshots []bool
	s := NewSession(fixedAsker{reply: "Drink water."},
		WithClock(func() time.Time { return fixedTime }),
		WithOnChange(func(turns []models.ChatTurn, typing bool) {
			snapshots = append(snapshots, typing)
		}),
	)

	if !s.Submit(context.Background(), "  I feel dizzy  ") {
		t.Fatal("expected submit to be accepted")
	}

	expected := []models.ChatTurn{
		{Speaker: models.SpeakerUser, Text: "I feel dizzy", Timestamp: fixedTime},
		{Speaker: models.SpeakerBot, Text: "Drink water.", Timestamp: fixedTime},
	}
	if diff := cmp.Diff(expected, s.Turns()); diff != "" {
		t.Errorf("unexpected turns (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]bool{true, false}, snapshots); diff != "" {
		t.Errorf("unexpected typing transitions (-want +got):\n%s", diff)
	}
	if s.Typing() {
		t.Error("typing indicator should be hidden after the reply")
	}
}

func TestSession_Submit_BlankIsNoOp(t *testing.T) {
	called := false
	s := NewSession(fixedAsker{}, WithOnChange(func([]models.ChatTurn, bool) { called = true }))

	for _, input := range []string{"", "   ", "\n\t"} {
		if s.Submit(context.Background(), input) {
			t.Errorf("expected %q to be ignored", input)
		}
	}
	if len(s.Turns()) != 0 {
		t.Errorf("expected no turns, got %d", len(s.Turns()))
	}
	if called {
		t.Error("blank input must not notify observers")
	}
}

func TestSession_OverlappingSubmits(t *testing.T) {
	asker := newGatedAsker("first", "second")
	s := NewSession(asker, WithClock(func() time.Time { return fixedTime }))

	var wg sync.WaitGroup
	for _, text := range []string{"first", "second"} {
		wg.Add(1)
		go func(text string) {
			defer wg.Done()
			s.Submit(context.Background(), text)
		}(text)
	}
	<-asker.started
	<-asker.started

	if !s.Typing() {
		t.Fatal("expected typing while both calls are pending")
	}

	// The later submission resolves first and is appended first.
	asker.release("second")
	waitFor(t, func() bool { return len(s.Turns()) == 3 })
	if !s.Typing() {
		t.Error("typing must stay on while the first call is still pending")
	}

	asker.release("first")
	wg.Wait()

	turns := s.Turns()
	if len(turns) != 4 {
		t.Fatalf("expected 4 turns, got %d", len(turns))
	}
	if turns[2].Text != "reply to second" || turns[3].Text != "reply to first" {
		t.Errorf("expected replies in completion order, got %q then %q", turns[2].Text, turns[3].Text)
	}
	if s.Typing() {
		t.Error("typing should be hidden once every call completes")
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
