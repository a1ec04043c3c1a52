// Package llmtest provides a scripted Completer for tests.
package llmtest

import (
	"context"
	"sync"

	"bitsa-assistant/internal/llm"
	"bitsa-assistant/internal/models"
)

// Call is one recorded invocation.
type Call struct {
	Turns   []models.ConversationTurn
	Options llm.Options
}

type Reply struct {
	Text string
	Err  error
}

// Stub returns Replies in order, repeating the last one when exhausted.
type Stub struct {
	mu      sync.Mutex
	Replies []Reply
	Calls   []Call
	ModelID string

	block bool
}

func NewStub(replies ...string) *Stub {
	s := &Stub{ModelID: "stub-model"}
	for _, r := range replies {
		s.Replies = append(s.Replies, Reply{Text: r})
	}
	return s
}

// NewBlockingStub returns a Stub whose calls never answer; they return the
// context error once the caller's deadline passes.
func NewBlockingStub() *Stub {
	return &Stub{ModelID: "stub-model", block: true}
}

func (s *Stub) WithError(err error) *Stub {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Replies = append(s.Replies, Reply{Err: err})
	return s
}

func (s *Stub) Model() string {
	return s.ModelID
}

func (s *Stub) Complete(ctx context.Context, turns []models.ConversationTurn, opts llm.Options) (string, error) {
	s.mu.Lock()
	copied := make([]models.ConversationTurn, len(turns))
	copy(copied, turns)
	s.Calls = append(s.Calls, Call{Turns: copied, Options: opts})

	if s.block {
		s.mu.Unlock()
		<-ctx.Done()
		return "", ctx.Err()
	}
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(s.Replies) == 0 {
		return "", llm.ErrGenerationFailed
	}
	idx := len(s.Calls) - 1
	if idx >= len(s.Replies) {
		idx = len(s.Replies) - 1
	}
	r := s.Replies[idx]
	return r.Text, r.Err
}

// CallCount is safe to use while calls are in flight.
func (s *Stub) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Calls)
}

func (s *Stub) LastCall() Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Calls) == 0 {
		return Call{}
	}
	return s.Calls[len(s.Calls)-1]
}
