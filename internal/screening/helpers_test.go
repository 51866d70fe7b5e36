package screening

import (
	"context"
	"sync"
)

// stubGenerator scripts model responses for stage tests. respond receives
// the user prompt; safe for concurrent use by the fan-out stages.
type stubGenerator struct {
	mu      sync.Mutex
	calls   int
	prompts []string
	respond func(call int, prompt string) (string, error)
}

func (s *stubGenerator) GenerateContent(_ context.Context, _, prompt string) (string, error) {
	s.mu.Lock()
	call := s.calls
	s.calls++
	s.prompts = append(s.prompts, prompt)
	s.mu.Unlock()

	return s.respond(call, prompt)
}

func (s *stubGenerator) Model() string { return "stub-model" }

func (s *stubGenerator) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
