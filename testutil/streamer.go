package testutil

import (
	"context"
	"sync"

	"github.com/pkordes/trip-planner/internal/ai"
)

// ScriptedStreamer is an ai.Streamer that replays fixed fragments.
// Set StartErr to fail before streaming, or StreamErr to deliver an error
// chunk after the fragments. Prompts received are recorded for assertions.
type ScriptedStreamer struct {
	Fragments []string
	StartErr  error
	StreamErr error

	mu      sync.Mutex
	prompts []string
	models  []string
}

// compile-time check: ScriptedStreamer must satisfy ai.Streamer.
var _ ai.Streamer = (*ScriptedStreamer)(nil)

// Stream records the call and replays the script on a new goroutine.
func (s *ScriptedStreamer) Stream(ctx context.Context, prompt, model string) (<-chan ai.Chunk, error) {
	s.mu.Lock()
	s.prompts = append(s.prompts, prompt)
	s.models = append(s.models, model)
	s.mu.Unlock()

	if s.StartErr != nil {
		return nil, s.StartErr
	}

	out := make(chan ai.Chunk)
	go func() {
		defer close(out)
		for _, f := range s.Fragments {
			select {
			case out <- ai.Chunk{Text: f}:
			case <-ctx.Done():
				return
			}
		}
		if s.StreamErr != nil {
			select {
			case out <- ai.Chunk{Err: s.StreamErr}:
			case <-ctx.Done():
			}
		}
	}()
	return out, nil
}

// Calls returns how many times Stream was invoked.
func (s *ScriptedStreamer) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.prompts)
}

// LastPrompt returns the most recent prompt, or "" if none.
func (s *ScriptedStreamer) LastPrompt() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.prompts) == 0 {
		return ""
	}
	return s.prompts[len(s.prompts)-1]
}

// LastModel returns the most recent model identifier, or "" if none.
func (s *ScriptedStreamer) LastModel() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.models) == 0 {
		return ""
	}
	return s.models[len(s.models)-1]
}
