// Package ai binds the external chat LLM used to draft and refine
// itineraries. Callers see a cancellable stream of text fragments; the
// concrete provider stays behind the Streamer interface.
package ai

import (
	"context"
	"fmt"

	"github.com/pkordes/trip-planner/internal/domain"
)

// DefaultModel is the chat model used when none is configured.
const DefaultModel = "gpt-4o"

// Chunk is one element of a response stream. A chunk with a non-nil Err is
// the last element before the channel closes; a closed channel without an
// error chunk means the response completed.
type Chunk struct {
	Text string
	Err  error
}

// Streamer sends a prompt to a chat model and streams the reply.
// Cancelling ctx stops the stream and closes the channel.
type Streamer interface {
	Stream(ctx context.Context, prompt, model string) (<-chan Chunk, error)
}

// Unavailable is the Streamer used when no AI credential is configured.
// Every call fails with domain.ErrAIUnavailable.
type Unavailable struct {
	Reason string
}

// Stream always fails.
func (u Unavailable) Stream(context.Context, string, string) (<-chan Chunk, error) {
	reason := u.Reason
	if reason == "" {
		reason = "no AI provider configured"
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrAIUnavailable, reason)
}
