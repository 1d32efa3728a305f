package ai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/pkordes/trip-planner/internal/domain"
)

// OpenAIStreamer streams chat completions from the OpenAI API (or any
// server speaking the same protocol, selected with option.WithBaseURL).
type OpenAIStreamer struct {
	client openai.Client
	log    *slog.Logger
}

// NewOpenAIStreamer builds a streamer authenticated with apiKey. Extra
// request options (base URL, retries) are applied after the key.
func NewOpenAIStreamer(apiKey string, log *slog.Logger, opts ...option.RequestOption) *OpenAIStreamer {
	if log == nil {
		log = slog.Default()
	}
	all := append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &OpenAIStreamer{client: openai.NewClient(all...), log: log}
}

// Stream starts a streaming chat completion for a single user message.
// Transport and API errors are delivered as a final Chunk wrapping
// domain.ErrAIUnavailable.
func (s *OpenAIStreamer) Stream(ctx context.Context, prompt, model string) (<-chan Chunk, error) {
	if model == "" {
		model = DefaultModel
	}
	stream := s.client.Chat.Completions.NewStreaming(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model: openai.ChatModel(model),
	})

	out := make(chan Chunk)
	go func() {
		defer close(out)
		defer stream.Close()

		fragments := 0
		for stream.Next() {
			chunk := stream.Current()
			for _, choice := range chunk.Choices {
				if choice.Delta.Content == "" {
					continue
				}
				fragments++
				select {
				case out <- Chunk{Text: choice.Delta.Content}:
				case <-ctx.Done():
					return
				}
			}
		}
		if err := stream.Err(); err != nil {
			if ctx.Err() != nil {
				return
			}
			s.log.WarnContext(ctx, "openai stream failed", "error", err, "model", model, "fragments", fragments)
			select {
			case out <- Chunk{Err: fmt.Errorf("%w: %v", domain.ErrAIUnavailable, err)}:
			case <-ctx.Done():
			}
			return
		}
		s.log.DebugContext(ctx, "openai stream complete", "model", model, "fragments", fragments)
	}()
	return out, nil
}
