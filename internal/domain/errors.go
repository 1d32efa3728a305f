package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned by repo and service functions when the requested
// itinerary does not exist in the session store.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing destination, end date before start date).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrRateLimited is returned when the generation rate limiter has no slot
// left in the current window. The caller must wait for the window to reset.
// Handlers should map this to HTTP 429.
var ErrRateLimited = errors.New("rate limit exceeded")

// ErrAIUnavailable is returned when the external AI capability could not
// produce a response (network failure, missing credential, empty stream).
// Generate recovers from it with the offline planner; Refine surfaces it.
// Handlers should map this to HTTP 503.
var ErrAIUnavailable = errors.New("ai service unavailable")

// ErrItineraryParse is returned when an AI response contained no usable
// JSON object or the object did not decode into an itinerary.
// Handlers should map this to HTTP 502.
var ErrItineraryParse = errors.New("itinerary parse error")

// ErrOutOfRange is returned by the mutation operations when a day or
// activity index does not address an existing position.
var ErrOutOfRange = errors.New("index out of range")

// ErrConflict is returned when the stored itinerary changed while an
// operation that read it was still running (e.g. an edit landing during
// an AI refinement). The caller should reload and retry.
// Handlers should map this to HTTP 409.
var ErrConflict = errors.New("conflict")

// RateLimitError is the ErrRateLimited failure with the time left until
// the current window resets.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s: retry in %s", ErrRateLimited, e.RetryAfter.Round(time.Second))
}

// Unwrap lets errors.Is match ErrRateLimited.
func (e *RateLimitError) Unwrap() error { return ErrRateLimited }
