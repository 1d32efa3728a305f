// Package service contains the business logic of the Trip Planner API.
// Services validate inputs, enforce the generation budget, and orchestrate
// the AI capability, the itinerary cache and the session store. They depend
// on interfaces, not implementations.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/pkordes/trip-planner/internal/ai"
	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/prompt"
)

// MaxTripDays bounds the date range accepted by Generate.
const MaxTripDays = 30

// ItineraryCache is the subset of cache.Memory / cache.Redis used here.
type ItineraryCache interface {
	Get(ctx context.Context, key string) (domain.TravelItinerary, bool)
	Put(ctx context.Context, key string, it domain.TravelItinerary) error
}

// Limiter consumes one generation slot or fails with domain.ErrRateLimited.
type Limiter interface {
	Allow() error
}

// ProgressKind tells a progress observer how to treat the text it receives.
type ProgressKind int

const (
	// ProgressChunk is the next fragment of the AI response.
	ProgressChunk ProgressKind = iota
	// ProgressReplace is a complete itinerary document that supersedes every
	// fragment delivered before it. It is sent for a cache hit and when the
	// offline planner takes over from a failed stream.
	ProgressReplace
)

// ProgressFunc receives response text in arrival order. It runs on the
// goroutine that called Generate or Refine.
type ProgressFunc func(kind ProgressKind, text string)

// GenerationService drafts itineraries with the AI capability, falling
// back to the offline planner when the AI is unreachable.
type GenerationService struct {
	ai      ai.Streamer
	cache   ItineraryCache
	limiter Limiter
	model   string
	log     *slog.Logger
	now     func() time.Time
	newID   func() string
}

// GenerationOption customises a GenerationService.
type GenerationOption func(*GenerationService)

// WithModel selects the chat model identifier.
func WithModel(model string) GenerationOption {
	return func(s *GenerationService) {
		if model != "" {
			s.model = model
		}
	}
}

// WithLogger sets the logger used for run diagnostics.
func WithLogger(l *slog.Logger) GenerationOption {
	return func(s *GenerationService) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock replaces time.Now for creation timestamps.
func WithClock(now func() time.Time) GenerationOption {
	return func(s *GenerationService) { s.now = now }
}

// WithIDGenerator replaces the itinerary id generator.
func WithIDGenerator(newID func() string) GenerationOption {
	return func(s *GenerationService) { s.newID = newID }
}

// NewGenerationService wires the AI capability, the cache and the limiter.
// The cache and limiter are shared by every call on the returned service.
func NewGenerationService(streamer ai.Streamer, c ItineraryCache, l Limiter, opts ...GenerationOption) *GenerationService {
	s := &GenerationService{
		ai:      streamer,
		cache:   c,
		limiter: l,
		model:   ai.DefaultModel,
		log:     slog.Default(),
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate returns an itinerary for prefs.
//
// A rate-limit slot is consumed first. A cached itinerary for identical
// preferences is returned without an AI call. Otherwise the AI response is
// streamed to onProgress and parsed; if the AI cannot answer, the offline
// planner is used instead and its result is not cached. Cache hits and
// offline results reach onProgress as one ProgressReplace document carrying
// the returned id. A response that
// arrives but holds no usable itinerary fails with domain.ErrItineraryParse.
func (s *GenerationService) Generate(ctx context.Context, prefs domain.TravelPreferences, onProgress ProgressFunc) (domain.TravelItinerary, error) {
	if err := ValidatePreferences(prefs); err != nil {
		return domain.TravelItinerary{}, fmt.Errorf("service.GenerationService.Generate: %w", err)
	}
	if err := s.limiter.Allow(); err != nil {
		return domain.TravelItinerary{}, fmt.Errorf("service.GenerationService.Generate: %w", err)
	}
	progress := orNoop(onProgress)

	key := prefs.CacheKey()
	if cached, ok := s.cache.Get(ctx, key); ok {
		s.log.InfoContext(ctx, "itinerary cache hit", "destination", prefs.Destination)
		it := s.stamp(cached)
		progress(ProgressReplace, mustJSON(it))
		return it, nil
	}

	runID := ulid.Make().String()
	log := s.log.With("run_id", runID, "destination", prefs.Destination)
	log.InfoContext(ctx, "generation started", "days", prefs.TripLength(), "model", s.model)

	text, err := s.stream(ctx, prompt.Build(prefs), progress)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.TravelItinerary{}, fmt.Errorf("service.GenerationService.Generate: %w", ctxErr)
		}
		log.WarnContext(ctx, "ai unavailable, using offline planner", "error", err)
		mock := MockItinerary(prefs)
		mock.Normalize()
		mock = s.stamp(mock)
		progress(ProgressReplace, mustJSON(mock))
		return mock, nil
	}

	it, err := ParseItinerary(text)
	if err != nil {
		log.WarnContext(ctx, "ai response unusable", "error", err, "bytes", len(text))
		return domain.TravelItinerary{}, fmt.Errorf("service.GenerationService.Generate: %w", err)
	}
	it = s.stamp(it)
	if err := s.cache.Put(ctx, key, it); err != nil {
		log.WarnContext(ctx, "itinerary cache put failed", "error", err)
	}
	log.InfoContext(ctx, "generation complete", "itinerary_id", it.ID, "days", len(it.Days))
	return it, nil
}

// Refine asks the AI to apply instruction to it. The result keeps the id
// and creation time of it. Refinements are never cached and have no
// offline fallback: an unreachable AI fails with domain.ErrAIUnavailable.
func (s *GenerationService) Refine(ctx context.Context, it domain.TravelItinerary, instruction string, onProgress ProgressFunc) (domain.TravelItinerary, error) {
	if strings.TrimSpace(instruction) == "" {
		return domain.TravelItinerary{}, fmt.Errorf("service.GenerationService.Refine: %w: instruction is required", domain.ErrValidation)
	}
	if err := s.limiter.Allow(); err != nil {
		return domain.TravelItinerary{}, fmt.Errorf("service.GenerationService.Refine: %w", err)
	}

	log := s.log.With("run_id", ulid.Make().String(), "itinerary_id", it.ID)
	log.InfoContext(ctx, "refinement started", "model", s.model)

	text, err := s.stream(ctx, prompt.BuildRefine(it, instruction), orNoop(onProgress))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.TravelItinerary{}, fmt.Errorf("service.GenerationService.Refine: %w", ctxErr)
		}
		log.WarnContext(ctx, "refinement failed", "error", err)
		return domain.TravelItinerary{}, fmt.Errorf("service.GenerationService.Refine: %w", err)
	}

	refined, err := ParseItinerary(text)
	if err != nil {
		log.WarnContext(ctx, "refinement response unusable", "error", err, "bytes", len(text))
		return domain.TravelItinerary{}, fmt.Errorf("service.GenerationService.Refine: %w", err)
	}
	refined.ID = it.ID
	refined.CreatedAt = it.CreatedAt
	log.InfoContext(ctx, "refinement complete", "days", len(refined.Days))
	return refined, nil
}

// stream collects the AI response, forwarding each fragment to progress.
// Every failure other than cancellation is reported as ErrAIUnavailable,
// including a response with no text.
func (s *GenerationService) stream(ctx context.Context, p string, progress ProgressFunc) (string, error) {
	ch, err := s.ai.Stream(ctx, p, s.model)
	if err != nil {
		return "", unavailable(err)
	}

	var buf strings.Builder
	for chunk := range ch {
		if chunk.Err != nil {
			return "", unavailable(chunk.Err)
		}
		buf.WriteString(chunk.Text)
		progress(ProgressChunk, chunk.Text)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.TrimSpace(buf.String()) == "" {
		return "", fmt.Errorf("%w: empty response", domain.ErrAIUnavailable)
	}
	return buf.String(), nil
}

func (s *GenerationService) stamp(it domain.TravelItinerary) domain.TravelItinerary {
	it.ID = s.newID()
	it.CreatedAt = s.now().UTC()
	return it
}

// ValidatePreferences checks the fields the intake form requires.
func ValidatePreferences(p domain.TravelPreferences) error {
	if strings.TrimSpace(p.Destination) == "" {
		return fmt.Errorf("%w: destination is required", domain.ErrValidation)
	}
	if p.StartDate.IsZero() || p.EndDate.IsZero() {
		return fmt.Errorf("%w: startDate and endDate are required", domain.ErrValidation)
	}
	if p.EndDate.Before(p.StartDate.Time) {
		return fmt.Errorf("%w: endDate must not be before startDate", domain.ErrValidation)
	}
	if n := p.TripLength(); n > MaxTripDays {
		return fmt.Errorf("%w: trip of %d days exceeds the %d day limit", domain.ErrValidation, n, MaxTripDays)
	}
	switch p.Budget {
	case "", domain.BudgetLow, domain.BudgetMid, domain.BudgetLuxury:
	default:
		return fmt.Errorf("%w: unknown budget %q", domain.ErrValidation, p.Budget)
	}
	switch p.Pace {
	case "", domain.PaceRelaxed, domain.PaceModerate, domain.PacePacked:
	default:
		return fmt.Errorf("%w: unknown pace %q", domain.ErrValidation, p.Pace)
	}
	return nil
}

func unavailable(err error) error {
	if errors.Is(err, domain.ErrAIUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrAIUnavailable, err)
}

func orNoop(f ProgressFunc) ProgressFunc {
	if f == nil {
		return func(ProgressKind, string) {}
	}
	return f
}

func mustJSON(it domain.TravelItinerary) string {
	b, err := json.Marshal(it)
	if err != nil {
		panic("service: marshal itinerary: " + err.Error())
	}
	return string(b)
}
