// Package app wires the trip planner's services from a Config. Both the
// HTTP server and the CLI build their dependency graph here so they share
// the same cache, limiter and AI selection rules.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/openai/openai-go/option"
	"github.com/ringsaturn/tzf"

	"github.com/pkordes/trip-planner/internal/ai"
	"github.com/pkordes/trip-planner/internal/cache"
	"github.com/pkordes/trip-planner/internal/config"
	"github.com/pkordes/trip-planner/internal/ratelimit"
	"github.com/pkordes/trip-planner/internal/repo"
	"github.com/pkordes/trip-planner/internal/service"
)

// App holds the process-wide singletons.
type App struct {
	Itineraries *service.ItineraryService
	Export      *service.ExportService

	closers []func() error
}

// New builds every service described by cfg. A missing OpenAI key selects
// ai.Unavailable, so generation answers from the offline planner. A
// configured REDIS_URL that cannot be reached is an error.
func New(ctx context.Context, cfg config.Config, log *slog.Logger) (*App, error) {
	if log == nil {
		log = slog.Default()
	}
	a := &App{}

	var itCache service.ItineraryCache
	if cfg.RedisURL != "" {
		rc, err := cache.OpenRedis(ctx, cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			return nil, fmt.Errorf("app.New: %w", err)
		}
		a.closers = append(a.closers, rc.Close)
		itCache = rc
		log.Info("itinerary cache: redis")
	} else {
		itCache = cache.NewMemory(cfg.CacheTTL)
		log.Info("itinerary cache: memory", "ttl", cfg.CacheTTL.String())
	}

	var streamer ai.Streamer = ai.Unavailable{}
	if cfg.OpenAIAPIKey != "" {
		var opts []option.RequestOption
		if cfg.OpenAIBaseURL != "" {
			opts = append(opts, option.WithBaseURL(cfg.OpenAIBaseURL))
		}
		streamer = ai.NewOpenAIStreamer(cfg.OpenAIAPIKey, log, opts...)
		log.Info("ai provider: openai", "model", cfg.AIModel)
	} else {
		log.Warn("OPENAI_API_KEY not set; itineraries come from the offline planner")
	}

	// The timezone finder only decorates calendar exports; without it the
	// export simply omits X-WR-TIMEZONE.
	var tz service.TimezoneFinder
	if finder, err := tzf.NewDefaultFinder(); err != nil {
		log.Warn("timezone finder unavailable", "error", err)
	} else {
		tz = finder
	}

	gen := service.NewGenerationService(
		streamer,
		itCache,
		ratelimit.New(cfg.RateLimit, cfg.RateWindow, nil),
		service.WithModel(cfg.AIModel),
		service.WithLogger(log),
	)
	store := repo.NewItineraryRepo()

	a.Itineraries = service.NewItineraryService(store, gen)
	a.Export = service.NewExportService(store, tz, cfg.PublicBaseURL)
	return a, nil
}

// Close releases external connections opened by New.
func (a *App) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
