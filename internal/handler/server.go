// Package handler implements the HTTP handlers for the trip planner API.
// All handlers are methods on Server. Methods are split into
// domain-specific files (health.go, itinerary.go, activity.go, export.go,
// ws.go) but share the same Server struct so they can access its
// dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/service"
)

// ItineraryServicer defines the business operations the itinerary handlers
// depend on. Defining the interface here (in the consumer package) lets
// handler tests inject a mock without touching the AI or the session store.
type ItineraryServicer interface {
	Create(ctx context.Context, prefs domain.TravelPreferences, onProgress service.ProgressFunc) (domain.TravelItinerary, error)
	GetByID(ctx context.Context, id string) (domain.TravelItinerary, error)
	ListPaged(ctx context.Context, params domain.PaginationParams) ([]domain.TravelItinerary, int, error)
	Delete(ctx context.Context, id string) error
	Refine(ctx context.Context, id, instruction string, onProgress service.ProgressFunc) (domain.TravelItinerary, error)
	EditActivity(ctx context.Context, id string, dayIdx int, slot domain.TimeSlot, idx int, a domain.Activity) (domain.TravelItinerary, error)
	DeleteActivity(ctx context.Context, id string, dayIdx int, slot domain.TimeSlot, idx int) (domain.TravelItinerary, error)
	MoveActivity(ctx context.Context, id string, dayIdx int, slot domain.TimeSlot, idx int, dir domain.Direction) (domain.TravelItinerary, error)
	PackingList(ctx context.Context, id string) (domain.PackingList, error)
	Budget(ctx context.Context, id string) (domain.BudgetBreakdown, error)
}

// Exporter defines the document operations the export handlers depend on.
type Exporter interface {
	Rows(ctx context.Context, id string) ([]domain.ExportRow, error)
	CSV(ctx context.Context, id string) (domain.Document, error)
	PDF(ctx context.Context, id string) (domain.Document, error)
	Calendar(ctx context.Context, id string) (domain.Document, error)
}

// Server serves every API endpoint. Wire it in main.go by mounting Routes.
type Server struct {
	itineraries ItineraryServicer
	export      Exporter
	log         *slog.Logger
	origins     map[string]bool
}

// ServerOption customizes a Server.
type ServerOption func(*Server)

// WithLogger sets the logger used for unexpected errors.
func WithLogger(l *slog.Logger) ServerOption {
	return func(s *Server) { s.log = l }
}

// WithAllowedOrigins restricts which browser origins may open the
// generation websocket. Requests without an Origin header are always
// accepted.
func WithAllowedOrigins(origins []string) ServerOption {
	return func(s *Server) {
		for _, o := range origins {
			s.origins[o] = true
		}
	}
}

// NewServer constructs the Server with all its dependencies.
func NewServer(itineraries ItineraryServicer, export Exporter, opts ...ServerOption) *Server {
	s := &Server{
		itineraries: itineraries,
		export:      export,
		log:         slog.Default(),
		origins:     make(map[string]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil, nil)
}

// Routes returns a chi router with every endpoint registered.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)
	r.Get("/ws/generate", s.GenerateStream)

	r.Route("/itineraries", func(r chi.Router) {
		r.Get("/", s.ListItineraries)
		r.Post("/", s.CreateItinerary)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetItinerary)
			r.Delete("/", s.DeleteItinerary)
			r.Post("/refine", s.RefineItinerary)

			r.Put("/days/{dayIndex}/{slot}/{activityIndex}", s.EditActivity)
			r.Delete("/days/{dayIndex}/{slot}/{activityIndex}", s.DeleteActivity)
			r.Post("/days/{dayIndex}/{slot}/{activityIndex}/move", s.MoveActivity)

			r.Get("/packing-list", s.GetPackingList)
			r.Get("/budget", s.GetBudget)
			r.Get("/export", s.GetExport)
			r.Get("/export.pdf", s.GetPDF)
			r.Get("/calendar.ics", s.GetCalendar)
		})
	})
	return r
}
