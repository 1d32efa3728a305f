package service

import (
	"context"
	"fmt"
	"reflect"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/repo"
)

// Generator is the subset of GenerationService used by ItineraryService.
type Generator interface {
	Generate(ctx context.Context, prefs domain.TravelPreferences, onProgress ProgressFunc) (domain.TravelItinerary, error)
	Refine(ctx context.Context, it domain.TravelItinerary, instruction string, onProgress ProgressFunc) (domain.TravelItinerary, error)
}

// ItineraryService keeps the itineraries of the running process and applies
// generation, refinement and the local edit operations to them.
type ItineraryService struct {
	repo repo.ItineraryRepo
	gen  Generator
}

// NewItineraryService constructs an ItineraryService backed by the provided
// repo and generator.
func NewItineraryService(r repo.ItineraryRepo, g Generator) *ItineraryService {
	return &ItineraryService{repo: r, gen: g}
}

// Create generates an itinerary for prefs and stores it.
func (s *ItineraryService) Create(ctx context.Context, prefs domain.TravelPreferences, onProgress ProgressFunc) (domain.TravelItinerary, error) {
	it, err := s.gen.Generate(ctx, prefs, onProgress)
	if err != nil {
		return domain.TravelItinerary{}, fmt.Errorf("service.ItineraryService.Create: %w", err)
	}
	saved, err := s.repo.Save(ctx, it)
	if err != nil {
		return domain.TravelItinerary{}, fmt.Errorf("service.ItineraryService.Create: %w", err)
	}
	return saved, nil
}

// GetByID returns a stored itinerary.
func (s *ItineraryService) GetByID(ctx context.Context, id string) (domain.TravelItinerary, error) {
	it, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.TravelItinerary{}, fmt.Errorf("service.ItineraryService.GetByID: %w", err)
	}
	return it, nil
}

// List returns every stored itinerary, newest first.
func (s *ItineraryService) List(ctx context.Context) ([]domain.TravelItinerary, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ItineraryService.List: %w", err)
	}
	return list, nil
}

// ListPaged returns one page of stored itineraries, newest first, and the
// total number stored.
func (s *ItineraryService) ListPaged(ctx context.Context, params domain.PaginationParams) ([]domain.TravelItinerary, int, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("service.ItineraryService.ListPaged: %w", err)
	}
	start, end := params.Bounds(len(list))
	return list[start:end], len(list), nil
}

// Delete removes a stored itinerary.
func (s *ItineraryService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.ItineraryService.Delete: %w", err)
	}
	return nil
}

// Refine applies a free-text instruction through the AI and replaces the
// stored itinerary with the result. On failure the stored version is kept.
// If the itinerary was edited while the AI was answering, the refinement is
// discarded and domain.ErrConflict is returned.
func (s *ItineraryService) Refine(ctx context.Context, id, instruction string, onProgress ProgressFunc) (domain.TravelItinerary, error) {
	cur, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.TravelItinerary{}, fmt.Errorf("service.ItineraryService.Refine: %w", err)
	}
	refined, err := s.gen.Refine(ctx, cur.Clone(), instruction, onProgress)
	if err != nil {
		return domain.TravelItinerary{}, fmt.Errorf("service.ItineraryService.Refine: %w", err)
	}
	updated, err := s.repo.Update(ctx, id, func(it *domain.TravelItinerary) error {
		if !reflect.DeepEqual(*it, cur) {
			return fmt.Errorf("%w: itinerary %s was modified during refinement", domain.ErrConflict, id)
		}
		*it = refined
		return nil
	})
	if err != nil {
		return domain.TravelItinerary{}, fmt.Errorf("service.ItineraryService.Refine: %w", err)
	}
	return updated, nil
}

// EditActivity replaces one activity of a stored itinerary.
func (s *ItineraryService) EditActivity(ctx context.Context, id string, dayIdx int, slot domain.TimeSlot, idx int, a domain.Activity) (domain.TravelItinerary, error) {
	it, err := s.repo.Update(ctx, id, func(it *domain.TravelItinerary) error {
		return it.EditActivity(dayIdx, slot, idx, a)
	})
	if err != nil {
		return domain.TravelItinerary{}, fmt.Errorf("service.ItineraryService.EditActivity: %w", err)
	}
	return it, nil
}

// DeleteActivity removes one activity of a stored itinerary.
func (s *ItineraryService) DeleteActivity(ctx context.Context, id string, dayIdx int, slot domain.TimeSlot, idx int) (domain.TravelItinerary, error) {
	it, err := s.repo.Update(ctx, id, func(it *domain.TravelItinerary) error {
		return it.DeleteActivity(dayIdx, slot, idx)
	})
	if err != nil {
		return domain.TravelItinerary{}, fmt.Errorf("service.ItineraryService.DeleteActivity: %w", err)
	}
	return it, nil
}

// MoveActivity swaps one activity with its neighbour in dir.
func (s *ItineraryService) MoveActivity(ctx context.Context, id string, dayIdx int, slot domain.TimeSlot, idx int, dir domain.Direction) (domain.TravelItinerary, error) {
	it, err := s.repo.Update(ctx, id, func(it *domain.TravelItinerary) error {
		return it.MoveActivity(dayIdx, slot, idx, dir)
	})
	if err != nil {
		return domain.TravelItinerary{}, fmt.Errorf("service.ItineraryService.MoveActivity: %w", err)
	}
	return it, nil
}

// PackingList derives a packing checklist from a stored itinerary.
func (s *ItineraryService) PackingList(ctx context.Context, id string) (domain.PackingList, error) {
	it, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.PackingList{}, fmt.Errorf("service.ItineraryService.PackingList: %w", err)
	}
	return PackingList(it), nil
}

// Budget derives a budget breakdown from a stored itinerary.
func (s *ItineraryService) Budget(ctx context.Context, id string) (domain.BudgetBreakdown, error) {
	it, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.BudgetBreakdown{}, fmt.Errorf("service.ItineraryService.Budget: %w", err)
	}
	return Budget(it), nil
}
