// Package repo holds the session store for itineraries. Itineraries live in
// process memory only and vanish on restart; there is no durable storage.
// No business logic lives here, only storage and copying.
package repo

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/pkordes/trip-planner/internal/domain"
)

// ItineraryRepo defines the storage operations for itineraries.
// The service layer depends on this interface, not the in-memory
// implementation, which allows the service to be unit-tested with a mock.
type ItineraryRepo interface {
	// Save stores it under it.ID, replacing any previous version.
	Save(ctx context.Context, it domain.TravelItinerary) (domain.TravelItinerary, error)

	// GetByID returns the itinerary with the given id.
	// Returns domain.ErrNotFound if no itinerary with that ID exists.
	GetByID(ctx context.Context, id string) (domain.TravelItinerary, error)

	// List returns every stored itinerary, newest first.
	List(ctx context.Context) ([]domain.TravelItinerary, error)

	// Update applies fn to the stored itinerary while holding the store's
	// lock, so one mutation is in flight at a time. The change is kept only
	// if fn returns nil. Returns domain.ErrNotFound if the ID is unknown.
	Update(ctx context.Context, id string, fn func(*domain.TravelItinerary) error) (domain.TravelItinerary, error)

	// Delete removes an itinerary. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id string) error
}

// memItineraryRepo is the in-memory implementation of ItineraryRepo.
type memItineraryRepo struct {
	mu    sync.Mutex
	items map[string]domain.TravelItinerary
}

// NewItineraryRepo constructs an empty in-memory ItineraryRepo.
func NewItineraryRepo() ItineraryRepo {
	return &memItineraryRepo{items: make(map[string]domain.TravelItinerary)}
}

// Save stores a deep copy of it.
func (r *memItineraryRepo) Save(_ context.Context, it domain.TravelItinerary) (domain.TravelItinerary, error) {
	if it.ID == "" {
		return domain.TravelItinerary{}, fmt.Errorf("repo.ItineraryRepo.Save: %w: id is required", domain.ErrValidation)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[it.ID] = it.Clone()
	return it.Clone(), nil
}

// GetByID returns a copy of the stored itinerary.
func (r *memItineraryRepo) GetByID(_ context.Context, id string) (domain.TravelItinerary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok {
		return domain.TravelItinerary{}, fmt.Errorf("repo.ItineraryRepo.GetByID: %w", domain.ErrNotFound)
	}
	return it.Clone(), nil
}

// List returns copies ordered by CreatedAt descending, then by ID.
func (r *memItineraryRepo) List(_ context.Context) ([]domain.TravelItinerary, error) {
	r.mu.Lock()
	out := make([]domain.TravelItinerary, 0, len(r.items))
	for _, it := range r.items {
		out = append(out, it.Clone())
	}
	r.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Update runs fn against a working copy and commits it on success, so a
// failing mutation leaves the stored itinerary untouched.
func (r *memItineraryRepo) Update(_ context.Context, id string, fn func(*domain.TravelItinerary) error) (domain.TravelItinerary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.items[id]
	if !ok {
		return domain.TravelItinerary{}, fmt.Errorf("repo.ItineraryRepo.Update: %w", domain.ErrNotFound)
	}
	work := cur.Clone()
	if err := fn(&work); err != nil {
		return domain.TravelItinerary{}, fmt.Errorf("repo.ItineraryRepo.Update: %w", err)
	}
	work.ID = id
	r.items[id] = work
	return work.Clone(), nil
}

// Delete removes an itinerary by ID.
func (r *memItineraryRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return fmt.Errorf("repo.ItineraryRepo.Delete: %w", domain.ErrNotFound)
	}
	delete(r.items, id)
	return nil
}
