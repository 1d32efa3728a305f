// Package cache stores generated itineraries keyed by the canonical
// serialization of the preferences that produced them. Entries expire a
// fixed TTL after they were stored; expired entries are evicted when read.
package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/pkordes/trip-planner/internal/domain"
)

// DefaultTTL is how long a generated itinerary stays reusable.
const DefaultTTL = 15 * time.Minute

// Memory is an in-process itinerary cache backed by go-cache.
// It is safe for concurrent use. Values are deep-copied on Put and Get.
type Memory struct {
	c *gocache.Cache
}

// NewMemory returns a cache whose entries live for ttl (DefaultTTL when
// ttl <= 0). A janitor sweeps expired entries every 2*ttl.
func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Memory{c: gocache.New(ttl, 2*ttl)}
}

// Get returns the itinerary stored under key when it has not expired.
// An expired entry is removed and reported as a miss.
func (m *Memory) Get(_ context.Context, key string) (domain.TravelItinerary, bool) {
	v, found := m.c.Get(key)
	if !found {
		m.c.Delete(key)
		return domain.TravelItinerary{}, false
	}
	it, ok := v.(domain.TravelItinerary)
	if !ok {
		m.c.Delete(key)
		return domain.TravelItinerary{}, false
	}
	return it.Clone(), true
}

// Put stores it under key, replacing any previous entry and restarting
// its TTL.
func (m *Memory) Put(_ context.Context, key string, it domain.TravelItinerary) error {
	m.c.SetDefault(key, it.Clone())
	return nil
}

// Clear removes every entry.
func (m *Memory) Clear(context.Context) error {
	m.c.Flush()
	return nil
}

// Len reports the number of stored entries, including expired ones the
// janitor has not swept yet.
func (m *Memory) Len() int {
	return m.c.ItemCount()
}
