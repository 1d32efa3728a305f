package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/cache"
	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/testutil"
)

// store is the behaviour shared by both backends.
type store interface {
	Get(ctx context.Context, key string) (domain.TravelItinerary, bool)
	Put(ctx context.Context, key string, it domain.TravelItinerary) error
	Clear(ctx context.Context) error
}

func sampleItinerary(id string) domain.TravelItinerary {
	return domain.TravelItinerary{
		ID:          id,
		Destination: "Goa",
		Overview:    "Beaches and forts",
		TotalBudget: "₹20,000-30,000",
		Tips:        []string{"Carry sunscreen"},
		Days: []domain.TravelDay{{
			Day:       1,
			Title:     "Arrival",
			Morning:   []domain.Activity{{ID: "morning-1-1", Name: "Calangute Beach"}},
			Afternoon: []domain.Activity{},
			Evening:   []domain.Activity{},
		}},
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// exerciseRoundTrip runs the put/get/overwrite/clear contract against s.
func exerciseRoundTrip(t *testing.T, s store) {
	t.Helper()
	ctx := context.Background()

	_, ok := s.Get(ctx, "missing")
	assert.False(t, ok)

	require.NoError(t, s.Put(ctx, "k", sampleItinerary("one")))
	got, ok := s.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "one", got.ID)
	assert.Equal(t, "Calangute Beach", got.Days[0].Morning[0].Name)

	require.NoError(t, s.Put(ctx, "k", sampleItinerary("two")))
	got, ok = s.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "two", got.ID, "put must overwrite the previous entry")

	require.NoError(t, s.Clear(ctx))
	_, ok = s.Get(ctx, "k")
	assert.False(t, ok)
}

// ---- Memory ----------------------------------------------------------------

func TestMemory_RoundTrip(t *testing.T) {
	exerciseRoundTrip(t, cache.NewMemory(time.Minute))
}

func TestMemory_ExpiresAfterTTL(t *testing.T) {
	c := cache.NewMemory(50 * time.Millisecond)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "k", sampleItinerary("one")))
	_, ok := c.Get(ctx, "k")
	require.True(t, ok)

	time.Sleep(120 * time.Millisecond)

	_, ok = c.Get(ctx, "k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len(), "expired entry must be evicted on read")
}

func TestMemory_ReturnsCopies(t *testing.T) {
	c := cache.NewMemory(time.Minute)
	ctx := context.Background()

	orig := sampleItinerary("one")
	require.NoError(t, c.Put(ctx, "k", orig))
	orig.Days[0].Morning[0].Name = "mutated after put"

	got, ok := c.Get(ctx, "k")
	require.True(t, ok)
	got.Days[0].Morning[0].Name = "mutated after get"

	again, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "Calangute Beach", again.Days[0].Morning[0].Name)
}

func TestMemory_DefaultTTL(t *testing.T) {
	c := cache.NewMemory(0)

	require.NoError(t, c.Put(context.Background(), "k", sampleItinerary("one")))
	_, ok := c.Get(context.Background(), "k")

	assert.True(t, ok)
}

// ---- Redis (integration) ---------------------------------------------------

func TestRedis_RoundTrip(t *testing.T) {
	client := testutil.NewRedisClient(t)
	exerciseRoundTrip(t, cache.NewRedis(client, time.Minute))
}

func TestRedis_ExpiresAfterTTL(t *testing.T) {
	client := testutil.NewRedisClient(t)
	c := cache.NewRedis(client, time.Second)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "ttl", sampleItinerary("one")))
	time.Sleep(1500 * time.Millisecond)

	_, ok := c.Get(ctx, "ttl")
	assert.False(t, ok)
}
