package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/cache"
	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/handler"
	"github.com/pkordes/trip-planner/internal/ratelimit"
	"github.com/pkordes/trip-planner/internal/repo"
	"github.com/pkordes/trip-planner/internal/service"
	"github.com/pkordes/trip-planner/testutil"
)

// mockItineraryServicer is a test double for handler.ItineraryServicer.
// Set only the method fields your test needs.
type mockItineraryServicer struct {
	create         func(ctx context.Context, prefs domain.TravelPreferences, onProgress service.ProgressFunc) (domain.TravelItinerary, error)
	getByID        func(ctx context.Context, id string) (domain.TravelItinerary, error)
	listPaged      func(ctx context.Context, params domain.PaginationParams) ([]domain.TravelItinerary, int, error)
	delete         func(ctx context.Context, id string) error
	refine         func(ctx context.Context, id, instruction string, onProgress service.ProgressFunc) (domain.TravelItinerary, error)
	editActivity   func(ctx context.Context, id string, dayIdx int, slot domain.TimeSlot, idx int, a domain.Activity) (domain.TravelItinerary, error)
	deleteActivity func(ctx context.Context, id string, dayIdx int, slot domain.TimeSlot, idx int) (domain.TravelItinerary, error)
	moveActivity   func(ctx context.Context, id string, dayIdx int, slot domain.TimeSlot, idx int, dir domain.Direction) (domain.TravelItinerary, error)
	packingList    func(ctx context.Context, id string) (domain.PackingList, error)
	budget         func(ctx context.Context, id string) (domain.BudgetBreakdown, error)
}

func (m *mockItineraryServicer) Create(ctx context.Context, p domain.TravelPreferences, f service.ProgressFunc) (domain.TravelItinerary, error) {
	return m.create(ctx, p, f)
}
func (m *mockItineraryServicer) GetByID(ctx context.Context, id string) (domain.TravelItinerary, error) {
	return m.getByID(ctx, id)
}
func (m *mockItineraryServicer) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.TravelItinerary, int, error) {
	return m.listPaged(ctx, p)
}
func (m *mockItineraryServicer) Delete(ctx context.Context, id string) error {
	return m.delete(ctx, id)
}
func (m *mockItineraryServicer) Refine(ctx context.Context, id, instruction string, f service.ProgressFunc) (domain.TravelItinerary, error) {
	return m.refine(ctx, id, instruction, f)
}
func (m *mockItineraryServicer) EditActivity(ctx context.Context, id string, d int, s domain.TimeSlot, i int, a domain.Activity) (domain.TravelItinerary, error) {
	return m.editActivity(ctx, id, d, s, i, a)
}
func (m *mockItineraryServicer) DeleteActivity(ctx context.Context, id string, d int, s domain.TimeSlot, i int) (domain.TravelItinerary, error) {
	return m.deleteActivity(ctx, id, d, s, i)
}
func (m *mockItineraryServicer) MoveActivity(ctx context.Context, id string, d int, s domain.TimeSlot, i int, dir domain.Direction) (domain.TravelItinerary, error) {
	return m.moveActivity(ctx, id, d, s, i, dir)
}
func (m *mockItineraryServicer) PackingList(ctx context.Context, id string) (domain.PackingList, error) {
	return m.packingList(ctx, id)
}
func (m *mockItineraryServicer) Budget(ctx context.Context, id string) (domain.BudgetBreakdown, error) {
	return m.budget(ctx, id)
}

// compile-time check: mockItineraryServicer must satisfy handler.ItineraryServicer.
var _ handler.ItineraryServicer = (*mockItineraryServicer)(nil)

// ---- helpers ---------------------------------------------------------------

// newHTTPHandler wires a Server with the given mocks into its chi router.
// This mirrors how main.go wires it in production.
func newHTTPHandler(svc handler.ItineraryServicer, ex handler.Exporter) http.Handler {
	return handler.NewServer(svc, ex).Routes()
}

func day(s string) openapi_types.Date {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return openapi_types.Date{Time: t}
}

func itineraryFixture() domain.TravelItinerary {
	return domain.TravelItinerary{
		ID:          "01HZX3K8Q0",
		Destination: "Goa, India",
		StartDate:   day("2024-01-01"),
		EndDate:     day("2024-01-03"),
		Overview:    "Beaches and forts",
		TotalBudget: "₹20,000-30,000",
		Tips:        []string{"Carry cash"},
		Days: []domain.TravelDay{{
			Day: 1, Date: day("2024-01-01"), Title: "Arrival",
			Morning:   []domain.Activity{{ID: "morning-1-1", Name: "Fort Aguada"}},
			Afternoon: []domain.Activity{},
			Evening:   []domain.Activity{},
		}},
		CreatedAt: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
	}
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handler.ErrorDetail {
	t.Helper()
	var body handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Error
}

// ---- POST /itineraries -----------------------------------------------------

func TestCreateItinerary_201(t *testing.T) {
	fixture := itineraryFixture()
	var got domain.TravelPreferences
	svc := &mockItineraryServicer{
		create: func(_ context.Context, p domain.TravelPreferences, _ service.ProgressFunc) (domain.TravelItinerary, error) {
			got = p
			return fixture, nil
		},
	}

	body := jsonBody(t, map[string]any{
		"destination": "Goa, India",
		"startDate":   "2024-01-01",
		"endDate":     "2024-01-03",
		"budget":      "mid-range",
		"interests":   []string{"beaches", "food"},
	})
	req := httptest.NewRequest(http.MethodPost, "/itineraries", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	newHTTPHandler(svc, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Goa, India", got.Destination)
	assert.Equal(t, 3, got.TripLength())
	assert.Equal(t, domain.BudgetMid, got.Budget)

	var resp domain.TravelItinerary
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, fixture.ID, resp.ID)
	assert.Equal(t, "Fort Aguada", resp.Days[0].Morning[0].Name)
}

func TestCreateItinerary_422_MalformedBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/itineraries", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	newHTTPHandler(&mockItineraryServicer{}, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "validation_error", decodeError(t, rec).Code)
}

func TestCreateItinerary_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{
			name:    "validation",
			err:     fmt.Errorf("service.ItineraryService.Create: %w", fmt.Errorf("%w: destination is required", domain.ErrValidation)),
			status:  http.StatusUnprocessableEntity,
			code:    "validation_error",
			message: "destination is required",
		},
		{name: "rate limited", err: fmt.Errorf("wrap: %w", domain.ErrRateLimited), status: http.StatusTooManyRequests, code: "rate_limited"},
		{
			name:    "parse",
			err:     fmt.Errorf("wrap: %w: day 2: parsing time \"2024-13-01\"", domain.ErrItineraryParse),
			status:  http.StatusBadGateway,
			code:    "bad_ai_response",
			message: "AI response could not be parsed",
		},
		{name: "unavailable", err: domain.ErrAIUnavailable, status: http.StatusServiceUnavailable, code: "ai_unavailable", message: "AI service is unavailable"},
		{name: "conflict", err: fmt.Errorf("wrap: %w: itinerary x was modified", domain.ErrConflict), status: http.StatusConflict, code: "conflict"},
		{name: "internal", err: errors.New("boom: secret detail"), status: http.StatusInternalServerError, code: "internal_error", message: "internal server error"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockItineraryServicer{
				create: func(context.Context, domain.TravelPreferences, service.ProgressFunc) (domain.TravelItinerary, error) {
					return domain.TravelItinerary{}, tc.err
				},
			}
			body := jsonBody(t, map[string]any{"destination": "Goa"})
			req := httptest.NewRequest(http.MethodPost, "/itineraries", body)
			rec := httptest.NewRecorder()

			newHTTPHandler(svc, nil).ServeHTTP(rec, req)

			require.Equal(t, tc.status, rec.Code)
			detail := decodeError(t, rec)
			assert.Equal(t, tc.code, detail.Code)
			if tc.message != "" {
				assert.Equal(t, tc.message, detail.Message)
			}
		})
	}
}

// ---- GET /itineraries ------------------------------------------------------

func TestListItineraries_200(t *testing.T) {
	var got domain.PaginationParams
	svc := &mockItineraryServicer{
		listPaged: func(_ context.Context, p domain.PaginationParams) ([]domain.TravelItinerary, int, error) {
			got = p
			return []domain.TravelItinerary{itineraryFixture()}, 6, nil
		},
	}
	req := httptest.NewRequest(http.MethodGet, "/itineraries?page=2&limit=5", nil)
	rec := httptest.NewRecorder()

	newHTTPHandler(svc, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.PaginationParams{Page: 2, Limit: 5}, got)
	var resp handler.ListResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, handler.Pagination{Page: 2, Limit: 5, Total: 6}, resp.Pagination)
}

func TestListItineraries_EmptyIsArray(t *testing.T) {
	svc := &mockItineraryServicer{
		listPaged: func(context.Context, domain.PaginationParams) ([]domain.TravelItinerary, int, error) {
			return nil, 0, nil
		},
	}
	req := httptest.NewRequest(http.MethodGet, "/itineraries", nil)
	rec := httptest.NewRecorder()

	newHTTPHandler(svc, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":[],"pagination":{"page":1,"limit":20,"total":0}}`, rec.Body.String())
}

func TestListItineraries_422_BadPage(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/itineraries?page=two", nil)
	rec := httptest.NewRecorder()

	newHTTPHandler(&mockItineraryServicer{}, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

// ---- GET / DELETE /itineraries/{id} ----------------------------------------

func TestGetItinerary_200(t *testing.T) {
	svc := &mockItineraryServicer{
		getByID: func(_ context.Context, id string) (domain.TravelItinerary, error) {
			assert.Equal(t, "01HZX3K8Q0", id)
			return itineraryFixture(), nil
		},
	}
	req := httptest.NewRequest(http.MethodGet, "/itineraries/01HZX3K8Q0", nil)
	rec := httptest.NewRecorder()

	newHTTPHandler(svc, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetItinerary_404(t *testing.T) {
	svc := &mockItineraryServicer{
		getByID: func(context.Context, string) (domain.TravelItinerary, error) {
			return domain.TravelItinerary{}, fmt.Errorf("service.ItineraryService.GetByID: %w", domain.ErrNotFound)
		},
	}
	req := httptest.NewRequest(http.MethodGet, "/itineraries/missing", nil)
	rec := httptest.NewRecorder()

	newHTTPHandler(svc, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, handler.ErrorDetail{Code: "not_found", Message: "itinerary not found"}, decodeError(t, rec))
}

func TestDeleteItinerary_204(t *testing.T) {
	svc := &mockItineraryServicer{
		delete: func(context.Context, string) error { return nil },
	}
	req := httptest.NewRequest(http.MethodDelete, "/itineraries/01HZX3K8Q0", nil)
	rec := httptest.NewRecorder()

	newHTTPHandler(svc, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.Bytes())
}

// ---- POST /itineraries/{id}/refine -----------------------------------------

func TestRefineItinerary_200(t *testing.T) {
	svc := &mockItineraryServicer{
		refine: func(_ context.Context, id, instruction string, _ service.ProgressFunc) (domain.TravelItinerary, error) {
			assert.Equal(t, "01HZX3K8Q0", id)
			assert.Equal(t, "Add more food experiences", instruction)
			it := itineraryFixture()
			it.Overview = "refined"
			return it, nil
		},
	}
	req := httptest.NewRequest(http.MethodPost, "/itineraries/01HZX3K8Q0/refine",
		jsonBody(t, handler.RefineRequest{Instruction: "Add more food experiences"}))
	rec := httptest.NewRecorder()

	newHTTPHandler(svc, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp domain.TravelItinerary
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "refined", resp.Overview)
}

func TestRefineItinerary_503(t *testing.T) {
	svc := &mockItineraryServicer{
		refine: func(context.Context, string, string, service.ProgressFunc) (domain.TravelItinerary, error) {
			return domain.TravelItinerary{}, fmt.Errorf("service.GenerationService.Refine: %w: connection refused", domain.ErrAIUnavailable)
		},
	}
	req := httptest.NewRequest(http.MethodPost, "/itineraries/01HZX3K8Q0/refine",
		jsonBody(t, handler.RefineRequest{Instruction: "less walking"}))
	rec := httptest.NewRecorder()

	newHTTPHandler(svc, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "AI service is unavailable", decodeError(t, rec).Message)
}

// The provider's failure text reaches the log, never the client.
func TestRefineItinerary_503_HidesUpstreamDetail(t *testing.T) {
	upstream := `POST "https://api.openai.com/v1/chat/completions": 401 Unauthorized {"message":"Incorrect API key provided: sk-live-1234"}`
	streamer := &testutil.ScriptedStreamer{StartErr: errors.New(upstream)}
	gen := service.NewGenerationService(streamer, cache.NewMemory(time.Minute), ratelimit.New(10, time.Minute, nil))
	r := repo.NewItineraryRepo()
	_, err := r.Save(context.Background(), itineraryFixture())
	require.NoError(t, err)
	var logs bytes.Buffer
	srv := handler.NewServer(service.NewItineraryService(r, gen), nil,
		handler.WithLogger(slog.New(slog.NewJSONHandler(&logs, nil))))

	req := httptest.NewRequest(http.MethodPost, "/itineraries/"+itineraryFixture().ID+"/refine",
		jsonBody(t, handler.RefineRequest{Instruction: "less walking"}))
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.NotContains(t, rec.Body.String(), "sk-live-1234")
	assert.NotContains(t, rec.Body.String(), "api.openai.com")
	assert.Equal(t, "ai_unavailable", decodeError(t, rec).Code)
	assert.Contains(t, logs.String(), "sk-live-1234", "the full error is logged server-side")
}

func TestRefineItinerary_409_ConcurrentEdit(t *testing.T) {
	svc := &mockItineraryServicer{
		refine: func(context.Context, string, string, service.ProgressFunc) (domain.TravelItinerary, error) {
			return domain.TravelItinerary{}, fmt.Errorf("service.ItineraryService.Refine: %w: itinerary 01HZX3K8Q0 was modified during refinement", domain.ErrConflict)
		},
	}
	req := httptest.NewRequest(http.MethodPost, "/itineraries/01HZX3K8Q0/refine",
		jsonBody(t, handler.RefineRequest{Instruction: "less walking"}))
	rec := httptest.NewRecorder()

	newHTTPHandler(svc, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "conflict", decodeError(t, rec).Code)
}

func TestRefineItinerary_429_SetsRetryAfter(t *testing.T) {
	svc := &mockItineraryServicer{
		refine: func(context.Context, string, string, service.ProgressFunc) (domain.TravelItinerary, error) {
			return domain.TravelItinerary{}, fmt.Errorf("service.GenerationService.Refine: %w", &domain.RateLimitError{RetryAfter: 41*time.Second + 300*time.Millisecond})
		},
	}
	req := httptest.NewRequest(http.MethodPost, "/itineraries/01HZX3K8Q0/refine",
		jsonBody(t, handler.RefineRequest{Instruction: "less walking"}))
	rec := httptest.NewRecorder()

	newHTTPHandler(svc, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "42", rec.Header().Get("Retry-After"), "seconds round up")
	assert.Equal(t, "rate_limited", decodeError(t, rec).Code)
}

func TestCreateItinerary_429_WithoutWindowOmitsRetryAfter(t *testing.T) {
	svc := &mockItineraryServicer{
		create: func(context.Context, domain.TravelPreferences, service.ProgressFunc) (domain.TravelItinerary, error) {
			return domain.TravelItinerary{}, domain.ErrRateLimited
		},
	}
	req := httptest.NewRequest(http.MethodPost, "/itineraries", jsonBody(t, map[string]any{"destination": "Goa"}))
	rec := httptest.NewRecorder()

	newHTTPHandler(svc, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Empty(t, rec.Header().Get("Retry-After"))
}

// ---- packing list / budget -------------------------------------------------

func TestGetPackingList_200(t *testing.T) {
	svc := &mockItineraryServicer{
		packingList: func(_ context.Context, id string) (domain.PackingList, error) {
			return domain.PackingList{ItineraryID: id, Items: []domain.PackingItem{{ID: "item-0", Name: "Passport/ID", Category: "Documents", Essential: true}}}, nil
		},
	}
	req := httptest.NewRequest(http.MethodGet, "/itineraries/01HZX3K8Q0/packing-list", nil)
	rec := httptest.NewRecorder()

	newHTTPHandler(svc, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp domain.PackingList
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "01HZX3K8Q0", resp.ItineraryID)
	assert.Equal(t, "Passport/ID", resp.Items[0].Name)
}

func TestGetBudget_404(t *testing.T) {
	svc := &mockItineraryServicer{
		budget: func(context.Context, string) (domain.BudgetBreakdown, error) {
			return domain.BudgetBreakdown{}, domain.ErrNotFound
		},
	}
	req := httptest.NewRequest(http.MethodGet, "/itineraries/missing/budget", nil)
	rec := httptest.NewRecorder()

	newHTTPHandler(svc, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
