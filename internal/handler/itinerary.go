package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/trip-planner/internal/domain"
)

// ListResponse wraps one page of itineraries.
type ListResponse struct {
	Data       []domain.TravelItinerary `json:"data"`
	Pagination Pagination               `json:"pagination"`
}

// Pagination describes the page returned in a ListResponse.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// RefineRequest is the body of POST /itineraries/{id}/refine.
type RefineRequest struct {
	Instruction string `json:"instruction"`
}

// CreateItinerary handles POST /itineraries.
// The body is a TravelPreferences document; generation runs synchronously
// and the stored itinerary is returned with 201.
func (s *Server) CreateItinerary(w http.ResponseWriter, r *http.Request) {
	var prefs domain.TravelPreferences
	if err := decodeJSON(r, &prefs); err != nil {
		writeDecodeError(w, err)
		return
	}

	created, err := s.itineraries.Create(r.Context(), prefs, nil)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ListItineraries handles GET /itineraries.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListItineraries(w http.ResponseWriter, r *http.Request) {
	var page, limit *int
	q := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "page", q, &page); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody("page must be an integer"))
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", q, &limit); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody("limit must be an integer"))
		return
	}
	params := domain.NewPaginationParams(page, limit)

	list, total, err := s.itineraries.ListPaged(r.Context(), params)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if list == nil {
		list = []domain.TravelItinerary{}
	}
	writeJSON(w, http.StatusOK, ListResponse{
		Data:       list,
		Pagination: Pagination{Page: params.Page, Limit: params.Limit, Total: total},
	})
}

// GetItinerary handles GET /itineraries/{id}.
func (s *Server) GetItinerary(w http.ResponseWriter, r *http.Request) {
	it, err := s.itineraries.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

// DeleteItinerary handles DELETE /itineraries/{id}.
func (s *Server) DeleteItinerary(w http.ResponseWriter, r *http.Request) {
	if err := s.itineraries.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RefineItinerary handles POST /itineraries/{id}/refine.
// On success the stored itinerary is replaced; on failure it is untouched.
func (s *Server) RefineItinerary(w http.ResponseWriter, r *http.Request) {
	var body RefineRequest
	if err := decodeJSON(r, &body); err != nil {
		writeDecodeError(w, err)
		return
	}

	refined, err := s.itineraries.Refine(r.Context(), chi.URLParam(r, "id"), body.Instruction, nil)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, refined)
}

// GetPackingList handles GET /itineraries/{id}/packing-list.
func (s *Server) GetPackingList(w http.ResponseWriter, r *http.Request) {
	list, err := s.itineraries.PackingList(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// GetBudget handles GET /itineraries/{id}/budget.
func (s *Server) GetBudget(w http.ResponseWriter, r *http.Request) {
	b, err := s.itineraries.Budget(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}
