package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/trip-planner/internal/domain"
)

// MoveRequest is the body of POST .../move.
type MoveRequest struct {
	Direction string `json:"direction"`
}

// activityPath is the parsed /days/{dayIndex}/{slot}/{activityIndex} suffix.
type activityPath struct {
	id    string
	day   int
	slot  domain.TimeSlot
	index int
}

// bindActivityPath decodes the path parameters with the same binder the
// OpenAPI code generator uses, so malformed indices fail with a uniform
// validation error.
func bindActivityPath(r *http.Request) (activityPath, error) {
	p := activityPath{id: chi.URLParam(r, "id")}
	opts := runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true}

	if err := runtime.BindStyledParameterWithOptions("simple", "dayIndex", chi.URLParam(r, "dayIndex"), &p.day, opts); err != nil {
		return activityPath{}, fmt.Errorf("%w: dayIndex must be an integer", domain.ErrValidation)
	}
	if err := runtime.BindStyledParameterWithOptions("simple", "activityIndex", chi.URLParam(r, "activityIndex"), &p.index, opts); err != nil {
		return activityPath{}, fmt.Errorf("%w: activityIndex must be an integer", domain.ErrValidation)
	}
	var slot string
	if err := runtime.BindStyledParameterWithOptions("simple", "slot", chi.URLParam(r, "slot"), &slot, opts); err != nil {
		return activityPath{}, fmt.Errorf("%w: slot is required", domain.ErrValidation)
	}
	parsed, err := domain.ParseTimeSlot(slot)
	if err != nil {
		return activityPath{}, err
	}
	p.slot = parsed
	return p, nil
}

// EditActivity handles PUT /itineraries/{id}/days/{dayIndex}/{slot}/{activityIndex}.
// The body replaces the activity; an empty id keeps the existing one.
func (s *Server) EditActivity(w http.ResponseWriter, r *http.Request) {
	p, err := bindActivityPath(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var a domain.Activity
	if err := decodeJSON(r, &a); err != nil {
		writeDecodeError(w, err)
		return
	}

	it, err := s.itineraries.EditActivity(r.Context(), p.id, p.day, p.slot, p.index, a)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

// DeleteActivity handles DELETE /itineraries/{id}/days/{dayIndex}/{slot}/{activityIndex}.
func (s *Server) DeleteActivity(w http.ResponseWriter, r *http.Request) {
	p, err := bindActivityPath(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	it, err := s.itineraries.DeleteActivity(r.Context(), p.id, p.day, p.slot, p.index)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

// MoveActivity handles POST /itineraries/{id}/days/{dayIndex}/{slot}/{activityIndex}/move.
func (s *Server) MoveActivity(w http.ResponseWriter, r *http.Request) {
	p, err := bindActivityPath(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var body MoveRequest
	if err := decodeJSON(r, &body); err != nil {
		writeDecodeError(w, err)
		return
	}
	dir, err := domain.ParseDirection(body.Direction)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	it, err := s.itineraries.MoveActivity(r.Context(), p.id, p.day, p.slot, p.index, dir)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}
