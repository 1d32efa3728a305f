package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/trip-planner/internal/domain"
)

// GetExport handles GET /itineraries/{id}/export.
// It returns one row per activity. Use ?format=csv to receive CSV; default is JSON.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	switch r.URL.Query().Get("format") {
	case "csv":
		doc, err := s.export.CSV(r.Context(), id)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeDocument(w, doc, false)
	case "", "json":
		rows, err := s.export.Rows(r.Context(), id)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if rows == nil {
			rows = []domain.ExportRow{}
		}
		writeJSON(w, http.StatusOK, rows)
	default:
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(`format must be "json" or "csv"`))
	}
}

// GetPDF handles GET /itineraries/{id}/export.pdf.
func (s *Server) GetPDF(w http.ResponseWriter, r *http.Request) {
	doc, err := s.export.PDF(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeDocument(w, doc, true)
}

// GetCalendar handles GET /itineraries/{id}/calendar.ics.
func (s *Server) GetCalendar(w http.ResponseWriter, r *http.Request) {
	doc, err := s.export.Calendar(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeDocument(w, doc, true)
}

// writeDocument streams a rendered document. Attachments carry a
// Content-Disposition so browsers save them under the suggested filename.
func writeDocument(w http.ResponseWriter, doc domain.Document, attachment bool) {
	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Body)))
	if attachment {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc.Body)
}
