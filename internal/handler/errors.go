package handler

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/pkordes/trip-planner/internal/domain"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a stable machine-readable code and a human message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorMapping pairs a domain sentinel with its HTTP status and code.
// A non-empty message replaces the wrapped error text, which for AI
// failures carries upstream detail the client must not see.
// Order matters: the first match wins.
var errorMapping = []struct {
	sentinel error
	status   int
	code     string
	message  string
}{
	{domain.ErrNotFound, http.StatusNotFound, "not_found", "itinerary not found"},
	{domain.ErrValidation, http.StatusUnprocessableEntity, "validation_error", ""},
	{domain.ErrOutOfRange, http.StatusUnprocessableEntity, "out_of_range", ""},
	{domain.ErrConflict, http.StatusConflict, "conflict", "itinerary changed during the request, reload and retry"},
	{domain.ErrRateLimited, http.StatusTooManyRequests, "rate_limited", ""},
	{domain.ErrItineraryParse, http.StatusBadGateway, "bad_ai_response", "AI response could not be parsed"},
	{domain.ErrAIUnavailable, http.StatusServiceUnavailable, "ai_unavailable", "AI service is unavailable"},
}

// requestBody returns an ErrorResponse for a bad request rejected before
// reaching the service layer (e.g. missing or malformed body).
func requestBody(message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: "validation_error", Message: message}}
}

// classify maps err onto a status and body. Unknown errors become a
// generic 500 so internal details never leak to the client.
func classify(err error) (int, ErrorResponse) {
	for _, m := range errorMapping {
		if !errors.Is(err, m.sentinel) {
			continue
		}
		msg := m.message
		if msg == "" {
			msg = unwrapMessage(err, m.sentinel)
		}
		return m.status, ErrorResponse{Error: ErrorDetail{Code: m.code, Message: msg}}
	}
	return http.StatusInternalServerError, ErrorResponse{Error: ErrorDetail{Code: "internal_error", Message: "internal server error"}}
}

// retryAfterSeconds returns the whole seconds a throttled caller should
// wait, rounded up, or 0 when err carries no window.
func retryAfterSeconds(err error) int {
	var rl *domain.RateLimitError
	if !errors.As(err, &rl) || rl.RetryAfter <= 0 {
		return 0
	}
	return int(math.Ceil(rl.RetryAfter.Seconds()))
}

// writeError writes the mapped error response. Server-side failures are
// logged with the full error since the body only carries a fixed message.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := classify(err)
	if status >= http.StatusInternalServerError {
		s.log.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "status", status, "error", err)
	}
	if secs := retryAfterSeconds(err); secs > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(secs))
	}
	writeJSON(w, status, body)
}

// writeDecodeError answers a body that could not be decoded.
func writeDecodeError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeJSON(w, http.StatusRequestEntityTooLarge,
			ErrorResponse{Error: ErrorDetail{Code: "request_too_large", Message: "request body too large"}})
		return
	}
	writeJSON(w, http.StatusUnprocessableEntity, requestBody("invalid request body"))
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel error.
// e.g. "service.ItineraryService.Create: validation error: destination is required"
// → "destination is required"
func unwrapMessage(err, sentinel error) string {
	msg := err.Error()
	marker := sentinel.Error() + ": "
	if i := strings.LastIndex(msg, marker); i >= 0 {
		return msg[i+len(marker):]
	}
	return sentinel.Error()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON reads the request body into v. An empty body is an error.
func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	return json.NewDecoder(r.Body).Decode(v)
}
