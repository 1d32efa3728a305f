package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/service"
)

// wsWriteWait bounds a single websocket write and the wait for the first message.
const wsWriteWait = 10 * time.Second

// Event types sent over the generation websocket.
const (
	EventChunk = "chunk"
	// EventReset carries a complete itinerary document in Data. The client
	// discards every chunk received before it.
	EventReset = "reset"
	EventDone  = "done"
	EventError = "error"
)

// StreamEvent is one server-to-client websocket message.
type StreamEvent struct {
	Type      string                  `json:"type"`
	Data      string                  `json:"data,omitempty"`
	Itinerary *domain.TravelItinerary `json:"itinerary,omitempty"`
	Error     *ErrorDetail            `json:"error,omitempty"`
}

func (s *Server) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || s.origins[origin]
		},
	}
}

// GenerateStream handles GET /ws/generate.
//
// The client sends one TravelPreferences message. Every response fragment
// is forwarded as a "chunk" event. A cached or offline draft arrives as a
// "reset" event instead. Exactly one "done" event carrying the stored
// itinerary or one "error" event follows. The server then
// closes the connection. Closing the socket early cancels generation.
func (s *Server) GenerateStream(w http.ResponseWriter, r *http.Request) {
	up := s.upgrader()
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error response.
		s.log.WarnContext(r.Context(), "websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	// The hijacked connection may still carry the server's read deadline.
	// The preferences message gets a bounded wait; after that the socket
	// stays open for as long as generation runs.
	_ = conn.SetReadDeadline(time.Now().Add(wsWriteWait))
	var prefs domain.TravelPreferences
	if err := conn.ReadJSON(&prefs); err != nil {
		s.sendEvent(conn, StreamEvent{Type: EventError, Error: &ErrorDetail{Code: "validation_error", Message: "invalid preferences message"}})
		return
	}
	_ = conn.SetReadDeadline(time.Time{})

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// The reader goroutine only watches for the client going away.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	// onProgress runs on this goroutine, so it is the connection's only writer.
	onProgress := func(kind service.ProgressKind, text string) {
		ev := StreamEvent{Type: EventChunk, Data: text}
		if kind == service.ProgressReplace {
			ev.Type = EventReset
		}
		s.sendEvent(conn, ev)
	}

	it, err := s.itineraries.Create(ctx, prefs, onProgress)
	if err != nil {
		status, body := classify(err)
		if status >= http.StatusInternalServerError && ctx.Err() == nil {
			s.log.ErrorContext(r.Context(), "websocket generation failed", "status", status, "error", err)
		}
		s.sendEvent(conn, StreamEvent{Type: EventError, Error: &body.Error})
		return
	}
	s.sendEvent(conn, StreamEvent{Type: EventDone, Itinerary: &it})

	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (s *Server) sendEvent(conn *websocket.Conn, ev StreamEvent) {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	if err := conn.WriteJSON(ev); err != nil {
		s.log.Debug("websocket write failed", "type", ev.Type, "error", err)
	}
}
