package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/novaasia/ordering-service/internal/realtime"
)

// EventsHandler streams hub events to POS clients over Server-Sent Events.
type EventsHandler struct {
	hub *realtime.Hub
}

func NewEventsHandler(hub *realtime.Hub) *EventsHandler {
	return &EventsHandler{hub: hub}
}

func (h *EventsHandler) RegisterRoutes(router chi.Router) {
	router.Get("/events", h.handleEvents)
}

func (h *EventsHandler) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondWithFailure(w, http.StatusInternalServerError, "streaming_unsupported")
		return
	}

	// Register before the preamble goes out so nothing published while the
	// client is connecting is lost.
	events, cancel := h.hub.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	log.Info().Msg("POS client connected to event stream")

	for {
		select {
		case <-r.Context().Done():
			log.Info().Msg("POS client disconnected from event stream")
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			payload, err := json.Marshal(ev)
			if err != nil {
				log.Error().Err(err).Str("event_type", ev.Type).Msg("Failed to encode event")
				continue
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
