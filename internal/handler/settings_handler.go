package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/novaasia/ordering-service/internal/realtime"
	"github.com/novaasia/ordering-service/internal/settings"
)

type SettingsHandler struct {
	repo settings.Repository
	hub  *realtime.Hub
}

func NewSettingsHandler(repo settings.Repository, hub *realtime.Hub) *SettingsHandler {
	return &SettingsHandler{repo: repo, hub: hub}
}

func (h *SettingsHandler) RegisterRoutes(router chi.Router) {
	router.Get("/settings", h.handleGetSettings)
	router.Post("/settings", h.handleSetSettings)
}

func (h *SettingsHandler) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	values, err := h.repo.GetAll(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to read settings")
		respondWithFailure(w, http.StatusInternalServerError, "internal_error")
		return
	}

	respondWithJSON(w, http.StatusOK, values)
}

func (h *SettingsHandler) handleSetSettings(w http.ResponseWriter, r *http.Request) {
	var updates map[string]string
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		respondWithFailure(w, http.StatusBadRequest, "invalid_request_body")
		return
	}
	if len(updates) == 0 {
		respondWithFailure(w, http.StatusBadRequest, "no_settings_given")
		return
	}

	for key, value := range updates {
		if err := h.repo.Set(r.Context(), key, value); err != nil {
			log.Error().Err(err).Str("key", key).Msg("Failed to write setting")
			respondWithFailure(w, http.StatusInternalServerError, "internal_error")
			return
		}
	}

	// Subscribers always get the full snapshot, not the delta: the POS view
	// replaces its settings state wholesale.
	snapshot, err := h.repo.GetAll(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to read settings snapshot after write")
		respondWithFailure(w, http.StatusInternalServerError, "internal_error")
		return
	}

	h.hub.Publish(realtime.Event{Type: "settings", Data: snapshot})

	respondWithJSON(w, http.StatusOK, snapshot)
}
