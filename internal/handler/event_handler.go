package handler

import (
	"encoding/json"
	"net/http"

	"filmflow-core/internal/models"
	"filmflow-core/internal/service"
)

type EventHandler struct {
	svc *service.TrackingService
}

func NewEventHandler(s *service.TrackingService) *EventHandler { return &EventHandler{svc: s} }

type eventRequest struct {
	MovieID   int    `json:"movieId"`
	EventType string `json:"eventType"`
	Strategy  string `json:"strategy,omitempty"`
}

// @Summary Registrar evento de usuario (view, click, impresión, complete)
// @Tags events
// @Accept json
// @Param body body eventRequest true "evento"
// @Success 204
// @Router /events [post]
func (h *EventHandler) PostEvent(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	ev := &models.UserEventDoc{
		UserID:    UserIDFromContext(r.Context()),
		MovieID:   req.MovieID,
		EventType: req.EventType,
		Strategy:  req.Strategy,
	}
	if err := h.svc.RecordEvent(r.Context(), ev); err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
