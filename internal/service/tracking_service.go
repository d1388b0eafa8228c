package service

import (
	"context"
	"fmt"
	"time"

	"filmflow-core/internal/models"
	"filmflow-core/internal/store"
)

// TrackingService registra los eventos crudos (views, clicks, impresiones)
// que alimentan popularidad, semillas del híbrido y métricas online.
type TrackingService struct {
	store store.Store
}

func NewTrackingService(st store.Store) *TrackingService {
	return &TrackingService{store: st}
}

func validEventType(t string) bool {
	switch t {
	case models.EventView, models.EventClick, models.EventImpression, models.EventComplete:
		return true
	}
	return false
}

func (s *TrackingService) RecordEvent(ctx context.Context, ev *models.UserEventDoc) error {
	if !validEventType(ev.EventType) {
		return fmt.Errorf("tipo de evento desconocido: %q", ev.EventType)
	}
	if ev.Timestamp == 0 {
		ev.Timestamp = time.Now().Unix()
	}
	return s.store.InsertEvent(ctx, ev)
}
