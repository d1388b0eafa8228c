package models

// Rating explícito 1..5; upsert idempotente por (userId, movieId).
type RatingDoc struct {
	UserID    int     `json:"userId" bson:"userId"`
	MovieID   int     `json:"movieId" bson:"movieId"`
	Rating    float64 `json:"rating" bson:"rating"`
	Timestamp int64   `json:"timestamp" bson:"timestamp"`
}

// WatchDoc es una visualización registrada (historial de consumo).
type WatchDoc struct {
	UserID   int    `json:"userId" bson:"userId"`
	MovieID  int    `json:"movieId" bson:"movieId"`
	ViewedAt int64  `json:"viewedAt" bson:"viewedAt"`
	Progress string `json:"progress,omitempty" bson:"progress,omitempty"` // started|completed
}

// Tipos de evento que alimentan popularidad y métricas online.
const (
	EventView       = "view"
	EventClick      = "click"
	EventImpression = "recommendation_shown"
	EventComplete   = "complete"
)

// UserEventDoc es el log de interacciones crudas (views, clicks, impresiones).
type UserEventDoc struct {
	UserID    int    `json:"userId" bson:"userId"`
	MovieID   int    `json:"movieId,omitempty" bson:"movieId,omitempty"`
	EventType string `json:"eventType" bson:"eventType"`
	Strategy  string `json:"strategy,omitempty" bson:"strategy,omitempty"` // qué modelo generó la recomendación
	Timestamp int64  `json:"timestamp" bson:"timestamp"`
}
