package store

import (
	"context"
	"time"

	"filmflow-core/internal/models"
)

// PopularityCount es el conteo de eventos recientes por película.
type PopularityCount struct {
	MovieID int   `bson:"_id" json:"movieId"`
	Count   int64 `bson:"count" json:"count"`
}

// Store es el acceso a datos que consume el motor de recomendaciones.
// Hay dos implementaciones: Mongo (producción) y Memory (tests / demos).
type Store interface {
	// interacciones (ratings)
	AllInteractions(ctx context.Context) ([]models.RatingDoc, error)
	InteractionsByUser(ctx context.Context, userID int) ([]models.RatingDoc, error)
	UpsertRating(ctx context.Context, userID, movieID int, rating float64) error

	// catálogo (solo lectura para el core)
	AllMovies(ctx context.Context) ([]models.MovieDoc, error)
	MovieByID(ctx context.Context, movieID int) (*models.MovieDoc, error)
	UpdateMovie(ctx context.Context, m *models.MovieDoc) error

	// historial de consumo y eventos
	WatchHistoryByUser(ctx context.Context, userID, limit int) ([]models.WatchDoc, error)
	InsertEvent(ctx context.Context, ev *models.UserEventDoc) error
	RecentEventsByUser(ctx context.Context, userID, limit int, eventTypes []string) ([]models.UserEventDoc, error)
	PopularMovieIDs(ctx context.Context, since time.Time, limit int) ([]PopularityCount, error)
	ActiveUserIDs(ctx context.Context, minInteractions, limit int) ([]int, error)
	CountEvents(ctx context.Context, eventType, strategy string, from, to time.Time) (int64, error)

	// historial de recomendaciones servidas
	InsertRecommendation(ctx context.Context, rec *models.Recommendation) error

	// snapshots de evaluación
	SaveEvaluation(ctx context.Context, snap *models.EvalSnapshot) error
	RecentEvaluations(ctx context.Context, strategy string, since time.Time, limit int) ([]models.EvalSnapshot, error)
}
