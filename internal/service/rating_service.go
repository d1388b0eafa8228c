package service

import (
	"context"
	"fmt"
	"time"

	"filmflow-core/internal/models"
	"filmflow-core/internal/store"
)

type RatingService struct {
	store store.Store
}

func NewRatingService(st store.Store) *RatingService {
	return &RatingService{store: st}
}

// AddOrUpdate hace upsert del rating y mantiene las stats agregadas de la
// película (average incremental, sin releer todos los ratings).
func (s *RatingService) AddOrUpdate(ctx context.Context, userID, movieID int, rating float64) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("rating fuera de rango: %.1f", rating)
	}

	// 1) Ver si ya existía un rating previo
	var prev *models.RatingDoc
	existing, err := s.store.InteractionsByUser(ctx, userID)
	if err != nil {
		return err
	}
	for i := range existing {
		if existing[i].MovieID == movieID {
			prev = &existing[i]
			break
		}
	}
	existedBefore := prev != nil

	// 2) Upsert del rating (guarda timestamp como epoch)
	if err := s.store.UpsertRating(ctx, userID, movieID, rating); err != nil {
		return err
	}

	// 3) Actualizar stats de la película
	movie, err := s.store.MovieByID(ctx, movieID)
	if err != nil {
		return err
	}
	if movie == nil {
		return fmt.Errorf("movie %d no encontrada", movieID)
	}

	if movie.RatingStats == nil {
		movie.RatingStats = &models.RatingStats{}
	}
	rs := movie.RatingStats

	if !existedBefore {
		total := rs.Average*float64(rs.Count) + rating
		rs.Count++
		rs.Average = total / float64(rs.Count)
	} else if rs.Count > 0 {
		// un update reemplaza el aporte del rating anterior, count no cambia
		total := rs.Average*float64(rs.Count) - prev.Rating + rating
		rs.Average = total / float64(rs.Count)
	}

	nowStr := time.Now().Format(time.RFC3339)
	rs.LastRatedAt = nowStr
	movie.UpdatedAt = nowStr

	return s.store.UpdateMovie(ctx, movie)
}

func (s *RatingService) GetByUser(ctx context.Context, userID int) ([]models.RatingDoc, error) {
	return s.store.InteractionsByUser(ctx, userID)
}
