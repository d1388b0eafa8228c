// internal/service/movie_service.go
package service

import (
	"context"
	"sort"
	"strings"

	"filmflow-core/internal/models"
	"filmflow-core/internal/store"
)

type MovieService struct {
	store store.Store
}

func NewMovieService(st store.Store) *MovieService {
	return &MovieService{store: st}
}

func (s *MovieService) GetMovie(ctx context.Context, id int) (*models.MovieDoc, error) {
	return s.store.MovieByID(ctx, id)
}

// Search filtra el catálogo en memoria. El catálogo es chico comparado con
// los ratings, así que no vale la pena un índice de texto en Mongo.
func (s *MovieService) Search(
	ctx context.Context,
	q, genre string,
	yearFrom, yearTo, limit, offset int,
) ([]models.MovieDoc, error) {
	all, err := s.store.AllMovies(ctx)
	if err != nil {
		return nil, err
	}

	q = strings.ToLower(q)
	var matched []models.MovieDoc
	for _, m := range all {
		if q != "" && !strings.Contains(strings.ToLower(m.Title), q) {
			continue
		}
		if genre != "" && !m.HasGenre(genre) {
			continue
		}
		if yearFrom > 0 && (m.Year == nil || *m.Year < yearFrom) {
			continue
		}
		if yearTo > 0 && (m.Year == nil || *m.Year > yearTo) {
			continue
		}
		matched = append(matched, m)
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Popularity != matched[j].Popularity {
			return matched[i].Popularity > matched[j].Popularity
		}
		return matched[i].MovieID < matched[j].MovieID
	})

	if offset >= len(matched) {
		return []models.MovieDoc{}, nil
	}
	matched = matched[offset:]
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// Top lista el catálogo por métrica: "popular" (popularity) o "rating"
// (promedio de ratings, con voteAverage de respaldo).
func (s *MovieService) Top(ctx context.Context, metric string, limit int) ([]models.MovieDoc, error) {
	all, err := s.store.AllMovies(ctx)
	if err != nil {
		return nil, err
	}

	score := func(m *models.MovieDoc) float64 {
		if metric == "rating" {
			if m.RatingStats != nil && m.RatingStats.Count > 0 {
				return m.RatingStats.Average
			}
			return m.VoteAverage / 2 // voteAverage es 0..10, ratings son 1..5
		}
		return m.Popularity
	}

	sort.Slice(all, func(i, j int) bool {
		si, sj := score(&all[i]), score(&all[j])
		if si != sj {
			return si > sj
		}
		return all[i].MovieID < all[j].MovieID
	})

	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}
