package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"filmflow-core/internal/models"

	"github.com/google/uuid"
)

// Memory es la implementación en memoria de Store, para tests y demos locales.
// Todas las operaciones copian slices para no exponer estado interno.
type Memory struct {
	mu      sync.RWMutex
	ratings []models.RatingDoc
	movies  map[int]models.MovieDoc
	watch   []models.WatchDoc
	events  []models.UserEventDoc
	recs    []models.Recommendation
	evals   []models.EvalSnapshot
}

func NewMemory() *Memory {
	return &Memory{movies: make(map[int]models.MovieDoc)}
}

// ---------------------- seeding (solo para tests/demos) ----------------------

func (s *Memory) AddMovie(m models.MovieDoc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.movies[m.MovieID] = m
}

func (s *Memory) AddWatch(w models.WatchDoc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watch = append(s.watch, w)
}

// ---------------------- ratings ----------------------

func (s *Memory) AllInteractions(ctx context.Context) ([]models.RatingDoc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.RatingDoc, len(s.ratings))
	copy(out, s.ratings)
	return out, nil
}

func (s *Memory) InteractionsByUser(ctx context.Context, userID int) ([]models.RatingDoc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.RatingDoc
	for _, r := range s.ratings {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *Memory) UpsertRating(ctx context.Context, userID, movieID int, rating float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.ratings {
		if s.ratings[i].UserID == userID && s.ratings[i].MovieID == movieID {
			s.ratings[i].Rating = rating
			s.ratings[i].Timestamp = time.Now().Unix()
			return nil
		}
	}
	s.ratings = append(s.ratings, models.RatingDoc{
		UserID:    userID,
		MovieID:   movieID,
		Rating:    rating,
		Timestamp: time.Now().Unix(),
	})
	return nil
}

// ---------------------- catálogo ----------------------

func (s *Memory) AllMovies(ctx context.Context) ([]models.MovieDoc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.MovieDoc, 0, len(s.movies))
	for _, m := range s.movies {
		out = append(out, m)
	}
	// orden estable por id para que los tests sean deterministas
	sort.Slice(out, func(i, j int) bool { return out[i].MovieID < out[j].MovieID })
	return out, nil
}

func (s *Memory) MovieByID(ctx context.Context, movieID int) (*models.MovieDoc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.movies[movieID]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (s *Memory) UpdateMovie(ctx context.Context, m *models.MovieDoc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.movies[m.MovieID] = *m
	return nil
}

// ---------------------- historial y eventos ----------------------

func (s *Memory) WatchHistoryByUser(ctx context.Context, userID, limit int) ([]models.WatchDoc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.WatchDoc
	for _, w := range s.watch {
		if w.UserID == userID {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ViewedAt > out[j].ViewedAt })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Memory) InsertEvent(ctx context.Context, ev *models.UserEventDoc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ev.Timestamp == 0 {
		ev.Timestamp = time.Now().Unix()
	}
	s.events = append(s.events, *ev)
	return nil
}

func (s *Memory) RecentEventsByUser(ctx context.Context, userID, limit int, eventTypes []string) ([]models.UserEventDoc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.UserEventDoc
	for _, ev := range s.events {
		if ev.UserID != userID || ev.MovieID == 0 {
			continue
		}
		if len(eventTypes) > 0 && !containsString(eventTypes, ev.EventType) {
			continue
		}
		out = append(out, ev)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp > out[j].Timestamp })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Memory) PopularMovieIDs(ctx context.Context, since time.Time, limit int) ([]PopularityCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[int]int64)
	for _, ev := range s.events {
		if ev.MovieID == 0 || ev.Timestamp < since.Unix() {
			continue
		}
		counts[ev.MovieID]++
	}
	out := make([]PopularityCount, 0, len(counts))
	for id, c := range counts {
		out = append(out, PopularityCount{MovieID: id, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].MovieID < out[j].MovieID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Memory) ActiveUserIDs(ctx context.Context, minInteractions, limit int) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[int]int)
	for _, r := range s.ratings {
		counts[r.UserID]++
	}
	var out []int
	for id, c := range counts {
		if c >= minInteractions {
			out = append(out, id)
		}
	}
	sort.Ints(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Memory) CountEvents(ctx context.Context, eventType, strategy string, from, to time.Time) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, ev := range s.events {
		if ev.EventType != eventType {
			continue
		}
		if strategy != "" && ev.Strategy != strategy {
			continue
		}
		if ev.Timestamp < from.Unix() || ev.Timestamp > to.Unix() {
			continue
		}
		n++
	}
	return n, nil
}

// ---------------------- recomendaciones y evaluación ----------------------

func (s *Memory) InsertRecommendation(ctx context.Context, rec *models.Recommendation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	s.recs = append(s.recs, *rec)
	return nil
}

func (s *Memory) SaveEvaluation(ctx context.Context, snap *models.EvalSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if snap.ID == "" {
		snap.ID = uuid.NewString()
	}
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now()
	}
	s.evals = append(s.evals, *snap)
	return nil
}

func (s *Memory) RecentEvaluations(ctx context.Context, strategy string, since time.Time, limit int) ([]models.EvalSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.EvalSnapshot
	for _, snap := range s.evals {
		if snap.Strategy == strategy && !snap.CreatedAt.Before(since) {
			out = append(out, snap)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
