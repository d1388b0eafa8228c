package engine

import (
	"context"
	"sort"
	"strings"
	"time"

	"filmflow-core/internal/models"
)

// buckets de afinidad género↔hora del día.
// Mañana liviano/familiar, noche terror/thriller/sci-fi.
var timeOfDayGenres = map[string][]string{
	"morning":   {"comedy", "animation", "family"},
	"afternoon": {"action", "adventure", "family"},
	"evening":   {"drama", "thriller", "horror", "romance"},
	"night":     {"horror", "thriller", "sci-fi", "science fiction"},
}

func dayBucket(hour int) string {
	switch {
	case hour >= 6 && hour < 12:
		return "morning"
	case hour >= 12 && hour < 18:
		return "afternoon"
	case hour >= 18:
		return "evening"
	default:
		return "night"
	}
}

// Personalized re-rankea candidatos según el perfil de comportamiento del
// usuario: afinidad de géneros, tendencia reciente, hora del día, calidad
// absoluta y cercanía a la década preferida, con tope de diversidad por género.
func (e *Engine) Personalized(ctx context.Context, userID, n int) ([]models.RecItem, error) {
	return e.personalizedAt(ctx, userID, n, time.Now().Hour())
}

// personalizedAt existe para poder testear la afinidad horaria sin depender
// del reloj.
func (e *Engine) personalizedAt(ctx context.Context, userID, n, hour int) ([]models.RecItem, error) {
	snap := e.current()
	if len(snap.movies) == 0 {
		return []models.RecItem{}, nil
	}

	prof, err := e.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	// pool sobredimensionado del collaborative (que ya trae su propio cold start)
	candidates, err := e.Collaborative(ctx, &userID, 5*n)
	if err != nil {
		return nil, err
	}

	if len(candidates) == 0 && len(prof.FavoriteGenres) > 0 {
		candidates = e.genreFallback(ctx, snap, prof, 5*n, userID)
	}

	type scored struct {
		item  models.RecItem
		score float64
	}
	var pool []scored
	for _, cand := range candidates {
		movie, ok := snap.byID[cand.MovieID]
		if !ok {
			continue
		}
		score := e.personalScore(movie, prof, hour)
		if score < e.cfg.MinPersonalScore {
			continue // candidato sin afinidad suficiente
		}
		item := recItem(movie, score, "Personalized for you")
		pool = append(pool, scored{item: item, score: score})
	}

	sort.Slice(pool, func(i, j int) bool {
		if pool[i].score != pool[j].score {
			return pool[i].score > pool[j].score
		}
		return pool[i].item.MovieID < pool[j].item.MovieID
	})

	// cap de diversidad: máximo MaxPerGenre por género, con backfill si el
	// tope no dejó llegar a n
	genreSeen := make(map[string]int)
	var out []models.RecItem
	var spill []models.RecItem

	for _, s := range pool {
		if len(out) == n {
			break
		}
		over := false
		for _, g := range s.item.Genres {
			if genreSeen[strings.ToLower(g)] >= e.cfg.MaxPerGenre {
				over = true
				break
			}
		}
		if over {
			spill = append(spill, s.item)
			continue
		}
		for _, g := range s.item.Genres {
			genreSeen[strings.ToLower(g)]++
		}
		out = append(out, s.item)
	}
	for _, item := range spill {
		if len(out) == n {
			break
		}
		out = append(out, item)
	}

	return out, nil
}

// personalScore es la suma ponderada de señales del perfil.
func (e *Engine) personalScore(m *models.MovieDoc, prof *models.UserBehaviorProfile, hour int) float64 {
	var score float64

	// géneros favoritos: proporcional a cuánto aparecieron en el historial,
	// más un bono plano si matchea 2 o más
	matched := 0
	for _, g := range m.Genres {
		if w := prof.GenreWeightFor(g); w > 0 {
			score += e.cfg.GenreMatchWeight * w
			matched++
		}
	}
	if matched >= 2 {
		score += e.cfg.MultiGenreBonus
	}

	// tendencia reciente (últimos 7 días)
	for _, recent := range prof.RecentGenres {
		if m.HasGenre(recent) {
			score += e.cfg.RecentGenreBonus
			break
		}
	}

	// afinidad horaria
	for _, g := range timeOfDayGenres[dayBucket(hour)] {
		if m.HasGenre(g) {
			score += e.cfg.TimeOfDayBonus
			break
		}
	}

	// calidad absoluta, por tramos
	switch {
	case m.VoteAverage >= 7.0:
		score += e.cfg.QualityTierHigh
	case m.VoteAverage >= e.cfg.QualityThreshold:
		score += e.cfg.QualityTierMid
	}

	// cercanía a la década preferida
	if prof.PreferredDecade > 0 && m.Year != nil {
		decade := (*m.Year / 10) * 10
		diff := decade - prof.PreferredDecade
		if diff < 0 {
			diff = -diff
		}
		if diff <= 10 {
			score += e.cfg.DecadeBonus
		}
	}

	return score
}

// genreFallback: catálogo filtrado por géneros favoritos, ordenado por calidad.
// Solo se usa cuando el pool colaborativo vino vacío.
func (e *Engine) genreFallback(ctx context.Context, snap *snapshot, prof *models.UserBehaviorProfile, limit, userID int) []models.RecItem {
	watched, err := e.watchedSet(ctx, userID)
	if err != nil {
		watched = map[int]struct{}{}
	}

	var out []models.RecItem
	for i := range snap.movies {
		m := &snap.movies[i]
		if _, seen := watched[m.MovieID]; seen {
			continue
		}
		match := false
		for _, gw := range prof.FavoriteGenres {
			if m.HasGenre(gw.Genre) {
				match = true
				break
			}
		}
		if match {
			out = append(out, recItem(m, m.VoteAverage/10, "Matches your favorite genres"))
		}
	}
	sortByScore(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
