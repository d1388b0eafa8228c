package engine

import (
	"context"
	"sort"
	"strings"
	"time"

	"filmflow-core/internal/models"
)

type cachedProfile struct {
	profile *models.UserBehaviorProfile
	builtAt time.Time
}

// Profile arma (o devuelve cacheado, TTL corto) el perfil de comportamiento
// de un usuario: géneros favoritos y recientes, rating promedio, década
// preferida y horas de visualización. Recalcularlo es moderadamente caro.
func (e *Engine) Profile(ctx context.Context, userID int) (*models.UserBehaviorProfile, error) {
	e.profMu.Lock()
	if c, ok := e.profiles[userID]; ok && time.Since(c.builtAt) < e.cfg.ProfileTTL {
		e.profMu.Unlock()
		return c.profile, nil
	}
	e.profMu.Unlock()

	prof, err := e.buildProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	e.profMu.Lock()
	e.profiles[userID] = cachedProfile{profile: prof, builtAt: time.Now()}
	e.profMu.Unlock()
	return prof, nil
}

func (e *Engine) buildProfile(ctx context.Context, userID int) (*models.UserBehaviorProfile, error) {
	snap := e.current()
	prof := &models.UserBehaviorProfile{
		UserID:     userID,
		WatchHours: make(map[int]int),
	}

	watch, err := e.store.WatchHistoryByUser(ctx, userID, e.cfg.ProfileWindow)
	if err != nil {
		return nil, err
	}
	prof.TotalWatched = len(watch)

	recentCut := time.Now().Add(-e.cfg.RecentGenreWindow).Unix()
	genreCount := make(map[string]int)
	recentCount := make(map[string]int)
	decadeCount := make(map[int]int)
	total := 0

	for _, w := range watch {
		viewed := time.Unix(w.ViewedAt, 0)
		prof.WatchHours[viewed.Hour()]++

		movie, ok := snap.byID[w.MovieID]
		if !ok {
			continue // película ya fuera del catálogo: se ignora
		}
		for _, g := range movie.Genres {
			g = strings.TrimSpace(g)
			if g == "" {
				continue
			}
			genreCount[g]++
			total++
			if w.ViewedAt >= recentCut {
				recentCount[g]++
			}
		}
		if movie.Year != nil && *movie.Year > 1900 {
			decadeCount[(*movie.Year / 10) * 10]++
		}
	}

	prof.FavoriteGenres = topGenres(genreCount, total, 5)
	for _, gw := range topGenres(recentCount, 0, 5) {
		prof.RecentGenres = append(prof.RecentGenres, gw.Genre)
	}

	// década más vista (moda)
	bestDecade, bestCount := 0, 0
	for d, c := range decadeCount {
		if c > bestCount || (c == bestCount && d > bestDecade) {
			bestDecade, bestCount = d, c
		}
	}
	prof.PreferredDecade = bestDecade

	// rating promedio del usuario
	ratings, err := e.store.InteractionsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ratings) > 0 {
		var sum float64
		for _, r := range ratings {
			sum += r.Rating
		}
		prof.AvgRating = sum / float64(len(ratings))
	}

	return prof, nil
}

// topGenres ordena por frecuencia (desempate alfabético) y normaliza el peso
// contra el total de menciones cuando total > 0.
func topGenres(counts map[string]int, total, limit int) []models.GenreWeight {
	type gc struct {
		genre string
		count int
	}
	list := make([]gc, 0, len(counts))
	for g, c := range counts {
		list = append(list, gc{g, c})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].count != list[j].count {
			return list[i].count > list[j].count
		}
		return list[i].genre < list[j].genre
	})
	if len(list) > limit {
		list = list[:limit]
	}

	out := make([]models.GenreWeight, 0, len(list))
	for _, g := range list {
		w := float64(g.count)
		if total > 0 {
			w = float64(g.count) / float64(total)
		}
		out = append(out, models.GenreWeight{Genre: g.genre, Weight: w})
	}
	return out
}
