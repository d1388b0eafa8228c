package engine

import (
	"context"
	"fmt"
	"sort"
	"time"

	"filmflow-core/internal/models"
)

// popularSnapshot es el ranking popular precomputado que comparten todos los
// fallbacks, para no re-ordenar el catálogo completo en cada cold start.
type popularSnapshot struct {
	items   []models.RecItem
	builtAt time.Time
}

// Popular devuelve los n ítems más populares, saltando los excluidos
// (normalmente lo ya visto por el usuario).
func (e *Engine) Popular(ctx context.Context, n int, exclude map[int]struct{}) ([]models.RecItem, error) {
	pool, err := e.popularPool(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.RecItem, 0, n)
	for _, item := range pool {
		if _, skip := exclude[item.MovieID]; skip {
			continue
		}
		out = append(out, item)
		if len(out) == n {
			break
		}
	}
	return out, nil
}

// popularPool arma (y memoiza con TTL largo) el ranking: primero por eventos
// recientes, y se completa con los mejor calificados del catálogo.
func (e *Engine) popularPool(ctx context.Context) ([]models.RecItem, error) {
	e.popMu.Lock()
	defer e.popMu.Unlock()

	if e.popular != nil && time.Since(e.popular.builtAt) < e.cfg.PopularTTL {
		return e.popular.items, nil
	}

	snap := e.current()
	poolSize := e.cfg.PopularPool
	seen := make(map[int]struct{})
	var items []models.RecItem

	since := time.Now().Add(-e.cfg.PopularWindow)
	counts, err := e.store.PopularMovieIDs(ctx, since, poolSize)
	if err != nil {
		return nil, err
	}
	for _, pc := range counts {
		movie, ok := snap.byID[pc.MovieID]
		if !ok {
			continue
		}
		reason := fmt.Sprintf("Popular (%d views)", pc.Count)
		items = append(items, recItem(movie, float64(pc.Count)/100, reason))
		seen[pc.MovieID] = struct{}{}
	}

	// relleno: top por calidad cuando la actividad reciente no alcanza
	if len(items) < poolSize {
		byQuality := make([]*models.MovieDoc, 0, len(snap.movies))
		for i := range snap.movies {
			byQuality = append(byQuality, &snap.movies[i])
		}
		sort.Slice(byQuality, func(i, j int) bool {
			if byQuality[i].VoteAverage != byQuality[j].VoteAverage {
				return byQuality[i].VoteAverage > byQuality[j].VoteAverage
			}
			return byQuality[i].MovieID < byQuality[j].MovieID
		})
		for _, m := range byQuality {
			if len(items) >= poolSize {
				break
			}
			if _, dup := seen[m.MovieID]; dup {
				continue
			}
			reason := fmt.Sprintf("Highly rated (%.1f/10)", m.VoteAverage)
			items = append(items, recItem(m, m.VoteAverage/10, reason))
			seen[m.MovieID] = struct{}{}
		}
	}

	e.popular = &popularSnapshot{items: items, builtAt: time.Now()}
	return items, nil
}
