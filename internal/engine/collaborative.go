package engine

import (
	"context"
	"strings"

	"filmflow-core/internal/models"
)

// Collaborative predice cuánto le gustaría al usuario cada ítem que no
// calificó, usando la similitud con los demás usuarios.
//
// Cadena de fallbacks (nunca error por falta de datos):
//   - usuario nil/desconocido o matriz vacía → popularidad excluyendo lo visto
//   - denominador cero → media del ítem entre quienes lo calificaron
func (e *Engine) Collaborative(ctx context.Context, userID *int, n int) ([]models.RecItem, error) {
	snap := e.current()
	if len(snap.movies) == 0 {
		return []models.RecItem{}, nil
	}

	var watched map[int]struct{}
	if userID != nil {
		var err error
		watched, err = e.watchedSet(ctx, *userID)
		if err != nil {
			return nil, err
		}
	}

	// cold start: sin usuario, usuario fuera de la matriz o matriz vacía
	uIdx := -1
	if userID != nil {
		if i, ok := snap.userIdx[*userID]; ok {
			uIdx = i
		}
	}
	if uIdx < 0 || len(snap.users) == 0 {
		return e.Popular(ctx, n, watched)
	}

	userRow := snap.ratings[uIdx]
	simRow := snap.sims[uIdx]
	liked := likedGenreSet(snap, userRow, e.cfg.LikedMinStar)

	var out []models.RecItem
	for j, movieID := range snap.items {
		if userRow[j] > 0 {
			continue // ya lo calificó
		}
		if _, seen := watched[movieID]; seen {
			continue // ya lo vio aunque no lo haya calificado
		}
		movie, ok := snap.byID[movieID]
		if !ok {
			continue // rating de un ítem ya borrado del catálogo: se tolera hasta el próximo rebuild
		}

		var num, den float64
		for v := range snap.users {
			if v == uIdx {
				continue
			}
			sim := simRow[v]
			num += sim * snap.ratings[v][j]
			if sim < 0 {
				den -= sim
			} else {
				den += sim
			}
		}

		var pred float64
		if den > 0 {
			pred = num / den
		} else {
			pred = snap.itemMean[movieID]
		}
		if pred <= 0 {
			continue
		}

		// boost si comparte género con lo que el usuario calificó alto
		if sharesGenre(movie, liked) {
			pred *= e.cfg.GenreBoost
		}

		out = append(out, recItem(movie, pred, "Recommended by users with similar taste"))
	}

	if len(out) == 0 {
		// usuario en la matriz pero sin candidatos útiles (p.ej. calificó todo)
		return e.Popular(ctx, n, watched)
	}

	sortByScore(out)
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

// likedGenreSet junta los géneros de los ítems que el usuario calificó ≥ minStar.
func likedGenreSet(snap *snapshot, userRow []float64, minStar float64) map[string]struct{} {
	out := make(map[string]struct{})
	for j, movieID := range snap.items {
		if userRow[j] < minStar {
			continue
		}
		if m, ok := snap.byID[movieID]; ok {
			for _, g := range m.Genres {
				out[strings.ToLower(g)] = struct{}{}
			}
		}
	}
	return out
}

func sharesGenre(m *models.MovieDoc, genres map[string]struct{}) bool {
	for _, g := range m.Genres {
		if _, ok := genres[strings.ToLower(g)]; ok {
			return true
		}
	}
	return false
}
