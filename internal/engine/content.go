package engine

import (
	"context"
	"fmt"

	"filmflow-core/internal/models"
)

// Content rankea el catálogo por similitud multi-señal contra una película
// semilla. Sin semilla explícita se usa la de mejor rating promedio (o la de
// mejor calidad si todavía no hay ratings).
func (e *Engine) Content(ctx context.Context, seedID *int, n int) ([]models.RecItem, error) {
	snap := e.current()
	if len(snap.movies) == 0 {
		return []models.RecItem{}, nil
	}

	seed := e.resolveSeed(snap, seedID)
	seedMovie, ok := snap.byID[seed]
	if !ok {
		return []models.RecItem{}, nil
	}
	seedRow := snap.features.Row(seed)
	if seedRow == nil {
		return []models.RecItem{}, nil
	}

	seedToks := titleTokens(seedMovie.Title)
	reason := fmt.Sprintf("Similar to %s", seedMovie.Title)

	var out []models.RecItem
	for i := range snap.movies {
		cand := &snap.movies[i]
		if cand.MovieID == seed {
			continue
		}
		shared := seedMovie.SharedGenres(cand)
		if shared == 0 {
			// gate duro: sin género en común no entra, aunque el texto se parezca
			continue
		}

		sim := seedRow.dot(snap.features.Row(cand.MovieID))
		final := sim + e.contentBonuses(seedMovie, cand, shared, seedToks)

		item := recItem(cand, final, reason)
		s := sim
		item.Similarity = &s
		out = append(out, item)
	}

	sortByScore(out)
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

// contentBonuses aplica los bonos aditivos sobre la similitud base.
// Constantes de producto, ver Config.
func (e *Engine) contentBonuses(seed, cand *models.MovieDoc, sharedGenres int, seedToks map[string]struct{}) float64 {
	var bonus float64

	genreBonus := float64(sharedGenres) * e.cfg.GenreBonusPerMatch
	if genreBonus > e.cfg.GenreBonusCap {
		genreBonus = e.cfg.GenreBonusCap
	}
	bonus += genreBonus

	// solapamiento de tokens del título → franquicia/secuela probable
	for tok := range titleTokens(cand.Title) {
		if _, ok := seedToks[tok]; ok {
			bonus += e.cfg.TitleTokenBonus
			break
		}
	}

	if seed.Director != "" && seed.Director == cand.Director {
		bonus += e.cfg.DirectorBonus
	}

	if seed.Year != nil && cand.Year != nil {
		diff := *seed.Year - *cand.Year
		if diff < 0 {
			diff = -diff
		}
		if diff <= e.cfg.YearWindow {
			bonus += e.cfg.YearBonus
		}
	}

	if cand.VoteAverage >= e.cfg.QualityThreshold {
		bonus += e.cfg.QualityBonus
	}

	return bonus
}

// resolveSeed elige la semilla implícita cuando no viene ninguna:
// el ítem con mejor rating promedio, o el de mayor calidad sin datos de ratings.
func (e *Engine) resolveSeed(snap *snapshot, seedID *int) int {
	if seedID != nil {
		return *seedID
	}

	if len(snap.itemMean) > 0 {
		best, bestMean := 0, -1.0
		for _, movieID := range snap.items {
			mean, ok := snap.itemMean[movieID]
			if !ok {
				continue
			}
			if mean > bestMean || (mean == bestMean && movieID < best) {
				best, bestMean = movieID, mean
			}
		}
		if best > 0 {
			return best
		}
	}

	best, bestQuality := 0, -1.0
	for i := range snap.movies {
		m := &snap.movies[i]
		if m.VoteAverage > bestQuality || (m.VoteAverage == bestQuality && m.MovieID < best) {
			best, bestQuality = m.MovieID, m.VoteAverage
		}
	}
	return best
}
