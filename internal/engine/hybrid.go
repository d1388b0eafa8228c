package engine

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"

	"filmflow-core/internal/models"
)

// strategyResult es el parcial de una estrategia dentro del blend.
type strategyResult struct {
	source string
	items  []models.RecItem
}

// Hybrid fusiona collaborative, content (sembrado con vistas recientes),
// personalized y popular en una sola lista con atribución de fuentes.
// Las estrategias son lecturas independientes sobre snapshots inmutables,
// así que corren en paralelo.
func (e *Engine) Hybrid(ctx context.Context, userID, seedID *int, n int) ([]models.RecItem, error) {
	snap := e.current()
	if len(snap.movies) == 0 {
		return []models.RecItem{}, nil
	}

	// semillas para content: la explícita, o las últimas vistas del usuario
	var seeds []int
	if seedID != nil {
		seeds = append(seeds, *seedID)
	} else if userID != nil {
		events, err := e.store.RecentEventsByUser(ctx, *userID, 5, []string{models.EventView, models.EventClick})
		if err != nil {
			return nil, err
		}
		for _, ev := range events {
			seeds = append(seeds, ev.MovieID)
		}
	}

	type task struct {
		source string
		run    func() ([]models.RecItem, error)
	}
	tasks := []task{
		{models.StrategyCollaborative, func() ([]models.RecItem, error) {
			return e.Collaborative(ctx, userID, 2*n)
		}},
		{models.StrategyContent, func() ([]models.RecItem, error) {
			var all []models.RecItem
			for _, seed := range seeds {
				s := seed
				items, err := e.Content(ctx, &s, 5)
				if err != nil {
					return nil, err
				}
				all = append(all, items...)
			}
			return all, nil
		}},
		{models.StrategyPopular, func() ([]models.RecItem, error) {
			return e.Popular(ctx, n, nil)
		}},
	}
	if userID != nil {
		uid := *userID
		tasks = append(tasks, task{models.StrategyPersonalized, func() ([]models.RecItem, error) {
			return e.Personalized(ctx, uid, 2*n)
		}})
	}

	resCh := make(chan strategyResult, len(tasks))
	var wg sync.WaitGroup
	for _, t := range tasks {
		wg.Add(1)
		go func(t task) {
			defer wg.Done()
			items, err := t.run()
			if err != nil {
				// una estrategia caída no tumba el blend, solo se loguea
				log.Printf("[hybrid] estrategia %s falló: %v", t.source, err)
				return
			}
			resCh <- strategyResult{source: t.source, items: items}
		}(t)
	}
	wg.Wait()
	close(resCh)

	// fusión: combined = Σ (score · peso de la estrategia)
	type blended struct {
		item    models.RecItem
		score   float64
		sources []string
	}
	combined := make(map[int]*blended)
	for res := range resCh {
		weight := e.fusionWeight(res.source)
		for _, item := range res.items {
			b, ok := combined[item.MovieID]
			if !ok {
				b = &blended{item: item}
				combined[item.MovieID] = b
			}
			b.score += item.Score * weight
			if !containsSource(b.sources, res.source) {
				b.sources = append(b.sources, res.source)
			}
		}
	}

	// nunca repetir lo que el usuario ya consumió
	if userID != nil {
		watched, err := e.watchedSet(ctx, *userID)
		if err != nil {
			return nil, err
		}
		for movieID := range watched {
			delete(combined, movieID)
		}
	}

	out := make([]models.RecItem, 0, len(combined))
	for _, b := range combined {
		item := b.item
		item.Score = b.score
		sort.Strings(b.sources)
		item.Sources = b.sources
		item.Reason = fmt.Sprintf("Recommended based on %s", strings.Join(b.sources, ", "))
		item.Similarity = nil
		out = append(out, item)
	}

	if len(out) == 0 {
		// último recurso: con catálogo no vacío el híbrido nunca devuelve vacío
		var exclude map[int]struct{}
		if userID != nil {
			exclude, _ = e.watchedSet(ctx, *userID)
		}
		return e.Popular(ctx, n, exclude)
	}

	sortByScore(out)
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (e *Engine) fusionWeight(source string) float64 {
	switch source {
	case models.StrategyContent:
		return e.cfg.Fusion.Content
	case models.StrategyCollaborative:
		return e.cfg.Fusion.Collaborative
	case models.StrategyPersonalized:
		return e.cfg.Fusion.Personalized
	case models.StrategyPopular:
		return e.cfg.Fusion.Popularity
	default:
		return 0
	}
}

func containsSource(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
