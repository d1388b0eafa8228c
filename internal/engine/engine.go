package engine

import (
	"context"
	"log"
	"math"
	"sort"
	"sync"
	"time"

	"filmflow-core/internal/models"
	"filmflow-core/internal/store"
)

// Engine es el motor de recomendaciones. Mantiene snapshots inmutables
// (catálogo + índice de features + matriz user×item) que un único writer
// reconstruye por intervalo o por refresh explícito; los lectores siempre
// toman la referencia vigente, nunca ven una matriz a medio construir.
type Engine struct {
	store store.Store
	cfg   Config

	mu   sync.RWMutex
	snap *snapshot

	buildMu sync.Mutex // serializa rebuilds (único writer)

	profMu   sync.Mutex
	profiles map[int]cachedProfile

	popMu   sync.Mutex
	popular *popularSnapshot
}

// snapshot agrupa todo lo derivado de catálogo + interacciones.
type snapshot struct {
	movies []models.MovieDoc
	byID   map[int]*models.MovieDoc

	features *FeatureIndex

	users    []int
	userIdx  map[int]int
	items    []int // películas con al menos un rating
	itemIdx  map[int]int
	ratings  [][]float64 // denso: users × items, 0 = no observado
	sims     [][]float64 // coseno usuario-usuario
	itemMean map[int]float64

	builtAt time.Time
}

func emptySnapshot() *snapshot {
	return &snapshot{
		byID:     make(map[int]*models.MovieDoc),
		userIdx:  make(map[int]int),
		itemIdx:  make(map[int]int),
		itemMean: make(map[int]float64),
	}
}

func New(st store.Store, cfg Config) *Engine {
	return &Engine{
		store:    st,
		cfg:      cfg,
		snap:     emptySnapshot(),
		profiles: make(map[int]cachedProfile),
	}
}

// current devuelve el snapshot vigente (posiblemente vacío antes del primer build).
func (e *Engine) current() *snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snap
}

// Refresh reconstruye matriz e índice de features y publica el snapshot nuevo
// con un swap de referencia. También invalida los caches internos derivados.
func (e *Engine) Refresh(ctx context.Context) error {
	e.buildMu.Lock()
	defer e.buildMu.Unlock()

	start := time.Now()
	snap, err := e.build(ctx)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.snap = snap
	e.mu.Unlock()

	e.profMu.Lock()
	e.profiles = make(map[int]cachedProfile)
	e.profMu.Unlock()

	e.popMu.Lock()
	e.popular = nil
	e.popMu.Unlock()

	log.Printf("[engine] snapshot publicado: %d películas, %d usuarios, %d ítems con rating (%s)",
		len(snap.movies), len(snap.users), len(snap.items), time.Since(start))
	return nil
}

// Run es el loop del writer: rebuild periódico hasta que el contexto muera.
func (e *Engine) Run(ctx context.Context) {
	interval := e.cfg.MatrixTTL
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := e.Refresh(ctx); err != nil {
				log.Printf("[engine] rebuild falló: %v", err)
			}
		}
	}
}

func (e *Engine) build(ctx context.Context) (*snapshot, error) {
	movies, err := e.store.AllMovies(ctx)
	if err != nil {
		return nil, err
	}
	interactions, err := e.store.AllInteractions(ctx)
	if err != nil {
		return nil, err
	}

	snap := emptySnapshot()
	snap.movies = movies
	snap.builtAt = time.Now()
	for i := range movies {
		snap.byID[movies[i].MovieID] = &movies[i]
	}

	snap.features = BuildFeatureIndex(movies, e.cfg.MaxFeatures, e.cfg.MinDocFreq)

	if len(interactions) == 0 {
		return snap, nil
	}

	// pivot: ratings → matriz densa user×item (faltantes = 0)
	userSet := make(map[int]struct{})
	itemSet := make(map[int]struct{})
	for _, r := range interactions {
		userSet[r.UserID] = struct{}{}
		itemSet[r.MovieID] = struct{}{}
	}
	snap.users = sortedKeys(userSet)
	snap.items = sortedKeys(itemSet)
	for i, u := range snap.users {
		snap.userIdx[u] = i
	}
	for i, m := range snap.items {
		snap.itemIdx[m] = i
	}

	snap.ratings = make([][]float64, len(snap.users))
	for i := range snap.ratings {
		snap.ratings[i] = make([]float64, len(snap.items))
	}
	for _, r := range interactions {
		snap.ratings[snap.userIdx[r.UserID]][snap.itemIdx[r.MovieID]] = r.Rating
	}

	// media por ítem entre quienes lo calificaron (fallback de denominador cero)
	for j, movieID := range snap.items {
		var sum float64
		var count int
		for i := range snap.users {
			if v := snap.ratings[i][j]; v > 0 {
				sum += v
				count++
			}
		}
		if count > 0 {
			snap.itemMean[movieID] = sum / float64(count)
		}
	}

	// similitud coseno usuario-usuario
	snap.sims = make([][]float64, len(snap.users))
	norms := make([]float64, len(snap.users))
	for i, row := range snap.ratings {
		var n float64
		for _, v := range row {
			n += v * v
		}
		norms[i] = math.Sqrt(n)
	}
	for i := range snap.users {
		snap.sims[i] = make([]float64, len(snap.users))
		for j := 0; j <= i; j++ {
			sim := denseCosine(snap.ratings[i], snap.ratings[j], norms[i], norms[j])
			snap.sims[i][j] = sim
			snap.sims[j][i] = sim
		}
	}

	return snap, nil
}

func denseCosine(a, b []float64, normA, normB float64) float64 {
	if normA == 0 || normB == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += a[i] * b[i]
	}
	return dot / (normA * normB)
}

func sortedKeys(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

// watchedSet junta historial de visualización + ratings: todo lo que el
// usuario ya consumió y no debe repetirse.
func (e *Engine) watchedSet(ctx context.Context, userID int) (map[int]struct{}, error) {
	out := make(map[int]struct{})

	watch, err := e.store.WatchHistoryByUser(ctx, userID, 0)
	if err != nil {
		return nil, err
	}
	for _, w := range watch {
		out[w.MovieID] = struct{}{}
	}

	ratings, err := e.store.InteractionsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, r := range ratings {
		out[r.MovieID] = struct{}{}
	}
	return out, nil
}

// recItem arma el resultado con los campos de display de la película.
func recItem(m *models.MovieDoc, score float64, reason string) models.RecItem {
	return models.RecItem{
		MovieID:     m.MovieID,
		Title:       m.Title,
		Score:       score,
		Reason:      reason,
		PosterURL:   m.PosterURL,
		VoteAverage: m.VoteAverage,
		Year:        m.Year,
		Genres:      m.Genres,
	}
}

// sortByScore ordena descendente por score con desempate por movieId para
// que el output sea determinista.
func sortByScore(items []models.RecItem) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].MovieID < items[j].MovieID
	})
}
