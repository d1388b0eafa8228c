package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"filmflow-core/internal/engine"
	"filmflow-core/internal/models"
	"filmflow-core/internal/store"
)

const (
	evalMinInteractions = 5   // usuario "activo" para entrar al test set
	evalMaxUsers        = 100 // tope de usuarios por corrida
	evalGroundTruthN    = 10  // ratings altos recientes por usuario
	evalLikedMin        = 4.0 // rating mínimo para contar como relevante
	evalOnlineWindow    = 7   // días hacia atrás para CTR / watch rate
)

// EvaluationService corre evaluaciones offline (precision, recall, nDCG, ...)
// y agrega métricas online desde el log de eventos.
type EvaluationService struct {
	engine *engine.Engine
	store  store.Store
}

func NewEvaluationService(eng *engine.Engine, st store.Store) *EvaluationService {
	return &EvaluationService{engine: eng, store: st}
}

// groundTruth arma el conjunto relevante de un usuario: sus ratings >= 4
// más recientes. La relevancia graduada (para nDCG) es el rating mismo.
func (s *EvaluationService) groundTruth(ctx context.Context, userID int) (map[int]struct{}, map[int]float64, error) {
	ratings, err := s.store.InteractionsByUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	liked := make([]models.RatingDoc, 0, len(ratings))
	for _, r := range ratings {
		if r.Rating >= evalLikedMin {
			liked = append(liked, r)
		}
	}
	sort.Slice(liked, func(i, j int) bool { return liked[i].Timestamp > liked[j].Timestamp })
	if len(liked) > evalGroundTruthN {
		liked = liked[:evalGroundTruthN]
	}

	relevant := make(map[int]struct{}, len(liked))
	relevance := make(map[int]float64, len(liked))
	for _, r := range liked {
		relevant[r.MovieID] = struct{}{}
		relevance[r.MovieID] = r.Rating
	}
	return relevant, relevance, nil
}

// recommendFor genera la lista a evaluar para un usuario con la estrategia dada.
func (s *EvaluationService) recommendFor(ctx context.Context, strategy string, userID, k int) ([]models.RecItem, error) {
	switch strategy {
	case models.StrategyCollaborative:
		return s.engine.Collaborative(ctx, &userID, k)
	case models.StrategyContent:
		// content necesita semilla: usamos la última película vista/clickeada
		events, err := s.store.RecentEventsByUser(ctx, userID, 1, []string{models.EventView, models.EventClick})
		if err != nil || len(events) == 0 || events[0].MovieID == 0 {
			return nil, err
		}
		seed := events[0].MovieID
		return s.engine.Content(ctx, &seed, k)
	case models.StrategyPersonalized:
		return s.engine.Personalized(ctx, userID, k)
	case models.StrategyHybrid:
		return s.engine.Hybrid(ctx, &userID, nil, k)
	default:
		return nil, fmt.Errorf("estrategia desconocida: %q", strategy)
	}
}

// EvaluateModel evalúa una estrategia sobre un conjunto de usuarios de prueba
// y persiste el snapshot resultante. Si users es nil se toman los usuarios
// activos; si kValues es nil se usan 5, 10 y 20.
func (s *EvaluationService) EvaluateModel(ctx context.Context, strategy, version string, users []int, kValues []int) (*models.EvalSnapshot, error) {
	if len(kValues) == 0 {
		kValues = []int{5, 10, 20}
	}
	maxK := 0
	for _, k := range kValues {
		if k > maxK {
			maxK = k
		}
	}

	if users == nil {
		var err error
		users, err = s.store.ActiveUserIDs(ctx, evalMinInteractions, evalMaxUsers)
		if err != nil {
			return nil, err
		}
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("no hay usuarios para evaluar")
	}

	catalog, err := s.store.AllMovies(ctx)
	if err != nil {
		return nil, err
	}

	precSum := make(map[int]float64, len(kValues))
	recSum := make(map[int]float64, len(kValues))
	ndcgSum := make(map[int]float64, len(kValues))
	var mapSum, mrrSum, divSum float64
	var lists [][]int
	evaluated := 0

	for _, uid := range users {
		relevant, relevance, err := s.groundTruth(ctx, uid)
		if err != nil {
			return nil, err
		}
		if len(relevant) == 0 {
			continue // sin ground truth no hay nada que medir
		}

		items, err := s.recommendFor(ctx, strategy, uid, maxK)
		if err != nil {
			log.Printf("[eval] usuario %d, estrategia %s: %v", uid, strategy, err)
			continue
		}
		if len(items) == 0 {
			continue
		}

		recIDs := make([]int, len(items))
		for i, it := range items {
			recIDs[i] = it.MovieID
		}
		lists = append(lists, recIDs)

		for _, k := range kValues {
			precSum[k] += engine.PrecisionAtK(recIDs, relevant, k)
			recSum[k] += engine.RecallAtK(recIDs, relevant, k)
			ndcgSum[k] += engine.NDCGAtK(recIDs, relevance, k)
		}
		mapSum += engine.MeanAveragePrecision(recIDs, relevant)
		mrrSum += engine.MRR(recIDs, relevant)
		divSum += engine.Diversity(items)
		evaluated++
	}

	if evaluated == 0 {
		return nil, fmt.Errorf("ningún usuario tenía ground truth evaluable")
	}

	n := float64(evaluated)
	metrics := models.MetricSet{
		PrecisionAtK: make(map[string]float64, len(kValues)),
		RecallAtK:    make(map[string]float64, len(kValues)),
		NDCGAtK:      make(map[string]float64, len(kValues)),
		MAP:          mapSum / n,
		MRR:          mrrSum / n,
		Diversity:    divSum / n,
		Coverage:     engine.Coverage(lists, len(catalog)),
	}
	for _, k := range kValues {
		key := strconv.Itoa(k)
		metrics.PrecisionAtK[key] = precSum[k] / n
		metrics.RecallAtK[key] = recSum[k] / n
		metrics.NDCGAtK[key] = ndcgSum[k] / n
	}

	metrics.CTR, metrics.WatchRate = s.onlineMetrics(ctx, strategy)

	snap := &models.EvalSnapshot{
		ID:         uuid.NewString(),
		Strategy:   strategy,
		Version:    version,
		Metrics:    metrics,
		SampleSize: evaluated,
		CreatedAt:  time.Now(),
	}
	if err := s.store.SaveEvaluation(ctx, snap); err != nil {
		return nil, err
	}
	log.Printf("[eval] %s v%s evaluado: %d usuarios, MAP=%.4f MRR=%.4f", strategy, version, evaluated, metrics.MAP, metrics.MRR)
	return snap, nil
}

// onlineMetrics: CTR = clicks / impresiones, watch rate = completados / clicks,
// sobre la ventana reciente del log de eventos. Errores solo se loguean.
func (s *EvaluationService) onlineMetrics(ctx context.Context, strategy string) (ctr, watchRate float64) {
	to := time.Now()
	from := to.AddDate(0, 0, -evalOnlineWindow)

	impressions, err := s.store.CountEvents(ctx, models.EventImpression, strategy, from, to)
	if err != nil {
		log.Printf("[eval] error contando impresiones: %v", err)
		return 0, 0
	}
	clicks, err := s.store.CountEvents(ctx, models.EventClick, strategy, from, to)
	if err != nil {
		log.Printf("[eval] error contando clicks: %v", err)
		return 0, 0
	}
	completes, err := s.store.CountEvents(ctx, models.EventComplete, strategy, from, to)
	if err != nil {
		log.Printf("[eval] error contando completados: %v", err)
		completes = 0
	}

	if impressions > 0 {
		ctr = float64(clicks) / float64(impressions)
	}
	if clicks > 0 {
		watchRate = float64(completes) / float64(clicks)
	}
	return ctr, watchRate
}

// CompareModels promedia los snapshots recientes de cada estrategia para
// verlas lado a lado. windowDays <= 0 usa 30 días.
func (s *EvaluationService) CompareModels(ctx context.Context, strategies []string, windowDays int) ([]models.ModelComparison, error) {
	if windowDays <= 0 {
		windowDays = 30
	}
	since := time.Now().AddDate(0, 0, -windowDays)

	out := make([]models.ModelComparison, 0, len(strategies))
	for _, strategy := range strategies {
		snaps, err := s.store.RecentEvaluations(ctx, strategy, since, 10)
		if err != nil {
			return nil, err
		}
		cmp := models.ModelComparison{Strategy: strategy, EvaluationsCount: len(snaps)}
		if len(snaps) == 0 {
			out = append(out, cmp)
			continue
		}
		for _, snap := range snaps {
			cmp.PrecisionAt10 += snap.Metrics.PrecisionAtK["10"]
			cmp.RecallAt10 += snap.Metrics.RecallAtK["10"]
			cmp.NDCGAt10 += snap.Metrics.NDCGAtK["10"]
			cmp.MAP += snap.Metrics.MAP
			cmp.MRR += snap.Metrics.MRR
			cmp.CTR += snap.Metrics.CTR
			cmp.Diversity += snap.Metrics.Diversity
		}
		n := float64(len(snaps))
		cmp.PrecisionAt10 /= n
		cmp.RecallAt10 /= n
		cmp.NDCGAt10 /= n
		cmp.MAP /= n
		cmp.MRR /= n
		cmp.CTR /= n
		cmp.Diversity /= n
		out = append(out, cmp)
	}
	return out, nil
}
