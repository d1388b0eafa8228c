package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"filmflow-core/internal/cache"
	"filmflow-core/internal/engine"
	"filmflow-core/internal/models"
	"filmflow-core/internal/store"
)

const (
	DefaultK = 10
	MaxK     = 50 // por seguridad, no deja pedir 1000 ítems
)

// PayloadCache es el cache de payloads ya calculados. En producción es Redis;
// en tests, un mapa en memoria con reloj controlable.
type PayloadCache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttlSeconds int) error
	DeleteByPrefix(ctx context.Context, prefix string) (int, error)
}

// redisPayloadCache delega en los helpers globales del paquete cache.
type redisPayloadCache struct{}

func NewRedisPayloadCache() PayloadCache { return redisPayloadCache{} }

func (redisPayloadCache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	return cache.GetJSON(ctx, key, dest)
}

func (redisPayloadCache) SetJSON(ctx context.Context, key string, value any, ttlSeconds int) error {
	return cache.SetJSON(ctx, key, value, ttlSeconds)
}

func (redisPayloadCache) DeleteByPrefix(ctx context.Context, prefix string) (int, error) {
	return cache.DeleteByPrefix(ctx, prefix)
}

// RecommendService coordina motor + cache + historial.
type RecommendService struct {
	engine *engine.Engine
	store  store.Store
	cache  PayloadCache
	recTTL int // segundos
}

func NewRecommendService(eng *engine.Engine, st store.Store, pc PayloadCache, recTTLSeconds int) *RecommendService {
	if recTTLSeconds <= 0 {
		recTTLSeconds = 300
	}
	return &RecommendService{
		engine: eng,
		store:  st,
		cache:  pc,
		recTTL: recTTLSeconds,
	}
}

// RecRequest son los parámetros que sí cambian en runtime.
type RecRequest struct {
	Strategy string
	UserID   *int
	SeedID   *int
	K        int
	Refresh  bool
}

// cacheKey: estrategia + usuario (o anonymous) + semilla (o none) + k.
// Refresh no forma parte de la key, solo decide si se consulta el cache.
func cacheKey(req RecRequest) string {
	user := "anonymous"
	if req.UserID != nil {
		user = fmt.Sprintf("%d", *req.UserID)
	}
	seed := "none"
	if req.SeedID != nil {
		seed = fmt.Sprintf("%d", *req.SeedID)
	}
	return fmt.Sprintf("rec:%s:%s:%s:%d", req.Strategy, user, seed, req.K)
}

// Recommend despacha a la estrategia pedida, con cache por delante.
// Dentro del TTL dos requests idénticos devuelven el mismo payload.
func (s *RecommendService) Recommend(ctx context.Context, req RecRequest) ([]models.RecItem, error) {
	if req.K <= 0 {
		req.K = DefaultK
	} else if req.K > MaxK {
		req.K = MaxK
	}

	if req.Strategy == models.StrategyPersonalized && req.UserID == nil {
		return nil, fmt.Errorf("personalized requiere userId")
	}

	// 1) cache (solo si refresh = false)
	key := cacheKey(req)
	if !req.Refresh {
		var cached []models.RecItem
		if ok, err := s.cache.GetJSON(ctx, key, &cached); err == nil && ok {
			return cached, nil
		}
	}

	// 2) calcular
	var items []models.RecItem
	var err error
	switch req.Strategy {
	case models.StrategyCollaborative:
		items, err = s.engine.Collaborative(ctx, req.UserID, req.K)
	case models.StrategyContent:
		items, err = s.engine.Content(ctx, req.SeedID, req.K)
	case models.StrategyPersonalized:
		items, err = s.engine.Personalized(ctx, *req.UserID, req.K)
	case models.StrategyHybrid:
		items, err = s.engine.Hybrid(ctx, req.UserID, req.SeedID, req.K)
	default:
		return nil, fmt.Errorf("estrategia desconocida: %q", req.Strategy)
	}
	if err != nil {
		return nil, err
	}
	if items == nil {
		// lista vacía es un resultado válido, no un error
		items = []models.RecItem{}
	}

	// 3) historial en Mongo (no rompemos la respuesta si falla)
	userID := 0
	if req.UserID != nil {
		userID = *req.UserID
	}
	hist := &models.Recommendation{
		UserID:   userID,
		Strategy: req.Strategy,
		Params: map[string]any{
			"k":       req.K,
			"seed":    req.SeedID,
			"refresh": req.Refresh,
		},
		Items:     items,
		CreatedAt: time.Now(),
	}
	if err := s.store.InsertRecommendation(ctx, hist); err != nil {
		log.Printf("[recommend] error guardando historial: %v", err)
	}

	// 4) cachear (entrada completa, sobreescribe la vencida)
	if err := s.cache.SetJSON(ctx, key, items, s.recTTL); err != nil {
		log.Printf("[recommend] error cacheando resultado: %v", err)
	}

	return items, nil
}

// Behavior expone el perfil de comportamiento que usa el personalizador.
func (s *RecommendService) Behavior(ctx context.Context, userID int) (*models.UserBehaviorProfile, error) {
	return s.engine.Profile(ctx, userID)
}

// RefreshModels fuerza el rebuild inmediato de matrices e índices e
// invalida las recomendaciones cacheadas (quedaron calculadas con el
// snapshot anterior).
func (s *RecommendService) RefreshModels(ctx context.Context) error {
	if err := s.engine.Refresh(ctx); err != nil {
		return err
	}
	if n, err := s.cache.DeleteByPrefix(ctx, "rec:"); err != nil {
		log.Printf("[recommend] error invalidando cache: %v", err)
	} else if n > 0 {
		log.Printf("[recommend] %d entradas de cache invalidadas tras el rebuild", n)
	}
	return nil
}
