package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"filmflow-core/internal/cache"
	"filmflow-core/internal/config"
	"filmflow-core/internal/db"
	"filmflow-core/internal/engine"
	"filmflow-core/internal/handler"
	"filmflow-core/internal/service"
	"filmflow-core/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title FilmFlow Recommender API
// @version 1.0
// @description Motor de recomendaciones multi-estrategia (colaborativo, contenido, personalizado, híbrido)
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	// Mongo y Redis
	db.InitMongo(cfg)
	cache.InitRedis(cfg)

	st := store.NewMongo()

	// motor: build inicial síncrono, luego rebuilds periódicos en background
	engCfg := engine.DefaultConfig()
	engCfg.MatrixTTL = time.Duration(cfg.RebuildMinutes) * time.Minute
	engCfg.PopularTTL = time.Duration(cfg.PopularCacheTTL) * time.Second
	eng := engine.New(st, engCfg)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	if err := eng.Refresh(ctx); err != nil {
		log.Printf("❌ build inicial falló (se reintenta en background): %v", err)
	}
	cancel()
	go eng.Run(context.Background())

	// services
	recSvc := service.NewRecommendService(eng, st, service.NewRedisPayloadCache(), cfg.RecCacheTTL)
	evalSvc := service.NewEvaluationService(eng, st)
	ratingSvc := service.NewRatingService(st)
	trackSvc := service.NewTrackingService(st)
	movieSvc := service.NewMovieService(st)

	// handlers
	recH := handler.NewRecommendHandler(recSvc)
	ratingH := handler.NewRatingHandler(ratingSvc)
	eventH := handler.NewEventHandler(trackSvc)
	movieH := handler.NewMovieHandler(movieSvc)
	adminH := handler.NewAdminHandler(recSvc, evalSvc)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// =============
	// Rutas públicas
	// =============
	r.Get("/health", handler.Health)

	// Películas (públicas)
	r.Get("/movies/{id}", movieH.GetMovie)
	r.Get("/movies/search", movieH.Search)
	r.Get("/movies/top", movieH.Top)

	// Recomendaciones anónimas (colaborativo cae a populares, contenido por semilla)
	r.Get("/recommendations/collaborative", recH.GetCollaborative)
	r.Get("/recommendations/content", recH.GetContent)
	r.Get("/recommendations/hybrid", recH.GetHybrid)

	// ===========================
	// Rutas protegidas con JWT
	// ===========================
	authMw := handler.JWTAuth(cfg.JWTSecret)

	r.Group(func(r chi.Router) {
		r.Use(authMw)

		// ---- Endpoints /me (USER normal) ----
		r.Route("/me", func(r chi.Router) {
			r.Get("/ratings", ratingH.GetMyRatings)
			r.Post("/ratings", ratingH.PostMyRating)
			r.Get("/recommendations", recH.GetMyRecommendations)
			r.Get("/recommendations/personalized", recH.GetMyPersonalized)
		})

		r.Post("/events", eventH.PostEvent)

		// ---- Endpoints solo ADMIN ----
		r.Group(func(r chi.Router) {
			r.Use(handler.AdminOnly())

			// ratings, perfil y recomendaciones de cualquier usuario
			r.Route("/users/{id}", func(r chi.Router) {
				r.Get("/ratings", ratingH.GetRatings)
				r.Post("/ratings", ratingH.PostRating)
				r.Get("/behavior", recH.GetBehavior)
				r.Get("/recommendations/personalized", recH.GetPersonalized)

				// WebSocket
				r.Get("/ws/recommendations", recH.GetRecommendationsWS)
			})

			// --- operación de modelos: rebuild y evaluación ---
			handler.MountAdminRoutes(r, adminH)
		})
	})

	// Swagger UI
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	log.Printf("HTTP escuchando en :%s", cfg.HTTPPort)
	log.Fatal(http.ListenAndServe(":"+cfg.HTTPPort, r))
}
