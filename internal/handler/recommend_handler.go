package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"filmflow-core/internal/models"
	"filmflow-core/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

type RecommendHandler struct {
	svc *service.RecommendService
}

func NewRecommendHandler(s *service.RecommendService) *RecommendHandler {
	return &RecommendHandler{svc: s}
}

// optIntQuery devuelve nil si el parámetro no vino o no es numérico.
func optIntQuery(r *http.Request, name string) *int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &v
}

func (h *RecommendHandler) serve(w http.ResponseWriter, r *http.Request, req service.RecRequest) {
	w.Header().Set("Content-Type", "application/json")
	items, err := h.svc.Recommend(r.Context(), req)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	_ = json.NewEncoder(w).Encode(items)
}

// @Summary Recomendaciones colaborativas (usuarios con gustos similares)
// @Tags recommend
// @Produce json
// @Param userId query int false "userId (sin él, fallback a populares)"
// @Param k query int false "cantidad de recomendaciones (máx 50)"
// @Param refresh query bool false "si true, ignora cache Redis"
// @Success 200 {array} models.RecItem
// @Router /recommendations/collaborative [get]
func (h *RecommendHandler) GetCollaborative(w http.ResponseWriter, r *http.Request) {
	k, _ := strconv.Atoi(r.URL.Query().Get("k"))
	h.serve(w, r, service.RecRequest{
		Strategy: models.StrategyCollaborative,
		UserID:   optIntQuery(r, "userId"),
		K:        k,
		Refresh:  r.URL.Query().Get("refresh") == "true",
	})
}

// @Summary Recomendaciones por contenido (similares a una película)
// @Tags recommend
// @Produce json
// @Param movieId query int false "película semilla (sin ella, se elige la mejor rankeada)"
// @Param k query int false "cantidad de recomendaciones (máx 50)"
// @Param refresh query bool false "si true, ignora cache Redis"
// @Success 200 {array} models.RecItem
// @Router /recommendations/content [get]
func (h *RecommendHandler) GetContent(w http.ResponseWriter, r *http.Request) {
	k, _ := strconv.Atoi(r.URL.Query().Get("k"))
	h.serve(w, r, service.RecRequest{
		Strategy: models.StrategyContent,
		SeedID:   optIntQuery(r, "movieId"),
		K:        k,
		Refresh:  r.URL.Query().Get("refresh") == "true",
	})
}

// @Summary Recomendaciones personalizadas según comportamiento
// @Tags recommend
// @Produce json
// @Param id path int true "userId"
// @Param k query int false "cantidad de recomendaciones (máx 50)"
// @Param refresh query bool false "si true, ignora cache Redis"
// @Success 200 {array} models.RecItem
// @Router /users/{id}/recommendations/personalized [get]
func (h *RecommendHandler) GetPersonalized(w http.ResponseWriter, r *http.Request) {
	userID, _ := strconv.Atoi(chi.URLParam(r, "id"))
	k, _ := strconv.Atoi(r.URL.Query().Get("k"))
	h.serve(w, r, service.RecRequest{
		Strategy: models.StrategyPersonalized,
		UserID:   &userID,
		K:        k,
		Refresh:  r.URL.Query().Get("refresh") == "true",
	})
}

// @Summary Recomendaciones híbridas (fusión de estrategias)
// @Tags recommend
// @Produce json
// @Param userId query int false "userId"
// @Param movieId query int false "película semilla para el componente de contenido"
// @Param k query int false "cantidad de recomendaciones (máx 50)"
// @Param refresh query bool false "si true, ignora cache Redis"
// @Success 200 {array} models.RecItem
// @Router /recommendations/hybrid [get]
func (h *RecommendHandler) GetHybrid(w http.ResponseWriter, r *http.Request) {
	k, _ := strconv.Atoi(r.URL.Query().Get("k"))
	h.serve(w, r, service.RecRequest{
		Strategy: models.StrategyHybrid,
		UserID:   optIntQuery(r, "userId"),
		SeedID:   optIntQuery(r, "movieId"),
		K:        k,
		Refresh:  r.URL.Query().Get("refresh") == "true",
	})
}

// @Summary Recomendaciones personalizadas del usuario autenticado
// @Tags recommend
// @Security BearerAuth
// @Produce json
// @Param k query int false "cantidad de recomendaciones (máx 50)"
// @Param refresh query bool false "si true, ignora cache Redis"
// @Success 200 {array} models.RecItem
// @Router /me/recommendations/personalized [get]
func (h *RecommendHandler) GetMyPersonalized(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	k, _ := strconv.Atoi(r.URL.Query().Get("k"))
	h.serve(w, r, service.RecRequest{
		Strategy: models.StrategyPersonalized,
		UserID:   &userID,
		K:        k,
		Refresh:  r.URL.Query().Get("refresh") == "true",
	})
}

// @Summary Recomendaciones híbridas del usuario autenticado
// @Tags recommend
// @Security BearerAuth
// @Produce json
// @Param k query int false "cantidad de recomendaciones (máx 50)"
// @Param refresh query bool false "si true, ignora cache Redis"
// @Success 200 {array} models.RecItem
// @Router /me/recommendations [get]
func (h *RecommendHandler) GetMyRecommendations(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	k, _ := strconv.Atoi(r.URL.Query().Get("k"))
	h.serve(w, r, service.RecRequest{
		Strategy: models.StrategyHybrid,
		UserID:   &userID,
		K:        k,
		Refresh:  r.URL.Query().Get("refresh") == "true",
	})
}

// @Summary Perfil de comportamiento del usuario
// @Tags recommend
// @Produce json
// @Param id path int true "userId"
// @Success 200 {object} models.UserBehaviorProfile
// @Router /users/{id}/behavior [get]
func (h *RecommendHandler) GetBehavior(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	userID, _ := strconv.Atoi(chi.URLParam(r, "id"))
	profile, err := h.svc.Behavior(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	_ = json.NewEncoder(w).Encode(profile)
}

// upgrader global (no afecta a swagger)
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// @Summary Recomendaciones híbridas en tiempo real (WebSocket)
// @Tags recommend
// @Produce json
// @Param id path int true "userId"
// @Param k query int false "cantidad de recomendaciones (máx 50)"
// @Success 200 {object} map[string]interface{}
// @Router /users/{id}/ws/recommendations [get]
func (h *RecommendHandler) GetRecommendationsWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "No se pudo abrir WebSocket", 400)
		return
	}
	defer conn.Close()

	userID, _ := strconv.Atoi(chi.URLParam(r, "id"))
	k, _ := strconv.Atoi(r.URL.Query().Get("k"))

	// Mensaje inicial
	conn.WriteJSON(map[string]any{
		"type": "start",
		"msg":  "Conexión WS abierta, iniciando cálculo…",
	})

	// Progreso por estrategia intermedia antes de la fusión final
	for _, strategy := range []string{models.StrategyCollaborative, models.StrategyContent, models.StrategyPopular} {
		conn.WriteJSON(map[string]any{
			"type":     "progress",
			"strategy": strategy,
		})
	}

	items, err := h.svc.Recommend(r.Context(), service.RecRequest{
		Strategy: models.StrategyHybrid,
		UserID:   &userID,
		K:        k,
	})
	if err != nil {
		conn.WriteJSON(map[string]any{
			"type":  "error",
			"error": err.Error(),
		})
		return
	}

	// Mensaje final con recomendaciones fusionadas
	conn.WriteJSON(map[string]any{
		"type":        "recommendations",
		"userId":      userID,
		"items":       items,
		"generatedAt": time.Now(),
	})
}
