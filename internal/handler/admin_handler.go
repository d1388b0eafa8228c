package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"filmflow-core/internal/models"
	"filmflow-core/internal/service"

	"github.com/go-chi/chi/v5"
)

// AdminHandler expone las operaciones de modelo: rebuild manual y evaluación.
type AdminHandler struct {
	rec  *service.RecommendService
	eval *service.EvaluationService
}

func NewAdminHandler(rec *service.RecommendService, eval *service.EvaluationService) *AdminHandler {
	return &AdminHandler{rec: rec, eval: eval}
}

// @Summary Forzar rebuild de matrices e índices
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {string} string "error interno"
// @Router /admin/models/refresh [post]
func (h *AdminHandler) PostRefresh(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if err := h.rec.RefreshModels(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"elapsedMs": time.Since(start).Milliseconds(),
	})
}

type evaluateRequest struct {
	Strategy string `json:"strategy"`
	Version  string `json:"version,omitempty"`
	Users    []int  `json:"users,omitempty"`
	KValues  []int  `json:"kValues,omitempty"`
}

// @Summary Correr evaluación offline de una estrategia
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body evaluateRequest true "parámetros de evaluación"
// @Success 200 {object} models.EvalSnapshot
// @Failure 400 {string} string "body inválido"
// @Failure 500 {string} string "error interno"
// @Router /admin/evaluation/run [post]
func (h *AdminHandler) PostEvaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "body inválido", http.StatusBadRequest)
		return
	}
	if req.Strategy == "" {
		http.Error(w, "strategy es requerido", http.StatusBadRequest)
		return
	}
	if req.Version == "" {
		req.Version = "current"
	}

	snap, err := h.eval.EvaluateModel(r.Context(), req.Strategy, req.Version, req.Users, req.KValues)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// @Summary Comparar estrategias con sus evaluaciones recientes
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param strategies query string false "lista separada por comas (default: todas)"
// @Param windowDays query int false "ventana hacia atrás en días (default 30)"
// @Success 200 {array} models.ModelComparison
// @Failure 500 {string} string "error interno"
// @Router /admin/evaluation/compare [get]
func (h *AdminHandler) GetCompare(w http.ResponseWriter, r *http.Request) {
	strategies := []string{
		models.StrategyCollaborative,
		models.StrategyContent,
		models.StrategyPersonalized,
		models.StrategyHybrid,
	}
	if raw := r.URL.Query().Get("strategies"); raw != "" {
		strategies = strings.Split(raw, ",")
	}
	windowDays, _ := strconv.Atoi(r.URL.Query().Get("windowDays"))

	out, err := h.eval.CompareModels(r.Context(), strategies, windowDays)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// Utilidad pequeña para respuestas JSON.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Helper para montar rutas en main.go
func MountAdminRoutes(r chi.Router, h *AdminHandler) {
	r.Route("/admin", func(r chi.Router) {
		r.Post("/models/refresh", h.PostRefresh)
		r.Post("/evaluation/run", h.PostEvaluate)
		r.Get("/evaluation/compare", h.GetCompare)
	})
}
