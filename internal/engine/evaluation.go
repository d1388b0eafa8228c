package engine

import (
	"math"
	"sort"
	"strings"

	"filmflow-core/internal/models"
)

// Métricas offline de calidad de ranking. Todas están definidas en 0 para
// los casos degenerados (sin recomendaciones, sin ground truth, IDCG = 0):
// nunca dividen por cero.

// PrecisionAtK: proporción de relevantes dentro del top K.
func PrecisionAtK(recs []int, relevant map[int]struct{}, k int) float64 {
	if len(recs) == 0 || len(relevant) == 0 || k <= 0 {
		return 0
	}
	top := recs
	if len(top) > k {
		top = top[:k]
	}
	hits := 0
	for _, id := range top {
		if _, ok := relevant[id]; ok {
			hits++
		}
	}
	return float64(hits) / float64(k)
}

// RecallAtK: proporción del ground truth recuperada en el top K.
func RecallAtK(recs []int, relevant map[int]struct{}, k int) float64 {
	if len(relevant) == 0 || k <= 0 {
		return 0
	}
	top := recs
	if len(top) > k {
		top = top[:k]
	}
	hits := 0
	for _, id := range top {
		if _, ok := relevant[id]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(relevant))
}

// NDCGAtK con relevancia graduada: DCG = Σ rel_i / log2(i+1) sobre el orden
// recomendado; IDCG con el orden ideal; 0 cuando IDCG es 0.
func NDCGAtK(recs []int, relevance map[int]float64, k int) float64 {
	if k <= 0 {
		return 0
	}

	dcg := 0.0
	top := recs
	if len(top) > k {
		top = top[:k]
	}
	for i, id := range top {
		dcg += relevance[id] / math.Log2(float64(i)+2)
	}

	ideal := make([]float64, 0, len(relevance))
	for _, rel := range relevance {
		ideal = append(ideal, rel)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(ideal)))
	if len(ideal) > k {
		ideal = ideal[:k]
	}
	idcg := 0.0
	for i, rel := range ideal {
		idcg += rel / math.Log2(float64(i)+2)
	}

	if idcg == 0 {
		return 0
	}
	return dcg / idcg
}

// MeanAveragePrecision: Σ (hits/posición) en cada hit ÷ total de relevantes.
func MeanAveragePrecision(recs []int, relevant map[int]struct{}) float64 {
	if len(relevant) == 0 {
		return 0
	}
	score := 0.0
	hits := 0
	for i, id := range recs {
		if _, ok := relevant[id]; ok {
			hits++
			score += float64(hits) / float64(i+1)
		}
	}
	if hits == 0 {
		return 0
	}
	return score / float64(len(relevant))
}

// MRR: 1/posición del primer relevante, 0 si no aparece ninguno.
func MRR(recs []int, relevant map[int]struct{}) float64 {
	for i, id := range recs {
		if _, ok := relevant[id]; ok {
			return 1 / float64(i+1)
		}
	}
	return 0
}

// Diversity: géneros únicos ÷ largo de la lista.
func Diversity(items []models.RecItem) float64 {
	if len(items) == 0 {
		return 0
	}
	genres := make(map[string]struct{})
	for _, item := range items {
		for _, g := range item.Genres {
			genres[strings.ToLower(g)] = struct{}{}
		}
	}
	return float64(len(genres)) / float64(len(items))
}

// Coverage: fracción del catálogo que aparece en las listas evaluadas.
func Coverage(lists [][]int, catalogSize int) float64 {
	if catalogSize == 0 {
		return 0
	}
	unique := make(map[int]struct{})
	for _, list := range lists {
		for _, id := range list {
			unique[id] = struct{}{}
		}
	}
	return float64(len(unique)) / float64(catalogSize)
}
