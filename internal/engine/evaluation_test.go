package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"filmflow-core/internal/models"
)

func relSet(ids ...int) map[int]struct{} {
	out := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}

func TestPrecisionAtK(t *testing.T) {
	recs := []int{1, 2, 3, 4, 5}
	relevant := relSet(1, 3, 9)

	require.InDelta(t, 2.0/5, PrecisionAtK(recs, relevant, 5), 1e-9)
	require.InDelta(t, 1.0/2, PrecisionAtK(recs, relevant, 2), 1e-9)
	require.Zero(t, PrecisionAtK(nil, relevant, 5))
	require.Zero(t, PrecisionAtK(recs, relSet(), 5))
	require.Zero(t, PrecisionAtK(recs, relevant, 0))
}

func TestRecallAtK(t *testing.T) {
	recs := []int{1, 2, 3}
	relevant := relSet(1, 3, 9, 11)

	require.InDelta(t, 2.0/4, RecallAtK(recs, relevant, 3), 1e-9)
	require.InDelta(t, 1.0/4, RecallAtK(recs, relevant, 1), 1e-9)
	require.Zero(t, RecallAtK(recs, relSet(), 3))
}

func TestNDCGPerfectOrderIsOne(t *testing.T) {
	relevance := map[int]float64{1: 5, 2: 4, 3: 3}

	require.InDelta(t, 1.0, NDCGAtK([]int{1, 2, 3}, relevance, 3), 1e-9)
	// orden invertido pierde ganancia
	require.Less(t, NDCGAtK([]int{3, 2, 1}, relevance, 3), 1.0)
	require.Greater(t, NDCGAtK([]int{3, 2, 1}, relevance, 3), 0.0)
}

func TestNDCGDegenerateCases(t *testing.T) {
	require.Zero(t, NDCGAtK([]int{1, 2}, map[int]float64{}, 5))
	require.Zero(t, NDCGAtK(nil, map[int]float64{1: 5}, 5))
	require.Zero(t, NDCGAtK([]int{1}, map[int]float64{1: 5}, 0))
}

func TestMeanAveragePrecision(t *testing.T) {
	// hits en posiciones 1 y 3: (1/1 + 2/3) / 2 relevantes
	recs := []int{7, 8, 9}
	relevant := relSet(7, 9)
	require.InDelta(t, (1.0+2.0/3)/2, MeanAveragePrecision(recs, relevant), 1e-9)

	require.Zero(t, MeanAveragePrecision(recs, relSet()))
	require.Zero(t, MeanAveragePrecision([]int{1, 2}, relSet(5)))
}

func TestMRR(t *testing.T) {
	require.InDelta(t, 1.0, MRR([]int{5, 6}, relSet(5)), 1e-9)
	require.InDelta(t, 1.0/3, MRR([]int{1, 2, 5}, relSet(5)), 1e-9)
	require.Zero(t, MRR([]int{1, 2}, relSet(5)))
}

func TestDiversity(t *testing.T) {
	items := []models.RecItem{
		{MovieID: 1, Genres: []string{"Drama", "Crime"}},
		{MovieID: 2, Genres: []string{"drama"}},
		{MovieID: 3, Genres: []string{"Comedy"}},
	}
	// drama, crime, comedy únicos sobre 3 ítems
	require.InDelta(t, 1.0, Diversity(items), 1e-9)
	require.Zero(t, Diversity(nil))
}

func TestCoverage(t *testing.T) {
	lists := [][]int{{1, 2}, {2, 3}}
	require.InDelta(t, 3.0/10, Coverage(lists, 10), 1e-9)
	require.Zero(t, Coverage(lists, 0))
	require.Zero(t, Coverage(nil, 10))
}
