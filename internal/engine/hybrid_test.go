package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"filmflow-core/internal/models"
	"filmflow-core/internal/store"
)

func TestHybridBlendsSources(t *testing.T) {
	st := store.NewMemory()
	seedCatalog(st)
	ctx := context.Background()

	require.NoError(t, st.UpsertRating(ctx, 1, 10, 5))
	require.NoError(t, st.UpsertRating(ctx, 2, 10, 5))
	require.NoError(t, st.UpsertRating(ctx, 2, 50, 5))
	require.NoError(t, st.InsertEvent(ctx, &models.UserEventDoc{
		UserID: 1, MovieID: 10, EventType: models.EventView, Timestamp: time.Now().Unix(),
	}))

	eng := newTestEngine(t, st)
	items, err := eng.Hybrid(ctx, intp(1), nil, 10)
	require.NoError(t, err)
	require.NotEmpty(t, items)

	for _, item := range items {
		require.NotEmpty(t, item.Sources)
		require.Contains(t, item.Reason, "Recommended based on ")
		require.Nil(t, item.Similarity)
		// lo consumido (rating + evento de vista sobre la 10) no vuelve
		require.NotEqual(t, 10, item.MovieID)
	}

	// la 50 aparece por colaborativo y por contenido (semilla = vista reciente)
	var fifty *models.RecItem
	for i := range items {
		if items[i].MovieID == 50 {
			fifty = &items[i]
		}
	}
	require.NotNil(t, fifty)
	require.Contains(t, fifty.Sources, models.StrategyCollaborative)
	require.Contains(t, fifty.Sources, models.StrategyContent)
}

func TestHybridExplicitSeed(t *testing.T) {
	st := store.NewMemory()
	seedCatalog(st)
	eng := newTestEngine(t, st)

	items, err := eng.Hybrid(context.Background(), nil, intp(10), 10)
	require.NoError(t, err)
	require.NotEmpty(t, items)

	var content int
	for _, item := range items {
		if containsSource(item.Sources, models.StrategyContent) {
			content++
		}
	}
	require.Greater(t, content, 0)
}

func TestHybridAnonymousNeverEmpty(t *testing.T) {
	st := store.NewMemory()
	seedCatalog(st)
	eng := newTestEngine(t, st)

	items, err := eng.Hybrid(context.Background(), nil, nil, 3)
	require.NoError(t, err)
	require.Len(t, items, 3)
}

func TestFusionWeights(t *testing.T) {
	eng := New(store.NewMemory(), DefaultConfig())
	require.InDelta(t, 0.4, eng.fusionWeight(models.StrategyCollaborative), 1e-9)
	require.InDelta(t, 0.3, eng.fusionWeight(models.StrategyContent), 1e-9)
	require.InDelta(t, 0.5, eng.fusionWeight(models.StrategyPersonalized), 1e-9)
	require.InDelta(t, 0.2, eng.fusionWeight(models.StrategyPopular), 1e-9)
	require.Zero(t, eng.fusionWeight("algo"))
}
