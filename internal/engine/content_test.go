package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"filmflow-core/internal/store"
)

func TestContentRequiresSharedGenre(t *testing.T) {
	st := store.NewMemory()
	seedCatalog(st)
	eng := newTestEngine(t, st)

	items, err := eng.Content(context.Background(), intp(10), 10)
	require.NoError(t, err)
	require.NotEmpty(t, items)

	for _, item := range items {
		// el gate de géneros descarta drama y comedia puros, y la semilla misma
		require.NotEqual(t, 10, item.MovieID)
		require.NotEqual(t, 30, item.MovieID)
		require.NotEqual(t, 40, item.MovieID)
		require.Equal(t, "Similar to Star Quest", item.Reason)
		require.NotNil(t, item.Similarity)
	}
}

func TestContentRanksFranchiseFirst(t *testing.T) {
	st := store.NewMemory()
	seedCatalog(st)
	eng := newTestEngine(t, st)

	items, err := eng.Content(context.Background(), intp(10), 10)
	require.NoError(t, err)
	require.Len(t, items, 2)

	// la secuela comparte título, director, géneros y ventana de años:
	// acumula más bonos que la sci-fi suelta
	require.Equal(t, 20, items[0].MovieID)
	require.Equal(t, 50, items[1].MovieID)
	require.Greater(t, items[0].Score, items[1].Score)
}

func TestContentBonuses(t *testing.T) {
	st := store.NewMemory()
	seedCatalog(st)
	eng := newTestEngine(t, st)
	snap := eng.current()

	seed := snap.byID[10]
	seq := snap.byID[20]
	cfg := eng.cfg

	bonus := eng.contentBonuses(seed, seq, seed.SharedGenres(seq), titleTokens(seed.Title))
	// 2 géneros + token de título + director + año ±5 + calidad ≥6
	expected := 2*cfg.GenreBonusPerMatch + cfg.TitleTokenBonus + cfg.DirectorBonus + cfg.YearBonus + cfg.QualityBonus
	require.InDelta(t, expected, bonus, 1e-9)

	// el bono por géneros satura en el cap
	other := snap.byID[50]
	b2 := eng.contentBonuses(seed, other, 99, titleTokens(seed.Title))
	require.LessOrEqual(t, b2, cfg.GenreBonusCap+cfg.TitleTokenBonus+cfg.DirectorBonus+cfg.YearBonus+cfg.QualityBonus)
}

func TestContentImplicitSeed(t *testing.T) {
	st := store.NewMemory()
	seedCatalog(st)
	ctx := context.Background()
	// la 20 es la mejor calificada: debe usarse como semilla implícita
	require.NoError(t, st.UpsertRating(ctx, 1, 20, 5))
	require.NoError(t, st.UpsertRating(ctx, 2, 40, 2))

	eng := newTestEngine(t, st)
	items, err := eng.Content(ctx, nil, 10)
	require.NoError(t, err)
	require.NotEmpty(t, items)
	require.Equal(t, "Similar to Star Quest II", items[0].Reason)
}

func TestContentUnknownSeed(t *testing.T) {
	st := store.NewMemory()
	seedCatalog(st)
	eng := newTestEngine(t, st)

	items, err := eng.Content(context.Background(), intp(777), 10)
	require.NoError(t, err)
	require.Empty(t, items)
}
