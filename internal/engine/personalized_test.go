package engine

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"filmflow-core/internal/models"
	"filmflow-core/internal/store"
)

// historial cargado hacia sci-fi para armar el perfil.
func seedSciFiWatcher(st *store.Memory, userID int) {
	now := time.Now().Unix()
	for i, movieID := range []int{10, 20, 50} {
		st.AddWatch(models.WatchDoc{
			UserID:   userID,
			MovieID:  movieID,
			ViewedAt: now - int64(i)*3600,
			Progress: "completed",
		})
	}
}

func TestProfileFromWatchHistory(t *testing.T) {
	st := store.NewMemory()
	seedCatalog(st)
	seedSciFiWatcher(st, 1)
	ctx := context.Background()
	require.NoError(t, st.UpsertRating(ctx, 1, 10, 5))
	require.NoError(t, st.UpsertRating(ctx, 1, 20, 4))

	eng := newTestEngine(t, st)
	prof, err := eng.Profile(ctx, 1)
	require.NoError(t, err)

	require.Equal(t, 3, prof.TotalWatched)
	require.Equal(t, "Sci-Fi", prof.TopGenre())
	// 3 de sci-fi sobre 6 menciones de género en total
	require.InDelta(t, 0.5, prof.GenreWeightFor("sci-fi"), 1e-9)
	require.Equal(t, 2010, prof.PreferredDecade)
	require.InDelta(t, 4.5, prof.AvgRating, 1e-9)
	require.Contains(t, prof.RecentGenres, "Sci-Fi")
}

func TestProfileEmptyUser(t *testing.T) {
	st := store.NewMemory()
	seedCatalog(st)
	eng := newTestEngine(t, st)

	prof, err := eng.Profile(context.Background(), 42)
	require.NoError(t, err)
	require.Zero(t, prof.TotalWatched)
	require.Empty(t, prof.FavoriteGenres)
	require.Zero(t, prof.AvgRating)
}

func TestPersonalizedFiltersLowAffinity(t *testing.T) {
	st := store.NewMemory()
	seedCatalog(st)
	seedSciFiWatcher(st, 1)

	eng := newTestEngine(t, st)
	items, err := eng.personalizedAt(context.Background(), 1, 10, 10)
	require.NoError(t, err)
	require.NotEmpty(t, items)

	for _, item := range items {
		require.GreaterOrEqual(t, item.Score, eng.cfg.MinPersonalScore)
		// el historial ya visto no se repite
		require.NotContains(t, []int{10, 20, 50}, item.MovieID)
	}
}

func TestPersonalizedTimeOfDayAffinity(t *testing.T) {
	st := store.NewMemory()
	seedCatalog(st)
	seedSciFiWatcher(st, 1)
	// un thriller nuevo para que la franja nocturna lo empuje
	st.AddMovie(models.MovieDoc{
		MovieID: 60, Title: "Night Signal", Year: intp(2012),
		Genres:      []string{"Thriller"},
		Overview:    "late night radio host receives a strange signal",
		VoteAverage: 7.2,
	})

	eng := newTestEngine(t, st)
	ctx := context.Background()

	scoreAt := func(hour int) float64 {
		items, err := eng.personalizedAt(ctx, 1, 20, hour)
		require.NoError(t, err)
		for _, item := range items {
			if item.MovieID == 60 {
				return item.Score
			}
		}
		return 0
	}

	// 2am cae en "night" (thriller incluido), 9am en "morning"
	require.Greater(t, scoreAt(2), scoreAt(9))
}

func TestPersonalizedDiversityCap(t *testing.T) {
	st := store.NewMemory()
	seedCatalog(st)
	seedSciFiWatcher(st, 1)
	// inflar el catálogo con sci-fi de alta afinidad
	for i := 0; i < 4; i++ {
		st.AddMovie(models.MovieDoc{
			MovieID: 100 + i, Title: "Void Saga", Year: intp(2012),
			Genres:      []string{"Sci-Fi"},
			Overview:    "another voyage through the void",
			VoteAverage: 8.5,
		})
	}

	eng := newTestEngine(t, st)
	items, err := eng.personalizedAt(context.Background(), 1, 4, 10)
	require.NoError(t, err)
	require.Len(t, items, 4)

	// dentro del corte principal entran máximo 3 por género; el cuarto
	// lugar lo llena otro género o el backfill
	sciFi := 0
	for _, item := range items[:3] {
		for _, g := range item.Genres {
			if strings.EqualFold(g, "sci-fi") {
				sciFi++
				break
			}
		}
	}
	require.LessOrEqual(t, sciFi, 3)
	require.Equal(t, "Personalized for you", items[0].Reason)
}

func TestPersonalizedGenreFallback(t *testing.T) {
	st := store.NewMemory()
	seedCatalog(st)
	seedSciFiWatcher(st, 1)
	st.AddMovie(models.MovieDoc{
		MovieID: 70, Title: "Frontier Dawn", Year: intp(2016),
		Genres:      []string{"Adventure"},
		Overview:    "explorers chart an unknown frontier",
		VoteAverage: 6.4,
	})

	eng := newTestEngine(t, st)
	ctx := context.Background()
	prof, err := eng.Profile(ctx, 1)
	require.NoError(t, err)

	out := eng.genreFallback(ctx, eng.current(), prof, 10, 1)
	require.NotEmpty(t, out)
	for _, item := range out {
		require.Equal(t, "Matches your favorite genres", item.Reason)
		require.NotContains(t, []int{10, 20, 50}, item.MovieID)
	}
}
