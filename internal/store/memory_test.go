package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"filmflow-core/internal/models"
)

func TestPopularMovieIDsWindowAndOrder(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()
	now := time.Now().Unix()
	old := time.Now().AddDate(0, 0, -60).Unix()

	for i := 0; i < 3; i++ {
		require.NoError(t, st.InsertEvent(ctx, &models.UserEventDoc{UserID: 1, MovieID: 10, EventType: models.EventView, Timestamp: now}))
	}
	require.NoError(t, st.InsertEvent(ctx, &models.UserEventDoc{UserID: 1, MovieID: 20, EventType: models.EventView, Timestamp: now}))
	// fuera de la ventana
	require.NoError(t, st.InsertEvent(ctx, &models.UserEventDoc{UserID: 1, MovieID: 30, EventType: models.EventView, Timestamp: old}))

	since := time.Now().AddDate(0, 0, -30)
	counts, err := st.PopularMovieIDs(ctx, since, 10)
	require.NoError(t, err)
	require.Len(t, counts, 2)
	require.Equal(t, 10, counts[0].MovieID)
	require.EqualValues(t, 3, counts[0].Count)
	require.Equal(t, 20, counts[1].MovieID)
}

func TestActiveUserIDs(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()

	for m := 1; m <= 5; m++ {
		require.NoError(t, st.UpsertRating(ctx, 1, m, 4))
	}
	require.NoError(t, st.UpsertRating(ctx, 2, 1, 4))

	users, err := st.ActiveUserIDs(ctx, 5, 100)
	require.NoError(t, err)
	require.Equal(t, []int{1}, users)
}

func TestRecentEventsByUserFilters(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()
	now := time.Now().Unix()

	require.NoError(t, st.InsertEvent(ctx, &models.UserEventDoc{UserID: 1, MovieID: 10, EventType: models.EventView, Timestamp: now - 10}))
	require.NoError(t, st.InsertEvent(ctx, &models.UserEventDoc{UserID: 1, MovieID: 20, EventType: models.EventClick, Timestamp: now}))
	require.NoError(t, st.InsertEvent(ctx, &models.UserEventDoc{UserID: 1, MovieID: 30, EventType: models.EventImpression, Timestamp: now}))
	require.NoError(t, st.InsertEvent(ctx, &models.UserEventDoc{UserID: 2, MovieID: 40, EventType: models.EventView, Timestamp: now}))

	events, err := st.RecentEventsByUser(ctx, 1, 10, []string{models.EventView, models.EventClick})
	require.NoError(t, err)
	require.Len(t, events, 2)
	// más reciente primero
	require.Equal(t, 20, events[0].MovieID)
	require.Equal(t, 10, events[1].MovieID)
}

func TestCountEventsByStrategy(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, st.InsertEvent(ctx, &models.UserEventDoc{UserID: 1, MovieID: 1, EventType: models.EventClick, Strategy: "hybrid", Timestamp: now.Unix()}))
	require.NoError(t, st.InsertEvent(ctx, &models.UserEventDoc{UserID: 1, MovieID: 1, EventType: models.EventClick, Strategy: "content", Timestamp: now.Unix()}))

	n, err := st.CountEvents(ctx, models.EventClick, "hybrid", now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	// sin filtro de estrategia cuenta todo
	n, err = st.CountEvents(ctx, models.EventClick, "", now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)
	require.EqualValues(t, 2, n)
}
