package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"filmflow-core/internal/models"
	"filmflow-core/internal/store"
)

func TestAddRatingUpdatesStats(t *testing.T) {
	st := store.NewMemory()
	st.AddMovie(models.MovieDoc{MovieID: 1, Title: "Alpha", VoteAverage: 7.0})
	svc := NewRatingService(st)
	ctx := context.Background()

	require.NoError(t, svc.AddOrUpdate(ctx, 1, 1, 5))
	require.NoError(t, svc.AddOrUpdate(ctx, 2, 1, 3))

	m, err := st.MovieByID(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 2, m.RatingStats.Count)
	require.InDelta(t, 4.0, m.RatingStats.Average, 1e-9)
	require.NotEmpty(t, m.RatingStats.LastRatedAt)
	require.NotEmpty(t, m.UpdatedAt)
}

func TestUpdateRatingKeepsCount(t *testing.T) {
	st := store.NewMemory()
	st.AddMovie(models.MovieDoc{MovieID: 1, Title: "Alpha"})
	svc := NewRatingService(st)
	ctx := context.Background()

	require.NoError(t, svc.AddOrUpdate(ctx, 1, 1, 2))
	// el mismo usuario corrige su rating: el count no cambia
	require.NoError(t, svc.AddOrUpdate(ctx, 1, 1, 4))

	m, err := st.MovieByID(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 1, m.RatingStats.Count)
	require.InDelta(t, 4.0, m.RatingStats.Average, 1e-9)

	ratings, err := svc.GetByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, ratings, 1)
	require.InDelta(t, 4.0, ratings[0].Rating, 1e-9)
}

func TestRatingValidation(t *testing.T) {
	st := store.NewMemory()
	st.AddMovie(models.MovieDoc{MovieID: 1, Title: "Alpha"})
	svc := NewRatingService(st)
	ctx := context.Background()

	require.Error(t, svc.AddOrUpdate(ctx, 1, 1, 0))
	require.Error(t, svc.AddOrUpdate(ctx, 1, 1, 5.5))
	// película inexistente
	require.Error(t, svc.AddOrUpdate(ctx, 1, 999, 4))
}

func TestRecordEvent(t *testing.T) {
	st := store.NewMemory()
	svc := NewTrackingService(st)
	ctx := context.Background()

	ev := &models.UserEventDoc{UserID: 1, MovieID: 2, EventType: models.EventClick}
	require.NoError(t, svc.RecordEvent(ctx, ev))
	require.NotZero(t, ev.Timestamp)

	require.Error(t, svc.RecordEvent(ctx, &models.UserEventDoc{
		UserID: 1, MovieID: 2, EventType: "hover",
	}))
}
