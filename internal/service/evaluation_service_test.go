package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"filmflow-core/internal/engine"
	"filmflow-core/internal/models"
	"filmflow-core/internal/store"
)

func newEvalFixture(t *testing.T) (*EvaluationService, *store.Memory) {
	t.Helper()
	st := store.NewMemory()
	st.AddMovie(models.MovieDoc{MovieID: 1, Title: "Alpha", Genres: []string{"Action"}, VoteAverage: 7.5})
	st.AddMovie(models.MovieDoc{MovieID: 2, Title: "Beta", Genres: []string{"Action"}, VoteAverage: 8.0})
	st.AddMovie(models.MovieDoc{MovieID: 3, Title: "Gamma", Genres: []string{"Drama"}, VoteAverage: 6.5})
	st.AddMovie(models.MovieDoc{MovieID: 4, Title: "Delta", Genres: []string{"Drama"}, VoteAverage: 7.0})

	ctx := context.Background()
	require.NoError(t, st.UpsertRating(ctx, 1, 1, 5))
	require.NoError(t, st.UpsertRating(ctx, 1, 3, 4))
	require.NoError(t, st.UpsertRating(ctx, 2, 1, 5))
	require.NoError(t, st.UpsertRating(ctx, 2, 2, 5))
	require.NoError(t, st.UpsertRating(ctx, 2, 4, 2))

	eng := engine.New(st, engine.DefaultConfig())
	require.NoError(t, eng.Refresh(ctx))
	return NewEvaluationService(eng, st), st
}

func TestEvaluateModelPersistsSnapshot(t *testing.T) {
	svc, st := newEvalFixture(t)
	ctx := context.Background()

	snap, err := svc.EvaluateModel(ctx, models.StrategyCollaborative, "v1", []int{1, 2}, []int{5, 10})
	require.NoError(t, err)

	require.Equal(t, models.StrategyCollaborative, snap.Strategy)
	require.Equal(t, "v1", snap.Version)
	require.NotEmpty(t, snap.ID)
	require.Equal(t, 2, snap.SampleSize)

	for _, k := range []string{"5", "10"} {
		require.GreaterOrEqual(t, snap.Metrics.PrecisionAtK[k], 0.0)
		require.LessOrEqual(t, snap.Metrics.PrecisionAtK[k], 1.0)
		require.GreaterOrEqual(t, snap.Metrics.NDCGAtK[k], 0.0)
		require.LessOrEqual(t, snap.Metrics.NDCGAtK[k], 1.0)
	}
	require.GreaterOrEqual(t, snap.Metrics.Coverage, 0.0)
	require.LessOrEqual(t, snap.Metrics.Coverage, 1.0)

	// quedó persistido para CompareModels
	since := time.Now().Add(-time.Hour)
	stored, err := st.RecentEvaluations(ctx, models.StrategyCollaborative, since, 10)
	require.NoError(t, err)
	require.Len(t, stored, 1)
}

func TestEvaluateModelDefaultKValues(t *testing.T) {
	svc, _ := newEvalFixture(t)

	snap, err := svc.EvaluateModel(context.Background(), models.StrategyHybrid, "v1", []int{1}, nil)
	require.NoError(t, err)
	require.Contains(t, snap.Metrics.PrecisionAtK, "5")
	require.Contains(t, snap.Metrics.PrecisionAtK, "10")
	require.Contains(t, snap.Metrics.PrecisionAtK, "20")
}

func TestEvaluateModelNoUsers(t *testing.T) {
	st := store.NewMemory()
	eng := engine.New(st, engine.DefaultConfig())
	require.NoError(t, eng.Refresh(context.Background()))
	svc := NewEvaluationService(eng, st)

	_, err := svc.EvaluateModel(context.Background(), models.StrategyCollaborative, "v1", nil, nil)
	require.Error(t, err)
}

func TestOnlineMetrics(t *testing.T) {
	svc, st := newEvalFixture(t)
	ctx := context.Background()
	now := time.Now().Unix()

	for i := 0; i < 10; i++ {
		require.NoError(t, st.InsertEvent(ctx, &models.UserEventDoc{
			UserID: 1, MovieID: 1, EventType: models.EventImpression,
			Strategy: models.StrategyHybrid, Timestamp: now,
		}))
	}
	for i := 0; i < 4; i++ {
		require.NoError(t, st.InsertEvent(ctx, &models.UserEventDoc{
			UserID: 1, MovieID: 1, EventType: models.EventClick,
			Strategy: models.StrategyHybrid, Timestamp: now,
		}))
	}
	require.NoError(t, st.InsertEvent(ctx, &models.UserEventDoc{
		UserID: 1, MovieID: 1, EventType: models.EventComplete,
		Strategy: models.StrategyHybrid, Timestamp: now,
	}))

	ctr, watchRate := svc.onlineMetrics(ctx, models.StrategyHybrid)
	require.InDelta(t, 0.4, ctr, 1e-9)
	require.InDelta(t, 0.25, watchRate, 1e-9)

	// otra estrategia sin eventos: ambos 0
	ctr, watchRate = svc.onlineMetrics(ctx, models.StrategyContent)
	require.Zero(t, ctr)
	require.Zero(t, watchRate)
}

func TestCompareModels(t *testing.T) {
	svc, st := newEvalFixture(t)
	ctx := context.Background()

	mk := func(strategy string, prec float64) *models.EvalSnapshot {
		return &models.EvalSnapshot{
			Strategy: strategy,
			Metrics: models.MetricSet{
				PrecisionAtK: map[string]float64{"10": prec},
				RecallAtK:    map[string]float64{"10": prec / 2},
				NDCGAtK:      map[string]float64{"10": prec},
				MAP:          prec,
				MRR:          prec,
			},
			SampleSize: 10,
			CreatedAt:  time.Now(),
		}
	}
	require.NoError(t, st.SaveEvaluation(ctx, mk(models.StrategyHybrid, 0.4)))
	require.NoError(t, st.SaveEvaluation(ctx, mk(models.StrategyHybrid, 0.6)))
	require.NoError(t, st.SaveEvaluation(ctx, mk(models.StrategyContent, 0.2)))

	out, err := svc.CompareModels(ctx, []string{models.StrategyHybrid, models.StrategyContent, models.StrategyPersonalized}, 30)
	require.NoError(t, err)
	require.Len(t, out, 3)

	require.Equal(t, models.StrategyHybrid, out[0].Strategy)
	require.Equal(t, 2, out[0].EvaluationsCount)
	require.InDelta(t, 0.5, out[0].PrecisionAt10, 1e-9)

	require.Equal(t, 1, out[1].EvaluationsCount)
	require.InDelta(t, 0.2, out[1].PrecisionAt10, 1e-9)

	// sin evaluaciones: entrada en cero, no error
	require.Zero(t, out[2].EvaluationsCount)
	require.Zero(t, out[2].PrecisionAt10)
}
