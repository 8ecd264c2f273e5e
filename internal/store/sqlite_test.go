package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "option-pnl/internal/errors"
	"option-pnl/internal/models"
	"option-pnl/internal/payoff"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func analyzeFor(t *testing.T, kind models.OptionKind, side models.PositionSide) *payoff.Analysis {
	t.Helper()
	a, err := payoff.Analyze(payoff.Request{
		Contract: models.ContractSpec{Kind: kind, Side: side, Strike: 100000, Premium: 2000},
		Spot:     104000,
		Steps:    200,
	})
	require.NoError(t, err)
	return a
}

func TestRecordFromAnalysis(t *testing.T) {
	a := analyzeFor(t, models.Call, models.Long)
	r := RecordFromAnalysis(a, "weekly")

	assert.Equal(t, "weekly", r.Label)
	assert.Equal(t, a.Contract, r.Contract)
	assert.Equal(t, 200, r.Steps)
	assert.Equal(t, 102000.0, r.BreakEven)
	assert.Equal(t, a.Grid.Min, r.PriceMin)
	assert.Equal(t, a.Grid.Max, r.PriceMax)
	assert.True(t, r.Extremes.MaxProfit.Unbounded)
}

func TestSQLiteStore_SaveListDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	longCall := RecordFromAnalysis(analyzeFor(t, models.Call, models.Long), "a")
	shortPut := RecordFromAnalysis(analyzeFor(t, models.Put, models.Short), "b")
	shortPut.CreatedAt = time.Now().UTC().Add(time.Minute)

	require.NoError(t, s.SaveAnalysis(ctx, longCall))
	require.NoError(t, s.SaveAnalysis(ctx, shortPut))
	assert.NotZero(t, longCall.ID)
	assert.NotEqual(t, longCall.ID, shortPut.ID)

	all, err := s.ListAnalyses(ctx, AnalysisFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, shortPut.ID, all[0].ID, "newest first")

	put := models.Put
	puts, err := s.ListAnalyses(ctx, AnalysisFilter{Kind: &put})
	require.NoError(t, err)
	require.Len(t, puts, 1)
	assert.Equal(t, models.Short, puts[0].Contract.Side)
	assert.Equal(t, models.Bound{Value: 98000}, puts[0].Extremes.MaxLoss)

	labelled, err := s.ListAnalyses(ctx, AnalysisFilter{Label: "a"})
	require.NoError(t, err)
	require.Len(t, labelled, 1)
	assert.Equal(t, longCall.ID, labelled[0].ID)

	limited, err := s.ListAnalyses(ctx, AnalysisFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	require.NoError(t, s.DeleteAnalysis(ctx, longCall.ID))
	_, err = s.GetAnalysis(ctx, longCall.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSQLiteStore_Missing(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.GetAnalysis(ctx, 42)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	err = s.DeleteAnalysis(ctx, 42)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSQLiteStore_RejectsInvalidContract(t *testing.T) {
	s := newTestStore(t)
	err := s.SaveAnalysis(context.Background(), &models.AnalysisRecord{
		Contract: models.ContractSpec{Kind: models.Call, Side: models.Long, Strike: -1},
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidParameter)
}

var _ AnalysisStore = (*SQLiteStore)(nil)
