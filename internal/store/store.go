// Package store provides persistence for saved analyses.
package store

import (
	"context"
	"time"

	"option-pnl/internal/models"
	"option-pnl/internal/payoff"
)

// AnalysisStore defines the interface for analysis history persistence.
type AnalysisStore interface {
	SaveAnalysis(ctx context.Context, record *models.AnalysisRecord) error
	ListAnalyses(ctx context.Context, filter AnalysisFilter) ([]models.AnalysisRecord, error)
	GetAnalysis(ctx context.Context, id int64) (*models.AnalysisRecord, error)
	DeleteAnalysis(ctx context.Context, id int64) error

	Close() error
}

// AnalysisFilter represents filters for querying saved analyses.
type AnalysisFilter struct {
	Kind  *models.OptionKind
	Side  *models.PositionSide
	Label string
	Since time.Time
	Limit int
}

// RecordFromAnalysis captures the inputs and headline results of a.
func RecordFromAnalysis(a *payoff.Analysis, label string) *models.AnalysisRecord {
	return &models.AnalysisRecord{
		Label:     label,
		Contract:  a.Contract,
		Spot:      a.Spot.Price,
		Steps:     a.Grid.Len(),
		Policy:    a.Policy,
		BreakEven: a.Zones.BreakEven,
		PriceMin:  a.Grid.Min,
		PriceMax:  a.Grid.Max,
		Extremes:  a.Extremes,
	}
}
