package models

import "time"

// AnalysisRecord is a saved single-option analysis.
type AnalysisRecord struct {
	ID        int64        `json:"id" yaml:"id"`
	CreatedAt time.Time    `json:"created_at" yaml:"created_at"`
	Label     string       `json:"label,omitempty" yaml:"label,omitempty"`
	Contract  ContractSpec `json:"contract" yaml:"contract"`
	Spot      float64      `json:"spot" yaml:"spot"`
	Steps     int          `json:"steps" yaml:"steps"`
	Policy    BoundsPolicy `json:"policy" yaml:"policy"`
	BreakEven float64      `json:"break_even" yaml:"break_even"`
	PriceMin  float64      `json:"price_min" yaml:"price_min"`
	PriceMax  float64      `json:"price_max" yaml:"price_max"`
	Extremes  Extremes     `json:"extremes" yaml:"extremes"`
}
