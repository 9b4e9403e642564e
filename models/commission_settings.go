// models/commission_settings.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxCommissionLevels is how deep the upline chain is compensated.
const MaxCommissionLevels = 5

// DefaultLevelRates are the decimal commission fractions per upline level:
// 1.5% at level 1, 1% at level 2, 0.5% at levels 3-5.
var DefaultLevelRates = []float64{0.015, 0.01, 0.005, 0.005, 0.005}

// CommissionSettings is the admin-editable rate table. It is versioned so an
// in-flight distribution works against the snapshot it loaded, unaffected by
// concurrent rate changes.
type CommissionSettings struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	LevelRates []float64          `json:"levelRates" bson:"levelRates"`
	SelfRate   float64            `json:"selfRate" bson:"selfRate"`
	Version    int64              `json:"version" bson:"version"`
	UpdatedBy  primitive.ObjectID `json:"updatedBy,omitempty" bson:"updatedBy,omitempty"`
	UpdatedAt  time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// DefaultCommissionSettings returns the settings used before an admin has
// ever saved the rate table.
func DefaultCommissionSettings() CommissionSettings {
	rates := make([]float64, len(DefaultLevelRates))
	copy(rates, DefaultLevelRates)
	return CommissionSettings{
		LevelRates: rates,
		SelfRate:   0,
		Version:    0,
	}
}

// UpdateCommissionRatesRequest updates the rate table. Exactly 5 non-negative
// decimal fractions are required; sum and monotonicity are not checked.
type UpdateCommissionRatesRequest struct {
	LevelRates []float64 `json:"levelRates" validate:"required,len=5,dive,gte=0"`
	SelfRate   *float64  `json:"selfRate,omitempty" validate:"omitempty,gte=0"`
}
