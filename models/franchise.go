// models/franchise.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SalesTotals accumulates order totals routed through a franchise, split by
// order type.
type SalesTotals struct {
	Online  float64 `json:"online" bson:"online"`
	Offline float64 `json:"offline" bson:"offline"`
	Total   float64 `json:"total" bson:"total"`
}

// Franchise earns a flat percentage of the whole order total for every order
// tagged with it.
type Franchise struct {
	ID                   primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	OwnerID              primitive.ObjectID `json:"ownerId" bson:"ownerId"`
	Name                 string             `json:"name" bson:"name"`
	CommissionPercentage float64            `json:"commissionPercentage" bson:"commissionPercentage"`
	TotalCommission      float64            `json:"totalCommission" bson:"totalCommission"`
	TotalSales           SalesTotals        `json:"totalSales" bson:"totalSales"`
	CreatedAt            time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt            time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type CreateFranchiseRequest struct {
	OwnerID              string  `json:"ownerId" validate:"required"`
	Name                 string  `json:"name" validate:"required"`
	CommissionPercentage float64 `json:"commissionPercentage" validate:"gte=0,lte=100"`
}
