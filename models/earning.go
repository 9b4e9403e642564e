// models/earning.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Earning types
const (
	EarningTypeSelf       = "self_commission"
	EarningTypeMLMLevel   = "mlm_level"
	EarningTypeFranchise  = "franchise"
	EarningTypeRank       = "rank"
	EarningTypeWithdrawal = "withdrawal"
)

// Earning statuses
const (
	EarningStatusPending   = "pending"
	EarningStatusCompleted = "completed"
)

// Earning is an append-only ledger entry. Amount is signed; withdrawals are
// negative. The earnings collection is the source of truth both for balances
// and for whether an order has already been compensated — the commission
// caches on the order document only mirror it.
type Earning struct {
	ID      primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	UserID  primitive.ObjectID  `json:"userId" bson:"userId"`
	Amount  float64             `json:"amount" bson:"amount"`
	Type    string              `json:"type" bson:"type"`
	Level   int                 `json:"level,omitempty" bson:"level,omitempty"`
	OrderID *primitive.ObjectID `json:"orderId,omitempty" bson:"orderId,omitempty"`
	Status  string              `json:"status" bson:"status"`
	Date    time.Time           `json:"date" bson:"date"`
}

type WithdrawalRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}
