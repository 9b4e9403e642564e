// models/order.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusApproved   = "approved"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
	OrderStatusReturned   = "returned"
)

// Order types
const (
	OrderTypeOnline  = "online"
	OrderTypeOffline = "offline"
)

type OrderItem struct {
	ProductName  string  `json:"productName" bson:"productName"`
	ProductPrice float64 `json:"productPrice" bson:"productPrice"`
	Quantity     int     `json:"quantity" bson:"quantity"`
	PV           float64 `json:"pv" bson:"pv"`
}

// CommissionPosting mirrors a ledger entry inside the order document. It is a
// denormalized cache of the earnings collection, never the source of truth.
type CommissionPosting struct {
	UserID primitive.ObjectID `json:"userId" bson:"userId"`
	Amount float64            `json:"amount" bson:"amount"`
	Level  int                `json:"level,omitempty" bson:"level,omitempty"`
}

type OrderCommissions struct {
	Self      []CommissionPosting `json:"self,omitempty" bson:"self,omitempty"`
	MLM       []CommissionPosting `json:"mlm,omitempty" bson:"mlm,omitempty"`
	Franchise []CommissionPosting `json:"franchise,omitempty" bson:"franchise,omitempty"`
}

type Order struct {
	ID          primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	OrderNumber string              `json:"orderNumber" bson:"orderNumber"`
	UserID      primitive.ObjectID  `json:"userId" bson:"userId"`
	Items       []OrderItem         `json:"items" bson:"items"`
	TotalAmount float64             `json:"totalAmount" bson:"totalAmount"`
	TotalPV     float64             `json:"totalPV" bson:"totalPV"`
	Status      string              `json:"status" bson:"status"`
	OrderType   string              `json:"orderType" bson:"orderType"`
	FranchiseID *primitive.ObjectID `json:"franchiseId,omitempty" bson:"franchiseId,omitempty"`
	Commissions OrderCommissions    `json:"commissions" bson:"commissions"`
	CreatedAt   time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt" bson:"updatedAt"`
	DeliveredAt *time.Time          `json:"deliveredAt,omitempty" bson:"deliveredAt,omitempty"`
}

// orderTransitions is the order status state machine. Delivered, cancelled and
// returned are terminal except for delivered → returned.
var orderTransitions = map[string][]string{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusApproved, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusApproved:   {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
	OrderStatusDelivered:  {OrderStatusReturned},
}

// CanTransition reports whether an order may move from its current status to
// the requested one.
func (o *Order) CanTransition(to string) bool {
	for _, next := range orderTransitions[o.Status] {
		if next == to {
			return true
		}
	}
	return false
}

// CreateOrderRequest is the checkout payload.
type CreateOrderRequest struct {
	Items       []OrderItem `json:"items" validate:"required,min=1,dive"`
	OrderType   string      `json:"orderType" validate:"required,oneof=online offline"`
	FranchiseID string      `json:"franchiseId,omitempty"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}
