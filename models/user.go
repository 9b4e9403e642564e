// models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles
const (
	RoleUser        = "user"
	RoleDistributor = "distributor"
	RoleFranchise   = "franchise"
	RoleAdmin       = "admin"
)

// User model. The referral network is encoded twice: UplineID/ReferralChain
// drive the ancestor walk for commission, ReferralCode/ReferredBy drive the
// descendant walk for team aggregation. ReferralChain is a snapshot taken at
// registration, not a live view.
type User struct {
	ID            primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Email         string               `json:"email" bson:"email"`
	Password      string               `json:"password,omitempty" bson:"password"`
	FullName      string               `json:"fullName" bson:"fullName"`
	Phone         string               `json:"phone,omitempty" bson:"phone,omitempty"`
	Role          string               `json:"role" bson:"role"`
	UplineID      *primitive.ObjectID  `json:"uplineId,omitempty" bson:"uplineId,omitempty"`
	ReferralChain []primitive.ObjectID `json:"referralChain,omitempty" bson:"referralChain,omitempty"`
	ReferralCode  string               `json:"referralCode,omitempty" bson:"referralCode,omitempty"`
	ReferredBy    string               `json:"referredBy,omitempty" bson:"referredBy,omitempty"`
	IsActive      bool                 `json:"isActive" bson:"isActive"`
	CreatedAt     time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// IsAdmin reports whether the user is excluded from receiving commission.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// RegisterRequest is the signup payload. ReferralCode is the code of the
// referring user; empty means the new user hangs off the admin anchor.
type RegisterRequest struct {
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8"`
	FullName     string `json:"fullName" validate:"required"`
	Phone        string `json:"phone,omitempty"`
	ReferralCode string `json:"referralCode,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ReferralData is returned to a user asking about their own referral standing.
type ReferralData struct {
	ReferralCode string `json:"referralCode"`
	ReferralLink string `json:"referralLink"`
	DirectCount  int    `json:"directCount"`
	TeamSize     int    `json:"teamSize"`
}

// Response is the shared API envelope.
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
