// models/network.go
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// NetworkNode is one user in the descendant-tree visualization.
type NetworkNode struct {
	UserID       primitive.ObjectID `json:"userId"`
	FullName     string             `json:"fullName"`
	ReferralCode string             `json:"referralCode,omitempty"`
	Role         string             `json:"role"`
	Children     []*NetworkNode     `json:"children,omitempty"`
}

// TeamStats summarizes a user's downline for dashboards.
type TeamStats struct {
	DirectReferrals int64 `json:"directReferrals"`
	TeamSize        int   `json:"teamSize"`
}
