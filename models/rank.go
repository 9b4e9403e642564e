// models/rank.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RankRequirements are the thresholds a user must meet to hold a rank.
type RankRequirements struct {
	DirectReferrals int     `json:"directReferrals" bson:"directReferrals"`
	TeamSize        int     `json:"teamSize" bson:"teamSize"`
	TeamSales       float64 `json:"teamSales" bson:"teamSales"`
	PersonalPV      float64 `json:"personalPV" bson:"personalPV"`
	TeamPV          float64 `json:"teamPV" bson:"teamPV"`
}

// Rank is one tier of the ordered rank ladder.
type Rank struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name"`
	Level        int                `json:"level" bson:"level"`
	Requirements RankRequirements   `json:"requirements" bson:"requirements"`
	RewardBonus  float64            `json:"rewardBonus" bson:"rewardBonus"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
}

// RankProgress is the snapshot of a user's standing against the next rank.
type RankProgress struct {
	PersonalPV      float64 `json:"personalPV" bson:"personalPV"`
	TeamPV          float64 `json:"teamPV" bson:"teamPV"`
	DirectReferrals int     `json:"directReferrals" bson:"directReferrals"`
	TeamSize        int     `json:"teamSize" bson:"teamSize"`
	TeamSales       float64 `json:"teamSales" bson:"teamSales"`
}

type RankHistoryEntry struct {
	RankID     primitive.ObjectID `json:"rankId" bson:"rankId"`
	RankName   string             `json:"rankName" bson:"rankName"`
	Level      int                `json:"level" bson:"level"`
	AchievedAt time.Time          `json:"achievedAt" bson:"achievedAt"`
}

type Achievement struct {
	RankName string    `json:"rankName" bson:"rankName"`
	Bonus    float64   `json:"bonus" bson:"bonus"`
	Date     time.Time `json:"date" bson:"date"`
}

// UserRank tracks a single user's current rank and progression. One document
// per user; CurrentRank.Level only ever increases.
type UserRank struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID       primitive.ObjectID `json:"userId" bson:"userId"`
	CurrentRank  *Rank              `json:"currentRank,omitempty" bson:"currentRank,omitempty"`
	Progress     RankProgress       `json:"progress" bson:"progress"`
	RankHistory  []RankHistoryEntry `json:"rankHistory,omitempty" bson:"rankHistory,omitempty"`
	Achievements []Achievement      `json:"achievements,omitempty" bson:"achievements,omitempty"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type CreateRankRequest struct {
	Name         string           `json:"name" validate:"required"`
	Level        int              `json:"level" validate:"required,min=1"`
	Requirements RankRequirements `json:"requirements"`
	RewardBonus  float64          `json:"rewardBonus" validate:"gte=0"`
}
