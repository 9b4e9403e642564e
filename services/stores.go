// Package services holds the referral-network engines: commission
// distribution over the upline chain, rank progression over the downline
// subtree, and maintenance of the upline tree itself. Persistence is consumed
// through the store interfaces below, implemented by the Mongo repositories.
package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/growcart/growcart_backend/models"
)

// UserStore is the user directory: point lookups for the upline walk plus
// referredBy queries for descendant enumeration.
type UserStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByReferralCode(ctx context.Context, code string) (*models.User, error)
	FindByReferredBy(ctx context.Context, code string) ([]models.User, error)
	FindChildrenByUpline(ctx context.Context, uplineID primitive.ObjectID) ([]models.User, error)
	ReassignChildren(ctx context.Context, from primitive.ObjectID, to *primitive.ObjectID) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	CountDirectReferrals(ctx context.Context, code string) (int64, error)
}

// LedgerStore is the append-only earnings ledger.
type LedgerStore interface {
	Insert(ctx context.Context, earning *models.Earning) error
	ExistsForOrder(ctx context.Context, orderID primitive.ObjectID, earningType string) (bool, error)
	Balance(ctx context.Context, userID primitive.ObjectID) (float64, error)
}

type OrderStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	AppendCommissionPostings(ctx context.Context, id primitive.ObjectID, subLedger string, postings []models.CommissionPosting) error
	FindByUserInWindow(ctx context.Context, userID primitive.ObjectID, statuses []string, from, to time.Time) ([]models.Order, error)
}

type FranchiseStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Franchise, error)
	ApplySale(ctx context.Context, id primitive.ObjectID, commission, orderTotal float64, orderType string) error
}

// RankCatalog is the ordered rank-ladder lookup.
type RankCatalog interface {
	FindByLevel(ctx context.Context, level int) (*models.Rank, error)
	FindLowest(ctx context.Context) (*models.Rank, error)
}

type UserRankStore interface {
	FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.UserRank, error)
	Save(ctx context.Context, userRank *models.UserRank) error
}

// LockStore serializes racing writers on a scope id: the first Acquire for a
// (scope, type) pair wins. Commission distribution locks on the order id and
// never releases; withdrawals lock on the user id and release when done.
type LockStore interface {
	Acquire(ctx context.Context, scope primitive.ObjectID, kind string) (bool, error)
	Release(ctx context.Context, scope primitive.ObjectID, kind string) error
}

// SettingsStore yields a consistent snapshot of the versioned rate table.
type SettingsStore interface {
	Snapshot(ctx context.Context) (models.CommissionSettings, error)
}
