package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/growcart/growcart_backend/models"
)

func pvOrder(userID primitive.ObjectID, pv float64, status string, createdAt time.Time) *models.Order {
	return &models.Order{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		TotalPV:   pv,
		Status:    status,
		CreatedAt: createdAt,
	}
}

func rankLadder() []models.Rank {
	return []models.Rank{
		{
			ID:    primitive.NewObjectID(),
			Name:  "Starter",
			Level: 1,
		},
		{
			ID:           primitive.NewObjectID(),
			Name:         "Builder",
			Level:        2,
			Requirements: models.RankRequirements{PersonalPV: 100, TeamPV: 300},
			RewardBonus:  500,
		},
		{
			ID:           primitive.NewObjectID(),
			Name:         "Leader",
			Level:        3,
			Requirements: models.RankRequirements{PersonalPV: 100, TeamPV: 300},
		},
	}
}

// referralUser links a user into the descendant-side encoding.
func referralUser(name, code, referredBy string) *models.User {
	return &models.User{
		ID:           primitive.NewObjectID(),
		FullName:     name,
		Role:         models.RoleUser,
		ReferralCode: code,
		ReferredBy:   referredBy,
	}
}

func TestRecomputeLazilyCreatesAtLowestRank(t *testing.T) {
	user := referralUser("root", "USR-AAAAAA", "")
	svc := NewRankService(newFakeUserStore(user), newFakeOrderStore(), newFakeLedger(), &fakeRankCatalog{ranks: rankLadder()}, newFakeUserRankStore())

	userRank, err := svc.RecomputeRankProgress(context.Background(), user.ID)
	require.NoError(t, err)

	require.NotNil(t, userRank.CurrentRank)
	assert.Equal(t, 1, userRank.CurrentRank.Level)
	require.Len(t, userRank.RankHistory, 1)
	assert.Equal(t, "Starter", userRank.RankHistory[0].RankName)
	assert.Zero(t, userRank.Progress.PersonalPV)
	assert.Zero(t, userRank.Progress.TeamPV)
}

func TestAdvanceExactlyOneLevelPerInvocation(t *testing.T) {
	now := time.Now()
	user := referralUser("root", "USR-AAAAAA", "")
	child := referralUser("child", "USR-BBBBBB", user.ReferralCode)

	orders := newFakeOrderStore(
		pvOrder(user.ID, 150, models.OrderStatusDelivered, now),
		pvOrder(child.ID, 200, models.OrderStatusShipped, now),
	)
	ledger := newFakeLedger()
	svc := NewRankService(newFakeUserStore(user, child), orders, ledger, &fakeRankCatalog{ranks: rankLadder()}, newFakeUserRankStore())

	// personalPV 150, teamPV 350: thresholds for both level 2 and level 3
	// are met, but a single call only climbs one level.
	userRank, err := svc.RecomputeRankProgress(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotNil(t, userRank.CurrentRank)
	assert.Equal(t, 2, userRank.CurrentRank.Level)
	assert.InDelta(t, 150.0, userRank.Progress.PersonalPV, 1e-9)
	assert.InDelta(t, 350.0, userRank.Progress.TeamPV, 1e-9)

	// Rank bonus hit the ledger.
	bonuses := ledger.byType(models.EarningTypeRank)
	require.Len(t, bonuses, 1)
	assert.InDelta(t, 500.0, bonuses[0].Amount, 1e-9)

	// The second invocation climbs to level 3.
	userRank, err = svc.RecomputeRankProgress(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, userRank.CurrentRank.Level)

	// History grew once per advancement plus the initial entry.
	assert.Len(t, userRank.RankHistory, 3)
}

func TestExactThresholdsAdvance(t *testing.T) {
	now := time.Now()
	user := referralUser("root", "USR-AAAAAA", "")
	child := referralUser("child", "USR-BBBBBB", user.ReferralCode)

	orders := newFakeOrderStore(
		pvOrder(user.ID, 100, models.OrderStatusProcessing, now),
		pvOrder(child.ID, 200, models.OrderStatusDelivered, now),
	)
	svc := NewRankService(newFakeUserStore(user, child), orders, newFakeLedger(), &fakeRankCatalog{ranks: rankLadder()}, newFakeUserRankStore())

	userRank, err := svc.RecomputeRankProgress(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, userRank.CurrentRank.Level)
}

func TestBelowThresholdDoesNotAdvance(t *testing.T) {
	now := time.Now()
	user := referralUser("root", "USR-AAAAAA", "")

	orders := newFakeOrderStore(pvOrder(user.ID, 99, models.OrderStatusDelivered, now))
	svc := NewRankService(newFakeUserStore(user), orders, newFakeLedger(), &fakeRankCatalog{ranks: rankLadder()}, newFakeUserRankStore())

	userRank, err := svc.RecomputeRankProgress(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, userRank.CurrentRank.Level)
	assert.InDelta(t, 99.0, userRank.Progress.PersonalPV, 1e-9)
}

func TestTeamPVAggregatesWholeSubtree(t *testing.T) {
	now := time.Now()
	root := referralUser("root", "USR-AAAAAA", "")
	child := referralUser("child", "USR-BBBBBB", root.ReferralCode)
	grandchild := referralUser("grandchild", "USR-CCCCCC", child.ReferralCode)

	orders := newFakeOrderStore(
		pvOrder(root.ID, 50, models.OrderStatusDelivered, now),
		pvOrder(child.ID, 30, models.OrderStatusShipped, now),
		pvOrder(grandchild.ID, 20, models.OrderStatusProcessing, now),
	)
	svc := NewRankService(newFakeUserStore(root, child, grandchild), orders, newFakeLedger(), &fakeRankCatalog{ranks: rankLadder()}, newFakeUserRankStore())

	userRank, err := svc.RecomputeRankProgress(context.Background(), root.ID)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, userRank.Progress.PersonalPV, 1e-9)
	assert.InDelta(t, 100.0, userRank.Progress.TeamPV, 1e-9)
}

func TestPVWindowExcludesOldAndNonCountingOrders(t *testing.T) {
	now := time.Now()
	lastMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Add(-time.Hour)

	user := referralUser("root", "USR-AAAAAA", "")
	orders := newFakeOrderStore(
		pvOrder(user.ID, 40, models.OrderStatusDelivered, now),
		pvOrder(user.ID, 100, models.OrderStatusDelivered, lastMonth), // previous month
		pvOrder(user.ID, 100, models.OrderStatusPending, now),         // status does not count
		pvOrder(user.ID, 100, models.OrderStatusCancelled, now),
	)
	svc := NewRankService(newFakeUserStore(user), orders, newFakeLedger(), &fakeRankCatalog{ranks: rankLadder()}, newFakeUserRankStore())

	userRank, err := svc.RecomputeRankProgress(context.Background(), user.ID)
	require.NoError(t, err)
	assert.InDelta(t, 40.0, userRank.Progress.PersonalPV, 1e-9)
}

func TestNoRanksConfiguredReturnsPlaceholder(t *testing.T) {
	user := referralUser("root", "USR-AAAAAA", "")
	svc := NewRankService(newFakeUserStore(user), newFakeOrderStore(), newFakeLedger(), &fakeRankCatalog{}, newFakeUserRankStore())

	userRank, err := svc.RecomputeRankProgress(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Nil(t, userRank.CurrentRank)
	assert.Empty(t, userRank.RankHistory)
}

func TestDownlineCycleDoesNotLoop(t *testing.T) {
	// Corrupt data: two users referring each other.
	a := referralUser("a", "USR-AAAAAA", "USR-BBBBBB")
	b := referralUser("b", "USR-BBBBBB", "USR-AAAAAA")

	svc := NewRankService(newFakeUserStore(a, b), newFakeOrderStore(), newFakeLedger(), &fakeRankCatalog{ranks: rankLadder()}, newFakeUserRankStore())

	_, err := svc.RecomputeRankProgress(context.Background(), a.ID)
	require.NoError(t, err)
}

func TestProgressNonPVFieldsUntouched(t *testing.T) {
	now := time.Now()
	user := referralUser("root", "USR-AAAAAA", "")

	userRanks := newFakeUserRankStore()
	ladder := rankLadder()
	existing := &models.UserRank{
		UserID:      user.ID,
		CurrentRank: &ladder[0],
		Progress: models.RankProgress{
			PersonalPV:      1,
			TeamPV:          1,
			DirectReferrals: 7,
			TeamSize:        40,
			TeamSales:       12345,
		},
	}
	require.NoError(t, userRanks.Save(context.Background(), existing))

	orders := newFakeOrderStore(pvOrder(user.ID, 10, models.OrderStatusDelivered, now))
	svc := NewRankService(newFakeUserStore(user), orders, newFakeLedger(), &fakeRankCatalog{ranks: ladder}, userRanks)

	userRank, err := svc.RecomputeRankProgress(context.Background(), user.ID)
	require.NoError(t, err)

	assert.InDelta(t, 10.0, userRank.Progress.PersonalPV, 1e-9)
	assert.Equal(t, 7, userRank.Progress.DirectReferrals)
	assert.Equal(t, 40, userRank.Progress.TeamSize)
	assert.InDelta(t, 12345.0, userRank.Progress.TeamSales, 1e-9)
}
