package services

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/growcart/growcart_backend/models"
)

// pvStatuses are the order statuses that count toward point value.
var pvStatuses = []string{
	models.OrderStatusProcessing,
	models.OrderStatusShipped,
	models.OrderStatusDelivered,
}

// RankService recomputes a user's rank progress on demand. It is pull-based:
// nothing pushes rank updates when orders change; callers (dashboard, cron)
// invoke RecomputeRankProgress explicitly.
type RankService struct {
	users     UserStore
	orders    OrderStore
	earnings  LedgerStore
	ranks     RankCatalog
	userRanks UserRankStore
}

func NewRankService(users UserStore, orders OrderStore, earnings LedgerStore, ranks RankCatalog, userRanks UserRankStore) *RankService {
	return &RankService{
		users:     users,
		orders:    orders,
		earnings:  earnings,
		ranks:     ranks,
		userRanks: userRanks,
	}
}

// RecomputeRankProgress refreshes a user's personal and team PV over the
// current calendar month and advances the rank by at most one level when the
// next tier's PV thresholds are met. A user qualifying for several tiers at
// once still climbs one level per invocation.
func (s *RankService) RecomputeRankProgress(ctx context.Context, userID primitive.ObjectID) (*models.UserRank, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	personalPV, err := s.personalPV(ctx, user.ID, from, now)
	if err != nil {
		return nil, err
	}
	teamPV := personalPV + s.downlinePV(ctx, user, from, now)

	userRank, err := s.loadOrCreateUserRank(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	currentLevel := 0
	if userRank.CurrentRank != nil {
		currentLevel = userRank.CurrentRank.Level
	}

	next, err := s.ranks.FindByLevel(ctx, currentLevel+1)
	if err == nil && personalPV >= next.Requirements.PersonalPV && teamPV >= next.Requirements.TeamPV {
		s.advance(ctx, userRank, next, now)
	} else if err != nil && err != mongo.ErrNoDocuments {
		log.Printf("Rank lookup for level %d failed: %v", currentLevel+1, err)
	}

	// Only the PV fields of the progress snapshot are recomputed here; the
	// remaining counters are maintained by their own queries.
	userRank.Progress.PersonalPV = personalPV
	userRank.Progress.TeamPV = teamPV

	if err := s.userRanks.Save(ctx, userRank); err != nil {
		return nil, err
	}
	return userRank, nil
}

// personalPV sums order PV for one user over [from, to).
func (s *RankService) personalPV(ctx context.Context, userID primitive.ObjectID, from, to time.Time) (float64, error) {
	orders, err := s.orders.FindByUserInWindow(ctx, userID, pvStatuses, from, to)
	if err != nil {
		return 0, err
	}
	var total float64
	for _, order := range orders {
		total += order.TotalPV
	}
	return total, nil
}

// downlinePV walks the full referredBy subtree iteratively (explicit queue
// plus a visited set, so corrupt data cannot recurse forever) and sums each
// descendant's personal PV. Per-descendant failures are logged and skipped.
func (s *RankService) downlinePV(ctx context.Context, root *models.User, from, to time.Time) float64 {
	if root.ReferralCode == "" {
		return 0
	}

	var total float64
	visited := map[string]bool{root.ID.Hex(): true}
	queue := []string{root.ReferralCode}

	for len(queue) > 0 {
		code := queue[0]
		queue = queue[1:]

		children, err := s.users.FindByReferredBy(ctx, code)
		if err != nil {
			log.Printf("Downline lookup for code %s failed: %v", code, err)
			continue
		}
		for _, child := range children {
			if visited[child.ID.Hex()] {
				continue
			}
			visited[child.ID.Hex()] = true

			pv, err := s.personalPV(ctx, child.ID, from, to)
			if err != nil {
				log.Printf("Personal PV for user %s failed: %v", child.ID.Hex(), err)
			} else {
				total += pv
			}
			if child.ReferralCode != "" {
				queue = append(queue, child.ReferralCode)
			}
		}
	}
	return total
}

// loadOrCreateUserRank lazily initializes the progression document at the
// lowest rank. With no ranks configured at all it returns a null-rank
// placeholder instead of erroring.
func (s *RankService) loadOrCreateUserRank(ctx context.Context, userID primitive.ObjectID, now time.Time) (*models.UserRank, error) {
	userRank, err := s.userRanks.FindByUser(ctx, userID)
	if err == nil {
		return userRank, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	userRank = &models.UserRank{UserID: userID}

	lowest, err := s.ranks.FindLowest(ctx)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return userRank, nil
		}
		return nil, err
	}

	userRank.CurrentRank = lowest
	userRank.RankHistory = []models.RankHistoryEntry{{
		RankID:     lowest.ID,
		RankName:   lowest.Name,
		Level:      lowest.Level,
		AchievedAt: now,
	}}
	return userRank, nil
}

// advance moves the user to the next rank, records history and achievement,
// and posts the rank bonus to the ledger when one is configured.
func (s *RankService) advance(ctx context.Context, userRank *models.UserRank, next *models.Rank, now time.Time) {
	userRank.CurrentRank = next
	userRank.RankHistory = append(userRank.RankHistory, models.RankHistoryEntry{
		RankID:     next.ID,
		RankName:   next.Name,
		Level:      next.Level,
		AchievedAt: now,
	})
	userRank.Achievements = append(userRank.Achievements, models.Achievement{
		RankName: next.Name,
		Bonus:    next.RewardBonus,
		Date:     now,
	})

	if next.RewardBonus > 0 {
		earning := &models.Earning{
			UserID: userRank.UserID,
			Amount: next.RewardBonus,
			Type:   models.EarningTypeRank,
			Status: models.EarningStatusPending,
			Date:   now,
		}
		if err := s.earnings.Insert(ctx, earning); err != nil {
			log.Printf("Failed to post rank bonus of %.2f to user %s: %v",
				next.RewardBonus, userRank.UserID.Hex(), err)
		}
	}
}
