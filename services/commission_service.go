package services

import (
	"context"
	"log"
	"time"

	"github.com/growcart/growcart_backend/models"
)

// CommissionService posts the ledger entries an order earns on delivery: the
// multi-level referral commission up the buyer's upline chain, the flat
// franchise commission, and the optional self rebate. Each sub-ledger is
// gated independently, so invoking distribution twice for the same order is
// safe and a partially completed earlier attempt only replays the sub-ledgers
// that never ran.
type CommissionService struct {
	users      UserStore
	orders     OrderStore
	earnings   LedgerStore
	franchises FranchiseStore
	locks      LockStore
	settings   SettingsStore
}

func NewCommissionService(users UserStore, orders OrderStore, earnings LedgerStore, franchises FranchiseStore, locks LockStore, settings SettingsStore) *CommissionService {
	return &CommissionService{
		users:      users,
		orders:     orders,
		earnings:   earnings,
		franchises: franchises,
		locks:      locks,
		settings:   settings,
	}
}

// DistributeOrderCommissions posts the mlm_level earnings for a delivered
// order. Levels 1..5 follow chain position: an admin ancestor consumes its
// level without receiving anything, so that level's commission is forfeited,
// never shifted down the chain. Individual posting failures are logged and
// skipped; they never abort the rest of the distribution.
func (s *CommissionService) DistributeOrderCommissions(ctx context.Context, order *models.Order) error {
	done, err := s.alreadyDistributed(ctx, order, models.EarningTypeMLMLevel)
	if err != nil {
		return err
	}
	if done {
		return nil
	}

	settings, err := s.settings.Snapshot(ctx)
	if err != nil {
		return err
	}

	buyer, err := s.users.FindByID(ctx, order.UserID)
	if err != nil {
		log.Printf("Buyer %s not found for order %s, skipping MLM commission: %v",
			order.UserID.Hex(), order.ID.Hex(), err)
		return nil
	}

	chain := ResolveUpline(ctx, s.users, buyer)

	now := time.Now()
	var postings []models.CommissionPosting
	for _, item := range order.Items {
		itemTotal := item.ProductPrice * float64(item.Quantity)
		for i, ancestor := range chain {
			if i >= len(settings.LevelRates) {
				break
			}
			level := i + 1
			if ancestor.IsAdmin() {
				// Level numbering follows chain position, so the admin's
				// level is consumed and its commission forfeited.
				continue
			}
			amount := itemTotal * settings.LevelRates[i]
			earning := &models.Earning{
				UserID:  ancestor.ID,
				Amount:  amount,
				Type:    models.EarningTypeMLMLevel,
				Level:   level,
				OrderID: &order.ID,
				Status:  models.EarningStatusPending,
				Date:    now,
			}
			if err := s.earnings.Insert(ctx, earning); err != nil {
				log.Printf("Failed to post level %d commission of %.2f to user %s for order %s: %v",
					level, amount, ancestor.ID.Hex(), order.ID.Hex(), err)
				continue
			}
			postings = append(postings, models.CommissionPosting{
				UserID: ancestor.ID,
				Amount: amount,
				Level:  level,
			})
		}
	}

	if err := s.orders.AppendCommissionPostings(ctx, order.ID, "mlm", postings); err != nil {
		log.Printf("Failed to mirror MLM postings onto order %s: %v", order.ID.Hex(), err)
	}
	return nil
}

// DistributeFranchiseCommission posts the flat franchise commission for an
// order tagged with a franchise. It is gated independently from the MLM
// distribution, so a retry can post one sub-ledger while skipping the other.
func (s *CommissionService) DistributeFranchiseCommission(ctx context.Context, order *models.Order) error {
	if order.FranchiseID == nil {
		return nil
	}

	done, err := s.alreadyDistributed(ctx, order, models.EarningTypeFranchise)
	if err != nil {
		return err
	}
	if done {
		return nil
	}

	franchise, err := s.franchises.FindByID(ctx, *order.FranchiseID)
	if err != nil {
		log.Printf("Franchise %s not found for order %s, skipping franchise commission: %v",
			order.FranchiseID.Hex(), order.ID.Hex(), err)
		return nil
	}

	amount := order.TotalAmount * franchise.CommissionPercentage / 100
	earning := &models.Earning{
		UserID:  franchise.OwnerID,
		Amount:  amount,
		Type:    models.EarningTypeFranchise,
		OrderID: &order.ID,
		Status:  models.EarningStatusPending,
		Date:    time.Now(),
	}
	if err := s.earnings.Insert(ctx, earning); err != nil {
		log.Printf("Failed to post franchise commission of %.2f for order %s: %v",
			amount, order.ID.Hex(), err)
		return nil
	}

	if err := s.franchises.ApplySale(ctx, franchise.ID, amount, order.TotalAmount, order.OrderType); err != nil {
		log.Printf("Failed to update franchise %s totals for order %s: %v",
			franchise.ID.Hex(), order.ID.Hex(), err)
	}

	postings := []models.CommissionPosting{{UserID: franchise.OwnerID, Amount: amount}}
	if err := s.orders.AppendCommissionPostings(ctx, order.ID, "franchise", postings); err != nil {
		log.Printf("Failed to mirror franchise posting onto order %s: %v", order.ID.Hex(), err)
	}
	return nil
}

// DistributeSelfCommission posts the buyer's own rebate when a self rate is
// configured. Disabled by default (selfRate 0).
func (s *CommissionService) DistributeSelfCommission(ctx context.Context, order *models.Order) error {
	settings, err := s.settings.Snapshot(ctx)
	if err != nil {
		return err
	}
	if settings.SelfRate <= 0 {
		return nil
	}

	done, err := s.alreadyDistributed(ctx, order, models.EarningTypeSelf)
	if err != nil {
		return err
	}
	if done {
		return nil
	}

	amount := order.TotalAmount * settings.SelfRate
	earning := &models.Earning{
		UserID:  order.UserID,
		Amount:  amount,
		Type:    models.EarningTypeSelf,
		OrderID: &order.ID,
		Status:  models.EarningStatusPending,
		Date:    time.Now(),
	}
	if err := s.earnings.Insert(ctx, earning); err != nil {
		log.Printf("Failed to post self rebate of %.2f for order %s: %v",
			amount, order.ID.Hex(), err)
		return nil
	}

	postings := []models.CommissionPosting{{UserID: order.UserID, Amount: amount}}
	if err := s.orders.AppendCommissionPostings(ctx, order.ID, "self", postings); err != nil {
		log.Printf("Failed to mirror self posting onto order %s: %v", order.ID.Hex(), err)
	}
	return nil
}

// alreadyDistributed runs one sub-ledger's idempotency gate: an existing
// earning of the type, or a lost race for the distribution lock, both mean
// the sub-ledger is already handled. Duplicate attempts are absorbed
// silently, never reported as errors.
func (s *CommissionService) alreadyDistributed(ctx context.Context, order *models.Order, earningType string) (bool, error) {
	exists, err := s.earnings.ExistsForOrder(ctx, order.ID, earningType)
	if err != nil {
		return false, err
	}
	if exists {
		log.Printf("Order %s already has %s earnings, skipping", order.ID.Hex(), earningType)
		return true, nil
	}

	acquired, err := s.locks.Acquire(ctx, order.ID, earningType)
	if err != nil {
		return false, err
	}
	if !acquired {
		log.Printf("Order %s %s distribution already in progress, skipping", order.ID.Hex(), earningType)
		return true, nil
	}
	return false, nil
}
