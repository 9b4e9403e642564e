package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/growcart/growcart_backend/models"
)

// In-memory stores implementing the service interfaces.

type fakeUserStore struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[primitive.ObjectID]*models.User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *u
	return &copied, nil
}

func (s *fakeUserStore) FindByReferralCode(_ context.Context, code string) (*models.User, error) {
	for _, u := range s.users {
		if u.ReferralCode == code {
			copied := *u
			return &copied, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (s *fakeUserStore) FindByReferredBy(_ context.Context, code string) ([]models.User, error) {
	var out []models.User
	for _, u := range s.users {
		if u.ReferredBy == code {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (s *fakeUserStore) FindChildrenByUpline(_ context.Context, uplineID primitive.ObjectID) ([]models.User, error) {
	var out []models.User
	for _, u := range s.users {
		if u.UplineID != nil && *u.UplineID == uplineID {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (s *fakeUserStore) ReassignChildren(_ context.Context, from primitive.ObjectID, to *primitive.ObjectID) error {
	for _, u := range s.users {
		if u.UplineID != nil && *u.UplineID == from {
			u.UplineID = to
		}
	}
	return nil
}

func (s *fakeUserStore) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(s.users, id)
	return nil
}

func (s *fakeUserStore) CountDirectReferrals(_ context.Context, code string) (int64, error) {
	var count int64
	for _, u := range s.users {
		if u.ReferredBy == code {
			count++
		}
	}
	return count, nil
}

type fakeLedger struct {
	earnings   []models.Earning
	failForIDs map[primitive.ObjectID]bool
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{failForIDs: make(map[primitive.ObjectID]bool)}
}

func (l *fakeLedger) Insert(_ context.Context, earning *models.Earning) error {
	if l.failForIDs[earning.UserID] {
		return errors.New("ledger write failed")
	}
	earning.ID = primitive.NewObjectID()
	l.earnings = append(l.earnings, *earning)
	return nil
}

func (l *fakeLedger) ExistsForOrder(_ context.Context, orderID primitive.ObjectID, earningType string) (bool, error) {
	for _, e := range l.earnings {
		if e.OrderID != nil && *e.OrderID == orderID && e.Type == earningType {
			return true, nil
		}
	}
	return false, nil
}

func (l *fakeLedger) Balance(_ context.Context, userID primitive.ObjectID) (float64, error) {
	var total float64
	for _, e := range l.earnings {
		if e.UserID == userID {
			total += e.Amount
		}
	}
	return total, nil
}

func (l *fakeLedger) byType(earningType string) []models.Earning {
	var out []models.Earning
	for _, e := range l.earnings {
		if e.Type == earningType {
			out = append(out, e)
		}
	}
	return out
}

type fakeOrderStore struct {
	orders map[primitive.ObjectID]*models.Order
}

func newFakeOrderStore(orders ...*models.Order) *fakeOrderStore {
	s := &fakeOrderStore{orders: make(map[primitive.ObjectID]*models.Order)}
	for _, o := range orders {
		s.orders[o.ID] = o
	}
	return s
}

func (s *fakeOrderStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *o
	return &copied, nil
}

func (s *fakeOrderStore) AppendCommissionPostings(_ context.Context, id primitive.ObjectID, subLedger string, postings []models.CommissionPosting) error {
	o, ok := s.orders[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	switch subLedger {
	case "self":
		o.Commissions.Self = append(o.Commissions.Self, postings...)
	case "mlm":
		o.Commissions.MLM = append(o.Commissions.MLM, postings...)
	case "franchise":
		o.Commissions.Franchise = append(o.Commissions.Franchise, postings...)
	}
	return nil
}

func (s *fakeOrderStore) FindByUserInWindow(_ context.Context, userID primitive.ObjectID, statuses []string, from, to time.Time) ([]models.Order, error) {
	var out []models.Order
	for _, o := range s.orders {
		if o.UserID != userID {
			continue
		}
		if o.CreatedAt.Before(from) || !o.CreatedAt.Before(to) {
			continue
		}
		for _, st := range statuses {
			if o.Status == st {
				out = append(out, *o)
				break
			}
		}
	}
	return out, nil
}

type fakeFranchiseStore struct {
	franchises map[primitive.ObjectID]*models.Franchise
}

func newFakeFranchiseStore(franchises ...*models.Franchise) *fakeFranchiseStore {
	s := &fakeFranchiseStore{franchises: make(map[primitive.ObjectID]*models.Franchise)}
	for _, f := range franchises {
		s.franchises[f.ID] = f
	}
	return s
}

func (s *fakeFranchiseStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Franchise, error) {
	f, ok := s.franchises[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *f
	return &copied, nil
}

func (s *fakeFranchiseStore) ApplySale(_ context.Context, id primitive.ObjectID, commission, orderTotal float64, orderType string) error {
	f, ok := s.franchises[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	f.TotalCommission += commission
	f.TotalSales.Total += orderTotal
	if orderType == models.OrderTypeOffline {
		f.TotalSales.Offline += orderTotal
	} else {
		f.TotalSales.Online += orderTotal
	}
	return nil
}

type fakeLockStore struct {
	held map[string]bool
}

func newFakeLockStore() *fakeLockStore {
	return &fakeLockStore{held: make(map[string]bool)}
}

func (s *fakeLockStore) Acquire(_ context.Context, scope primitive.ObjectID, kind string) (bool, error) {
	key := scope.Hex() + "/" + kind
	if s.held[key] {
		return false, nil
	}
	s.held[key] = true
	return true, nil
}

func (s *fakeLockStore) Release(_ context.Context, scope primitive.ObjectID, kind string) error {
	delete(s.held, scope.Hex()+"/"+kind)
	return nil
}

type fakeSettingsStore struct {
	settings models.CommissionSettings
}

func (s *fakeSettingsStore) Snapshot(_ context.Context) (models.CommissionSettings, error) {
	return s.settings, nil
}

type fakeRankCatalog struct {
	ranks []models.Rank
}

func (s *fakeRankCatalog) FindByLevel(_ context.Context, level int) (*models.Rank, error) {
	for i := range s.ranks {
		if s.ranks[i].Level == level {
			copied := s.ranks[i]
			return &copied, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (s *fakeRankCatalog) FindLowest(_ context.Context) (*models.Rank, error) {
	if len(s.ranks) == 0 {
		return nil, mongo.ErrNoDocuments
	}
	lowest := s.ranks[0]
	for _, r := range s.ranks[1:] {
		if r.Level < lowest.Level {
			lowest = r
		}
	}
	return &lowest, nil
}

type fakeUserRankStore struct {
	byUser map[primitive.ObjectID]*models.UserRank
}

func newFakeUserRankStore() *fakeUserRankStore {
	return &fakeUserRankStore{byUser: make(map[primitive.ObjectID]*models.UserRank)}
}

func (s *fakeUserRankStore) FindByUser(_ context.Context, userID primitive.ObjectID) (*models.UserRank, error) {
	ur, ok := s.byUser[userID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *ur
	return &copied, nil
}

func (s *fakeUserRankStore) Save(_ context.Context, userRank *models.UserRank) error {
	copied := *userRank
	s.byUser[userRank.UserID] = &copied
	return nil
}
