package services

import (
	"context"
	"errors"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/growcart/growcart_backend/models"
)

var (
	// ErrWithdrawalInProgress means another withdrawal for the same user is
	// between its balance check and its ledger write.
	ErrWithdrawalInProgress = errors.New("withdrawal already in progress")
	// ErrInsufficientBalance means the requested amount exceeds the signed
	// sum of the user's ledger.
	ErrInsufficientBalance = errors.New("withdrawal amount exceeds balance")
)

// WalletService posts withdrawals against the earnings ledger.
type WalletService struct {
	earnings LedgerStore
	locks    LockStore
}

func NewWalletService(earnings LedgerStore, locks LockStore) *WalletService {
	return &WalletService{earnings: earnings, locks: locks}
}

// RequestWithdrawal appends a pending negative ledger entry for the user.
// The balance check and the insert run under a per-user lock, so two racing
// requests cannot both pass the check and overdraw the balance.
func (s *WalletService) RequestWithdrawal(ctx context.Context, userID primitive.ObjectID, amount float64) (*models.Earning, error) {
	acquired, err := s.locks.Acquire(ctx, userID, models.EarningTypeWithdrawal)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, ErrWithdrawalInProgress
	}
	defer func() {
		if err := s.locks.Release(ctx, userID, models.EarningTypeWithdrawal); err != nil {
			log.Printf("Failed to release withdrawal lock for user %s: %v", userID.Hex(), err)
		}
	}()

	balance, err := s.earnings.Balance(ctx, userID)
	if err != nil {
		return nil, err
	}
	if amount > balance {
		return nil, ErrInsufficientBalance
	}

	earning := &models.Earning{
		UserID: userID,
		Amount: -amount,
		Type:   models.EarningTypeWithdrawal,
		Status: models.EarningStatusPending,
		Date:   time.Now(),
	}
	if err := s.earnings.Insert(ctx, earning); err != nil {
		return nil, err
	}
	return earning, nil
}
