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

func newWalletFixture(t *testing.T) (*WalletService, *fakeLedger, *fakeLockStore) {
	t.Helper()
	ledger := newFakeLedger()
	locks := newFakeLockStore()
	return NewWalletService(ledger, locks), ledger, locks
}

func creditLedger(t *testing.T, ledger *fakeLedger, userID primitive.ObjectID, amount float64) {
	t.Helper()
	err := ledger.Insert(context.Background(), &models.Earning{
		UserID: userID,
		Amount: amount,
		Type:   models.EarningTypeMLMLevel,
		Status: models.EarningStatusCompleted,
		Date:   time.Now(),
	})
	require.NoError(t, err)
}

func TestWithdrawalWithinBalance(t *testing.T) {
	svc, ledger, _ := newWalletFixture(t)
	userID := primitive.NewObjectID()
	creditLedger(t, ledger, userID, 100)

	earning, err := svc.RequestWithdrawal(context.Background(), userID, 60)
	require.NoError(t, err)
	assert.Equal(t, -60.0, earning.Amount)
	assert.Equal(t, models.EarningTypeWithdrawal, earning.Type)
	assert.Equal(t, models.EarningStatusPending, earning.Status)

	balance, err := ledger.Balance(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 40.0, balance)
}

func TestWithdrawalExceedingBalanceRejected(t *testing.T) {
	svc, ledger, _ := newWalletFixture(t)
	userID := primitive.NewObjectID()
	creditLedger(t, ledger, userID, 50)

	_, err := svc.RequestWithdrawal(context.Background(), userID, 80)
	assert.Equal(t, ErrInsufficientBalance, err)
	assert.Empty(t, ledger.byType(models.EarningTypeWithdrawal))
}

func TestConcurrentWithdrawalBlockedByLock(t *testing.T) {
	svc, ledger, locks := newWalletFixture(t)
	userID := primitive.NewObjectID()
	creditLedger(t, ledger, userID, 100)

	// A racing request holds the per-user lock between its balance check
	// and its ledger write.
	held, err := locks.Acquire(context.Background(), userID, models.EarningTypeWithdrawal)
	require.NoError(t, err)
	require.True(t, held)

	_, err = svc.RequestWithdrawal(context.Background(), userID, 60)
	assert.Equal(t, ErrWithdrawalInProgress, err)
	assert.Empty(t, ledger.byType(models.EarningTypeWithdrawal))
}

func TestWithdrawalLockReleasedAfterCompletion(t *testing.T) {
	svc, ledger, _ := newWalletFixture(t)
	userID := primitive.NewObjectID()
	creditLedger(t, ledger, userID, 100)

	_, err := svc.RequestWithdrawal(context.Background(), userID, 60)
	require.NoError(t, err)

	// The lock does not outlive the request: a follow-up within the
	// remaining balance succeeds.
	_, err = svc.RequestWithdrawal(context.Background(), userID, 40)
	require.NoError(t, err)

	balance, err := ledger.Balance(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, balance)
}

func TestWithdrawalLockReleasedAfterRejection(t *testing.T) {
	svc, ledger, _ := newWalletFixture(t)
	userID := primitive.NewObjectID()
	creditLedger(t, ledger, userID, 50)

	_, err := svc.RequestWithdrawal(context.Background(), userID, 80)
	require.Equal(t, ErrInsufficientBalance, err)

	_, err = svc.RequestWithdrawal(context.Background(), userID, 30)
	require.NoError(t, err)
}

func TestSequentialWithdrawalsCannotOverdraw(t *testing.T) {
	svc, ledger, _ := newWalletFixture(t)
	userID := primitive.NewObjectID()
	creditLedger(t, ledger, userID, 100)

	_, err := svc.RequestWithdrawal(context.Background(), userID, 70)
	require.NoError(t, err)

	// The second request sees the first one's pending debit.
	_, err = svc.RequestWithdrawal(context.Background(), userID, 70)
	assert.Equal(t, ErrInsufficientBalance, err)

	balance, err := ledger.Balance(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 30.0, balance)
}
