package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/growcart/growcart_backend/config"
)

// DistributionLockRepository serializes racing writers on a scope id. The
// collection carries a unique index on (scope, type); the losing insert hits
// a duplicate key error. Commission distribution locks on the order id and
// never releases, so the marker doubles as the "already distributed" record.
// Withdrawals lock on the user id and release once the ledger row is written.
type DistributionLockRepository struct {
	collection *mongo.Collection
}

func NewDistributionLockRepository(client *mongo.Client) *DistributionLockRepository {
	return &DistributionLockRepository{
		collection: config.GetCollection(client, "distributionLocks"),
	}
}

// Acquire inserts the (scope, type) marker. It returns false when another
// attempt already holds the lock, and an error only for genuine store
// failures.
func (r *DistributionLockRepository) Acquire(ctx context.Context, scope primitive.ObjectID, kind string) (bool, error) {
	_, err := r.collection.InsertOne(ctx, bson.M{
		"scope":     scope,
		"type":      kind,
		"createdAt": time.Now(),
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Release removes the marker so the scope can be locked again.
func (r *DistributionLockRepository) Release(ctx context.Context, scope primitive.ObjectID, kind string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"scope": scope, "type": kind})
	return err
}
