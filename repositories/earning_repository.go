package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/growcart/growcart_backend/config"
	"github.com/growcart/growcart_backend/models"
)

// EarningRepository is the append-only ledger store.
type EarningRepository struct {
	collection *mongo.Collection
}

func NewEarningRepository(client *mongo.Client) *EarningRepository {
	return &EarningRepository{
		collection: config.GetCollection(client, "earnings"),
	}
}

func (r *EarningRepository) Insert(ctx context.Context, earning *models.Earning) error {
	result, err := r.collection.InsertOne(ctx, earning)
	if err != nil {
		return err
	}
	earning.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

// ExistsForOrder reports whether any earning of the given type has already
// been posted against the order. This is the idempotency gate for
// distribution: each sub-ledger (mlm_level, franchise, self_commission) is
// gated independently.
func (r *EarningRepository) ExistsForOrder(ctx context.Context, orderID primitive.ObjectID, earningType string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{
		"orderId": orderID,
		"type":    earningType,
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *EarningRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Earning, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var earnings []models.Earning
	if err := cursor.All(ctx, &earnings); err != nil {
		return nil, err
	}
	return earnings, nil
}

// Balance sums the signed amounts of all of a user's ledger entries.
func (r *EarningRepository) Balance(ctx context.Context, userID primitive.ObjectID) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"userId": userID}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$amount"},
		}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var result []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &result); err != nil {
		return 0, err
	}
	if len(result) == 0 {
		return 0, nil
	}
	return result[0].Total, nil
}

// UpdateStatus moves a ledger entry between pending and completed. Only
// withdrawal settlement uses it; amounts are never rewritten.
func (r *EarningRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	_, err := r.collection.UpdateByID(ctx, id, bson.M{"$set": bson.M{"status": status}})
	return err
}
