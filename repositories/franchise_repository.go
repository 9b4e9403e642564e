package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/growcart/growcart_backend/config"
	"github.com/growcart/growcart_backend/models"
)

type FranchiseRepository struct {
	collection *mongo.Collection
}

func NewFranchiseRepository(client *mongo.Client) *FranchiseRepository {
	return &FranchiseRepository{
		collection: config.GetCollection(client, "franchises"),
	}
}

func (r *FranchiseRepository) Insert(ctx context.Context, franchise *models.Franchise) error {
	now := time.Now()
	franchise.CreatedAt = now
	franchise.UpdatedAt = now
	result, err := r.collection.InsertOne(ctx, franchise)
	if err != nil {
		return err
	}
	franchise.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *FranchiseRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Franchise, error) {
	var franchise models.Franchise
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&franchise)
	if err != nil {
		return nil, err
	}
	return &franchise, nil
}

// ApplySale atomically folds one order into the franchise running totals.
func (r *FranchiseRepository) ApplySale(ctx context.Context, id primitive.ObjectID, commission, orderTotal float64, orderType string) error {
	inc := bson.M{
		"totalCommission":  commission,
		"totalSales.total": orderTotal,
	}
	switch orderType {
	case models.OrderTypeOffline:
		inc["totalSales.offline"] = orderTotal
	default:
		inc["totalSales.online"] = orderTotal
	}
	update := bson.M{
		"$inc": inc,
		"$set": bson.M{"updatedAt": time.Now()},
	}
	_, err := r.collection.UpdateByID(ctx, id, update)
	return err
}
