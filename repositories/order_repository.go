package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/growcart/growcart_backend/config"
	"github.com/growcart/growcart_backend/models"
)

type OrderRepository struct {
	collection *mongo.Collection
}

func NewOrderRepository(client *mongo.Client) *OrderRepository {
	return &OrderRepository{
		collection: config.GetCollection(client, "orders"),
	}
}

func (r *OrderRepository) Insert(ctx context.Context, order *models.Order) error {
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now
	result, err := r.collection.InsertOne(ctx, order)
	if err != nil {
		return err
	}
	order.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string, deliveredAt *time.Time) error {
	set := bson.M{"status": status, "updatedAt": time.Now()}
	if deliveredAt != nil {
		set["deliveredAt"] = deliveredAt
	}
	_, err := r.collection.UpdateByID(ctx, id, bson.M{"$set": set})
	return err
}

// AppendCommissionPostings pushes ledger mirrors into one of the order's
// commission sub-caches ("self", "mlm" or "franchise").
func (r *OrderRepository) AppendCommissionPostings(ctx context.Context, id primitive.ObjectID, subLedger string, postings []models.CommissionPosting) error {
	if len(postings) == 0 {
		return nil
	}
	update := bson.M{
		"$push": bson.M{"commissions." + subLedger: bson.M{"$each": postings}},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	_, err := r.collection.UpdateByID(ctx, id, update)
	return err
}

// FindByUserInWindow returns a user's orders created inside [from, to) whose
// status is one of the given set. The rank engine uses it to compute PV over
// the current calendar month.
func (r *OrderRepository) FindByUserInWindow(ctx context.Context, userID primitive.ObjectID, statuses []string, from, to time.Time) ([]models.Order, error) {
	filter := bson.M{
		"userId":    userID,
		"status":    bson.M{"$in": statuses},
		"createdAt": bson.M{"$gte": from, "$lt": to},
	}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}
