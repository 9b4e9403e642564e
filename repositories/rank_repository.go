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

// RankRepository is the ordered rank-catalog lookup.
type RankRepository struct {
	collection *mongo.Collection
}

func NewRankRepository(client *mongo.Client) *RankRepository {
	return &RankRepository{
		collection: config.GetCollection(client, "ranks"),
	}
}

func (r *RankRepository) Insert(ctx context.Context, rank *models.Rank) error {
	rank.CreatedAt = time.Now()
	result, err := r.collection.InsertOne(ctx, rank)
	if err != nil {
		return err
	}
	rank.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *RankRepository) ListOrdered(ctx context.Context) ([]models.Rank, error) {
	opts := options.Find().SetSort(bson.D{{Key: "level", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var ranks []models.Rank
	if err := cursor.All(ctx, &ranks); err != nil {
		return nil, err
	}
	return ranks, nil
}

func (r *RankRepository) FindByLevel(ctx context.Context, level int) (*models.Rank, error) {
	var rank models.Rank
	err := r.collection.FindOne(ctx, bson.M{"level": level}).Decode(&rank)
	if err != nil {
		return nil, err
	}
	return &rank, nil
}

// FindLowest returns the bottom tier of the ladder, used when lazily creating
// a user's rank record.
func (r *RankRepository) FindLowest(ctx context.Context) (*models.Rank, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "level", Value: 1}})
	var rank models.Rank
	err := r.collection.FindOne(ctx, bson.M{}, opts).Decode(&rank)
	if err != nil {
		return nil, err
	}
	return &rank, nil
}

// UserRankRepository stores one progression document per user.
type UserRankRepository struct {
	collection *mongo.Collection
}

func NewUserRankRepository(client *mongo.Client) *UserRankRepository {
	return &UserRankRepository{
		collection: config.GetCollection(client, "userRanks"),
	}
}

func (r *UserRankRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.UserRank, error) {
	var userRank models.UserRank
	err := r.collection.FindOne(ctx, bson.M{"userId": userID}).Decode(&userRank)
	if err != nil {
		return nil, err
	}
	return &userRank, nil
}

// Save upserts the progression document keyed by userId.
func (r *UserRankRepository) Save(ctx context.Context, userRank *models.UserRank) error {
	userRank.UpdatedAt = time.Now()
	opts := options.Replace().SetUpsert(true)
	result, err := r.collection.ReplaceOne(ctx, bson.M{"userId": userRank.UserID}, userRank, opts)
	if err != nil {
		return err
	}
	if result.UpsertedID != nil {
		userRank.ID = result.UpsertedID.(primitive.ObjectID)
	}
	return nil
}
