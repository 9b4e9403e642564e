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

// UserRepository is the Mongo-backed user directory. It serves both sides of
// the referral network: point lookups for the upline walk and referredBy
// queries for descendant enumeration.
type UserRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(client *mongo.Client) *UserRepository {
	return &UserRepository{
		collection: config.GetCollection(client, "users"),
	}
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByReferralCode(ctx context.Context, code string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"referralCode": code}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByReferredBy returns the users directly referred by the holder of the
// given referral code (the descendant-side child lookup).
func (r *UserRepository) FindByReferredBy(ctx context.Context, code string) ([]models.User, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"referredBy": code})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// FindChildrenByUpline returns the users whose uplineId pointer targets the
// given user (the ancestry-side child lookup, used by tree maintenance).
func (r *UserRepository) FindChildrenByUpline(ctx context.Context, uplineID primitive.ObjectID) ([]models.User, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"uplineId": uplineID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) Insert(ctx context.Context, user *models.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		return err
	}
	user.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

// ReassignChildren re-points every child of `from` to `to`. Used when a node
// is removed from the upline tree and its children are promoted to their
// grandparent.
func (r *UserRepository) ReassignChildren(ctx context.Context, from primitive.ObjectID, to *primitive.ObjectID) error {
	update := bson.M{"$set": bson.M{"uplineId": to, "updatedAt": time.Now()}}
	if to == nil {
		update = bson.M{
			"$unset": bson.M{"uplineId": ""},
			"$set":   bson.M{"updatedAt": time.Now()},
		}
	}
	_, err := r.collection.UpdateMany(ctx, bson.M{"uplineId": from}, update)
	return err
}

func (r *UserRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *UserRepository) CountDirectReferrals(ctx context.Context, code string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"referredBy": code})
}

// FindAdminAnchor returns the designated admin user new registrations fall
// back to when no valid referrer is supplied.
func (r *UserRepository) FindAdminAnchor(ctx context.Context) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"role": models.RoleAdmin}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
