package repositories

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/growcart/growcart_backend/config"
	"github.com/growcart/growcart_backend/models"
)

const settingsCacheKey = "commission:settings"
const settingsCacheTTL = 5 * time.Minute

// SettingsRepository stores the versioned commission rate table. Each save
// appends a new version; Snapshot always returns the latest one so an
// in-flight distribution works against a consistent copy. Reads go through
// Redis when it is available.
type SettingsRepository struct {
	collection *mongo.Collection
	cache      *redis.Client
}

func NewSettingsRepository(client *mongo.Client, cache *redis.Client) *SettingsRepository {
	return &SettingsRepository{
		collection: config.GetCollection(client, "commissionSettings"),
		cache:      cache,
	}
}

// Snapshot returns the current settings, falling back to the built-in default
// rate table when an admin has never saved one.
func (r *SettingsRepository) Snapshot(ctx context.Context) (models.CommissionSettings, error) {
	if r.cache != nil {
		if raw, err := r.cache.Get(ctx, settingsCacheKey).Result(); err == nil {
			var cached models.CommissionSettings
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return cached, nil
			}
		}
	}

	opts := options.FindOne().SetSort(bson.D{{Key: "version", Value: -1}})
	var settings models.CommissionSettings
	err := r.collection.FindOne(ctx, bson.M{}, opts).Decode(&settings)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.DefaultCommissionSettings(), nil
		}
		return models.CommissionSettings{}, err
	}

	r.cacheSettings(ctx, settings)
	return settings, nil
}

// Replace appends a new settings version and invalidates the cache.
func (r *SettingsRepository) Replace(ctx context.Context, levelRates []float64, selfRate *float64, updatedBy primitive.ObjectID) (models.CommissionSettings, error) {
	current, err := r.Snapshot(ctx)
	if err != nil {
		return models.CommissionSettings{}, err
	}

	next := models.CommissionSettings{
		LevelRates: levelRates,
		SelfRate:   current.SelfRate,
		Version:    current.Version + 1,
		UpdatedBy:  updatedBy,
		UpdatedAt:  time.Now(),
	}
	if selfRate != nil {
		next.SelfRate = *selfRate
	}

	result, err := r.collection.InsertOne(ctx, next)
	if err != nil {
		return models.CommissionSettings{}, err
	}
	next.ID = result.InsertedID.(primitive.ObjectID)

	if r.cache != nil {
		if err := r.cache.Del(ctx, settingsCacheKey).Err(); err != nil {
			log.Printf("Failed to invalidate settings cache: %v", err)
		}
	}
	return next, nil
}

func (r *SettingsRepository) cacheSettings(ctx context.Context, settings models.CommissionSettings) {
	if r.cache == nil {
		return
	}
	raw, err := json.Marshal(settings)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, settingsCacheKey, raw, settingsCacheTTL).Err(); err != nil {
		log.Printf("Failed to cache commission settings: %v", err)
	}
}
