package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/fencequote/internal/domain/models"
)

// SettingsStore defines the calculator settings persistence operations.
type SettingsStore interface {
	GetSettings(ctx context.Context, userID string) (models.CalculatorSettings, error)
	SaveSettings(ctx context.Context, s models.CalculatorSettings) error
}

// SettingsRepository implements SettingsStore, one document per user.
type SettingsRepository struct {
	coll *mongo.Collection
}

// GetSettings loads the user's settings or returns models.ErrNotFound.
func (r *SettingsRepository) GetSettings(ctx context.Context, userID string) (models.CalculatorSettings, error) {
	var s models.CalculatorSettings
	err := r.coll.FindOne(ctx, bson.M{"_id": userID}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.CalculatorSettings{}, models.ErrNotFound
	}
	if err != nil {
		return models.CalculatorSettings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	return s, nil
}

// SaveSettings upserts the user's settings.
func (r *SettingsRepository) SaveSettings(ctx context.Context, s models.CalculatorSettings) error {
	opts := options.Replace().SetUpsert(true)
	if _, err := r.coll.ReplaceOne(ctx, bson.M{"_id": s.UserID}, s, opts); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
