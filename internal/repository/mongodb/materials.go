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

// MaterialStore defines the price-list persistence operations.
type MaterialStore interface {
	ListMaterials(ctx context.Context, userID string, fenceType models.FenceType, activeOnly bool) ([]models.MaterialRecord, error)
	GetMaterial(ctx context.Context, userID, id string) (models.MaterialRecord, error)
	CreateMaterial(ctx context.Context, m models.MaterialRecord) error
	UpdateMaterial(ctx context.Context, m models.MaterialRecord) error
}

// MaterialRepository implements MaterialStore on the materials collection.
type MaterialRepository struct {
	coll *mongo.Collection
}

// ListMaterials returns the user's price list in sort order. An empty fence type
// lists every fence type.
func (r *MaterialRepository) ListMaterials(ctx context.Context, userID string, fenceType models.FenceType, activeOnly bool) ([]models.MaterialRecord, error) {
	query := bson.M{"user_id": userID}
	if fenceType != "" {
		query["fence_type"] = fenceType
	}
	if activeOnly {
		query["is_active"] = true
	}

	opts := options.Find().SetSort(bson.D{{Key: "fence_type", Value: 1}, {Key: "sort_order", Value: 1}, {Key: "name", Value: 1}})
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list materials: %w", err)
	}
	materials := []models.MaterialRecord{}
	if err := cursor.All(ctx, &materials); err != nil {
		return nil, fmt.Errorf("failed to decode materials: %w", err)
	}
	return materials, nil
}

// GetMaterial loads one price-list entry.
func (r *MaterialRepository) GetMaterial(ctx context.Context, userID, id string) (models.MaterialRecord, error) {
	var m models.MaterialRecord
	err := r.coll.FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.MaterialRecord{}, models.ErrNotFound
	}
	if err != nil {
		return models.MaterialRecord{}, fmt.Errorf("failed to load material %s: %w", id, err)
	}
	return m, nil
}

// CreateMaterial inserts a price-list entry.
func (r *MaterialRepository) CreateMaterial(ctx context.Context, m models.MaterialRecord) error {
	if _, err := r.coll.InsertOne(ctx, m); err != nil {
		return fmt.Errorf("failed to insert material: %w", err)
	}
	return nil
}

// UpdateMaterial replaces a price-list entry.
func (r *MaterialRepository) UpdateMaterial(ctx context.Context, m models.MaterialRecord) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": m.ID, "user_id": m.UserID}, m)
	if err != nil {
		return fmt.Errorf("failed to update material %s: %w", m.ID, err)
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}
