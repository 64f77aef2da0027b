package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	quotesCollection    = "quotes"
	materialsCollection = "materials"
	settingsCollection  = "settings"
)

// Store owns the MongoDB client and hands out the per-collection repositories.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect creates a new MongoDB store and verifies the connection.
func Connect(ctx context.Context, uri string, dbName string) (*Store, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Store{client: client, db: client.Database(dbName)}, nil
}

// EnsureIndexes creates the indexes the list queries rely on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		quotesCollection: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "status", Value: 1}}},
		},
		materialsCollection: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "fence_type", Value: 1}, {Key: "sort_order", Value: 1}}},
		},
	}
	for coll, specs := range indexes {
		if _, err := s.db.Collection(coll).Indexes().CreateMany(ctx, specs); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}
	return nil
}

// Quotes returns the quote repository.
func (s *Store) Quotes() *QuoteRepository {
	return &QuoteRepository{coll: s.db.Collection(quotesCollection)}
}

// Materials returns the price-list repository.
func (s *Store) Materials() *MaterialRepository {
	return &MaterialRepository{coll: s.db.Collection(materialsCollection)}
}

// Settings returns the calculator settings repository.
func (s *Store) Settings() *SettingsRepository {
	return &SettingsRepository{coll: s.db.Collection(settingsCollection)}
}

// Close closes the MongoDB connection.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
