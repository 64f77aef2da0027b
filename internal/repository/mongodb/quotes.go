package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/fencequote/internal/domain/models"
)

// QuoteFilter narrows a quote listing. Zero values mean "any".
type QuoteFilter struct {
	Status models.QuoteStatus
	Since  time.Time
	Until  time.Time
	Limit  int64
}

// QuoteStore defines the quote persistence operations.
type QuoteStore interface {
	CreateQuote(ctx context.Context, quote models.Quote) error
	GetQuote(ctx context.Context, userID, id string) (models.Quote, error)
	ListQuotes(ctx context.Context, userID string, filter QuoteFilter) ([]models.Quote, error)
	UpdateQuote(ctx context.Context, quote models.Quote) (models.Quote, error)
}

// QuoteRepository implements QuoteStore on the quotes collection.
type QuoteRepository struct {
	coll *mongo.Collection
}

// CreateQuote inserts a new quote.
func (r *QuoteRepository) CreateQuote(ctx context.Context, quote models.Quote) error {
	if _, err := r.coll.InsertOne(ctx, quote); err != nil {
		return fmt.Errorf("failed to insert quote: %w", err)
	}
	return nil
}

// GetQuote loads one of the user's quotes.
func (r *QuoteRepository) GetQuote(ctx context.Context, userID, id string) (models.Quote, error) {
	var quote models.Quote
	err := r.coll.FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&quote)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Quote{}, models.ErrNotFound
	}
	if err != nil {
		return models.Quote{}, fmt.Errorf("failed to load quote %s: %w", id, err)
	}
	return quote, nil
}

// ListQuotes returns the user's quotes, newest first.
func (r *QuoteRepository) ListQuotes(ctx context.Context, userID string, filter QuoteFilter) ([]models.Quote, error) {
	query := bson.M{"user_id": userID}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	created := bson.M{}
	if !filter.Since.IsZero() {
		created["$gte"] = filter.Since
	}
	if !filter.Until.IsZero() {
		created["$lte"] = filter.Until
	}
	if len(created) > 0 {
		query["created_at"] = created
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(filter.Limit)
	}

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotes: %w", err)
	}
	quotes := []models.Quote{}
	if err := cursor.All(ctx, &quotes); err != nil {
		return nil, fmt.Errorf("failed to decode quotes: %w", err)
	}
	return quotes, nil
}

// UpdateQuote replaces a quote when its stored version still matches, and returns
// the quote with its version bumped.
func (r *QuoteRepository) UpdateQuote(ctx context.Context, quote models.Quote) (models.Quote, error) {
	expected := quote.Version
	quote.Version++

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": quote.ID, "user_id": quote.UserID, "version": expected}, quote)
	if err != nil {
		return models.Quote{}, fmt.Errorf("failed to update quote %s: %w", quote.ID, err)
	}
	if res.MatchedCount == 0 {
		return models.Quote{}, models.ErrConflict
	}
	return quote, nil
}
