package quotes

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/fencequote/internal/domain/models"
	"github.com/mamadbah2/fencequote/internal/estimator"
	"github.com/mamadbah2/fencequote/internal/repository/mongodb"
	"github.com/mamadbah2/fencequote/internal/validation"
)

// ErrCustomItemNotFound is returned when a quote has no custom item with the given id.
var ErrCustomItemNotFound = errors.New("custom item not found")

// Catalog supplies the per-user pricing inputs.
type Catalog interface {
	Settings(ctx context.Context, userID string) (models.CalculatorSettings, error)
	ActiveMaterials(ctx context.Context, userID string, fenceType models.FenceType) ([]models.MaterialRecord, error)
}

// Ledger records quote events outside the primary store.
type Ledger interface {
	RecordQuote(ctx context.Context, quote models.Quote) error
}

// Preview is an unsaved estimate plus soft warnings about the inputs.
type Preview struct {
	Inputs   models.QuoteInputs    `json:"inputs"`
	Takeoff  estimator.Takeoff     `json:"takeoff"`
	Variants []models.QuoteVariant `json:"variants"`
	Warnings []string              `json:"warnings,omitempty"`
}

// Service orchestrates pricing and the quote lifecycle.
type Service struct {
	engine    *estimator.Engine
	quotes    mongodb.QuoteStore
	catalog   Catalog
	ledger    Ledger
	validator *validation.Validator
	logger    *zap.Logger
	now       func() time.Time
	newID     func() string
}

// NewService wires a new quote service instance. ledger may be nil.
func NewService(engine *estimator.Engine, quotes mongodb.QuoteStore, catalog Catalog, ledger Ledger, validator *validation.Validator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		engine:    engine,
		quotes:    quotes,
		catalog:   catalog,
		ledger:    ledger,
		validator: validator,
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Estimate prices the inputs without persisting anything.
func (s *Service) Estimate(ctx context.Context, userID string, form validation.QuoteInputsForm) (Preview, error) {
	if err := s.check(&form); err != nil {
		return Preview{}, err
	}
	in := form.Inputs()
	est, err := s.price(ctx, userID, in)
	if err != nil {
		return Preview{}, err
	}
	return Preview{
		Inputs:   in,
		Takeoff:  est.Takeoff,
		Variants: est.Variants,
		Warnings: s.warnings(in),
	}, nil
}

// CreateQuote validates the client and inputs, prices the job and stores a draft
// with the standard variant selected.
func (s *Service) CreateQuote(ctx context.Context, userID string, form validation.NewQuoteForm) (models.Quote, error) {
	if err := s.check(&form); err != nil {
		return models.Quote{}, err
	}
	in := form.Inputs.Inputs()
	est, err := s.price(ctx, userID, in)
	if err != nil {
		return models.Quote{}, err
	}

	now := s.now().UTC()
	quote := models.Quote{
		ID:              s.newID(),
		UserID:          userID,
		Client:          form.Client.Client(),
		Inputs:          in,
		Variants:        est.Variants,
		SelectedVariant: models.VariantStandard,
		CustomItems:     []models.CustomItem{},
		Status:          models.QuoteDraft,
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	quote.SyncSelectedTotals()

	if err := estimator.Verify(quote.Variants); err != nil {
		return models.Quote{}, err
	}
	if err := s.quotes.CreateQuote(ctx, quote); err != nil {
		return models.Quote{}, err
	}

	s.logger.Info("quote created",
		zap.String("user_id", userID),
		zap.String("quote_id", quote.ID),
		zap.String("fence_type", string(in.FenceType)),
		zap.Int64("total_cents", int64(quote.Total)))
	s.record(ctx, quote)
	return quote, nil
}

// GetQuote returns one of the user's quotes.
func (s *Service) GetQuote(ctx context.Context, userID, id string) (models.Quote, error) {
	return s.quotes.GetQuote(ctx, userID, id)
}

// ListQuotes returns the user's quotes, newest first.
func (s *Service) ListQuotes(ctx context.Context, userID string, filter mongodb.QuoteFilter) ([]models.Quote, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, &validation.Error{Fields: map[string]string{"status": "status must be one of draft, sent, accepted, declined"}}
	}
	return s.quotes.ListQuotes(ctx, userID, filter)
}

// SelectVariant changes which variant is presented to the client.
func (s *Service) SelectVariant(ctx context.Context, userID, id string, form validation.SelectionForm) (models.Quote, error) {
	if err := s.check(&form); err != nil {
		return models.Quote{}, err
	}
	return s.modify(ctx, userID, id, func(q *models.Quote) error {
		q.SelectedVariant = models.VariantType(form.Variant)
		return nil
	})
}

// UpdateStatus moves the quote through the pipeline.
func (s *Service) UpdateStatus(ctx context.Context, userID, id string, form validation.StatusForm) (models.Quote, error) {
	if err := s.check(&form); err != nil {
		return models.Quote{}, err
	}
	quote, err := s.modify(ctx, userID, id, func(q *models.Quote) error {
		q.Status = models.QuoteStatus(form.Status)
		return nil
	})
	if err != nil {
		return models.Quote{}, err
	}
	s.logger.Info("quote status changed",
		zap.String("quote_id", quote.ID),
		zap.String("status", string(quote.Status)))
	s.record(ctx, quote)
	return quote, nil
}

// MarkSent moves a draft to sent once it has been delivered. Quotes already past
// draft are returned unchanged.
func (s *Service) MarkSent(ctx context.Context, userID, id string) (models.Quote, error) {
	return s.modify(ctx, userID, id, func(q *models.Quote) error {
		if q.Status == models.QuoteDraft {
			q.Status = models.QuoteSent
		}
		return nil
	})
}

// AddCustomItem adds a manual line to the quote and folds it into every variant.
func (s *Service) AddCustomItem(ctx context.Context, userID, id string, form validation.CustomItemForm) (models.Quote, error) {
	if err := s.check(&form); err != nil {
		return models.Quote{}, err
	}
	name, qty, price := form.Values()
	item := estimator.NewCustomItem(name, qty, price)
	item.ID = s.newID()

	return s.modify(ctx, userID, id, func(q *models.Quote) error {
		q.CustomItems = append(q.CustomItems, item)
		for i, v := range q.Variants {
			q.Variants[i] = estimator.AddCustomItem(v, item)
		}
		return nil
	})
}

// RemoveCustomItem drops a manual line and recomputes every variant.
func (s *Service) RemoveCustomItem(ctx context.Context, userID, id, itemID string) (models.Quote, error) {
	return s.modify(ctx, userID, id, func(q *models.Quote) error {
		idx := slices.IndexFunc(q.CustomItems, func(c models.CustomItem) bool { return c.ID == itemID })
		if idx < 0 {
			return ErrCustomItemNotFound
		}
		q.CustomItems = slices.Delete(q.CustomItems, idx, idx+1)
		for i, v := range q.Variants {
			q.Variants[i] = estimator.RemoveCustomItem(v, q.CustomItems)
		}
		return nil
	})
}

// modify loads a quote, applies fn and stores it under the version check.
func (s *Service) modify(ctx context.Context, userID, id string, fn func(q *models.Quote) error) (models.Quote, error) {
	quote, err := s.quotes.GetQuote(ctx, userID, id)
	if err != nil {
		return models.Quote{}, err
	}
	quote.Variants = slices.Clone(quote.Variants)
	quote.CustomItems = slices.Clone(quote.CustomItems)
	if err := fn(&quote); err != nil {
		return models.Quote{}, err
	}
	quote.SyncSelectedTotals()
	quote.UpdatedAt = s.now().UTC()

	if err := estimator.Verify(quote.Variants); err != nil {
		s.logger.Error("refusing to persist quote", zap.String("quote_id", id), zap.Error(err))
		return models.Quote{}, err
	}
	updated, err := s.quotes.UpdateQuote(ctx, quote)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			s.logger.Warn("quote modified concurrently", zap.String("quote_id", id))
		}
		return models.Quote{}, err
	}
	return updated, nil
}

func (s *Service) price(ctx context.Context, userID string, in models.QuoteInputs) (estimator.Estimate, error) {
	settings, err := s.catalog.Settings(ctx, userID)
	if err != nil {
		return estimator.Estimate{}, err
	}
	materials, err := s.catalog.ActiveMaterials(ctx, userID, in.FenceType)
	if err != nil {
		return estimator.Estimate{}, err
	}
	est, err := s.engine.Price(in, materials, settings)
	if err != nil {
		return estimator.Estimate{}, err
	}
	if err := estimator.Verify(est.Variants); err != nil {
		return estimator.Estimate{}, err
	}
	return est, nil
}

// warnings flags inputs the engine accepts but a contractor would double-check.
func (s *Service) warnings(in models.QuoteInputs) []string {
	spec, err := s.engine.Tables().Spec(in.FenceType)
	if err != nil {
		return nil
	}
	var out []string
	if len(spec.AvailableHeights) > 0 && !slices.Contains(spec.AvailableHeights, in.Height) {
		out = append(out, fmt.Sprintf("%s is not usually built at %gft (available: %v)", spec.Label, in.Height, spec.AvailableHeights))
	}
	return out
}

func (s *Service) record(ctx context.Context, quote models.Quote) {
	if s.ledger == nil {
		return
	}
	if err := s.ledger.RecordQuote(ctx, quote); err != nil {
		s.logger.Warn("failed to record quote in ledger",
			zap.String("quote_id", quote.ID),
			zap.Error(err))
	}
}

func (s *Service) check(form any) error {
	res, err := s.validator.Check(form)
	if err != nil {
		return err
	}
	return res.Err()
}
