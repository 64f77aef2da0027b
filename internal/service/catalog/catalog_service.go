package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/fencequote/internal/domain/models"
	"github.com/mamadbah2/fencequote/internal/repository/mongodb"
	"github.com/mamadbah2/fencequote/internal/validation"
)

// Service manages a user's price list and calculator settings.
type Service struct {
	materials mongodb.MaterialStore
	settings  mongodb.SettingsStore
	validator *validation.Validator
	logger    *zap.Logger
	now       func() time.Time
}

// NewService wires a new catalog service instance.
func NewService(materials mongodb.MaterialStore, settings mongodb.SettingsStore, validator *validation.Validator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		materials: materials,
		settings:  settings,
		validator: validator,
		logger:    logger,
		now:       time.Now,
	}
}

// Settings returns the user's calculator settings, or the defaults when none
// were saved yet.
func (s *Service) Settings(ctx context.Context, userID string) (models.CalculatorSettings, error) {
	settings, err := s.settings.GetSettings(ctx, userID)
	if errors.Is(err, models.ErrNotFound) {
		s.logger.Debug("using default settings", zap.String("user_id", userID))
		return models.DefaultSettings(userID), nil
	}
	if err != nil {
		return models.CalculatorSettings{}, fmt.Errorf("load settings: %w", err)
	}
	return settings, nil
}

// UpdateSettings validates and stores new rates. Existing quotes keep the rates
// they were priced with.
func (s *Service) UpdateSettings(ctx context.Context, userID string, form validation.SettingsForm) (models.CalculatorSettings, error) {
	if err := s.check(&form); err != nil {
		return models.CalculatorSettings{}, err
	}
	settings := form.Settings(userID)
	settings.UpdatedAt = s.now().UTC()
	if err := s.settings.SaveSettings(ctx, settings); err != nil {
		return models.CalculatorSettings{}, err
	}
	s.logger.Info("settings updated",
		zap.String("user_id", userID),
		zap.Int64("hourly_rate_cents", int64(settings.HourlyRate)),
		zap.Float64("markup", settings.DefaultMarkupPercent),
		zap.Float64("tax", settings.TaxPercent))
	return settings, nil
}

// Materials lists the user's price list, optionally for one fence type.
func (s *Service) Materials(ctx context.Context, userID string, fenceType models.FenceType) ([]models.MaterialRecord, error) {
	if fenceType != "" && !fenceType.Valid() {
		return nil, &validation.Error{Fields: map[string]string{"fence_type": "fence_type is not a supported fence type"}}
	}
	return s.materials.ListMaterials(ctx, userID, fenceType, false)
}

// ActiveMaterials returns the entries the estimator may price with.
func (s *Service) ActiveMaterials(ctx context.Context, userID string, fenceType models.FenceType) ([]models.MaterialRecord, error) {
	materials, err := s.materials.ListMaterials(ctx, userID, fenceType, true)
	if err != nil {
		return nil, fmt.Errorf("load materials: %w", err)
	}
	return materials, nil
}

// CreateMaterial adds a price-list entry.
func (s *Service) CreateMaterial(ctx context.Context, userID string, form validation.MaterialForm) (models.MaterialRecord, error) {
	if err := s.check(&form); err != nil {
		return models.MaterialRecord{}, err
	}
	m := form.Material()
	m.ID = uuid.NewString()
	m.UserID = userID
	m.CreatedAt = s.now().UTC()
	m.UpdatedAt = m.CreatedAt
	if err := s.materials.CreateMaterial(ctx, m); err != nil {
		return models.MaterialRecord{}, err
	}
	s.logger.Info("material created", zap.String("user_id", userID), zap.String("material_id", m.ID), zap.String("category", string(m.Category)))
	return m, nil
}

// UpdateMaterial replaces a price-list entry.
func (s *Service) UpdateMaterial(ctx context.Context, userID, id string, form validation.MaterialForm) (models.MaterialRecord, error) {
	if err := s.check(&form); err != nil {
		return models.MaterialRecord{}, err
	}
	existing, err := s.materials.GetMaterial(ctx, userID, id)
	if err != nil {
		return models.MaterialRecord{}, err
	}
	m := form.Material()
	m.ID = existing.ID
	m.UserID = existing.UserID
	m.CreatedAt = existing.CreatedAt
	m.UpdatedAt = s.now().UTC()
	if err := s.materials.UpdateMaterial(ctx, m); err != nil {
		return models.MaterialRecord{}, err
	}
	return m, nil
}

func (s *Service) check(form any) error {
	res, err := s.validator.Check(form)
	if err != nil {
		return err
	}
	return res.Err()
}
