package estimator

import (
	"errors"
	"fmt"

	"github.com/mamadbah2/fencequote/internal/domain/models"
)

// ErrUnknownFenceType is returned when the coefficient tables have no spec for a fence type.
var ErrUnknownFenceType = errors.New("unknown fence type")

// ErrInvalidVariants is returned when a variant set fails the pre-persistence check.
var ErrInvalidVariants = errors.New("invalid variant set")

// MissingMaterialError reports a required price-list category with no active entry.
type MissingMaterialError struct {
	FenceType models.FenceType
	Category  models.MaterialCategory
}

func (e *MissingMaterialError) Error() string {
	return fmt.Sprintf("no active %q material for fence type %q: add one to the price list", e.Category, e.FenceType)
}

// InvalidInputError reports a structural precondition violated by the job inputs.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &InvalidInputError{Field: field, Reason: reason}
}
