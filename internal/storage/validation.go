package storage

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Veraticus/partflow/internal/model"
)

// Validation errors.
var (
	ErrNilContext       = errors.New("context cannot be nil")
	ErrEmptyString      = errors.New("string parameter cannot be empty")
	ErrInvalidComponent = errors.New("invalid component")
	ErrInvalidFilter    = errors.New("invalid component filter")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateComponent checks the fields the schema depends on. The type is
// left to the table constraint so both backends report it the same way.
func validateComponent(c *model.Component) error {
	if strings.TrimSpace(c.Brand) == "" {
		return fmt.Errorf("%w: brand cannot be empty", ErrInvalidComponent)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: model cannot be empty", ErrInvalidComponent)
	}
	if c.Price < 0 || math.IsNaN(c.Price) || math.IsInf(c.Price, 0) {
		return fmt.Errorf("%w: price %v for %s", ErrInvalidComponent, c.Price, c.Key())
	}
	if c.LastUpdated.IsZero() {
		return fmt.Errorf("%w: last updated not set for %s", ErrInvalidComponent, c.Key())
	}
	return nil
}

func validateComponents(components []model.Component) error {
	for i := range components {
		if err := validateComponent(&components[i]); err != nil {
			return fmt.Errorf("component %d: %w", i, err)
		}
	}
	return nil
}

func validateFilter(f ComponentFilter) error {
	if f.Type != "" && !f.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidFilter, f.Type)
	}
	if f.MinPrice < 0 || f.MaxPrice < 0 {
		return fmt.Errorf("%w: negative price bound", ErrInvalidFilter)
	}
	if f.MaxPrice > 0 && f.MinPrice > f.MaxPrice {
		return fmt.Errorf("%w: min price %.2f above max price %.2f", ErrInvalidFilter, f.MinPrice, f.MaxPrice)
	}
	if f.Limit < 0 {
		return fmt.Errorf("%w: negative limit", ErrInvalidFilter)
	}
	return nil
}
