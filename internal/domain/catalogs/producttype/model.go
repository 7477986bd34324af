// Package producttype provides the ProductType reference catalog.
package producttype

import (
	"context"

	"assettrack/internal/core/entity"
)

// ProductType classifies products (analyzer, centrifuge, freezer, ...).
type ProductType struct {
	entity.Named

	Description string `db:"description" json:"description,omitempty"`
}

// New creates a ProductType.
func New(name, description string) *ProductType {
	return &ProductType{
		Named:       entity.NewNamed(name),
		Description: description,
	}
}

// Validate implements entity.Validatable.
func (t *ProductType) Validate(ctx context.Context) error {
	return t.Named.Validate(ctx)
}
