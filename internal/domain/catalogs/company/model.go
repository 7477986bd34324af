// Package company provides the Company catalog.
package company

import (
	"context"

	"assettrack/internal/core/apperror"
	"assettrack/internal/core/entity"
	"assettrack/internal/core/id"
)

// Company is an organization the assets belong to or are sourced from.
type Company struct {
	entity.Named

	// CountryID references the country catalog
	CountryID id.ID `db:"country_id" json:"countryId"`

	// Address is the registered address
	Address string `db:"address" json:"address"`
}

// New creates a Company with required fields.
func New(name string, countryID id.ID, address string) *Company {
	return &Company{
		Named:     entity.NewNamed(name),
		CountryID: countryID,
		Address:   address,
	}
}

// Validate implements entity.Validatable.
func (c *Company) Validate(ctx context.Context) error {
	if err := c.Named.Validate(ctx); err != nil {
		return err
	}
	if id.IsNil(c.CountryID) {
		return apperror.NewValidation("country is required").
			WithDetail("field", "countryId")
	}
	if c.Address == "" {
		return apperror.NewValidation("address is required").
			WithDetail("field", "address")
	}
	return nil
}
