// Package contact provides the Contact catalog (people attached to companies).
package contact

import (
	"context"
	"strings"

	"assettrack/internal/core/apperror"
	"assettrack/internal/core/entity"
	"assettrack/internal/core/id"
)

// Contact is a person reachable about a company or facility.
type Contact struct {
	entity.Named

	LastName string `db:"last_name" json:"lastName"`

	// PhoneNumber is optional
	PhoneNumber string `db:"phone_number" json:"phoneNumber,omitempty"`

	Email string `db:"email" json:"email"`

	// ParentID optionally references the owning company
	ParentID *id.ID `db:"parent_id" json:"parentId,omitempty"`
}

// New creates a Contact with required fields.
func New(name, lastName, email string) *Contact {
	return &Contact{
		Named:    entity.NewNamed(name),
		LastName: lastName,
		Email:    email,
	}
}

// Validate implements entity.Validatable.
func (c *Contact) Validate(ctx context.Context) error {
	if err := c.Named.Validate(ctx); err != nil {
		return err
	}
	if c.LastName == "" {
		return apperror.NewValidation("last name is required").
			WithDetail("field", "lastName")
	}
	if c.Email == "" {
		return apperror.NewValidation("email is required").
			WithDetail("field", "email")
	}
	if !strings.Contains(c.Email, "@") {
		return apperror.NewValidation("email is malformed").
			WithDetail("field", "email").
			WithDetail("value", c.Email)
	}
	return nil
}
