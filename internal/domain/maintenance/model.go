// Package maintenance records service and preventive-maintenance
// events against commissioned products.
package maintenance

import (
	"context"
	"fmt"
	"time"

	"assettrack/internal/core/apperror"
	"assettrack/internal/core/entity"
	"assettrack/internal/core/id"
)

// Type distinguishes corrective service from scheduled preventive work.
type Type string

const (
	TypeService    Type = "service"
	TypePreventive Type = "preventive-maintenance"
)

// Valid reports whether t is a known maintenance type.
func (t Type) Valid() bool {
	return t == TypeService || t == TypePreventive
}

// Maintenance is one service event tied to exactly one product.
type Maintenance struct {
	entity.Record

	Name string `db:"name" json:"name"`

	Description string `db:"description" json:"description,omitempty"`

	ProductID id.ID `db:"product_id" json:"productId"`

	Type Type `db:"type" json:"type"`

	Date time.Time `db:"date" json:"date"`

	// AttachmentIDs are blob store references
	AttachmentIDs []id.ID `db:"attachment_ids" json:"attachmentIds,omitempty"`
}

// New creates a Maintenance event.
func New(name string, productID id.ID, typ Type, date time.Time) *Maintenance {
	return &Maintenance{
		Record:    entity.NewRecord(),
		Name:      name,
		ProductID: productID,
		Type:      typ,
		Date:      date,
	}
}

// Validate implements entity.Validatable.
func (m *Maintenance) Validate(ctx context.Context) error {
	if m.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if id.IsNil(m.ProductID) {
		return apperror.NewValidation("product is required").
			WithDetail("field", "productId")
	}
	if !m.Type.Valid() {
		return apperror.NewValidation(fmt.Sprintf("unknown maintenance type %q", m.Type)).
			WithDetail("field", "type")
	}
	if m.Date.IsZero() {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}
	return nil
}
