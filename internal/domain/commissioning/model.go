// Package commissioning records pass/fail inspection outcomes for
// products. A passed active commissioning is the gate for putting a
// product into service and for recording maintenance against it.
package commissioning

import (
	"context"
	"fmt"

	"assettrack/internal/core/apperror"
	"assettrack/internal/core/entity"
	"assettrack/internal/core/id"
)

// Outcome is the result of an inspection.
type Outcome string

const (
	OutcomePass Outcome = "pass"
	OutcomeFail Outcome = "fail"
)

// Valid reports whether o is a known outcome.
func (o Outcome) Valid() bool {
	return o == OutcomePass || o == OutcomeFail
}

// Commissioning is one inspection record tied to exactly one product.
// At most one commissioning per product carries Active=true; creating
// a new one deactivates all prior ones.
type Commissioning struct {
	entity.Record

	ProductID id.ID `db:"product_id" json:"productId"`

	Outcome Outcome `db:"outcome" json:"outcome"`

	Details string `db:"details" json:"details,omitempty"`

	// AttachmentIDs are blob store references
	AttachmentIDs []id.ID `db:"attachment_ids" json:"attachmentIds,omitempty"`
}

// New creates a Commissioning for a product.
func New(productID id.ID, outcome Outcome) *Commissioning {
	return &Commissioning{
		Record:    entity.NewRecord(),
		ProductID: productID,
		Outcome:   outcome,
	}
}

// Passed reports whether this is an active, approved commissioning.
func (c *Commissioning) Passed() bool {
	return c.Active && c.Outcome == OutcomePass
}

// Validate implements entity.Validatable.
func (c *Commissioning) Validate(ctx context.Context) error {
	if id.IsNil(c.ProductID) {
		return apperror.NewValidation("product is required").
			WithDetail("field", "productId")
	}
	if !c.Outcome.Valid() {
		return apperror.NewValidation(fmt.Sprintf("unknown outcome %q", c.Outcome)).
			WithDetail("field", "outcome")
	}
	return nil
}
