package entity

import (
	"context"

	"assettrack/internal/core/apperror"
	"assettrack/internal/core/id"
)

// Validatable is implemented by entities that support self-validation.
// Validation checks internal invariants (without database access).
type Validatable interface {
	// Validate checks entity invariants.
	// Returns nil if valid, AppError with details otherwise.
	Validate(ctx context.Context) error
}

// Record contains the fields shared by every persisted entity.
//
// Active is the soft-delete flag: records are never physically removed,
// deletion flips Active to false. Version backs optimistic locking and
// is incremented by the repository on every update.
type Record struct {
	// ID is the primary key (UUIDv7)
	ID id.ID `db:"id" json:"id"`

	// Active is false for soft-deleted (or superseded) records
	Active bool `db:"active" json:"active"`

	// Version for optimistic locking (incremented on each update)
	Version int `db:"version" json:"version"`
}

// NewRecord creates a Record with a generated ID, active by default.
func NewRecord() Record {
	return Record{
		ID:      id.New(),
		Active:  true,
		Version: 1,
	}
}

// Base returns the embedded record, giving generic code uniform access
// to ID, Active and Version on any entity.
func (r *Record) Base() *Record {
	return r
}

// Touch increments version (for optimistic locking).
func (r *Record) Touch() {
	r.Version++
}

// Deactivate flips the soft-delete flag.
func (r *Record) Deactivate() {
	r.Active = false
}

// Named extends Record with a display name, the base for simple
// reference catalogs (companies, countries, product types, ...).
type Named struct {
	Record

	// Name is the display name
	Name string `db:"name" json:"name"`
}

// NewNamed creates a Named record with generated ID.
func NewNamed(name string) Named {
	return Named{
		Record: NewRecord(),
		Name:   name,
	}
}

// Validate implements Validatable.
func (n *Named) Validate(ctx context.Context) error {
	if n.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	return nil
}
