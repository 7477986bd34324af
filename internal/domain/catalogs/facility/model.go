// Package facility provides the Facility and Room catalogs.
// A facility is a physical site; rooms subdivide it and are the
// placement targets for products.
package facility

import (
	"context"

	"assettrack/internal/core/apperror"
	"assettrack/internal/core/entity"
	"assettrack/internal/core/id"
)

// Facility is a physical site holding rooms.
type Facility struct {
	entity.Named

	// MainContactID references the contact catalog
	MainContactID *id.ID `db:"main_contact_id" json:"mainContactId,omitempty"`

	// RoomIDs lists the rooms belonging to this facility
	RoomIDs []id.ID `db:"room_ids" json:"roomIds"`
}

// New creates a Facility with required fields.
func New(name string) *Facility {
	return &Facility{
		Named:   entity.NewNamed(name),
		RoomIDs: []id.ID{},
	}
}

// Validate implements entity.Validatable.
func (f *Facility) Validate(ctx context.Context) error {
	return f.Named.Validate(ctx)
}

// Room is a location inside a facility where products are placed.
type Room struct {
	entity.Named

	// Code is a short human-assigned identifier (door number, rack label)
	Code string `db:"code" json:"code"`

	Address string `db:"address" json:"address"`
}

// NewRoom creates a Room with required fields.
func NewRoom(name, code string) *Room {
	return &Room{
		Named: entity.NewNamed(name),
		Code:  code,
	}
}

// Validate implements entity.Validatable.
func (r *Room) Validate(ctx context.Context) error {
	if err := r.Named.Validate(ctx); err != nil {
		return err
	}
	if r.Code == "" {
		return apperror.NewValidation("code is required").
			WithDetail("field", "code")
	}
	return nil
}
