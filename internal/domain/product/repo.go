package product

import (
	"context"
	"time"

	"assettrack/internal/core/id"
	"assettrack/internal/domain"
)

// Repository extends the generic record store with the direct writes
// reserved for derived fields. Status and the schedule dates bypass
// the optimistic-locking update so a status recompute never conflicts
// with the user-facing record version.
type Repository interface {
	domain.RecordStore[*Product]

	// UpdateStatus persists a derived status.
	UpdateStatus(ctx context.Context, productID id.ID, status Status) error

	// UpdateMaintenanceDates persists the schedule band
	// (min, next due, max).
	UpdateMaintenanceDates(ctx context.Context, productID id.ID, min, next, max time.Time) error
}
