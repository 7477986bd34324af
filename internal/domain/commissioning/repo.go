package commissioning

import (
	"context"

	"assettrack/internal/core/id"
	"assettrack/internal/domain"
)

// Repository extends the generic record store with the read-side
// queries the lifecycle rules need.
type Repository interface {
	domain.RecordStore[*Commissioning]

	// FindActiveByProduct returns the product's active commissioning,
	// nil when there is none. When historical data holds more than one
	// active row the latest one wins.
	FindActiveByProduct(ctx context.Context, productID id.ID) (*Commissioning, error)

	// DeactivateAllForProduct flips active=false on every commissioning
	// of the product. Returns the number of rows deactivated.
	DeactivateAllForProduct(ctx context.Context, productID id.ID) (int64, error)
}
