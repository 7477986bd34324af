package maintenance

import (
	"context"

	"assettrack/internal/core/id"
	"assettrack/internal/domain"
)

// Repository extends the generic record store with the read-side
// query the status derivation needs.
type Repository interface {
	domain.RecordStore[*Maintenance]

	// ListActiveByProduct returns the product's active maintenance
	// events, newest first.
	ListActiveByProduct(ctx context.Context, productID id.ID) ([]*Maintenance, error)
}
