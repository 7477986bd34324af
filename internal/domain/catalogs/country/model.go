// Package country provides the Country reference catalog.
package country

import (
	"assettrack/internal/core/entity"
)

// Country is a plain named reference record.
type Country struct {
	entity.Named
}

// New creates a Country with required fields.
func New(name string) *Country {
	return &Country{Named: entity.NewNamed(name)}
}
