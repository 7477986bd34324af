// Package product holds the central asset entity, its derived status,
// and the services that mutate it.
package product

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"assettrack/internal/core/apperror"
	"assettrack/internal/core/entity"
	"assettrack/internal/core/id"
)

// Status is the derived lifecycle state of a product. It is never set
// directly by callers: commissioning and maintenance mutations drive it
// through the status service, with decommissioning as the single manual
// override.
type Status string

const (
	StatusAwaitingCommissioning Status = "awaiting-commissioning"
	StatusActive                Status = "active"
	StatusUnderService          Status = "under-service"
	StatusInPreventive          Status = "in-preventive-maintenance"
	StatusDecommissioned        Status = "decommissioned"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusAwaitingCommissioning, StatusActive, StatusUnderService,
		StatusInPreventive, StatusDecommissioned:
		return true
	}
	return false
}

// Condition is the physical state grade of a product.
type Condition string

const (
	ConditionExcellent Condition = "excellent"
	ConditionGood      Condition = "good"
	ConditionFair      Condition = "fair"
	ConditionPoor      Condition = "poor"
)

// Valid reports whether c is a known condition.
func (c Condition) Valid() bool {
	switch c {
	case ConditionExcellent, ConditionGood, ConditionFair, ConditionPoor:
		return true
	}
	return false
}

// Product is a tracked physical asset.
type Product struct {
	entity.Record

	ModelName    string `db:"model_name" json:"modelName"`
	SerialNumber string `db:"serial_number" json:"serialNumber"`

	// Classification reference sets
	TypeIDs   []id.ID `db:"type_ids" json:"typeIds,omitempty"`
	VendorIDs []id.ID `db:"vendor_ids" json:"vendorIds,omitempty"`
	MakeIDs   []id.ID `db:"make_ids" json:"makeIds,omitempty"`

	AcquiredDate  *time.Time      `db:"acquired_date" json:"acquiredDate,omitempty"`
	AcquiredPrice decimal.Decimal `db:"acquired_price" json:"acquiredPrice"`
	CurrentPrice  decimal.Decimal `db:"current_price" json:"currentPrice"`

	Condition Condition `db:"condition" json:"condition"`

	// WindowIDs reference the maintenance windows parameterizing
	// preventive scheduling. The first reference drives the recurrence.
	WindowIDs []id.ID `db:"window_ids" json:"windowIds,omitempty"`

	// PhotoID and AttachmentIDs are blob store references
	PhotoID       *id.ID  `db:"photo_id" json:"photoId,omitempty"`
	AttachmentIDs []id.ID `db:"attachment_ids" json:"attachmentIds,omitempty"`

	// RoomID is the current placement
	RoomID *id.ID `db:"room_id" json:"roomId,omitempty"`

	WarrantyDate *time.Time `db:"warranty_date" json:"warrantyDate,omitempty"`
	Remarks      string     `db:"remarks" json:"remarks,omitempty"`

	Status Status `db:"status" json:"status"`

	// Preventive maintenance schedule. MaintenanceDate is the next due
	// date, Min/Max the tolerance band around it.
	MinMaintenanceDate *time.Time `db:"min_maintenance_date" json:"minMaintenanceDate,omitempty"`
	MaintenanceDate    *time.Time `db:"maintenance_date" json:"maintenanceDate,omitempty"`
	MaxMaintenanceDate *time.Time `db:"max_maintenance_date" json:"maxMaintenanceDate,omitempty"`
}

// New creates a Product awaiting commissioning.
func New(modelName, serialNumber string) *Product {
	return &Product{
		Record:       entity.NewRecord(),
		ModelName:    modelName,
		SerialNumber: serialNumber,
		Condition:    ConditionGood,
		Status:       StatusAwaitingCommissioning,
	}
}

// Validate implements entity.Validatable.
func (p *Product) Validate(ctx context.Context) error {
	if p.ModelName == "" {
		return apperror.NewValidation("model name is required").
			WithDetail("field", "modelName")
	}
	if p.SerialNumber == "" {
		return apperror.NewValidation("serial number is required").
			WithDetail("field", "serialNumber")
	}
	if !p.Condition.Valid() {
		return apperror.NewValidation(fmt.Sprintf("unknown condition %q", p.Condition)).
			WithDetail("field", "condition")
	}
	if !p.Status.Valid() {
		return apperror.NewValidation(fmt.Sprintf("unknown status %q", p.Status)).
			WithDetail("field", "status")
	}
	if p.AcquiredPrice.IsNegative() || p.CurrentPrice.IsNegative() {
		return apperror.NewValidation("prices must not be negative")
	}
	return nil
}
