package product

import (
	"context"
	"time"

	"assettrack/internal/core/apperror"
	"assettrack/internal/core/id"
	"assettrack/internal/core/tx"
	"assettrack/internal/domain"
	"assettrack/internal/domain/catalogs/window"
	"assettrack/internal/domain/commissioning"
	"assettrack/internal/domain/maintenance"
	"assettrack/pkg/logger"
)

// StatusService derives and persists product status from the product's
// commissioning and maintenance records. It is the only writer of the
// status and schedule fields; entity services call it after every
// mutation that can affect them.
type StatusService struct {
	products       Repository
	commissionings commissioning.Repository
	maintenances   maintenance.Repository
	windows        domain.RecordStore[*window.MaintenanceWindow]
	txManager      tx.Manager
}

// NewStatusService creates a StatusService.
func NewStatusService(
	products Repository,
	commissionings commissioning.Repository,
	maintenances maintenance.Repository,
	windows domain.RecordStore[*window.MaintenanceWindow],
	txManager tx.Manager,
) *StatusService {
	return &StatusService{
		products:       products,
		commissionings: commissionings,
		maintenances:   maintenances,
		windows:        windows,
		txManager:      txManager,
	}
}

// deriveStatus computes the canonical status from the active records.
// Precedence: service maintenance, then preventive maintenance, then a
// passed commissioning, then awaiting. Decommissioned is never derived;
// it is set only through MarkDecommissioned.
func deriveStatus(comm *commissioning.Commissioning, maints []*maintenance.Maintenance) Status {
	for _, m := range maints {
		if m.Type == maintenance.TypeService {
			return StatusUnderService
		}
	}
	for _, m := range maints {
		if m.Type == maintenance.TypePreventive {
			return StatusInPreventive
		}
	}
	if comm != nil && comm.Passed() {
		return StatusActive
	}
	return StatusAwaitingCommissioning
}

// Recompute re-derives the product's status from its current active
// commissioning and maintenance set and persists it. Idempotent: with
// no intervening mutation a second run is a no-op. Runs inside the
// caller's transaction when ctx carries one.
func (s *StatusService) Recompute(ctx context.Context, productID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		prod, err := s.products.GetByID(ctx, productID)
		if err != nil {
			return err
		}

		comm, err := s.commissionings.FindActiveByProduct(ctx, productID)
		if err != nil {
			return err
		}
		if prod.Status == StatusDecommissioned && comm == nil {
			// decommissioning holds until a new commissioning record
			// revives the product
			return nil
		}
		maints, err := s.maintenances.ListActiveByProduct(ctx, productID)
		if err != nil {
			return err
		}

		status := deriveStatus(comm, maints)
		if status == prod.Status {
			return nil
		}

		logger.Info(ctx, "product status change",
			"product_id", productID, "from", prod.Status, "to", status)
		return s.products.UpdateStatus(ctx, productID, status)
	})
}

// HasPassedCommissioning reports whether the product's active
// commissioning, if any, has outcome pass.
func (s *StatusService) HasPassedCommissioning(ctx context.Context, productID id.ID) (bool, error) {
	comm, err := s.commissionings.FindActiveByProduct(ctx, productID)
	if err != nil {
		return false, err
	}
	return comm != nil && comm.Passed(), nil
}

// MarkDecommissioned sets the product's status to decommissioned. This
// is the one manual status write, reserved for the decommission flow.
func (s *StatusService) MarkDecommissioned(ctx context.Context, productID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.products.GetByID(ctx, productID); err != nil {
			return err
		}
		logger.Info(ctx, "product decommissioned", "product_id", productID)
		return s.products.UpdateStatus(ctx, productID, StatusDecommissioned)
	})
}

// AdvanceSchedule moves the product's preventive schedule to the next
// occurrence: next due = previous due date plus the window recurrence,
// bounds = next due widened by the window tolerance. Requires a passed
// commissioning and at least one maintenance window reference.
func (s *StatusService) AdvanceSchedule(ctx context.Context, productID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		passed, err := s.HasPassedCommissioning(ctx, productID)
		if err != nil {
			return err
		}
		if !passed {
			return apperror.NewNotCommissioned(productID.String())
		}

		prod, w, err := s.loadForScheduling(ctx, productID)
		if err != nil {
			return err
		}

		anchor := time.Now().UTC()
		if prod.MaintenanceDate != nil {
			anchor = *prod.MaintenanceDate
		}
		next := w.Recurrence.Next(anchor)
		min, max := w.Bounds(next)
		return s.products.UpdateMaintenanceDates(ctx, productID, min, next, max)
	})
}

// RecalculateBounds recomputes the tolerance band around the product's
// current due date without advancing it. Used when a due date is
// supplied directly on product create or update, so unlike
// AdvanceSchedule it does not demand a passed commissioning.
func (s *StatusService) RecalculateBounds(ctx context.Context, productID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		prod, w, err := s.loadForScheduling(ctx, productID)
		if err != nil {
			return err
		}
		if prod.MaintenanceDate == nil {
			return apperror.NewValidation("product has no maintenance date").
				WithDetail("product_id", productID)
		}
		min, max := w.Bounds(*prod.MaintenanceDate)
		return s.products.UpdateMaintenanceDates(ctx, productID, min, *prod.MaintenanceDate, max)
	})
}

// loadForScheduling fetches the product and its scheduling window,
// enforcing the window-attached precondition.
func (s *StatusService) loadForScheduling(ctx context.Context, productID id.ID) (*Product, *window.MaintenanceWindow, error) {
	prod, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, nil, err
	}
	if len(prod.WindowIDs) == 0 {
		return nil, nil, apperror.NewMaintenanceWindowMissing(productID.String())
	}

	w, err := s.windows.GetByID(ctx, prod.WindowIDs[0])
	if err != nil {
		return nil, nil, err
	}
	return prod, w, nil
}
