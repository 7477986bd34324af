package commissioning

import (
	"context"

	"assettrack/internal/core/apperror"
	"assettrack/internal/core/id"
	"assettrack/internal/core/tx"
	"assettrack/internal/domain"
	"assettrack/internal/domain/blob"
	"assettrack/pkg/logger"
)

// StatusResolver is the slice of the product status service this
// package needs. Declared here so the dependency points from the
// product package inward, not the other way around.
type StatusResolver interface {
	// Recompute re-derives and persists the product's status.
	Recompute(ctx context.Context, productID id.ID) error

	// MarkDecommissioned sets the product status to decommissioned.
	MarkDecommissioned(ctx context.Context, productID id.ID) error
}

// Service enforces the commissioning lifecycle rules: one active
// commissioning per product, re-commissioning allowed after a failed
// attempt, status recomputation after every mutation.
type Service struct {
	*domain.RecordService[*Commissioning]

	repo     Repository
	blobs    blob.Store
	resolver StatusResolver
}

// NewService creates a commissioning Service.
func NewService(repo Repository, txManager tx.Manager, blobs blob.Store, resolver StatusResolver) *Service {
	return &Service{
		RecordService: domain.NewRecordService(domain.RecordServiceConfig[*Commissioning]{
			Store:      repo,
			TxManager:  txManager,
			EntityName: "commissioning",
		}),
		repo:     repo,
		blobs:    blobs,
		resolver: resolver,
	}
}

// Create records a new inspection outcome for a product. In one
// transaction: rejects when an active passed commissioning already
// exists, uploads attachment payloads, deactivates every prior
// commissioning so exactly one stays active, inserts the record, and
// recomputes the product status. A failed prior attempt does not block
// re-commissioning.
func (s *Service) Create(ctx context.Context, c *Commissioning, attachments []blob.Upload) error {
	return s.Tx().RunInTransaction(ctx, func(ctx context.Context) error {
		if err := c.Validate(ctx); err != nil {
			return err
		}

		existing, err := s.repo.FindActiveByProduct(ctx, c.ProductID)
		if err != nil {
			return err
		}
		if existing != nil && existing.Passed() {
			return apperror.NewCommissioningExists(c.ProductID.String())
		}

		if err := s.uploadAttachments(ctx, c, attachments); err != nil {
			return err
		}

		deactivated, err := s.repo.DeactivateAllForProduct(ctx, c.ProductID)
		if err != nil {
			return err
		}
		if deactivated > 0 {
			logger.Info(ctx, "superseded prior commissionings",
				"product_id", c.ProductID, "count", deactivated)
		}

		if err := s.RecordService.Create(ctx, c); err != nil {
			return err
		}
		return s.resolver.Recompute(ctx, c.ProductID)
	})
}

// Update modifies a commissioning record. Re-validates that no other
// record holds the active passed slot for the product, then recomputes
// the product status.
func (s *Service) Update(ctx context.Context, c *Commissioning, attachments []blob.Upload) error {
	return s.Tx().RunInTransaction(ctx, func(ctx context.Context) error {
		if err := c.Validate(ctx); err != nil {
			return err
		}

		if c.Active {
			existing, err := s.repo.FindActiveByProduct(ctx, c.ProductID)
			if err != nil {
				return err
			}
			if existing != nil && existing.ID != c.ID && existing.Passed() {
				return apperror.NewCommissioningExists(c.ProductID.String())
			}
		}

		if err := s.uploadAttachments(ctx, c, attachments); err != nil {
			return err
		}
		if err := s.RecordService.Update(ctx, c); err != nil {
			return err
		}
		return s.resolver.Recompute(ctx, c.ProductID)
	})
}

// Delete soft-deletes a commissioning and recomputes the owning
// product's status. Returns true iff the record was previously active.
func (s *Service) Delete(ctx context.Context, recID id.ID) (bool, error) {
	var deleted bool
	err := s.Tx().RunInTransaction(ctx, func(ctx context.Context) error {
		rec, err := s.RecordService.GetByID(ctx, recID)
		if err != nil {
			return err
		}

		deleted, err = s.RecordService.Delete(ctx, recID)
		if err != nil {
			return err
		}
		if !deleted {
			return nil
		}
		return s.resolver.Recompute(ctx, rec.ProductID)
	})
	return deleted, err
}

// Decommission retires the product behind a commissioning: the target
// commissioning is soft-deleted through the regular delete path, so
// lifecycle hooks observe it, and the product status is set to
// decommissioned directly, the single manual status override.
func (s *Service) Decommission(ctx context.Context, recID id.ID) error {
	return s.Tx().RunInTransaction(ctx, func(ctx context.Context) error {
		rec, err := s.RecordService.GetByID(ctx, recID)
		if err != nil {
			return err
		}
		if _, err := s.RecordService.Delete(ctx, recID); err != nil {
			return err
		}
		return s.resolver.MarkDecommissioned(ctx, rec.ProductID)
	})
}

func (s *Service) uploadAttachments(ctx context.Context, c *Commissioning, attachments []blob.Upload) error {
	if len(attachments) == 0 {
		return nil
	}
	refs, err := s.blobs.UploadAll(ctx, attachments)
	if err != nil {
		return err
	}
	c.AttachmentIDs = append(c.AttachmentIDs, refs...)
	return nil
}
