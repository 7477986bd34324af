package maintenance

import (
	"context"

	"assettrack/internal/core/apperror"
	"assettrack/internal/core/id"
	"assettrack/internal/core/tx"
	"assettrack/internal/domain"
	"assettrack/internal/domain/blob"
	"assettrack/internal/domain/commissioning"
)

// StatusResolver is the slice of the product status service this
// package needs.
type StatusResolver interface {
	// Recompute re-derives and persists the product's status.
	Recompute(ctx context.Context, productID id.ID) error

	// AdvanceSchedule moves the product's preventive schedule to the
	// next occurrence.
	AdvanceSchedule(ctx context.Context, productID id.ID) error
}

// Service enforces the maintenance lifecycle rules: events are only
// accepted for products with an active passed commissioning, every
// mutation recomputes the product status, and active preventive events
// advance the product's schedule.
type Service struct {
	*domain.RecordService[*Maintenance]

	repo           Repository
	commissionings commissioning.Repository
	blobs          blob.Store
	resolver       StatusResolver
}

// NewService creates a maintenance Service.
func NewService(
	repo Repository,
	commissionings commissioning.Repository,
	txManager tx.Manager,
	blobs blob.Store,
	resolver StatusResolver,
) *Service {
	return &Service{
		RecordService: domain.NewRecordService(domain.RecordServiceConfig[*Maintenance]{
			Store:      repo,
			TxManager:  txManager,
			EntityName: "maintenance",
		}),
		repo:           repo,
		commissionings: commissionings,
		blobs:          blobs,
		resolver:       resolver,
	}
}

// Create records a maintenance event. In one transaction: requires an
// active passed commissioning for the product, uploads attachment
// payloads, inserts the record, recomputes the product status, and for
// active preventive events advances the product schedule.
func (s *Service) Create(ctx context.Context, m *Maintenance, attachments []blob.Upload) error {
	return s.Tx().RunInTransaction(ctx, func(ctx context.Context) error {
		if err := m.Validate(ctx); err != nil {
			return err
		}
		if err := s.requirePassedCommissioning(ctx, m.ProductID); err != nil {
			return err
		}

		if err := s.uploadAttachments(ctx, m, attachments); err != nil {
			return err
		}
		if err := s.RecordService.Create(ctx, m); err != nil {
			return err
		}
		if err := s.resolver.Recompute(ctx, m.ProductID); err != nil {
			return err
		}

		if m.Type == TypePreventive && m.Active {
			return s.resolver.AdvanceSchedule(ctx, m.ProductID)
		}
		return nil
	})
}

// Update modifies a maintenance event and recomputes the product
// status.
func (s *Service) Update(ctx context.Context, m *Maintenance, attachments []blob.Upload) error {
	return s.Tx().RunInTransaction(ctx, func(ctx context.Context) error {
		if err := m.Validate(ctx); err != nil {
			return err
		}
		if err := s.uploadAttachments(ctx, m, attachments); err != nil {
			return err
		}
		if err := s.RecordService.Update(ctx, m); err != nil {
			return err
		}
		return s.resolver.Recompute(ctx, m.ProductID)
	})
}

// Delete soft-deletes a maintenance event and recomputes the status of
// the product it belonged to. Returns true iff the record was
// previously active.
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

// requirePassedCommissioning fails with a validation error unless the
// product's active commissioning has outcome pass.
func (s *Service) requirePassedCommissioning(ctx context.Context, productID id.ID) error {
	comm, err := s.commissionings.FindActiveByProduct(ctx, productID)
	if err != nil {
		return err
	}
	if comm == nil || !comm.Passed() {
		return apperror.NewNotCommissioned(productID.String())
	}
	return nil
}

func (s *Service) uploadAttachments(ctx context.Context, m *Maintenance, attachments []blob.Upload) error {
	if len(attachments) == 0 {
		return nil
	}
	refs, err := s.blobs.UploadAll(ctx, attachments)
	if err != nil {
		return err
	}
	m.AttachmentIDs = append(m.AttachmentIDs, refs...)
	return nil
}
