package product

import (
	"context"

	"assettrack/internal/core/apperror"
	"assettrack/internal/core/id"
	"assettrack/internal/core/tx"
	"assettrack/internal/domain"
	"assettrack/internal/domain/blob"
)

// Files bundles the binary payloads a product mutation may carry.
// Payloads are uploaded to the blob store and replaced by references
// before the record is persisted.
type Files struct {
	Photo       *blob.Upload
	Attachments []blob.Upload
}

// Service orchestrates product persistence: attachment handling via
// the blob store, plus schedule-bounds recalculation when a due date is
// supplied directly. Status is never written here.
type Service struct {
	*domain.RecordService[*Product]

	blobs  blob.Store
	status *StatusService
}

// NewService creates a product Service.
func NewService(repo Repository, txManager tx.Manager, blobs blob.Store, status *StatusService) *Service {
	return &Service{
		RecordService: domain.NewRecordService(domain.RecordServiceConfig[*Product]{
			Store:      repo,
			TxManager:  txManager,
			EntityName: "product",
		}),
		blobs:  blobs,
		status: status,
	}
}

// Status exposes the status service for read-side callers.
func (s *Service) Status() *StatusService {
	return s.status
}

// Create stores file payloads, persists the product, and recalculates
// the schedule bounds when a due date was supplied. New products start
// awaiting commissioning regardless of the submitted status.
func (s *Service) Create(ctx context.Context, p *Product, files Files) error {
	return s.Tx().RunInTransaction(ctx, func(ctx context.Context) error {
		p.Status = StatusAwaitingCommissioning

		if err := s.attachFiles(ctx, p, files); err != nil {
			return err
		}
		if err := s.RecordService.Create(ctx, p); err != nil {
			return err
		}
		if p.MaintenanceDate != nil {
			return s.status.RecalculateBounds(ctx, p.ID)
		}
		return nil
	})
}

// Update stores any new file payloads and persists the product. The
// stored status is preserved: it belongs to the status service.
func (s *Service) Update(ctx context.Context, p *Product, files Files) error {
	return s.Tx().RunInTransaction(ctx, func(ctx context.Context) error {
		current, err := s.RecordService.GetByID(ctx, p.ID)
		if err != nil {
			return err
		}
		p.Status = current.Status

		if err := s.attachFiles(ctx, p, files); err != nil {
			return err
		}
		if err := s.RecordService.Update(ctx, p); err != nil {
			return err
		}
		if p.MaintenanceDate != nil {
			return s.status.RecalculateBounds(ctx, p.ID)
		}
		return nil
	})
}

func (s *Service) attachFiles(ctx context.Context, p *Product, files Files) error {
	if files.Photo != nil {
		ref, err := s.blobs.Upload(ctx, *files.Photo)
		if err != nil {
			return err
		}
		p.PhotoID = &ref
	}
	if len(files.Attachments) > 0 {
		refs, err := s.blobs.UploadAll(ctx, files.Attachments)
		if err != nil {
			return err
		}
		p.AttachmentIDs = append(p.AttachmentIDs, refs...)
	}
	return nil
}

// Photo downloads the product's photo payload.
func (s *Service) Photo(ctx context.Context, productID id.ID) (blob.File, []byte, error) {
	p, err := s.GetByID(ctx, productID)
	if err != nil {
		return blob.File{}, nil, err
	}
	if p.PhotoID == nil {
		return blob.File{}, nil, apperror.NewNotFound("product photo", productID)
	}
	return s.blobs.Download(ctx, *p.PhotoID)
}
