package domaintest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"assettrack/internal/core/apperror"
	"assettrack/internal/core/id"
	"assettrack/internal/domain/blob"
	"assettrack/internal/domain/commissioning"
	"assettrack/internal/domain/maintenance"
	"assettrack/internal/domain/product"
)

// CommissioningRepo is an in-memory commissioning.Repository.
type CommissioningRepo struct {
	*MemStore[*commissioning.Commissioning]
}

// NewCommissioningRepo creates an empty repo.
func NewCommissioningRepo() *CommissioningRepo {
	return &CommissioningRepo{MemStore: NewMemStore[*commissioning.Commissioning]("commissioning")}
}

func (r *CommissioningRepo) FindActiveByProduct(ctx context.Context, productID id.ID) (*commissioning.Commissioning, error) {
	var latest *commissioning.Commissioning
	for _, c := range r.All() {
		if c.Active && c.ProductID == productID {
			latest = c
		}
	}
	return latest, nil
}

func (r *CommissioningRepo) DeactivateAllForProduct(ctx context.Context, productID id.ID) (int64, error) {
	var n int64
	for _, c := range r.All() {
		if c.Active && c.ProductID == productID {
			c.Deactivate()
			n++
		}
	}
	return n, nil
}

// MaintenanceRepo is an in-memory maintenance.Repository.
type MaintenanceRepo struct {
	*MemStore[*maintenance.Maintenance]
}

// NewMaintenanceRepo creates an empty repo.
func NewMaintenanceRepo() *MaintenanceRepo {
	return &MaintenanceRepo{MemStore: NewMemStore[*maintenance.Maintenance]("maintenance")}
}

func (r *MaintenanceRepo) ListActiveByProduct(ctx context.Context, productID id.ID) ([]*maintenance.Maintenance, error) {
	var out []*maintenance.Maintenance
	for _, m := range r.All() {
		if m.Active && m.ProductID == productID {
			out = append(out, m)
		}
	}
	// newest first
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// ProductRepo is an in-memory product.Repository.
type ProductRepo struct {
	*MemStore[*product.Product]
}

// NewProductRepo creates an empty repo.
func NewProductRepo() *ProductRepo {
	return &ProductRepo{MemStore: NewMemStore[*product.Product]("product")}
}

func (r *ProductRepo) UpdateStatus(ctx context.Context, productID id.ID, status product.Status) error {
	p, err := r.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	p.Status = status
	return nil
}

func (r *ProductRepo) UpdateMaintenanceDates(ctx context.Context, productID id.ID, min, next, max time.Time) error {
	p, err := r.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	p.MinMaintenanceDate = &min
	p.MaintenanceDate = &next
	p.MaxMaintenanceDate = &max
	return nil
}

// BlobStore is an in-memory blob.Store.
type BlobStore struct {
	mu      sync.Mutex
	files   map[id.ID]storedBlob
	Uploads int

	// FailUploads makes every upload fail, for abort-path tests.
	FailUploads bool
}

type storedBlob struct {
	meta blob.File
	data []byte
}

// NewBlobStore creates an empty blob store.
func NewBlobStore() *BlobStore {
	return &BlobStore{files: make(map[id.ID]storedBlob)}
}

func (s *BlobStore) Upload(ctx context.Context, up blob.Upload) (id.ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailUploads {
		return id.Nil(), apperror.NewInternal(fmt.Errorf("blob store unavailable"))
	}
	ref := id.New()
	s.files[ref] = storedBlob{
		meta: blob.File{ID: ref, Name: up.Name, ContentType: up.ContentType, Size: int64(len(up.Data))},
		data: up.Data,
	}
	s.Uploads++
	return ref, nil
}

func (s *BlobStore) UploadAll(ctx context.Context, ups []blob.Upload) ([]id.ID, error) {
	refs := make([]id.ID, 0, len(ups))
	for _, up := range ups {
		ref, err := s.Upload(ctx, up)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func (s *BlobStore) Download(ctx context.Context, ref id.ID) (blob.File, []byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.files[ref]
	if !ok {
		return blob.File{}, nil, apperror.NewNotFound("file", ref.String())
	}
	return f.meta, f.data, nil
}
