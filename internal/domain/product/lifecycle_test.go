package product_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assettrack/internal/core/apperror"
	"assettrack/internal/core/id"
	"assettrack/internal/domain/blob"
	"assettrack/internal/domain/catalogs/window"
	"assettrack/internal/domain/commissioning"
	"assettrack/internal/domain/domaintest"
	"assettrack/internal/domain/maintenance"
	"assettrack/internal/domain/product"
)

type fixture struct {
	products       *domaintest.ProductRepo
	commissionings *domaintest.CommissioningRepo
	maintenances   *domaintest.MaintenanceRepo
	windows        *domaintest.MemStore[*window.MaintenanceWindow]
	blobs          *domaintest.BlobStore

	status     *product.StatusService
	productSvc *product.Service
	commSvc    *commissioning.Service
	maintSvc   *maintenance.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		products:       domaintest.NewProductRepo(),
		commissionings: domaintest.NewCommissioningRepo(),
		maintenances:   domaintest.NewMaintenanceRepo(),
		windows:        domaintest.NewMemStore[*window.MaintenanceWindow]("maintenance window"),
		blobs:          domaintest.NewBlobStore(),
	}
	txm := domaintest.TxManager{}

	f.status = product.NewStatusService(f.products, f.commissionings, f.maintenances, f.windows, txm)
	f.productSvc = product.NewService(f.products, txm, f.blobs, f.status)
	f.commSvc = commissioning.NewService(f.commissionings, txm, f.blobs, f.status)
	f.maintSvc = maintenance.NewService(f.maintenances, f.commissionings, txm, f.blobs, f.status)
	return f
}

func (f *fixture) createProduct(t *testing.T) *product.Product {
	t.Helper()
	p := product.New("XC-900 analyzer", "SN-0001")
	require.NoError(t, f.productSvc.Create(context.Background(), p, product.Files{}))
	return p
}

func (f *fixture) commission(t *testing.T, p *product.Product, outcome commissioning.Outcome) *commissioning.Commissioning {
	t.Helper()
	c := commissioning.New(p.ID, outcome)
	require.NoError(t, f.commSvc.Create(context.Background(), c, nil))
	return c
}

func (f *fixture) activeCommissionings(p *product.Product) []*commissioning.Commissioning {
	var out []*commissioning.Commissioning
	for _, c := range f.commissionings.All() {
		if c.Active && c.ProductID == p.ID {
			out = append(out, c)
		}
	}
	return out
}

func TestProductLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	// 1. a fresh product awaits commissioning
	p := f.createProduct(t)
	assert.Equal(t, product.StatusAwaitingCommissioning, p.Status)

	// 2. a passed commissioning activates it
	f.commission(t, p, commissioning.OutcomePass)
	assert.Equal(t, product.StatusActive, p.Status)
	assert.Len(t, f.activeCommissionings(p), 1)

	// 3. re-commissioning is rejected while a passed one is active
	err := f.commSvc.Create(ctx, commissioning.New(p.ID, commissioning.OutcomePass), nil)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeCommissioningExists, appErr.Code)
	assert.Len(t, f.activeCommissionings(p), 1)

	// 4. a service event puts it under service
	m := maintenance.New("pump swap", p.ID, maintenance.TypeService, time.Now().UTC())
	require.NoError(t, f.maintSvc.Create(ctx, m, nil))
	assert.Equal(t, product.StatusUnderService, p.Status)

	// 5. deleting the event reverts to active
	deleted, err := f.maintSvc.Delete(ctx, m.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, product.StatusActive, p.Status)

	// 6. decommission overrides everything
	active := f.activeCommissionings(p)[0]
	require.NoError(t, f.commSvc.Decommission(ctx, active.ID))
	assert.Equal(t, product.StatusDecommissioned, p.Status)
	assert.False(t, active.Active)
}

func TestDecommission_RecommissioningRevives(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	p := f.createProduct(t)
	first := f.commission(t, p, commissioning.OutcomePass)
	require.NoError(t, f.commSvc.Decommission(ctx, first.ID))
	require.Equal(t, product.StatusDecommissioned, p.Status)

	// without a new commissioning the status holds
	require.NoError(t, f.status.Recompute(ctx, p.ID))
	assert.Equal(t, product.StatusDecommissioned, p.Status)

	// a fresh passed commissioning brings the product back
	f.commission(t, p, commissioning.OutcomePass)
	assert.Equal(t, product.StatusActive, p.Status)
	assert.Len(t, f.activeCommissionings(p), 1)
}

func TestCommissioning_FailedOutcomeKeepsAwaiting(t *testing.T) {
	f := newFixture(t)
	p := f.createProduct(t)

	f.commission(t, p, commissioning.OutcomeFail)
	assert.Equal(t, product.StatusAwaitingCommissioning, p.Status)
	assert.Len(t, f.activeCommissionings(p), 1)
}

func TestCommissioning_RetryAfterFail(t *testing.T) {
	f := newFixture(t)
	p := f.createProduct(t)

	failed := f.commission(t, p, commissioning.OutcomeFail)
	f.commission(t, p, commissioning.OutcomePass)

	// the failed attempt is superseded, not a blocker
	assert.False(t, failed.Active)
	assert.Len(t, f.activeCommissionings(p), 1)
	assert.Equal(t, product.StatusActive, p.Status)
}

func TestCommissioning_UploadFailureAborts(t *testing.T) {
	f := newFixture(t)
	p := f.createProduct(t)
	f.blobs.FailUploads = true

	err := f.commSvc.Create(context.Background(), commissioning.New(p.ID, commissioning.OutcomePass),
		[]blob.Upload{{Name: "report.pdf", ContentType: "application/pdf", Data: []byte("x")}})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInternal, appErr.Code)
}

func TestMaintenance_RequiresPassedCommissioning(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	t.Run("no commissioning", func(t *testing.T) {
		p := f.createProduct(t)
		err := f.maintSvc.Create(ctx, maintenance.New("check", p.ID, maintenance.TypeService, time.Now()), nil)
		require.Error(t, err)
		appErr, _ := apperror.AsAppError(err)
		assert.Equal(t, apperror.CodeNotCommissioned, appErr.Code)
	})

	t.Run("failed commissioning", func(t *testing.T) {
		p := f.createProduct(t)
		f.commission(t, p, commissioning.OutcomeFail)
		err := f.maintSvc.Create(ctx, maintenance.New("check", p.ID, maintenance.TypeService, time.Now()), nil)
		require.Error(t, err)
		appErr, _ := apperror.AsAppError(err)
		assert.Equal(t, apperror.CodeNotCommissioned, appErr.Code)
	})
}

func TestPreventiveMaintenance_AdvancesSchedule(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	w := window.New("quarterly", window.Quarterly, 5, 10)
	f.windows.Seed(w)

	p := f.createProduct(t)
	p.WindowIDs = []id.ID{w.ID}
	due := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	p.MaintenanceDate = &due
	f.commission(t, p, commissioning.OutcomePass)

	m := maintenance.New("filter change", p.ID, maintenance.TypePreventive, due)
	require.NoError(t, f.maintSvc.Create(ctx, m, nil))

	assert.Equal(t, product.StatusInPreventive, p.Status)
	require.NotNil(t, p.MaintenanceDate)
	assert.Equal(t, time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC), *p.MaintenanceDate)
	assert.Equal(t, time.Date(2026, time.May, 27, 0, 0, 0, 0, time.UTC), *p.MinMaintenanceDate)
	assert.Equal(t, time.Date(2026, time.June, 11, 0, 0, 0, 0, time.UTC), *p.MaxMaintenanceDate)
}

func TestPreventiveMaintenance_NoWindowFails(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	p := f.createProduct(t)
	f.commission(t, p, commissioning.OutcomePass)

	err := f.maintSvc.Create(ctx, maintenance.New("filter change", p.ID, maintenance.TypePreventive, time.Now()), nil)
	require.Error(t, err)
	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, apperror.CodeMaintenanceWindow, appErr.Code)
}

func TestRecomputeIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	p := f.createProduct(t)
	f.commission(t, p, commissioning.OutcomePass)
	require.Equal(t, product.StatusActive, p.Status)

	require.NoError(t, f.status.Recompute(ctx, p.ID))
	assert.Equal(t, product.StatusActive, p.Status)
}

func TestProductService_FilesAndBounds(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	w := window.New("monthly", window.Monthly, 2, 3)
	f.windows.Seed(w)

	p := product.New("freezer F-20", "SN-0002")
	p.WindowIDs = append(p.WindowIDs, w.ID)
	require.NoError(t, f.productSvc.Create(ctx, p, product.Files{
		Photo: &blob.Upload{Name: "front.jpg", ContentType: "image/jpeg", Data: []byte("jpg")},
		Attachments: []blob.Upload{
			{Name: "manual.pdf", ContentType: "application/pdf", Data: []byte("pdf")},
		},
	}))

	require.NotNil(t, p.PhotoID)
	assert.Len(t, p.AttachmentIDs, 1)
	assert.Equal(t, 2, f.blobs.Uploads)

	meta, data, err := f.productSvc.Photo(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "front.jpg", meta.Name)
	assert.Equal(t, []byte("jpg"), data)

	// an explicit due date on update recalculates the band
	f.commission(t, p, commissioning.OutcomePass)
	due := time.Date(2026, time.July, 10, 0, 0, 0, 0, time.UTC)
	p.MaintenanceDate = &due
	require.NoError(t, f.productSvc.Update(ctx, p, product.Files{}))

	require.NotNil(t, p.MinMaintenanceDate)
	assert.Equal(t, time.Date(2026, time.July, 8, 0, 0, 0, 0, time.UTC), *p.MinMaintenanceDate)
	assert.Equal(t, time.Date(2026, time.July, 13, 0, 0, 0, 0, time.UTC), *p.MaxMaintenanceDate)
	assert.Equal(t, due, *p.MaintenanceDate)
}
