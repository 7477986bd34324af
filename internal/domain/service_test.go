package domain_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assettrack/internal/core/apperror"
	"assettrack/internal/core/id"
	"assettrack/internal/domain"
	"assettrack/internal/domain/catalogs/country"
	"assettrack/internal/domain/domaintest"
	"assettrack/internal/domain/filter"
)

func newCountryService() (*domain.RecordService[*country.Country], *domaintest.MemStore[*country.Country]) {
	store := domaintest.NewMemStore[*country.Country]("country")
	svc := domain.NewRecordService(domain.RecordServiceConfig[*country.Country]{
		Store:      store,
		TxManager:  domaintest.TxManager{},
		EntityName: "country",
	})
	return svc, store
}

func TestRecordService_CreateValidates(t *testing.T) {
	svc, store := newCountryService()

	err := svc.Create(context.Background(), country.New(""))
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	assert.Empty(t, store.All())
}

func TestRecordService_GetByID_NotFound(t *testing.T) {
	svc, _ := newCountryService()

	_, err := svc.GetByID(context.Background(), id.New())
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestRecordService_DeleteIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newCountryService()

	c := country.New("Norway")
	require.NoError(t, svc.Create(ctx, c))

	deleted, err := svc.Delete(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	// second delete reports the no-op without touching the record
	deleted, err = svc.Delete(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.False(t, c.Active)
}

func TestRecordService_Hooks(t *testing.T) {
	ctx := context.Background()
	svc, _ := newCountryService()

	var events []domain.HookEvent
	for _, ev := range []domain.HookEvent{domain.BeforeCreate, domain.AfterCreate, domain.BeforeDelete, domain.AfterDelete} {
		ev := ev
		svc.Hooks().On(ev, func(ctx context.Context, rec *country.Country) error {
			events = append(events, ev)
			return nil
		})
	}

	c := country.New("Chile")
	require.NoError(t, svc.Create(ctx, c))
	_, err := svc.Delete(ctx, c.ID)
	require.NoError(t, err)

	assert.Equal(t, []domain.HookEvent{
		domain.BeforeCreate, domain.AfterCreate,
		domain.BeforeDelete, domain.AfterDelete,
	}, events)
}

func TestRecordService_BeforeHookBlocks(t *testing.T) {
	ctx := context.Background()
	svc, store := newCountryService()

	svc.Hooks().On(domain.BeforeCreate, func(ctx context.Context, rec *country.Country) error {
		return apperror.NewForbidden("read-only catalog")
	})

	err := svc.Create(ctx, country.New("Atlantis"))
	require.Error(t, err)
	assert.Empty(t, store.All())
}

func TestRecordService_List(t *testing.T) {
	ctx := context.Background()
	svc, _ := newCountryService()

	for _, name := range []string{"Brazil", "Argentina", "Chile"} {
		require.NoError(t, svc.Create(ctx, country.New(name)))
	}

	page, err := svc.List(ctx, domain.ListQuery{
		OrderBy: []domain.OrderBy{{Field: "name", Direction: domain.Asc}},
		Page:    &domain.PageOptions{Paginate: true, Page: 1, Limit: 2},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.TotalDocs)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Docs, 2)
	assert.Equal(t, "Argentina", page.Docs[0].Name)
	assert.Equal(t, "Brazil", page.Docs[1].Name)

	byName, err := svc.List(ctx, domain.ListQuery{Filters: []filter.Item{filter.Eq("name", "Chile")}})
	require.NoError(t, err)
	require.Len(t, byName.Docs, 1)
	assert.Equal(t, "Chile", byName.Docs[0].Name)
}
