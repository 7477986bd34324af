package commissioning_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assettrack/internal/core/apperror"
	"assettrack/internal/core/id"
	"assettrack/internal/domain"
	"assettrack/internal/domain/commissioning"
	"assettrack/internal/domain/domaintest"
)

// recorder is a StatusResolver that only records invocations, for
// tests that target the commissioning rules in isolation.
type recorder struct {
	recomputed     []id.ID
	decommissioned []id.ID
}

func (r *recorder) Recompute(ctx context.Context, productID id.ID) error {
	r.recomputed = append(r.recomputed, productID)
	return nil
}

func (r *recorder) MarkDecommissioned(ctx context.Context, productID id.ID) error {
	r.decommissioned = append(r.decommissioned, productID)
	return nil
}

func newService() (*commissioning.Service, *domaintest.CommissioningRepo, *recorder) {
	repo := domaintest.NewCommissioningRepo()
	res := &recorder{}
	svc := commissioning.NewService(repo, domaintest.TxManager{}, domaintest.NewBlobStore(), res)
	return svc, repo, res
}

func TestCreate_DeactivatesPriorAttempts(t *testing.T) {
	ctx := context.Background()
	svc, repo, res := newService()
	productID := id.New()

	first := commissioning.New(productID, commissioning.OutcomeFail)
	require.NoError(t, svc.Create(ctx, first, nil))

	second := commissioning.New(productID, commissioning.OutcomePass)
	require.NoError(t, svc.Create(ctx, second, nil))

	assert.False(t, first.Active)
	assert.True(t, second.Active)

	active, err := repo.FindActiveByProduct(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)

	// every create recomputes the product status
	assert.Equal(t, []id.ID{productID, productID}, res.recomputed)
}

func TestCreate_RejectsWhenPassedActiveExists(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newService()
	productID := id.New()

	require.NoError(t, svc.Create(ctx, commissioning.New(productID, commissioning.OutcomePass), nil))

	err := svc.Create(ctx, commissioning.New(productID, commissioning.OutcomePass), nil)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeCommissioningExists, appErr.Code)

	// the rejected attempt left nothing behind
	assert.Len(t, repo.All(), 1)
}

func TestCreate_InvalidOutcome(t *testing.T) {
	svc, _, _ := newService()

	err := svc.Create(context.Background(), commissioning.New(id.New(), commissioning.Outcome("maybe")), nil)
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestUpdate_ConflictsWithOtherActivePassed(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService()
	productID := id.New()

	winner := commissioning.New(productID, commissioning.OutcomePass)
	require.NoError(t, svc.Create(ctx, winner, nil))

	// a superseded record cannot be reactivated past the winner
	loser := commissioning.New(productID, commissioning.OutcomeFail)
	loser.Active = true
	loser.Details = "retrying"
	err := svc.Update(ctx, loser, nil)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeCommissioningExists, appErr.Code)
}

func TestDelete_RecomputesOwningProduct(t *testing.T) {
	ctx := context.Background()
	svc, _, res := newService()
	productID := id.New()

	c := commissioning.New(productID, commissioning.OutcomePass)
	require.NoError(t, svc.Create(ctx, c, nil))

	deleted, err := svc.Delete(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, []id.ID{productID, productID}, res.recomputed)

	// repeating the delete is a no-op and skips the recompute
	deleted, err = svc.Delete(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Len(t, res.recomputed, 2)
}

func TestDecommission(t *testing.T) {
	ctx := context.Background()
	svc, _, res := newService()
	productID := id.New()

	c := commissioning.New(productID, commissioning.OutcomePass)
	require.NoError(t, svc.Create(ctx, c, nil))

	require.NoError(t, svc.Decommission(ctx, c.ID))
	assert.False(t, c.Active)
	assert.Equal(t, []id.ID{productID}, res.decommissioned)
}

func TestDecommission_RunsDeleteHooks(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService()

	var observed []id.ID
	svc.Hooks().On(domain.AfterDelete, func(ctx context.Context, c *commissioning.Commissioning) error {
		observed = append(observed, c.ID)
		return nil
	})

	c := commissioning.New(id.New(), commissioning.OutcomePass)
	require.NoError(t, svc.Create(ctx, c, nil))

	require.NoError(t, svc.Decommission(ctx, c.ID))
	assert.Equal(t, []id.ID{c.ID}, observed)
}
