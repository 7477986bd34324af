package record_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"assettrack/internal/core/apperror"
	"assettrack/internal/core/id"
	"assettrack/internal/domain/commissioning"
	"assettrack/internal/infrastructure/storage/postgres"
)

// Compile-time check.
var _ commissioning.Repository = (*CommissioningRepo)(nil)

// CommissioningRepo persists commissioning records.
type CommissioningRepo struct {
	*BaseRecordRepo[*commissioning.Commissioning]
}

// NewCommissioningRepo creates the commissioning repository.
func NewCommissioningRepo(tm *postgres.TxManager) *CommissioningRepo {
	return &CommissioningRepo{
		BaseRecordRepo: NewBaseRecordRepo(
			"commissionings",
			postgres.ExtractDBColumns[commissioning.Commissioning](),
			func() *commissioning.Commissioning { return &commissioning.Commissioning{} },
			tm,
		),
	}
}

// FindActiveByProduct returns the product's active commissioning, nil
// when there is none. UUIDv7 ids order by creation time, so the max id
// is the latest row.
func (r *CommissioningRepo) FindActiveByProduct(ctx context.Context, productID id.ID) (*commissioning.Commissioning, error) {
	q := r.Builder().
		Select(postgres.ExtractDBColumns[commissioning.Commissioning]()...).
		From(r.TableName()).
		Where(squirrel.Eq{"product_id": productID}).
		Where(squirrel.Eq{"active": true}).
		OrderBy("id DESC").
		Limit(1)

	rec, err := r.FindOne(ctx, q)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

// DeactivateAllForProduct flips active=false on every commissioning of
// the product. Returns the number of rows deactivated.
func (r *CommissioningRepo) DeactivateAllForProduct(ctx context.Context, productID id.ID) (int64, error) {
	sql, args, err := r.Builder().
		Update(r.TableName()).
		Set("active", false).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"product_id": productID}).
		Where(squirrel.Eq{"active": true}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build deactivate: %w", err)
	}

	result, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("deactivate commissionings: %w", err)
	}
	return result.RowsAffected(), nil
}
