package record_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"assettrack/internal/core/apperror"
	"assettrack/internal/core/id"
	"assettrack/internal/domain/product"
	"assettrack/internal/infrastructure/storage/postgres"
)

// Compile-time check.
var _ product.Repository = (*ProductRepo)(nil)

// ProductRepo persists products. Status and schedule dates get direct
// writes outside the optimistic-locking path so a derived-field update
// never conflicts with a concurrent user edit.
type ProductRepo struct {
	*BaseRecordRepo[*product.Product]
}

// NewProductRepo creates the product repository.
func NewProductRepo(tm *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		BaseRecordRepo: NewBaseRecordRepo(
			"products",
			postgres.ExtractDBColumns[product.Product](),
			func() *product.Product { return &product.Product{} },
			tm,
		),
	}
}

// UpdateStatus persists a derived status.
func (r *ProductRepo) UpdateStatus(ctx context.Context, productID id.ID, status product.Status) error {
	sql, args, err := r.Builder().
		Update(r.TableName()).
		Set("status", status).
		Where(squirrel.Eq{"id": productID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build status update: %w", err)
	}

	result, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update product status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(r.TableName(), productID.String())
	}
	return nil
}

// UpdateMaintenanceDates persists the schedule band.
func (r *ProductRepo) UpdateMaintenanceDates(ctx context.Context, productID id.ID, min, next, max time.Time) error {
	sql, args, err := r.Builder().
		Update(r.TableName()).
		Set("min_maintenance_date", min).
		Set("maintenance_date", next).
		Set("max_maintenance_date", max).
		Where(squirrel.Eq{"id": productID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build maintenance dates update: %w", err)
	}

	result, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update product maintenance dates: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(r.TableName(), productID.String())
	}
	return nil
}

// CountByStatus returns the number of active products per status.
func (r *ProductRepo) CountByStatus(ctx context.Context) (map[product.Status]int64, error) {
	sql, args, err := r.Builder().
		Select("status", "COUNT(*)").
		From(r.TableName()).
		Where(squirrel.Eq{"active": true}).
		GroupBy("status").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build status summary: %w", err)
	}

	rows, err := r.Querier(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("status summary: %w", err)
	}
	defer rows.Close()

	out := make(map[product.Status]int64)
	for rows.Next() {
		var status product.Status
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan status summary: %w", err)
		}
		out[status] = count
	}
	return out, rows.Err()
}

// ListDueForMaintenance returns active products whose next due date
// falls on or before the cutoff.
func (r *ProductRepo) ListDueForMaintenance(ctx context.Context, cutoff time.Time) ([]*product.Product, error) {
	q := r.Builder().
		Select(postgres.ExtractDBColumns[product.Product]()...).
		From(r.TableName()).
		Where(squirrel.Eq{"active": true}).
		Where(squirrel.NotEq{"maintenance_date": nil}).
		Where(squirrel.LtOrEq{"maintenance_date": cutoff}).
		OrderBy("maintenance_date ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*product.Product
	if err := pgxscan.Select(ctx, r.Querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list due products: %w", err)
	}
	return items, nil
}
