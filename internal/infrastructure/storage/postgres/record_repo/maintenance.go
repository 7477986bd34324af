package record_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"assettrack/internal/core/id"
	"assettrack/internal/domain/maintenance"
	"assettrack/internal/infrastructure/storage/postgres"
)

// Compile-time check.
var _ maintenance.Repository = (*MaintenanceRepo)(nil)

// MaintenanceRepo persists maintenance events.
type MaintenanceRepo struct {
	*BaseRecordRepo[*maintenance.Maintenance]
}

// NewMaintenanceRepo creates the maintenance repository.
func NewMaintenanceRepo(tm *postgres.TxManager) *MaintenanceRepo {
	return &MaintenanceRepo{
		BaseRecordRepo: NewBaseRecordRepo(
			"maintenances",
			postgres.ExtractDBColumns[maintenance.Maintenance](),
			func() *maintenance.Maintenance { return &maintenance.Maintenance{} },
			tm,
		),
	}
}

// ListActiveByProduct returns the product's active maintenance events,
// newest first.
func (r *MaintenanceRepo) ListActiveByProduct(ctx context.Context, productID id.ID) ([]*maintenance.Maintenance, error) {
	sql, args, err := r.Builder().
		Select(postgres.ExtractDBColumns[maintenance.Maintenance]()...).
		From(r.TableName()).
		Where(squirrel.Eq{"product_id": productID}).
		Where(squirrel.Eq{"active": true}).
		OrderBy("date DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*maintenance.Maintenance
	if err := pgxscan.Select(ctx, r.Querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list maintenances: %w", err)
	}
	return items, nil
}
