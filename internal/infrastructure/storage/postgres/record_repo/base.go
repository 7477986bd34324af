// Package record_repo provides the PostgreSQL implementation of the
// generic record store. Entity repositories embed BaseRecordRepo and
// add their read-side queries.
package record_repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"assettrack/internal/core/apperror"
	"assettrack/internal/core/entity"
	"assettrack/internal/core/id"
	"assettrack/internal/domain"
	"assettrack/internal/domain/filter"
	"assettrack/internal/infrastructure/storage/postgres"
)

// BaseRecordRepo provides the shared CRUD operations over one table.
// All statements run through the transaction manager's querier, so a
// transaction carried by ctx is picked up transparently.
type BaseRecordRepo[T entity.Validatable] struct {
	tableName  string
	selectCols []string
	newFn      func() T
	tm         *postgres.TxManager
}

// NewBaseRecordRepo creates a base repository for one table.
func NewBaseRecordRepo[T entity.Validatable](
	tableName string,
	selectCols []string,
	newFn func() T,
	tm *postgres.TxManager,
) *BaseRecordRepo[T] {
	return &BaseRecordRepo[T]{
		tableName:  tableName,
		selectCols: selectCols,
		newFn:      newFn,
		tm:         tm,
	}
}

// Builder returns a squirrel builder with PostgreSQL placeholders.
func (r *BaseRecordRepo[T]) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Querier returns the active transaction or the pool.
func (r *BaseRecordRepo[T]) Querier(ctx context.Context) postgres.Querier {
	return r.tm.GetQuerier(ctx)
}

// TableName returns the backing table.
func (r *BaseRecordRepo[T]) TableName() string {
	return r.tableName
}

// Create inserts a new record using its "db" tags.
func (r *BaseRecordRepo[T]) Create(ctx context.Context, rec T) error {
	data := postgres.StructToMap(rec)
	if len(data) == 0 {
		return fmt.Errorf("no db tags found in entity")
	}

	// only columns the table actually has
	filtered := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}

	sql, args, err := r.Builder().
		Insert(r.tableName).
		SetMap(filtered).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", r.tableName, err)
	}
	return nil
}

// Update modifies an existing record with optimistic locking. The
// identifier and version never appear in the SET list; the version is
// advanced by the statement itself.
func (r *BaseRecordRepo[T]) Update(ctx context.Context, rec T) error {
	data := postgres.StructToMap(rec)
	if len(data) == 0 {
		return fmt.Errorf("no db tags found in entity")
	}

	recID, ok := data["id"]
	if !ok {
		return fmt.Errorf("entity has no 'id' field with db tag")
	}
	version, ok := data["version"].(int)
	if !ok {
		return fmt.Errorf("entity has no 'version' field or it is not an int")
	}

	filtered := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		if col == "id" || col == "version" {
			continue
		}
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}

	sql, args, err := r.Builder().
		Update(r.tableName).
		SetMap(filtered).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": recID}).
		Where(squirrel.Eq{"version": version}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", r.tableName, err)
	}

	if result.RowsAffected() == 0 {
		exists, err := r.Exists(ctx, recID.(id.ID))
		if err != nil {
			return err
		}
		if !exists {
			return apperror.NewNotFound(r.tableName, recID)
		}
		return apperror.NewConcurrentModification(r.tableName, recID)
	}

	// keep the caller's struct in step with the row the statement wrote
	bumpVersion(rec)
	return nil
}

func bumpVersion(rec any) {
	if b, ok := rec.(interface{ Base() *entity.Record }); ok {
		b.Base().Touch()
	}
}

func (r *BaseRecordRepo[T]) baseSelect() squirrel.SelectBuilder {
	return r.Builder().
		Select(r.selectCols...).
		From(r.tableName)
}

// GetByID retrieves a record by ID, active or not.
func (r *BaseRecordRepo[T]) GetByID(ctx context.Context, recID id.ID) (T, error) {
	rec := r.newFn()

	sql, args, err := r.baseSelect().
		Where(squirrel.Eq{"id": recID}).
		Limit(1).
		ToSql()
	if err != nil {
		return rec, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.Querier(ctx), rec, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return rec, apperror.NewNotFound(r.tableName, recID.String())
		}
		return rec, fmt.Errorf("get by id: %w", err)
	}
	return rec, nil
}

// List retrieves records with filtering, multi-term ordering and
// pagination.
func (r *BaseRecordRepo[T]) List(ctx context.Context, lq domain.ListQuery) (domain.Page[T], error) {
	var page domain.Page[T]

	q := r.baseSelect()
	if !lq.IncludeInactive {
		q = q.Where(squirrel.Eq{"active": true})
	}

	var err error
	q, err = r.applyFilters(q, lq.Filters)
	if err != nil {
		return page, err
	}

	// total before pagination
	countSQL, countArgs, err := r.Builder().
		Select("COUNT(*)").
		FromSelect(q, "sub").
		ToSql()
	if err != nil {
		return page, fmt.Errorf("build count query: %w", err)
	}
	if err := r.Querier(ctx).QueryRow(ctx, countSQL, countArgs...).Scan(&page.TotalDocs); err != nil {
		return page, fmt.Errorf("count %s: %w", r.tableName, err)
	}
	if lq.CountOnly {
		return page, nil
	}

	terms, err := r.parseOrderBy(lq.OrderBy)
	if err != nil {
		return page, err
	}
	q = q.OrderBy(terms...)

	if lq.Page != nil && lq.Page.Paginate {
		limit := lq.Page.Limit
		if limit <= 0 {
			limit = 50
		}
		pageNum := lq.Page.Page
		if pageNum <= 0 {
			pageNum = 1
		}
		page.Page = pageNum
		page.Limit = limit
		page.TotalPages = int((page.TotalDocs + int64(limit) - 1) / int64(limit))
		q = q.Limit(uint64(limit)).Offset(uint64((pageNum - 1) * limit))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return page, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, r.Querier(ctx), &page.Docs, sql, args...); err != nil {
		return page, fmt.Errorf("list %s: %w", r.tableName, err)
	}
	return page, nil
}

// applyFilters translates filter items into WHERE clauses. Columns are
// whitelisted against the table's select list.
func (r *BaseRecordRepo[T]) applyFilters(q squirrel.SelectBuilder, items []filter.Item) (squirrel.SelectBuilder, error) {
	validCols := make(map[string]bool, len(r.selectCols))
	for _, col := range r.selectCols {
		validCols[col] = true
	}

	for _, item := range items {
		if !validCols[item.Field] {
			return q, apperror.NewValidation("invalid filter column").
				WithDetail("field", item.Field)
		}

		switch item.Operator {
		case filter.Equal, filter.InList:
			q = q.Where(squirrel.Eq{item.Field: item.Value})
		case filter.NotEqual, filter.NotInList:
			q = q.Where(squirrel.NotEq{item.Field: item.Value})
		case filter.LessOrEqual:
			q = q.Where(squirrel.LtOrEq{item.Field: item.Value})
		case filter.GreaterOrEqual:
			q = q.Where(squirrel.GtOrEq{item.Field: item.Value})
		case filter.Less:
			q = q.Where(squirrel.Lt{item.Field: item.Value})
		case filter.Greater:
			q = q.Where(squirrel.Gt{item.Field: item.Value})
		case filter.IsNull:
			q = q.Where(squirrel.Eq{item.Field: nil})
		case filter.IsNotNull:
			q = q.Where(squirrel.NotEq{item.Field: nil})
		case filter.Contains:
			q = q.Where(squirrel.ILike{item.Field: fmt.Sprintf("%%%v%%", item.Value)})
		case filter.NotContains:
			q = q.Where(squirrel.NotILike{item.Field: fmt.Sprintf("%%%v%%", item.Value)})
		default:
			return q, apperror.NewValidation("unknown filter operator").
				WithDetail("operator", string(item.Operator))
		}
	}
	return q, nil
}

// parseOrderBy validates sort terms against the column whitelist and
// renders them in list order. Defaults to id ASC, which follows
// creation order for UUIDv7 keys.
func (r *BaseRecordRepo[T]) parseOrderBy(terms []domain.OrderBy) ([]string, error) {
	if len(terms) == 0 {
		return []string{"id ASC"}, nil
	}

	validCols := make(map[string]bool, len(r.selectCols))
	for _, col := range r.selectCols {
		validCols[col] = true
	}

	out := make([]string, 0, len(terms))
	for _, term := range terms {
		field := strings.TrimSpace(term.Field)
		if !validCols[field] {
			return nil, apperror.NewValidation("invalid orderBy field").
				WithDetail("field", term.Field)
		}
		dir := "ASC"
		switch term.Direction {
		case domain.Asc, "":
		case domain.Desc:
			dir = "DESC"
		default:
			return nil, apperror.NewValidation("invalid orderBy direction").
				WithDetail("direction", string(term.Direction))
		}
		out = append(out, field+" "+dir)
	}
	return out, nil
}

// SoftDelete sets active=false. True iff the flag transitioned; a
// second delete is a no-op returning false.
func (r *BaseRecordRepo[T]) SoftDelete(ctx context.Context, recID id.ID) (bool, error) {
	sql, args, err := r.Builder().
		Update(r.tableName).
		Set("active", false).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": recID}).
		Where(squirrel.Eq{"active": true}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build soft delete: %w", err)
	}

	result, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return false, fmt.Errorf("soft delete %s: %w", r.tableName, err)
	}
	if result.RowsAffected() > 0 {
		return true, nil
	}

	exists, err := r.Exists(ctx, recID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, apperror.NewNotFound(r.tableName, recID.String())
	}
	return false, nil
}

// Exists checks if a record with the given ID exists.
func (r *BaseRecordRepo[T]) Exists(ctx context.Context, recID id.ID) (bool, error) {
	sql, args, err := r.Builder().
		Select("1").
		From(r.tableName).
		Where(squirrel.Eq{"id": recID}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var one int
	err = r.Querier(ctx).QueryRow(ctx, sql, args...).Scan(&one)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists: %w", err)
	}
	return true, nil
}

// FindOne executes a caller-built SELECT and scans a single record.
func (r *BaseRecordRepo[T]) FindOne(ctx context.Context, q squirrel.SelectBuilder) (T, error) {
	rec := r.newFn()

	sql, args, err := q.ToSql()
	if err != nil {
		return rec, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.Querier(ctx), rec, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return rec, apperror.NewNotFound(r.tableName, "matching query")
		}
		return rec, fmt.Errorf("find one: %w", err)
	}
	return rec, nil
}
