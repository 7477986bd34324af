package record_repo

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"assettrack/internal/core/id"
	"assettrack/internal/domain/auth"
	"assettrack/internal/infrastructure/storage/postgres"
)

// Compile-time checks.
var (
	_ auth.UserRepository = (*UserRepo)(nil)
	_ auth.RoleRepository = (*RoleRepo)(nil)
)

// UserRepo persists users.
type UserRepo struct {
	*BaseRecordRepo[*auth.User]
}

// NewUserRepo creates the user repository.
func NewUserRepo(tm *postgres.TxManager) *UserRepo {
	return &UserRepo{
		BaseRecordRepo: NewBaseRecordRepo(
			"users",
			postgres.ExtractDBColumns[auth.User](),
			func() *auth.User { return &auth.User{} },
			tm,
		),
	}
}

// GetByEmail returns the active user with the given email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	q := r.Builder().
		Select(postgres.ExtractDBColumns[auth.User]()...).
		From(r.TableName()).
		Where(squirrel.Eq{"email": email}).
		Limit(1)

	return r.FindOne(ctx, q)
}

// RoleRepo persists roles.
type RoleRepo struct {
	*BaseRecordRepo[*auth.Role]
}

// NewRoleRepo creates the role repository.
func NewRoleRepo(tm *postgres.TxManager) *RoleRepo {
	return &RoleRepo{
		BaseRecordRepo: NewBaseRecordRepo(
			"roles",
			postgres.ExtractDBColumns[auth.Role](),
			func() *auth.Role { return &auth.Role{} },
			tm,
		),
	}
}

// GetByIDs loads roles by id set.
func (r *RoleRepo) GetByIDs(ctx context.Context, ids []id.ID) ([]*auth.Role, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	sql, args, err := r.Builder().
		Select(postgres.ExtractDBColumns[auth.Role]()...).
		From(r.TableName()).
		Where(squirrel.Eq{"id": ids}).
		Where(squirrel.Eq{"active": true}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var roles []*auth.Role
	if err := pgxscan.Select(ctx, r.Querier(ctx), &roles, sql, args...); err != nil {
		return nil, err
	}
	return roles, nil
}
