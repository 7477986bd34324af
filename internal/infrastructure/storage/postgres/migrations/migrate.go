// Package migrations applies the database schema using goose.
// Migration files are embedded so deployments need no external files.
package migrations

import (
	"context"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"assettrack/internal/core/apperror"
)

//go:embed *.sql
var embedded embed.FS

// Up applies all pending migrations against the pool's database.
func Up(ctx context.Context, pool *pgxpool.Pool) error {
	goose.SetBaseFS(embedded)

	if err := goose.SetDialect("postgres"); err != nil {
		return apperror.NewInternal(fmt.Errorf("set migration dialect: %w", err))
	}

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return apperror.NewInternal(fmt.Errorf("apply migrations: %w", err))
	}
	return nil
}
