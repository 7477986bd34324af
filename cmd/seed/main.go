// Package main seeds development reference data: countries, a
// facility with a room, maintenance windows, an inspector role and an
// admin user. Safe to re-run; existing records are left alone.
package main

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"

	"assettrack/internal/core/apperror"
	"assettrack/internal/core/entity"
	"assettrack/internal/domain"
	"assettrack/internal/domain/auth"
	"assettrack/internal/domain/catalogs/country"
	"assettrack/internal/domain/catalogs/facility"
	"assettrack/internal/domain/catalogs/window"
	"assettrack/internal/domain/filter"
	"assettrack/internal/infrastructure/storage/postgres"
	"assettrack/internal/infrastructure/storage/postgres/migrations"
	"assettrack/internal/infrastructure/storage/postgres/record_repo"
	"assettrack/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{Level: "info", Development: true})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dsn))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	if err := migrations.Up(ctx, pool.Unwrap()); err != nil {
		log.Fatalw("failed to apply migrations", "error", err)
	}

	txManager := postgres.NewTxManager(pool)

	if err := seed(ctx, txManager); err != nil {
		log.Fatalw("seeding failed", "error", err)
	}
	log.Info("seeding complete")
}

func seed(ctx context.Context, txManager *postgres.TxManager) error {
	countryRepo := record_repo.NewCountryRepo(txManager)
	roomRepo := record_repo.NewRoomRepo(txManager)
	facilityRepo := record_repo.NewFacilityRepo(txManager)
	windowRepo := record_repo.NewWindowRepo(txManager)
	userRepo := record_repo.NewUserRepo(txManager)
	roleRepo := record_repo.NewRoleRepo(txManager)

	return txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		for _, name := range []string{"Netherlands", "Germany", "Belgium", "France"} {
			if err := ensure(ctx, countryRepo, "name", name, country.New(name)); err != nil {
				return err
			}
		}

		room := facility.NewRoom("Lab 1", "L1")
		room.Address = "Hoofdstraat 1, Amsterdam"
		if err := ensure(ctx, roomRepo, "code", room.Code, room); err != nil {
			return err
		}

		fac := facility.New("Main Campus")
		fac.RoomIDs = append(fac.RoomIDs, room.ID)
		if err := ensure(ctx, facilityRepo, "name", fac.Name, fac); err != nil {
			return err
		}

		quarterly := window.New("Quarterly inspection", window.Quarterly, 7, 14)
		if err := ensure(ctx, windowRepo, "name", quarterly.Name, quarterly); err != nil {
			return err
		}
		annual := window.New("Annual certification", window.Annually, 30, 30)
		if err := ensure(ctx, windowRepo, "name", annual.Name, annual); err != nil {
			return err
		}

		inspector := auth.NewRole("inspector", "Inspector")
		inspector.Description = "Read everything, manage commissioning and maintenance records"
		inspector.Policies = []auth.Policy{
			{Resource: "*", Action: "list"},
			{Resource: "*", Action: "get"},
			{Resource: "commissioning", Action: "*"},
			{Resource: "maintenance", Action: "*"},
		}
		if err := ensure(ctx, roleRepo, "code", inspector.Code, inspector); err != nil {
			return err
		}

		return seedAdmin(ctx, userRepo)
	})
}

func seedAdmin(ctx context.Context, users *record_repo.UserRepo) error {
	email := envOr("ADMIN_EMAIL", "admin@example.com")
	if _, err := users.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !apperror.IsNotFound(err) {
		return err
	}

	password := envOr("ADMIN_PASSWORD", "changeme123")
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := auth.NewUser(email, string(hash))
	admin.FirstName = "Admin"
	admin.IsAdmin = true
	return users.Create(ctx, admin)
}

// ensure inserts rec unless a record with the same field value exists.
func ensure[R entity.Validatable](ctx context.Context, store domain.RecordStore[R], field, value string, rec R) error {
	page, err := store.List(ctx, domain.ListQuery{
		Filters:   []filter.Item{filter.Eq(field, value)},
		CountOnly: true,
	})
	if err != nil {
		return err
	}
	if page.TotalDocs > 0 {
		return nil
	}
	return store.Create(ctx, rec)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
