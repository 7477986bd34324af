// Package main is the entry point for the assettrack API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"assettrack/internal/core/entity"
	"assettrack/internal/core/security"
	"assettrack/internal/domain"
	"assettrack/internal/domain/auth"
	"assettrack/internal/domain/commissioning"
	"assettrack/internal/domain/maintenance"
	"assettrack/internal/domain/product"
	v1 "assettrack/internal/infrastructure/http/v1"
	"assettrack/internal/infrastructure/http/v1/middleware"
	"assettrack/internal/infrastructure/storage/postgres"
	"assettrack/internal/infrastructure/storage/postgres/migrations"
	"assettrack/internal/infrastructure/storage/postgres/record_repo"
	"assettrack/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting assettrack server")

	// --- Database ---
	dsn := mustEnv("DATABASE_URL")
	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dsn))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	if err := migrations.Up(ctx, pool.Unwrap()); err != nil {
		log.Fatalw("failed to apply migrations", "error", err)
	}
	log.Info("migrations applied")

	txManager := postgres.NewTxManager(pool)

	// --- Repositories ---
	productRepo := record_repo.NewProductRepo(txManager)
	commissioningRepo := record_repo.NewCommissioningRepo(txManager)
	maintenanceRepo := record_repo.NewMaintenanceRepo(txManager)
	windowRepo := record_repo.NewWindowRepo(txManager)
	userRepo := record_repo.NewUserRepo(txManager)
	roleRepo := record_repo.NewRoleRepo(txManager)

	blobStore := postgres.NewBlobStore(txManager)

	activity, err := postgres.NewActivityService(txManager)
	if err != nil {
		log.Fatalw("failed to initialize activity history", "error", err)
	}

	// --- Auth ---
	jwtSecret := getEnv("JWT_SECRET", "your-secret-key-change-in-production")
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(jwtSecret))
	authService := auth.NewService(userRepo, roleRepo, jwtService, txManager)

	evaluator, err := security.NewEvaluator()
	if err != nil {
		log.Fatalw("failed to initialize policy evaluator", "error", err)
	}
	authorizer := middleware.NewAuthorizer(evaluator, authService)

	// --- Domain services ---
	statusService := product.NewStatusService(
		productRepo, commissioningRepo, maintenanceRepo, windowRepo, txManager)

	productService := product.NewService(productRepo, txManager, blobStore, statusService)
	commissioningService := commissioning.NewService(commissioningRepo, txManager, blobStore, statusService)
	maintenanceService := maintenance.NewService(
		maintenanceRepo, commissioningRepo, txManager, blobStore, statusService)

	catalogs := v1.CatalogServices{
		Countries:    newCatalogService(record_repo.NewCountryRepo(txManager), txManager, "country"),
		Companies:    newCatalogService(record_repo.NewCompanyRepo(txManager), txManager, "company"),
		Contacts:     newCatalogService(record_repo.NewContactRepo(txManager), txManager, "contact"),
		Facilities:   newCatalogService(record_repo.NewFacilityRepo(txManager), txManager, "facility"),
		Rooms:        newCatalogService(record_repo.NewRoomRepo(txManager), txManager, "room"),
		ProductTypes: newCatalogService(record_repo.NewProductTypeRepo(txManager), txManager, "product_type"),
		Windows:      newCatalogService(windowRepo, txManager, "maintenance_window"),
	}

	// --- Activity hooks ---
	registerActivityHooks(productService.RecordService, activity, "product")
	registerActivityHooks(commissioningService.RecordService, activity, "commissioning")
	registerActivityHooks(maintenanceService.RecordService, activity, "maintenance")
	registerActivityHooks(catalogs.Windows, activity, "maintenance_window")

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:           pool,
		Logger:         log,
		JWTValidator:   jwtService,
		AuthService:    authService,
		Authorizer:     authorizer,
		Products:       productService,
		Commissionings: commissioningService,
		Maintenances:   maintenanceService,
		Catalogs:       catalogs,
		Blobs:          blobStore,
		Activity:       activity,
		Reporter:       productRepo,
	})

	// --- HTTP server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func newCatalogService[T entity.Validatable](store domain.RecordStore[T], txManager *postgres.TxManager, name string) *domain.RecordService[T] {
	return domain.NewRecordService(domain.RecordServiceConfig[T]{
		Store:      store,
		TxManager:  txManager,
		EntityName: name,
	})
}

type audited interface {
	entity.Validatable
	Base() *entity.Record
}

// registerActivityHooks records every successful mutation in the
// activity history. Hook failures never fail the mutation.
func registerActivityHooks[T audited](svc *domain.RecordService[T], activity *postgres.ActivityService, entityName string) {
	logAction := func(action postgres.Action) domain.Hook[T] {
		return func(ctx context.Context, rec T) error {
			return activity.LogChange(ctx, entityName, rec.Base().ID, action, postgres.StructToMap(rec))
		}
	}
	svc.Hooks().On(domain.AfterCreate, logAction(postgres.ActionCreate))
	svc.Hooks().On(domain.AfterUpdate, logAction(postgres.ActionUpdate))
	svc.Hooks().On(domain.AfterDelete, logAction(postgres.ActionDelete))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}
