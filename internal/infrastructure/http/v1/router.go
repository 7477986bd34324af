// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"assettrack/internal/domain"
	"assettrack/internal/domain/auth"
	"assettrack/internal/domain/blob"
	"assettrack/internal/domain/catalogs/company"
	"assettrack/internal/domain/catalogs/contact"
	"assettrack/internal/domain/catalogs/country"
	"assettrack/internal/domain/catalogs/facility"
	"assettrack/internal/domain/catalogs/producttype"
	"assettrack/internal/domain/catalogs/window"
	"assettrack/internal/domain/commissioning"
	"assettrack/internal/domain/maintenance"
	"assettrack/internal/domain/product"
	"assettrack/internal/infrastructure/http/v1/handlers"
	"assettrack/internal/infrastructure/http/v1/middleware"
	"assettrack/internal/infrastructure/storage/postgres"
	"assettrack/pkg/logger"
)

// CatalogServices bundles the record services for the plain reference
// catalogs.
type CatalogServices struct {
	Countries    *domain.RecordService[*country.Country]
	Companies    *domain.RecordService[*company.Company]
	Contacts     *domain.RecordService[*contact.Contact]
	Facilities   *domain.RecordService[*facility.Facility]
	Rooms        *domain.RecordService[*facility.Room]
	ProductTypes *domain.RecordService[*producttype.ProductType]
	Windows      *domain.RecordService[*window.MaintenanceWindow]
}

// RouterConfig holds everything the router wires up.
type RouterConfig struct {
	Pool   *postgres.Pool
	Logger *logger.Logger

	JWTValidator middleware.JWTValidator
	AuthService  *auth.Service
	Authorizer   *middleware.Authorizer

	Products       *product.Service
	Commissionings *commissioning.Service
	Maintenances   *maintenance.Service
	Catalogs       CatalogServices

	Blobs    blob.Store
	Activity *postgres.ActivityService
	Reporter handlers.StatusReporter
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	base := handlers.NewBaseHandler()

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	api := router.Group("/api/v1")
	{
		authHandler := handlers.NewAuthHandler(base, cfg.AuthService)
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		protected := api.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))

		protected.GET("/auth/me", authHandler.Me)
		protected.POST("/auth/refresh", authHandler.Refresh)

		registerCatalogRoutes(protected, base, cfg)
		registerProductRoutes(protected, base, cfg)
		registerFileRoutes(protected, base, cfg)
		registerReportRoutes(protected, base, cfg)
	}

	return router
}

func registerCatalogRoutes(group *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	authz := cfg.Authorizer
	cat := cfg.Catalogs

	RegisterRecordRoutes(group.Group("/countries"),
		handlers.NewRecordHandler(base, cat.Countries, func() *country.Country { return &country.Country{} }),
		authz, "country")
	RegisterRecordRoutes(group.Group("/companies"),
		handlers.NewRecordHandler(base, cat.Companies, func() *company.Company { return &company.Company{} }),
		authz, "company")
	RegisterRecordRoutes(group.Group("/contacts"),
		handlers.NewRecordHandler(base, cat.Contacts, func() *contact.Contact { return &contact.Contact{} }),
		authz, "contact")
	RegisterRecordRoutes(group.Group("/facilities"),
		handlers.NewRecordHandler(base, cat.Facilities, func() *facility.Facility { return &facility.Facility{} }),
		authz, "facility")
	RegisterRecordRoutes(group.Group("/rooms"),
		handlers.NewRecordHandler(base, cat.Rooms, func() *facility.Room { return &facility.Room{} }),
		authz, "room")
	RegisterRecordRoutes(group.Group("/product-types"),
		handlers.NewRecordHandler(base, cat.ProductTypes, func() *producttype.ProductType { return &producttype.ProductType{} }),
		authz, "product_type")
	RegisterRecordRoutes(group.Group("/maintenance-windows"),
		handlers.NewRecordHandler(base, cat.Windows, func() *window.MaintenanceWindow { return &window.MaintenanceWindow{} }),
		authz, "maintenance_window")
}

func registerProductRoutes(group *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	authz := cfg.Authorizer

	productHandler := handlers.NewProductHandler(base, cfg.Products)
	products := group.Group("/products")
	RegisterRecordRoutes(products, productHandler, authz, "product")
	products.GET("/:id/photo", authz.Require("product", "get"), productHandler.Photo)
	products.POST("/:id/recalculate-bounds", authz.Require("product", "update"), productHandler.RecalculateBounds)

	commissioningHandler := handlers.NewCommissioningHandler(base, cfg.Commissionings, cfg.Activity)
	commissionings := group.Group("/commissionings")
	RegisterRecordRoutes(commissionings, commissioningHandler, authz, "commissioning")
	commissionings.POST("/:id/decommission", authz.Require("commissioning", "delete"), commissioningHandler.Decommission)

	maintenanceHandler := handlers.NewMaintenanceHandler(base, cfg.Maintenances)
	RegisterRecordRoutes(group.Group("/maintenances"), maintenanceHandler, authz, "maintenance")
}

func registerFileRoutes(group *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	authz := cfg.Authorizer

	fileHandler := handlers.NewFileHandler(base, cfg.Blobs)
	files := group.Group("/files")
	files.POST("", authz.Require("file", "create"), fileHandler.Upload)
	files.GET("/:id", authz.Require("file", "get"), fileHandler.Download)

	activityHandler := handlers.NewActivityHandler(base, cfg.Activity)
	group.GET("/activity/:entityType/:id", authz.Require("activity", "list"), activityHandler.History)
}

func registerReportRoutes(group *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	authz := cfg.Authorizer

	reportHandler := handlers.NewReportHandler(base, cfg.Reporter)
	reports := group.Group("/reports")
	reports.GET("/status-summary", authz.Require("report", "list"), reportHandler.StatusSummary)
	reports.GET("/due-maintenance", authz.Require("report", "list"), reportHandler.DueForMaintenance)
}
