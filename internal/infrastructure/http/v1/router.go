// Package v1 provides HTTP API version 1.
package v1

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"fuelrecon/internal/domain/delivery"
	"fuelrecon/internal/domain/dip"
	"fuelrecon/internal/domain/recon"
	"fuelrecon/internal/domain/reports"
	"fuelrecon/internal/domain/station"
	"fuelrecon/internal/infrastructure/http/v1/handlers"
	"fuelrecon/internal/infrastructure/http/v1/middleware"
	"fuelrecon/internal/infrastructure/storage/postgres"
	"fuelrecon/internal/infrastructure/storage/postgres/catalog_repo"
	"fuelrecon/internal/infrastructure/storage/postgres/record_repo"
	"fuelrecon/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Pool is the database connection pool (for health checks)
	Pool *postgres.Pool

	// TxManager wraps the pool for repositories
	TxManager *postgres.TxManager

	// Logger for request logging
	Logger *logger.Logger

	// Audit records dip batch submissions
	Audit *postgres.AuditService

	// FleetWorkers bounds per-station fan-out in fleet reports
	FleetWorkers int
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

	// Health endpoints
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// Repositories share the injected TxManager.
	dipRepo := record_repo.NewDipRepo(cfg.TxManager)
	deliveryRepo := record_repo.NewDeliveryRepo(cfg.TxManager)
	saleRepo := record_repo.NewSaleRepo(cfg.TxManager)
	overShortRepo := record_repo.NewOverShortRepo(cfg.TxManager)
	priceRepo := record_repo.NewPriceRepo(cfg.TxManager)
	stationRepo := catalog_repo.NewStationRepo(cfg.TxManager)

	// Services
	engine := recon.NewEngine(dipRepo, deliveryRepo, saleRepo, overShortRepo)
	reconciler := dip.ReconcilerFunc(func(ctx context.Context, stationID string, date time.Time) error {
		_, err := engine.ReconcileStationDay(ctx, stationID, date)
		return err
	})
	dipService := dip.NewService(dipRepo, deliveryRepo, reconciler, cfg.Audit, cfg.TxManager)

	deliveryService := delivery.NewService(deliveryRepo)
	stationService := station.NewService(stationRepo)

	var reportOpts []reports.Option
	if cfg.FleetWorkers > 0 {
		reportOpts = append(reportOpts, reports.WithFleetWorkers(cfg.FleetWorkers))
	}
	reportService := reports.NewService(overShortRepo, saleRepo, deliveryRepo, priceRepo, stationService, reportOpts...)

	baseHandler := handlers.NewBaseHandler()
	dipHandler := handlers.NewDipHandler(baseHandler, dipService, cfg.Audit)
	deliveryHandler := handlers.NewDeliveryHandler(baseHandler, deliveryService)
	overShortHandler := handlers.NewOverShortHandler(baseHandler, engine, overShortRepo)
	reportsHandler := handlers.NewReportsHandler(baseHandler, reportService)
	priceHandler := handlers.NewPriceHandler(baseHandler, priceRepo)
	stationHandler := handlers.NewStationHandler(baseHandler, stationService)

	// API v1
	api := router.Group("/api/v1")
	{
		dips := api.Group("/dips")
		{
			dips.POST("", dipHandler.CreateBatch)
			dips.GET("/:stationId", dipHandler.GetByDate)
			dips.GET("/:stationId/range", dipHandler.GetRange)
			dips.GET("/:stationId/audit", dipHandler.GetAuditHistory)
		}

		api.GET("/deliveries/:stationId", deliveryHandler.GetByDate)

		overshort := api.Group("/overshort")
		{
			overshort.GET("/:stationId", overShortHandler.GetByDate)
			overshort.GET("/:stationId/range", overShortHandler.GetRange)
			overshort.POST("/:stationId/recalculate", overShortHandler.Recalculate)
		}

		reportsGroup := api.Group("/reports")
		{
			reportsGroup.GET("/overshort/:stationId/month", reportsHandler.MonthlyOverShort)
			reportsGroup.GET("/overshort/:stationId/annual", reportsHandler.AnnualOverShort)
			reportsGroup.GET("/deliveries/:stationId/month", reportsHandler.MonthlyDeliveries)
			reportsGroup.GET("/sales/list", reportsHandler.FleetList)
			reportsGroup.GET("/sales/summary", reportsHandler.FleetSummary)
		}

		prices := api.Group("/fuel-prices")
		{
			prices.GET("/:stationId", priceHandler.GetByDate)
			prices.GET("/:stationId/range", priceHandler.GetRange)
		}

		stations := api.Group("/stations")
		{
			stations.GET("", stationHandler.List)
			stations.GET("/:stationId", stationHandler.Get)
			stations.GET("/:stationId/tanks", stationHandler.Tanks)
			stations.GET("/:stationId/fuel-types", stationHandler.FuelTypes)
		}
		api.PATCH("/station-tanks/:id/active", stationHandler.SetTankActive)
		api.GET("/tanks", stationHandler.TankModels)
	}

	return router
}
