package app

import (
	"context"

	"applianceassist/config"
	"applianceassist/internal/database"
	"applianceassist/internal/diagnosis"
	"applianceassist/internal/events"
	"applianceassist/internal/handlers/middleware"
	"applianceassist/internal/logger"
	"applianceassist/internal/metrics"
	"applianceassist/internal/repositories"
	"applianceassist/internal/services"
	"applianceassist/internal/websockets"

	adminController "applianceassist/internal/controllers/admin"
	authController "applianceassist/internal/controllers/auth"
	diagnosisController "applianceassist/internal/controllers/diagnosis"
	serviceAreaController "applianceassist/internal/controllers/serviceArea"
	serviceRequestController "applianceassist/internal/controllers/serviceRequest"
)

type App struct {
	Database   database.DB
	Middleware middleware.Middleware
	Websocket  *websockets.Manager
	EventBus   *events.EventBus
	Metrics    *metrics.Metrics
	Config     config.Config

	// Services
	TransactionService       *services.TransactionService
	CacheInvalidationService *services.CacheInvalidationService
	ServiceAreaService       *services.ServiceAreaService

	// Repositories
	ServiceRequestRepo repositories.ServiceRequestRepository

	// Controllers
	ServiceRequestController *serviceRequestController.ServiceRequestController
	AdminController          *adminController.AdminController
	DiagnosisController      *diagnosisController.DiagnosisController
	AuthController           *authController.AuthController
	ServiceAreaController    *serviceAreaController.ServiceAreaController
}

type options struct {
	diagnoser diagnosis.Diagnoser
	repoOpts  []repositories.Option
}

type Option func(*options)

// WithDiagnoser skips provider construction. Tests use it to avoid the network.
func WithDiagnoser(diagnoser diagnosis.Diagnoser) Option {
	return func(o *options) { o.diagnoser = diagnoser }
}

func WithRepositoryOptions(opts ...repositories.Option) Option {
	return func(o *options) { o.repoOpts = append(o.repoOpts, opts...) }
}

// Build wires the application from an already loaded config and applies
// pending migrations.
func Build(ctx context.Context, config config.Config, opts ...Option) (*App, error) {
	log := logger.New("app").Function("Build")

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	if _, err := db.Migrate(); err != nil {
		_ = db.Close()
		return &App{}, log.Err("failed to migrate database", err)
	}

	diagnoser := o.diagnoser
	if diagnoser == nil {
		provider, err := diagnosis.New(ctx, config)
		if err != nil {
			log.Warn("diagnosis provider unavailable, diagnosis requests will fail", "error", err)
			diagnoser = diagnosis.Unavailable(err)
		} else {
			diagnoser = provider
		}
	}

	eventBus := events.New()
	appMetrics := metrics.New()

	// Initialize services
	transactionService := services.NewTransactionService(db)
	cacheInvalidationService := services.NewCacheInvalidationService(eventBus, db.Cache.Orders)
	serviceAreaService := services.NewServiceAreaService(config.Areas())

	// Initialize repositories
	serviceRequestRepo := repositories.NewServiceRequest(db, o.repoOpts...)

	// Initialize controllers with repositories and services
	middleware := middleware.New(config, appMetrics)
	serviceRequestController := serviceRequestController.New(
		serviceRequestRepo,
		cacheInvalidationService,
		appMetrics,
	)
	adminController := adminController.New(serviceRequestRepo, cacheInvalidationService, appMetrics)
	diagnosisController := diagnosisController.New(diagnoser, appMetrics)
	authController := authController.New(config, appMetrics)
	serviceAreaController := serviceAreaController.New(serviceAreaService, appMetrics)

	websocket, err := websockets.New(eventBus)
	if err != nil {
		_ = eventBus.Close()
		_ = db.Close()
		return &App{}, log.Err("failed to create websocket manager", err)
	}

	app := &App{
		Database:                 db,
		Config:                   config,
		Middleware:               middleware,
		Metrics:                  appMetrics,
		TransactionService:       transactionService,
		CacheInvalidationService: cacheInvalidationService,
		ServiceAreaService:       serviceAreaService,
		ServiceRequestRepo:       serviceRequestRepo,
		ServiceRequestController: serviceRequestController,
		AdminController:          adminController,
		DiagnosisController:      diagnosisController,
		AuthController:           authController,
		ServiceAreaController:    serviceAreaController,
		Websocket:                websocket,
		EventBus:                 eventBus,
	}

	if err := app.validate(); err != nil {
		_ = app.Close()
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []struct {
		name  string
		isNil bool
	}{
		{"websocket", a.Websocket == nil},
		{"eventBus", a.EventBus == nil},
		{"metrics", a.Metrics == nil},
		{"transactionService", a.TransactionService == nil},
		{"cacheInvalidationService", a.CacheInvalidationService == nil},
		{"serviceAreaService", a.ServiceAreaService == nil},
		{"serviceRequestRepo", a.ServiceRequestRepo == nil},
		{"serviceRequestController", a.ServiceRequestController == nil},
		{"adminController", a.AdminController == nil},
		{"diagnosisController", a.DiagnosisController == nil},
		{"authController", a.AuthController == nil},
		{"serviceAreaController", a.ServiceAreaController == nil},
	}

	for _, check := range nilChecks {
		if check.isNil {
			return log.Error("nil check failed", "component", check.name)
		}
	}

	return nil
}

// Close stops the live feed before the bus and the bus before the database.
func (a *App) Close() (err error) {
	if a.Websocket != nil {
		if closeErr := a.Websocket.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
