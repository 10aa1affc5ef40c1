// Package app wires stores, services and handlers into one HTTP handler.
package app

import (
	"context"
	"fmt"
	"net/http"

	"atenciones-backend/internal/archive"
	"atenciones-backend/internal/auth"
	"atenciones-backend/internal/cache"
	"atenciones-backend/internal/config"
	"atenciones-backend/internal/handlers"
	"atenciones-backend/internal/health"
	httprouter "atenciones-backend/internal/http"
	"atenciones-backend/internal/middleware"
	"atenciones-backend/internal/repositories"
	"atenciones-backend/internal/services"

	"go.uber.org/zap"
)

// Deps are the resources opened by the caller and owned by it
type Deps struct {
	Config *config.Config
	Logger *zap.Logger
	Store  repositories.Store
	// DB is nil for the memory store
	DB       health.Pinger
	Cache    *cache.Cache
	Archiver archive.Archiver
}

type App struct {
	Handler http.Handler
	Checker *health.HealthChecker
}

func New(ctx context.Context, d Deps) (*App, error) {
	if d.Cache == nil {
		d.Cache = cache.New(nil)
	}
	if d.Archiver == nil {
		a, err := archive.New(ctx, d.Config)
		if err != nil {
			return nil, fmt.Errorf("archive: %w", err)
		}
		d.Archiver = a
	}

	jwtManager := auth.NewJWTManager(d.Config)

	resolver := services.NewResolver(d.Store)
	statsService := services.NewStatsService(d.Store, d.Cache, d.Logger)
	visitService := services.NewVisitService(d.Store, resolver, statsService, d.Logger)
	producerService := services.NewProducerService(d.Store, resolver, statsService, d.Logger)
	catalogService := services.NewCatalogService(d.Store)
	userService := services.NewUserService(d.Store.Users, jwtManager)
	exportService := services.NewExportService(visitService, d.Archiver, d.Logger)
	reportService := services.NewReportService(visitService, producerService)

	checker := health.NewHealthChecker(d.DB, d.Cache, d.Config.Store.Driver)

	router := httprouter.NewRouter(
		handlers.NewAuthHandler(userService, d.Logger),
		handlers.NewVisitHandler(visitService, d.Logger),
		handlers.NewProducerHandler(producerService, d.Logger),
		handlers.NewCatalogHandler(catalogService, d.Logger),
		handlers.NewDashboardHandler(statsService, d.Logger),
		handlers.NewReportHandler(exportService, reportService, d.Logger),
		handlers.NewHealthHandler(checker),
		middleware.NewAuthMiddleware(jwtManager, d.Store.Users),
	)

	var h http.Handler = router
	h = middleware.NewCORS(d.Config)(h)
	h = middleware.RequestLogger(d.Logger)(h)
	h = middleware.PanicRecovery(d.Logger)(h)

	return &App{Handler: h, Checker: checker}, nil
}
