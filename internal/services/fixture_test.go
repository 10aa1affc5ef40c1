package services

import (
	"context"
	"testing"
	"time"

	"atenciones-backend/internal/cache"
	"atenciones-backend/internal/models"
	"atenciones-backend/internal/repositories"
	"atenciones-backend/internal/repositories/memory"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var officer = models.Caller{ID: "2", Nombre: "Juan Pérez", Email: "juan@mag.go.cr", Rol: models.RoleFuncionario}

type fixture struct {
	store     repositories.Store
	stats     *StatsService
	visits    *VisitService
	producers *ProducerService
	catalog   *CatalogService
}

// newFixture seeds two regions with one agency each and one officer
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	require.NoError(t, store.Regions.Create(ctx, &models.Region{ID: "1", Nombre: "Central"}))
	require.NoError(t, store.Regions.Create(ctx, &models.Region{ID: "2", Nombre: "Huetar Norte"}))
	require.NoError(t, store.Agencies.Create(ctx, &models.Agency{ID: "1", Nombre: "San José", RegionID: "1"}))
	require.NoError(t, store.Agencies.Create(ctx, &models.Agency{ID: "2", Nombre: "Ciudad Quesada", RegionID: "2"}))
	require.NoError(t, store.Users.Create(ctx, &models.User{ID: "2", Nombre: "Juan Pérez", Email: "juan@mag.go.cr", Rol: models.RoleFuncionario}))

	logger := zap.NewNop()
	resolver := NewResolver(store)
	stats := NewStatsService(store, cache.New(nil), logger)
	visits := NewVisitService(store, resolver, stats, logger)
	visits.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }

	return &fixture{
		store:     store,
		stats:     stats,
		visits:    visits,
		producers: NewProducerService(store, resolver, stats, logger),
		catalog:   NewCatalogService(store),
	}
}

func visitRequest(cedula, fecha string) *models.CreateVisitRequest {
	return &models.CreateVisitRequest{
		CedulaProductor:     cedula,
		NombreProductor:     "Productor " + cedula,
		TelefonoProductor:   "8888-0000",
		TipoContacto:        models.ContactoDirecto,
		Fecha:               fecha,
		AgenciaID:           "1",
		Actividad:           "Café",
		AreaAtendida:        "Producción",
		MedioAtencion:       models.MedioAtencion{Tipo: models.MedioPresencial, Subtipo: models.SubtipoOficina},
		AsuntoRecomendacion: "Control de roya",
	}
}

func (f *fixture) create(t *testing.T, req *models.CreateVisitRequest) *models.Visit {
	t.Helper()
	v, err := f.visits.CreateVisit(context.Background(), officer, req)
	require.NoError(t, err)
	return v
}
