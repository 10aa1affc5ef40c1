package services

import (
	"context"
	"sync"
	"testing"

	"atenciones-backend/internal/cache"
	"atenciones-backend/internal/models"
	"atenciones-backend/internal/repositories"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestComputeTwoVisitScenario(t *testing.T) {
	regions := []*models.Region{{ID: "1", Nombre: "Central"}, {ID: "2", Nombre: "Chorotega"}}
	agencies := []*models.Agency{{ID: "1", Nombre: "San José", RegionID: "1"}}
	visits := []*models.Visit{
		{ID: "1", Consecutivo: "2023-001", ProductorID: "1", AgenciaID: "1", Actividad: "Café",
			RequiereSeguimiento: true, MedioAtencionTipo: "Presencial", MedioAtencionSubtipo: "Oficina"},
		{ID: "2", Consecutivo: "2023-002", ProductorID: "2", AgenciaID: "1", Actividad: "Café",
			RequiereSeguimiento: false, MedioAtencionTipo: "Virtual", MedioAtencionSubtipo: "Teams"},
	}

	stats := Compute(visits, agencies, regions)

	assert.Equal(t, 2, stats.TotalAtenciones)
	assert.Equal(t, 2, stats.ProductoresUnicos)
	assert.Equal(t, 1, stats.AtencionesConSeguimiento)
	assert.Equal(t, 1, stats.AtencionesPresenciales)
	assert.Equal(t, []models.Stat{
		{Name: "Presencial - Oficina", Value: 1},
		{Name: "Presencial - Finca", Value: 0},
		{Name: "Virtual - Teams", Value: 1},
		{Name: "Virtual - Telefónico", Value: 0},
		{Name: "Virtual - Correo", Value: 0},
	}, stats.AtencionesMediaAtencion)
	assert.Equal(t, []models.Stat{{Name: "Central", Value: 2}, {Name: "Chorotega", Value: 0}}, stats.AtencionesRegion)
	assert.Equal(t, []models.Stat{{Name: "Café", Value: 2}}, stats.AtencionesActividad)
	assert.Equal(t, []models.Stat{{Name: models.ConSeguimiento, Value: 1}, {Name: models.SinSeguimiento, Value: 1}}, stats.AtencionesSeguimiento)
}

func TestComputeEmpty(t *testing.T) {
	stats := Compute(nil, nil, nil)
	assert.Zero(t, stats.TotalAtenciones)
	assert.NotNil(t, stats.AtencionesActividad)
	assert.Len(t, stats.AtencionesMediaAtencion, 5)
}

func TestComputeFollowUpBucketsSumToTotal(t *testing.T) {
	var visits []*models.Visit
	for i := 0; i < 7; i++ {
		visits = append(visits, &models.Visit{RequiereSeguimiento: i%3 == 0, MedioAtencionTipo: "Virtual", MedioAtencionSubtipo: "Fax"})
	}
	stats := Compute(visits, nil, nil)

	sum := 0
	for _, s := range stats.AtencionesSeguimiento {
		sum += s.Value
	}
	assert.Equal(t, stats.TotalAtenciones, sum)

	// unknown medium pairs are left out of the buckets
	for _, s := range stats.AtencionesMediaAtencion {
		assert.Zero(t, s.Value)
	}
}

func TestStatisticsInvalidatedByMutations(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	stats, err := f.stats.Statistics(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalAtenciones)

	v := f.create(t, visitRequest("101230456", "2024-03-01"))
	stats, err = f.stats.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalAtenciones)
	assert.Equal(t, 1, stats.AtencionesPresenciales)

	require.NoError(t, f.visits.DeleteVisit(ctx, officer, v.ID))
	stats, err = f.stats.Statistics(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalAtenciones)
}

func TestStatisticsServedFromRedis(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	f := newFixture(t)
	svc := NewStatsService(f.store, cache.New(client), zap.NewNop())

	_, err := svc.Statistics(ctx)
	require.NoError(t, err)
	assert.True(t, mr.Exists("dashboard:stats:0"))

	svc.Invalidate(ctx)
	assert.False(t, mr.Exists("dashboard:stats:0"))
	gen, err := mr.Get(cache.DashboardGeneration)
	require.NoError(t, err)
	assert.Equal(t, "1", gen)

	_, err = svc.Statistics(ctx)
	require.NoError(t, err)
	assert.True(t, mr.Exists("dashboard:stats:1"))
}

// listThenMutate runs mutate once, right after the first List snapshot is taken
type listThenMutate struct {
	repositories.VisitStore
	once   sync.Once
	mutate func()
}

func (l *listThenMutate) List(ctx context.Context) ([]*models.Visit, error) {
	visits, err := l.VisitStore.List(ctx)
	l.once.Do(l.mutate)
	return visits, err
}

func TestStatisticsNotCachedAcrossConcurrentMutation(t *testing.T) {
	tests := []struct {
		name  string
		cache func(t *testing.T) *cache.Cache
	}{
		{"memory", func(t *testing.T) *cache.Cache { return cache.New(nil) }},
		{"redis", func(t *testing.T) *cache.Cache {
			client := redis.NewClient(&redis.Options{Addr: miniredis.RunT(t).Addr()})
			t.Cleanup(func() { client.Close() })
			return cache.New(client)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t)
			f.create(t, visitRequest("101230456", "2024-03-01"))

			store := f.store
			store.Visits = &listThenMutate{
				VisitStore: f.store.Visits,
				mutate:     func() { f.create(t, visitRequest("203450678", "2024-03-02")) },
			}
			svc := NewStatsService(store, tt.cache(t), zap.NewNop())
			f.visits.Stats = svc

			stats, err := svc.Statistics(ctx)
			require.NoError(t, err)
			assert.Equal(t, 1, stats.TotalAtenciones, "computed from the earlier snapshot")

			stats, err = svc.Statistics(ctx)
			require.NoError(t, err)
			assert.Equal(t, 2, stats.TotalAtenciones)
		})
	}
}
