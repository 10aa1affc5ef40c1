package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"atenciones-backend/internal/models"
	"atenciones-backend/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(t *testing.T) repositories.Store {
	t.Helper()
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.Regions.Create(ctx, &models.Region{ID: "1", Nombre: "Central"}))
	require.NoError(t, s.Agencies.Create(ctx, &models.Agency{ID: "1", Nombre: "San José", RegionID: "1"}))
	require.NoError(t, s.Users.Create(ctx, &models.User{ID: "2", Nombre: "Juan Pérez", Email: "juan@mag.go.cr", Rol: models.RoleFuncionario}))
	require.NoError(t, s.Producers.Create(ctx, &models.Producer{ID: "1", Cedula: "101230456", Nombre: "Juan Pérez Rodríguez"}))
	return s
}

func newVisit() *models.Visit {
	return &models.Visit{
		TipoContacto:         models.ContactoDirecto,
		Fecha:                time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		FuncionarioID:        "2",
		AgenciaID:            "1",
		ProductorID:          "1",
		Actividad:            "Café",
		MedioAtencionTipo:    models.MedioPresencial,
		MedioAtencionSubtipo: models.SubtipoOficina,
	}
}

func TestVisitCreateAllocatesIncreasingConsecutivo(t *testing.T) {
	ctx := context.Background()
	s := seeded(t)

	var got []string
	for i := 0; i < 3; i++ {
		v := newVisit()
		require.NoError(t, s.Visits.Create(ctx, v, 2024))
		got = append(got, v.Consecutivo)
	}
	assert.Equal(t, []string{"2024-001", "2024-002", "2024-003"}, got)

	v := newVisit()
	require.NoError(t, s.Visits.Create(ctx, v, 2025))
	assert.Equal(t, "2025-001", v.Consecutivo)
}

func TestVisitCreateConcurrentConsecutivoUnique(t *testing.T) {
	ctx := context.Background()
	s := seeded(t)

	const n = 50
	codes := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v := newVisit()
			if err := s.Visits.Create(ctx, v, 2024); err == nil {
				codes[i] = v.Consecutivo
			}
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for _, c := range codes {
		require.NotEmpty(t, c)
		assert.False(t, seen[c], "duplicate consecutivo %s", c)
		seen[c] = true
	}
	assert.True(t, seen["2024-050"])
}

func TestVisitCreateChecksReferences(t *testing.T) {
	s := seeded(t)
	v := newVisit()
	v.AgenciaID = "99"
	err := s.Visits.Create(context.Background(), v, 2024)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestVisitUpdateKeepsConsecutivo(t *testing.T) {
	ctx := context.Background()
	s := seeded(t)
	v := newVisit()
	require.NoError(t, s.Visits.Create(ctx, v, 2024))

	v.Consecutivo = "2099-999"
	v.Actividad = "Ganadería"
	require.NoError(t, s.Visits.Update(ctx, v))

	got, err := s.Visits.Get(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-001", got.Consecutivo)
	assert.Equal(t, "Ganadería", got.Actividad)
}

func TestProducerDeleteGuard(t *testing.T) {
	ctx := context.Background()
	s := seeded(t)

	v := newVisit()
	require.NoError(t, s.Visits.Create(ctx, v, 2024))
	assert.ErrorIs(t, s.Producers.Delete(ctx, "1"), repositories.ErrReferenced)

	require.NoError(t, s.Visits.Delete(ctx, v.ID))
	assert.NoError(t, s.Producers.Delete(ctx, "1"))
	_, err := s.Producers.Get(ctx, "1")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestProducerCedulaUnique(t *testing.T) {
	ctx := context.Background()
	s := seeded(t)

	err := s.Producers.Create(ctx, &models.Producer{Cedula: "101230456", Nombre: "Otro"})
	assert.ErrorIs(t, err, repositories.ErrDuplicate)

	other := &models.Producer{Cedula: "203450678", Nombre: "María González"}
	require.NoError(t, s.Producers.Create(ctx, other))
	other.Cedula = "101230456"
	assert.ErrorIs(t, s.Producers.Update(ctx, other), repositories.ErrDuplicate)
}

func TestProducerSearchOrdersByNameWithCounts(t *testing.T) {
	ctx := context.Background()
	s := seeded(t)
	require.NoError(t, s.Producers.Create(ctx, &models.Producer{Cedula: "405670891", Nombre: "Ana Ramírez", Correo: "ana.productora@email.com"}))
	require.NoError(t, s.Visits.Create(ctx, newVisit(), 2024))

	all, err := s.Producers.Search(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Ana Ramírez", all[0].Nombre)
	assert.Equal(t, 0, all[0].TotalAtenciones)
	assert.Equal(t, 1, all[1].TotalAtenciones)

	byMail, err := s.Producers.Search(ctx, "PRODUCTORA@")
	require.NoError(t, err)
	require.Len(t, byMail, 1)
	assert.Equal(t, "405670891", byMail[0].Cedula)

	for _, q := range []string{"_", "%"} {
		found, err := s.Producers.Search(ctx, q)
		require.NoError(t, err)
		assert.Empty(t, found, q)
	}
}

func TestAgencyListByRegion(t *testing.T) {
	ctx := context.Background()
	s := seeded(t)
	require.NoError(t, s.Regions.Create(ctx, &models.Region{ID: "2", Nombre: "Chorotega"}))
	require.NoError(t, s.Agencies.Create(ctx, &models.Agency{ID: "3", Nombre: "Liberia", RegionID: "2"}))
	assert.ErrorIs(t, s.Agencies.Create(ctx, &models.Agency{Nombre: "X", RegionID: "9"}), repositories.ErrNotFound)

	agencies, err := s.Agencies.ListByRegion(ctx, "2")
	require.NoError(t, err)
	require.Len(t, agencies, 1)
	assert.Equal(t, "Liberia", agencies[0].Nombre)

	all, err := s.Agencies.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
