package services

import (
	"context"
	"testing"

	"atenciones-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProducerConflict(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	p, err := f.producers.CreateProducer(ctx, officer, &models.CreateProducerRequest{Cedula: "101230456", Nombre: "Juan Pérez"})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)

	_, err = f.producers.CreateProducer(ctx, officer, &models.CreateProducerRequest{Cedula: "101230456", Nombre: "Otro"})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = f.producers.CreateProducer(ctx, officer, &models.CreateProducerRequest{Cedula: "", Nombre: "Sin cédula"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.producers.CreateProducer(ctx, models.Caller{}, &models.CreateProducerRequest{Cedula: "1", Nombre: "x"})
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestUpdateProducerCedulaConflict(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	a, err := f.producers.CreateProducer(ctx, officer, &models.CreateProducerRequest{Cedula: "111", Nombre: "Ana"})
	require.NoError(t, err)
	_, err = f.producers.CreateProducer(ctx, officer, &models.CreateProducerRequest{Cedula: "222", Nombre: "Beto"})
	require.NoError(t, err)

	taken := "222"
	_, err = f.producers.UpdateProducer(ctx, officer, a.ID, &models.UpdateProducerRequest{Cedula: &taken})
	assert.ErrorIs(t, err, ErrConflict)

	same := "111"
	telefono := "2222-3333"
	got, err := f.producers.UpdateProducer(ctx, officer, a.ID, &models.UpdateProducerRequest{Cedula: &same, Telefono: &telefono})
	require.NoError(t, err)
	assert.Equal(t, "2222-3333", got.Telefono)
	assert.Equal(t, "Ana", got.Nombre)

	_, err = f.producers.UpdateProducer(ctx, officer, "missing", &models.UpdateProducerRequest{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteProducerGuard(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	v := f.create(t, visitRequest("101230456", "2024-03-01"))

	err := f.producers.DeleteProducer(ctx, officer, v.ProductorID)
	assert.ErrorIs(t, err, ErrReferentialIntegrity)
	_, err = f.producers.GetProducer(ctx, v.ProductorID)
	require.NoError(t, err)

	require.NoError(t, f.visits.DeleteVisit(ctx, officer, v.ID))
	require.NoError(t, f.producers.DeleteProducer(ctx, officer, v.ProductorID))

	_, err = f.producers.GetProducer(ctx, v.ProductorID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetProducerHistoryNewestFirst(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.create(t, visitRequest("101230456", "2024-01-10"))
	latest := f.create(t, visitRequest("101230456", "2024-05-02"))
	f.create(t, visitRequest("101230456", "2024-03-15"))
	f.create(t, visitRequest("999", "2024-06-01"))

	p, err := f.producers.GetProducer(ctx, latest.ProductorID)
	require.NoError(t, err)
	require.Len(t, p.Atenciones, 3)
	assert.Equal(t, latest.ID, p.Atenciones[0].ID)
	assert.True(t, p.Atenciones[1].Fecha.After(p.Atenciones[2].Fecha))
	require.NotNil(t, p.Atenciones[0].Agencia)
	assert.Equal(t, "Central", p.Atenciones[0].Agencia.Region.Nombre)
}

func TestListProducersSearch(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for _, req := range []models.CreateProducerRequest{
		{Cedula: "3", Nombre: "Carlos Mora", Correo: "carlos@correo.cr"},
		{Cedula: "1", Nombre: "ana Vargas", Telefono: "8888-1111"},
		{Cedula: "2", Nombre: "Beatriz Solís"},
	} {
		req := req
		_, err := f.producers.CreateProducer(ctx, officer, &req)
		require.NoError(t, err)
	}

	all, err := f.producers.ListProducers(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"ana Vargas", "Beatriz Solís", "Carlos Mora"},
		[]string{all[0].Nombre, all[1].Nombre, all[2].Nombre})

	byMail, err := f.producers.ListProducers(ctx, "CORREO.CR")
	require.NoError(t, err)
	require.Len(t, byMail, 1)
	assert.Equal(t, "Carlos Mora", byMail[0].Nombre)

	byPhone, err := f.producers.ListProducers(ctx, "8888")
	require.NoError(t, err)
	require.Len(t, byPhone, 1)
	assert.Equal(t, "1", byPhone[0].Cedula)
}

func TestListAgenciesByRegion(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	all, err := f.catalog.ListAgencies(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	north, err := f.catalog.ListAgencies(ctx, "2")
	require.NoError(t, err)
	require.Len(t, north, 1)
	assert.Equal(t, "Ciudad Quesada", north[0].Nombre)
	require.NotNil(t, north[0].Region)
	assert.Equal(t, "Huetar Norte", north[0].Region.Nombre)

	regions, err := f.catalog.ListRegions(ctx)
	require.NoError(t, err)
	assert.Len(t, regions, 2)
}
