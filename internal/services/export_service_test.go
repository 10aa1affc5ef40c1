package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"atenciones-backend/internal/export"
	"atenciones-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingArchiver struct {
	names []string
	err   error
}

func (a *recordingArchiver) Store(ctx context.Context, filename, contentType string, content []byte) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	a.names = append(a.names, filename)
	return "exports/" + filename, nil
}

func TestExportVisitsCSV(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	v := f.create(t, visitRequest("101230456", "2024-03-01"))
	f.create(t, visitRequest("101230456", "2023-12-31"))

	archiver := &recordingArchiver{}
	svc := NewExportService(f.visits, archiver, zap.NewNop())

	file, err := svc.ExportVisits(ctx, officer, ExportRequest{
		Fields:  export.FieldMask{Consecutivo: true, Fecha: true},
		Filters: models.VisitFilter{DateFrom: "2024-01-01"},
		Format:  "csv",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(file.Filename, "atenciones_"))
	assert.True(t, strings.HasSuffix(file.Filename, ".csv"))
	assert.Equal(t, "Consecutivo,Fecha\r\n"+v.Consecutivo+",01/03/2024\r\n", string(file.Content))
	assert.Equal(t, []string{file.Filename}, archiver.names)
}

func TestExportVisitsErrors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.create(t, visitRequest("101230456", "2024-03-01"))
	svc := NewExportService(f.visits, nil, zap.NewNop())
	all := export.AllFields()

	_, err := svc.ExportVisits(ctx, models.Caller{}, ExportRequest{Fields: all, Format: "csv"})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.ExportVisits(ctx, officer, ExportRequest{Fields: export.FieldMask{}, Format: "csv"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.ExportVisits(ctx, officer, ExportRequest{Fields: all, Format: "docx"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.ExportVisits(ctx, officer, ExportRequest{Fields: all, Format: "pdf"})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestExportSurvivesArchiveFailure(t *testing.T) {
	f := newFixture(t)
	f.create(t, visitRequest("101230456", "2024-03-01"))
	svc := NewExportService(f.visits, &recordingArchiver{err: errors.New("bucket gone")}, zap.NewNop())

	file, err := svc.ExportVisits(context.Background(), officer, ExportRequest{Fields: export.AllFields(), Format: "excel"})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(file.Filename, ".xlsx"))
	assert.NotEmpty(t, file.Content)
}

func TestVisitReceiptPDF(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	v := f.create(t, visitRequest("101230456", "2024-03-01"))
	reports := NewReportService(f.visits, f.producers)

	content, name, err := reports.VisitReceipt(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "atencion_2024-001.pdf", name)
	assert.True(t, strings.HasPrefix(string(content), "%PDF"))

	content, name, err = reports.ProducerReport(ctx, v.ProductorID)
	require.NoError(t, err)
	assert.Equal(t, "productor_101230456.pdf", name)
	assert.True(t, strings.HasPrefix(string(content), "%PDF"))

	_, _, err = reports.VisitReceipt(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
