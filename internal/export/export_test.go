package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"atenciones-backend/internal/models"
	"atenciones-backend/internal/timeutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := timeutil.ParseDate(s)
	require.NoError(t, err)
	return d
}

func sampleVisits(t *testing.T) []*models.VisitDetail {
	central := &models.Region{ID: "1", Nombre: "Central"}
	return []*models.VisitDetail{
		{
			Visit: models.Visit{
				ID: "1", Consecutivo: "2023-001", TipoContacto: "Contacto", Fecha: day(t, "2023-04-15"),
				Actividad: "Café", MedioAtencionTipo: "Presencial", MedioAtencionSubtipo: "Oficina",
				AsuntoRecomendacion: "Manejo de plagas, control biológico", RequiereSeguimiento: true,
			},
			Productor:   &models.Producer{ID: "1", Cedula: "101230456", Nombre: "Juan Pérez Rodríguez"},
			Agencia:     &models.AgencyWithRegion{Agency: models.Agency{ID: "1", Nombre: "San José", RegionID: "1"}, Region: central},
			Funcionario: &models.Officer{ID: "2", Nombre: "Juan Pérez"},
		},
		{
			Visit: models.Visit{
				ID: "2", Consecutivo: "2023-002", TipoContacto: "Ocasional", Fecha: day(t, "2023-04-20"),
				Actividad: "Ganadería", MedioAtencionTipo: "Virtual", MedioAtencionSubtipo: "Teams",
			},
		},
	}
}

func readCSV(t *testing.T, content []byte) [][]string {
	t.Helper()
	records, err := csv.NewReader(bytes.NewReader(content)).ReadAll()
	require.NoError(t, err)
	return records
}

func TestCSVTwoColumnShape(t *testing.T) {
	f, err := Serialize(sampleVisits(t), FieldMask{Consecutivo: true, Fecha: true}, FormatCSV, day(t, "2024-01-31"))
	require.NoError(t, err)

	assert.Equal(t, "atenciones_2024-01-31.csv", f.Filename)
	lines := strings.Split(strings.TrimRight(string(f.Content), "\r\n"), "\r\n")
	require.Len(t, lines, 3)
	for _, line := range lines {
		assert.Len(t, strings.Split(line, ","), 2)
	}
	assert.Equal(t, "Consecutivo,Fecha", lines[0])
	assert.Equal(t, "2023-001,15/04/2023", lines[1])
	assert.Equal(t, "2023-002,20/04/2023", lines[2])
}

func TestColumnOrderIgnoresMaskOrder(t *testing.T) {
	var mask FieldMask
	require.NoError(t, json.Unmarshal([]byte(`{"requiereSeguimiento":true,"region":true,"consecutivo":true}`), &mask))

	header, rows := Table(sampleVisits(t), mask)
	assert.Equal(t, []string{"Consecutivo", "Región", "Requiere Seguimiento"}, header)
	assert.Equal(t, []string{"2023-001", "Central", "Sí"}, rows[0])
	assert.Equal(t, []string{"2023-002", "", "No"}, rows[1])
}

func TestCSVQuotesEmbeddedCommas(t *testing.T) {
	f, err := Serialize(sampleVisits(t), FieldMask{Consecutivo: true, AsuntoRecomendacion: true, MedioAtencion: true}, FormatCSV, time.Now())
	require.NoError(t, err)

	assert.Contains(t, string(f.Content), `"Manejo de plagas, control biológico"`)
	records := readCSV(t, f.Content)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"2023-001", "Presencial - Oficina", "Manejo de plagas, control biológico"}, records[1])
}

func TestMissingRelationsRenderEmpty(t *testing.T) {
	f, err := Serialize(sampleVisits(t)[1:], AllFields(), FormatCSV, time.Now())
	require.NoError(t, err)

	records := readCSV(t, f.Content)
	require.Len(t, records, 2)
	require.Len(t, records[0], 16)
	for i, h := range records[0] {
		switch h {
		case "Nombre del Productor", "Cédula", "Región", "Agencia", "Funcionario":
			assert.Equal(t, "", records[1][i], h)
		}
	}
	assert.NotContains(t, string(f.Content), "null")
}

func TestExcelIsRealWorkbook(t *testing.T) {
	f, err := Serialize(sampleVisits(t), FieldMask{Consecutivo: true, CedulaProductor: true, Agencia: true}, FormatExcel, day(t, "2024-02-01"))
	require.NoError(t, err)
	assert.Equal(t, "atenciones_2024-02-01.xlsx", f.Filename)
	assert.Equal(t, FormatExcel.ContentType(), f.ContentType)

	wb, err := excelize.OpenReader(bytes.NewReader(f.Content))
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Consecutivo", "Cédula", "Agencia"}, rows[0])
	assert.Equal(t, []string{"2023-001", "101230456", "San José"}, rows[1])
	assert.Equal(t, []string{"2023-002"}, rows[2])
}

func TestPDFNotYetAvailable(t *testing.T) {
	_, err := Serialize(sampleVisits(t), AllFields(), FormatPDF, time.Now())
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"csv": FormatCSV, "Excel": FormatExcel, "pdf": FormatPDF} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("docx")
	assert.Error(t, err)
}

func TestEmptyMask(t *testing.T) {
	assert.True(t, FieldMask{}.Empty())
	assert.False(t, FieldMask{Observacion: true}.Empty())
	assert.Len(t, AllFields().Selected(), len(Columns))
}
