package export

import (
	"atenciones-backend/internal/models"
	"atenciones-backend/internal/timeutil"
)

// FieldMask selects output columns. Output order is always the declaration
// order of Columns, whatever order the JSON object lists them in.
type FieldMask struct {
	Consecutivo         bool `json:"consecutivo"`
	Fecha               bool `json:"fecha"`
	TipoContacto        bool `json:"tipoContacto"`
	NombreProductor     bool `json:"nombreProductor"`
	CedulaProductor     bool `json:"cedulaProductor"`
	TelefonoProductor   bool `json:"telefonoProductor"`
	CorreoProductor     bool `json:"correoProductor"`
	Region              bool `json:"region"`
	Agencia             bool `json:"agencia"`
	Funcionario         bool `json:"funcionario"`
	Actividad           bool `json:"actividad"`
	AreaAtendida        bool `json:"areaAtendida"`
	MedioAtencion       bool `json:"medioAtencion"`
	AsuntoRecomendacion bool `json:"asuntoRecomendacion"`
	Observacion         bool `json:"observacion"`
	RequiereSeguimiento bool `json:"requiereSeguimiento"`
}

// AllFields enables every column
func AllFields() FieldMask {
	return FieldMask{true, true, true, true, true, true, true, true, true, true, true, true, true, true, true, true}
}

// Column is one selectable output column
type Column struct {
	Header  string
	enabled func(FieldMask) bool
	value   func(*models.VisitDetail) string
}

// Value renders the column for one visit
func (c Column) Value(d *models.VisitDetail) string {
	return c.value(d)
}

// Columns is the fixed column order
var Columns = []Column{
	{"Consecutivo", func(m FieldMask) bool { return m.Consecutivo }, func(d *models.VisitDetail) string { return d.Consecutivo }},
	{"Fecha", func(m FieldMask) bool { return m.Fecha }, func(d *models.VisitDetail) string { return timeutil.FormatDisplay(d.Fecha) }},
	{"Tipo de Contacto", func(m FieldMask) bool { return m.TipoContacto }, func(d *models.VisitDetail) string { return d.TipoContacto }},
	{"Nombre del Productor", func(m FieldMask) bool { return m.NombreProductor }, func(d *models.VisitDetail) string {
		if d.Productor == nil {
			return ""
		}
		return d.Productor.Nombre
	}},
	{"Cédula", func(m FieldMask) bool { return m.CedulaProductor }, func(d *models.VisitDetail) string {
		if d.Productor == nil {
			return ""
		}
		return d.Productor.Cedula
	}},
	{"Teléfono del Productor", func(m FieldMask) bool { return m.TelefonoProductor }, func(d *models.VisitDetail) string {
		if d.Productor == nil {
			return ""
		}
		return d.Productor.Telefono
	}},
	{"Correo del Productor", func(m FieldMask) bool { return m.CorreoProductor }, func(d *models.VisitDetail) string {
		if d.Productor == nil {
			return ""
		}
		return d.Productor.Correo
	}},
	{"Región", func(m FieldMask) bool { return m.Region }, func(d *models.VisitDetail) string {
		if r := d.Region(); r != nil {
			return r.Nombre
		}
		return ""
	}},
	{"Agencia", func(m FieldMask) bool { return m.Agencia }, func(d *models.VisitDetail) string {
		if d.Agencia == nil {
			return ""
		}
		return d.Agencia.Nombre
	}},
	{"Funcionario", func(m FieldMask) bool { return m.Funcionario }, func(d *models.VisitDetail) string {
		if d.Funcionario == nil {
			return ""
		}
		return d.Funcionario.Nombre
	}},
	{"Actividad", func(m FieldMask) bool { return m.Actividad }, func(d *models.VisitDetail) string { return d.Actividad }},
	{"Área Atendida", func(m FieldMask) bool { return m.AreaAtendida }, func(d *models.VisitDetail) string { return d.AreaAtendida }},
	{"Medio de Atención", func(m FieldMask) bool { return m.MedioAtencion }, func(d *models.VisitDetail) string { return d.Medio() }},
	{"Asunto y Recomendación", func(m FieldMask) bool { return m.AsuntoRecomendacion }, func(d *models.VisitDetail) string { return d.AsuntoRecomendacion }},
	{"Observación", func(m FieldMask) bool { return m.Observacion }, func(d *models.VisitDetail) string { return d.Observacion }},
	{"Requiere Seguimiento", func(m FieldMask) bool { return m.RequiereSeguimiento }, func(d *models.VisitDetail) string {
		if d.RequiereSeguimiento {
			return "Sí"
		}
		return "No"
	}},
}

// Selected returns the enabled columns in fixed order
func (m FieldMask) Selected() []Column {
	var cols []Column
	for _, c := range Columns {
		if c.enabled(m) {
			cols = append(cols, c)
		}
	}
	return cols
}

// Empty reports whether no column is enabled
func (m FieldMask) Empty() bool {
	return len(m.Selected()) == 0
}

// Table renders the header row and one row per visit
func Table(visits []*models.VisitDetail, mask FieldMask) (header []string, rows [][]string) {
	cols := mask.Selected()
	header = make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.Header
	}
	rows = make([][]string, 0, len(visits))
	for _, v := range visits {
		row := make([]string, len(cols))
		for i, c := range cols {
			row[i] = c.Value(v)
		}
		rows = append(rows, row)
	}
	return header, rows
}
