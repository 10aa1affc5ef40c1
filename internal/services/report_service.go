package services

import (
	"bytes"
	"context"
	"fmt"

	"atenciones-backend/internal/models"
	"atenciones-backend/internal/timeutil"

	"github.com/jung-kurt/gofpdf/v2"
)

// ReportService renders printable PDFs of single records
type ReportService struct {
	Visits    *VisitService
	Producers *ProducerService
}

func NewReportService(visits *VisitService, producers *ProducerService) *ReportService {
	return &ReportService{Visits: visits, Producers: producers}
}

// VisitReceipt returns the receipt PDF for one visit and its file name
func (s *ReportService) VisitReceipt(ctx context.Context, id string) ([]byte, string, error) {
	d, err := s.Visits.GetVisit(ctx, id)
	if err != nil {
		return nil, "", err
	}
	content, err := GenerateVisitPDF(d)
	if err != nil {
		return nil, "", err
	}
	return content, fmt.Sprintf("atencion_%s.pdf", d.Consecutivo), nil
}

// ProducerReport returns a PDF with the producer's data and visit history
func (s *ReportService) ProducerReport(ctx context.Context, id string) ([]byte, string, error) {
	p, err := s.Producers.GetProducer(ctx, id)
	if err != nil {
		return nil, "", err
	}
	content, err := GenerateProducerPDF(p)
	if err != nil {
		return nil, "", err
	}
	return content, fmt.Sprintf("productor_%s.pdf", p.Cedula), nil
}

// newReport starts an A4 page with the title block. The returned translator
// maps UTF-8 text onto the core font code page.
func newReport(title string) (*gofpdf.Fpdf, func(string) string) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, tr(title), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, tr(fmt.Sprintf("Generado: %s", timeutil.Now().Format("02/01/2006 15:04"))), "", 1, "C", false, 0, "")
	pdf.Ln(5)
	return pdf, tr
}

func section(pdf *gofpdf.Fpdf, tr func(string) string, title string) {
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, tr(title), "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 11)
}

func output(pdf *gofpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GenerateVisitPDF renders one visit as a receipt
func GenerateVisitPDF(d *models.VisitDetail) ([]byte, error) {
	pdf, tr := newReport("Registro de Atención " + d.Consecutivo)

	section(pdf, tr, "Productor")
	var nombre, cedula, telefono, correo string
	if d.Productor != nil {
		nombre, cedula, telefono, correo = d.Productor.Nombre, d.Productor.Cedula, d.Productor.Telefono, d.Productor.Correo
	}
	pdf.CellFormat(95, 7, tr("Nombre: "+nombre), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, tr("Cédula: "+cedula), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, tr("Teléfono: "+telefono), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, tr("Correo: "+correo), "RB", 1, "L", false, 0, "")
	pdf.Ln(5)

	section(pdf, tr, "Atención")
	var agencia, region, funcionario string
	if d.Agencia != nil {
		agencia = d.Agencia.Nombre
	}
	if r := d.Region(); r != nil {
		region = r.Nombre
	}
	if d.Funcionario != nil {
		funcionario = d.Funcionario.Nombre
	}
	seguimiento := "No"
	if d.RequiereSeguimiento {
		seguimiento = "Sí"
	}
	pdf.CellFormat(95, 7, tr("Fecha: "+timeutil.FormatDisplay(d.Fecha)), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, tr("Tipo de contacto: "+d.TipoContacto), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, tr("Región: "+region), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, tr("Agencia: "+agencia), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, tr("Funcionario: "+funcionario), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, tr("Medio: "+d.Medio()), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, tr("Actividad: "+d.Actividad), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, tr("Área atendida: "+d.AreaAtendida), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(190, 7, tr("Requiere seguimiento: "+seguimiento), "LRB", 1, "L", false, 0, "")
	pdf.Ln(5)

	section(pdf, tr, "Asunto y Recomendación")
	pdf.MultiCell(190, 6, tr(d.AsuntoRecomendacion), "1", "L", false)
	if d.Observacion != "" {
		pdf.Ln(5)
		section(pdf, tr, "Observación")
		pdf.MultiCell(190, 6, tr(d.Observacion), "1", "L", false)
	}

	return output(pdf)
}

// GenerateProducerPDF renders a producer with a table of their visits
func GenerateProducerPDF(p *models.ProducerDetail) ([]byte, error) {
	pdf, tr := newReport("Historial del Productor")

	section(pdf, tr, "Productor")
	pdf.CellFormat(95, 7, tr("Nombre: "+p.Nombre), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, tr("Cédula: "+p.Cedula), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, tr("Teléfono: "+p.Telefono), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, tr("Correo: "+p.Correo), "RB", 1, "L", false, 0, "")
	pdf.Ln(5)

	section(pdf, tr, fmt.Sprintf("Atenciones (%d)", len(p.Atenciones)))
	if len(p.Atenciones) == 0 {
		pdf.CellFormat(190, 7, tr("Sin atenciones registradas"), "1", 1, "C", false, 0, "")
		return output(pdf)
	}

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(30, 7, "Consecutivo", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "Fecha", "1", 0, "C", true, 0, "")
	pdf.CellFormat(45, 7, "Actividad", "1", 0, "C", true, 0, "")
	pdf.CellFormat(40, 7, tr("Medio"), "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Agencia", "1", 0, "C", true, 0, "")
	pdf.CellFormat(20, 7, tr("Seguim."), "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 9)
	for _, v := range p.Atenciones {
		var agencia string
		if v.Agencia != nil {
			agencia = v.Agencia.Nombre
		}
		seguimiento := "No"
		if v.RequiereSeguimiento {
			seguimiento = "Sí"
		}
		pdf.CellFormat(30, 6, v.Consecutivo, "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, timeutil.FormatDisplay(v.Fecha), "1", 0, "C", false, 0, "")
		pdf.CellFormat(45, 6, tr(v.Actividad), "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, tr(v.Medio()), "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, tr(agencia), "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 6, tr(seguimiento), "1", 1, "C", false, 0, "")
	}

	return output(pdf)
}
