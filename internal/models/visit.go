package models

import "time"

// Contact types
const (
	ContactoDirecto   = "Contacto"
	ContactoOcasional = "Ocasional"
)

// Attention medium types and subtypes
const (
	MedioVirtual    = "Virtual"
	MedioPresencial = "Presencial"

	SubtipoTeams      = "Teams"
	SubtipoTelefonico = "Telefónico"
	SubtipoCorreo     = "Correo"
	SubtipoOficina    = "Oficina"
	SubtipoFinca      = "Finca"
)

var subtypesByMedium = map[string][]string{
	MedioVirtual:    {SubtipoTeams, SubtipoTelefonico, SubtipoCorreo},
	MedioPresencial: {SubtipoOficina, SubtipoFinca},
}

// ValidContactType reports whether t is a known contact type
func ValidContactType(t string) bool {
	return t == ContactoDirecto || t == ContactoOcasional
}

// ValidMedium reports whether tipo is a known attention medium
func ValidMedium(tipo string) bool {
	_, ok := subtypesByMedium[tipo]
	return ok
}

// ValidSubtype reports whether subtipo belongs to the medium tipo
func ValidSubtype(tipo, subtipo string) bool {
	for _, s := range subtypesByMedium[tipo] {
		if s == subtipo {
			return true
		}
	}
	return false
}

// DefaultSubtype returns the subtype selected when a medium is chosen without one
func DefaultSubtype(tipo string) string {
	if subs := subtypesByMedium[tipo]; len(subs) > 0 {
		return subs[0]
	}
	return ""
}

// Visit is an extension visit record ("atención")
type Visit struct {
	ID                   string    `json:"id"`
	Consecutivo          string    `json:"consecutivo"`
	TipoContacto         string    `json:"tipoContacto"`
	Fecha                time.Time `json:"fecha"`
	FuncionarioID        string    `json:"funcionarioId"`
	AgenciaID            string    `json:"agenciaId"`
	ProductorID          string    `json:"productorId"`
	Actividad            string    `json:"actividad"`
	AreaAtendida         string    `json:"areaAtendida"`
	MedioAtencionTipo    string    `json:"medioAtencionTipo"`
	MedioAtencionSubtipo string    `json:"medioAtencionSubtipo"`
	AsuntoRecomendacion  string    `json:"asuntoRecomendacion"`
	Observacion          string    `json:"observacion,omitempty"`
	RequiereSeguimiento  bool      `json:"requiereSeguimiento"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

// Medio renders the attention medium as "{tipo} - {subtipo}"
func (v *Visit) Medio() string {
	return v.MedioAtencionTipo + " - " + v.MedioAtencionSubtipo
}

// VisitDetail is a visit with its relations resolved. Unresolved relations are nil.
type VisitDetail struct {
	Visit
	Productor   *Producer         `json:"productor"`
	Agencia     *AgencyWithRegion `json:"agencia"`
	Funcionario *Officer          `json:"funcionario"`
}

// Region returns the region reached through the agency, or nil
func (d *VisitDetail) Region() *Region {
	if d.Agencia == nil {
		return nil
	}
	return d.Agencia.Region
}

// MedioAtencion is the medium pair as submitted by the visit form
type MedioAtencion struct {
	Tipo    string `json:"tipo"`
	Subtipo string `json:"subtipo"`
}

// CreateVisitRequest represents the request body for creating a visit.
// The producer is looked up by cedula and created when unseen.
type CreateVisitRequest struct {
	CedulaProductor     string        `json:"cedulaProductor"`
	NombreProductor     string        `json:"nombreProductor"`
	TelefonoProductor   string        `json:"telefonoProductor"`
	CorreoProductor     string        `json:"correoProductor"`
	TipoContacto        string        `json:"tipoContacto"`
	Fecha               string        `json:"fecha"`
	AgenciaID           string        `json:"agenciaId"`
	Actividad           string        `json:"actividad"`
	AreaAtendida        string        `json:"areaAtendida"`
	MedioAtencion       MedioAtencion `json:"medioAtencion"`
	AsuntoRecomendacion string        `json:"asuntoRecomendacion"`
	Observacion         string        `json:"observacion"`
	RequiereSeguimiento bool          `json:"requiereSeguimiento"`
}

// UpdateVisitRequest is a partial update; nil fields are left unchanged
type UpdateVisitRequest struct {
	TipoContacto        *string        `json:"tipoContacto"`
	Fecha               *string        `json:"fecha"`
	AgenciaID           *string        `json:"agenciaId"`
	ProductorID         *string        `json:"productorId"`
	Actividad           *string        `json:"actividad"`
	AreaAtendida        *string        `json:"areaAtendida"`
	MedioAtencion       *MedioAtencion `json:"medioAtencion"`
	AsuntoRecomendacion *string        `json:"asuntoRecomendacion"`
	Observacion         *string        `json:"observacion"`
	RequiereSeguimiento *bool          `json:"requiereSeguimiento"`
}

// VisitFilter holds the optional, AND-composed list filters
type VisitFilter struct {
	DateFrom string `json:"dateFrom"`
	DateTo   string `json:"dateTo"`
	Region   string `json:"region"`
	Search   string `json:"search"`
}

// Pagination is a 1-based page request
type Pagination struct {
	Page  int
	Limit int
}

// PageMeta describes a page of results
type PageMeta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// VisitPage is one page of resolved visits
type VisitPage struct {
	Data []*VisitDetail `json:"data"`
	Meta PageMeta       `json:"meta"`
}
