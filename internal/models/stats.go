package models

// Stat is a named count in a dashboard breakdown
type Stat struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Follow-up bucket names
const (
	ConSeguimiento = "Con seguimiento"
	SinSeguimiento = "Sin seguimiento"
)

// DashboardStats is computed over the whole visit collection
type DashboardStats struct {
	TotalAtenciones          int    `json:"totalAtenciones"`
	ProductoresUnicos        int    `json:"productoresUnicos"`
	AtencionesConSeguimiento int    `json:"atencionesConSeguimiento"`
	AtencionesPresenciales   int    `json:"atencionesPresenciales"`
	AtencionesRegion         []Stat `json:"atencionesRegion"`
	AtencionesActividad      []Stat `json:"atencionesActividad"`
	AtencionesMediaAtencion  []Stat `json:"atencionesMediaAtencion"`
	AtencionesSeguimiento    []Stat `json:"atencionesSeguimiento"`
}
