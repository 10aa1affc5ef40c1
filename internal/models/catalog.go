package models

// Region is an administrative extension region
type Region struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
}

// Agency is a regional extension office; it belongs to exactly one region
type Agency struct {
	ID       string `json:"id"`
	Nombre   string `json:"nombre"`
	Telefono string `json:"telefono"`
	RegionID string `json:"regionId"`
}

// AgencyWithRegion is an agency with its region embedded
type AgencyWithRegion struct {
	Agency
	Region *Region `json:"region"`
}
