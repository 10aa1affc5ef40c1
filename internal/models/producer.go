package models

import "time"

type Producer struct {
	ID        string    `json:"id"`
	Cedula    string    `json:"cedula"`
	Nombre    string    `json:"nombre"`
	Telefono  string    `json:"telefono"`
	Correo    string    `json:"correo,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProducerWithCount is a producer row in the producer list
type ProducerWithCount struct {
	Producer
	TotalAtenciones int `json:"totalAtenciones"`
}

// ProducerDetail is a producer with its visit history, newest first
type ProducerDetail struct {
	Producer
	Atenciones []*VisitDetail `json:"atenciones"`
}

// CreateProducerRequest represents the request body for creating a producer
type CreateProducerRequest struct {
	Cedula   string `json:"cedula"`
	Nombre   string `json:"nombre"`
	Telefono string `json:"telefono"`
	Correo   string `json:"correo"`
}

// UpdateProducerRequest represents the request body for updating a producer.
// Nil fields are left unchanged.
type UpdateProducerRequest struct {
	Cedula   *string `json:"cedula"`
	Nombre   *string `json:"nombre"`
	Telefono *string `json:"telefono"`
	Correo   *string `json:"correo"`
}
