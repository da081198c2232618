package dto

import "time"

// CreateClientRequest entrada para registrar un cliente.
type CreateClientRequest struct {
	Cedula        string `json:"cedula"`
	TipoDocumento string `json:"tipoDocumento"`
	Nombre        string `json:"nombre"`
	Apellido      string `json:"apellido"`
	Telefono      string `json:"telefono"`
	Email         string `json:"email"`
	Direccion     string `json:"direccion"`
	Notas         string `json:"notas"`
}

// UpdateClientRequest entrada para actualizar un cliente (campos nil no se tocan).
type UpdateClientRequest struct {
	Cedula        *string `json:"cedula"`
	TipoDocumento *string `json:"tipoDocumento"`
	Nombre        *string `json:"nombre"`
	Apellido      *string `json:"apellido"`
	Telefono      *string `json:"telefono"`
	Email         *string `json:"email"`
	Direccion     *string `json:"direccion"`
	Notas         *string `json:"notas"`
}

// ClientResponse salida de un cliente.
type ClientResponse struct {
	ID            string    `json:"id"`
	Cedula        string    `json:"cedula"`
	TipoDocumento string    `json:"tipoDocumento"`
	Nombre        string    `json:"nombre"`
	Apellido      string    `json:"apellido"`
	Telefono      string    `json:"telefono"`
	Email         string    `json:"email"`
	Direccion     string    `json:"direccion"`
	Notas         string    `json:"notas"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
