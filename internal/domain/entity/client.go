package entity

import "time"

// Tipos de documento de identidad del cliente.
const (
	DocumentTypeNational = "venezolano"
	DocumentTypeForeign  = "extranjero"
)

// Client representa un cliente del negocio. DocumentNumber (cédula) es único.
type Client struct {
	ID             string
	DocumentNumber string
	DocumentType   string
	FirstName      string
	LastName       string
	Phone          string
	Email          string
	Address        string
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// FullName nombre y apellido del cliente.
func (c *Client) FullName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}
