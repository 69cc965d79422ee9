package entity

import "time"

// Orígenes posibles de un cliente.
const (
	CustomerSourceRental = "rental"
	CustomerSourceManual = "manual"
)

// Customer representa un cliente del portal (facturación y reservas).
type Customer struct {
	ID         string
	FirstName  string
	LastName   string
	Company    string
	Email      string
	Phone      string
	Address    string
	City       string
	PostalCode string
	Source     string // rental | manual
	Notes      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// DisplayName devuelve la empresa si existe, si no nombre y apellido, si no el email.
func (c *Customer) DisplayName() string {
	if c.Company != "" {
		return c.Company
	}
	if c.FirstName != "" || c.LastName != "" {
		name := c.FirstName
		if name != "" && c.LastName != "" {
			name += " "
		}
		return name + c.LastName
	}
	return c.Email
}
