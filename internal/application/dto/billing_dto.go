package dto

import "github.com/shopspring/decimal"

// CreateCustomerRequest body para POST /api/customers.
type CreateCustomerRequest struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Company    string `json:"company,omitempty"`
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
	Address    string `json:"address,omitempty"`
	City       string `json:"city,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Source     string `json:"source,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// CustomerResponse cliente en respuestas.
type CustomerResponse struct {
	ID         string `json:"id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Company    string `json:"company,omitempty"`
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
	Address    string `json:"address,omitempty"`
	City       string `json:"city,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	CreatedAt  string `json:"created_at"`
}

// CreateInvoiceRequest body para POST /api/invoices. Crea un borrador;
// el número definitivo se asigna al finalizar.
type CreateInvoiceRequest struct {
	CustomerID    string               `json:"customer_id"`
	ReservationID string               `json:"reservation_id,omitempty"`
	TaxMode       string               `json:"tax_mode"` // exclusive | inclusive
	TaxRate       decimal.Decimal      `json:"tax_rate"`
	Discount      decimal.Decimal      `json:"discount"`
	DueDate       string               `json:"due_date,omitempty"`
	Notes         string               `json:"notes,omitempty"`
	Items         []InvoiceItemRequest `json:"items"`
}

// InvoiceItemRequest línea de factura.
type InvoiceItemRequest struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate,omitempty"` // por línea; cero usa la tasa global
}

// InvoiceResponse factura con líneas e historial para GET /api/invoices/:id.
type InvoiceResponse struct {
	ID            string `json:"id"`
	Number        string `json:"number,omitempty"`
	CustomerID    string `json:"customer_id"`
	ReservationID string `json:"reservation_id,omitempty"`

	TaxMode  string          `json:"tax_mode"`
	TaxRate  decimal.Decimal `json:"tax_rate"`
	Discount decimal.Decimal `json:"discount"`

	Subtotal  decimal.Decimal `json:"subtotal"`
	TaxAmount decimal.Decimal `json:"tax_amount"`
	Total     decimal.Decimal `json:"total"`

	Status         string `json:"status"`
	ReminderLevel  int    `json:"reminder_level"`
	IssueDate      string `json:"issue_date"`
	DueDate        string `json:"due_date,omitempty"`
	PaymentDate    string `json:"payment_date,omitempty"`
	LastRemindedAt string `json:"last_reminded_at,omitempty"`

	Notes string `json:"notes,omitempty"`

	Items  []InvoiceItemResponse  `json:"items"`
	Events []InvoiceEventResponse `json:"events"`
}

// InvoiceItemResponse línea en la respuesta.
type InvoiceItemResponse struct {
	Position    int             `json:"position"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	Total       decimal.Decimal `json:"total"`
}

// InvoiceEventResponse entrada del historial de la factura.
type InvoiceEventResponse struct {
	Kind string `json:"kind"`
	Note string `json:"note"`
	At   string `json:"ts"`
}

// SweepResponse resumen de un barrido de recordatorios.
type SweepResponse struct {
	Scanned       int `json:"scanned"`
	MarkedOverdue int `json:"marked_overdue"`
	Reminded      int `json:"reminded"`
}
