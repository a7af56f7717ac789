package models

import "time"

// Discount is one entry of the ordered discount list on a sale. Order is the
// priority/sequence the discounts were entered in; an empty type with a zero
// amount is a real entry, not an omission.
type Discount struct {
	Type   string  `json:"type"`
	Amount float64 `json:"amount"`
}

// SalesRecord is one normalized transaction after column standardization,
// type coercion and derived-field computation. Optional dates are nil when
// the raw cell was missing or unparsable.
type SalesRecord struct {
	SaleDate     *time.Time `json:"sale_date"`
	DeliveryDate *time.Time `json:"delivery_date,omitempty"`
	ReturnDate   *time.Time `json:"return_date,omitempty"`

	InvoiceNumber string `json:"invoice_number"`

	StaffName  string `json:"staff_name"`
	PatientID  string `json:"patient_id"`
	ClinicName string `json:"clinic_name"`
	Product    string `json:"product"`
	Type       string `json:"type"`

	Units      float64    `json:"units"`
	GrossPrice float64    `json:"gross_price"`
	Discounts  []Discount `json:"discounts"`
	NetPrice   float64    `json:"net_price"`
	SalesTax   float64    `json:"sales_tax"`
	TotalPrice float64    `json:"total_price"`

	// Derived fields
	Year            int     `json:"year,omitempty"`
	Month           int     `json:"month,omitempty"`
	Quarter         int     `json:"quarter,omitempty"`
	TransactionType string  `json:"transaction_type"`
	ProductCategory string  `json:"product_category"`
	TotalDiscounts  float64 `json:"total_discounts"`

	// Positional within one run's output; not stable across re-ordering.
	TransactionID string `json:"transaction_id"`
}
