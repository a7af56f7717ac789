package models

// FinancialDocument is one pre-parsed statement from the bookkeeping export:
// a profit & loss, balance sheet, general ledger or COGS document, keyed by
// statement name with a nested data payload.
type FinancialDocument struct {
	Name       string                 `json:"name"`
	SourceFile string                 `json:"source_file,omitempty"`
	Period     string                 `json:"period,omitempty"` // e.g. "2023" or "2023-06"
	Data       map[string]interface{} `json:"data"`
}

// EquipmentItem is one row of the equipment/inventory export after field
// mapping.
type EquipmentItem struct {
	Description    string  `json:"description"`
	SerialNumber   string  `json:"serial_number,omitempty"`
	ClinicName     string  `json:"clinic_name,omitempty"`
	PurchasePrice  float64 `json:"purchase_price,omitempty"`
	EstimatedValue float64 `json:"estimated_value"`
}
