// Package mapping holds the declarative raw-column → canonical-field tables.
// This is the single place that encodes the source systems' inconsistent
// column naming; nothing else in the pipeline may reference a raw label.
package mapping

import (
	"strings"

	"practice_sale/pkg/core/money"
	"practice_sale/pkg/models"
)

// ArrayMapping declares a family of indexed raw column pairs that collapse
// into one ordered list-valued canonical field. Index order is preserved:
// entry N of the output list always came from the N-th column pair.
type ArrayMapping struct {
	Target        string   // canonical list field, e.g. "discounts"
	TypeColumns   []string // standardized labels, index order
	AmountColumns []string
}

// Registry is the declarative mapping set, keyed by dataset type.
type Registry struct {
	fieldMaps map[string]map[string]string
	arrayMaps map[string][]ArrayMapping
}

// NewRegistry builds the registry with the business's known column aliases.
// The POS system renamed several headers across export versions; every
// variant observed in the data room is listed here.
func NewRegistry() *Registry {
	sales := map[string]string{
		"Sale Date":      "sale_date",
		"Date of Sale":   "sale_date",
		"Delivery Date":  "delivery_date",
		"Return Date":    "return_date",
		"Staff":          "staff_name",
		"Provider":       "staff_name",
		"Salesperson":    "staff_name",
		"Patient ID":     "patient_id",
		"Patient Number": "patient_id",
		"Clinic":         "clinic_name",
		"Location":       "clinic_name",
		"Office":         "clinic_name",
		"Product":        "product",
		"Item":           "product",
		"Type":           "type",
		"Sale Type":      "type",
		"Units":          "units",
		"Qty":            "units",
		"Gross Price":    "gross_price",
		"List Price":     "gross_price",
		"Net Price":      "net_price",
		"Sales Tax":      "sales_tax",
		"Tax":            "sales_tax",
		"Total Price":    "total_price",
		"Total":          "total_price",
		"Invoice":        "invoice_number",
		"Invoice #":      "invoice_number",
		"Invoice Number": "invoice_number",
	}

	salesArrays := []ArrayMapping{
		{
			Target:        "discounts",
			TypeColumns:   []string{"discount type 1", "discount type 2", "discount type 3"},
			AmountColumns: []string{"discount amount 1", "discount amount 2", "discount amount 3"},
		},
	}

	equipment := map[string]string{
		"Description":    "description",
		"Item":           "description",
		"Serial Number":  "serial_number",
		"Serial #":       "serial_number",
		"Location":       "clinic_name",
		"Purchase Date":  "purchase_date",
		"Purchase Price": "purchase_price",
		"Value":          "estimated_value",
		"Est. Value":     "estimated_value",
	}

	return &Registry{
		fieldMaps: map[string]map[string]string{
			"sales_mappings":     sales,
			"equipment_mappings": equipment,
		},
		arrayMaps: map[string][]ArrayMapping{
			"sales_mappings": salesArrays,
		},
	}
}

// FieldMap returns the raw → canonical rename table for a dataset type.
// Unknown dataset types get an empty map, not an error: standardization then
// falls through to plain lowercasing.
func (r *Registry) FieldMap(dataset string) map[string]string {
	if m, ok := r.fieldMaps[dataset]; ok {
		return m
	}
	return map[string]string{}
}

// ArrayMappings returns the array-collapse rules for a dataset type.
func (r *Registry) ArrayMappings(dataset string) []ArrayMapping {
	return r.arrayMaps[dataset]
}

// ApplyArrayMappings resolves every declared array mapping against a
// standardized table. The result maps the target field name to one ordered
// discount list per row, aligned with table.Rows.
//
// For each declared index, if either column of the pair exists in the table,
// an entry is appended for every row, even when both values are empty, to
// preserve the positional semantics consumers rely on. Indexes whose columns
// are entirely absent are not emitted, so a two-pair export yields two-entry
// lists. The transform reads only the raw index columns, so re-applying it
// produces the same output.
func (r *Registry) ApplyArrayMappings(dataset string, table *models.RawTable) map[string][][]models.Discount {
	out := make(map[string][][]models.Discount)
	for _, am := range r.arrayMaps[dataset] {
		lists := make([][]models.Discount, len(table.Rows))
		for i, row := range table.Rows {
			lists[i] = collapseRow(am, table, row)
		}
		out[am.Target] = lists
	}
	return out
}

func collapseRow(am ArrayMapping, table *models.RawTable, row models.Row) []models.Discount {
	entries := []models.Discount{}
	for idx := range am.TypeColumns {
		typeCol := am.TypeColumns[idx]
		amountCol := ""
		if idx < len(am.AmountColumns) {
			amountCol = am.AmountColumns[idx]
		}
		if !table.HasColumn(typeCol) && !table.HasColumn(amountCol) {
			continue
		}
		entry := models.Discount{
			Type:   strings.TrimSpace(row[typeCol].String()),
			Amount: money.ParseCell(row[amountCol]),
		}
		entries = append(entries, entry)
	}
	return entries
}
