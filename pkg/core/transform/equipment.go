package transform

import (
	"strings"

	"practice_sale/pkg/core/mapping"
	"practice_sale/pkg/core/money"
	"practice_sale/pkg/models"
)

// EquipmentFromTable maps a raw inventory export into typed items using the
// equipment field aliases. Rows without a description are skipped; an item
// with no estimated value falls back to its purchase price.
func EquipmentFromTable(registry *mapping.Registry, table *models.RawTable) []models.EquipmentItem {
	if registry == nil {
		registry = mapping.NewRegistry()
	}
	if table == nil {
		return nil
	}
	fieldMap := registry.FieldMap("equipment_mappings")

	items := make([]models.EquipmentItem, 0, len(table.Rows))
	for _, row := range table.Rows {
		canonical := make(models.Row, len(row))
		for col, cell := range row {
			if target, ok := fieldMap[col]; ok {
				canonical[target] = cell
			} else {
				canonical[strings.ToLower(col)] = cell
			}
		}

		item := models.EquipmentItem{
			Description:    strings.TrimSpace(canonical["description"].String()),
			SerialNumber:   strings.TrimSpace(canonical["serial_number"].String()),
			ClinicName:     strings.TrimSpace(canonical["clinic_name"].String()),
			PurchasePrice:  money.ParseCell(canonical["purchase_price"]),
			EstimatedValue: money.ParseCell(canonical["estimated_value"]),
		}
		if item.Description == "" {
			continue
		}
		if item.EstimatedValue == 0 {
			item.EstimatedValue = item.PurchasePrice
		}
		items = append(items, item)
	}
	return items
}
