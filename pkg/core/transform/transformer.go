// Package transform normalizes raw sales exports into canonical records and
// computes the business metrics presented to buyers. The step order is fixed:
// column standardization, type coercion, derived fields, business rules.
// Each dataset runs the pipeline independently; one dataset failing is logged
// and omitted, never fatal to the run.
package transform

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"practice_sale/pkg/core/mapping"
	"practice_sale/pkg/core/money"
	"practice_sale/pkg/models"
)

// RelatedDatasets are the auxiliary exports that receive the identical
// standardize → coerce → derive → business-rules pipeline as the main sales
// table.
var RelatedDatasets = []string{"returns", "exchanges", "replacements", "cancelled", "conversions"}

var dateColumns = map[string]bool{
	"sale_date":     true,
	"delivery_date": true,
	"return_date":   true,
}

var numericColumns = map[string]bool{
	"units":       true,
	"gross_price": true,
	"net_price":   true,
	"sales_tax":   true,
	"total_price": true,
}

// Dataset is the normalized output for one sub-table.
type Dataset struct {
	Name                 string               `json:"name"`
	Records              []models.SalesRecord `json:"records"`
	DroppedOutOfRange    int                  `json:"dropped_out_of_range"`
	DroppedOtherLocation int                  `json:"dropped_other_location"`
}

// Result bundles everything one transform run produces.
type Result struct {
	Sales   *Dataset            `json:"sales"`
	Related map[string]*Dataset `json:"related"`
	Metrics *BusinessMetrics    `json:"business_metrics"`
}

// SalesTransformer applies the full normalization pipeline for one snapshot
// of raw tables. It holds no per-run state, so Transform may be called
// repeatedly with identical input and identical output.
type SalesTransformer struct {
	rules    *models.BusinessRules
	registry *mapping.Registry
	log      *slog.Logger

	// location keys sorted for deterministic first-match alias resolution
	locationKeys []string
}

// NewSalesTransformer validates the business rules up front; a malformed
// configuration is a programmer error and aborts immediately.
func NewSalesTransformer(rules *models.BusinessRules, registry *mapping.Registry, log *slog.Logger) (*SalesTransformer, error) {
	if rules == nil {
		return nil, fmt.Errorf("transform: business rules are required")
	}
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("transform: %w", err)
	}
	if registry == nil {
		registry = mapping.NewRegistry()
	}
	if log == nil {
		log = slog.Default()
	}

	keys := make([]string, 0, len(rules.Locations))
	for k := range rules.Locations {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return &SalesTransformer{
		rules:        rules,
		registry:     registry,
		log:          log,
		locationKeys: keys,
	}, nil
}

// Transform normalizes the main sales table and every related dataset found
// in raw, then computes business metrics over the filtered sales records.
func (t *SalesTransformer) Transform(raw map[string]*models.RawTable) *Result {
	result := &Result{Related: make(map[string]*Dataset)}

	if sales, ok := raw["sales"]; ok {
		ds, err := t.transformDataset("sales", sales)
		if err != nil {
			t.log.Error("sales transform failed", "error", err)
		} else {
			result.Sales = ds
		}
	} else {
		t.log.Warn("no sales table in raw input")
	}

	for _, name := range RelatedDatasets {
		table, ok := raw[name]
		if !ok {
			continue
		}
		ds, err := t.transformDataset(name, table)
		if err != nil {
			// Isolated failure: this dataset is omitted, the run continues.
			t.log.Error("related dataset transform failed", "dataset", name, "error", err)
			continue
		}
		result.Related[name] = ds
	}

	if result.Sales != nil {
		result.Metrics = t.calculateBusinessMetrics(result.Sales.Records)
	}
	return result
}

func (t *SalesTransformer) transformDataset(name string, table *models.RawTable) (*Dataset, error) {
	if table == nil {
		return nil, fmt.Errorf("dataset %q: nil table", name)
	}
	if len(table.Columns) == 0 {
		return nil, fmt.Errorf("dataset %q: no columns", name)
	}

	std := t.standardizeColumns(table)
	t.coerceTypes(std)
	records := t.deriveRecords(std)
	ds := t.applyBusinessRules(name, records)
	ds.Name = name

	t.log.Info("dataset transformed",
		"dataset", name,
		"rows_in", len(table.Rows),
		"rows_out", len(ds.Records),
		"dropped_out_of_range", ds.DroppedOutOfRange,
		"dropped_other_location", ds.DroppedOtherLocation)
	return ds, nil
}

// standardizeColumns renames exact matches from the field map first, then
// lowercases whatever remains. Rename-first ordering avoids a case-folded
// label colliding with a canonical one before the rename is applied.
func (t *SalesTransformer) standardizeColumns(table *models.RawTable) *models.RawTable {
	fieldMap := t.registry.FieldMap("sales_mappings")
	out := table.Clone()

	renamed := make(map[string]string, len(out.Columns))
	for _, col := range out.Columns {
		if canonical, ok := fieldMap[col]; ok {
			renamed[col] = canonical
		} else {
			renamed[col] = strings.ToLower(col)
		}
	}

	for i, col := range out.Columns {
		out.Columns[i] = renamed[col]
	}
	for i, row := range out.Rows {
		next := make(models.Row, len(row))
		for k, v := range row {
			if newKey, ok := renamed[k]; ok {
				next[newKey] = v
			} else {
				next[strings.ToLower(k)] = v
			}
		}
		out.Rows[i] = next
	}
	return out
}

// coerceTypes normalizes cell kinds in place on the standardized copy.
// Unparsable dates and numbers become missing, not errors. Text round-trips
// through trimming so that whitespace-only values collapse to missing.
func (t *SalesTransformer) coerceTypes(table *models.RawTable) {
	for _, row := range table.Rows {
		for _, col := range table.Columns {
			cell, ok := row[col]
			if !ok {
				row[col] = models.Missing()
				continue
			}
			switch {
			case dateColumns[col]:
				row[col] = coerceDate(cell)
			case numericColumns[col]:
				if v, ok := money.ParseCellOK(cell); ok {
					row[col] = models.Num(v)
				} else {
					row[col] = models.Missing()
				}
			default:
				row[col] = coerceText(cell)
			}
		}
	}
}

var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"2006-01-02T15:04:05Z07:00",
	"Jan 2, 2006",
}

func coerceDate(c models.Cell) models.Cell {
	switch c.Kind {
	case models.KindDate:
		return c
	case models.KindString:
		s := strings.TrimSpace(c.Str)
		if s == "" {
			return models.Missing()
		}
		for _, layout := range dateLayouts {
			if d, err := time.Parse(layout, s); err == nil {
				return models.Date(d)
			}
		}
		return models.Missing()
	default:
		return models.Missing()
	}
}

func coerceText(c models.Cell) models.Cell {
	switch c.Kind {
	case models.KindString:
		s := strings.TrimSpace(c.Str)
		if s == "" {
			return models.Missing()
		}
		return models.Str(s)
	case models.KindMissing:
		return c
	default:
		// Numbers and dates in text columns keep their rendered form.
		return models.Str(c.String())
	}
}

// deriveRecords materializes typed records from the coerced table and
// computes the derived fields.
func (t *SalesTransformer) deriveRecords(table *models.RawTable) []models.SalesRecord {
	discountLists := t.registry.ApplyArrayMappings("sales_mappings", table)["discounts"]

	records := make([]models.SalesRecord, 0, len(table.Rows))
	for i, row := range table.Rows {
		rec := models.SalesRecord{
			SaleDate:      cellDate(row["sale_date"]),
			DeliveryDate:  cellDate(row["delivery_date"]),
			ReturnDate:    cellDate(row["return_date"]),
			InvoiceNumber: row["invoice_number"].String(),
			StaffName:     row["staff_name"].String(),
			PatientID:     row["patient_id"].String(),
			ClinicName:    row["clinic_name"].String(),
			Product:       row["product"].String(),
			Type:          row["type"].String(),
			Units:         row["units"].Num,
			GrossPrice:    row["gross_price"].Num,
			NetPrice:      row["net_price"].Num,
			SalesTax:      row["sales_tax"].Num,
			TotalPrice:    row["total_price"].Num,
		}

		if rec.SaleDate != nil {
			rec.Year = rec.SaleDate.Year()
			rec.Month = int(rec.SaleDate.Month())
			rec.Quarter = (rec.Month-1)/3 + 1
		}
		rec.TransactionType = ClassifyTransactionType(rec.Type)
		rec.ProductCategory = ClassifyProductCategory(rec.Product)

		if discountLists != nil {
			rec.Discounts = discountLists[i]
		} else {
			rec.Discounts = []models.Discount{}
		}
		for _, d := range rec.Discounts {
			rec.TotalDiscounts += d.Amount
		}

		// Positional id: unique within this run's output, not stable if the
		// export is re-ordered.
		rec.TransactionID = strconv.Itoa(i)

		records = append(records, rec)
	}
	return records
}

func cellDate(c models.Cell) *time.Time {
	if c.Kind != models.KindDate {
		return nil
	}
	d := c.Date
	return &d
}

// applyBusinessRules normalizes clinic names, drops rows for locations not in
// the sale, and drops rows outside the configured amount range.
func (t *SalesTransformer) applyBusinessRules(name string, records []models.SalesRecord) *Dataset {
	ds := &Dataset{Records: []models.SalesRecord{}}
	min := t.rules.DataQuality.MinTransactionAmount
	max := t.rules.DataQuality.MaxTransactionAmount

	for _, rec := range records {
		key, matched := t.matchLocation(rec.ClinicName)
		if matched {
			rec.ClinicName = titleCaseKey(key)
			if !t.rules.Locations[key].ForSale {
				ds.DroppedOtherLocation++
				continue
			}
		} else {
			// Unrecognized clinic stays as-is; the validator flags it as a
			// warning. It cannot belong to a for-sale location, so it is
			// excluded from the sale subset.
			ds.DroppedOtherLocation++
			continue
		}

		// Amount bounds are min-inclusive, max-exclusive.
		if rec.TotalPrice < min || rec.TotalPrice >= max {
			ds.DroppedOutOfRange++
			continue
		}

		ds.Records = append(ds.Records, rec)
	}

	if ds.DroppedOutOfRange > 0 {
		t.log.Info("dropped out-of-range transactions",
			"dataset", name, "count", ds.DroppedOutOfRange, "min", min, "max", max)
	}
	return ds
}

// matchLocation resolves a raw clinic name to a canonical location key using
// case-insensitive substring matching over each location's alias list. Keys
// are scanned in sorted order so the first match is deterministic.
func (t *SalesTransformer) matchLocation(clinic string) (string, bool) {
	lower := strings.ToLower(strings.TrimSpace(clinic))
	if lower == "" {
		return "", false
	}
	for _, key := range t.locationKeys {
		loc := t.rules.Locations[key]
		for _, alias := range loc.Names {
			if strings.Contains(lower, strings.ToLower(alias)) {
				return key, true
			}
		}
		// A previously-normalized name matches its own canonical form.
		if lower == strings.ToLower(titleCaseKey(key)) {
			return key, true
		}
	}
	return "", false
}

func titleCaseKey(key string) string {
	parts := strings.Split(strings.ReplaceAll(key, "_", " "), " ")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}
