// Package validate runs rule-based structural and domain checks over the
// normalized datasets. Checks are independent: one check's outcome never
// skips another. Errors are hard failures; warnings accumulate but never
// fail validation. The due-diligence score, not this package, decides
// whether a deployment should halt.
package validate

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"practice_sale/pkg/models"
)

// ValidationSummary is the accumulated outcome of every check run so far.
type ValidationSummary struct {
	Errors       []string `json:"errors"`
	Warnings     []string `json:"warnings"`
	ErrorCount   int      `json:"error_count"`
	WarningCount int      `json:"warning_count"`
	Passed       bool     `json:"passed"`
}

// DataValidator accumulates findings across datasets. It is not safe for
// concurrent use; the pipeline is single-threaded by design.
type DataValidator struct {
	rules *models.BusinessRules
	log   *slog.Logger

	errors   []string
	warnings []string
}

// NewDataValidator builds a validator against one rules snapshot.
func NewDataValidator(rules *models.BusinessRules, log *slog.Logger) *DataValidator {
	if log == nil {
		log = slog.Default()
	}
	return &DataValidator{rules: rules, log: log}
}

// ValidateSalesData runs every sales check and reports whether no hard
// errors were found. Warnings never affect the return value.
func (v *DataValidator) ValidateSalesData(records []models.SalesRecord) bool {
	before := len(v.errors)

	v.checkRequiredFields(records)
	v.checkAmountRange(records)
	v.checkDateRange(records)
	v.checkDuplicateInvoices(records)
	v.checkClinicWhitelist(records)

	return len(v.errors) == before
}

// ValidateFinancialData checks the pre-parsed statement documents.
func (v *DataValidator) ValidateFinancialData(docs map[string]models.FinancialDocument) bool {
	before := len(v.errors)

	for name, doc := range docs {
		if len(doc.Data) == 0 {
			v.errorf("financial document %q has no data payload", name)
		}
		if doc.Period == "" {
			v.warnf("financial document %q has no period label", name)
		}
	}

	return len(v.errors) == before
}

// Summary returns the accumulated findings. Passed is true iff the error
// list is empty; warnings are informational.
func (v *DataValidator) Summary() ValidationSummary {
	return ValidationSummary{
		Errors:       append([]string{}, v.errors...),
		Warnings:     append([]string{}, v.warnings...),
		ErrorCount:   len(v.errors),
		WarningCount: len(v.warnings),
		Passed:       len(v.errors) == 0,
	}
}

// Reset clears accumulated findings between runs.
func (v *DataValidator) Reset() {
	v.errors = nil
	v.warnings = nil
}

func (v *DataValidator) errorf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	v.errors = append(v.errors, msg)
	v.log.Error("validation error", "detail", msg)
}

func (v *DataValidator) warnf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	v.warnings = append(v.warnings, msg)
	v.log.Warn("validation warning", "detail", msg)
}

func (v *DataValidator) checkRequiredFields(records []models.SalesRecord) {
	required := v.rules.DataQuality.RequiredFields
	for i, rec := range records {
		for _, field := range required {
			if !fieldPresent(rec, field) {
				v.errorf("record %d missing required field %q", i, field)
			}
		}
	}
}

func fieldPresent(rec models.SalesRecord, field string) bool {
	switch field {
	case "sale_date":
		return rec.SaleDate != nil
	case "staff_name":
		return rec.StaffName != ""
	case "patient_id":
		return rec.PatientID != ""
	case "clinic_name":
		return rec.ClinicName != ""
	case "product":
		return rec.Product != ""
	case "type":
		return rec.Type != ""
	case "invoice_number":
		return rec.InvoiceNumber != ""
	default:
		// Numeric fields always exist on the struct; zero is a value, not
		// an absence.
		return true
	}
}

// checkAmountRange warns on out-of-bounds totals. Unlike the transformer's
// range filter this never drops data: by the time the validator sees a row
// the decision to keep it has already been made.
func (v *DataValidator) checkAmountRange(records []models.SalesRecord) {
	min := v.rules.DataQuality.MinTransactionAmount
	max := v.rules.DataQuality.MaxTransactionAmount
	outside := 0
	for _, rec := range records {
		if rec.TotalPrice < min || rec.TotalPrice >= max {
			outside++
		}
	}
	if outside > 0 {
		v.warnf("%d transactions outside amount range [%.2f, %.2f)", outside, min, max)
	}
}

func (v *DataValidator) checkDateRange(records []models.SalesRecord) {
	dr := v.rules.DataQuality.DateRange
	start, errS := time.Parse("2006-01-02", dr.Start)
	end, errE := time.Parse("2006-01-02", dr.End)
	if errS != nil || errE != nil {
		return
	}

	beforeStart, afterEnd := 0, 0
	for _, rec := range records {
		if rec.SaleDate == nil {
			continue
		}
		if rec.SaleDate.Before(start) {
			beforeStart++
		}
		if rec.SaleDate.After(end) {
			afterEnd++
		}
	}
	// Each direction is counted and reported separately.
	if beforeStart > 0 {
		v.warnf("%d transactions dated before %s", beforeStart, dr.Start)
	}
	if afterEnd > 0 {
		v.warnf("%d transactions dated after %s", afterEnd, dr.End)
	}
}

// checkDuplicateInvoices counts every row involved in any duplicate group,
// not just the extras.
func (v *DataValidator) checkDuplicateInvoices(records []models.SalesRecord) {
	seen := map[string]int{}
	for _, rec := range records {
		if rec.InvoiceNumber == "" {
			continue
		}
		seen[rec.InvoiceNumber]++
	}
	involved := 0
	groups := 0
	for _, n := range seen {
		if n > 1 {
			involved += n
			groups++
		}
	}
	if involved > 0 {
		v.warnf("%d rows share %d duplicated invoice numbers", involved, groups)
	}
}

func (v *DataValidator) checkClinicWhitelist(records []models.SalesRecord) {
	known := map[string]bool{}
	for key, loc := range v.rules.Locations {
		known[strings.ToLower(strings.ReplaceAll(key, "_", " "))] = true
		for _, alias := range loc.Names {
			known[strings.ToLower(alias)] = true
		}
	}

	unknown := map[string]bool{}
	for _, rec := range records {
		name := strings.ToLower(strings.TrimSpace(rec.ClinicName))
		if name == "" {
			continue
		}
		if !known[name] {
			unknown[rec.ClinicName] = true
		}
	}
	for name := range unknown {
		v.warnf("clinic name %q is not in the configured location list", name)
	}
}
