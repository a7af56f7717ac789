// Package schema checks the shape of exported JSON artifacts. Checks are
// purely structural: presence of required keys, container types, timestamp
// parseability. Business semantics live in validate and coverage; this
// package only answers "can the website consume this file".
package schema

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// SchemaVersion is carried in every validation result, not in the artifact
// itself.
const SchemaVersion = "1.0.0"

// Result is the outcome of validating one document. Errors make the document
// invalid; warnings are advisory.
type Result struct {
	Valid         bool     `json:"valid"`
	Errors        []string `json:"errors"`
	Warnings      []string `json:"warnings"`
	SchemaVersion string   `json:"schema_version"`
	File          string   `json:"file,omitempty"`
}

func newResult() *Result {
	return &Result{Valid: true, Errors: []string{}, Warnings: []string{}, SchemaVersion: SchemaVersion}
}

func (r *Result) errorf(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.Valid = false
}

func (r *Result) warnf(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Validator applies the export schemas.
type Validator struct {
	log *slog.Logger
}

// NewValidator builds a schema validator.
func NewValidator(log *slog.Logger) *Validator {
	if log == nil {
		log = slog.Default()
	}
	return &Validator{log: log}
}

// ValidateBusinessSaleData checks the main listing artifact: metadata and
// traceability blocks plus the sales and financials payloads.
func (v *Validator) ValidateBusinessSaleData(doc map[string]interface{}) *Result {
	res := newResult()
	for _, key := range []string{"metadata", "traceability", "sales", "financials"} {
		if _, ok := doc[key]; !ok {
			res.errorf("missing required top-level key %q", key)
		}
	}
	v.checkMetadata(res, doc["metadata"])
	v.checkTraceability(res, doc["traceability"])
	return res
}

// ValidateDueDiligenceCoverage checks the coverage artifact.
func (v *Validator) ValidateDueDiligenceCoverage(doc map[string]interface{}) *Result {
	res := newResult()
	for _, key := range []string{"metadata", "base_coverage", "document_coverage", "overall_assessment", "traceability"} {
		if _, ok := doc[key]; !ok {
			res.errorf("missing required top-level key %q", key)
		}
	}
	v.checkMetadata(res, doc["metadata"])
	v.checkTraceability(res, doc["traceability"])

	if oa, ok := doc["overall_assessment"].(map[string]interface{}); ok {
		for _, key := range []string{"overall_score", "readiness_level"} {
			if _, present := oa[key]; !present {
				res.warnf("overall_assessment missing %q", key)
			}
		}
	} else if doc["overall_assessment"] != nil {
		res.errorf("overall_assessment must be an object")
	}
	return res
}

// ValidateEquipmentAnalysis checks the equipment artifact. Its payload shape
// is looser; only the shared blocks are required.
func (v *Validator) ValidateEquipmentAnalysis(doc map[string]interface{}) *Result {
	res := newResult()
	for _, key := range []string{"metadata", "equipment"} {
		if _, ok := doc[key]; !ok {
			res.errorf("missing required top-level key %q", key)
		}
	}
	v.checkMetadata(res, doc["metadata"])
	return res
}

// checkMetadata validates the shared metadata block. A present-but-malformed
// timestamp is a warning, not an error: the website renders it verbatim.
func (v *Validator) checkMetadata(res *Result, raw interface{}) {
	if raw == nil {
		return // absence already reported by the caller
	}
	meta, ok := raw.(map[string]interface{})
	if !ok {
		res.errorf("metadata must be an object")
		return
	}
	for _, key := range []string{"business_name", "generated_at", "etl_run_timestamp", "data_period"} {
		if _, present := meta[key]; !present {
			res.errorf("metadata missing required field %q", key)
		}
	}
	for _, key := range []string{"generated_at", "etl_run_timestamp"} {
		if s, ok := meta[key].(string); ok && s != "" {
			if !parseableTimestamp(s) {
				res.warnf("metadata field %q is not a parseable ISO-8601 timestamp: %q", key, s)
			}
		}
	}
}

func (v *Validator) checkTraceability(res *Result, raw interface{}) {
	if raw == nil {
		return
	}
	tr, ok := raw.(map[string]interface{})
	if !ok {
		res.errorf("traceability must be an object")
		return
	}
	for _, key := range []string{"field_mappings", "calculation_lineage", "document_registry", "pipeline_version"} {
		if _, present := tr[key]; !present {
			res.errorf("traceability missing required field %q", key)
		}
	}
	if ver, present := tr["pipeline_version"]; present {
		if _, ok := ver.(string); !ok {
			res.errorf("traceability pipeline_version must be a string")
		}
	}
	if enabled, present := tr["traceability_enabled"]; present {
		if _, ok := enabled.(bool); !ok {
			res.errorf("traceability_enabled must be a boolean")
		}
	} else {
		res.warnf("traceability missing traceability_enabled flag")
	}
	if reg, present := tr["document_registry"]; present {
		switch reg.(type) {
		case []interface{}, map[string]interface{}:
		default:
			res.errorf("document_registry must be a list or object")
		}
	}
}

// parseableTimestamp accepts RFC 3339 and date-only forms, with a trailing Z
// treated as UTC.
func parseableTimestamp(s string) bool {
	layouts := []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}
	for _, layout := range layouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	if strings.HasSuffix(s, "Z") {
		if _, err := time.Parse("2006-01-02T15:04:05Z", s); err == nil {
			return true
		}
	}
	return false
}

// ValidateJSONFile reads and validates one export, choosing the schema by
// filename substring. Unreadable, malformed, or unrecognized files fail
// closed.
func (v *Validator) ValidateJSONFile(path string) *Result {
	fail := func(format string, args ...interface{}) *Result {
		res := newResult()
		res.File = path
		res.errorf(format, args...)
		return res
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fail("cannot read file: %v", err)
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fail("malformed JSON: %v", err)
	}

	var res *Result
	base := filepath.Base(path)
	switch {
	case strings.Contains(base, "business_sale_data"):
		res = v.ValidateBusinessSaleData(doc)
	case strings.Contains(base, "due_diligence_coverage"):
		res = v.ValidateDueDiligenceCoverage(doc)
	case strings.Contains(base, "equipment_analysis"):
		res = v.ValidateEquipmentAnalysis(doc)
	default:
		return fail("unrecognized export filename %q", base)
	}
	res.File = path
	return res
}

// ExportSummary aggregates a directory validation run.
type ExportSummary struct {
	FilesChecked  int       `json:"files_checked"`
	ValidFiles    int       `json:"valid_files"`
	InvalidFiles  int       `json:"invalid_files"`
	TotalErrors   int       `json:"total_errors"`
	TotalWarnings int       `json:"total_warnings"`
	Results       []*Result `json:"results"`
}

// ValidateAllExports walks a directory tree and validates every JSON file
// found.
func (v *Validator) ValidateAllExports(dir string) (*ExportSummary, error) {
	summary := &ExportSummary{Results: []*Result{}}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		res := v.ValidateJSONFile(path)
		summary.FilesChecked++
		summary.TotalErrors += len(res.Errors)
		summary.TotalWarnings += len(res.Warnings)
		if res.Valid {
			summary.ValidFiles++
		} else {
			summary.InvalidFiles++
			v.log.Warn("export failed schema validation", "file", path, "errors", res.Errors)
		}
		summary.Results = append(summary.Results, res)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("schema: walking %s: %w", dir, err)
	}

	v.log.Info("export validation complete",
		"files", summary.FilesChecked,
		"valid", summary.ValidFiles,
		"invalid", summary.InvalidFiles)
	return summary, nil
}
