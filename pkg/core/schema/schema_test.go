package schema

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validSaleDoc() map[string]interface{} {
	return map[string]interface{}{
		"metadata": map[string]interface{}{
			"business_name":     "Cranberry Hearing & Balance",
			"generated_at":      "2024-06-01T12:00:00Z",
			"etl_run_timestamp": "2024-06-01T12:00:00Z",
			"data_period":       "2023-01-01 to 2023-12-31",
		},
		"traceability": map[string]interface{}{
			"field_mappings":       map[string]interface{}{},
			"calculation_lineage":  map[string]interface{}{},
			"document_registry":    []interface{}{},
			"pipeline_version":     "2.1.0",
			"traceability_enabled": true,
		},
		"sales":      map[string]interface{}{},
		"financials": map[string]interface{}{},
	}
}

func TestValidateBusinessSaleData_Valid(t *testing.T) {
	v := NewValidator(nil)
	res := v.ValidateBusinessSaleData(validSaleDoc())
	if !res.Valid {
		t.Fatalf("well-formed document should pass: %v", res.Errors)
	}
	if res.SchemaVersion != "1.0.0" {
		t.Errorf("schema version = %q", res.SchemaVersion)
	}
}

func TestValidateBusinessSaleData_MissingTraceabilityIsError(t *testing.T) {
	v := NewValidator(nil)
	doc := validSaleDoc()
	delete(doc, "traceability")

	res := v.ValidateBusinessSaleData(doc)
	if res.Valid {
		t.Fatal("missing traceability must invalidate the document")
	}
	found := false
	for _, e := range res.Errors {
		if strings.Contains(e, "traceability") {
			found = true
		}
	}
	if !found {
		t.Errorf("error should mention traceability: %v", res.Errors)
	}
}

func TestValidateBusinessSaleData_BadTimestampIsWarningOnly(t *testing.T) {
	v := NewValidator(nil)
	doc := validSaleDoc()
	doc["metadata"].(map[string]interface{})["generated_at"] = "yesterday-ish"

	res := v.ValidateBusinessSaleData(doc)
	if !res.Valid {
		t.Fatalf("malformed but present timestamp must not invalidate: %v", res.Errors)
	}
	if len(res.Warnings) == 0 {
		t.Fatal("expected a timestamp warning")
	}
	if !strings.Contains(res.Warnings[0], "generated_at") {
		t.Errorf("warning should name the field: %v", res.Warnings)
	}
}

func TestValidateBusinessSaleData_WrongContainerTypeIsError(t *testing.T) {
	v := NewValidator(nil)
	doc := validSaleDoc()
	doc["metadata"] = "not an object"

	res := v.ValidateBusinessSaleData(doc)
	if res.Valid {
		t.Fatal("string metadata must invalidate the document")
	}
}

func TestValidateDueDiligenceCoverage(t *testing.T) {
	v := NewValidator(nil)
	doc := map[string]interface{}{
		"metadata":           validSaleDoc()["metadata"],
		"base_coverage":      map[string]interface{}{},
		"document_coverage":  map[string]interface{}{},
		"overall_assessment": map[string]interface{}{"overall_score": 78.0, "readiness_level": "good"},
		"traceability":       validSaleDoc()["traceability"],
	}

	res := v.ValidateDueDiligenceCoverage(doc)
	if !res.Valid {
		t.Fatalf("well-formed coverage document should pass: %v", res.Errors)
	}

	delete(doc, "overall_assessment")
	if v.ValidateDueDiligenceCoverage(doc).Valid {
		t.Error("missing overall_assessment must invalidate")
	}
}

func TestParseableTimestamp(t *testing.T) {
	good := []string{"2024-06-01T12:00:00Z", "2024-06-01T12:00:00+05:00", "2024-06-01T12:00:00", "2024-06-01"}
	for _, s := range good {
		if !parseableTimestamp(s) {
			t.Errorf("%q should parse", s)
		}
	}
	bad := []string{"June 1st", "", "2024/06/01"}
	for _, s := range bad {
		if parseableTimestamp(s) {
			t.Errorf("%q should not parse", s)
		}
	}
}

func TestValidateJSONFile_FailsClosed(t *testing.T) {
	v := NewValidator(nil)
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"business_sale_data.json", "{not json"},
		{"mystery.json", "{}"},
	}
	for _, tt := range tests {
		path := filepath.Join(dir, tt.name)
		if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
			t.Fatal(err)
		}
		if res := v.ValidateJSONFile(path); res.Valid {
			t.Errorf("%s should fail closed", tt.name)
		}
	}

	if res := v.ValidateJSONFile(filepath.Join(dir, "missing.json")); res.Valid {
		t.Error("unreadable file should fail closed")
	}
}

func TestValidateAllExports(t *testing.T) {
	v := NewValidator(nil)
	dir := t.TempDir()

	write := func(name, content string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("business_sale_data.json", `{"metadata":{"business_name":"x","generated_at":"2024-06-01T12:00:00Z","etl_run_timestamp":"2024-06-01T12:00:00Z","data_period":"2023"},"traceability":{"field_mappings":{},"calculation_lineage":{},"document_registry":[],"pipeline_version":"2.1.0","traceability_enabled":true},"sales":{},"financials":{}}`)
	write("due_diligence_coverage.json", `{}`)
	write("notes.txt", "not validated")

	summary, err := v.ValidateAllExports(dir)
	if err != nil {
		t.Fatal(err)
	}
	if summary.FilesChecked != 2 {
		t.Errorf("only json files count: got %d", summary.FilesChecked)
	}
	if summary.ValidFiles != 1 || summary.InvalidFiles != 1 {
		t.Errorf("want 1 valid and 1 invalid, got %d/%d", summary.ValidFiles, summary.InvalidFiles)
	}
	if summary.TotalErrors == 0 {
		t.Error("the empty coverage document should contribute errors")
	}
}
