package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"practice_sale/pkg/core/config"
	"practice_sale/pkg/core/report"
	"practice_sale/pkg/models"
)

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	sales := writeInput(t, dir, "sales.csv",
		"Sale Date,Clinic,Staff,Product,Type,Total Price,Invoice\n"+
			"2023-01-10,Cranberry,Dr. Marks,Oticon Real 1,Hearing Aid Sale,\"$4,500.00\",INV-1\n"+
			"2023-02-11,West View,Dr. Marks,Battery Pack,Accessory,25.00,INV-2\n"+
			"2023-03-12,Pittsburgh,Dr. Chen,Oticon Real 1,Hearing Aid Sale,4800.00,INV-3\n")

	returns := writeInput(t, dir, "returns.csv",
		"Sale Date,Clinic,Staff,Product,Type,Total Price,Invoice\n"+
			"2023-04-01,Cranberry,Dr. Marks,Oticon Real 1,Return,1200.00,INV-9\n")

	fin := writeInput(t, dir, "financials.json", `{
		"profit_loss_2023": {"period": "2023", "data": {
			"total_revenue": "$950,000.00",
			"net_income": 120000,
			"interest_expense": 12000,
			"income_tax": 18000,
			"depreciation": 25000,
			"owner_salary": 110000
		}},
		"balance_sheet_2023": {"period": "2023", "data": {"total_assets": 450000}}
	}`)

	equip := writeInput(t, dir, "equipment.csv",
		"Item,Serial #,Location,Purchase Price,Est. Value\n"+
			"GSI 39 Audiometer,A-1001,Cranberry,\"$12,000.00\",\"$6,000.00\"\n"+
			"Noahlink Programmer,N-2,West View,400,300\n")

	return &config.Config{
		Business: models.BusinessRules{
			BusinessName: "Cranberry Hearing & Balance",
			Locations: map[string]models.Location{
				"cranberry":  {Names: []string{"Cranberry", "Cranberry Twp"}, ForSale: true},
				"west_view":  {Names: []string{"West View", "Westview"}, ForSale: true},
				"pittsburgh": {Names: []string{"Pittsburgh"}, ForSale: false},
			},
			DataQuality: models.DataQuality{
				RequiredFields:       []string{"sale_date", "clinic_name"},
				MinTransactionAmount: 0.01,
				MaxTransactionAmount: 25000,
				DateRange:            models.DateRange{Start: "2021-01-01", End: "2024-12-31"},
			},
			AnalysisPeriod: models.AnalysisPeriod{StartDate: "2023-01-01", EndDate: "2023-12-31"},
			Valuation:      models.Valuation{LowMultiple: 0.8, HighMultiple: 1.2},
		},
		Inputs: config.InputPaths{
			SalesCSV:      sales,
			RelatedCSVs:   map[string]string{"returns": returns},
			FinancialJSON: fin,
			EquipmentCSV:  equip,
		},
		ExportDir:    filepath.Join(dir, "exports"),
		Traceability: true,
	}
}

func TestRun_EndToEnd(t *testing.T) {
	cfg := testConfig(t)
	o, err := NewOrchestrator(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}

	result, err := o.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if result.RunID == "" {
		t.Error("run id should be assigned")
	}
	if len(result.Artifacts) != 3 {
		t.Errorf("want 3 artifacts, got %v", result.Artifacts)
	}
	if !result.Validation.Passed {
		t.Errorf("clean fixture should validate: %+v", result.Validation)
	}

	// Every artifact written must pass its own schema.
	if result.SchemaSummary.InvalidFiles != 0 {
		t.Errorf("exports failed schema validation: %+v", result.SchemaSummary.Results)
	}
	if result.SchemaSummary.FilesChecked != 3 {
		t.Errorf("want 3 json files checked, got %d", result.SchemaSummary.FilesChecked)
	}

	var doc map[string]interface{}
	data, err := os.ReadFile(filepath.Join(cfg.ExportDir, FileBusinessSaleData))
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}

	trace := doc["traceability"].(map[string]interface{})
	if trace["pipeline_version"] != models.PipelineVersion {
		t.Errorf("pipeline version = %v", trace["pipeline_version"])
	}
	reg := trace["document_registry"].(map[string]interface{})
	for _, key := range []string{"sales", "returns", "financials", "equipment"} {
		if _, ok := reg[key]; !ok {
			t.Errorf("document registry missing %q", key)
		}
	}

	// The Pittsburgh row is filtered out of the sale subset.
	sales := doc["sales"].(map[string]interface{})["primary"].(map[string]interface{})
	if n := len(sales["records"].([]interface{})); n != 2 {
		t.Errorf("want 2 filtered sales records, got %d", n)
	}

	fin := doc["financials"].(map[string]interface{})
	summaries := fin["summaries"].([]interface{})
	if len(summaries) != 1 {
		t.Fatalf("want 1 financial summary, got %d", len(summaries))
	}
	s := summaries[0].(map[string]interface{})
	if s["ebitda"].(float64) != 175000 {
		t.Errorf("ebitda = %v", s["ebitda"])
	}
	if s["sde"].(float64) != 285000 {
		t.Errorf("sde = %v", s["sde"])
	}

	// The Markdown run report is written alongside the JSON artifacts and
	// must parse as markdown.
	md, err := os.ReadFile(filepath.Join(cfg.ExportDir, FileRunReport))
	if err != nil {
		t.Fatalf("run report missing: %v", err)
	}
	if !report.ValidateMarkdown(string(md)) {
		t.Error("run report should be parseable markdown")
	}
}

func TestRun_MissingCategoriesStillProduceArtifacts(t *testing.T) {
	cfg := testConfig(t)
	cfg.Inputs.FinancialJSON = ""
	cfg.Inputs.EquipmentCSV = ""
	cfg.ExportDir = filepath.Join(t.TempDir(), "exports")

	o, err := NewOrchestrator(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	result, err := o.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if result.Coverage.Financial.Status != models.StatusNoData {
		t.Errorf("financial coverage = %q", result.Coverage.Financial.Status)
	}
	if result.Coverage.Equipment.Status != models.StatusNoData {
		t.Errorf("equipment coverage = %q", result.Coverage.Equipment.Status)
	}
	if len(result.Artifacts) != 3 {
		t.Errorf("artifacts must still be written: %v", result.Artifacts)
	}
	if result.Coverage.DueDiligence.ReadinessLevel != models.StatusPoor {
		t.Errorf("two empty categories should rate poor, got %q", result.Coverage.DueDiligence.ReadinessLevel)
	}
}

func TestNewOrchestrator_RejectsBadRules(t *testing.T) {
	cfg := testConfig(t)
	cfg.Business.Locations = nil
	if _, err := NewOrchestrator(cfg, nil); err == nil {
		t.Fatal("invalid rules must abort construction")
	}
}
