package config

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleConfig = `
business:
  business_name: Cranberry Hearing & Balance
  locations:
    cranberry:
      names: [Cranberry, Cranberry Twp]
      for_sale: true
    west_view:
      names: [West View, Westview]
      for_sale: true
    pittsburgh:
      names: [Pittsburgh]
      for_sale: false
  data_quality:
    required_fields: [sale_date, clinic_name]
    min_transaction_amount: 0.01
    max_transaction_amount: 25000
    date_range:
      start: "2021-01-01"
      end: "2024-12-31"
  analysis_period:
    start_date: "2023-01-01"
    end_date: "2023-12-31"
  valuation:
    low_multiple: 0.8
    high_multiple: 1.2
inputs:
  sales_csv: data/sales.csv
  financial_json: data/financials.json
export_dir: site/data
traceability: true
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Business.BusinessName != "Cranberry Hearing & Balance" {
		t.Errorf("business name = %q", cfg.Business.BusinessName)
	}
	if len(cfg.Business.Locations) != 3 {
		t.Errorf("locations = %d", len(cfg.Business.Locations))
	}
	if !cfg.Business.Locations["cranberry"].ForSale || cfg.Business.Locations["pittsburgh"].ForSale {
		t.Error("for_sale flags not parsed")
	}
	if cfg.Business.DataQuality.MaxTransactionAmount != 25000 {
		t.Errorf("max amount = %v", cfg.Business.DataQuality.MaxTransactionAmount)
	}
	if cfg.ExportDir != "site/data" {
		t.Errorf("export dir = %q", cfg.ExportDir)
	}
	if !cfg.Traceability {
		t.Error("traceability flag not parsed")
	}
}

func TestLoad_InvalidRulesRejected(t *testing.T) {
	// No location flagged for sale: the pipeline would silently drop
	// everything, so the config is rejected up front.
	bad := `
business:
  business_name: X
  locations:
    a:
      names: [A]
      for_sale: false
  data_quality:
    min_transaction_amount: 1
    max_transaction_amount: 100
  analysis_period:
    start_date: "2023-01-01"
    end_date: "2023-12-31"
`
	if _, err := Load(writeConfig(t, bad)); err == nil {
		t.Fatal("config without a for-sale location should be rejected")
	}
}

func TestLoad_DefaultExportDir(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig[:len(sampleConfig)-len("export_dir: site/data\ntraceability: true\n")]))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ExportDir != "exports" {
		t.Errorf("default export dir = %q", cfg.ExportDir)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/rules.yaml"); err == nil {
		t.Fatal("missing file should error")
	}
}
