// Package config loads the business-rules file. The rules are read-only
// input: the pipeline never writes this structure back.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"practice_sale/pkg/models"
)

// Config is the top-level pipeline configuration file.
type Config struct {
	Business models.BusinessRules `yaml:"business"`
	// Paths to the raw exports, relative to the config file's directory
	// unless absolute.
	Inputs InputPaths `yaml:"inputs"`
	// Directory the JSON artifacts are written to.
	ExportDir string `yaml:"export_dir"`
	// Enables the traceability block in exported artifacts.
	Traceability bool `yaml:"traceability"`
}

// InputPaths names the raw export files per category. Empty entries mean the
// category was not provided; coverage scoring reflects that.
type InputPaths struct {
	SalesCSV      string            `yaml:"sales_csv"`
	SalesXLSX     string            `yaml:"sales_xlsx"`
	SalesHTML     string            `yaml:"sales_html"`
	RelatedCSVs   map[string]string `yaml:"related_csvs"`
	FinancialJSON string            `yaml:"financial_json"`
	EquipmentCSV  string            `yaml:"equipment_csv"`
}

// Load reads and validates a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if err := cfg.Business.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	if cfg.ExportDir == "" {
		cfg.ExportDir = "exports"
	}
	return &cfg, nil
}
