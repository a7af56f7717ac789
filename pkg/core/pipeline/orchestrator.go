// Package pipeline wires the full ETL flow: ingest raw exports, normalize
// and filter, validate, score coverage, compute financial summaries, and
// write the website artifacts. One Run processes one snapshot to completion;
// per-dataset failures are logged and skipped, never fatal.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"practice_sale/pkg/core/config"
	"practice_sale/pkg/core/coverage"
	"practice_sale/pkg/core/financials"
	"practice_sale/pkg/core/ingest"
	"practice_sale/pkg/core/mapping"
	"practice_sale/pkg/core/report"
	"practice_sale/pkg/core/sanitize"
	"practice_sale/pkg/core/schema"
	"practice_sale/pkg/core/store"
	"practice_sale/pkg/core/transform"
	"practice_sale/pkg/core/validate"
	"practice_sale/pkg/models"
)

// Artifact filenames the website fetches.
const (
	FileBusinessSaleData     = "business_sale_data.json"
	FileDueDiligenceCoverage = "due_diligence_coverage.json"
	FileEquipmentAnalysis    = "equipment_analysis.json"
	FileRunReport            = "run_report.md"
)

// RunResult is the outcome of one pipeline run.
type RunResult struct {
	RunID         string                     `json:"run_id"`
	Artifacts     []string                   `json:"artifacts"`
	Validation    validate.ValidationSummary `json:"validation"`
	Coverage      *models.CoverageReport     `json:"coverage"`
	SchemaSummary *schema.ExportSummary      `json:"schema_summary"`
	Duration      time.Duration              `json:"duration"`
}

// Orchestrator manages the end-to-end data flow for one configuration.
type Orchestrator struct {
	cfg      *config.Config
	registry *mapping.Registry
	loader   *ingest.Loader
	schema   *schema.Validator
	runs     *store.RunRepo
	log      *slog.Logger
}

// NewOrchestrator builds an orchestrator with all collaborators wired.
func NewOrchestrator(cfg *config.Config, log *slog.Logger) (*Orchestrator, error) {
	if cfg == nil {
		return nil, fmt.Errorf("pipeline: configuration is required")
	}
	if err := cfg.Business.Validate(); err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{
		cfg:      cfg,
		registry: mapping.NewRegistry(),
		loader:   ingest.NewLoader(log),
		schema:   schema.NewValidator(log),
		runs:     store.NewRunRepo(),
		log:      log,
	}, nil
}

// Run executes the full pipeline once.
func (o *Orchestrator) Run(ctx context.Context) (*RunResult, error) {
	started := time.Now().UTC()
	runID := uuid.NewString()
	log := o.log.With("run_id", runID)
	log.Info("pipeline run started", "business", o.cfg.Business.BusinessName)

	// 1. Ingest.
	raw, docs, equipment, registry := o.loadInputs(log)

	// 2. Transform and filter.
	transformer, err := transform.NewSalesTransformer(&o.cfg.Business, o.registry, log)
	if err != nil {
		return nil, err
	}
	result := transformer.Transform(raw)

	// 3. Validate.
	validator := validate.NewDataValidator(&o.cfg.Business, log)
	if result.Sales != nil {
		validator.ValidateSalesData(result.Sales.Records)
	}
	validator.ValidateFinancialData(docs)
	summary := validator.Summary()

	// 4. Financial summaries from the profit & loss statements.
	finSummaries := o.summarizeFinancials(docs, log)

	// 5. Coverage scoring.
	analyzer := coverage.NewAnalyzer(&o.cfg.Business, log)
	var salesRecords []models.SalesRecord
	if result.Sales != nil {
		salesRecords = result.Sales.Records
	}
	covReport := analyzer.AnalyzeComprehensiveCoverage(coverage.Input{
		SalesRecords:   salesRecords,
		FinancialDocs:  docs,
		EquipmentItems: equipment,
	})

	// 6. Export artifacts.
	exporter, err := store.NewFileExporter(o.cfg.ExportDir, log)
	if err != nil {
		return nil, err
	}
	meta := o.metadata(runID, started)
	trace := o.traceability(registry)

	artifacts, err := o.writeArtifacts(exporter, meta, trace, result, docs, finSummaries, equipment, covReport)
	if err != nil {
		return nil, err
	}

	// 7. Markdown run report for human review.
	md := report.RenderSummary(&report.RunSummary{
		BusinessName: o.cfg.Business.BusinessName,
		RunID:        runID,
		GeneratedAt:  meta.GeneratedAt,
		Metrics:      result.Metrics,
		Financials:   finSummaries,
		Coverage:     covReport,
		Validation:   summary,
	})
	if !report.ValidateMarkdown(md) {
		log.Warn("run report did not parse as markdown", "file", FileRunReport)
	}
	if err := exporter.WriteText(FileRunReport, md); err != nil {
		return nil, err
	}

	// 8. Schema-check what was just written; the website serves these blind.
	schemaSummary, err := o.schema.ValidateAllExports(exporter.Dir())
	if err != nil {
		return nil, err
	}

	runResult := &RunResult{
		RunID:         runID,
		Artifacts:     artifacts,
		Validation:    summary,
		Coverage:      covReport,
		SchemaSummary: schemaSummary,
		Duration:      time.Since(started),
	}

	// 9. Run registry, only when a database was initialized.
	if store.GetPool() != nil {
		record := &store.RunRecord{
			RunID:        runID,
			BusinessName: o.cfg.Business.BusinessName,
			StartedAt:    started,
			FinishedAt:   time.Now().UTC(),
			Passed:       summary.Passed,
			OverallScore: covReport.DueDiligence.OverallScore,
			Summary:      runResult,
		}
		if err := o.runs.Save(ctx, record); err != nil {
			log.Warn("run registry save failed", "error", err)
		}
	}

	log.Info("pipeline run finished",
		"duration", runResult.Duration,
		"passed", summary.Passed,
		"overall_score", covReport.DueDiligence.OverallScore)
	return runResult, nil
}

// loadInputs reads every configured export. A missing or broken file is
// logged and its category simply stays empty; coverage scoring reflects it.
func (o *Orchestrator) loadInputs(log *slog.Logger) (map[string]*models.RawTable, map[string]models.FinancialDocument, []models.EquipmentItem, map[string]models.DocumentRegistry) {
	raw := map[string]*models.RawTable{}
	registry := map[string]models.DocumentRegistry{}
	in := o.cfg.Inputs

	record := func(key, file, category string, rows int) {
		registry[key] = models.DocumentRegistry{SourceFile: file, Category: category, RowCount: rows}
	}

	switch {
	case in.SalesCSV != "":
		if table, err := o.loader.ReadCSV(in.SalesCSV); err != nil {
			log.Error("sales csv load failed", "file", in.SalesCSV, "error", err)
		} else {
			raw["sales"] = table
			record("sales", in.SalesCSV, "sales", len(table.Rows))
		}
	case in.SalesXLSX != "":
		if table, err := o.loader.ReadXLSX(in.SalesXLSX, ""); err != nil {
			log.Error("sales xlsx load failed", "file", in.SalesXLSX, "error", err)
		} else {
			raw["sales"] = table
			record("sales", in.SalesXLSX, "sales", len(table.Rows))
		}
	case in.SalesHTML != "":
		if tables, err := o.loader.ReadHTMLTables(in.SalesHTML); err != nil || len(tables) == 0 {
			log.Error("sales html load failed", "file", in.SalesHTML, "error", err)
		} else {
			// First table is the transaction report; the print view appends
			// summary tables after it.
			raw["sales"] = tables[0]
			record("sales", in.SalesHTML, "sales", len(tables[0].Rows))
		}
	}

	for name, path := range in.RelatedCSVs {
		table, err := o.loader.ReadCSV(path)
		if err != nil {
			log.Error("related csv load failed", "dataset", name, "file", path, "error", err)
			continue
		}
		raw[name] = table
		record(name, path, "sales_related", len(table.Rows))
	}

	docs := map[string]models.FinancialDocument{}
	if in.FinancialJSON != "" {
		loaded, err := o.loader.ReadFinancialJSON(in.FinancialJSON)
		if err != nil {
			log.Error("financial json load failed", "file", in.FinancialJSON, "error", err)
		} else {
			docs = loaded
			record("financials", in.FinancialJSON, "financial", len(docs))
		}
	}

	var equipment []models.EquipmentItem
	if in.EquipmentCSV != "" {
		table, err := o.loader.ReadCSV(in.EquipmentCSV)
		if err != nil {
			log.Error("equipment csv load failed", "file", in.EquipmentCSV, "error", err)
		} else {
			equipment = transform.EquipmentFromTable(o.registry, table)
			record("equipment", in.EquipmentCSV, "equipment", len(table.Rows))
		}
	}

	return raw, docs, equipment, registry
}

// summarizeFinancials computes headline figures from every statement that
// looks like a profit & loss, ordered by period.
func (o *Orchestrator) summarizeFinancials(docs map[string]models.FinancialDocument, log *slog.Logger) []*financials.Summary {
	calc := financials.NewCalculator(&o.cfg.Business, log)

	names := make([]string, 0, len(docs))
	for name := range docs {
		lower := strings.ToLower(name)
		if strings.Contains(lower, "profit") || strings.Contains(lower, "pnl") ||
			strings.Contains(lower, "p&l") || strings.Contains(lower, "income") {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	summaries := make([]*financials.Summary, 0, len(names))
	for _, name := range names {
		doc := docs[name]
		s := calc.Summarize(doc)
		if s.Period == "" {
			s.Period = doc.Name
		}
		summaries = append(summaries, s)
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Period < summaries[j].Period })
	return summaries
}

func (o *Orchestrator) metadata(runID string, started time.Time) models.ArtifactMetadata {
	ts := started.Format(time.RFC3339)
	period := o.cfg.Business.AnalysisPeriod
	return models.ArtifactMetadata{
		BusinessName:    o.cfg.Business.BusinessName,
		GeneratedAt:     ts,
		ETLRunTimestamp: ts,
		ETLRunID:        runID,
		DataPeriod:      fmt.Sprintf("%s to %s", period.StartDate, period.EndDate),
	}
}

func (o *Orchestrator) traceability(registry map[string]models.DocumentRegistry) models.Traceability {
	return models.Traceability{
		FieldMappings: o.registry.FieldMap("sales_mappings"),
		CalculationLineage: map[string]string{
			"total_revenue":       "sum of total_price over filtered sales records",
			"average_transaction": "total_revenue / total_transactions",
			"yoy_growth":          "(current year - prior year) / prior year * 100",
			"ebitda":              "net_income + interest + taxes + depreciation + amortization",
			"sde":                 "ebitda + owner compensation add-backs",
			"valuation_range":     "sde * configured low/high multiples",
			"completeness_score":  "present units / expected units * 100, rounded to 1 decimal",
			"overall_score":       "sales*0.4 + financial*0.4 + equipment*0.2",
		},
		DocumentRegistry: registry,
		PipelineVersion:  models.PipelineVersion,
		Enabled:          o.cfg.Traceability,
	}
}

// writeArtifacts builds and writes the three JSON documents. Financial
// statement payloads pass through the sanitizer; everything else is typed and
// already JSON-safe.
func (o *Orchestrator) writeArtifacts(
	exporter *store.FileExporter,
	meta models.ArtifactMetadata,
	trace models.Traceability,
	result *transform.Result,
	docs map[string]models.FinancialDocument,
	finSummaries []*financials.Summary,
	equipment []models.EquipmentItem,
	covReport *models.CoverageReport,
) ([]string, error) {
	cleanDocs := map[string]interface{}{}
	for name, doc := range docs {
		cleanDocs[name] = map[string]interface{}{
			"name":        doc.Name,
			"source_file": doc.SourceFile,
			"period":      doc.Period,
			"data":        sanitize.Value(doc.Data),
		}
	}

	saleData := map[string]interface{}{
		"metadata":     meta,
		"traceability": trace,
		"sales": map[string]interface{}{
			"primary":          result.Sales,
			"related":          result.Related,
			"business_metrics": result.Metrics,
		},
		"financials": map[string]interface{}{
			"summaries": finSummaries,
			"documents": cleanDocs,
		},
	}

	ddCoverage := map[string]interface{}{
		"metadata": meta,
		"base_coverage": map[string]interface{}{
			"sales":     covReport.Sales,
			"equipment": covReport.Equipment,
		},
		"document_coverage": map[string]interface{}{
			"financial": covReport.Financial,
		},
		"overall_assessment": covReport.DueDiligence,
		"recommendations":    covReport.Recommendations,
		"traceability":       trace,
	}

	totalValue := 0.0
	for _, item := range equipment {
		totalValue += item.EstimatedValue
	}
	equipmentAnalysis := map[string]interface{}{
		"metadata": meta,
		"equipment": map[string]interface{}{
			"items":       equipment,
			"total_value": totalValue,
			"coverage":    covReport.Equipment,
		},
	}

	written := []string{}
	for name, doc := range map[string]interface{}{
		FileBusinessSaleData:     saleData,
		FileDueDiligenceCoverage: ddCoverage,
		FileEquipmentAnalysis:    equipmentAnalysis,
	} {
		if err := exporter.WriteJSON(name, doc); err != nil {
			return nil, err
		}
		written = append(written, filepath.Join(exporter.Dir(), name))
	}
	sort.Strings(written)
	return written, nil
}
