package models

// PipelineVersion is stamped into every artifact's traceability block.
const PipelineVersion = "2.1.0"

// ArtifactMetadata is carried by every exported JSON document.
type ArtifactMetadata struct {
	BusinessName    string `json:"business_name"`
	GeneratedAt     string `json:"generated_at"`      // RFC 3339 UTC
	ETLRunTimestamp string `json:"etl_run_timestamp"` // RFC 3339 UTC
	ETLRunID        string `json:"etl_run_id"`
	DataPeriod      string `json:"data_period"` // "start to end"
}

// Traceability records how each artifact value was produced, for buyer-side
// audit of the data room.
type Traceability struct {
	FieldMappings      map[string]string           `json:"field_mappings"`
	CalculationLineage map[string]string           `json:"calculation_lineage"`
	DocumentRegistry   map[string]DocumentRegistry `json:"document_registry"`
	PipelineVersion    string                      `json:"pipeline_version"`
	Enabled            bool                        `json:"traceability_enabled"`
}

// DocumentRegistry describes one source document that fed the run.
type DocumentRegistry struct {
	SourceFile string `json:"source_file"`
	Category   string `json:"category"`
	RowCount   int    `json:"row_count,omitempty"`
}
