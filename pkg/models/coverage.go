package models

// Coverage statuses, worst to best. no_data and no_data_in_period short-circuit
// scoring entirely; the rest are threshold bands over the completeness score.
const (
	StatusNoData         = "no_data"
	StatusNoDataInPeriod = "no_data_in_period"
	StatusPoor           = "poor"
	StatusFair           = "fair"
	StatusGood           = "good"
	StatusExcellent      = "excellent"
)

// CategoryCoverage scores one data category (sales, financial, equipment).
type CategoryCoverage struct {
	Status             string                 `json:"status"`
	CompletenessScore  float64                `json:"completeness_score"` // 0-100, 1 decimal
	MissingPeriods     []string               `json:"missing_periods,omitempty"`
	MissingDocuments   []string               `json:"missing_documents,omitempty"`
	DataQualityIssues  []string               `json:"data_quality_issues,omitempty"`
	CoverageDetails    map[string]interface{} `json:"coverage_details,omitempty"`
	FallbackStrategies []string               `json:"fallback_strategies,omitempty"`
}

// DueDiligence is the weighted roll-up across categories.
type DueDiligence struct {
	OverallScore   float64            `json:"overall_score"`
	ReadinessLevel string             `json:"readiness_level"`
	Recommendation string             `json:"recommendation"`
	CategoryScores map[string]float64 `json:"category_scores"`
}

// CoverageReport is the full due-diligence completeness assessment for one
// pipeline run. Recomputed from scratch every run.
type CoverageReport struct {
	Sales           *CategoryCoverage `json:"sales"`
	Financial       *CategoryCoverage `json:"financial"`
	Equipment       *CategoryCoverage `json:"equipment"`
	DueDiligence    *DueDiligence     `json:"due_diligence"`
	Recommendations []string          `json:"recommendations"`
}

// Category returns the named category block, nil when absent.
func (r *CoverageReport) Category(name string) *CategoryCoverage {
	switch name {
	case "sales":
		return r.Sales
	case "financial":
		return r.Financial
	case "equipment":
		return r.Equipment
	}
	return nil
}
