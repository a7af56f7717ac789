package coverage

import (
	"strings"
	"testing"
	"time"

	"practice_sale/pkg/models"
)

func testRules() *models.BusinessRules {
	return &models.BusinessRules{
		BusinessName: "Cranberry Hearing & Balance",
		Locations: map[string]models.Location{
			"cranberry": {Names: []string{"Cranberry"}, ForSale: true},
		},
		AnalysisPeriod: models.AnalysisPeriod{StartDate: "2023-01-01", EndDate: "2023-12-31"},
	}
}

func saleIn(month string) models.SalesRecord {
	d, _ := time.Parse("2006-01-02", month+"-15")
	return models.SalesRecord{SaleDate: &d, ClinicName: "Cranberry", TotalPrice: 100}
}

// salesForMonths fills each given month with enough transactions to stay
// above the low-volume threshold.
func salesForMonths(months ...string) []models.SalesRecord {
	var recs []models.SalesRecord
	for _, m := range months {
		for i := 0; i < lowVolumeThreshold; i++ {
			recs = append(recs, saleIn(m))
		}
	}
	return recs
}

func TestAnalyzeSales_TenOfTwelveMonthsIsFair(t *testing.T) {
	a := NewAnalyzer(testRules(), nil)
	records := salesForMonths(
		"2023-01", "2023-02", "2023-03", "2023-04", "2023-05",
		"2023-06", "2023-07", "2023-08", "2023-09", "2023-10")

	cov := a.analyzeSales(records)
	if cov.CompletenessScore != 83.3 {
		t.Errorf("10/12 months should score 83.3, got %v", cov.CompletenessScore)
	}
	if cov.Status != models.StatusFair {
		t.Errorf("83.3 should rate fair, got %q", cov.Status)
	}
	if len(cov.MissingPeriods) != 2 {
		t.Errorf("want 2 missing months, got %v", cov.MissingPeriods)
	}
	if len(cov.FallbackStrategies) == 0 {
		t.Error("missing months should carry fallback strategies")
	}
}

func TestAnalyzeSales_EmptyAndOutOfPeriod(t *testing.T) {
	a := NewAnalyzer(testRules(), nil)

	if cov := a.analyzeSales(nil); cov.Status != models.StatusNoData {
		t.Errorf("no records: got %q", cov.Status)
	}

	// Records exist but all predate the analysis period.
	cov := a.analyzeSales(salesForMonths("2021-06"))
	if cov.Status != models.StatusNoDataInPeriod {
		t.Errorf("out-of-period records: got %q", cov.Status)
	}
}

func TestAnalyzeSales_MonthPastPeriodDoesNotInflateScore(t *testing.T) {
	a := NewAnalyzer(testRules(), nil)
	records := salesForMonths(
		"2023-01", "2023-02", "2023-03", "2023-04", "2023-05", "2023-06",
		"2023-07", "2023-08", "2023-09", "2023-10", "2023-11", "2023-12")
	records = append(records, saleIn("2024-01"))

	cov := a.analyzeSales(records)
	if cov.CompletenessScore != 100 {
		t.Errorf("sales after the period end must not count: score = %v", cov.CompletenessScore)
	}
	if cov.Status != models.StatusExcellent {
		t.Errorf("12/12 months should rate excellent, got %q", cov.Status)
	}
	if len(cov.MissingPeriods) != 0 {
		t.Errorf("no months should be missing, got %v", cov.MissingPeriods)
	}
}

func TestAnalyzeSales_LowVolumeMonthFlagged(t *testing.T) {
	a := NewAnalyzer(testRules(), nil)
	records := salesForMonths("2023-01")
	records = append(records, saleIn("2023-02")) // single transaction

	cov := a.analyzeSales(records)
	found := false
	for _, issue := range cov.DataQualityIssues {
		if strings.Contains(issue, "2023-02") {
			found = true
		}
	}
	if !found {
		t.Errorf("month with 1 transaction should be flagged: %v", cov.DataQualityIssues)
	}
}

func TestAnalyzeFinancial_AlternateKeysSatisfyCategories(t *testing.T) {
	a := NewAnalyzer(testRules(), nil)
	docs := map[string]models.FinancialDocument{
		"pnl_2023":           {Name: "pnl_2023"},
		"balance_sheet_2023": {Name: "balance_sheet_2023"},
		"gl_detail_2023":     {Name: "gl_detail_2023"},
	}

	cov := a.analyzeFinancial(docs)
	if cov.CompletenessScore != 75.0 {
		t.Errorf("3/4 categories should score 75, got %v", cov.CompletenessScore)
	}
	if cov.Status != models.StatusGood {
		t.Errorf("75 should rate good on the financial thresholds, got %q", cov.Status)
	}
	if len(cov.MissingDocuments) != 1 || cov.MissingDocuments[0] != "cogs" {
		t.Errorf("only cogs should be missing: %v", cov.MissingDocuments)
	}
}

func TestAnalyzeEquipment(t *testing.T) {
	a := NewAnalyzer(testRules(), nil)
	items := []models.EquipmentItem{
		{Description: "GSI Audiometer", EstimatedValue: 8000},
		{Description: "Noahlink Programmer", EstimatedValue: 300},
		{Description: "Office Desk", EstimatedValue: 200},
	}

	cov := a.analyzeEquipment(items)
	// audiometer, programmer, office_equipment: 3 of 4 buckets.
	if cov.CompletenessScore != 75.0 {
		t.Errorf("3/4 buckets should score 75, got %v", cov.CompletenessScore)
	}
	if len(cov.DataQualityIssues) != 0 {
		t.Errorf("value above floor should not be flagged: %v", cov.DataQualityIssues)
	}

	low := a.analyzeEquipment([]models.EquipmentItem{{Description: "Chair", EstimatedValue: 50}})
	if len(low.DataQualityIssues) == 0 {
		t.Error("total value under the floor should raise a quality issue")
	}
}

func TestClassifyEquipment(t *testing.T) {
	tests := []struct{ desc, want string }{
		{"GSI 39 Audiometer", "audiometer"},
		{"Hearing aid programming station", "programmer"},
		{"Diagnostic booth", "diagnostic"},
		{"Filing cabinet", "office_equipment"},
	}
	for _, tt := range tests {
		if got := ClassifyEquipment(tt.desc); got != tt.want {
			t.Errorf("ClassifyEquipment(%q) = %q, want %q", tt.desc, got, tt.want)
		}
	}
}

func TestOverallAssessment_WeightedScore(t *testing.T) {
	a := NewAnalyzer(testRules(), nil)
	report := &models.CoverageReport{
		Sales:     &models.CategoryCoverage{CompletenessScore: 90, Status: models.StatusGood},
		Financial: &models.CategoryCoverage{CompletenessScore: 80, Status: models.StatusGood},
		Equipment: &models.CategoryCoverage{CompletenessScore: 50, Status: models.StatusPoor},
	}

	dd := a.overallAssessment(report)
	// 90*0.4 + 80*0.4 + 50*0.2 = 78.0
	if dd.OverallScore != 78.0 {
		t.Errorf("weighted score = %v, want 78.0", dd.OverallScore)
	}
	if dd.ReadinessLevel != models.StatusGood {
		t.Errorf("78 should rate good, got %q", dd.ReadinessLevel)
	}
	if dd.Recommendation == "" {
		t.Error("recommendation text must be set")
	}
}

func TestAnalyzeComprehensiveCoverage_RecommendationsOrderedAndDeduped(t *testing.T) {
	a := NewAnalyzer(testRules(), nil)
	report := a.AnalyzeComprehensiveCoverage(Input{
		SalesRecords: salesForMonths("2023-01", "2023-02"),
		// no financial docs, no equipment
	})

	if len(report.Recommendations) == 0 {
		t.Fatal("gaps in every category should produce recommendations")
	}
	seen := map[string]bool{}
	for _, r := range report.Recommendations {
		if seen[r] {
			t.Errorf("duplicate recommendation: %q", r)
		}
		seen[r] = true
	}
	// Sales gaps come first, the overall summary last.
	if !strings.Contains(report.Recommendations[0], "sales") {
		t.Errorf("first recommendation should concern sales: %q", report.Recommendations[0])
	}
	last := report.Recommendations[len(report.Recommendations)-1]
	if !strings.Contains(last, "overall readiness") {
		t.Errorf("last recommendation should be the overall summary: %q", last)
	}
}
