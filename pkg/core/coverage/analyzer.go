// Package coverage scores how complete the data room is, per category and
// overall. The output is advisory: fallback strategies and recommendations
// are textual hints for the seller, never automated corrections.
package coverage

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"practice_sale/pkg/models"
)

// Category weights for the overall due-diligence score.
const (
	weightSales     = 0.4
	weightFinancial = 0.4
	weightEquipment = 0.2
)

// A month with fewer transactions than this is flagged as low volume.
const lowVolumeThreshold = 50

// Total equipment value below this floor raises a quality issue. Heuristic:
// a two-location audiology practice with less inventory than this is likely
// missing entries, not actually that sparse.
const minInventoryValue = 5000.0

// Input is one snapshot of normalized data per category.
type Input struct {
	SalesRecords   []models.SalesRecord
	FinancialDocs  map[string]models.FinancialDocument
	EquipmentItems []models.EquipmentItem
}

// Analyzer computes the coverage report against the configured analysis
// period.
type Analyzer struct {
	rules *models.BusinessRules
	log   *slog.Logger
}

// NewAnalyzer builds an analyzer for one rules snapshot.
func NewAnalyzer(rules *models.BusinessRules, log *slog.Logger) *Analyzer {
	if log == nil {
		log = slog.Default()
	}
	return &Analyzer{rules: rules, log: log}
}

// AnalyzeComprehensiveCoverage scores every category, derives the weighted
// overall readiness, and collects remediation recommendations.
func (a *Analyzer) AnalyzeComprehensiveCoverage(in Input) *models.CoverageReport {
	report := &models.CoverageReport{
		Sales:     a.analyzeSales(in.SalesRecords),
		Financial: a.analyzeFinancial(in.FinancialDocs),
		Equipment: a.analyzeEquipment(in.EquipmentItems),
	}
	report.DueDiligence = a.overallAssessment(report)
	report.Recommendations = a.recommendations(report)

	a.log.Info("coverage analysis complete",
		"overall_score", report.DueDiligence.OverallScore,
		"readiness", report.DueDiligence.ReadinessLevel)
	return report
}

// ---------------------------------------------------------------------------
// Sales coverage: months present vs months expected in the analysis period.
// ---------------------------------------------------------------------------

func (a *Analyzer) analyzeSales(records []models.SalesRecord) *models.CategoryCoverage {
	cov := &models.CategoryCoverage{CoverageDetails: map[string]interface{}{}}

	if len(records) == 0 {
		cov.Status = models.StatusNoData
		return cov
	}

	start, end, err := a.rules.AnalysisPeriod.Bounds()
	if err != nil {
		cov.Status = models.StatusNoData
		cov.DataQualityIssues = append(cov.DataQualityIssues, err.Error())
		return cov
	}

	expected := monthsBetween(start, end)
	present := map[string]int{}
	for _, rec := range records {
		if rec.SaleDate == nil {
			continue
		}
		d := *rec.SaleDate
		if d.Before(start) || d.After(end) {
			continue
		}
		present[d.Format("2006-01")]++
	}

	if len(present) == 0 {
		cov.Status = models.StatusNoDataInPeriod
		return cov
	}

	cov.CompletenessScore = round1(float64(len(present)) / float64(len(expected)) * 100)
	cov.Status = statusFor(cov.CompletenessScore, 95, 85, 70)

	lowVolume := []string{}
	for _, month := range expected {
		if n, ok := present[month]; !ok {
			cov.MissingPeriods = append(cov.MissingPeriods, month)
		} else if n < lowVolumeThreshold {
			lowVolume = append(lowVolume, month)
		}
	}
	if len(lowVolume) > 0 {
		sort.Strings(lowVolume)
		cov.DataQualityIssues = append(cov.DataQualityIssues,
			fmt.Sprintf("low transaction volume (<%d) in months: %s", lowVolumeThreshold, strings.Join(lowVolume, ", ")))
	}
	if len(cov.MissingPeriods) > 0 {
		cov.FallbackStrategies = append(cov.FallbackStrategies,
			"request POS re-export for the missing months",
			"cross-check bank deposits to confirm whether the gaps are real zero-sales months")
	}

	cov.CoverageDetails["expected_months"] = len(expected)
	cov.CoverageDetails["months_with_data"] = len(present)
	cov.CoverageDetails["period"] = fmt.Sprintf("%s to %s", a.rules.AnalysisPeriod.StartDate, a.rules.AnalysisPeriod.EndDate)
	return cov
}

func monthsBetween(start, end time.Time) []string {
	var months []string
	cur := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !cur.After(last) {
		months = append(months, cur.Format("2006-01"))
		cur = cur.AddDate(0, 1, 0)
	}
	return months
}

// ---------------------------------------------------------------------------
// Financial coverage: four fixed document categories, each satisfied by any
// of a small set of alternate keys.
// ---------------------------------------------------------------------------

var financialDocCategories = []struct {
	name string
	keys []string
}{
	{"profit_loss", []string{"profit_loss", "profit and loss", "p&l", "pnl", "income_statement"}},
	{"balance_sheets", []string{"balance_sheet", "balance_sheets"}},
	{"general_ledger", []string{"general_ledger", "general ledger", "gl_detail"}},
	{"cogs", []string{"cogs", "cost_of_goods", "cost of goods"}},
}

func (a *Analyzer) analyzeFinancial(docs map[string]models.FinancialDocument) *models.CategoryCoverage {
	cov := &models.CategoryCoverage{CoverageDetails: map[string]interface{}{}}

	if len(docs) == 0 {
		cov.Status = models.StatusNoData
		return cov
	}

	found := 0
	for _, cat := range financialDocCategories {
		if hasFinancialCategory(docs, cat.keys) {
			found++
		} else {
			cov.MissingDocuments = append(cov.MissingDocuments, cat.name)
		}
	}

	cov.CompletenessScore = round1(float64(found) / float64(len(financialDocCategories)) * 100)
	cov.Status = statusFor(cov.CompletenessScore, 90, 75, 50)
	cov.CoverageDetails["documents_found"] = found
	cov.CoverageDetails["documents_expected"] = len(financialDocCategories)
	if len(cov.MissingDocuments) > 0 {
		cov.FallbackStrategies = append(cov.FallbackStrategies,
			"export the missing statements from the bookkeeping system for the full analysis period")
	}
	return cov
}

func hasFinancialCategory(docs map[string]models.FinancialDocument, keys []string) bool {
	for docKey := range docs {
		lower := strings.ToLower(docKey)
		for _, k := range keys {
			if strings.Contains(lower, k) {
				return true
			}
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Equipment coverage: keyword classification into four fixed categories.
// ---------------------------------------------------------------------------

var equipmentCategories = []struct {
	keywords []string
	category string
}{
	{[]string{"audiometer"}, "audiometer"},
	{[]string{"programmer", "programming"}, "programmer"},
	{[]string{"diagnostic", "testing"}, "diagnostic"},
}

const equipmentCategoryCount = 4 // three keyword buckets plus office_equipment

// ClassifyEquipment buckets one inventory description; first match wins.
func ClassifyEquipment(description string) string {
	lower := strings.ToLower(description)
	for _, rule := range equipmentCategories {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.category
			}
		}
	}
	return "office_equipment"
}

func (a *Analyzer) analyzeEquipment(items []models.EquipmentItem) *models.CategoryCoverage {
	cov := &models.CategoryCoverage{CoverageDetails: map[string]interface{}{}}

	if len(items) == 0 {
		cov.Status = models.StatusNoData
		return cov
	}

	distinct := map[string]int{}
	totalValue := 0.0
	for _, item := range items {
		distinct[ClassifyEquipment(item.Description)]++
		totalValue += item.EstimatedValue
	}

	cov.CompletenessScore = round1(float64(len(distinct)) / float64(equipmentCategoryCount) * 100)
	cov.Status = statusFor(cov.CompletenessScore, 95, 85, 70)
	if totalValue < minInventoryValue {
		cov.DataQualityIssues = append(cov.DataQualityIssues,
			fmt.Sprintf("total inventory value $%.2f is below the expected floor of $%.2f", totalValue, minInventoryValue))
	}
	cov.CoverageDetails["categories_found"] = len(distinct)
	cov.CoverageDetails["total_value"] = totalValue
	cov.CoverageDetails["item_count"] = len(items)
	return cov
}

// ---------------------------------------------------------------------------
// Overall assessment and recommendations.
// ---------------------------------------------------------------------------

func (a *Analyzer) overallAssessment(report *models.CoverageReport) *models.DueDiligence {
	scores := map[string]float64{
		"sales":     categoryScore(report.Sales),
		"financial": categoryScore(report.Financial),
		"equipment": categoryScore(report.Equipment),
	}
	overall := round1(scores["sales"]*weightSales + scores["financial"]*weightFinancial + scores["equipment"]*weightEquipment)

	var level, recommendation string
	switch {
	case overall >= 90:
		level, recommendation = models.StatusExcellent, "ready for buyer due diligence"
	case overall >= 75:
		level, recommendation = models.StatusGood, "proceed with caution; close the remaining gaps in parallel"
	case overall >= 60:
		level, recommendation = models.StatusFair, "address the identified gaps before sharing the data room"
	default:
		level, recommendation = models.StatusPoor, "not ready; substantial data collection is still required"
	}

	return &models.DueDiligence{
		OverallScore:   overall,
		ReadinessLevel: level,
		Recommendation: recommendation,
		CategoryScores: scores,
	}
}

func categoryScore(c *models.CategoryCoverage) float64 {
	if c == nil {
		return 0
	}
	return c.CompletenessScore
}

// recommendations is duplicate-free and ordered: sales, financial,
// equipment, then the overall summary line.
func (a *Analyzer) recommendations(report *models.CoverageReport) []string {
	var recs []string
	seen := map[string]bool{}
	add := func(msg string) {
		if msg != "" && !seen[msg] {
			seen[msg] = true
			recs = append(recs, msg)
		}
	}

	if s := report.Sales; s != nil {
		switch s.Status {
		case models.StatusNoData:
			add("no sales data was provided; export transaction history from the POS system")
		case models.StatusNoDataInPeriod:
			add("sales data exists but none falls inside the analysis period; confirm the configured period")
		default:
			if len(s.MissingPeriods) > 0 {
				add(fmt.Sprintf("sales data is missing %d month(s): %s", len(s.MissingPeriods), strings.Join(s.MissingPeriods, ", ")))
			}
		}
	}
	if f := report.Financial; f != nil {
		if f.Status == models.StatusNoData {
			add("no financial statements were provided")
		}
		for _, doc := range f.MissingDocuments {
			add(fmt.Sprintf("financial documents are missing the %s category", doc))
		}
	}
	if e := report.Equipment; e != nil {
		if e.Status == models.StatusNoData {
			add("no equipment inventory was provided")
		}
		for _, issue := range e.DataQualityIssues {
			add("equipment: " + issue)
		}
	}
	if dd := report.DueDiligence; dd != nil {
		add(fmt.Sprintf("overall readiness is %s (%.1f/100): %s", dd.ReadinessLevel, dd.OverallScore, dd.Recommendation))
	}
	return recs
}

func statusFor(score, excellent, good, fair float64) string {
	switch {
	case score >= excellent:
		return models.StatusExcellent
	case score >= good:
		return models.StatusGood
	case score >= fair:
		return models.StatusFair
	default:
		return models.StatusPoor
	}
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
