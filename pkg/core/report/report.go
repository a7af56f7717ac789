// Package report renders a human-readable Markdown summary of a pipeline
// run alongside the JSON artifacts, so the broker can review a run without
// opening the website.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/text"

	"practice_sale/pkg/core/financials"
	"practice_sale/pkg/core/transform"
	"practice_sale/pkg/core/validate"
	"practice_sale/pkg/models"
)

// RunSummary is everything the Markdown report draws from.
type RunSummary struct {
	BusinessName string
	RunID        string
	GeneratedAt  string
	Metrics      *transform.BusinessMetrics
	Financials   []*financials.Summary
	Coverage     *models.CoverageReport
	Validation   validate.ValidationSummary
}

// RenderSummary produces the Markdown report. Output is deterministic: all
// map-derived sections are sorted by key.
func RenderSummary(s *RunSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s Sale Readiness Report\n\n", s.BusinessName)
	fmt.Fprintf(&b, "Run `%s`, generated %s.\n\n", s.RunID, s.GeneratedAt)

	if s.Metrics != nil {
		b.WriteString("## Business Metrics\n\n")
		fmt.Fprintf(&b, "- Total revenue: $%.2f across %d transactions (avg $%.2f)\n",
			s.Metrics.TotalRevenue, s.Metrics.TotalTransactions, s.Metrics.AverageTransaction)
		for _, year := range sortedKeys(s.Metrics.YearlyRevenue) {
			line := fmt.Sprintf("- %s revenue: $%.2f", year, s.Metrics.YearlyRevenue[year])
			if growth, ok := s.Metrics.YoYGrowth[year]; ok {
				line += fmt.Sprintf(" (%+.1f%% YoY)", growth)
			}
			b.WriteString(line + "\n")
		}
		b.WriteString("\n")
	}

	if len(s.Financials) > 0 {
		b.WriteString("## Financial Summary\n\n")
		b.WriteString("| Period | Revenue | EBITDA | SDE | Valuation Range |\n")
		b.WriteString("|---|---|---|---|---|\n")
		for _, f := range s.Financials {
			fmt.Fprintf(&b, "| %s | $%.0f | $%.0f | $%.0f | $%.0f to $%.0f |\n",
				f.Period, f.Revenue, f.EBITDA, f.SDE, f.ValuationLow, f.ValuationHigh)
		}
		b.WriteString("\n")
	}

	if s.Coverage != nil && s.Coverage.DueDiligence != nil {
		dd := s.Coverage.DueDiligence
		b.WriteString("## Due Diligence Readiness\n\n")
		fmt.Fprintf(&b, "**%.1f/100 (%s)**: %s\n\n", dd.OverallScore, dd.ReadinessLevel, dd.Recommendation)
		for _, category := range []string{"sales", "financial", "equipment"} {
			if c := s.Coverage.Category(category); c != nil {
				fmt.Fprintf(&b, "- %s: %.1f (%s)\n", category, c.CompletenessScore, c.Status)
			}
		}
		b.WriteString("\n")
		if len(s.Coverage.Recommendations) > 0 {
			b.WriteString("### Recommendations\n\n")
			for _, rec := range s.Coverage.Recommendations {
				fmt.Fprintf(&b, "1. %s\n", rec)
			}
			b.WriteString("\n")
		}
	}

	if s.Validation.ErrorCount > 0 || s.Validation.WarningCount > 0 {
		b.WriteString("## Validation Findings\n\n")
		for _, e := range s.Validation.Errors {
			fmt.Fprintf(&b, "- **Error:** %s\n", e)
		}
		for _, w := range s.Validation.Warnings {
			fmt.Fprintf(&b, "- Warning: %s\n", w)
		}
		b.WriteString("\n")
	}

	if s.Coverage != nil && s.Coverage.Sales != nil && len(s.Coverage.Sales.MissingPeriods) > 0 {
		fmt.Fprintf(&b, "Missing sales months: %s\n", strings.Join(s.Coverage.Sales.MissingPeriods, ", "))
	}

	return CleanMarkdown(b.String()) + "\n"
}

// CleanMarkdown strips outer code fences and surrounding whitespace so the
// report file starts at its title.
func CleanMarkdown(input string) string {
	cleaned := strings.TrimSpace(input)
	if strings.HasPrefix(cleaned, "```markdown") && strings.HasSuffix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```markdown")
		cleaned = strings.TrimSuffix(cleaned, "```")
		cleaned = strings.TrimSpace(cleaned)
	} else if strings.HasPrefix(cleaned, "```") && strings.HasSuffix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
		cleaned = strings.TrimSpace(cleaned)
	}
	return cleaned
}

// ValidateMarkdown checks that the rendered report parses. Goldmark is very
// permissive, so this is a basic sanity check, not a lint.
func ValidateMarkdown(input string) bool {
	parser := goldmark.DefaultParser()
	reader := text.NewReader([]byte(input))
	return parser.Parse(reader) != nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
