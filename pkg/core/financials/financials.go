// Package financials derives the headline figures buyers ask for first:
// EBITDA, seller's discretionary earnings, and an asking-price range from
// configured SDE multiples.
package financials

import (
	"log/slog"
	"sort"
	"strings"

	"practice_sale/pkg/core/money"
	"practice_sale/pkg/models"
)

// LineItems is one statement's flattened line items after currency parsing.
type LineItems map[string]float64

// Summary holds the computed figures for one period.
type Summary struct {
	Period           string   `json:"period"`
	Revenue          float64  `json:"revenue"`
	NetIncome        float64  `json:"net_income"`
	EBITDA           float64  `json:"ebitda"`
	SDE              float64  `json:"sde"`
	ValuationLow     float64  `json:"valuation_low"`
	ValuationHigh    float64  `json:"valuation_high"`
	MultipleLow      float64  `json:"multiple_low"`
	MultipleHigh     float64  `json:"multiple_high"`
	AddBacksApplied  []string `json:"add_backs_applied"`
	MissingLineItems []string `json:"missing_line_items,omitempty"`
}

// Line item aliases seen across the P&L exports. Matched case-insensitively
// by substring, first hit wins.
var (
	revenueKeys      = []string{"total_revenue", "total income", "revenue", "total_sales", "gross receipts"}
	netIncomeKeys    = []string{"net_income", "net income", "net profit", "net ordinary income"}
	interestKeys     = []string{"interest_expense", "interest expense", "interest paid"}
	taxKeys          = []string{"income_tax", "income tax", "taxes paid"}
	depreciationKeys = []string{"depreciation", "amortization"}
	// Owner add-backs for SDE. A single-owner practice reports the owner's
	// salary and perks as expenses; a buyer operating the practice gets them
	// back.
	addBackKeys = []string{"owner_salary", "owner salary", "officer compensation", "owner_benefits", "owner insurance", "personal vehicle"}
)

// Calculator computes financial summaries under one rules snapshot.
type Calculator struct {
	rules *models.BusinessRules
	log   *slog.Logger
}

// NewCalculator builds a calculator.
func NewCalculator(rules *models.BusinessRules, log *slog.Logger) *Calculator {
	if log == nil {
		log = slog.Default()
	}
	return &Calculator{rules: rules, log: log}
}

// Summarize computes the headline figures from one profit & loss document.
// Absent line items contribute zero and are reported in MissingLineItems so
// the coverage report can surface them.
func (c *Calculator) Summarize(doc models.FinancialDocument) *Summary {
	items := flatten(doc.Data)
	s := &Summary{Period: doc.Period, AddBacksApplied: []string{}}

	var ok bool
	if s.Revenue, ok = lookup(items, revenueKeys); !ok {
		s.MissingLineItems = append(s.MissingLineItems, "revenue")
	}
	if s.NetIncome, ok = lookup(items, netIncomeKeys); !ok {
		s.MissingLineItems = append(s.MissingLineItems, "net_income")
	}

	interest, _ := lookup(items, interestKeys)
	taxes, _ := lookup(items, taxKeys)
	depreciation := sumMatching(items, depreciationKeys)
	s.EBITDA = s.NetIncome + interest + taxes + depreciation

	s.SDE = s.EBITDA
	for _, key := range sortedKeys(items) {
		for _, ab := range addBackKeys {
			if strings.Contains(strings.ToLower(key), ab) {
				s.SDE += items[key]
				s.AddBacksApplied = append(s.AddBacksApplied, key)
				break
			}
		}
	}

	s.MultipleLow = c.rules.Valuation.LowMultiple
	s.MultipleHigh = c.rules.Valuation.HighMultiple
	s.ValuationLow = s.SDE * s.MultipleLow
	s.ValuationHigh = s.SDE * s.MultipleHigh

	c.log.Info("financial summary computed",
		"period", s.Period,
		"revenue", s.Revenue,
		"ebitda", s.EBITDA,
		"sde", s.SDE)
	return s
}

// flatten walks the nested statement payload and parses every leaf scalar as
// currency, keying it by its dotted path.
func flatten(data map[string]interface{}) LineItems {
	items := LineItems{}
	var walk func(prefix string, value interface{})
	walk = func(prefix string, value interface{}) {
		switch v := value.(type) {
		case map[string]interface{}:
			for k, child := range v {
				key := k
				if prefix != "" {
					key = prefix + "." + k
				}
				walk(key, child)
			}
		default:
			items[prefix] = money.Parse(v)
		}
	}
	walk("", data)
	return items
}

// lookup finds the first alias present among the items, matching the last
// path segment case-insensitively by substring. Keys are scanned in sorted
// order so repeated runs resolve ties identically.
func lookup(items LineItems, aliases []string) (float64, bool) {
	keys := sortedKeys(items)
	for _, alias := range aliases {
		for _, key := range keys {
			if strings.Contains(strings.ToLower(lastSegment(key)), alias) {
				return items[key], true
			}
		}
	}
	return 0, false
}

func sortedKeys(items LineItems) []string {
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// sumMatching totals every item whose key matches any alias; depreciation and
// amortization are often separate lines that both count.
func sumMatching(items LineItems, aliases []string) float64 {
	total := 0.0
	for key, value := range items {
		lower := strings.ToLower(lastSegment(key))
		for _, alias := range aliases {
			if strings.Contains(lower, alias) {
				total += value
				break
			}
		}
	}
	return total
}

func lastSegment(key string) string {
	if i := strings.LastIndex(key, "."); i >= 0 {
		return key[i+1:]
	}
	return key
}
