package models

import (
	"fmt"
	"time"
)

// Location describes one clinic location and whether it is part of the sale.
// Names holds every raw alias seen in the exports for this location.
type Location struct {
	Names   []string `yaml:"names" json:"names"`
	ForSale bool     `yaml:"for_sale" json:"for_sale"`
}

// DataQuality holds the structural bounds used by both the transformer's
// hard filters and the validator's soft checks.
type DataQuality struct {
	RequiredFields       []string  `yaml:"required_fields" json:"required_fields"`
	MinTransactionAmount float64   `yaml:"min_transaction_amount" json:"min_transaction_amount"`
	MaxTransactionAmount float64   `yaml:"max_transaction_amount" json:"max_transaction_amount"`
	DateRange            DateRange `yaml:"date_range" json:"date_range"`
}

// DateRange bounds acceptable transaction dates.
type DateRange struct {
	Start string `yaml:"start" json:"start"` // YYYY-MM-DD
	End   string `yaml:"end" json:"end"`
}

// AnalysisPeriod is the window the coverage analyzer scores against.
type AnalysisPeriod struct {
	StartDate string `yaml:"start_date" json:"start_date"` // YYYY-MM-DD
	EndDate   string `yaml:"end_date" json:"end_date"`
}

// Valuation holds the multiple range applied to the earnings metric when
// deriving an asking-price band.
type Valuation struct {
	LowMultiple  float64 `yaml:"low_multiple" json:"low_multiple"`
	HighMultiple float64 `yaml:"high_multiple" json:"high_multiple"`
}

// BusinessRules is the external configuration for one pipeline run: which
// locations are being sold, the data-quality bounds, and the analysis period.
// It is read-only input; the pipeline never mutates it.
type BusinessRules struct {
	BusinessName   string              `yaml:"business_name" json:"business_name"`
	Locations      map[string]Location `yaml:"locations" json:"locations"`
	DataQuality    DataQuality         `yaml:"data_quality" json:"data_quality"`
	AnalysisPeriod AnalysisPeriod      `yaml:"analysis_period" json:"analysis_period"`
	Valuation      Valuation           `yaml:"valuation" json:"valuation"`
}

// Validate rejects configurations the pipeline cannot run against. These are
// programmer-error-class failures and abort the run immediately.
func (r *BusinessRules) Validate() error {
	if len(r.Locations) == 0 {
		return fmt.Errorf("business rules: no locations configured")
	}
	forSale := 0
	for key, loc := range r.Locations {
		if len(loc.Names) == 0 {
			return fmt.Errorf("business rules: location %q has no aliases", key)
		}
		if loc.ForSale {
			forSale++
		}
	}
	if forSale == 0 {
		return fmt.Errorf("business rules: no location flagged for sale")
	}
	dq := r.DataQuality
	if dq.MinTransactionAmount >= dq.MaxTransactionAmount {
		return fmt.Errorf("business rules: min transaction amount %.2f must be below max %.2f",
			dq.MinTransactionAmount, dq.MaxTransactionAmount)
	}
	if _, _, err := r.AnalysisPeriod.Bounds(); err != nil {
		return fmt.Errorf("business rules: %w", err)
	}
	return nil
}

// Bounds parses the analysis period endpoints.
func (p AnalysisPeriod) Bounds() (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02", p.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid analysis start date %q", p.StartDate)
	}
	end, err := time.Parse("2006-01-02", p.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid analysis end date %q", p.EndDate)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("analysis end date precedes start date")
	}
	return start, end, nil
}

// ForSaleKeys returns the canonical keys of locations included in the sale.
func (r *BusinessRules) ForSaleKeys() []string {
	var keys []string
	for key, loc := range r.Locations {
		if loc.ForSale {
			keys = append(keys, key)
		}
	}
	return keys
}
