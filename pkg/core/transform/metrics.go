package transform

import (
	"sort"
	"strconv"

	"practice_sale/pkg/core/validate"
	"practice_sale/pkg/models"
)

// BusinessMetrics aggregates the filtered sales records into the figures
// shown on the listing site. All grouped maps are keyed by the distinct
// category value; consumers must not assume any key ordering.
type BusinessMetrics struct {
	TotalRevenue       float64 `json:"total_revenue"`
	TotalTransactions  int     `json:"total_transactions"`
	AverageTransaction float64 `json:"average_transaction"`

	RevenueByClinic      map[string]float64 `json:"revenue_by_clinic"`
	TransactionsByClinic map[string]int     `json:"transactions_by_clinic"`
	AverageByClinic      map[string]float64 `json:"average_by_clinic"`

	RevenueByStaff      map[string]float64 `json:"revenue_by_staff"`
	TransactionsByStaff map[string]int     `json:"transactions_by_staff"`
	AverageByStaff      map[string]float64 `json:"average_by_staff"`

	YearlyRevenue map[string]float64 `json:"yearly_revenue"`
	// Growth rate per year vs the previous year present, as a percentage.
	YoYGrowth map[string]float64 `json:"yoy_growth"`

	RevenueByProductCategory map[string]float64 `json:"revenue_by_product_category"`
}

func (t *SalesTransformer) calculateBusinessMetrics(records []models.SalesRecord) *BusinessMetrics {
	m := &BusinessMetrics{
		RevenueByClinic:          map[string]float64{},
		TransactionsByClinic:     map[string]int{},
		AverageByClinic:          map[string]float64{},
		RevenueByStaff:           map[string]float64{},
		TransactionsByStaff:      map[string]int{},
		AverageByStaff:           map[string]float64{},
		YearlyRevenue:            map[string]float64{},
		YoYGrowth:                map[string]float64{},
		RevenueByProductCategory: map[string]float64{},
	}

	for _, rec := range records {
		m.TotalRevenue += rec.TotalPrice
		m.TotalTransactions++

		m.RevenueByClinic[rec.ClinicName] += rec.TotalPrice
		m.TransactionsByClinic[rec.ClinicName]++

		m.RevenueByStaff[rec.StaffName] += rec.TotalPrice
		m.TransactionsByStaff[rec.StaffName]++

		if rec.Year > 0 {
			m.YearlyRevenue[strconv.Itoa(rec.Year)] += rec.TotalPrice
		}
		m.RevenueByProductCategory[rec.ProductCategory] += rec.TotalPrice
	}

	if m.TotalTransactions > 0 {
		m.AverageTransaction = m.TotalRevenue / float64(m.TotalTransactions)
	}
	for clinic, total := range m.RevenueByClinic {
		m.AverageByClinic[clinic] = total / float64(m.TransactionsByClinic[clinic])
	}
	for staff, total := range m.RevenueByStaff {
		m.AverageByStaff[staff] = total / float64(m.TransactionsByStaff[staff])
	}

	// Year-over-year growth for each consecutive year pair present.
	years := make([]int, 0, len(m.YearlyRevenue))
	for y := range m.YearlyRevenue {
		if yi, err := strconv.Atoi(y); err == nil {
			years = append(years, yi)
		}
	}
	sort.Ints(years)
	for i := 1; i < len(years); i++ {
		cur := m.YearlyRevenue[strconv.Itoa(years[i])]
		prev := m.YearlyRevenue[strconv.Itoa(years[i-1])]
		if prev == 0 {
			// Division guard: growth from a zero year is undefined, skip.
			continue
		}
		m.YoYGrowth[strconv.Itoa(years[i])] = validate.GrowthRate(cur, prev)
	}

	return m
}
