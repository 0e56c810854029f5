package signal

import (
	"fmt"
	"math"

	"github.com/pv-tools/signal-atlas/pkg/models/domain"
	"github.com/pv-tools/signal-atlas/pkg/services/dataset"
)

const (
	DoseTrendIncreasing   = "increasing"
	DoseTrendDecreasing   = "decreasing"
	DoseTrendStable       = "stable"
	DoseTrendInsufficient = "insufficient_data"
)

// Bin edges chosen by the maximum observed dose; the last bucket of the
// widest scheme is open-ended.
var doseBinSchemes = []struct {
	maxDose float64
	edges   []float64
}{
	{100, []float64{0, 25, 50, 100}},
	{1000, []float64{0, 100, 250, 500, 1000}},
	{math.Inf(1), []float64{0, 500, 1000, 5000, math.Inf(1)}},
}

// AnalyzeDoseResponse buckets parsed dose values into adaptive bins and
// computes exposure-adjusted incidence per bucket. Returns nil when the
// dataset has no dose column or the filter leaves no dosed cases; callers
// treat nil as insufficient data, not as an error.
func AnalyzeDoseResponse(ds *domain.Dataset, f domain.CaseFilter) *domain.DoseResponseResult {
	if ds == nil || ds.Schema.DoseColumn == "" {
		return nil
	}

	var doses []float64
	for _, c := range dataset.FilterCases(ds.Cases, f) {
		if c.DoseMg != nil && *c.DoseMg > 0 {
			doses = append(doses, *c.DoseMg)
		}
	}
	if len(doses) == 0 {
		return nil
	}

	maxDose := doses[0]
	for _, d := range doses {
		if d > maxDose {
			maxDose = d
		}
	}

	var edges []float64
	for _, scheme := range doseBinSchemes {
		if maxDose <= scheme.maxDose {
			edges = scheme.edges
			break
		}
	}

	buckets := make([]domain.DoseBucket, len(edges)-1)
	for i := range buckets {
		buckets[i] = domain.DoseBucket{
			Label: bucketLabel(edges[i], edges[i+1]),
			Low:   edges[i],
			High:  edges[i+1],
		}
	}

	for _, d := range doses {
		i := bucketIndex(edges, d)
		buckets[i].Cases++
		buckets[i].Exposure += d
	}
	for i := range buckets {
		if buckets[i].Exposure > 0 {
			buckets[i].Rate = float64(buckets[i].Cases) / buckets[i].Exposure
		}
	}

	result := &domain.DoseResponseResult{
		DoseColumn: ds.Schema.DoseColumn,
		Buckets:    buckets,
		Trend:      DoseTrendInsufficient,
	}

	var rates []float64
	for _, b := range buckets {
		if b.Cases > 0 && b.Rate > 0 {
			rates = append(rates, b.Rate)
		}
	}
	if len(rates) > 0 {
		minRate, maxRate := rates[0], rates[0]
		for _, r := range rates {
			minRate = math.Min(minRate, r)
			maxRate = math.Max(maxRate, r)
		}
		result.Significance = maxRate / minRate
	}
	if len(rates) >= 2 {
		first, last := rates[0], rates[len(rates)-1]
		switch {
		case last > 1.2*first:
			result.Trend = DoseTrendIncreasing
		case last < 0.8*first:
			result.Trend = DoseTrendDecreasing
		default:
			result.Trend = DoseTrendStable
		}
	}

	return result
}

func bucketIndex(edges []float64, dose float64) int {
	for i := 0; i < len(edges)-2; i++ {
		if dose <= edges[i+1] {
			return i
		}
	}
	return len(edges) - 2
}

func bucketLabel(low, high float64) string {
	if math.IsInf(high, 1) {
		return fmt.Sprintf(">%gmg", low)
	}
	return fmt.Sprintf("%g-%gmg", low, high)
}
