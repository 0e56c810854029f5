package signal

import (
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/pv-tools/signal-atlas/pkg/models/domain"
	"github.com/pv-tools/signal-atlas/pkg/services/dataset"
)

const (
	defaultMinCases    = 5
	defaultSpikeFactor = 2.0

	lotPValueCutoff   = 0.01
	lotPValueMinRatio = 1.5
	topReactionLimit  = 3
)

type LotOptions struct {
	MinCases    int     // default 5
	SpikeFactor float64 // default 2.0
}

// DetectLotAnomalies groups the filtered cases by manufacturing lot and
// flags lots whose case counts are anomalous against the per-lot mean,
// either by spike ratio or by a one-sided Poisson upper-tail test. A single
// lot is never judged anomalous relative to nothing; fewer than two distinct
// lots yields an empty result.
func DetectLotAnomalies(ds *domain.Dataset, f domain.CaseFilter, opts LotOptions) []domain.LotAnomaly {
	anomalies := []domain.LotAnomaly{}
	if ds == nil || ds.Schema.LotColumn == "" {
		return anomalies
	}
	if opts.MinCases <= 0 {
		opts.MinCases = defaultMinCases
	}
	if opts.SpikeFactor <= 0 {
		opts.SpikeFactor = defaultSpikeFactor
	}

	byLot := map[string][]domain.CaseReport{}
	for _, c := range dataset.FilterCases(ds.Cases, f) {
		if c.Lot == "" {
			continue
		}
		byLot[c.Lot] = append(byLot[c.Lot], c)
	}
	if len(byLot) < 2 {
		return anomalies
	}

	counts := make([]float64, 0, len(byLot))
	for _, cases := range byLot {
		counts = append(counts, float64(len(cases)))
	}
	mean := stat.Mean(counts, nil)
	std := stat.StdDev(counts, nil)
	if math.IsNaN(std) || std < stdFloor {
		std = stdFloor
	}

	poisson := distuv.Poisson{Lambda: mean}

	for lot, cases := range byLot {
		count := len(cases)
		if count < opts.MinCases {
			continue
		}

		ratio := float64(count) / mean
		// P(X >= count) under the global per-lot rate.
		pValue := 1 - poisson.CDF(float64(count-1))

		if ratio < opts.SpikeFactor && !(pValue < lotPValueCutoff && ratio > lotPValueMinRatio) {
			continue
		}

		serious := 0
		for _, c := range cases {
			if c.Serious {
				serious++
			}
		}

		anomalies = append(anomalies, domain.LotAnomaly{
			Lot:          lot,
			Cases:        count,
			SpikeRatio:   ratio,
			PValue:       pValue,
			ZScore:       (float64(count) - mean) / std,
			TopDrug:      modalValue(cases, func(c domain.CaseReport) string { return c.Drug }),
			TopReactions: topReactions(cases, topReactionLimit),
			SeriousCases: serious,
			SeriousRatio: float64(serious) / float64(count),
		})
	}

	sort.Slice(anomalies, func(i, j int) bool {
		if anomalies[i].SpikeRatio != anomalies[j].SpikeRatio {
			return anomalies[i].SpikeRatio > anomalies[j].SpikeRatio
		}
		return anomalies[i].Lot < anomalies[j].Lot
	})
	return anomalies
}

func modalValue(cases []domain.CaseReport, field func(domain.CaseReport) string) string {
	counts := map[string]int{}
	for _, c := range cases {
		if v := field(c); v != "" {
			counts[v]++
		}
	}
	best, bestCount := "", 0
	for v, n := range counts {
		if n > bestCount || (n == bestCount && v < best) {
			best, bestCount = v, n
		}
	}
	return best
}

// topReactions splits multi-valued reaction fields on ";" and returns the
// most frequent terms, most common first.
func topReactions(cases []domain.CaseReport, limit int) []string {
	counts := map[string]int{}
	for _, c := range cases {
		for _, term := range strings.Split(c.Reaction, ";") {
			term = strings.TrimSpace(term)
			if term != "" {
				counts[term]++
			}
		}
	}

	terms := make([]string, 0, len(counts))
	for term := range counts {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if counts[terms[i]] != counts[terms[j]] {
			return counts[terms[i]] > counts[terms[j]]
		}
		return terms[i] < terms[j]
	})

	if len(terms) > limit {
		terms = terms[:limit]
	}
	return terms
}
