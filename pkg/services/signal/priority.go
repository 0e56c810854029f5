package signal

import (
	"math"
	"sort"
	"strings"

	"github.com/pv-tools/signal-atlas/pkg/models/domain"
	"github.com/pv-tools/signal-atlas/pkg/services/dataset"
)

const (
	defaultPriorityMinCases = 3

	TierHigh     = "HIGH"
	TierModerate = "MODERATE"
	TierLow      = "LOW"
)

// Component weights of the risk prioritization score.
const (
	weightVolume             = 0.3
	weightSeriousness        = 0.3
	weightTrend              = 0.2
	weightDisproportionality = 0.2
)

type PriorityOptions struct {
	MinCases int // pairs with fewer cases are not scored, default 3
	Limit    int // 0 means no limit
}

type pairStats struct {
	drug     string
	reaction string
	cases    int
	serious  int
}

// ScorePriorities ranks (drug, reaction term) pairs by a weighted heuristic
// over case volume, seriousness, trend slope of the pair's monthly series and
// a crude disproportionality ratio (observed pair share vs the share expected
// if drug and reaction were independent).
func ScorePriorities(ds *domain.Dataset, opts PriorityOptions) []domain.PriorityScore {
	scores := []domain.PriorityScore{}
	if ds == nil || len(ds.Cases) == 0 {
		return scores
	}
	if opts.MinCases <= 0 {
		opts.MinCases = defaultPriorityMinCases
	}

	pairs := map[[2]string]*pairStats{}
	drugTotals := map[string]int{}
	reactionTotals := map[string]int{}
	total := 0

	for _, c := range ds.Cases {
		drug := strings.TrimSpace(c.Drug)
		if drug == "" {
			continue
		}
		for _, term := range strings.Split(c.Reaction, ";") {
			term = strings.TrimSpace(term)
			if term == "" {
				continue
			}
			key := [2]string{drug, term}
			stats, ok := pairs[key]
			if !ok {
				stats = &pairStats{drug: drug, reaction: term}
				pairs[key] = stats
			}
			stats.cases++
			if c.Serious {
				stats.serious++
			}
			drugTotals[drug]++
			reactionTotals[term]++
			total++
		}
	}
	if total == 0 {
		return scores
	}

	maxCases := 0
	for _, p := range pairs {
		if p.cases > maxCases {
			maxCases = p.cases
		}
	}

	for _, p := range pairs {
		if p.cases < opts.MinCases {
			continue
		}

		volume := math.Log10(float64(p.cases)+1) / math.Log10(float64(maxCases)+1)
		seriousRatio := float64(p.serious) / float64(p.cases)

		slope := 0.0
		_, series := dataset.MonthlySeries(ds, domain.CaseFilter{Drug: p.drug, Reaction: p.reaction})
		if trend := TrendSlope(series, nil); trend != nil {
			slope = trend.Slope
		}
		// Map slope onto (0,1) with 0.5 as flat.
		trendScore := 0.5 + math.Atan(slope)/math.Pi

		expected := float64(drugTotals[p.drug]) * float64(reactionTotals[p.reaction]) / float64(total)
		dispro := 0.0
		if expected > 0 {
			dispro = float64(p.cases) / expected
		}
		disproScore := math.Min(dispro/4.0, 1.0)

		score := 100 * (weightVolume*volume +
			weightSeriousness*seriousRatio +
			weightTrend*trendScore +
			weightDisproportionality*disproScore)

		scores = append(scores, domain.PriorityScore{
			Drug:               p.drug,
			Reaction:           p.reaction,
			Cases:              p.cases,
			SeriousRatio:       seriousRatio,
			TrendSlope:         slope,
			Disproportionality: dispro,
			Score:              score,
			Tier:               priorityTier(score),
		})
	}

	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}
		if scores[i].Cases != scores[j].Cases {
			return scores[i].Cases > scores[j].Cases
		}
		return scores[i].Drug < scores[j].Drug
	})

	if opts.Limit > 0 && len(scores) > opts.Limit {
		scores = scores[:opts.Limit]
	}
	return scores
}

func priorityTier(score float64) string {
	switch {
	case score >= 70:
		return TierHigh
	case score >= 40:
		return TierModerate
	default:
		return TierLow
	}
}
