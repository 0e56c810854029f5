package adapters

import (
	"github.com/pv-tools/signal-atlas/pkg/models/api"
	"github.com/pv-tools/signal-atlas/pkg/models/domain"
)

func MapChangePointsDomainToApi(periods []string, series []float64, r domain.ChangePointResult) api.ChangePointResult {
	out := api.ChangePointResult{
		Status:  api.StatusOK,
		Periods: periods,
		Series:  series,
		Indices: r.Indices,
		Methods: r.ByMethod,
	}
	for _, s := range r.Skipped {
		out.Skipped = append(out.Skipped, api.SkippedMethod{Method: s.Method, Reason: s.Reason})
	}
	if len(series) == 0 {
		out.Status = api.StatusInsufficientData
	}
	return out
}

func MapAccelerationDomainToApi(periods []string, r *domain.AccelerationResult, trend *domain.TrendAssessment) api.AccelerationResult {
	if r == nil {
		return api.AccelerationResult{Status: api.StatusInsufficientData}
	}
	out := api.AccelerationResult{
		Status:         api.StatusOK,
		Periods:        periods,
		Velocity:       r.Velocity,
		Acceleration:   r.Acceleration,
		Score:          r.Score,
		Classification: r.Classification,
	}
	if trend != nil {
		out.TrendSlope = trend.Slope
		out.TrendDirection = trend.Direction
	}
	return out
}

func MapDoseResponseDomainToApi(r *domain.DoseResponseResult) api.DoseResponseResult {
	if r == nil {
		return api.DoseResponseResult{Status: api.StatusInsufficientData}
	}
	out := api.DoseResponseResult{
		Status:       api.StatusOK,
		DoseColumn:   r.DoseColumn,
		Significance: r.Significance,
		Trend:        r.Trend,
	}
	for _, b := range r.Buckets {
		out.Buckets = append(out.Buckets, api.DoseBucket{
			Label:    b.Label,
			Cases:    b.Cases,
			Exposure: b.Exposure,
			Rate:     b.Rate,
		})
	}
	return out
}

func MapLotAnomaliesDomainToApi(anomalies []domain.LotAnomaly, hadLotColumn bool) api.LotAnomalyResult {
	out := api.LotAnomalyResult{
		Status:    api.StatusOK,
		Anomalies: []api.LotAnomaly{},
	}
	if !hadLotColumn {
		out.Status = api.StatusInsufficientData
	}
	for _, a := range anomalies {
		out.Anomalies = append(out.Anomalies, api.LotAnomaly{
			Lot:          a.Lot,
			Cases:        a.Cases,
			SpikeRatio:   a.SpikeRatio,
			PValue:       a.PValue,
			ZScore:       a.ZScore,
			TopDrug:      a.TopDrug,
			TopReactions: a.TopReactions,
			SeriousCases: a.SeriousCases,
			SeriousRatio: a.SeriousRatio,
		})
	}
	return out
}

func MapCapacityDomainToApi(p domain.CapacityProjection) api.CapacityProjection {
	return api.CapacityProjection{
		IncomingSignals: p.IncomingSignals,
		Reviewers:       p.Reviewers,
		HorizonDays:     p.HorizonDays,
		DailyCapacity:   p.DailyCapacity,
		TotalCapacity:   p.TotalCapacity,
		Utilization:     p.Utilization,
		SLABreachRisk:   p.SLABreachRisk,
	}
}

func MapPrioritiesDomainToApi(scores []domain.PriorityScore) api.PriorityResult {
	out := api.PriorityResult{
		Status: api.StatusOK,
		Scores: []api.PriorityScore{},
	}
	if len(scores) == 0 {
		out.Status = api.StatusInsufficientData
	}
	for _, s := range scores {
		out.Scores = append(out.Scores, api.PriorityScore{
			Drug:               s.Drug,
			Reaction:           s.Reaction,
			Cases:              s.Cases,
			SeriousRatio:       s.SeriousRatio,
			TrendSlope:         s.TrendSlope,
			Disproportionality: s.Disproportionality,
			Score:              s.Score,
			Tier:               s.Tier,
		})
	}
	return out
}

func MapReportDomainToApi(r *domain.Report) api.Report {
	out := api.Report{
		Title:        r.Title,
		Dataset:      r.Dataset,
		TotalCases:   r.TotalCases,
		SeriousCases: r.SeriousCases,
		Period: api.TimePeriod{
			Start:    r.Period.Start,
			End:      r.Period.End,
			Duration: r.Period.Duration,
		},
		Sections: []api.ReportSection{},
	}
	for _, section := range r.Sections {
		apiSection := api.ReportSection{
			Title:    section.Title,
			Summary:  section.Summary,
			Metadata: section.Metadata,
		}
		for _, d := range section.Details {
			apiSection.Details = append(apiSection.Details, api.ReportDetail{
				Name:        d.Name,
				Value:       d.Value,
				Unit:        d.Unit,
				Description: d.Description,
			})
		}
		out.Sections = append(out.Sections, apiSection)
	}
	return out
}
