package report

import (
	"fmt"
	"strings"

	"github.com/pv-tools/signal-atlas/pkg/models/domain"
	"github.com/pv-tools/signal-atlas/pkg/services/dataset"
	"github.com/pv-tools/signal-atlas/pkg/services/signal"
)

const (
	AnalysisChangePoints = "changepoints"
	AnalysisAcceleration = "acceleration"
	AnalysisDoseResponse = "dose-response"
	AnalysisLots         = "lots"
	AnalysisPriorities   = "priorities"
	AnalysisAll          = "all"
)

// SectionBuilder renders one detector's findings as a report section.
// Insufficient data becomes a section with an explanatory summary, never an
// error; the report is always produced.
type SectionBuilder func(ds *domain.Dataset, f domain.CaseFilter) domain.ReportSection

// Generator composes the per-detector sections into a safety signal report.
type Generator struct {
	order    []string
	builders map[string]SectionBuilder
}

func NewGenerator() *Generator {
	g := &Generator{builders: map[string]SectionBuilder{}}
	g.register(AnalysisChangePoints, buildChangePointSection)
	g.register(AnalysisAcceleration, buildAccelerationSection)
	g.register(AnalysisDoseResponse, buildDoseResponseSection)
	g.register(AnalysisLots, buildLotSection)
	g.register(AnalysisPriorities, buildPrioritySection)
	return g
}

func (g *Generator) register(name string, builder SectionBuilder) {
	g.order = append(g.order, name)
	g.builders[name] = builder
}

// Analyses returns the section names in report order.
func (g *Generator) Analyses() []string {
	return append([]string{}, g.order...)
}

// Generate runs the requested analyses ("all" or empty selects every one)
// over the dataset and assembles the report.
func (g *Generator) Generate(ds *domain.Dataset, f domain.CaseFilter, analyses []string) (*domain.Report, error) {
	selected := g.order
	if len(analyses) > 0 && !contains(analyses, AnalysisAll) {
		selected = nil
		for _, name := range analyses {
			if _, ok := g.builders[name]; !ok {
				return nil, fmt.Errorf("unknown analysis %q (have %s)", name, strings.Join(g.order, ", "))
			}
			selected = append(selected, name)
		}
	}

	serious := 0
	for _, c := range ds.Cases {
		if c.Serious {
			serious++
		}
	}

	r := &domain.Report{
		Title:        "Safety Signal Report",
		Dataset:      ds.Name,
		Period:       dataset.Period(ds),
		TotalCases:   len(ds.Cases),
		SeriousCases: serious,
	}
	for _, name := range selected {
		r.Sections = append(r.Sections, g.builders[name](ds, f))
	}
	return r, nil
}

func buildChangePointSection(ds *domain.Dataset, f domain.CaseFilter) domain.ReportSection {
	section := domain.ReportSection{
		Title:   "Change Point Detection",
		Summary: map[string]interface{}{},
	}

	periods, series := dataset.MonthlySeries(ds, f)
	if len(series) < signal.MinChangePointLen {
		section.Summary["status"] = "insufficient data"
		section.Summary["months observed"] = len(series)
		return section
	}

	result := signal.DetectChangePoints(series, signal.ChangePointOptions{})
	section.Summary["months observed"] = len(series)
	section.Summary["change points"] = len(result.Indices)

	for _, i := range result.Indices {
		methods := methodsFlagging(result, i)
		section.Details = append(section.Details, domain.ReportDetail{
			Name:        periods[i],
			Value:       series[i],
			Unit:        "cases",
			Description: fmt.Sprintf("level shift flagged by %s", strings.Join(methods, ", ")),
		})
	}
	for _, skipped := range result.Skipped {
		section.Details = append(section.Details, domain.ReportDetail{
			Name:        "skipped: " + skipped.Method,
			Value:       "-",
			Description: skipped.Reason,
		})
	}
	return section
}

func methodsFlagging(result domain.ChangePointResult, index int) []string {
	var methods []string
	for _, name := range []string{signal.MethodCUSUM, signal.MethodZScore, signal.MethodPELT} {
		for _, i := range result.ByMethod[name] {
			if i == index {
				methods = append(methods, name)
				break
			}
		}
	}
	return methods
}

func buildAccelerationSection(ds *domain.Dataset, f domain.CaseFilter) domain.ReportSection {
	section := domain.ReportSection{
		Title:   "Reporting Trend & Acceleration",
		Summary: map[string]interface{}{},
	}

	_, series := dataset.MonthlySeries(ds, f)
	result := signal.AnalyzeAcceleration(series)
	if result == nil {
		section.Summary["status"] = "insufficient data"
		section.Summary["months observed"] = len(series)
		return section
	}

	section.Summary["classification"] = result.Classification
	section.Summary["acceleration score"] = fmt.Sprintf("%.2f", result.Score)
	if trend := signal.TrendSlope(series, nil); trend != nil {
		section.Summary["trend"] = trend.Direction
		section.Details = append(section.Details, domain.ReportDetail{
			Name:        "Monthly slope",
			Value:       fmt.Sprintf("%.2f", trend.Slope),
			Unit:        "cases/month",
			Description: "least-squares slope over the monthly series",
		})
	}
	section.Details = append(section.Details, domain.ReportDetail{
		Name:        "Latest velocity",
		Value:       result.Velocity[len(result.Velocity)-1],
		Unit:        "cases/month",
		Description: "month-over-month change in report volume",
	})
	return section
}

func buildDoseResponseSection(ds *domain.Dataset, f domain.CaseFilter) domain.ReportSection {
	section := domain.ReportSection{
		Title:   "Dose-Response",
		Summary: map[string]interface{}{},
	}

	result := signal.AnalyzeDoseResponse(ds, f)
	if result == nil {
		section.Summary["status"] = "insufficient data"
		return section
	}

	section.Summary["trend"] = result.Trend
	section.Summary["significance ratio"] = fmt.Sprintf("%.2f", result.Significance)
	section.Summary["dose column"] = result.DoseColumn
	for _, b := range result.Buckets {
		section.Details = append(section.Details, domain.ReportDetail{
			Name:        b.Label,
			Value:       b.Cases,
			Unit:        "cases",
			Description: fmt.Sprintf("exposure %.0fmg, rate %.4f cases/mg", b.Exposure, b.Rate),
		})
	}
	return section
}

func buildLotSection(ds *domain.Dataset, f domain.CaseFilter) domain.ReportSection {
	section := domain.ReportSection{
		Title:   "Lot / Batch Anomalies",
		Summary: map[string]interface{}{},
	}

	if ds.Schema.LotColumn == "" {
		section.Summary["status"] = "insufficient data"
		return section
	}

	anomalies := signal.DetectLotAnomalies(ds, f, signal.LotOptions{})
	section.Summary["flagged lots"] = len(anomalies)
	for _, a := range anomalies {
		section.Details = append(section.Details, domain.ReportDetail{
			Name:  a.Lot,
			Value: a.Cases,
			Unit:  "cases",
			Description: fmt.Sprintf("%.1fx the per-lot mean (p=%.4f), top drug %s, reactions: %s",
				a.SpikeRatio, a.PValue, a.TopDrug, strings.Join(a.TopReactions, ", ")),
		})
	}
	return section
}

func buildPrioritySection(ds *domain.Dataset, _ domain.CaseFilter) domain.ReportSection {
	section := domain.ReportSection{
		Title:   "Risk Prioritization",
		Summary: map[string]interface{}{},
	}

	scores := signal.ScorePriorities(ds, signal.PriorityOptions{Limit: 10})
	if len(scores) == 0 {
		section.Summary["status"] = "insufficient data"
		return section
	}

	section.Summary["scored pairs"] = len(scores)
	section.Summary["top tier"] = scores[0].Tier
	for _, s := range scores {
		section.Details = append(section.Details, domain.ReportDetail{
			Name:        fmt.Sprintf("%s / %s", s.Drug, s.Reaction),
			Value:       fmt.Sprintf("%.1f", s.Score),
			Unit:        s.Tier,
			Description: fmt.Sprintf("%d cases, %.0f%% serious", s.Cases, s.SeriousRatio*100),
		})
	}
	return section
}

func contains(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}
