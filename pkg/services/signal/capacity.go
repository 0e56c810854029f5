package signal

import (
	"math"

	"github.com/pv-tools/signal-atlas/pkg/models/domain"
)

const (
	// DefaultDailyThroughput is how many signals one reviewer clears per day.
	DefaultDailyThroughput = 12.0

	defaultTargetUtilization = 0.85

	RiskCritical = "CRITICAL"
	RiskHigh     = "HIGH"
	RiskMedium   = "MEDIUM"
	RiskLow      = "LOW"
	RiskMinimal  = "MINIMAL"
)

type CapacityOptions struct {
	DailyThroughput float64 // signals per reviewer per day, default 12
}

func (o CapacityOptions) throughput() float64 {
	if o.DailyThroughput <= 0 {
		return DefaultDailyThroughput
	}
	return o.DailyThroughput
}

// ProjectSLARisk computes reviewer utilization over the horizon and buckets
// it into a breach-risk tier. Zero capacity is floored at one signal so the
// projection stays finite.
func ProjectSLARisk(incoming float64, reviewers, horizonDays int, opts CapacityOptions) domain.CapacityProjection {
	daily := float64(reviewers) * opts.throughput()
	total := daily * float64(horizonDays)
	if total <= 0 {
		total = 1
	}

	utilization := incoming / total

	return domain.CapacityProjection{
		IncomingSignals: incoming,
		Reviewers:       reviewers,
		HorizonDays:     horizonDays,
		DailyCapacity:   daily,
		TotalCapacity:   daily * float64(horizonDays),
		Utilization:     utilization,
		SLABreachRisk:   riskTier(utilization),
	}
}

// RecommendReviewers inverts the utilization formula for a target
// utilization (default 0.85) and rounds up. Always recommends at least one
// reviewer when anything is incoming.
func RecommendReviewers(incoming float64, horizonDays int, targetUtilization float64, opts CapacityOptions) int {
	if incoming <= 0 {
		return 0
	}
	if targetUtilization <= 0 || targetUtilization > 1 {
		targetUtilization = defaultTargetUtilization
	}
	if horizonDays <= 0 {
		horizonDays = 1
	}

	perReviewer := targetUtilization * opts.throughput() * float64(horizonDays)
	reviewers := int(math.Ceil(incoming / perReviewer))
	if reviewers < 1 {
		reviewers = 1
	}
	return reviewers
}

// ProjectBacklog reports whether a backlog clears under the current pool
// and how many days that takes.
func ProjectBacklog(backlog, dailyArrivals float64, reviewers int, opts CapacityOptions) domain.BacklogProjection {
	daily := float64(reviewers) * opts.throughput()
	net := daily - dailyArrivals

	projection := domain.BacklogProjection{
		Backlog:       backlog,
		NetDailyRate:  net,
		DailyCapacity: daily,
	}

	if net <= 0 {
		projection.Growing = backlog > 0 || dailyArrivals > 0
		return projection
	}
	projection.DaysToClear = backlog / net
	return projection
}

func riskTier(utilization float64) string {
	switch {
	case utilization > 1.0:
		return RiskCritical
	case utilization > 0.85:
		return RiskHigh
	case utilization > 0.70:
		return RiskMedium
	case utilization > 0.50:
		return RiskLow
	default:
		return RiskMinimal
	}
}
