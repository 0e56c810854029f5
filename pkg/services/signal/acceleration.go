package signal

import (
	"gonum.org/v1/gonum/stat"

	"github.com/pv-tools/signal-atlas/pkg/models/domain"
)

const (
	// MinAccelerationLen is the shortest series that still yields two
	// acceleration values; shorter input returns nil.
	MinAccelerationLen = 4

	accelerationThreshold = 0.5
	slopeThreshold        = 0.1

	ClassAccelerating = "accelerating"
	ClassDecelerating = "decelerating"
	ClassStable       = "stable"

	TrendRising    = "rising"
	TrendDeclining = "declining"
	TrendPlateaued = "plateaued"
)

// AnalyzeAcceleration computes first and second differences of a monthly
// count series and classifies the trend direction from the tail of the
// acceleration curve.
func AnalyzeAcceleration(series []float64) *domain.AccelerationResult {
	if len(series) < MinAccelerationLen {
		return nil
	}

	velocity := diff(series)
	acceleration := diff(velocity)

	score := acceleration[len(acceleration)-1]
	if len(acceleration) >= 2 {
		tail := acceleration[len(acceleration)-2:]
		score = stat.Mean(tail, nil)
	}

	classification := ClassStable
	switch {
	case score > accelerationThreshold:
		classification = ClassAccelerating
	case score < -accelerationThreshold:
		classification = ClassDecelerating
	}

	return &domain.AccelerationResult{
		Velocity:       velocity,
		Acceleration:   acceleration,
		Score:          score,
		Classification: classification,
	}
}

// TrendSlope fits a least-squares line to the series (optionally divided by
// a per-point exposure denominator) and classifies the slope direction.
// Returns nil for fewer than two points or mismatched exposure length.
func TrendSlope(series []float64, exposure []float64) *domain.TrendAssessment {
	if len(series) < 2 {
		return nil
	}

	values := series
	if exposure != nil {
		if len(exposure) != len(series) {
			return nil
		}
		values = make([]float64, len(series))
		for i, v := range series {
			denom := exposure[i]
			if denom == 0 {
				denom = 1
			}
			values[i] = v / denom
		}
	}

	xs := make([]float64, len(values))
	for i := range xs {
		xs[i] = float64(i)
	}
	intercept, slope := stat.LinearRegression(xs, values, nil, false)

	direction := TrendPlateaued
	switch {
	case slope > slopeThreshold:
		direction = TrendRising
	case slope < -slopeThreshold:
		direction = TrendDeclining
	}

	return &domain.TrendAssessment{
		Slope:     slope,
		Intercept: intercept,
		Direction: direction,
	}
}

func diff(series []float64) []float64 {
	out := make([]float64, len(series)-1)
	for i := 1; i < len(series); i++ {
		out[i-1] = series[i] - series[i-1]
	}
	return out
}
