package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeAcceleration(t *testing.T) {
	t.Run("returns nil below minimum length", func(t *testing.T) {
		assert.Nil(t, AnalyzeAcceleration(nil))
		assert.Nil(t, AnalyzeAcceleration([]float64{1, 2, 3}))
	})

	t.Run("linear growth is stable", func(t *testing.T) {
		result := AnalyzeAcceleration([]float64{0, 1, 2, 3, 4})
		require.NotNil(t, result)

		assert.Equal(t, []float64{1, 1, 1, 1}, result.Velocity)
		assert.Equal(t, []float64{0, 0, 0}, result.Acceleration)
		assert.Zero(t, result.Score)
		assert.Equal(t, ClassStable, result.Classification)
	})

	t.Run("quadratic growth accelerates", func(t *testing.T) {
		result := AnalyzeAcceleration([]float64{0, 1, 3, 6, 10})
		require.NotNil(t, result)

		assert.Equal(t, []float64{1, 2, 3, 4}, result.Velocity)
		assert.Equal(t, []float64{1, 1, 1}, result.Acceleration)
		assert.InDelta(t, 1.0, result.Score, 1e-9)
		assert.Equal(t, ClassAccelerating, result.Classification)
	})

	t.Run("flattening growth decelerates", func(t *testing.T) {
		result := AnalyzeAcceleration([]float64{0, 10, 16, 18, 18})
		require.NotNil(t, result)

		assert.InDelta(t, -3.0, result.Score, 1e-9)
		assert.Equal(t, ClassDecelerating, result.Classification)
	})

	t.Run("idempotent across calls", func(t *testing.T) {
		series := []float64{2, 5, 4, 9, 12, 11}
		assert.Equal(t, AnalyzeAcceleration(series), AnalyzeAcceleration(series))
	})
}

func TestTrendSlope(t *testing.T) {
	t.Run("returns nil below two points", func(t *testing.T) {
		assert.Nil(t, TrendSlope([]float64{5}, nil))
	})

	t.Run("rising series", func(t *testing.T) {
		trend := TrendSlope([]float64{1, 2, 3, 4, 5}, nil)
		require.NotNil(t, trend)
		assert.InDelta(t, 1.0, trend.Slope, 1e-9)
		assert.Equal(t, TrendRising, trend.Direction)
	})

	t.Run("flat series plateaus", func(t *testing.T) {
		trend := TrendSlope([]float64{5, 5, 5, 5}, nil)
		require.NotNil(t, trend)
		assert.Equal(t, TrendPlateaued, trend.Direction)
	})

	t.Run("declining series", func(t *testing.T) {
		trend := TrendSlope([]float64{9, 7, 5, 3}, nil)
		require.NotNil(t, trend)
		assert.InDelta(t, -2.0, trend.Slope, 1e-9)
		assert.Equal(t, TrendDeclining, trend.Direction)
	})

	t.Run("exposure normalization flattens proportional growth", func(t *testing.T) {
		trend := TrendSlope([]float64{2, 4, 6}, []float64{2, 4, 6})
		require.NotNil(t, trend)
		assert.Equal(t, TrendPlateaued, trend.Direction)
	})

	t.Run("mismatched exposure length returns nil", func(t *testing.T) {
		assert.Nil(t, TrendSlope([]float64{1, 2, 3}, []float64{1, 2}))
	})
}
