package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProjectSLARisk(t *testing.T) {
	t.Run("overloaded reviewer is critical", func(t *testing.T) {
		p := ProjectSLARisk(1000, 1, 30, CapacityOptions{})

		assert.InDelta(t, 12.0, p.DailyCapacity, 1e-9)
		assert.InDelta(t, 360.0, p.TotalCapacity, 1e-9)
		assert.InDelta(t, 2.778, p.Utilization, 0.001)
		assert.Equal(t, RiskCritical, p.SLABreachRisk)
	})

	t.Run("risk tiers follow utilization cutoffs", func(t *testing.T) {
		tiers := []struct {
			incoming float64
			want     string
		}{
			{324, RiskHigh},    // 0.90
			{270, RiskMedium},  // 0.75
			{216, RiskLow},     // 0.60
			{108, RiskMinimal}, // 0.30
		}
		for _, tc := range tiers {
			p := ProjectSLARisk(tc.incoming, 1, 30, CapacityOptions{})
			assert.Equal(t, tc.want, p.SLABreachRisk, "incoming=%v", tc.incoming)
		}
	})

	t.Run("zero reviewers stays finite", func(t *testing.T) {
		p := ProjectSLARisk(100, 0, 30, CapacityOptions{})
		assert.Zero(t, p.TotalCapacity)
		assert.Equal(t, RiskCritical, p.SLABreachRisk)
	})

	t.Run("custom throughput", func(t *testing.T) {
		p := ProjectSLARisk(600, 2, 10, CapacityOptions{DailyThroughput: 30})
		assert.InDelta(t, 60.0, p.DailyCapacity, 1e-9)
		assert.InDelta(t, 1.0, p.Utilization, 1e-9)
		assert.Equal(t, RiskHigh, p.SLABreachRisk)
	})
}

func TestRecommendReviewers(t *testing.T) {
	t.Run("rounds headcount up", func(t *testing.T) {
		// 0.85 * 12 * 30 = 306 signals per reviewer over the horizon.
		assert.Equal(t, 4, RecommendReviewers(1000, 30, 0.85, CapacityOptions{}))
	})

	t.Run("no incoming needs nobody", func(t *testing.T) {
		assert.Zero(t, RecommendReviewers(0, 30, 0.85, CapacityOptions{}))
	})

	t.Run("invalid target falls back to default", func(t *testing.T) {
		assert.Equal(t,
			RecommendReviewers(1000, 30, 0.85, CapacityOptions{}),
			RecommendReviewers(1000, 30, -1, CapacityOptions{}),
		)
	})
}

func TestProjectBacklog(t *testing.T) {
	t.Run("clears under spare capacity", func(t *testing.T) {
		p := ProjectBacklog(100, 6, 1, CapacityOptions{})
		assert.InDelta(t, 6.0, p.NetDailyRate, 1e-9)
		assert.InDelta(t, 100.0/6.0, p.DaysToClear, 1e-9)
		assert.False(t, p.Growing)
	})

	t.Run("grows when arrivals exceed capacity", func(t *testing.T) {
		p := ProjectBacklog(100, 20, 1, CapacityOptions{})
		assert.InDelta(t, -8.0, p.NetDailyRate, 1e-9)
		assert.True(t, p.Growing)
		assert.Zero(t, p.DaysToClear)
	})
}
