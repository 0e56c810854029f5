package domain

// SkippedMethod names a detection method that could not run and why.
// Detectors accumulate these instead of hiding per-method failures.
type SkippedMethod struct {
	Method string
	Reason string
}

// ChangePointResult holds the union of indices flagged by the enabled
// methods plus the per-method breakdown.
type ChangePointResult struct {
	Indices  []int            // sorted union across methods
	ByMethod map[string][]int // method name -> sorted indices
	Skipped  []SkippedMethod
}

// AccelerationResult describes velocity/acceleration of a monthly count
// series. Classification is one of "accelerating", "decelerating", "stable".
type AccelerationResult struct {
	Velocity       []float64
	Acceleration   []float64
	Score          float64
	Classification string
}

// TrendAssessment is a linear-regression view over a count series.
// Direction is one of "rising", "declining", "plateaued".
type TrendAssessment struct {
	Slope     float64
	Intercept float64
	Direction string
}

type DoseBucket struct {
	Label    string
	Low      float64
	High     float64 // +Inf for the open-ended top bucket
	Cases    int
	Exposure float64 // summed dose within the bucket
	Rate     float64 // Cases / Exposure, 0 when no exposure
}

// DoseResponseResult reports exposure-adjusted incidence per dose bucket.
// Trend is one of "increasing", "decreasing", "stable", "insufficient_data".
type DoseResponseResult struct {
	DoseColumn   string
	Buckets      []DoseBucket
	Significance float64 // max rate / min non-zero rate
	Trend        string
}

// LotAnomaly is a manufacturing lot flagged as an anomalous concentration
// of case reports.
type LotAnomaly struct {
	Lot          string
	Cases        int
	SpikeRatio   float64 // lot count / mean per-lot count
	PValue       float64 // one-sided Poisson upper tail
	ZScore       float64
	TopDrug      string
	TopReactions []string
	SeriousCases int
	SeriousRatio float64
}

// CapacityProjection is the output of the reviewer staffing model.
// SLABreachRisk is one of CRITICAL, HIGH, MEDIUM, LOW, MINIMAL.
type CapacityProjection struct {
	IncomingSignals float64
	Reviewers       int
	HorizonDays     int
	DailyCapacity   float64
	TotalCapacity   float64
	Utilization     float64
	SLABreachRisk   string
}

// BacklogProjection describes backlog growth or clearance under a fixed
// reviewer pool.
type BacklogProjection struct {
	Backlog       float64
	NetDailyRate  float64 // capacity/day - arrivals/day
	DaysToClear   float64 // 0 when the backlog is growing
	Growing       bool
	DailyCapacity float64
}

// PriorityScore ranks a (drug, reaction) pair by the weighted risk
// prioritization heuristic. Tier is one of HIGH, MODERATE, LOW.
type PriorityScore struct {
	Drug               string
	Reaction           string
	Cases              int
	SeriousRatio       float64
	TrendSlope         float64
	Disproportionality float64
	Score              float64
	Tier               string
}
