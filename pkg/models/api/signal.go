package api

import "time"

// StatusInsufficientData marks analysis responses that carry no findings
// because the input did not meet the detector's minimum requirements.
const StatusInsufficientData = "insufficient_data"

const StatusOK = "ok"

type SkippedMethod struct {
	Method string `json:"method"`
	Reason string `json:"reason"`
}

type ChangePointResult struct {
	Status  string           `json:"status"`
	Periods []string         `json:"periods"`
	Series  []float64        `json:"series"`
	Indices []int            `json:"indices"`
	Methods map[string][]int `json:"methods,omitempty"`
	Skipped []SkippedMethod  `json:"skipped,omitempty"`
}

type AccelerationResult struct {
	Status         string    `json:"status"`
	Periods        []string  `json:"periods,omitempty"`
	Velocity       []float64 `json:"velocity,omitempty"`
	Acceleration   []float64 `json:"acceleration,omitempty"`
	Score          float64   `json:"score"`
	Classification string    `json:"classification,omitempty"`
	TrendSlope     float64   `json:"trend_slope"`
	TrendDirection string    `json:"trend_direction,omitempty"`
}

type DoseBucket struct {
	Label    string  `json:"label"`
	Cases    int     `json:"cases"`
	Exposure float64 `json:"exposure"`
	Rate     float64 `json:"rate"`
}

type DoseResponseResult struct {
	Status       string       `json:"status"`
	DoseColumn   string       `json:"dose_column,omitempty"`
	Buckets      []DoseBucket `json:"buckets,omitempty"`
	Significance float64      `json:"significance"`
	Trend        string       `json:"trend,omitempty"`
}

type LotAnomaly struct {
	Lot          string   `json:"lot"`
	Cases        int      `json:"cases"`
	SpikeRatio   float64  `json:"spike_ratio"`
	PValue       float64  `json:"p_value"`
	ZScore       float64  `json:"z_score"`
	TopDrug      string   `json:"top_drug,omitempty"`
	TopReactions []string `json:"top_reactions,omitempty"`
	SeriousCases int      `json:"serious_cases"`
	SeriousRatio float64  `json:"serious_ratio"`
}

type LotAnomalyResult struct {
	Status    string       `json:"status"`
	Anomalies []LotAnomaly `json:"anomalies"`
}

type CapacityProjection struct {
	IncomingSignals float64 `json:"incoming_signals"`
	Reviewers       int     `json:"reviewers"`
	HorizonDays     int     `json:"horizon_days"`
	DailyCapacity   float64 `json:"daily_capacity"`
	TotalCapacity   float64 `json:"total_capacity"`
	Utilization     float64 `json:"utilization"`
	SLABreachRisk   string  `json:"sla_breach_risk"`
}

type PriorityScore struct {
	Drug               string  `json:"drug"`
	Reaction           string  `json:"reaction"`
	Cases              int     `json:"cases"`
	SeriousRatio       float64 `json:"serious_ratio"`
	TrendSlope         float64 `json:"trend_slope"`
	Disproportionality float64 `json:"disproportionality"`
	Score              float64 `json:"score"`
	Tier               string  `json:"tier"`
}

type PriorityResult struct {
	Status string          `json:"status"`
	Scores []PriorityScore `json:"scores"`
}

type TimePeriod struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Duration int       `json:"duration_days"`
}

type ReportDetail struct {
	Name        string      `json:"name"`
	Value       interface{} `json:"value"`
	Unit        string      `json:"unit,omitempty"`
	Description string      `json:"description,omitempty"`
}

type ReportSection struct {
	Title    string                 `json:"title"`
	Summary  map[string]interface{} `json:"summary,omitempty"`
	Details  []ReportDetail         `json:"details,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

type Report struct {
	Title        string          `json:"title"`
	Dataset      string          `json:"dataset"`
	Period       TimePeriod      `json:"period"`
	Sections     []ReportSection `json:"sections"`
	TotalCases   int             `json:"total_cases"`
	SeriousCases int             `json:"serious_cases"`
}
