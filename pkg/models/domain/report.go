package domain

import "time"

// Report is a composed safety-signal analysis report
type Report struct {
	Title        string
	Dataset      string
	Period       TimePeriod
	Sections     []ReportSection
	TotalCases   int
	SeriousCases int
}

// TimePeriod represents the observation window covered by the report
type TimePeriod struct {
	Start    time.Time
	End      time.Time
	Duration int // in days
}

// ReportSection represents one detector's contribution to the report
type ReportSection struct {
	Title    string
	Summary  map[string]interface{}
	Details  []ReportDetail
	Metadata map[string]interface{}
}

// ReportDetail represents a single finding within a section
type ReportDetail struct {
	Name        string
	Value       interface{}
	Unit        string
	Description string
}
