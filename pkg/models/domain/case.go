package domain

import "time"

// CaseReport is a single adverse-event case row after schema resolution.
type CaseReport struct {
	Drug      string
	Reaction  string // raw reaction field, possibly ";"-joined terms
	DoseRaw   string
	DoseMg    *float64 // parsed dose, nil when the cell had no number
	Lot       string
	EventDate *time.Time
	Serious   bool
}

// Schema records which source column was resolved for each canonical field.
// An empty value means the dataset had no matching column.
type Schema struct {
	DrugColumn     string
	ReactionColumn string
	DoseColumn     string
	LotColumn      string
	DateColumn     string
	SeriousColumn  string
}

type Dataset struct {
	ID        string
	Name      string
	CreatedAt time.Time
	Schema    Schema
	Cases     []CaseReport
}

// DatasetMeta is the listing view of a dataset, without its cases.
type DatasetMeta struct {
	ID        string
	Name      string
	CreatedAt time.Time
	RowCount  int64
	Schema    Schema
}

type DatasetStats struct {
	CaseCount      int64
	FirstEventTime *time.Time
}

// CaseFilter restricts analysis to cases whose drug/reaction fields contain
// the given substrings (case-insensitive). Empty fields match everything.
type CaseFilter struct {
	Drug     string
	Reaction string
}
