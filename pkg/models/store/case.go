package store

import "time"

type DatasetStats struct {
	CaseCount      int64
	FirstEventTime *time.Time
}

type CaseRecord struct {
	Drug      string
	Reaction  string
	DoseRaw   string
	DoseMg    *float64
	Lot       string
	EventDate *time.Time
	Serious   bool
}

type DatasetRecord struct {
	ID        string
	Name      string
	CreatedAt time.Time
	RowCount  int64
	Schema    map[string]string // canonical field -> source column
}
