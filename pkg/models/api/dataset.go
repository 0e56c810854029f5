package api

import "time"

type Schema struct {
	DrugColumn     string `json:"drug_column,omitempty"`
	ReactionColumn string `json:"reaction_column,omitempty"`
	DoseColumn     string `json:"dose_column,omitempty"`
	LotColumn      string `json:"lot_column,omitempty"`
	DateColumn     string `json:"date_column,omitempty"`
	SeriousColumn  string `json:"serious_column,omitempty"`
}

type Dataset struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	RowCount  int64     `json:"row_count"`
	Schema    Schema    `json:"schema"`
}
