package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pv-tools/signal-atlas/pkg/models/domain"
)

var firstNumber = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"2006/01/02",
}

var seriousValues = map[string]bool{
	"1": true, "y": true, "yes": true, "true": true, "serious": true,
}

// LoadCSV reads a flat case-report table, resolves its schema and returns
// an in-memory dataset. Unparseable dose/date cells degrade to nil fields
// rather than failing the load.
func LoadCSV(name string, r io.Reader) (*domain.Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	schema, err := ResolveSchema(header)
	if err != nil {
		return nil, fmt.Errorf("resolve schema: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, h := range header {
		col[h] = i
	}
	cell := func(row []string, column string) string {
		if column == "" {
			return ""
		}
		idx, ok := col[column]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	ds := &domain.Dataset{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
		Schema:    schema,
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}

		ds.Cases = append(ds.Cases, domain.CaseReport{
			Drug:      cell(row, schema.DrugColumn),
			Reaction:  cell(row, schema.ReactionColumn),
			DoseRaw:   cell(row, schema.DoseColumn),
			DoseMg:    ParseDose(cell(row, schema.DoseColumn)),
			Lot:       cell(row, schema.LotColumn),
			EventDate: parseDate(cell(row, schema.DateColumn)),
			Serious:   parseSerious(cell(row, schema.SeriousColumn)),
		})
	}

	if len(ds.Cases) == 0 {
		return nil, fmt.Errorf("dataset %q has no case rows", name)
	}

	return ds, nil
}

// ParseDose extracts a numeric dose from a cell, falling back to the first
// embedded number ("200 mg daily" -> 200). Returns nil when no number exists.
func ParseDose(raw string) *float64 {
	if raw == "" {
		return nil
	}
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		return &v
	}
	match := firstNumber.FindString(raw)
	if match == "" {
		return nil
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

func parseSerious(raw string) bool {
	return seriousValues[strings.ToLower(strings.TrimSpace(raw))]
}
