package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pv-tools/signal-atlas/pkg/models/domain"
)

func reportDataset() *domain.Dataset {
	ds := &domain.Dataset{
		Name: "faers-q1",
		Schema: domain.Schema{
			DrugColumn:     "drug_name",
			ReactionColumn: "reaction",
			DoseColumn:     "dose_mg",
			LotColumn:      "lot_number",
			DateColumn:     "event_date",
		},
	}
	dose := 50.0
	for month := 1; month <= 8; month++ {
		count := 5
		if month > 4 {
			count = 15
		}
		for i := 0; i < count; i++ {
			d := time.Date(2024, time.Month(month), 10, 0, 0, 0, 0, time.UTC)
			ds.Cases = append(ds.Cases, domain.CaseReport{
				Drug:      "metformin",
				Reaction:  "nausea",
				DoseMg:    &dose,
				Lot:       "LOT-A",
				EventDate: &d,
				Serious:   i%2 == 0,
			})
		}
	}
	return ds
}

func TestGenerator_Generate(t *testing.T) {
	g := NewGenerator()

	t.Run("all sections in order", func(t *testing.T) {
		r, err := g.Generate(reportDataset(), domain.CaseFilter{}, nil)
		require.NoError(t, err)

		assert.Equal(t, "Safety Signal Report", r.Title)
		assert.Equal(t, "faers-q1", r.Dataset)
		assert.Equal(t, 80, r.TotalCases)
		assert.Equal(t, 44, r.SeriousCases)

		require.Len(t, r.Sections, 5)
		assert.Equal(t, "Change Point Detection", r.Sections[0].Title)
		assert.Equal(t, "Risk Prioritization", r.Sections[4].Title)
	})

	t.Run("change point section flags the level shift", func(t *testing.T) {
		r, err := g.Generate(reportDataset(), domain.CaseFilter{}, []string{AnalysisChangePoints})
		require.NoError(t, err)

		require.Len(t, r.Sections, 1)
		section := r.Sections[0]
		assert.Equal(t, 8, section.Summary["months observed"])
		assert.NotEmpty(t, section.Details)
		assert.Contains(t, section.Details[0].Name, "2024-")
	})

	t.Run("insufficient data becomes a summary not an error", func(t *testing.T) {
		ds := &domain.Dataset{
			Name:   "tiny",
			Schema: domain.Schema{DrugColumn: "drug_name", ReactionColumn: "reaction"},
			Cases:  []domain.CaseReport{{Drug: "a", Reaction: "b"}},
		}
		r, err := g.Generate(ds, domain.CaseFilter{}, []string{AnalysisChangePoints, AnalysisDoseResponse, AnalysisLots})
		require.NoError(t, err)

		for _, section := range r.Sections {
			assert.Equal(t, "insufficient data", section.Summary["status"], section.Title)
		}
	})

	t.Run("unknown analysis is rejected", func(t *testing.T) {
		_, err := g.Generate(reportDataset(), domain.CaseFilter{}, []string{"disproportionality"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown analysis")
	})
}
