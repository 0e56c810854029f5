package dataset

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `drug_name,reaction,dose,lot_number,event_date,serious
metformin,nausea,500,LOT-A1,2024-01-15,1
metformin,nausea; headache,850 mg twice daily,LOT-A1,2024-02-03,yes
warfarin,bleeding,not recorded,LOT-B7,2024-02-20,0
lisinopril,cough,,LOT-C2,,no
`

func TestLoadCSV(t *testing.T) {
	t.Run("loads rows and resolves schema", func(t *testing.T) {
		ds, err := LoadCSV("faers-q1", strings.NewReader(sampleCSV))
		require.NoError(t, err)

		assert.NotEmpty(t, ds.ID)
		assert.Equal(t, "faers-q1", ds.Name)
		assert.Equal(t, "dose", ds.Schema.DoseColumn)
		require.Len(t, ds.Cases, 4)

		first := ds.Cases[0]
		assert.Equal(t, "metformin", first.Drug)
		require.NotNil(t, first.DoseMg)
		assert.InDelta(t, 500.0, *first.DoseMg, 1e-9)
		require.NotNil(t, first.EventDate)
		assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), *first.EventDate)
		assert.True(t, first.Serious)
	})

	t.Run("embedded number extracted from free text", func(t *testing.T) {
		ds, err := LoadCSV("x", strings.NewReader(sampleCSV))
		require.NoError(t, err)

		second := ds.Cases[1]
		require.NotNil(t, second.DoseMg)
		assert.InDelta(t, 850.0, *second.DoseMg, 1e-9)
		assert.True(t, second.Serious)
	})

	t.Run("unparseable cells degrade to nil fields", func(t *testing.T) {
		ds, err := LoadCSV("x", strings.NewReader(sampleCSV))
		require.NoError(t, err)

		assert.Nil(t, ds.Cases[2].DoseMg) // "not recorded"
		assert.False(t, ds.Cases[2].Serious)
		assert.Nil(t, ds.Cases[3].DoseMg)
		assert.Nil(t, ds.Cases[3].EventDate)
	})

	t.Run("header only fails", func(t *testing.T) {
		_, err := LoadCSV("empty", strings.NewReader("drug_name,reaction\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no case rows")
	})

	t.Run("unresolvable schema fails", func(t *testing.T) {
		_, err := LoadCSV("bad", strings.NewReader("a,b,c\n1,2,3\n"))
		require.Error(t, err)
	})
}

func TestParseDose(t *testing.T) {
	cases := []struct {
		raw  string
		want *float64
	}{
		{"", nil},
		{"500", ptr(500.0)},
		{"12.5", ptr(12.5)},
		{"850 mg twice daily", ptr(850.0)},
		{"approx. 20mg", ptr(20.0)},
		{"unknown", nil},
	}
	for _, tc := range cases {
		got := ParseDose(tc.raw)
		if tc.want == nil {
			assert.Nil(t, got, "raw=%q", tc.raw)
			continue
		}
		require.NotNil(t, got, "raw=%q", tc.raw)
		assert.InDelta(t, *tc.want, *got, 1e-9)
	}
}

func ptr(v float64) *float64 { return &v }
