package adapters

import (
	"github.com/pv-tools/signal-atlas/pkg/models/api"
	"github.com/pv-tools/signal-atlas/pkg/models/domain"
	"github.com/pv-tools/signal-atlas/pkg/models/store"
)

func MapDomainCaseToStore(c domain.CaseReport) store.CaseRecord {
	return store.CaseRecord{
		Drug:      c.Drug,
		Reaction:  c.Reaction,
		DoseRaw:   c.DoseRaw,
		DoseMg:    c.DoseMg,
		Lot:       c.Lot,
		EventDate: c.EventDate,
		Serious:   c.Serious,
	}
}

func MapStoreCaseToDomain(r store.CaseRecord) domain.CaseReport {
	return domain.CaseReport{
		Drug:      r.Drug,
		Reaction:  r.Reaction,
		DoseRaw:   r.DoseRaw,
		DoseMg:    r.DoseMg,
		Lot:       r.Lot,
		EventDate: r.EventDate,
		Serious:   r.Serious,
	}
}

func MapDomainSchemaToStore(s domain.Schema) map[string]string {
	m := map[string]string{}
	put := func(field, column string) {
		if column != "" {
			m[field] = column
		}
	}
	put("drug", s.DrugColumn)
	put("reaction", s.ReactionColumn)
	put("dose", s.DoseColumn)
	put("lot", s.LotColumn)
	put("date", s.DateColumn)
	put("serious", s.SeriousColumn)
	return m
}

func MapStoreSchemaToDomain(m map[string]string) domain.Schema {
	return domain.Schema{
		DrugColumn:     m["drug"],
		ReactionColumn: m["reaction"],
		DoseColumn:     m["dose"],
		LotColumn:      m["lot"],
		DateColumn:     m["date"],
		SeriousColumn:  m["serious"],
	}
}

func MapDatasetRecordToDomainMeta(r store.DatasetRecord) domain.DatasetMeta {
	return domain.DatasetMeta{
		ID:        r.ID,
		Name:      r.Name,
		CreatedAt: r.CreatedAt,
		RowCount:  r.RowCount,
		Schema:    MapStoreSchemaToDomain(r.Schema),
	}
}

func MapDatasetMetaDomainToApi(m domain.DatasetMeta) api.Dataset {
	return api.Dataset{
		ID:        m.ID,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
		RowCount:  m.RowCount,
		Schema:    MapSchemaDomainToApi(m.Schema),
	}
}

func MapSchemaDomainToApi(s domain.Schema) api.Schema {
	return api.Schema{
		DrugColumn:     s.DrugColumn,
		ReactionColumn: s.ReactionColumn,
		DoseColumn:     s.DoseColumn,
		LotColumn:      s.LotColumn,
		DateColumn:     s.DateColumn,
		SeriousColumn:  s.SeriousColumn,
	}
}
