package dataset

import (
	"fmt"
	"strings"

	"github.com/pv-tools/signal-atlas/pkg/models/domain"
)

// Column aliases tried in order; the first header match wins. Resolution
// happens once at load time so detectors never guess column names.
var columnAliases = map[string][]string{
	"drug":     {"drug_name", "drug", "medicinal_product", "product_name", "product"},
	"reaction": {"reaction", "reaction_term", "reaction_pt", "adverse_event", "event_term"},
	"dose":     {"dose_mg", "dose_amt", "dose", "dose_amount", "dose_strength"},
	"lot":      {"lot_number", "lot", "lot_no", "batch_number", "batch", "batch_no"},
	"date":     {"event_date", "received_date", "onset_date", "report_date", "date"},
	"serious":  {"serious", "is_serious", "seriousness", "serious_flag"},
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}

// ResolveSchema maps a CSV header onto the canonical case-report schema.
// Only drug and reaction are required; the rest degrade to "column unset",
// which downstream detectors treat as insufficient data.
func ResolveSchema(header []string) (domain.Schema, error) {
	index := make(map[string]string, len(header))
	for _, h := range header {
		norm := normalizeHeader(h)
		if _, ok := index[norm]; !ok {
			index[norm] = h
		}
	}

	resolve := func(field string) string {
		for _, alias := range columnAliases[field] {
			if src, ok := index[alias]; ok {
				return src
			}
		}
		return ""
	}

	schema := domain.Schema{
		DrugColumn:     resolve("drug"),
		ReactionColumn: resolve("reaction"),
		DoseColumn:     resolve("dose"),
		LotColumn:      resolve("lot"),
		DateColumn:     resolve("date"),
		SeriousColumn:  resolve("serious"),
	}

	if schema.DrugColumn == "" {
		return domain.Schema{}, fmt.Errorf("no drug column found (tried %v)", columnAliases["drug"])
	}
	if schema.ReactionColumn == "" {
		return domain.Schema{}, fmt.Errorf("no reaction column found (tried %v)", columnAliases["reaction"])
	}

	return schema, nil
}
