package dataset

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/pv-tools/signal-atlas/pkg/adapters"
	"github.com/pv-tools/signal-atlas/pkg/models/api"
	"github.com/pv-tools/signal-atlas/pkg/models/domain"
	datasetsvc "github.com/pv-tools/signal-atlas/pkg/services/dataset"
	"github.com/pv-tools/signal-atlas/pkg/services/report"
	"github.com/pv-tools/signal-atlas/pkg/services/signal"
)

type Handler struct {
	datasets  datasetsvc.ManagementService
	generator *report.Generator
}

func NewHandler(datasets datasetsvc.ManagementService, generator *report.Generator) *Handler {
	return &Handler{
		datasets:  datasets,
		generator: generator,
	}
}

// Upload ingests a CSV body as a new dataset. The dataset name comes from
// the "name" query parameter, defaulting to "upload".
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	name := r.URL.Query().Get("name")
	if name == "" {
		name = "upload"
	}

	ds, err := h.datasets.CreateFromCSV(ctx, name, r.Body)
	if err != nil {
		logger.Error().Err(err).Str("name", name).Msg("failed to ingest dataset")
		writeError(w, http.StatusBadRequest, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	writeJSON(ctx, w, adapters.MapDatasetMetaDomainToApi(domain.DatasetMeta{
		ID:        ds.ID,
		Name:      ds.Name,
		CreatedAt: ds.CreatedAt,
		RowCount:  int64(len(ds.Cases)),
		Schema:    ds.Schema,
	}))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	metas, err := h.datasets.List(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to list datasets")
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	response := make([]api.Dataset, 0, len(metas))
	for _, m := range metas {
		response = append(response, adapters.MapDatasetMetaDomainToApi(m))
	}
	writeJSON(ctx, w, response)
}

func (h *Handler) GetMeta(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ds, ok := h.loadDataset(w, r)
	if !ok {
		return
	}
	writeJSON(ctx, w, adapters.MapDatasetMetaDomainToApi(domain.DatasetMeta{
		ID:        ds.ID,
		Name:      ds.Name,
		CreatedAt: ds.CreatedAt,
		RowCount:  int64(len(ds.Cases)),
		Schema:    ds.Schema,
	}))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	id := chi.URLParam(r, "dataset")

	if err := h.datasets.Delete(ctx, id); err != nil {
		logger.Error().Err(err).Str("dataset", id).Msg("failed to delete dataset")
		writeError(w, http.StatusNotFound, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ChangePoints(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ds, ok := h.loadDataset(w, r)
	if !ok {
		return
	}

	opts := signal.ChangePointOptions{
		Method:    r.URL.Query().Get("method"),
		Threshold: queryFloat(r, "threshold", 0),
		Window:    int(queryFloat(r, "window", 0)),
	}

	periods, series := datasetsvc.MonthlySeries(ds, caseFilter(r))
	result := signal.DetectChangePoints(series, opts)
	writeJSON(ctx, w, adapters.MapChangePointsDomainToApi(periods, series, result))
}

func (h *Handler) Acceleration(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ds, ok := h.loadDataset(w, r)
	if !ok {
		return
	}

	periods, series := datasetsvc.MonthlySeries(ds, caseFilter(r))
	result := signal.AnalyzeAcceleration(series)
	trend := signal.TrendSlope(series, nil)
	writeJSON(ctx, w, adapters.MapAccelerationDomainToApi(periods, result, trend))
}

func (h *Handler) DoseResponse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ds, ok := h.loadDataset(w, r)
	if !ok {
		return
	}

	result := signal.AnalyzeDoseResponse(ds, caseFilter(r))
	writeJSON(ctx, w, adapters.MapDoseResponseDomainToApi(result))
}

func (h *Handler) Lots(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ds, ok := h.loadDataset(w, r)
	if !ok {
		return
	}

	opts := signal.LotOptions{
		MinCases:    int(queryFloat(r, "min_cases", 0)),
		SpikeFactor: queryFloat(r, "spike_factor", 0),
	}
	anomalies := signal.DetectLotAnomalies(ds, caseFilter(r), opts)
	writeJSON(ctx, w, adapters.MapLotAnomaliesDomainToApi(anomalies, ds.Schema.LotColumn != ""))
}

func (h *Handler) Priorities(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ds, ok := h.loadDataset(w, r)
	if !ok {
		return
	}

	scores := signal.ScorePriorities(ds, signal.PriorityOptions{
		Limit: int(queryFloat(r, "limit", 0)),
	})
	writeJSON(ctx, w, adapters.MapPrioritiesDomainToApi(scores))
}

func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	ds, ok := h.loadDataset(w, r)
	if !ok {
		return
	}

	rep, err := h.generator.Generate(ds, caseFilter(r), nil)
	if err != nil {
		logger.Error().Err(err).Msg("failed to generate report")
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(ctx, w, adapters.MapReportDomainToApi(rep))
}

func (h *Handler) loadDataset(w http.ResponseWriter, r *http.Request) (*domain.Dataset, bool) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	id := chi.URLParam(r, "dataset")

	ds, err := h.datasets.Get(ctx, id)
	if err != nil {
		logger.Error().Err(err).Str("dataset", id).Msg("failed to load dataset")
		writeError(w, http.StatusNotFound, err)
		return nil, false
	}
	return ds, true
}

func caseFilter(r *http.Request) domain.CaseFilter {
	return domain.CaseFilter{
		Drug:     r.URL.Query().Get("drug"),
		Reaction: r.URL.Query().Get("reaction"),
	}
}

func queryFloat(r *http.Request, key string, fallback float64) float64 {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return v
}

func writeJSON(ctx context.Context, w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
