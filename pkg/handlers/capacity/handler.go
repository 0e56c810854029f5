package capacity

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/pv-tools/signal-atlas/pkg/adapters"
	"github.com/pv-tools/signal-atlas/pkg/services/signal"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// ProjectSLA exposes the reviewer capacity model; it needs no dataset,
// only the incoming volume, headcount and horizon query parameters.
func (h *Handler) ProjectSLA(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	incoming := queryFloat(r, "incoming", 0)
	reviewers := queryInt(r, "reviewers", 1)
	days := queryInt(r, "days", 30)
	throughput := queryFloat(r, "throughput", 0)

	projection := signal.ProjectSLARisk(incoming, reviewers, days, signal.CapacityOptions{
		DailyThroughput: throughput,
	})

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(adapters.MapCapacityDomainToApi(projection)); err != nil {
		logger.Error().Err(err).Msg("failed to encode capacity projection")
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

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
