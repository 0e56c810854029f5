package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pv-tools/signal-atlas/pkg/models/api"
	"github.com/pv-tools/signal-atlas/pkg/models/domain"
	"github.com/pv-tools/signal-atlas/pkg/services/report"
)

type mockDatasets struct {
	mock.Mock
}

func (m *mockDatasets) CreateFromCSV(ctx context.Context, name string, r io.Reader) (*domain.Dataset, error) {
	args := m.Called(ctx, name, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dataset), args.Error(1)
}

func (m *mockDatasets) List(ctx context.Context) ([]domain.DatasetMeta, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.DatasetMeta), args.Error(1)
}

func (m *mockDatasets) Get(ctx context.Context, id string) (*domain.Dataset, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dataset), args.Error(1)
}

func (m *mockDatasets) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func analysisDataset() *domain.Dataset {
	ds := &domain.Dataset{
		ID:   "ds-1",
		Name: "faers-q1",
		Schema: domain.Schema{
			DrugColumn:     "drug_name",
			ReactionColumn: "reaction",
			DateColumn:     "event_date",
		},
	}
	for month := 1; month <= 8; month++ {
		count := 5
		if month > 4 {
			count = 15
		}
		for i := 0; i < count; i++ {
			d := time.Date(2024, time.Month(month), 10, 0, 0, 0, 0, time.UTC)
			ds.Cases = append(ds.Cases, domain.CaseReport{
				Drug: "metformin", Reaction: "nausea", EventDate: &d,
			})
		}
	}
	return ds
}

func newTestAPI(t *testing.T, datasets *mockDatasets) *WebAPI {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return NewWebAPI(logger, Config{
		Addr: ":0",
		Dependencies: Dependencies{
			Datasets:  datasets,
			Generator: report.NewGenerator(),
		},
	})
}

func TestWebAPI_Endpoints(t *testing.T) {
	t.Run("list datasets", func(t *testing.T) {
		datasets := new(mockDatasets)
		datasets.On("List", mock.Anything).Return([]domain.DatasetMeta{
			{ID: "ds-1", Name: "faers-q1", RowCount: 80},
		}, nil)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/datasets", nil)
		newTestAPI(t, datasets).Router().ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var response []api.Dataset
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		require.Len(t, response, 1)
		assert.Equal(t, "faers-q1", response[0].Name)
		datasets.AssertExpectations(t)
	})

	t.Run("change points over a shifted series", func(t *testing.T) {
		datasets := new(mockDatasets)
		datasets.On("Get", mock.Anything, "ds-1").Return(analysisDataset(), nil)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/datasets/ds-1/changepoints", nil)
		newTestAPI(t, datasets).Router().ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var response api.ChangePointResult
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, api.StatusOK, response.Status)
		assert.Contains(t, response.Indices, 4)
	})

	t.Run("missing dataset is 404 not 500", func(t *testing.T) {
		datasets := new(mockDatasets)
		datasets.On("Get", mock.Anything, "nope").Return(nil, fmt.Errorf("dataset %q not found", "nope"))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/datasets/nope/acceleration", nil)
		newTestAPI(t, datasets).Router().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("dose response without dose column reports insufficient data", func(t *testing.T) {
		datasets := new(mockDatasets)
		datasets.On("Get", mock.Anything, "ds-1").Return(analysisDataset(), nil)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/datasets/ds-1/dose-response", nil)
		newTestAPI(t, datasets).Router().ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var response api.DoseResponseResult
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, api.StatusInsufficientData, response.Status)
	})

	t.Run("capacity projection needs no dataset", func(t *testing.T) {
		datasets := new(mockDatasets)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/capacity/sla?incoming=1000&reviewers=1&days=30", nil)
		newTestAPI(t, datasets).Router().ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var response api.CapacityProjection
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, "CRITICAL", response.SLABreachRisk)
		assert.InDelta(t, 360.0, response.TotalCapacity, 1e-9)
	})

	t.Run("upload ingests a csv body", func(t *testing.T) {
		datasets := new(mockDatasets)
		datasets.On("CreateFromCSV", mock.Anything, "faers-q1", mock.Anything).Return(&domain.Dataset{
			ID:        "ds-2",
			Name:      "faers-q1",
			CreatedAt: time.Now().UTC(),
			Cases:     []domain.CaseReport{{Drug: "metformin", Reaction: "nausea"}},
		}, nil)

		body := strings.NewReader("drug_name,reaction\nmetformin,nausea\n")
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/datasets?name=faers-q1", body)
		newTestAPI(t, datasets).Router().ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		var response api.Dataset
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, "ds-2", response.ID)
		assert.EqualValues(t, 1, response.RowCount)
		datasets.AssertExpectations(t)
	})
}
