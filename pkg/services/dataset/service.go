package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/pv-tools/signal-atlas/pkg/adapters"
	"github.com/pv-tools/signal-atlas/pkg/models/domain"
	"github.com/pv-tools/signal-atlas/pkg/models/store"
	"github.com/pv-tools/signal-atlas/pkg/store/duckdb"
	"github.com/pv-tools/signal-atlas/pkg/store/duckdb/cases"
	"github.com/pv-tools/signal-atlas/pkg/store/duckdb/datasets"
)

// ManagementService owns the dataset lifecycle: ingesting CSV uploads,
// listing the registry and materializing a full dataset for analysis.
type ManagementService interface {
	CreateFromCSV(ctx context.Context, name string, r io.Reader) (*domain.Dataset, error)
	List(ctx context.Context) ([]domain.DatasetMeta, error)
	Get(ctx context.Context, id string) (*domain.Dataset, error)
	Delete(ctx context.Context, id string) error
}

type managementService struct {
	db           *sql.DB
	datasetStore datasets.Store
	caseStore    cases.Store
}

func NewManagementService(db *sql.DB, datasetStore datasets.Store, caseStore cases.Store) (ManagementService, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &managementService{
		db:           db,
		datasetStore: datasetStore,
		caseStore:    caseStore,
	}, nil
}

func (s *managementService) CreateFromCSV(ctx context.Context, name string, r io.Reader) (*domain.Dataset, error) {
	ds, err := LoadCSV(name, r)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	records := make([]store.CaseRecord, 0, len(ds.Cases))
	for _, c := range ds.Cases {
		records = append(records, adapters.MapDomainCaseToStore(c))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	txCtx := duckdb.WithTransaction(ctx, tx)

	err = s.datasetStore.Create(txCtx, store.DatasetRecord{
		ID:        ds.ID,
		Name:      ds.Name,
		CreatedAt: ds.CreatedAt,
		RowCount:  int64(len(ds.Cases)),
		Schema:    adapters.MapDomainSchemaToStore(ds.Schema),
	})
	if err == nil {
		err = s.caseStore.Add(txCtx, ds.ID, records)
	}
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			zerolog.Ctx(ctx).Error().Err(rbErr).Msg("rollback failed")
		}
		return nil, fmt.Errorf("persist dataset: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit dataset: %w", err)
	}

	zerolog.Ctx(ctx).Info().
		Str("dataset", ds.ID).
		Int("cases", len(ds.Cases)).
		Msg("dataset ingested")
	return ds, nil
}

func (s *managementService) List(ctx context.Context) ([]domain.DatasetMeta, error) {
	records, err := s.datasetStore.List(ctx)
	if err != nil {
		return nil, err
	}

	metas := make([]domain.DatasetMeta, 0, len(records))
	for _, r := range records {
		metas = append(metas, adapters.MapDatasetRecordToDomainMeta(r))
	}
	return metas, nil
}

func (s *managementService) Get(ctx context.Context, id string) (*domain.Dataset, error) {
	record, err := s.datasetStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	caseRecords, err := s.caseStore.GetCases(ctx, id)
	if err != nil {
		return nil, err
	}

	ds := &domain.Dataset{
		ID:        record.ID,
		Name:      record.Name,
		CreatedAt: record.CreatedAt,
		Schema:    adapters.MapStoreSchemaToDomain(record.Schema),
	}
	for _, r := range caseRecords {
		ds.Cases = append(ds.Cases, adapters.MapStoreCaseToDomain(r))
	}
	return ds, nil
}

func (s *managementService) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	txCtx := duckdb.WithTransaction(ctx, tx)

	err = s.caseStore.DeleteCases(txCtx, id)
	if err == nil {
		err = s.datasetStore.Delete(txCtx, id)
	}
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			zerolog.Ctx(ctx).Error().Err(rbErr).Msg("rollback failed")
		}
		return fmt.Errorf("delete dataset: %w", err)
	}
	return tx.Commit()
}
