package datasets

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pv-tools/signal-atlas/pkg/models/store"
	"github.com/pv-tools/signal-atlas/pkg/store/duckdb"
)

// Store manages the dataset registry rows; case rows live in the cases store.
type Store interface {
	Create(ctx context.Context, record store.DatasetRecord) error
	List(ctx context.Context) ([]store.DatasetRecord, error)
	Get(ctx context.Context, id string) (*store.DatasetRecord, error)
	Delete(ctx context.Context, id string) error
}

type datasetStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &datasetStore{db: db}, nil
}

func (s *datasetStore) Create(ctx context.Context, record store.DatasetRecord) error {
	schema, err := json.Marshal(record.Schema)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	tx := duckdb.GetTransaction(ctx)
	query := `INSERT INTO datasets (id, name, created_at, row_count, schema) VALUES (?, ?, ?, ?, ?)`

	if tx == nil {
		_, err = s.db.ExecContext(ctx, query, record.ID, record.Name, record.CreatedAt, record.RowCount, schema)
	} else {
		_, err = tx.ExecContext(ctx, query, record.ID, record.Name, record.CreatedAt, record.RowCount, schema)
	}
	if err != nil {
		return fmt.Errorf("insert dataset: %w", err)
	}
	return nil
}

func (s *datasetStore) List(ctx context.Context) ([]store.DatasetRecord, error) {
	query := `SELECT id, name, created_at, row_count, schema FROM datasets ORDER BY created_at DESC`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query datasets: %w", err)
	}
	defer rows.Close()

	records := make([]store.DatasetRecord, 0)
	for rows.Next() {
		record, err := scanDatasetRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	return records, rows.Err()
}

func (s *datasetStore) Get(ctx context.Context, id string) (*store.DatasetRecord, error) {
	query := `SELECT id, name, created_at, row_count, schema FROM datasets WHERE id = ?`
	record, err := scanDatasetRow(s.db.QueryRowContext(ctx, query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("dataset %q not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get dataset: %w", err)
	}
	return record, nil
}

func (s *datasetStore) Delete(ctx context.Context, id string) error {
	tx := duckdb.GetTransaction(ctx)
	query := `DELETE FROM datasets WHERE id = ?`

	var err error
	if tx == nil {
		_, err = s.db.ExecContext(ctx, query, id)
	} else {
		_, err = tx.ExecContext(ctx, query, id)
	}
	if err != nil {
		return fmt.Errorf("delete dataset: %w", err)
	}
	return nil
}

func scanDatasetRow(scan func(dest ...any) error) (*store.DatasetRecord, error) {
	var (
		id, name  string
		createdAt time.Time
		rowCount  int64
		schemaRaw []byte
	)
	if err := scan(&id, &name, &createdAt, &rowCount, &schemaRaw); err != nil {
		return nil, err
	}

	schema := map[string]string{}
	if len(schemaRaw) > 0 {
		_ = json.Unmarshal(schemaRaw, &schema)
	}

	return &store.DatasetRecord{
		ID:        id,
		Name:      name,
		CreatedAt: createdAt,
		RowCount:  rowCount,
		Schema:    schema,
	}, nil
}
