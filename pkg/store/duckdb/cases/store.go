package cases

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pv-tools/signal-atlas/pkg/models/store"
	"github.com/pv-tools/signal-atlas/pkg/store/duckdb"
)

// Store persists and reads back the flat case-report rows behind a dataset.
type Store interface {
	Add(ctx context.Context, datasetID string, records []store.CaseRecord) error
	GetCases(ctx context.Context, datasetID string) ([]store.CaseRecord, error)
	GetStats(ctx context.Context, datasetID string) (*store.DatasetStats, error)
	DeleteCases(ctx context.Context, datasetID string) error
}

type caseStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &caseStore{db: db}, nil
}

func (s *caseStore) Add(ctx context.Context, datasetID string, records []store.CaseRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx := duckdb.GetTransaction(ctx)
	query := `
		INSERT INTO case_reports (
			dataset_id, drug, reaction, dose_raw, dose_mg, lot, event_date, serious
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	var stmt *sql.Stmt
	var err error
	if tx == nil {
		stmt, err = s.db.PrepareContext(ctx, query)
	} else {
		stmt, err = tx.PrepareContext(ctx, query)
	}
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, record := range records {
		var doseMg sql.NullFloat64
		if record.DoseMg != nil {
			doseMg = sql.NullFloat64{Float64: *record.DoseMg, Valid: true}
		}
		var eventDate sql.NullTime
		if record.EventDate != nil {
			eventDate = sql.NullTime{Time: *record.EventDate, Valid: true}
		}

		_, err = stmt.ExecContext(ctx,
			datasetID,
			record.Drug,
			record.Reaction,
			record.DoseRaw,
			doseMg,
			record.Lot,
			eventDate,
			record.Serious,
		)
		if err != nil {
			return fmt.Errorf("insert case report: %w", err)
		}
	}

	return nil
}

func (s *caseStore) GetCases(ctx context.Context, datasetID string) ([]store.CaseRecord, error) {
	query := `
		SELECT drug, reaction, dose_raw, dose_mg, lot, event_date, serious
		FROM case_reports
		WHERE dataset_id = ?
		ORDER BY event_date
	`
	rows, err := s.db.QueryContext(ctx, query, datasetID)
	if err != nil {
		return nil, fmt.Errorf("query case reports: %w", err)
	}
	defer rows.Close()
	return scanCaseRows(rows)
}

func (s *caseStore) GetStats(ctx context.Context, datasetID string) (*store.DatasetStats, error) {
	query := `SELECT COUNT(*), MIN(event_date) FROM case_reports WHERE dataset_id = ?`

	var total int64
	var earliest sql.NullTime
	if err := s.db.QueryRowContext(ctx, query, datasetID).Scan(&total, &earliest); err != nil {
		return nil, fmt.Errorf("get dataset stats: %w", err)
	}

	var first *time.Time
	if earliest.Valid {
		t := earliest.Time
		first = &t
	}
	return &store.DatasetStats{CaseCount: total, FirstEventTime: first}, nil
}

func (s *caseStore) DeleteCases(ctx context.Context, datasetID string) error {
	tx := duckdb.GetTransaction(ctx)
	query := `DELETE FROM case_reports WHERE dataset_id = ?`

	var err error
	if tx == nil {
		_, err = s.db.ExecContext(ctx, query, datasetID)
	} else {
		_, err = tx.ExecContext(ctx, query, datasetID)
	}
	if err != nil {
		return fmt.Errorf("delete case reports: %w", err)
	}
	return nil
}

func scanCaseRows(rows *sql.Rows) ([]store.CaseRecord, error) {
	records := make([]store.CaseRecord, 0)
	for rows.Next() {
		var (
			drug, reaction, doseRaw, lot string
			doseMg                       sql.NullFloat64
			eventDate                    sql.NullTime
			serious                      bool
		)
		if err := rows.Scan(&drug, &reaction, &doseRaw, &doseMg, &lot, &eventDate, &serious); err != nil {
			return nil, err
		}

		record := store.CaseRecord{
			Drug:     drug,
			Reaction: reaction,
			DoseRaw:  doseRaw,
			Lot:      lot,
			Serious:  serious,
		}
		if doseMg.Valid {
			v := doseMg.Float64
			record.DoseMg = &v
		}
		if eventDate.Valid {
			t := eventDate.Time
			record.EventDate = &t
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
