package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

const DatasetTableSchema = `
	CREATE TABLE IF NOT EXISTS datasets (
		id VARCHAR NOT NULL PRIMARY KEY,
		name VARCHAR NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		row_count BIGINT NOT NULL DEFAULT 0,
		schema JSON
	);
`

const CaseReportTableSchema = `
	CREATE TABLE IF NOT EXISTS case_reports (
		dataset_id VARCHAR NOT NULL,
		drug VARCHAR,
		reaction VARCHAR,
		dose_raw VARCHAR,
		dose_mg DOUBLE,
		lot VARCHAR,
		event_date TIMESTAMP,
		serious BOOLEAN
	);
`

var bootQueries = []string{
	DatasetTableSchema,
	CaseReportTableSchema,
}

type Settings struct {
	DbPath string
}

func NewDB(settings Settings) (*sql.DB, error) {
	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=4", settings.DbPath), func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(c)
	return db, nil
}
