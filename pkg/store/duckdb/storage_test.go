package duckdb

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDB_BootsSchema(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "duckdb-test-*")
	require.NoError(t, err)

	defer func() {
		err := os.RemoveAll(tmpDir)
		if err != nil {
			t.Errorf("failed to cleanup test directory: %v", err)
		}
	}()

	dbPath := filepath.Join(tmpDir, "test.db")
	db, err := NewDB(Settings{
		DbPath: dbPath,
	})
	require.NoError(t, err)
	require.NotNil(t, db)

	defer func() {
		err := db.Close()
		if err != nil {
			t.Errorf("failed to close database connection: %v", err)
		}
	}()

	_, err = db.Exec(
		`INSERT INTO datasets (id, name, row_count) VALUES (?, ?, ?)`,
		"ds-001", "faers-q1", 42,
	)
	require.NoError(t, err)

	_, err = db.Exec(
		`INSERT INTO case_reports (dataset_id, drug, reaction, lot, serious) VALUES (?, ?, ?, ?, ?)`,
		"ds-001", "metformin", "nausea", "LOT-A1", false,
	)
	require.NoError(t, err)

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM case_reports WHERE dataset_id = ?", "ds-001").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
