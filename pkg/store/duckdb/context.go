package duckdb

import (
	"context"
	"database/sql"
)

type txKey struct{}

// WithTransaction propagates an open transaction to stores further down the
// call chain; stores fall back to the raw connection when none is present.
func WithTransaction(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

func GetTransaction(ctx context.Context) *sql.Tx {
	tx, _ := ctx.Value(txKey{}).(*sql.Tx)
	return tx
}
