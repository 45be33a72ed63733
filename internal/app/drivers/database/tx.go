package database

import (
	"context"
	"database/sql"
	"errors"
	"fisioflow-service/internal/pkg/exceptions"

	"github.com/lib/pq"
)

type txContextKey struct{}

// Querier is satisfied by both *sql.DB and *sql.Tx so repositories can run
// the same statements inside or outside an explicit transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// QuerierFromContext returns the transaction bound to ctx by RunInTx, or the
// fallback connection when the caller is not inside a transaction.
func QuerierFromContext(ctx context.Context, fallback *sql.DB) Querier {
	if tx, ok := ctx.Value(txContextKey{}).(*sql.Tx); ok {
		return tx
	}
	return fallback
}

// RunInTx executes fn inside a single database transaction. The transaction
// is bound to the context handed to fn; any error rolls everything back.
func RunInTx(ctx context.Context, db *sql.DB, fn func(ctx context.Context) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return exceptions.ErrPostgresDBBeginTx(err)
	}

	txCtx := context.WithValue(ctx, txContextKey{}, tx)
	if err := fn(txCtx); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return exceptions.ErrPostgresDBCommitTx(err)
	}
	return nil
}

// IsUniqueViolation reports whether err is a postgres unique constraint
// violation (SQLSTATE 23505).
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
