package sqlite

import (
	"context"
	"database/sql"
	stderrors "errors"

	"fastodo/internal/errors"
)

// HandleDatabaseError converts database errors to structured app errors
func HandleDatabaseError(operation string, err error) error {
	return errors.NewStorageError(operation, err).WithContext("medium", "sqlite")
}

// IsNoRows reports whether err means the query matched nothing
func IsNoRows(err error) bool {
	return stderrors.Is(err, sql.ErrNoRows)
}

// ValidateRowsAffected checks that a write touched exactly one row
func ValidateRowsAffected(result sql.Result, key string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return HandleDatabaseError("get rows affected", err)
	}
	if rows != 1 {
		return errors.NewStorageError("write "+key, nil).WithContext("rows_affected", rows)
	}
	return nil
}

// QuerySingle executes a query that returns a single row and scans it. A missing row yields
// nil and sql.ErrNoRows so callers can tell absence from failure.
func QuerySingle[T any](ctx context.Context, db *sql.DB, query string, scanFunc func(Scanner) (*T, error), args ...interface{}) (*T, error) {
	row := db.QueryRowContext(ctx, query, args...)
	result, err := scanFunc(row)
	if err != nil {
		if IsNoRows(err) {
			return nil, sql.ErrNoRows
		}
		return nil, HandleDatabaseError("scan row", err)
	}
	return result, nil
}

// ExecuteSingleRow executes a write that must affect exactly one row
func ExecuteSingleRow(ctx context.Context, db *sql.DB, query string, key string, args ...interface{}) error {
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return HandleDatabaseError("execute query", err)
	}
	return ValidateRowsAffected(result, key)
}
