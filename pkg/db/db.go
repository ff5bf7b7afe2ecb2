package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// TxFunc runs inside a transaction. The transaction is committed when it
// returns nil and rolled back otherwise.
type TxFunc func(ctx context.Context, tx *sql.Tx) error

// SQLExecutor is the narrow database surface repositories depend on.
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	WithTransaction(ctx context.Context, isolation sql.IsolationLevel, fn TxFunc) error
}

// SQLClient wraps *sql.DB with transaction helpers.
type SQLClient struct {
	*sql.DB
}

// NewSQLClient opens and pings a database connection.
func NewSQLClient(driver, dsn string) (*SQLClient, error) {
	database, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	database.SetMaxOpenConns(25)
	database.SetMaxIdleConns(5)
	database.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := database.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &SQLClient{DB: database}, nil
}

// WithTransaction executes fn inside a transaction at the given isolation
// level. Serialization failures (SQLSTATE 40001) are retried once before
// being surfaced.
func (c *SQLClient) WithTransaction(ctx context.Context, isolation sql.IsolationLevel, fn TxFunc) error {
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		err = c.runInTx(ctx, isolation, fn)
		if err == nil || !isSerializationFailure(err) {
			return err
		}
	}
	return err
}

func (c *SQLClient) runInTx(ctx context.Context, isolation sql.IsolationLevel, fn TxFunc) error {
	tx, err := c.BeginTx(ctx, &sql.TxOptions{Isolation: isolation})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			return fmt.Errorf("rollback (%v) after: %w", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Close closes the underlying connection pool.
func (c *SQLClient) Close() error {
	return c.DB.Close()
}
