package adapters

import (
	"context"
	"database/sql"
)

// stdRows wraps sql.Rows, shared by the sql.DB and sqlx.DB adapters.
type stdRows struct {
	rows *sql.Rows
}

func (s *stdRows) Next() bool {
	return s.rows.Next()
}

func (s *stdRows) Scan(dest ...any) error {
	return s.rows.Scan(dest...)
}

func (s *stdRows) Err() error {
	return s.rows.Err()
}

func (s *stdRows) Close() error {
	return s.rows.Close()
}

type stdResult struct {
	result sql.Result
}

func (s *stdResult) RowsAffected() (int64, error) {
	return s.result.RowsAffected()
}

// stdTx wraps sql.Tx. database/sql binds the context at BeginTx, the ctx arguments of Commit and Rollback are unused.
type stdTx struct {
	tx *sql.Tx
}

func (s *stdTx) Exec(ctx context.Context, query string) (DBResult, error) {
	result, err := s.tx.ExecContext(ctx, query)
	if err != nil {
		return nil, err
	}

	return &stdResult{result: result}, nil
}

func (s *stdTx) Commit(_ context.Context) error {
	return s.tx.Commit()
}

func (s *stdTx) Rollback(_ context.Context) error {
	return s.tx.Rollback()
}

var readCommitted = &sql.TxOptions{Isolation: sql.LevelReadCommitted}
