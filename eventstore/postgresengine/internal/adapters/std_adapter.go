package adapters

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// stdConn is the part of *sql.DB and *sqlx.DB the event store runs on.
type stdConn interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// StdAdapter implements DBAdapter for database/sql style connections.
type StdAdapter struct {
	conn stdConn
}

// NewSQLAdapter runs the event store on a database/sql pool.
func NewSQLAdapter(db *sql.DB) *StdAdapter {
	return &StdAdapter{conn: db}
}

// NewSQLXAdapter runs the event store on a sqlx pool.
func NewSQLXAdapter(db *sqlx.DB) *StdAdapter {
	return &StdAdapter{conn: db}
}

func (s *StdAdapter) Query(ctx context.Context, query string) (DBRows, error) {
	rows, err := s.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}

	return rows, nil
}

func (s *StdAdapter) Exec(ctx context.Context, query string) (DBResult, error) {
	return s.conn.ExecContext(ctx, query)
}
