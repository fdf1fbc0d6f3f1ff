package sink

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/javajack/sheetjson"
)

// Execer is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresSink inserts every row as jsonb, tagged with an import id and its
// position.
type PostgresSink struct {
	db       Execer
	table    string
	importID uuid.UUID
	rowNum   int
}

// NewPostgresSink returns a sink writing to table with a fresh import id.
func NewPostgresSink(db Execer, table string) *PostgresSink {
	return &PostgresSink{db: db, table: table, importID: uuid.New()}
}

func (s *PostgresSink) quotedTable() string {
	return pgx.Identifier{s.table}.Sanitize()
}

// EnsureTable creates the target table when it does not exist.
func (s *PostgresSink) EnsureTable(ctx context.Context) error {
	sql := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id BIGSERIAL PRIMARY KEY,
	import_id UUID NOT NULL,
	row_num INT NOT NULL,
	data JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`, s.quotedTable())
	if _, err := s.db.Exec(ctx, sql); err != nil {
		return fmt.Errorf("create table %s: %w", s.table, err)
	}
	return nil
}

// Save inserts row. Rows are numbered from 1 in the order they arrive.
func (s *PostgresSink) Save(ctx context.Context, row sheetjson.Row) error {
	data, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("encode row: %w", err)
	}
	s.rowNum++
	sql := fmt.Sprintf("INSERT INTO %s (import_id, row_num, data) VALUES ($1, $2, $3)", s.quotedTable())
	if _, err := s.db.Exec(ctx, sql, s.importID, s.rowNum, string(data)); err != nil {
		return fmt.Errorf("insert row %d: %w", s.rowNum, err)
	}
	return nil
}

// Ref returns the import id shared by all rows of this sink.
func (s *PostgresSink) Ref() string { return s.importID.String() }

// Rows returns the number of rows saved so far.
func (s *PostgresSink) Rows() int { return s.rowNum }

// Close is a no-op; the caller owns the connection.
func (s *PostgresSink) Close() error { return nil }
