package memo

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/datedmemo/datedmemo/internal/errors"
)

// Dialect selects SQL syntax and the goose dialect.
type Dialect string

const (
	// DialectPostgres uses $n placeholders. Driver: pgx.
	DialectPostgres Dialect = "postgres"
	// DialectSQLite uses ? placeholders. Driver: modernc.org/sqlite.
	DialectSQLite Dialect = "sqlite"
)

// DriverName returns the database/sql driver registered for d.
func (d Dialect) DriverName() string {
	switch d {
	case DialectPostgres:
		return "pgx"
	case DialectSQLite:
		return "sqlite"
	}
	return ""
}

// SQLStore is a Store over database/sql. The memos table is created by
// Migrate:
//
//	CREATE TABLE memos (
//	    id         VARCHAR(36) PRIMARY KEY,
//	    date       BIGINT NOT NULL,
//	    text       TEXT NOT NULL,
//	    created_at BIGINT NOT NULL
//	);
//	CREATE INDEX idx_memos_date ON memos(date);
//
// Dates are stored as Unix seconds so both dialects order them the same way.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
	table   string
}

// SQLStoreOption configures an SQLStore.
type SQLStoreOption func(*SQLStore)

// WithSQLTable sets the table name. Default: "memos".
func WithSQLTable(name string) SQLStoreOption {
	return func(s *SQLStore) {
		s.table = name
	}
}

// NewSQLStore wraps db. The caller keeps ownership of the schema.
func NewSQLStore(db *sql.DB, dialect Dialect, opts ...SQLStoreOption) *SQLStore {
	s := &SQLStore{
		db:      db,
		dialect: dialect,
		table:   "memos",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DB returns the underlying handle.
func (s *SQLStore) DB() *sql.DB { return s.db }

func (s *SQLStore) placeholder(n int) string {
	if s.dialect == DialectPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

func (s *SQLStore) Put(ctx context.Context, m Memo) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, date, text, created_at)
		VALUES (%s, %s, %s, %s)
		ON CONFLICT (id) DO UPDATE SET
			date = EXCLUDED.date,
			text = EXCLUDED.text
	`, s.table, s.placeholder(1), s.placeholder(2), s.placeholder(3), s.placeholder(4))

	_, err := s.db.ExecContext(ctx, query, m.ID, m.Date.Unix(), m.Text, m.CreatedAt.Unix())
	if err != nil {
		return errors.New("E202").Wrap(err)
	}
	return nil
}

func (s *SQLStore) Get(ctx context.Context, id string) (Memo, error) {
	query := fmt.Sprintf(`SELECT id, date, text, created_at FROM %s WHERE id = %s`,
		s.table, s.placeholder(1))

	m, err := scanMemo(s.db.QueryRowContext(ctx, query, id))
	if stderrors.Is(err, sql.ErrNoRows) {
		return Memo{}, ErrNotFound
	}
	if err != nil {
		return Memo{}, errors.New("E202").Wrap(err)
	}
	return m, nil
}

func (s *SQLStore) List(ctx context.Context) ([]Memo, error) {
	query := fmt.Sprintf(`SELECT id, date, text, created_at FROM %s ORDER BY date, id`, s.table)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.New("E202").Wrap(err)
	}
	defer rows.Close()

	var out []Memo
	for rows.Next() {
		m, err := scanMemo(rows)
		if err != nil {
			return nil, errors.New("E202").Wrap(err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.New("E202").Wrap(err)
	}
	return out, nil
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = %s`, s.table, s.placeholder(1))
	if _, err := s.db.ExecContext(ctx, query, id); err != nil {
		return errors.New("E202").Wrap(err)
	}
	return nil
}

// Close closes the database handle.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMemo(row scanner) (Memo, error) {
	var (
		m               Memo
		date, createdAt int64
	)
	if err := row.Scan(&m.ID, &date, &m.Text, &createdAt); err != nil {
		return Memo{}, err
	}
	m.Date = time.Unix(date, 0).UTC()
	m.CreatedAt = time.Unix(createdAt, 0).UTC()
	return m, nil
}
