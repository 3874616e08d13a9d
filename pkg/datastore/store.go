package datastore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver

	"github.com/goliatone/go-formquery/internal/logging"
	"github.com/goliatone/go-formquery/internal/metrics"
)

const defaultTimeout = 5 * time.Second

var (
	// ErrBadArgument reports a malformed comparison token or identifier.
	ErrBadArgument = errors.New("datastore: bad argument")

	identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// Row is one result row keyed by column name.
type Row map[string]any

// NotSingletonError is returned by GetOne when the id does not match exactly
// one row.
type NotSingletonError struct {
	Table string
	ID    any
	Count int
}

func (e *NotSingletonError) Error() string {
	return fmt.Sprintf("datastore: %s[id=%v] returned %d rows", e.Table, e.ID, e.Count)
}

// Store runs queries against a SQLite database. It is safe for concurrent
// use.
type Store struct {
	db      *sql.DB
	onError func(error)
	timeout time.Duration
	owned   bool
}

// Option configures a Store.
type Option func(*Store)

// WithOnError registers a callback invoked with every query error before it
// is returned to the caller.
func WithOnError(fn func(error)) Option {
	return func(s *Store) {
		s.onError = fn
	}
}

// WithTimeout bounds each query. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(s *Store) {
		s.timeout = d
	}
}

// Open connects to the SQLite database at path (":memory:" for a private
// in-memory database) in WAL mode and creates the stream table.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	dsn := path
	if path != ":memory:" {
		dsn = fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000", path)
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("datastore: open %s: %w", path, err)
	}
	if path == ":memory:" {
		// Each connection of an in-memory database is a separate database.
		db.SetMaxOpenConns(1)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("datastore: close after ping failure: %v", closeErr)
		}
		return nil, fmt.Errorf("datastore: connect %s: %w", path, err)
	}

	s := New(db, opts...)
	s.owned = true
	if err := s.initialize(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("datastore: close after init failure: %v", closeErr)
		}
		return nil, err
	}
	logging.Info("datastore: opened %s", path)
	return s, nil
}

// New wraps an existing database handle. The caller keeps ownership of db.
func New(db *sql.DB, opts ...Option) *Store {
	s := &Store{db: db, timeout: defaultTimeout}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// DB exposes the underlying handle.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close releases the database when the Store opened it.
func (s *Store) Close() error {
	if s == nil || s.db == nil || !s.owned {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initialize(ctx context.Context) error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS m3u8 (
		url TEXT PRIMARY KEY,
		m3u8 TEXT NOT NULL,
		updated INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
	);
	CREATE INDEX IF NOT EXISTS idx_m3u8_updated ON m3u8(updated);
	`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("datastore: initialize schema: %w", err)
	}
	return nil
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

// query runs a SELECT and scans every row into a Row.
func (s *Store) query(ctx context.Context, operation, label, stmt string, args ...any) ([]Row, error) {
	start := time.Now()
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, s.fail(operation, label, start, err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			logging.Warn("datastore: close rows for %s: %v", label, closeErr)
		}
	}()

	out, err := scanRows(rows)
	if err != nil {
		return nil, s.fail(operation, label, start, err)
	}

	metrics.DBQueryTotal.WithLabelValues(operation, "success").Inc()
	metrics.DBQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	metrics.DBRowsReturned.WithLabelValues(operation).Observe(float64(len(out)))
	logging.Debug("%s: %d rows", label, len(out))
	return out, nil
}

func (s *Store) fail(operation, label string, start time.Time, err error) error {
	metrics.DBQueryTotal.WithLabelValues(operation, "error").Inc()
	metrics.DBQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	logging.Error("%s: %v", label, err)
	if s.onError != nil {
		s.onError(err)
	}
	return fmt.Errorf("datastore: %s: %w", label, err)
}

func scanRows(rows *sql.Rows) ([]Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	out := make([]Row, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(Row, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func checkIdent(names ...string) error {
	for _, name := range names {
		if !identPattern.MatchString(name) {
			return fmt.Errorf("%w: invalid identifier %q", ErrBadArgument, name)
		}
	}
	return nil
}
