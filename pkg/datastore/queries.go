package datastore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/goliatone/go-formquery/internal/logging"
)

// SelectTableWhere returns the rows of table whose column matches args. With
// no args every row is returned.
func (s *Store) SelectTableWhere(ctx context.Context, table, column string, args ...any) ([]Row, error) {
	return s.selectWhere(ctx, "select", table, "*", column, args, "")
}

// SelectColumnWhere is SelectTableWhere projected onto a single field.
func (s *Store) SelectColumnWhere(ctx context.Context, table, field, column string, args ...any) ([]any, error) {
	rows, err := s.selectWhere(ctx, "select_column", table, field, column, args, "")
	if err != nil {
		return nil, err
	}
	out := make([]any, len(rows))
	for i, row := range rows {
		out[i] = row[field]
	}
	return out, nil
}

// Get returns the rows of table with the given ids.
func (s *Store) Get(ctx context.Context, table string, ids ...any) ([]Row, error) {
	return s.SelectTableWhere(ctx, table, "id", ids...)
}

// GetOne returns the single row of table with id. Any other row count is a
// *NotSingletonError.
func (s *Store) GetOne(ctx context.Context, table string, id any) (Row, error) {
	rows, err := s.Get(ctx, table, id)
	if err != nil {
		return nil, err
	}
	if len(rows) != 1 {
		return nil, &NotSingletonError{Table: table, ID: id, Count: len(rows)}
	}
	return rows[0], nil
}

// SafeGetOne is GetOne that returns a nil row for a nil id.
func (s *Store) SafeGetOne(ctx context.Context, table string, id any) (Row, error) {
	if id == nil {
		return nil, nil
	}
	return s.GetOne(ctx, table, id)
}

// Min returns the smallest non-null field of the matching rows.
func (s *Store) Min(ctx context.Context, table, field, column string, args ...any) (any, error) {
	return s.extreme(ctx, "min", "ASC", table, field, column, args)
}

// Max returns the largest non-null field of the matching rows.
func (s *Store) Max(ctx context.Context, table, field, column string, args ...any) (any, error) {
	return s.extreme(ctx, "max", "DESC", table, field, column, args)
}

// Count returns the number of matching rows.
func (s *Store) Count(ctx context.Context, table, column string, args ...any) (int64, error) {
	rows, err := s.selectWhere(ctx, "count", table, "COUNT(*) AS n", column, args, "")
	if err != nil {
		return 0, err
	}
	n, _ := rows[0]["n"].(int64)
	return n, nil
}

func (s *Store) extreme(ctx context.Context, operation, direction, table, field, column string, args []any) (any, error) {
	// Nulls sort last in both directions.
	order := fmt.Sprintf("ORDER BY %s IS NULL, %s %s LIMIT 1", field, field, direction)
	rows, err := s.selectWhere(ctx, operation, table, field, column, args, order)
	if err != nil {
		return nil, err
	}
	lbl := fmt.Sprintf("%s(%s)", operation, label(table, field, column, args))
	if len(rows) == 0 {
		return nil, fmt.Errorf("datastore: %s: %w", lbl, sql.ErrNoRows)
	}
	val := rows[0][field]
	logging.Debug("%s = %v", lbl, val)
	return val, nil
}

func (s *Store) selectWhere(ctx context.Context, operation, table, field, column string, args []any, tail string) ([]Row, error) {
	if err := checkIdent(table); err != nil {
		return nil, err
	}
	if column != "" {
		if err := checkIdent(column); err != nil {
			return nil, err
		}
	}
	if field != "*" && operation != "count" {
		if err := checkIdent(field); err != nil {
			return nil, err
		}
	}

	where, params, err := buildWhere(column, args)
	if err != nil {
		if s.onError != nil {
			s.onError(err)
		}
		return nil, err
	}

	stmt := fmt.Sprintf("SELECT %s FROM %s", field, table)
	if where != "" {
		stmt += " WHERE " + where
	}
	if tail != "" {
		stmt += " " + tail
	}
	return s.query(ctx, operation, label(table, field, column, args), stmt, params...)
}
