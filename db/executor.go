package db

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/gyurix/soitrontask/failure"
)

// ErrMapperNotFound is returned when a parameter or result type has no registered mapper
var ErrMapperNotFound = errors.New("mapper not found")

func mapperNotFound(typ reflect.Type) error {
	if typ == nil {
		return failure.New(failure.KindMapperNotFound, fmt.Errorf("%w: no mapper registered for nil parameter", ErrMapperNotFound))
	}
	return failure.New(failure.KindMapperNotFound, fmt.Errorf("%w: no mapper registered for %s", ErrMapperNotFound, typ))
}

// bindParams binds every param with the mapper registered for its dynamic type
func (c *Connection) bindParams(params []any) ([]any, error) {
	stmt := NewStatement()
	index := 0
	for _, param := range params {
		typ := reflect.TypeOf(param)
		m, ok := c.mappers.lookup(typ)
		if !ok {
			return nil, mapperNotFound(typ)
		}
		index += m.bind(stmt, index, param)
	}
	return stmt.Args(), nil
}

// Exec binds params, runs query as an update and returns no rows
func (c *Connection) Exec(ctx context.Context, query string, params ...any) error {
	if c.db == nil {
		return failure.New(failure.KindStorage, fmt.Errorf("sql: database is closed"))
	}
	args, err := c.bindParams(params)
	if err != nil {
		return err
	}

	query = c.db.Rebind(query)
	c.logQuery(ctx, query, args)
	if _, err := c.db.ExecContext(ctx, query, args...); err != nil {
		return failure.New(failure.KindStorage, fmt.Errorf("failed to execute query: %s, error: %w", query, err))
	}
	return nil
}

// Query binds params, runs query and extracts every row with the mapper registered for T.
// All rows are read before it returns.
func Query[T any](ctx context.Context, c *Connection, query string, params ...any) ([]T, error) {
	if c.db == nil {
		return nil, failure.New(failure.KindStorage, fmt.Errorf("sql: database is closed"))
	}
	mapper, ok := MapperFor[T](c)
	if !ok {
		return nil, mapperNotFound(reflect.TypeFor[T]())
	}
	args, err := c.bindParams(params)
	if err != nil {
		return nil, err
	}

	query = c.db.Rebind(query)
	c.logQuery(ctx, query, args)
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, failure.New(failure.KindStorage, fmt.Errorf("failed to execute query: %s, error: %w", query, err))
	}
	defer rows.Close()

	results := make([]T, 0)
	for rows.Next() {
		entity, err := mapper.Extract(rows)
		if err != nil {
			return nil, failure.New(failure.KindStorage, fmt.Errorf("failed to scan row: %w", err))
		}
		results = append(results, entity)
	}

	if err := rows.Err(); err != nil {
		return nil, failure.New(failure.KindStorage, fmt.Errorf("error iterating rows: %w", err))
	}

	return results, nil
}
