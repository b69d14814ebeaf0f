// Package repository provides the CRUD stores the command executor applies
// commands against.
package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/gyurix/soitrontask/db"
	"github.com/gyurix/soitrontask/entity"
)

// Repository is the CRUD facade over one entity type
type Repository[T any] interface {
	Add(ctx context.Context, item T) error
	DeleteAll(ctx context.Context) error
	GetAll(ctx context.Context) ([]T, error)
}

// Store is a Repository backed by one table of a db.Connection.
// Its methods hold a lock for their whole duration, so at most one store
// operation uses the connection at a time.
type Store[T any] struct {
	mu     sync.Mutex
	conn   *db.Connection
	schema db.TableSchema

	insertQuery    string
	selectAllQuery string
	deleteAllQuery string
}

// New registers mapper for T on conn and creates the table described by schema if it is missing
func New[T any](ctx context.Context, conn *db.Connection, schema db.TableSchema, mapper db.Mapper[T]) (*Store[T], error) {
	db.RegisterMapper(conn, mapper)

	s := &Store[T]{
		conn:           conn,
		schema:         schema,
		insertQuery:    conn.InsertQuery(schema),
		selectAllQuery: conn.SelectAllQuery(schema),
		deleteAllQuery: conn.DeleteAllQuery(schema),
	}
	if err := s.initTable(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// NewUserRepository creates the store of entity.User rows
func NewUserRepository(ctx context.Context, conn *db.Connection) (*Store[entity.User], error) {
	return New[entity.User](ctx, conn, entity.UsersTable, entity.UserMapper{})
}

func (s *Store[T]) initTable(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.conn.Exec(ctx, s.conn.CreateTableQuery(s.schema)); err != nil {
		return fmt.Errorf("failed to create table %s: %w", s.schema.Name, err)
	}
	return nil
}

// Add inserts item as a new row
func (s *Store[T]) Add(ctx context.Context, item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.conn.Exec(ctx, s.insertQuery, item); err != nil {
		return fmt.Errorf("failed to add to %s: %w", s.schema.Name, err)
	}
	return nil
}

// DeleteAll removes every row of the table
func (s *Store[T]) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.conn.Exec(ctx, s.deleteAllQuery); err != nil {
		return fmt.Errorf("failed to delete all from %s: %w", s.schema.Name, err)
	}
	return nil
}

// GetAll returns every row in the order the database scans them
func (s *Store[T]) GetAll(ctx context.Context) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entities, err := db.Query[T](ctx, s.conn, s.selectAllQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to get all from %s: %w", s.schema.Name, err)
	}
	return entities, nil
}

var _ Repository[entity.User] = (*Store[entity.User])(nil)
