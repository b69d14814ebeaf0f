package db

import (
	"reflect"
	"sync"
)

// Statement collects the positional parameters of a query.
// Indexes are zero based.
type Statement struct {
	args []any
}

// NewStatement creates a statement with no parameters
func NewStatement() *Statement {
	return &Statement{}
}

// Set stores value at the given parameter index, growing the statement as needed
func (s *Statement) Set(index int, value any) {
	for len(s.args) <= index {
		s.args = append(s.args, nil)
	}
	s.args[index] = value
}

// Args returns the bound parameters in order
func (s *Statement) Args() []any {
	return s.args
}

// RowScanner reads the columns of the current row by position.
// *sql.Rows satisfies it.
type RowScanner interface {
	Scan(dest ...any) error
}

// Mapper converts an entity to statement parameters and back from a row.
//
// Bind writes the entity's fields into stmt starting at index, in a fixed
// order, and returns how many parameters it wrote so several entities can be
// bound into one statement. Extract reads the columns of one row in the same
// order the entity's table declares them.
type Mapper[T any] interface {
	Bind(stmt *Statement, index int, entity T) int
	Extract(row RowScanner) (T, error)
}

// binder is the type-erased half of a Mapper used for parameters
type binder interface {
	bind(stmt *Statement, index int, value any) int
}

type typedMapper[T any] struct {
	Mapper[T]
}

func (m typedMapper[T]) bind(stmt *Statement, index int, value any) int {
	return m.Bind(stmt, index, value.(T))
}

type mapperRegistry struct {
	mu      sync.RWMutex
	mappers map[reflect.Type]binder
}

func newMapperRegistry() *mapperRegistry {
	return &mapperRegistry{mappers: make(map[reflect.Type]binder)}
}

func (r *mapperRegistry) register(typ reflect.Type, m binder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mappers[typ] = m
}

func (r *mapperRegistry) lookup(typ reflect.Type) (binder, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.mappers[typ]
	return m, ok
}

// RegisterMapper makes m the mapper for parameters and results of type T.
// Registering again for the same type replaces the previous mapper.
func RegisterMapper[T any](c *Connection, m Mapper[T]) {
	c.mappers.register(reflect.TypeFor[T](), typedMapper[T]{m})
}

// MapperFor returns the mapper registered for T
func MapperFor[T any](c *Connection) (Mapper[T], bool) {
	m, ok := c.mappers.lookup(reflect.TypeFor[T]())
	if !ok {
		return nil, false
	}
	typed, ok := m.(typedMapper[T])
	if !ok {
		return nil, false
	}
	return typed.Mapper, true
}
