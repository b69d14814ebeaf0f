package db

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/frankban/quicktest"
	"github.com/gyurix/soitrontask/failure"
)

type point struct {
	X, Y int
}

type pointMapper struct{}

func (pointMapper) Bind(stmt *Statement, index int, p point) int {
	stmt.Set(index, p.X)
	stmt.Set(index+1, p.Y)
	return 2
}

func (pointMapper) Extract(row RowScanner) (point, error) {
	var p point
	err := row.Scan(&p.X, &p.Y)
	return p, err
}

func TestStatement_Set(t *testing.T) {
	c := quicktest.New(t)
	stmt := NewStatement()
	stmt.Set(2, "c")
	stmt.Set(0, "a")
	c.Assert(stmt.Args(), quicktest.DeepEquals, []any{"a", nil, "c"})
}

func TestMapperFor(t *testing.T) {
	c := quicktest.New(t)
	conn, _ := newMockConnection(c, SQLite)

	_, ok := MapperFor[point](conn)
	c.Assert(ok, quicktest.IsFalse)

	RegisterMapper[point](conn, pointMapper{})
	m, ok := MapperFor[point](conn)
	c.Assert(ok, quicktest.IsTrue)
	c.Assert(m, quicktest.Equals, Mapper[point](pointMapper{}))
}

func TestExec_ChainsParameterIndexes(t *testing.T) {
	c := quicktest.New(t)
	conn, mock := newMockConnection(c, MySQL)
	RegisterMapper[point](conn, pointMapper{})

	query := "INSERT INTO segments (x1, y1, x2, y2) VALUES (?, ?, ?, ?)"
	mock.ExpectExec(regexp.QuoteMeta(query)).WithArgs(1, 2, 3, 4).WillReturnResult(sqlmock.NewResult(1, 1))

	err := conn.Exec(context.Background(), query, point{1, 2}, point{3, 4})
	c.Assert(err, quicktest.IsNil)
	c.Assert(mock.ExpectationsWereMet(), quicktest.IsNil)
}

func TestExec_PostgresPlaceholders(t *testing.T) {
	c := quicktest.New(t)
	conn, mock := newMockConnection(c, PostgreSQL)
	RegisterMapper[point](conn, pointMapper{})

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO points (x, y) VALUES ($1, $2)")).
		WithArgs(5, 6).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := conn.Exec(context.Background(), "INSERT INTO points (x, y) VALUES (?, ?)", point{5, 6})
	c.Assert(err, quicktest.IsNil)
	c.Assert(mock.ExpectationsWereMet(), quicktest.IsNil)
}

func TestExec_MissingMapper(t *testing.T) {
	c := quicktest.New(t)
	conn, mock := newMockConnection(c, MySQL)

	err := conn.Exec(context.Background(), "INSERT INTO points (x, y) VALUES (?, ?)", point{1, 2})
	c.Assert(err, quicktest.ErrorMatches, "mapper not found: no mapper registered for db.point")
	c.Assert(errors.Is(err, ErrMapperNotFound), quicktest.IsTrue)
	c.Assert(failure.Is(err, failure.KindMapperNotFound), quicktest.IsTrue)
	// Nothing reached the database
	c.Assert(mock.ExpectationsWereMet(), quicktest.IsNil)
}

func TestExec_NilParameter(t *testing.T) {
	c := quicktest.New(t)
	conn, mock := newMockConnection(c, MySQL)
	RegisterMapper[point](conn, pointMapper{})

	err := conn.Exec(context.Background(), "INSERT INTO points (x, y) VALUES (?, ?)", nil)
	c.Assert(err, quicktest.ErrorMatches, "mapper not found: no mapper registered for nil parameter")
	c.Assert(failure.Is(err, failure.KindMapperNotFound), quicktest.IsTrue)
	c.Assert(mock.ExpectationsWereMet(), quicktest.IsNil)
}

func TestExec_DriverError(t *testing.T) {
	c := quicktest.New(t)
	conn, mock := newMockConnection(c, MySQL)

	mock.ExpectExec("DELETE FROM points").WillReturnError(fmt.Errorf("connection reset"))

	err := conn.Exec(context.Background(), "DELETE FROM points")
	c.Assert(err, quicktest.ErrorMatches, "failed to execute query: DELETE FROM points, error: connection reset")
	c.Assert(failure.Category(err), quicktest.Equals, "StorageError")
	c.Assert(len(failure.Trace(err)) > 0, quicktest.IsTrue)
}

func TestExec_ClosedDatabase(t *testing.T) {
	c := quicktest.New(t)
	conn := &Connection{mappers: newMapperRegistry()}
	err := conn.Exec(context.Background(), "DELETE FROM points")
	c.Assert(err, quicktest.ErrorMatches, "sql: database is closed")
}

func TestQuery_ExtractsRows(t *testing.T) {
	c := quicktest.New(t)
	conn, mock := newMockConnection(c, SQLite)
	RegisterMapper[point](conn, pointMapper{})

	mock.ExpectQuery("SELECT x, y FROM points").
		WillReturnRows(sqlmock.NewRows([]string{"x", "y"}).AddRow(1, 2).AddRow(3, 4))

	points, err := Query[point](context.Background(), conn, "SELECT x, y FROM points")
	c.Assert(err, quicktest.IsNil)
	c.Assert(points, quicktest.DeepEquals, []point{{1, 2}, {3, 4}})
	c.Assert(mock.ExpectationsWereMet(), quicktest.IsNil)
}

func TestQuery_NoRows(t *testing.T) {
	c := quicktest.New(t)
	conn, mock := newMockConnection(c, SQLite)
	RegisterMapper[point](conn, pointMapper{})

	mock.ExpectQuery("SELECT x, y FROM points").WillReturnRows(sqlmock.NewRows([]string{"x", "y"}))

	points, err := Query[point](context.Background(), conn, "SELECT x, y FROM points")
	c.Assert(err, quicktest.IsNil)
	c.Assert(points, quicktest.HasLen, 0)
}

func TestQuery_BindsParams(t *testing.T) {
	c := quicktest.New(t)
	conn, mock := newMockConnection(c, PostgreSQL)
	RegisterMapper[point](conn, pointMapper{})

	mock.ExpectQuery(regexp.QuoteMeta("SELECT x, y FROM points WHERE x = $1 AND y = $2")).
		WithArgs(7, 8).
		WillReturnRows(sqlmock.NewRows([]string{"x", "y"}).AddRow(7, 8))

	points, err := Query[point](context.Background(), conn, "SELECT x, y FROM points WHERE x = ? AND y = ?", point{7, 8})
	c.Assert(err, quicktest.IsNil)
	c.Assert(points, quicktest.DeepEquals, []point{{7, 8}})
}

func TestQuery_MissingResultMapper(t *testing.T) {
	c := quicktest.New(t)
	conn, _ := newMockConnection(c, SQLite)

	_, err := Query[point](context.Background(), conn, "SELECT x, y FROM points")
	c.Assert(errors.Is(err, ErrMapperNotFound), quicktest.IsTrue)
}

func TestQuery_ScanError(t *testing.T) {
	c := quicktest.New(t)
	conn, mock := newMockConnection(c, SQLite)
	RegisterMapper[point](conn, pointMapper{})

	mock.ExpectQuery("SELECT x, y FROM points").
		WillReturnRows(sqlmock.NewRows([]string{"x", "y"}).AddRow("abc", 2))

	_, err := Query[point](context.Background(), conn, "SELECT x, y FROM points")
	c.Assert(err, quicktest.ErrorMatches, "failed to scan row: .*")
	c.Assert(failure.Is(err, failure.KindStorage), quicktest.IsTrue)
}

func TestQuery_RowsErr(t *testing.T) {
	c := quicktest.New(t)
	conn, mock := newMockConnection(c, SQLite)
	RegisterMapper[point](conn, pointMapper{})

	rows := sqlmock.NewRows([]string{"x", "y"}).AddRow(1, 2).AddRow(3, 4)
	rows.RowError(1, errors.New("row error"))
	mock.ExpectQuery("SELECT x, y FROM points").WillReturnRows(rows)

	_, err := Query[point](context.Background(), conn, "SELECT x, y FROM points")
	c.Assert(err, quicktest.ErrorMatches, "error iterating rows: row error")
}

func TestQuery_QueryError(t *testing.T) {
	c := quicktest.New(t)
	conn, mock := newMockConnection(c, SQLite)
	RegisterMapper[point](conn, pointMapper{})

	mock.ExpectQuery("bad query").WillReturnError(errors.New("fail"))
	_, err := Query[point](context.Background(), conn, "bad query")
	c.Assert(err, quicktest.ErrorMatches, "failed to execute query: bad query, error: fail")
}
