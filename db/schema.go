package db

import (
	"fmt"
	"strings"
)

// TableSchema represents the structure of an entity's table.
// Column order is the order mappers bind and extract fields in.
type TableSchema struct {
	Name    string
	Columns []ColumnSchema
}

// ColumnSchema represents the structure of a table column
type ColumnSchema struct {
	Name      string
	Type      string
	IsID      bool // True if this is the primary key column
	MaxLength int  // Maximum length for varchar fields
}

func (s TableSchema) columnNames() []string {
	names := make([]string, len(s.Columns))
	for i, col := range s.Columns {
		names[i] = col.Name
	}
	return names
}

func escapeIdentifier(identifier string, dbType DBType) string {
	switch dbType {
	case MySQL:
		return fmt.Sprintf("`%s`", identifier)
	case PostgreSQL, SQLite:
		return fmt.Sprintf(`"%s"`, identifier)
	default:
		return identifier
	}
}

func escapeIdentifiers(identifiers []string, dbType DBType) []string {
	escaped := make([]string, len(identifiers))
	for i, id := range identifiers {
		escaped[i] = escapeIdentifier(id, dbType)
	}
	return escaped
}

// CreateTableQuery builds an idempotent CREATE TABLE statement for schema
func (c *Connection) CreateTableQuery(schema TableSchema) string {
	columns := make([]string, 0, len(schema.Columns))
	for _, col := range schema.Columns {
		def := escapeIdentifier(col.Name, c.Type) + " " + col.Type
		if col.MaxLength > 0 {
			def += fmt.Sprintf("(%d)", col.MaxLength)
		}
		if col.IsID {
			def += " PRIMARY KEY"
		}
		columns = append(columns, def)
	}

	return fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (%s)",
		escapeIdentifier(schema.Name, c.Type),
		strings.Join(columns, ", "),
	)
}

// InsertQuery builds an INSERT with one placeholder per column
func (c *Connection) InsertQuery(schema TableSchema) string {
	placeholders := make([]string, len(schema.Columns))
	for i := range placeholders {
		placeholders[i] = "?"
	}

	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		escapeIdentifier(schema.Name, c.Type),
		strings.Join(escapeIdentifiers(schema.columnNames(), c.Type), ", "),
		strings.Join(placeholders, ", "),
	)
}

// SelectAllQuery builds a SELECT of every column in declaration order
func (c *Connection) SelectAllQuery(schema TableSchema) string {
	return fmt.Sprintf(
		"SELECT %s FROM %s",
		strings.Join(escapeIdentifiers(schema.columnNames(), c.Type), ", "),
		escapeIdentifier(schema.Name, c.Type),
	)
}

// DeleteAllQuery builds a DELETE without a condition
func (c *Connection) DeleteAllQuery(schema TableSchema) string {
	return fmt.Sprintf("DELETE FROM %s", escapeIdentifier(schema.Name, c.Type))
}
