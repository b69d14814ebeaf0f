package entity

import (
	"github.com/gyurix/soitrontask/db"
)

// UsersTable is the schema UserMapper binds and extracts against
var UsersTable = db.TableSchema{
	Name: "SUSERS",
	Columns: []db.ColumnSchema{
		{Name: "ID", Type: "INT", IsID: true},
		{Name: "GUID", Type: "VARCHAR", MaxLength: 50},
		{Name: "NAME", Type: "VARCHAR", MaxLength: 50},
	},
}

// UserMapper maps a User to the ID, GUID, NAME columns in that order
type UserMapper struct{}

// Bind writes the user's ID, GUID and NAME starting at index
func (UserMapper) Bind(stmt *db.Statement, index int, user User) int {
	stmt.Set(index, user.ID)
	stmt.Set(index+1, user.GUID)
	stmt.Set(index+2, user.Name)
	return 3
}

// Extract reads a user from the ID, GUID, NAME columns of row
func (UserMapper) Extract(row db.RowScanner) (User, error) {
	var user User
	if err := row.Scan(&user.ID, &user.GUID, &user.Name); err != nil {
		return User{}, err
	}
	return user, nil
}

var _ db.Mapper[User] = UserMapper{}
