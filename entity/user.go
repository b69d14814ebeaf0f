// Package entity holds the records persisted by the stores.
package entity

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/gyurix/soitrontask/failure"
)

var fieldSeparator = regexp.MustCompile(`, *`)

// User is a row of the users table
type User struct {
	ID   int
	GUID string
	Name string
}

// ParseUser parses a literal list of the form `1, "a1", "Robert"`.
// Quotes are removed from the string fields.
func ParseUser(params string) (User, error) {
	fields := fieldSeparator.Split(strings.TrimSpace(params), -1)
	if len(fields) != 3 {
		return User{}, failure.Errorf(failure.KindParse, "expected 3 user fields (id, guid, name), got %d in %q", len(fields), params)
	}

	id, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return User{}, failure.New(failure.KindParse, fmt.Errorf("invalid user id %q: %w", fields[0], err))
	}

	return User{
		ID:   id,
		GUID: strings.TrimSpace(strings.ReplaceAll(fields[1], `"`, "")),
		Name: strings.TrimSpace(strings.ReplaceAll(fields[2], `"`, "")),
	}, nil
}

func (u User) String() string {
	return fmt.Sprintf("User(id=%d, guid=%s, name=%s)", u.ID, u.GUID, u.Name)
}
