// Package fixture generates command scripts, including random users, for
// seeding the pipeline and for load tests.
package fixture

import (
	"fmt"
	"io"
	"strings"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/gyurix/soitrontask/entity"
)

// MaxID is the upper bound of generated user ids
const MaxID = 1_000_000_000

var (
	Robert = entity.User{ID: 1, GUID: "a1", Name: "Robert"}
	Martin = entity.User{ID: 2, GUID: "a2", Name: "Martin"}
)

// AddCommand renders the Add command that creates user
func AddCommand(user entity.User) string {
	return fmt.Sprintf("Add (%d, \"%s\", \"%s\")", user.ID, user.GUID, user.Name)
}

// scriptFor adds two users, prints them, deletes them and prints the empty store
func scriptFor(first, second entity.User) []string {
	return []string{
		AddCommand(first),
		AddCommand(second),
		"PrintAll",
		"DeleteAll",
		"PrintAll",
	}
}

// Script returns the Robert/Martin script repeated n times
func Script(n int) []string {
	lines := make([]string, 0, 5*n)
	for i := 0; i < n; i++ {
		lines = append(lines, scriptFor(Robert, Martin)...)
	}
	return lines
}

// RandomUsers returns n users with distinct random ids
func RandomUsers(faker *gofakeit.Faker, n int) []entity.User {
	seen := make(map[int]bool, n)
	users := make([]entity.User, 0, n)
	for len(users) < n {
		id := faker.IntRange(1, MaxID)
		if seen[id] {
			continue
		}
		seen[id] = true
		users = append(users, entity.User{
			ID:   id,
			GUID: faker.UUID(),
			Name: faker.FirstName(),
		})
	}
	return users
}

// RandomScript is Script with every user replaced by a random one
func RandomScript(faker *gofakeit.Faker, n int) []string {
	users := RandomUsers(faker, 2*n)
	lines := make([]string, 0, 5*n)
	for i := 0; i < n; i++ {
		lines = append(lines, scriptFor(users[2*i], users[2*i+1])...)
	}
	return lines
}

// SeedCommands returns Add commands for n random users
func SeedCommands(faker *gofakeit.Faker, n int) []string {
	lines := make([]string, 0, n)
	for _, user := range RandomUsers(faker, n) {
		lines = append(lines, AddCommand(user))
	}
	return lines
}

// Reader serves lines as newline terminated input
func Reader(lines []string) io.Reader {
	if len(lines) == 0 {
		return strings.NewReader("")
	}
	return strings.NewReader(strings.Join(lines, "\n") + "\n")
}
