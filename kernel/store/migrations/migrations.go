// Package migrations holds the store's numbered schema migrations,
// registered by init() in version order the same way the teacher's
// db/migrations package does it.
package migrations

import "database/sql"

// Migration is one forward/backward schema step, tracked by version in
// the schema_migrations table.
type Migration struct {
	Version int
	Name    string
	Up      func(tx *sql.Tx) error
	Down    func(tx *sql.Tx) error
}

var registered []*Migration

// Register adds a migration to the registry. Called from each
// migration file's init().
func Register(m *Migration) {
	registered = append(registered, m)
}

// All returns every registered migration, in registration order. The
// store sorts by Version before applying, so registration order does
// not need to match version order.
func All() []*Migration {
	out := make([]*Migration, len(registered))
	copy(out, registered)
	return out
}
