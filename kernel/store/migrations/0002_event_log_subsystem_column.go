package migrations

import "database/sql"

func init() {
	Register(&Migration{
		Version: 2,
		Name:    "event_log_subsystem_column",
		Up:      eventLogSubsystemColumnUp,
		Down:    eventLogSubsystemColumnDown,
	})
}

// eventLogSubsystemColumnUp adds the subsystem attribution and wall-clock
// timestamp columns that AppendEvents now populates on every insert.
// Existing rows predate subsystem tagging, so they backfill to "unknown"
// rather than an empty string that could be mistaken for a real tag.
func eventLogSubsystemColumnUp(tx *sql.Tx) error {
	schema := `
	ALTER TABLE event_log ADD COLUMN subsystem TEXT NOT NULL DEFAULT 'unknown';
	ALTER TABLE event_log ADD COLUMN created_at INTEGER NOT NULL DEFAULT 0;
	`
	_, err := tx.Exec(schema)
	return err
}

func eventLogSubsystemColumnDown(tx *sql.Tx) error {
	schema := `
	ALTER TABLE event_log DROP COLUMN created_at;
	ALTER TABLE event_log DROP COLUMN subsystem;
	`
	_, err := tx.Exec(schema)
	return err
}
