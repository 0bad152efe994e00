package migrations

import "database/sql"

func init() {
	Register(&Migration{
		Version: 1,
		Name:    "initial_schema",
		Up:      initialSchemaUp,
		Down:    initialSchemaDown,
	})
}

func initialSchemaUp(tx *sql.Tx) error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id     TEXT PRIMARY KEY,
		seed       INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS event_log (
		id       INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id   TEXT NOT NULL REFERENCES runs(run_id),
		tick     INTEGER NOT NULL,
		seq      INTEGER NOT NULL,
		type     TEXT NOT NULL,
		data     TEXT NOT NULL,
		UNIQUE(run_id, tick, seq)
	);

	CREATE INDEX IF NOT EXISTS idx_event_log_run_tick ON event_log(run_id, tick);

	CREATE TABLE IF NOT EXISTS snapshots (
		run_id     TEXT NOT NULL REFERENCES runs(run_id),
		tick       INTEGER NOT NULL,
		data       TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		PRIMARY KEY (run_id, tick)
	);

	CREATE TABLE IF NOT EXISTS product_fees (
		run_id     TEXT NOT NULL REFERENCES runs(run_id),
		product_id TEXT NOT NULL,
		fee_type   TEXT NOT NULL,
		value      TEXT NOT NULL,
		PRIMARY KEY (run_id, product_id, fee_type)
	);

	CREATE TABLE IF NOT EXISTS risk_dials (
		run_id  TEXT NOT NULL REFERENCES runs(run_id),
		dial_id TEXT NOT NULL,
		value   TEXT NOT NULL,
		PRIMARY KEY (run_id, dial_id)
	);
	`
	_, err := tx.Exec(schema)
	return err
}

func initialSchemaDown(tx *sql.Tx) error {
	schema := `
	DROP TABLE IF EXISTS risk_dials;
	DROP TABLE IF EXISTS product_fees;
	DROP TABLE IF EXISTS snapshots;
	DROP TABLE IF EXISTS event_log;
	DROP TABLE IF EXISTS runs;
	`
	_, err := tx.Exec(schema)
	return err
}
