// Package store is the single-writer, single-file embedded event store.
// It persists the append-only event log, periodic snapshots, and the few
// pieces of durable domain state (product fees, risk dials) that player
// commands need to read back before they can be translated into events.
package store

import (
	"database/sql"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/govalues/decimal"

	"github.com/fincrime/thedesk/kernel/errors"
	"github.com/fincrime/thedesk/kernel/ids"
	"github.com/fincrime/thedesk/kernel/simevent"
	"github.com/fincrime/thedesk/kernel/store/migrations"
)

// retryConfig controls how Store retries a write that hit SQLITE_BUSY.
// The simulation is single-writer by design (spec Non-goal: no
// multi-writer persistence), so busy errors here mean a checkpoint or an
// external reader, not lock contention between peer writers.
type retryConfig struct {
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

var defaultRetryConfig = retryConfig{
	maxRetries: 3,
	baseDelay:  10 * time.Millisecond,
	maxDelay:   250 * time.Millisecond,
}

func isBusyError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "database is locked") ||
		strings.Contains(s, "SQLITE_BUSY") ||
		strings.Contains(s, "SQLITE_LOCKED")
}

func retryWithBackoff(cfg retryConfig, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt < cfg.maxRetries; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isBusyError(err) {
			return err
		}
		if attempt < cfg.maxRetries-1 {
			delay := cfg.baseDelay * time.Duration(1<<uint(attempt))
			if delay > cfg.maxDelay {
				delay = cfg.maxDelay
			}
			jitter := time.Duration(rand.Int63n(int64(delay/4) + 1))
			time.Sleep(delay/2 + jitter)
		}
	}
	return fmt.Errorf("retry exhausted after %d attempts: %w", cfg.maxRetries, lastErr)
}

// Store is a single open SQLite connection over one on-disk file (or
// ":memory:" for batch-mode runs that never need to persist). It is not
// safe for concurrent writers — the engine's single tick loop is the only
// writer, matching the spec's single-writer model.
type Store struct {
	mu   sync.Mutex
	db   *sql.DB
	path string
}

// Open creates or opens the store file at path (or an in-memory database
// when path is ":memory:"), puts it in WAL mode, and applies every
// pending migration.
func Open(path string) (*Store, error) {
	s := &Store{path: path}
	if err := s.open(); err != nil {
		return nil, err
	}
	if err := s.migrate(); err != nil {
		s.db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) open() error {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000&_foreign_keys=on", s.path)
	if s.path == ":memory:" {
		dsn = "file::memory:?cache=shared&_foreign_keys=on"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return errors.Store(err, "open database")
	}
	// Single writer: one connection avoids SQLITE_BUSY entirely for the
	// common case and keeps the embedded file's lock semantics simple.
	db.SetMaxOpenConns(1)
	s.db = db
	return nil
}

// Reopen closes and reopens the underlying connection against the same
// path, without re-running migrations. Used after an external snapshot
// copy or to recover from a connection-level error.
func (s *Store) Reopen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		s.db.Close()
	}
	return s.open()
}

func (s *Store) migrate() error {
	if _, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at INTEGER NOT NULL
		);
	`); err != nil {
		return errors.Store(err, "initialize schema_migrations")
	}

	applied := map[int]bool{}
	rows, err := s.db.Query(`SELECT version FROM schema_migrations`)
	if err != nil {
		return errors.Store(err, "query applied migrations")
	}
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			rows.Close()
			return errors.Store(err, "scan applied migration")
		}
		applied[v] = true
	}
	rows.Close()

	all := migrations.All()
	sort.Slice(all, func(i, j int) bool { return all[i].Version < all[j].Version })

	for _, m := range all {
		if applied[m.Version] {
			continue
		}
		tx, err := s.db.Begin()
		if err != nil {
			return errors.Store(err, "begin migration transaction")
		}
		if err := m.Up(tx); err != nil {
			tx.Rollback()
			return errors.Store(err, "apply migration %d (%s)", m.Version, m.Name)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, ?)`,
			m.Version, m.Name, time.Now().UTC().Unix()); err != nil {
			tx.Rollback()
			return errors.Store(err, "record applied migration")
		}
		if err := tx.Commit(); err != nil {
			return errors.Store(err, "commit migration")
		}
	}
	return nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// InsertRun records a new run's identity and master seed. Must be called
// before any event is appended for that run.
func (s *Store) InsertRun(runID ids.RunId, seed uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return retryWithBackoff(defaultRetryConfig, func() error {
		_, err := s.db.Exec(`INSERT INTO runs (run_id, seed, created_at) VALUES (?, ?, ?)`,
			string(runID), int64(seed), time.Now().UTC().Unix())
		if err != nil {
			return errors.Store(err, "insert run")
		}
		return nil
	})
}

// AppendEvents persists a batch of events for one tick in one
// transaction, preserving their append order via a per-tick sequence
// number that continues after any batch already appended for the same
// tick. The batch is atomic: either all of it lands or none of it does.
// The engine appends one batch per subsystem, so a tick it aborts keeps
// the batches appended before the failure. subsystem
// names the originating subsystem ("engine" for engine-owned events like
// TickStarted/TickCompleted/drained commands) and is stored verbatim
// alongside each event.
func (s *Store) AppendEvents(runID ids.RunId, t uint64, subsystem string, events []simevent.SimEvent) error {
	if len(events) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return retryWithBackoff(defaultRetryConfig, func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return errors.Store(err, "begin append transaction")
		}
		createdAt := time.Now().UTC().Unix()
		var nextSeq int
		if err := tx.QueryRow(
			`SELECT COALESCE(MAX(seq) + 1, 0) FROM event_log WHERE run_id = ? AND tick = ?`,
			string(runID), t,
		).Scan(&nextSeq); err != nil {
			tx.Rollback()
			return errors.Store(err, "read next event sequence")
		}
		for i, e := range events {
			raw, err := simevent.Serialize(e)
			if err != nil {
				tx.Rollback()
				return errors.Serialization(err, "serialize event for append")
			}
			if _, err := tx.Exec(
				`INSERT INTO event_log (run_id, tick, seq, type, data, subsystem, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
				string(runID), t, nextSeq+i, e.Tag, string(raw), subsystem, createdAt,
			); err != nil {
				tx.Rollback()
				return errors.Store(err, "insert event")
			}
		}
		if err := tx.Commit(); err != nil {
			return errors.Store(err, "commit append transaction")
		}
		return nil
	})
}

// EventsForTick returns the events recorded for a single tick, in append
// order.
func (s *Store) EventsForTick(runID ids.RunId, t uint64) ([]simevent.SimEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.db.Query(
		`SELECT data FROM event_log WHERE run_id = ? AND tick = ? ORDER BY seq ASC`,
		string(runID), t,
	)
	if err != nil {
		return nil, errors.Store(err, "query events for tick")
	}
	defer rows.Close()

	var out []simevent.SimEvent
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, errors.Store(err, "scan event row")
		}
		e, err := simevent.Deserialize([]byte(raw))
		if err != nil {
			return nil, errors.Serialization(err, "deserialize stored event")
		}
		out = append(out, e)
	}
	return out, nil
}

// SaveSnapshot persists an opaque, already-serialized snapshot blob for a
// tick. The store does not interpret snapshot contents; kernel/engine
// owns their shape.
func (s *Store) SaveSnapshot(runID ids.RunId, t uint64, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return retryWithBackoff(defaultRetryConfig, func() error {
		_, err := s.db.Exec(
			`INSERT OR REPLACE INTO snapshots (run_id, tick, data, created_at) VALUES (?, ?, ?, ?)`,
			string(runID), t, string(data), time.Now().UTC().Unix(),
		)
		if err != nil {
			return errors.Store(err, "save snapshot")
		}
		return nil
	})
}

// LoadSnapshot returns the most recent snapshot at or before tick t, and
// the tick it was taken at. ok is false if no snapshot exists yet.
func (s *Store) LoadSnapshot(runID ids.RunId, t uint64) (data []byte, atTick uint64, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row := s.db.QueryRow(
		`SELECT tick, data FROM snapshots WHERE run_id = ? AND tick <= ? ORDER BY tick DESC LIMIT 1`,
		string(runID), t,
	)
	var raw string
	if scanErr := row.Scan(&atTick, &raw); scanErr != nil {
		if scanErr == sql.ErrNoRows {
			return nil, 0, false, nil
		}
		return nil, 0, false, errors.Store(scanErr, "load snapshot")
	}
	return []byte(raw), atTick, true, nil
}

// CountEventType returns how many events of the given type tag have ever
// been appended for a run. Used to derive simple cumulative KPIs (e.g.
// churned customer count) directly from the event log.
func (s *Store) CountEventType(runID ids.RunId, eventType string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int
	row := s.db.QueryRow(`SELECT COUNT(*) FROM event_log WHERE run_id = ? AND type = ?`, string(runID), eventType)
	if err := row.Scan(&n); err != nil {
		return 0, errors.Store(err, "count events of type %s", eventType)
	}
	return n, nil
}

// NetCountEventTypes returns the count of openType events minus the count
// of closeType events for a run — e.g. complaints filed minus complaints
// resolved, to approximate an open backlog from the log alone.
func (s *Store) NetCountEventTypes(runID ids.RunId, openType, closeType string) (int, error) {
	opened, err := s.CountEventType(runID, openType)
	if err != nil {
		return 0, err
	}
	closed, err := s.CountEventType(runID, closeType)
	if err != nil {
		return 0, err
	}
	return opened - closed, nil
}

// LatestPayload returns the payload of the most recently appended event
// of the given type, or ok=false if none has ever been appended.
func (s *Store) LatestPayload(runID ids.RunId, eventType string) (payload []byte, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row := s.db.QueryRow(
		`SELECT data FROM event_log WHERE run_id = ? AND type = ? ORDER BY id DESC LIMIT 1`,
		string(runID), eventType,
	)
	var raw string
	if scanErr := row.Scan(&raw); scanErr != nil {
		if scanErr == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, errors.Store(scanErr, "load latest payload for %s", eventType)
	}
	return []byte(raw), true, nil
}

// RecentPayloads returns up to limit payloads of the given type, oldest
// first, most recent limit entries only.
func (s *Store) RecentPayloads(runID ids.RunId, eventType string, limit int) ([][]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.db.Query(
		`SELECT data FROM event_log WHERE run_id = ? AND type = ? ORDER BY id DESC LIMIT ?`,
		string(runID), eventType, limit,
	)
	if err != nil {
		return nil, errors.Store(err, "query recent payloads for %s", eventType)
	}
	defer rows.Close()

	var reversed [][]byte
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, errors.Store(err, "scan recent payload row")
		}
		reversed = append(reversed, []byte(raw))
	}
	out := make([][]byte, len(reversed))
	for i, v := range reversed {
		out[len(reversed)-1-i] = v
	}
	return out, nil
}

// OpenEventsByKey replays openType/closeTypes events for a run and
// returns the payloads of every openType event whose key (extracted by
// keyOf) has not since appeared in any closeType event. Used to derive
// the IPC loop's "currently open complaints" list from the log alone,
// without a dedicated mutable complaints table.
func (s *Store) OpenEventsByKey(runID ids.RunId, openType string, closeTypes []string, keyOf func(payload []byte) (string, bool)) ([][]byte, error) {
	placeholders := make([]string, 0, len(closeTypes)+1)
	args := make([]any, 0, len(closeTypes)+2)
	args = append(args, string(runID))
	placeholders = append(placeholders, "?")
	args = append(args, openType)
	for _, ct := range closeTypes {
		placeholders = append(placeholders, "?")
		args = append(args, ct)
	}
	query := fmt.Sprintf(
		`SELECT type, data FROM event_log WHERE run_id = ? AND type IN (%s) ORDER BY id ASC`,
		strings.Join(placeholders, ", "),
	)

	s.mu.Lock()
	rows, err := s.db.Query(query, args...)
	s.mu.Unlock()
	if err != nil {
		return nil, errors.Store(err, "query open events by key")
	}
	defer rows.Close()

	closeSet := map[string]bool{}
	for _, ct := range closeTypes {
		closeSet[ct] = true
	}

	open := map[string][]byte{}
	order := []string{}
	for rows.Next() {
		var typ, raw string
		if err := rows.Scan(&typ, &raw); err != nil {
			return nil, errors.Store(err, "scan open-event row")
		}
		key, ok := keyOf([]byte(raw))
		if !ok {
			continue
		}
		if typ == openType {
			if _, exists := open[key]; !exists {
				order = append(order, key)
			}
			open[key] = []byte(raw)
		} else if closeSet[typ] {
			delete(open, key)
		}
	}

	out := make([][]byte, 0, len(open))
	for _, k := range order {
		if v, ok := open[k]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

// SetProductFee durably records a product fee so a later SetProductFee
// command can report an accurate old_value.
func (s *Store) SetProductFee(runID ids.RunId, productID, feeType string, value decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return retryWithBackoff(defaultRetryConfig, func() error {
		_, err := s.db.Exec(
			`INSERT OR REPLACE INTO product_fees (run_id, product_id, fee_type, value) VALUES (?, ?, ?, ?)`,
			string(runID), productID, feeType, value.String(),
		)
		if err != nil {
			return errors.Store(err, "set product fee")
		}
		return nil
	})
}

// ProductFee reads back the current value of a product fee, defaulting
// to zero when one has never been set.
func (s *Store) ProductFee(runID ids.RunId, productID, feeType string) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row := s.db.QueryRow(
		`SELECT value FROM product_fees WHERE run_id = ? AND product_id = ? AND fee_type = ?`,
		string(runID), productID, feeType,
	)
	var raw string
	if err := row.Scan(&raw); err != nil {
		if err == sql.ErrNoRows {
			return decimal.Decimal{}, nil
		}
		return decimal.Decimal{}, errors.Store(err, "read product fee")
	}
	v, err := decimal.Parse(raw)
	if err != nil {
		return decimal.Decimal{}, errors.Serialization(err, "parse stored product fee")
	}
	return v, nil
}

// SetRiskDial durably records a risk dial's value.
func (s *Store) SetRiskDial(runID ids.RunId, dialID string, value decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return retryWithBackoff(defaultRetryConfig, func() error {
		_, err := s.db.Exec(
			`INSERT OR REPLACE INTO risk_dials (run_id, dial_id, value) VALUES (?, ?, ?)`,
			string(runID), dialID, value.String(),
		)
		if err != nil {
			return errors.Store(err, "set risk dial")
		}
		return nil
	})
}

// RiskDial reads back a risk dial's current value, defaulting to zero.
func (s *Store) RiskDial(runID ids.RunId, dialID string) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row := s.db.QueryRow(
		`SELECT value FROM risk_dials WHERE run_id = ? AND dial_id = ?`,
		string(runID), dialID,
	)
	var raw string
	if err := row.Scan(&raw); err != nil {
		if err == sql.ErrNoRows {
			return decimal.Decimal{}, nil
		}
		return decimal.Decimal{}, errors.Store(err, "read risk dial")
	}
	v, err := decimal.Parse(raw)
	if err != nil {
		return decimal.Decimal{}, errors.Serialization(err, "parse stored risk dial")
	}
	return v, nil
}
