// Package store provides SQLite-backed persistence for the sync journal.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fentz26/taskwtools/internal/models"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store provides access to the journal database.
type Store struct {
	db *sql.DB
}

// New opens the journal at dbPath, creating it if needed, and runs
// migrations.
func New(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	// Hook invocations from concurrent task processes may overlap.
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate runs idempotent schema migrations.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sync_events (
		id TEXT PRIMARY KEY,
		action TEXT NOT NULL,
		inputs_hash TEXT NOT NULL,
		outcome TEXT NOT NULL,
		task_uuid TEXT,
		fql TEXT,
		details TEXT,
		timestamp DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sync_events_task_uuid ON sync_events(task_uuid);
	`

	_, err := s.db.Exec(schema)
	return err
}

// --- Journal Operations ---

// WriteEvent appends a journal row.
func (s *Store) WriteEvent(action, inputsHash, outcome, taskUUID, fql, details string) (*models.SyncEvent, error) {
	ev := &models.SyncEvent{
		ID:         uuid.New().String(),
		Action:     action,
		InputsHash: inputsHash,
		Outcome:    outcome,
		TaskUUID:   taskUUID,
		FQL:        fql,
		Details:    details,
		Timestamp:  time.Now().UTC(),
	}

	_, err := s.db.Exec(
		`INSERT INTO sync_events (id, action, inputs_hash, outcome, task_uuid, fql, details, timestamp) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.Action, ev.InputsHash, ev.Outcome, ev.TaskUUID, ev.FQL, ev.Details, ev.Timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert sync event: %w", err)
	}
	return ev, nil
}

// ListEvents returns the most recent events, newest first. A limit of zero
// or less returns every event.
func (s *Store) ListEvents(limit int) ([]models.SyncEvent, error) {
	query := `SELECT id, action, inputs_hash, outcome, task_uuid, fql, details, timestamp FROM sync_events ORDER BY rowid DESC`
	var args []interface{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sync events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

// EventsForTask returns every event recorded for a task, newest first.
func (s *Store) EventsForTask(taskUUID string) ([]models.SyncEvent, error) {
	rows, err := s.db.Query(
		`SELECT id, action, inputs_hash, outcome, task_uuid, fql, details, timestamp FROM sync_events WHERE task_uuid = ? ORDER BY rowid DESC`,
		taskUUID,
	)
	if err != nil {
		return nil, fmt.Errorf("query sync events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]models.SyncEvent, error) {
	var events []models.SyncEvent
	for rows.Next() {
		var ev models.SyncEvent
		var taskUUID, fql, details sql.NullString
		if err := rows.Scan(&ev.ID, &ev.Action, &ev.InputsHash, &ev.Outcome, &taskUUID, &fql, &details, &ev.Timestamp); err != nil {
			return nil, fmt.Errorf("scan sync event: %w", err)
		}
		ev.TaskUUID = taskUUID.String
		ev.FQL = fql.String
		ev.Details = details.String
		events = append(events, ev)
	}
	return events, rows.Err()
}
