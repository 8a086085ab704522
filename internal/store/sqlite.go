package store

import (
	"database/sql"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"agenda/internal/models"
)

// SQLiteSnapshot persists the event set in a single-table SQLite
// database. It keeps the same full-snapshot contract as FileSnapshot:
// Save replaces the whole table in one transaction.
type SQLiteSnapshot struct {
	path string
}

func NewSQLiteSnapshot(path string) *SQLiteSnapshot {
	return &SQLiteSnapshot{path: path}
}

const eventsSchema = `CREATE TABLE IF NOT EXISTS events (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	start_time TEXT NOT NULL,
	end_time TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT ''
)`

func (s *SQLiteSnapshot) open() (*sql.DB, error) {
	db, err := sql.Open("sqlite3", s.path)
	if err != nil {
		return nil, &PersistError{Backend: "sqlite", Path: s.path, Err: err}
	}
	if _, err := db.Exec(eventsSchema); err != nil {
		db.Close()
		return nil, &PersistError{Backend: "sqlite", Path: s.path, Err: err}
	}
	return db, nil
}

// Load reads all events from the database. A missing database file is
// the first-run case and yields an empty set without creating the file.
func (s *SQLiteSnapshot) Load() ([]models.Event, error) {
	if _, err := os.Stat(s.path); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &PersistError{Backend: "sqlite", Path: s.path, Err: err}
	}

	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(`SELECT id, name, start_time, end_time, description FROM events`)
	if err != nil {
		return nil, &PersistError{Backend: "sqlite", Path: s.path, Err: err}
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var idStr, name, startStr, endStr, description string
		if err := rows.Scan(&idStr, &name, &startStr, &endStr, &description); err != nil {
			return nil, &PersistError{Backend: "sqlite", Path: s.path, Err: err}
		}
		e, err := rowToEvent(idStr, name, startStr, endStr, description)
		if err != nil {
			return nil, &PersistError{Backend: "sqlite", Path: s.path, Err: err}
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, &PersistError{Backend: "sqlite", Path: s.path, Err: err}
	}
	return events, nil
}

func rowToEvent(idStr, name, startStr, endStr, description string) (models.Event, error) {
	id, err := uuid.Parse(idStr)
	if err != nil {
		return models.Event{}, err
	}
	start, err := models.ParseDateTime(startStr)
	if err != nil {
		return models.Event{}, err
	}
	end, err := models.ParseDateTime(endStr)
	if err != nil {
		return models.Event{}, err
	}
	return models.NewWithID(id, name, start, end, description)
}

// Save replaces the table contents with the given events in a single
// transaction, so a failed save leaves the previous set intact.
func (s *SQLiteSnapshot) Save(events []models.Event) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return &PersistError{Backend: "sqlite", Path: s.path, Err: err}
	}

	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return &PersistError{Backend: "sqlite", Path: s.path, Err: err}
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM events`); err != nil {
		return &PersistError{Backend: "sqlite", Path: s.path, Err: err}
	}
	for _, e := range events {
		_, err := tx.Exec(
			`INSERT INTO events (id, name, start_time, end_time, description) VALUES (?, ?, ?, ?, ?)`,
			e.ID.String(), e.Name,
			e.Start.Format(models.DateTimeLayout), e.End.Format(models.DateTimeLayout),
			e.Description,
		)
		if err != nil {
			return &PersistError{Backend: "sqlite", Path: s.path, Err: err}
		}
	}
	if err := tx.Commit(); err != nil {
		return &PersistError{Backend: "sqlite", Path: s.path, Err: err}
	}
	return nil
}

// Clear deletes the database file. A missing file is fine.
func (s *SQLiteSnapshot) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return &PersistError{Backend: "sqlite", Path: s.path, Err: err}
	}
	return nil
}
