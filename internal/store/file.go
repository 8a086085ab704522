package store

import (
	"encoding/json"
	"os"
	"path/filepath"

	"agenda/internal/models"
)

// FileSnapshot persists the event set as a single JSON array at a
// fixed per-user path.
type FileSnapshot struct {
	path string
}

func NewFileSnapshot(path string) *FileSnapshot {
	return &FileSnapshot{path: path}
}

// Load reads the snapshot file. A missing file is the normal first-run
// case and yields an empty set; anything else that goes wrong,
// including corrupt content, is a PersistError.
func (f *FileSnapshot) Load() ([]models.Event, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &PersistError{Backend: "json", Path: f.path, Err: err}
	}
	var events []models.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, &PersistError{Backend: "json", Path: f.path, Err: err}
	}
	return events, nil
}

// Save overwrites the snapshot with the given events. The content is
// written to a temporary file in the same directory and renamed into
// place, so a failed save never leaves a partial file behind.
func (f *FileSnapshot) Save(events []models.Event) error {
	if events == nil {
		events = []models.Event{}
	}
	data, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return &PersistError{Backend: "json", Path: f.path, Err: err}
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &PersistError{Backend: "json", Path: f.path, Err: err}
	}
	tmp, err := os.CreateTemp(dir, ".events-*.json")
	if err != nil {
		return &PersistError{Backend: "json", Path: f.path, Err: err}
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &PersistError{Backend: "json", Path: f.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &PersistError{Backend: "json", Path: f.path, Err: err}
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return &PersistError{Backend: "json", Path: f.path, Err: err}
	}
	return nil
}

// Clear deletes the snapshot file. A missing file is fine.
func (f *FileSnapshot) Clear() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return &PersistError{Backend: "json", Path: f.path, Err: err}
	}
	return nil
}
