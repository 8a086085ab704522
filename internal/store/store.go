// Package store owns the event collection and its persistence.
package store

import (
	"fmt"

	"github.com/google/uuid"

	"agenda/internal/models"
)

// Snapshot loads and saves the full event set as one unit. Load must
// return an empty set, not an error, when the backing resource does
// not exist yet; Save must replace the whole resource atomically.
type Snapshot interface {
	Load() ([]models.Event, error)
	Save(events []models.Event) error
	Clear() error
}

// Store is the in-memory event collection, keyed by ID. It is the
// single source of truth during an invocation; mutations are written
// back through the snapshot when Save is called.
type Store struct {
	snapshot Snapshot
	events   map[uuid.UUID]models.Event
}

// Open loads the persisted events through the given snapshot adapter.
func Open(snapshot Snapshot) (*Store, error) {
	loaded, err := snapshot.Load()
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	events := make(map[uuid.UUID]models.Event, len(loaded))
	for _, e := range loaded {
		if _, exists := events[e.ID]; exists {
			return nil, fmt.Errorf("load events: %w: %s", ErrDuplicateID, e.ID)
		}
		events[e.ID] = e
	}
	return &Store{snapshot: snapshot, events: events}, nil
}

// Add inserts a new event.
func (s *Store) Add(e models.Event) error {
	if _, exists := s.events[e.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateID, e.ID)
	}
	s.events[e.ID] = e
	return nil
}

// Remove deletes the event with the given ID. The store is left
// untouched when the ID is unknown.
func (s *Store) Remove(id uuid.UUID) error {
	if _, exists := s.events[id]; !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(s.events, id)
	return nil
}

// Get returns the event with the given ID.
func (s *Store) Get(id uuid.UUID) (models.Event, error) {
	e, exists := s.events[id]
	if !exists {
		return models.Event{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return e, nil
}

// List returns the events intersecting the window (all events for the
// zero window), ordered by start time ascending, ties broken by ID.
func (s *Store) List(window models.Window) []models.Event {
	events := make([]models.Event, 0, len(s.events))
	for _, e := range s.events {
		if window.Matches(e) {
			events = append(events, e)
		}
	}
	models.SortByStart(events)
	return events
}

// Len returns the number of stored events.
func (s *Store) Len() int {
	return len(s.events)
}

// Save writes the full current set back through the snapshot adapter.
func (s *Store) Save() error {
	return s.snapshot.Save(s.List(models.Window{}))
}

// Clear removes every event and deletes the backing resource.
func (s *Store) Clear() error {
	if err := s.snapshot.Clear(); err != nil {
		return err
	}
	s.events = make(map[uuid.UUID]models.Event)
	return nil
}
