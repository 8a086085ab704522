package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// DateTimeLayout is the format used for event timestamps everywhere
// outside the process: CLI flags, the JSON snapshot and the SQLite
// backend. Minute precision.
const DateTimeLayout = "2006-01-02 15:04"

// ErrInvalidEvent is wrapped by every validation failure during event
// creation: empty name, unparsable timestamp, non-positive duration.
var ErrInvalidEvent = errors.New("invalid event")

// Event represents a single scheduled item.
// Values are immutable once constructed; editing is modeled as
// remove-then-add by the caller.
type Event struct {
	ID          uuid.UUID // Unique identifier, assigned at creation
	Name        string    // Non-empty label
	Start       time.Time // Start time, minute precision
	End         time.Time // End time, always after Start
	Description string    // Optional free text
}

// New validates the given fields and returns a fresh Event with a
// newly generated ID.
func New(name string, start, end time.Time, description string) (Event, error) {
	return NewWithID(uuid.New(), name, start, end, description)
}

// NewWithID is New with a caller-provided ID. Used when rehydrating
// events from a snapshot or an imported calendar, where identity must
// survive the round trip.
func NewWithID(id uuid.UUID, name string, start, end time.Time, description string) (Event, error) {
	if name == "" {
		return Event{}, fmt.Errorf("%w: name must not be empty", ErrInvalidEvent)
	}
	start = start.Truncate(time.Minute)
	end = end.Truncate(time.Minute)
	if !start.Before(end) {
		return Event{}, fmt.Errorf("%w: start %q must be before end %q",
			ErrInvalidEvent, start.Format(DateTimeLayout), end.Format(DateTimeLayout))
	}
	return Event{
		ID:          id,
		Name:        name,
		Start:       start,
		End:         end,
		Description: description,
	}, nil
}

// ParseDateTime parses a timestamp in DateTimeLayout, in local time.
func ParseDateTime(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateTimeLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: cannot parse %q as %q", ErrInvalidEvent, s, DateTimeLayout)
	}
	return t, nil
}

// Duration returns how long the event lasts. Always positive.
func (e Event) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// Overlaps reports whether the two events' half-open [Start, End)
// intervals intersect. Touching endpoints do not count: an event
// ending at 13:00 does not overlap one starting at 13:00. An event
// never overlaps itself.
func (e Event) Overlaps(other Event) bool {
	if e.ID == other.ID {
		return false
	}
	return e.Start.Before(other.End) && other.Start.Before(e.End)
}

func (e Event) String() string {
	return fmt.Sprintf("%s (%s - %s)", e.Name,
		e.Start.Format(DateTimeLayout), e.End.Format(DateTimeLayout))
}

// SortByStart orders events by start time ascending, ties broken by ID
// so that every listing is deterministic.
func SortByStart(events []Event) {
	sort.Slice(events, func(i, j int) bool {
		if !events[i].Start.Equal(events[j].Start) {
			return events[i].Start.Before(events[j].Start)
		}
		return events[i].ID.String() < events[j].ID.String()
	})
}

// eventWire is the persisted JSON shape of an Event.
type eventWire struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Description string `json:"description"`
}

func (e Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(eventWire{
		ID:          e.ID.String(),
		Name:        e.Name,
		Start:       e.Start.Format(DateTimeLayout),
		End:         e.End.Format(DateTimeLayout),
		Description: e.Description,
	})
}

func (e *Event) UnmarshalJSON(data []byte) error {
	var w eventWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	id, err := uuid.Parse(w.ID)
	if err != nil {
		return fmt.Errorf("%w: bad event id %q", ErrInvalidEvent, w.ID)
	}
	start, err := ParseDateTime(w.Start)
	if err != nil {
		return err
	}
	end, err := ParseDateTime(w.End)
	if err != nil {
		return err
	}
	ev, err := NewWithID(id, w.Name, start, end, w.Description)
	if err != nil {
		return err
	}
	*e = ev
	return nil
}
