package models

import "time"

// Window is an optional half-open [From, To) time range used to filter
// events for listing and conflict reporting. A nil bound means
// unbounded on that side; the zero Window matches everything.
type Window struct {
	From *time.Time
	To   *time.Time
}

// Matches reports whether the event's [Start, End) interval intersects
// the window, using the same half-open predicate as Event.Overlaps. An
// event ending exactly at From, or starting exactly at To, is outside.
func (w Window) Matches(e Event) bool {
	if w.To != nil && !e.Start.Before(*w.To) {
		return false
	}
	if w.From != nil && !e.End.After(*w.From) {
		return false
	}
	return true
}

// Filter returns the events matching the window, preserving order.
func (w Window) Filter(events []Event) []Event {
	if w.From == nil && w.To == nil {
		return events
	}
	filtered := make([]Event, 0, len(events))
	for _, e := range events {
		if w.Matches(e) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}
