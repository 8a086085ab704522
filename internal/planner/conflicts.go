// Package planner computes time-overlap relationships between events.
package planner

import "agenda/internal/models"

// Conflicts computes, for each event, the other events whose time
// ranges overlap it. Keys are event ID strings; events with no
// conflicts are omitted. Each conflict list is ordered by the
// conflicting event's start time, ties broken by ID.
//
// The scan is a plain O(n²) pairwise comparison, which is fine at the
// tens-to-hundreds of events a personal planner holds.
func Conflicts(events []models.Event) map[string][]models.Event {
	conflicts := make(map[string][]models.Event)
	for i, a := range events {
		for _, b := range events[i+1:] {
			if !a.Overlaps(b) {
				continue
			}
			conflicts[a.ID.String()] = append(conflicts[a.ID.String()], b)
			conflicts[b.ID.String()] = append(conflicts[b.ID.String()], a)
		}
	}
	for _, list := range conflicts {
		models.SortByStart(list)
	}
	return conflicts
}

// HasConflict reports whether the candidate overlaps any of the given
// events. Used to warn at add time.
func HasConflict(candidate models.Event, events []models.Event) bool {
	for _, e := range events {
		if candidate.Overlaps(e) {
			return true
		}
	}
	return false
}
