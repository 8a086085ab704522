// Package ics converts between agenda events and iCalendar documents.
package ics

import (
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"

	"agenda/internal/models"
)

const prodID = "-//agenda//EN"

// Export writes the given events as a single VCALENDAR document.
func Export(w io.Writer, events []models.Event) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, prodID)

	for _, e := range events {
		cal.Children = append(cal.Children, toVEvent(e))
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encode calendar: %w", err)
	}
	return nil
}

// toVEvent converts an Event to an ical VEVENT component.
func toVEvent(e models.Event) *ical.Component {
	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, e.ID.String())
	ve.Props.SetText(ical.PropSummary, e.Name)
	ve.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())
	ve.Props.SetDateTime(ical.PropDateTimeStart, e.Start)
	ve.Props.SetDateTime(ical.PropDateTimeEnd, e.End)
	if e.Description != "" {
		ve.Props.SetText(ical.PropDescription, e.Description)
	}
	return ve
}

// Import parses an iCalendar document into events. A VEVENT whose UID
// is a UUID keeps it as its ID; otherwise a fresh one is generated.
// Timestamps are truncated to minute precision on the way in.
func Import(r io.Reader) ([]models.Event, error) {
	cal, err := ical.NewDecoder(r).Decode()
	if err != nil {
		return nil, fmt.Errorf("decode calendar: %w", err)
	}

	var events []models.Event
	for _, comp := range cal.Children {
		if comp.Name != ical.CompEvent {
			continue
		}
		e, err := fromVEvent(comp)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}

func fromVEvent(comp *ical.Component) (models.Event, error) {
	var name, description, uid string
	if p := comp.Props.Get(ical.PropSummary); p != nil {
		name = p.Value
	}
	if p := comp.Props.Get(ical.PropDescription); p != nil {
		description = p.Value
	}
	if p := comp.Props.Get(ical.PropUID); p != nil {
		uid = p.Value
	}

	start, err := propDateTime(comp, ical.PropDateTimeStart)
	if err != nil {
		return models.Event{}, err
	}
	end, err := propDateTime(comp, ical.PropDateTimeEnd)
	if err != nil {
		return models.Event{}, err
	}

	id, err := uuid.Parse(uid)
	if err != nil {
		id = uuid.New()
	}
	return models.NewWithID(id, name, start, end, description)
}

func propDateTime(comp *ical.Component, name string) (time.Time, error) {
	p := comp.Props.Get(name)
	if p == nil {
		return time.Time{}, fmt.Errorf("%w: event is missing %s", models.ErrInvalidEvent, name)
	}
	t, err := p.DateTime(time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %s: %w", name, err)
	}
	return t.In(time.Local), nil
}
