package ics

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agenda/internal/models"
)

func mustEvent(t *testing.T, name, start, end, description string) models.Event {
	t.Helper()
	s, err := models.ParseDateTime(start)
	require.NoError(t, err)
	e, err := models.ParseDateTime(end)
	require.NoError(t, err)
	event, err := models.New(name, s, e, description)
	require.NoError(t, err)
	return event
}

func TestExportImportRoundTrip(t *testing.T) {
	events := []models.Event{
		mustEvent(t, "Déjeuner royal", "2024-11-25 12:00", "2024-11-25 14:00", "avec dessert"),
		mustEvent(t, "Daily standup", "2024-11-26 10:00", "2024-11-26 10:15", ""),
	}

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, events), "should export events")
	assert.Contains(t, buf.String(), "BEGIN:VCALENDAR", "should produce a VCALENDAR document")
	assert.Contains(t, buf.String(), "SUMMARY:Déjeuner royal", "should carry event names")

	imported, err := Import(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err, "should import exported document")
	require.Len(t, imported, 2)
	models.SortByStart(imported)

	for i, e := range imported {
		assert.Equal(t, events[i].ID, e.ID, "uuid UID should be kept as the event id")
		assert.Equal(t, events[i].Name, e.Name, "name should survive the round trip")
		assert.True(t, events[i].Start.Equal(e.Start), "start should survive the round trip")
		assert.True(t, events[i].End.Equal(e.End), "end should survive the round trip")
		assert.Equal(t, events[i].Description, e.Description, "description should survive the round trip")
	}
}

func TestImportForeignUIDGetsFreshID(t *testing.T) {
	doc := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//elsewhere//EN",
		"BEGIN:VEVENT",
		"UID:1234@elsewhere.example",
		"DTSTAMP:20241125T000000Z",
		"SUMMARY:Réunion importée",
		"DTSTART:20241125T130000Z",
		"DTEND:20241125T143000Z",
		"END:VEVENT",
		"END:VCALENDAR",
		"",
	}, "\r\n")

	events, err := Import(strings.NewReader(doc))
	require.NoError(t, err, "should import foreign calendar")
	require.Len(t, events, 1)
	assert.Equal(t, "Réunion importée", events[0].Name)
	assert.NotEmpty(t, events[0].ID, "non-uuid UID should be replaced with a fresh id")
	assert.Equal(t, 90, int(events[0].Duration().Minutes()), "times should be parsed")
}

func TestImportRejectsEventWithoutTimes(t *testing.T) {
	doc := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//elsewhere//EN",
		"BEGIN:VEVENT",
		"UID:1234@elsewhere.example",
		"DTSTAMP:20241125T000000Z",
		"SUMMARY:Sans horaire",
		"END:VEVENT",
		"END:VCALENDAR",
		"",
	}, "\r\n")

	_, err := Import(strings.NewReader(doc))
	require.Error(t, err, "an event without DTSTART/DTEND should be rejected")
}
